package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "encore/contexts/contest-operations/contest-service/application"
	"encore/contexts/contest-operations/contest-service/domain/entities"
	domainerrors "encore/contexts/contest-operations/contest-service/domain/errors"
	"encore/contexts/contest-operations/contest-service/ports"
	identityentities "encore/contexts/identity-access/identity-gate/domain/entities"
)

type CreateContestCommand struct {
	Actor                identityentities.Principal
	Title                string
	Description          string
	RegistrationStartsAt time.Time
	RegistrationEndsAt   time.Time
	VotingStartsAt       time.Time
	VotingEndsAt         time.Time
}

type CreateContestUseCase struct {
	Contests ports.ContestRepository
	Clock    ports.Clock
	IDGen    ports.IDGenerator
	Logger   *slog.Logger
}

func (uc CreateContestUseCase) Execute(ctx context.Context, cmd CreateContestCommand) (entities.Contest, error) {
	logger := application.ResolveLogger(uc.Logger)
	if !cmd.Actor.IsAdmin() {
		return entities.Contest{}, domainerrors.ErrForbidden
	}

	now := uc.Clock.Now().UTC()
	contestID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Contest{}, err
	}
	contest := entities.Contest{
		ContestID:            contestID,
		Title:                strings.TrimSpace(cmd.Title),
		Description:          strings.TrimSpace(cmd.Description),
		RegistrationStartsAt: cmd.RegistrationStartsAt.UTC(),
		RegistrationEndsAt:   cmd.RegistrationEndsAt.UTC(),
		VotingStartsAt:       cmd.VotingStartsAt.UTC(),
		VotingEndsAt:         cmd.VotingEndsAt.UTC(),
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if !contest.ValidateBoundaries() {
		return entities.Contest{}, domainerrors.ErrInvalidContestInput
	}
	if err := uc.Contests.CreateContest(ctx, contest); err != nil {
		return entities.Contest{}, err
	}

	logger.Info("contest created",
		"event", "contest_created",
		"module", "contest-operations/contest-service",
		"layer", "application",
		"contest_id", contest.ContestID,
		"registration_starts_at", contest.RegistrationStartsAt,
		"voting_ends_at", contest.VotingEndsAt,
	)
	return contest, nil
}
