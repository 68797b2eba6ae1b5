package commands

import (
	"context"
	"log/slog"
	"strings"

	application "encore/contexts/contest-operations/contest-service/application"
	"encore/contexts/contest-operations/contest-service/domain/entities"
	domainerrors "encore/contexts/contest-operations/contest-service/domain/errors"
	"encore/contexts/contest-operations/contest-service/ports"
	identityentities "encore/contexts/identity-access/identity-gate/domain/entities"
)

type ArchiveContestCommand struct {
	Actor     identityentities.Principal
	ContestID string
}

// ArchiveContestUseCase retires a contest from the current rotation.
// Contests are never deleted; archived rows stay readable forever.
type ArchiveContestUseCase struct {
	Contests ports.ContestRepository
	Clock    ports.Clock
	Logger   *slog.Logger
}

func (uc ArchiveContestUseCase) Execute(ctx context.Context, cmd ArchiveContestCommand) (entities.Contest, error) {
	logger := application.ResolveLogger(uc.Logger)
	if !cmd.Actor.IsAdmin() {
		return entities.Contest{}, domainerrors.ErrForbidden
	}
	contest, err := uc.Contests.GetContest(ctx, strings.TrimSpace(cmd.ContestID))
	if err != nil {
		return entities.Contest{}, err
	}
	if contest.Archived {
		return contest, nil
	}

	contest.Archived = true
	contest.UpdatedAt = uc.Clock.Now().UTC()
	if err := uc.Contests.UpdateContest(ctx, contest); err != nil {
		return entities.Contest{}, err
	}
	logger.Info("contest archived",
		"event", "contest_archived",
		"module", "contest-operations/contest-service",
		"layer", "application",
		"contest_id", contest.ContestID,
	)
	return contest, nil
}
