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

type FinalizeWinnerCommand struct {
	Actor     identityentities.Principal
	ContestID string
}

type FinalizeWinnerResult struct {
	Winner   entities.ContestWinner
	Replayed bool
}

// FinalizeWinnerUseCase computes the winner from the vote ledger and records
// it insert-if-absent. Finalizing twice observes the stored row and returns
// it unchanged; the standings tie-break (count desc, then earliest track
// creation) makes recomputation deterministic anyway.
type FinalizeWinnerUseCase struct {
	Contests ports.ContestRepository
	Winners  ports.WinnerRepository
	Tallies  ports.TallySource
	Clock    ports.Clock
	IDGen    ports.IDGenerator
	Logger   *slog.Logger
}

func (uc FinalizeWinnerUseCase) Execute(ctx context.Context, cmd FinalizeWinnerCommand) (FinalizeWinnerResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	if !cmd.Actor.IsAdmin() {
		return FinalizeWinnerResult{}, domainerrors.ErrForbidden
	}
	contest, err := uc.Contests.GetContest(ctx, strings.TrimSpace(cmd.ContestID))
	if err != nil {
		return FinalizeWinnerResult{}, err
	}

	now := uc.Clock.Now().UTC()
	phase := contest.PhaseAt(now)
	if !entities.IsOperationAllowed(entities.OperationWinnerFinalization, phase) {
		return FinalizeWinnerResult{}, domainerrors.ErrVotingStillOpen
	}

	if existing, found, err := uc.Winners.GetWinner(ctx, contest.ContestID); err != nil {
		return FinalizeWinnerResult{}, err
	} else if found {
		return FinalizeWinnerResult{Winner: existing, Replayed: true}, nil
	}

	standings, err := uc.Tallies.ContestStandings(ctx, contest.ContestID)
	if err != nil {
		return FinalizeWinnerResult{}, err
	}
	if len(standings) == 0 {
		return FinalizeWinnerResult{}, domainerrors.ErrNoEligibleTracks
	}
	top := standings[0]
	for _, standing := range standings[1:] {
		if standing.VoteCount > top.VoteCount ||
			(standing.VoteCount == top.VoteCount && standing.TrackCreatedAt.Before(top.TrackCreatedAt)) {
			top = standing
		}
	}

	winnerID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return FinalizeWinnerResult{}, err
	}
	winner, inserted, err := uc.Winners.SaveWinner(ctx, entities.ContestWinner{
		WinnerID:       winnerID,
		ContestID:      contest.ContestID,
		TrackID:        top.TrackID,
		ArtistID:       top.ArtistID,
		FinalVoteCount: top.VoteCount,
		FinalizedAt:    now,
	})
	if err != nil {
		return FinalizeWinnerResult{}, err
	}

	logger.Info("contest winner finalized",
		"event", "contest_winner_finalized",
		"module", "contest-operations/contest-service",
		"layer", "application",
		"contest_id", contest.ContestID,
		"track_id", winner.TrackID,
		"final_vote_count", winner.FinalVoteCount,
		"replayed", !inserted,
	)
	return FinalizeWinnerResult{Winner: winner, Replayed: !inserted}, nil
}
