package queries

import (
	"context"
	"strings"
	"time"

	"encore/contexts/contest-operations/contest-service/domain/entities"
	domainerrors "encore/contexts/contest-operations/contest-service/domain/errors"
	"encore/contexts/contest-operations/contest-service/ports"
)

// ContestState is a contest snapshot with its phase derived at read time.
type ContestState struct {
	Contest          entities.Contest
	Phase            entities.Phase
	PhaseEndsAt      time.Time
	SecondsRemaining int64
	Winner           *entities.ContestWinner
}

type ContestUseCase struct {
	Contests ports.ContestRepository
	Winners  ports.WinnerRepository
	Clock    ports.Clock
}

func (uc ContestUseCase) GetContest(ctx context.Context, contestID string) (ContestState, error) {
	contest, err := uc.Contests.GetContest(ctx, strings.TrimSpace(contestID))
	if err != nil {
		return ContestState{}, err
	}
	return uc.stateOf(ctx, contest)
}

func (uc ContestUseCase) CurrentContest(ctx context.Context) (ContestState, error) {
	contest, found, err := uc.Contests.CurrentContest(ctx)
	if err != nil {
		return ContestState{}, err
	}
	if !found {
		return ContestState{}, domainerrors.ErrNoCurrentContest
	}
	return uc.stateOf(ctx, contest)
}

func (uc ContestUseCase) ListContests(ctx context.Context) ([]ContestState, error) {
	contests, err := uc.Contests.ListContests(ctx)
	if err != nil {
		return nil, err
	}
	states := make([]ContestState, 0, len(contests))
	for _, contest := range contests {
		state, err := uc.stateOf(ctx, contest)
		if err != nil {
			return nil, err
		}
		states = append(states, state)
	}
	return states, nil
}

func (uc ContestUseCase) stateOf(ctx context.Context, contest entities.Contest) (ContestState, error) {
	now := uc.Clock.Now().UTC()
	phase := contest.PhaseAt(now)
	state := ContestState{
		Contest:     contest,
		Phase:       phase,
		PhaseEndsAt: contest.PhaseEndsAt(phase),
	}
	if !state.PhaseEndsAt.IsZero() {
		state.SecondsRemaining = int64(state.PhaseEndsAt.Sub(now) / time.Second)
	}
	if phase == entities.PhaseClosed && uc.Winners != nil {
		winner, found, err := uc.Winners.GetWinner(ctx, contest.ContestID)
		if err != nil {
			return ContestState{}, err
		}
		if found {
			state.Winner = &winner
		}
	}
	return state, nil
}
