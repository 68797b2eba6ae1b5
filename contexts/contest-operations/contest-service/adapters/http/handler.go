package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"encore/contexts/contest-operations/contest-service/application/commands"
	"encore/contexts/contest-operations/contest-service/application/queries"
	"encore/contexts/contest-operations/contest-service/domain/entities"
	domainerrors "encore/contexts/contest-operations/contest-service/domain/errors"
	httptransport "encore/contexts/contest-operations/contest-service/transport/http"
	identityentities "encore/contexts/identity-access/identity-gate/domain/entities"
)

type Handler struct {
	Create   commands.CreateContestUseCase
	Archive  commands.ArchiveContestUseCase
	Finalize commands.FinalizeWinnerUseCase
	Contests queries.ContestUseCase
	Logger   *slog.Logger
}

func (h Handler) CreateContestHandler(
	ctx context.Context,
	actor identityentities.Principal,
	req httptransport.CreateContestRequest,
) (httptransport.ContestResponse, error) {
	boundaries := make([]time.Time, 0, 4)
	for _, raw := range []string{
		req.RegistrationStartsAt,
		req.RegistrationEndsAt,
		req.VotingStartsAt,
		req.VotingEndsAt,
	} {
		at, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return httptransport.ContestResponse{}, domainerrors.ErrInvalidContestInput
		}
		boundaries = append(boundaries, at)
	}

	contest, err := h.Create.Execute(ctx, commands.CreateContestCommand{
		Actor:                actor,
		Title:                req.Title,
		Description:          req.Description,
		RegistrationStartsAt: boundaries[0],
		RegistrationEndsAt:   boundaries[1],
		VotingStartsAt:       boundaries[2],
		VotingEndsAt:         boundaries[3],
	})
	if err != nil {
		return httptransport.ContestResponse{}, err
	}
	return mapContest(queries.ContestState{
		Contest: contest,
		Phase:   contest.PhaseAt(time.Now().UTC()),
	}), nil
}

func (h Handler) ArchiveContestHandler(
	ctx context.Context,
	actor identityentities.Principal,
	contestID string,
) (httptransport.ContestResponse, error) {
	contest, err := h.Archive.Execute(ctx, commands.ArchiveContestCommand{
		Actor:     actor,
		ContestID: contestID,
	})
	if err != nil {
		return httptransport.ContestResponse{}, err
	}
	return mapContest(queries.ContestState{
		Contest: contest,
		Phase:   contest.PhaseAt(time.Now().UTC()),
	}), nil
}

func (h Handler) FinalizeWinnerHandler(
	ctx context.Context,
	actor identityentities.Principal,
	contestID string,
) (httptransport.WinnerResponse, error) {
	result, err := h.Finalize.Execute(ctx, commands.FinalizeWinnerCommand{
		Actor:     actor,
		ContestID: contestID,
	})
	if err != nil {
		return httptransport.WinnerResponse{}, err
	}
	resp := mapWinner(result.Winner)
	resp.Replayed = result.Replayed
	return resp, nil
}

func (h Handler) GetContestHandler(ctx context.Context, contestID string) (httptransport.ContestResponse, error) {
	state, err := h.Contests.GetContest(ctx, contestID)
	if err != nil {
		return httptransport.ContestResponse{}, err
	}
	return mapContest(state), nil
}

func (h Handler) CurrentContestHandler(ctx context.Context) (httptransport.ContestResponse, error) {
	state, err := h.Contests.CurrentContest(ctx)
	if err != nil {
		return httptransport.ContestResponse{}, err
	}
	return mapContest(state), nil
}

func (h Handler) ListContestsHandler(ctx context.Context) (httptransport.ContestListResponse, error) {
	states, err := h.Contests.ListContests(ctx)
	if err != nil {
		return httptransport.ContestListResponse{}, err
	}
	items := make([]httptransport.ContestResponse, 0, len(states))
	for _, state := range states {
		items = append(items, mapContest(state))
	}
	return httptransport.ContestListResponse{Items: items}, nil
}

func mapContest(state queries.ContestState) httptransport.ContestResponse {
	resp := httptransport.ContestResponse{
		ContestID:            state.Contest.ContestID,
		Title:                state.Contest.Title,
		Description:          state.Contest.Description,
		Phase:                string(state.Phase),
		RegistrationStartsAt: state.Contest.RegistrationStartsAt.Format(time.RFC3339),
		RegistrationEndsAt:   state.Contest.RegistrationEndsAt.Format(time.RFC3339),
		VotingStartsAt:       state.Contest.VotingStartsAt.Format(time.RFC3339),
		VotingEndsAt:         state.Contest.VotingEndsAt.Format(time.RFC3339),
		SecondsRemaining:     state.SecondsRemaining,
		Archived:             state.Contest.Archived,
	}
	if !state.PhaseEndsAt.IsZero() {
		resp.PhaseEndsAt = state.PhaseEndsAt.Format(time.RFC3339)
	}
	if state.Winner != nil {
		winner := mapWinner(*state.Winner)
		resp.Winner = &winner
	}
	return resp
}

func mapWinner(winner entities.ContestWinner) httptransport.WinnerResponse {
	return httptransport.WinnerResponse{
		ContestID:      winner.ContestID,
		TrackID:        winner.TrackID,
		ArtistID:       winner.ArtistID,
		FinalVoteCount: winner.FinalVoteCount,
		FinalizedAt:    winner.FinalizedAt.Format(time.RFC3339),
	}
}
