package httpadapter

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"encore/contexts/contest-operations/vote-ledger/application/commands"
	"encore/contexts/contest-operations/vote-ledger/application/queries"
	"encore/contexts/contest-operations/vote-ledger/domain/entities"
	domainerrors "encore/contexts/contest-operations/vote-ledger/domain/errors"
	httptransport "encore/contexts/contest-operations/vote-ledger/transport/http"
	identityentities "encore/contexts/identity-access/identity-gate/domain/entities"
)

type Handler struct {
	Cast        commands.CastVoteUseCase
	Leaderboard queries.LeaderboardUseCase
	Logger      *slog.Logger
}

func (h Handler) CastVoteHandler(
	ctx context.Context,
	actor identityentities.Principal,
	remoteAddr string,
	userAgent string,
	req httptransport.CastVoteRequest,
) (httptransport.CastVoteResponse, error) {
	result, err := h.Cast.Execute(ctx, commands.CastVoteCommand{
		VoterID:   actor.UserID,
		TrackID:   req.TrackID,
		IPAddress: remoteAddr,
		UserAgent: userAgent,
	})
	if err != nil {
		// A duplicate cast still tells the voter which track holds their vote.
		if errors.Is(err, domainerrors.ErrAlreadyVoted) {
			return httptransport.CastVoteResponse{
				Status: "already_voted",
				Data:   toVoteDTO(result.Vote),
			}, err
		}
		return httptransport.CastVoteResponse{}, err
	}
	return httptransport.CastVoteResponse{
		Status:    "success",
		Data:      toVoteDTO(result.Vote),
		VoteCount: result.VoteCount,
	}, nil
}

func (h Handler) VoterStatusHandler(
	ctx context.Context,
	actor identityentities.Principal,
	contestID string,
) (httptransport.VoterStatusResponse, error) {
	status, err := h.Leaderboard.Status(ctx, contestID, actor.UserID)
	if err != nil {
		return httptransport.VoterStatusResponse{}, err
	}
	resp := httptransport.VoterStatusResponse{Status: "success"}
	resp.Data.HasVoted = status.HasVoted
	if status.HasVoted {
		vote := toVoteDTO(status.Vote)
		resp.Data.Vote = &vote
	}
	return resp, nil
}

func (h Handler) LeaderboardHandler(
	ctx context.Context,
	contestID string,
) (httptransport.LeaderboardResponse, error) {
	ranks, err := h.Leaderboard.Standings(ctx, contestID)
	if err != nil {
		return httptransport.LeaderboardResponse{}, err
	}
	resp := httptransport.LeaderboardResponse{
		Status:    "success",
		ContestID: contestID,
		Data:      make([]httptransport.RankDTO, 0, len(ranks)),
	}
	for _, rank := range ranks {
		resp.Data = append(resp.Data, httptransport.RankDTO{
			Position:   rank.Position,
			TrackID:    rank.TrackID,
			Title:      rank.Title,
			ArtistID:   rank.ArtistID,
			ArtistName: rank.ArtistName,
			VoteCount:  rank.VoteCount,
			Percentage: rank.Percentage,
		})
	}
	return resp, nil
}

func toVoteDTO(vote entities.Vote) httptransport.VoteDTO {
	return httptransport.VoteDTO{
		VoteID:    vote.VoteID,
		ContestID: vote.ContestID,
		TrackID:   vote.TrackID,
		CastAt:    vote.CreatedAt.UTC().Format(time.RFC3339),
	}
}
