package queries

import (
	"context"
	"sort"
	"strings"

	"encore/contexts/contest-operations/vote-ledger/domain/entities"
	domainerrors "encore/contexts/contest-operations/vote-ledger/domain/errors"
	"encore/contexts/contest-operations/vote-ledger/ports"
)

// Rank is one leaderboard row. Percentage is the track's share of all votes
// in the contest, zero when the contest has no votes yet.
type Rank struct {
	Position   int
	TrackID    string
	Title      string
	ArtistID   string
	ArtistName string
	VoteCount  int64
	Percentage float64
}

type VoterStatus struct {
	HasVoted bool
	Vote     entities.Vote
}

// LeaderboardUseCase derives standings from ledger rows on every read. The
// denormalized count on tracks is a cache; it never feeds these results.
type LeaderboardUseCase struct {
	Votes  ports.VoteRepository
	Tracks ports.TrackCatalog
}

// Standings ranks every approved track of a contest, including tracks with
// zero votes. Ties break toward the earliest submitted track.
func (uc LeaderboardUseCase) Standings(ctx context.Context, contestID string) ([]Rank, error) {
	contestID = strings.TrimSpace(contestID)
	if contestID == "" {
		return nil, domainerrors.ErrInvalidVoteInput
	}

	tracks, err := uc.Tracks.ApprovedTrackRefs(ctx, contestID)
	if err != nil {
		return nil, err
	}
	tally, err := uc.Votes.TallyByContest(ctx, contestID)
	if err != nil {
		return nil, err
	}

	var total int64
	for _, count := range tally {
		total += count
	}

	ranks := make([]Rank, 0, len(tracks))
	for _, track := range tracks {
		ranks = append(ranks, Rank{
			TrackID:    track.TrackID,
			Title:      track.Title,
			ArtistID:   track.ArtistID,
			ArtistName: track.ArtistName,
			VoteCount:  tally[track.TrackID],
		})
	}
	creationOrder := make(map[string]int64, len(tracks))
	for _, track := range tracks {
		creationOrder[track.TrackID] = track.CreatedAt.UTC().UnixNano()
	}
	sort.Slice(ranks, func(i, j int) bool {
		if ranks[i].VoteCount != ranks[j].VoteCount {
			return ranks[i].VoteCount > ranks[j].VoteCount
		}
		if creationOrder[ranks[i].TrackID] != creationOrder[ranks[j].TrackID] {
			return creationOrder[ranks[i].TrackID] < creationOrder[ranks[j].TrackID]
		}
		return ranks[i].TrackID < ranks[j].TrackID
	})
	for i := range ranks {
		ranks[i].Position = i + 1
		if total > 0 {
			ranks[i].Percentage = float64(ranks[i].VoteCount) / float64(total) * 100
		}
	}
	return ranks, nil
}

// Status reports whether a voter already holds a ledger row for the contest.
func (uc LeaderboardUseCase) Status(ctx context.Context, contestID string, voterID string) (VoterStatus, error) {
	contestID = strings.TrimSpace(contestID)
	voterID = strings.TrimSpace(voterID)
	if contestID == "" || voterID == "" {
		return VoterStatus{}, domainerrors.ErrInvalidVoteInput
	}
	vote, found, err := uc.Votes.GetVoteByVoter(ctx, contestID, voterID)
	if err != nil {
		return VoterStatus{}, err
	}
	return VoterStatus{HasVoted: found, Vote: vote}, nil
}

// Tally exposes raw per-track ledger counts for a contest.
func (uc LeaderboardUseCase) Tally(ctx context.Context, contestID string) (map[string]int64, error) {
	contestID = strings.TrimSpace(contestID)
	if contestID == "" {
		return nil, domainerrors.ErrInvalidVoteInput
	}
	return uc.Votes.TallyByContest(ctx, contestID)
}
