package bootstrap

import (
	"context"
	"errors"
	"time"

	contestports "encore/contexts/contest-operations/contest-service/ports"
	trackcommands "encore/contexts/contest-operations/track-service/application/commands"
	trackqueries "encore/contexts/contest-operations/track-service/application/queries"
	trackentities "encore/contexts/contest-operations/track-service/domain/entities"
	trackerrors "encore/contexts/contest-operations/track-service/domain/errors"
	trackports "encore/contexts/contest-operations/track-service/ports"
	votequeries "encore/contexts/contest-operations/vote-ledger/application/queries"
	voteports "encore/contexts/contest-operations/vote-ledger/ports"
	paymentapp "encore/contexts/finance-core/payment-verifier/application"
	moderationerrors "encore/contexts/moderation-safety/moderation-service/domain/errors"
	moderationports "encore/contexts/moderation-safety/moderation-service/ports"
)

// paymentStatusClient answers the track module's registration-fee check from
// the payment ledger.
type paymentStatusClient struct {
	payments paymentapp.Service
}

func (c paymentStatusClient) ArtistHasPaid(ctx context.Context, artistID string, contestID string) (bool, error) {
	return c.payments.ArtistHasPaid(ctx, artistID, contestID)
}

// winnerHistory answers the submission cooldown check from recorded winners.
type winnerHistory struct {
	winners contestports.WinnerRepository
}

func (c winnerHistory) WonSince(ctx context.Context, artistID string, since time.Time) (bool, error) {
	wins, err := c.winners.ListWinnersByArtist(ctx, artistID)
	if err != nil {
		return false, err
	}
	for _, win := range wins {
		if !win.FinalizedAt.Before(since) {
			return true, nil
		}
	}
	return false, nil
}

// trackDecisionClient routes moderation decisions into the track module and
// translates its sentinels so moderation transport can classify them.
type trackDecisionClient struct {
	decide trackcommands.ApplyDecisionUseCase
}

func (c trackDecisionClient) ApproveTrack(ctx context.Context, trackID string, moderatorID string, reason string) error {
	return c.route(ctx, trackID, moderatorID, trackentities.TrackStatusApproved, reason)
}

func (c trackDecisionClient) RejectTrack(ctx context.Context, trackID string, moderatorID string, reason string) error {
	return c.route(ctx, trackID, moderatorID, trackentities.TrackStatusRejected, reason)
}

func (c trackDecisionClient) route(ctx context.Context, trackID string, moderatorID string, status string, reason string) error {
	_, err := c.decide.Execute(ctx, trackcommands.ApplyDecisionCommand{
		TrackID:     trackID,
		ModeratorID: moderatorID,
		Status:      status,
		Reason:      reason,
	})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, trackerrors.ErrTrackNotFound):
		return moderationerrors.ErrTrackNotFound
	case errors.Is(err, trackerrors.ErrTrackAlreadyDecided):
		return moderationerrors.ErrTrackAlreadyDecided
	default:
		return err
	}
}

// trackQueueClient feeds pending submissions into the moderation queue.
type trackQueueClient struct {
	tracks trackqueries.TrackUseCase
}

func (c trackQueueClient) PendingTracks(ctx context.Context, contestID string) ([]moderationports.QueueItem, error) {
	tracks, err := c.tracks.PendingTracks(ctx, contestID)
	if err != nil {
		return nil, err
	}
	items := make([]moderationports.QueueItem, 0, len(tracks))
	for _, track := range tracks {
		items = append(items, moderationports.QueueItem{
			TrackID:    track.TrackID,
			ContestID:  track.ContestID,
			ArtistID:   track.ArtistID,
			ArtistName: track.ArtistName,
			Title:      track.Title,
			Genre:      track.Genre,
			AudioURL:   track.AudioURL,
			QueuedAt:   track.CreatedAt,
		})
	}
	return items, nil
}

// trackCatalog exposes track eligibility to the vote ledger.
type trackCatalog struct {
	tracks trackqueries.TrackUseCase
}

func (c trackCatalog) GetTrackRef(ctx context.Context, trackID string) (voteports.TrackRef, bool, error) {
	track, err := c.tracks.GetTrack(ctx, trackID)
	if err != nil {
		if errors.Is(err, trackerrors.ErrTrackNotFound) {
			return voteports.TrackRef{}, false, nil
		}
		return voteports.TrackRef{}, false, err
	}
	return toTrackRef(track), true, nil
}

func (c trackCatalog) ApprovedTrackRefs(ctx context.Context, contestID string) ([]voteports.TrackRef, error) {
	tracks, err := c.tracks.ApprovedTracks(ctx, contestID)
	if err != nil {
		return nil, err
	}
	refs := make([]voteports.TrackRef, 0, len(tracks))
	for _, track := range tracks {
		refs = append(refs, toTrackRef(track))
	}
	return refs, nil
}

func toTrackRef(track trackentities.Track) voteports.TrackRef {
	return voteports.TrackRef{
		TrackID:    track.TrackID,
		ContestID:  track.ContestID,
		ArtistID:   track.ArtistID,
		ArtistName: track.ArtistName,
		Title:      track.Title,
		Approved:   track.Status == trackentities.TrackStatusApproved,
		CreatedAt:  track.CreatedAt,
	}
}

// tallySource hands finalization the ledger-derived standings for every
// approved track, zero-vote tracks included.
type tallySource struct {
	tracks trackqueries.TrackUseCase
	votes  votequeries.LeaderboardUseCase
}

func (c tallySource) ContestStandings(ctx context.Context, contestID string) ([]contestports.TrackStanding, error) {
	tracks, err := c.tracks.ApprovedTracks(ctx, contestID)
	if err != nil {
		return nil, err
	}
	tally, err := c.votes.Tally(ctx, contestID)
	if err != nil {
		return nil, err
	}
	standings := make([]contestports.TrackStanding, 0, len(tracks))
	for _, track := range tracks {
		standings = append(standings, contestports.TrackStanding{
			TrackID:        track.TrackID,
			ArtistID:       track.ArtistID,
			VoteCount:      int(tally[track.TrackID]),
			TrackCreatedAt: track.CreatedAt,
		})
	}
	return standings, nil
}

// trackTallyCache exposes the track module's denormalized vote counts to the
// ledger reconciler.
type trackTallyCache struct {
	tracks trackports.TrackRepository
}

func (c trackTallyCache) CachedCounts(ctx context.Context, contestID string) (map[string]int64, error) {
	tracks, err := c.tracks.ListTracksByContest(ctx, contestID, "")
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(tracks))
	for _, track := range tracks {
		counts[track.TrackID] = track.VoteCount
	}
	return counts, nil
}

func (c trackTallyCache) SetVoteCount(ctx context.Context, trackID string, count int64, updatedAt time.Time) error {
	return c.tracks.SetVoteCount(ctx, trackID, count, updatedAt)
}
