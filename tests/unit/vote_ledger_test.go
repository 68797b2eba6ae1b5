package unit

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	voteledger "encore/contexts/contest-operations/vote-ledger"
	"encore/contexts/contest-operations/vote-ledger/application/commands"
	"encore/contexts/contest-operations/vote-ledger/application/workers"
	domainerrors "encore/contexts/contest-operations/vote-ledger/domain/errors"
	"encore/contexts/contest-operations/vote-ledger/ports"
	httptransport "encore/contexts/contest-operations/vote-ledger/transport/http"
	identityentities "encore/contexts/identity-access/identity-gate/domain/entities"
)

type stubCatalog struct {
	refs map[string]ports.TrackRef
}

func (s stubCatalog) GetTrackRef(_ context.Context, trackID string) (ports.TrackRef, bool, error) {
	ref, ok := s.refs[trackID]
	return ref, ok, nil
}

func (s stubCatalog) ApprovedTrackRefs(_ context.Context, contestID string) ([]ports.TrackRef, error) {
	refs := make([]ports.TrackRef, 0)
	for _, ref := range s.refs {
		if ref.ContestID == contestID && ref.Approved {
			refs = append(refs, ref)
		}
	}
	return refs, nil
}

type stubVotingGate struct {
	err error
}

func (s stubVotingGate) AllowVoteCast(context.Context, string) error {
	return s.err
}

func voterPrincipal(id string) identityentities.Principal {
	return identityentities.Principal{UserID: id, Roles: []string{identityentities.RoleVoter}}
}

func contestCatalog() stubCatalog {
	base := time.Date(2026, 9, 3, 12, 0, 0, 0, time.UTC)
	return stubCatalog{refs: map[string]ports.TrackRef{
		"track-1": {TrackID: "track-1", ContestID: "contest-1", ArtistID: "artist-1", ArtistName: "Nova Ray", Title: "Night Drive", Approved: true, CreatedAt: base},
		"track-2": {TrackID: "track-2", ContestID: "contest-1", ArtistID: "artist-2", ArtistName: "Kele Sound", Title: "Harbor Lights", Approved: true, CreatedAt: base.Add(time.Hour)},
		"track-3": {TrackID: "track-3", ContestID: "contest-1", ArtistID: "artist-3", ArtistName: "June Mara", Title: "Slow Burn", Approved: false, CreatedAt: base.Add(2 * time.Hour)},
	}}
}

func TestCastVoteCommitsOnceAndWritesOutbox(t *testing.T) {
	module := voteledger.NewInMemoryModule(contestCatalog(), stubVotingGate{}, nil, nil)

	resp, err := module.Handler.CastVoteHandler(
		context.Background(),
		voterPrincipal("voter-1"),
		"203.0.113.9",
		"unit-test",
		httptransport.CastVoteRequest{TrackID: "track-1"},
	)
	if err != nil {
		t.Fatalf("cast vote failed: %v", err)
	}
	if resp.VoteCount != 1 {
		t.Fatalf("expected tally 1 after first vote, got %d", resp.VoteCount)
	}
	if resp.Data.ContestID != "contest-1" || resp.Data.TrackID != "track-1" {
		t.Fatalf("vote row mismatch: %+v", resp.Data)
	}

	pending, err := module.Store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list outbox failed: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected one pending outbox message, got %d", len(pending))
	}
	if pending[0].EventType != "vote.committed" {
		t.Fatalf("unexpected event type %s", pending[0].EventType)
	}
	if pending[0].PartitionKey != "track-1" {
		t.Fatalf("outbox must partition by track, got %s", pending[0].PartitionKey)
	}
}

func TestCastVoteSecondAttemptKeepsOriginal(t *testing.T) {
	module := voteledger.NewInMemoryModule(contestCatalog(), stubVotingGate{}, nil, nil)

	first, err := module.Handler.CastVoteHandler(
		context.Background(), voterPrincipal("voter-1"), "", "", httptransport.CastVoteRequest{TrackID: "track-1"})
	if err != nil {
		t.Fatalf("first vote failed: %v", err)
	}

	second, err := module.Handler.CastVoteHandler(
		context.Background(), voterPrincipal("voter-1"), "", "", httptransport.CastVoteRequest{TrackID: "track-2"})
	if !errors.Is(err, domainerrors.ErrAlreadyVoted) {
		t.Fatalf("expected already-voted on second attempt, got %v", err)
	}
	if second.Status != "already_voted" {
		t.Fatalf("expected already_voted status, got %q", second.Status)
	}
	if second.Data.VoteID != first.Data.VoteID || second.Data.TrackID != "track-1" {
		t.Fatalf("conflict response must carry the stored vote, got %+v", second.Data)
	}

	status, err := module.Leaderboard.Status(context.Background(), "contest-1", "voter-1")
	if err != nil {
		t.Fatalf("voter status failed: %v", err)
	}
	if !status.HasVoted || status.Vote.VoteID != first.Data.VoteID || status.Vote.TrackID != "track-1" {
		t.Fatalf("ledger must keep the original vote, got %+v", status)
	}
}

func TestCastVoteRejectsIneligibleTracks(t *testing.T) {
	module := voteledger.NewInMemoryModule(contestCatalog(), stubVotingGate{}, nil, nil)

	if _, err := module.Handler.CastVoteHandler(
		context.Background(), voterPrincipal("voter-1"), "", "", httptransport.CastVoteRequest{TrackID: "track-3"}); !errors.Is(err, domainerrors.ErrTrackNotEligible) {
		t.Fatalf("expected not-eligible for pending track, got %v", err)
	}
	if _, err := module.Handler.CastVoteHandler(
		context.Background(), voterPrincipal("voter-1"), "", "", httptransport.CastVoteRequest{TrackID: "track-404"}); !errors.Is(err, domainerrors.ErrTrackNotEligible) {
		t.Fatalf("expected not-eligible for unknown track, got %v", err)
	}
}

func TestArtistMayVoteForOwnTrack(t *testing.T) {
	module := voteledger.NewInMemoryModule(contestCatalog(), stubVotingGate{}, nil, nil)

	resp, err := module.Handler.CastVoteHandler(
		context.Background(), voterPrincipal("artist-1"), "", "", httptransport.CastVoteRequest{TrackID: "track-1"})
	if err != nil {
		t.Fatalf("own-track vote failed: %v", err)
	}
	if resp.Data.TrackID != "track-1" || resp.VoteCount != 1 {
		t.Fatalf("unexpected own-track vote response: %+v", resp)
	}
}

func TestCastVoteHonorsVotingWindow(t *testing.T) {
	module := voteledger.NewInMemoryModule(contestCatalog(), stubVotingGate{err: domainerrors.ErrVotingClosed}, nil, nil)

	if _, err := module.Handler.CastVoteHandler(
		context.Background(), voterPrincipal("voter-1"), "", "", httptransport.CastVoteRequest{TrackID: "track-1"}); !errors.Is(err, domainerrors.ErrVotingClosed) {
		t.Fatalf("expected voting-closed, got %v", err)
	}
}

func TestConcurrentVotesCommitExactlyOne(t *testing.T) {
	module := voteledger.NewInMemoryModule(contestCatalog(), stubVotingGate{}, nil, nil)

	const attempts = 16
	var committed atomic.Int64
	var rejected atomic.Int64
	var mu sync.Mutex
	var winnerTrack string
	loserTracks := make([]string, 0, attempts-1)
	var wg sync.WaitGroup
	wg.Add(attempts)
	for i := 0; i < attempts; i++ {
		track := "track-1"
		if i%2 == 1 {
			track = "track-2"
		}
		go func(trackID string) {
			defer wg.Done()
			result, err := module.Handler.Cast.Execute(context.Background(), commands.CastVoteCommand{
				VoterID: "voter-1",
				TrackID: trackID,
			})
			switch {
			case err == nil:
				committed.Add(1)
				mu.Lock()
				winnerTrack = result.Vote.TrackID
				mu.Unlock()
			case errors.Is(err, domainerrors.ErrAlreadyVoted):
				rejected.Add(1)
				mu.Lock()
				loserTracks = append(loserTracks, result.Vote.TrackID)
				mu.Unlock()
			default:
				t.Errorf("unexpected cast error: %v", err)
			}
		}(track)
	}
	wg.Wait()

	if committed.Load() != 1 {
		t.Fatalf("expected exactly one committed vote, got %d", committed.Load())
	}
	if rejected.Load() != attempts-1 {
		t.Fatalf("expected %d duplicate rejections, got %d", attempts-1, rejected.Load())
	}
	for _, track := range loserTracks {
		if track != winnerTrack {
			t.Fatalf("losing cast must report the committed track %q, got %q", winnerTrack, track)
		}
	}

	tally, err := module.Leaderboard.Tally(context.Background(), "contest-1")
	if err != nil {
		t.Fatalf("tally failed: %v", err)
	}
	var total int64
	for _, count := range tally {
		total += count
	}
	if total != 1 {
		t.Fatalf("ledger must hold one vote for the voter, got %d", total)
	}
}

func TestLeaderboardDerivesFromLedger(t *testing.T) {
	module := voteledger.NewInMemoryModule(contestCatalog(), stubVotingGate{}, nil, nil)

	votes := map[string]string{
		"voter-1": "track-2",
		"voter-2": "track-2",
		"voter-3": "track-1",
	}
	for voter, track := range votes {
		if _, err := module.Handler.Cast.Execute(context.Background(), commands.CastVoteCommand{
			VoterID: voter,
			TrackID: track,
		}); err != nil {
			t.Fatalf("vote by %s failed: %v", voter, err)
		}
	}

	ranks, err := module.Leaderboard.Standings(context.Background(), "contest-1")
	if err != nil {
		t.Fatalf("standings failed: %v", err)
	}
	if len(ranks) != 2 {
		t.Fatalf("only approved tracks belong on the leaderboard, got %d rows", len(ranks))
	}
	if ranks[0].TrackID != "track-2" || ranks[0].Position != 1 || ranks[0].VoteCount != 2 {
		t.Fatalf("unexpected leader: %+v", ranks[0])
	}
	if ranks[1].TrackID != "track-1" || ranks[1].VoteCount != 1 {
		t.Fatalf("unexpected runner-up: %+v", ranks[1])
	}
	wantLeaderShare := float64(2) / float64(3) * 100
	if diff := ranks[0].Percentage - wantLeaderShare; diff > 0.01 || diff < -0.01 {
		t.Fatalf("expected leader share near %.2f, got %.2f", wantLeaderShare, ranks[0].Percentage)
	}
}

func TestLeaderboardTieBreaksOnEarliestTrack(t *testing.T) {
	module := voteledger.NewInMemoryModule(contestCatalog(), stubVotingGate{}, nil, nil)

	for voter, track := range map[string]string{"voter-1": "track-1", "voter-2": "track-2"} {
		if _, err := module.Handler.Cast.Execute(context.Background(), commands.CastVoteCommand{
			VoterID: voter,
			TrackID: track,
		}); err != nil {
			t.Fatalf("vote by %s failed: %v", voter, err)
		}
	}

	ranks, err := module.Leaderboard.Standings(context.Background(), "contest-1")
	if err != nil {
		t.Fatalf("standings failed: %v", err)
	}
	if ranks[0].TrackID != "track-1" {
		t.Fatalf("tie must rank the earlier submission first, got %s", ranks[0].TrackID)
	}
}

type stubTallyCache struct {
	mu     sync.Mutex
	counts map[string]int64
}

func (s *stubTallyCache) CachedCounts(context.Context, string) (map[string]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := make(map[string]int64, len(s.counts))
	for trackID, count := range s.counts {
		counts[trackID] = count
	}
	return counts, nil
}

func (s *stubTallyCache) SetVoteCount(_ context.Context, trackID string, count int64, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[trackID] = count
	return nil
}

func TestReconcileRepairsDriftedCounts(t *testing.T) {
	module := voteledger.NewInMemoryModule(contestCatalog(), stubVotingGate{}, nil, nil)

	for voter, track := range map[string]string{
		"voter-1": "track-1",
		"voter-2": "track-1",
		"voter-3": "track-2",
	} {
		if _, err := module.Handler.Cast.Execute(context.Background(), commands.CastVoteCommand{
			VoterID: voter,
			TrackID: track,
		}); err != nil {
			t.Fatalf("vote by %s failed: %v", voter, err)
		}
	}

	cache := &stubTallyCache{counts: map[string]int64{
		"track-1": 7, // drifted high
		"track-2": 1, // in sync
	}}
	reconciler := workers.TallyReconciler{Votes: module.Store, Cache: cache}

	drifts, err := reconciler.ReconcileContest(context.Background(), "contest-1")
	if err != nil {
		t.Fatalf("reconcile failed: %v", err)
	}
	if len(drifts) != 1 || drifts[0].TrackID != "track-1" || drifts[0].Cached != 7 || drifts[0].Ledger != 2 {
		t.Fatalf("unexpected drift report: %+v", drifts)
	}
	if cache.counts["track-1"] != 2 || cache.counts["track-2"] != 1 {
		t.Fatalf("cache not repaired to ledger values: %+v", cache.counts)
	}

	again, err := reconciler.ReconcileContest(context.Background(), "contest-1")
	if err != nil {
		t.Fatalf("second reconcile failed: %v", err)
	}
	if len(again) != 0 {
		t.Fatalf("repaired cache must report zero drift, got %+v", again)
	}
}

func TestLeaderboardIncludesZeroVoteTracks(t *testing.T) {
	module := voteledger.NewInMemoryModule(contestCatalog(), stubVotingGate{}, nil, nil)

	ranks, err := module.Leaderboard.Standings(context.Background(), "contest-1")
	if err != nil {
		t.Fatalf("standings failed: %v", err)
	}
	if len(ranks) != 2 {
		t.Fatalf("expected both approved tracks with zero votes, got %d", len(ranks))
	}
	for _, rank := range ranks {
		if rank.VoteCount != 0 || rank.Percentage != 0 {
			t.Fatalf("zero-vote leaderboard must carry zero counts, got %+v", rank)
		}
	}
}
