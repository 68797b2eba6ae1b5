package unit

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	trackservice "encore/contexts/contest-operations/track-service"
	trackmemory "encore/contexts/contest-operations/track-service/adapters/memory"
	trackcommands "encore/contexts/contest-operations/track-service/application/commands"
	trackentities "encore/contexts/contest-operations/track-service/domain/entities"
	voteledger "encore/contexts/contest-operations/vote-ledger"
	votecommands "encore/contexts/contest-operations/vote-ledger/application/commands"
	voteworkers "encore/contexts/contest-operations/vote-ledger/application/workers"
	voteports "encore/contexts/contest-operations/vote-ledger/ports"
	"encore/internal/platform/messaging"
)

func waitFor(t *testing.T, timeout time.Duration, condition func() bool, message string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal(message)
}

// Exercises the full tally path: a committed vote lands in the outbox, the
// relay publishes it to the broker, and the track consumer refreshes the
// denormalized count.
func TestVoteEventsRefreshTrackTally(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	broker, err := messaging.NewKafka(nil, nil)
	if err != nil {
		t.Fatalf("broker init failed: %v", err)
	}

	trackStore := trackmemory.NewStore()
	trackModule := trackservice.NewModule(trackservice.Dependencies{
		Tracks:     trackStore,
		Payments:   paidFor("artist-1"),
		Gate:       stubSubmissionGate{},
		Winners:    stubWinnerHistory{},
		Subscriber: broker,
		Dedup:      trackStore,
		Clock:      trackStore,
		IDGen:      trackStore,
	})
	if err := trackModule.Consumer.Start(ctx); err != nil {
		t.Fatalf("consumer start failed: %v", err)
	}

	submitted, err := trackModule.Handler.SubmitTrackHandler(ctx, artistPrincipal("artist-1"), submitRequest())
	if err != nil {
		t.Fatalf("submission failed: %v", err)
	}
	trackID := submitted.Data.TrackID
	approved, err := trackModule.Decide.Execute(ctx, trackcommands.ApplyDecisionCommand{
		TrackID:     trackID,
		ModeratorID: "moderator-1",
		Status:      trackentities.TrackStatusApproved,
	})
	if err != nil {
		t.Fatalf("approval failed: %v", err)
	}

	catalog := stubCatalog{refs: map[string]voteports.TrackRef{
		trackID: {
			TrackID:   trackID,
			ContestID: approved.ContestID,
			ArtistID:  approved.ArtistID,
			Title:     approved.Title,
			Approved:  true,
			CreatedAt: approved.CreatedAt,
		},
	}}
	voteModule := voteledger.NewInMemoryModule(catalog, stubVotingGate{}, broker, nil)
	relay := voteworkers.OutboxRelay{
		Outbox:    voteModule.Store,
		Publisher: broker,
		BatchSize: 100,
	}

	if _, err := voteModule.Handler.Cast.Execute(ctx, votecommands.CastVoteCommand{
		VoterID: "voter-1",
		TrackID: trackID,
	}); err != nil {
		t.Fatalf("cast failed: %v", err)
	}
	if err := relay.RunOnce(ctx); err != nil {
		t.Fatalf("relay run failed: %v", err)
	}

	waitFor(t, 2*time.Second, func() bool {
		track, found, err := trackStore.GetTrack(ctx, trackID)
		return err == nil && found && track.VoteCount == 1
	}, "track vote count never reached 1")

	pending, err := voteModule.Store.ListPendingOutbox(ctx, 10)
	if err != nil {
		t.Fatalf("outbox list failed: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("published outbox rows must not stay pending, %d left", len(pending))
	}

	if _, err := voteModule.Handler.Cast.Execute(ctx, votecommands.CastVoteCommand{
		VoterID: "voter-2",
		TrackID: trackID,
	}); err != nil {
		t.Fatalf("second cast failed: %v", err)
	}
	if err := relay.RunOnce(ctx); err != nil {
		t.Fatalf("second relay run failed: %v", err)
	}
	waitFor(t, 2*time.Second, func() bool {
		track, found, err := trackStore.GetTrack(ctx, trackID)
		return err == nil && found && track.VoteCount == 2
	}, "track vote count never reached 2")
}

// A relay retry after a mark failure republishes the same event. The dedup
// reservation must make the second delivery a no-op instead of reapplying it.
func TestDuplicateVoteEventsApplyOnce(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	broker, err := messaging.NewKafka(nil, nil)
	if err != nil {
		t.Fatalf("broker init failed: %v", err)
	}

	trackStore := trackmemory.NewStore()
	trackModule := trackservice.NewModule(trackservice.Dependencies{
		Tracks:     trackStore,
		Payments:   paidFor("artist-1"),
		Gate:       stubSubmissionGate{},
		Winners:    stubWinnerHistory{},
		Subscriber: broker,
		Dedup:      trackStore,
		Clock:      trackStore,
		IDGen:      trackStore,
	})
	if err := trackModule.Consumer.Start(ctx); err != nil {
		t.Fatalf("consumer start failed: %v", err)
	}

	submitted, err := trackModule.Handler.SubmitTrackHandler(ctx, artistPrincipal("artist-1"), submitRequest())
	if err != nil {
		t.Fatalf("submission failed: %v", err)
	}
	trackID := submitted.Data.TrackID
	if _, err := trackModule.Decide.Execute(ctx, trackcommands.ApplyDecisionCommand{
		TrackID:     trackID,
		ModeratorID: "moderator-1",
		Status:      trackentities.TrackStatusApproved,
	}); err != nil {
		t.Fatalf("approval failed: %v", err)
	}

	catalog := stubCatalog{refs: map[string]voteports.TrackRef{
		trackID: {TrackID: trackID, ContestID: "contest-1", ArtistID: "artist-1", Approved: true},
	}}
	voteModule := voteledger.NewInMemoryModule(catalog, stubVotingGate{}, broker, nil)
	if _, err := voteModule.Handler.Cast.Execute(ctx, votecommands.CastVoteCommand{
		VoterID: "voter-1",
		TrackID: trackID,
	}); err != nil {
		t.Fatalf("cast failed: %v", err)
	}

	pending, err := voteModule.Store.ListPendingOutbox(ctx, 10)
	if err != nil || len(pending) != 1 {
		t.Fatalf("expected one pending outbox row, got %d (err %v)", len(pending), err)
	}
	var envelope voteports.EventEnvelope
	if err := json.Unmarshal(pending[0].Payload, &envelope); err != nil {
		t.Fatalf("decode outbox payload: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := broker.Publish(ctx, envelope.EventType, envelope); err != nil {
			t.Fatalf("publish %d failed: %v", i, err)
		}
	}

	waitFor(t, 2*time.Second, func() bool {
		track, found, err := trackStore.GetTrack(ctx, trackID)
		return err == nil && found && track.VoteCount == 1
	}, "track vote count never reached 1")

	// Give the duplicate delivery time to drain, then confirm it was ignored.
	time.Sleep(100 * time.Millisecond)
	track, _, err := trackStore.GetTrack(ctx, trackID)
	if err != nil {
		t.Fatalf("track lookup failed: %v", err)
	}
	if track.VoteCount != 1 {
		t.Fatalf("duplicate event must not change the tally, got %d", track.VoteCount)
	}
}
