package application

import (
	"context"
	"errors"
	"testing"

	"encore/contexts/moderation-safety/moderation-service/adapters/memory"
	domainerrors "encore/contexts/moderation-safety/moderation-service/domain/errors"
	"encore/contexts/moderation-safety/moderation-service/ports"
)

type fakeTrackClient struct {
	approved map[string]int
	rejected map[string]int
	err      error
}

func newFakeTrackClient() *fakeTrackClient {
	return &fakeTrackClient{
		approved: make(map[string]int),
		rejected: make(map[string]int),
	}
}

func (c *fakeTrackClient) ApproveTrack(_ context.Context, trackID string, _ string, _ string) error {
	if c.err != nil {
		return c.err
	}
	c.approved[trackID]++
	return nil
}

func (c *fakeTrackClient) RejectTrack(_ context.Context, trackID string, _ string, _ string) error {
	if c.err != nil {
		return c.err
	}
	c.rejected[trackID]++
	return nil
}

func newService(client ports.TrackDecisionClient) (Service, *memory.Store) {
	store := memory.NewStore()
	return Service{
		Repo:        store,
		Idempotency: store,
		TrackClient: client,
		Clock:       store,
		IDGen:       store,
	}, store
}

func TestApproveRoutesDecisionOnce(t *testing.T) {
	client := newFakeTrackClient()
	svc, _ := newService(client)

	input := ports.ModerationActionInput{TrackID: "track-1", ContestID: "contest-1", Reason: "clean audio"}
	first, err := svc.Approve(context.Background(), "mod-key-1", "mod-1", input)
	if err != nil {
		t.Fatalf("first approve failed: %v", err)
	}
	second, err := svc.Approve(context.Background(), "mod-key-1", "mod-1", input)
	if err != nil {
		t.Fatalf("second approve failed: %v", err)
	}
	if first.DecisionID != second.DecisionID {
		t.Fatalf("expected idempotent replay with same decision id")
	}
	if client.approved["track-1"] != 1 {
		t.Fatalf("expected exactly one routed approval, got %d", client.approved["track-1"])
	}
}

func TestRejectRequiresReason(t *testing.T) {
	svc, _ := newService(newFakeTrackClient())
	_, err := svc.Reject(context.Background(), "mod-key-2", "mod-1", ports.ModerationActionInput{
		TrackID:   "track-1",
		ContestID: "contest-1",
	})
	if !errors.Is(err, domainerrors.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestIdempotencyConflictOnDifferentPayload(t *testing.T) {
	client := newFakeTrackClient()
	svc, _ := newService(client)

	_, err := svc.Reject(context.Background(), "mod-key-3", "mod-1", ports.ModerationActionInput{
		TrackID:   "track-1",
		ContestID: "contest-1",
		Reason:    "duplicate entry",
	})
	if err != nil {
		t.Fatalf("seed reject failed: %v", err)
	}
	_, err = svc.Reject(context.Background(), "mod-key-3", "mod-1", ports.ModerationActionInput{
		TrackID:   "track-1",
		ContestID: "contest-1",
		Reason:    "copyright strike",
	})
	if !errors.Is(err, domainerrors.ErrIdempotencyConflict) {
		t.Fatalf("expected ErrIdempotencyConflict, got %v", err)
	}
}

func TestDecisionNotRecordedWhenRoutingFails(t *testing.T) {
	client := newFakeTrackClient()
	client.err = errors.New("track module down")
	svc, store := newService(client)

	_, err := svc.Approve(context.Background(), "mod-key-4", "mod-1", ports.ModerationActionInput{
		TrackID:   "track-1",
		ContestID: "contest-1",
	})
	if err == nil {
		t.Fatalf("expected routing failure to surface")
	}
	records, err := store.ListDecisionsByContest(context.Background(), "contest-1", 10, 0)
	if err != nil {
		t.Fatalf("list decisions failed: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected no recorded decision after routing failure, got %d", len(records))
	}
}
