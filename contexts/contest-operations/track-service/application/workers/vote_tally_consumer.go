package workers

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	application "encore/contexts/contest-operations/track-service/application"
	"encore/contexts/contest-operations/track-service/ports"
)

const (
	voteCommittedTopic           = "vote.committed"
	defaultVoteCommittedConsumer = "track-service-vote-committed-cg"
)

// VoteTallyConsumer keeps the per-track vote count cache current from
// committed vote events. Each event carries the ledger tally at commit time,
// so replays and out-of-order delivery settle on the ledger's value.
type VoteTallyConsumer struct {
	Subscriber    ports.EventSubscriber
	Tracks        ports.TrackRepository
	Dedup         ports.EventDedupStore
	Clock         ports.Clock
	ConsumerGroup string
	DedupTTL      time.Duration
	Logger        *slog.Logger
}

func (c VoteTallyConsumer) Start(ctx context.Context) error {
	group := strings.TrimSpace(c.ConsumerGroup)
	if group == "" {
		group = defaultVoteCommittedConsumer
	}
	return c.Subscriber.Subscribe(ctx, voteCommittedTopic, group, c.handleVoteCommitted)
}

func (c VoteTallyConsumer) handleVoteCommitted(ctx context.Context, event ports.EventEnvelope) error {
	logger := application.ResolveLogger(c.Logger)
	now := time.Now().UTC()
	if c.Clock != nil {
		now = c.Clock.Now().UTC()
	}

	if c.Dedup != nil {
		alreadyProcessed, err := c.Dedup.ReserveEvent(ctx, event.EventID, hashPayload(event.Data), now.Add(c.dedupTTL()))
		if err != nil {
			logger.Error("vote.committed dedupe failed",
				"event", "track_vote_committed_dedupe_failed",
				"module", "contest-operations/track-service",
				"layer", "worker",
				"event_id", event.EventID,
				"error", err.Error(),
			)
			return err
		}
		if alreadyProcessed {
			logger.Debug("vote.committed already processed",
				"event", "track_vote_committed_replayed",
				"module", "contest-operations/track-service",
				"layer", "worker",
				"event_id", event.EventID,
			)
			return nil
		}
	}

	var payload struct {
		TrackID   string `json:"track_id"`
		ContestID string `json:"contest_id"`
		VoteCount int64  `json:"vote_count"`
	}
	if err := json.Unmarshal(event.Data, &payload); err != nil {
		return fmt.Errorf("decode vote.committed payload: %w", err)
	}
	if strings.TrimSpace(payload.TrackID) == "" {
		return fmt.Errorf("vote.committed payload missing track_id")
	}

	if err := c.Tracks.SetVoteCount(ctx, payload.TrackID, payload.VoteCount, now); err != nil {
		return err
	}

	logger.Info("track vote count refreshed",
		"event", "track_vote_count_refreshed",
		"module", "contest-operations/track-service",
		"layer", "worker",
		"event_id", event.EventID,
		"track_id", payload.TrackID,
		"vote_count", payload.VoteCount,
	)
	return nil
}

func (c VoteTallyConsumer) dedupTTL() time.Duration {
	if c.DedupTTL <= 0 {
		return 7 * 24 * time.Hour
	}
	return c.DedupTTL
}

func hashPayload(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
