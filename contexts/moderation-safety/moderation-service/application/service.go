package application

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	domainerrors "encore/contexts/moderation-safety/moderation-service/domain/errors"
	"encore/contexts/moderation-safety/moderation-service/ports"
)

const (
	ActionApproved = "approved"
	ActionRejected = "rejected"
)

type Service struct {
	Repo           ports.Repository
	Idempotency    ports.IdempotencyStore
	TrackClient    ports.TrackDecisionClient
	Queue          ports.TrackQueueClient
	Gate           ports.DecisionGate
	Clock          ports.Clock
	IDGen          ports.IDGenerator
	IdempotencyTTL time.Duration
	Logger         *slog.Logger
}

func (s Service) ListQueue(ctx context.Context, contestID string) ([]ports.QueueItem, error) {
	if s.Queue == nil {
		return nil, domainerrors.ErrDependencyUnavailable
	}
	return s.Queue.PendingTracks(ctx, strings.TrimSpace(contestID))
}

func (s Service) ListDecisions(ctx context.Context, contestID string, limit int, offset int) ([]ports.DecisionRecord, error) {
	contestID = strings.TrimSpace(contestID)
	if contestID == "" {
		return nil, domainerrors.ErrInvalidRequest
	}
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	if offset < 0 {
		return nil, domainerrors.ErrInvalidRequest
	}
	return s.Repo.ListDecisionsByContest(ctx, contestID, limit, offset)
}

func (s Service) Approve(ctx context.Context, idempotencyKey string, moderatorID string, input ports.ModerationActionInput) (ports.DecisionRecord, error) {
	return s.runDecision(ctx, idempotencyKey, moderatorID, input, ActionApproved, func() error {
		if s.TrackClient == nil {
			return domainerrors.ErrDependencyUnavailable
		}
		return s.TrackClient.ApproveTrack(ctx, input.TrackID, moderatorID, strings.TrimSpace(input.Reason))
	})
}

func (s Service) Reject(ctx context.Context, idempotencyKey string, moderatorID string, input ports.ModerationActionInput) (ports.DecisionRecord, error) {
	return s.runDecision(ctx, idempotencyKey, moderatorID, input, ActionRejected, func() error {
		if s.TrackClient == nil {
			return domainerrors.ErrDependencyUnavailable
		}
		return s.TrackClient.RejectTrack(ctx, input.TrackID, moderatorID, strings.TrimSpace(input.Reason))
	})
}

func (s Service) runDecision(
	ctx context.Context,
	idempotencyKey string,
	moderatorID string,
	input ports.ModerationActionInput,
	action string,
	routeDecision func() error,
) (ports.DecisionRecord, error) {
	idempotencyKey = strings.TrimSpace(idempotencyKey)
	moderatorID = strings.TrimSpace(moderatorID)
	input.TrackID = strings.TrimSpace(input.TrackID)
	input.ContestID = strings.TrimSpace(input.ContestID)
	input.Reason = strings.TrimSpace(input.Reason)
	input.Notes = strings.TrimSpace(input.Notes)

	if idempotencyKey == "" {
		return ports.DecisionRecord{}, domainerrors.ErrIdempotencyKeyRequired
	}
	if moderatorID == "" || input.TrackID == "" || input.ContestID == "" {
		return ports.DecisionRecord{}, domainerrors.ErrInvalidRequest
	}
	if action == ActionRejected && input.Reason == "" {
		return ports.DecisionRecord{}, domainerrors.ErrInvalidRequest
	}
	if s.Gate != nil {
		if err := s.Gate.AllowModerationDecision(ctx, input.ContestID); err != nil {
			return ports.DecisionRecord{}, err
		}
	}

	requestHash := hashStrings(moderatorID, input.TrackID, input.ContestID, action, input.Reason, input.Notes)
	var output ports.DecisionRecord
	err := s.runIdempotent(
		ctx,
		idempotencyKey,
		requestHash,
		func(raw []byte) error { return json.Unmarshal(raw, &output) },
		func() ([]byte, error) {
			if err := routeDecision(); err != nil {
				return nil, err
			}
			decisionID, err := s.IDGen.NewID(ctx)
			if err != nil {
				return nil, err
			}
			record, err := s.Repo.RecordDecision(ctx, ports.DecisionRecord{
				DecisionID:  strings.TrimSpace(decisionID),
				TrackID:     input.TrackID,
				ContestID:   input.ContestID,
				ModeratorID: moderatorID,
				Action:      action,
				Reason:      input.Reason,
				Notes:       input.Notes,
				CreatedAt:   s.now(),
			})
			if err != nil {
				return nil, err
			}
			return json.Marshal(record)
		},
	)
	if err != nil {
		return ports.DecisionRecord{}, err
	}

	resolveLogger(s.Logger).Info("track moderation decision recorded",
		"event", "moderation_decision_recorded",
		"module", "moderation-safety/moderation-service",
		"layer", "application",
		"track_id", input.TrackID,
		"contest_id", input.ContestID,
		"action", action,
		"moderator_id", moderatorID,
	)
	return output, nil
}

func (s Service) now() time.Time {
	if s.Clock != nil {
		return s.Clock.Now().UTC()
	}
	return time.Now().UTC()
}

func (s Service) idempotencyTTL() time.Duration {
	if s.IdempotencyTTL <= 0 {
		return 7 * 24 * time.Hour
	}
	return s.IdempotencyTTL
}

func (s Service) runIdempotent(
	ctx context.Context,
	key string,
	requestHash string,
	decode func([]byte) error,
	exec func() ([]byte, error),
) error {
	now := s.now()
	record, found, err := s.Idempotency.Get(ctx, key, now)
	if err != nil {
		return err
	}
	if found {
		if record.RequestHash != requestHash {
			return domainerrors.ErrIdempotencyConflict
		}
		return decode(record.Payload)
	}
	payload, err := exec()
	if err != nil {
		return err
	}
	if err := s.Idempotency.Put(ctx, ports.IdempotencyRecord{
		Key:         key,
		RequestHash: requestHash,
		Payload:     payload,
		ExpiresAt:   now.Add(s.idempotencyTTL()),
	}); err != nil {
		return err
	}
	return decode(payload)
}

func hashStrings(values ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(values, "|")))
	return hex.EncodeToString(sum[:])
}
