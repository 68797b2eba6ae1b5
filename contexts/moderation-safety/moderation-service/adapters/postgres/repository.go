package postgres

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"encore/contexts/moderation-safety/moderation-service/ports"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

type decisionModel struct {
	DecisionID  string    `gorm:"column:decision_id;primaryKey"`
	TrackID     string    `gorm:"column:track_id;index"`
	ContestID   string    `gorm:"column:contest_id;index"`
	ModeratorID string    `gorm:"column:moderator_id"`
	Action      string    `gorm:"column:action"`
	Reason      string    `gorm:"column:reason"`
	Notes       string    `gorm:"column:notes"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (decisionModel) TableName() string { return "moderation_decisions" }

type idempotencyModel struct {
	Key         string    `gorm:"column:idempotency_key;primaryKey"`
	RequestHash string    `gorm:"column:request_hash"`
	Payload     []byte    `gorm:"column:payload"`
	ExpiresAt   time.Time `gorm:"column:expires_at;index"`
}

func (idempotencyModel) TableName() string { return "moderation_idempotency" }

func Models() []any {
	return []any{&decisionModel{}, &idempotencyModel{}}
}

func (r *Repository) RecordDecision(ctx context.Context, record ports.DecisionRecord) (ports.DecisionRecord, error) {
	row := decisionModel{
		DecisionID:  record.DecisionID,
		TrackID:     record.TrackID,
		ContestID:   record.ContestID,
		ModeratorID: record.ModeratorID,
		Action:      record.Action,
		Reason:      record.Reason,
		Notes:       record.Notes,
		CreatedAt:   record.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		r.logError("record_decision_failed", err)
		return ports.DecisionRecord{}, err
	}
	return record, nil
}

func (r *Repository) ListDecisionsByContest(ctx context.Context, contestID string, limit int, offset int) ([]ports.DecisionRecord, error) {
	var rows []decisionModel
	err := r.db.WithContext(ctx).
		Where("contest_id = ?", contestID).
		Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		r.logError("list_decisions_failed", err)
		return nil, err
	}
	items := make([]ports.DecisionRecord, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.DecisionRecord{
			DecisionID:  row.DecisionID,
			TrackID:     row.TrackID,
			ContestID:   row.ContestID,
			ModeratorID: row.ModeratorID,
			Action:      row.Action,
			Reason:      row.Reason,
			Notes:       row.Notes,
			CreatedAt:   row.CreatedAt,
		})
	}
	return items, nil
}

func (r *Repository) Get(ctx context.Context, key string, now time.Time) (ports.IdempotencyRecord, bool, error) {
	var row idempotencyModel
	err := r.db.WithContext(ctx).
		Where("idempotency_key = ? AND expires_at > ?", key, now.UTC()).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ports.IdempotencyRecord{}, false, nil
	}
	if err != nil {
		r.logError("get_idempotency_failed", err)
		return ports.IdempotencyRecord{}, false, err
	}
	return ports.IdempotencyRecord{
		Key:         row.Key,
		RequestHash: row.RequestHash,
		Payload:     row.Payload,
		ExpiresAt:   row.ExpiresAt,
	}, true, nil
}

func (r *Repository) Put(ctx context.Context, record ports.IdempotencyRecord) error {
	row := idempotencyModel{
		Key:         record.Key,
		RequestHash: record.RequestHash,
		Payload:     record.Payload,
		ExpiresAt:   record.ExpiresAt.UTC(),
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "idempotency_key"}}, DoNothing: true}).
		Create(&row).Error
	if err != nil {
		r.logError("put_idempotency_failed", err)
	}
	return err
}

func (r *Repository) logError(event string, err error) {
	if r.logger == nil {
		return
	}
	r.logger.Error("moderation repository error",
		"event", event,
		"module", "moderation-safety/moderation-service",
		"layer", "adapters/postgres",
		"error", err,
	)
}
