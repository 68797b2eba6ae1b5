package postgres

import (
	"context"
	"time"

	"gorm.io/gorm/clause"
)

type processedEventModel struct {
	EventID     string    `gorm:"column:event_id;primaryKey"`
	PayloadHash string    `gorm:"column:payload_hash"`
	ExpiresAt   time.Time `gorm:"column:expires_at;index"`
}

func (processedEventModel) TableName() string { return "track_processed_events" }

func DedupModels() []any {
	return []any{&processedEventModel{}}
}

// ReserveEvent claims an event ID for processing. It reports true when the
// event was already claimed by an earlier delivery.
func (r *Repository) ReserveEvent(ctx context.Context, eventID string, payloadHash string, expiresAt time.Time) (bool, error) {
	row := processedEventModel{
		EventID:     eventID,
		PayloadHash: payloadHash,
		ExpiresAt:   expiresAt.UTC(),
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "event_id"}}, DoNothing: true}).
		Create(&row)
	if result.Error != nil {
		r.logError("reserve_event_failed", result.Error)
		return false, result.Error
	}
	return result.RowsAffected == 0, nil
}
