package postgres

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"encore/contexts/contest-operations/track-service/domain/entities"
	domainerrors "encore/contexts/contest-operations/track-service/domain/errors"
	"encore/contexts/contest-operations/track-service/ports"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

type trackModel struct {
	TrackID         string    `gorm:"column:track_id;primaryKey"`
	ContestID       string    `gorm:"column:contest_id;uniqueIndex:uniq_track_contest_artist,where:status <> 'rejected'"`
	ArtistID        string    `gorm:"column:artist_id;uniqueIndex:uniq_track_contest_artist"`
	ArtistName      string    `gorm:"column:artist_name"`
	Title           string    `gorm:"column:title"`
	Genre           string    `gorm:"column:genre"`
	AudioURL        string    `gorm:"column:audio_url"`
	CoverArtURL     string    `gorm:"column:cover_art_url"`
	Status          string    `gorm:"column:status;index"`
	RejectionReason string    `gorm:"column:rejection_reason"`
	ModeratorID     string    `gorm:"column:moderator_id"`
	VoteCount       int64     `gorm:"column:vote_count"`
	CreatedAt       time.Time `gorm:"column:created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
}

func (trackModel) TableName() string { return "tracks" }

func Models() []any {
	return []any{&trackModel{}}
}

// CreateTrack inserts against a partial unique index that only covers
// non-rejected rows, so an artist whose track was rejected can submit a
// fresh one while anything pending or approved still blocks.
func (r *Repository) CreateTrack(ctx context.Context, track entities.Track) error {
	row := toModel(track)
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:     []clause.Column{{Name: "contest_id"}, {Name: "artist_id"}},
			TargetWhere: clause.Where{Exprs: []clause.Expression{clause.Expr{SQL: "status <> 'rejected'"}}},
			DoNothing:   true,
		}).
		Create(&row)
	if result.Error != nil {
		r.logError("create_track_failed", result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrDuplicateSubmission
	}
	return nil
}

func (r *Repository) GetTrack(ctx context.Context, trackID string) (entities.Track, bool, error) {
	var row trackModel
	err := r.db.WithContext(ctx).Where("track_id = ?", trackID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entities.Track{}, false, nil
	}
	if err != nil {
		r.logError("get_track_failed", err)
		return entities.Track{}, false, err
	}
	return fromModel(row), true, nil
}

func (r *Repository) GetTrackByArtist(ctx context.Context, contestID string, artistID string) (entities.Track, bool, error) {
	var row trackModel
	err := r.db.WithContext(ctx).
		Where("contest_id = ? AND artist_id = ?", contestID, artistID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entities.Track{}, false, nil
	}
	if err != nil {
		r.logError("get_track_by_artist_failed", err)
		return entities.Track{}, false, err
	}
	return fromModel(row), true, nil
}

func (r *Repository) UpdateTrack(ctx context.Context, track entities.Track) error {
	row := toModel(track)
	result := r.db.WithContext(ctx).
		Model(&trackModel{}).
		Where("track_id = ?", track.TrackID).
		Updates(map[string]any{
			"title":         row.Title,
			"genre":         row.Genre,
			"audio_url":     row.AudioURL,
			"cover_art_url": row.CoverArtURL,
			"updated_at":    row.UpdatedAt,
		})
	if result.Error != nil {
		r.logError("update_track_failed", result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrTrackNotFound
	}
	return nil
}

func (r *Repository) ListTracksByContest(ctx context.Context, contestID string, status string) ([]entities.Track, error) {
	query := r.db.WithContext(ctx).Model(&trackModel{})
	if contestID != "" {
		query = query.Where("contest_id = ?", contestID)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var rows []trackModel
	if err := query.Order("created_at asc").Find(&rows).Error; err != nil {
		r.logError("list_tracks_by_contest_failed", err)
		return nil, err
	}
	items := make([]entities.Track, 0, len(rows))
	for _, row := range rows {
		items = append(items, fromModel(row))
	}
	return items, nil
}

func (r *Repository) ListTracksByArtist(ctx context.Context, artistID string) ([]entities.Track, error) {
	var rows []trackModel
	err := r.db.WithContext(ctx).
		Where("artist_id = ?", artistID).
		Order("created_at asc").
		Find(&rows).Error
	if err != nil {
		r.logError("list_tracks_by_artist_failed", err)
		return nil, err
	}
	items := make([]entities.Track, 0, len(rows))
	for _, row := range rows {
		items = append(items, fromModel(row))
	}
	return items, nil
}

func (r *Repository) ApplyDecision(ctx context.Context, trackID string, update ports.DecisionUpdate) (entities.Track, bool, error) {
	result := r.db.WithContext(ctx).
		Model(&trackModel{}).
		Where("track_id = ? AND status = ?", trackID, entities.TrackStatusPending).
		Updates(map[string]any{
			"status":           update.Status,
			"rejection_reason": update.Reason,
			"moderator_id":     update.ModeratorID,
			"updated_at":       update.DecidedAt.UTC(),
		})
	if result.Error != nil {
		r.logError("apply_decision_failed", result.Error)
		return entities.Track{}, false, result.Error
	}

	track, found, err := r.GetTrack(ctx, trackID)
	if err != nil {
		return entities.Track{}, false, err
	}
	if !found {
		return entities.Track{}, false, domainerrors.ErrTrackNotFound
	}
	return track, result.RowsAffected > 0, nil
}

func (r *Repository) SetVoteCount(ctx context.Context, trackID string, count int64, updatedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&trackModel{}).
		Where("track_id = ?", trackID).
		Updates(map[string]any{
			"vote_count": count,
			"updated_at": updatedAt.UTC(),
		})
	if result.Error != nil {
		r.logError("set_vote_count_failed", result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrTrackNotFound
	}
	return nil
}

func (r *Repository) logError(event string, err error) {
	if r.logger == nil {
		return
	}
	r.logger.Error("track repository error",
		"event", event,
		"module", "contest-operations/track-service",
		"layer", "adapters/postgres",
		"error", err,
	)
}

func toModel(track entities.Track) trackModel {
	return trackModel{
		TrackID:         track.TrackID,
		ContestID:       track.ContestID,
		ArtistID:        track.ArtistID,
		ArtistName:      track.ArtistName,
		Title:           track.Title,
		Genre:           track.Genre,
		AudioURL:        track.AudioURL,
		CoverArtURL:     track.CoverArtURL,
		Status:          track.Status,
		RejectionReason: track.RejectionReason,
		VoteCount:       track.VoteCount,
		CreatedAt:       track.CreatedAt,
		UpdatedAt:       track.UpdatedAt,
	}
}

func fromModel(row trackModel) entities.Track {
	return entities.Track{
		TrackID:         row.TrackID,
		ContestID:       row.ContestID,
		ArtistID:        row.ArtistID,
		ArtistName:      row.ArtistName,
		Title:           row.Title,
		Genre:           row.Genre,
		AudioURL:        row.AudioURL,
		CoverArtURL:     row.CoverArtURL,
		Status:          row.Status,
		RejectionReason: row.RejectionReason,
		VoteCount:       row.VoteCount,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
}
