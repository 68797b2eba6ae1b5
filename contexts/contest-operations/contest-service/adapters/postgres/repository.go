package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"encore/contexts/contest-operations/contest-service/domain/entities"
	domainerrors "encore/contexts/contest-operations/contest-service/domain/errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{db: db, logger: logger}
}

func (r *Repository) CreateContest(ctx context.Context, contest entities.Contest) error {
	row := contestModelFromEntity(contest)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domainerrors.ErrConflict
		}
		return r.logError("contest_repo_create_failed", err, "contest_id", row.ID)
	}
	return nil
}

func (r *Repository) UpdateContest(ctx context.Context, contest entities.Contest) error {
	row := contestModelFromEntity(contest)
	update := r.db.WithContext(ctx).
		Model(&contestModel{}).
		Where("id = ?", row.ID).
		Updates(map[string]any{
			"title":       row.Title,
			"description": row.Description,
			"archived":    row.Archived,
			"updated_at":  row.UpdatedAt,
		})
	if update.Error != nil {
		return r.logError("contest_repo_update_failed", update.Error, "contest_id", row.ID)
	}
	if update.RowsAffected == 0 {
		return domainerrors.ErrContestNotFound
	}
	return nil
}

func (r *Repository) GetContest(ctx context.Context, contestID string) (entities.Contest, error) {
	var row contestModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(contestID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Contest{}, domainerrors.ErrContestNotFound
		}
		return entities.Contest{}, r.logError("contest_repo_get_failed", err, "contest_id", strings.TrimSpace(contestID))
	}
	return row.toEntity(), nil
}

func (r *Repository) CurrentContest(ctx context.Context) (entities.Contest, bool, error) {
	var row contestModel
	err := r.db.WithContext(ctx).
		Where("archived = ?", false).
		Order("created_at DESC").
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Contest{}, false, nil
		}
		return entities.Contest{}, false, r.logError("contest_repo_current_failed", err)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) ListContests(ctx context.Context) ([]entities.Contest, error) {
	var rows []contestModel
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("contest_repo_list_failed", err)
	}
	items := make([]entities.Contest, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) SaveWinner(ctx context.Context, winner entities.ContestWinner) (entities.ContestWinner, bool, error) {
	row := winnerModelFromEntity(winner)
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "contest_id"}},
		DoNothing: true,
	}).Create(&row)
	if create.Error != nil {
		return entities.ContestWinner{}, false, r.logError("contest_repo_save_winner_failed", create.Error,
			"contest_id", row.ContestID,
		)
	}
	if create.RowsAffected > 0 {
		return winner, true, nil
	}

	existing, found, err := r.GetWinner(ctx, winner.ContestID)
	if err != nil {
		return entities.ContestWinner{}, false, err
	}
	if !found {
		return entities.ContestWinner{}, false, domainerrors.ErrConflict
	}
	return existing, false, nil
}

func (r *Repository) GetWinner(ctx context.Context, contestID string) (entities.ContestWinner, bool, error) {
	var row winnerModel
	err := r.db.WithContext(ctx).
		Where("contest_id = ?", strings.TrimSpace(contestID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.ContestWinner{}, false, nil
		}
		return entities.ContestWinner{}, false, r.logError("contest_repo_get_winner_failed", err,
			"contest_id", strings.TrimSpace(contestID),
		)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) ListWinnersByArtist(ctx context.Context, artistID string) ([]entities.ContestWinner, error) {
	var rows []winnerModel
	err := r.db.WithContext(ctx).
		Where("artist_id = ?", strings.TrimSpace(artistID)).
		Order("finalized_at DESC").
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("contest_repo_list_winners_by_artist_failed", err,
			"artist_id", strings.TrimSpace(artistID),
		)
	}
	items := make([]entities.ContestWinner, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) logError(event string, err error, args ...any) error {
	fields := append([]any{
		"event", event,
		"module", "contest-operations/contest-service",
		"layer", "adapters/postgres",
		"error", err.Error(),
	}, args...)
	r.logger.Error("contest repository operation failed", fields...)
	return err
}

type contestModel struct {
	ID                   string    `gorm:"column:id;primaryKey"`
	Title                string    `gorm:"column:title"`
	Description          string    `gorm:"column:description"`
	RegistrationStartsAt time.Time `gorm:"column:registration_starts_at"`
	RegistrationEndsAt   time.Time `gorm:"column:registration_ends_at"`
	VotingStartsAt       time.Time `gorm:"column:voting_starts_at"`
	VotingEndsAt         time.Time `gorm:"column:voting_ends_at"`
	Archived             bool      `gorm:"column:archived"`
	CreatedAt            time.Time `gorm:"column:created_at"`
	UpdatedAt            time.Time `gorm:"column:updated_at"`
}

func (contestModel) TableName() string {
	return "contests"
}

func contestModelFromEntity(contest entities.Contest) contestModel {
	return contestModel{
		ID:                   strings.TrimSpace(contest.ContestID),
		Title:                strings.TrimSpace(contest.Title),
		Description:          strings.TrimSpace(contest.Description),
		RegistrationStartsAt: contest.RegistrationStartsAt.UTC(),
		RegistrationEndsAt:   contest.RegistrationEndsAt.UTC(),
		VotingStartsAt:       contest.VotingStartsAt.UTC(),
		VotingEndsAt:         contest.VotingEndsAt.UTC(),
		Archived:             contest.Archived,
		CreatedAt:            contest.CreatedAt.UTC(),
		UpdatedAt:            contest.UpdatedAt.UTC(),
	}
}

func (m contestModel) toEntity() entities.Contest {
	return entities.Contest{
		ContestID:            m.ID,
		Title:                m.Title,
		Description:          m.Description,
		RegistrationStartsAt: m.RegistrationStartsAt.UTC(),
		RegistrationEndsAt:   m.RegistrationEndsAt.UTC(),
		VotingStartsAt:       m.VotingStartsAt.UTC(),
		VotingEndsAt:         m.VotingEndsAt.UTC(),
		Archived:             m.Archived,
		CreatedAt:            m.CreatedAt.UTC(),
		UpdatedAt:            m.UpdatedAt.UTC(),
	}
}

type winnerModel struct {
	ID             string    `gorm:"column:id;primaryKey"`
	ContestID      string    `gorm:"column:contest_id;uniqueIndex"`
	TrackID        string    `gorm:"column:track_id"`
	ArtistID       string    `gorm:"column:artist_id"`
	FinalVoteCount int       `gorm:"column:final_vote_count"`
	FinalizedAt    time.Time `gorm:"column:finalized_at"`
}

func (winnerModel) TableName() string {
	return "contest_winners"
}

func winnerModelFromEntity(winner entities.ContestWinner) winnerModel {
	return winnerModel{
		ID:             strings.TrimSpace(winner.WinnerID),
		ContestID:      strings.TrimSpace(winner.ContestID),
		TrackID:        strings.TrimSpace(winner.TrackID),
		ArtistID:       strings.TrimSpace(winner.ArtistID),
		FinalVoteCount: winner.FinalVoteCount,
		FinalizedAt:    winner.FinalizedAt.UTC(),
	}
}

func (m winnerModel) toEntity() entities.ContestWinner {
	return entities.ContestWinner{
		WinnerID:       m.ID,
		ContestID:      m.ContestID,
		TrackID:        m.TrackID,
		ArtistID:       m.ArtistID,
		FinalVoteCount: m.FinalVoteCount,
		FinalizedAt:    m.FinalizedAt.UTC(),
	}
}

// Models exposes the gorm models for platform AutoMigrate.
func Models() []any {
	return []any{&contestModel{}, &winnerModel{}}
}
