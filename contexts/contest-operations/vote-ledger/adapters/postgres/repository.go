package postgres

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"encore/contexts/contest-operations/vote-ledger/domain/entities"
	domainerrors "encore/contexts/contest-operations/vote-ledger/domain/errors"
	"encore/contexts/contest-operations/vote-ledger/ports"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

type voteModel struct {
	VoteID    string    `gorm:"column:vote_id;primaryKey"`
	ContestID string    `gorm:"column:contest_id;uniqueIndex:uniq_vote_contest_voter"`
	VoterID   string    `gorm:"column:voter_id;uniqueIndex:uniq_vote_contest_voter"`
	TrackID   string    `gorm:"column:track_id;index"`
	IPAddress string    `gorm:"column:ip_address"`
	UserAgent string    `gorm:"column:user_agent"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (voteModel) TableName() string { return "votes" }

type outboxModel struct {
	OutboxID     string     `gorm:"column:outbox_id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload"`
	Status       string     `gorm:"column:status;index"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string { return "vote_outbox" }

func Models() []any {
	return []any{&voteModel{}, &outboxModel{}}
}

// InsertVote relies on the (contest_id, voter_id) unique index: concurrent
// casts race on the insert and exactly one wins.
func (r *Repository) InsertVote(ctx context.Context, vote entities.Vote) (entities.Vote, bool, error) {
	row := voteModel{
		VoteID:    vote.VoteID,
		ContestID: vote.ContestID,
		VoterID:   vote.VoterID,
		TrackID:   vote.TrackID,
		IPAddress: vote.IPAddress,
		UserAgent: vote.UserAgent,
		CreatedAt: vote.CreatedAt,
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "contest_id"}, {Name: "voter_id"}},
			DoNothing: true,
		}).
		Create(&row)
	if result.Error != nil {
		r.logError("insert_vote_failed", result.Error)
		return entities.Vote{}, false, result.Error
	}
	if result.RowsAffected > 0 {
		return vote, true, nil
	}

	existing, found, err := r.GetVoteByVoter(ctx, vote.ContestID, vote.VoterID)
	if err != nil {
		return entities.Vote{}, false, err
	}
	if !found {
		return entities.Vote{}, false, domainerrors.ErrVoteNotFound
	}
	return existing, false, nil
}

func (r *Repository) GetVoteByVoter(ctx context.Context, contestID string, voterID string) (entities.Vote, bool, error) {
	var rows []voteModel
	err := r.db.WithContext(ctx).
		Where("contest_id = ? AND voter_id = ?", contestID, voterID).
		Limit(2).
		Find(&rows).Error
	if err != nil {
		r.logError("get_vote_by_voter_failed", err)
		return entities.Vote{}, false, err
	}
	switch len(rows) {
	case 0:
		return entities.Vote{}, false, nil
	case 1:
		return fromModel(rows[0]), true, nil
	default:
		return entities.Vote{}, false, domainerrors.ErrLedgerCorrupted
	}
}

func (r *Repository) CountVotesByTrack(ctx context.Context, trackID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&voteModel{}).
		Where("track_id = ?", trackID).
		Count(&count).Error
	if err != nil {
		r.logError("count_votes_by_track_failed", err)
		return 0, err
	}
	return count, nil
}

func (r *Repository) ListVotesByContest(ctx context.Context, contestID string) ([]entities.Vote, error) {
	var rows []voteModel
	err := r.db.WithContext(ctx).
		Where("contest_id = ?", contestID).
		Order("created_at asc").
		Find(&rows).Error
	if err != nil {
		r.logError("list_votes_by_contest_failed", err)
		return nil, err
	}
	items := make([]entities.Vote, 0, len(rows))
	for _, row := range rows {
		items = append(items, fromModel(row))
	}
	return items, nil
}

func (r *Repository) TallyByContest(ctx context.Context, contestID string) (map[string]int64, error) {
	type tallyRow struct {
		TrackID string `gorm:"column:track_id"`
		Count   int64  `gorm:"column:vote_count"`
	}
	var rows []tallyRow
	err := r.db.WithContext(ctx).Model(&voteModel{}).
		Select("track_id, count(*) as vote_count").
		Where("contest_id = ?", contestID).
		Group("track_id").
		Scan(&rows).Error
	if err != nil {
		r.logError("tally_by_contest_failed", err)
		return nil, err
	}
	tally := make(map[string]int64, len(rows))
	for _, row := range rows {
		tally[row.TrackID] = row.Count
	}
	return tally, nil
}

func (r *Repository) AppendOutbox(ctx context.Context, envelope ports.EventEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	row := outboxModel{
		OutboxID:     envelope.EventID,
		EventType:    envelope.EventType,
		PartitionKey: envelope.PartitionKey,
		Payload:      payload,
		Status:       "pending",
		CreatedAt:    envelope.OccurredAt.UTC(),
	}
	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "outbox_id"}}, DoNothing: true}).
		Create(&row).Error
	if err != nil {
		r.logError("append_outbox_failed", err)
	}
	return err
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []outboxModel
	err := r.db.WithContext(ctx).
		Where("status = ?", "pending").
		Order("created_at asc").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		r.logError("list_pending_outbox_failed", err)
		return nil, err
	}
	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.OutboxMessage{
			OutboxID:     row.OutboxID,
			EventType:    row.EventType,
			PartitionKey: row.PartitionKey,
			Payload:      row.Payload,
			CreatedAt:    row.CreatedAt,
		})
	}
	return items, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	ts := publishedAt.UTC()
	result := r.db.WithContext(ctx).Model(&outboxModel{}).
		Where("outbox_id = ? AND status = ?", outboxID, "pending").
		Updates(map[string]any{
			"status":       "published",
			"published_at": &ts,
		})
	if result.Error != nil {
		r.logError("mark_outbox_published_failed", result.Error)
	}
	return result.Error
}

func (r *Repository) logError(event string, err error) {
	if r.logger == nil {
		return
	}
	r.logger.Error("vote repository error",
		"event", event,
		"module", "contest-operations/vote-ledger",
		"layer", "adapters/postgres",
		"error", err,
	)
}

func fromModel(row voteModel) entities.Vote {
	return entities.Vote{
		VoteID:    row.VoteID,
		ContestID: row.ContestID,
		TrackID:   row.TrackID,
		VoterID:   row.VoterID,
		IPAddress: row.IPAddress,
		UserAgent: row.UserAgent,
		CreatedAt: row.CreatedAt,
	}
}
