package postgres

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"encore/contexts/finance-core/payment-verifier/domain/entities"
	domainerrors "encore/contexts/finance-core/payment-verifier/domain/errors"
	"encore/contexts/finance-core/payment-verifier/ports"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

type transactionModel struct {
	TransactionID string     `gorm:"column:transaction_id;primaryKey"`
	TxRef         string     `gorm:"column:tx_ref;uniqueIndex"`
	ArtistID      string     `gorm:"column:artist_id;index:idx_payment_artist_contest"`
	ContestID     string     `gorm:"column:contest_id;index:idx_payment_artist_contest"`
	Amount        float64    `gorm:"column:amount"`
	Currency      string     `gorm:"column:currency"`
	Status        string     `gorm:"column:status;index"`
	ProviderRef   string     `gorm:"column:provider_ref"`
	FailureReason string     `gorm:"column:failure_reason"`
	InitiatedAt   time.Time  `gorm:"column:initiated_at"`
	CompletedAt   *time.Time `gorm:"column:completed_at"`
}

func (transactionModel) TableName() string { return "payment_transactions" }

func Models() []any {
	return []any{&transactionModel{}}
}

func (r *Repository) CreateTransaction(ctx context.Context, transaction entities.PaymentTransaction) error {
	row := toModel(transaction)
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "tx_ref"}}, DoNothing: true}).
		Create(&row)
	if result.Error != nil {
		r.logError("create_transaction_failed", result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrTransactionRefInUse
	}
	return nil
}

func (r *Repository) GetTransactionByRef(ctx context.Context, txRef string) (entities.PaymentTransaction, bool, error) {
	var row transactionModel
	err := r.db.WithContext(ctx).Where("tx_ref = ?", txRef).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entities.PaymentTransaction{}, false, nil
	}
	if err != nil {
		r.logError("get_transaction_failed", err)
		return entities.PaymentTransaction{}, false, err
	}
	return fromModel(row), true, nil
}

func (r *Repository) HasCompletedPayment(ctx context.Context, artistID string, contestID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&transactionModel{}).
		Where("artist_id = ? AND contest_id = ? AND status = ?", artistID, contestID, entities.StatusCompleted).
		Count(&count).Error
	if err != nil {
		r.logError("has_completed_payment_failed", err)
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) FinalizeTransaction(ctx context.Context, txRef string, update ports.FinalizeUpdate) (entities.PaymentTransaction, bool, error) {
	completedAt := update.CompletedAt.UTC()
	result := r.db.WithContext(ctx).Model(&transactionModel{}).
		Where("tx_ref = ? AND status = ?", txRef, entities.StatusPending).
		Updates(map[string]any{
			"status":         update.Status,
			"provider_ref":   update.ProviderRef,
			"failure_reason": update.FailureReason,
			"completed_at":   &completedAt,
		})
	if result.Error != nil {
		r.logError("finalize_transaction_failed", result.Error)
		return entities.PaymentTransaction{}, false, result.Error
	}

	transaction, found, err := r.GetTransactionByRef(ctx, txRef)
	if err != nil {
		return entities.PaymentTransaction{}, false, err
	}
	if !found {
		return entities.PaymentTransaction{}, false, domainerrors.ErrTransactionNotFound
	}
	return transaction, result.RowsAffected > 0, nil
}

func (r *Repository) logError(event string, err error) {
	if r.logger == nil {
		return
	}
	r.logger.Error("payment repository error",
		"event", event,
		"module", "finance-core/payment-verifier",
		"layer", "adapters/postgres",
		"error", err,
	)
}

func toModel(transaction entities.PaymentTransaction) transactionModel {
	return transactionModel{
		TransactionID: transaction.TransactionID,
		TxRef:         transaction.TxRef,
		ArtistID:      transaction.ArtistID,
		ContestID:     transaction.ContestID,
		Amount:        transaction.Amount,
		Currency:      transaction.Currency,
		Status:        transaction.Status,
		ProviderRef:   transaction.ProviderRef,
		FailureReason: transaction.FailureReason,
		InitiatedAt:   transaction.InitiatedAt,
		CompletedAt:   transaction.CompletedAt,
	}
}

func fromModel(row transactionModel) entities.PaymentTransaction {
	return entities.PaymentTransaction{
		TransactionID: row.TransactionID,
		TxRef:         row.TxRef,
		ArtistID:      row.ArtistID,
		ContestID:     row.ContestID,
		Amount:        row.Amount,
		Currency:      row.Currency,
		Status:        row.Status,
		ProviderRef:   row.ProviderRef,
		FailureReason: row.FailureReason,
		InitiatedAt:   row.InitiatedAt,
		CompletedAt:   row.CompletedAt,
	}
}
