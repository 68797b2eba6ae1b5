package postgres

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"encore/contexts/finance-core/payment-verifier/domain/entities"
	domainerrors "encore/contexts/finance-core/payment-verifier/domain/errors"
	"encore/contexts/finance-core/payment-verifier/ports"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(Models()...))
	return NewRepository(db, nil)
}

func pendingTransaction(txRef string) entities.PaymentTransaction {
	return entities.PaymentTransaction{
		TransactionID: "txn-" + txRef,
		TxRef:         txRef,
		ArtistID:      "artist-1",
		ContestID:     "contest-1",
		Amount:        5000,
		Currency:      "NGN",
		Status:        entities.StatusPending,
		InitiatedAt:   time.Date(2026, 9, 5, 9, 0, 0, 0, time.UTC),
	}
}

func TestCreateTransactionRejectsReusedReference(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateTransaction(ctx, pendingTransaction("encore-1")))

	reused := pendingTransaction("encore-1")
	reused.TransactionID = "txn-other"
	err := repo.CreateTransaction(ctx, reused)
	assert.ErrorIs(t, err, domainerrors.ErrTransactionRefInUse)
}

func TestFinalizeTransactionAppliesOnce(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	require.NoError(t, repo.CreateTransaction(ctx, pendingTransaction("encore-1")))

	first, applied, err := repo.FinalizeTransaction(ctx, "encore-1", ports.FinalizeUpdate{
		Status:      entities.StatusCompleted,
		ProviderRef: "prov-1",
		CompletedAt: time.Date(2026, 9, 5, 9, 5, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, entities.StatusCompleted, first.Status)

	// A second finalize loses the guarded update and reads back the winner.
	second, applied, err := repo.FinalizeTransaction(ctx, "encore-1", ports.FinalizeUpdate{
		Status:        entities.StatusFailed,
		FailureReason: "late failure must not overwrite",
		CompletedAt:   time.Date(2026, 9, 5, 9, 6, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.False(t, applied)
	assert.Equal(t, entities.StatusCompleted, second.Status)
	assert.Empty(t, second.FailureReason)
}

func TestHasCompletedPaymentCountsOnlyCompleted(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	require.NoError(t, repo.CreateTransaction(ctx, pendingTransaction("encore-1")))

	paid, err := repo.HasCompletedPayment(ctx, "artist-1", "contest-1")
	require.NoError(t, err)
	assert.False(t, paid)

	_, applied, err := repo.FinalizeTransaction(ctx, "encore-1", ports.FinalizeUpdate{
		Status:      entities.StatusFailed,
		CompletedAt: time.Now(),
	})
	require.NoError(t, err)
	require.True(t, applied)

	paid, err = repo.HasCompletedPayment(ctx, "artist-1", "contest-1")
	require.NoError(t, err)
	assert.False(t, paid)

	require.NoError(t, repo.CreateTransaction(ctx, pendingTransaction("encore-2")))
	_, applied, err = repo.FinalizeTransaction(ctx, "encore-2", ports.FinalizeUpdate{
		Status:      entities.StatusCompleted,
		CompletedAt: time.Now(),
	})
	require.NoError(t, err)
	require.True(t, applied)

	paid, err = repo.HasCompletedPayment(ctx, "artist-1", "contest-1")
	require.NoError(t, err)
	assert.True(t, paid)
}

func TestGetTransactionByRefMissing(t *testing.T) {
	repo := newTestRepository(t)

	_, found, err := repo.GetTransactionByRef(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, found)
}
