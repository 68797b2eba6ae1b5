package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"encore/contexts/finance-core/payment-verifier/domain/entities"
	domainerrors "encore/contexts/finance-core/payment-verifier/domain/errors"
	"encore/contexts/finance-core/payment-verifier/ports"

	"github.com/google/uuid"
)

type Store struct {
	mu sync.RWMutex

	transactions map[string]entities.PaymentTransaction

	now time.Time
}

func NewStore() *Store {
	return &Store{
		transactions: make(map[string]entities.PaymentTransaction),
	}
}

// SetNow pins the store clock for tests. Zero restores the wall clock.
func (s *Store) SetNow(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now.UTC()
}

func (s *Store) CreateTransaction(_ context.Context, transaction entities.PaymentTransaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	txRef := strings.TrimSpace(transaction.TxRef)
	if txRef == "" {
		return domainerrors.ErrInvalidPaymentInput
	}
	if _, exists := s.transactions[txRef]; exists {
		return domainerrors.ErrTransactionRefInUse
	}
	s.transactions[txRef] = transaction
	return nil
}

func (s *Store) GetTransactionByRef(_ context.Context, txRef string) (entities.PaymentTransaction, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	transaction, ok := s.transactions[strings.TrimSpace(txRef)]
	if !ok {
		return entities.PaymentTransaction{}, false, nil
	}
	return transaction, true, nil
}

func (s *Store) HasCompletedPayment(_ context.Context, artistID string, contestID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, transaction := range s.transactions {
		if transaction.ArtistID == artistID &&
			transaction.ContestID == contestID &&
			transaction.Status == entities.StatusCompleted {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) FinalizeTransaction(_ context.Context, txRef string, update ports.FinalizeUpdate) (entities.PaymentTransaction, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.TrimSpace(txRef)
	transaction, ok := s.transactions[key]
	if !ok {
		return entities.PaymentTransaction{}, false, domainerrors.ErrTransactionNotFound
	}
	if transaction.Status != entities.StatusPending {
		return transaction, false, nil
	}

	completedAt := update.CompletedAt.UTC()
	transaction.Status = update.Status
	transaction.ProviderRef = update.ProviderRef
	transaction.FailureReason = update.FailureReason
	transaction.CompletedAt = &completedAt
	s.transactions[key] = transaction
	return transaction, true, nil
}

func (s *Store) Now() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.now.IsZero() {
		return s.now
	}
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
