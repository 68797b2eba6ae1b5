package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	domainerrors "encore/contexts/moderation-safety/moderation-service/domain/errors"
	"encore/contexts/moderation-safety/moderation-service/ports"

	"github.com/google/uuid"
)

type Store struct {
	mu sync.RWMutex

	decisions   map[string]ports.DecisionRecord
	idempotency map[string]ports.IdempotencyRecord

	now time.Time
}

func NewStore() *Store {
	return &Store{
		decisions:   make(map[string]ports.DecisionRecord),
		idempotency: make(map[string]ports.IdempotencyRecord),
	}
}

// SetNow pins the store clock for tests. Zero restores the wall clock.
func (s *Store) SetNow(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now.UTC()
}

func (s *Store) RecordDecision(_ context.Context, record ports.DecisionRecord) (ports.DecisionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(record.DecisionID) == "" {
		return ports.DecisionRecord{}, domainerrors.ErrInvalidRequest
	}
	s.decisions[record.DecisionID] = record
	return record, nil
}

func (s *Store) ListDecisionsByContest(_ context.Context, contestID string, limit int, offset int) ([]ports.DecisionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]ports.DecisionRecord, 0)
	for _, record := range s.decisions {
		if record.ContestID == contestID {
			items = append(items, record)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	if offset >= len(items) {
		return []ports.DecisionRecord{}, nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return append([]ports.DecisionRecord(nil), items[offset:end]...), nil
}

func (s *Store) Get(_ context.Context, key string, now time.Time) (ports.IdempotencyRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.idempotency[strings.TrimSpace(key)]
	if !ok {
		return ports.IdempotencyRecord{}, false, nil
	}
	if !record.ExpiresAt.After(now.UTC()) {
		delete(s.idempotency, strings.TrimSpace(key))
		return ports.IdempotencyRecord{}, false, nil
	}
	return record, true, nil
}

func (s *Store) Put(_ context.Context, record ports.IdempotencyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.TrimSpace(record.Key)
	if key == "" {
		return domainerrors.ErrInvalidRequest
	}
	s.idempotency[key] = record
	return nil
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
