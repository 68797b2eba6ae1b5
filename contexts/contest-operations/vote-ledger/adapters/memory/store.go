package memory

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"encore/contexts/contest-operations/vote-ledger/domain/entities"
	domainerrors "encore/contexts/contest-operations/vote-ledger/domain/errors"
	"encore/contexts/contest-operations/vote-ledger/ports"

	"github.com/google/uuid"
)

type outboxRecord struct {
	Message     ports.OutboxMessage
	Status      string
	PublishedAt *time.Time
}

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"
)

type Store struct {
	mu sync.RWMutex

	votes      map[string]entities.Vote
	byIdentity map[string]string
	outbox     map[string]outboxRecord

	now time.Time
}

func NewStore() *Store {
	return &Store{
		votes:      make(map[string]entities.Vote),
		byIdentity: make(map[string]string),
		outbox:     make(map[string]outboxRecord),
	}
}

// SetNow pins the store clock for tests. Zero restores the wall clock.
func (s *Store) SetNow(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now.UTC()
}

func identityKey(contestID string, voterID string) string {
	return contestID + "|" + voterID
}

func (s *Store) InsertVote(_ context.Context, vote entities.Vote) (entities.Vote, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	voteID := strings.TrimSpace(vote.VoteID)
	if voteID == "" {
		return entities.Vote{}, false, domainerrors.ErrInvalidVoteInput
	}
	key := identityKey(vote.ContestID, vote.VoterID)
	if existingID, ok := s.byIdentity[key]; ok {
		return s.votes[existingID], false, nil
	}
	s.votes[voteID] = vote
	s.byIdentity[key] = voteID
	return vote, true, nil
}

func (s *Store) GetVoteByVoter(_ context.Context, contestID string, voterID string) (entities.Vote, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	voteID, ok := s.byIdentity[identityKey(strings.TrimSpace(contestID), strings.TrimSpace(voterID))]
	if !ok {
		return entities.Vote{}, false, nil
	}
	return s.votes[voteID], true, nil
}

func (s *Store) CountVotesByTrack(_ context.Context, trackID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, vote := range s.votes {
		if vote.TrackID == trackID {
			count++
		}
	}
	return count, nil
}

func (s *Store) ListVotesByContest(_ context.Context, contestID string) ([]entities.Vote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Vote, 0)
	for _, vote := range s.votes {
		if vote.ContestID == contestID {
			items = append(items, vote)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) TallyByContest(_ context.Context, contestID string) (map[string]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tally := make(map[string]int64)
	for _, vote := range s.votes {
		if vote.ContestID == contestID {
			tally[vote.TrackID]++
		}
	}
	return tally, nil
}

func (s *Store) AppendOutbox(_ context.Context, envelope ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	outboxID := strings.TrimSpace(envelope.EventID)
	if outboxID == "" {
		return domainerrors.ErrInvalidVoteInput
	}
	if _, ok := s.outbox[outboxID]; ok {
		return nil
	}
	s.outbox[outboxID] = outboxRecord{
		Message: ports.OutboxMessage{
			OutboxID:     outboxID,
			EventType:    envelope.EventType,
			PartitionKey: envelope.PartitionKey,
			Payload:      payload,
			CreatedAt:    envelope.OccurredAt.UTC(),
		},
		Status: outboxStatusPending,
	}
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}
	items := make([]ports.OutboxMessage, 0)
	for _, row := range s.outbox {
		if row.Status == outboxStatusPending {
			items = append(items, row.Message)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, publishedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.outbox[strings.TrimSpace(outboxID)]
	if !ok {
		return domainerrors.ErrVoteNotFound
	}
	ts := publishedAt.UTC()
	row.Status = outboxStatusPublished
	row.PublishedAt = &ts
	s.outbox[strings.TrimSpace(outboxID)] = row
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
