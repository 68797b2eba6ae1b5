package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"encore/contexts/contest-operations/contest-service/domain/entities"
	domainerrors "encore/contexts/contest-operations/contest-service/domain/errors"

	"github.com/google/uuid"
)

type Store struct {
	mu sync.RWMutex

	contests map[string]entities.Contest
	winners  map[string]entities.ContestWinner

	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		contests: make(map[string]entities.Contest),
		winners:  make(map[string]entities.ContestWinner),
	}
}

// SetNow pins the store clock for tests. Nil restores the wall clock.
func (s *Store) SetNow(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Store) CreateContest(_ context.Context, contest entities.Contest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.TrimSpace(contest.ContestID)
	if _, exists := s.contests[key]; exists {
		return domainerrors.ErrConflict
	}
	s.contests[key] = contest
	return nil
}

func (s *Store) UpdateContest(_ context.Context, contest entities.Contest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.TrimSpace(contest.ContestID)
	if _, exists := s.contests[key]; !exists {
		return domainerrors.ErrContestNotFound
	}
	s.contests[key] = contest
	return nil
}

func (s *Store) GetContest(_ context.Context, contestID string) (entities.Contest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	contest, ok := s.contests[strings.TrimSpace(contestID)]
	if !ok {
		return entities.Contest{}, domainerrors.ErrContestNotFound
	}
	return contest, nil
}

func (s *Store) CurrentContest(_ context.Context) (entities.Contest, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var current entities.Contest
	found := false
	for _, contest := range s.contests {
		if contest.Archived {
			continue
		}
		if !found || contest.CreatedAt.After(current.CreatedAt) {
			current = contest
			found = true
		}
	}
	return current, found, nil
}

func (s *Store) ListContests(_ context.Context) ([]entities.Contest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Contest, 0, len(s.contests))
	for _, contest := range s.contests {
		items = append(items, contest)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) SaveWinner(_ context.Context, winner entities.ContestWinner) (entities.ContestWinner, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.TrimSpace(winner.ContestID)
	if existing, ok := s.winners[key]; ok {
		return existing, false, nil
	}
	s.winners[key] = winner
	return winner, true, nil
}

func (s *Store) GetWinner(_ context.Context, contestID string) (entities.ContestWinner, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	winner, ok := s.winners[strings.TrimSpace(contestID)]
	return winner, ok, nil
}

func (s *Store) ListWinnersByArtist(_ context.Context, artistID string) ([]entities.ContestWinner, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.ContestWinner, 0)
	for _, winner := range s.winners {
		if winner.ArtistID == strings.TrimSpace(artistID) {
			items = append(items, winner)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].FinalizedAt.After(items[j].FinalizedAt)
	})
	return items, nil
}

func (s *Store) Now() time.Time {
	s.mu.RLock()
	now := s.now
	s.mu.RUnlock()
	if now != nil {
		return now().UTC()
	}
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
