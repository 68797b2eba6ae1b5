package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"encore/contexts/contest-operations/track-service/domain/entities"
	domainerrors "encore/contexts/contest-operations/track-service/domain/errors"
	"encore/contexts/contest-operations/track-service/ports"

	"github.com/google/uuid"
)

type Store struct {
	mu sync.RWMutex

	tracks     map[string]entities.Track
	byIdentity map[string]string
	eventDedup map[string]time.Time

	now time.Time
}

func NewStore() *Store {
	return &Store{
		tracks:     make(map[string]entities.Track),
		byIdentity: make(map[string]string),
		eventDedup: make(map[string]time.Time),
	}
}

// SetNow pins the store clock for tests. Zero restores the wall clock.
func (s *Store) SetNow(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now.UTC()
}

func identityKey(contestID string, artistID string) string {
	return contestID + "|" + artistID
}

func (s *Store) CreateTrack(_ context.Context, track entities.Track) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	trackID := strings.TrimSpace(track.TrackID)
	if trackID == "" {
		return domainerrors.ErrInvalidTrackInput
	}
	key := identityKey(track.ContestID, track.ArtistID)
	if existingID, exists := s.byIdentity[key]; exists {
		// Only a rejected track frees the identity slot for a fresh
		// submission; the rejected row itself stays in the ledger of tracks.
		if existing, ok := s.tracks[existingID]; !ok || existing.Status != entities.TrackStatusRejected {
			return domainerrors.ErrDuplicateSubmission
		}
	}
	s.tracks[trackID] = track
	s.byIdentity[key] = trackID
	return nil
}

func (s *Store) GetTrack(_ context.Context, trackID string) (entities.Track, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	track, ok := s.tracks[strings.TrimSpace(trackID)]
	if !ok {
		return entities.Track{}, false, nil
	}
	return track, true, nil
}

func (s *Store) GetTrackByArtist(_ context.Context, contestID string, artistID string) (entities.Track, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	trackID, ok := s.byIdentity[identityKey(strings.TrimSpace(contestID), strings.TrimSpace(artistID))]
	if !ok {
		return entities.Track{}, false, nil
	}
	return s.tracks[trackID], true, nil
}

func (s *Store) UpdateTrack(_ context.Context, track entities.Track) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	trackID := strings.TrimSpace(track.TrackID)
	if _, ok := s.tracks[trackID]; !ok {
		return domainerrors.ErrTrackNotFound
	}
	s.tracks[trackID] = track
	return nil
}

func (s *Store) ListTracksByContest(_ context.Context, contestID string, status string) ([]entities.Track, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Track, 0)
	for _, track := range s.tracks {
		if contestID != "" && track.ContestID != contestID {
			continue
		}
		if status != "" && track.Status != status {
			continue
		}
		items = append(items, track)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) ListTracksByArtist(_ context.Context, artistID string) ([]entities.Track, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Track, 0)
	for _, track := range s.tracks {
		if track.ArtistID == artistID {
			items = append(items, track)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) ApplyDecision(_ context.Context, trackID string, update ports.DecisionUpdate) (entities.Track, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.TrimSpace(trackID)
	track, ok := s.tracks[key]
	if !ok {
		return entities.Track{}, false, domainerrors.ErrTrackNotFound
	}
	if track.Status != entities.TrackStatusPending {
		return track, false, nil
	}
	track.Status = update.Status
	track.RejectionReason = update.Reason
	track.UpdatedAt = update.DecidedAt.UTC()
	s.tracks[key] = track
	return track, true, nil
}

func (s *Store) SetVoteCount(_ context.Context, trackID string, count int64, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.TrimSpace(trackID)
	track, ok := s.tracks[key]
	if !ok {
		return domainerrors.ErrTrackNotFound
	}
	track.VoteCount = count
	track.UpdatedAt = updatedAt.UTC()
	s.tracks[key] = track
	return nil
}

func (s *Store) ReserveEvent(_ context.Context, eventID string, _ string, expiresAt time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.TrimSpace(eventID)
	if key == "" {
		return false, domainerrors.ErrInvalidTrackInput
	}
	if _, ok := s.eventDedup[key]; ok {
		return true, nil
	}
	s.eventDedup[key] = expiresAt.UTC()
	return false, nil
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
