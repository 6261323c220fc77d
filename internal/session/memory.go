package session

import (
	"sync"
	"time"

	"github.com/karl2522/IT342-G2-Barangay360-sub001/internal/api"
)

// MemoryStore is an in-memory Store for tests and throwaway sessions. It
// implements the same seen-announcement tracking as SQLiteStore.
type MemoryStore struct {
	mu     sync.RWMutex
	tokens api.TokenPair
	user   *api.UserProfile
	seen   map[int64]time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{seen: make(map[int64]time.Time)}
}

func (s *MemoryStore) SaveTokens(pair api.TokenPair) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = pair
	return nil
}

func (s *MemoryStore) AccessToken() (api.Token, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokens.Access, s.tokens.Access.Present()
}

func (s *MemoryStore) RefreshToken() (api.Token, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokens.Refresh, s.tokens.Refresh.Present()
}

func (s *MemoryStore) SaveUser(u api.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = &u
	return nil
}

func (s *MemoryStore) User() (api.UserProfile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return api.UserProfile{}, false
	}
	return *s.user, true
}

func (s *MemoryStore) IsLoggedIn() bool {
	_, ok := s.AccessToken()
	return ok
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = api.TokenPair{}
	s.user = nil
	return nil
}

func (s *MemoryStore) IsAnnouncementSeen(id int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.seen[id]
	return ok, nil
}

func (s *MemoryStore) MarkAnnouncementSeen(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen[id] = time.Now()
	return nil
}

func (s *MemoryStore) PruneSeenAnnouncements(maxAge time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := time.Now().Add(-maxAge)
	for id, seenAt := range s.seen {
		if seenAt.Before(cutoff) {
			delete(s.seen, id)
		}
	}
	return nil
}
