package session

import (
	"context"
	"sync"
	"time"

	"github.com/martinianod/chedoparti/models"
)

type memoryEntry struct {
	session   models.Session
	expiresAt time.Time
}

// MemoryStore is an in-process Store used for local development and tests.
// Expiry is checked lazily on Load.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:     ttl,
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (s *MemoryStore) Load(_ context.Context, waID string) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[waID]
	if !ok || s.now().After(entry.expiresAt) {
		delete(s.entries, waID)
		return models.NewSession(), nil
	}
	sess := entry.session
	return &sess, nil
}

func (s *MemoryStore) Save(_ context.Context, waID string, session *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[waID] = memoryEntry{
		session:   *session,
		expiresAt: s.now().Add(s.ttl),
	}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, waID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, waID)
	return nil
}
