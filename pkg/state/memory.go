package state

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"doctor/pkg/logger"
)

// MemoryStore keeps interactions in a mutex-guarded map.
type MemoryStore struct {
	log  *logger.Logger
	ttl  time.Duration
	now  func() time.Time
	data map[string]*ActiveInteraction
	mu   sync.Mutex
}

// NewMemoryStore creates an empty in-process store.
func NewMemoryStore(log *logger.Logger, ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		log:  log,
		ttl:  ttl,
		now:  time.Now,
		data: make(map[string]*ActiveInteraction),
	}
}

// Put stores an interaction.
func (s *MemoryStore) Put(ctx context.Context, interaction *ActiveInteraction) error {
	stored := *interaction
	stored.Choices = append([]Choice(nil), interaction.Choices...)

	s.mu.Lock()
	s.data[interaction.ID] = &stored
	s.mu.Unlock()
	return nil
}

// Get returns a copy of the interaction. Expired entries are dropped.
func (s *MemoryStore) Get(ctx context.Context, id string) (*ActiveInteraction, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	interaction, ok := s.lookupLocked(id)
	if !ok {
		return nil, false, nil
	}
	copied := *interaction
	return &copied, true, nil
}

// Take removes the interaction under the lock, so only one caller wins.
func (s *MemoryStore) Take(ctx context.Context, id string) (*ActiveInteraction, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	interaction, ok := s.lookupLocked(id)
	if !ok {
		return nil, false, nil
	}
	delete(s.data, id)
	return interaction, true, nil
}

// Sweep removes expired interactions.
func (s *MemoryStore) Sweep(ctx context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, interaction := range s.data {
		if interaction.Expired(now, s.ttl) {
			delete(s.data, id)
			removed++
		}
	}

	if removed > 0 {
		s.log.Debug("Swept expired interactions",
			zap.Int("removed", removed),
			zap.Int("remaining", len(s.data)))
	}
	return removed, nil
}

// Len returns the number of live interactions.
func (s *MemoryStore) Len(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	count := 0
	for _, interaction := range s.data {
		if !interaction.Expired(now, s.ttl) {
			count++
		}
	}
	return count, nil
}

// Close drops all state.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	s.data = make(map[string]*ActiveInteraction)
	s.mu.Unlock()
	return nil
}

// lookupLocked must be called with s.mu held.
func (s *MemoryStore) lookupLocked(id string) (*ActiveInteraction, bool) {
	interaction, ok := s.data[id]
	if !ok {
		return nil, false
	}
	if interaction.Expired(s.now(), s.ttl) {
		delete(s.data, id)
		return nil, false
	}
	return interaction, true
}
