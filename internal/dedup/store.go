package dedup

import (
	"fmt"
	"sync"
	"time"
)

const defaultMaxEntries = 1000

// Store is the bounded in-memory dedup/cooldown state shared by the pipeline.
// It serves two cooperating layers of suppression: content keys stop the same
// news item or filing link from being processed twice, and subject keys stop
// repeat notifications for the same (market, symbol) pair inside a cooldown
// window. Access is serialized with a mutex since several source adapters can
// report the same subject in one cycle.
type Store struct {
	mu         sync.Mutex
	content    map[string]time.Time
	subjects   map[string]time.Time
	maxEntries int
	now        func() time.Time
}

// NewStore builds an empty store. maxEntries <= 0 selects the default bound.
func NewStore(maxEntries int) *Store {
	if maxEntries <= 0 {
		maxEntries = defaultMaxEntries
	}
	return &Store{
		content:    map[string]time.Time{},
		subjects:   map[string]time.Time{},
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// SeenContent records the key and reports whether it was already present.
// Once the table exceeds its bound it is cleared wholesale; re-surfacing an
// old item after eviction is a duplicate risk, not a correctness failure.
func (s *Store) SeenContent(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.content[key]; ok {
		return true
	}

	if len(s.content) >= s.maxEntries {
		s.content = map[string]time.Time{}
	}
	s.content[key] = s.now()
	return false
}

// ShouldAlert reports whether no alert for (market, symbol) happened inside
// the cooldown window. On true it stamps the current time immediately, so
// rapid re-checks within the same cycle are also suppressed.
func (s *Store) ShouldAlert(market, symbol string, cooldown time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := subjectKey(market, symbol)
	if last, ok := s.subjects[key]; ok {
		if s.now().Sub(last) < cooldown {
			return false
		}
	}

	if len(s.subjects) >= s.maxEntries {
		s.subjects = map[string]time.Time{}
	}
	s.subjects[key] = s.now()
	return true
}

func subjectKey(market, symbol string) string {
	return fmt.Sprintf("%s_%s", market, symbol)
}
