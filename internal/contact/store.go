// internal/contact/store.go
//
// Folio – Contact subsystem: per-session form store.
//
// Context
//   Every visitor gets their own Form, keyed by the session cookie id.  The
//   store keeps at most Capacity forms; the least recently used one is
//   closed and dropped when a new visitor arrives at capacity.  Closing stops
//   any pending timer so evicted forms never fire.
//
//------------------------------------------------------------------------------

package contact

import (
	"sync"

	"github.com/yanizio/folio/internal/cache"
	"github.com/yanizio/folio/internal/metrics"
)

// DefaultCapacity bounds the number of live forms when none is configured.
const DefaultCapacity = 10000

// Store maps session ids to Forms.  Safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	forms   *cache.LRU[string, *Form]
	evicted func(id string)
}

// NewStore returns a Store holding up to capacity forms.  evicted, when not
// nil, is called with the id of every form that leaves the store.
func NewStore(capacity int, evicted func(id string)) *Store {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	s := &Store{
		forms:   cache.New[string, *Form](capacity),
		evicted: evicted,
	}
	s.forms.OnEvict(func(id string, f *Form) {
		f.Close()
		metrics.ActiveForms.Dec()
		if s.evicted != nil {
			s.evicted(id)
		}
	})
	return s
}

// Get returns the form for id, creating an empty Idle one on first use.
func (s *Store) Get(id string) *Form {
	s.mu.Lock()
	defer s.mu.Unlock()

	if f, ok := s.forms.Get(id); ok {
		return f
	}
	f := NewForm(id)
	s.forms.Add(id, f)
	metrics.ActiveForms.Inc()
	return f
}

// Lookup returns the form for id without creating one.
func (s *Store) Lookup(id string) (*Form, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.forms.Get(id)
}

// Drop closes and removes the form for id.
func (s *Store) Drop(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forms.Remove(id)
}

// Len reports how many forms are held.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.forms.Len()
}

// Close closes and drops every form.  Used on shutdown.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forms.Purge()
}
