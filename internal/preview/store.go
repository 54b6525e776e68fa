// Package preview keeps generated artifacts addressable by an opaque handle
// for as long as a session holds them.
package preview

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrHandleReleased = errors.New("preview handle is not live")

// Handle addresses one materialized artifact.
type Handle string

func (h Handle) String() string {
	return string(h)
}

// Artifact is the read-only view of a live handle. Content must not be
// modified by callers.
type Artifact struct {
	Handle      Handle
	Content     []byte
	ContentType string
	Pages       int
	CreatedAt   time.Time
}

// Store owns every live handle of the process. Handles are only added and
// removed through Resource.
type Store struct {
	mu    sync.RWMutex
	items map[Handle]*Artifact
	now   func() time.Time
}

func NewStore() *Store {
	return &Store{
		items: make(map[Handle]*Artifact),
		now:   time.Now,
	}
}

// Open returns the artifact behind h.
func (s *Store) Open(h Handle) (*Artifact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.items[h]
	if !ok {
		return nil, ErrHandleReleased
	}
	return a, nil
}

// Live reports how many handles are currently materialized.
func (s *Store) Live() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// ReleaseAll drops every handle. Used on process shutdown.
func (s *Store) ReleaseAll() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.items)
	s.items = make(map[Handle]*Artifact)
	return n
}

func (s *Store) put(content []byte, info Info) Handle {
	h := Handle(uuid.NewString())
	s.mu.Lock()
	s.items[h] = &Artifact{
		Handle:      h,
		Content:     content,
		ContentType: info.ContentType,
		Pages:       info.Pages,
		CreatedAt:   s.now(),
	}
	s.mu.Unlock()
	return h
}

func (s *Store) remove(h Handle) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[h]; !ok {
		return false
	}
	delete(s.items, h)
	return true
}

// NewResource returns an empty per-session slot backed by s.
func (s *Store) NewResource() *Resource {
	return &Resource{store: s}
}
