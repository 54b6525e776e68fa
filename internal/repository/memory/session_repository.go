package memory

import (
	"time"

	"docpanel-be/internal/docgen"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// SessionRepository keeps open generation sessions in memory. Every way a
// session leaves the cache (delete, expiry, shutdown) resets its orchestrator,
// which releases the preview it holds.
type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository(ttl, cleanupInterval time.Duration) *SessionRepository {
	c := cache.New(ttl, cleanupInterval)
	c.OnEvicted(func(_ string, v interface{}) {
		if o, ok := v.(*docgen.Orchestrator); ok {
			o.Reset()
		}
	})
	return &SessionRepository{cache: c}
}

// Save stores the session, refreshing its expiration.
func (r *SessionRepository) Save(o *docgen.Orchestrator) {
	r.cache.Set(o.ID().String(), o, cache.DefaultExpiration)
}

func (r *SessionRepository) Get(id uuid.UUID) (*docgen.Orchestrator, bool) {
	if x, found := r.cache.Get(id.String()); found {
		return x.(*docgen.Orchestrator), true
	}
	return nil, false
}

func (r *SessionRepository) Delete(id uuid.UUID) {
	r.cache.Delete(id.String())
}

func (r *SessionRepository) Count() int {
	return r.cache.ItemCount()
}

// CloseAll tears down every session. Flush is avoided because it skips the
// eviction callback.
func (r *SessionRepository) CloseAll() int {
	items := r.cache.Items()
	for key := range items {
		r.cache.Delete(key)
	}
	return len(items)
}
