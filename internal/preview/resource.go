package preview

import "sync"

// Resource holds at most one live handle for a session.
type Resource struct {
	store *Store

	mu     sync.Mutex
	handle Handle
}

// Materialize stores content under a new handle. Any handle already held is
// released before the new one becomes active.
func (r *Resource) Materialize(content []byte, contentType string) (Handle, Info) {
	info := Inspect(content, contentType)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.releaseLocked()
	r.handle = r.store.put(content, info)
	return r.handle, info
}

// Release drops the held handle. Releasing an empty or already released
// resource is a no-op and returns false.
func (r *Resource) Release() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.releaseLocked()
}

// Current returns the live handle, if any.
func (r *Resource) Current() (Handle, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.handle, r.handle != ""
}

func (r *Resource) releaseLocked() bool {
	if r.handle == "" {
		return false
	}
	released := r.store.remove(r.handle)
	r.handle = ""
	return released
}
