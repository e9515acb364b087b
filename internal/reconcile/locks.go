package reconcile

import "sync"

// LockRegistry hands out non-blocking exclusive locks keyed by scope.
//
// Locks live only in memory and only for the duration of one reconcile call.
// A registry is an ordinary value: reconcilers that should exclude each other
// must share one, and tests create their own.
//
// Thread-safe: all methods can be called concurrently.
type LockRegistry struct {
	mu   sync.Mutex
	held map[string]bool
}

// NewLockRegistry creates an empty registry.
func NewLockRegistry() *LockRegistry {
	return &LockRegistry{
		held: make(map[string]bool),
	}
}

// TryAcquire takes the lock for key if it is free.
//
// Returns a release function and true on success. Returns nil and false if
// the lock is already held; the caller must not wait for it.
//
// The release function is idempotent.
func (r *LockRegistry) TryAcquire(key string) (release func(), ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.held[key] {
		return nil, false
	}
	r.held[key] = true

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			delete(r.held, key)
		})
	}, true
}

// Held reports whether key is currently locked.
func (r *LockRegistry) Held(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.held[key]
}

// Len returns the number of held locks.
func (r *LockRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.held)
}
