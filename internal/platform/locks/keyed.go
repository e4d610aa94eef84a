// Package locks provides a mutex keyed by entity id.
//
// Derived-state recomputation is a read-all-then-write-one sequence; two
// writers touching the same movie or user must not interleave those phases.
// A keyed mutex serializes recomputes per entity without serializing the
// whole service.
package locks

import (
	"sync"
)

// Keyed is a set of named mutexes. The zero value is not usable; use NewKeyed.
type Keyed struct {
	mu    sync.Mutex
	locks map[string]*entry
}

type entry struct {
	mu   sync.Mutex
	refs int
}

func NewKeyed() *Keyed {
	return &Keyed{locks: make(map[string]*entry)}
}

// Lock acquires the mutex for key, creating it on first use.
func (k *Keyed) Lock(key string) {
	k.mu.Lock()
	e, ok := k.locks[key]
	if !ok {
		e = &entry{}
		k.locks[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()
}

// Unlock releases the mutex for key. Entries with no waiters are dropped
// so the map does not grow with every entity ever touched.
func (k *Keyed) Unlock(key string) {
	k.mu.Lock()
	e, ok := k.locks[key]
	if !ok {
		k.mu.Unlock()
		panic("locks: unlock of unheld key " + key)
	}
	e.refs--
	if e.refs == 0 {
		delete(k.locks, key)
	}
	k.mu.Unlock()

	e.mu.Unlock()
}

// Do runs fn while holding the mutex for key.
func (k *Keyed) Do(key string, fn func()) {
	k.Lock(key)
	defer k.Unlock(key)
	fn()
}
