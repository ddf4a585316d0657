package realtime

import (
	"sync"
	"time"

	"github.com/kiranchoudharyy/BroCode-sub000/internal/models"
)

// ConnectionInfo is the registry's view of one live client session.
// Identity stays zero until the client sends an identify event.
type ConnectionInfo struct {
	ConnID   string
	Identity models.Identity
}

type registryEntry struct {
	identity  models.Identity
	expiresAt time.Time
}

// Registry owns the connection-to-identity mapping. Entries carry a
// sliding expiry so sessions that stop touching the registry self-evict
// on the next sweep. All access is serialized through one mutex; no
// other component mutates this state.
type Registry struct {
	mu    sync.RWMutex
	conns map[string]*registryEntry
	ttl   time.Duration
}

// NewRegistry creates a registry whose entries expire ttl after their
// last access.
func NewRegistry(ttl time.Duration) *Registry {
	return &Registry{
		conns: make(map[string]*registryEntry),
		ttl:   ttl,
	}
}

// Add creates an unidentified entry for a new transport connection.
func (r *Registry) Add(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[connID] = &registryEntry{expiresAt: time.Now().Add(r.ttl)}
}

// Identify associates a connection with a user. Idempotent; later calls
// overwrite earlier metadata for the same connection.
func (r *Registry) Identify(connID string, identity models.Identity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.conns[connID]
	if !ok {
		// Identify may race a reconnect; treat it as a fresh session.
		entry = &registryEntry{}
		r.conns[connID] = entry
	}
	entry.identity = identity
	entry.expiresAt = time.Now().Add(r.ttl)
}

// Touch refreshes a connection's expiry and returns its current info.
// The second return is false when the connection is unknown. A known but
// unidentified connection is a valid state: callers check
// Info.Identity.Valid() and silently skip work for it.
func (r *Registry) Touch(connID string) (ConnectionInfo, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.conns[connID]
	if !ok {
		return ConnectionInfo{}, false
	}
	entry.expiresAt = time.Now().Add(r.ttl)
	return ConnectionInfo{ConnID: connID, Identity: entry.identity}, true
}

// Remove deletes a connection entry. Called on transport disconnect.
func (r *Registry) Remove(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.conns, connID)
}

// Sweep removes every entry whose expiry has passed and returns how many
// were removed. Runs only from the lifecycle scheduler, never inline on
// the dispatch path.
func (r *Registry) Sweep(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for connID, entry := range r.conns {
		if now.After(entry.expiresAt) {
			delete(r.conns, connID)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked connections.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}

// IdentifiedLen returns the number of connections with a resolved user.
func (r *Registry) IdentifiedLen() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, entry := range r.conns {
		if entry.identity.Valid() {
			n++
		}
	}
	return n
}
