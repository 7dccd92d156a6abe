package relay

import (
	"sort"
	"sync"
)

// Registry tracks which display name each connection has announced and derives
// the deduplicated set of names currently online. Names are not unique across
// connections; when several connections share a name, lookups resolve to the
// one that announced most recently.
type Registry struct {
	mu    sync.RWMutex
	names map[string]string // connID -> announced name
	order map[string]uint64 // connID -> announce sequence, for lookup tie-breaks
	seq   uint64
}

// NewRegistry creates an empty presence registry.
func NewRegistry() *Registry {
	return &Registry{
		names: make(map[string]string),
		order: make(map[string]uint64),
	}
}

// Register records the connection's display name. A connection that announces
// again simply has its name overwritten.
func (r *Registry) Register(connID, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	r.names[connID] = name
	r.order[connID] = r.seq
}

// Unregister removes the connection's entry. It is a no-op for connections
// that never announced.
func (r *Registry) Unregister(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.names, connID)
	delete(r.order, connID)
}

// Name returns the display name the connection announced, if any.
func (r *Registry) Name(connID string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	name, ok := r.names[connID]
	return name, ok
}

// LookupByName resolves a display name to a delivery target. When multiple
// connections share the name, the most recently announced one wins.
func (r *Registry) LookupByName(name string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var (
		connID string
		best   uint64
		found  bool
	)
	for id, n := range r.names {
		if n != name {
			continue
		}
		if !found || r.order[id] > best {
			connID = id
			best = r.order[id]
			found = true
		}
	}
	return connID, found
}

// OnlineUsers returns the deduplicated set of announced names, sorted for
// stable output.
func (r *Registry) OnlineUsers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{}, len(r.names))
	users := make([]string, 0, len(r.names))
	for _, name := range r.names {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		users = append(users, name)
	}
	sort.Strings(users)
	return users
}
