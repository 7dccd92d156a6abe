package relay

import "sync"

// Rooms tracks which room each connection currently occupies. A connection
// belongs to at most one room at a time; joining a new room silently
// supersedes the old membership.
type Rooms struct {
	mu      sync.RWMutex
	current map[string]string              // connID -> room
	members map[string]map[string]struct{} // room -> member connIDs
}

// NewRooms creates an empty membership tracker.
func NewRooms() *Rooms {
	return &Rooms{
		current: make(map[string]string),
		members: make(map[string]map[string]struct{}),
	}
}

// Join moves the connection into the named room and returns the room it
// previously occupied, if any.
func (rm *Rooms) Join(connID, room string) (string, bool) {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	prev, had := rm.current[connID]
	if had {
		rm.removeMemberLocked(prev, connID)
	}

	rm.current[connID] = room
	if rm.members[room] == nil {
		rm.members[room] = make(map[string]struct{})
	}
	rm.members[room][connID] = struct{}{}

	return prev, had
}

// Current returns the connection's room, if it has joined one.
func (rm *Rooms) Current(connID string) (string, bool) {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	room, ok := rm.current[connID]
	return room, ok
}

// Leave removes the connection's membership and returns the room it vacated.
// It is a no-op for connections that never joined.
func (rm *Rooms) Leave(connID string) (string, bool) {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	room, ok := rm.current[connID]
	if !ok {
		return "", false
	}

	delete(rm.current, connID)
	rm.removeMemberLocked(room, connID)
	return room, true
}

// Members returns the connections currently in the named room.
func (rm *Rooms) Members(room string) []string {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	set := rm.members[room]
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	return ids
}

func (rm *Rooms) removeMemberLocked(room, connID string) {
	set := rm.members[room]
	if set == nil {
		return
	}
	delete(set, connID)
	if len(set) == 0 {
		delete(rm.members, room)
	}
}
