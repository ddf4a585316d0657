package realtime

import (
	"sort"
	"sync"
	"time"
)

// RoomKind distinguishes the two broadcast domains the platform uses.
type RoomKind string

const (
	RoomGroup     RoomKind = "group"
	RoomChallenge RoomKind = "challenge"
)

// RoomInfo is a read-only snapshot of one room.
type RoomInfo struct {
	ID      string   `json:"id"`
	Kind    RoomKind `json:"kind"`
	Members int      `json:"members"`
}

type roomState struct {
	kind RoomKind
	// members maps user identity to last heartbeat time. Keying by user,
	// not connection, keeps a reconnecting user "present" without flicker.
	members map[string]time.Time
}

// Tracker maintains per-room member sets. Rooms are created lazily on
// first join and deleted by Prune once empty; Leave never deletes
// synchronously so a rapid rejoin lands in the same room.
type Tracker struct {
	mu     sync.RWMutex
	rooms  map[string]*roomState
	window time.Duration // presence window: members older than this are evicted by Prune
}

// NewTracker creates a tracker with the given presence window.
func NewTracker(window time.Duration) *Tracker {
	return &Tracker{
		rooms:  make(map[string]*roomState),
		window: window,
	}
}

// Join adds the user to the room, creating the room if absent, and
// returns the new member count plus the room's kind. An existing room
// keeps its kind regardless of what the caller requested; heartbeats
// may arrive without one. Re-joining refreshes the member's last-seen
// time and does not inflate the count.
func (t *Tracker) Join(roomID string, kind RoomKind, userID string) (int, RoomKind) {
	t.mu.Lock()
	defer t.mu.Unlock()
	room, ok := t.rooms[roomID]
	if !ok {
		room = &roomState{kind: kind, members: make(map[string]time.Time)}
		t.rooms[roomID] = room
	}
	room.members[userID] = time.Now()
	return len(room.members), room.kind
}

// Leave removes the user and returns the remaining count. Unknown rooms
// are a no-op: they may have been pruned concurrently.
func (t *Tracker) Leave(roomID, userID string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	room, ok := t.rooms[roomID]
	if !ok {
		return 0
	}
	delete(room.members, userID)
	return len(room.members)
}

// MemberCount returns the room's current member count, 0 for unknown rooms.
func (t *Tracker) MemberCount(roomID string) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	room, ok := t.rooms[roomID]
	if !ok {
		return 0
	}
	return len(room.members)
}

// Kind returns the room's kind. Unknown rooms report RoomGroup.
func (t *Tracker) Kind(roomID string) RoomKind {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if room, ok := t.rooms[roomID]; ok {
		return room.kind
	}
	return RoomGroup
}

// Members returns the user IDs currently in the room, sorted for stable
// polling responses.
func (t *Tracker) Members(roomID string) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	room, ok := t.rooms[roomID]
	if !ok {
		return nil
	}
	ids := make([]string, 0, len(room.members))
	for userID := range room.members {
		ids = append(ids, userID)
	}
	sort.Strings(ids)
	return ids
}

// Prune evicts members whose last heartbeat is outside the presence
// window, then deletes rooms left empty. Returns the number of rooms
// removed. This is the only eviction trigger; presence expiry is
// detected lazily here rather than with a timer per user.
func (t *Tracker) Prune(now time.Time) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	removed := 0
	for roomID, room := range t.rooms {
		for userID, lastSeen := range room.members {
			if now.Sub(lastSeen) > t.window {
				delete(room.members, userID)
			}
		}
		if len(room.members) == 0 {
			delete(t.rooms, roomID)
			removed++
		}
	}
	return removed
}

// Len returns the number of rooms currently tracked.
func (t *Tracker) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rooms)
}

// Snapshot returns all rooms ordered by member count, largest first.
func (t *Tracker) Snapshot() []RoomInfo {
	t.mu.RLock()
	defer t.mu.RUnlock()
	infos := make([]RoomInfo, 0, len(t.rooms))
	for roomID, room := range t.rooms {
		infos = append(infos, RoomInfo{ID: roomID, Kind: room.kind, Members: len(room.members)})
	}
	sort.Slice(infos, func(i, j int) bool {
		if infos[i].Members != infos[j].Members {
			return infos[i].Members > infos[j].Members
		}
		return infos[i].ID < infos[j].ID
	})
	return infos
}
