package realtime

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracker_JoinLeave(t *testing.T) {
	tests := []struct {
		name      string
		ops       func(tr *Tracker)
		roomID    string
		wantCount int
	}{
		{
			name: "distinct users counted",
			ops: func(tr *Tracker) {
				tr.Join("g1", RoomGroup, "u1")
				tr.Join("g1", RoomGroup, "u2")
			},
			roomID:    "g1",
			wantCount: 2,
		},
		{
			name: "double join does not inflate",
			ops: func(tr *Tracker) {
				tr.Join("g1", RoomGroup, "u1")
				tr.Join("g1", RoomGroup, "u1")
			},
			roomID:    "g1",
			wantCount: 1,
		},
		{
			name: "leave removes member",
			ops: func(tr *Tracker) {
				tr.Join("g1", RoomGroup, "u1")
				tr.Join("g1", RoomGroup, "u2")
				tr.Leave("g1", "u1")
			},
			roomID:    "g1",
			wantCount: 1,
		},
		{
			name: "rooms are independent",
			ops: func(tr *Tracker) {
				tr.Join("g1", RoomGroup, "u1")
				tr.Join("c7", RoomChallenge, "u1")
			},
			roomID:    "c7",
			wantCount: 1,
		},
		{
			name:      "unknown room reports zero",
			ops:       func(tr *Tracker) {},
			roomID:    "missing",
			wantCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewTracker(time.Minute)
			tt.ops(tr)
			assert.Equal(t, tt.wantCount, tr.MemberCount(tt.roomID))
		})
	}
}

func TestTracker_LeaveUnknownRoomIsNoop(t *testing.T) {
	tr := NewTracker(time.Minute)
	assert.Equal(t, 0, tr.Leave("gone", "u1"))
}

func TestTracker_EmptyRoomSurvivesUntilPrune(t *testing.T) {
	tr := NewTracker(time.Minute)

	tr.Join("g1", RoomGroup, "u1")
	tr.Leave("g1", "u1")

	// Leave must not delete synchronously: a rapid rejoin lands in the
	// same room.
	assert.Equal(t, 1, tr.Len())
	tr.Join("g1", RoomGroup, "u1")
	assert.Equal(t, 1, tr.MemberCount("g1"))

	tr.Leave("g1", "u1")
	removed := tr.Prune(time.Now())
	assert.Equal(t, 1, removed)
	assert.Equal(t, 0, tr.Len())
}

func TestTracker_PruneEvictsStaleMembers(t *testing.T) {
	tr := NewTracker(time.Minute)

	tr.Join("g1", RoomGroup, "u1")
	tr.Join("g1", RoomGroup, "u2")

	// Inside the window nobody is evicted
	tr.Prune(time.Now())
	assert.Equal(t, 2, tr.MemberCount("g1"))

	// Past the window both members are stale; the room empties and goes
	removed := tr.Prune(time.Now().Add(2 * time.Minute))
	assert.Equal(t, 1, removed)
	assert.Equal(t, 0, tr.MemberCount("g1"))
	assert.Equal(t, 0, tr.Len())
}

func TestTracker_ConcurrentJoins(t *testing.T) {
	const n = 64
	tr := NewTracker(time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tr.Join("g1", RoomGroup, fmt.Sprintf("u%d", i))
		}(i)
	}
	wg.Wait()

	assert.Equal(t, n, tr.MemberCount("g1"), "no lost updates under concurrent joins")
}

func TestTracker_JoinKeepsRoomKind(t *testing.T) {
	tr := NewTracker(time.Minute)

	count, kind := tr.Join("c7", RoomChallenge, "u1")
	assert.Equal(t, 1, count)
	assert.Equal(t, RoomChallenge, kind)

	// A later join with a defaulted kind does not re-type the room.
	count, kind = tr.Join("c7", RoomGroup, "u2")
	assert.Equal(t, 2, count)
	assert.Equal(t, RoomChallenge, kind)
	assert.Equal(t, RoomChallenge, tr.Kind("c7"))
}

func TestTracker_MembersSorted(t *testing.T) {
	tr := NewTracker(time.Minute)

	tr.Join("g1", RoomGroup, "u3")
	tr.Join("g1", RoomGroup, "u1")
	tr.Join("g1", RoomGroup, "u2")

	assert.Equal(t, []string{"u1", "u2", "u3"}, tr.Members("g1"))
	assert.Nil(t, tr.Members("missing"))
}

func TestTracker_Snapshot(t *testing.T) {
	tr := NewTracker(time.Minute)

	tr.Join("g1", RoomGroup, "u1")
	tr.Join("c7", RoomChallenge, "u1")
	tr.Join("c7", RoomChallenge, "u2")

	snap := tr.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, "c7", snap[0].ID)
	assert.Equal(t, RoomChallenge, snap[0].Kind)
	assert.Equal(t, 2, snap[0].Members)
	assert.Equal(t, "g1", snap[1].ID)
}
