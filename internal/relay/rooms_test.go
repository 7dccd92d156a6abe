package relay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRooms_JoinAndCurrent(t *testing.T) {
	rooms := NewRooms()

	_, ok := rooms.Current("c1")
	assert.False(t, ok)

	prev, had := rooms.Join("c1", "General")
	assert.False(t, had)
	assert.Empty(t, prev)

	room, ok := rooms.Current("c1")
	require.True(t, ok)
	assert.Equal(t, "General", room)
	assert.Equal(t, []string{"c1"}, rooms.Members("General"))
}

func TestRooms_JoinSupersedesPreviousRoom(t *testing.T) {
	rooms := NewRooms()

	rooms.Join("c1", "General")
	prev, had := rooms.Join("c1", "Coding")

	require.True(t, had)
	assert.Equal(t, "General", prev)

	room, ok := rooms.Current("c1")
	require.True(t, ok)
	assert.Equal(t, "Coding", room)

	assert.Empty(t, rooms.Members("General"), "old room roster no longer lists the connection")
	assert.Equal(t, []string{"c1"}, rooms.Members("Coding"))
}

func TestRooms_Leave(t *testing.T) {
	rooms := NewRooms()

	rooms.Join("c1", "General")
	rooms.Join("c2", "General")

	room, ok := rooms.Leave("c1")
	require.True(t, ok)
	assert.Equal(t, "General", room)
	assert.Equal(t, []string{"c2"}, rooms.Members("General"))

	_, ok = rooms.Current("c1")
	assert.False(t, ok)

	// Leaving again is a no-op.
	_, ok = rooms.Leave("c1")
	assert.False(t, ok)
}

func TestRooms_LastMemberLeavingEmptiesRoster(t *testing.T) {
	rooms := NewRooms()

	rooms.Join("c1", "General")
	room, ok := rooms.Leave("c1")

	require.True(t, ok)
	assert.Equal(t, "General", room)
	assert.Empty(t, rooms.Members("General"))
}

func TestRooms_MembersOfUnknownRoom(t *testing.T) {
	rooms := NewRooms()

	assert.Empty(t, rooms.Members("nowhere"))
}
