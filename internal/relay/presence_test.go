package relay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_RegisterAndOnlineUsers(t *testing.T) {
	reg := NewRegistry()

	reg.Register("c1", "alice")
	reg.Register("c2", "bob")

	assert.Equal(t, []string{"alice", "bob"}, reg.OnlineUsers())

	name, ok := reg.Name("c1")
	require.True(t, ok)
	assert.Equal(t, "alice", name)
}

func TestRegistry_ReannounceOverwrites(t *testing.T) {
	reg := NewRegistry()

	reg.Register("c1", "alice")
	reg.Register("c1", "alicia")

	name, ok := reg.Name("c1")
	require.True(t, ok)
	assert.Equal(t, "alicia", name)
	assert.Equal(t, []string{"alicia"}, reg.OnlineUsers())
}

func TestRegistry_SharedNamesCollapse(t *testing.T) {
	reg := NewRegistry()

	reg.Register("c1", "alice")
	reg.Register("c2", "alice")

	assert.Equal(t, []string{"alice"}, reg.OnlineUsers())

	// Dropping one of the two connections keeps the name online.
	reg.Unregister("c1")
	assert.Equal(t, []string{"alice"}, reg.OnlineUsers())

	reg.Unregister("c2")
	assert.Empty(t, reg.OnlineUsers())
}

func TestRegistry_UnregisterIsIdempotent(t *testing.T) {
	reg := NewRegistry()

	reg.Register("c1", "alice")
	reg.Unregister("c1")
	reg.Unregister("c1")
	reg.Unregister("never-registered")

	assert.Empty(t, reg.OnlineUsers())
	_, ok := reg.Name("c1")
	assert.False(t, ok)
}

func TestRegistry_LookupByName(t *testing.T) {
	reg := NewRegistry()

	_, ok := reg.LookupByName("alice")
	assert.False(t, ok)

	reg.Register("c1", "alice")
	connID, ok := reg.LookupByName("alice")
	require.True(t, ok)
	assert.Equal(t, "c1", connID)
}

func TestRegistry_LookupByName_MostRecentWins(t *testing.T) {
	reg := NewRegistry()

	reg.Register("c1", "alice")
	reg.Register("c2", "alice")

	connID, ok := reg.LookupByName("alice")
	require.True(t, ok)
	assert.Equal(t, "c2", connID)

	// A fresh announcement from the older connection makes it current again.
	reg.Register("c1", "alice")
	connID, ok = reg.LookupByName("alice")
	require.True(t, ok)
	assert.Equal(t, "c1", connID)
}
