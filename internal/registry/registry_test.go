package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndGet(t *testing.T) {
	r := New()

	r.Register("conn-1", "alice")

	p, ok := r.Get("conn-1")
	require.True(t, ok)
	assert.Equal(t, "conn-1", p.ConnID)
	assert.Equal(t, "alice", p.Name)
	assert.Empty(t, p.RoomID)
}

func TestRegisterOverwrites(t *testing.T) {
	r := New()

	r.Register("conn-1", "alice")
	r.SetRoom("conn-1", "room-9")
	r.Register("conn-1", "bob")

	p, ok := r.Get("conn-1")
	require.True(t, ok)
	assert.Equal(t, "bob", p.Name)
	assert.Empty(t, p.RoomID, "re-registering resets room attachment")
}

func TestUnregisterIsIdempotent(t *testing.T) {
	r := New()
	r.Register("conn-1", "alice")

	r.Unregister("conn-1")
	r.Unregister("conn-1")
	r.Unregister("never-registered")

	_, ok := r.Get("conn-1")
	assert.False(t, ok)
	assert.Equal(t, 0, r.Count())
}

func TestSetRoom(t *testing.T) {
	r := New()
	r.Register("conn-1", "alice")

	r.SetRoom("conn-1", "room-1")
	p, _ := r.Get("conn-1")
	assert.Equal(t, "room-1", p.RoomID)

	r.SetRoom("conn-1", "")
	p, _ = r.Get("conn-1")
	assert.Empty(t, p.RoomID)

	// unknown connection is a no-op
	r.SetRoom("ghost", "room-1")
	_, ok := r.Get("ghost")
	assert.False(t, ok)
}
