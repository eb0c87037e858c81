// Package registry keeps the per-connection player records. It is pure
// bookkeeping: no network activity happens here.
package registry

import "sync"

// Player is the lightweight record attached to one live connection.
// RoomID is empty while the player is not in a room.
type Player struct {
	ConnID string
	Name   string
	RoomID string
}

type Registry struct {
	mu      sync.RWMutex
	players map[string]*Player
}

func New() *Registry {
	return &Registry{
		players: make(map[string]*Player),
	}
}

// Register creates or overwrites the record for connID with no room
// attached.
func (r *Registry) Register(connID, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.players[connID] = &Player{ConnID: connID, Name: name}
}

// Unregister removes the record. Safe to call for unknown connections;
// teardown paths must always reach here.
func (r *Registry) Unregister(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.players, connID)
}

// Get returns a copy of the player record.
func (r *Registry) Get(connID string) (Player, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, exists := r.players[connID]
	if !exists {
		return Player{}, false
	}
	return *p, true
}

// SetRoom attaches the player to a room; an empty roomID detaches.
func (r *Registry) SetRoom(connID, roomID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p, exists := r.players[connID]; exists {
		p.RoomID = roomID
	}
}

// Count returns the number of registered players.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.players)
}
