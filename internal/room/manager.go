package room

import (
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/dropfour/backend/pkg/auth"
)

// Manager owns the set of active rooms. Rooms are created by players or
// by matchmaking and destroyed the moment their membership drops to
// zero.
type Manager struct {
	rows    int
	cols    int
	archive Archiver
	stats   StatsRecorder

	mu    sync.RWMutex
	rooms map[string]*Room
}

func NewManager(rows, cols int, archive Archiver, stats StatsRecorder) *Manager {
	return &Manager{
		rows:    rows,
		cols:    cols,
		archive: archive,
		stats:   stats,
		rooms:   make(map[string]*Room),
	}
}

// Create allocates a room with the owner seated at index 0. A non-empty
// password makes the room private; it is stored hashed.
func (m *Manager) Create(ownerConnID, ownerName, password string) (*Room, error) {
	passwordHash := ""
	if password != "" {
		hash, err := auth.HashPassword(password)
		if err != nil {
			return nil, err
		}
		passwordHash = hash
	}

	r := New(uuid.NewString(), m.rows, m.cols, passwordHash, m.archive, m.stats)
	if err := r.AddMember(ownerConnID, ownerName); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.rooms[r.ID] = r
	m.mu.Unlock()

	log.Printf("[ROOM] Created room %s for %s", r.ID, ownerName)
	return r, nil
}

// Join seats the connection in an existing room. The second join starts
// the match.
func (m *Manager) Join(roomID, connID, name, password string) (*Room, error) {
	r, ok := m.Get(roomID)
	if !ok {
		return nil, ErrRoomNotFound
	}
	if r.PasswordHash != "" && !auth.CheckPasswordHash(password, r.PasswordHash) {
		return nil, ErrWrongPassword
	}
	if err := r.AddMember(connID, name); err != nil {
		return nil, err
	}

	log.Printf("[ROOM] %s joined room %s", name, roomID)
	return r, nil
}

// Leave removes the connection from the room and destroys the room if it
// became empty. Returns the remaining members and whether the room was
// destroyed. Unknown rooms and non-members are no-ops.
func (m *Manager) Leave(roomID, connID string) (remaining []string, destroyed bool) {
	r, ok := m.Get(roomID)
	if !ok {
		return nil, false
	}

	remaining, wasMember := r.RemoveMember(connID)
	if !wasMember {
		return remaining, false
	}

	if len(remaining) == 0 {
		m.mu.Lock()
		delete(m.rooms, roomID)
		m.mu.Unlock()
		log.Printf("[ROOM] Destroyed empty room %s", roomID)
		return nil, true
	}
	return remaining, false
}

func (m *Manager) Get(roomID string) (*Room, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.rooms[roomID]
	return r, ok
}

// Count returns the number of active rooms.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.rooms)
}
