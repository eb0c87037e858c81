// Package room owns active match rooms: membership, the authoritative
// game engine, rematch votes and the chat log.
package room

import (
	"log"
	"sync"
	"time"

	"github.com/dropfour/backend/internal/domain"
	"github.com/dropfour/backend/internal/protocol"
)

const (
	ErrRoomNotFound  domain.Error = "room not found"
	ErrRoomFull      domain.Error = "room full"
	ErrNotInRoom     domain.Error = "you are not in the room"
	ErrWrongPassword domain.Error = "wrong password"
)

const maxMembers = 2

type ChatEntry struct {
	From string    `json:"from"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// MatchRecord describes a finished match for archival.
type MatchRecord struct {
	RoomID          string
	PlayerA         string
	PlayerB         string
	WinnerIndex     int // domain.NoWinner on a draw
	WinnerName      string
	Status          domain.Status
	TotalMoves      int
	DurationSeconds int
	StartedAt       time.Time
	FinishedAt      time.Time
	FinalBoard      [][]domain.Cell
}

// Archiver persists finished matches. Implementations must be safe for
// concurrent use; rooms call it from a background goroutine.
type Archiver interface {
	ArchiveMatch(rec MatchRecord) error
}

// StatsRecorder tracks aggregate results. winner is empty on a draw.
type StatsRecorder interface {
	RecordMatch(winner string, players []string, drawn bool)
}

// Room holds one match and at most two members. All mutable state is
// guarded by mu; handlers hold the lock through their broadcast so moves
// against the same room serialize in arrival order.
type Room struct {
	ID           string
	CreatedAt    time.Time
	PasswordHash string // empty for public rooms

	rows    int
	cols    int
	archive Archiver
	stats   StatsRecorder

	mu           sync.Mutex
	members      []string       // ordered, joins append
	seats        map[string]int // connID → player index, stable until the seat is retaken
	seatNames    map[int]string
	game         *domain.Game
	startedAt    time.Time
	rematchVotes int
	chat         []ChatEntry
}

func New(id string, rows, cols int, passwordHash string, archive Archiver, stats StatsRecorder) *Room {
	now := time.Now()
	return &Room{
		ID:           id,
		CreatedAt:    now,
		PasswordHash: passwordHash,
		rows:         rows,
		cols:         cols,
		archive:      archive,
		stats:        stats,
		seats:        make(map[string]int),
		seatNames:    make(map[int]string),
		game:         domain.NewGame(rows, cols),
		startedAt:    now,
	}
}

// AddMember seats the connection in the lowest free seat. The arrival of
// the second member starts the match on a fresh engine.
func (r *Room) AddMember(connID, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.members) >= maxMembers {
		return ErrRoomFull
	}

	seat := 0
	for _, taken := range r.seats {
		if taken == 0 {
			seat = 1
		}
	}

	r.members = append(r.members, connID)
	r.seats[connID] = seat
	r.seatNames[seat] = name

	if len(r.members) == maxMembers {
		r.game = domain.NewGame(r.rows, r.cols)
		r.startedAt = time.Now()
	}
	return nil
}

// RemoveMember drops the connection from the room. The vacated seat is
// not reassigned, so the match freezes once the vacated index is on
// turn. Returns the remaining members and whether connID was a member.
func (r *Room) RemoveMember(connID string) ([]string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.seats[connID]; !ok {
		return r.membersLocked(), false
	}
	delete(r.seats, connID)
	for i, id := range r.members {
		if id == connID {
			r.members = append(r.members[:i], r.members[i+1:]...)
			break
		}
	}
	return r.membersLocked(), true
}

// HandleMove validates and applies a move for the seat connID occupies,
// then broadcasts the new snapshot. A returned error means nothing was
// broadcast; the caller reports it to the mover alone.
func (r *Room) HandleMove(connID string, column int, s protocol.Sender) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	seat, ok := r.seats[connID]
	if !ok {
		return ErrNotInRoom
	}

	if _, err := r.game.Play(seat, column); err != nil {
		return err
	}

	r.broadcastLocked(s, protocol.NewGameState(r.ID, r.game))

	if r.game.IsFinished() {
		r.broadcastLocked(s, protocol.NewGameOver(r.game))
		r.recordResultLocked()
	}
	return nil
}

// VoteRematch counts one rematch vote. Votes are raw event counts, not
// deduplicated by connection; the second vote resets the engine and
// starts the next match.
func (r *Room) VoteRematch(s protocol.Sender) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rematchVotes++
	if r.rematchVotes < maxMembers {
		r.broadcastLocked(s, protocol.NewRoomUpdate("rematch vote received", r.ID, r.membersLocked()))
		return
	}

	r.rematchVotes = 0
	r.game.Reset()
	r.startedAt = time.Now()
	log.Printf("[ROOM] Rematch started in room %s", r.ID)
	r.broadcastLocked(s, protocol.NewRematchStarted())
	r.broadcastLocked(s, protocol.NewGameState(r.ID, r.game))
}

// AppendChat records the message in the room log and fans it out.
func (r *Room) AppendChat(from, text string, s protocol.Sender) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.chat = append(r.chat, ChatEntry{From: from, Text: text, At: time.Now()})
	r.broadcastLocked(s, protocol.NewChat(from, text))
}

// BroadcastState pushes the current snapshot to all members. Used for
// the initial state after a join or a found match.
func (r *Room) BroadcastState(s protocol.Sender) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.broadcastLocked(s, protocol.NewGameState(r.ID, r.game))
}

// BroadcastUpdate sends a membership notice to all members.
func (r *Room) BroadcastUpdate(message string, s protocol.Sender) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.broadcastLocked(s, protocol.NewRoomUpdate(message, r.ID, r.membersLocked()))
}

func (r *Room) Members() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.membersLocked()
}

func (r *Room) Seat(connID string) (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	seat, ok := r.seats[connID]
	return seat, ok
}

func (r *Room) IsEmpty() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.members) == 0
}

// GameSnapshot returns a copy of the engine state for inspection.
func (r *Room) GameSnapshot() domain.Game {
	r.mu.Lock()
	defer r.mu.Unlock()

	snapshot := *r.game
	snapshot.Board = domain.CopyBoard(r.game.Board)
	return snapshot
}

// ChatLog returns a copy of the chat history.
func (r *Room) ChatLog() []ChatEntry {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]ChatEntry(nil), r.chat...)
}

func (r *Room) membersLocked() []string {
	return append([]string(nil), r.members...)
}

func (r *Room) broadcastLocked(s protocol.Sender, message any) {
	for _, connID := range r.members {
		if err := s.Send(connID, message); err != nil {
			log.Printf("[ROOM] Send to %s failed: %v", connID, err)
		}
	}
}

// recordResultLocked hands the finished match to the archive and stats
// sinks without blocking the move that ended it.
func (r *Room) recordResultLocked() {
	finished := time.Now()
	rec := MatchRecord{
		RoomID:          r.ID,
		PlayerA:         r.seatNames[0],
		PlayerB:         r.seatNames[1],
		WinnerIndex:     r.game.Winner,
		Status:          r.game.Status,
		TotalMoves:      r.game.MoveCount,
		DurationSeconds: int(finished.Sub(r.startedAt).Seconds()),
		StartedAt:       r.startedAt,
		FinishedAt:      finished,
		FinalBoard:      domain.CopyBoard(r.game.Board),
	}
	if rec.WinnerIndex != domain.NoWinner {
		rec.WinnerName = r.seatNames[rec.WinnerIndex]
	}

	archive := r.archive
	stats := r.stats
	go func() {
		if archive != nil {
			if err := archive.ArchiveMatch(rec); err != nil {
				log.Printf("[ARCHIVE] Error saving match %s: %v", rec.RoomID, err)
			}
		}
		if stats != nil {
			stats.RecordMatch(rec.WinnerName, []string{rec.PlayerA, rec.PlayerB}, rec.Status == domain.StatusDrawn)
		}
	}()
}
