// Package lobby routes client events to the registry, the matchmaking
// queue and the room manager, and fans results back out through the
// sender.
package lobby

import (
	"log"
	"time"

	"github.com/dropfour/backend/internal/domain"
	"github.com/dropfour/backend/internal/matchmaking"
	"github.com/dropfour/backend/internal/protocol"
	"github.com/dropfour/backend/internal/registry"
	"github.com/dropfour/backend/internal/room"
)

const defaultName = "Player"

type Service struct {
	registry *registry.Registry
	queue    *matchmaking.Queue
	rooms    *room.Manager
	sender   protocol.Sender
}

func NewService(reg *registry.Registry, queue *matchmaking.Queue, rooms *room.Manager, sender protocol.Sender) *Service {
	return &Service{
		registry: reg,
		queue:    queue,
		rooms:    rooms,
		sender:   sender,
	}
}

// JoinLobby registers the player record for this connection.
func (s *Service) JoinLobby(connID, name string) {
	if name == "" {
		name = defaultName
	}
	s.registry.Register(connID, name)
	s.send(connID, protocol.NewLobbyUpdate("joined lobby"))
}

// EnterQueue puts the connection on the waiting list and pairs as many
// waiters as possible. A connection already in a room is detached first
// so it never belongs to two rooms at once.
func (s *Service) EnterQueue(connID string) {
	s.ensureRegistered(connID)
	s.detachFromRoom(connID)

	if s.queue.Enqueue(connID) {
		s.send(connID, protocol.NewLobbyUpdate("queued"))
	}

	for _, pair := range s.queue.DequeuePairs() {
		s.startMatch(pair)
	}
}

// startMatch creates a room for a dequeued pair. The earlier waiter is
// seated as player index 0.
func (s *Service) startMatch(pair matchmaking.Pair) {
	nameA := s.displayName(pair[0])
	nameB := s.displayName(pair[1])

	r, err := s.rooms.Create(pair[0], nameA, "")
	if err != nil {
		log.Printf("[MATCHMAKING] Failed to create room for %s: %v", pair[0], err)
		return
	}
	if _, err := s.rooms.Join(r.ID, pair[1], nameB, ""); err != nil {
		log.Printf("[MATCHMAKING] Failed to seat %s in room %s: %v", pair[1], r.ID, err)
		return
	}

	s.registry.SetRoom(pair[0], r.ID)
	s.registry.SetRoom(pair[1], r.ID)

	log.Printf("[MATCHMAKING] Match found: %s vs %s in room %s", nameA, nameB, r.ID)

	members := r.Members()
	s.send(pair[0], protocol.NewMatchFound(r.ID, members))
	s.send(pair[1], protocol.NewMatchFound(r.ID, members))
	r.BroadcastState(s.sender)
}

// CreateRoom opens a room owned by this connection. A non-empty
// password makes it private.
func (s *Service) CreateRoom(connID, name, password string) {
	s.detachFromRoom(connID)
	s.queue.Remove(connID)
	if name != "" {
		s.registry.Register(connID, name)
	} else {
		s.ensureRegistered(connID)
	}

	r, err := s.rooms.Create(connID, s.displayName(connID), password)
	if err != nil {
		s.send(connID, protocol.NewError(err.Error()))
		return
	}
	s.registry.SetRoom(connID, r.ID)
	s.send(connID, protocol.NewRoomCreated(r.ID))
}

// JoinRoom seats the connection in an existing room. Failures go back to
// the joiner only.
func (s *Service) JoinRoom(connID, roomID, name, password string) {
	s.detachFromRoom(connID)
	s.queue.Remove(connID)
	if name != "" {
		s.registry.Register(connID, name)
	} else {
		s.ensureRegistered(connID)
	}

	r, err := s.rooms.Join(roomID, connID, s.displayName(connID), password)
	if err != nil {
		s.send(connID, protocol.NewError(err.Error()))
		return
	}

	s.registry.SetRoom(connID, r.ID)
	r.BroadcastUpdate("player joined", s.sender)
	r.BroadcastState(s.sender)
}

// PlayMove applies a move at the caller's seat. Rejections go to the
// caller only and never mutate the board.
func (s *Service) PlayMove(connID string, column *int) {
	p, ok := s.registry.Get(connID)
	if !ok || p.RoomID == "" {
		s.send(connID, protocol.NewInvalidMove("not in a game"))
		return
	}
	r, ok := s.rooms.Get(p.RoomID)
	if !ok {
		s.send(connID, protocol.NewInvalidMove("room no longer exists"))
		return
	}
	if column == nil {
		s.send(connID, protocol.NewInvalidMove(domain.ErrInvalidColumn.Error()))
		return
	}

	if err := r.HandleMove(connID, *column, s.sender); err != nil {
		s.send(connID, protocol.NewInvalidMove(err.Error()))
	}
}

// RequestRematch counts one rematch vote for the caller's room.
func (s *Service) RequestRematch(connID string) {
	p, ok := s.registry.Get(connID)
	if !ok || p.RoomID == "" {
		return
	}
	if r, ok := s.rooms.Get(p.RoomID); ok {
		r.VoteRematch(s.sender)
	}
}

// SendChat appends to the room chat log and broadcasts the line.
func (s *Service) SendChat(connID, text string) {
	p, ok := s.registry.Get(connID)
	if !ok || p.RoomID == "" {
		return
	}
	if r, ok := s.rooms.Get(p.RoomID); ok {
		r.AppendChat(p.Name, text, s.sender)
	}
}

// Leave releases the connection's room membership and queue slot. The
// transport closes the socket afterwards.
func (s *Service) Leave(connID string) {
	s.detachFromRoom(connID)
	s.queue.Remove(connID)
}

// Disconnect runs the full teardown for a closed connection. Safe to
// call for connections that never joined anything.
func (s *Service) Disconnect(connID string) {
	s.detachFromRoom(connID)
	s.queue.Remove(connID)
	s.registry.Unregister(connID)
}

// StartReporter periodically logs server occupancy.
func (s *Service) StartReporter(interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		for range ticker.C {
			log.Printf("[SESSION] %d connections, %d rooms, %d queued",
				s.registry.Count(), s.rooms.Count(), s.queue.Len())
		}
	}()
}

// detachFromRoom removes the connection from its current room, if any,
// and notifies the remaining member.
func (s *Service) detachFromRoom(connID string) {
	p, ok := s.registry.Get(connID)
	if !ok || p.RoomID == "" {
		return
	}

	remaining, destroyed := s.rooms.Leave(p.RoomID, connID)
	if !destroyed && len(remaining) > 0 {
		if r, ok := s.rooms.Get(p.RoomID); ok {
			r.BroadcastUpdate("opponent left", s.sender)
		}
	}
	s.registry.SetRoom(connID, "")
}

func (s *Service) ensureRegistered(connID string) {
	if _, ok := s.registry.Get(connID); !ok {
		s.registry.Register(connID, defaultName)
	}
}

func (s *Service) displayName(connID string) string {
	if p, ok := s.registry.Get(connID); ok {
		return p.Name
	}
	return defaultName
}

func (s *Service) send(connID string, message any) {
	if err := s.sender.Send(connID, message); err != nil {
		log.Printf("[SESSION] Send to %s failed: %v", connID, err)
	}
}
