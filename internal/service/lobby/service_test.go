package lobby

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropfour/backend/internal/matchmaking"
	"github.com/dropfour/backend/internal/registry"
	"github.com/dropfour/backend/internal/room"
)

// recorder captures everything sent to each connection as generic maps
// so tests can assert on the wire shape.
type recorder struct {
	sent map[string][]map[string]any
}

func newRecorder() *recorder {
	return &recorder{sent: make(map[string][]map[string]any)}
}

func (r *recorder) Send(connID string, message any) error {
	raw, err := json.Marshal(message)
	if err != nil {
		return err
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return err
	}
	r.sent[connID] = append(r.sent[connID], m)
	return nil
}

func (r *recorder) lastOfType(connID, msgType string) (map[string]any, bool) {
	var found map[string]any
	ok := false
	for _, m := range r.sent[connID] {
		if m["type"] == msgType {
			found = m
			ok = true
		}
	}
	return found, ok
}

func newTestService() (*Service, *registry.Registry, *matchmaking.Queue, *room.Manager, *recorder) {
	reg := registry.New()
	queue := matchmaking.NewQueue()
	rooms := room.NewManager(6, 7, nil, nil)
	rec := newRecorder()
	svc := NewService(reg, queue, rooms, rec)
	return svc, reg, queue, rooms, rec
}

func TestQueuePairingCreatesSharedRoom(t *testing.T) {
	svc, _, queue, rooms, rec := newTestService()

	svc.JoinLobby("conn-a", "Ana")
	svc.JoinLobby("conn-b", "Ben")

	svc.EnterQueue("conn-a")
	_, queued := rec.lastOfType("conn-a", "lobby_update")
	assert.True(t, queued)
	assert.Equal(t, 1, queue.Len())

	svc.EnterQueue("conn-b")
	assert.Equal(t, 0, queue.Len())

	foundA, okA := rec.lastOfType("conn-a", "match_found")
	foundB, okB := rec.lastOfType("conn-b", "match_found")
	require.True(t, okA)
	require.True(t, okB)
	assert.Equal(t, foundA["roomId"], foundB["roomId"])

	r, ok := rooms.Get(foundA["roomId"].(string))
	require.True(t, ok)

	seatA, _ := r.Seat("conn-a")
	seatB, _ := r.Seat("conn-b")
	assert.Equal(t, 0, seatA)
	assert.Equal(t, 1, seatB)

	_, gotStateA := rec.lastOfType("conn-a", "game_state")
	_, gotStateB := rec.lastOfType("conn-b", "game_state")
	assert.True(t, gotStateA)
	assert.True(t, gotStateB)
}

func TestEnterQueueTwiceDoesNotSelfPair(t *testing.T) {
	svc, _, queue, rooms, rec := newTestService()

	svc.JoinLobby("conn-a", "Ana")
	svc.EnterQueue("conn-a")
	svc.EnterQueue("conn-a")

	assert.Equal(t, 1, queue.Len())
	assert.Equal(t, 0, rooms.Count())
	_, matched := rec.lastOfType("conn-a", "match_found")
	assert.False(t, matched)
}

func TestCreateAndJoinPrivateRoom(t *testing.T) {
	svc, _, _, _, rec := newTestService()

	svc.CreateRoom("conn-a", "Ana", "hunter2")
	created, ok := rec.lastOfType("conn-a", "room_created")
	require.True(t, ok)
	roomID := created["roomId"].(string)

	svc.JoinRoom("conn-b", roomID, "Ben", "wrong")
	errMsg, ok := rec.lastOfType("conn-b", "error")
	require.True(t, ok)
	assert.Equal(t, room.ErrWrongPassword.Error(), errMsg["message"])

	svc.JoinRoom("conn-b", roomID, "Ben", "hunter2")
	_, gotState := rec.lastOfType("conn-b", "game_state")
	assert.True(t, gotState)
	_, gotUpdate := rec.lastOfType("conn-a", "room_update")
	assert.True(t, gotUpdate)
}

func TestJoinUnknownRoom(t *testing.T) {
	svc, _, _, _, rec := newTestService()

	svc.JoinRoom("conn-a", "no-such-room", "Ana", "")
	errMsg, ok := rec.lastOfType("conn-a", "error")
	require.True(t, ok)
	assert.Equal(t, room.ErrRoomNotFound.Error(), errMsg["message"])
}

func TestPlayMoveOutsideGame(t *testing.T) {
	svc, _, _, _, rec := newTestService()

	svc.JoinLobby("conn-a", "Ana")
	col := 3
	svc.PlayMove("conn-a", &col)

	msg, ok := rec.lastOfType("conn-a", "invalid_move")
	require.True(t, ok)
	assert.Equal(t, "not in a game", msg["message"])
}

func TestPlayMoveMissingColumn(t *testing.T) {
	svc, _, _, _, rec := newTestService()

	svc.JoinLobby("conn-a", "Ana")
	svc.JoinLobby("conn-b", "Ben")
	svc.EnterQueue("conn-a")
	svc.EnterQueue("conn-b")

	svc.PlayMove("conn-a", nil)
	_, ok := rec.lastOfType("conn-a", "invalid_move")
	assert.True(t, ok)
}

func TestWinFlowThroughService(t *testing.T) {
	svc, _, _, _, rec := newTestService()

	svc.JoinLobby("conn-a", "Ana")
	svc.JoinLobby("conn-b", "Ben")
	svc.EnterQueue("conn-a")
	svc.EnterQueue("conn-b")

	// A stacks column 0, B stacks column 6. A completes four first.
	moves := []struct {
		conn string
		col  int
	}{
		{"conn-a", 0}, {"conn-b", 6},
		{"conn-a", 0}, {"conn-b", 6},
		{"conn-a", 0}, {"conn-b", 6},
		{"conn-a", 0},
	}
	for _, mv := range moves {
		col := mv.col
		svc.PlayMove(mv.conn, &col)
	}

	overA, okA := rec.lastOfType("conn-a", "game_over")
	overB, okB := rec.lastOfType("conn-b", "game_over")
	require.True(t, okA)
	require.True(t, okB)
	assert.Equal(t, float64(0), overA["winner"])
	assert.Equal(t, "won", overB["status"])
}

func TestEnterQueueDetachesFromRoom(t *testing.T) {
	svc, reg, _, rooms, rec := newTestService()

	svc.CreateRoom("conn-a", "Ana", "")
	created, _ := rec.lastOfType("conn-a", "room_created")
	roomID := created["roomId"].(string)
	svc.JoinRoom("conn-b", roomID, "Ben", "")

	svc.EnterQueue("conn-a")

	update, ok := rec.lastOfType("conn-b", "room_update")
	require.True(t, ok)
	assert.Equal(t, "opponent left", update["message"])

	p, _ := reg.Get("conn-a")
	assert.Empty(t, p.RoomID)

	r, ok := rooms.Get(roomID)
	require.True(t, ok)
	assert.Equal(t, []string{"conn-b"}, r.Members())
}

func TestChatRequiresRoom(t *testing.T) {
	svc, _, _, _, rec := newTestService()

	svc.JoinLobby("conn-a", "Ana")
	svc.SendChat("conn-a", "hello?")
	_, got := rec.lastOfType("conn-a", "chat")
	assert.False(t, got)
}

func TestChatBroadcastsToRoom(t *testing.T) {
	svc, _, _, _, rec := newTestService()

	svc.JoinLobby("conn-a", "Ana")
	svc.JoinLobby("conn-b", "Ben")
	svc.EnterQueue("conn-a")
	svc.EnterQueue("conn-b")

	svc.SendChat("conn-a", "good luck")

	msg, ok := rec.lastOfType("conn-b", "chat")
	require.True(t, ok)
	assert.Equal(t, "Ana", msg["from"])
	assert.Equal(t, "good luck", msg["text"])
}

func TestDisconnectTearsDownEverything(t *testing.T) {
	svc, reg, queue, rooms, _ := newTestService()

	svc.JoinLobby("conn-a", "Ana")
	svc.JoinLobby("conn-b", "Ben")
	svc.EnterQueue("conn-a")
	svc.EnterQueue("conn-b")
	require.Equal(t, 1, rooms.Count())

	svc.Disconnect("conn-a")
	svc.Disconnect("conn-a")

	assert.Equal(t, 1, rooms.Count())
	assert.Equal(t, 0, queue.Len())
	_, ok := reg.Get("conn-a")
	assert.False(t, ok)

	svc.Disconnect("conn-b")
	assert.Equal(t, 0, rooms.Count())
	assert.Equal(t, 0, reg.Count())
}
