// Package protocol defines the wire messages exchanged with clients and
// the encoding of game snapshots. Every server event is its own struct
// with fixed, typed fields.
package protocol

import "github.com/dropfour/backend/internal/domain"

// Client → server event names.
const (
	EventJoinLobby      = "join_lobby"
	EventEnterQueue     = "enter_queue"
	EventCreateRoom     = "create_room"
	EventJoinRoom       = "join_room"
	EventPlayMove       = "play_move"
	EventRequestRematch = "request_rematch"
	EventSendChat       = "send_chat"
	EventLeave          = "leave"
)

// ClientMessage carries any inbound event. Type selects which of the
// optional fields are meaningful.
type ClientMessage struct {
	Type     string `json:"type"`
	Name     string `json:"name,omitempty"`
	RoomID   string `json:"roomId,omitempty"`
	Column   *int   `json:"column,omitempty"`
	Text     string `json:"text,omitempty"`
	Password string `json:"password,omitempty"`
}

// Sender delivers one message to one connection. Implemented by the
// websocket connection manager; tests substitute a recorder.
type Sender interface {
	Send(connID string, message any) error
}

type LobbyUpdate struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func NewLobbyUpdate(message string) LobbyUpdate {
	return LobbyUpdate{Type: "lobby_update", Message: message}
}

type RoomCreated struct {
	Type   string `json:"type"`
	RoomID string `json:"roomId"`
}

func NewRoomCreated(roomID string) RoomCreated {
	return RoomCreated{Type: "room_created", RoomID: roomID}
}

type MatchFound struct {
	Type    string   `json:"type"`
	RoomID  string   `json:"roomId"`
	Members []string `json:"members"`
}

func NewMatchFound(roomID string, members []string) MatchFound {
	return MatchFound{Type: "match_found", RoomID: roomID, Members: members}
}

type RoomUpdate struct {
	Type    string   `json:"type"`
	Message string   `json:"message"`
	RoomID  string   `json:"roomId"`
	Members []string `json:"members"`
}

func NewRoomUpdate(message, roomID string, members []string) RoomUpdate {
	return RoomUpdate{Type: "room_update", Message: message, RoomID: roomID, Members: members}
}

// GameState is the full snapshot broadcast after every accepted move, on
// join and on rematch. Cells encode as null (empty), 0 (player A) and 1
// (player B).
type GameState struct {
	Type               string   `json:"type"`
	Board              [][]*int `json:"board"`
	CurrentPlayerIndex int      `json:"currentPlayerIndex"`
	Status             string   `json:"status"`
	Winner             *int     `json:"winner"`
	RoomID             string   `json:"roomId"`
}

func NewGameState(roomID string, g *domain.Game) GameState {
	return GameState{
		Type:               "game_state",
		Board:              EncodeBoard(g.Board),
		CurrentPlayerIndex: g.CurrentPlayerIndex,
		Status:             string(g.Status),
		Winner:             encodeWinner(g.Winner),
		RoomID:             roomID,
	}
}

type InvalidMove struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func NewInvalidMove(message string) InvalidMove {
	return InvalidMove{Type: "invalid_move", Message: message}
}

type GameOver struct {
	Type   string `json:"type"`
	Winner *int   `json:"winner"`
	Status string `json:"status"`
}

func NewGameOver(g *domain.Game) GameOver {
	return GameOver{Type: "game_over", Winner: encodeWinner(g.Winner), Status: string(g.Status)}
}

type RematchStarted struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func NewRematchStarted() RematchStarted {
	return RematchStarted{Type: "rematch_started", Message: "rematch started"}
}

type Chat struct {
	Type string `json:"type"`
	From string `json:"from"`
	Text string `json:"text"`
}

func NewChat(from, text string) Chat {
	return Chat{Type: "chat", From: from, Text: text}
}

type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func NewError(message string) ErrorMessage {
	return ErrorMessage{Type: "error", Message: message}
}

// EncodeBoard converts the engine board to its wire form.
func EncodeBoard(board [][]domain.Cell) [][]*int {
	encoded := make([][]*int, len(board))
	for i, row := range board {
		encoded[i] = make([]*int, len(row))
		for j, cell := range row {
			if cell == domain.Empty {
				continue
			}
			index := int(cell) - 1
			encoded[i][j] = &index
		}
	}
	return encoded
}

func encodeWinner(winner int) *int {
	if winner == domain.NoWinner {
		return nil
	}
	return &winner
}
