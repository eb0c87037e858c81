package websocket

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/dropfour/backend/internal/protocol"
	"github.com/dropfour/backend/internal/service/lobby"
	"github.com/dropfour/backend/pkg/auth"
)

// Handler manages WebSocket dependencies
type Handler struct {
	ConnManager *ConnectionManager
	Lobby       *lobby.Service
	JWTSecret   string
	Upgrader    websocket.Upgrader
}

// NewHandler creates a new WebSocket handler with dependencies
func NewHandler(cm *ConnectionManager, svc *lobby.Service, jwtSecret string) *Handler {
	return &Handler{
		ConnManager: cm,
		Lobby:       svc,
		JWTSecret:   jwtSecret,
		Upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// HandleWebSocket is the HTTP handler that upgrades the connection
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WS] Upgrade error: %v", err)
		return
	}

	// A guest token carries the display name; the player record is seeded
	// before the first message so the name survives reconnects.
	guestName := ""
	if token := r.URL.Query().Get("token"); token != "" {
		claims, err := auth.ValidateGuestToken(token, h.JWTSecret)
		if err != nil {
			log.Printf("[WS] Invalid guest token: %v", err)
			conn.WriteJSON(protocol.NewError("invalid token"))
			conn.Close()
			return
		}
		guestName = claims.Name
	}

	h.handleConnection(conn, guestName)
}

// handleConnection manages the lifecycle of a single WebSocket connection
func (h *Handler) handleConnection(conn *websocket.Conn, guestName string) {
	connID := uuid.NewString()
	h.ConnManager.AddConnection(connID, conn)
	log.Printf("[WS] Connection opened: %s", connID)

	if guestName != "" {
		h.Lobby.JoinLobby(connID, guestName)
	}

	// Set read deadline to detect stale connections
	conn.SetReadDeadline(time.Now().Add(60 * time.Second))

	// Keep-alive pinger
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(10*time.Second)); err != nil {
				return
			}
		}
	}()

	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	defer func() {
		log.Printf("[WS] Connection closed: %s", connID)
		h.Lobby.Disconnect(connID)
		h.ConnManager.RemoveConnection(connID)
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[WS] Connection %s dropped: %v", connID, err)
			}
			break
		}

		var msg protocol.ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("[WS] Invalid message format from %s: %v", connID, err)
			continue
		}

		if h.processMessage(connID, msg) {
			break
		}
	}
}

// processMessage routes client events. Returns true when the connection
// should be closed.
func (h *Handler) processMessage(connID string, msg protocol.ClientMessage) bool {
	switch msg.Type {
	case protocol.EventJoinLobby:
		h.Lobby.JoinLobby(connID, msg.Name)

	case protocol.EventEnterQueue:
		h.Lobby.EnterQueue(connID)

	case protocol.EventCreateRoom:
		h.Lobby.CreateRoom(connID, msg.Name, msg.Password)

	case protocol.EventJoinRoom:
		h.Lobby.JoinRoom(connID, msg.RoomID, msg.Name, msg.Password)

	case protocol.EventPlayMove:
		h.Lobby.PlayMove(connID, msg.Column)

	case protocol.EventRequestRematch:
		h.Lobby.RequestRematch(connID)

	case protocol.EventSendChat:
		h.Lobby.SendChat(connID, msg.Text)

	case protocol.EventLeave:
		h.Lobby.Leave(connID)
		return true

	default:
		log.Printf("[WS] Unknown event %q from %s", msg.Type, connID)
	}
	return false
}
