package websocket

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// ConnectionManager handles active WebSocket connections thread-safely
type ConnectionManager struct {
	connections map[string]*websocket.Conn

	// writeMu ensures only one goroutine writes to a specific socket at a
	// time. conn.WriteJSON is not thread-safe.
	writeMu map[string]*sync.Mutex

	mu sync.RWMutex // Protects the maps themselves
}

func NewConnectionManager() *ConnectionManager {
	return &ConnectionManager{
		connections: make(map[string]*websocket.Conn),
		writeMu:     make(map[string]*sync.Mutex),
	}
}

// AddConnection registers a new connection and initializes its write lock
func (cm *ConnectionManager) AddConnection(connID string, conn *websocket.Conn) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if oldConn, exists := cm.connections[connID]; exists {
		oldConn.Close()
	}

	cm.connections[connID] = conn
	cm.writeMu[connID] = &sync.Mutex{}
}

// RemoveConnection closes a connection and cleans up its lock
func (cm *ConnectionManager) RemoveConnection(connID string) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if conn, exists := cm.connections[connID]; exists {
		conn.Close()
		delete(cm.connections, connID)
		delete(cm.writeMu, connID)
	}
}

// Send writes a JSON message to one connection. Messages to connections
// that already went away are dropped silently.
func (cm *ConnectionManager) Send(connID string, message any) error {
	cm.mu.RLock()
	conn, exists := cm.connections[connID]
	mu, muExists := cm.writeMu[connID]
	cm.mu.RUnlock()

	if !exists || !muExists {
		return nil
	}

	mu.Lock()
	defer mu.Unlock()

	conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return conn.WriteJSON(message)
}

// Count returns the number of live connections
func (cm *ConnectionManager) Count() int {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return len(cm.connections)
}
