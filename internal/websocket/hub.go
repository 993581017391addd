package websocket

import (
	"log"
	"sync"

	"nlquery-backend/internal/metrics"
)

// Hub maintains the set of active sessions
type Hub struct {
	// Registered connections
	connections map[*Connection]bool

	// Register requests from the connections
	register chan *Connection

	// Unregister requests from connections
	unregister chan *Connection

	done     chan struct{}
	stopOnce sync.Once

	// Mutex for thread-safe operations
	mutex sync.RWMutex
}

// NewHub creates a new hub instance
func NewHub() *Hub {
	return &Hub{
		connections: make(map[*Connection]bool),
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		done:        make(chan struct{}),
	}
}

// Run starts the hub's main loop. It returns after Stop.
func (h *Hub) Run() {
	for {
		select {
		case conn := <-h.register:
			h.mutex.Lock()
			h.connections[conn] = true
			h.mutex.Unlock()
			metrics.SessionOpened()
			log.Printf("Connection registered: %s", conn.ID)

		case conn := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.connections[conn]; ok {
				delete(h.connections, conn)
				conn.closeSendChannel()
				metrics.SessionClosed()
				log.Printf("Connection unregistered: %s", conn.ID)
			}
			h.mutex.Unlock()

		case <-h.done:
			h.mutex.Lock()
			for conn := range h.connections {
				delete(h.connections, conn)
				conn.shutdown()
				metrics.SessionClosed()
			}
			h.mutex.Unlock()
			return
		}
	}
}

// Stop ends the main loop and disconnects every registered connection
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

// Register adds a connection. It reports false once the hub is stopped.
func (h *Hub) Register(conn *Connection) bool {
	select {
	case h.register <- conn:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes a connection and closes its outbound queue
func (h *Hub) Unregister(conn *Connection) {
	select {
	case h.unregister <- conn:
	case <-h.done:
	}
}

// GetConnectionCount returns the total number of active connections
func (h *Hub) GetConnectionCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	return len(h.connections)
}
