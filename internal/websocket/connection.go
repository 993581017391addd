package websocket

import (
	"context"
	"log"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to read the next frame or pong from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Time allowed to write a frame to the peer
	writeWait = 10 * time.Second

	sendBufferSize = 16
)

// Dispatcher turns one inbound frame into one outbound frame
type Dispatcher interface {
	Dispatch(ctx context.Context, frame []byte) []byte
}

// Connection represents a WebSocket session
type Connection struct {
	// WebSocket connection
	ws *websocket.Conn

	// Buffered channel of outbound messages
	send chan []byte

	ID string

	hub        *Hub
	dispatcher Dispatcher

	// Cancelled when the read loop exits, aborting in-flight work
	ctx    context.Context
	cancel context.CancelFunc

	// Track if send channel is closed to prevent double-close
	closed int32 // 0 = open, 1 = closed
}

// NewConnection creates a new connection instance
func NewConnection(ws *websocket.Conn, hub *Hub, dispatcher Dispatcher) *Connection {
	ctx, cancel := context.WithCancel(context.Background())
	return &Connection{
		ws:         ws,
		send:       make(chan []byte, sendBufferSize),
		ID:         uuid.New().String(),
		hub:        hub,
		dispatcher: dispatcher,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// ReadPump reads frames and answers each one before reading the next
func (c *Connection) ReadPump() {
	defer func() {
		c.cancel()
		c.hub.Unregister(c)
		c.ws.Close()
	}()

	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		messageType, frame, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("WebSocket error: %v", err)
			} else {
				log.Printf("Client disconnected: %s", c.ID)
			}
			break
		}
		if messageType != websocket.TextMessage {
			continue
		}

		response := c.dispatcher.Dispatch(c.ctx, frame)
		if response != nil && !c.enqueue(response) {
			break
		}

		// Answering may outlast the deadline set by the last read
		c.ws.SetReadDeadline(time.Now().Add(pongWait))
	}
}

// enqueue hands a frame to the write pump. It reports false once the
// session is shutting down.
func (c *Connection) enqueue(frame []byte) bool {
	select {
	case c.send <- frame:
		return true
	case <-c.ctx.Done():
		return false
	}
}

// WritePump pumps queued frames to the WebSocket connection and keeps it alive
func (c *Connection) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.ws.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("Error sending response: %v", err)
				c.cancel()
				return
			}

		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.cancel()
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

// shutdown aborts in-flight work and drops the socket, which ends both pumps
func (c *Connection) shutdown() {
	c.cancel()
	if c.ws != nil {
		c.ws.Close()
	}
}

// closeSendChannel safely closes the send channel if not already closed
func (c *Connection) closeSendChannel() {
	if atomic.CompareAndSwapInt32(&c.closed, 0, 1) {
		close(c.send)
	}
}
