package websocket

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"nlquery-backend/internal/question"
)

// Server wires the question service to the WebSocket endpoint
type Server struct {
	hub     *Hub
	handler *Handler
}

// NewServer creates a new WebSocket server
func NewServer(service question.QuestionService) *Server {
	hub := NewHub()
	return &Server{
		hub:     hub,
		handler: NewHandler(hub, service),
	}
}

// Start runs the hub loop in the background
func (s *Server) Start() {
	go s.hub.Run()
}

// Stop disconnects every session and stops the hub
func (s *Server) Stop() {
	s.hub.Stop()
}

// Hub returns the server's session registry
func (s *Server) Hub() *Hub {
	return s.hub
}

// RegisterRoutes mounts the WebSocket and stats endpoints
func (s *Server) RegisterRoutes(router gin.IRouter) {
	router.GET("/askQuestion", s.handler.HandleWebSocket)

	router.GET("/ws/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"active_connections": s.hub.GetConnectionCount(),
			"timestamp":          time.Now().Unix(),
		})
	})
}
