package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"nlquery-backend/internal/db"
	"nlquery-backend/internal/messages"
	"nlquery-backend/internal/metrics"
	"nlquery-backend/internal/question"
)

// MsgInvalidJSON is the answer message for frames that are not JSON
const MsgInvalidJSON = "Invalid JSON format"

// Frame labels reported to metrics
const (
	frameInvalid = "invalid"
	frameUnknown = "unknown"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handler manages WebSocket sessions and answers their frames
type Handler struct {
	hub     *Hub
	service question.QuestionService
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, service question.QuestionService) *Handler {
	return &Handler{
		hub:     hub,
		service: service,
	}
}

// HandleWebSocket upgrades the request and starts the session pumps
func (h *Handler) HandleWebSocket(c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	conn := NewConnection(ws, h.hub, h)
	if !h.hub.Register(conn) {
		conn.shutdown()
		return
	}

	go conn.WritePump()
	go conn.ReadPump()

	log.Printf("WebSocket connection established: %s", conn.ID)
}

// Dispatch decodes one frame, runs the requested action and returns the
// encoded answer frame. Every failure is reported to the client as a
// status 0 answer; nothing here ends the session.
func (h *Handler) Dispatch(ctx context.Context, frame []byte) (response []byte) {
	id := messages.DefaultMessageID
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Unexpected error handling message: %v", r)
			response = h.encode(id, question.Failure(fmt.Sprint(r)))
		}
	}()

	req, err := messages.Decode(frame)
	if err != nil {
		metrics.IncFrame(frameInvalid)
		log.Printf("Error decoding message: %v", err)
		if errors.Is(err, messages.ErrInvalidJSON) {
			return h.encode(nil, question.Failure(MsgInvalidJSON))
		}
		return h.encode(nil, question.Failure(err.Error()))
	}

	switch r := req.(type) {
	case *messages.RunQueryRequest:
		metrics.IncFrame(messages.ActionRunQuery)
		id = r.ID()
		return h.encode(id, h.runQuery(ctx, r))
	case *messages.UnknownActionRequest:
		metrics.IncFrame(frameUnknown)
		return h.encode(r.ID(), question.Failure("Unknown action: "+r.Action))
	default:
		return h.encode(req.ID(), question.Failure(fmt.Sprintf("Unhandled request %T", req)))
	}
}

// runQuery answers a run_query request
func (h *Handler) runQuery(ctx context.Context, r *messages.RunQueryRequest) question.Answer {
	params := r.Query
	if params.Query == "" {
		return question.Failure(question.MsgNoQuery)
	}

	dbType, err := db.ParseDatabaseType(params.Type)
	if err != nil {
		log.Printf("Database connection error: %v", err)
		return question.Failure(question.MsgConnectionFailure)
	}

	return h.service.HandleQuestion(ctx, &question.Request{
		Question: params.Query,
		Connection: db.ConnectionConfig{
			DatabaseType: dbType,
			Host:         params.Host,
			Port:         params.Port,
			Database:     params.Database,
			Username:     params.User,
			Password:     params.Password,
		},
	})
}

func (h *Handler) encode(id json.RawMessage, answer question.Answer) []byte {
	data, err := messages.EncodeAnswer(id, answer)
	if err != nil {
		log.Printf("Error marshaling message: %v", err)
		return nil
	}
	return data
}
