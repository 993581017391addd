package messages

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Actions carried in the second element of an envelope
const (
	ActionRunQuery    = "run_query"
	ActionAnswerQuery = "answer_query"
)

// ErrInvalidJSON is returned when a frame is not valid JSON
var ErrInvalidJSON = errors.New("invalid JSON format")

// DefaultMessageID is echoed when the real message id could not be read
var DefaultMessageID = json.RawMessage("0")

// Request is a decoded inbound envelope. The concrete type selects the
// handler: *RunQueryRequest or *UnknownActionRequest.
type Request interface {
	ID() json.RawMessage
}

// QueryParams is the nested "query" object of a run_query payload
type QueryParams struct {
	Query    string `json:"query"`
	User     string `json:"user"`
	Password string `json:"password"`
	Host     string `json:"host"`
	Database string `json:"database"`

	// Optional, defaulting to MySQL on its standard port
	Type string `json:"type,omitempty"`
	Port int    `json:"port,omitempty"`
}

// RunQueryRequest asks for a natural-language question to be answered
type RunQueryRequest struct {
	MessageID json.RawMessage
	Query     QueryParams
}

// ID implements Request
func (r *RunQueryRequest) ID() json.RawMessage { return r.MessageID }

// UnknownActionRequest carries any action this service does not handle
type UnknownActionRequest struct {
	MessageID json.RawMessage
	Action    string
}

// ID implements Request
func (r *UnknownActionRequest) ID() json.RawMessage { return r.MessageID }

type runQueryPayload struct {
	Query *QueryParams `json:"query"`
}

// Decode parses one inbound frame of the form [message_id, action, payload]
func Decode(frame []byte) (Request, error) {
	if !json.Valid(frame) {
		return nil, ErrInvalidJSON
	}

	var parts []json.RawMessage
	if err := json.Unmarshal(frame, &parts); err != nil {
		return nil, fmt.Errorf("envelope must be a JSON array: %w", err)
	}
	if len(parts) != 3 {
		return nil, fmt.Errorf("envelope must have 3 elements, got %d", len(parts))
	}

	id := parts[0]
	action := actionName(parts[1])

	if action != ActionRunQuery {
		return &UnknownActionRequest{MessageID: id, Action: action}, nil
	}

	var payload runQueryPayload
	if err := json.Unmarshal(parts[2], &payload); err != nil {
		return nil, fmt.Errorf("invalid run_query payload: %w", err)
	}
	if isNull(parts[2]) {
		return nil, errors.New("invalid run_query payload: payload is null")
	}

	req := &RunQueryRequest{MessageID: id}
	if payload.Query != nil {
		req.Query = *payload.Query
	}
	return req, nil
}

// actionName returns a string action as is. JSON literals use the None,
// True and False spellings; any other value is its raw text.
func actionName(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil && !isNull(raw) {
		return s
	}
	text := string(bytes.TrimSpace(raw))
	if literal, ok := jsonLiterals[text]; ok {
		return literal
	}
	return text
}

var jsonLiterals = map[string]string{
	"null":  "None",
	"true":  "True",
	"false": "False",
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// EncodeAnswer builds an outbound [message_id, "answer_query", answer] frame.
// A nil id is sent as 0.
func EncodeAnswer(id json.RawMessage, answer any) ([]byte, error) {
	if len(id) == 0 {
		id = DefaultMessageID
	}
	return json.Marshal([]any{id, ActionAnswerQuery, answer})
}
