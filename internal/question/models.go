package question

import "nlquery-backend/internal/db"

// User-facing messages, one per pipeline exit
const (
	MsgConnectionFailure = "Database connection failure."
	MsgSchemaFailure     = "Failed to fetch database schema."
	MsgGenerationFailure = "Failed to generate SQL query."
	MsgNotUnderstood     = "I'm having trouble understanding your message. Can you please clarify?"
	MsgNoData            = "No data found"
	MsgSuccess           = "Data retrieved successfully"
	MsgNoQuery           = "No query provided"
)

// Outcome labels reported to metrics
const (
	OutcomeConnectionFailure = "connection_failure"
	OutcomeSchemaFailure     = "schema_failure"
	OutcomeGenerationFailure = "generation_failure"
	OutcomeExecutionFailure  = "execution_failure"
	OutcomeNoData            = "no_data"
	OutcomeSuccess           = "success"
)

// Request is one natural-language question against a caller's database
type Request struct {
	Question   string
	Connection db.ConnectionConfig
}

// Answer is the response envelope returned for every request
type Answer struct {
	Status  int     `json:"status"`
	Data    *string `json:"data"`
	Message string  `json:"message"`
}

// Failure builds a status 0 answer without data
func Failure(message string) Answer {
	return Answer{Status: 0, Message: message}
}

// Success builds a status 1 answer carrying the rendered HTML
func Success(html string) Answer {
	return Answer{Status: 1, Data: &html, Message: MsgSuccess}
}
