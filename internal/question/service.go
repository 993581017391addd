package question

import (
	"context"
	"log"
	"time"

	"nlquery-backend/internal/db"
	"nlquery-backend/internal/metrics"
	"nlquery-backend/internal/render"
	"nlquery-backend/internal/sqlgen"
)

// Connector opens a fresh database handle for one request
type Connector interface {
	Open(ctx context.Context, config db.ConnectionConfig) (*db.Database, error)
}

// SQLGenerator produces SQL for a question given a schema summary
type SQLGenerator interface {
	GenerateSQL(ctx context.Context, question, schemaSummary string) (string, error)
}

// QuestionService answers natural-language questions about a database
type QuestionService interface {
	HandleQuestion(ctx context.Context, req *Request) Answer
}

// DefaultConnector opens connections through db.ConnectionBuilder
type DefaultConnector struct {
	TimeoutMs int
}

// Open implements Connector
func (c DefaultConnector) Open(ctx context.Context, config db.ConnectionConfig) (*db.Database, error) {
	timeout := config.TimeoutMs
	if timeout == 0 {
		timeout = c.TimeoutMs
	}
	return db.NewConnectionBuilder(config.DatabaseType).
		Host(config.Host).
		Port(config.Port).
		Database(config.Database).
		Username(config.Username).
		Password(config.Password).
		Timeout(timeout).
		Build(ctx)
}

// questionService implements QuestionService
type questionService struct {
	connector Connector
	generator SQLGenerator
}

// NewQuestionService creates the question pipeline
func NewQuestionService(connector Connector, generator SQLGenerator) QuestionService {
	return &questionService{
		connector: connector,
		generator: generator,
	}
}

// HandleQuestion runs connect, introspect, generate, execute and render in
// order, stopping at the first step that fails. The database handle is closed
// on every path.
func (s *questionService) HandleQuestion(ctx context.Context, req *Request) Answer {
	start := time.Now()
	answer, outcome := s.handle(ctx, req)
	metrics.ObserveQuestion(outcome, time.Since(start))
	return answer
}

func (s *questionService) handle(ctx context.Context, req *Request) (Answer, string) {
	database, err := s.connector.Open(ctx, req.Connection)
	if err != nil {
		log.Printf("Database connection error (%s@%s/%s): %v",
			req.Connection.Username, req.Connection.Host, req.Connection.Database, err)
		return Failure(MsgConnectionFailure), OutcomeConnectionFailure
	}
	defer func() {
		if err := database.Close(); err != nil {
			log.Printf("Error closing database connection: %v", err)
		}
	}()

	schema, err := database.GetSchema(ctx)
	if err != nil {
		log.Printf("Error fetching schema: %v", err)
		return Failure(MsgSchemaFailure), OutcomeSchemaFailure
	}
	if schema.IsEmpty() {
		log.Printf("Schema for %s has no tables", req.Connection.Database)
		return Failure(MsgSchemaFailure), OutcomeSchemaFailure
	}

	summary := sqlgen.SummarizeSchema(schema)
	log.Printf("Schema Summary: %s", summary)

	query, err := s.generator.GenerateSQL(ctx, req.Question, summary)
	if err != nil {
		log.Printf("Error generating SQL query: %v", err)
		return Failure(MsgGenerationFailure), OutcomeGenerationFailure
	}

	resultSets, err := database.ExecuteMulti(ctx, query)
	if err != nil {
		log.Printf("Error fetching data: %v", err)
		return Failure(MsgNotUnderstood), OutcomeExecutionFailure
	}
	if len(resultSets) == 0 {
		return Failure(MsgNotUnderstood), OutcomeExecutionFailure
	}

	if len(resultSets[0].Rows) == 0 {
		return Failure(MsgNoData), OutcomeNoData
	}

	return Success(render.HTML(resultSets)), OutcomeSuccess
}
