package db

import (
	"context"
	"fmt"
)

// Query executes a single statement and returns its result set
func (db *Database) Query(ctx context.Context, query string, args ...interface{}) (*ResultSet, error) {
	rows, err := db.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return ConvertSQLRowToResultSet(rows)
}

// ExecuteMulti runs one or more semicolon separated statements in order and
// returns the result set of every statement that produced columns. Statements
// without columns (DDL, updates) are executed but not reported.
func (db *Database) ExecuteMulti(ctx context.Context, query string) ([]*ResultSet, error) {
	if db.dialect.MultiStatement {
		return db.executeNative(ctx, query)
	}
	return db.executeSplit(ctx, query)
}

// executeNative hands the whole text to a driver that supports multiple
// statements per round-trip and walks its result sets.
func (db *Database) executeNative(ctx context.Context, query string) ([]*ResultSet, error) {
	rows, err := db.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*ResultSet
	for {
		rs, err := ConvertSQLRowToResultSet(rows)
		if err != nil {
			return nil, err
		}
		if len(rs.Columns) > 0 {
			results = append(results, rs)
		}
		if !rows.NextResultSet() {
			break
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// executeSplit runs each statement separately on one pinned connection
func (db *Database) executeSplit(ctx context.Context, query string) ([]*ResultSet, error) {
	statements := SplitStatements(query)
	if len(statements) == 0 {
		return nil, fmt.Errorf("no statements to execute")
	}

	conn, err := db.db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	var results []*ResultSet
	for i, stmt := range statements {
		rows, err := conn.QueryContext(ctx, stmt)
		if err != nil {
			return nil, fmt.Errorf("statement %d: %w", i+1, err)
		}
		// Draining also executes statements that return no rows.
		rs, err := ConvertSQLRowToResultSet(rows)
		rows.Close()
		if err != nil {
			return nil, fmt.Errorf("statement %d: %w", i+1, err)
		}
		if len(rs.Columns) > 0 {
			results = append(results, rs)
		}
	}
	return results, nil
}
