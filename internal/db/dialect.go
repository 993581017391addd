package db

import (
	"fmt"
	"strings"

	"github.com/lib/pq"
)

// Dialect holds the per-database statements used to introspect a schema and
// the capabilities the query executor relies on.
type Dialect struct {
	Type       DatabaseType
	DriverName string

	// ListTablesSQL returns one row per table, the table name in column 0.
	ListTablesSQL string
	// DescribeSQL returns one row per column of the given table.
	DescribeSQL func(table string) string
	// NameColumn and TypeColumn index into a DescribeSQL row.
	NameColumn int
	TypeColumn int

	// MultiStatement is true when the driver runs several statements in one
	// round-trip and exposes each result through NextResultSet.
	MultiStatement bool
}

var dialects = map[DatabaseType]Dialect{
	DatabaseTypeMySQL: {
		Type:          DatabaseTypeMySQL,
		DriverName:    "mysql",
		ListTablesSQL: "SHOW TABLES",
		DescribeSQL: func(table string) string {
			return "DESCRIBE `" + strings.ReplaceAll(table, "`", "``") + "`"
		},
		NameColumn:     0,
		TypeColumn:     1,
		MultiStatement: true,
	},
	DatabaseTypePostgreSQL: {
		Type:       DatabaseTypePostgreSQL,
		DriverName: "pgx",
		ListTablesSQL: `SELECT table_name FROM information_schema.tables
			WHERE table_schema = current_schema() AND table_type = 'BASE TABLE'
			ORDER BY table_name`,
		DescribeSQL: func(table string) string {
			return `SELECT column_name, data_type FROM information_schema.columns
			WHERE table_schema = current_schema() AND table_name = ` + pq.QuoteLiteral(table) + `
			ORDER BY ordinal_position`
		},
		NameColumn: 0,
		TypeColumn: 1,
	},
	DatabaseTypeSQLite: {
		Type:       DatabaseTypeSQLite,
		DriverName: "sqlite3",
		ListTablesSQL: `SELECT name FROM sqlite_master
			WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
			ORDER BY rowid`,
		DescribeSQL: func(table string) string {
			return "PRAGMA table_info('" + strings.ReplaceAll(table, "'", "''") + "')"
		},
		NameColumn: 1,
		TypeColumn: 2,
	},
	DatabaseTypeSQLServer: {
		Type:       DatabaseTypeSQLServer,
		DriverName: "sqlserver",
		ListTablesSQL: `SELECT TABLE_NAME FROM INFORMATION_SCHEMA.TABLES
			WHERE TABLE_TYPE = 'BASE TABLE' AND TABLE_SCHEMA = SCHEMA_NAME()
			ORDER BY TABLE_NAME`,
		DescribeSQL: func(table string) string {
			return `SELECT COLUMN_NAME, DATA_TYPE FROM INFORMATION_SCHEMA.COLUMNS
			WHERE TABLE_SCHEMA = SCHEMA_NAME() AND TABLE_NAME = N'` + strings.ReplaceAll(table, "'", "''") + `'
			ORDER BY ORDINAL_POSITION`
		},
		NameColumn:     0,
		TypeColumn:     1,
		MultiStatement: true,
	},
}

// DialectFor returns the dialect registered for a database type
func DialectFor(dbType DatabaseType) (Dialect, error) {
	d, ok := dialects[dbType]
	if !ok {
		return Dialect{}, fmt.Errorf("%w: %s", ErrUnsupportedDatabaseType, dbType)
	}
	return d, nil
}
