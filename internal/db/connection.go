package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"   // PostgreSQL pgx/v5 driver
	_ "github.com/mattn/go-sqlite3"     // SQLite
	_ "github.com/microsoft/go-mssqldb" // SQL Server
)

// ErrUnsupportedDatabaseType is returned for database types without a dialect
var ErrUnsupportedDatabaseType = errors.New("unsupported database type")

const defaultTimeoutMs = 10000

// ConnectionConfig represents database connection configuration
type ConnectionConfig struct {
	DatabaseType DatabaseType

	Host     string
	Port     int
	Database string
	Username string
	Password string

	// TimeoutMs bounds opening and pinging the connection
	TimeoutMs int
}

// Database is a single caller's database handle. It is opened for one
// request and closed when that request finishes.
type Database struct {
	db      *sql.DB
	dialect Dialect
}

// ConnectionBuilder provides a fluent interface for building connections
type ConnectionBuilder struct {
	config ConnectionConfig
}

// NewConnectionBuilder creates a new connection builder
func NewConnectionBuilder(dbType DatabaseType) *ConnectionBuilder {
	return &ConnectionBuilder{
		config: ConnectionConfig{
			DatabaseType: dbType,
			TimeoutMs:    defaultTimeoutMs,
		},
	}
}

// Host sets the database host
func (cb *ConnectionBuilder) Host(host string) *ConnectionBuilder {
	cb.config.Host = host
	return cb
}

// Port sets the database port
func (cb *ConnectionBuilder) Port(port int) *ConnectionBuilder {
	cb.config.Port = port
	return cb
}

// Database sets the database name (the file path for SQLite)
func (cb *ConnectionBuilder) Database(database string) *ConnectionBuilder {
	cb.config.Database = database
	return cb
}

// Username sets the database username
func (cb *ConnectionBuilder) Username(username string) *ConnectionBuilder {
	cb.config.Username = username
	return cb
}

// Password sets the database password
func (cb *ConnectionBuilder) Password(password string) *ConnectionBuilder {
	cb.config.Password = password
	return cb
}

// Timeout sets the connection timeout in milliseconds
func (cb *ConnectionBuilder) Timeout(timeout int) *ConnectionBuilder {
	cb.config.TimeoutMs = timeout
	return cb
}

// Config returns the configuration built so far
func (cb *ConnectionBuilder) Config() ConnectionConfig {
	return cb.config
}

// Build creates and returns a database connection
func (cb *ConnectionBuilder) Build(ctx context.Context) (*Database, error) {
	return Connect(ctx, cb.config)
}

// Connect opens a connection using the provided configuration and verifies
// it with a ping. The handle is limited to one physical connection so that
// statements of one request share session state.
func Connect(ctx context.Context, config ConnectionConfig) (*Database, error) {
	dialect, err := DialectFor(config.DatabaseType)
	if err != nil {
		return nil, err
	}

	dsn, err := BuildDSN(config)
	if err != nil {
		return nil, err
	}

	sqlDB, err := sql.Open(dialect.DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	timeout := config.TimeoutMs
	if timeout <= 0 {
		timeout = defaultTimeoutMs
	}
	pingCtx, cancel := context.WithTimeout(ctx, time.Duration(timeout)*time.Millisecond)
	defer cancel()

	if err := sqlDB.PingContext(pingCtx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &Database{
		db:      sqlDB,
		dialect: dialect,
	}, nil
}

// NewDatabase wraps an already open *sql.DB
func NewDatabase(sqlDB *sql.DB, dbType DatabaseType) (*Database, error) {
	dialect, err := DialectFor(dbType)
	if err != nil {
		return nil, err
	}
	return &Database{
		db:      sqlDB,
		dialect: dialect,
	}, nil
}

// BuildDSN builds the driver connection string for a configuration
func BuildDSN(config ConnectionConfig) (string, error) {
	switch config.DatabaseType {
	case DatabaseTypeMySQL:
		return buildMySQLDSN(config), nil
	case DatabaseTypePostgreSQL:
		return buildPostgreSQLDSN(config), nil
	case DatabaseTypeSQLServer:
		return buildSQLServerDSN(config), nil
	case DatabaseTypeSQLite:
		if config.Database == "" {
			return "", fmt.Errorf("sqlite database path is required")
		}
		return buildSQLiteDSN(config), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedDatabaseType, config.DatabaseType)
	}
}

// buildMySQLDSN builds a MySQL DSN with multi-statement support enabled
func buildMySQLDSN(config ConnectionConfig) string {
	port := config.Port
	if port == 0 {
		port = 3306
	}

	cfg := mysql.NewConfig()
	cfg.User = config.Username
	cfg.Passwd = config.Password
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(config.Host, strconv.Itoa(port))
	cfg.DBName = config.Database
	cfg.MultiStatements = true
	cfg.ParseTime = true
	cfg.Loc = time.Local
	return cfg.FormatDSN()
}

// buildPostgreSQLDSN builds a PostgreSQL connection URL
func buildPostgreSQLDSN(config ConnectionConfig) string {
	port := config.Port
	if port == 0 {
		port = 5432
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(config.Username, config.Password),
		Host:     net.JoinHostPort(config.Host, strconv.Itoa(port)),
		Path:     "/" + config.Database,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// buildSQLiteDSN opens an existing database file read-write. A missing file
// fails at connect instead of being created.
func buildSQLiteDSN(config ConnectionConfig) string {
	path := sqlitePathEscaper.Replace(config.Database)
	return "file:" + path + "?mode=rw"
}

var sqlitePathEscaper = strings.NewReplacer("%", "%25", "?", "%3f", "#", "%23")

// buildSQLServerDSN builds a SQL Server connection URL
func buildSQLServerDSN(config ConnectionConfig) string {
	port := config.Port
	if port == 0 {
		port = 1433
	}

	query := url.Values{}
	query.Set("database", config.Database)
	query.Set("encrypt", "disable")

	u := url.URL{
		Scheme:   "sqlserver",
		User:     url.UserPassword(config.Username, config.Password),
		Host:     net.JoinHostPort(config.Host, strconv.Itoa(port)),
		RawQuery: query.Encode(),
	}
	return u.String()
}

// Close closes the database connection
func (db *Database) Close() error {
	return db.db.Close()
}

// Dialect returns the database's dialect
func (db *Database) Dialect() Dialect {
	return db.dialect
}
