package contextstore

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	_ "github.com/denisenkom/go-mssqldb" // for sqlserver
	_ "github.com/go-sql-driver/mysql"   // for mysql
	_ "github.com/lib/pq"                // for postgres
)

// SQLConfig holds database connection configuration for the SQL-backed store
type SQLConfig struct {
	Type     string
	Host     string
	Port     int
	Database string
	User     string
	Password string
}

// SQLStore persists context entries in a relational database so that cached
// reference data survives process restarts. Values are stored JSON-encoded.
type SQLStore struct {
	db      *sql.DB
	dialect string
	logger  *slog.Logger
}

// NewSQLStore connects to the configured database and prepares the entries
// table
func NewSQLStore(config SQLConfig, logger *slog.Logger) (*SQLStore, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var dsn string
	switch config.Type {
	case "postgres":
		dsn = fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			config.Host, config.Port, config.User, config.Password, config.Database)
	case "mysql":
		dsn = fmt.Sprintf("%s:%s@tcp(%s:%d)/%s",
			config.User, config.Password, config.Host, config.Port, config.Database)
	case "sqlserver":
		dsn = fmt.Sprintf("server=%s;port=%d;user id=%s;password=%s;database=%s",
			config.Host, config.Port, config.User, config.Password, config.Database)
	default:
		return nil, fmt.Errorf("unsupported database type: %s", config.Type)
	}

	db, err := sql.Open(config.Type, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}

	store := &SQLStore{db: db, dialect: config.Type, logger: logger}
	if err := store.ensureTable(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare context table: %w", err)
	}
	return store, nil
}

// Get returns the value stored under key
func (s *SQLStore) Get(key string) (interface{}, bool) {
	query := fmt.Sprintf("SELECT context_value FROM context_entries WHERE context_key = %s", s.placeholder(1))

	var encoded string
	if err := s.db.QueryRow(query, key).Scan(&encoded); err != nil {
		if err != sql.ErrNoRows {
			s.logger.Error("context store read failed", "key", key, "error", err)
		}
		return nil, false
	}

	var value interface{}
	if err := json.Unmarshal([]byte(encoded), &value); err != nil {
		s.logger.Error("failed to decode context entry", "key", key, "error", err)
		return nil, false
	}
	return value, true
}

// Set stores value under key, overwriting any prior value
func (s *SQLStore) Set(key string, value interface{}) {
	encoded, err := json.Marshal(value)
	if err != nil {
		s.logger.Error("failed to encode context entry", "key", key, "error", err)
		return
	}

	tx, err := s.db.Begin()
	if err != nil {
		s.logger.Error("context store write failed", "key", key, "error", err)
		return
	}

	del := fmt.Sprintf("DELETE FROM context_entries WHERE context_key = %s", s.placeholder(1))
	ins := fmt.Sprintf("INSERT INTO context_entries (context_key, context_value) VALUES (%s, %s)",
		s.placeholder(1), s.placeholder(2))

	if _, err := tx.Exec(del, key); err != nil {
		tx.Rollback()
		s.logger.Error("context store write failed", "key", key, "error", err)
		return
	}
	if _, err := tx.Exec(ins, key, string(encoded)); err != nil {
		tx.Rollback()
		s.logger.Error("context store write failed", "key", key, "error", err)
		return
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("context store write failed", "key", key, "error", err)
	}
}

// Has reports whether an entry exists under key
func (s *SQLStore) Has(key string) bool {
	_, ok := s.Get(key)
	return ok
}

// Close closes the underlying database connection
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// ensureTable creates the entries table when it does not exist yet
func (s *SQLStore) ensureTable() error {
	var stmt string
	if s.dialect == "sqlserver" {
		stmt = `IF OBJECT_ID('context_entries', 'U') IS NULL
			CREATE TABLE context_entries (
				context_key VARCHAR(255) PRIMARY KEY,
				context_value TEXT NOT NULL
			)`
	} else {
		stmt = `CREATE TABLE IF NOT EXISTS context_entries (
			context_key VARCHAR(255) PRIMARY KEY,
			context_value TEXT NOT NULL
		)`
	}
	_, err := s.db.Exec(stmt)
	return err
}

// placeholder returns the dialect-specific parameter placeholder
func (s *SQLStore) placeholder(n int) string {
	switch s.dialect {
	case "postgres":
		return fmt.Sprintf("$%d", n)
	case "sqlserver":
		return fmt.Sprintf("@p%d", n)
	default:
		return "?"
	}
}
