package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Connection manages a SQLite database connection.
type Connection struct {
	db     *sql.DB
	dbPath string
}

// Open opens a SQLite database connection.
// It enables WAL mode so the CLI and a long-running watcher can share the file.
func Open(dbPath string) (*Connection, error) {
	// Ensure database file's parent directory exists
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	connStr := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000", dbPath)
	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	conn := &Connection{
		db:     db,
		dbPath: dbPath,
	}

	if err := InitializeSchema(conn); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return conn, nil
}

// Close closes the database connection.
func (c *Connection) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// GetPath returns the database file path.
func (c *Connection) GetPath() string {
	return c.dbPath
}

// QueryRowContext executes a query that is expected to return at most one row.
func (c *Connection) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return c.db.QueryRowContext(ctx, query, args...)
}

// QueryContext executes a query that returns rows.
func (c *Connection) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return c.db.QueryContext(ctx, query, args...)
}

// Exec executes a query that doesn't return rows.
func (c *Connection) Exec(query string, args ...any) (sql.Result, error) {
	return c.db.Exec(query, args...)
}

// ExecContext executes a query that doesn't return rows.
func (c *Connection) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return c.db.ExecContext(ctx, query, args...)
}
