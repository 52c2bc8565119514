// Package db provides SQLite-backed local storage for persisted client state.
package db

// Schema defines the SQL statements to create database tables.
const Schema = `
-- Local storage table
-- Key/value blobs written by the login/import flow (e.g. the "user" identity)
CREATE TABLE IF NOT EXISTS local_storage (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,               -- JSON blob
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
`

// InitializeSchema initializes the database schema.
// It creates all tables if they don't exist.
func InitializeSchema(conn *Connection) error {
	if _, err := conn.Exec(Schema); err != nil {
		return err
	}
	return nil
}
