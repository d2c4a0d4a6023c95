package storage

import (
	"database/sql"
	_ "embed"
	"fmt"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// memoryDSN names a private in-memory database. Nothing is written to disk.
const memoryDSN = ":memory:"

// DB is a throwaway SQL view over one snapshot of events.
type DB struct {
	conn *sql.DB
}

// Open creates an empty in-memory database and applies the schema.
func Open() (*DB, error) {
	conn, err := sql.Open("sqlite", memoryDSN)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// Every pooled connection would otherwise get its own empty database.
	conn.SetMaxOpenConns(1)
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying connection and discards the data.
func (db *DB) Close() error {
	return db.conn.Close()
}
