// Package idcache persists title-to-identifier assignments in SQLite so
// that repeated exports of the same vault keep stable note identifiers.
// The cache is optional; without it every run mints fresh identifiers.
package idcache

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS note_ids (
	title      TEXT PRIMARY KEY,
	id         TEXT NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// Cache wraps a sql.DB holding the title→identifier table.
type Cache struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite cache and applies the schema.
func Open(dsn string) (*Cache, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("idcache: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("idcache: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("idcache: apply schema: %w", err)
	}
	return &Cache{conn: conn}, nil
}

// Close closes the underlying database connection.
func (c *Cache) Close() error {
	return c.conn.Close()
}

// Get returns the stored identifier for title, with ok=false when absent.
func (c *Cache) Get(title string) (string, bool, error) {
	var id string
	err := c.conn.QueryRow(`SELECT id FROM note_ids WHERE title = ?`, title).Scan(&id)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("idcache: get %q: %w", title, err)
	}
	return id, true, nil
}

// Put stores (or replaces) the identifier for title.
func (c *Cache) Put(title, id string) error {
	_, err := c.conn.Exec(`
		INSERT INTO note_ids (title, id, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(title) DO UPDATE SET
			id         = excluded.id,
			updated_at = excluded.updated_at
	`, title, id)
	if err != nil {
		return fmt.Errorf("idcache: put %q: %w", title, err)
	}
	return nil
}

// All returns every stored title→identifier pair.
func (c *Cache) All() (map[string]string, error) {
	rows, err := c.conn.Query(`SELECT title, id FROM note_ids`)
	if err != nil {
		return nil, fmt.Errorf("idcache: all: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var title, id string
		if err := rows.Scan(&title, &id); err != nil {
			return nil, err
		}
		out[title] = id
	}
	return out, rows.Err()
}
