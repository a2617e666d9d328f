// Package session persists the signed-in credentials (bearer token plus the
// cached user profile) so the console survives restarts. Token and profile
// are written and cleared as a single unit.
package session

import (
	"database/sql"
	"encoding/json"
	"time"

	"txadmin/internal/models"

	// Import sqlite driver
	_ "modernc.org/sqlite"
)

// Store is the persistence contract the console depends on. It never talks
// to the network.
type Store interface {
	// Save atomically persists the token and user, overwriting any prior
	// session.
	Save(token string, user *models.User) error
	// Load returns the persisted session. A missing session yields an
	// empty token and nil user, not an error. A malformed persisted
	// profile yields the token with a nil user.
	Load() (string, *models.User, error)
	// Clear removes the session; used on logout.
	Clear() error
}

// DB is a Store backed by a local SQLite file.
type DB struct {
	conn *sql.DB
}

// NewDB opens the session database and runs migrations.
func NewDB(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if err := conn.Ping(); err != nil {
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		return nil, err
	}

	return db, nil
}

func (db *DB) migrate() error {
	// Single-row table: id is pinned to 1 so Save is a plain upsert.
	_, err := db.conn.Exec(`CREATE TABLE IF NOT EXISTS session (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		token TEXT NOT NULL,
		user_json TEXT NOT NULL,
		saved_at DATETIME NOT NULL
	)`)
	return err
}

// Save atomically persists token and user, replacing any prior session.
func (db *DB) Save(token string, user *models.User) error {
	payload, err := json.Marshal(user)
	if err != nil {
		return err
	}
	_, err = db.conn.Exec(
		`INSERT INTO session (id, token, user_json, saved_at) VALUES (1, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET token = excluded.token, user_json = excluded.user_json, saved_at = excluded.saved_at`,
		token, string(payload), time.Now().UTC(),
	)
	return err
}

// Load returns the persisted token and user. No session and a malformed
// stored profile are both non-fatal: the former yields ("", nil), the
// latter keeps the token but drops the profile.
func (db *DB) Load() (string, *models.User, error) {
	row := db.conn.QueryRow("SELECT token, user_json FROM session WHERE id = 1")

	var token, userJSON string
	if err := row.Scan(&token, &userJSON); err != nil {
		if err == sql.ErrNoRows {
			return "", nil, nil
		}
		return "", nil, err
	}

	if userJSON == "" || userJSON == "null" {
		return token, nil, nil
	}
	var user models.User
	if err := json.Unmarshal([]byte(userJSON), &user); err != nil {
		return token, nil, nil
	}
	return token, &user, nil
}

// Clear removes the persisted session.
func (db *DB) Clear() error {
	_, err := db.conn.Exec("DELETE FROM session WHERE id = 1")
	return err
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
