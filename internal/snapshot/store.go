package snapshot

import (
	"database/sql"
	"encoding/json"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/courtsidehq/courtside/internal/session"
)

// store handles all database operations for session snapshots.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new snapshot Store.
func New(db *sql.DB) Store {
	return &store{
		db: db,
	}
}

// SaveSessions replaces the snapshot for a view with the given list.
func (s *store) SaveSessions(view string, sessions []session.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	if _, err := tx.Exec("DELETE FROM session_snapshots WHERE view = ?", view); err != nil {
		tx.Rollback()
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO session_snapshots (view, session_id, session_json, position, fetched_at)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	now := time.Now().Unix()
	for i, sess := range sessions {
		sessionJSON, err := json.Marshal(sess)
		if err != nil {
			tx.Rollback()
			return err
		}
		if _, err := stmt.Exec(view, sess.ID, string(sessionJSON), i, now); err != nil {
			tx.Rollback()
			return err
		}
	}

	return tx.Commit()
}

// GetSessions returns the last saved list for a view in its original order.
func (s *store) GetSessions(view string) ([]session.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT session_json FROM session_snapshots WHERE view = ? ORDER BY position
	`, view)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []session.Session
	for rows.Next() {
		var sessionJSON string
		if err := rows.Scan(&sessionJSON); err != nil {
			log.Error("Failed to scan snapshot row", "error", err)
			continue
		}
		var sess session.Session
		if err := json.Unmarshal([]byte(sessionJSON), &sess); err != nil {
			log.Error("Failed to unmarshal session snapshot", "error", err, "view", view)
			continue
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

// Clear drops all snapshots.
func (s *store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("DELETE FROM session_snapshots")
	return err
}
