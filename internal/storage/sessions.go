package storage

import (
	"database/sql"
	"errors"
	"time"

	"github.com/findosh/stockpulse/internal/models"
)

// SessionRepository provides session data access
type SessionRepository struct {
	db *DB
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create inserts a new session
func (r *SessionRepository) Create(session *models.Session) error {
	query := `
		INSERT INTO sessions (id, subject, expires_at, created_at)
		VALUES (?, ?, ?, ?)
	`
	_, err := r.db.Exec(query,
		session.ID,
		session.Subject,
		session.ExpiresAt,
		session.CreatedAt,
	)
	return err
}

// GetByID retrieves a session by token id
func (r *SessionRepository) GetByID(id string) (*models.Session, error) {
	query := `
		SELECT id, subject, expires_at, created_at
		FROM sessions WHERE id = ?
	`
	var session models.Session
	err := r.db.QueryRow(query, id).Scan(
		&session.ID,
		&session.Subject,
		&session.ExpiresAt,
		&session.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// Delete removes one session
func (r *SessionRepository) Delete(id string) error {
	_, err := r.db.Exec("DELETE FROM sessions WHERE id = ?", id)
	return err
}

// DeleteExpired removes all expired sessions
func (r *SessionRepository) DeleteExpired() error {
	_, err := r.db.Exec("DELETE FROM sessions WHERE expires_at < ?", time.Now().UTC())
	return err
}
