package services

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/formbay/formbay-be/internal/auth"
	"github.com/formbay/formbay-be/internal/models"
)

// SessionServiceProvider defines the interface for session services.
type SessionServiceProvider interface {
	Create(userID string) (models.Session, string, error)
	Verify(token string) (auth.Identity, error)
	Revoke(sessionID, userID string) error
	PurgeExpired(now time.Time) (int64, error)
}

// SessionService manages stateful login sessions. Tokens are JWTs carrying
// the session row id; a token authenticates only while its row is active
// and unexpired, so revocation takes effect immediately.
type SessionService struct {
	db     *sql.DB
	secret []byte
	ttl    time.Duration
}

// NewSessionService creates a new SessionService.
func NewSessionService(db *sql.DB, secret []byte, ttl time.Duration) *SessionService {
	return &SessionService{db: db, secret: secret, ttl: ttl}
}

// Create mints a new session for a user and returns it with its signed token.
func (s *SessionService) Create(userID string) (models.Session, string, error) {
	now := time.Now().UTC()
	session := models.Session{
		ID:           uuid.New().String(),
		UserID:       userID,
		CreatedAt:    now,
		LastActiveAt: now,
		ExpiresAt:    now.Add(s.ttl),
		IsActive:     true,
	}

	stmt, err := s.db.Prepare("INSERT INTO sessions(id, user_id, created_at, last_active_at, expires_at, is_active) VALUES(?, ?, ?, ?, ?, ?)")
	if err != nil {
		return models.Session{}, "", err
	}
	defer stmt.Close()

	if _, err = stmt.Exec(session.ID, session.UserID, session.CreatedAt, session.LastActiveAt, session.ExpiresAt, session.IsActive); err != nil {
		return models.Session{}, "", err
	}

	token, err := auth.GenerateToken(session.UserID, session.ID, session.ExpiresAt, s.secret)
	if err != nil {
		return models.Session{}, "", err
	}

	return session, token, nil
}

// Verify resolves a bearer token to an identity. The JWT signature and
// expiry must check out AND the session row must be active and unexpired.
// Every failure mode is the same unauthorized error.
func (s *SessionService) Verify(token string) (auth.Identity, error) {
	claims, err := auth.ValidateToken(token, s.secret)
	if err != nil {
		return auth.Identity{}, NewUnauthorizedError("Invalid or expired token")
	}

	now := time.Now().UTC()

	var identity auth.Identity
	row := s.db.QueryRow(`
		SELECT s.id, s.user_id, u.email, u.name
		FROM sessions s JOIN users u ON u.id = s.user_id
		WHERE s.id = ? AND s.user_id = ? AND s.is_active = 1 AND s.expires_at > ?`,
		claims.SessionID, claims.UserID, now)
	if err := row.Scan(&identity.SessionID, &identity.UserID, &identity.Email, &identity.Name); err != nil {
		return auth.Identity{}, NewUnauthorizedError("Invalid or expired token")
	}

	if _, err := s.db.Exec("UPDATE sessions SET last_active_at = ? WHERE id = ?", now, identity.SessionID); err != nil {
		return auth.Identity{}, err
	}

	return identity, nil
}

// Revoke deactivates one of the user's own sessions.
func (s *SessionService) Revoke(sessionID, userID string) error {
	res, err := s.db.Exec("UPDATE sessions SET is_active = 0 WHERE id = ? AND user_id = ?", sessionID, userID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return NewNotFoundError("Session not found")
	}
	return nil
}

// PurgeExpired deletes sessions that are expired or revoked and returns the
// number of rows removed. Called by the background janitor.
func (s *SessionService) PurgeExpired(now time.Time) (int64, error) {
	res, err := s.db.Exec("DELETE FROM sessions WHERE expires_at <= ? OR is_active = 0", now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
