package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"coldspec/internal/models"
)

type SessionSQLite struct {
	db *sql.DB
}

func NewSessionSQLite(db *sql.DB) *SessionSQLite {
	return &SessionSQLite{db: db}
}

var _ SessionRepo = (*SessionSQLite)(nil)

const (
	upsertSessionSQL = `
		INSERT INTO sessions (id, badge_id, name, role, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			badge_id=excluded.badge_id,
			name=excluded.name,
			role=excluded.role,
			created_at=excluded.created_at,
			expires_at=excluded.expires_at
	`

	selectSessionSQL = `
		SELECT id, badge_id, name, role, created_at, expires_at
		FROM sessions WHERE id=?
	`

	deleteSessionSQL        = `DELETE FROM sessions WHERE id=?`
	deleteExpiredSessionSQL = `DELETE FROM sessions WHERE expires_at <= ?`
)

// Save inserts or replaces the session row. Timestamps are stored in UTC; a zero
// CreatedAt is set to now.
func (r *SessionSQLite) Save(ctx context.Context, s models.Session) error {
	created := s.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	} else {
		created = created.UTC()
	}

	_, err := r.db.ExecContext(ctx, upsertSessionSQL,
		s.ID,
		s.BadgeID,
		s.Name,
		s.Role,
		created,
		s.ExpiresAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("save session %q: %w", s.ID, err)
	}
	return nil
}

// Load fetches a session by id. A missing row is ErrNotFound.
func (r *SessionSQLite) Load(ctx context.Context, id string) (models.Session, error) {
	var s models.Session
	err := r.db.QueryRowContext(ctx, selectSessionSQL, id).Scan(
		&s.ID,
		&s.BadgeID,
		&s.Name,
		&s.Role,
		&s.CreatedAt,
		&s.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Session{}, ErrNotFound
		}
		return models.Session{}, fmt.Errorf("select session %q: %w", id, err)
	}
	s.CreatedAt = s.CreatedAt.UTC()
	s.ExpiresAt = s.ExpiresAt.UTC()
	return s, nil
}

// Delete removes a session. Deleting an unknown id is not an error.
func (r *SessionSQLite) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, deleteSessionSQL, id); err != nil {
		return fmt.Errorf("delete session %q: %w", id, err)
	}
	return nil
}

// DeleteExpired removes sessions that expired at or before now and returns how many.
func (r *SessionSQLite) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, deleteExpiredSessionSQL, now.UTC())
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}
