package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"coldspec/internal/models"

	"github.com/google/uuid"
)

// occurred_at is stored as text in this layout so range filters compare
// lexically against the same shape.
const activityTimeLayout = "2006-01-02 15:04:05"

const insertActivitySQL = `
		INSERT INTO activity_events (id, occurred_at, type, badge_id, message, meta)
		VALUES (?, ?, ?, ?, ?, ?)
	`

const selectActivitySQL = `SELECT id, occurred_at, type, badge_id, message, meta FROM activity_events`

// ActivitySQLite keeps the operator audit trail: logins, readings taken,
// NC reports filed and writes refused because a shared file was locked.
type ActivitySQLite struct {
	db *sql.DB
}

func NewActivitySQLite(db *sql.DB) *ActivitySQLite { return &ActivitySQLite{db: db} }

var _ ActivityRepo = (*ActivitySQLite)(nil)

// Append records one operator action. A missing id or timestamp is filled in;
// a blank badge is stored as NULL so anonymous events (failed logins) stay
// distinguishable from a badge filter match.
func (r *ActivitySQLite) Append(ctx context.Context, e models.ActivityEvent) error {
	if e.EventID == "" {
		e.EventID = uuid.NewString()
	}
	at := e.OccurredAt
	if at.IsZero() {
		at = time.Now()
	}

	var meta *string
	if e.Metadata != nil {
		if b, err := json.Marshal(e.Metadata); err == nil {
			s := string(b)
			meta = &s
		}
	}

	var badge *string
	if b := strings.TrimSpace(e.BadgeID); b != "" {
		badge = &b
	}

	typ := strings.ToUpper(strings.TrimSpace(e.Type))
	if _, err := r.db.ExecContext(ctx, insertActivitySQL,
		e.EventID,
		at.UTC().Format(activityTimeLayout),
		typ,
		badge,
		e.Description,
		meta,
	); err != nil {
		return fmt.Errorf("record %s activity: %w", typ, err)
	}
	return nil
}

// List returns the operator actions matching q, oldest first.
func (r *ActivitySQLite) List(ctx context.Context, q ActivityQuery) ([]models.ActivityEvent, error) {
	var (
		where []string
		args  []any
	)
	if !q.From.IsZero() {
		where = append(where, "occurred_at >= ?")
		args = append(args, q.From.UTC().Format(activityTimeLayout))
	}
	if !q.To.IsZero() {
		where = append(where, "occurred_at <= ?")
		args = append(args, q.To.UTC().Format(activityTimeLayout))
	}
	if typ := strings.ToUpper(strings.TrimSpace(q.Type)); typ != "" {
		where = append(where, "type = ?")
		args = append(args, typ)
	}
	if badge := strings.TrimSpace(q.BadgeID); badge != "" {
		where = append(where, "badge_id = ?")
		args = append(args, badge)
	}

	stmt := selectActivitySQL
	if len(where) > 0 {
		stmt += " WHERE " + strings.Join(where, " AND ")
	}
	stmt += " ORDER BY occurred_at ASC"

	rows, err := r.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query activity log: %w", err)
	}
	defer rows.Close()

	var out []models.ActivityEvent
	for rows.Next() {
		ev, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read activity log: %w", err)
	}
	return out, nil
}

func scanActivity(rows *sql.Rows) (models.ActivityEvent, error) {
	var (
		ev          models.ActivityEvent
		badge, meta sql.NullString
	)
	if err := rows.Scan(&ev.EventID, &ev.OccurredAt, &ev.Type, &badge, &ev.Description, &meta); err != nil {
		return ev, fmt.Errorf("scan activity row: %w", err)
	}
	ev.OccurredAt = ev.OccurredAt.UTC()
	ev.BadgeID = badge.String
	if meta.String == "" {
		return ev, nil
	}
	var v any
	if err := json.Unmarshal([]byte(meta.String), &v); err != nil {
		// older rows carry free text here
		ev.Metadata = meta.String
		return ev, nil
	}
	ev.Metadata = v
	return ev, nil
}
