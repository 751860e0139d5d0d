package models

import "time"

// Activity event types.
const (
	ActivityLogin       = "LOGIN"
	ActivityLoginFailed = "LOGIN_FAILED"
	ActivityLogout      = "LOGOUT"
	ActivityReading     = "READING"
	ActivityNC          = "NC"
	ActivityWriteLocked = "WRITE_LOCKED"
)

// ActivityEvent is a single entry of the operator activity log.
type ActivityEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"` // LOGIN | LOGIN_FAILED | LOGOUT | READING | NC | WRITE_LOCKED
	BadgeID     string    `json:"badge_id,omitempty"`
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
}
