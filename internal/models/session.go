package models

import "time"

// Session is the logged-in operator. It exists from a successful login until logout
// or expiry.
type Session struct {
	ID        string    `json:"id"`
	BadgeID   string    `json:"badge_id"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its expiry at now.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}
