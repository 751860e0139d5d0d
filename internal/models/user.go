package models

// User is a row of the badge directory.
type User struct {
	BadgeID string `json:"badge_id"`
	Name    string `json:"name"`
	Role    string `json:"role"`
}
