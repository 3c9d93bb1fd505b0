package model

import "time"

// User represents a club member account. Registration, authentication and
// profile management live in a separate identity service; this API only
// reads the fields it needs for renewal checks and notifications.
type User struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	MembershipID string    `json:"membership_id,omitempty"`
	Active       bool      `json:"active"`
	CreatedOn    time.Time `json:"created_on"`
}

// DisplayName returns the name used in notification greetings
func (u User) DisplayName() string {
	if u.FirstName != "" {
		return u.FirstName
	}
	return u.Email
}
