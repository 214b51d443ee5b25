package domain

import "time"

// Session is a logical device login. It survives refresh rotation: each
// rotation rekeys TokenHash to the newest refresh value.
type Session struct {
	ID             string
	AccountID      string
	TokenHash      string
	DeviceInfo     string
	IPAddress      string
	Active         bool
	CreatedAt      time.Time
	LastActivityAt time.Time
	ExpiresAt      time.Time
}

// IsValid reports whether the session is active and unexpired at now.
func (s *Session) IsValid(now time.Time) bool {
	return s.Active && now.Before(s.ExpiresAt)
}

// Touch records activity. It never extends ExpiresAt.
func (s *Session) Touch(now time.Time) {
	s.LastActivityAt = now
}
