package domain

import "time"

// Session is a login session. A session is valid only while it is unexpired
// AND indexed in both its owner's session map and the process-wide session
// index; the two indices are updated together on creation and deletion.
//
// Lifecycle: created on login, active while unexpired, expired once past
// ExpirationDate (still indexed until the next sweep, so readers must treat
// it as invalid), revoked once explicitly deleted. Revoked never becomes
// active again.
type Session struct {
	Token          string    `json:"token"`
	UserID         string    `json:"user_id"`
	ExpirationDate time.Time `json:"expiration_date"`
}

// IsExpired reports whether the session is past its expiration date.
func (s *Session) IsExpired() bool {
	return !time.Now().Before(s.ExpirationDate)
}
