package domain

import (
	"time"

	"github.com/google/uuid"
)

// Session is one user's booking wizard.
// Version grows by one on every stored transition and is used for compare-and-swap writes.
type Session struct {
	ID        uuid.UUID
	State     SelectionState
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
	ExpiresAt time.Time
}

// IsExpired returns true if the session outlived its TTL
func (s *Session) IsExpired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}
