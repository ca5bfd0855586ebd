package models

import "time"

// RefreshToken is a persisted refresh token. Rows are never removed; revoked
// tokens have Deleted set.
type RefreshToken struct {
	ID            int64
	UserID        int64
	OwnerUserName string
	Token         string
	Deleted       bool
	CreatedAt     time.Time
}

func (t *RefreshToken) GetID() int64 { return t.ID }
