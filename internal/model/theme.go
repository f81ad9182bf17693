package model

import "time"

// Theme is a named focus period, e.g. "Base building" from March to May.
// EndAt is always strictly after StartAt.
type Theme struct {
	ID        string    `json:"id"        db:"id"`
	UserID    string    `json:"userId"    db:"user_id"`
	Name      string    `json:"name"      db:"name"`
	StartAt   time.Time `json:"startAt"   db:"start_at"`
	EndAt     time.Time `json:"endAt"     db:"end_at"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

func (t Theme) OwnerID() string { return t.UserID }
