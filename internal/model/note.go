package model

import "time"

// Note is free text attached to a training session. It has its own owner
// column so ownership checks don't need a join, and it is removed together
// with its session (ON DELETE CASCADE).
type Note struct {
	ID        string    `json:"id"        db:"id"`
	SessionID string    `json:"sessionId" db:"session_id"`
	UserID    string    `json:"userId"    db:"user_id"`
	Text      string    `json:"text"      db:"text"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

func (n Note) OwnerID() string { return n.UserID }
