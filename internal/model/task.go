package model

import "time"

// Task is a to-do item.
//
// CompletedAt is non-nil exactly when Completed is true. Keep the two in step
// with Complete and Reopen rather than setting the fields directly.
type Task struct {
	ID          string     `json:"id"          db:"id"`
	UserID      string     `json:"userId"      db:"user_id"`
	Title       string     `json:"title"       db:"title"`
	Completed   bool       `json:"completed"   db:"completed"`
	CreatedAt   time.Time  `json:"createdAt"   db:"created_at"`
	CompletedAt *time.Time `json:"completedAt" db:"completed_at"`
}

func (t Task) OwnerID() string { return t.UserID }

// Complete marks the task done at the given instant.
func (t *Task) Complete(at time.Time) {
	at = at.UTC()
	t.Completed = true
	t.CompletedAt = &at
}

// Reopen clears completion.
func (t *Task) Reopen() {
	t.Completed = false
	t.CompletedAt = nil
}
