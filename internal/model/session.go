package model

import "time"

// TrainingSession is one logged workout.
//
// Feeling, Performance and Rating are integers in [0,10]; the service layer
// enforces the range before anything reaches the database. Feedback is
// optional: nil means "no feedback" and is sent to clients as null.
type TrainingSession struct {
	ID          string    `json:"id"          db:"id"`
	UserID      string    `json:"userId"      db:"user_id"`
	Date        time.Time `json:"date"        db:"date"`
	Feeling     int       `json:"feeling"     db:"feeling"`
	Performance int       `json:"performance" db:"performance"`
	Rating      int       `json:"rating"      db:"rating"`
	Feedback    *string   `json:"feedback"    db:"feedback"`
	CreatedAt   time.Time `json:"createdAt"   db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt"   db:"updated_at"`
}

func (s TrainingSession) OwnerID() string { return s.UserID }
