package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/training-journal/internal/apperror"
	"github.com/sakif/training-journal/internal/model"
	"github.com/sakif/training-journal/internal/repository"
)

var _ repository.SessionRepository = (*DB)(nil)

const sessionColumns = `id, user_id, date, feeling, performance, rating, feedback, created_at, updated_at`

// CreateSession inserts a training session. The caller sets UserID and the
// validated fields; ID and timestamps are filled in here. A UserID with no
// account behind it is apperror.NotFound("user", ...).
func (db *DB) CreateSession(ctx context.Context, s *model.TrainingSession) error {
	now := time.Now().UTC()
	s.ID = xid.New().String()
	s.Date = s.Date.UTC()
	s.CreatedAt = now
	s.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		db.q(`INSERT INTO training_sessions (`+sessionColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		s.ID,
		s.UserID,
		s.Date,
		s.Feeling,
		s.Performance,
		s.Rating,
		s.Feedback,
		s.CreatedAt,
		s.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperror.NotFound("user", s.UserID)
		}
		return fmt.Errorf("sqlstore: creating session: %w", err)
	}

	return nil
}

func (db *DB) GetSession(ctx context.Context, id string) (*model.TrainingSession, error) {
	var s model.TrainingSession

	err := db.conn.GetContext(ctx, &s,
		db.q(`SELECT `+sessionColumns+` FROM training_sessions WHERE id = ?`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("session", id)
		}
		return nil, fmt.Errorf("sqlstore: getting session %s: %w", id, err)
	}

	return &s, nil
}

// ListSessions returns one user's sessions, most recent date first.
// With filter.Until set, only sessions dated at or before that instant are
// included ("past" sessions).
func (db *DB) ListSessions(ctx context.Context, filter repository.SessionFilter) ([]model.TrainingSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM training_sessions WHERE user_id = ?`
	args := []any{filter.UserID}

	if filter.Until != nil {
		query += ` AND date <= ?`
		args = append(args, filter.Until.UTC())
	}
	query += ` ORDER BY date DESC, created_at DESC`

	sessions := make([]model.TrainingSession, 0)
	if err := db.conn.SelectContext(ctx, &sessions, db.q(query), args...); err != nil {
		return nil, fmt.Errorf("sqlstore: listing sessions: %w", err)
	}

	return sessions, nil
}

// UpdateSession writes every mutable column of s and bumps UpdatedAt.
// The service applies the partial patch to a fetched row before calling this.
func (db *DB) UpdateSession(ctx context.Context, s *model.TrainingSession) error {
	s.Date = s.Date.UTC()
	s.UpdatedAt = time.Now().UTC()

	return db.execOne(ctx, "updating", "session", s.ID,
		`UPDATE training_sessions
		 SET date = ?, feeling = ?, performance = ?, rating = ?, feedback = ?, updated_at = ?
		 WHERE id = ?`,
		s.Date,
		s.Feeling,
		s.Performance,
		s.Rating,
		s.Feedback,
		s.UpdatedAt,
		s.ID,
	)
}

// DeleteSession removes a session; its notes go with it (ON DELETE CASCADE).
func (db *DB) DeleteSession(ctx context.Context, id string) error {
	return db.execOne(ctx, "deleting", "session", id,
		`DELETE FROM training_sessions WHERE id = ?`, id)
}
