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

var _ repository.NoteRepository = (*DB)(nil)

const noteColumns = `id, session_id, user_id, text, created_at, updated_at`

func (db *DB) CreateNote(ctx context.Context, n *model.Note) error {
	now := time.Now().UTC()
	n.ID = xid.New().String()
	n.CreatedAt = now
	n.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		db.q(`INSERT INTO notes (`+noteColumns+`) VALUES (?, ?, ?, ?, ?, ?)`),
		n.ID,
		n.SessionID,
		n.UserID,
		n.Text,
		n.CreatedAt,
		n.UpdatedAt,
	)
	if err != nil {
		// The caller has already checked the session belongs to n.UserID,
		// so a dangling reference means the session was deleted since.
		if isForeignKeyViolation(err) {
			return apperror.NotFound("session", n.SessionID)
		}
		return fmt.Errorf("sqlstore: creating note: %w", err)
	}

	return nil
}

func (db *DB) GetNote(ctx context.Context, id string) (*model.Note, error) {
	var n model.Note

	err := db.conn.GetContext(ctx, &n,
		db.q(`SELECT `+noteColumns+` FROM notes WHERE id = ?`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("note", id)
		}
		return nil, fmt.Errorf("sqlstore: getting note %s: %w", id, err)
	}

	return &n, nil
}

// ListNotes returns a session's notes in the order they were written.
func (db *DB) ListNotes(ctx context.Context, sessionID string) ([]model.Note, error) {
	notes := make([]model.Note, 0)

	err := db.conn.SelectContext(ctx, &notes,
		db.q(`SELECT `+noteColumns+` FROM notes
		 WHERE session_id = ?
		 ORDER BY created_at ASC`),
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: listing notes: %w", err)
	}

	return notes, nil
}

func (db *DB) UpdateNote(ctx context.Context, n *model.Note) error {
	n.UpdatedAt = time.Now().UTC()

	return db.execOne(ctx, "updating", "note", n.ID,
		`UPDATE notes SET text = ?, updated_at = ? WHERE id = ?`,
		n.Text,
		n.UpdatedAt,
		n.ID,
	)
}

func (db *DB) DeleteNote(ctx context.Context, id string) error {
	return db.execOne(ctx, "deleting", "note", id,
		`DELETE FROM notes WHERE id = ?`, id)
}
