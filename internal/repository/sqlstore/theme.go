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

var _ repository.ThemeRepository = (*DB)(nil)

const themeColumns = `id, user_id, name, start_at, end_at, created_at`

func (db *DB) CreateTheme(ctx context.Context, t *model.Theme) error {
	t.ID = xid.New().String()
	t.StartAt = t.StartAt.UTC()
	t.EndAt = t.EndAt.UTC()
	t.CreatedAt = time.Now().UTC()

	_, err := db.conn.ExecContext(ctx,
		db.q(`INSERT INTO themes (`+themeColumns+`) VALUES (?, ?, ?, ?, ?, ?)`),
		t.ID,
		t.UserID,
		t.Name,
		t.StartAt,
		t.EndAt,
		t.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperror.NotFound("user", t.UserID)
		}
		return fmt.Errorf("sqlstore: creating theme: %w", err)
	}

	return nil
}

func (db *DB) GetTheme(ctx context.Context, id string) (*model.Theme, error) {
	var t model.Theme

	err := db.conn.GetContext(ctx, &t,
		db.q(`SELECT `+themeColumns+` FROM themes WHERE id = ?`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("theme", id)
		}
		return nil, fmt.Errorf("sqlstore: getting theme %s: %w", id, err)
	}

	return &t, nil
}

// ListThemes returns a user's themes, latest start first.
func (db *DB) ListThemes(ctx context.Context, userID string) ([]model.Theme, error) {
	themes := make([]model.Theme, 0)

	err := db.conn.SelectContext(ctx, &themes,
		db.q(`SELECT `+themeColumns+` FROM themes
		 WHERE user_id = ?
		 ORDER BY start_at DESC, created_at DESC`),
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: listing themes: %w", err)
	}

	return themes, nil
}

func (db *DB) DeleteTheme(ctx context.Context, id string) error {
	return db.execOne(ctx, "deleting", "theme", id,
		`DELETE FROM themes WHERE id = ?`, id)
}
