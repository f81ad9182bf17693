// Package repository declares the persistence interfaces the service layer
// depends on. The sqlstore package implements all of them on one *DB; the
// service tests implement them with in-memory fakes.
//
// Conventions shared by every implementation:
//   - Create* generates the ID and timestamps and writes them back into the
//     struct the caller passed in.
//   - Get*, Update* and Delete* return apperror.ErrNotFound when no row
//     matches the ID.
//   - List* never returns nil on success; an empty result is an empty slice.
package repository

import (
	"context"
	"time"

	"github.com/sakif/training-journal/internal/model"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
}

// SessionFilter narrows ListSessions. A nil Until means no upper bound.
type SessionFilter struct {
	UserID string
	Until  *time.Time // inclusive
}

type SessionRepository interface {
	CreateSession(ctx context.Context, session *model.TrainingSession) error
	GetSession(ctx context.Context, id string) (*model.TrainingSession, error)
	ListSessions(ctx context.Context, filter SessionFilter) ([]model.TrainingSession, error) // date desc
	UpdateSession(ctx context.Context, session *model.TrainingSession) error
	DeleteSession(ctx context.Context, id string) error
}

type ThemeRepository interface {
	CreateTheme(ctx context.Context, theme *model.Theme) error
	GetTheme(ctx context.Context, id string) (*model.Theme, error)
	ListThemes(ctx context.Context, userID string) ([]model.Theme, error) // start_at desc
	DeleteTheme(ctx context.Context, id string) error
}

type TaskRepository interface {
	CreateTask(ctx context.Context, task *model.Task) error
	GetTask(ctx context.Context, id string) (*model.Task, error)
	ListTasks(ctx context.Context, userID string) ([]model.Task, error) // created_at desc
	UpdateTask(ctx context.Context, task *model.Task) error
	DeleteTask(ctx context.Context, id string) error
}

type NoteRepository interface {
	CreateNote(ctx context.Context, note *model.Note) error
	GetNote(ctx context.Context, id string) (*model.Note, error)
	ListNotes(ctx context.Context, sessionID string) ([]model.Note, error) // created_at asc
	UpdateNote(ctx context.Context, note *model.Note) error
	DeleteNote(ctx context.Context, id string) error
}
