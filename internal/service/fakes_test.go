package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/sakif/training-journal/internal/apperror"
	"github.com/sakif/training-journal/internal/auth"
	"github.com/sakif/training-journal/internal/model"
	"github.com/sakif/training-journal/internal/repository"
)

// =========================================================================
// FAKES AND HELPERS
// =========================================================================

// fakeStore is an in-memory implementation of every repository interface.
// Using a fake (not a mock framework) keeps tests easy to read: you can see
// exactly what the fake does.
//
// Rows are stored by value so a service mutating a returned pointer does not
// change the "database" until it calls Update*.
type fakeStore struct {
	users    map[string]model.User
	sessions map[string]model.TrainingSession
	themes   map[string]model.Theme
	tasks    map[string]model.Task
	notes    map[string]model.Note
	nextID   int
	clock    time.Time

	// set to a non-nil error to simulate a database failure
	createErr error
	listErr   error
	updateErr error
	updates   int
}

var (
	_ repository.UserRepository    = (*fakeStore)(nil)
	_ repository.SessionRepository = (*fakeStore)(nil)
	_ repository.ThemeRepository   = (*fakeStore)(nil)
	_ repository.TaskRepository    = (*fakeStore)(nil)
	_ repository.NoteRepository    = (*fakeStore)(nil)
)

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    make(map[string]model.User),
		sessions: make(map[string]model.TrainingSession),
		themes:   make(map[string]model.Theme),
		tasks:    make(map[string]model.Task),
		notes:    make(map[string]model.Note),
		clock:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (f *fakeStore) id(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s-%d", prefix, f.nextID)
}

// tick returns a strictly increasing timestamp so ordering by created_at is
// deterministic.
func (f *fakeStore) tick() time.Time {
	f.clock = f.clock.Add(time.Second)
	return f.clock
}

// --- users ---

func (f *fakeStore) CreateUser(_ context.Context, u *model.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return apperror.Conflict(apperror.CodeUserExists, "a user with this email already exists")
		}
	}
	u.ID = f.id("user")
	u.CreatedAt = f.tick()
	f.users[u.ID] = *u
	return nil
}

func (f *fakeStore) GetUserByID(_ context.Context, id string) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	return &u, nil
}

func (f *fakeStore) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, apperror.NotFound("user", email)
}

// --- sessions ---

func (f *fakeStore) CreateSession(_ context.Context, s *model.TrainingSession) error {
	if f.createErr != nil {
		return f.createErr
	}
	s.ID = f.id("session")
	s.CreatedAt = f.tick()
	s.UpdatedAt = s.CreatedAt
	f.sessions[s.ID] = *s
	return nil
}

func (f *fakeStore) GetSession(_ context.Context, id string) (*model.TrainingSession, error) {
	s, ok := f.sessions[id]
	if !ok {
		return nil, apperror.NotFound("session", id)
	}
	return &s, nil
}

func (f *fakeStore) ListSessions(_ context.Context, filter repository.SessionFilter) ([]model.TrainingSession, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]model.TrainingSession, 0)
	for _, s := range f.sessions {
		if s.UserID != filter.UserID {
			continue
		}
		if filter.Until != nil && s.Date.After(*filter.Until) {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (f *fakeStore) UpdateSession(_ context.Context, s *model.TrainingSession) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.sessions[s.ID]; !ok {
		return apperror.NotFound("session", s.ID)
	}
	f.updates++
	s.UpdatedAt = f.tick()
	f.sessions[s.ID] = *s
	return nil
}

func (f *fakeStore) DeleteSession(_ context.Context, id string) error {
	if _, ok := f.sessions[id]; !ok {
		return apperror.NotFound("session", id)
	}
	delete(f.sessions, id)
	for nid, n := range f.notes {
		if n.SessionID == id {
			delete(f.notes, nid)
		}
	}
	return nil
}

// --- themes ---

func (f *fakeStore) CreateTheme(_ context.Context, t *model.Theme) error {
	if f.createErr != nil {
		return f.createErr
	}
	t.ID = f.id("theme")
	t.CreatedAt = f.tick()
	f.themes[t.ID] = *t
	return nil
}

func (f *fakeStore) GetTheme(_ context.Context, id string) (*model.Theme, error) {
	t, ok := f.themes[id]
	if !ok {
		return nil, apperror.NotFound("theme", id)
	}
	return &t, nil
}

func (f *fakeStore) ListThemes(_ context.Context, userID string) ([]model.Theme, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]model.Theme, 0)
	for _, t := range f.themes {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartAt.After(out[j].StartAt) })
	return out, nil
}

func (f *fakeStore) DeleteTheme(_ context.Context, id string) error {
	if _, ok := f.themes[id]; !ok {
		return apperror.NotFound("theme", id)
	}
	delete(f.themes, id)
	return nil
}

// --- tasks ---

func (f *fakeStore) CreateTask(_ context.Context, t *model.Task) error {
	if f.createErr != nil {
		return f.createErr
	}
	t.ID = f.id("task")
	t.CreatedAt = f.tick()
	t.Reopen()
	f.tasks[t.ID] = *t
	return nil
}

func (f *fakeStore) GetTask(_ context.Context, id string) (*model.Task, error) {
	t, ok := f.tasks[id]
	if !ok {
		return nil, apperror.NotFound("task", id)
	}
	return &t, nil
}

func (f *fakeStore) ListTasks(_ context.Context, userID string) ([]model.Task, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]model.Task, 0)
	for _, t := range f.tasks {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeStore) UpdateTask(_ context.Context, t *model.Task) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.tasks[t.ID]; !ok {
		return apperror.NotFound("task", t.ID)
	}
	f.updates++
	f.tasks[t.ID] = *t
	return nil
}

func (f *fakeStore) DeleteTask(_ context.Context, id string) error {
	if _, ok := f.tasks[id]; !ok {
		return apperror.NotFound("task", id)
	}
	delete(f.tasks, id)
	return nil
}

// --- notes ---

func (f *fakeStore) CreateNote(_ context.Context, n *model.Note) error {
	if f.createErr != nil {
		return f.createErr
	}
	n.ID = f.id("note")
	n.CreatedAt = f.tick()
	n.UpdatedAt = n.CreatedAt
	f.notes[n.ID] = *n
	return nil
}

func (f *fakeStore) GetNote(_ context.Context, id string) (*model.Note, error) {
	n, ok := f.notes[id]
	if !ok {
		return nil, apperror.NotFound("note", id)
	}
	return &n, nil
}

func (f *fakeStore) ListNotes(_ context.Context, sessionID string) ([]model.Note, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]model.Note, 0)
	for _, n := range f.notes {
		if n.SessionID == sessionID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeStore) UpdateNote(_ context.Context, n *model.Note) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.notes[n.ID]; !ok {
		return apperror.NotFound("note", n.ID)
	}
	f.updates++
	n.UpdatedAt = f.tick()
	f.notes[n.ID] = *n
	return nil
}

func (f *fakeStore) DeleteNote(_ context.Context, id string) error {
	if _, ok := f.notes[id]; !ok {
		return apperror.NotFound("note", id)
	}
	delete(f.notes, id)
	return nil
}

// =========================================================================
// SHARED HELPERS
// =========================================================================

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestAuthService returns an AuthService wired with the fake store.
func newTestAuthService(t *testing.T, store *fakeStore) *AuthService {
	t.Helper()

	ts, err := auth.NewTokenService("test-secret-at-least-16-chars!!", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}

	// Cost 4 is bcrypt minimum, which keeps tests fast.
	ps := auth.NewPasswordServiceForTest(4)

	return NewAuthService(store, ts, ps, discardLogger())
}

// seedSession stores a session directly, bypassing validation.
func seedSession(t *testing.T, store *fakeStore, userID string, date time.Time) *model.TrainingSession {
	t.Helper()
	s := &model.TrainingSession{UserID: userID, Date: date, Feeling: 5, Performance: 5, Rating: 5}
	if err := store.CreateSession(context.Background(), s); err != nil {
		t.Fatalf("seeding session: %v", err)
	}
	return s
}

// wantAppError fails the test unless err is an *apperror.AppError with the
// given code and field. An empty field skips the field check.
func wantAppError(t *testing.T, err error, code, field string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("error %v (%T) is not an *apperror.AppError", err, err)
	}
	if appErr.Code != code {
		t.Errorf("Code = %q, want %q (message %q)", appErr.Code, code, appErr.Message)
	}
	if field != "" && appErr.Field != field {
		t.Errorf("Field = %q, want %q", appErr.Field, field)
	}
	if strings.TrimSpace(appErr.Message) == "" {
		t.Error("Message is empty")
	}
}
