package sqlstore

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"github.com/sakif/training-journal/internal/apperror"
	"github.com/sakif/training-journal/internal/model"
	"github.com/sakif/training-journal/internal/repository"
)

// The SQLite tests cover the happy paths against a real engine. These use
// sqlmock to force the failures a real database rarely produces on demand:
// dropped connections and broken RowsAffected.

func newMockDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	return &DB{conn: sqlx.NewDb(conn, "sqlmock"), driver: DriverSQLite}, mock
}

func expectWrapped(t *testing.T, err error, prefix string) {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.HasPrefix(err.Error(), prefix) || !strings.Contains(err.Error(), "db down") {
		t.Errorf("error = %q, want prefix %q wrapping db down", err, prefix)
	}
	if errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("driver failure must not look like NotFound: %v", err)
	}
}

func TestCreateUser_DBError(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec(`INSERT INTO users`).WillReturnError(errors.New("db down"))

	err := db.CreateUser(context.Background(), &model.User{Email: "a@b.co", PasswordHash: "h"})
	expectWrapped(t, err, "sqlstore: creating user")

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestGetSession_DBError(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT .+ FROM training_sessions WHERE id = \?`).
		WithArgs("s1").
		WillReturnError(errors.New("db down"))

	_, err := db.GetSession(context.Background(), "s1")
	expectWrapped(t, err, "sqlstore: getting session s1")
}

func TestGetSession_ScansRow(t *testing.T) {
	db, mock := newMockDB(t)
	date := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"id", "user_id", "date", "feeling", "performance", "rating", "feedback", "created_at", "updated_at",
	}).AddRow("s1", "u1", date, 3, 4, 5, nil, date, date)
	mock.ExpectQuery(`SELECT .+ FROM training_sessions WHERE id = \?`).WithArgs("s1").WillReturnRows(rows)

	s, err := db.GetSession(context.Background(), "s1")
	if err != nil {
		t.Fatalf("GetSession() error = %v", err)
	}
	if s.UserID != "u1" || s.Feeling != 3 || s.Feedback != nil || !s.Date.Equal(date) {
		t.Errorf("GetSession() = %+v", s)
	}
}

func TestListSessions_DBError(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT .+ FROM training_sessions WHERE user_id = \? AND date <= \?`).
		WillReturnError(errors.New("db down"))

	until := time.Now()
	_, err := db.ListSessions(context.Background(), repository.SessionFilter{UserID: "u1", Until: &until})
	expectWrapped(t, err, "sqlstore: listing sessions")
}

func TestListThemes_DBError(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT .+ FROM themes`).WillReturnError(errors.New("db down"))

	_, err := db.ListThemes(context.Background(), "u1")
	expectWrapped(t, err, "sqlstore: listing themes")
}

func TestUpdateTask_DBError(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec(`UPDATE tasks SET`).WillReturnError(errors.New("db down"))

	err := db.UpdateTask(context.Background(), &model.Task{ID: "t1", Title: "x"})
	expectWrapped(t, err, "sqlstore: updating task t1")
}

func TestDeleteNote_RowsAffectedError(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec(`DELETE FROM notes WHERE id = \?`).
		WithArgs("n1").
		WillReturnResult(sqlmock.NewErrorResult(errors.New("db down")))

	err := db.DeleteNote(context.Background(), "n1")
	expectWrapped(t, err, "sqlstore: deleting note n1: checking rows affected")
}

func TestDeleteTheme_ZeroRowsIsNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec(`DELETE FROM themes WHERE id = \?`).
		WithArgs("th1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := db.DeleteTheme(context.Background(), "th1"); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("DeleteTheme() error = %v, want ErrNotFound", err)
	}
}

func TestRebind_Postgres(t *testing.T) {
	conn, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	defer conn.Close()

	db := &DB{conn: sqlx.NewDb(conn, "pgx"), driver: DriverPostgres}
	got := db.q(`UPDATE notes SET text = ?, updated_at = ? WHERE id = ?`)
	want := `UPDATE notes SET text = $1, updated_at = $2 WHERE id = $3`
	if got != want {
		t.Errorf("q() = %q, want %q", got, want)
	}
}
