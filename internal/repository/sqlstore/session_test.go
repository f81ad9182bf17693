package sqlstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sakif/training-journal/internal/apperror"
	"github.com/sakif/training-journal/internal/model"
	"github.com/sakif/training-journal/internal/repository"
)

func TestCreateSession_RoundTrip(t *testing.T) {
	db := newTestDB(t)
	u := createTestUser(t, db, "a@example.com")
	ctx := context.Background()

	feedback := "legs heavy"
	date := time.Date(2025, 3, 1, 7, 30, 0, 0, time.UTC)
	s := &model.TrainingSession{
		UserID: u.ID, Date: date, Feeling: 4, Performance: 6, Rating: 7, Feedback: &feedback,
	}
	if err := db.CreateSession(ctx, s); err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}
	if s.ID == "" || s.CreatedAt.IsZero() || s.UpdatedAt.IsZero() {
		t.Fatalf("CreateSession() did not fill ID/timestamps: %+v", s)
	}

	found, err := db.GetSession(ctx, s.ID)
	if err != nil {
		t.Fatalf("GetSession() error = %v", err)
	}
	if !found.Date.Equal(date) {
		t.Errorf("Date = %v, want %v", found.Date, date)
	}
	if found.Feeling != 4 || found.Performance != 6 || found.Rating != 7 {
		t.Errorf("scores = %d/%d/%d, want 4/6/7", found.Feeling, found.Performance, found.Rating)
	}
	if found.Feedback == nil || *found.Feedback != "legs heavy" {
		t.Errorf("Feedback = %v, want %q", found.Feedback, feedback)
	}
	if found.UserID != u.ID {
		t.Errorf("UserID = %q, want %q", found.UserID, u.ID)
	}
}

func TestCreateSession_NilFeedbackStaysNull(t *testing.T) {
	db := newTestDB(t)
	u := createTestUser(t, db, "a@example.com")

	s := createTestSession(t, db, u.ID, time.Now(), 5)

	found, err := db.GetSession(context.Background(), s.ID)
	if err != nil {
		t.Fatalf("GetSession() error = %v", err)
	}
	if found.Feedback != nil {
		t.Errorf("Feedback = %q, want nil", *found.Feedback)
	}
}

func TestGetSession_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetSession(context.Background(), "nope")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetSession() error = %v, want ErrNotFound", err)
	}
}

func TestListSessions_OwnerScopedAndDateDesc(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice@example.com")
	bob := createTestUser(t, db, "bob@example.com")

	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	createTestSession(t, db, alice.ID, base.AddDate(0, 0, 1), 1)
	createTestSession(t, db, alice.ID, base.AddDate(0, 0, 3), 3)
	createTestSession(t, db, alice.ID, base.AddDate(0, 0, 2), 2)
	createTestSession(t, db, bob.ID, base.AddDate(0, 0, 9), 9)

	got, err := db.ListSessions(context.Background(), repository.SessionFilter{UserID: alice.ID})
	if err != nil {
		t.Fatalf("ListSessions() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("ListSessions() returned %d sessions, want 3", len(got))
	}
	for i, want := range []int{3, 2, 1} {
		if got[i].Feeling != want {
			t.Errorf("got[%d].Feeling = %d, want %d (date desc)", i, got[i].Feeling, want)
		}
	}
}

func TestListSessions_Until(t *testing.T) {
	db := newTestDB(t)
	u := createTestUser(t, db, "a@example.com")

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	createTestSession(t, db, u.ID, now.Add(-48*time.Hour), 1)
	createTestSession(t, db, u.ID, now, 2) // boundary is inclusive
	createTestSession(t, db, u.ID, now.Add(time.Hour), 3)

	got, err := db.ListSessions(context.Background(), repository.SessionFilter{UserID: u.ID, Until: &now})
	if err != nil {
		t.Fatalf("ListSessions() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ListSessions(Until) returned %d sessions, want 2", len(got))
	}
	if got[0].Feeling != 2 || got[1].Feeling != 1 {
		t.Errorf("feelings = %d,%d; want 2,1", got[0].Feeling, got[1].Feeling)
	}
}

func TestListSessions_EmptyIsNotNil(t *testing.T) {
	db := newTestDB(t)

	got, err := db.ListSessions(context.Background(), repository.SessionFilter{UserID: "nobody"})
	if err != nil {
		t.Fatalf("ListSessions() error = %v", err)
	}
	if got == nil {
		t.Error("ListSessions() returned nil, want empty slice")
	}
}

func TestUpdateSession(t *testing.T) {
	db := newTestDB(t)
	u := createTestUser(t, db, "a@example.com")
	ctx := context.Background()
	s := createTestSession(t, db, u.ID, time.Now(), 5)

	s.Rating = 9
	s.Feedback = nil
	if err := db.UpdateSession(ctx, s); err != nil {
		t.Fatalf("UpdateSession() error = %v", err)
	}

	found, err := db.GetSession(ctx, s.ID)
	if err != nil {
		t.Fatalf("GetSession() error = %v", err)
	}
	if found.Rating != 9 {
		t.Errorf("Rating = %d, want 9", found.Rating)
	}
	if found.UpdatedAt.Before(found.CreatedAt) {
		t.Errorf("UpdatedAt %v before CreatedAt %v", found.UpdatedAt, found.CreatedAt)
	}
}

func TestUpdateSession_NotFound(t *testing.T) {
	db := newTestDB(t)

	err := db.UpdateSession(context.Background(), &model.TrainingSession{ID: "ghost", Date: time.Now()})
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("UpdateSession() error = %v, want ErrNotFound", err)
	}
}

// Deleting twice: the second call finds nothing.
func TestDeleteSession_Twice(t *testing.T) {
	db := newTestDB(t)
	u := createTestUser(t, db, "a@example.com")
	s := createTestSession(t, db, u.ID, time.Now(), 5)

	if err := db.DeleteSession(context.Background(), s.ID); err != nil {
		t.Fatalf("first DeleteSession() error = %v", err)
	}
	if err := db.DeleteSession(context.Background(), s.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("second DeleteSession() error = %v, want ErrNotFound", err)
	}
}

func TestDeleteSession_CascadesToNotes(t *testing.T) {
	db := newTestDB(t)
	u := createTestUser(t, db, "a@example.com")
	ctx := context.Background()
	s := createTestSession(t, db, u.ID, time.Now(), 5)

	n := &model.Note{SessionID: s.ID, UserID: u.ID, Text: "warm-up felt slow"}
	if err := db.CreateNote(ctx, n); err != nil {
		t.Fatalf("CreateNote() error = %v", err)
	}

	if err := db.DeleteSession(ctx, s.ID); err != nil {
		t.Fatalf("DeleteSession() error = %v", err)
	}
	if _, err := db.GetNote(ctx, n.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetNote() after session delete: error = %v, want ErrNotFound", err)
	}
}
