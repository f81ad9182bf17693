package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/training-journal/internal/apperror"
	"github.com/sakif/training-journal/internal/model"
	"github.com/sakif/training-journal/internal/repository"
	"github.com/sakif/training-journal/internal/validate"
)

// NoteInput is the request schema for creating and editing a note.
type NoteInput struct {
	Text validate.Optional `json:"text"`
}

// NoteService handles notes, which live under a training session.
//
// Every call first runs the parent session through guard, so a caller who
// doesn't own the session gets 403 before any note is looked at. A note ID
// that exists but belongs to a different session is reported as 404: from
// the point of view of /sessions/{id}/notes/{noteId} it does not exist.
type NoteService struct {
	notes    repository.NoteRepository
	sessions repository.SessionRepository
	logger   *slog.Logger
}

// NewNoteService creates a new NoteService.
func NewNoteService(notes repository.NoteRepository, sessions repository.SessionRepository, logger *slog.Logger) *NoteService {
	return &NoteService{notes: notes, sessions: sessions, logger: logger}
}

// List returns the notes of a session the caller owns, oldest first.
func (s *NoteService) List(ctx context.Context, userID, sessionID string) ([]model.Note, error) {
	session, err := guard(ctx, userID, "session", sessionID, s.sessions.GetSession)
	if err != nil {
		return nil, err
	}

	notes, err := s.notes.ListNotes(ctx, session.ID)
	if err != nil {
		s.logger.Error("failed to list notes", slog.String("sessionID", session.ID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing notes: %w", err)
	}
	return notes, nil
}

// Create adds a note to a session the caller owns.
func (s *NoteService) Create(ctx context.Context, userID, sessionID string, in NoteInput) (*model.Note, error) {
	session, err := guard(ctx, userID, "session", sessionID, s.sessions.GetSession)
	if err != nil {
		return nil, err
	}

	text, err := noteText(in.Text)
	if err != nil {
		return nil, err
	}

	note := &model.Note{SessionID: session.ID, UserID: userID, Text: text}
	if err := s.notes.CreateNote(ctx, note); err != nil {
		s.logger.Error("failed to create note",
			slog.String("sessionID", session.ID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating note: %w", err)
	}

	s.logger.Info("note created", slog.String("id", note.ID), slog.String("sessionID", session.ID))
	return note, nil
}

// Update replaces the text of a note.
func (s *NoteService) Update(ctx context.Context, userID, sessionID, noteID string, in NoteInput) (*model.Note, error) {
	if !in.Text.Set {
		return nil, apperror.ValidationFailed("text", "text is required")
	}

	note, err := s.find(ctx, userID, sessionID, noteID)
	if err != nil {
		return nil, err
	}

	text, err := noteText(in.Text)
	if err != nil {
		return nil, err
	}
	note.Text = text

	if err := s.notes.UpdateNote(ctx, note); err != nil {
		return nil, fmt.Errorf("updating note: %w", err)
	}

	s.logger.Info("note updated", slog.String("id", note.ID))
	return note, nil
}

// Delete removes a note.
func (s *NoteService) Delete(ctx context.Context, userID, sessionID, noteID string) error {
	note, err := s.find(ctx, userID, sessionID, noteID)
	if err != nil {
		return err
	}

	if err := s.notes.DeleteNote(ctx, note.ID); err != nil {
		return fmt.Errorf("deleting note: %w", err)
	}

	s.logger.Info("note deleted", slog.String("id", note.ID))
	return nil
}

// find guards the session, then the note, then checks the note hangs off
// that session.
func (s *NoteService) find(ctx context.Context, userID, sessionID, noteID string) (*model.Note, error) {
	session, err := guard(ctx, userID, "session", sessionID, s.sessions.GetSession)
	if err != nil {
		return nil, err
	}

	note, err := guard(ctx, userID, "note", noteID, s.notes.GetNote)
	if err != nil {
		return nil, err
	}
	if note.SessionID != session.ID {
		return nil, apperror.NotFound("note", noteID)
	}
	return note, nil
}

func noteText(o validate.Optional) (string, error) {
	if !o.Set {
		return "", apperror.ValidationFailed("text", "text is required")
	}
	text, err := validate.NonEmptyTrimmed(o.Value)
	if err != nil {
		return "", validate.Named("text", err)
	}
	if len(text) > MaxNoteLength {
		return "", apperror.ValidationFailed("text",
			fmt.Sprintf("text must be %d characters or less", MaxNoteLength))
	}
	return text, nil
}
