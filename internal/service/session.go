package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sakif/training-journal/internal/apperror"
	"github.com/sakif/training-journal/internal/model"
	"github.com/sakif/training-journal/internal/repository"
	"github.com/sakif/training-journal/internal/validate"
)

// Validation constants.
// Defining these as constants (not magic numbers in code) makes them:
// - Easy to find and change
// - Self-documenting (the name explains the purpose)
// - Referenceable in error messages
const (
	MaxThemeNameLength = 100
	MaxTaskTitleLength = 200
	MaxFeedbackLength  = 2000
	MaxNoteLength      = 5000
)

// SessionInput is the request schema for creating and patching a session.
//
// Every field is a validate.Optional so the service can tell "absent" from
// "null": on create, date and the three scores are required; on update,
// only the fields present are validated and applied. A null or blank
// feedback clears it.
type SessionInput struct {
	Date        validate.Optional `json:"date"`
	Feeling     validate.Optional `json:"feeling"`
	Performance validate.Optional `json:"performance"`
	Rating      validate.Optional `json:"rating"`
	Feedback    validate.Optional `json:"feedback"`
}

func (in SessionInput) empty() bool {
	return !in.Date.Set && !in.Feeling.Set && !in.Performance.Set && !in.Rating.Set && !in.Feedback.Set
}

// SessionService handles business logic for training sessions.
type SessionService struct {
	repo   repository.SessionRepository
	logger *slog.Logger
	now    func() time.Time
}

// NewSessionService creates a new SessionService.
func NewSessionService(repo repository.SessionRepository, logger *slog.Logger) *SessionService {
	return &SessionService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// List returns the caller's sessions, most recent date first.
func (s *SessionService) List(ctx context.Context, userID string) ([]model.TrainingSession, error) {
	if err := requirePrincipal(userID); err != nil {
		return nil, err
	}

	sessions, err := s.repo.ListSessions(ctx, repository.SessionFilter{UserID: userID})
	if err != nil {
		s.logger.Error("failed to list sessions", slog.String("userID", userID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	return sessions, nil
}

// ListPast returns the caller's sessions dated at or before now.
func (s *SessionService) ListPast(ctx context.Context, userID string) ([]model.TrainingSession, error) {
	if err := requirePrincipal(userID); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	sessions, err := s.repo.ListSessions(ctx, repository.SessionFilter{UserID: userID, Until: &now})
	if err != nil {
		s.logger.Error("failed to list past sessions", slog.String("userID", userID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing past sessions: %w", err)
	}
	return sessions, nil
}

// Get returns one session if the caller owns it.
func (s *SessionService) Get(ctx context.Context, userID, id string) (*model.TrainingSession, error) {
	return guard(ctx, userID, "session", id, s.repo.GetSession)
}

// Create validates every required field and saves a new session.
//
// Each score is validated on its own so the error names the bad field:
// {"feeling": 11} fails with field "feeling", not a generic "invalid payload".
func (s *SessionService) Create(ctx context.Context, userID string, in SessionInput) (*model.TrainingSession, error) {
	if err := requirePrincipal(userID); err != nil {
		return nil, err
	}

	required := []struct {
		name string
		f    validate.Optional
	}{
		{"date", in.Date}, {"feeling", in.Feeling}, {"performance", in.Performance}, {"rating", in.Rating},
	}
	for _, r := range required {
		if !r.f.Set || r.f.Value == nil {
			return nil, apperror.ValidationFailed(r.name, r.name+" is required")
		}
	}

	session := &model.TrainingSession{UserID: userID}
	if err := applySessionInput(session, in); err != nil {
		return nil, err
	}

	if err := s.repo.CreateSession(ctx, session); err != nil {
		if ownerMissing(err) {
			s.logger.Warn("session create for unknown user", slog.String("userID", userID))
			return nil, errUnknownPrincipal
		}
		s.logger.Error("failed to create session",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating session: %w", err)
	}

	s.logger.Info("session created",
		slog.String("id", session.ID),
		slog.String("userID", userID),
	)
	return session, nil
}

// Update applies a partial patch to a session the caller owns.
//
// STRATEGY: "Fetch then update"
// guard fetches the row (and proves ownership), the patch is validated and
// applied to that copy, and the whole row is written back. Nothing is
// written if any present field is invalid.
func (s *SessionService) Update(ctx context.Context, userID, id string, in SessionInput) (*model.TrainingSession, error) {
	if in.empty() {
		return nil, apperror.ValidationFailed("", "at least one field must be provided")
	}

	session, err := guard(ctx, userID, "session", id, s.repo.GetSession)
	if err != nil {
		return nil, err
	}

	if err := applySessionInput(session, in); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateSession(ctx, session); err != nil {
		s.logger.Error("failed to update session",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating session: %w", err)
	}

	s.logger.Info("session updated", slog.String("id", session.ID))
	return session, nil
}

// Delete removes a session the caller owns, along with its notes.
func (s *SessionService) Delete(ctx context.Context, userID, id string) error {
	session, err := guard(ctx, userID, "session", id, s.repo.GetSession)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteSession(ctx, session.ID); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}

	s.logger.Info("session deleted", slog.String("id", session.ID))
	return nil
}

// applySessionInput validates the present fields of in and copies them onto
// session. It validates everything before touching session, so a failed
// patch leaves the row as it was.
func applySessionInput(session *model.TrainingSession, in SessionInput) error {
	next := *session

	if in.Date.Set {
		d, err := validate.ParseDate(in.Date.Value)
		if err != nil {
			return validate.Named("date", err)
		}
		next.Date = d
	}

	scores := []struct {
		name string
		in   validate.Optional
		dst  *int
	}{
		{"feeling", in.Feeling, &next.Feeling},
		{"performance", in.Performance, &next.Performance},
		{"rating", in.Rating, &next.Rating},
	}
	for _, sc := range scores {
		if !sc.in.Set {
			continue
		}
		v, err := validate.ClampScore(sc.in.Value)
		if err != nil {
			return validate.Named(sc.name, err)
		}
		*sc.dst = v
	}

	if in.Feedback.Set {
		fb, err := feedbackValue(in.Feedback)
		if err != nil {
			return err
		}
		next.Feedback = fb
	}

	*session = next
	return nil
}

// feedbackValue turns the feedback field into a column value: null and
// blank strings clear it, other strings are trimmed.
func feedbackValue(o validate.Optional) (*string, error) {
	if o.IsNull() {
		return nil, nil
	}
	str, ok := o.Value.(string)
	if !ok {
		return nil, apperror.ValidationFailed("feedback", "feedback must be a string or null")
	}
	str = strings.TrimSpace(str)
	if str == "" {
		return nil, nil
	}
	if len(str) > MaxFeedbackLength {
		return nil, apperror.ValidationFailed("feedback",
			fmt.Sprintf("feedback must be %d characters or less", MaxFeedbackLength))
	}
	return &str, nil
}
