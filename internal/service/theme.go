package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sakif/training-journal/internal/apperror"
	"github.com/sakif/training-journal/internal/model"
	"github.com/sakif/training-journal/internal/repository"
	"github.com/sakif/training-journal/internal/validate"
)

// ThemeInput is the request schema for creating a theme. All three fields
// are required. Dates go through validate.ParseDate, so date-only strings
// such as "2025-01-10" are accepted.
type ThemeInput struct {
	Name    validate.Optional `json:"name"`
	StartAt validate.Optional `json:"startAt"`
	EndAt   validate.Optional `json:"endAt"`
}

// ThemeService handles business logic for themes.
//
// Themes are immutable once created: there is no Update. To change one,
// delete it and create it again.
type ThemeService struct {
	repo   repository.ThemeRepository
	logger *slog.Logger
}

// NewThemeService creates a new ThemeService.
func NewThemeService(repo repository.ThemeRepository, logger *slog.Logger) *ThemeService {
	return &ThemeService{repo: repo, logger: logger}
}

// List returns the caller's themes, latest start first.
func (s *ThemeService) List(ctx context.Context, userID string) ([]model.Theme, error) {
	if err := requirePrincipal(userID); err != nil {
		return nil, err
	}

	themes, err := s.repo.ListThemes(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list themes", slog.String("userID", userID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing themes: %w", err)
	}
	return themes, nil
}

// Get returns one theme if the caller owns it.
func (s *ThemeService) Get(ctx context.Context, userID, id string) (*model.Theme, error) {
	return guard(ctx, userID, "theme", id, s.repo.GetTheme)
}

// Create validates the input and saves a new theme.
//
// VALIDATION ORDER:
//  1. name is a non-blank string of at most MaxThemeNameLength characters
//  2. startAt and endAt both parse as dates
//  3. endAt is strictly after startAt (an equal pair is rejected)
func (s *ThemeService) Create(ctx context.Context, userID string, in ThemeInput) (*model.Theme, error) {
	if err := requirePrincipal(userID); err != nil {
		return nil, err
	}

	if !in.Name.Set {
		return nil, apperror.ValidationFailed("name", "name is required")
	}
	name, err := validate.NonEmptyTrimmed(in.Name.Value)
	if err != nil {
		return nil, validate.Named("name", err)
	}
	if len(name) > MaxThemeNameLength {
		return nil, apperror.ValidationFailed("name",
			fmt.Sprintf("name must be %d characters or less", MaxThemeNameLength))
	}

	startAt, err := requiredDate("startAt", in.StartAt)
	if err != nil {
		return nil, err
	}
	endAt, err := requiredDate("endAt", in.EndAt)
	if err != nil {
		return nil, err
	}
	if !validate.DateRangeOrdered(startAt, endAt) {
		return nil, apperror.ValidationFailed("endAt", "endAt must be after startAt")
	}

	theme := &model.Theme{
		UserID:  userID,
		Name:    name,
		StartAt: startAt,
		EndAt:   endAt,
	}
	if err := s.repo.CreateTheme(ctx, theme); err != nil {
		if ownerMissing(err) {
			s.logger.Warn("theme create for unknown user", slog.String("userID", userID))
			return nil, errUnknownPrincipal
		}
		s.logger.Error("failed to create theme",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating theme: %w", err)
	}

	s.logger.Info("theme created", slog.String("id", theme.ID), slog.String("userID", userID))
	return theme, nil
}

// Delete removes a theme the caller owns.
func (s *ThemeService) Delete(ctx context.Context, userID, id string) error {
	theme, err := guard(ctx, userID, "theme", id, s.repo.GetTheme)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteTheme(ctx, theme.ID); err != nil {
		return fmt.Errorf("deleting theme: %w", err)
	}

	s.logger.Info("theme deleted", slog.String("id", theme.ID))
	return nil
}

func requiredDate(field string, o validate.Optional) (t time.Time, err error) {
	if !o.Set || o.Value == nil {
		return t, apperror.ValidationFailed(field, field+" is required")
	}
	t, err = validate.ParseDate(o.Value)
	if err != nil {
		return t, validate.Named(field, err)
	}
	return t, nil
}
