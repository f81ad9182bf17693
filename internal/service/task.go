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

// TaskCreateInput is the request schema for POST /tasks.
type TaskCreateInput struct {
	Title validate.Optional `json:"title"`
}

// TaskPatch is the request schema for PUT /tasks/{id}. Either field may be
// omitted, but not both.
type TaskPatch struct {
	Title     validate.Optional `json:"title"`
	Completed validate.Optional `json:"completed"`
}

// TaskService handles business logic for tasks.
type TaskService struct {
	repo   repository.TaskRepository
	logger *slog.Logger
	now    func() time.Time
}

// NewTaskService creates a new TaskService.
func NewTaskService(repo repository.TaskRepository, logger *slog.Logger) *TaskService {
	return &TaskService{repo: repo, logger: logger, now: time.Now}
}

// List returns the caller's tasks, newest first.
func (s *TaskService) List(ctx context.Context, userID string) ([]model.Task, error) {
	if err := requirePrincipal(userID); err != nil {
		return nil, err
	}

	tasks, err := s.repo.ListTasks(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list tasks", slog.String("userID", userID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	return tasks, nil
}

// Get returns one task if the caller owns it.
func (s *TaskService) Get(ctx context.Context, userID, id string) (*model.Task, error) {
	return guard(ctx, userID, "task", id, s.repo.GetTask)
}

// Create saves a new, open task.
func (s *TaskService) Create(ctx context.Context, userID string, in TaskCreateInput) (*model.Task, error) {
	if err := requirePrincipal(userID); err != nil {
		return nil, err
	}

	title, err := taskTitle(in.Title)
	if err != nil {
		return nil, err
	}

	task := &model.Task{UserID: userID, Title: title}
	if err := s.repo.CreateTask(ctx, task); err != nil {
		if ownerMissing(err) {
			s.logger.Warn("task create for unknown user", slog.String("userID", userID))
			return nil, errUnknownPrincipal
		}
		s.logger.Error("failed to create task",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating task: %w", err)
	}

	s.logger.Info("task created", slog.String("id", task.ID), slog.String("userID", userID))
	return task, nil
}

// Update renames a task and/or toggles its completion.
//
// COMPLETION RULES:
//   - completed=true  → CompletedAt is set to now, even if it was already done
//   - completed=false → CompletedAt is cleared
//
// The flag must be a JSON boolean; "true" or 1 are rejected.
func (s *TaskService) Update(ctx context.Context, userID, id string, in TaskPatch) (*model.Task, error) {
	if !in.Title.Set && !in.Completed.Set {
		return nil, apperror.ValidationFailed("", "at least one of title or completed must be provided")
	}

	task, err := guard(ctx, userID, "task", id, s.repo.GetTask)
	if err != nil {
		return nil, err
	}

	var title string
	if in.Title.Set {
		if title, err = taskTitle(in.Title); err != nil {
			return nil, err
		}
	}
	var completed bool
	if in.Completed.Set {
		var ok bool
		if completed, ok = in.Completed.Value.(bool); !ok {
			return nil, apperror.ValidationFailed("completed", "completed must be a boolean")
		}
	}

	if in.Title.Set {
		task.Title = title
	}
	if in.Completed.Set {
		if completed {
			task.Complete(s.now())
		} else {
			task.Reopen()
		}
	}

	if err := s.repo.UpdateTask(ctx, task); err != nil {
		s.logger.Error("failed to update task",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating task: %w", err)
	}

	s.logger.Info("task updated", slog.String("id", task.ID), slog.Bool("completed", task.Completed))
	return task, nil
}

// Delete removes a task the caller owns.
func (s *TaskService) Delete(ctx context.Context, userID, id string) error {
	task, err := guard(ctx, userID, "task", id, s.repo.GetTask)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteTask(ctx, task.ID); err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}

	s.logger.Info("task deleted", slog.String("id", task.ID))
	return nil
}

func taskTitle(o validate.Optional) (string, error) {
	if !o.Set {
		return "", apperror.ValidationFailed("title", "title is required")
	}
	title, err := validate.NonEmptyTrimmed(o.Value)
	if err != nil {
		return "", validate.Named("title", err)
	}
	if len(title) > MaxTaskTitleLength {
		return "", apperror.ValidationFailed("title",
			fmt.Sprintf("title must be %d characters or less", MaxTaskTitleLength))
	}
	return title, nil
}
