// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (Business layer) → validates, enforces ownership, orchestrates
//	Repository (Data layer)  → reads/writes to the database
//
// Every service method that touches a specific row takes the caller's user
// ID (the principal from the bearer token) and runs it through guard before
// reading or changing anything.
//
// DEPENDENCY INJECTION:
// Services take repository interfaces, not *sqlstore.DB. Tests pass the
// in-memory fakes in fakes_test.go; production passes the SQL store.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sakif/training-journal/internal/apperror"
	"github.com/sakif/training-journal/internal/model"
)

// guard is the resource access check shared by every resource. find loads
// one row by primary key; the repository Get* methods fit.
//
// POLICY:
// The row is looked up by ID alone, then its owner is compared to the caller.
//   - no such row      → apperror.NotFound  (404)
//   - someone else's   → apperror.Forbidden (403)
//   - caller's own row → the row, so the caller needn't fetch it again
//
// One policy for sessions, themes, tasks and notes: a non-owner always gets
// 403, never a 404 from one path and a 403 from another.
func guard[T model.Owned](ctx context.Context, userID, resource, id string, find func(context.Context, string) (*T, error)) (*T, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", fmt.Sprintf("%s ID is required", resource))
	}
	if err := requirePrincipal(userID); err != nil {
		return nil, err
	}

	row, err := find(ctx, id)
	if err != nil {
		return nil, err
	}

	if (*row).OwnerID() != userID {
		return nil, apperror.Forbidden(fmt.Sprintf("you do not have access to this %s", resource))
	}

	return row, nil
}

// requirePrincipal rejects calls that reached the service without an
// authenticated user. RequireAuth makes this unreachable over HTTP.
func requirePrincipal(userID string) error {
	if userID == "" {
		return apperror.Unauthorized(apperror.CodeNoToken, "Authorization token required")
	}
	return nil
}

// errUnknownPrincipal answers a write by a token that verified but whose
// account no longer exists. The credential is what stopped working, so it is
// a 401 like HandleMe, not a 404.
var errUnknownPrincipal = apperror.Unauthorized(apperror.CodeInvalidToken, "Invalid token")

// ownerMissing reports whether a repository create failed because the
// owning user row is gone.
func ownerMissing(err error) bool {
	return errors.Is(err, apperror.ErrNotFound)
}
