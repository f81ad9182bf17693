package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/training-journal/internal/apperror"
	"github.com/sakif/training-journal/internal/model"
	"github.com/sakif/training-journal/internal/service"
)

// AuthHandler manages registration, login and the current-user lookup.
//
// HANDLER RESPONSIBILITIES:
//   - HandleRegister → create an account and return a token
//   - HandleLogin    → exchange email/password for a token
//   - HandleMe       → return the currently authenticated user
//
// The API is stateless: the client keeps the token and sends it back in the
// Authorization header. There is no server-side logout; the client simply
// forgets the token.
type AuthHandler struct {
	auth   *service.AuthService
	logger *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(auth *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger}
}

// UserResponse is the public view of a user. The password hash never
// leaves the server.
type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// TokenResponse is returned by register and login.
type TokenResponse struct {
	AccessToken string       `json:"accessToken"`
	User        UserResponse `json:"user"`
}

func toUserResponse(u *model.User) UserResponse {
	return UserResponse{ID: u.ID, Email: u.Email}
}

// HandleRegister creates an account.
//
// HTTP: POST /auth/register
// REQUEST BODY: {"email": "me@example.com", "password": "..."}
// RESPONSE: 201 {"accessToken": "...", "user": {"id": "...", "email": "..."}}
// ERRORS: 400 VALIDATION_ERROR, 409 USER_EXISTS
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var in service.Credentials
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}

	result, err := h.auth.Register(r.Context(), in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, TokenResponse{
		AccessToken: result.Token,
		User:        toUserResponse(result.User),
	})
}

// HandleLogin signs a user in.
//
// HTTP: POST /auth/login
// RESPONSE: 200, same shape as register
// ERRORS: 400 VALIDATION_ERROR, 401 INVALID_CREDENTIALS
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var in service.Credentials
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}

	result, err := h.auth.Login(r.Context(), in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, TokenResponse{
		AccessToken: result.Token,
		User:        toUserResponse(result.User),
	})
}

// HandleMe returns the currently authenticated user's profile.
//
// HTTP: GET /auth/me
// Auth: Required (RequireAuth middleware sets userID in context)
//
// A valid token for a user that has since been deleted answers 401
// INVALID_TOKEN rather than 404: from the client's point of view the
// credential no longer works.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user, err := h.auth.GetUserByID(r.Context(), principal(r))
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			h.logger.Warn("HandleMe: token for unknown user", slog.String("userID", principal(r)))
			err = apperror.Unauthorized(apperror.CodeInvalidToken, "Invalid token")
		}
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}
