package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/training-journal/internal/service"
)

// SessionHandler manages CRUD operations for training sessions.
//
// WHY A SEPARATE HANDLER?
// Each handler struct "owns" one resource. This makes code easier to:
// - Test (one service dependency per handler)
// - Understand (find all session endpoints in one place)
type SessionHandler struct {
	service *service.SessionService
	logger  *slog.Logger
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(svc *service.SessionService, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{service: svc, logger: logger}
}

// HandleList returns the caller's sessions, most recent date first.
//
// HTTP: GET /sessions
//
// RESPONSE FORMAT:
//
//	[
//	  {"id":"...","userId":"...","date":"...","feeling":7,"performance":6,"rating":8,"feedback":null,...},
//	  ...
//	]
//
// An account with no sessions gets [] rather than null.
func (h *SessionHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.service.List(r.Context(), principal(r))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

// HandleListPast returns only sessions dated at or before now.
//
// HTTP: GET /sessions/past
func (h *SessionHandler) HandleListPast(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.service.ListPast(r.Context(), principal(r))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

// HandleGetByID returns a single session.
//
// HTTP: GET /sessions/{id}
func (h *SessionHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.Get(r.Context(), principal(r), pathID(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// HandleCreate records a new session.
//
// HTTP: POST /sessions
// REQUEST BODY: {"date":"2025-03-01","feeling":7,"performance":6,"rating":8,"feedback":"..."}
func (h *SessionHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in service.SessionInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}

	session, err := h.service.Create(r.Context(), principal(r), in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

// HandleUpdate applies a partial update.
//
// HTTP: PUT /sessions/{id}
// REQUEST BODY: any subset of the create fields; "feedback": null clears it.
func (h *SessionHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var in service.SessionInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}

	session, err := h.service.Update(r.Context(), principal(r), pathID(r, "id"), in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// HandleDelete removes a session and its notes.
//
// HTTP: DELETE /sessions/{id}
// RESPONSE: 204 No Content, empty body.
func (h *SessionHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), principal(r), pathID(r, "id")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
