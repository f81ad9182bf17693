package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/training-journal/internal/service"
)

// NoteHandler serves the notes nested under a session:
//
//	GET    /sessions/{id}/notes
//	POST   /sessions/{id}/notes
//	PUT    /sessions/{id}/notes/{noteId}
//	DELETE /sessions/{id}/notes/{noteId}
type NoteHandler struct {
	service *service.NoteService
	logger  *slog.Logger
}

// NewNoteHandler creates a new NoteHandler.
func NewNoteHandler(svc *service.NoteService, logger *slog.Logger) *NoteHandler {
	return &NoteHandler{service: svc, logger: logger}
}

func (h *NoteHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	notes, err := h.service.List(r.Context(), principal(r), pathID(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, notes)
}

func (h *NoteHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in service.NoteInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}

	note, err := h.service.Create(r.Context(), principal(r), pathID(r, "id"), in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, note)
}

func (h *NoteHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var in service.NoteInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}

	note, err := h.service.Update(r.Context(), principal(r), pathID(r, "id"), pathID(r, "noteId"), in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

func (h *NoteHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), principal(r), pathID(r, "id"), pathID(r, "noteId")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
