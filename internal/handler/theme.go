package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/training-journal/internal/service"
)

// ThemeHandler serves /themes. Themes cannot be edited, so there is no PUT.
type ThemeHandler struct {
	service *service.ThemeService
	logger  *slog.Logger
}

// NewThemeHandler creates a new ThemeHandler.
func NewThemeHandler(svc *service.ThemeService, logger *slog.Logger) *ThemeHandler {
	return &ThemeHandler{service: svc, logger: logger}
}

// HandleList serves GET /themes, latest start first.
func (h *ThemeHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	themes, err := h.service.List(r.Context(), principal(r))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, themes)
}

// HandleGetByID serves GET /themes/{id}.
func (h *ThemeHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	theme, err := h.service.Get(r.Context(), principal(r), pathID(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, theme)
}

// HandleCreate serves POST /themes with {"name","startAt","endAt"}.
func (h *ThemeHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in service.ThemeInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}

	theme, err := h.service.Create(r.Context(), principal(r), in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, theme)
}

// HandleDelete serves DELETE /themes/{id}.
func (h *ThemeHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), principal(r), pathID(r, "id")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
