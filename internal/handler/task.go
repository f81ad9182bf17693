package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/training-journal/internal/service"
)

type TaskHandler struct {
	service *service.TaskService
	logger  *slog.Logger
}

func NewTaskHandler(svc *service.TaskService, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{service: svc, logger: logger}
}

// HandleList serves GET /tasks, newest first.
func (h *TaskHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.service.List(r.Context(), principal(r))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

// HandleGetByID serves GET /tasks/{id}.
func (h *TaskHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	task, err := h.service.Get(r.Context(), principal(r), pathID(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// HandleCreate serves POST /tasks with {"title": "..."}.
func (h *TaskHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in service.TaskCreateInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}

	task, err := h.service.Create(r.Context(), principal(r), in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

// HandleUpdate serves PUT /tasks/{id} with {"title"?, "completed"?}.
func (h *TaskHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var in service.TaskPatch
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}

	task, err := h.service.Update(r.Context(), principal(r), pathID(r, "id"), in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// HandleDelete serves DELETE /tasks/{id}.
func (h *TaskHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), principal(r), pathID(r, "id")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
