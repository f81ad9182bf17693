// Package handler contains the HTTP request handlers of the journal API.
//
// WHAT IS A HANDLER?
// In Go, an HTTP handler is anything that implements the http.Handler interface:
//
//	type Handler interface {
//	    ServeHTTP(ResponseWriter, *Request)
//	}
//
// Or more commonly, we use http.HandlerFunc, a function with the right signature
// that automatically satisfies the Handler interface. Chi's router accepts these directly.
//
// HANDLER RESPONSIBILITIES:
// 1. Parse the incoming HTTP request (path params, body)
// 2. Call the service layer with the caller's user ID
// 3. Write the HTTP response (status code, headers, body)
//
// Handlers should NOT contain business logic. Validation, ownership and
// persistence all live in the service package.
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/training-journal/internal/auth"
)

// principal returns the user ID RequireAuth stored on the request, or "".
// Services reject "" with NO_TOKEN, so handlers need not check it.
func principal(r *http.Request) string {
	id, _ := auth.UserIDFromContext(r.Context())
	return id
}

// pathID reads a chi URL parameter such as {id} or {noteId}.
func pathID(r *http.Request, name string) string {
	return chi.URLParam(r, name)
}

// HealthHandler answers liveness checks.
//
// HTTP: GET /health
// Response: 200 {"status":"ok"}
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
