package handler

// RESPONSE HELPERS:
// These functions standardise how we read JSON requests and send JSON
// responses and errors.
//
// WHY HELPERS?
// Without helpers, every handler repeats the same boilerplate:
//   w.Header().Set("Content-Type", "application/json")
//   w.WriteHeader(statusCode)
//   json.NewEncoder(w).Encode(data)
//
// With helpers, handlers are cleaner and more consistent:
//   writeJSON(w, http.StatusOK, data)
//   writeError(w, h.logger, err)
//
// CONSISTENT ERROR FORMAT:
// Every error response from our API has the same shape:
//   {"error": {"code": "NOT_FOUND", "message": "session not found with id abc123"}}
//
// Validation errors add the offending field:
//   {"error": {"code": "VALIDATION_ERROR", "message": "feeling must be ...", "field": "feeling"}}

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sakif/training-journal/internal/apperror"
)

// maxBodyBytes caps request bodies. The largest legitimate body is a note
// of MaxNoteLength characters plus JSON framing.
const maxBodyBytes = 1 << 20

// ErrorBody is the payload under the "error" key of every error response.
type ErrorBody struct {
	Code    string `json:"code"`            // Machine-readable, e.g. "NOT_FOUND"
	Message string `json:"message"`         // Human-readable description
	Field   string `json:"field,omitempty"` // Set for validation errors
}

// ErrorResponse is the standard error format returned by all API endpoints.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// writeJSON sends a JSON response with the given status code.
//
// HEADER ORDER MATTERS:
// You MUST set headers and status code BEFORE writing the body.
// Once you call w.Write() (which Encode does internally), the headers are sent.
// Any header changes after that are silently ignored.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// If encoding fails, the headers are already sent; we can only log it.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to the appropriate HTTP status code and sends it.
//
// ERROR MAPPING:
// This is where domain errors (from the service layer) get translated to HTTP.
// The service layer never sees a status code.
//
//	apperror.ErrValidation   → 400
//	apperror.ErrUnauthorized → 401
//	apperror.ErrForbidden    → 403
//	apperror.ErrNotFound     → 404
//	apperror.ErrConflict     → 409
//	anything else            → 500, logged, generic message
//
// errors.Is() UNWRAPPING:
// errors.Is(err, target) walks the entire error chain (via Unwrap()), so a
// service that returns fmt.Errorf("...: %w", apperror.NotFound(...)) still
// maps to 404.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := statusFor(err)
		if status != http.StatusInternalServerError {
			code := appErr.Code
			if code == "" {
				code = apperror.CodeInternal
			}
			writeJSON(w, status, ErrorResponse{Error: ErrorBody{
				Code:    code,
				Message: appErr.Message,
				Field:   appErr.Field,
			}})
			return
		}
	}

	// Unknown error: return a generic 500.
	// NEVER expose internal error details to the client!
	// The raw error message might contain SQL queries or file paths.
	logger.Error("unhandled error", slog.String("error", err.Error()))
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: ErrorBody{
		Code:    apperror.CodeInternal,
		Message: "An internal error occurred",
	}})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, apperror.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperror.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, apperror.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperror.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON reads exactly one JSON object from the request body into dst.
//
// STRICT DECODING:
//   - DisallowUnknownFields: {"feelin": 5} is a typo, not something to ignore
//   - http.MaxBytesReader: a client can't stream an unbounded body at us
//   - trailing data after the object is rejected
//
// Every failure is returned as a validation AppError, so handlers can pass it
// straight to writeError and the client gets 400 VALIDATION_ERROR.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return decodeError(err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return apperror.ValidationFailed("", "request body must contain a single JSON object")
	}
	return nil
}

func decodeError(err error) error {
	var (
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
		maxErr    *http.MaxBytesError
	)

	switch {
	case errors.Is(err, io.EOF):
		return apperror.ValidationFailed("", "request body is required")
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return apperror.ValidationFailed("", "request body is not valid JSON")
	case errors.As(err, &typeErr):
		if typeErr.Field != "" {
			return apperror.ValidationFailed(typeErr.Field, fmt.Sprintf("%s has the wrong type", typeErr.Field))
		}
		return apperror.ValidationFailed("", "request body must be a JSON object")
	case errors.As(err, &maxErr):
		return apperror.ValidationFailed("", fmt.Sprintf("request body must not exceed %d bytes", maxErr.Limit))
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		// encoding/json has no typed error for this; the field name is quoted
		// at the end of the message.
		field := strings.Trim(strings.TrimPrefix(err.Error(), "json: unknown field "), `"`)
		return apperror.ValidationFailed(field, fmt.Sprintf("unknown field %q", field))
	default:
		return apperror.ValidationFailed("", "request body could not be decoded")
	}
}
