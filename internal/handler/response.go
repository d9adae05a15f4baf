package handler

// RESPONSE ENVELOPE:
// Every endpoint answers with the same two-field shape, so clients parse one
// format regardless of outcome:
//
//	success: {"status": "success", "data": <payload>}
//	failure: {"status": "fail",    "data": {"title": "<reason>"}}
//
// The "title" string is the human-readable reason shown to the user. Clients
// branch on "status" and never on HTTP status codes alone, though the codes
// are still set correctly (404, 400, 409, ...) for proxies and tooling.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/toolshed/internal/apperror"
)

// envelope is the uniform response wrapper.
type envelope struct {
	Status string `json:"status"`
	Data   any    `json:"data"`
}

// failData carries the reason string inside a fail envelope.
type failData struct {
	Title string `json:"title"`
}

// writeSuccess sends a success envelope with the given status code.
//
// Headers and status code must be set before the body: once Encode writes,
// the headers are sent and later changes are silently ignored.
func writeSuccess(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope{Status: "success", Data: data}); err != nil {
		// Headers already sent — all we can do is log.
		slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
	}
}

// writeFail sends a fail envelope with the given status code and reason.
func writeFail(w http.ResponseWriter, status int, title string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope{Status: "fail", Data: failData{Title: title}}); err != nil {
		slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
	}
}

// writeError maps a domain error to an HTTP status code and a fail envelope.
//
// The service layer returns apperror sentinels (ErrNotFound, ErrValidation,
// ...) wrapped in *AppError; this is the one place they get translated to
// HTTP. The services themselves never see a status code.
//
// errors.Is walks the whole wrap chain, so a service error like
//
//	fmt.Errorf("service/project: %w", apperror.NotFound("..."))
//
// still matches the sentinel underneath.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
		case errors.Is(err, apperror.ErrForbidden):
			status = http.StatusForbidden
		case errors.Is(err, apperror.ErrConflict):
			status = http.StatusConflict
		case errors.Is(err, apperror.ErrUnauthorized):
			status = http.StatusUnauthorized
		}

		writeFail(w, status, appErr.Message)
		return
	}

	// Unknown error — never leak internals (SQL text, file paths) to clients.
	slog.Error("unhandled error", slog.String("error", err.Error()))
	writeFail(w, http.StatusInternalServerError, "An internal error occurred.")
}
