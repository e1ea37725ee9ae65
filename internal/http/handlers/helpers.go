package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/RodolfoRXXX/project-voley-sub000/internal/allocation"
	"github.com/RodolfoRXXX/project-voley-sub000/internal/lifecycle"
	"github.com/RodolfoRXXX/project-voley-sub000/internal/positions"
	"github.com/RodolfoRXXX/project-voley-sub000/internal/processor"
	"github.com/RodolfoRXXX/project-voley-sub000/internal/roster"
	"github.com/RodolfoRXXX/project-voley-sub000/internal/teams"
	"github.com/charmbracelet/log"
)

// ContextKey is a custom type to avoid key collisions in context.
type ContextKey string

const (
	DryRunKey ContextKey = "dryRun"
)

// IsDryRunFromContext is a helper to safely retrieve the dry_run flag from the request context.
func IsDryRunFromContext(r *http.Request) bool {
	dryRun, ok := r.Context().Value(DryRunKey).(bool)
	return ok && dryRun
}

// respondJSON writes v as a JSON response body.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to encode response", "error", err)
	}
}

// respondError maps domain errors onto HTTP status codes.
func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, roster.ErrMatchNotFound),
		errors.Is(err, roster.ErrParticipationNotFound),
		errors.Is(err, roster.ErrPlayerNotFound),
		errors.Is(err, roster.ErrGroupNotFound):
		status = http.StatusNotFound
	case errors.Is(err, processor.ErrNotAdmin):
		status = http.StatusForbidden
	case errors.Is(err, positions.ErrUnknownPosition),
		errors.Is(err, allocation.ErrNoPreferredPositions),
		errors.Is(err, processor.ErrInvalidPaymentStatus):
		status = http.StatusBadRequest
	case errors.Is(err, roster.ErrAlreadyJoined),
		errors.Is(err, roster.ErrLockBusy),
		errors.Is(err, roster.ErrStateConflict),
		errors.Is(err, lifecycle.ErrIllegalTransition),
		errors.Is(err, processor.ErrMatchNotOpen),
		errors.Is(err, processor.ErrMatchOver),
		errors.Is(err, processor.ErrAlreadyWithdrawn),
		errors.Is(err, processor.ErrPaymentsPending),
		errors.Is(err, processor.ErrReopenAfterStart),
		errors.Is(err, teams.ErrMatchNotClosed),
		errors.Is(err, teams.ErrMatchStarted),
		errors.Is(err, teams.ErrNoTeams):
		status = http.StatusConflict
	}
	respondJSON(w, status, map[string]string{"error": err.Error()})
}

// requireParam reads a required query parameter, writing a 400 when missing.
func requireParam(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	value := r.URL.Query().Get(name)
	if value == "" {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "missing required parameter: " + name})
		return "", false
	}
	return value, true
}
