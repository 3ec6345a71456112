package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/woomsg/woomsg/internal/store"
)

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// respondError maps the store error taxonomy onto HTTP status codes.
func respondError(w http.ResponseWriter, err error) {
	var invalid *store.InvalidParticipantError
	switch {
	case errors.As(err, &invalid):
		respondJSON(w, http.StatusUnprocessableEntity, map[string]string{
			"error":    "invalid participant",
			"username": invalid.Username,
		})
	case errors.Is(err, store.ErrInvalidCredentials):
		respondJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
	case errors.Is(err, store.ErrNotFound):
		respondJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, store.ErrDuplicate):
		respondJSON(w, http.StatusConflict, map[string]string{"error": "already exists"})
	case errors.Is(err, store.ErrForeignKey):
		respondJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "unknown user or chat"})
	default:
		respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}
