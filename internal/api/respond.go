package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/bumpbuddy/backend/internal/auth"
	"github.com/bumpbuddy/backend/internal/storage"
)

type errorResponse struct {
	Detail string `json:"detail"`
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

// respondError maps typed storage/auth failures onto wire statuses. Anything
// unrecognized is a 500 with no internal detail leaked.
func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrPostNotFound),
		errors.Is(err, storage.ErrArticleNotFound),
		errors.Is(err, storage.ErrUserNotFound):
		respondJSON(w, http.StatusNotFound, errorResponse{Detail: err.Error()})

	case errors.Is(err, storage.ErrInvalidPagination),
		errors.Is(err, storage.ErrInvalidFilter),
		errors.Is(err, storage.ErrInvalidPostType),
		errors.Is(err, storage.ErrEmptyContent),
		errors.Is(err, storage.ErrEmailTaken),
		errors.Is(err, storage.ErrUsernameTaken):
		respondJSON(w, http.StatusBadRequest, errorResponse{Detail: err.Error()})

	case errors.Is(err, auth.ErrInvalidToken):
		respondJSON(w, http.StatusUnauthorized, errorResponse{Detail: err.Error()})

	case errors.Is(err, storage.ErrLikeConflict):
		respondJSON(w, http.StatusConflict, errorResponse{Detail: err.Error()})

	default:
		log.Printf("internal error: %v", err)
		respondJSON(w, http.StatusInternalServerError, errorResponse{Detail: "internal server error"})
	}
}

func badRequest(w http.ResponseWriter, detail string) {
	respondJSON(w, http.StatusBadRequest, errorResponse{Detail: detail})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		badRequest(w, "invalid request body")
		return false
	}
	return true
}
