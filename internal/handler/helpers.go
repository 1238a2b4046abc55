package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"rental-backend/internal/rental"
)

// genericErrorMessage is the only detail an unhandled failure leaks to the caller.
const genericErrorMessage = "something went wrong"

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Failed to marshal JSON response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(response); err != nil {
		log.Error().Err(err).Msg("Failed to write JSON response")
	}
}

func mapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, rental.ErrOrderNotFound), errors.Is(err, rental.ErrDeviceNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// respondWithServiceError maps a service failure onto the wire: missing
// entities become 404 with a short message, everything else becomes the
// generic 500.
func respondWithServiceError(w http.ResponseWriter, err error, notFoundMessage string) {
	code := mapErrorToStatusCode(err)
	if code == http.StatusNotFound {
		respondWithError(w, code, notFoundMessage)
		return
	}
	respondWithError(w, http.StatusInternalServerError, genericErrorMessage)
}
