package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"studyai-backend/internal/models"
	"studyai-backend/internal/services"
)

const unexpectedErrorMessage = "An unexpected error occurred"

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func errorResp(message string) models.ErrorResponse {
	return models.ErrorResponse{Error: message}
}

func handleServiceError(w http.ResponseWriter, err error) {
	var validationErr *services.ValidationError
	var notFoundErr *services.NotFoundError

	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest, errorResp(validationErr.Message))
	case errors.As(err, &notFoundErr):
		writeJSON(w, http.StatusNotFound, errorResp(notFoundErr.Message))
	default:
		writeJSON(w, http.StatusInternalServerError, errorResp(unexpectedErrorMessage))
	}
}
