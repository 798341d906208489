package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/VitaminP8/threadery/internal/logger"
	"github.com/VitaminP8/threadery/models"
)

// ErrorResponse - единый формат ошибок API
type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Log.WithError(err).Error("failed to encode response")
	}
}

// writeError переводит доменную ошибку в HTTP-статус
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, models.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, models.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, models.ErrNotConnected):
		status = http.StatusServiceUnavailable
	}

	if status == http.StatusInternalServerError {
		logger.Log.WithError(err).Error("request failed")
	}

	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

func writeUnauthorized(w http.ResponseWriter) {
	writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
}
