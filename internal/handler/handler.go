package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"shopsifu-discount/internal/model"

	"github.com/rs/zerolog"
)

// Envelope is the success wrapper of the voucher endpoints.
type Envelope struct {
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// The status line is already on the wire, so an encode failure cannot
	// reach the client as anything meaningful.
	_ = json.NewEncoder(w).Encode(data)
}

// writeData writes an enveloped success response.
func writeData(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, Envelope{Message: message, Data: data})
}

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, code, message string, logger zerolog.Logger) {
	logger.Warn().Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{Error: code, Message: message})
}

// writeServiceError maps an expected, typed outcome to its HTTP status.
// Anything else is an infrastructure failure: logged at error severity and
// answered with an opaque 500.
func writeServiceError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var verrs model.ValidationErrors
	if errors.As(err, &verrs) {
		logger.Warn().Int("fields", len(verrs)).Msg("request failed validation")
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{
			Error:   model.ErrCodeValidationFailed,
			Message: "Validation failed",
			Errors:  verrs,
		})
		return
	}

	var derr *model.DomainError
	if errors.As(err, &derr) {
		status := http.StatusInternalServerError
		switch derr.Code {
		case model.ErrCodeNotFound:
			status = http.StatusNotFound
		case model.ErrCodeForbidden:
			status = http.StatusForbidden
		case model.ErrCodeDuplicateCode:
			status = http.StatusConflict
		case model.ErrCodeUnauthorised:
			status = http.StatusUnauthorized
		}
		writeError(w, status, derr.Code, derr.Message, logger)
		return
	}

	logger.Error().Err(err).Msg("infrastructure error")
	writeJSON(w, http.StatusInternalServerError, model.ErrorResponse{
		Error:   model.ErrCodeInternalError,
		Message: "internal server error",
	})
}
