package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/lmittmann/tint"

	"github.com/kiesman99/photokit/internal/api"
	"github.com/kiesman99/photokit/internal/background"
	"github.com/kiesman99/photokit/internal/photo"
)

// handleError maps err onto an HTTP response.
func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error, requestID string) {
	var (
		ve       *photo.ValidationError
		svcErr   *background.ServiceError
		maxBytes *http.MaxBytesError
	)

	switch {
	case errors.As(err, &ve):
		writeValidationErrorResponse(w, ve.Field, ve.Err.Error(), &requestID)
	case errors.As(err, &maxBytes):
		writeErrorResponse(w, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE",
			"Upload exceeds the configured limit", &requestID, map[string]interface{}{
				"limit_bytes": maxBytes.Limit,
			})
	case errors.Is(err, background.ErrNoRemover):
		writeErrorResponse(w, http.StatusNotImplemented, "BACKGROUND_REMOVAL_DISABLED",
			err.Error(), &requestID, nil)
	case errors.As(err, &svcErr):
		slog.Warn("background service failed", tint.Err(err), "request_id", requestID)
		writeErrorResponse(w, http.StatusBadGateway, "BACKGROUND_SERVICE_ERROR",
			"Background removal service failed", &requestID, map[string]interface{}{
				"status":  svcErr.StatusCode,
				"message": svcErr.Message,
			})
	case errors.Is(err, context.DeadlineExceeded):
		writeErrorResponse(w, http.StatusGatewayTimeout, "PROCESSING_TIMEOUT",
			"Processing timed out", &requestID, nil)
	case errors.Is(err, context.Canceled):
		// Client went away; nobody reads the body.
		slog.Debug("request cancelled", "path", r.URL.Path, "request_id", requestID)
	default:
		slog.Error("request failed", tint.Err(err), "method", r.Method, "path", r.URL.Path, "request_id", requestID)
		writeErrorResponse(w, http.StatusInternalServerError, "INTERNAL_ERROR",
			"An internal error occurred while processing the image", &requestID, nil)
	}
}

// paramErrorHandler answers parameter binding failures from the generated wrapper.
func paramErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	requestID := requestIDFrom(r)

	var (
		required *api.RequiredParamError
		format   *api.InvalidParamFormatError
	)
	switch {
	case errors.As(err, &required):
		writeValidationErrorResponse(w, required.ParamName, err.Error(), &requestID)
	case errors.As(err, &format):
		writeValidationErrorResponse(w, format.ParamName, err.Error(), &requestID)
	default:
		writeErrorResponse(w, http.StatusBadRequest, "BAD_REQUEST", err.Error(), &requestID, nil)
	}
}

// writeErrorResponse writes a standardized error response
func writeErrorResponse(w http.ResponseWriter, statusCode int, errorCode, message string, requestID *string, details map[string]interface{}) {
	response := api.ErrorResponse{
		Error:     errorCode,
		Message:   message,
		RequestId: requestID,
	}

	if details != nil {
		response.Details = &details
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		slog.Error("error encoding error response", tint.Err(err))
	}
}

// writeValidationErrorResponse writes a validation error response
func writeValidationErrorResponse(w http.ResponseWriter, field, message string, requestID *string) {
	code := "invalid_value"
	response := api.ValidationErrorResponse{
		Error:     api.VALIDATIONERROR,
		Message:   "Request validation failed",
		RequestId: requestID,
		ValidationErrors: []struct {
			Code    *string `json:"code,omitempty"`
			Field   string  `json:"field"`
			Message string  `json:"message"`
		}{
			{
				Code:    &code,
				Field:   field,
				Message: message,
			},
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		slog.Error("error encoding validation response", tint.Err(err))
	}
}
