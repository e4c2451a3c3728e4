package errors

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"ticketlens/internal/middleware"
)

// ErrorHandler provides centralized error handling for HTTP handlers. It maps
// pipeline errors onto API error responses and logs them with request context.
type ErrorHandler struct {
	logger *slog.Logger
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger *slog.Logger) *ErrorHandler {
	return &ErrorHandler{
		logger: logger.With(slog.String("component", "error_handler")),
	}
}

// HandleError converts any error to an API error response and renders it
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	reqID := middleware.GetReqID(r.Context())
	h.logger.ErrorContext(r.Context(), "request failed",
		slog.String("error", err.Error()),
		slog.String("request_id", reqID),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)

	render.Render(w, r, NewErrorResponse(h.toAPIError(err)))
}

// toAPIError maps application errors onto API errors
func (h *ErrorHandler) toAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	var schemaErr *SchemaMismatchError
	if errors.As(err, &schemaErr) {
		return SchemaMismatchAPIError(schemaErr)
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		switch appErr.Type {
		case ErrTypeFileFormat:
			return FileFormatAPIError(appErr)
		case ErrTypeEmptyDataset:
			return NewWithDetails(http.StatusUnprocessableEntity, string(ErrTypeEmptyDataset),
				"Dataset contains no records", appErr.Message)
		case ErrTypeValidation:
			return NewWithDetails(http.StatusBadRequest, "VALIDATION_FAILED", appErr.Message, nil)
		}
	}

	return ErrInternalServer
}
