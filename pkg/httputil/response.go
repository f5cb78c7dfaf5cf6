// Package httputil writes the JSON envelope every handler responds with.
package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	apperrors "github.com/KiranKumarPM/servon-1/pkg/errors"
	"github.com/KiranKumarPM/servon-1/pkg/logger"
	"github.com/KiranKumarPM/servon-1/pkg/validator"
)

// Response is the envelope: exactly one of Data and Error is set.
type Response struct {
	Data  any            `json:"data,omitempty"`
	Error *ErrorResponse `json:"error,omitempty"`
}

// ErrorResponse is the error half of the envelope.
type ErrorResponse struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"requestId,omitempty"`
}

// WriteJSON encodes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteData wraps v in the envelope.
func WriteData(w http.ResponseWriter, status int, v any) {
	WriteJSON(w, status, Response{Data: v})
}

// WriteError maps err onto a status and an error envelope. Server errors are
// logged with the request-scoped logger, falling back to fallback.
func WriteError(w http.ResponseWriter, r *http.Request, err error, fallback *slog.Logger) {
	ctx := r.Context()
	requestID := logger.RequestIDFromContext(ctx)

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		status := apperrors.HTTPStatus(err)
		appErr = &apperrors.AppError{Status: status, Code: codeFor(status), Message: http.StatusText(status)}
		if status == http.StatusInternalServerError {
			appErr.Message = "an internal error occurred"
		}
	}

	if appErr.Status >= http.StatusInternalServerError {
		logger.FromContext(ctx, fallback).ErrorContext(ctx, "request failed",
			slog.String("error", err.Error()),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
	}

	WriteJSON(w, appErr.Status, Response{
		Error: &ErrorResponse{Code: appErr.Code, Message: appErr.Message, RequestID: requestID},
	})
}

func codeFor(status int) string {
	switch status {
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusConflict:
		return "CONFLICT"
	case http.StatusBadRequest:
		return "INVALID_INPUT"
	case http.StatusUnauthorized:
		return "UNAUTHORIZED"
	case http.StatusForbidden:
		return "FORBIDDEN"
	default:
		return "INTERNAL_ERROR"
	}
}

// WriteValidationError reports a body that failed decoding or validation.
func WriteValidationError(w http.ResponseWriter, r *http.Request, err error) {
	resp := &ErrorResponse{
		Code:      "INVALID_INPUT",
		Message:   err.Error(),
		RequestID: logger.RequestIDFromContext(r.Context()),
	}

	var verr *validator.ValidationError
	if errors.As(err, &verr) {
		resp.Code = "VALIDATION_ERROR"
		resp.Message = "request validation failed"
		resp.Fields = verr.Fields()
	}

	WriteJSON(w, http.StatusBadRequest, Response{Error: resp})
}

// ParseID parses a positive integer path parameter. On failure it writes a
// 400 and returns false.
func ParseID(w http.ResponseWriter, r *http.Request, name, raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		WriteJSON(w, http.StatusBadRequest, Response{
			Error: &ErrorResponse{
				Code:      "INVALID_PARAMETER",
				Message:   "invalid " + name + ": " + raw,
				RequestID: logger.RequestIDFromContext(r.Context()),
			},
		})
		return 0, false
	}
	return id, true
}

// ParseUUID validates a UUID path parameter. On failure it writes a 400 with
// code INVALID_PARAMETER and returns uuid.Nil and false.
func ParseUUID(w http.ResponseWriter, r *http.Request, name, raw string) (uuid.UUID, bool) {
	id, err := uuid.Parse(raw)
	if err != nil {
		WriteJSON(w, http.StatusBadRequest, Response{
			Error: &ErrorResponse{
				Code:      "INVALID_PARAMETER",
				Message:   "invalid " + name + ": " + raw,
				RequestID: logger.RequestIDFromContext(r.Context()),
			},
		})
		return uuid.Nil, false
	}
	return id, true
}
