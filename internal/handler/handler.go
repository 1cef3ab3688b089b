// Package handler provides HTTP request handlers.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/commons/commons/internal/auth"
	"github.com/commons/commons/internal/handler/dto"
	"github.com/commons/commons/internal/service"
)

// Version is reported by the root endpoint.
const Version = "0.1.0"

// Handler serves the unauthenticated root endpoints.
type Handler struct{}

// New creates a new Handler instance.
func New() *Handler {
	return &Handler{}
}

// Hello reports service identity.
// GET /
func (h *Handler) Hello(w http.ResponseWriter, r *http.Request) {
	dto.WriteJSON(w, http.StatusOK, dto.Success(map[string]string{
		"message": "Hello from Commons!",
		"version": Version,
	}))
}

// NotFound handles 404 responses.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	dto.WriteError(w, http.StatusNotFound, dto.ErrorDetail{
		Message: "Resource not found",
		Code:    service.CodeResourceNotFound,
	})
}

// MethodNotAllowed handles 405 responses.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	dto.WriteError(w, http.StatusMethodNotAllowed, dto.ErrorDetail{
		Message: "Method not allowed",
		Code:    "METHOD_NOT_ALLOWED",
	})
}

// pageParam reads the zero-indexed page query parameter.
// Absent, malformed and negative values all mean the first page.
func pageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 0 {
		return 0
	}
	return page
}

// decodeBody decodes a JSON request body into v, writing a 400 on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			dto.WriteError(w, http.StatusRequestEntityTooLarge, dto.ErrorDetail{
				Message: "Request body too large",
				Code:    "PAYLOAD_TOO_LARGE",
			})
			return false
		}
		dto.WriteError(w, http.StatusBadRequest, dto.ErrorDetail{
			Param:   "body",
			Message: "Invalid request body",
			Code:    service.CodeInvalidInput,
		})
		return false
	}
	return true
}

// writeServiceError maps a service error onto a status code and envelope.
func writeServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var validation *service.ValidationError
	var reference *service.ReferenceError

	switch {
	case errors.As(err, &validation):
		dto.WriteError(w, http.StatusBadRequest, dto.ErrorDetail{
			Param:   validation.Param,
			Message: validation.Message,
			Code:    validation.Code,
		})
	case errors.Is(err, service.ErrSlugTaken):
		dto.WriteError(w, http.StatusConflict, dto.ErrorDetail{
			Param:   "name",
			Message: "A community with this name already exists",
			Code:    service.CodeResourceExists,
		})
	case errors.Is(err, service.ErrAlreadyMember):
		dto.WriteError(w, http.StatusConflict, dto.ErrorDetail{
			Param:   "user",
			Message: "User is already a member of this community",
			Code:    service.CodeResourceExists,
		})
	case errors.As(err, &reference):
		dto.WriteError(w, http.StatusNotFound, dto.ErrorDetail{
			Param:   reference.Param,
			Message: strconv.Quote(reference.Param) + " not found",
			Code:    service.CodeResourceNotFound,
		})
	case errors.Is(err, service.ErrInvalidReference):
		dto.WriteError(w, http.StatusNotFound, dto.ErrorDetail{
			Message: "Referenced resource not found",
			Code:    service.CodeResourceNotFound,
		})
	case errors.Is(err, service.ErrNotAllowed):
		dto.WriteError(w, http.StatusForbidden, dto.ErrorDetail{
			Message: "You are not authorized to perform this action",
			Code:    service.CodeNotAllowed,
		})
	case errors.Is(err, service.ErrStoreUnavailable):
		w.Header().Set("Retry-After", "1")
		dto.WriteError(w, http.StatusServiceUnavailable, dto.ErrorDetail{
			Message: "Service temporarily unavailable",
			Code:    service.CodeStoreUnavailable,
		})
	default:
		logger.Error("request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		dto.WriteError(w, http.StatusInternalServerError, dto.ErrorDetail{
			Message: "An internal error occurred",
			Code:    service.CodeInternal,
		})
	}
}

// callerID returns the authenticated user, writing a 401 when absent.
func callerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := auth.UserIDFromContext(r.Context())
	if id == "" {
		dto.WriteError(w, http.StatusUnauthorized, dto.ErrorDetail{
			Param:   "authorization",
			Message: "Authentication required",
			Code:    "UNAUTHORIZED",
		})
		return "", false
	}
	return id, true
}
