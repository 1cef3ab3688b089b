package handler

import (
	"log/slog"
	"net/http"

	"github.com/commons/commons/internal/handler/dto"
	"github.com/commons/commons/internal/service"
)

// RoleHandler handles HTTP requests for role operations.
type RoleHandler struct {
	svc    *service.RoleService
	logger *slog.Logger
}

// NewRoleHandler creates a new RoleHandler.
func NewRoleHandler(svc *service.RoleService, logger *slog.Logger) *RoleHandler {
	return &RoleHandler{svc: svc, logger: logger}
}

// Create handles POST /v1/role.
func (h *RoleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateRoleRequest
	if !decodeBody(w, r, &req) {
		return
	}

	role, err := h.svc.CreateRole(r.Context(), req.Name)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("role_created", "role_id", role.ID)
	dto.WriteJSON(w, http.StatusCreated, dto.Data(role))
}

// List handles GET /v1/role.
func (h *RoleHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := h.svc.ListRoles(r.Context(), pageParam(r))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	dto.WriteJSON(w, http.StatusOK, dto.List(page))
}
