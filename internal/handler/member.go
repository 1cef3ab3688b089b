package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/commons/commons/internal/handler/dto"
	"github.com/commons/commons/internal/service"
)

// MemberHandler handles HTTP requests for membership operations.
type MemberHandler struct {
	svc    *service.MemberService
	logger *slog.Logger
}

// NewMemberHandler creates a new MemberHandler.
func NewMemberHandler(svc *service.MemberService, logger *slog.Logger) *MemberHandler {
	return &MemberHandler{svc: svc, logger: logger}
}

// List handles GET /v1/community/{id}/members.
// An unknown community yields an empty page.
func (h *MemberHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := h.svc.ListMembers(r.Context(), chi.URLParam(r, "id"), pageParam(r))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	dto.WriteJSON(w, http.StatusOK, dto.List(page))
}

// Add handles POST /v1/member.
func (h *MemberHandler) Add(w http.ResponseWriter, r *http.Request) {
	actor, ok := callerID(w, r)
	if !ok {
		return
	}

	var req dto.AddMemberRequest
	if !decodeBody(w, r, &req) {
		return
	}

	member, err := h.svc.AddMember(r.Context(), service.AddMemberInput{
		ActorID:     actor,
		CommunityID: req.Community,
		UserID:      req.User,
		RoleID:      req.Role,
	})
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("member_added",
		"member_id", member.ID,
		"community_id", member.Community,
	)
	dto.WriteJSON(w, http.StatusCreated, dto.Data(member))
}
