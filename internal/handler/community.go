package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/commons/commons/internal/handler/dto"
	"github.com/commons/commons/internal/model"
	"github.com/commons/commons/internal/service"
)

// CommunityHandler handles HTTP requests for community operations.
type CommunityHandler struct {
	svc    *service.CommunityService
	logger *slog.Logger
}

// NewCommunityHandler creates a new CommunityHandler.
func NewCommunityHandler(svc *service.CommunityService, logger *slog.Logger) *CommunityHandler {
	return &CommunityHandler{svc: svc, logger: logger}
}

// Create handles POST /v1/community. The caller becomes the owner.
func (h *CommunityHandler) Create(w http.ResponseWriter, r *http.Request) {
	owner, ok := callerID(w, r)
	if !ok {
		return
	}

	var req dto.CreateCommunityRequest
	if !decodeBody(w, r, &req) {
		return
	}

	community, err := h.svc.CreateCommunity(r.Context(), req.Name, owner)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("community_created",
		"community_id", community.ID,
		"slug", community.Slug,
		"owner_id", owner,
	)
	dto.WriteJSON(w, http.StatusCreated, dto.Data(community))
}

// ListOwned handles GET /v1/community.
func (h *CommunityHandler) ListOwned(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.svc.ListOwnedCommunities)
}

// ListForCaller handles GET /v1/community/me/owner.
func (h *CommunityHandler) ListForCaller(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.svc.ListCommunitiesForCaller)
}

// ListJoined handles GET /v1/community/me/member.
func (h *CommunityHandler) ListJoined(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.svc.ListJoinedCommunities)
}

type communityLister func(ctx context.Context, userID string, page int) (*model.Page[*model.CommunityDetail], error)

func (h *CommunityHandler) list(w http.ResponseWriter, r *http.Request, fn communityLister) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	page, err := fn(r.Context(), userID, pageParam(r))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	dto.WriteJSON(w, http.StatusOK, dto.List(page))
}
