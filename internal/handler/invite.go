// internal/handler/invite.go
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/fleetgrid/orgctx/internal/domain"
	"github.com/fleetgrid/orgctx/internal/middleware"
	"github.com/fleetgrid/orgctx/internal/model"
	"github.com/fleetgrid/orgctx/internal/service"
	"github.com/fleetgrid/orgctx/internal/session"
	chmw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// InviteHandler creates and accepts membership invitations. Creating one
// requires owner or admin in the invite's organization, evaluated through the
// caller's context store.
type InviteHandler struct {
	invites  *service.InviteService
	sessions *session.Manager
}

func NewInviteHandler(invites *service.InviteService, sessions *session.Manager) *InviteHandler {
	return &InviteHandler{invites: invites, sessions: sessions}
}

type CreateInviteRequest struct {
	OrganizationID int64      `json:"organization_id"`
	Email          string     `json:"email"`
	Role           model.Role `json:"role"`
}

type InviteResponse struct {
	BaseResponse
	Invite *model.Invite `json:"invite"`
}

func (h *InviteHandler) CreateInvite(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req CreateInviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	sessionID := claims.SessionID
	if sessionID == "" {
		sessionID = claims.UserID
	}
	store := h.sessions.Store(r.Context(), sessionID, userID)
	if id, ok := store.CurrentOrganizationID(); !ok || id != req.OrganizationID || !store.IsOwnerOrAdmin() {
		respondWithError(w, http.StatusForbidden, "Only owners and admins may invite members")
		return
	}

	invite, err := h.invites.Create(r.Context(), service.CreateInviteInput{
		OrganizationID: req.OrganizationID,
		Email:          req.Email,
		Role:           req.Role,
		InvitedByID:    userID,
	})
	if err != nil {
		slog.ErrorContext(r.Context(), "Invite creation error", "error", err, "requestID", chmw.GetReqID(r.Context()))
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			respondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrOrganizationNotFound):
			respondWithError(w, http.StatusNotFound, "Organization not found")
		case errors.Is(err, domain.ErrOrganizationInactive):
			respondWithError(w, http.StatusConflict, "Organization is inactive")
		default:
			respondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	respondWithJSON(w, http.StatusCreated, InviteResponse{Invite: invite})
}

type AcceptInviteRequest struct {
	Token string `json:"token"`
}

type AcceptInviteResponse struct {
	BaseResponse
	Membership *model.Membership `json:"membership"`
}

func (h *InviteHandler) AcceptInvite(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req AcceptInviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	membership, err := h.invites.Accept(r.Context(), service.AcceptInviteInput{
		Token:  req.Token,
		UserID: userID,
	})
	if err != nil {
		slog.ErrorContext(r.Context(), "Invite acceptance error", "error", err, "requestID", chmw.GetReqID(r.Context()))
		switch {
		case errors.Is(err, domain.ErrInviteNotFound):
			respondWithError(w, http.StatusNotFound, "Invite not found")
		case errors.Is(err, domain.ErrInviteExpired):
			respondWithError(w, http.StatusGone, "Invite expired")
		case errors.Is(err, domain.ErrInviteAlreadyAccepted):
			respondWithError(w, http.StatusConflict, "Invite already accepted")
		case errors.Is(err, domain.ErrMembershipExists):
			respondWithError(w, http.StatusConflict, "You are already a member of this organization")
		case errors.Is(err, domain.ErrInvalidInput):
			respondWithError(w, http.StatusBadRequest, err.Error())
		default:
			respondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	respondWithJSON(w, http.StatusCreated, AcceptInviteResponse{Membership: membership})
}
