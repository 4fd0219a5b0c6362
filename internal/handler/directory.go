// internal/handler/directory.go
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
	chmw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// DirectoryHandler is the HTTP face of the membership directory. Remote
// context stores consume these two endpoints through orgapi.Client.
type DirectoryHandler struct {
	directory *service.DirectoryService
}

func NewDirectoryHandler(directory *service.DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{directory: directory}
}

type MembershipsResponse struct {
	BaseResponse
	Memberships []model.Membership `json:"memberships"`
}

// ListOrganizations returns every membership of the authenticated user.
func (h *DirectoryHandler) ListOrganizations(w http.ResponseWriter, r *http.Request) {
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

	memberships, err := h.directory.ListMemberships(r.Context(), userID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Membership list error", "error", err, "requestID", chmw.GetReqID(r.Context()))
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondWithJSON(w, http.StatusOK, MembershipsResponse{Memberships: memberships})
}

type SwitchRequest struct {
	OrganizationID int64 `json:"organization_id"`
}

type SwitchResponse struct {
	BaseResponse
	AccessToken string `json:"access_token"`
}

// Switch issues a token re-scoped to the requested organization.
func (h *DirectoryHandler) Switch(w http.ResponseWriter, r *http.Request) {
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

	var req SwitchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	result, err := h.directory.Switch(r.Context(), service.SwitchInput{
		UserID:         userID,
		SessionID:      claims.SessionID,
		OrganizationID: req.OrganizationID,
	})
	if err != nil {
		slog.ErrorContext(r.Context(), "Directory switch error", "error", err, "requestID", chmw.GetReqID(r.Context()))
		switch {
		case errors.Is(err, domain.ErrMembershipNotFound):
			respondWithError(w, http.StatusNotFound, "Organization not found in your memberships")
		case errors.Is(err, domain.ErrMembershipInactive):
			respondWithError(w, http.StatusForbidden, "Membership is inactive")
		case errors.Is(err, domain.ErrOrganizationInactive):
			respondWithError(w, http.StatusConflict, "Organization is inactive")
		case errors.Is(err, domain.ErrInvalidInput):
			respondWithError(w, http.StatusBadRequest, err.Error())
		default:
			respondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, SwitchResponse{AccessToken: result.AccessToken})
}

type SwitchHistoryResponse struct {
	BaseResponse
	Entries []model.ContextAuditLog `json:"entries"`
}

// SwitchHistory returns the caller's recent switch attempts, newest first.
func (h *DirectoryHandler) SwitchHistory(w http.ResponseWriter, r *http.Request) {
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

	entries, err := h.directory.ListSwitchHistory(r.Context(), userID, 50)
	if err != nil {
		slog.ErrorContext(r.Context(), "Switch history error", "error", err, "requestID", chmw.GetReqID(r.Context()))
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondWithJSON(w, http.StatusOK, SwitchHistoryResponse{Entries: entries})
}
