// internal/handler/context.go
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/fleetgrid/orgctx/internal/domain"
	"github.com/fleetgrid/orgctx/internal/middleware"
	"github.com/fleetgrid/orgctx/internal/session"
	"github.com/fleetgrid/orgctx/internal/store"
	"github.com/go-chi/chi/v5"
	chmw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// ContextHandler exposes the session's organization context store over HTTP.
type ContextHandler struct {
	sessions *session.Manager
}

func NewContextHandler(sessions *session.Manager) *ContextHandler {
	return &ContextHandler{sessions: sessions}
}

// resolveStore locates the caller's context store from the token claims.
func (h *ContextHandler) resolveStore(r *http.Request) (*store.ContextStore, bool) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		return nil, false
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, false
	}
	sessionID := claims.SessionID
	if sessionID == "" {
		sessionID = claims.UserID
	}
	return h.sessions.Store(r.Context(), sessionID, userID), true
}

type ContextResponse struct {
	BaseResponse
	store.Snapshot
}

// GetContext returns the full state record of the session's store.
func (h *ContextHandler) GetContext(w http.ResponseWriter, r *http.Request) {
	s, ok := h.resolveStore(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	respondWithJSON(w, http.StatusOK, ContextResponse{Snapshot: s.Snapshot()})
}

// LoadOrganizations refreshes the membership list. Directory failures are not
// HTTP errors here: they surface in the snapshot's error field, matching the
// store's swallow-and-record policy.
func (h *ContextHandler) LoadOrganizations(w http.ResponseWriter, r *http.Request) {
	s, ok := h.resolveStore(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := s.LoadOrganizations(r.Context()); err != nil {
		if errors.Is(err, domain.ErrLoadInFlight) {
			respondWithError(w, http.StatusConflict, "A membership load is already in progress")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondWithJSON(w, http.StatusOK, ContextResponse{Snapshot: s.Snapshot()})
}

type SwitchContextRequest struct {
	OrganizationID int64 `json:"organization_id"`
}

// SwitchOrganization changes the session's active tenant.
func (h *ContextHandler) SwitchOrganization(w http.ResponseWriter, r *http.Request) {
	s, ok := h.resolveStore(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req SwitchContextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	if err := s.SwitchOrganization(r.Context(), req.OrganizationID); err != nil {
		slog.ErrorContext(r.Context(), "Organization switch error", "error", err, "requestID", chmw.GetReqID(r.Context()))
		switch {
		case errors.Is(err, domain.ErrMembershipNotFound):
			respondWithError(w, http.StatusNotFound, "Organization not found in your memberships")
		case errors.Is(err, domain.ErrOrganizationInactive):
			respondWithError(w, http.StatusConflict, "Organization is inactive")
		case errors.Is(err, domain.ErrSwitchInFlight):
			respondWithError(w, http.StatusConflict, "An organization switch is already in progress")
		default:
			respondWithError(w, http.StatusBadGateway, "Failed to switch organization")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, ContextResponse{Snapshot: s.Snapshot()})
}

// ClearContext resets the session's tenant selection. Used on logout.
func (h *ContextHandler) ClearContext(w http.ResponseWriter, r *http.Request) {
	s, ok := h.resolveStore(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	s.ClearOrganization(r.Context())
	respondWithJSON(w, http.StatusOK, ContextResponse{Snapshot: s.Snapshot()})
}

type PermissionResponse struct {
	BaseResponse
	Permission string `json:"permission"`
	Allowed    bool   `json:"allowed"`
}

// CheckPermission evaluates one permission key against the current context.
func (h *ContextHandler) CheckPermission(w http.ResponseWriter, r *http.Request) {
	s, ok := h.resolveStore(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	key := chi.URLParam(r, "key")
	if key == "" {
		respondWithError(w, http.StatusBadRequest, "Permission key is required")
		return
	}

	respondWithJSON(w, http.StatusOK, PermissionResponse{
		Permission: key,
		Allowed:    s.HasPermission(key),
	})
}
