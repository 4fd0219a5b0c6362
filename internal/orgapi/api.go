// internal/orgapi/api.go

// Package orgapi defines the membership directory collaborator the context
// store talks to: one call to list the caller's memberships, one to obtain
// an access token re-scoped to another organization.
package orgapi

import (
	"context"

	"github.com/fleetgrid/orgctx/internal/model"
)

//go:generate mockgen -source=./api.go -destination=../mocks/mock_organization_api.go -package=mocks OrganizationAPI

// SwitchResult is the directory's answer to a switch request.
type SwitchResult struct {
	AccessToken string `json:"access_token"`
}

// OrganizationAPI lists memberships for the acting user and re-scopes the
// session token to a chosen organization.
type OrganizationAPI interface {
	GetAll(ctx context.Context) ([]model.Membership, error)
	Switch(ctx context.Context, organizationID int64) (*SwitchResult, error)
}
