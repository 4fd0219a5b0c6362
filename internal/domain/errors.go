// internal/domain/errors.go
package domain

import "errors"

var (
	// General errors
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")

	// User-related errors
	ErrUserNotFound = errors.New("user not found")

	// Organization-related errors
	ErrOrganizationNotFound = errors.New("organization not found")
	ErrOrganizationInactive = errors.New("organization is inactive")

	// Membership-related errors
	ErrMembershipNotFound = errors.New("organization not found in your memberships")
	ErrMembershipInactive = errors.New("membership is inactive")
	ErrMembershipExists   = errors.New("membership already exists")

	// Context store guard errors
	ErrLoadInFlight   = errors.New("membership load already in progress")
	ErrSwitchInFlight = errors.New("organization switch already in progress")

	// Invite-related errors
	ErrInviteNotFound        = errors.New("invite not found")
	ErrInviteExpired         = errors.New("invite expired")
	ErrInviteAlreadyAccepted = errors.New("invite already accepted")
)
