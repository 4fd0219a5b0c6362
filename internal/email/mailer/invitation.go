// internal/email/mailer/invitation.go
package mailer

import (
	"fmt"

	"github.com/fleetgrid/orgctx/internal/email"
)

// InvitationTemplateData contains data for the invitation email template
type InvitationTemplateData struct {
	OrganizationName string
	Role             string
	InviteLink       string
}

// SendInvitationEmail sends a membership invitation to the invitee
func SendInvitationEmail(s *email.Service, to, organizationName, role, inviteLink string) error {
	templateData := InvitationTemplateData{
		OrganizationName: organizationName,
		Role:             role,
		InviteLink:       inviteLink,
	}

	fromName := "FleetGrid"

	emailData := email.EmailData{
		To:           to,
		FromName:     fromName,
		Subject:      fmt.Sprintf("You've been invited to join %s on FleetGrid", organizationName),
		TemplateName: "organization_invitation",
		TemplateData: templateData,
	}

	return s.SendEmail(emailData)
}
