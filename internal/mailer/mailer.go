package mailer

import "embed"

const (
	FromName                 = "Craftsite"
	maxRetries               = 3
	UserWelcomeTemplate      = "user_invitation.tmpl"
	ReviewInvitationTemplate = "review_invitation.tmpl"
)

//go:embed "templates"
var FS embed.FS

type Client interface {
	Send(templateFile, username, email string, data any) (int, error)
}
