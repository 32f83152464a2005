// Package notify delivers team invitations by email through Amazon SES.
package notify

import (
	"context"
	"fmt"
	"log"
	"net/url"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"github.com/abhisek/aicred/internal/teams"
)

// Config configures the email notifier. An empty FromEmail disables sending.
type Config struct {
	Region     string
	FromEmail  string
	FromName   string
	AppBaseURL string
}

// sender is the subset of the SES client used here.
type sender interface {
	SendEmail(ctx context.Context, in *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// EmailNotifier sends invitation emails. When disabled it logs and skips.
type EmailNotifier struct {
	client     sender
	fromEmail  string
	fromName   string
	appBaseURL string
	enabled    bool
}

var _ teams.Notifier = (*EmailNotifier)(nil)

// NewEmailNotifier creates a notifier from cfg, loading AWS credentials from
// the default chain. It returns a disabled notifier when cfg.FromEmail is
// empty.
func NewEmailNotifier(ctx context.Context, cfg Config) (*EmailNotifier, error) {
	if cfg.FromEmail == "" {
		log.Println("Email notifications disabled: AICRED_EMAIL_FROM not configured")
		return &EmailNotifier{enabled: false}, nil
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	log.Printf("Email notifications enabled: from=%s, region=%s", cfg.FromEmail, cfg.Region)
	return newEmailNotifier(sesv2.NewFromConfig(awsCfg), cfg), nil
}

func newEmailNotifier(client sender, cfg Config) *EmailNotifier {
	return &EmailNotifier{
		client:     client,
		fromEmail:  cfg.FromEmail,
		fromName:   cfg.FromName,
		appBaseURL: cfg.AppBaseURL,
		enabled:    true,
	}
}

// IsEnabled reports whether emails are actually sent.
func (n *EmailNotifier) IsEnabled() bool {
	return n.enabled
}

// NotifyInvite emails inv.Email an invitation to join t.
func (n *EmailNotifier) NotifyInvite(ctx context.Context, t teams.Team, inv teams.Invite) error {
	if !n.enabled {
		log.Printf("Skipping email send (notifications disabled): invite to %s", inv.Email)
		return nil
	}

	inviter := t.CreatedBy.FullName()
	if inviter == "" {
		inviter = "A colleague"
	}
	subject := fmt.Sprintf("You're invited to join %s", t.Name)
	link := n.inviteLink(inv)

	htmlBody := fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
	<p>Hi,</p>
	<p>%s has invited you to join the team <strong>%s</strong> to share learning assessments and track AiCE points together.</p>
	<p><a href="%s">Respond to the invitation</a></p>
	<p style="font-size: 12px; color: #666;">Invitation ID: %s</p>
</body>
</html>
`, inviter, t.Name, link, inv.ID)

	textBody := fmt.Sprintf(`Hi,

%s has invited you to join the team "%s" to share learning assessments and track AiCE points together.

Respond to the invitation: %s

Invitation ID: %s
`, inviter, t.Name, link, inv.ID)

	return n.send(ctx, inv.Email, subject, htmlBody, textBody)
}

func (n *EmailNotifier) inviteLink(inv teams.Invite) string {
	if n.appBaseURL == "" {
		return "aicred team respond " + inv.ID
	}
	return fmt.Sprintf("%s/teams/invites/%s", n.appBaseURL, url.PathEscape(inv.ID))
}

func (n *EmailNotifier) send(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	fromAddress := n.fromEmail
	if n.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", n.fromName, n.fromEmail)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
					Text: &types.Content{
						Data:    aws.String(textBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	if _, err := n.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", toEmail, err)
	}

	log.Printf("Email sent: to=%s, subject=%s", toEmail, subject)
	return nil
}
