// Package mailer sends transactional mail (invites, approval notices)
// through AWS SES v2 with Liquid-templated bodies.
package mailer

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	appconfig "github.com/leadforge/leadforge/internal/config"
	"github.com/leadforge/leadforge/internal/domain"
	"github.com/leadforge/leadforge/internal/pkg/logger"
)

// sesSender is the slice of the SES v2 API the mailer uses.
type sesSender interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// Mailer renders and sends transactional mail. It satisfies
// invites.Sender.
type Mailer struct {
	ses       sesSender
	templates *TemplateEngine
	fromEmail string
	fromName  string
	baseURL   string
}

// New creates an SES-backed mailer. baseURL is the externally visible
// origin used to build redeem and login links.
func New(ctx context.Context, cfg appconfig.MailerConfig, baseURL string) (*Mailer, error) {
	creds := credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(creds),
	)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	return &Mailer{
		ses:       sesv2.NewFromConfig(awsCfg),
		templates: NewTemplateEngine(),
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
		baseURL:   baseURL,
	}, nil
}

// SendInvite mails the invite code to the prospect.
func (m *Mailer) SendInvite(ctx context.Context, inv *domain.Invite) error {
	ttlDays := int(inv.ExpiresAt.Sub(inv.CreatedAt).Hours() / 24)
	if ttlDays < 1 {
		ttlDays = 1
	}
	bindings := map[string]interface{}{
		"from_name":  m.fromName,
		"name":       "",
		"code":       inv.Code,
		"credits":    inv.Credits,
		"ttl_days":   ttlDays,
		"redeem_url": m.baseURL + "/redeem?code=" + inv.Code,
	}
	return m.send(ctx, inv.Email, inviteSubjectTpl, inviteBodyTpl, bindings)
}

// SendApproval notifies a user their account went live.
func (m *Mailer) SendApproval(ctx context.Context, u *domain.User) error {
	bindings := map[string]interface{}{
		"name":      u.Name,
		"login_url": m.baseURL + "/login",
	}
	return m.send(ctx, u.Email, approvalSubjectTpl, approvalBodyTpl, bindings)
}

func (m *Mailer) send(ctx context.Context, to, subjectTpl, bodyTpl string, bindings map[string]interface{}) error {
	subject, err := m.templates.Render(subjectTpl, bindings)
	if err != nil {
		return err
	}
	body, err := m.templates.Render(bodyTpl, bindings)
	if err != nil {
		return err
	}

	from := m.fromEmail
	if m.fromName != "" {
		from = fmt.Sprintf("%s <%s>", m.fromName, m.fromEmail)
	}

	_, err = m.ses.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(from),
		Destination:      &types.Destination{ToAddresses: []string{to}},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject)},
				Body: &types.Body{
					Html: &types.Content{Data: aws.String(body)},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("sending mail: %w", err)
	}
	logger.Info("mail sent", "to", to, "subject", subject)
	return nil
}
