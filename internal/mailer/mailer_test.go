package mailer

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/leadforge/leadforge/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturingSES struct {
	inputs []*sesv2.SendEmailInput
}

func (c *capturingSES) SendEmail(_ context.Context, params *sesv2.SendEmailInput, _ ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	c.inputs = append(c.inputs, params)
	return &sesv2.SendEmailOutput{}, nil
}

func TestRenderInviteTemplates(t *testing.T) {
	te := NewTemplateEngine()

	bindings := map[string]interface{}{
		"from_name":  "LeadForge Admin",
		"name":       "Pat",
		"code":       "abc123",
		"credits":    int64(50),
		"ttl_days":   7,
		"redeem_url": "https://app.example.com/redeem?code=abc123",
	}

	subject, err := te.Render(inviteSubjectTpl, bindings)
	require.NoError(t, err)
	assert.Equal(t, "LeadForge Admin invited you to LeadForge", subject)

	body, err := te.Render(inviteBodyTpl, bindings)
	require.NoError(t, err)
	assert.Contains(t, body, "Hi Pat")
	assert.Contains(t, body, "<strong>50</strong>")
	assert.Contains(t, body, "abc123")
	assert.Contains(t, body, "7 days")
}

func TestRenderSkipsEmptyName(t *testing.T) {
	te := NewTemplateEngine()

	body, err := te.Render(approvalBodyTpl, map[string]interface{}{
		"name":      "",
		"login_url": "https://app.example.com/login",
	})
	require.NoError(t, err)
	assert.Contains(t, body, "Hi,")
}

func TestDefaultFilter(t *testing.T) {
	te := NewTemplateEngine()

	out, err := te.Render(`Hello {{ name | default: "there" }}`, map[string]interface{}{"name": ""})
	require.NoError(t, err)
	assert.Equal(t, "Hello there", out)
}

func TestSendInvite(t *testing.T) {
	ses := &capturingSES{}
	m := &Mailer{
		ses:       ses,
		templates: NewTemplateEngine(),
		fromEmail: "noreply@leadforge.example",
		fromName:  "LeadForge",
		baseURL:   "https://app.leadforge.example",
	}

	now := time.Now()
	inv := &domain.Invite{
		ID:        "inv-1",
		Code:      "abc123",
		Email:     "prospect@acme.com",
		Credits:   50,
		ExpiresAt: now.Add(7 * 24 * time.Hour),
		CreatedAt: now,
	}

	require.NoError(t, m.SendInvite(context.Background(), inv))
	require.Len(t, ses.inputs, 1)

	in := ses.inputs[0]
	assert.Equal(t, "LeadForge <noreply@leadforge.example>", *in.FromEmailAddress)
	assert.Equal(t, []string{"prospect@acme.com"}, in.Destination.ToAddresses)
	assert.Contains(t, *in.Content.Simple.Body.Html.Data, "abc123")
	assert.Contains(t, *in.Content.Simple.Body.Html.Data, "/redeem?code=abc123")
}

func TestSendApproval(t *testing.T) {
	ses := &capturingSES{}
	m := &Mailer{
		ses:       ses,
		templates: NewTemplateEngine(),
		fromEmail: "noreply@leadforge.example",
		baseURL:   "https://app.leadforge.example",
	}

	u := &domain.User{Email: "jane@acme.com", Name: "Jane"}
	require.NoError(t, m.SendApproval(context.Background(), u))
	require.Len(t, ses.inputs, 1)
	assert.Contains(t, *ses.inputs[0].Content.Simple.Body.Html.Data, "/login")
}
