package mailer

import (
	"fmt"
	"sync"

	"github.com/osteele/liquid"
)

// Liquid sources for the transactional mails. Kept inline; there are only
// a handful and they change with the code.
const (
	inviteSubjectTpl = `{{ from_name }} invited you to LeadForge`

	inviteBodyTpl = `<p>Hi{% if name != "" %} {{ name }}{% endif %},</p>
<p>You've been invited to LeadForge. Your invite comes with
<strong>{{ credits }}</strong> credits.</p>
<p>Redeem your code within {{ ttl_days }} days:</p>
<p><code>{{ code }}</code></p>
<p>{{ redeem_url }}</p>`

	approvalSubjectTpl = `Your LeadForge account is approved`

	approvalBodyTpl = `<p>Hi{% if name != "" %} {{ name }}{% endif %},</p>
<p>Your account has been approved. You can sign in now:</p>
<p>{{ login_url }}</p>`
)

// TemplateEngine renders the mail templates with a shared Liquid engine
// and a parse cache.
type TemplateEngine struct {
	engine *liquid.Engine
	cache  sync.Map // map[string]*liquid.Template
}

// NewTemplateEngine creates an engine with the default filter: a fallback
// value for empty bindings, {{ name | default: "there" }}.
func NewTemplateEngine() *TemplateEngine {
	engine := liquid.NewEngine()
	engine.RegisterFilter("default", func(value interface{}, defaultVal string) interface{} {
		if value == nil {
			return defaultVal
		}
		if s := fmt.Sprintf("%v", value); s == "" || s == "<nil>" {
			return defaultVal
		}
		return value
	})
	return &TemplateEngine{engine: engine}
}

// Render parses (with caching) and renders one template source.
func (te *TemplateEngine) Render(source string, bindings map[string]interface{}) (string, error) {
	var tpl *liquid.Template
	if cached, ok := te.cache.Load(source); ok {
		tpl = cached.(*liquid.Template)
	} else {
		parsed, err := te.engine.ParseString(source)
		if err != nil {
			return "", fmt.Errorf("parsing template: %w", err)
		}
		te.cache.Store(source, parsed)
		tpl = parsed
	}

	out, err := tpl.RenderString(bindings)
	if err != nil {
		return "", fmt.Errorf("rendering template: %w", err)
	}
	return out, nil
}
