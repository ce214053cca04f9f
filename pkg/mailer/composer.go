package mailer

import (
	"fmt"
	"strings"

	"github.com/flosch/pongo2/v6"
)

// Composer renders the subject and body templates for one form into a
// Message. Templates use pongo2 syntax with the submitted field values as
// context; output is plain mail text, so HTML autoescaping is disabled.
type Composer struct {
	recipient string
	subject   *pongo2.Template
	body      *pongo2.Template
}

var templates = pongo2.NewSet("sitekit-mail", pongo2.MustNewLocalFileSystemLoader(""))

// NewComposer compiles the subject and body templates for the given
// recipient address.
func NewComposer(recipient, subjectTpl, bodyTpl string) (*Composer, error) {
	if strings.TrimSpace(recipient) == "" {
		return nil, ErrNoRecipient
	}

	subject, err := templates.FromString(rawText(subjectTpl))
	if err != nil {
		return nil, fmt.Errorf("mailer: parse subject template: %w", err)
	}
	body, err := templates.FromString(rawText(bodyTpl))
	if err != nil {
		return nil, fmt.Errorf("mailer: parse body template: %w", err)
	}

	return &Composer{recipient: recipient, subject: subject, body: body}, nil
}

// Compose renders the templates with the submitted values.
func (c *Composer) Compose(values map[string]string) (Message, error) {
	ctx := make(pongo2.Context, len(values))
	for name, value := range values {
		ctx[name] = value
	}

	subject, err := c.subject.Execute(ctx)
	if err != nil {
		return Message{}, fmt.Errorf("mailer: render subject: %w", err)
	}
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return Message{}, ErrEmptySubject
	}

	body, err := c.body.Execute(ctx)
	if err != nil {
		return Message{}, fmt.Errorf("mailer: render body: %w", err)
	}

	return Message{
		Recipient: c.recipient,
		Subject:   subject,
		Body:      strings.TrimRight(body, "\n"),
	}, nil
}

// rawText wraps a template so interpolated values land in the output
// verbatim instead of HTML-escaped.
func rawText(tpl string) string {
	return "{% autoescape off %}" + tpl + "{% endautoescape %}"
}
