// Package mailer implements delegated mail composition: a recipient, subject
// and body triple is handed to the platform's default mail handler through a
// mailto: URL, with web compose links for two named providers synthesized
// from the same triple. Delivery through an external mail client cannot be
// observed, so the package only reports whether launching the handler itself
// failed.
package mailer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pkg/browser"
)

var (
	// ErrNoRecipient signals composition without a destination address.
	ErrNoRecipient = errors.New("mailer: recipient is required")
	// ErrEmptySubject signals a subject template that rendered to nothing.
	ErrEmptySubject = errors.New("mailer: subject rendered empty")
)

// Message is the composed triple handed to the delegation target.
type Message struct {
	Recipient string
	Subject   string
	Body      string
}

// Text renders the message as the plain block shown in the fallback panel's
// copy target. The body is reproduced verbatim, newline for newline.
func (m Message) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "To: %s\n", m.Recipient)
	fmt.Fprintf(&b, "Subject: %s\n\n", m.Subject)
	b.WriteString(m.Body)
	return b.String()
}

// Deliverer launches the platform mail handler for a composed message.
// Implementations can only observe whether the launch failed, never whether
// the message was actually sent.
type Deliverer interface {
	Deliver(Message) error
}

// PlatformDeliverer opens the mailto: URL with the system default handler.
type PlatformDeliverer struct{}

// Deliver hands the message to the OS. A returned error means the handler
// could not be launched; a nil error means nothing more than that.
func (PlatformDeliverer) Deliver(m Message) error {
	if strings.TrimSpace(m.Recipient) == "" {
		return ErrNoRecipient
	}
	if err := browser.OpenURL(MailtoURL(m)); err != nil {
		return fmt.Errorf("mailer: open mail handler: %w", err)
	}
	return nil
}
