package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/reshine-intl/sitekit/pkg/forms"
	"github.com/reshine-intl/sitekit/pkg/mailer"
)

var errIntentional = errors.New("launch refused")

type recordingDeliverer struct {
	sent []mailer.Message
	fail error
}

func (d *recordingDeliverer) Deliver(m mailer.Message) error {
	d.sent = append(d.sent, m)
	return d.fail
}

func contactDefinition() forms.Definition {
	return forms.Definition{
		ID:          "contact",
		Title:       "Contact Us",
		SubmitLabel: "Send Message",
		Fields: []forms.Field{
			{
				Name:  "name",
				Label: "Name",
				Rules: []forms.Rule{{Kind: forms.RuleRequired}},
			},
			{
				Name:  "email",
				Label: "Email",
				Rules: []forms.Rule{
					{Kind: forms.RuleRequired},
					{Kind: forms.RulePattern, Params: map[string]string{
						forms.ParamPattern: `^[^\s@]+@[^\s@]+\.[^\s@]+$`,
						forms.ParamMessage: "Please enter a valid email address",
					}},
				},
			},
			{
				Name:      "message",
				Label:     "Message",
				Multiline: true,
				Rules: []forms.Rule{
					{Kind: forms.RuleRequired},
					{Kind: forms.RuleMinLength, Params: map[string]string{forms.ParamValue: "10"}},
				},
			},
		},
		SubjectTemplate: "New inquiry from {{ name }}",
		BodyTemplate:    "Name: {{ name }}\nEmail: {{ email }}\n\nMessage:\n{{ message }}",
		ProcessingDelay: 800 * time.Millisecond,
	}
}

func newTestFormView(t *testing.T, delivery *recordingDeliverer) *formView {
	t.Helper()
	def := contactDefinition()
	composer, err := mailer.NewComposer("hello@reshine-intl.example", def.SubjectTemplate, def.BodyTemplate)
	if err != nil {
		t.Fatalf("composer: %v", err)
	}
	ctrl, err := forms.NewController(def, composer, forms.WithDeliverer(delivery))
	if err != nil {
		t.Fatalf("controller: %v", err)
	}
	return newFormView(ctrl, DefaultStyles(), func(string) error { return nil }, func(string) error { return nil }, zap.NewNop())
}

func typeRunes(v *formView, s string) {
	v.update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func press(v *formView, t tea.KeyType) tea.Cmd {
	return v.update(tea.KeyMsg{Type: t})
}

func TestFormView_BlurValidatesField(t *testing.T) {
	v := newTestFormView(t, &recordingDeliverer{})

	// Leave the name empty and tab away.
	press(v, tea.KeyTab)

	status := v.ctrl.Status("name")
	if status.Valid {
		t.Fatal("empty required name should be invalid after blur")
	}
	if status.Message != "Name is required" {
		t.Errorf("message = %q", status.Message)
	}
	if v.focus != 1 {
		t.Errorf("focus = %d, want 1", v.focus)
	}
}

func TestFormView_RejectedSubmitFocusesFirstInvalid(t *testing.T) {
	v := newTestFormView(t, &recordingDeliverer{})

	typeRunes(v, "Jane Smith")
	press(v, tea.KeyTab) // to email
	typeRunes(v, "not-an-email")
	press(v, tea.KeyTab) // to message
	press(v, tea.KeyTab) // to submit

	cmd := press(v, tea.KeyEnter)
	if cmd != nil {
		t.Fatal("rejected submit should not schedule processing")
	}
	if v.submitting {
		t.Fatal("rejected submit must not enter processing")
	}
	if v.focus != 1 {
		t.Errorf("focus = %d, want 1 (email is first invalid)", v.focus)
	}
	if got := v.ctrl.Status("email").Message; got != "Please enter a valid email address" {
		t.Errorf("email message = %q", got)
	}
	if v.ctrl.Status("message").Valid {
		t.Error("message field errors should surface in the same submit")
	}
}

func TestFormView_SubmitDeliverSuccess(t *testing.T) {
	delivery := &recordingDeliverer{}
	v := newTestFormView(t, delivery)

	typeRunes(v, "Jane Smith")
	press(v, tea.KeyTab)
	typeRunes(v, "jane@example.com")
	press(v, tea.KeyTab)
	typeRunes(v, "Need a quote for 4 pallets to Rotterdam.")
	press(v, tea.KeyTab) // to submit

	cmd := press(v, tea.KeyEnter)
	if cmd == nil {
		t.Fatal("accepted submit should schedule the processing tick")
	}
	if !v.submitting {
		t.Fatal("accepted submit should enter processing")
	}
	if len(delivery.sent) != 0 {
		t.Fatal("nothing may be delivered before the processing window elapses")
	}

	// Keys during processing are dropped.
	press(v, tea.KeyEnter)
	if len(delivery.sent) != 0 {
		t.Fatal("input during processing must be dropped")
	}

	v.update(processingDoneMsg{formID: "contact"})

	if v.submitting {
		t.Error("processing flag should clear after delivery")
	}
	if len(delivery.sent) != 1 {
		t.Fatalf("deliveries = %d, want 1", len(delivery.sent))
	}
	if got := delivery.sent[0].Subject; got != "New inquiry from Jane Smith" {
		t.Errorf("subject = %q", got)
	}
	if v.outcome == nil || v.outcome.Phase != forms.PhaseSucceeded {
		t.Fatalf("outcome = %+v, want succeeded", v.outcome)
	}
	if v.outcome.Links.Gmail == "" || v.outcome.Links.Outlook == "" {
		t.Error("fallback links must be populated on success")
	}
	// Success resets the form for the next submission.
	if got := v.widgets[0].value(); got != "" {
		t.Errorf("name widget after success = %q, want empty", got)
	}

	view := v.view()
	if !strings.Contains(view, "mail app should have opened") {
		t.Error("success banner missing from view")
	}
	if !strings.Contains(view, "Gmail") {
		t.Error("fallback panel missing from view")
	}
	// The composed text is part of the panel so it can be selected manually.
	if !strings.Contains(view, "Message text:") {
		t.Error("panel should carry the composed message text")
	}
	if !strings.Contains(view, "New inquiry from Jane Smith") {
		t.Error("composed subject missing from the panel text block")
	}
}

func TestFormView_ClipboardFailureOffersManualCopy(t *testing.T) {
	delivery := &recordingDeliverer{}
	v := newTestFormView(t, delivery)
	v.writeClip = func(string) error { return errIntentional }

	typeRunes(v, "Jane Smith")
	press(v, tea.KeyTab)
	typeRunes(v, "jane@example.com")
	press(v, tea.KeyTab)
	typeRunes(v, "Need a quote for 4 pallets to Rotterdam.")
	press(v, tea.KeyTab)
	press(v, tea.KeyEnter)
	v.update(processingDoneMsg{formID: "contact"})

	cmd := v.update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")})
	if cmd != nil {
		t.Error("failed copy must not schedule the feedback reset tick")
	}
	if v.copied {
		t.Error("copied flag must not be set when the clipboard write fails")
	}

	view := v.view()
	if !strings.Contains(view, "select the text below manually") {
		t.Error("manual-copy hint missing after clipboard failure")
	}
	if !strings.Contains(view, "Need a quote for 4 pallets to Rotterdam.") {
		t.Error("message body must stay on screen for manual selection")
	}
}

func TestFormView_LaunchFailureKeepsValues(t *testing.T) {
	delivery := &recordingDeliverer{fail: errIntentional}
	v := newTestFormView(t, delivery)

	typeRunes(v, "Jane Smith")
	press(v, tea.KeyTab)
	typeRunes(v, "jane@example.com")
	press(v, tea.KeyTab)
	typeRunes(v, "Need a quote for 4 pallets to Rotterdam.")
	press(v, tea.KeyTab)
	press(v, tea.KeyEnter)
	v.update(processingDoneMsg{formID: "contact"})

	if v.outcome == nil || v.outcome.Phase != forms.PhaseFailedFallback {
		t.Fatalf("outcome = %+v, want failed fallback", v.outcome)
	}
	if got := v.widgets[0].value(); got != "Jane Smith" {
		t.Errorf("values must survive a launch failure, name = %q", got)
	}
	if !strings.Contains(v.view(), "Could not open your mail app.") {
		t.Error("failure banner missing from view")
	}
}

func TestFormView_PanelShortcuts(t *testing.T) {
	delivery := &recordingDeliverer{}
	v := newTestFormView(t, delivery)

	var opened []string
	var copied []string
	v.open = func(url string) error { opened = append(opened, url); return nil }
	v.writeClip = func(s string) error { copied = append(copied, s); return nil }

	typeRunes(v, "Jane Smith")
	press(v, tea.KeyTab)
	typeRunes(v, "jane@example.com")
	press(v, tea.KeyTab)
	typeRunes(v, "Need a quote for 4 pallets to Rotterdam.")
	press(v, tea.KeyTab)
	press(v, tea.KeyEnter)
	v.update(processingDoneMsg{formID: "contact"})

	typeRunes(v, "m")
	typeRunes(v, "g")
	if len(opened) != 2 {
		t.Fatalf("opened %d links, want 2", len(opened))
	}
	if !strings.HasPrefix(opened[0], "mailto:") {
		t.Errorf("first link = %q, want mailto", opened[0])
	}
	if !strings.Contains(opened[1], "mail.google.com") {
		t.Errorf("second link = %q, want gmail compose", opened[1])
	}

	cmd := v.update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")})
	if len(copied) != 1 {
		t.Fatalf("clipboard writes = %d, want 1", len(copied))
	}
	if !strings.HasPrefix(copied[0], "To: hello@reshine-intl.example") {
		t.Errorf("copied text = %q", copied[0])
	}
	if !v.copied {
		t.Error("copied flag should be set for the feedback window")
	}
	if cmd == nil {
		t.Fatal("copy should schedule the feedback reset tick")
	}

	v.update(copyResetMsg{formID: "contact"})
	if v.copied {
		t.Error("copied flag should revert after the feedback window")
	}
}
