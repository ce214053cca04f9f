package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/browser"
	"go.uber.org/zap"

	"github.com/reshine-intl/sitekit/pkg/forms"
)

const copyFeedbackWindow = 2 * time.Second

// fieldWidget pairs one form field with its input component: a text input,
// a textarea for multiline fields, or an option cycler for enum fields.
type fieldWidget struct {
	field  forms.Field
	input  textinput.Model
	area   textarea.Model
	optIdx int
}

func newFieldWidget(field forms.Field) fieldWidget {
	w := fieldWidget{field: field, optIdx: -1}
	switch {
	case len(field.Options) > 0:
		// Cycler; no component needed.
	case field.Multiline:
		area := textarea.New()
		area.Placeholder = field.Placeholder
		area.SetHeight(4)
		area.CharLimit = 0
		w.area = area
	default:
		input := textinput.New()
		input.Placeholder = field.Placeholder
		w.input = input
	}
	return w
}

func (w *fieldWidget) value() string {
	switch {
	case len(w.field.Options) > 0:
		if w.optIdx < 0 || w.optIdx >= len(w.field.Options) {
			return ""
		}
		return w.field.Options[w.optIdx]
	case w.field.Multiline:
		return w.area.Value()
	default:
		return w.input.Value()
	}
}

func (w *fieldWidget) clear() {
	switch {
	case len(w.field.Options) > 0:
		w.optIdx = -1
	case w.field.Multiline:
		w.area.Reset()
	default:
		w.input.SetValue("")
	}
}

func (w *fieldWidget) focus() tea.Cmd {
	switch {
	case len(w.field.Options) > 0:
		return nil
	case w.field.Multiline:
		return w.area.Focus()
	default:
		return w.input.Focus()
	}
}

func (w *fieldWidget) blur() {
	switch {
	case len(w.field.Options) > 0:
	case w.field.Multiline:
		w.area.Blur()
	default:
		w.input.Blur()
	}
}

func (w *fieldWidget) update(msg tea.Msg) tea.Cmd {
	switch {
	case len(w.field.Options) > 0:
		if key, ok := msg.(tea.KeyMsg); ok {
			switch key.Type {
			case tea.KeyRight:
				if w.optIdx < len(w.field.Options)-1 {
					w.optIdx++
				}
			case tea.KeyLeft:
				if w.optIdx > 0 {
					w.optIdx--
				}
			}
		}
		return nil
	case w.field.Multiline:
		var cmd tea.Cmd
		w.area, cmd = w.area.Update(msg)
		return cmd
	default:
		var cmd tea.Cmd
		w.input, cmd = w.input.Update(msg)
		return cmd
	}
}

// formView renders one form page and drives its controller through the
// submission lifecycle. Focus walks the fields top to bottom and ends on the
// submit button; validation runs when a field loses focus and again at submit.
type formView struct {
	ctrl    *forms.Controller
	widgets []fieldWidget
	focus   int // len(widgets) is the submit button
	styles  Styles
	width   int

	submitting bool
	outcome    *forms.Outcome
	copied     bool
	copyFailed bool

	open      func(string) error
	writeClip func(string) error
	logger    *zap.Logger
}

func newFormView(ctrl *forms.Controller, styles Styles, open func(string) error, writeClip func(string) error, logger *zap.Logger) *formView {
	def := ctrl.Definition()
	widgets := make([]fieldWidget, len(def.Fields))
	for i, field := range def.Fields {
		widgets[i] = newFieldWidget(field)
	}
	if open == nil {
		open = browser.OpenURL
	}
	if writeClip == nil {
		writeClip = clipboard.WriteAll
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	v := &formView{
		ctrl:      ctrl,
		widgets:   widgets,
		styles:    styles,
		width:     60,
		open:      open,
		writeClip: writeClip,
		logger:    logger,
	}
	if len(widgets) > 0 {
		widgets[0].focus()
	}
	return v
}

func (v *formView) submitIndex() int { return len(v.widgets) }

func (v *formView) setWidth(w int) {
	if w > 0 {
		v.width = w
	}
}

func (v *formView) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case processingDoneMsg:
		if msg.formID != v.ctrl.Definition().ID || !v.submitting {
			return nil
		}
		return v.deliver()

	case copyResetMsg:
		if msg.formID == v.ctrl.Definition().ID {
			v.copied = false
		}
		return nil

	case tea.KeyMsg:
		return v.handleKey(msg)
	}
	return nil
}

func (v *formView) handleKey(key tea.KeyMsg) tea.Cmd {
	if v.submitting {
		// Inputs during processing are dropped, not queued.
		return nil
	}

	switch key.Type {
	case tea.KeyTab:
		return v.moveFocus(1)
	case tea.KeyShiftTab:
		return v.moveFocus(-1)
	case tea.KeyEnter:
		if v.focus == v.submitIndex() {
			return v.submit()
		}
		if v.focus < len(v.widgets) && v.widgets[v.focus].field.Multiline {
			break // newline belongs to the textarea
		}
		return v.moveFocus(1)
	}

	if v.focus == v.submitIndex() {
		return v.handlePanelKey(key)
	}

	w := &v.widgets[v.focus]
	cmd := w.update(key)
	v.ctrl.SetValue(w.field.Name, w.value())
	return cmd
}

// handlePanelKey drives the fallback panel shortcuts while focus rests on the
// submit button.
func (v *formView) handlePanelKey(key tea.KeyMsg) tea.Cmd {
	if v.outcome == nil || key.Type != tea.KeyRunes || len(key.Runes) != 1 {
		return nil
	}
	switch key.Runes[0] {
	case 'm':
		v.openLink(v.outcome.Links.Mailto)
	case 'g':
		v.openLink(v.outcome.Links.Gmail)
	case 'o':
		v.openLink(v.outcome.Links.Outlook)
	case 'c':
		if err := v.writeClip(v.outcome.Message.Text()); err != nil {
			// The message text stays on screen for manual selection.
			v.logger.Warn("clipboard write failed", zap.Error(err))
			v.copyFailed = true
			return nil
		}
		v.copyFailed = false
		v.copied = true
		return copyReset(v.ctrl.Definition().ID, copyFeedbackWindow)
	}
	return nil
}

func (v *formView) openLink(url string) {
	if err := v.open(url); err != nil {
		v.logger.Warn("open link failed", zap.String("url", url), zap.Error(err))
	}
}

func (v *formView) moveFocus(delta int) tea.Cmd {
	if v.focus < len(v.widgets) {
		w := &v.widgets[v.focus]
		w.blur()
		v.ctrl.ValidateField(w.field.Name, w.value())
	}

	total := len(v.widgets) + 1
	v.focus = (v.focus + delta + total) % total
	if v.focus < len(v.widgets) {
		return v.widgets[v.focus].focus()
	}
	return nil
}

func (v *formView) submit() tea.Cmd {
	def := v.ctrl.Definition()

	result, err := v.ctrl.Submit(context.Background())
	if err != nil {
		v.logger.Warn("submit rejected by phase machine", zap.Error(err))
		return nil
	}

	if !result.Accepted {
		for i, w := range v.widgets {
			if w.field.Name == result.FirstInvalid {
				v.focusField(i)
				break
			}
		}
		return nil
	}

	v.submitting = true
	v.outcome = nil
	return processingDone(def.ID, def.ProcessingDelay)
}

func (v *formView) deliver() tea.Cmd {
	v.submitting = false
	v.copied = false
	v.copyFailed = false

	outcome, err := v.ctrl.Deliver(context.Background())
	if err != nil {
		v.logger.Warn("deliver failed", zap.Error(err))
		return nil
	}
	v.outcome = &outcome

	if outcome.Phase == forms.PhaseSucceeded {
		for i := range v.widgets {
			v.widgets[i].clear()
		}
	}
	return nil
}

func (v *formView) focusField(i int) {
	if v.focus < len(v.widgets) {
		v.widgets[v.focus].blur()
	}
	v.focus = i
	v.widgets[i].focus()
}

func (v *formView) view() string {
	def := v.ctrl.Definition()

	sections := []string{v.styles.Title.Render(def.Title)}
	for i := range v.widgets {
		sections = append(sections, v.fieldView(i))
	}
	sections = append(sections, "", v.buttonView())

	if v.outcome != nil {
		sections = append(sections, v.outcomeView())
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (v *formView) fieldView(i int) string {
	w := v.widgets[i]

	label := w.field.Label
	if w.field.Required() {
		label += " *"
	}
	line := v.styles.Label.Render(label)

	var body string
	switch {
	case len(w.field.Options) > 0:
		selected := "select…"
		if w.optIdx >= 0 {
			selected = w.field.Options[w.optIdx]
		}
		if v.focus == i {
			body = fmt.Sprintf("‹ %s ›", selected)
		} else {
			body = fmt.Sprintf("  %s", selected)
		}
	case w.field.Multiline:
		body = w.area.View()
	default:
		body = w.input.View()
	}

	out := line + "\n" + body
	if status := v.ctrl.Status(w.field.Name); !status.Valid {
		out += "\n" + v.styles.FieldError.Render(status.Message)
	}
	return out
}

func (v *formView) buttonView() string {
	def := v.ctrl.Definition()
	if v.submitting {
		return v.styles.ButtonBusy.Render("Processing...")
	}
	label := def.SubmitLabel
	if label == "" {
		label = "Submit"
	}
	if v.focus == v.submitIndex() {
		return v.styles.Button.Render("▸ " + label)
	}
	return v.styles.Button.Faint(true).Render("  " + label)
}

func (v *formView) outcomeView() string {
	var b strings.Builder

	if v.outcome.Phase == forms.PhaseSucceeded {
		b.WriteString(v.styles.Success.Render("✓ Your mail app should have opened with the message ready to send."))
	} else {
		b.WriteString(v.styles.Warning.Render("Could not open your mail app."))
	}
	b.WriteString("\n")

	copyLabel := "press c to copy the message"
	if v.copied {
		copyLabel = "Copied!"
	}
	if v.copyFailed {
		copyLabel = "clipboard unavailable — select the text below manually"
	}

	panel := strings.Join([]string{
		"If the message did not go out:",
		"  m  retry your mail app",
		"  g  open Gmail web compose",
		"  o  open Outlook web compose",
		"  c  " + copyLabel,
		"",
		"Message text:",
		v.outcome.Message.Text(),
	}, "\n")
	b.WriteString(v.styles.Panel.Width(v.width).Render(panel))

	return b.String()
}
