package prompt

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"go.uber.org/zap"

	"github.com/reshine-intl/sitekit/pkg/forms"
)

// Runner walks one form controller through the line-mode flow.
type Runner struct {
	driver    PromptDriver
	sleep     func(time.Duration)
	writeClip func(string) error
	logger    *zap.Logger
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithDriver overrides the prompt driver.
func WithDriver(driver PromptDriver) RunnerOption {
	return func(r *Runner) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithSleep overrides the processing-delay wait, for tests.
func WithSleep(sleep func(time.Duration)) RunnerOption {
	return func(r *Runner) {
		if sleep != nil {
			r.sleep = sleep
		}
	}
}

// WithClipboard overrides the clipboard sink, for tests and environments
// without one.
func WithClipboard(write func(string) error) RunnerOption {
	return func(r *Runner) {
		if write != nil {
			r.writeClip = write
		}
	}
}

// WithLogger attaches a diagnostic logger.
func WithLogger(logger *zap.Logger) RunnerOption {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRunner constructs a Runner with the survey driver by default.
func NewRunner(options ...RunnerOption) *Runner {
	r := &Runner{
		driver:    NewSurveyDriver(),
		sleep:     time.Sleep,
		writeClip: clipboard.WriteAll,
		logger:    zap.NewNop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Run collects every field, submits, waits the form's processing delay, and
// prints the success banner plus the fallback panel. Validation happens at
// each prompt (the blur analog) and again wholesale at submit.
func (r *Runner) Run(ctx context.Context, ctrl *forms.Controller) error {
	def := ctrl.Definition()

	if err := r.driver.Info(ctx, fmt.Sprintf("— %s —", def.Title)); err != nil {
		return err
	}

	for _, field := range def.Fields {
		value, err := r.collectField(ctx, field)
		if err != nil {
			return err
		}
		ctrl.ValidateField(field.Name, value)
	}

	result, err := ctrl.Submit(ctx)
	if err != nil {
		return err
	}
	if !result.Accepted {
		// Per-prompt validation makes this unusual, but surface it anyway.
		status := ctrl.Status(result.FirstInvalid)
		return fmt.Errorf("prompt: submission rejected: %s", status.Message)
	}

	if err := r.driver.Info(ctx, "Processing..."); err != nil {
		return err
	}
	r.sleep(def.ProcessingDelay)

	outcome, err := ctrl.Deliver(ctx)
	if err != nil {
		return err
	}

	if outcome.Phase == forms.PhaseSucceeded {
		if err := r.driver.Info(ctx, "✓ Your mail app should have opened with the message ready to send."); err != nil {
			return err
		}
	} else {
		if err := r.driver.Info(ctx, "Could not open your mail app."); err != nil {
			return err
		}
	}

	return r.fallbackPanel(ctx, outcome)
}

func (r *Runner) collectField(ctx context.Context, field forms.Field) (string, error) {
	switch {
	case len(field.Options) > 0:
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message: field.Label,
			Options: field.Options,
		})
		if err != nil {
			return "", err
		}
		if idx < 0 || idx >= len(field.Options) {
			return "", nil
		}
		return field.Options[idx], nil

	case field.Multiline:
		return r.driver.TextArea(ctx, TextAreaConfig{Message: field.Label})

	default:
		return r.driver.Input(ctx, InputConfig{
			Message:     field.Label,
			Placeholder: field.Placeholder,
			Validator: func(value string) error {
				if status := forms.Validate(field, value); !status.Valid {
					return errors.New(status.Message)
				}
				return nil
			},
		})
	}
}

// fallbackPanel prints the alternate delivery routes and offers a clipboard
// copy of the composed message. Delivery itself is unconfirmable, so the
// panel always appears.
func (r *Runner) fallbackPanel(ctx context.Context, outcome forms.Outcome) error {
	var b strings.Builder
	b.WriteString("\nIf the message did not go out, you can still reach us:\n")
	fmt.Fprintf(&b, "  1. Retry your mail app:  %s\n", outcome.Links.Mailto)
	fmt.Fprintf(&b, "  2. Gmail web compose:    %s\n", outcome.Links.Gmail)
	fmt.Fprintf(&b, "  3. Outlook web compose:  %s\n", outcome.Links.Outlook)
	b.WriteString("\nMessage text:\n")
	b.WriteString(outcome.Message.Text())
	if err := r.driver.Info(ctx, b.String()); err != nil {
		return err
	}

	copyIt, err := r.driver.Confirm(ctx, ConfirmConfig{
		Message: "Copy the message to your clipboard?",
		Default: true,
	})
	if err != nil {
		return err
	}
	if !copyIt {
		return nil
	}

	if err := r.writeClip(outcome.Message.Text()); err != nil {
		r.logger.Warn("clipboard write failed", zap.Error(err))
		return r.driver.Info(ctx, "Clipboard unavailable — select and copy the text above manually.")
	}
	return r.driver.Info(ctx, "Copied!")
}
