package forms

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/reshine-intl/sitekit/pkg/mailer"
)

var (
	// ErrEmptyDefinition signals a controller constructed without fields.
	ErrEmptyDefinition = errors.New("forms: definition has no fields")
	// ErrNotProcessing signals Deliver called outside the Processing phase.
	ErrNotProcessing = errors.New("forms: no submission is being processed")
)

// Composer turns submitted values into a deliverable message. Satisfied by
// *mailer.Composer.
type Composer interface {
	Compose(values map[string]string) (mailer.Message, error)
}

// Controller owns one form instance: the submitted values, per-field
// validation status, and the submission phase. It never touches a rendering
// surface; surfaces read the controller after each operation.
type Controller struct {
	def      Definition
	values   map[string]string
	status   map[string]FieldStatus
	phase    Phase
	composer Composer
	delivery mailer.Deliverer
	logger   *zap.Logger
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithDeliverer overrides the delivery mechanism, for tests and alternate
// platforms.
func WithDeliverer(d mailer.Deliverer) ControllerOption {
	return func(c *Controller) {
		if d != nil {
			c.delivery = d
		}
	}
}

// WithControllerLogger attaches a diagnostic logger.
func WithControllerLogger(logger *zap.Logger) ControllerOption {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewController wires a form definition to its composer.
func NewController(def Definition, composer Composer, options ...ControllerOption) (*Controller, error) {
	if len(def.Fields) == 0 {
		return nil, ErrEmptyDefinition
	}
	if composer == nil {
		return nil, errors.New("forms: composer is required")
	}

	c := &Controller{
		def:      def,
		values:   make(map[string]string, len(def.Fields)),
		status:   make(map[string]FieldStatus, len(def.Fields)),
		phase:    PhaseIdle,
		composer: composer,
		delivery: mailer.PlatformDeliverer{},
		logger:   zap.NewNop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// Definition returns the fixed form shape.
func (c *Controller) Definition() Definition { return c.def }

// Phase returns the current submission phase.
func (c *Controller) Phase() Phase { return c.phase }

// Value returns the stored raw value for a field.
func (c *Controller) Value(name string) string { return c.values[name] }

// SetValue stores a field value without validating, mirroring plain typing.
func (c *Controller) SetValue(name, value string) {
	if _, ok := c.def.FieldByName(name); ok {
		c.values[name] = value
	}
}

// Status returns the last validation outcome for a field. Fields never
// validated report valid with no message.
func (c *Controller) Status(name string) FieldStatus {
	if s, ok := c.status[name]; ok {
		return s
	}
	return FieldStatus{Valid: true}
}

// ValidateField stores value and validates it, as on blur or change.
// Re-running with unchanged input yields the same outcome.
func (c *Controller) ValidateField(name, value string) FieldStatus {
	field, ok := c.def.FieldByName(name)
	if !ok {
		return FieldStatus{Valid: true}
	}
	c.values[name] = value
	s := Validate(field, value)
	c.status[name] = s
	return s
}

// SubmitResult reports a submission attempt. When Accepted is false,
// FirstInvalid names the field focus should move to, in field order.
type SubmitResult struct {
	Accepted     bool
	FirstInvalid string
}

// Submit validates every field — never short-circuiting, so all errors
// surface at once — and on success advances to Processing. The caller is
// expected to wait the definition's ProcessingDelay, then call Deliver.
func (c *Controller) Submit(ctx context.Context) (SubmitResult, error) {
	phase, err := applyTransition(ctx, c.phase, EventSubmit)
	if err != nil {
		return SubmitResult{}, err
	}
	c.phase = phase

	firstInvalid := ""
	for _, field := range c.def.Fields {
		s := Validate(field, c.values[field.Name])
		c.status[field.Name] = s
		if !s.Valid && firstInvalid == "" {
			firstInvalid = field.Name
		}
	}

	if firstInvalid != "" {
		if c.phase, err = applyTransition(ctx, c.phase, EventReject); err != nil {
			return SubmitResult{}, err
		}
		return SubmitResult{FirstInvalid: firstInvalid}, nil
	}

	if c.phase, err = applyTransition(ctx, c.phase, EventAccept); err != nil {
		return SubmitResult{}, err
	}
	return SubmitResult{Accepted: true}, nil
}

// Outcome is the result of the delivery step. The fallback panel is always
// populated: delegated delivery cannot be confirmed, so the controller
// assumes success and offers the alternate routes regardless.
type Outcome struct {
	Phase       Phase
	Message     mailer.Message
	Links       mailer.FallbackLinks
	DeliveryErr error
}

// Deliver composes the message from the submitted values and hands it to the
// delivery mechanism. A launch failure lands on FailedFallback; otherwise the
// phase is Succeeded and the values reset for the next submission. Both
// outcomes carry the full fallback panel data, replacing any prior panel.
func (c *Controller) Deliver(ctx context.Context) (Outcome, error) {
	if c.phase != PhaseProcessing {
		return Outcome{}, ErrNotProcessing
	}

	msg, err := c.composer.Compose(c.snapshotValues())
	if err != nil {
		return Outcome{}, fmt.Errorf("forms: compose message: %w", err)
	}

	deliveryErr := c.delivery.Deliver(msg)
	event := EventDelivered
	if deliveryErr != nil {
		event = EventDeliverFailed
		c.logger.Warn("mail handler launch failed",
			zap.String("form", c.def.ID),
			zap.Error(deliveryErr))
	}

	if c.phase, err = applyTransition(ctx, c.phase, event); err != nil {
		return Outcome{}, err
	}

	if c.phase == PhaseSucceeded {
		c.reset()
	}

	return Outcome{
		Phase:       c.phase,
		Message:     msg,
		Links:       mailer.Links(msg),
		DeliveryErr: deliveryErr,
	}, nil
}

func (c *Controller) snapshotValues() map[string]string {
	out := make(map[string]string, len(c.def.Fields))
	for _, field := range c.def.Fields {
		// Outer whitespace never reaches the composed message; inner
		// newlines are preserved verbatim.
		out[field.Name] = strings.TrimSpace(c.values[field.Name])
	}
	return out
}

func (c *Controller) reset() {
	c.values = make(map[string]string, len(c.def.Fields))
	c.status = make(map[string]FieldStatus, len(c.def.Fields))
}
