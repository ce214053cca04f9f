// Package carousel implements the slide controller behind the testimonial
// rotator. The controller owns the slide index and the transition lock;
// drawing is delegated to an injected Surface so state transitions can be
// tested without a live rendering target.
package carousel

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/reshine-intl/sitekit/internal/timing"
)

var (
	// ErrNilSurface signals a controller constructed without a rendering target.
	ErrNilSurface = errors.New("carousel: surface is required")
	// ErrNoSlides signals a controller constructed with zero slides.
	ErrNoSlides = errors.New("carousel: at least one slide is required")
)

// Metrics carries the live layout measurements a Surface reports. The
// controller queries them on every render rather than caching, so responsive
// reflow is picked up automatically.
type Metrics struct {
	ItemWidth int
	Gap       int
}

// Frame is the full visual state handed to the Surface after a transition:
// the horizontal track offset, the active index, boundary flags for the
// prev/next controls, and which slides assistive rendering should hide.
type Frame struct {
	Index   int
	Offset  int
	AtStart bool
	AtEnd   bool
	Hidden  []bool
}

// Surface is the rendering target. Apply must be cheap; it is invoked on
// every index change and after debounced resizes.
type Surface interface {
	Metrics() Metrics
	Apply(Frame)
}

// Controller owns one carousel instance. All state lives here; the DOM-era
// habit of storing state in classes and attributes is gone.
type Controller struct {
	surface Surface
	count   int
	index   int

	window      time.Duration
	lockedUntil time.Time
	now         timing.Clock

	resize *timing.Debouncer
	logger *zap.Logger
}

// Option configures a Controller.
type Option func(*Controller)

// WithTransitionWindow overrides the lock window. It must match the paired
// visual transition duration; a mismatch releases the lock early or late.
func WithTransitionWindow(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.window = d
		}
	}
}

// WithResizeDebounce overrides the resize quiet window.
func WithResizeDebounce(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.resize = timing.NewDebouncer(d)
		}
	}
}

// WithClock overrides time lookup, for tests.
func WithClock(clock timing.Clock) Option {
	return func(c *Controller) {
		if clock != nil {
			c.now = clock
		}
	}
}

// WithLogger attaches a diagnostic logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

const (
	defaultTransitionWindow = 400 * time.Millisecond
	defaultResizeDebounce   = 250 * time.Millisecond
)

// New constructs a controller for slideCount slides starting at index 0 and
// renders the initial frame.
func New(surface Surface, slideCount int, options ...Option) (*Controller, error) {
	if surface == nil {
		return nil, ErrNilSurface
	}
	if slideCount < 1 {
		return nil, ErrNoSlides
	}

	c := &Controller{
		surface: surface,
		count:   slideCount,
		window:  defaultTransitionWindow,
		now:     timing.SystemClock,
		resize:  timing.NewDebouncer(defaultResizeDebounce),
		logger:  zap.NewNop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}

	c.Render()
	return c, nil
}

// Index returns the active slide index.
func (c *Controller) Index() int { return c.index }

// Count returns the fixed slide count.
func (c *Controller) Count() int { return c.count }

// Locked reports whether a transition is still in flight. Inputs arriving
// while locked are dropped, not queued.
func (c *Controller) Locked() bool {
	return c.now().Before(c.lockedUntil)
}

// Next advances one slide. Returns false when dropped: under lock or already
// at the last slide (no wraparound).
func (c *Controller) Next() bool {
	return c.GoTo(c.index + 1)
}

// Prev retreats one slide. Returns false when dropped: under lock or already
// at the first slide.
func (c *Controller) Prev() bool {
	return c.GoTo(c.index - 1)
}

// GoTo jumps to slide i. Returns false when dropped: under lock, out of
// range, or already active.
func (c *Controller) GoTo(i int) bool {
	if c.Locked() {
		return false
	}
	if i < 0 || i >= c.count || i == c.index {
		return false
	}

	c.index = i
	c.lockedUntil = c.now().Add(c.window)
	c.Render()
	return true
}

// FinishTransition releases the lock ahead of the timed window. Surfaces that
// can observe their own transition completion call this; others rely on the
// timed fallback.
func (c *Controller) FinishTransition() {
	c.lockedUntil = c.now()
}

// Render queries live metrics and applies the resulting frame to the surface.
func (c *Controller) Render() {
	m := c.surface.Metrics()

	hidden := make([]bool, c.count)
	for i := range hidden {
		hidden[i] = i != c.index
	}

	c.surface.Apply(Frame{
		Index:   c.index,
		Offset:  -c.index * (m.ItemWidth + m.Gap),
		AtStart: c.index == 0,
		AtEnd:   c.index == c.count-1,
		Hidden:  hidden,
	})
}

// Resize schedules a re-render behind the debounce window so continuous
// resize streams collapse into one trailing recomputation.
func (c *Controller) Resize() {
	c.resize.Debounce(c.Render)
}

// CancelPending drops any debounced re-render, typically on teardown.
func (c *Controller) CancelPending() {
	c.resize.Cancel()
}
