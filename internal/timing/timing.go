// Package timing provides the small scheduling primitives the widget
// controllers share: a trailing-edge debouncer for bursty inputs such as
// terminal resizes, a leading-plus-periodic throttler for continuous inputs
// such as scroll, and an injectable clock so lock windows can be tested
// without sleeping.
package timing

import (
	"sync"
	"time"
)

// Clock abstracts time lookup. Controllers hold a Clock instead of calling
// time.Now directly so tests can advance time deterministically.
type Clock func() time.Time

// SystemClock is the default Clock backed by time.Now.
func SystemClock() time.Time { return time.Now() }

// Debouncer coalesces rapid successive calls into a single trailing
// invocation once the quiet window has elapsed. Pending work is best-effort:
// callers discard the debouncer (and any timer with it) on teardown.
type Debouncer struct {
	mu       sync.Mutex
	timer    *time.Timer
	duration time.Duration
}

// NewDebouncer creates a debouncer with the given quiet window.
func NewDebouncer(duration time.Duration) *Debouncer {
	return &Debouncer{duration: duration}
}

// Debounce schedules fn after the quiet window. A new call before the window
// elapses replaces the pending invocation and restarts the window.
func (d *Debouncer) Debounce(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.duration, fn)
}

// Cancel drops any pending invocation.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Flush cancels any pending invocation and runs fn immediately.
func (d *Debouncer) Flush(fn func()) {
	d.Cancel()
	fn()
}

// Throttler rate-limits a high-frequency input to a leading call plus at most
// one call per interval afterwards. Calls inside the interval are dropped,
// not queued.
type Throttler struct {
	mu       sync.Mutex
	last     time.Time
	interval time.Duration
	now      Clock
}

// NewThrottler creates a throttler with the given minimum interval.
func NewThrottler(interval time.Duration, opts ...ThrottlerOption) *Throttler {
	t := &Throttler{interval: interval, now: SystemClock}
	for _, opt := range opts {
		if opt != nil {
			opt(t)
		}
	}
	return t
}

// ThrottlerOption configures a Throttler.
type ThrottlerOption func(*Throttler)

// WithThrottlerClock overrides the clock, for tests.
func WithThrottlerClock(clock Clock) ThrottlerOption {
	return func(t *Throttler) {
		if clock != nil {
			t.now = clock
		}
	}
}

// Call runs fn if the interval has elapsed since the last accepted call and
// reports whether it ran. The first call always runs (leading edge).
func (t *Throttler) Call(fn func()) bool {
	t.mu.Lock()
	now := t.now()
	if !t.last.IsZero() && now.Sub(t.last) < t.interval {
		t.mu.Unlock()
		return false
	}
	t.last = now
	t.mu.Unlock()

	fn()
	return true
}
