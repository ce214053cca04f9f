package carousel_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/reshine-intl/sitekit/pkg/carousel"
)

// fakeSurface records applied frames and serves fixed metrics.
type fakeSurface struct {
	metrics carousel.Metrics
	frames  []carousel.Frame
}

func (s *fakeSurface) Metrics() carousel.Metrics { return s.metrics }
func (s *fakeSurface) Apply(f carousel.Frame)    { s.frames = append(s.frames, f) }

func (s *fakeSurface) last() carousel.Frame {
	return s.frames[len(s.frames)-1]
}

type manualClock struct {
	current time.Time
}

func (c *manualClock) now() time.Time          { return c.current }
func (c *manualClock) advance(d time.Duration) { c.current = c.current.Add(d) }

func newController(t *testing.T, slides int, surface *fakeSurface, clock *manualClock) *carousel.Controller {
	t.Helper()
	ctrl, err := carousel.New(surface, slides, carousel.WithClock(clock.now))
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	return ctrl
}

func TestNew_Validation(t *testing.T) {
	if _, err := carousel.New(nil, 3); err != carousel.ErrNilSurface {
		t.Errorf("nil surface: got %v, want ErrNilSurface", err)
	}
	if _, err := carousel.New(&fakeSurface{}, 0); err != carousel.ErrNoSlides {
		t.Errorf("zero slides: got %v, want ErrNoSlides", err)
	}
}

func TestNew_RendersInitialFrame(t *testing.T) {
	surface := &fakeSurface{metrics: carousel.Metrics{ItemWidth: 30, Gap: 2}}
	clock := &manualClock{current: time.Unix(0, 0)}
	newController(t, 3, surface, clock)

	want := carousel.Frame{
		Index:   0,
		Offset:  0,
		AtStart: true,
		AtEnd:   false,
		Hidden:  []bool{false, true, true},
	}
	if diff := cmp.Diff(want, surface.last()); diff != "" {
		t.Fatalf("initial frame mismatch (-want +got):\n%s", diff)
	}
}

func TestGoTo_OffsetFromLiveMetrics(t *testing.T) {
	surface := &fakeSurface{metrics: carousel.Metrics{ItemWidth: 30, Gap: 2}}
	clock := &manualClock{current: time.Unix(0, 0)}
	ctrl := newController(t, 4, surface, clock)

	if !ctrl.GoTo(2) {
		t.Fatal("GoTo(2) should apply")
	}
	if got := surface.last().Offset; got != -64 {
		t.Errorf("offset = %d, want -64", got)
	}

	// Metrics change between renders must be picked up, never cached.
	surface.metrics = carousel.Metrics{ItemWidth: 10, Gap: 1}
	ctrl.Render()
	if got := surface.last().Offset; got != -22 {
		t.Errorf("offset after reflow = %d, want -22", got)
	}
}

func TestBoundaries_NoWraparound(t *testing.T) {
	surface := &fakeSurface{metrics: carousel.Metrics{ItemWidth: 10}}
	clock := &manualClock{current: time.Unix(0, 0)}
	ctrl := newController(t, 3, surface, clock)

	if ctrl.Prev() {
		t.Error("Prev at index 0 should be a no-op")
	}
	if !surface.last().AtStart {
		t.Error("frame at index 0 should mark AtStart")
	}

	ctrl.GoTo(2)
	clock.advance(time.Second)
	if ctrl.Next() {
		t.Error("Next at last index should be a no-op")
	}
	if !surface.last().AtEnd {
		t.Error("frame at last index should mark AtEnd")
	}
}

func TestTransitionLock_DropsSecondCall(t *testing.T) {
	surface := &fakeSurface{metrics: carousel.Metrics{ItemWidth: 10}}
	clock := &manualClock{current: time.Unix(0, 0)}
	ctrl := newController(t, 3, surface, clock)

	if !ctrl.Next() {
		t.Fatal("first Next should apply")
	}
	// Second call inside the 400ms window is dropped, leaving index 1.
	if ctrl.Next() {
		t.Error("Next under lock should be dropped")
	}
	if got := ctrl.Index(); got != 1 {
		t.Errorf("index = %d, want 1", got)
	}

	clock.advance(400 * time.Millisecond)
	if !ctrl.Next() {
		t.Error("Next after lock window should apply")
	}
	if got := ctrl.Index(); got != 2 {
		t.Errorf("index = %d, want 2", got)
	}
}

func TestLock_StateUnchangedUnderLock(t *testing.T) {
	surface := &fakeSurface{metrics: carousel.Metrics{ItemWidth: 10}}
	clock := &manualClock{current: time.Unix(0, 0)}
	ctrl := newController(t, 5, surface, clock)

	ctrl.GoTo(3)
	frames := len(surface.frames)

	for _, apply := range []func() bool{ctrl.Next, ctrl.Prev, func() bool { return ctrl.GoTo(1) }} {
		if apply() {
			t.Error("navigation under lock should be dropped")
		}
	}
	if got := ctrl.Index(); got != 3 {
		t.Errorf("index changed under lock: %d", got)
	}
	if len(surface.frames) != frames {
		t.Error("render occurred under lock")
	}
}

func TestFinishTransition_ReleasesEarly(t *testing.T) {
	surface := &fakeSurface{metrics: carousel.Metrics{ItemWidth: 10}}
	clock := &manualClock{current: time.Unix(0, 0)}
	ctrl := newController(t, 3, surface, clock)

	ctrl.Next()
	if !ctrl.Locked() {
		t.Fatal("expected lock after transition")
	}
	ctrl.FinishTransition()
	if ctrl.Locked() {
		t.Fatal("FinishTransition should release the lock")
	}
	if !ctrl.Next() {
		t.Error("Next after explicit completion should apply")
	}
}

func TestIndex_NeverLeavesBounds(t *testing.T) {
	surface := &fakeSurface{metrics: carousel.Metrics{ItemWidth: 10}}
	clock := &manualClock{current: time.Unix(0, 0)}
	ctrl := newController(t, 4, surface, clock)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 500; i++ {
		switch rng.Intn(4) {
		case 0:
			ctrl.Next()
		case 1:
			ctrl.Prev()
		case 2:
			ctrl.GoTo(rng.Intn(8) - 2)
		case 3:
			clock.advance(time.Duration(rng.Intn(500)) * time.Millisecond)
		}
		if idx := ctrl.Index(); idx < 0 || idx >= ctrl.Count() {
			t.Fatalf("index %d escaped [0,%d) at step %d", idx, ctrl.Count(), i)
		}
	}
}

func TestResize_DebouncedRender(t *testing.T) {
	surface := &fakeSurface{metrics: carousel.Metrics{ItemWidth: 10}}
	clock := &manualClock{current: time.Unix(0, 0)}
	ctrl, err := carousel.New(surface, 3,
		carousel.WithClock(clock.now),
		carousel.WithResizeDebounce(20*time.Millisecond),
	)
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}

	before := len(surface.frames)
	for i := 0; i < 5; i++ {
		ctrl.Resize()
	}
	time.Sleep(60 * time.Millisecond)

	if got := len(surface.frames) - before; got != 1 {
		t.Errorf("resize burst produced %d renders, want 1", got)
	}
}
