package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/reshine-intl/sitekit/pkg/carousel"
	"github.com/reshine-intl/sitekit/pkg/content"
)

const slideGap = 2

// slideSurface adapts the terminal layout to carousel.Surface. The controller
// reads live metrics on every render, so a width change followed by a render
// recomputes the frame with no extra plumbing.
type slideSurface struct {
	width int
	frame carousel.Frame
}

func (s *slideSurface) Metrics() carousel.Metrics {
	return carousel.Metrics{ItemWidth: s.width, Gap: slideGap}
}

func (s *slideSurface) Apply(frame carousel.Frame) {
	s.frame = frame
}

// carouselView renders the testimonial rotator: one card at a time with
// position dots and boundary-aware arrows.
type carouselView struct {
	slides  []content.Testimonial
	surface *slideSurface
	ctrl    *carousel.Controller
	styles  Styles
}

func newCarouselView(slides []content.Testimonial, styles Styles, options ...carousel.Option) (*carouselView, error) {
	surface := &slideSurface{width: 60}
	ctrl, err := carousel.New(surface, len(slides), options...)
	if err != nil {
		return nil, err
	}
	return &carouselView{
		slides:  slides,
		surface: surface,
		ctrl:    ctrl,
		styles:  styles,
	}, nil
}

// setWidth records the new layout width. The frame is not recomputed here;
// the app re-renders once the resize stream settles.
func (v *carouselView) setWidth(w int) {
	if w > 0 {
		v.surface.width = w
	}
}

// refresh recomputes the frame against current metrics.
func (v *carouselView) refresh() {
	v.ctrl.Render()
}

func (v *carouselView) update(msg tea.Msg) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return
	}
	switch key.Type {
	case tea.KeyRight:
		v.ctrl.Next()
	case tea.KeyLeft:
		v.ctrl.Prev()
	}
}

func (v *carouselView) view() string {
	frame := v.surface.frame

	var card string
	for i, slide := range v.slides {
		if frame.Hidden[i] {
			continue
		}
		quote := v.styles.Quote.Render(fmt.Sprintf("“%s”", slide.Quote))
		attribution := v.styles.Attribution.Render(fmt.Sprintf("— %s, %s", slide.Author, slide.Role))
		card = v.styles.Card.Width(v.surface.width).Render(quote + "\n\n" + attribution)
	}

	dots := make([]string, len(v.slides))
	for i := range v.slides {
		if i == frame.Index {
			dots[i] = v.styles.DotActive.Render("●")
		} else {
			dots[i] = v.styles.DotIdle.Render("○")
		}
	}

	left := v.styles.ArrowOn.Render("‹")
	if frame.AtStart {
		left = v.styles.ArrowOff.Render("‹")
	}
	right := v.styles.ArrowOn.Render("›")
	if frame.AtEnd {
		right = v.styles.ArrowOff.Render("›")
	}

	controls := lipgloss.JoinHorizontal(lipgloss.Center,
		left, "  ", strings.Join(dots, " "), "  ", right)

	return lipgloss.JoinVertical(lipgloss.Left, card, "", controls)
}
