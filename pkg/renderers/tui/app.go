// Package tui renders the site as a full-screen terminal application: the
// home page with the hero, service cards and the testimonial rotator, plus
// one page per form. Pure state lives in pkg/carousel and pkg/forms; this
// package owns only layout, focus and message routing.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/reshine-intl/sitekit/pkg/carousel"
	"github.com/reshine-intl/sitekit/pkg/content"
	"github.com/reshine-intl/sitekit/pkg/forms"
)

const (
	pageHome    = "home"
	maxPageW    = 72
	resizeQuiet = 250 * time.Millisecond
)

// clock drives time lookups; swapped in tests.
type clock func() time.Time

// Model is the root bubbletea model.
type Model struct {
	site   *content.Site
	styles Styles
	logger *zap.Logger
	now    clock

	page      string
	rotator   *carouselView
	formViews map[string]*formView
	formOrder []string

	open      func(string) error
	writeClip func(string) error

	width     int
	height    int
	resizeGen int
}

// ModelOption configures the root model.
type ModelOption func(*Model)

// WithStyles overrides the default theme-derived styles.
func WithStyles(styles Styles) ModelOption {
	return func(m *Model) { m.styles = styles }
}

// WithModelLogger attaches a diagnostic logger.
func WithModelLogger(logger *zap.Logger) ModelOption {
	return func(m *Model) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithModelClock overrides time lookup, for tests.
func WithModelClock(now clock) ModelOption {
	return func(m *Model) {
		if now != nil {
			m.now = now
		}
	}
}

// WithOpener overrides how fallback links are launched, for tests and
// sandboxed environments.
func WithOpener(open func(string) error) ModelOption {
	return func(m *Model) { m.open = open }
}

// WithClipboardWriter overrides the clipboard sink.
func WithClipboardWriter(write func(string) error) ModelOption {
	return func(m *Model) { m.writeClip = write }
}

// NewModel assembles the application from site content and one controller per
// form page. Controllers are keyed by definition ID, which must match the nav
// page IDs in the site content.
func NewModel(site *content.Site, controllers []*forms.Controller, options ...ModelOption) (*Model, error) {
	m := &Model{
		site:      site,
		styles:    DefaultStyles(),
		logger:    zap.NewNop(),
		now:       time.Now,
		page:      pageHome,
		formViews: make(map[string]*formView, len(controllers)),
	}
	for _, opt := range options {
		if opt != nil {
			opt(m)
		}
	}

	rotator, err := newCarouselView(site.Testimonials, m.styles, carousel.WithLogger(m.logger))
	if err != nil {
		return nil, fmt.Errorf("tui: build testimonial rotator: %w", err)
	}
	m.rotator = rotator

	for _, ctrl := range controllers {
		id := ctrl.Definition().ID
		m.formViews[id] = newFormView(ctrl, m.styles, m.open, m.writeClip, m.logger)
		m.formOrder = append(m.formOrder, id)
	}
	return m, nil
}

func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		contentW := msg.Width - 4
		if contentW > maxPageW {
			contentW = maxPageW
		}
		m.rotator.setWidth(contentW)
		for _, v := range m.formViews {
			v.setWidth(contentW)
		}
		// Collapse the resize stream into one trailing recompute.
		m.resizeGen++
		return m, resizeSettled(m.resizeGen, resizeQuiet)

	case resizeSettledMsg:
		if msg.generation == m.resizeGen {
			m.rotator.refresh()
		}
		return m, nil

	case processingDoneMsg, copyResetMsg:
		for _, v := range m.formViews {
			if cmd := v.update(msg); cmd != nil {
				return m, cmd
			}
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, m.routeToPage(msg)
}

func (m *Model) handleKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		if m.page != pageHome {
			m.page = pageHome
			return m, nil
		}
		return m, tea.Quit
	}

	if m.page == pageHome {
		// Nav shortcuts are digits so form typing is never intercepted.
		if key.Type == tea.KeyRunes && len(key.Runes) == 1 {
			if idx := int(key.Runes[0] - '1'); idx >= 0 && idx < len(m.formOrder) {
				m.page = m.formOrder[idx]
				return m, nil
			}
		}
		m.rotator.update(key)
		return m, nil
	}

	return m, m.routeToPage(key)
}

func (m *Model) routeToPage(msg tea.Msg) tea.Cmd {
	if v, ok := m.formViews[m.page]; ok {
		return v.update(msg)
	}
	return nil
}

func (m *Model) View() string {
	var body string
	if m.page == pageHome {
		body = m.homeView()
	} else if v, ok := m.formViews[m.page]; ok {
		body = v.view()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.headerView(),
		m.navView(),
		"",
		body,
		"",
		m.footerView(),
	)
}

func (m *Model) headerView() string {
	return lipgloss.JoinHorizontal(lipgloss.Bottom,
		m.styles.Header.Render(m.site.Company.Name),
		"  ",
		m.styles.Tagline.Render(m.site.Company.Tagline),
	)
}

func (m *Model) navView() string {
	entries := make([]string, 0, len(m.site.Nav))
	for _, page := range m.site.Nav {
		style := m.styles.Nav
		if page.ID == m.page {
			style = m.styles.NavActive
		}
		entries = append(entries, style.Render(page.Label))
	}
	return strings.Join(entries, " ")
}

func (m *Model) homeView() string {
	hero := lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Title.Render(m.site.Hero.Heading),
		m.styles.Muted.Render(m.site.Hero.Subheading),
	)

	cards := make([]string, 0, len(m.site.Services))
	for _, svc := range m.site.Services {
		cards = append(cards, fmt.Sprintf("• %s — %s",
			m.styles.Label.Render(svc.Title), svc.Blurb))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		hero,
		"",
		strings.Join(cards, "\n"),
		"",
		m.styles.Title.Render("What our clients say"),
		m.rotator.view(),
	)
}

func (m *Model) footerView() string {
	help := "esc home · ctrl+c quit"
	if m.page == pageHome {
		parts := []string{"←/→ testimonials"}
		for i, id := range m.formOrder {
			parts = append(parts, fmt.Sprintf("%d %s", i+1, m.navLabel(id)))
		}
		parts = append(parts, "ctrl+c quit")
		help = strings.Join(parts, " · ")
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Help.Render(help),
		m.styles.Footer.Render(m.site.Copyright(m.now())),
	)
}

func (m *Model) navLabel(id string) string {
	for _, page := range m.site.Nav {
		if page.ID == id {
			return page.Label
		}
	}
	return id
}

// Run starts the full-screen program.
func Run(m *Model) error {
	program := tea.NewProgram(m, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
