package tui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	theme "github.com/goliatone/go-theme"
)

// Brand token keys. Variants override a subset of these.
const (
	tokenPrimary = "primary"
	tokenAccent  = "accent"
	tokenMuted   = "muted"
	tokenBorder  = "border"
	tokenError   = "error"
	tokenSuccess = "success"
	tokenCard    = "card"
)

// BrandManifest declares the site palette as a go-theme manifest: base tokens
// are the light scheme and the dark variant overrides what differs.
func BrandManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    "reshine",
		Version: "1.0.0",
		Tokens: map[string]string{
			tokenPrimary: "#1a3c6e",
			tokenAccent:  "#e8a33d",
			tokenMuted:   "#6b7683",
			tokenBorder:  "#c8cdd4",
			tokenError:   "#c62828",
			tokenSuccess: "#2e7d32",
			tokenCard:    "#f4f5f6",
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{
					tokenPrimary: "#7fa8d9",
					tokenMuted:   "#8a93a0",
					tokenBorder:  "#3a4454",
					tokenError:   "#ef5350",
					tokenSuccess: "#81c784",
					tokenCard:    "#1a2536",
				},
			},
		},
	}
}

// ResolveTokens merges the manifest's base tokens with the named variant's
// overrides. An unknown variant yields the base tokens unchanged.
func ResolveTokens(m *theme.Manifest, variant string) map[string]string {
	tokens := make(map[string]string, len(m.Tokens))
	for key, value := range m.Tokens {
		tokens[key] = value
	}
	if v, ok := m.Variants[variant]; ok {
		for key, value := range v.Tokens {
			tokens[key] = value
		}
	}
	return tokens
}

// DetectVariant picks the manifest variant from the terminal environment.
func DetectVariant() string {
	// COLORFGBG is "foreground;background"; low background indexes mean a
	// dark terminal.
	if colorTerm := os.Getenv("COLORFGBG"); colorTerm != "" {
		parts := strings.Split(colorTerm, ";")
		if len(parts) == 2 {
			if bg, err := strconv.Atoi(parts[1]); err == nil {
				if (bg >= 0 && bg <= 6) || bg == 8 {
					return "dark"
				}
			}
		}
	}
	if os.Getenv("RESHINE_DARK_MODE") == "1" {
		return "dark"
	}
	return ""
}

// Styles holds every lipgloss style the surface renders with.
type Styles struct {
	Header    lipgloss.Style
	Tagline   lipgloss.Style
	Nav       lipgloss.Style
	NavActive lipgloss.Style
	Footer    lipgloss.Style
	Help      lipgloss.Style

	Title lipgloss.Style
	Body  lipgloss.Style
	Muted lipgloss.Style

	Card        lipgloss.Style
	Quote       lipgloss.Style
	Attribution lipgloss.Style
	DotActive   lipgloss.Style
	DotIdle     lipgloss.Style
	ArrowOn     lipgloss.Style
	ArrowOff    lipgloss.Style

	Label      lipgloss.Style
	FieldError lipgloss.Style
	Button     lipgloss.Style
	ButtonBusy lipgloss.Style

	Success lipgloss.Style
	Warning lipgloss.Style
	Panel   lipgloss.Style
}

// NewStyles builds the style set from resolved brand tokens.
func NewStyles(tokens map[string]string) Styles {
	primary := lipgloss.Color(tokens[tokenPrimary])
	accent := lipgloss.Color(tokens[tokenAccent])
	muted := lipgloss.Color(tokens[tokenMuted])
	border := lipgloss.Color(tokens[tokenBorder])
	errCol := lipgloss.Color(tokens[tokenError])
	success := lipgloss.Color(tokens[tokenSuccess])

	return Styles{
		Header: lipgloss.NewStyle().
			Foreground(primary).
			Bold(true),
		Tagline: lipgloss.NewStyle().
			Foreground(muted).
			Italic(true),
		Nav: lipgloss.NewStyle().
			Foreground(muted).
			Padding(0, 1),
		NavActive: lipgloss.NewStyle().
			Foreground(accent).
			Padding(0, 1).
			Bold(true).
			Underline(true),
		Footer: lipgloss.NewStyle().
			Foreground(muted),
		Help: lipgloss.NewStyle().
			Foreground(muted).
			Faint(true),

		Title: lipgloss.NewStyle().
			Foreground(primary).
			Bold(true).
			MarginBottom(1),
		Body:  lipgloss.NewStyle(),
		Muted: lipgloss.NewStyle().Foreground(muted),

		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(1, 2),
		Quote: lipgloss.NewStyle().
			Italic(true),
		Attribution: lipgloss.NewStyle().
			Foreground(muted),
		DotActive: lipgloss.NewStyle().
			Foreground(accent).
			Bold(true),
		DotIdle: lipgloss.NewStyle().
			Foreground(muted),
		ArrowOn: lipgloss.NewStyle().
			Foreground(primary).
			Bold(true),
		ArrowOff: lipgloss.NewStyle().
			Foreground(border),

		Label: lipgloss.NewStyle().
			Foreground(primary).
			Bold(true),
		FieldError: lipgloss.NewStyle().
			Foreground(errCol),
		Button: lipgloss.NewStyle().
			Background(primary).
			Foreground(lipgloss.Color("#ffffff")).
			Padding(0, 2).
			Bold(true),
		ButtonBusy: lipgloss.NewStyle().
			Background(muted).
			Foreground(lipgloss.Color("#ffffff")).
			Padding(0, 2),

		Success: lipgloss.NewStyle().
			Foreground(success).
			Bold(true),
		Warning: lipgloss.NewStyle().
			Foreground(errCol).
			Bold(true),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(border).
			Padding(0, 1).
			MarginTop(1),
	}
}

// DefaultStyles resolves the brand manifest against the detected variant.
func DefaultStyles() Styles {
	return NewStyles(ResolveTokens(BrandManifest(), DetectVariant()))
}
