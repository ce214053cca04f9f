package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// processingDoneMsg fires when a form's processing delay elapses and the
// delivery step should run.
type processingDoneMsg struct {
	formID string
}

// copyResetMsg reverts the clipboard button label after its feedback window.
type copyResetMsg struct {
	formID string
}

// resizeSettledMsg fires after the resize quiet window. Generation guards
// against stale ticks from superseded resizes.
type resizeSettledMsg struct {
	generation int
}

func processingDone(formID string, after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return processingDoneMsg{formID: formID}
	})
}

func copyReset(formID string, after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return copyResetMsg{formID: formID}
	})
}

func resizeSettled(generation int, after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return resizeSettledMsg{generation: generation}
	})
}
