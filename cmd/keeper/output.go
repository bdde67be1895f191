package main

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/sznuper/keeper/internal/result"
)

var colorOutput = isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())

var (
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	faintStyle = lipgloss.NewStyle().Faint(true)
	titleStyle = lipgloss.NewStyle().Bold(true).Underline(true)
)

func styled(s lipgloss.Style, text string) string {
	if !colorOutput {
		return text
	}
	return s.Render(text)
}

func stateStyle(s result.RunState) lipgloss.Style {
	switch s {
	case result.StateRunning:
		return okStyle
	case result.StateStartTriggered, result.StateUnknown:
		return warnStyle
	default:
		return errStyle
	}
}
