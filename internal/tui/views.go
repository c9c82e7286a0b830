package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	headerText      = "🛡️  Fraud Detection Terminal"
	instructionText = "Paste the 30 comma-separated features of a transaction and press Enter."
	inputLabel      = "Transaction Features (V1, V2, ..., V28, Time, Amount)"
	buttonText      = "Detect Fraud"
	resultLabel     = "Detection Result"
	emptyResult     = "No transaction analyzed yet."
	pendingText     = "Analyzing transaction..."
)

func (m Model) render() string {
	sections := []string{
		m.theme.Title.Render(headerText),
		m.theme.Subtitle.Render(instructionText),
		m.renderInput(),
		"",
		m.renderButton(),
		"",
		m.renderResult(),
		"",
		m.help.View(m.keymap),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderInput() string {
	box := m.theme.Box
	if m.focus == FocusInput {
		box = m.theme.FocusedBox
	}
	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.theme.Label.Render(inputLabel),
		box.Width(m.contentWidth()).Render(m.input.View()),
	)
}

func (m Model) renderButton() string {
	if m.focus == FocusButton {
		return m.theme.ButtonFocused.Render(buttonText)
	}
	return m.theme.Button.Render(buttonText)
}

func (m Model) renderResult() string {
	var body string
	switch {
	case m.pending:
		body = m.spinner.View() + " " + m.theme.StatusPending.Render(pendingText)
	case m.result == nil:
		body = m.theme.StatusPending.Render(emptyResult)
	default:
		style := m.theme.Verdict(m.result.Severity).Width(m.contentWidth())
		body = style.Render(strings.TrimSpace(m.result.Text))
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.theme.Label.Render(resultLabel),
		body,
	)
}

// contentWidth is the usable width inside a bordered box.
func (m Model) contentWidth() int {
	w := m.width - 2
	if w < minInputWidth+inputChrome-2 {
		w = minInputWidth + inputChrome - 2
	}
	return w
}
