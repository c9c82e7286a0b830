// Package testing provides test utilities for TUI models.
package testing

import (
	tea "github.com/charmbracelet/bubbletea"
)

// TestRenderer drives a Bubble Tea model without a real terminal and keeps
// the last rendered view.
type TestRenderer struct {
	// Output contains the last rendered view
	Output string

	// Commands contains all commands returned by Update calls
	Commands []tea.Cmd

	// UpdateCount tracks how many times Update was called
	UpdateCount int
}

// NewTestRenderer creates a new test renderer.
func NewTestRenderer() *TestRenderer {
	return &TestRenderer{}
}

// Render renders a model and captures its output.
func (r *TestRenderer) Render(model tea.Model) string {
	r.Output = model.View()
	return r.Output
}

// Update sends a message to the model and captures the result.
func (r *TestRenderer) Update(model tea.Model, msg tea.Msg) (tea.Model, tea.Cmd) {
	r.UpdateCount++

	newModel, cmd := model.Update(msg)
	if cmd != nil {
		r.Commands = append(r.Commands, cmd)
	}
	r.Output = newModel.View()

	return newModel, cmd
}

// Collect executes commands and returns their messages, expanding batches.
// Cursor blink commands block for the blink interval, so callers should pass
// only the commands they care about.
func Collect(cmds ...tea.Cmd) []tea.Msg {
	var msgs []tea.Msg
	for _, cmd := range cmds {
		if cmd == nil {
			continue
		}
		switch msg := cmd().(type) {
		case nil:
		case tea.BatchMsg:
			msgs = append(msgs, Collect(msg...)...)
		default:
			msgs = append(msgs, msg)
		}
	}
	return msgs
}

// StripANSI removes ANSI escape codes from the output for content-only testing.
func (r *TestRenderer) StripANSI() string {
	return StripANSI(r.Output)
}
