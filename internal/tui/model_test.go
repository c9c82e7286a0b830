package tui

import (
	"context"
	"strings"
	"testing"

	"github.com/Veraticus/fraudwatch/internal/inference"
	"github.com/Veraticus/fraudwatch/internal/model"
	tuitesting "github.com/Veraticus/fraudwatch/internal/tui/testing"
	"github.com/Veraticus/fraudwatch/internal/tui/themes"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type passthroughScaler struct{}

func (passthroughScaler) Transform(pair [2]float64) ([2]float64, error) { return pair, nil }

// amountClassifier flags amounts above 100.
type amountClassifier struct{}

func (amountClassifier) Predict(rec model.Record) (model.Label, error) {
	if rec.Amount > 100 {
		return model.LabelFraud, nil
	}
	return model.LabelSafe, nil
}

func (amountClassifier) PredictProba(rec model.Record) ([2]float64, error) {
	if rec.Amount > 100 {
		return [2]float64{0.03, 0.97}, nil
	}
	return [2]float64{0.96, 0.04}, nil
}

// countingDetector records every input it scores.
type countingDetector struct {
	next   Detector
	inputs []string
}

func (d *countingDetector) Handle(input string) inference.Result {
	d.inputs = append(d.inputs, input)
	return d.next.Handle(input)
}

func newDetector(t *testing.T) *countingDetector {
	t.Helper()
	h, err := inference.NewHandler(passthroughScaler{}, amountClassifier{})
	require.NoError(t, err)
	return &countingDetector{next: h}
}

func vectorWithAmount(amount string) string {
	return strings.Repeat("0.5, ", model.FeatureCount-1) + amount
}

func newTestModel(d Detector) Model {
	return newModel(Config{
		Theme:    themes.Default,
		Detector: d,
		Width:    100,
		Height:   30,
	})
}

// detect presses enter and feeds the resulting messages back into the model.
func detect(t *testing.T, r *tuitesting.TestRenderer, m tea.Model) tea.Model {
	t.Helper()
	m, cmd := r.Update(m, tuitesting.KeyEnter())
	require.NotNil(t, cmd)
	require.True(t, m.(Model).pending)
	assert.Contains(t, r.StripANSI(), "Analyzing transaction...")

	for _, msg := range tuitesting.Collect(cmd) {
		m, _ = r.Update(m, msg)
	}
	require.False(t, m.(Model).pending)
	return m
}

func TestModel_InitialView(t *testing.T) {
	r := tuitesting.NewTestRenderer()
	out := tuitesting.StripANSI(r.Render(newTestModel(newDetector(t))))

	assert.True(t, tuitesting.ContainsInOrder(out,
		"Fraud Detection Terminal",
		"Transaction Features (V1, V2, ..., V28, Time, Amount)",
		"e.g., -1.35, 1.25, ..., 86400, 59.99",
		"Detect Fraud",
		"Detection Result",
		"No transaction analyzed yet.",
	))
}

func TestModel_DetectVerdicts(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantText []string
		severity model.Severity
		ok       bool
	}{
		{
			name:     "fraud",
			input:    vectorWithAmount("500"),
			wantText: []string{"FRAUD DETECTED", "Probability: 97.00%"},
			severity: model.SeverityAlert,
			ok:       true,
		},
		{
			name:     "safe",
			input:    vectorWithAmount("12.5"),
			wantText: []string{"Transaction Appears Safe", "Probability of Fraud: 4.00%"},
			severity: model.SeverityNormal,
			ok:       true,
		},
		{
			name:     "wrong count",
			input:    "1, 2, 3",
			wantText: []string{"Error: wrong feature count: expected 30, got 3"},
			severity: model.SeverityAlert,
		},
		{
			name:     "malformed",
			input:    vectorWithAmount("abc"),
			wantText: []string{"Error: malformed number"},
			severity: model.SeverityAlert,
		},
		{
			name:     "empty",
			input:    "",
			wantText: []string{"Error: missing input"},
			severity: model.SeverityAlert,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newDetector(t)
			r := tuitesting.NewTestRenderer()

			var m tea.Model = newTestModel(d)
			if tt.input != "" {
				m, _ = r.Update(m, tuitesting.KeyPress(tt.input))
			}
			m = detect(t, r, m)

			got := m.(Model)
			require.NotNil(t, got.result)
			assert.Equal(t, tt.ok, got.result.OK())
			assert.Equal(t, tt.severity, got.result.Severity)
			assert.Equal(t, []string{tt.input}, d.inputs)

			out := tuitesting.NormalizeWhitespace(r.StripANSI())
			for _, want := range tt.wantText {
				assert.Contains(t, out, want)
			}
			assert.NotContains(t, out, "No transaction analyzed yet.")
		})
	}
}

func TestModel_SameInputSameResult(t *testing.T) {
	d := newDetector(t)
	r := tuitesting.NewTestRenderer()

	var m tea.Model = newTestModel(d)
	m, _ = r.Update(m, tuitesting.KeyPress(vectorWithAmount("500")))
	m = detect(t, r, m)
	first := *m.(Model).result

	m = detect(t, r, m)
	second := *m.(Model).result

	assert.Equal(t, first, second)
	assert.Len(t, d.inputs, 2)
}

func TestModel_EnterWhilePendingIsIgnored(t *testing.T) {
	d := newDetector(t)
	r := tuitesting.NewTestRenderer()

	var m tea.Model = newTestModel(d)
	m, first := r.Update(m, tuitesting.KeyEnter())
	require.NotNil(t, first)

	m, second := r.Update(m, tuitesting.KeyEnter())
	assert.Nil(t, second)
	assert.True(t, m.(Model).pending)
}

func TestModel_FocusAndHelp(t *testing.T) {
	r := tuitesting.NewTestRenderer()
	var m tea.Model = newTestModel(newDetector(t))

	m, _ = r.Update(m, tuitesting.KeyTab())
	assert.Equal(t, FocusButton, m.(Model).focus)
	assert.NotContains(t, r.Output, "clear result")

	// '?' on the button toggles the full help.
	m, _ = r.Update(m, tuitesting.KeyPress("?"))
	assert.True(t, m.(Model).help.ShowAll)
	assert.Contains(t, r.StripANSI(), "clear result")

	m, _ = r.Update(m, tuitesting.KeyPress("?"))
	assert.False(t, m.(Model).help.ShowAll)

	// Other keys on the button are dropped.
	m, _ = r.Update(m, tuitesting.KeyPress("x"))
	assert.Empty(t, m.(Model).input.Value())

	m, _ = r.Update(m, tuitesting.KeyShiftTab())
	assert.Equal(t, FocusInput, m.(Model).focus)

	// '?' in the input is just text.
	m, _ = r.Update(m, tuitesting.KeyPress("?"))
	assert.Equal(t, "?", m.(Model).input.Value())
	assert.False(t, m.(Model).help.ShowAll)
}

func TestModel_EnterOnButtonDetects(t *testing.T) {
	d := newDetector(t)
	r := tuitesting.NewTestRenderer()

	var m tea.Model = newTestModel(d)
	m, _ = r.Update(m, tuitesting.KeyPress(vectorWithAmount("500")))
	m, _ = r.Update(m, tuitesting.KeyTab())
	m = detect(t, r, m)

	assert.Contains(t, r.StripANSI(), "FRAUD DETECTED")
	assert.Equal(t, FocusButton, m.(Model).focus)
}

func TestModel_ClearResult(t *testing.T) {
	r := tuitesting.NewTestRenderer()

	var m tea.Model = newTestModel(newDetector(t))
	m, _ = r.Update(m, tuitesting.KeyPress(vectorWithAmount("500")))
	m = detect(t, r, m)
	require.NotNil(t, m.(Model).result)

	m, _ = r.Update(m, tuitesting.KeyCtrlL())
	assert.Nil(t, m.(Model).result)
	assert.Contains(t, r.StripANSI(), "No transaction analyzed yet.")
	assert.Equal(t, vectorWithAmount("500"), m.(Model).input.Value())
}

func TestModel_ClearDropsInFlightResult(t *testing.T) {
	r := tuitesting.NewTestRenderer()

	var m tea.Model = newTestModel(newDetector(t))
	m, cmd := r.Update(m, tuitesting.KeyEnter())
	m, _ = r.Update(m, tuitesting.KeyCtrlL())

	for _, msg := range tuitesting.Collect(cmd) {
		m, _ = r.Update(m, msg)
	}

	assert.Nil(t, m.(Model).result)
	assert.False(t, m.(Model).pending)
}

func TestModel_Quit(t *testing.T) {
	for _, msg := range []tea.KeyMsg{tuitesting.KeyEsc(), tuitesting.KeyCtrlC()} {
		t.Run(msg.String(), func(t *testing.T) {
			r := tuitesting.NewTestRenderer()
			m, cmd := r.Update(newTestModel(newDetector(t)), msg)

			require.NotNil(t, cmd)
			assert.IsType(t, tea.QuitMsg{}, cmd())
			assert.Empty(t, m.View())
		})
	}
}

func TestModel_Resize(t *testing.T) {
	r := tuitesting.NewTestRenderer()

	m, _ := r.Update(newTestModel(newDetector(t)), tuitesting.WindowSize(140, 40))
	assert.Equal(t, 140-inputChrome, m.(Model).input.Width)

	m, _ = r.Update(m, tuitesting.WindowSize(10, 10))
	assert.Equal(t, minInputWidth, m.(Model).input.Width)
}

func TestModel_TypingSequence(t *testing.T) {
	r := tuitesting.NewTestRenderer()
	m := tuitesting.NewInputSequence().
		Type("1.5, 2").
		Apply(newTestModel(newDetector(t)), r)

	assert.Equal(t, "1.5, 2", m.(Model).input.Value())
}

func TestRun_RequiresDetector(t *testing.T) {
	err := Run(context.Background(), WithTheme(themes.CatppuccinMocha))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "detector is required")
}

func TestOptions(t *testing.T) {
	d := newDetector(t)
	cfg := defaultConfig()
	for _, opt := range []Option{
		WithDetector(d),
		WithTheme(themes.CatppuccinMocha),
		WithSize(120, 50),
		WithHelp(true),
	} {
		opt(&cfg)
	}

	assert.Equal(t, d, cfg.Detector)
	assert.Equal(t, themes.CatppuccinMocha.Primary, cfg.Theme.Primary)
	assert.Equal(t, 120, cfg.Width)
	assert.Equal(t, 50, cfg.Height)
	assert.True(t, newModel(cfg).help.ShowAll)
}
