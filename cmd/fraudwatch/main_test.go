package main

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Veraticus/fraudwatch/internal/batch"
	"github.com/Veraticus/fraudwatch/internal/common"
	"github.com/Veraticus/fraudwatch/internal/config"
	"github.com/Veraticus/fraudwatch/internal/inference"
	"github.com/Veraticus/fraudwatch/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeArtifacts writes an identity scaler and a logistic model that looks
// only at Amount (z = 2*Amount - 1).
func writeArtifacts(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()

	coef := make([]float64, model.FeatureCount)
	coef[model.AmountIndex] = 2

	write := func(name string, v any) string {
		data, err := json.Marshal(v)
		require.NoError(t, err)
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, data, 0o600))
		return path
	}

	return &config.Config{
		ScalerPath: write("scaler.json", map[string]any{
			"kind":  "standard",
			"mean":  []float64{0, 0},
			"scale": []float64{1, 1},
		}),
		ModelPath: write("model.json", map[string]any{
			"kind":         "logistic_regression",
			"coefficients": coef,
			"intercept":    -1,
		}),
		Theme:     config.DefaultTheme,
		LogLevel:  "info",
		LogFormat: "console",
	}
}

func newTestHandler(t *testing.T) *inference.Handler {
	t.Helper()
	h, err := initHandler(writeArtifacts(t))
	require.NoError(t, err)
	return h
}

func vector(amount string) string {
	return strings.Repeat("0, ", model.FeatureCount-1) + amount
}

func TestInitHandler(t *testing.T) {
	h := newTestHandler(t)

	res := h.Handle(vector("0"))
	require.True(t, res.OK())
	assert.Equal(t, "✅ Transaction Appears Safe ✅\nProbability of Fraud: 26.89%", res.Text)
}

func TestInitHandler_MissingArtifacts(t *testing.T) {
	tests := []struct {
		mutate  func(*config.Config)
		name    string
		wantMsg string
	}{
		{
			name:    "missing scaler",
			mutate:  func(c *config.Config) { c.ScalerPath = filepath.Join(t.TempDir(), "nope.json") },
			wantMsg: "Could not load the scaler from",
		},
		{
			name:    "missing model",
			mutate:  func(c *config.Config) { c.ModelPath = filepath.Join(t.TempDir(), "nope.json") },
			wantMsg: "Could not load the model from",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := writeArtifacts(t)
			tt.mutate(cfg)

			_, err := initHandler(cfg)
			require.Error(t, err)
			assert.ErrorIs(t, err, common.ErrArtifactNotFound)
			assert.Contains(t, common.UserMessage(err), tt.wantMsg)
		})
	}
}

func TestRunCheck(t *testing.T) {
	h := newTestHandler(t)

	tests := []struct {
		wantErr  error
		name     string
		stdin    string
		wantOut  string
		args     []string
		succeeds bool
	}{
		{
			name:     "fraud from argument",
			args:     []string{vector("500")},
			wantOut:  "FRAUD DETECTED",
			succeeds: true,
		},
		{
			name:     "safe from stdin",
			stdin:    vector("0") + "\n",
			wantOut:  "Probability of Fraud: 26.89%",
			succeeds: true,
		},
		{
			name:    "wrong count",
			args:    []string{"1, 2, 3"},
			wantOut: "Error: wrong feature count: expected 30, got 3",
			wantErr: inference.ErrWrongFeatureCount,
		},
		{
			name:    "empty stdin",
			wantOut: "Error: missing input",
			wantErr: inference.ErrMissingInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := runCheck(context.Background(), h, tt.args, strings.NewReader(tt.stdin), &out)

			assert.Contains(t, out.String(), tt.wantOut)
			if tt.succeeds {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCheckCmd_NegativeFirstFeature(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	cfg := writeArtifacts(t)
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("ui:\n  theme: default\n"), 0o600))

	features := "-1.36, " + vector("500")[len("0, "):]
	globals := []string{"--config", cfgPath, "--model", cfg.ModelPath, "--scaler", cfg.ScalerPath}

	execute := func(args ...string) (string, error) {
		var out bytes.Buffer
		rootCmd.SetOut(&out)
		rootCmd.SetErr(&out)
		rootCmd.SetArgs(args)
		t.Cleanup(func() {
			rootCmd.SetOut(nil)
			rootCmd.SetErr(nil)
			rootCmd.SetArgs(nil)
		})
		err := rootCmd.Execute()
		return out.String(), err
	}

	t.Run("after --", func(t *testing.T) {
		out, err := execute(append(append([]string{"check"}, globals...), "--", features)...)
		require.NoError(t, err)
		assert.Contains(t, out, "FRAUD DETECTED")
	})

	t.Run("without -- suggests it", func(t *testing.T) {
		out, err := execute(append(append([]string{"check"}, globals...), features)...)
		require.Error(t, err)
		assert.NotContains(t, out, "FRAUD DETECTED")
		assert.Contains(t, common.UserMessage(err), "must follow --")
		assert.Contains(t, err.Error(), "unknown shorthand flag")
	})
}

func TestRunBatch(t *testing.T) {
	h := newTestHandler(t)
	input := strings.Join([]string{
		"# header comment",
		vector("500"),
		vector("0"),
		"not,a,vector",
	}, "\n")

	var out bytes.Buffer
	err := runBatch(context.Background(), batch.NewRunner(h, &out, nil), strings.NewReader(input), &out)
	require.NoError(t, err)

	got := out.String()
	assert.Contains(t, got, "line 2 [alert] 🚨 FRAUD DETECTED 🚨 | Probability: 100.00%")
	assert.Contains(t, got, "line 3 [normal]")
	assert.Contains(t, got, "line 4 [alert] Error: malformed number")
	assert.Contains(t, got, "Batch Summary")
	assert.Contains(t, got, "Total:  3")
	assert.Contains(t, got, "Fraud:  1")
	assert.Contains(t, got, "Failed: 1")
	assert.Contains(t, got, "1 of 3 transactions could not be scored")
}

func TestRunBatch_Canceled(t *testing.T) {
	h := newTestHandler(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	err := runBatch(ctx, batch.NewRunner(h, &out, nil), strings.NewReader(vector("1")), &out)
	require.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, out.String(), "Total:  0")
}

func TestOpenInput(t *testing.T) {
	stdin := strings.NewReader("from stdin")
	in, closeIn, err := openInput("-", stdin)
	require.NoError(t, err)
	defer closeIn()
	assert.Same(t, stdin, in)

	path := filepath.Join(t.TempDir(), "batch.txt")
	require.NoError(t, os.WriteFile(path, []byte(vector("1")), 0o600))
	_, closeFile, err := openInput(path, stdin)
	require.NoError(t, err)
	closeFile()

	_, _, err = openInput(filepath.Join(t.TempDir(), "missing.txt"), stdin)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRedirectLogs(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	cfg := writeArtifacts(t)
	cfg.LogLevel = "debug"
	cfg.LogFile = filepath.Join(t.TempDir(), "fraudwatch.log")

	closeLog, err := redirectLogs(cfg)
	require.NoError(t, err)
	slog.Debug("scored from the terminal")
	closeLog()

	data, err := os.ReadFile(cfg.LogFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "scored from the terminal")

	cfg.LogFile = ""
	closeLog, err = redirectLogs(cfg)
	require.NoError(t, err)
	closeLog()
}

func TestVersionCmd(t *testing.T) {
	cmd := versionCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "fraudwatch version dev\n", out.String())
}
