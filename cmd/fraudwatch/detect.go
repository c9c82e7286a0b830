package main

import (
	"fmt"
	"io"

	"github.com/Veraticus/fraudwatch/internal/common"
	"github.com/Veraticus/fraudwatch/internal/config"
	"github.com/Veraticus/fraudwatch/internal/tui"
	"github.com/Veraticus/fraudwatch/internal/tui/themes"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func detectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "detect",
		Short: "Open the interactive fraud detection terminal",
		Long: `Open the fraud detection terminal. Paste the comma-separated features of a
transaction into the input, then press Enter or the Detect Fraud button.

This is also what runs when fraudwatch is started without a command.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDetect(cmd)
		},
	}
}

func runDetect(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	handler, err := initHandler(cfg)
	if err != nil {
		return err
	}

	closeLog, err := redirectLogs(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	err = tui.Run(cmd.Context(),
		tui.WithDetector(handler),
		tui.WithTheme(themes.GetTheme(cfg.Theme)),
	)
	if err != nil {
		common.LogError(err, "Fraud detection terminal exited", common.Fields{"theme": cfg.Theme})
	}
	return err
}

// redirectLogs keeps log output off the terminal while the UI owns it.
// Logs go to logging.file when set and are discarded otherwise.
func redirectLogs(cfg *config.Config) (func(), error) {
	level, err := common.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	if cfg.LogFile == "" {
		return func() {}, common.SetupLogger(io.Discard, level, cfg.LogFormat)
	}

	f, err := tea.LogToFile(cfg.LogFile, "fraudwatch")
	if err != nil {
		return nil, common.NewUserError(fmt.Sprintf("Could not open log file %s", cfg.LogFile), err)
	}
	if err := common.SetupLogger(f, level, cfg.LogFormat); err != nil {
		_ = f.Close()
		return nil, err
	}
	return func() { _ = f.Close() }, nil
}
