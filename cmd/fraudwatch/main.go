package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Veraticus/fraudwatch/internal/cli"
	"github.com/Veraticus/fraudwatch/internal/common"
	"github.com/Veraticus/fraudwatch/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	version = "dev"

	// flagKeys maps viper keys to the global flags bound to them.
	flagKeys = map[string]string{
		config.KeyLogLevel:   "log-level",
		config.KeyLogFormat:  "log-format",
		config.KeyModelPath:  "model",
		config.KeyScalerPath: "scaler",
		config.KeyTheme:      "theme",
	}

	rootCmd = &cobra.Command{
		Use:   "fraudwatch",
		Short: cli.ShieldIcon + "  Credit card fraud detection terminal",
		Long: `fraudwatch scores credit card transactions with a pre-trained model.

Paste the 30 features of a transaction (V1..V28, Time, Amount) into the
terminal UI, or score them from scripts with the check and batch commands.`,
		PersistentPreRunE: initConfig,
		SilenceUsage:      true,
		SilenceErrors:     true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDetect(cmd)
		},
	}
)

func init() {
	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: $HOME/.config/fraudwatch/config.yaml)")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("log-format", "console", "log format (console, json)")
	flags.String("model", "", "path to the classifier artifact (default: "+config.DefaultModel+")")
	flags.String("scaler", "", "path to the scaler artifact (default: "+config.DefaultScaler+")")
	flags.String("theme", "", "TUI theme (default, catppuccin-mocha)")

	// Bind flags to viper
	for key, name := range flagKeys {
		_ = viper.BindPFlag(key, flags.Lookup(name))
	}

	config.SetDefaults(viper.GetViper())

	// Add commands
	rootCmd.AddCommand(detectCmd())
	rootCmd.AddCommand(checkCmd())
	rootCmd.AddCommand(batchCmd())
	rootCmd.AddCommand(versionCmd())
}

func main() {
	// Set up signal handling
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		slog.Info("Received interrupt signal, shutting down gracefully...")
		cancel()
	}()

	err := rootCmd.ExecuteContext(ctx)
	cancel() // Always cleanup

	if err != nil {
		msg := common.UserMessage(err)
		fmt.Fprintln(os.Stderr, cli.FormatError(msg))
		if detail := err.Error(); detail != msg {
			fmt.Fprintln(os.Stderr, cli.SubtleStyle.Render(detail))
		}
		os.Exit(1)
	}
}

func initConfig(_ *cobra.Command, _ []string) error {
	// Set up config file
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}

		// Search for config in standard locations
		viper.AddConfigPath(fmt.Sprintf("%s/.config/fraudwatch", home))
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	// Environment variables: FRAUDWATCH_ARTIFACTS_MODEL_PATH and friends
	config.BindEnv(viper.GetViper())

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, we'll use defaults
	}

	if err := setupLogging(); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	return nil
}

func setupLogging() error {
	level, err := common.ParseLevel(viper.GetString(config.KeyLogLevel))
	if err != nil {
		return err
	}
	return common.SetupLogger(os.Stderr, level, viper.GetString(config.KeyLogFormat))
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "fraudwatch version %s\n", version)
		},
	}
}
