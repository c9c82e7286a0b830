package main

import (
	"fmt"
	"log/slog"

	"github.com/Veraticus/fraudwatch/internal/artifact"
	"github.com/Veraticus/fraudwatch/internal/common"
	"github.com/Veraticus/fraudwatch/internal/config"
	"github.com/Veraticus/fraudwatch/internal/inference"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// loadConfig reads the application configuration from the global viper.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	flagChanged := func(key string) bool {
		name, ok := flagKeys[key]
		return ok && cmd.Flags().Changed(name)
	}

	cfg, err := config.Load(viper.GetViper(), flagChanged)
	if err != nil {
		return nil, common.NewUserError("Invalid configuration", err)
	}
	return cfg, nil
}

// initHandler loads both artifacts and builds the shared handler. Any failure
// here stops the process before the UI starts.
func initHandler(cfg *config.Config) (*inference.Handler, error) {
	scaler, err := artifact.LoadScaler(cfg.ScalerPath)
	if err != nil {
		return nil, common.NewUserError(fmt.Sprintf("Could not load the scaler from %s", cfg.ScalerPath), err)
	}

	classifier, err := artifact.LoadClassifier(cfg.ModelPath)
	if err != nil {
		return nil, common.NewUserError(fmt.Sprintf("Could not load the model from %s", cfg.ModelPath), err)
	}

	handler, err := inference.NewHandler(scaler, classifier)
	if err != nil {
		return nil, fmt.Errorf("failed to create handler: %w", err)
	}

	slog.Debug("Loaded artifacts",
		"model", cfg.ModelPath,
		"scaler", cfg.ScalerPath,
		"scaler_kind", scaler.Kind)

	return handler, nil
}
