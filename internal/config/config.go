package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Veraticus/fraudwatch/internal/common"
	"github.com/spf13/viper"
)

// Viper keys.
const (
	KeyModelPath  = "artifacts.model_path"
	KeyScalerPath = "artifacts.scaler_path"
	KeyTheme      = "ui.theme"
	KeyLogLevel   = "logging.level"
	KeyLogFormat  = "logging.format"
	KeyLogFile    = "logging.file"
)

// EnvPrefix prefixes every environment variable, e.g.
// FRAUDWATCH_ARTIFACTS_MODEL_PATH.
const EnvPrefix = "FRAUDWATCH"

var envKeyReplacer = strings.NewReplacer(".", "_")

// Defaults.
const (
	DefaultModel  = "fraud_detection_model.json"
	DefaultScaler = "fraud_scaler.json"
	DefaultTheme  = "default"

	defaultLogLevel  = "info"
	defaultLogFormat = "console"
	mochaTheme       = "catppuccin-mocha"
)

// Config holds everything needed to start the application.
type Config struct {
	ModelPath  string
	ScalerPath string
	Theme      string
	LogLevel   string
	LogFormat  string
	LogFile    string
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyModelPath, DefaultModel)
	v.SetDefault(KeyScalerPath, DefaultScaler)
	v.SetDefault(KeyTheme, DefaultTheme)
	v.SetDefault(KeyLogLevel, defaultLogLevel)
	v.SetDefault(KeyLogFormat, defaultLogFormat)
}

// BindEnv makes v read FRAUDWATCH_* environment variables.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()
}

// EnvVar returns the environment variable that overrides key.
func EnvVar(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(envKeyReplacer.Replace(key))
}

// Load reads the application configuration from v.
// Relative artifact paths written in the config file are resolved against the
// file's directory, so a config file can sit next to its artifacts. Paths from
// flags, the environment or defaults stay relative to the working directory.
// flagChanged reports whether a command-line flag set key; it may be nil.
func Load(v *viper.Viper, flagChanged func(key string) bool) (*Config, error) {
	fromFile := func(key string) bool {
		if v.ConfigFileUsed() == "" || !v.InConfig(key) {
			return false
		}
		if flagChanged != nil && flagChanged(key) {
			return false
		}
		return os.Getenv(EnvVar(key)) == ""
	}

	resolve := func(key string) string {
		baseDir := ""
		if fromFile(key) {
			baseDir = filepath.Dir(v.ConfigFileUsed())
		}
		return ResolvePath(v.GetString(key), baseDir)
	}

	cfg := &Config{
		ModelPath:  resolve(KeyModelPath),
		ScalerPath: resolve(KeyScalerPath),
		Theme:      v.GetString(KeyTheme),
		LogLevel:   v.GetString(KeyLogLevel),
		LogFormat:  v.GetString(KeyLogFormat),
		LogFile:    ExpandPath(v.GetString(KeyLogFile)),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that required settings are present and well-formed.
func (c *Config) Validate() error {
	if c.ModelPath == "" {
		return fmt.Errorf("%w: %s is required", common.ErrMissingConfig, KeyModelPath)
	}
	if c.ScalerPath == "" {
		return fmt.Errorf("%w: %s is required", common.ErrMissingConfig, KeyScalerPath)
	}

	switch c.Theme {
	case "", DefaultTheme, mochaTheme:
	default:
		return fmt.Errorf("%w: unknown theme %q", common.ErrInvalidConfig, c.Theme)
	}

	if _, err := common.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.LogFormat {
	case "", "console", "json":
	default:
		return fmt.Errorf("%w: invalid log format %q", common.ErrInvalidConfig, c.LogFormat)
	}

	return nil
}
