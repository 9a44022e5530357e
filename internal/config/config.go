package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// Interactive decisions
	MaxAttempts     int    `mapstructure:"max_attempts" yaml:"max_attempts"`
	OfferKeep       bool   `mapstructure:"offer_keep" yaml:"offer_keep"`
	MeanRounding    string `mapstructure:"mean_rounding" yaml:"mean_rounding"`
	HeaderCollision string `mapstructure:"header_collision" yaml:"header_collision"`

	// Input and output
	EnforceCSVExtension bool     `mapstructure:"enforce_csv_extension" yaml:"enforce_csv_extension"`
	NullMarkers         []string `mapstructure:"null_markers" yaml:"null_markers"`
	Delimiter           string   `mapstructure:"delimiter" yaml:"delimiter"`
	DecimalSeparator    string   `mapstructure:"decimal_separator" yaml:"decimal_separator"`
	SheetName           string   `mapstructure:"sheet_name" yaml:"sheet_name"`
	OutputSuffix        string   `mapstructure:"output_suffix" yaml:"output_suffix"`

	// Run log
	LogFile    string `mapstructure:"log_file" yaml:"log_file"`
	LogConsole bool   `mapstructure:"log_console" yaml:"log_console"`
	LogFormat  string `mapstructure:"log_format" yaml:"log_format"`
	LogLevel   string `mapstructure:"log_level" yaml:"log_level"`
}

// configDir returns ~/.tidycsv.
func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".tidycsv"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.tidycsv/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		dir, err := configDir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (applied by the caller) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("TIDYCSV")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("max_attempts", 3)
	v.SetDefault("offer_keep", true)
	v.SetDefault("mean_rounding", "two_decimal")
	v.SetDefault("header_collision", "fail")
	v.SetDefault("enforce_csv_extension", false)
	v.SetDefault("null_markers", []string{"", "NA", "N/A", "n/a", "NaN", "nan", "null", "NULL", "None", "#N/A"})
	v.SetDefault("delimiter", "")
	v.SetDefault("decimal_separator", ".")
	v.SetDefault("sheet_name", "")
	v.SetDefault("output_suffix", "-clean")
	// Run log defaults
	v.SetDefault("log_file", filepath.Join("logs", "tidycsv.log"))
	v.SetDefault("log_console", true)
	v.SetDefault("log_format", "console")
	v.SetDefault("log_level", "info")

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := configDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}
