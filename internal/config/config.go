// Package config loads the command line front end configuration: a YAML
// file with ${VAR} expansion, optional .env files and the MKD_FLAGS
// environment variable.
package config

import (
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/mkd/internal/flags"
	"git.home.luguber.info/inful/mkd/internal/foundation/errors"
	"git.home.luguber.info/inful/mkd/internal/logfields"
)

// FlagsEnv names the environment variable whose flag list is appended to
// the configured flags.
const FlagsEnv = "MKD_FLAGS"

// Config is the front end configuration.
type Config struct {
	// Flags lists flag names in the syntax accepted by flags.Set.SetString.
	Flags       []string  `yaml:"flags"`
	Dialect     Dialect   `yaml:"dialect"`
	TabStop     int       `yaml:"tabstop"`
	Output      Output    `yaml:"output"`
	Base        string    `yaml:"base"`
	RefPrefix   string    `yaml:"ref_prefix"`
	HTML5       bool      `yaml:"html5"`
	MetricsFile string    `yaml:"metrics_file"`
	Log         LogConfig `yaml:"log"`
}

// LogConfig selects the stderr log handler.
type LogConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Dialect: DialectMarkdown,
		TabStop: DefaultTabStop,
		Output:  OutputHTML,
		Log:     LogConfig{Level: LogLevelInfo, Format: LogFormatText},
	}
}

// Load reads the configuration at path. An empty path yields the defaults.
// In both cases .env files are loaded first and MKD_FLAGS is appended to
// the flag list.
func Load(path string) (*Config, error) {
	for _, f := range loadEnvFiles() {
		slog.Debug("Loaded environment file", logfields.Path(f))
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.WrapError(err, errors.CategoryConfig, "read configuration").
				WithContext("path", path).
				Build()
		}
		if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
			return nil, errors.WrapError(err, errors.CategoryConfig, "parse configuration").
				WithContext("path", path).
				Build()
		}
	}

	if env := strings.TrimSpace(os.Getenv(FlagsEnv)); env != "" {
		cfg.Flags = append(cfg.Flags, env)
	}

	res := Normalize(cfg)
	for _, w := range res.Warnings {
		slog.Warn("Configuration normalized", slog.String("detail", w))
	}
	return cfg, nil
}

// FlagSet builds the option set from the flag list. The first unknown name
// is reported as an option error.
func (c *Config) FlagSet() (*flags.Set, error) {
	f := flags.New()
	if bad := f.SetString(strings.Join(c.Flags, ",")); bad != "" {
		return f, errors.OptionError("unknown flag").WithContext("flag", bad).Build()
	}
	return f, nil
}
