package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/viper"
	"pkt.systems/pslog"
)

// CurrentConfigVersion marks the supported config version.
const CurrentConfigVersion = 1

// EnvPrefix is the prefix of environment overrides, e.g. HXWIDGET_ENCODING_KEY.
const EnvPrefix = "HXWIDGET"

// Config is the top-level configuration.
type Config struct {
	ConfigVersion int            `mapstructure:"config_version" yaml:"config_version"`
	Encoding      EncodingConfig `mapstructure:"encoding" yaml:"encoding"`
	State         StateConfig    `mapstructure:"state" yaml:"state"`
	Logging       LoggingConfig  `mapstructure:"logging" yaml:"logging"`
}

// EncodingConfig controls frontend state tokens.
type EncodingConfig struct {
	Key       string `mapstructure:"key" yaml:"key"`
	Sensitive bool   `mapstructure:"sensitive" yaml:"sensitive"`
}

// StateConfig controls widget state reconciliation.
type StateConfig struct {
	StrictDecode bool `mapstructure:"strict_decode" yaml:"strict_decode"`
}

// LoggingConfig controls the logger.
type LoggingConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	Mode  string `mapstructure:"mode" yaml:"mode"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		ConfigVersion: CurrentConfigVersion,
		Logging: LoggingConfig{
			Level: "info",
			Mode:  "console",
		},
	}
}

// Load reads configuration from path. A missing file yields the defaults,
// still subject to environment overrides.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetDefault("config_version", cfg.ConfigVersion)
	v.SetDefault("encoding.key", cfg.Encoding.Key)
	v.SetDefault("encoding.sensitive", cfg.Encoding.Sensitive)
	v.SetDefault("state.strict_decode", cfg.State.StrictDecode)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.mode", cfg.Logging.Mode)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
				return Config{}, err
			}
		}
	}

	if v.GetInt("config_version") != CurrentConfigVersion {
		return Config{}, fmt.Errorf("unsupported config_version %d; expected %d", v.GetInt("config_version"), CurrentConfigVersion)
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	if err := validateLogging(cfg.Logging); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Logger builds a pslog logger writing to w according to the logging
// section.
func (c Config) Logger(w io.Writer) pslog.Logger {
	opts := pslog.Options{Mode: pslog.ModeConsole, MinLevel: pslog.InfoLevel}
	if normalize(c.Logging.Mode) == "structured" {
		opts.Mode = pslog.ModeStructured
		opts.NoColor = true
	}
	switch normalize(c.Logging.Level) {
	case "trace":
		opts.MinLevel = pslog.TraceLevel
	case "debug":
		opts.MinLevel = pslog.DebugLevel
	case "warn":
		opts.MinLevel = pslog.WarnLevel
	case "error":
		opts.MinLevel = pslog.ErrorLevel
	}
	return pslog.NewWithOptions(w, opts)
}

// EncodingKey returns the configured token key. The key must not be empty.
func (c Config) EncodingKey() ([]byte, error) {
	if c.Encoding.Key == "" {
		return nil, fmt.Errorf("encoding.key is required (or set %s_ENCODING_KEY)", EnvPrefix)
	}
	return []byte(c.Encoding.Key), nil
}

func validateLogging(cfg LoggingConfig) error {
	switch normalize(cfg.Level) {
	case "", "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unsupported logging.level %q", cfg.Level)
	}
	switch normalize(cfg.Mode) {
	case "", "console", "structured":
	default:
		return fmt.Errorf("unsupported logging.mode %q", cfg.Mode)
	}
	return nil
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
