// Package config loads host configuration from an optional YAML file and
// IMAGECLIP_* environment variables.
package config

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"
)

// Config carries every tunable of the host. All values have working
// defaults; the host runs with no config file at all.
type Config struct {
	// MaxEdge bounds the longest edge of re-encoded images, in pixels.
	MaxEdge int `mapstructure:"max_edge"`

	// FocusTimeoutMS bounds the focus-reacquisition poll after a context
	// menu dismissal.
	FocusTimeoutMS int `mapstructure:"focus_timeout_ms"`

	// SettleDelayMS is the fixed wait after raising focus before an eager
	// clipboard write.
	SettleDelayMS int `mapstructure:"settle_delay_ms"`

	// FetchTimeoutSeconds bounds each HTTP fetch attempt.
	FetchTimeoutSeconds int `mapstructure:"fetch_timeout_seconds"`

	// CookieHeader, when set, is sent on credentialed privileged-fetch
	// attempts.
	CookieHeader string `mapstructure:"cookie_header"`

	// Debug enables verbose stderr logging.
	Debug bool `mapstructure:"debug"`
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		MaxEdge:             2048,
		FocusTimeoutMS:      2000,
		SettleDelayMS:       300,
		FetchTimeoutSeconds: 30,
	}
}

// Load reads configuration from cfgFile (or the default search path when
// empty) and the environment. A missing config file is not an error.
func Load(cfgFile string) (*Config, error) {
	cfg := Default()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("imageclip")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(configDir())
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("IMAGECLIP")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func configDir() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "imageclip")
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "imageclip")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "imageclip")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "imageclip")
	}
}
