package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/iw2rmb/tokenweave/engine"
)

// Config is the demo configuration, read from YAML, flags and
// TOKENWEAVE_* environment variables.
type Config struct {
	Value        string            `mapstructure:"value"`
	Multiline    bool              `mapstructure:"multiline"`
	Placeholder  string            `mapstructure:"placeholder"`
	PortalAnchor string            `mapstructure:"portal_anchor"`
	HistoryLimit int               `mapstructure:"history_limit"`
	IdleTimeout  time.Duration     `mapstructure:"idle_timeout"`
	Users        map[string]string `mapstructure:"users"`
}

func defaultConfig() Config {
	return Config{
		Value:        "Hello @al, try typing #tags or @an then Tab.",
		Multiline:    true,
		Placeholder:  "Type something...",
		PortalAnchor: engine.AnchorSelection.String(),
		HistoryLimit: 200,
		IdleTimeout:  800 * time.Millisecond,
		Users: map[string]string{
			"al":    "Alice",
			"alice": "Alice Liddell",
			"anna":  "Anna",
			"bob":   "Bob",
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := defaultConfig()
	v.SetDefault("value", d.Value)
	v.SetDefault("multiline", d.Multiline)
	v.SetDefault("placeholder", d.Placeholder)
	v.SetDefault("portal_anchor", d.PortalAnchor)
	v.SetDefault("history_limit", d.HistoryLimit)
	v.SetDefault("idle_timeout", d.IdleTimeout)
	v.SetDefault("users", d.Users)
}

// loadConfig reads cfgFile, or ~/.config/tokenweave/config.yaml when empty.
// A missing default file is not an error.
func loadConfig(v *viper.Viper, cfgFile string) (Config, error) {
	setDefaults(v)
	v.SetEnvPrefix("tokenweave")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, _ := os.UserHomeDir()
		v.AddConfigPath(filepath.Join(home, ".config", "tokenweave"))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if _, ok := engine.ParsePortalAnchor(cfg.PortalAnchor); !ok {
		return Config{}, fmt.Errorf("invalid portal_anchor %q", cfg.PortalAnchor)
	}
	return cfg, nil
}

func (c Config) anchor() engine.PortalAnchor {
	a, _ := engine.ParsePortalAnchor(c.PortalAnchor)
	return a
}

// directory answers mention lookups from the users table.
type directory map[string]string

var errUnknownUser = errors.New("unknown user")

func (d directory) name(handle string) (string, error) {
	name, ok := d[handle]
	if !ok {
		return "", fmt.Errorf("%w: %s", errUnknownUser, handle)
	}
	return name, nil
}

func (d directory) candidates(prefix string) []string {
	var out []string
	for h := range d {
		if strings.HasPrefix(h, prefix) {
			out = append(out, h)
		}
	}
	sort.Strings(out)
	return out
}
