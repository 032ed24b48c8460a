// Package config loads catalogcheck settings from an optional YAML file,
// CATALOGCHECK_* environment variables and command-line flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/text/language"
)

// DefaultFile is looked up in the working directory when no file is given.
const DefaultFile = "catalogcheck.yaml"

// EnvPrefix prefixes every environment variable, e.g. CATALOGCHECK_BASE_URL.
const EnvPrefix = "CATALOGCHECK"

// Config is the settings shared by the commands, merged from defaults, the
// config file, CATALOGCHECK_* variables and changed flags, in rising
// precedence.
type Config struct {
	BaseURL  string        `mapstructure:"base_url"`
	Timeout  time.Duration `mapstructure:"timeout"`
	Parallel int           `mapstructure:"parallel"`
	Strict   bool          `mapstructure:"strict"`
	Suite    string        `mapstructure:"suite"`
	Record   string        `mapstructure:"record"`
	Locale   string        `mapstructure:"locale"`
	Serve    Serve         `mapstructure:"serve"`
}

// Serve configures the reference catalog.
type Serve struct {
	Addr       string `mapstructure:"addr"`
	SortDefect bool   `mapstructure:"sort_defect"`
}

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"base-url":    "base_url",
	"timeout":     "timeout",
	"parallel":    "parallel",
	"strict":      "strict",
	"suite":       "suite",
	"record":      "record",
	"locale":      "locale",
	"addr":        "serve.addr",
	"sort-defect": "serve.sort_defect",
}

// Load reads configuration. An explicit path must exist; without one,
// catalogcheck.yaml in the working directory is read if present. Flags in
// flags that were set on the command line override everything else.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(strings.TrimSuffix(DefaultFile, ".yaml"))
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	if flags != nil {
		if err := bindFlags(v, flags); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &cfg, nil
}

// setDefaults sets default values using Viper
func setDefaults(v *viper.Viper) {
	v.SetDefault("base_url", "https://dummyjson.com")
	v.SetDefault("timeout", 15*time.Second)
	v.SetDefault("parallel", 1)
	v.SetDefault("strict", false)
	v.SetDefault("suite", "")
	v.SetDefault("record", "")
	v.SetDefault("locale", "en")
	v.SetDefault("serve.addr", "127.0.0.1:8080")
	v.SetDefault("serve.sort_defect", false)
}

// bindFlags binds the known flags present in flags.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag --%s: %w", name, err)
		}
	}
	return nil
}

// Validate checks the settings a run depends on.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("base_url %q: must be an absolute http or https URL", c.BaseURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.Parallel < 1 {
		return fmt.Errorf("parallel must be at least 1, got %d", c.Parallel)
	}
	if _, err := c.Tag(); err != nil {
		return err
	}
	return nil
}

// Tag parses Locale.
func (c *Config) Tag() (language.Tag, error) {
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return language.Und, fmt.Errorf("locale %q: %w", c.Locale, err)
	}
	return tag, nil
}
