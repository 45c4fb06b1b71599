// Package config loads Nexus runtime configuration from a TOML file and
// environment variables, exposing typed structs and accessors for all sections.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// Config is the runtime configuration loaded from defaults and config.toml.
type Config struct {
	// HomeDir is runtime-resolved from NEXUS_HOME and not read from config.
	HomeDir  string                   `mapstructure:"-"`
	Identity IdentityConfig           `mapstructure:"identity"`
	Channels map[string]ChannelConfig `mapstructure:"channels"`
	Web      WebConfig                `mapstructure:"web"`
	System   SystemConfig             `mapstructure:"system"`
	History  HistoryConfig            `mapstructure:"history"`
}

// IdentityConfig holds the default user and bot display names. They seed the
// profile on first run; renames made in conversation persist in the profile,
// not here.
type IdentityConfig struct {
	UserName string `mapstructure:"user_name"`
	BotName  string `mapstructure:"bot_name"`
}

// ChannelConfig configures one inbound/outbound channel.
type ChannelConfig struct {
	Enabled      bool     `mapstructure:"enabled"`
	Token        string   `mapstructure:"token"`
	AllowedUsers []string `mapstructure:"allowed_users"`
}

// WebConfig configures built-in web behavior.
type WebConfig struct {
	Search WebSearchConfig `mapstructure:"search"`
}

// WebSearchConfig configures the web search capability.
type WebSearchConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Provider string `mapstructure:"provider"`
	APIKey   string `mapstructure:"api_key"`
}

// SystemConfig holds OS capability defaults and the background refresh cadence.
type SystemConfig struct {
	Volume         int           `mapstructure:"volume"`
	Brightness     int           `mapstructure:"brightness"`
	MonitorRefresh time.Duration `mapstructure:"monitor_refresh"`
}

// HistoryConfig controls chat transcript retention.
type HistoryConfig struct {
	RecentLimit int `mapstructure:"recent_limit"`
}

var defaultConfig = Config{
	Identity: IdentityConfig{
		UserName: "User",
		BotName:  "Nexus",
	},
	Channels: map[string]ChannelConfig{
		"cli": {
			Enabled: true,
		},
		"telegram": {
			Enabled: false,
			Token:   "",
		},
	},
	Web: WebConfig{
		Search: WebSearchConfig{
			Enabled:  false,
			Provider: "brave",
			APIKey:   "",
		},
	},
	System: SystemConfig{
		Volume:         70,
		Brightness:     80,
		MonitorRefresh: time.Minute,
	},
	History: HistoryConfig{
		RecentLimit: 10,
	},
}

// HomeDir returns the Nexus home directory.
// Uses NEXUS_HOME env var if set, otherwise defaults to ~/.nexus.
func HomeDir() (string, error) {
	if dir := os.Getenv("NEXUS_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return defaultHomePath(home), nil
}

// Load merges hardcoded defaults and config file values in that order.
// Config is always at $NEXUS_HOME/config.toml.
func Load() (*Config, error) {
	homeDir, err := HomeDir()
	if err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(homeConfigPath(homeDir))
	v.SetConfigType("toml")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	decodeHook := mapstructure.ComposeDecodeHookFunc(
		expandEnvStringHook(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)

	if err := v.Unmarshal(&cfg, func(c *mapstructure.DecoderConfig) {
		c.DecodeHook = decodeHook
	}); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.HomeDir = homeDir

	return &cfg, nil
}

// Write renders the merged configuration (defaults plus config file) as TOML.
func Write(w io.Writer) error {
	if w == nil {
		return errors.New("writer is required")
	}

	homeDir, err := HomeDir()
	if err != nil {
		return err
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(homeConfigPath(homeDir))
	v.SetConfigType("toml")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("read config file: %w", err)
		}
	}

	// Keep duration fields human-readable in generated TOML.
	v.Set("system.monitor_refresh", v.GetDuration("system.monitor_refresh").String())

	if err := v.WriteConfigTo(w); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// DefaultTOML renders the bootstrap user config as TOML.
func DefaultTOML() (string, error) {
	v := viper.New()
	v.SetConfigType("toml")

	v.Set("identity.user_name", defaultConfig.Identity.UserName)
	v.Set("identity.bot_name", defaultConfig.Identity.BotName)
	for channel, ch := range defaultConfig.Channels {
		v.Set("channels."+channel+".enabled", ch.Enabled)
		if channel == "telegram" {
			v.Set("channels."+channel+".token", ch.Token)
			v.Set("channels."+channel+".allowed_users", []string{})
		}
	}
	v.Set("web.search.enabled", defaultConfig.Web.Search.Enabled)
	v.Set("web.search.provider", defaultConfig.Web.Search.Provider)
	v.Set("web.search.api_key", defaultConfig.Web.Search.APIKey)
	v.Set("system.volume", defaultConfig.System.Volume)
	v.Set("system.brightness", defaultConfig.System.Brightness)
	v.Set("system.monitor_refresh", defaultConfig.System.MonitorRefresh.String())
	v.Set("history.recent_limit", defaultConfig.History.RecentLimit)

	var out bytes.Buffer
	if err := v.WriteConfigTo(&out); err != nil {
		return "", fmt.Errorf("write default config: %w", err)
	}
	return out.String(), nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("identity.user_name", defaultConfig.Identity.UserName)
	v.SetDefault("identity.bot_name", defaultConfig.Identity.BotName)

	v.SetDefault("channels.cli.enabled", defaultConfig.Channels["cli"].Enabled)
	v.SetDefault("channels.telegram.enabled", defaultConfig.Channels["telegram"].Enabled)
	v.SetDefault("channels.telegram.token", defaultConfig.Channels["telegram"].Token)

	v.SetDefault("web.search.enabled", defaultConfig.Web.Search.Enabled)
	v.SetDefault("web.search.provider", defaultConfig.Web.Search.Provider)
	v.SetDefault("web.search.api_key", defaultConfig.Web.Search.APIKey)

	v.SetDefault("system.volume", defaultConfig.System.Volume)
	v.SetDefault("system.brightness", defaultConfig.System.Brightness)
	v.SetDefault("system.monitor_refresh", defaultConfig.System.MonitorRefresh)

	v.SetDefault("history.recent_limit", defaultConfig.History.RecentLimit)
}

// CLIChannel returns CLI channel config with fallback defaults.
func (c *Config) CLIChannel() ChannelConfig {
	if ch, ok := c.Channels["cli"]; ok {
		return ch
	}
	return defaultConfig.Channels["cli"]
}

// TelegramChannel returns Telegram channel config with fallback defaults.
func (c *Config) TelegramChannel() ChannelConfig {
	if ch, ok := c.Channels["telegram"]; ok {
		return ch
	}
	return defaultConfig.Channels["telegram"]
}

// Validate checks required channel fields when the channel is enabled.
func (c ChannelConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	return nil
}

// Validate checks web search settings.
func (c WebSearchConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Provider == "" {
		return errors.New("provider is required when enabled=true")
	}
	if c.APIKey == "" {
		return errors.New("api_key is required when enabled=true")
	}
	return nil
}

// Validate checks system defaults are percentages.
func (c SystemConfig) Validate() error {
	if c.Volume < 0 || c.Volume > 100 {
		return fmt.Errorf("volume %d out of range [0,100]", c.Volume)
	}
	if c.Brightness < 0 || c.Brightness > 100 {
		return fmt.Errorf("brightness %d out of range [0,100]", c.Brightness)
	}
	if c.MonitorRefresh <= 0 {
		return errors.New("monitor_refresh must be > 0")
	}
	return nil
}

// Validate checks history retention settings.
func (c HistoryConfig) Validate() error {
	if c.RecentLimit <= 0 {
		return errors.New("recent_limit must be > 0")
	}
	return nil
}

// Validate validates startup configuration and returns the first fatal error.
func (cfg *Config) Validate() error {
	var errs []error

	if len(cfg.Channels) == 0 {
		errs = append(errs, errors.New("at least one channels.* entry is required"))
	}
	tg := cfg.TelegramChannel()
	if tg.Enabled && tg.Token == "" {
		errs = append(errs, errors.New("channels.telegram: token is required when enabled=true"))
	}

	if err := cfg.Web.Search.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("web.search: %w", err))
	}
	if err := cfg.System.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("system: %w", err))
	}
	if err := cfg.History.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("history: %w", err))
	}
	for name, chCfg := range cfg.Channels {
		if err := chCfg.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("channels.%s: %w", name, err))
		}
	}

	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}

func expandEnvStringHook() mapstructure.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if from.Kind() != reflect.String || to.Kind() != reflect.String {
			return data, nil
		}
		value, ok := data.(string)
		if !ok {
			return data, nil
		}
		return os.ExpandEnv(value), nil
	}
}
