package main

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/five-vee/disruptor-spinwait/internal/logging"
	"github.com/five-vee/disruptor-spinwait/wait"
)

const envPrefix = "SPINWAIT"

// Config is the benchmark configuration.
type Config struct {
	Capacity     int64          `yaml:"capacity" mapstructure:"capacity"`
	Items        int            `yaml:"items" mapstructure:"items"`
	ReaderGroups int            `yaml:"reader_groups" mapstructure:"reader_groups"`
	GroupSize    int            `yaml:"group_size" mapstructure:"group_size"`
	Strategy     string         `yaml:"strategy" mapstructure:"strategy"`
	IdleTimeout  time.Duration  `yaml:"idle_timeout" mapstructure:"idle_timeout"`
	Logging      logging.Config `yaml:"logging" mapstructure:"logging"`
}

// ApplyDefaults applies default values to the configuration.
func (c *Config) ApplyDefaults() {
	if c.Capacity == 0 {
		c.Capacity = 1 << 12
	}
	if c.Items == 0 {
		c.Items = 1 << 20
	}
	if c.ReaderGroups == 0 {
		c.ReaderGroups = 1
	}
	if c.GroupSize == 0 {
		c.GroupSize = 1
	}
	if c.Strategy == "" {
		c.Strategy = "spin"
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = 50 * time.Millisecond
	}
	c.Logging.ApplyDefaults()
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Capacity <= 0 || c.Capacity&(c.Capacity-1) != 0 {
		return fmt.Errorf("capacity must be a positive power of two (got: %d)", c.Capacity)
	}
	if c.Items < 0 {
		return fmt.Errorf("items must not be negative (got: %d)", c.Items)
	}
	if c.ReaderGroups < 1 || c.GroupSize < 1 {
		return fmt.Errorf("reader_groups and group_size must be positive (got: %d, %d)", c.ReaderGroups, c.GroupSize)
	}
	if _, err := newStrategy(c.Strategy); err != nil {
		return err
	}
	if c.IdleTimeout < 0 {
		return fmt.Errorf("idle_timeout must not be negative (got: %s)", c.IdleTimeout)
	}
	return c.Logging.Validate()
}

func newStrategy(name string) (wait.Strategy, error) {
	switch strings.ToLower(name) {
	case "spin":
		return wait.NewSpinWait(), nil
	case "yield":
		return wait.Yielding{}, nil
	case "busy":
		return wait.BusySpin{}, nil
	}
	return nil, fmt.Errorf("strategy must be one of [spin, yield, busy] (got: %s)", name)
}

func registerFlags(flags *pflag.FlagSet) {
	flags.String("config", "", "path to a YAML config file")
	flags.String("env-file", ".env", "path to a .env file, ignored if missing")
	flags.String("strategy", "spin", "reader wait strategy: spin, yield or busy")
	flags.Int("items", 1<<20, "number of items to write")
}

// Load loads the configuration from, in increasing precedence, defaults,
// the config file, the environment (including the .env file) and flags.
func Load(flags *pflag.FlagSet) (Config, error) {
	envFile, _ := flags.GetString("env-file")
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	}

	v := viper.New()
	var defaults Config
	defaults.ApplyDefaults()
	v.SetDefault("capacity", defaults.Capacity)
	v.SetDefault("items", defaults.Items)
	v.SetDefault("reader_groups", defaults.ReaderGroups)
	v.SetDefault("group_size", defaults.GroupSize)
	v.SetDefault("strategy", defaults.Strategy)
	v.SetDefault("idle_timeout", defaults.IdleTimeout)
	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.format", defaults.Logging.Format)
	v.SetDefault("logging.output", defaults.Logging.Output)
	v.SetDefault("logging.no_color", false)
	v.SetDefault("logging.timestamp", true)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile, _ := flags.GetString("config"); configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}
	for _, name := range []string{"strategy", "items"} {
		if f := flags.Lookup(name); f != nil && f.Changed {
			if err := v.BindPFlag(name, f); err != nil {
				return Config{}, fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
