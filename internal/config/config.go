package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultDataDir       = ".gearbox"
	DefaultLogLevel      = "info"
	DefaultWatchInterval = 500 * time.Millisecond
	DefaultSweepWorkers  = 4
	EnvPrefix            = "GEARBOX"
)

type Config struct {
	DataDir  string       `mapstructure:"dataDir"`
	LogLevel string       `mapstructure:"logLevel"`
	Watch    WatchConfig  `mapstructure:"watch"`
	Sweep    SweepConfig  `mapstructure:"sweep"`
	Report   ReportConfig `mapstructure:"report"`
}

type WatchConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

type SweepConfig struct {
	Workers int `mapstructure:"workers"`
}

type ReportConfig struct {
	Color bool `mapstructure:"color"`
}

func DefaultConfig() *Config {
	return &Config{
		DataDir:  DefaultDataDir,
		LogLevel: DefaultLogLevel,
		Watch:    WatchConfig{Interval: DefaultWatchInterval},
		Sweep:    SweepConfig{Workers: DefaultSweepWorkers},
		Report:   ReportConfig{Color: true},
	}
}

func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("dataDir", d.DataDir)
	v.SetDefault("logLevel", d.LogLevel)
	v.SetDefault("watch.interval", d.Watch.Interval)
	v.SetDefault("sweep.workers", d.Sweep.Workers)
	v.SetDefault("report.color", d.Report.Color)
}

// Load reads configuration from path, falling back to defaults for missing
// keys. An empty path skips the file. GEARBOX_* environment variables
// override both.
func Load(path string) (*Config, error) {
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
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Watch.Interval <= 0 {
		return fmt.Errorf("watch.interval must be positive, got %v", c.Watch.Interval)
	}
	if c.Sweep.Workers < 1 {
		return fmt.Errorf("sweep.workers must be at least 1, got %d", c.Sweep.Workers)
	}
	return nil
}
