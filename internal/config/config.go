package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Route source
	TablePath string
	Source    string // "auto", "procfs", "netlink"

	// Runtime
	CheckInterval time.Duration
	OneShot       bool
	StartDelay    time.Duration

	// Output
	OutputFormat string // "table", "json", "yaml", "procfs"
}

// fileConfig is the YAML layout of ROUTE6_CONFIG_FILE. Durations are
// strings so both "30" (seconds) and "30s" work, same as the env vars.
type fileConfig struct {
	TablePath     string `yaml:"table_path"`
	Source        string `yaml:"source"`
	CheckInterval string `yaml:"check_interval"`
	OneShot       *bool  `yaml:"oneshot"`
	StartDelay    string `yaml:"start_delay"`
	OutputFormat  string `yaml:"output_format"`
}

// Load builds the configuration from the optional YAML file named by
// ROUTE6_CONFIG_FILE, with environment variables taking precedence.
func Load() (Config, error) {
	var cfg Config

	if path := strings.TrimSpace(os.Getenv("ROUTE6_CONFIG_FILE")); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return Config{}, err
		}
	}

	cfg.TablePath = envDefault("ROUTE6_TABLE_PATH", cfg.TablePath)
	cfg.Source = envDefault("ROUTE6_SOURCE", defaultString(cfg.Source, "auto"))
	cfg.OutputFormat = envDefault("ROUTE6_OUTPUT_FORMAT", defaultString(cfg.OutputFormat, "table"))
	cfg.CheckInterval = envDurationDefault("CHECK_INTERVAL", cfg.CheckInterval)
	cfg.StartDelay = envDurationDefault("START_DELAY", cfg.StartDelay)
	cfg.OneShot = envBoolDefault("ONESHOT", cfg.OneShot)

	switch cfg.Source {
	case "auto", "procfs", "netlink":
	default:
		return Config{}, fmt.Errorf("ROUTE6_SOURCE must be auto, procfs or netlink, got %q", cfg.Source)
	}
	switch cfg.OutputFormat {
	case "table", "json", "yaml", "procfs":
	default:
		return Config{}, fmt.Errorf("ROUTE6_OUTPUT_FORMAT must be table, json, yaml or procfs, got %q", cfg.OutputFormat)
	}
	if cfg.CheckInterval < 0 {
		return Config{}, fmt.Errorf("CHECK_INTERVAL must be >= 0, got %s", cfg.CheckInterval)
	}

	return cfg, nil
}

func (cfg *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	cfg.TablePath = fc.TablePath
	cfg.Source = fc.Source
	cfg.OutputFormat = fc.OutputFormat
	if fc.OneShot != nil {
		cfg.OneShot = *fc.OneShot
	}
	if cfg.CheckInterval, err = durationValue(fc.CheckInterval); err != nil {
		return fmt.Errorf("config check_interval: %w", err)
	}
	if cfg.StartDelay, err = durationValue(fc.StartDelay); err != nil {
		return fmt.Errorf("config start_delay: %w", err)
	}
	return nil
}

func defaultString(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func durationValue(v string) (time.Duration, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, nil
	}
	if allDigits(v) {
		sec, _ := strconv.Atoi(v)
		return time.Duration(sec) * time.Second, nil
	}
	return time.ParseDuration(v)
}

func envDefault(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func envBoolDefault(key string, def bool) bool {
	v := strings.TrimSpace(strings.ToLower(os.Getenv(key)))
	if v == "" {
		return def
	}
	switch v {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func envDurationDefault(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := durationValue(v)
	if err != nil {
		return def
	}
	return d
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
