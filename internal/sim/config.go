package sim

import (
	"os"

	yaml "github.com/goccy/go-yaml"
)

// Config mirrors config.yml.
type Config struct {
	MaxTasks    int    `yaml:"max_tasks"`    // 16 (by default)
	MaxThreads  int    `yaml:"max_threads"`  // 8 (by default), per task
	AddressBits int    `yaml:"address_bits"` // 16 (by default); swap files are 2^address_bits bytes
	SwapDir     string `yaml:"swap_dir"`     // "/swap" (by default)
	TraceCSV    string `yaml:"trace_csv"`    // empty = no CSV trace log
}

// If the config file is not found, we use default values
func defaultConfig() Config {
	return Config{
		MaxTasks:    16,
		MaxThreads:  8,
		AddressBits: 16,
		SwapDir:     "/swap",
	}
}

// Load reads YAML and overrides defaults; empty path = defaults only
func Load(path string) Config {
	cfg := defaultConfig()

	if path == "" {
		return cfg
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}

	_ = yaml.Unmarshal(data, &cfg)

	// sanity clamps
	if cfg.MaxTasks <= 0 {
		cfg.MaxTasks = 16
	}
	if cfg.MaxThreads <= 0 {
		cfg.MaxThreads = 8
	}
	if cfg.AddressBits < 8 {
		cfg.AddressBits = 8
	} else if cfg.AddressBits > 30 {
		cfg.AddressBits = 30
	}
	if cfg.SwapDir == "" {
		cfg.SwapDir = "/swap"
	}

	return cfg
}
