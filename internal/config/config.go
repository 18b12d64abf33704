// Package config provides YAML-based configuration loading and
// difficulty management for Realm Rescue.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the top-level application configuration.
type Config struct {
	Simulation SimulationConfig `yaml:"simulation"`
	Storage    StorageConfig    `yaml:"storage"`
	Levels     LevelsConfig     `yaml:"levels"`
	Oracle     OracleConfig     `yaml:"oracle"`
	Log        LogConfig        `yaml:"log"`
	Player     PlayerConfig     `yaml:"player"`
	Server     ServerConfig     `yaml:"server"`
}

// SimulationConfig controls the resolution tick loop.
type SimulationConfig struct {
	TickDelay time.Duration `yaml:"tick_delay"` // Delay between a change and the next resolution step
	MaxSteps  int           `yaml:"max_steps"`  // Step cap for headless runs
}

// StorageConfig defines where progress is persisted.
type StorageConfig struct {
	DBPath string `yaml:"db_path"`
}

// LevelsConfig points at extra YAML level packs.
type LevelsConfig struct {
	Dir string `yaml:"dir"` // Empty means built-in levels only
}

// OracleConfig configures the advisory hint service.
type OracleConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Model     string        `yaml:"model"`
	APIKeyEnv string        `yaml:"api_key_env"` // Environment variable holding the API key
	BaseURL   string        `yaml:"base_url"`    // Optional OpenAI-compatible endpoint
	Timeout   time.Duration `yaml:"timeout"`
}

// LogConfig controls logging output.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// PlayerConfig holds local player defaults.
type PlayerConfig struct {
	Name       string     `yaml:"name"`
	Difficulty Difficulty `yaml:"difficulty"`
	EnergyCost int        `yaml:"energy_cost"` // Energy spent per level start; 0 disables energy
}

// ServerConfig defines the SSH server defaults.
type ServerConfig struct {
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	HostKeyPath string `yaml:"host_key_path"`
}

// Validate checks the configuration and reports every violation at once.
func (c Config) Validate() error {
	var errs []string

	if c.Simulation.TickDelay <= 0 {
		errs = append(errs, fmt.Sprintf("simulation.tick_delay must be > 0, got %s", c.Simulation.TickDelay))
	}
	if c.Simulation.MaxSteps < 1 {
		errs = append(errs, fmt.Sprintf("simulation.max_steps must be >= 1, got %d", c.Simulation.MaxSteps))
	}
	if strings.TrimSpace(c.Storage.DBPath) == "" {
		errs = append(errs, "storage.db_path must not be empty")
	}
	if c.Oracle.Enabled {
		if c.Oracle.Model == "" {
			errs = append(errs, "oracle.model must not be empty when the oracle is enabled")
		}
		if c.Oracle.Timeout <= 0 {
			errs = append(errs, fmt.Sprintf("oracle.timeout must be > 0, got %s", c.Oracle.Timeout))
		}
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("log.level must be one of [debug, info, warn, error], got %q", c.Log.Level))
	}
	if strings.TrimSpace(c.Player.Name) == "" {
		errs = append(errs, "player.name must not be empty")
	}
	if _, ok := ParseDifficulty(string(c.Player.Difficulty)); !ok {
		errs = append(errs, fmt.Sprintf("player.difficulty must be one of [easy, normal, hard], got %q", c.Player.Difficulty))
	}
	if c.Player.EnergyCost < 0 {
		errs = append(errs, fmt.Sprintf("player.energy_cost must be >= 0, got %d", c.Player.EnergyCost))
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
