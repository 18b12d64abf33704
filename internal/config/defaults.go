package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/realm.yaml
var defaultRealmYAML []byte

// Default returns the hardcoded configuration.
func Default() Config {
	return Config{
		Simulation: SimulationConfig{
			TickDelay: 400 * time.Millisecond,
			MaxSteps:  256,
		},
		Storage: StorageConfig{
			DBPath: "~/.realm/realm.db",
		},
		Oracle: OracleConfig{
			Enabled:   true,
			Model:     "gpt-4o-mini",
			APIKeyEnv: "OPENAI_API_KEY",
			Timeout:   10 * time.Second,
		},
		Log: LogConfig{
			Level: "info",
		},
		Player: PlayerConfig{
			Name:       "local",
			Difficulty: DifficultyNormal,
		},
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        23234,
			HostKeyPath: ".ssh/realm_ed25519",
		},
	}
}
