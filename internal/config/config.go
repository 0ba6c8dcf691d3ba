// Package config loads the simulator configuration with viper.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/viper"
)

// Config is the full simulator configuration.
type Config struct {
	Logging   LoggingConfig   `mapstructure:"logging"`
	Game      GameConfig      `mapstructure:"game"`
	Spectator SpectatorConfig `mapstructure:"spectator"`
}

// LoggingConfig controls the zap logger built by the CLI.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// GameConfig describes the table and how many games to play on it.
type GameConfig struct {
	// Seed fixes the shuffle; zero picks a random seed.
	Seed          uint64         `mapstructure:"seed"`
	Rounds        int            `mapstructure:"rounds"`
	MaxTurns      int            `mapstructure:"max_turns"`
	ChallengeRate float64        `mapstructure:"challenge_rate"`
	Players       []PlayerConfig `mapstructure:"players"`
}

// PlayerConfig seats one player.
type PlayerConfig struct {
	Name     string `mapstructure:"name"`
	Strategy string `mapstructure:"strategy"`
}

// SpectatorConfig controls the read-only websocket feed.
type SpectatorConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Address string `mapstructure:"address"`
}

// EnvPrefix is the prefix for environment overrides, e.g. COUP_GAME_ROUNDS.
const EnvPrefix = "COUP"

var validStrategies = map[string]bool{
	"honest":      true,
	"random":      true,
	"interactive": true,
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("game.seed", 0)
	v.SetDefault("game.rounds", 1)
	v.SetDefault("game.max_turns", 500)
	v.SetDefault("game.challenge_rate", 0.25)
	v.SetDefault("game.players", []map[string]any{
		{"name": "Alice", "strategy": "honest"},
		{"name": "Bob", "strategy": "random"},
		{"name": "Carol", "strategy": "random"},
	})
	v.SetDefault("spectator.enabled", false)
	v.SetDefault("spectator.address", "localhost:8080")
}

// Load reads the YAML file at path, applies defaults and COUP_* environment
// overrides, and validates the result. An empty path or a missing file falls
// back to defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("failed to read config %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for values the simulator cannot run with.
func (c *Config) Validate() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging.level %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("invalid logging.format %q", c.Logging.Format)
	}
	if c.Game.Rounds < 1 {
		return fmt.Errorf("game.rounds must be at least 1, got %d", c.Game.Rounds)
	}
	if c.Game.MaxTurns < 0 {
		return fmt.Errorf("game.max_turns must not be negative, got %d", c.Game.MaxTurns)
	}
	if c.Game.ChallengeRate < 0 || c.Game.ChallengeRate > 1 {
		return fmt.Errorf("game.challenge_rate must be within [0,1], got %v", c.Game.ChallengeRate)
	}
	if n := len(c.Game.Players); n < 2 || n > 6 {
		return fmt.Errorf("game.players must seat 2 to 6 players, got %d", n)
	}
	seen := make(map[string]bool, len(c.Game.Players))
	for i, p := range c.Game.Players {
		if p.Name == "" {
			return fmt.Errorf("game.players[%d] has no name", i)
		}
		if seen[p.Name] {
			return fmt.Errorf("game.players has duplicate name %q", p.Name)
		}
		seen[p.Name] = true
		if !validStrategies[strings.ToLower(p.Strategy)] {
			return fmt.Errorf("game.players[%d] has unknown strategy %q", i, p.Strategy)
		}
	}
	if c.Spectator.Enabled && c.Spectator.Address == "" {
		return fmt.Errorf("spectator.address is required when the spectator feed is enabled")
	}
	return nil
}
