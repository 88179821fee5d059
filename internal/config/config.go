// Package config loads simulator configuration from YAML files and
// DOMINION_ prefixed environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root configuration.
type Config struct {
	Logging    LoggingConfig    `mapstructure:"logging"`
	Match      MatchConfig      `mapstructure:"match"`
	Tournament TournamentConfig `mapstructure:"tournament"`
	Spectate   SpectateConfig   `mapstructure:"spectate"`
}

// LoggingConfig selects the zap level and encoder.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// MatchConfig holds the options every new match starts with.
type MatchConfig struct {
	Seed         int64          `mapstructure:"seed"`
	HandSize     int            `mapstructure:"hand_size"`
	Kingdom      []string       `mapstructure:"kingdom"`
	SupplyCounts map[string]int `mapstructure:"supply_counts"`
	ActionLogDir string         `mapstructure:"action_log_dir"`
}

// TournamentConfig configures bot series.
type TournamentConfig struct {
	Players  []string `mapstructure:"players"`
	Rounds   int      `mapstructure:"rounds"`
	MaxTurns int      `mapstructure:"max_turns"`
}

// SpectateConfig configures the websocket spectator server.
type SpectateConfig struct {
	Addr      string        `mapstructure:"addr"`
	TurnDelay time.Duration `mapstructure:"turn_delay"`
}

var defaultKingdom = []string{
	"cellar", "market", "merchant", "militia", "moat",
	"remodel", "smithy", "village", "workshop", "throneRoom",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("match.seed", 0)
	v.SetDefault("match.hand_size", 5)
	v.SetDefault("match.kingdom", defaultKingdom)
	v.SetDefault("match.action_log_dir", "")
	v.SetDefault("tournament.players", []string{"bigMoney", "bigMoney-smithy"})
	v.SetDefault("tournament.rounds", 1)
	v.SetDefault("tournament.max_turns", 200)
	v.SetDefault("spectate.addr", ":8080")
	v.SetDefault("spectate.turn_delay", "500ms")
}

// Load reads the configuration at path. A missing file leaves the defaults
// in place; environment variables such as DOMINION_MATCH_SEED override both.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("DOMINION")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("failed to read config: %w", err)
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

// Validate checks values Load cannot default.
func (c *Config) Validate() error {
	if c.Match.HandSize <= 0 {
		return fmt.Errorf("match.hand_size must be positive, got %d", c.Match.HandSize)
	}
	if len(c.Match.Kingdom) == 0 {
		return fmt.Errorf("match.kingdom must name at least one card")
	}
	for key, n := range c.Match.SupplyCounts {
		if n < 0 {
			return fmt.Errorf("match.supply_counts.%s must not be negative", key)
		}
	}
	if c.Tournament.Rounds < 0 {
		return fmt.Errorf("tournament.rounds must not be negative")
	}
	if c.Spectate.TurnDelay < 0 {
		return fmt.Errorf("spectate.turn_delay must not be negative")
	}
	return nil
}
