// Package config loads server configuration from a YAML file, defaults and
// GAMBIT_ environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/tom-jt/Diviners-Gambit/internal/game/settings"
)

// EnvPrefix prefixes every environment override, e.g. GAMBIT_DATABASE_URL.
const EnvPrefix = "GAMBIT"

// Config is the full server configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Game     GameConfig     `mapstructure:"game"`
	Database DatabaseConfig `mapstructure:"database"`
	Replay   ReplayConfig   `mapstructure:"replay"`
}

type ServerConfig struct {
	HTTPAddress     string        `mapstructure:"http_address"`
	GRPCAddress     string        `mapstructure:"grpc_address"`
	ReadLimit       int64         `mapstructure:"read_limit"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// GameConfig holds the defaults for rooms that do not choose their own
// settings.
type GameConfig struct {
	Mode string `mapstructure:"mode"`
	// Pool is a generation bitstring or the name of a preset.
	Pool        string `mapstructure:"pool"`
	PresetsFile string `mapstructure:"presets_file"`
	Diviners    bool   `mapstructure:"diviners"`
	// StartingHealth and StartingMana override the mode when positive.
	StartingHealth float64       `mapstructure:"starting_health"`
	StartingMana   float64       `mapstructure:"starting_mana"`
	CardDelay      time.Duration `mapstructure:"card_delay"`
	RoundDelay     time.Duration `mapstructure:"round_delay"`
	GameDelay      time.Duration `mapstructure:"game_delay"`
	// Seed fixes every match RNG when non-zero.
	Seed   uint64 `mapstructure:"seed"`
	Strict bool   `mapstructure:"strict"`
}

type DatabaseConfig struct {
	URL      string `mapstructure:"url"`
	MaxConns int32  `mapstructure:"max_conns"`
}

// Enabled reports whether results should be persisted.
func (c DatabaseConfig) Enabled() bool {
	return c.URL != ""
}

type ReplayConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Directory string `mapstructure:"directory"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.http_address", ":8080")
	v.SetDefault("server.grpc_address", ":9090")
	v.SetDefault("server.read_limit", 4096)
	v.SetDefault("server.allowed_origins", []string{})
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("game.mode", "remastered")
	v.SetDefault("game.pool", string(settings.DefaultPool))
	v.SetDefault("game.presets_file", "")
	v.SetDefault("game.diviners", false)
	v.SetDefault("game.starting_health", 0)
	v.SetDefault("game.starting_mana", 0)
	v.SetDefault("game.card_delay", 500*time.Millisecond)
	v.SetDefault("game.round_delay", 1500*time.Millisecond)
	v.SetDefault("game.game_delay", 3*time.Second)
	v.SetDefault("game.seed", 0)
	v.SetDefault("game.strict", false)

	v.SetDefault("database.url", "")
	v.SetDefault("database.max_conns", 10)

	v.SetDefault("replay.enabled", false)
	v.SetDefault("replay.directory", "replays")
}

// Load reads the configuration. A missing file at path is not an error:
// defaults and environment variables still apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
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

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	if c.Server.HTTPAddress == "" {
		return errors.New("server.http_address is required")
	}
	if c.Server.ReadLimit <= 0 {
		return fmt.Errorf("server.read_limit must be positive, got %d", c.Server.ReadLimit)
	}
	if _, err := settings.ParseMode(c.Game.Mode); err != nil {
		return fmt.Errorf("game.mode: %w", err)
	}
	if c.Game.StartingHealth < 0 || c.Game.StartingMana < 0 {
		return errors.New("game starting resources must not be negative")
	}
	if c.Replay.Enabled && c.Replay.Directory == "" {
		return errors.New("replay.directory is required when replays are enabled")
	}
	return nil
}

// Presets returns the built-in pool presets plus those of PresetsFile.
func (g GameConfig) Presets() ([]settings.Preset, error) {
	if g.PresetsFile == "" {
		return settings.Presets, nil
	}
	return settings.LoadPresets(g.PresetsFile)
}

// Settings builds match settings from the configured defaults. Pool may name
// one of presets instead of spelling out a bitstring.
func (g GameConfig) Settings(presets []settings.Preset) (settings.Settings, error) {
	mode, err := settings.ParseMode(g.Mode)
	if err != nil {
		return settings.Settings{}, err
	}

	pool := settings.Pool(g.Pool)
	if !pool.Valid() && g.Pool != "" {
		preset, err := settings.FindPreset(presets, g.Pool)
		if err != nil {
			return settings.Settings{}, err
		}
		pool = preset.Pool
	}

	s := settings.Settings{Mode: mode, Pool: pool, Diviners: g.Diviners}
	if g.StartingHealth > 0 {
		health := g.StartingHealth
		s.Health = &health
	}
	if g.StartingMana > 0 {
		mana := g.StartingMana
		s.Mana = &mana
	}
	return s.Normalized(), nil
}
