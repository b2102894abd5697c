package game

import (
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/samdwyer/turnbattle/internal/logger"
	"github.com/samdwyer/turnbattle/internal/telemetry"
)

// Config holds game configuration options, read from the environment.
type Config struct {
	// Seed for random number generation. Used for reproducible spawns, enemy
	// decisions and escape rolls. A seed of 0 means a random seed will be
	// generated.
	Seed int64 `env:"TURNBATTLE_SEED" envDefault:"0"`

	// EnemyDelay is the pause before the enemy acts. Must be positive.
	EnemyDelay time.Duration `env:"TURNBATTLE_ENEMY_DELAY" envDefault:"1s"`
	// ResultDelay is the pause before the victory or game over screen.
	ResultDelay time.Duration `env:"TURNBATTLE_RESULT_DELAY" envDefault:"2s"`

	Hero   string `env:"TURNBATTLE_HERO" envDefault:"hero"`
	Enemy  string `env:"TURNBATTLE_ENEMY"`  // empty spawns by weight
	Roster string `env:"TURNBATTLE_ROSTER"` // YAML or JSON file replacing the built-in roster

	LogFile   string `env:"TURNBATTLE_LOG_FILE" envDefault:"turnbattle.log"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	HoneycombAPIKey  string `env:"HONEYCOMB_TURNBATTLE_API_KEY"`
	HoneycombDataset string `env:"HONEYCOMB_TURNBATTLE_DATASET" envDefault:"turnbattle"`
}

// LoadConfig parses the environment into a Config.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the game cannot run with.
func (c Config) Validate() error {
	if c.EnemyDelay <= 0 {
		return errors.New("TURNBATTLE_ENEMY_DELAY must be positive")
	}
	if c.ResultDelay < 0 {
		return errors.New("TURNBATTLE_RESULT_DELAY must not be negative")
	}
	if c.Hero == "" {
		return errors.New("TURNBATTLE_HERO must not be empty")
	}
	return nil
}

// LoggerOptions returns the logger settings, writing to out.
func (c Config) LoggerOptions(out io.Writer) logger.Options {
	return logger.Options{
		Level:  c.LogLevel,
		Format: c.LogFormat,
		Output: out,
	}
}

// TelemetryOptions returns the trace export settings.
func (c Config) TelemetryOptions() telemetry.Options {
	return telemetry.Options{
		APIKey:  c.HoneycombAPIKey,
		Dataset: c.HoneycombDataset,
	}
}

// resolveSeed returns seed, or a crypto-random one when seed is 0.
func resolveSeed(seed int64) (int64, error) {
	if seed != 0 {
		return seed, nil
	}
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}
