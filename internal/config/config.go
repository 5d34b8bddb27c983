package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/arena/internal/data"
	"github.com/udisondev/arena/internal/game/combat"
	"github.com/udisondev/arena/internal/game/stats"
)

// EnvConfigPath overrides the default config path.
const EnvConfigPath = "ARENA_CONFIG"

// DefaultConfigPath is used when neither a flag nor EnvConfigPath is set.
const DefaultConfigPath = "config/arena.yaml"

// Arena holds all configuration of the arena tool.
type Arena struct {
	// Logging: debug | info | warn | error
	LogLevel string `yaml:"log_level"`

	// Database
	Database DatabaseConfig `yaml:"database"`

	// Data files. Empty BalancePath → embedded default tables.
	BalancePath  string `yaml:"balance_path"`
	ProfilesPath string `yaml:"profiles_path"`

	// Rules
	Combat  combat.Config      `yaml:"combat"`
	Formula data.FormulaConfig `yaml:"formula"`
	Ranks   data.RankTable     `yaml:"ranks"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// DefaultArena returns Arena config with sensible defaults.
func DefaultArena() Arena {
	return Arena{
		LogLevel:     "info",
		ProfilesPath: "config/profiles.yaml",
		Database: DatabaseConfig{
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "arena",
			Password: "arena",
			DBName:   "arena",
			SSLMode:  "disable",
		},
		Combat:  combat.DefaultConfig(),
		Formula: data.DefaultFormulaConfig(),
		Ranks:   data.DefaultRanks(),
	}
}

// Stats returns the stat composer settings.
func (a Arena) Stats() stats.Config {
	return stats.Config{Formula: a.Formula, Ranks: a.Ranks}
}

// Validate checks the rules sections.
func (a Arena) Validate() error {
	if err := a.Combat.Validate(); err != nil {
		return fmt.Errorf("combat section: %w", err)
	}
	return nil
}

// ResolvePath picks the config path: explicit flag, then EnvConfigPath,
// then DefaultConfigPath.
func ResolvePath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv(EnvConfigPath); env != "" {
		return env
	}
	return DefaultConfigPath
}

// LoadArena loads arena config from a YAML file.
// If the file doesn't exist, returns defaults. Sections missing from the
// file keep their default values.
func LoadArena(path string) (Arena, error) {
	cfg := DefaultArena()

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("validating config %s: %w", path, err)
	}

	return cfg, nil
}
