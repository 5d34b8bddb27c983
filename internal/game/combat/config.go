package combat

import (
	"errors"
	"fmt"
)

// Default battle constants.
const (
	DefaultMaxTurns        = 30
	DefaultMaxExtraTurns   = 2
	DefaultDefenseConstant = 100.0
	DefaultDefenseCap      = 0.5
	DefaultMinHitRate      = 0.05
	DefaultMaxHitRate      = 1.0
	DefaultMinDamage       = 1.0
	DefaultExtraTurnShare  = 0.25
	DefaultExtraTurnCap    = 0.5
	DefaultExtraTurnDecay  = 0.5
)

// ErrInvalidConfig is returned by New for out-of-range settings.
var ErrInvalidConfig = errors.New("invalid combat config")

// Config holds the resolver constants.
type Config struct {
	// MaxTurns: лимит обычных ходов; после него исход решает % HP.
	MaxTurns int `yaml:"max_turns"`
	// MaxExtraTurns bounds extra exchanges per attacker turn cycle.
	MaxExtraTurns int `yaml:"max_extra_turns"`

	// Mitigation = min(DEF / (DEF + DefenseConstant), DefenseCap).
	DefenseConstant float64 `yaml:"defense_constant"`
	DefenseCap      float64 `yaml:"defense_cap"`

	MinHitRate float64 `yaml:"min_hit_rate"`
	MaxHitRate float64 `yaml:"max_hit_rate"`
	MinDamage  float64 `yaml:"min_damage"`

	// Extra turn rate = min(SPDa/(SPDa+SPDd) × Share, Cap) × Decay^N.
	ExtraTurnShare float64 `yaml:"extra_turn_share"`
	ExtraTurnCap   float64 `yaml:"extra_turn_cap"`
	ExtraTurnDecay float64 `yaml:"extra_turn_decay"`
}

// DefaultConfig returns the standard duel rules.
func DefaultConfig() Config {
	return Config{
		MaxTurns:        DefaultMaxTurns,
		MaxExtraTurns:   DefaultMaxExtraTurns,
		DefenseConstant: DefaultDefenseConstant,
		DefenseCap:      DefaultDefenseCap,
		MinHitRate:      DefaultMinHitRate,
		MaxHitRate:      DefaultMaxHitRate,
		MinDamage:       DefaultMinDamage,
		ExtraTurnShare:  DefaultExtraTurnShare,
		ExtraTurnCap:    DefaultExtraTurnCap,
		ExtraTurnDecay:  DefaultExtraTurnDecay,
	}
}

// Validate checks that every constant keeps the battle bounded and the
// probabilities well formed.
func (c Config) Validate() error {
	switch {
	case c.MaxTurns < 1:
		return fmt.Errorf("max_turns %d < 1: %w", c.MaxTurns, ErrInvalidConfig)
	case c.MaxExtraTurns < 0:
		return fmt.Errorf("max_extra_turns %d < 0: %w", c.MaxExtraTurns, ErrInvalidConfig)
	case c.DefenseConstant <= 0:
		return fmt.Errorf("defense_constant %v <= 0: %w", c.DefenseConstant, ErrInvalidConfig)
	case c.DefenseCap < 0 || c.DefenseCap > 1:
		return fmt.Errorf("defense_cap %v outside [0,1]: %w", c.DefenseCap, ErrInvalidConfig)
	case c.MinHitRate < 0 || c.MaxHitRate > 1 || c.MinHitRate > c.MaxHitRate:
		return fmt.Errorf("hit rate bounds [%v,%v] invalid: %w", c.MinHitRate, c.MaxHitRate, ErrInvalidConfig)
	case c.MinDamage < 0:
		return fmt.Errorf("min_damage %v < 0: %w", c.MinDamage, ErrInvalidConfig)
	case c.ExtraTurnShare < 0 || c.ExtraTurnCap < 0 || c.ExtraTurnCap > 1:
		return fmt.Errorf("extra turn share/cap invalid: %w", ErrInvalidConfig)
	case c.ExtraTurnDecay < 0 || c.ExtraTurnDecay > 1:
		return fmt.Errorf("extra_turn_decay %v outside [0,1]: %w", c.ExtraTurnDecay, ErrInvalidConfig)
	}
	return nil
}
