package model

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidInput is returned when attributes, equipment or records fail
// boundary validation (negative values, NaN/Inf, empty names).
var ErrInvalidInput = errors.New("invalid input")

// Attribute: одна из пяти базовых характеристик персонажа.
type Attribute string

const (
	Strength     Attribute = "strength"
	Agility      Attribute = "agility"
	Stamina      Attribute = "stamina"
	Intelligence Attribute = "intelligence"
	Charisma     Attribute = "charisma"
)

var attributeOrder = [...]Attribute{Strength, Agility, Stamina, Intelligence, Charisma}

// Attributes returns the five core attributes in canonical order.
func Attributes() []Attribute {
	out := make([]Attribute, len(attributeOrder))
	copy(out, attributeOrder[:])
	return out
}

// Key returns the bonus-vector key of the attribute.
func (a Attribute) Key() StatKey {
	return StatKey(a)
}

// BaseAttributes holds the five core attributes of a combatant.
// Owned by the persistent profile, passed by value.
type BaseAttributes struct {
	Strength     float64 `yaml:"strength"`
	Agility      float64 `yaml:"agility"`
	Stamina      float64 `yaml:"stamina"`
	Intelligence float64 `yaml:"intelligence"`
	Charisma     float64 `yaml:"charisma"`
}

// Get returns the value of a single attribute. Unknown attribute → 0.
func (b BaseAttributes) Get(a Attribute) float64 {
	switch a {
	case Strength:
		return b.Strength
	case Agility:
		return b.Agility
	case Stamina:
		return b.Stamina
	case Intelligence:
		return b.Intelligence
	case Charisma:
		return b.Charisma
	default:
		return 0
	}
}

// With returns a copy with one attribute replaced.
func (b BaseAttributes) With(a Attribute, v float64) BaseAttributes {
	switch a {
	case Strength:
		b.Strength = v
	case Agility:
		b.Agility = v
	case Stamina:
		b.Stamina = v
	case Intelligence:
		b.Intelligence = v
	case Charisma:
		b.Charisma = v
	}
	return b
}

// Sum returns Σ attributes.
func (b BaseAttributes) Sum() float64 {
	return b.Strength + b.Agility + b.Stamina + b.Intelligence + b.Charisma
}

// SumSquares returns Σ attribute².
func (b BaseAttributes) SumSquares() float64 {
	return b.Strength*b.Strength + b.Agility*b.Agility + b.Stamina*b.Stamina +
		b.Intelligence*b.Intelligence + b.Charisma*b.Charisma
}

// Validate rejects negative and non-finite attributes.
func (b BaseAttributes) Validate() error {
	for _, a := range attributeOrder {
		v := b.Get(a)
		if !isFinite(v) {
			return fmt.Errorf("attribute %s is not finite: %w", a, ErrInvalidInput)
		}
		if v < 0 {
			return fmt.Errorf("attribute %s is negative (%v): %w", a, v, ErrInvalidInput)
		}
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
