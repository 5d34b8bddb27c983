package model

import (
	"time"

	"github.com/google/uuid"
)

// BattleReport is the persisted summary of one played duel.
// Seed and the two profiles are enough to replay the battle.
type BattleReport struct {
	ID        uuid.UUID
	PlayerA   string
	PlayerB   string
	Outcome   string // winner_a | winner_b | draw
	Winner    string
	Turns     int
	Seed      uint64
	Log       []string
	CreatedAt time.Time
}
