package combat

import (
	"fmt"
	"strings"
)

// DrawMarker is reported as the winner name of a drawn battle.
const DrawMarker = "draw"

// Side identifies a combatant by argument position, not by name.
type Side int

const (
	SideA Side = iota
	SideB
)

// Other returns the opposing side.
func (s Side) Other() Side {
	return 1 - s
}

func (s Side) String() string {
	switch s {
	case SideA:
		return "A"
	case SideB:
		return "B"
	default:
		return fmt.Sprintf("side(%d)", int(s))
	}
}

// Outcome is the terminal state of a battle.
type Outcome int

const (
	OutcomeWinnerA Outcome = iota
	OutcomeWinnerB
	OutcomeDraw
)

func (o Outcome) String() string {
	switch o {
	case OutcomeWinnerA:
		return "winner_a"
	case OutcomeWinnerB:
		return "winner_b"
	case OutcomeDraw:
		return "draw"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// ParseOutcome is the inverse of Outcome.String.
func ParseOutcome(s string) (Outcome, error) {
	switch s {
	case "winner_a":
		return OutcomeWinnerA, nil
	case "winner_b":
		return OutcomeWinnerB, nil
	case "draw":
		return OutcomeDraw, nil
	}
	return OutcomeDraw, fmt.Errorf("unknown outcome %q", s)
}

// RollKind names the decision a random sample was drawn for.
type RollKind string

const (
	RollInitiative RollKind = "initiative"
	RollHit        RollKind = "hit"
	RollCrit       RollKind = "crit"
	RollBlock      RollKind = "block"
	RollExtraTurn  RollKind = "extra_turn"
)

// Roll is one sampled decision. For initiative Success means side A
// strikes first, for hit the attack landed, otherwise the effect triggered.
type Roll struct {
	Turn    int
	Extra   int
	Kind    RollKind
	Actor   Side
	Sample  float64
	Chance  float64
	Success bool
}

// Result is the outcome of one battle plus its audit trail.
type Result struct {
	Outcome       Outcome
	Winner        string // display name of the winner, DrawMarker on draw
	FirstAttacker Side
	// Turns is the number of normal turns played, at most Config.MaxTurns.
	Turns int
	// Exchanges counts every attack attempt, extra turns included.
	Exchanges int
	// HP holds remaining HP per side; may be negative for the loser.
	HP    [2]float64
	MaxHP [2]float64
	Log   []string
	Rolls []Roll
}

// HPPercent returns remaining/starting HP of side, floored at 0.
func (r Result) HPPercent(s Side) float64 {
	if r.MaxHP[s] <= 0 {
		return 0
	}
	return max(r.HP[s], 0) / r.MaxHP[s]
}

// Transcript joins the log into one text block.
func (r Result) Transcript() string {
	return strings.Join(r.Log, "\n")
}
