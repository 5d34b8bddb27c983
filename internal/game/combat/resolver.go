// Package combat resolves a turn-based duel between two stat records.
//
// Battle flow:
//  1. Initiative: higher SPD strikes first, exact tie → coin flip.
//  2. Exchange: hit → crit → block → defense mitigation → damage.
//     A kill ends the battle immediately.
//  3. Extra turn: the attacker may repeat the exchange up to
//     MaxExtraTurns times per cycle, with decaying probability.
//  4. Otherwise roles swap and the normal turn counter advances.
//  5. After MaxTurns the higher remaining HP percentage wins; equal → draw.
//
// The resolver performs no I/O. All randomness comes from the Random
// passed to Resolve, so a seeded source reproduces the battle exactly.
package combat

import (
	"fmt"

	"github.com/udisondev/arena/internal/model"
)

// Resolver runs battles under one Config. Stateless between calls and
// safe for concurrent use as long as each call gets its own Random.
type Resolver struct {
	cfg Config
}

// New returns a Resolver for cfg.
func New(cfg Config) (*Resolver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Resolver{cfg: cfg}, nil
}

// Config returns the resolver constants.
func (r *Resolver) Config() Config {
	return r.cfg
}

var defaultResolver = &Resolver{cfg: DefaultConfig()}

// Resolve runs a battle with the default rules.
func Resolve(a, b *model.DetailedStatRecord, rng Random) (Result, error) {
	return defaultResolver.Resolve(a, b, rng)
}

// fighter is the per-battle mutable state of one combatant.
type fighter struct {
	side  Side
	name  string
	stats model.Derived
	hp    float64
	maxHP float64
}

// battle holds the state of one run. Never shared between goroutines.
type battle struct {
	cfg      Config
	rng      Random
	fighters [2]*fighter

	turn  int
	extra int // exchangesThisCycle beyond the first: 0..cfg.MaxExtraTurns

	exchanges int
	log       []string
	rolls     []Roll
}

// Resolve runs a battle between a and b.
func (r *Resolver) Resolve(a, b *model.DetailedStatRecord, rng Random) (Result, error) {
	if rng == nil {
		return Result{}, ErrNilRandom
	}
	if err := ValidateRecord(a); err != nil {
		return Result{}, fmt.Errorf("side A: %w", err)
	}
	if err := ValidateRecord(b); err != nil {
		return Result{}, fmt.Errorf("side B: %w", err)
	}

	bt := &battle{
		cfg: r.cfg,
		rng: rng,
		fighters: [2]*fighter{
			newFighter(SideA, a),
			newFighter(SideB, b),
		},
		log: make([]string, 0, 64),
	}
	return bt.run(), nil
}

func newFighter(side Side, rec *model.DetailedStatRecord) *fighter {
	stats := rec.FinalDerived()
	return &fighter{
		side:  side,
		name:  rec.Name,
		stats: stats,
		hp:    stats.HP,
		maxHP: stats.HP,
	}
}

func (bt *battle) run() Result {
	bt.logf("=== Battle start ===")

	attacker, defender := bt.initiative()
	first := attacker.side

	bt.turn = 1
	bt.extra = 0
	for attacker.hp > 0 && defender.hp > 0 && bt.turn <= bt.cfg.MaxTurns {
		bt.logf("--- Turn %d, extra %d ---", bt.turn, bt.extra)
		bt.logf("%s [HP: %d] -> %s [HP: %d]", attacker.name, displayHP(attacker.hp), defender.name, displayHP(defender.hp))

		if bt.exchange(attacker, defender) {
			break
		}
		if bt.extraTurn(attacker, defender) {
			continue
		}

		attacker, defender = defender, attacker
		bt.turn++
		bt.extra = 0
	}

	return bt.finish(first)
}

// initiative picks the first attacker by SPD; exact tie → fair coin.
func (bt *battle) initiative() (attacker, defender *fighter) {
	a, b := bt.fighters[SideA], bt.fighters[SideB]
	bt.logf("Speed check: %s (%.1f) vs %s (%.1f)", a.name, a.stats.SPD, b.name, b.stats.SPD)

	switch {
	case a.stats.SPD > b.stats.SPD:
		attacker, defender = a, b
		bt.logf("%s is faster and strikes first!", attacker.name)
	case b.stats.SPD > a.stats.SPD:
		attacker, defender = b, a
		bt.logf("%s is faster and strikes first!", attacker.name)
	default:
		aFirst := bt.roll(RollInitiative, SideA, 0.5)
		if aFirst {
			attacker, defender = a, b
		} else {
			attacker, defender = b, a
		}
		bt.logf("Speed tie, coin flip: %s strikes first!", attacker.name)
	}
	return attacker, defender
}

// exchange resolves one attack attempt. Reports whether the defender died.
func (bt *battle) exchange(att, def *fighter) bool {
	bt.exchanges++

	hitRate := bt.cfg.HitRate(att.stats.Hit, def.stats.Evd)
	if !bt.rollHit(att.side, hitRate) {
		bt.logf("%s evaded the attack of %s! (hit rate: %s)", def.name, att.name, pct(hitRate))
		return false
	}

	pending := att.stats.ATK

	critRate := clamp01(att.stats.Crit)
	if bt.roll(RollCrit, att.side, critRate) {
		pending = CritDamage(pending, att.stats.CritMul)
		bt.logf("%s lands a critical hit! (crit rate: %s, x%.2f)", att.name, pct(critRate), att.stats.CritMul)
	}

	blockRate := clamp01(def.stats.Blk)
	if bt.roll(RollBlock, def.side, blockRate) {
		pending = BlockedDamage(pending, def.stats.BlkMul)
		bt.logf("%s blocks part of the damage! (block rate: %s, -%s)", def.name, pct(blockRate), pct(clamp01(def.stats.BlkMul)))
	}

	dmg := bt.cfg.FinalDamage(pending, def.stats.DEF)
	def.hp -= dmg
	bt.logf("%s takes %d damage (mitigation %s), remaining HP: %d",
		def.name, int(dmg), pct(bt.cfg.Mitigation(def.stats.DEF)), displayHP(def.hp))

	return def.hp <= 0
}

// extraTurn rolls for a bonus exchange without swapping roles.
func (bt *battle) extraTurn(att, def *fighter) bool {
	if bt.extra >= bt.cfg.MaxExtraTurns {
		return false
	}
	rate := bt.cfg.ExtraTurnRate(att.stats.SPD, def.stats.SPD, bt.extra)
	if !bt.roll(RollExtraTurn, att.side, rate) {
		return false
	}

	bt.extra++
	if bt.extra > bt.cfg.MaxExtraTurns {
		panic("combat: extra turn counter out of bounds")
	}
	bt.logf("%s triggers an extra turn! (extra #%d, rate %s)", att.name, bt.extra, pct(rate))
	return true
}

// finish applies the termination policy.
func (bt *battle) finish(first Side) Result {
	a, b := bt.fighters[SideA], bt.fighters[SideB]

	res := Result{
		FirstAttacker: first,
		Turns:         min(bt.turn, bt.cfg.MaxTurns),
		Exchanges:     bt.exchanges,
		HP:            [2]float64{a.hp, b.hp},
		MaxHP:         [2]float64{a.maxHP, b.maxHP},
	}

	switch {
	case a.hp <= 0:
		res.Outcome = OutcomeWinnerB
	case b.hp <= 0:
		res.Outcome = OutcomeWinnerA
	default:
		bt.logf("=== Turn limit (%d) reached, battle forced to end ===", bt.cfg.MaxTurns)
		pa, pb := a.hp/a.maxHP, b.hp/b.maxHP
		bt.logf("Remaining HP: %s (%s) vs %s (%s)", a.name, pct(pa), b.name, pct(pb))
		switch {
		case pa > pb:
			res.Outcome = OutcomeWinnerA
		case pb > pa:
			res.Outcome = OutcomeWinnerB
		default:
			res.Outcome = OutcomeDraw
		}
	}

	switch res.Outcome {
	case OutcomeWinnerA:
		res.Winner = a.name
	case OutcomeWinnerB:
		res.Winner = b.name
	default:
		res.Winner = DrawMarker
	}

	if res.Outcome == OutcomeDraw {
		bt.logf("=== Battle over: draw! ===")
	} else {
		bt.logf("=== Battle over, winner: %s! ===", res.Winner)
	}

	res.Log = bt.log
	res.Rolls = bt.rolls
	return res
}

// rollHit samples a hit: miss when sample > rate, so rate 1.0 never misses.
func (bt *battle) rollHit(actor Side, rate float64) bool {
	s := bt.rng.Float64()
	hit := s <= rate
	bt.record(RollHit, actor, s, rate, hit)
	return hit
}

// roll samples an effect with probability chance: success when sample < chance,
// so chance 0 never triggers.
func (bt *battle) roll(kind RollKind, actor Side, chance float64) bool {
	s := bt.rng.Float64()
	ok := s < chance
	bt.record(kind, actor, s, chance, ok)
	return ok
}

func (bt *battle) record(kind RollKind, actor Side, sample, chance float64, ok bool) {
	bt.rolls = append(bt.rolls, Roll{
		Turn:    bt.turn,
		Extra:   bt.extra,
		Kind:    kind,
		Actor:   actor,
		Sample:  sample,
		Chance:  chance,
		Success: ok,
	})
}

func (bt *battle) logf(format string, args ...any) {
	bt.log = append(bt.log, fmt.Sprintf(format, args...))
}

// displayHP floors HP at 0 and truncates to an integer.
func displayHP(hp float64) int {
	if hp < 0 {
		return 0
	}
	return int(hp)
}

func pct(p float64) string {
	return fmt.Sprintf("%.1f%%", p*100)
}
