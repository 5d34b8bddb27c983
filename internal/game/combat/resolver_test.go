package combat

import (
	"math"
	"math/rand/v2"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/arena/internal/game/stats"
	"github.com/udisondev/arena/internal/model"
)

func scripted(t *testing.T, name string, d model.Derived) *model.DetailedStatRecord {
	t.Helper()
	rec, err := stats.FromDerived(name, d, stats.DefaultConfig())
	require.NoError(t, err, "FromDerived(%s)", name)
	return rec
}

func countRolls(rolls []Roll, kind RollKind, success bool) int {
	n := 0
	for _, r := range rolls {
		if r.Kind == kind && r.Success == success {
			n++
		}
	}
	return n
}

func TestResolve_FastStrikerOneShots(t *testing.T) {
	t.Parallel()

	a := scripted(t, "Alice", model.Derived{HP: 100, ATK: 100, SPD: 50, Hit: 1.0, CritMul: 1.5})
	b := scripted(t, "Bob", model.Derived{HP: 50, ATK: 10, SPD: 10, Hit: 0.9, BlkMul: 0.2})

	for seed := uint64(0); seed < 200; seed++ {
		res, err := Resolve(a, b, NewSeeded(seed))
		require.NoError(t, err)

		assert.Equal(t, SideA, res.FirstAttacker)
		assert.Equal(t, OutcomeWinnerA, res.Outcome)
		assert.Equal(t, "Alice", res.Winner)
		assert.Equal(t, 1, res.Turns)
		assert.Equal(t, 1, res.Exchanges)
		assert.LessOrEqual(t, res.HP[SideB], 0.0)
		assert.Equal(t, 100.0, res.HP[SideA])
	}
}

func TestResolve_AllMissesEndInDraw(t *testing.T) {
	t.Parallel()

	d := model.Derived{HP: 100, ATK: 20, DEF: 5, SPD: 30, Crit: 0.1, CritMul: 1.5, Hit: 0.8, Evd: 0.1, Blk: 0.1, BlkMul: 0.2}
	a := scripted(t, "Twin", d)
	b := scripted(t, "Twin", d)

	// 0.99 misses every attack (hit rate 0.7), never triggers extra turns,
	// and loses the speed-tie coin flip for A.
	res, err := Resolve(a, b, Scripted(0.99))
	require.NoError(t, err)

	assert.Equal(t, OutcomeDraw, res.Outcome)
	assert.Equal(t, DrawMarker, res.Winner)
	assert.Equal(t, SideB, res.FirstAttacker)
	assert.Equal(t, DefaultMaxTurns, res.Turns)
	assert.Equal(t, DefaultMaxTurns, res.Exchanges)
	assert.Equal(t, [2]float64{100, 100}, res.HP)
	assert.Equal(t, DefaultMaxTurns, countRolls(res.Rolls, RollHit, false))

	transcript := res.Transcript()
	assert.Contains(t, transcript, "Turn limit (30) reached")
	assert.Contains(t, transcript, "Remaining HP: Twin (100.0%) vs Twin (100.0%)")
	assert.Contains(t, transcript, "draw")
}

func TestResolve_ExtraTurnsBoundedPerCycle(t *testing.T) {
	t.Parallel()

	d := model.Derived{HP: 1e6, ATK: 1, SPD: 10, Hit: 0.9, CritMul: 1.5}
	a := scripted(t, "Left", d)
	b := scripted(t, "Right", d)

	// Sample 0 wins every roll with positive chance: A wins the coin,
	// every attack hits and every extra-turn roll succeeds.
	res, err := Resolve(a, b, Scripted(0))
	require.NoError(t, err)

	assert.Equal(t, SideA, res.FirstAttacker)
	assert.Equal(t, DefaultMaxTurns, res.Turns)
	assert.Equal(t, DefaultMaxTurns*(DefaultMaxExtraTurns+1), res.Exchanges)
	assert.Equal(t, DefaultMaxTurns*DefaultMaxExtraTurns, countRolls(res.Rolls, RollExtraTurn, true))

	perTurn := map[int]int{}
	for _, r := range res.Rolls {
		if r.Kind == RollExtraTurn {
			assert.Less(t, r.Extra, DefaultMaxExtraTurns)
			perTurn[r.Turn]++
		}
	}
	for turn, n := range perTurn {
		assert.LessOrEqual(t, n, DefaultMaxExtraTurns, "turn %d", turn)
	}

	// each side struck 45 times for the minimum damage of 1
	assert.Equal(t, [2]float64{1e6 - 45, 1e6 - 45}, res.HP)
	assert.Equal(t, OutcomeDraw, res.Outcome)
}

func TestResolve_CritThenBlockThenMitigation(t *testing.T) {
	t.Parallel()

	a := scripted(t, "Striker", model.Derived{HP: 500, ATK: 100, SPD: 20, Crit: 0.5, CritMul: 2, Hit: 1.0})
	b := scripted(t, "Wall", model.Derived{HP: 1000, ATK: 1, DEF: 100, SPD: 10, Hit: 0.5, Blk: 0.5, BlkMul: 0.5})

	// hit, crit, block, no extra turn; afterwards 0.99 for everything
	res, err := Resolve(a, b, Scripted(0.99, 0, 0, 0, 0.99))
	require.NoError(t, err)

	require.GreaterOrEqual(t, len(res.Rolls), 4)
	assert.Equal(t, RollHit, res.Rolls[0].Kind)
	assert.Equal(t, RollCrit, res.Rolls[1].Kind)
	assert.Equal(t, RollBlock, res.Rolls[2].Kind)
	assert.Equal(t, SideB, res.Rolls[2].Actor)
	assert.Equal(t, RollExtraTurn, res.Rolls[3].Kind)
	assert.True(t, res.Rolls[1].Success)
	assert.True(t, res.Rolls[2].Success)

	// 100 × 2 (crit) × 0.5 (block) × 0.5 (mitigation) = 50
	assert.Contains(t, res.Log, "Wall takes 50 damage (mitigation 50.0%), remaining HP: 950")

	// Striker hits every odd turn (hit rate 1.0), Wall always misses (0.99 > 0.5):
	// 15 hits of 50 → 250 HP left, Striker wins on HP percentage.
	assert.Equal(t, 250.0, res.HP[SideB])
	assert.Equal(t, 500.0, res.HP[SideA])
	assert.Equal(t, OutcomeWinnerA, res.Outcome)
	assert.Equal(t, "Striker", res.Winner)
}

func TestResolve_MinimumDamage(t *testing.T) {
	t.Parallel()

	a := scripted(t, "Feather", model.Derived{HP: 10, ATK: 0, SPD: 2, Hit: 1})
	b := scripted(t, "Rock", model.Derived{HP: 3, ATK: 0, DEF: 1e9, SPD: 1, Hit: 0})

	res, err := Resolve(a, b, Scripted(0.5))
	require.NoError(t, err)

	// Feather lands 1 damage per turn (hit rate 1.0); Rock misses at 0.05.
	assert.Equal(t, OutcomeWinnerA, res.Outcome)
	assert.Equal(t, 5, res.Turns) // hits on turns 1, 3, 5
	assert.Equal(t, 0.0, res.HP[SideB])
	assert.Contains(t, res.Log, "Rock takes 1 damage (mitigation 50.0%), remaining HP: 0")
}

func TestResolve_MinimumHitRate(t *testing.T) {
	t.Parallel()

	a := scripted(t, "Blind", model.Derived{HP: 100, ATK: 1000, SPD: 5, Hit: 0})
	b := scripted(t, "Ghost", model.Derived{HP: 100, ATK: 0, SPD: 1, Hit: 0, Evd: 1})

	res, err := Resolve(a, b, Scripted(0.5, 0.04))
	require.NoError(t, err)

	assert.Equal(t, 0.05, res.Rolls[0].Chance)
	assert.True(t, res.Rolls[0].Success)
	assert.Equal(t, OutcomeWinnerA, res.Outcome)
}

func TestResolve_LoserIsWhoeverDropsFirst(t *testing.T) {
	t.Parallel()

	// B is faster but weak; A survives the opener and kills B on its turn.
	a := scripted(t, "Tank", model.Derived{HP: 1000, ATK: 500, SPD: 5, Hit: 1})
	b := scripted(t, "Glass", model.Derived{HP: 100, ATK: 10, SPD: 50, Hit: 1})

	res, err := Resolve(a, b, Scripted(0.99))
	require.NoError(t, err)

	assert.Equal(t, SideB, res.FirstAttacker)
	assert.Equal(t, OutcomeWinnerA, res.Outcome)
	assert.Equal(t, "Tank", res.Winner)
	assert.Equal(t, 2, res.Turns)
	assert.Equal(t, 990.0, res.HP[SideA])
	assert.Greater(t, res.HP[SideA], 0.0)
	assert.LessOrEqual(t, res.HP[SideB], 0.0)
}

func TestResolve_Reproducible(t *testing.T) {
	t.Parallel()

	a := scripted(t, "Alice", model.Derived{HP: 800, ATK: 60, DEF: 40, SPD: 30, Crit: 0.2, CritMul: 1.8, Hit: 0.85, Evd: 0.1, Blk: 0.15, BlkMul: 0.2})
	b := scripted(t, "Bob", model.Derived{HP: 900, ATK: 55, DEF: 60, SPD: 30, Crit: 0.1, CritMul: 1.6, Hit: 0.9, Evd: 0.12, Blk: 0.2, BlkMul: 0.25})

	for _, seed := range []uint64{1, 42, 31337} {
		first, err := Resolve(a, b, NewSeeded(seed))
		require.NoError(t, err)
		second, err := Resolve(a, b, NewSeeded(seed))
		require.NoError(t, err)

		assert.Equal(t, first, second, "seed %d", seed)
		assert.NotEmpty(t, first.Log)
	}
}

func TestResolve_SpeedTieIsFair(t *testing.T) {
	t.Parallel()

	d := model.Derived{HP: 10, ATK: 100, SPD: 25, Hit: 1}
	a := scripted(t, "Heads", d)
	b := scripted(t, "Tails", d)

	const runs = 10_000
	rng := NewSeeded(2024)
	aFirst := 0
	for range runs {
		res, err := Resolve(a, b, rng)
		require.NoError(t, err)
		if res.FirstAttacker == SideA {
			aFirst++
			assert.Equal(t, OutcomeWinnerA, res.Outcome)
		} else {
			assert.Equal(t, OutcomeWinnerB, res.Outcome)
		}
	}

	share := float64(aFirst) / runs
	assert.GreaterOrEqual(t, share, 0.47)
	assert.LessOrEqual(t, share, 0.53)
}

func randomDerived(r *rand.Rand) model.Derived {
	return model.Derived{
		HP:      1 + r.Float64()*2000,
		ATK:     r.Float64() * 300,
		DEF:     r.Float64() * 500,
		SPD:     r.Float64() * 100,
		Crit:    r.Float64(),
		CritMul: 1 + r.Float64()*1.5,
		Hit:     r.Float64() * 1.2,
		Evd:     r.Float64() * 0.5,
		Blk:     r.Float64(),
		BlkMul:  r.Float64(),
	}
}

func TestResolve_AlwaysTerminatesWithOneOutcome(t *testing.T) {
	t.Parallel()

	gen := NewSeeded(99)
	for i := range 500 {
		a := scripted(t, "A", randomDerived(gen))
		b := scripted(t, "B", randomDerived(gen))

		res, err := Resolve(a, b, NewSeeded(uint64(i)))
		require.NoError(t, err)

		assert.LessOrEqual(t, res.Turns, DefaultMaxTurns)
		assert.LessOrEqual(t, res.Exchanges, DefaultMaxTurns*(DefaultMaxExtraTurns+1))
		assert.False(t, res.HP[SideA] <= 0 && res.HP[SideB] <= 0, "both sides dead in run %d", i)

		switch res.Outcome {
		case OutcomeWinnerA:
			assert.Equal(t, "A", res.Winner)
			assert.True(t, res.HP[SideB] <= 0 || res.HPPercent(SideA) > res.HPPercent(SideB))
		case OutcomeWinnerB:
			assert.Equal(t, "B", res.Winner)
			assert.True(t, res.HP[SideA] <= 0 || res.HPPercent(SideB) > res.HPPercent(SideA))
		case OutcomeDraw:
			assert.Equal(t, DrawMarker, res.Winner)
			assert.Equal(t, res.HPPercent(SideA), res.HPPercent(SideB))
		default:
			t.Fatalf("unexpected outcome %v", res.Outcome)
		}

		for _, r := range res.Rolls {
			assert.GreaterOrEqual(t, r.Chance, 0.0)
			assert.LessOrEqual(t, r.Chance, 1.0)
			if r.Kind == RollHit {
				assert.GreaterOrEqual(t, r.Chance, DefaultMinHitRate)
			}
		}
	}
}

func TestResolve_LogNeverShowsNegativeHP(t *testing.T) {
	t.Parallel()

	a := scripted(t, "Big", model.Derived{HP: 100, ATK: 10_000, SPD: 9, Hit: 1})
	b := scripted(t, "Small", model.Derived{HP: 5, SPD: 1, Hit: 1})

	res, err := Resolve(a, b, NewSeeded(3))
	require.NoError(t, err)
	assert.Less(t, res.HP[SideB], 0.0)
	assert.Zero(t, res.HPPercent(SideB))
	for _, line := range res.Log {
		assert.NotContains(t, line, "HP: -")
	}
}

func TestResolve_ConcurrentCallersDoNotInterfere(t *testing.T) {
	t.Parallel()

	a := scripted(t, "Alice", model.Derived{HP: 700, ATK: 70, DEF: 30, SPD: 40, Crit: 0.2, CritMul: 2, Hit: 0.8, Evd: 0.1, Blk: 0.1, BlkMul: 0.3})
	b := scripted(t, "Bob", model.Derived{HP: 650, ATK: 75, DEF: 25, SPD: 38, Crit: 0.25, CritMul: 1.7, Hit: 0.85, Evd: 0.15, Blk: 0.05, BlkMul: 0.2})

	const n = 32
	want := make([]Result, n)
	for i := range n {
		res, err := Resolve(a, b, NewSeeded(uint64(i)))
		require.NoError(t, err)
		want[i] = res
	}

	got := make([]Result, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := Resolve(a, b, NewSeeded(uint64(i)))
			if err == nil {
				got[i] = res
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, want, got)
}

func TestResolve_GlobalRandom(t *testing.T) {
	t.Parallel()

	a := scripted(t, "Alice", model.Derived{HP: 300, ATK: 50, SPD: 10, Hit: 0.9})
	b := scripted(t, "Bob", model.Derived{HP: 300, ATK: 50, SPD: 10, Hit: 0.9})

	res, err := Resolve(a, b, Global())
	require.NoError(t, err)
	assert.Contains(t, []Outcome{OutcomeWinnerA, OutcomeWinnerB, OutcomeDraw}, res.Outcome)
}

func TestResolve_InvalidInput(t *testing.T) {
	t.Parallel()

	good := scripted(t, "Good", model.Derived{HP: 10, ATK: 1, SPD: 1, Hit: 1})

	zeroHP := scripted(t, "Zero", model.Derived{ATK: 1})
	nanATK := scripted(t, "NaN", model.Derived{HP: 10})
	nanATK.Derived.ATK.Final = math.NaN()
	noName := scripted(t, "x", model.Derived{HP: 10})
	noName.Name = " "

	tests := []struct {
		name string
		a, b *model.DetailedStatRecord
		rng  Random
		want error
	}{
		{"nil random", good, good, nil, ErrNilRandom},
		{"nil record", nil, good, NewSeeded(1), ErrInvalidRecord},
		{"zero HP", good, zeroHP, NewSeeded(1), ErrInvalidRecord},
		{"NaN stat", nanATK, good, NewSeeded(1), ErrInvalidRecord},
		{"empty name", good, noName, NewSeeded(1), ErrInvalidRecord},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Resolve(tt.a, tt.b, tt.rng)
			require.ErrorIs(t, err, tt.want)
		})
	}

	_, err := Resolve(good, nanATK, NewSeeded(1))
	require.ErrorIs(t, err, model.ErrInvalidInput)
	assert.True(t, strings.HasPrefix(err.Error(), "side B"))
}

func TestNew_CustomTurnCap(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.MaxTurns = 3
	cfg.MaxExtraTurns = 0

	r, err := New(cfg)
	require.NoError(t, err)
	assert.Equal(t, 3, r.Config().MaxTurns)

	d := model.Derived{HP: 100, ATK: 1, SPD: 10, Hit: 1}
	res, err := r.Resolve(scripted(t, "A", d), scripted(t, "B", d), Scripted(0))
	require.NoError(t, err)
	assert.Equal(t, 3, res.Turns)
	assert.Equal(t, 3, res.Exchanges)
	assert.Zero(t, countRolls(res.Rolls, RollExtraTurn, true))
	// A struck twice (turns 1, 3), B once
	assert.Equal(t, [2]float64{99, 98}, res.HP)
	assert.Equal(t, OutcomeWinnerA, res.Outcome)
}

func TestNew_InvalidConfig(t *testing.T) {
	t.Parallel()

	mutators := map[string]func(*Config){
		"zero turns":         func(c *Config) { c.MaxTurns = 0 },
		"negative extra":     func(c *Config) { c.MaxExtraTurns = -1 },
		"zero def constant":  func(c *Config) { c.DefenseConstant = 0 },
		"def cap above one":  func(c *Config) { c.DefenseCap = 1.5 },
		"inverted hit rates": func(c *Config) { c.MinHitRate, c.MaxHitRate = 0.9, 0.1 },
		"negative min dmg":   func(c *Config) { c.MinDamage = -1 },
		"extra cap above 1":  func(c *Config) { c.ExtraTurnCap = 2 },
		"decay above one":    func(c *Config) { c.ExtraTurnDecay = 1.1 },
	}
	for name, mutate := range mutators {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultConfig()
			mutate(&cfg)
			_, err := New(cfg)
			require.ErrorIs(t, err, ErrInvalidConfig)
		})
	}

	_, err := New(DefaultConfig())
	require.NoError(t, err)
}

func TestParseOutcome(t *testing.T) {
	t.Parallel()

	for _, o := range []Outcome{OutcomeWinnerA, OutcomeWinnerB, OutcomeDraw} {
		got, err := ParseOutcome(o.String())
		require.NoError(t, err)
		assert.Equal(t, o, got)
	}
	_, err := ParseOutcome("victory")
	require.Error(t, err)
}
