package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatKey_Vocabulary(t *testing.T) {
	t.Parallel()

	keys := DerivedKeys()
	assert.Equal(t, []StatKey{StatHP, StatATK, StatDEF, StatSPD, StatCrit, StatCritMul, StatHit, StatEvd, StatBlk, StatBlkMul}, keys)

	for _, k := range keys {
		assert.True(t, k.IsDerived(), k)
		assert.False(t, k.IsAttribute(), k)
		assert.True(t, k.Valid(), k)
	}
	for _, a := range Attributes() {
		assert.True(t, a.Key().IsAttribute())
		assert.False(t, a.Key().IsDerived())
	}
	assert.False(t, StatKey("MANA").Valid())
}

func TestBonusVector(t *testing.T) {
	t.Parallel()

	var v BonusVector
	assert.Zero(t, v.Get(StatHP))
	assert.True(t, v.IsZero())

	v = v.Add(BonusVector{StatHP: 0.1, "strength": 0.2})
	v = v.Add(BonusVector{StatHP: 0.05})
	assert.InDelta(t, 0.15, v.Get(StatHP), 1e-12)
	assert.Equal(t, 0.2, v.Get("strength"))
	assert.Zero(t, v.Get(StatATK))
	assert.False(t, v.IsZero())

	assert.True(t, BonusVector{StatATK: 0}.IsZero())
}

func TestDerived_GetSet(t *testing.T) {
	t.Parallel()

	var d Derived
	for i, k := range DerivedKeys() {
		d.Set(k, float64(i+1))
	}
	for i, k := range DerivedKeys() {
		assert.Equal(t, float64(i+1), d.Get(k))
	}
	assert.Zero(t, d.Get("strength"))
	d.Set("unknown", 5)
	assert.Equal(t, 1.0, d.HP)
}

func TestDetailedStatRecord(t *testing.T) {
	t.Parallel()

	rec := &DetailedStatRecord{Name: "alice", PowerLevel: 80, Rank: "D"}
	rec.Core.Set(Strength, StatTriple{Base: 10, Bonus: 2, Final: 12})
	rec.Derived.Set(StatHP, StatTriple{Base: 800, Bonus: 80, Final: 880})

	assert.Equal(t, 12.0, rec.Final("strength"))
	assert.Equal(t, 880.0, rec.Final(StatHP))
	assert.Equal(t, BaseAttributes{Strength: 12}, rec.FinalAttributes())
	assert.Equal(t, Derived{HP: 880}, rec.FinalDerived())
	require.NoError(t, rec.Validate())

	zero := &DetailedStatRecord{Name: "zero"}
	require.NoError(t, zero.Validate(), "zero HP is a valid record")

	bad := *rec
	bad.Derived.Set(StatATK, StatTriple{Final: -1})
	require.ErrorIs(t, bad.Validate(), ErrInvalidInput)

	bad = *rec
	bad.Core.Set(Agility, StatTriple{Bonus: math.NaN()})
	require.ErrorIs(t, bad.Validate(), ErrInvalidInput)

	bad = *rec
	bad.PowerLevel = math.Inf(-1)
	require.ErrorIs(t, bad.Validate(), ErrInvalidInput)

	bad = *rec
	bad.Name = ""
	require.ErrorIs(t, bad.Validate(), ErrInvalidInput)

	require.ErrorIs(t, (*DetailedStatRecord)(nil).Validate(), ErrInvalidInput)
}
