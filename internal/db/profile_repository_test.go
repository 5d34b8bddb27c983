package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/arena/internal/model"
	"github.com/udisondev/arena/internal/testutil"
)

func sampleProfile(name string) *model.Profile {
	p := testutil.Profile("alice")
	p.Name = name
	return p
}

func TestProfileRepository_SaveLoad(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewProfileRepository(pool)
	ctx := context.Background()

	want := sampleProfile("alice")
	require.NoError(t, repo.Save(ctx, want))

	got, err := repo.Load(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestProfileRepository_SaveReplacesLoadout(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewProfileRepository(pool)
	ctx := context.Background()

	p := sampleProfile("bob")
	require.NoError(t, repo.Save(ctx, p))

	p.Class = "mage"
	p.Attributes.Intelligence = 20
	p.Loadout = model.Loadout{"mage": {model.SlotHelmet: {Tier: model.TierMythic, Upgrades: 2}}}
	require.NoError(t, repo.Save(ctx, p))

	got, err := repo.Load(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, p, got)

	p.Loadout = nil
	require.NoError(t, repo.Save(ctx, p))
	got, err = repo.Load(ctx, "bob")
	require.NoError(t, err)
	assert.Nil(t, got.Loadout)
	assert.Empty(t, got.Equipment())
}

func TestProfileRepository_NotFound(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewProfileRepository(pool)
	ctx := context.Background()

	_, err := repo.Load(ctx, "nobody")
	require.ErrorIs(t, err, model.ErrProfileNotFound)

	require.ErrorIs(t, repo.Delete(ctx, "nobody"), model.ErrProfileNotFound)
}

func TestProfileRepository_ListDelete(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewProfileRepository(pool)
	ctx := context.Background()

	for _, name := range []string{"carol", "alice", "bob"} {
		require.NoError(t, repo.Save(ctx, sampleProfile(name)))
	}

	names, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob", "carol"}, names)

	require.NoError(t, repo.Delete(ctx, "bob"))
	names, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "carol"}, names)

	var left int
	require.NoError(t, pool.QueryRow(ctx, `SELECT count(*) FROM equipment WHERE profile = 'bob'`).Scan(&left))
	assert.Zero(t, left, "equipment cascades")
}

func TestProfileRepository_SaveRejectsInvalid(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewProfileRepository(pool)

	p := sampleProfile("x")
	p.Attributes.Agility = -1
	require.ErrorIs(t, repo.Save(context.Background(), p), model.ErrInvalidInput)
}
