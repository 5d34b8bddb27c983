package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/arena/internal/model"
)

const testProfiles = `
profiles:
  - name: alice
    class: warrior
    attributes: {strength: 14, agility: 10, stamina: 12, intelligence: 6, charisma: 8}
    loadout:
      warrior:
        weapon: {tier: epic, upgrades: 3}
  - name: bob
    class: ranger
    attributes: {strength: 9, agility: 15, stamina: 9, intelligence: 9, charisma: 9}
`

func writeConfig(t *testing.T) (cfgPath, profilesPath string) {
	t.Helper()
	dir := t.TempDir()
	profilesPath = filepath.Join(dir, "profiles.yaml")
	require.NoError(t, os.WriteFile(profilesPath, []byte(testProfiles), 0o644))
	cfgPath = filepath.Join(dir, "arena.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("log_level: error\nprofiles_path: "+profilesPath+"\n"), 0o644))
	return cfgPath, profilesPath
}

func TestRun_DuelReplaysByID(t *testing.T) {
	cfgPath, _ := writeConfig(t)
	args := []string{"-config", cfgPath, "duel", "-a", "alice", "-b", "bob", "-id", "0b8f6a2e-2f5e-4d0c-9a57-8d1f3e7c4b21"}

	var first, second bytes.Buffer
	require.NoError(t, run(context.Background(), args, &first))
	require.NoError(t, run(context.Background(), args, &second))

	assert.Contains(t, first.String(), "=== Battle start ===")
	assert.Contains(t, first.String(), "match 0b8f6a2e-2f5e-4d0c-9a57-8d1f3e7c4b21: alice vs bob")
	// report line carries the wall-clock time; the battle itself must match
	transcript := func(b *bytes.Buffer) string {
		body, _, _ := strings.Cut(b.String(), "\nmatch ")
		return body
	}
	assert.Equal(t, transcript(&first), transcript(&second))
}

func TestRun_DuelUnknownProfile(t *testing.T) {
	cfgPath, _ := writeConfig(t)

	err := run(context.Background(), []string{"-config", cfgPath, "duel", "-a", "alice", "-b", "nobody"}, &bytes.Buffer{})
	require.ErrorIs(t, err, model.ErrProfileNotFound)
	assert.NotErrorIs(t, err, errUsage)
}

func TestRun_Sim(t *testing.T) {
	cfgPath, _ := writeConfig(t)

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"-config", cfgPath, "sim", "-all", "-runs", "50"}, &out))
	assert.Contains(t, out.String(), "alice vs bob: runs=50")
}

func TestRun_Stats(t *testing.T) {
	cfgPath, _ := writeConfig(t)

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"-config", cfgPath, "stats", "-profile", "alice"}, &out))
	assert.Contains(t, out.String(), "name: alice")
	assert.Contains(t, out.String(), "rank:")
}

func TestRun_UpgradeWritesProfiles(t *testing.T) {
	cfgPath, profilesPath := writeConfig(t)

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"-config", cfgPath, "upgrade", "-profile", "alice", "-slot", "weapon", "-times", "3"}, &out))
	assert.Contains(t, out.String(), "#3 ")

	raw, err := os.ReadFile(profilesPath)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "name: alice")
	assert.Contains(t, string(raw), "tier: epic")

	err = run(context.Background(), []string{"-config", cfgPath, "upgrade", "-profile", "bob", "-slot", "weapon"}, &out)
	require.Error(t, err)
}

func TestRun_UsageErrors(t *testing.T) {
	cfgPath, _ := writeConfig(t)
	ctx := context.Background()

	for _, args := range [][]string{
		{},
		{"-config", cfgPath},
		{"-config", cfgPath, "fly"},
		{"-config", cfgPath, "duel", "-a", "alice"},
		{"-config", cfgPath, "duel", "-a", "alice", "-b", "bob", "-id", "not-a-uuid"},
		{"-config", cfgPath, "sim"},
		{"-config", cfgPath, "duel", "-bogus"},
	} {
		err := run(ctx, args, &bytes.Buffer{})
		require.ErrorIs(t, err, errUsage, "args %v", args)
	}
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLogLevel("debug"))
	assert.Equal(t, slog.LevelWarn, parseLogLevel("warn"))
	assert.Equal(t, slog.LevelError, parseLogLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLogLevel(""))
	assert.Equal(t, slog.LevelInfo, parseLogLevel("loud"))
}
