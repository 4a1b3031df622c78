package settings

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tom-jt/Diviners-Gambit/internal/game/catalog"
)

func TestModeInfo(t *testing.T) {
	tests := []struct {
		mode   Mode
		health float64
		mana   float64
		status int
	}{
		{ModeClassic, 1, 2, -1},
		{ModeRemastered, 3, 2, -1},
		{ModeAutoAid, 1, 2, catalog.StatusModeAutoAid},
		{ModeCloneZone, 3, 1, catalog.StatusModeCloneZone},
		{ModeDeflation, 2, 7, catalog.StatusModeDeflation},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			info := tt.mode.Info()
			assert.Equal(t, tt.health, info.Health)
			assert.Equal(t, tt.mana, info.Mana)
			assert.Equal(t, tt.status, info.StatusID)
		})
	}
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("auto_aid")
	require.NoError(t, err)
	assert.Equal(t, ModeAutoAid, m)

	m, err = ParseMode(" Clone Zone ")
	require.NoError(t, err)
	assert.Equal(t, ModeCloneZone, m)

	_, err = ParseMode("battle royale")
	assert.ErrorIs(t, err, ErrUnknownMode)
}

func TestStartingResourceOverrides(t *testing.T) {
	s := Default()
	assert.Equal(t, 3.0, s.StartingHealth())
	assert.Equal(t, 2.0, s.StartingMana())

	health, mana := 5.0, 0.0
	s.Health, s.Mana = &health, &mana
	assert.Equal(t, 5.0, s.StartingHealth())
	assert.Equal(t, 0.0, s.StartingMana())
}

func TestPoolValidation(t *testing.T) {
	assert.True(t, DefaultPool.Valid())
	assert.False(t, EmptyPool.Valid())
	assert.False(t, Pool("10000000").Valid())
	assert.False(t, Pool("1000000002").Valid())
	assert.False(t, Pool("10000000x").Valid())

	assert.Equal(t, DefaultPool, EmptyPool.Normalize())
	assert.Equal(t, DefaultPool, Pool("").Normalize())
	assert.Equal(t, Pool("110000001"), Pool("110000001").Normalize())
}

func TestPoolGenerations(t *testing.T) {
	assert.Equal(t, []int{0, 1, 8}, Pool("110000001").Generations())
	assert.True(t, Pool("110000001").Enabled(8))
	assert.False(t, Pool("110000001").Enabled(2))
	assert.False(t, Pool("110000001").Enabled(-1))
}

func TestBuiltInPresetsAreValid(t *testing.T) {
	for _, p := range Presets {
		assert.True(t, p.Pool.Valid(), "preset %s", p.Name)
	}
	p, err := FindPreset(Presets, "guns n roses")
	require.NoError(t, err)
	assert.Equal(t, Pool("101000001"), p.Pool)
}

func TestReadPresets(t *testing.T) {
	doc := `
presets:
  - name: Duel
    description: Standard and Advanced only.
    pool: "110000000"
  - name: Standard
    pool: "100000001"
`
	extra, err := ReadPresets(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, extra, 2)

	merged := MergePresets(Presets, extra)
	assert.Len(t, merged, len(Presets)+1)

	std, err := FindPreset(merged, "standard")
	require.NoError(t, err)
	assert.Equal(t, Pool("100000001"), std.Pool)

	_, err = ReadPresets(strings.NewReader("presets:\n  - name: Bad\n    pool: \"000000000\"\n"))
	assert.Error(t, err)
}

func TestLoadPresetsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pools.yaml")
	require.NoError(t, os.WriteFile(path, []byte("presets:\n  - name: Chaos\n    pool: \"000000011\"\n"), 0o644))

	presets, err := LoadPresets(path)
	require.NoError(t, err)
	p, err := FindPreset(presets, "chaos")
	require.NoError(t, err)
	assert.Equal(t, []int{7, 8}, p.Pool.Generations())

	_, err = LoadPresets(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
