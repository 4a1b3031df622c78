// Package settings describes how a match is configured: its game mode, the
// card pool hands are dealt from, and whether players pick diviners.
package settings

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tom-jt/Diviners-Gambit/internal/game/catalog"
)

// ErrUnknownMode is returned when a mode name or number is not recognised.
var ErrUnknownMode = errors.New("unknown game mode")

// Mode selects starting resources and an optional game-wide status.
type Mode int

const (
	ModeClassic Mode = iota
	ModeRemastered
	ModeAutoAid
	ModeCloneZone
	ModeDeflation
)

// ModeInfo is the static description of a mode.
type ModeInfo struct {
	Name        string
	Description string
	Health      float64
	Mana        float64
	// StatusID is spawned indefinitely on every player, or -1.
	StatusID int
}

var modes = map[Mode]ModeInfo{
	ModeClassic: {
		Name:        "Classic",
		Description: "The original playground variant. With 1 health and 2 starting mana, games are fast and relentless.",
		Health:      1, Mana: 2, StatusID: -1,
	},
	ModeRemastered: {
		Name:        "Remastered",
		Description: "A slower and more balanced approach. With 3 health and 2 starting mana, you can risk your health to play higher mana cards.",
		Health:      3, Mana: 2, StatusID: -1,
	},
	ModeAutoAid: {
		Name:        "Auto Aid",
		Description: "When a player's health drops to 0 or below and they have 3 mana or more, they lose 3 mana to set their health back to 1.",
		Health:      1, Mana: 2, StatusID: catalog.StatusModeAutoAid,
	},
	ModeCloneZone: {
		Name:        "Clone Zone",
		Description: "All cards execute twice.",
		Health:      3, Mana: 1, StatusID: catalog.StatusModeCloneZone,
	},
	ModeDeflation: {
		Name:        "Deflation",
		Description: "Players start with a lot of mana and cannot gain any more. If a player has less than 1 mana, they die.",
		Health:      2, Mana: 7, StatusID: catalog.StatusModeDeflation,
	},
}

// Info returns the description of m. Unknown modes describe Remastered.
func (m Mode) Info() ModeInfo {
	if info, ok := modes[m]; ok {
		return info
	}
	return modes[ModeRemastered]
}

func (m Mode) String() string {
	if info, ok := modes[m]; ok {
		return info.Name
	}
	return fmt.Sprintf("MODE_%d", int(m))
}

// Modes returns every mode in order.
func Modes() []Mode {
	return []Mode{ModeClassic, ModeRemastered, ModeAutoAid, ModeCloneZone, ModeDeflation}
}

// ParseMode accepts a mode name in any case, with or without spaces or
// separators ("auto aid", "auto_aid", "AutoAid").
func ParseMode(s string) (Mode, error) {
	key := normalizeName(s)
	for _, m := range Modes() {
		if normalizeName(m.Info().Name) == key {
			return m, nil
		}
	}
	return ModeRemastered, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

func normalizeName(s string) string {
	r := strings.NewReplacer(" ", "", "_", "", "-", "", "'", "")
	return strings.ToLower(r.Replace(strings.TrimSpace(s)))
}

// Settings is the full configuration of one match.
type Settings struct {
	Mode     Mode
	Pool     Pool
	Diviners bool
	// Health and Mana override the mode's starting values when non-nil.
	Health *float64
	Mana   *float64
}

// Default returns Remastered with the standard pool and no diviners.
func Default() Settings {
	return Settings{Mode: ModeRemastered, Pool: DefaultPool}
}

// StartingHealth returns the health every player starts a game with.
func (s Settings) StartingHealth() float64 {
	if s.Health != nil {
		return *s.Health
	}
	return s.Mode.Info().Health
}

// StartingMana returns the mana every player starts a game with.
func (s Settings) StartingMana() float64 {
	if s.Mana != nil {
		return *s.Mana
	}
	return s.Mode.Info().Mana
}

// Normalized returns a copy whose pool is valid.
func (s Settings) Normalized() Settings {
	s.Pool = s.Pool.Normalize()
	return s
}
