package settings

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tom-jt/Diviners-Gambit/internal/game/catalog"
)

// ErrUnknownPreset is returned by FindPreset.
var ErrUnknownPreset = errors.New("unknown pool preset")

// Pool is a bitstring of draftable generations: character i is '1' when
// generation i is dealt.
type Pool string

const (
	EmptyPool   Pool = "000000000"
	DefaultPool Pool = "100000000"
)

// Valid reports whether the pool has the right length, only 0/1 characters
// and at least one enabled generation.
func (p Pool) Valid() bool {
	if len(p) != len(EmptyPool) || p == EmptyPool {
		return false
	}
	return strings.Trim(string(p), "01") == ""
}

// Normalize returns p, or DefaultPool when p is invalid.
func (p Pool) Normalize() Pool {
	if p.Valid() {
		return p
	}
	return DefaultPool
}

// Enabled reports whether generation gen is dealt.
func (p Pool) Enabled(gen int) bool {
	return gen >= 0 && gen < len(p) && p[gen] == '1'
}

// Generations returns the enabled generations in ascending order.
func (p Pool) Generations() []int {
	out := make([]int, 0, catalog.PoolSize)
	for gen := 0; gen < len(p); gen++ {
		if p.Enabled(gen) {
			out = append(out, gen)
		}
	}
	return out
}

// Preset is a named card pool.
type Preset struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Pool        Pool   `yaml:"pool"`
}

// Presets are the built-in pools.
var Presets = []Preset{
	{"Standard", "The basic and original card pool. Recommended for new players.", "100000000"},
	{"Advanced", "Evolved format with more varied cards, including tools with high risk but high reward.", "110000000"},
	{"Deception", "Cards designed to ambush and sabotage your opponents.", "111000000"},
	{"Wizard's Conquest", "A chaotic card pool that unleashes magic and status effects.", "100100000"},
	{"Suffocation", "Manipulate your opponents and control the cards they play.", "100010000"},
	{"Eternity", "Deploy indefinite buffs and get comfortable for the long game.", "100001000"},
	{"Hyperspeed", "Hyperfast card pool designed for snowballing games.", "110000100"},
	{"Circus Mayhem", "True chaos with randomness and explosive plays.", "100000010"},
	{"Domination", "Powerful offensive options, but watch out for counter-attacks.", "110000001"},
	{"Mystic Prison", "Slow and drawn out games won by squeezing your opponents dry.", "100011000"},
	{"Live or Die", "Tension-filled mind games at the edge of life and death.", "101000100"},
	{"Live or Die V2", "Fast, chaotic games where mana can only be obtained at a high price.", "000000110"},
	{"Debuff 'n' Puff", "Stack as many debuffs onto your opponent as possible.", "100101000"},
	{"Guns 'n' Roses", "Decimate everyone in your path or charm your way through everyone's hearts.", "101000001"},
}

type presetFile struct {
	Presets []Preset `yaml:"presets"`
}

// ReadPresets decodes a YAML document of the form
//
//	presets:
//	  - name: Duel
//	    pool: "110000000"
//
// Presets with invalid pools are rejected.
func ReadPresets(r io.Reader) ([]Preset, error) {
	var file presetFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to decode presets: %w", err)
	}
	for _, p := range file.Presets {
		if p.Name == "" {
			return nil, fmt.Errorf("preset with pool %q has no name", p.Pool)
		}
		if !p.Pool.Valid() {
			return nil, fmt.Errorf("preset %q has invalid pool %q", p.Name, p.Pool)
		}
	}
	return file.Presets, nil
}

// LoadPresets reads extra presets from a YAML file and returns them after
// the built-in ones. A preset with a built-in name replaces it.
func LoadPresets(path string) ([]Preset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open presets file: %w", err)
	}
	defer f.Close()

	extra, err := ReadPresets(f)
	if err != nil {
		return nil, err
	}
	return MergePresets(Presets, extra), nil
}

// MergePresets appends extra to base, replacing entries with the same name.
func MergePresets(base, extra []Preset) []Preset {
	out := append([]Preset(nil), base...)
	for _, p := range extra {
		replaced := false
		for i := range out {
			if normalizeName(out[i].Name) == normalizeName(p.Name) {
				out[i] = p
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, p)
		}
	}
	return out
}

// FindPreset looks a preset up by name, ignoring case and punctuation.
func FindPreset(presets []Preset, name string) (Preset, error) {
	key := normalizeName(name)
	for _, p := range presets {
		if normalizeName(p.Name) == key {
			return p, nil
		}
	}
	return Preset{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
}
