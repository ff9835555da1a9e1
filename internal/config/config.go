// Package config loads session settings from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"gopkg.in/yaml.v3"

	"github.com/Garsondee/Chaos-Arena/internal/arena"
	"github.com/Garsondee/Chaos-Arena/internal/steer"
)

// ErrUnknownMode is wrapped when a slot names a steer mode that does not exist.
var ErrUnknownMode = steer.ErrUnknownMode

// ErrTooManySlots is returned when more slot modes are given than player slots exist.
var ErrTooManySlots = errors.New("too many player slots")

// Config is the on-disk session description. Fields missing from a file
// keep their Default values.
type Config struct {
	Seed         int64               `yaml:"seed"`
	Layout       string              `yaml:"layout"`
	Slots        []string            `yaml:"slots"`
	ExtraEnemies bool                `yaml:"extra_enemies"`
	Thunders     bool                `yaml:"thunders"`
	Tuning       arena.Tuning        `yaml:"tuning"`
	Layouts      map[string][]string `yaml:"layouts"`
}

// Default is the stock setup: two keyboard players against four CPUs on
// the classic layout.
func Default() Config {
	return Config{
		Seed:   1,
		Layout: "classic",
		Slots:  []string{"WSAD", "ARROWS", "OFF", "OFF", "OFF", "OFF"},
		Tuning: arena.DefaultTuning(),
	}
}

func loadYAML(path string, out any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(b, out)
}

// Load reads path over Default and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	if err := loadYAML(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML bytes over Default and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Validate checks slot modes, tuning and that the selected layout resolves.
func (c Config) Validate() error {
	if _, err := c.Modes(); err != nil {
		return err
	}
	if err := c.Tuning.Validate(); err != nil {
		return err
	}
	for name, rows := range c.Layouts {
		if _, err := arena.ParseLayout(name, rows); err != nil {
			return err
		}
	}
	_, err := c.ResolveLayout()
	return err
}

// Modes parses Slots. Unlisted slots are OFF, which seats a CPU.
func (c Config) Modes() ([arena.PlayerSlots]steer.Mode, error) {
	var modes [arena.PlayerSlots]steer.Mode
	for i := range modes {
		modes[i] = steer.ModeOff
	}
	if len(c.Slots) > arena.PlayerSlots {
		return modes, fmt.Errorf("%w: %d given, %d allowed", ErrTooManySlots, len(c.Slots), arena.PlayerSlots)
	}
	for i, label := range c.Slots {
		m, err := steer.ParseMode(label)
		if err != nil {
			return modes, fmt.Errorf("slot %d: %w", i+1, err)
		}
		modes[i] = m
	}
	return modes, nil
}

// Session builds the arena session settings.
func (c Config) Session() (arena.SessionConfig, error) {
	modes, err := c.Modes()
	if err != nil {
		return arena.SessionConfig{}, err
	}
	return arena.SessionConfig{
		Modes:        modes,
		ExtraEnemies: c.ExtraEnemies,
		Thunders:     c.Thunders,
		Seed:         c.Seed,
		Tuning:       c.Tuning,
	}, nil
}

// LayoutNames lists custom layouts followed by built-ins, each group sorted.
// A custom layout shadows a built-in of the same name.
func (c Config) LayoutNames() []string {
	custom := make([]string, 0, len(c.Layouts))
	for n := range c.Layouts {
		custom = append(custom, n)
	}
	sort.Strings(custom)
	names := custom
	for _, n := range arena.BuiltinLayoutNames() {
		if _, shadowed := c.Layouts[n]; !shadowed {
			names = append(names, n)
		}
	}
	return names
}

// ResolveLayout parses the selected layout. Unknown names get a suggestion
// when one is close enough.
func (c Config) ResolveLayout() (*arena.Layout, error) {
	return c.LayoutByName(c.Layout)
}

// LayoutByName parses a custom or built-in layout.
func (c Config) LayoutByName(name string) (*arena.Layout, error) {
	if rows, ok := c.Layouts[name]; ok {
		return arena.ParseLayout(name, rows)
	}
	l, err := arena.BuiltinLayout(name)
	if err != nil && errors.Is(err, arena.ErrUnknownLayout) {
		if s := Suggest(name, c.LayoutNames()); s != "" {
			return nil, fmt.Errorf("%w (did you mean %q?)", err, s)
		}
	}
	return l, err
}

// Suggest returns the candidate closest to name by edit distance, or "" when
// none is within the length-scaled limit.
func Suggest(name string, candidates []string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return ""
	}
	best, bestDist := "", -1
	for _, cand := range candidates {
		dist := levenshtein.ComputeDistance(name, strings.ToLower(cand))
		if dist > suggestLimit(len(cand)) {
			continue
		}
		if bestDist < 0 || dist < bestDist {
			best, bestDist = cand, dist
		}
	}
	return best
}

func suggestLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
