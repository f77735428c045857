// Package position resolves named stage positions on the 1920x1080 canvas.
package position

import (
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/ivlev/storyrig/internal/motion"
)

var log = logrus.WithField("component", "position")

const (
	CanvasWidth  = 1920
	CanvasHeight = 1080

	// DefaultPreset is used for unknown names.
	DefaultPreset = "mid-center"

	// Jitter bounds.
	JitterX     = 30.0
	JitterY     = 15.0
	JitterScale = 0.05
)

// Preset is a named spot on the stage. X and Y are the character's ground
// contact point in canvas pixels.
type Preset struct {
	X           float64 `json:"x" yaml:"x"`
	Y           float64 `json:"y" yaml:"y"`
	Scale       float64 `json:"scale" yaml:"scale"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
}

type row struct {
	name  string
	y     float64
	scale float64
}

type slot struct {
	name string
	x    float64
}

var (
	rows = []row{
		{"back", 620, 0.55},
		{"mid", 800, 0.8},
		{"front", 1000, 1.05},
	}
	slots = []slot{
		{"far-left", 0.12},
		{"left", 0.3},
		{"center", 0.5},
		{"right", 0.7},
		{"far-right", 0.88},
	}
)

// presets is built once at init and never written afterwards.
var presets = buildPresets()

func buildPresets() map[string]Preset {
	out := make(map[string]Preset, len(rows)*len(slots)+6)
	for _, r := range rows {
		for _, s := range slots {
			name := r.name + "-" + s.name
			out[name] = Preset{
				X:           s.x * CanvasWidth,
				Y:           r.y,
				Scale:       r.scale,
				Description: fmt.Sprintf("%s row, %s slot", r.name, s.name),
			}
		}
	}
	out["center"] = Preset{X: 960, Y: 800, Scale: 0.8, Description: "alias of mid-center"}
	out["presenter"] = Preset{X: 1440, Y: 1000, Scale: 1.1, Description: "narrator on the right third"}
	out["closeup"] = Preset{X: 960, Y: 1400, Scale: 2.2, Description: "head and shoulders, feet below frame"}
	out["offscreen-left"] = Preset{X: -300, Y: 800, Scale: 0.8, Description: "waiting left of frame"}
	out["offscreen-right"] = Preset{X: 2220, Y: 800, Scale: 0.8, Description: "waiting right of frame"}
	out["sky"] = Preset{X: 960, Y: 260, Scale: 0.4, Description: "flying or floating above the horizon"}
	return out
}

// Names lists every preset name in sorted order.
func Names() []string {
	names := make([]string, 0, len(presets))
	for n := range presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the preset called name.
func Lookup(name string) (Preset, bool) {
	p, ok := presets[name]
	return p, ok
}

// Position is a resolved placement.
type Position struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Scale float64 `json:"scale"`
}

// Resolve looks name up and optionally applies seeded jitter. Unknown names
// log a warning and resolve to DefaultPreset. The same (name, jitter, seed)
// always returns the same Position.
func Resolve(name string, jitter bool, seed int) Position {
	p, ok := presets[name]
	if !ok {
		log.WithField("preset", name).Warn("unknown position preset, using " + DefaultPreset)
		p = presets[DefaultPreset]
	}
	pos := Position{X: p.X, Y: p.Y, Scale: p.Scale}
	if jitter {
		pos = Jitter(pos, seed)
	}
	return pos
}

// Jitter offsets pos by at most ±JitterX, ±JitterY and ±JitterScale (as a
// fraction of the scale), using three hashes of seed, seed+1, seed+2.
func Jitter(pos Position, seed int) Position {
	s := float64(seed)
	return Position{
		X:     pos.X + motion.HashRange(s)*JitterX,
		Y:     pos.Y + motion.HashRange(s+1)*JitterY,
		Scale: pos.Scale * (1 + motion.HashRange(s+2)*JitterScale),
	}
}
