package effects

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/image/colornames"
)

var log = logrus.WithField("component", "effects")

const (
	// DefaultPreset is used for unknown pipeline preset names: no effects.
	DefaultPreset = "none"
	// MaxDrift caps texture drift below one pixel per second.
	MaxDrift = 0.9
	// MaxFilmGrainOpacity keeps per-frame grain low-amplitude.
	MaxFilmGrainOpacity = 0.05
)

var smoothingPresets = map[string]Params{
	"soft":  {Scale: 1.2, Intensity: 0.35, Opacity: 0.6},
	"heavy": {Scale: 2.5, Intensity: 0.5, Opacity: 0.8},
}

var warpPresets = map[string]Params{
	"subtle":  {Frequency: 0.02, Octaves: 2, Scale: 2, Drift: 0.25, Seed: 7},
	"painted": {Frequency: 0.035, Octaves: 3, Scale: 4.5, Drift: 0.5, Seed: 11},
	"wobbly":  {Frequency: 0.05, Octaves: 4, Scale: 7, Drift: 0.8, Seed: 13},
}

var grainPresets = map[string]Params{
	"paper":  {Frequency: 0.8, Octaves: 3, Opacity: 0.08, Blend: "multiply", Seed: 3},
	"canvas": {Frequency: 0.45, Octaves: 4, Opacity: 0.12, Blend: "overlay", Drift: 0.3, Seed: 5},
}

var filmGrainPresets = map[string]Params{
	"fine":  {Frequency: 0.9, Octaves: 1, Opacity: 0.03, Blend: "overlay"},
	"heavy": {Frequency: 0.7, Octaves: 2, Opacity: 0.045, Blend: "overlay"},
}

var pigmentPresets = map[string]Params{
	"wash":    {Frequency: 0.004, Octaves: 2, Opacity: 0.1, Blend: "soft-light", Seed: 17},
	"blotchy": {Frequency: 0.008, Octaves: 3, Opacity: 0.16, Blend: "multiply", Seed: 19},
}

var vignettePresets = map[string]Params{
	"soft":   {Radius: 0.65, Intensity: 0.25, Color: "black"},
	"strong": {Radius: 0.5, Intensity: 0.45, Color: "black"},
}

// moods are the scene colour grades. "neutral" grades nothing.
var moods = map[string]*Params{
	"neutral":     nil,
	"warm":        {Color: "#ffb070", Blend: "soft-light", Opacity: 0.18},
	"cool":        {Color: "#7fa8ff", Blend: "soft-light", Opacity: 0.18},
	"golden-hour": {Color: "goldenrod", Blend: "overlay", Opacity: 0.22},
	"night":       {Color: "midnightblue", Blend: "multiply", Opacity: 0.35},
	"dreamy":      {Color: "plum", Blend: "screen", Opacity: 0.15},
	"sepia":       {Color: "sienna", Blend: "color", Opacity: 0.3},
}

// Preset names the stage presets that make up a pipeline. Empty fields
// leave the stage out. Mood is the grade used when neither the scene nor the
// caller names one.
type Preset struct {
	Smoothing string
	Warp      string
	Grain     string
	FilmGrain string
	Pigment   string
	Vignette  string
	Mood      string
}

var presets = map[string]Preset{
	"none":      {},
	"subtle":    {Warp: "subtle", Grain: "paper", Vignette: "soft"},
	"painted":   {Smoothing: "soft", Warp: "painted", Grain: "canvas", Pigment: "wash", Vignette: "soft"},
	"storybook": {Smoothing: "soft", Warp: "subtle", Grain: "paper", Pigment: "blotchy", Vignette: "soft", Mood: "warm"},
	"cinematic": {FilmGrain: "fine", Vignette: "strong", Mood: "cool"},
}

// Presets lists the pipeline preset names.
func Presets() []string {
	return sortedKeys(presets)
}

// Moods lists the grade names.
func Moods() []string {
	return sortedKeys(moods)
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// stagePreset looks up a per-stage preset, warning on unknown names.
func stagePreset(kind StageKind, table map[string]Params, name string) (Stage, bool) {
	if name == "" {
		return Stage{}, false
	}
	p, ok := table[name]
	if !ok {
		log.WithFields(logrus.Fields{"stage": kind, "preset": name}).Warn("unknown stage preset, skipping stage")
		return Stage{}, false
	}
	return Stage{Kind: kind, Params: p}, true
}

// MoodGrade returns the grade stage for mood. Unknown moods warn and grade
// nothing, like "neutral".
func MoodGrade(mood string) (Stage, bool) {
	p, ok := moods[mood]
	if !ok {
		log.WithField("mood", mood).Warn("unknown mood, no grade")
		return Stage{}, false
	}
	if p == nil {
		return Stage{}, false
	}
	return Stage{Kind: Grade, Params: *p}, true
}

// ParseColor resolves CSS colour names and hex strings to "#rrggbb". Unknown
// values warn and resolve to black.
func ParseColor(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if strings.HasPrefix(s, "#") && isHex(s[1:]) {
		switch len(s) {
		case 7:
			return s
		case 4:
			return string([]byte{'#', s[1], s[1], s[2], s[2], s[3], s[3]})
		}
	}
	if c, ok := colornames.Map[s]; ok {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	log.WithField("color", s).Warn("unknown colour, using black")
	return "#000000"
}

func isHex(s string) bool {
	for _, r := range s {
		if !strings.ContainsRune("0123456789abcdef", r) {
			return false
		}
	}
	return true
}
