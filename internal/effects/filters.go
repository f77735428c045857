package effects

import (
	"math"

	"github.com/ivlev/storyrig/internal/motion"
	"github.com/ivlev/storyrig/internal/scenegraph"
)

// Filter builders are pure: equal inputs give equal descriptors, and the
// compositor names them (scenegraph.Finalize).

func turbulence(p Params, seed int, result string) scenegraph.Primitive {
	octaves := p.Octaves
	if octaves < 1 {
		octaves = 1
	}
	return scenegraph.Primitive{
		Op:     "turbulence",
		Result: result,
		Attrs: map[string]any{
			"type":          "fractalNoise",
			"baseFrequency": p.Frequency,
			"numOctaves":    octaves,
			"seed":          seed,
			"stitchTiles":   "stitch",
		},
	}
}

// drift returns the texture offset at frame: at most MaxDrift px per second
// along a fixed diagonal.
func drift(p Params, frame int) (dx, dy float64) {
	speed := motion.Clamp(p.Drift, 0, MaxDrift)
	d := float64(frame) / motion.FPS * speed
	return round4(d), round4(d * 0.5)
}

func round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}

func offset(in, result string, dx, dy float64) scenegraph.Primitive {
	return scenegraph.Primitive{Op: "offset", In: in, Result: result, Attrs: map[string]any{"dx": dx, "dy": dy}}
}

func desaturate(in string) scenegraph.Primitive {
	return scenegraph.Primitive{Op: "colorMatrix", In: in, Attrs: map[string]any{"type": "saturate", "values": 0}}
}

// SmoothingFilter averages regional colour and boosts edges back in.
func SmoothingFilter(p Params) scenegraph.Filter {
	return scenegraph.Filter{Primitives: []scenegraph.Primitive{
		{Op: "gaussianBlur", In: "SourceGraphic", Result: "smooth", Attrs: map[string]any{"stdDeviation": p.Scale}},
		{Op: "composite", In: "SourceGraphic", In2: "smooth", Result: "edges", Attrs: map[string]any{
			"operator": "arithmetic", "k1": 0, "k2": 1 + p.Intensity, "k3": -p.Intensity, "k4": 0,
		}},
		{Op: "composite", In: "smooth", In2: "edges", Attrs: map[string]any{
			"operator": "arithmetic", "k1": 0, "k2": p.Opacity, "k3": 1 - p.Opacity, "k4": 0,
		}},
	}}
}

// WarpFilter displaces content edges by fractal noise. The noise field is
// fixed by the seed and only slides by drift(frame), so consecutive frames
// differ by a sub-pixel amount.
func WarpFilter(p Params, frame int) scenegraph.Filter {
	dx, dy := drift(p, frame)
	return scenegraph.Filter{Primitives: []scenegraph.Primitive{
		turbulence(p, p.Seed, "noise"),
		offset("noise", "drifted", dx, dy),
		{Op: "displacementMap", In: "SourceGraphic", In2: "drifted", Attrs: map[string]any{
			"scale": p.Scale, "xChannelSelector": "R", "yChannelSelector": "G",
		}},
	}}
}

// GrainFilter is a grey texture with a fixed seed, optionally drifting.
func GrainFilter(p Params, frame int) scenegraph.Filter {
	prims := []scenegraph.Primitive{turbulence(p, p.Seed, "noise")}
	in := "noise"
	if p.Drift > 0 {
		dx, dy := drift(p, frame)
		prims = append(prims, offset("noise", "drifted", dx, dy))
		in = "drifted"
	}
	return scenegraph.Filter{Primitives: append(prims, desaturate(in))}
}

// FilmGrainFilter reseeds the noise every frame.
func FilmGrainFilter(p Params, frame int) scenegraph.Filter {
	return scenegraph.Filter{Primitives: []scenegraph.Primitive{
		turbulence(p, frame, "noise"),
		desaturate("noise"),
	}}
}

// PigmentFilter is static large-scale density variation.
func PigmentFilter(p Params) scenegraph.Filter {
	return scenegraph.Filter{Primitives: []scenegraph.Primitive{
		turbulence(p, p.Seed, "noise"),
		desaturate("noise"),
	}}
}

// Radial describes the vignette falloff as fractions of the half-diagonal.
type Radial struct {
	Shape string  `json:"shape"`
	Inner float64 `json:"inner"`
	Outer float64 `json:"outer"`
}
