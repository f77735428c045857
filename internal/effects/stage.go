// Package effects builds the layered post-processing that gives flat vector
// art a painted look. A Pipeline is an ordered list of tagged stages; the
// first two filter the content itself, the rest stack as overlays above it.
package effects

import "math"

// StageKind tags one stage of the pipeline.
type StageKind string

const (
	Smoothing StageKind = "smoothing"  // edge-preserving colour averaging
	Warp      StageKind = "warp"       // noise-driven edge displacement
	Grain     StageKind = "grain"      // static or slowly drifting texture
	FilmGrain StageKind = "film-grain" // per-frame animated grain
	Pigment   StageKind = "pigment"    // low-frequency density variation
	Grade     StageKind = "grade"      // flat mood tint
	Vignette  StageKind = "vignette"   // radial darkening
)

// stageOrder is the only order stages are ever applied in.
var stageOrder = []StageKind{Smoothing, Warp, Grain, FilmGrain, Pigment, Grade, Vignette}

func rank(k StageKind) int {
	for i, s := range stageOrder {
		if s == k {
			return i
		}
	}
	return -1
}

// IsContent reports whether the stage filters the content rather than
// stacking an overlay.
func (k StageKind) IsContent() bool {
	return k == Smoothing || k == Warp
}

// Params is the numeric bundle of one stage. Each stage reads the fields
// that apply to it.
type Params struct {
	Frequency float64 `json:"frequency,omitempty" yaml:"frequency,omitempty"`
	Octaves   int     `json:"octaves,omitempty" yaml:"octaves,omitempty"`
	Scale     float64 `json:"scale,omitempty" yaml:"scale,omitempty"`
	Opacity   float64 `json:"opacity,omitempty" yaml:"opacity,omitempty"`
	Blend     string  `json:"blend,omitempty" yaml:"blend,omitempty"`
	Intensity float64 `json:"intensity,omitempty" yaml:"intensity,omitempty"`
	Color     string  `json:"color,omitempty" yaml:"color,omitempty"`
	Radius    float64 `json:"radius,omitempty" yaml:"radius,omitempty"`
	// Drift is the texture drift in pixels per second.
	Drift float64 `json:"drift,omitempty" yaml:"drift,omitempty"`
	Seed  int     `json:"seed,omitempty" yaml:"seed,omitempty"`
}

// finite zeroes NaN and infinite fields. ok is false when any was replaced.
func (p Params) finite() (Params, bool) {
	ok := true
	for _, v := range []*float64{&p.Frequency, &p.Scale, &p.Opacity, &p.Intensity, &p.Radius, &p.Drift} {
		if math.IsNaN(*v) || math.IsInf(*v, 0) {
			*v = 0
			ok = false
		}
	}
	return p, ok
}

// Stage is one tagged pipeline entry.
type Stage struct {
	Kind   StageKind `json:"kind" yaml:"kind"`
	Params Params    `json:"params" yaml:"params"`
}

// normalize returns stages in stageOrder with at most one stage per kind
// (the last one given wins). Unknown kinds are dropped with a warning.
func normalize(stages []Stage) []Stage {
	byKind := make(map[StageKind]Stage, len(stages))
	for _, s := range stages {
		if rank(s.Kind) < 0 {
			log.WithField("stage", s.Kind).Warn("unknown effect stage, skipping")
			continue
		}
		if p, ok := s.Params.finite(); !ok {
			log.WithField("stage", s.Kind).Warn("non-finite effect parameter, using 0")
			s.Params = p
		}
		byKind[s.Kind] = s
	}
	out := make([]Stage, 0, len(byKind))
	for _, k := range stageOrder {
		if s, ok := byKind[k]; ok {
			out = append(out, s)
		}
	}
	return out
}
