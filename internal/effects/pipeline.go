package effects

import (
	"github.com/ivlev/storyrig/internal/motion"
	"github.com/ivlev/storyrig/internal/scenegraph"
)

// Config selects effects for a render. Preset applies to scenes that do not
// name their own; Mood, when set, overrides every scene's mood. Stages, when
// non-empty, replace the preset entirely.
type Config struct {
	Preset string  `json:"preset,omitempty" yaml:"preset,omitempty"`
	Mood   string  `json:"mood,omitempty" yaml:"mood,omitempty"`
	Stages []Stage `json:"stages,omitempty" yaml:"stages,omitempty"`
}

// Pipeline is a resolved, ordered stage list.
type Pipeline struct {
	Name   string  `json:"name"`
	Stages []Stage `json:"stages"`
}

// Empty reports whether the pipeline does nothing.
func (p Pipeline) Empty() bool {
	return len(p.Stages) == 0
}

// Build resolves a named preset with mood as its grade. An empty mood uses
// the preset's own. The "none" preset ignores the mood.
func Build(name, mood string) Pipeline {
	if name == "" {
		name = DefaultPreset
	}
	pr, ok := presets[name]
	if !ok {
		log.WithField("preset", name).Warn("unknown effects preset, using " + DefaultPreset)
		name = DefaultPreset
		pr = presets[name]
	}
	if name == "none" {
		return Pipeline{Name: name}
	}

	var stages []Stage
	add := func(s Stage, ok bool) {
		if ok {
			stages = append(stages, s)
		}
	}
	add(stagePreset(Smoothing, smoothingPresets, pr.Smoothing))
	add(stagePreset(Warp, warpPresets, pr.Warp))
	add(stagePreset(Grain, grainPresets, pr.Grain))
	add(stagePreset(FilmGrain, filmGrainPresets, pr.FilmGrain))
	add(stagePreset(Pigment, pigmentPresets, pr.Pigment))
	if mood == "" {
		mood = pr.Mood
	}
	if mood != "" {
		add(MoodGrade(mood))
	}
	add(stagePreset(Vignette, vignettePresets, pr.Vignette))

	return Pipeline{Name: name, Stages: normalize(stages)}
}

// Resolve picks the pipeline for a scene naming scenePreset and sceneMood.
func (c Config) Resolve(scenePreset, sceneMood string) Pipeline {
	if len(c.Stages) > 0 {
		return Pipeline{Name: "custom", Stages: normalize(c.Stages)}
	}
	name := c.Preset
	if scenePreset != "" {
		name = scenePreset
	}
	mood := sceneMood
	if c.Mood != "" {
		mood = c.Mood
	}
	return Build(name, mood)
}

// Content returns only the content stages, for per-asset use.
func (p Pipeline) Content() Pipeline {
	out := Pipeline{Name: p.Name}
	for _, s := range p.Stages {
		if s.Kind.IsContent() {
			out.Stages = append(out.Stages, s)
		}
	}
	return out
}

// Except drops the stages whose kind other already applies.
func (p Pipeline) Except(other Pipeline) Pipeline {
	out := Pipeline{Name: p.Name}
	for _, s := range p.Stages {
		if !other.Has(s.Kind) {
			out.Stages = append(out.Stages, s)
		}
	}
	return out
}

// Has reports whether the pipeline carries a stage of kind.
func (p Pipeline) Has(kind StageKind) bool {
	for _, s := range p.Stages {
		if s.Kind == kind {
			return true
		}
	}
	return false
}

// Apply wraps content with the pipeline at frame on a w×h canvas. An empty
// pipeline returns content itself and creates no nodes.
func (p Pipeline) Apply(content *scenegraph.Node, frame, w, h int) *scenegraph.Node {
	if p.Empty() || content == nil {
		return content
	}
	out := p.ApplyContent(content, frame)
	overlays := p.overlays(frame, w, h)
	if len(overlays) == 0 {
		return out
	}
	return scenegraph.Group("effects", out).Add(overlays...)
}

// ApplyContent wraps content in the content stages only, smoothing inside
// warp.
func (p Pipeline) ApplyContent(content *scenegraph.Node, frame int) *scenegraph.Node {
	if content == nil {
		return nil
	}
	id := content.ID
	for _, s := range p.Stages {
		var f scenegraph.Filter
		switch s.Kind {
		case Smoothing:
			f = SmoothingFilter(s.Params)
		case Warp:
			f = WarpFilter(s.Params, frame)
		default:
			continue
		}
		wrap := scenegraph.Group(string(s.Kind)+":"+id, content)
		wrap.Filter = &f
		content = wrap
	}
	return content
}

func (p Pipeline) overlays(frame, w, h int) []*scenegraph.Node {
	var out []*scenegraph.Node
	for _, s := range p.Stages {
		if n := overlay(s, frame, w, h); n != nil {
			out = append(out, n)
		}
	}
	return out
}

func overlay(s Stage, frame, w, h int) *scenegraph.Node {
	canvas := scenegraph.Canvas(w, h)
	n := &scenegraph.Node{
		ID:      "overlay-" + string(s.Kind),
		Kind:    scenegraph.KindOverlay,
		Opacity: motion.Clamp01(s.Params.Opacity),
		Blend:   s.Params.Blend,
		Bounds:  &canvas,
	}
	var f scenegraph.Filter
	switch s.Kind {
	case Grain:
		f = GrainFilter(s.Params, frame)
	case FilmGrain:
		f = FilmGrainFilter(s.Params, frame)
		n.Opacity = motion.Clamp(n.Opacity, 0, MaxFilmGrainOpacity)
	case Pigment:
		f = PigmentFilter(s.Params)
	case Grade:
		n.Fill = ParseColor(s.Params.Color)
		return n
	case Vignette:
		n.Fill = ParseColor(s.Params.Color)
		n.Opacity = motion.Clamp01(s.Params.Intensity)
		n.Config = Radial{Shape: "radial", Inner: s.Params.Radius, Outer: 1}
		return n
	default:
		return nil
	}
	n.Filter = &f
	return n
}
