// Package transition wraps scene content in an entry or exit transition
// driven by a progress value, where 1 means fully shown.
package transition

import (
	"math"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/tanema/gween/ease"

	"github.com/ivlev/storyrig/internal/motion"
	"github.com/ivlev/storyrig/internal/scenegraph"
)

var log = logrus.WithField("component", "transition")

// DefaultFrames is the transition length when a descriptor gives none.
const DefaultFrames = 15

// Kind names a transition.
type Kind string

const (
	None       Kind = "none"
	Fade       Kind = "fade"
	WipeLeft   Kind = "wipe-left"
	WipeRight  Kind = "wipe-right"
	WipeUp     Kind = "wipe-up"
	WipeDown   Kind = "wipe-down"
	SlideLeft  Kind = "slide-left"
	SlideRight Kind = "slide-right"
	Zoom       Kind = "zoom"
	Iris       Kind = "iris"
)

var kinds = map[Kind]bool{
	None: true, Fade: true, WipeLeft: true, WipeRight: true, WipeUp: true,
	WipeDown: true, SlideLeft: true, SlideRight: true, Zoom: true, Iris: true,
}

// Kinds lists every transition name.
func Kinds() []Kind {
	out := make([]Kind, 0, len(kinds))
	for k := range kinds {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// DefaultEasing is used when a descriptor names no curve.
const DefaultEasing = "out-cubic"

var curves = map[string]ease.TweenFunc{
	"linear":       ease.Linear,
	"in-quad":      ease.InQuad,
	"out-quad":     ease.OutQuad,
	"in-out-quad":  ease.InOutQuad,
	"in-cubic":     ease.InCubic,
	"out-cubic":    ease.OutCubic,
	"in-out-cubic": ease.InOutCubic,
	"in-out-sine":  ease.InOutSine,
	"out-back":     ease.OutBack,
	"out-bounce":   ease.OutBounce,
}

// Curve returns the easing curve called name, falling back to DefaultEasing.
func Curve(name string) ease.TweenFunc {
	if name == "" {
		name = DefaultEasing
	}
	if fn, ok := curves[name]; ok {
		return fn
	}
	log.WithField("easing", name).Warn("unknown easing, using " + DefaultEasing)
	return curves[DefaultEasing]
}

// Eval runs progress through the named curve.
func Eval(name string, progress float64) float64 {
	p := motion.Clamp01(progress)
	return float64(Curve(name)(float32(p), 0, 1, 1))
}

// Spec describes a scene's entry or exit transition.
type Spec struct {
	Type     Kind   `json:"type" yaml:"type"`
	Duration int    `json:"duration,omitempty" yaml:"duration,omitempty"` // frames
	Easing   string `json:"easing,omitempty" yaml:"easing,omitempty"`
}

// Frames returns the duration, defaulted.
func (s Spec) Frames() int {
	if s.Duration <= 0 {
		return DefaultFrames
	}
	return s.Duration
}

// Active reports whether s draws anything.
func (s Spec) Active() bool {
	return s.Type != "" && s.Type != None
}

// Apply wraps content for progress in [0,1]. At progress 1, or for an
// inactive or unknown kind, content is returned unchanged.
func Apply(content *scenegraph.Node, s Spec, progress float64, w, h int) *scenegraph.Node {
	if content == nil || !s.Active() || progress >= 1 {
		return content
	}
	if !kinds[s.Type] {
		log.WithField("type", s.Type).Warn("unknown transition, showing content unwrapped")
		return content
	}

	e := Eval(s.Easing, progress)
	fw, fh := float64(w), float64(h)
	wrap := scenegraph.Group("transition-"+string(s.Type), content)

	switch s.Type {
	case Fade:
		wrap.Opacity = e
	case WipeLeft:
		wrap.Clip = &scenegraph.Clip{Shape: "rect", X: fw * (1 - e), Y: 0, W: fw * e, H: fh}
	case WipeRight:
		wrap.Clip = &scenegraph.Clip{Shape: "rect", X: 0, Y: 0, W: fw * e, H: fh}
	case WipeUp:
		wrap.Clip = &scenegraph.Clip{Shape: "rect", X: 0, Y: fh * (1 - e), W: fw, H: fh * e}
	case WipeDown:
		wrap.Clip = &scenegraph.Clip{Shape: "rect", X: 0, Y: 0, W: fw, H: fh * e}
	case SlideLeft:
		wrap.Transform = scenegraph.Translate(fw*(1-e), 0).Ptr()
	case SlideRight:
		wrap.Transform = scenegraph.Translate(-fw*(1-e), 0).Ptr()
	case Zoom:
		k := motion.Lerp(0.8, 1, e)
		wrap.Transform = scenegraph.Translate(fw/2, fh/2).
			Mul(scenegraph.Scale(k, k)).
			Mul(scenegraph.Translate(-fw/2, -fh/2)).Ptr()
		wrap.Opacity = e
	case Iris:
		wrap.Clip = &scenegraph.Clip{Shape: "circle", X: fw / 2, Y: fh / 2, R: e * math.Hypot(fw/2, fh/2)}
	}
	return wrap
}
