package camera

import (
	"github.com/sirupsen/logrus"

	"github.com/ivlev/storyrig/internal/motion"
	"github.com/ivlev/storyrig/internal/scenegraph"
)

var log = logrus.WithField("component", "camera")

// Path modes.
const (
	ModeKeyframes = "keyframes"
	ModeFollow    = "follow"
	ModeOverview  = "overview"
)

// Keyframe is a camera pose at a frame offset into the scene.
type Keyframe struct {
	Frame int     `json:"frame" yaml:"frame"`
	Focus string  `json:"focus,omitempty" yaml:"focus,omitempty"`
	X     float64 `json:"x" yaml:"x"`
	Y     float64 `json:"y" yaml:"y"`
	Zoom  float64 `json:"zoom" yaml:"zoom"`
}

// Pose returns the keyframe's pose.
func (k Keyframe) Pose() Pose {
	return Pose{X: k.X, Y: k.Y, Zoom: k.Zoom}.Normalize()
}

// Path describes a camera that moves within a scene instead of holding one
// pose. Keyframes is used by ModeKeyframes; MaxZoom caps follow and
// overview framing (0 means the director default).
type Path struct {
	Mode      string     `json:"mode" yaml:"mode"`
	Keyframes []Keyframe `json:"keyframes,omitempty" yaml:"keyframes,omitempty"`
	MaxZoom   float64    `json:"maxZoom,omitempty" yaml:"max_zoom,omitempty"`
}

// Region is something the camera may frame, typically a placed character.
type Region struct {
	ID      string
	Rect    scenegraph.Rect
	Talking bool
}

// InterpolateKeyframes returns the pose at frame along keyframes sorted by
// frame, with cubic ease-in-out between neighbours and clamping outside.
func InterpolateKeyframes(keyframes []Keyframe, frame int, fallback Pose) Pose {
	if len(keyframes) == 0 {
		return fallback
	}

	if frame <= keyframes[0].Frame {
		return keyframes[0].Pose()
	}
	last := keyframes[len(keyframes)-1]
	if frame >= last.Frame {
		return last.Pose()
	}

	var prev, next Keyframe
	for i := 0; i < len(keyframes)-1; i++ {
		if frame >= keyframes[i].Frame && frame < keyframes[i+1].Frame {
			prev, next = keyframes[i], keyframes[i+1]
			break
		}
	}

	span := next.Frame - prev.Frame
	if span <= 0 {
		return next.Pose()
	}
	t := motion.EaseInOut(float64(frame-prev.Frame) / float64(span))
	return Lerp(prev.Pose(), next.Pose(), t)
}

// Evaluate returns the pose of path at local frames into a scene lasting
// sceneFrames, framing regions on a w×h canvas where the mode needs them.
// An unknown mode logs a warning and holds the fallback pose.
func Evaluate(path Path, local, sceneFrames int, regions []Region, w, h int, fallback Pose) Pose {
	d := NewDirector(w, h)
	if path.MaxZoom > 0 {
		d.MaxZoom = path.MaxZoom
	}

	switch path.Mode {
	case ModeKeyframes:
		return InterpolateKeyframes(path.Keyframes, local, fallback)
	case ModeFollow:
		return d.Follow(regions)
	case ModeOverview:
		return InterpolateKeyframes(d.Overview(regions, sceneFrames), local, fallback)
	}
	log.WithField("mode", path.Mode).Warn("unknown camera path mode, holding pose")
	return fallback
}
