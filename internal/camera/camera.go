// Package camera computes the per-frame camera: a pose (x, y, zoom) that is
// interpolated between scenes or along a path, and the transform that brings
// the pose's point to the canvas centre at the pose's zoom.
package camera

import (
	"github.com/ivlev/storyrig/internal/motion"
	"github.com/ivlev/storyrig/internal/scenegraph"
)

// DefaultMoveFrames is the length of a scene-to-scene camera move.
const DefaultMoveFrames = 30

// Pose is the canvas point shown at the centre of the frame and the zoom
// applied about that centre.
type Pose struct {
	X    float64 `json:"x" yaml:"x"`
	Y    float64 `json:"y" yaml:"y"`
	Zoom float64 `json:"zoom" yaml:"zoom"`
}

// Default returns the pose that shows the whole w×h canvas unchanged.
func Default(w, h int) Pose {
	return Pose{X: float64(w) / 2, Y: float64(h) / 2, Zoom: 1}
}

// Normalize replaces a zero zoom with 1.
func (p Pose) Normalize() Pose {
	if p.Zoom == 0 {
		p.Zoom = 1
	}
	return p
}

// Lerp interpolates each component independently.
func Lerp(a, b Pose, t float64) Pose {
	return Pose{
		X:    motion.Lerp(a.X, b.X, t),
		Y:    motion.Lerp(a.Y, b.Y, t),
		Zoom: motion.Lerp(a.Zoom, b.Zoom, t),
	}
}

// Move is an eased camera move from one pose to another over
// [StartFrame, StartFrame+Duration).
type Move struct {
	From       Pose
	To         Pose
	StartFrame int
	Duration   int
}

// Progress returns the eased progress of the move at frame.
func (m Move) Progress(frame int) float64 {
	if m.Duration <= 0 {
		return 1
	}
	return motion.EaseInOut(float64(frame-m.StartFrame) / float64(m.Duration))
}

// At returns the pose at frame. Before the window it is From, after it To.
func (m Move) At(frame int) Pose {
	return Lerp(m.From, m.To, m.Progress(frame))
}

// Transform returns translate(centre) · scale(zoom) · translate(-x, -y) for
// a w×h canvas.
func Transform(p Pose, w, h int) scenegraph.Matrix {
	p = p.Normalize()
	return scenegraph.Translate(float64(w)/2, float64(h)/2).
		Mul(scenegraph.Scale(p.Zoom, p.Zoom)).
		Mul(scenegraph.Translate(-p.X, -p.Y))
}
