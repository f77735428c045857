package timeline

import (
	"github.com/ivlev/storyrig/internal/camera"
	"github.com/ivlev/storyrig/internal/expression"
	"github.com/ivlev/storyrig/internal/motion"
	"github.com/ivlev/storyrig/internal/position"
	"github.com/ivlev/storyrig/internal/rig"
)

// Frame is the timeline resolved at one absolute frame. Scene is nil when no
// scene covers the frame.
type Frame struct {
	Frame      int         `json:"frame"`
	Scene      *Scene      `json:"scene,omitempty"`
	Previous   *Scene      `json:"previous,omitempty"`
	Local      int         `json:"local"`
	Characters []Character `json:"characters,omitempty"`
	// CameraMove carries the previous scene's pose into this scene's.
	CameraMove camera.Move `json:"-"`
	Camera     camera.Pose `json:"camera"`
	// Entry is the entry transition progress (1 when there is none), Exit
	// the exit transition progress (0 until the exit starts).
	Entry float64 `json:"entry"`
	Exit  float64 `json:"exit"`
}

// Active reports whether a scene covers the frame.
func (f Frame) Active() bool {
	return f.Scene != nil
}

// Character is a placement resolved at one frame.
type Character struct {
	Placement          Placement             `json:"placement"`
	Position           position.Position     `json:"position"`
	Expression         expression.Transition `json:"expression"`
	ExpressionProgress float64               `json:"expressionProgress"`
	// GestureStart is the absolute frame the gesture began.
	GestureStart int `json:"gestureStart"`
}

// RigInput returns what rig.Compose needs for this character at frame.
func (c Character) RigInput(frame int) rig.Input {
	return rig.Input{
		Frame:        frame,
		Expression:   c.Expression,
		Talking:      c.Placement.Talking,
		Phonemes:     c.Placement.Phonemes,
		Gesture:      c.Placement.Gesture,
		GestureStart: c.GestureStart,
		Seed:         c.Placement.Seed,
		Liquid:       c.Placement.Liquid,
	}
}

// Canvas returns the timeline's canvas size, defaulted to 1920×1080.
func (t *Timeline) Canvas() (int, int) {
	w, h := t.Width, t.Height
	if w <= 0 {
		w = position.CanvasWidth
	}
	if h <= 0 {
		h = position.CanvasHeight
	}
	return w, h
}

// SceneAt returns the index of the scene containing frame, scanning from the
// end so a later scene wins over an earlier overlapping one.
func (t *Timeline) SceneAt(frame int) (int, bool) {
	for i := len(t.Scenes) - 1; i >= 0; i-- {
		if t.Scenes[i].Contains(frame) {
			return i, true
		}
	}
	return -1, false
}

// Resolve computes the per-frame state for frame. It depends only on the
// timeline and frame, so frames may be resolved in any order or in parallel.
func (t *Timeline) Resolve(frame int) Frame {
	w, h := t.Canvas()
	out := Frame{Frame: frame, Camera: camera.Default(w, h), Entry: 1}

	i, ok := t.SceneAt(frame)
	if !ok {
		return out
	}
	scene := &t.Scenes[i]
	var prev *Scene
	if i > 0 {
		prev = &t.Scenes[i-1]
	}

	out.Scene = scene
	out.Previous = prev
	out.Local = frame - scene.Start

	for _, p := range scene.Characters {
		out.Characters = append(out.Characters, resolveCharacter(p, scene, prev, frame))
	}

	to := scenePose(scene, w, h)
	out.CameraMove = camera.Move{From: to, To: to, StartFrame: scene.Start}
	if prev != nil {
		if from := scenePose(prev, w, h); from != to {
			out.CameraMove = camera.Move{From: from, To: to, StartFrame: scene.Start, Duration: camera.DefaultMoveFrames}
		}
	}
	out.Camera = out.CameraMove.At(frame)

	if s := scene.Transition; s != nil && s.Active() {
		out.Entry = motion.Clamp01(float64(out.Local) / float64(s.Frames()))
	}
	if s := scene.Exit; s != nil && s.Active() {
		d := s.Frames()
		out.Exit = motion.Clamp01(float64(frame-(scene.End-d)+1) / float64(d))
	}
	return out
}

// scenePose is the static camera of a scene: its declared pose or the full
// view.
func scenePose(s *Scene, w, h int) camera.Pose {
	if s.Camera == nil {
		return camera.Default(w, h)
	}
	return s.Camera.Normalize()
}

func emotionOf(p Placement) expression.Emotion {
	if p.Emotion == "" {
		return expression.Default
	}
	return expression.Normalize(p.Emotion)
}

func resolveCharacter(p Placement, scene, prev *Scene, frame int) Character {
	name := p.Position
	if name == "" {
		name = position.DefaultPreset
	}
	pos := position.Resolve(name, p.Jitter, p.Seed)
	if p.X != nil {
		pos.X = *p.X
	}
	if p.Y != nil {
		pos.Y = *p.Y
	}
	if p.Scale != nil {
		pos.Scale *= *p.Scale
	}

	// A character carried over from the previous scene ramps from its old
	// emotion at the scene start; a newcomer appears settled.
	to := emotionOf(p)
	tr := expression.Steady(to)
	if prev != nil {
		for _, q := range prev.Characters {
			if q.ID == p.ID {
				tr = expression.Steady(emotionOf(q)).Request(scene.Start, to)
				break
			}
		}
	}

	progress := 1.0
	if tr.From != tr.To {
		progress = tr.Progress(frame)
	}
	return Character{
		Placement:          p,
		Position:           pos,
		Expression:         tr,
		ExpressionProgress: progress,
		GestureStart:       scene.Start + p.GestureStart,
	}
}
