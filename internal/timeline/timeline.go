// Package timeline holds the scene list of a video and resolves, for any
// absolute frame, which scene is active and how its characters, camera and
// transitions are parameterized at that frame.
package timeline

import (
	"github.com/ivlev/storyrig/internal/camera"
	"github.com/ivlev/storyrig/internal/expression"
	"github.com/ivlev/storyrig/internal/rig"
	"github.com/ivlev/storyrig/internal/transition"
)

// Timeline is an ordered list of scenes on one canvas.
type Timeline struct {
	Version string  `json:"version" yaml:"version"`
	FPS     int     `json:"fps,omitempty" yaml:"fps,omitempty"`
	Width   int     `json:"width,omitempty" yaml:"width,omitempty"`
	Height  int     `json:"height,omitempty" yaml:"height,omitempty"`
	Scenes  []Scene `json:"scenes" yaml:"scenes"`
}

// Scene is one contiguous [Start, End) frame interval.
type Scene struct {
	ID         string           `json:"id" yaml:"id"`
	Start      int              `json:"start" yaml:"start"`
	End        int              `json:"end" yaml:"end"`
	Background string           `json:"background,omitempty" yaml:"background,omitempty"`
	Camera     *camera.Pose     `json:"camera,omitempty" yaml:"camera,omitempty"`
	CameraPath *camera.Path     `json:"cameraPath,omitempty" yaml:"camera_path,omitempty"`
	Characters []Placement      `json:"characters,omitempty" yaml:"characters,omitempty"`
	Subtitle   string           `json:"subtitle,omitempty" yaml:"subtitle,omitempty"`
	Transition *transition.Spec `json:"transition,omitempty" yaml:"transition,omitempty"`
	Exit       *transition.Spec `json:"exit,omitempty" yaml:"exit,omitempty"`
	// Mood selects the colour grade; Effects the scene's effect preset.
	Mood    string `json:"mood,omitempty" yaml:"mood,omitempty"`
	Effects string `json:"effects,omitempty" yaml:"effects,omitempty"`
}

// Frames returns the scene length.
func (s Scene) Frames() int {
	return s.End - s.Start
}

// Contains reports whether frame lies in [Start, End).
func (s Scene) Contains(frame int) bool {
	return frame >= s.Start && frame < s.End
}

// Placement puts one character into a scene.
type Placement struct {
	ID string `json:"id" yaml:"id"`
	// Asset selects the renderer; it defaults to ID. X and Y override the
	// preset's coordinates, Scale multiplies its scale.
	Asset    string   `json:"asset,omitempty" yaml:"asset,omitempty"`
	Position string   `json:"position,omitempty" yaml:"position,omitempty"`
	X        *float64 `json:"x,omitempty" yaml:"x,omitempty"`
	Y        *float64 `json:"y,omitempty" yaml:"y,omitempty"`
	Scale    *float64 `json:"scale,omitempty" yaml:"scale,omitempty"`
	// OnGround rests the character on the background's ground line.
	OnGround bool `json:"onGround,omitempty" yaml:"on_ground,omitempty"`

	Emotion  expression.Emotion `json:"emotion,omitempty" yaml:"emotion,omitempty"`
	Talking  bool               `json:"talking,omitempty" yaml:"talking,omitempty"`
	Phonemes []rig.PhonemeEvent `json:"phonemes,omitempty" yaml:"phonemes,omitempty"`
	Gesture  rig.Gesture        `json:"gesture,omitempty" yaml:"gesture,omitempty"`
	// GestureStart is frames into the scene.
	GestureStart int     `json:"gestureStart,omitempty" yaml:"gesture_start,omitempty"`
	Liquid       float64 `json:"liquid,omitempty" yaml:"liquid,omitempty"`

	Jitter  bool   `json:"jitter,omitempty" yaml:"jitter,omitempty"`
	Seed    int    `json:"seed,omitempty" yaml:"seed,omitempty"`
	Effects string `json:"effects,omitempty" yaml:"effects,omitempty"`
}

// AssetID returns the renderer id.
func (p Placement) AssetID() string {
	if p.Asset != "" {
		return p.Asset
	}
	return p.ID
}

// End returns the end of the last scene, i.e. the frame count of the video.
func (t *Timeline) End() int {
	end := 0
	for _, s := range t.Scenes {
		if s.End > end {
			end = s.End
		}
	}
	return end
}
