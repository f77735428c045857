// Package expression defines the closed set of facial expressions a character
// can show and how to blend between them.
package expression

import (
	"github.com/sirupsen/logrus"

	"github.com/ivlev/storyrig/internal/motion"
)

var log = logrus.WithField("component", "expression")

// Emotion names one entry of the expression table.
type Emotion string

const (
	Neutral   Emotion = "neutral"
	Happy     Emotion = "happy"
	Excited   Emotion = "excited"
	Sad       Emotion = "sad"
	Surprised Emotion = "surprised"
	Angry     Emotion = "angry"
	Thinking  Emotion = "thinking"
	Confused  Emotion = "confused"
	Worried   Emotion = "worried"
)

// Default is used whenever an unknown emotion name is requested.
const Default = Neutral

// Params is the fixed-shape set of face offsets one emotion maps to.
// Scales are multipliers (1 = rest), offsets are canvas pixels at scale 1,
// rotations and tilt are degrees.
type Params struct {
	EyeScale          float64 `json:"eyeScale" yaml:"eye_scale"`
	EyeOffsetY        float64 `json:"eyeOffsetY" yaml:"eye_offset_y"`
	PupilScale        float64 `json:"pupilScale" yaml:"pupil_scale"`
	LeftBrowOffsetY   float64 `json:"leftBrowOffsetY" yaml:"left_brow_offset_y"`
	RightBrowOffsetY  float64 `json:"rightBrowOffsetY" yaml:"right_brow_offset_y"`
	LeftBrowRotation  float64 `json:"leftBrowRotation" yaml:"left_brow_rotation"`
	RightBrowRotation float64 `json:"rightBrowRotation" yaml:"right_brow_rotation"`
	MouthCurve        float64 `json:"mouthCurve" yaml:"mouth_curve"`
	MouthWidth        float64 `json:"mouthWidth" yaml:"mouth_width"`
	MouthOpenness     float64 `json:"mouthOpenness" yaml:"mouth_openness"`
	BlushOpacity      float64 `json:"blushOpacity" yaml:"blush_opacity"`
	HeadTilt          float64 `json:"headTilt" yaml:"head_tilt"`
}

// table is read-only after package init.
var table = map[Emotion]Params{
	Neutral: {
		EyeScale: 1, PupilScale: 1,
		MouthCurve: 0.1, MouthWidth: 1,
	},
	Happy: {
		EyeScale: 0.9, EyeOffsetY: -1, PupilScale: 1.05,
		LeftBrowOffsetY: -3, RightBrowOffsetY: -3,
		LeftBrowRotation: -4, RightBrowRotation: 4,
		MouthCurve: 0.8, MouthWidth: 1.15, MouthOpenness: 0.15,
		BlushOpacity: 0.35, HeadTilt: 2,
	},
	Excited: {
		EyeScale: 1.2, EyeOffsetY: -2, PupilScale: 1.15,
		LeftBrowOffsetY: -8, RightBrowOffsetY: -8,
		LeftBrowRotation: -6, RightBrowRotation: 6,
		MouthCurve: 1, MouthWidth: 1.25, MouthOpenness: 0.6,
		BlushOpacity: 0.5, HeadTilt: 4,
	},
	Sad: {
		EyeScale: 0.85, EyeOffsetY: 2, PupilScale: 0.95,
		LeftBrowOffsetY: -2, RightBrowOffsetY: -2,
		LeftBrowRotation: 12, RightBrowRotation: -12,
		MouthCurve: -0.7, MouthWidth: 0.85,
		HeadTilt: -5,
	},
	Surprised: {
		EyeScale: 1.35, EyeOffsetY: -3, PupilScale: 0.8,
		LeftBrowOffsetY: -12, RightBrowOffsetY: -12,
		MouthCurve: 0, MouthWidth: 0.7, MouthOpenness: 0.9,
		BlushOpacity: 0.1,
	},
	Angry: {
		EyeScale: 0.8, EyeOffsetY: 1, PupilScale: 0.9,
		LeftBrowOffsetY: 4, RightBrowOffsetY: 4,
		LeftBrowRotation: 15, RightBrowRotation: -15,
		MouthCurve: -0.5, MouthWidth: 1.05, MouthOpenness: 0.1,
		BlushOpacity: 0.2, HeadTilt: -2,
	},
	Thinking: {
		EyeScale: 0.95, EyeOffsetY: -2, PupilScale: 1,
		LeftBrowOffsetY: -6, RightBrowOffsetY: 1,
		LeftBrowRotation: -8, RightBrowRotation: 3,
		MouthCurve: -0.1, MouthWidth: 0.8,
		HeadTilt: 6,
	},
	Confused: {
		EyeScale: 1.05, PupilScale: 0.95,
		LeftBrowOffsetY: -7, RightBrowOffsetY: 2,
		LeftBrowRotation: -10, RightBrowRotation: 8,
		MouthCurve: -0.25, MouthWidth: 0.9, MouthOpenness: 0.1,
		HeadTilt: -7,
	},
	Worried: {
		EyeScale: 1.1, EyeOffsetY: 1, PupilScale: 0.9,
		LeftBrowOffsetY: -5, RightBrowOffsetY: -5,
		LeftBrowRotation: 10, RightBrowRotation: -10,
		MouthCurve: -0.35, MouthWidth: 0.9, MouthOpenness: 0.05,
		BlushOpacity: 0.05, HeadTilt: -3,
	},
}

// order fixes the public enumeration order. New names are appended.
var order = []Emotion{Neutral, Happy, Excited, Sad, Surprised, Angry, Thinking, Confused, Worried}

// All returns every known emotion in enumeration order.
func All() []Emotion {
	out := make([]Emotion, len(order))
	copy(out, order)
	return out
}

// Known reports whether e is part of the enumeration.
func Known(e Emotion) bool {
	_, ok := table[e]
	return ok
}

// ParamsOf returns the parameter set of e. Unknown emotions resolve to the
// Default set and log a warning.
func ParamsOf(e Emotion) Params {
	p, ok := table[e]
	if !ok {
		log.WithField("emotion", string(e)).Warn("unknown emotion, using neutral")
		return table[Default]
	}
	return p
}

// Normalize maps unknown names to Default so they can be compared safely.
func Normalize(e Emotion) Emotion {
	if Known(e) {
		return e
	}
	log.WithField("emotion", string(e)).Warn("unknown emotion, using neutral")
	return Default
}

// Interpolate blends from → to. progress is eased with motion.EaseOut and
// every field is interpolated independently.
func Interpolate(from, to Emotion, progress float64) Params {
	a := ParamsOf(from)
	if from == to {
		return a
	}
	b := ParamsOf(to)
	return Blend(a, b, motion.EaseOut(progress))
}

// Blend linearly interpolates two parameter sets with an already-eased t.
func Blend(a, b Params, t float64) Params {
	return Params{
		EyeScale:          motion.Lerp(a.EyeScale, b.EyeScale, t),
		EyeOffsetY:        motion.Lerp(a.EyeOffsetY, b.EyeOffsetY, t),
		PupilScale:        motion.Lerp(a.PupilScale, b.PupilScale, t),
		LeftBrowOffsetY:   motion.Lerp(a.LeftBrowOffsetY, b.LeftBrowOffsetY, t),
		RightBrowOffsetY:  motion.Lerp(a.RightBrowOffsetY, b.RightBrowOffsetY, t),
		LeftBrowRotation:  motion.Lerp(a.LeftBrowRotation, b.LeftBrowRotation, t),
		RightBrowRotation: motion.Lerp(a.RightBrowRotation, b.RightBrowRotation, t),
		MouthCurve:        motion.Lerp(a.MouthCurve, b.MouthCurve, t),
		MouthWidth:        motion.Lerp(a.MouthWidth, b.MouthWidth, t),
		MouthOpenness:     motion.Lerp(a.MouthOpenness, b.MouthOpenness, t),
		BlushOpacity:      motion.Lerp(a.BlushOpacity, b.BlushOpacity, t),
		HeadTilt:          motion.Lerp(a.HeadTilt, b.HeadTilt, t),
	}
}
