package rig

import (
	"github.com/sirupsen/logrus"

	"github.com/ivlev/storyrig/internal/expression"
)

var log = logrus.WithField("component", "rig")

// Input is everything Compose needs to pose one character at one frame.
type Input struct {
	Frame      int
	Expression expression.Transition
	Talking    bool
	// Phonemes switches a talking mouth from the oscillator model to
	// phoneme mode. A silent character keeps its mouth closed regardless.
	Phonemes     []PhonemeEvent
	Gesture      Gesture
	GestureStart int
	// Seed decorrelates characters sharing a scene.
	Seed int
	// Liquid is the sway intensity of a held liquid prop, 0 when none.
	Liquid float64
}

// Pose is the complete procedural state of one character at one frame. It is
// what asset renderers receive as configuration.
type Pose struct {
	Expression  expression.Params `json:"expression"`
	EyeOpenness float64           `json:"eyeOpenness"`
	Breath      Breath            `json:"breath"`
	Sway        float64           `json:"sway"`
	PupilX      float64           `json:"pupilX"`
	PupilY      float64           `json:"pupilY"`
	Mouth       MouthShape        `json:"mouth"`
	Bounce      float64           `json:"bounce"`
	HandAngle   float64           `json:"handAngle"`
	Arms        ArmPose           `json:"arms"`
	Liquid      float64           `json:"liquid"`
}

// Compose evaluates every generator for in.Frame.
func Compose(in Input) Pose {
	f := in.Frame
	// Shift idle timing per character so a cast does not blink in unison.
	local := f + in.Seed*23

	mouth := BasicMouthShape(f, in.Talking)
	if in.Talking && len(in.Phonemes) > 0 {
		mouth = PhonemeMouthShape(in.Phonemes, f)
	}

	px, py := PupilDrift(f, in.Seed)
	return Pose{
		Expression:  in.Expression.Params(f),
		EyeOpenness: EyeOpenness(local),
		Breath:      Breathing(local),
		Sway:        Sway(local),
		PupilX:      px,
		PupilY:      py,
		Mouth:       mouth,
		Bounce:      SpeechBounce(f, in.Talking),
		HandAngle:   HandAngle(local, in.Talking),
		Arms:        GestureArms(in.Gesture, f, f-in.GestureStart),
		Liquid:      LiquidSway(local, in.Liquid),
	}
}
