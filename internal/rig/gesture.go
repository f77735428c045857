package rig

import (
	"math"

	"github.com/ivlev/storyrig/internal/motion"
)

// Gesture names a canned arm animation.
type Gesture string

const (
	GestureIdle    Gesture = "idle"
	GestureWave    Gesture = "wave"
	GesturePoint   Gesture = "point"
	GestureShrug   Gesture = "shrug"
	GestureExplain Gesture = "explain"
	GestureCheers  Gesture = "cheers"
)

// ArmPose holds arm rotations in degrees, positive clockwise.
type ArmPose struct {
	LeftArm      float64 `json:"leftArm"`
	LeftForearm  float64 `json:"leftForearm"`
	RightArm     float64 `json:"rightArm"`
	RightForearm float64 `json:"rightForearm"`
}

type gestureDef struct {
	// entry is the number of ticks over which the gesture eases in.
	entry int
	pose  func(f float64) ArmPose
}

var gestures = map[Gesture]gestureDef{
	GestureIdle: {entry: 0, pose: idleArms},
	GestureWave: {entry: 10, pose: func(f float64) ArmPose {
		p := idleArms(f)
		p.RightArm = -150
		p.RightForearm = motion.Oscillate(f, 2, 0) * 25
		return p
	}},
	GesturePoint: {entry: 8, pose: func(f float64) ArmPose {
		p := idleArms(f)
		p.RightArm = -80
		p.RightForearm = -5 + motion.Oscillate(f, 0.5, 0)*2
		return p
	}},
	GestureShrug: {entry: 12, pose: func(f float64) ArmPose {
		lift := motion.Oscillate(f, 0.5, 0) * 3
		return ArmPose{
			LeftArm: 35 + lift, LeftForearm: -60,
			RightArm: -35 - lift, RightForearm: 60,
		}
	}},
	GestureExplain: {entry: 15, pose: func(f float64) ArmPose {
		return ArmPose{
			LeftArm:      -30 + motion.Oscillate(f, 0.9, 0)*10,
			LeftForearm:  -40 + motion.Oscillate(f, 1.4, 0)*15,
			RightArm:     30 + motion.Oscillate(f, 0.9, math.Pi)*10,
			RightForearm: 40 + motion.Oscillate(f, 1.4, math.Pi)*15,
		}
	}},
	GestureCheers: {entry: 10, pose: func(f float64) ArmPose {
		pump := motion.Oscillate(f, 3, 0) * 15
		return ArmPose{
			LeftArm: 160, LeftForearm: pump,
			RightArm: -160, RightForearm: -pump,
		}
	}},
}

func idleArms(f float64) ArmPose {
	s := motion.Oscillate(f, 0.25, 0) * 2
	return ArmPose{LeftArm: -5 + s, LeftForearm: 10, RightArm: 5 - s, RightForearm: -10}
}

// ParseGesture resolves a gesture name. The empty name is idle; unknown
// names fall back to idle with a warning.
func ParseGesture(name string) Gesture {
	if name == "" {
		return GestureIdle
	}
	g := Gesture(name)
	if _, ok := gestures[g]; !ok {
		log.WithField("gesture", name).Warn("unknown gesture, using idle")
		return GestureIdle
	}
	return g
}

// Gestures lists every named gesture in a fixed order.
func Gestures() []Gesture {
	return []Gesture{GestureIdle, GestureWave, GesturePoint, GestureShrug, GestureExplain, GestureCheers}
}

// GestureArms evaluates gesture g at the absolute frame, sinceStart ticks
// after it began. The pose eases in from the idle arms over the gesture's
// entry window so onset never snaps. Unknown gestures evaluate as idle.
func GestureArms(g Gesture, frame, sinceStart int) ArmPose {
	if g == "" {
		g = GestureIdle
	}
	def, ok := gestures[g]
	if !ok {
		log.WithField("gesture", string(g)).Warn("unknown gesture, using idle")
		def = gestures[GestureIdle]
	}
	f := float64(frame)
	target := def.pose(f)
	if def.entry <= 0 {
		return target
	}
	if sinceStart < 0 {
		sinceStart = 0
	}
	e := motion.EaseOut(float64(sinceStart) / float64(def.entry))
	if e >= 1 {
		return target
	}
	rest := idleArms(f)
	return ArmPose{
		LeftArm:      motion.Lerp(rest.LeftArm, target.LeftArm, e),
		LeftForearm:  motion.Lerp(rest.LeftForearm, target.LeftForearm, e),
		RightArm:     motion.Lerp(rest.RightArm, target.RightArm, e),
		RightForearm: motion.Lerp(rest.RightForearm, target.RightForearm, e),
	}
}

// EntryFrames returns the ease-in window of g in ticks.
func EntryFrames(g Gesture) int {
	return gestures[g].entry
}
