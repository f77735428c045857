// Package rig turns an absolute frame index into the small procedural
// offsets that keep a character alive: breathing, blinking, swaying, talking
// and gesturing. Every generator here is a pure function of its arguments so
// frames can be evaluated in any order or in parallel.
package rig

import (
	"math"

	"github.com/ivlev/storyrig/internal/motion"
)

// Breath is the breathing offset of the torso.
type Breath struct {
	OffsetY float64 `json:"offsetY"`
	ScaleX  float64 `json:"scaleX"`
}

// Breathing follows a ~0.5Hz cycle: the torso rises a few pixels and widens
// slightly on the inhale.
func Breathing(frame int) Breath {
	f := float64(frame)
	return Breath{
		OffsetY: motion.Oscillate(f, 0.5, 0) * 3,
		ScaleX:  1 + motion.Oscillate(f, 0.5, math.Pi/2)*0.008,
	}
}

const (
	// BlinkWindow is the length of one blink decision window (2s).
	BlinkWindow = 60
	// BlinkLength is the number of ticks a blink lasts.
	BlinkLength = 5

	blinkChance = 0.7
)

// blinkProfile is eye openness for each tick of a blink: closing, closed,
// opening.
var blinkProfile = [BlinkLength]float64{0.6, 0.15, 0, 0.3, 0.75}

// BlinkWindowOf returns the window index frame falls in. Negative frames use
// floor division so windows stay BlinkWindow ticks long.
func BlinkWindowOf(frame int) int {
	w := frame / BlinkWindow
	if frame%BlinkWindow != 0 && frame < 0 {
		w--
	}
	return w
}

// ShouldBlink decides whether window w contains a blink.
func ShouldBlink(w int) bool {
	return motion.Hash01(float64(w)*3.17+0.5) < blinkChance
}

// BlinkOffset is the tick inside window w at which its blink starts. The
// whole blink always fits inside the window.
func BlinkOffset(w int) int {
	return int(motion.Hash01(float64(w)*7.31+2.2) * (BlinkWindow - BlinkLength))
}

// EyeOpenness returns 1 for open eyes and 0 for fully closed ones.
func EyeOpenness(frame int) float64 {
	w := BlinkWindowOf(frame)
	if !ShouldBlink(w) {
		return 1
	}
	local := frame - w*BlinkWindow - BlinkOffset(w)
	if local < 0 || local >= BlinkLength {
		return 1
	}
	return blinkProfile[local]
}

// Sway is the body lean in degrees: two detuned oscillators so the motion
// never looks perfectly periodic.
func Sway(frame int) float64 {
	f := float64(frame)
	return motion.Oscillate(f, 0.3, 0)*1.5 + motion.Oscillate(f, 0.17, 1.3)*0.8
}

// PupilDrift returns a slow wandering pupil offset in pixels. seed keeps
// characters from looking around in unison.
func PupilDrift(frame int, seed int) (x, y float64) {
	f := float64(frame)
	s := float64(seed)
	x = (motion.SmoothNoise(f/45, s) - 0.5) * 4
	y = (motion.SmoothNoise(f/60, s+11) - 0.5) * 2
	return x, y
}

// LiquidSway is the surface tilt in degrees of a held liquid prop (a cup,
// a flask). intensity 0 keeps the surface flat.
func LiquidSway(frame int, intensity float64) float64 {
	f := float64(frame)
	return (motion.Oscillate(f, 0.8, 0)*6 + motion.Oscillate(f, 1.9, 0.7)*2) * intensity
}
