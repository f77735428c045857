// Package motion holds the numeric building blocks every animated value is
// computed from. All functions are pure and total: NaN or infinite inputs
// propagate as NaN, nothing panics.
package motion

import "math"

// FPS is the canonical tick rate. Frame indices everywhere in storyrig are
// absolute ticks at this rate.
const FPS = 30

// Clamp01 clamps t to [0, 1]. NaN passes through unchanged.
func Clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// EaseOut is a cubic ease-out: 1 - (1-t)^3 with t clamped to [0, 1].
func EaseOut(t float64) float64 {
	t = Clamp01(t)
	u := 1 - t
	return 1 - u*u*u
}

// EaseInOut is a cubic ease-in-out with t clamped to [0, 1].
//
//	t < 0.5:  4t^3
//	t >= 0.5: 1 - (-2t+2)^3 / 2
func EaseInOut(t float64) float64 {
	t = Clamp01(t)
	if t < 0.5 {
		return 4 * t * t * t
	}
	u := -2*t + 2
	return 1 - u*u*u/2
}

// Lerp interpolates between a and b. t is clamped, a and b are not.
// The two-product form returns a and b exactly at t=0 and t=1.
func Lerp(a, b, t float64) float64 {
	t = Clamp01(t)
	return (1-t)*a + t*b
}

// MapRange maps v from [inMin, inMax] onto [outMin, outMax], clamping at
// both ends. A degenerate input range acts as a step at inMin.
func MapRange(v, inMin, inMax, outMin, outMax float64) float64 {
	if inMax == inMin {
		if v < inMin {
			return outMin
		}
		return outMax
	}
	return Lerp(outMin, outMax, (v-inMin)/(inMax-inMin))
}

// Oscillate returns sin(frame/FPS * freqHz * 2π + phase). Callers working at
// another rate must rescale frame first.
func Oscillate(frame, freqHz, phase float64) float64 {
	return math.Sin(frame/FPS*freqHz*2*math.Pi + phase)
}

// Hash01 is the classic shader hash frac(sin(seed*12.9898+78.233)*43758.5453).
// It uses plain double-precision math.Sin so the same seed yields the same
// bits on every platform. The result lies in [0, 1).
func Hash01(seed float64) float64 {
	x := math.Sin(seed*12.9898+78.233) * 43758.5453
	return x - math.Floor(x)
}

// HashRange maps Hash01(seed) onto [-1, 1).
func HashRange(seed float64) float64 {
	return Hash01(seed)*2 - 1
}

// SmoothNoise is 1D value noise built on Hash01: lattice values at integer
// positions blended with a smoothstep. Output lies in [0, 1).
func SmoothNoise(x, seed float64) float64 {
	i := math.Floor(x)
	f := x - i
	a := Hash01(i + seed*57)
	b := Hash01(i + 1 + seed*57)
	f = f * f * (3 - 2*f)
	return a + (b-a)*f
}
