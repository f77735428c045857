package rig

import (
	"math"
	"sort"
	"strings"

	"github.com/ivlev/storyrig/internal/motion"
)

// MouthShape is one of four discrete mouth drawings.
type MouthShape int

const (
	MouthClosed MouthShape = iota
	MouthSlight
	MouthMedium
	MouthWide
)

func (m MouthShape) String() string {
	switch m {
	case MouthClosed:
		return "closed"
	case MouthSlight:
		return "slight"
	case MouthMedium:
		return "medium"
	case MouthWide:
		return "wide"
	}
	return "closed"
}

// MarshalText keeps shapes readable in serialized trees.
func (m MouthShape) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// sentencePause reports whether the slow sentence rhythm forces a pause.
func sentencePause(f float64) bool {
	return motion.Oscillate(f, 0.35, 0) < -0.6
}

// BasicMouthShape approximates speech without phoneme data: three detuned
// oscillators pick a shape, and a slow sentence rhythm closes the mouth
// between phrases.
func BasicMouthShape(frame int, talking bool) MouthShape {
	if !talking {
		return MouthClosed
	}
	f := float64(frame)
	if sentencePause(f) {
		return MouthClosed
	}
	v := 0.5*motion.Oscillate(f, 4.1, 0) +
		0.3*motion.Oscillate(f, 6.7, 1.1) +
		0.2*motion.Oscillate(f, 2.3, 2.4)
	switch {
	case v < -0.2:
		return MouthClosed
	case v < 0.2:
		return MouthSlight
	case v < 0.55:
		return MouthMedium
	default:
		return MouthWide
	}
}

// PhonemeEvent marks the phoneme that starts at Time seconds.
type PhonemeEvent struct {
	Time    float64 `json:"time" yaml:"time"`
	Phoneme string  `json:"phoneme" yaml:"phoneme"`
}

var (
	wideVowels    = map[string]bool{"AA": true, "AE": true, "AH": true, "AW": true, "AY": true, "EH": true}
	roundedVowels = map[string]bool{"OW": true, "UW": true, "OY": true, "AO": true, "UH": true, "W": true}
	closedLips    = map[string]bool{"M": true, "B": true, "P": true, "SIL": true, "SP": true, "": true}
)

// normalizePhoneme upper-cases an ARPAbet label and strips stress digits.
func normalizePhoneme(p string) string {
	p = strings.ToUpper(strings.TrimSpace(p))
	return strings.TrimRight(p, "012")
}

// ShapeForPhoneme maps a phoneme label to a mouth shape. Labels outside the
// wide, rounded and closed-lip classes are drawn slightly open.
func ShapeForPhoneme(p string) MouthShape {
	p = normalizePhoneme(p)
	switch {
	case wideVowels[p]:
		return MouthWide
	case roundedVowels[p]:
		return MouthMedium
	case closedLips[p]:
		return MouthClosed
	default:
		return MouthSlight
	}
}

// PhonemeMouthShape finds the last event at or before frame and returns its
// shape. events must be sorted by Time; unsorted input is not repaired.
// Before the first event the mouth is closed.
func PhonemeMouthShape(events []PhonemeEvent, frame int) MouthShape {
	t := float64(frame) / motion.FPS
	idx := sort.Search(len(events), func(i int) bool {
		return events[i].Time > t
	}) - 1
	if idx < 0 {
		return MouthClosed
	}
	return ShapeForPhoneme(events[idx].Phoneme)
}

// SpeechBounce is the small upward head bob while talking, in pixels
// (negative is up). It fades out during sentence pauses.
func SpeechBounce(frame int, talking bool) float64 {
	if !talking {
		return 0
	}
	f := float64(frame)
	if sentencePause(f) {
		return 0
	}
	return -math.Abs(motion.Oscillate(f, 2.2, 0)) * 4
}

// HandAngle is the free-hand gesture angle in degrees used when no named
// gesture is active. Talking characters gesture more.
func HandAngle(frame int, talking bool) float64 {
	f := float64(frame)
	if !talking {
		return motion.Oscillate(f, 0.2, 0) * 3
	}
	return motion.Oscillate(f, 0.6, 0)*12 + motion.Oscillate(f, 1.3, 0.9)*5
}
