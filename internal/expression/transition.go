package expression

import "github.com/ivlev/storyrig/internal/motion"

// TransitionFrames is the length of the expression ramp in ticks (~0.33s).
const TransitionFrames = 10

// Transition is an explicit, caller-owned record of one pending expression
// change. Being a plain value it can be derived per frame, stored with a
// scene, or shipped to another worker.
type Transition struct {
	From       Emotion `json:"from" yaml:"from"`
	To         Emotion `json:"to" yaml:"to"`
	StartFrame int     `json:"startFrame" yaml:"start_frame"`
}

// Steady returns a transition that is already settled on e.
func Steady(e Emotion) Transition {
	return Transition{From: e, To: e}
}

// Request returns the record after asking for target at frame. A target equal
// to the pending one changes nothing; any other target starts a new ramp from
// the previous target, discarding progress made towards it.
func (t Transition) Request(frame int, target Emotion) Transition {
	if target == t.To {
		return t
	}
	return Transition{From: t.To, To: target, StartFrame: frame}
}

// Progress is the linear [0,1] ramp position at frame.
func (t Transition) Progress(frame int) float64 {
	return motion.Clamp01(float64(frame-t.StartFrame) / TransitionFrames)
}

// Params evaluates the blended face parameters at frame.
func (t Transition) Params(frame int) Params {
	return Interpolate(t.From, t.To, t.Progress(frame))
}

// Done reports whether the ramp has completed at frame.
func (t Transition) Done(frame int) bool {
	return t.From == t.To || frame-t.StartFrame >= TransitionFrames
}

// Tracker is the stateful convenience form of Transition for call sites that
// animate one character strictly in frame order. It must be owned by a
// single caller and fed non-decreasing frames; it is not safe for concurrent
// or out-of-order use. Prefer deriving a Transition per frame when frames may
// be rendered in parallel.
type Tracker struct {
	state Transition
}

// NewTracker starts a tracker settled on initial.
func NewTracker(initial Emotion) *Tracker {
	return &Tracker{state: Steady(initial)}
}

// GetTransitionParams records requested as the new target when it differs
// from the stored one and returns the blended parameters at frame.
func (tr *Tracker) GetTransitionParams(frame int, requested Emotion) Params {
	tr.state = tr.state.Request(frame, requested)
	return tr.state.Params(frame)
}

// State returns a copy of the current record.
func (tr *Tracker) State() Transition {
	return tr.state
}
