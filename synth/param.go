package synth

import (
	"math"
	"sort"
)

type eventKind int

const (
	setValue eventKind = iota
	linearRamp
	expRamp
	setTarget
)

type event struct {
	kind eventKind
	t, v float64
	tau  float64
}

// Param is a value automated against the engine clock. Times are in seconds.
// Events take effect in time order; events scheduled at or before the
// current time apply on the next evaluation.
//
// A Param is not safe for concurrent use. Voices owned by an Engine must be
// scheduled from inside Engine.Do.
type Param struct {
	// settled state: the curve value at time at, optionally approaching
	// target with time constant tau.
	at, v     float64
	targeting bool
	target    float64
	tau       float64

	now     float64
	pending []event
}

// NewParam returns a param holding v.
func NewParam(v float64) *Param {
	return &Param{v: v}
}

// SetValueAtTime jumps to v at t.
func (p *Param) SetValueAtTime(v, t float64) {
	p.insert(event{kind: setValue, t: t, v: v})
}

// LinearRampToValueAtTime ramps linearly from the previous event to reach v
// at t.
func (p *Param) LinearRampToValueAtTime(v, t float64) {
	p.anchor()
	p.insert(event{kind: linearRamp, t: t, v: v})
}

// ExponentialRampToValueAtTime ramps geometrically from the previous event
// to reach v at t. If either end is not positive the old value holds until
// t and then jumps to v.
func (p *Param) ExponentialRampToValueAtTime(v, t float64) {
	p.anchor()
	p.insert(event{kind: expRamp, t: t, v: v})
}

// SetTargetAtTime starts approaching v at t with time constant tau seconds.
// A non-positive tau jumps.
func (p *Param) SetTargetAtTime(v, t, tau float64) {
	if tau <= 0 {
		p.SetValueAtTime(v, t)
		return
	}
	p.insert(event{kind: setTarget, t: t, v: v, tau: tau})
}

// CancelScheduledValues drops every event at or after t.
func (p *Param) CancelScheduledValues(t float64) {
	i := sort.Search(len(p.pending), func(i int) bool { return p.pending[i].t >= t })
	p.pending = p.pending[:i]
}

// Pending returns how many events have not yet been reached.
func (p *Param) Pending() int {
	return len(p.pending)
}

// ValueAt advances the param to t and returns its value. t must not go
// backwards between calls; events at or before t are consumed.
func (p *Param) ValueAt(t float64) float64 {
	if t > p.now {
		p.now = t
	}
	for len(p.pending) > 0 && p.pending[0].t <= p.now {
		e := p.pending[0]
		p.pending = p.pending[1:]
		switch e.kind {
		case setTarget:
			p.v = p.curve(e.t)
			p.at = e.t
			p.targeting = true
			p.target = e.v
			p.tau = e.tau
		default:
			p.v = e.v
			p.at = e.t
			p.targeting = false
		}
	}
	if len(p.pending) == 0 {
		p.pending = nil
		return p.curve(p.now)
	}
	next := p.pending[0]
	switch next.kind {
	case linearRamp, expRamp:
		return ramp(next.kind, p.curve(p.at), next.v, p.at, next.t, p.now)
	}
	return p.curve(p.now)
}

func (p *Param) curve(t float64) float64 {
	if !p.targeting || t <= p.at {
		return p.v
	}
	return p.target + (p.v-p.target)*math.Exp(-(t-p.at)/p.tau)
}

// anchor pins the start of a ramp that has no earlier pending event to the
// current time, so the ramp starts from now instead of from the last event.
func (p *Param) anchor() {
	if len(p.pending) > 0 || p.at >= p.now {
		return
	}
	p.v = p.curve(p.now)
	p.at = p.now
	p.targeting = false
}

func (p *Param) insert(e event) {
	i := sort.Search(len(p.pending), func(i int) bool { return p.pending[i].t > e.t })
	p.pending = append(p.pending, event{})
	copy(p.pending[i+1:], p.pending[i:])
	p.pending[i] = e
}

func ramp(kind eventKind, v0, v1, t0, t1, t float64) float64 {
	if t1 <= t0 {
		return v1
	}
	frac := (t - t0) / (t1 - t0)
	if frac <= 0 {
		return v0
	}
	if frac >= 1 {
		return v1
	}
	if kind == linearRamp {
		return v0 + (v1-v0)*frac
	}
	if v0 <= 0 || v1 <= 0 {
		return v0
	}
	return v0 * math.Pow(v1/v0, frac)
}
