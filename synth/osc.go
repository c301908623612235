package synth

import (
	"fmt"
	"math"
	"strings"
)

// Waveform selects an oscillator shape.
type Waveform int

const (
	Sine Waveform = iota
	Square
	Sawtooth
	Triangle
)

var waveNames = []string{"sine", "square", "sawtooth", "triangle"}

func (w Waveform) String() string {
	if w < 0 || int(w) >= len(waveNames) {
		return fmt.Sprintf("Waveform(%d)", int(w))
	}
	return waveNames[w]
}

// ParseWaveform accepts the names printed by String plus "saw" and "tri".
func ParseWaveform(s string) (Waveform, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sine":
		return Sine, nil
	case "square":
		return Square, nil
	case "sawtooth", "saw":
		return Sawtooth, nil
	case "triangle", "tri":
		return Triangle, nil
	}
	return 0, fmt.Errorf("unknown waveform %q", s)
}

// Osc is a single oscillator whose frequency is an automated Param.
// A frequency at or below zero is silence and restarts the phase.
type Osc struct {
	Wave  Waveform
	Freq  *Param
	phase float64
}

func NewOsc(w Waveform) *Osc {
	return &Osc{Wave: w, Freq: NewParam(0)}
}

// Next returns the sample at time t and advances the phase by one sample.
func (o *Osc) Next(t, sampleRate float64) float64 {
	f := o.Freq.ValueAt(t)
	if f <= 0 {
		o.phase = 0
		return 0
	}
	dt := f / sampleRate
	if dt > 0.5 {
		dt = 0.5
	}
	y := shape(o.Wave, o.phase, dt)
	_, o.phase = math.Modf(o.phase + dt)
	return y
}

func shape(w Waveform, ph, dt float64) float64 {
	switch w {
	case Square:
		y := -1.0
		if ph < 0.5 {
			y = 1
		}
		y += polyBLEP(ph, dt)
		_, half := math.Modf(ph + 0.5)
		y -= polyBLEP(half, dt)
		return y
	case Sawtooth:
		// rises from 0 at phase 0 and wraps at phase 0.5
		_, p := math.Modf(ph + 0.5)
		return 2*p - 1 - polyBLEP(p, dt)
	case Triangle:
		switch {
		case ph < 0.25:
			return 4 * ph
		case ph < 0.75:
			return 2 - 4*ph
		default:
			return 4*ph - 4
		}
	}
	return math.Sin(2 * math.Pi * ph)
}

// polyBLEP is the two-sample polynomial correction for a unit step at phase
// zero, used to band-limit the discontinuities of square and saw.
func polyBLEP(t, dt float64) float64 {
	switch {
	case t < dt:
		t /= dt
		return t + t - t*t - 1
	case t > 1-dt:
		t = (t - 1) / dt
		return t*t + t + t + 1
	}
	return 0
}
