package synth

import "math"

// Limiter is a soft limiter. The RMS of its output, averaged over the
// attack time, approaches limit; peaks may still exceed it. The input is
// delayed by the attack time so gain reduction lands before a transient.
type Limiter struct {
	limit    float64
	down, up float64
	amp      float64
	rms      *Meter
	delay    []float64
	di       int
}

func NewLimiter(limit, attack, decay float64, sampleRate int) *Limiter {
	rate := float64(sampleRate)
	n := int(attack * rate)
	if n < 1 {
		n = 1
	}
	return &Limiter{
		limit: limit,
		down:  -1 / (attack * rate),
		up:    1 / (decay * rate),
		rms:   NewMeter(attack, sampleRate),
		delay: make([]float64, n),
	}
}

// Limit feeds x and returns the delayed, gain-adjusted sample. Below the
// limit the gain recovers towards 1.
func (l *Limiter) Limit(x float64) float64 {
	gain := math.Exp2(l.amp)
	l.rms.Add(x)
	if y := l.rms.RMS() / l.limit; y > 1 && math.Tanh(y)/y < gain {
		l.amp += l.down
	} else if l.amp < 0 {
		l.amp = math.Min(0, l.amp+l.up)
	}
	out := l.delay[l.di]
	l.delay[l.di] = x
	l.di = (l.di + 1) % len(l.delay)
	return gain * out
}

// gain returns the current gain factor, 1 when idle.
func (l *Limiter) gain() float64 {
	return math.Exp2(l.amp)
}

// SoftClip bounds x to (-1,1) smoothly.
func SoftClip(x float64) float64 {
	return math.Tanh(x)
}
