package synth

import "math"

// Meter tracks a windowed RMS amplitude and a decaying peak.
type Meter struct {
	buf  []float64
	i    int
	sum  float64
	peak float64
	fall float64
}

// NewMeter returns a meter averaging over window seconds whose peak falls
// by half every window.
func NewMeter(window float64, sampleRate int) *Meter {
	n := int(window * float64(sampleRate))
	if n < 1 {
		n = 1
	}
	return &Meter{buf: make([]float64, n), fall: math.Pow(0.5, 1/float64(n))}
}

func (m *Meter) Add(x float64) {
	m.sum -= m.buf[m.i]
	m.buf[m.i] = x * x
	m.sum += m.buf[m.i]
	m.i = (m.i + 1) % len(m.buf)
	m.peak *= m.fall
	if a := math.Abs(x); a > m.peak {
		m.peak = a
	}
}

// RMS returns the amplitude over the window.
func (m *Meter) RMS() float64 {
	if m.sum <= 0 {
		return 0
	}
	return math.Sqrt(m.sum / float64(len(m.buf)))
}

func (m *Meter) Peak() float64 { return m.peak }
