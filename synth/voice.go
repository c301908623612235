package synth

// Voice is a bank of oscillators, one per register, each through its own
// gain, summed through an optional shaping curve into an output gain.
// A voice only reaches the mix while connected; disconnected voices keep
// running so their automation stays on the clock.
type Voice struct {
	Oscs  []*Osc
	Gains []*Param
	Out   *Param
	// Curve maps [-1,1] onto its points with linear interpolation. Nil
	// passes the signal through.
	Curve []float64

	connected bool
}

// NewVoice returns a voice with one oscillator per waveform. Register
// gains start at gain and the output gain at 1.
func NewVoice(gain float64, waves ...Waveform) *Voice {
	v := &Voice{Out: NewParam(1)}
	for _, w := range waves {
		v.Oscs = append(v.Oscs, NewOsc(w))
		v.Gains = append(v.Gains, NewParam(gain))
	}
	return v
}

// Connect routes the voice to the engine output.
func (v *Voice) Connect() { v.connected = true }

// Disconnect removes the voice from the output without stopping it.
func (v *Voice) Disconnect() { v.connected = false }

func (v *Voice) Connected() bool { return v.connected }

// Registers returns the number of oscillators.
func (v *Voice) Registers() int { return len(v.Oscs) }

func (v *Voice) next(t, sampleRate float64) float64 {
	var sum float64
	for i, o := range v.Oscs {
		sum += o.Next(t, sampleRate) * v.Gains[i].ValueAt(t)
	}
	if v.Curve != nil {
		sum = applyCurve(v.Curve, sum)
	}
	out := sum * v.Out.ValueAt(t)
	if !v.connected {
		return 0
	}
	return out
}

func applyCurve(curve []float64, x float64) float64 {
	n := len(curve)
	if n == 0 {
		return x
	}
	if n == 1 {
		return curve[0]
	}
	pos := (x + 1) / 2 * float64(n-1)
	if pos <= 0 {
		return curve[0]
	}
	if pos >= float64(n-1) {
		return curve[n-1]
	}
	i := int(pos)
	frac := pos - float64(i)
	return curve[i] + (curve[i+1]-curve[i])*frac
}

// DistortionCurve returns an n point soft-clipping curve. amount 0 is a
// straight line.
func DistortionCurve(amount float64, n int) []float64 {
	if n < 2 {
		n = 2
	}
	c := make([]float64, n)
	for i := range c {
		x := float64(i)*2/float64(n-1) - 1
		c[i] = (1 + amount) * x / (1 + amount*abs(x))
	}
	return c
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
