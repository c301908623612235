package music

import "chipjam/synth"

// Effect is a sound held while a key is down. On press each oscillator
// glides to its frequency and the output rises with that oscillator's
// attack constant; on release both fall towards zero with the release
// constant.
type Effect struct {
	Name    string
	Freqs   []float64
	Attack  []float64
	Release []float64

	voice *synth.Voice
	held  bool
}

// NewEffect returns a connected, silent effect with one oscillator per
// wave. Missing frequencies and constants take the laser defaults. The
// oscillator sum goes through a soft-clipping shaper bounded to [-1,1].
func NewEffect(name string, waves []synth.Waveform, freqs, attack, release []float64) *Effect {
	e := &Effect{Name: name, voice: synth.NewVoice(1, waves...)}
	e.voice.Out = synth.NewParam(0)
	e.voice.Curve = synth.DistortionCurve(effectDrive, effectCurvePoints)
	for i := range waves {
		e.Freqs = append(e.Freqs, at(freqs, i, laserFreq))
		e.Attack = append(e.Attack, at(attack, i, laserAttack))
		e.Release = append(e.Release, at(release, i, laserRelease))
		e.voice.Oscs[i].Freq = synth.NewParam(e.Freqs[i])
	}
	e.voice.Connect()
	return e
}

func at(xs []float64, i int, def float64) float64 {
	if i < len(xs) {
		return xs[i]
	}
	return def
}

func (e *Effect) Voice() *synth.Voice { return e.voice }

// Held reports whether the effect is sounding.
func (e *Effect) Held() bool { return e.held }

// Trigger reacts to the key state once per edge: holding the key down does
// not retrigger. It reports whether anything was scheduled.
func (e *Effect) Trigger(pressed bool, t0 float64) bool {
	switch {
	case pressed && !e.held:
		e.held = true
		for i, o := range e.voice.Oscs {
			o.Freq.SetTargetAtTime(e.Freqs[i], t0, e.Attack[i])
			e.voice.Out.SetTargetAtTime(1, t0, e.Attack[i])
		}
		return true
	case !pressed && e.held:
		e.held = false
		for i, o := range e.voice.Oscs {
			o.Freq.SetTargetAtTime(0, t0, e.Release[i])
			e.voice.Out.SetTargetAtTime(0, t0, e.Release[i])
		}
		return true
	}
	return false
}

const (
	effectDrive       = 1
	effectCurvePoints = 257

	laserFreq    = 642
	laserAttack  = 0.0015
	laserRelease = 0.15
)

// NewLaser returns the fire sound: three oscillators an octave apart.
func NewLaser() *Effect {
	return NewEffect("laser",
		[]synth.Waveform{synth.Sine, synth.Square, synth.Sawtooth},
		[]float64{laserFreq, laserFreq * 2, laserFreq / 2.0},
		[]float64{laserAttack, laserAttack, laserAttack},
		[]float64{laserRelease, laserRelease, laserRelease},
	)
}
