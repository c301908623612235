// Package music turns sheets into scheduled oscillator changes. Instruments
// play sheets, a Conductor loops an Arrangement across several
// instruments, and effects and the chord pad react to key presses.
//
// Every method that takes a time schedules on synth params and must run
// inside synth.Engine.Do for the engine the voices were added to.
package music

import (
	"chipjam/synth"
	"chipjam/tune"
)

// restGain is the exponential-ramp target for rests. Exponential ramps
// cannot reach zero.
const restGain = 1e-3

// Instrument is a voice with one oscillator per register, all of the same
// waveform. It starts disconnected with every register at zero gain.
type Instrument struct {
	Name  string
	Wave  synth.Waveform
	voice *synth.Voice
}

func NewInstrument(name string, wave synth.Waveform, registers int) *Instrument {
	if registers < 1 {
		registers = 1
	}
	waves := make([]synth.Waveform, registers)
	for i := range waves {
		waves[i] = wave
	}
	return &Instrument{Name: name, Wave: wave, voice: synth.NewVoice(0, waves...)}
}

// Voice returns the voice to add to an engine.
func (in *Instrument) Voice() *synth.Voice { return in.voice }

func (in *Instrument) Registers() int { return in.voice.Registers() }

// grow adds registers so the instrument can play n at once.
func (in *Instrument) grow(n int) {
	for in.voice.Registers() < n {
		in.voice.Oscs = append(in.voice.Oscs, synth.NewOsc(in.Wave))
		in.voice.Gains = append(in.voice.Gains, synth.NewParam(0))
	}
}

// PlaySheet schedules s to start at t0+dt and returns when the sheet ends.
// Register ids are played by oscillators in ascending order. Each note sets
// the frequency at its start, ramps the register gain to its volume and
// silences the oscillator for the staccato tail.
func (in *Instrument) PlaySheet(s *tune.Sheet, dt, t0 float64) float64 {
	start := t0 + dt
	in.grow(s.NumRegisters())
	for i, id := range s.RegisterIDs() {
		osc, gain := in.voice.Oscs[i], in.voice.Gains[i]
		t := start
		for _, n := range s.Registers[id] {
			f := n.Freq()
			b := n.Seconds(s.Tempo)
			if f <= 0 {
				osc.Freq.SetValueAtTime(0, t)
				gain.ExponentialRampToValueAtTime(restGain, t)
			} else {
				osc.Freq.SetValueAtTime(f, t)
				gain.ExponentialRampToValueAtTime(n.Volume, t)
			}
			t += b
			osc.Freq.SetValueAtTime(0, t-b*n.Staccato)
		}
	}
	return start + s.Seconds()
}

// SetFreqs sounds notes immediately, one per register, each for its own
// duration at tempo. Registers past the last note are silenced.
func (in *Instrument) SetFreqs(notes []tune.Note, tempo, now float64) {
	for i := range in.voice.Oscs {
		osc, gain := in.voice.Oscs[i], in.voice.Gains[i]
		if i >= len(notes) {
			osc.Freq.SetValueAtTime(0, now)
			gain.SetValueAtTime(0, now)
			continue
		}
		n := notes[i]
		osc.Freq.SetValueAtTime(n.Freq(), now)
		gain.SetValueAtTime(n.Volume, now)
		osc.Freq.SetValueAtTime(0, now+n.Seconds(tempo))
	}
}

// Play connects the instrument to the output.
func (in *Instrument) Play() { in.voice.Connect() }

func (in *Instrument) Playing() bool { return in.voice.Connected() }

// Stop disconnects the instrument and cancels everything scheduled from t0
// on, leaving every register silent.
func (in *Instrument) Stop(t0 float64) {
	in.voice.Disconnect()
	for i, osc := range in.voice.Oscs {
		gain := in.voice.Gains[i]
		gain.CancelScheduledValues(t0)
		gain.SetValueAtTime(0, t0)
		osc.Freq.CancelScheduledValues(t0)
		osc.Freq.SetValueAtTime(0, t0)
	}
}
