package music

import (
	"chipjam/synth"
	"chipjam/tune"
)

const (
	padTempo  = 120
	padVolume = 0.1
)

// Chords are the triads bound to keys 1 through 8.
var Chords = [8][3]tune.Note{
	{padNote("D", 3), padNote("F#", 4), padNote("A", 4)},
	{padNote("A", 3), padNote("C#", 4), padNote("E", 4)},
	{padNote("B", 3), padNote("D", 4), padNote("F#", 4)},
	{padNote("F#", 3), padNote("A", 3), padNote("C#", 2)},
	{padNote("G", 3), padNote("B", 3), padNote("D", 3)},
	{padNote("D", 3), padNote("F#", 3), padNote("A", 2)},
	{padNote("G", 3), padNote("B", 3), padNote("D", 3)},
	{padNote("A", 3), padNote("C#", 4), padNote("E", 3)},
}

func padNote(pitch string, octave int) tune.Note {
	n := tune.NewNote(pitch, octave, "h")
	n.Volume = padVolume
	return n
}

// ChordPad is a three register sawtooth instrument that sounds a half-note
// triad per key press.
type ChordPad struct {
	ins *Instrument
}

// NewChordPad returns a connected pad.
func NewChordPad() *ChordPad {
	p := &ChordPad{ins: NewInstrument("pad", synth.Sawtooth, 3)}
	p.ins.Play()
	return p
}

func (p *ChordPad) Instrument() *Instrument { return p.ins }

// Press sounds chord n (1-8) at now. Other values are ignored.
func (p *ChordPad) Press(n int, now float64) bool {
	if n < 1 || n > len(Chords) {
		return false
	}
	p.ins.SetFreqs(Chords[n-1][:], padTempo, now)
	return true
}
