package music

import (
	"fmt"
	"math"
	"sort"
	"time"

	"chipjam/synth"
	"chipjam/tune"
)

// Arrangement is a song: shifted sheets and, per instrument, the order in
// which that instrument plays them. It holds no audio state.
type Arrangement struct {
	Name  string
	Tempo float64
	// Waves has one entry per instrument.
	Waves  []synth.Waveform
	Sheets []*tune.Sheet
	// Parts maps an instrument index to the sheet ids it plays back to back.
	Parts map[int][]int
}

// Validate checks that every part names a known instrument and sheet.
func (a *Arrangement) Validate() error {
	if len(a.Parts) == 0 {
		return fmt.Errorf("song %q has no parts", a.Name)
	}
	for ins, ids := range a.Parts {
		if ins < 0 || ins >= len(a.Waves) {
			return fmt.Errorf("song %q: part for unknown instrument %d", a.Name, ins)
		}
		for _, id := range ids {
			if id < 0 || id >= len(a.Sheets) {
				return fmt.Errorf("song %q: instrument %d plays unknown sheet %d", a.Name, ins, id)
			}
		}
	}
	return nil
}

// Instruments returns the instrument indexes that have parts, ascending.
func (a *Arrangement) Instruments() []int {
	ids := make([]int, 0, len(a.Parts))
	for id := range a.Parts {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// PartSeconds is the length of one instrument's part.
func (a *Arrangement) PartSeconds(ins int) float64 {
	var secs float64
	for _, id := range a.Parts[ins] {
		secs += a.Sheets[id].Seconds()
	}
	return secs
}

// Seconds is the length of one pass: the longest part.
func (a *Arrangement) Seconds() float64 {
	var longest float64
	for ins := range a.Parts {
		if d := a.PartSeconds(ins); d > longest {
			longest = d
		}
	}
	return longest
}

func (a *Arrangement) Duration() time.Duration {
	return seconds(a.Seconds())
}

// Registers returns how many oscillators instrument ins needs.
func (a *Arrangement) Registers(ins int) int {
	n := 1
	for _, id := range a.Parts[ins] {
		if r := a.Sheets[id].NumRegisters(); r > n {
			n = r
		}
	}
	return n
}

// NewInstruments builds one instrument per wave, sized for its part.
func (a *Arrangement) NewInstruments() []*Instrument {
	out := make([]*Instrument, len(a.Waves))
	for i, w := range a.Waves {
		out[i] = NewInstrument(fmt.Sprintf("%s/%d", a.Name, i), w, a.Registers(i))
	}
	return out
}

// schedulePart plays instrument ins's part from t0, each sheet starting
// where the previous one ends.
func (a *Arrangement) schedulePart(in *Instrument, ins int, t0 float64) {
	var st float64
	for _, id := range a.Parts[ins] {
		sh := a.Sheets[id]
		in.PlaySheet(sh, st, t0)
		st += sh.Seconds()
	}
}

// Program maps a waveform to the General MIDI program that resembles it.
func Program(w synth.Waveform) int {
	switch w {
	case synth.Square:
		return 80 // Lead 1 (square)
	case synth.Sawtooth:
		return 81 // Lead 2 (sawtooth)
	case synth.Triangle:
		return 73 // Flute
	}
	return 79 // Ocarina
}

// Events flattens passes repetitions of the song into note events, one
// channel per instrument. Rests and silent notes are skipped, staccato
// shortens the sounding length, and velocity follows the note volume
// relative to the loudest note in the song.
func (a *Arrangement) Events(passes int) []synth.NoteEvent {
	if passes < 1 {
		passes = 1
	}
	loudest := a.loudest()
	pass := a.Seconds()
	var out []synth.NoteEvent
	for p := 0; p < passes; p++ {
		base := float64(p) * pass
		for _, ins := range a.Instruments() {
			st := base
			for _, id := range a.Parts[ins] {
				sh := a.Sheets[id]
				for _, reg := range sh.RegisterIDs() {
					t := st
					for _, n := range sh.Registers[reg] {
						b := n.Seconds(sh.Tempo)
						if !n.IsRest() && n.Volume > 0 && loudest > 0 {
							out = append(out, synth.NoteEvent{
								Key:      n.Key(),
								Velocity: velocity(n.Volume / loudest),
								Start:    seconds(t),
								Duration: seconds(b * (1 - n.Staccato)),
								Channel:  ins,
								Program:  Program(a.Waves[ins]),
							})
						}
						t += b
					}
				}
				st += sh.Seconds()
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

func (a *Arrangement) loudest() float64 {
	var v float64
	for _, ids := range a.Parts {
		for _, id := range ids {
			for _, notes := range a.Sheets[id].Registers {
				for _, n := range notes {
					if !n.IsRest() && n.Volume > v {
						v = n.Volume
					}
				}
			}
		}
	}
	return v
}

func velocity(rel float64) int {
	v := int(math.Round(100 * rel))
	if v < 1 {
		return 1
	}
	if v > 127 {
		return 127
	}
	return v
}

func seconds(s float64) time.Duration {
	return time.Duration(math.Round(s * float64(time.Second)))
}
