// Package smfexport writes arrangements as Standard MIDI Files.
package smfexport

import (
	"fmt"
	"io"
	"math"
	"sort"
	"time"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"chipjam/music"
	"chipjam/synth"
)

// TicksPerQuarter is the file resolution.
const TicksPerQuarter = 960

type tickEvent struct {
	tick uint64
	off  bool
	key  uint8
	vel  uint8
}

// Build converts passes repetitions of a into an SMF. Track 0 carries the
// song name and tempo; each instrument gets its own track and channel.
func Build(a *music.Arrangement, passes int) (*smf.SMF, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	if a.Tempo <= 0 {
		return nil, fmt.Errorf("song %q has no tempo", a.Name)
	}
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(TicksPerQuarter)

	var conductor smf.Track
	conductor.Add(0, smf.MetaTrackSequenceName(a.Name))
	conductor.Add(0, smf.MetaTempo(a.Tempo))
	conductor.Close(0)
	if err := s.Add(conductor); err != nil {
		return nil, err
	}

	byChannel := map[int][]synth.NoteEvent{}
	for _, ev := range a.Events(passes) {
		byChannel[ev.Channel] = append(byChannel[ev.Channel], ev)
	}
	for _, ins := range a.Instruments() {
		if ins > 15 {
			return nil, fmt.Errorf("song %q: instrument %d has no MIDI channel", a.Name, ins)
		}
		tr := track(a, ins, byChannel[ins])
		if err := s.Add(tr); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Write encodes a as an SMF to w.
func Write(w io.Writer, a *music.Arrangement, passes int) error {
	s, err := Build(a, passes)
	if err != nil {
		return err
	}
	if _, err := s.WriteTo(w); err != nil {
		return fmt.Errorf("write midi: %w", err)
	}
	return nil
}

func track(a *music.Arrangement, ins int, events []synth.NoteEvent) smf.Track {
	ch := uint8(ins)
	var tr smf.Track
	tr.Add(0, smf.MetaTrackSequenceName(fmt.Sprintf("%s %s", a.Name, a.Waves[ins])))
	tr.Add(0, midi.ProgramChange(ch, uint8(music.Program(a.Waves[ins]))))

	ticks := make([]tickEvent, 0, 2*len(events))
	for _, ev := range events {
		start := toTicks(ev.Start, a.Tempo)
		end := toTicks(ev.End(), a.Tempo)
		if end <= start {
			end = start + 1
		}
		key := uint8(clamp(ev.Key, 0, 127))
		ticks = append(ticks,
			tickEvent{tick: start, key: key, vel: uint8(clamp(ev.Velocity, 1, 127))},
			tickEvent{tick: end, off: true, key: key},
		)
	}
	sort.SliceStable(ticks, func(i, j int) bool {
		if ticks[i].tick != ticks[j].tick {
			return ticks[i].tick < ticks[j].tick
		}
		return ticks[i].off && !ticks[j].off
	})

	var last uint64
	for _, te := range ticks {
		delta := uint32(te.tick - last)
		last = te.tick
		if te.off {
			tr.Add(delta, midi.NoteOff(ch, te.key))
		} else {
			tr.Add(delta, midi.NoteOn(ch, te.key, te.vel))
		}
	}
	tr.Close(0)
	return tr
}

func toTicks(d time.Duration, bpm float64) uint64 {
	quarters := d.Seconds() * bpm / 60
	return uint64(math.Round(quarters * TicksPerQuarter))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
