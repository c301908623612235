package synth

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	meltysynth "github.com/sinshu/go-meltysynth/meltysynth"
)

// tail is rendered after the last note-off so releases can decay.
const tail = time.Second

// NoteEvent is a note at an absolute time, the export form of a scheduled
// sheet.
type NoteEvent struct {
	// Key is the MIDI note number (e.g. 60 = middle C).
	Key int
	// Velocity is the MIDI velocity 1..127.
	Velocity int
	Start    time.Duration
	Duration time.Duration
	Channel  int
	// Program is the General MIDI program for Channel.
	Program int
}

// End returns when the note stops.
func (n NoteEvent) End() time.Duration {
	return n.Start + n.Duration
}

// synthesizer abstracts the subset of meltysynth.Synthesizer used by
// RenderSoundFont.
type synthesizer interface {
	ProcessMidiMessage(channel int32, command int32, data1, data2 int32)
	NoteOn(channel, key, vel int32)
	NoteOff(channel, key int32)
	Render(left, right []float32)
}

// newSynthesizer constructs a meltysynth synthesizer. Tests may override
// this to inject a mock implementation.
var newSynthesizer = func(sf *meltysynth.SoundFont, settings *meltysynth.SynthesizerSettings) (synthesizer, error) {
	return meltysynth.NewSynthesizer(sf, settings)
}

// LoadSoundFont reads an .sf2 file.
func LoadSoundFont(path string) (*meltysynth.SoundFont, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	sf, err := meltysynth.NewSoundFont(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse soundfont %s: %w", path, err)
	}
	return sf, nil
}

type sfEvent struct {
	ch, key, vel int
	start, end   int
}

// RenderSoundFont renders events through a General MIDI synthesizer and
// returns the left and right channels, including a one second tail.
func RenderSoundFont(sf *meltysynth.SoundFont, sampleRate int, events []NoteEvent) ([]float32, []float32, error) {
	if sf == nil {
		return nil, nil, errors.New("nil soundfont")
	}
	settings := meltysynth.NewSynthesizerSettings(int32(sampleRate))
	settings.BlockSize = block
	syn, err := newSynthesizer(sf, settings)
	if err != nil {
		return nil, nil, err
	}

	programs := map[int]int{}
	var evs []sfEvent
	var maxEnd int
	for _, n := range events {
		dur := durationToFrames(n.Duration, sampleRate)
		if dur <= 0 {
			continue
		}
		start := durationToFrames(n.Start, sampleRate)
		ev := sfEvent{ch: n.Channel, key: n.Key, vel: n.Velocity, start: start, end: start + dur}
		evs = append(evs, ev)
		programs[n.Channel] = n.Program
		if ev.end > maxEnd {
			maxEnd = ev.end
		}
	}

	chans := make([]int, 0, len(programs))
	for ch := range programs {
		chans = append(chans, ch)
	}
	sort.Ints(chans)
	for _, ch := range chans {
		syn.ProcessMidiMessage(int32(ch), 0xC0, int32(programs[ch]), 0)
	}

	total := maxEnd + durationToFrames(tail, sampleRate)
	leftAll := make([]float32, 0, total)
	rightAll := make([]float32, 0, total)

	// note-offs sort before note-ons at the same frame so a retriggered key
	// sounds again
	type action struct {
		at  int
		off bool
		ev  sfEvent
	}
	actions := make([]action, 0, 2*len(evs))
	for _, ev := range evs {
		actions = append(actions, action{at: ev.start, ev: ev}, action{at: ev.end, off: true, ev: ev})
	}
	sort.SliceStable(actions, func(i, j int) bool {
		if actions[i].at != actions[j].at {
			return actions[i].at < actions[j].at
		}
		return actions[i].off && !actions[j].off
	})
	type chKey struct{ ch, key int }
	active := map[chKey]bool{}
	next := 0

	trigger := func(end int) {
		for ; next < len(actions) && actions[next].at < end; next++ {
			a := actions[next]
			k := chKey{a.ev.ch, a.ev.key}
			switch {
			case a.off && active[k]:
				syn.NoteOff(int32(a.ev.ch), int32(a.ev.key))
				active[k] = false
			case !a.off && !active[k]:
				syn.NoteOn(int32(a.ev.ch), int32(a.ev.key), int32(a.ev.vel))
				active[k] = true
			}
		}
	}

	left := make([]float32, block)
	right := make([]float32, block)
	for pos := 0; pos < total; pos += block {
		n := block
		if pos+n > total {
			n = total - pos
		}
		trigger(pos + n)
		if err := safeRender(syn, left, right); err != nil {
			return nil, nil, fmt.Errorf("synth render: %w", err)
		}
		leftAll = append(leftAll, left[:n]...)
		rightAll = append(rightAll, right[:n]...)
	}
	return leftAll, rightAll, nil
}

// safeRender turns a panic inside the synthesizer into an error.
func safeRender(s synthesizer, left, right []float32) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	s.Render(left, right)
	return nil
}
