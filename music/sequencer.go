package music

import (
	"chipjam/synth"
	"chipjam/tune"
)

// minStaccato keeps a zero staccato from scheduling the cutoff and the next
// note at the same instant.
const minStaccato = 1e-11

// Sequencer plays a single-line melody in sequence notation on one
// oscillator. Smoothing glides into the next note over that many beats;
// Staccato silences that fraction of each note.
type Sequencer struct {
	Tempo     float64
	Loop      bool
	Smoothing float64
	Staccato  float64
	Lookahead float64
	Notes     []tune.SeqNote

	voice   *synth.Voice
	end     float64
	playing bool
}

func NewSequencer(tempo float64, wave synth.Waveform, gain float64, notes ...tune.SeqNote) *Sequencer {
	return &Sequencer{
		Tempo:     tempo,
		Loop:      true,
		Lookahead: DefaultLookahead,
		Notes:     notes,
		voice:     synth.NewVoice(gain, wave),
	}
}

func (s *Sequencer) Voice() *synth.Voice { return s.voice }

func (s *Sequencer) beat() float64 { return 60 / s.Tempo }

// Seconds is the length of one pass.
func (s *Sequencer) Seconds() float64 {
	var beats float64
	for _, n := range s.Notes {
		beats += n.Beats
	}
	return beats * s.beat()
}

// Play schedules one pass from when, connects the voice and returns when
// the pass ends.
func (s *Sequencer) Play(when float64) float64 {
	t := when
	for i := range s.Notes {
		t = s.scheduleNote(i, t)
	}
	s.end = t
	s.playing = true
	s.voice.Connect()
	return t
}

func (s *Sequencer) scheduleNote(i int, when float64) float64 {
	freq := s.voice.Oscs[0].Freq
	n := s.Notes[i]
	dur := s.beat() * n.Beats
	st := s.Staccato
	if st == 0 {
		st = minStaccato
	}
	cutoff := dur * (1 - st)
	freq.SetValueAtTime(n.Freq, when)
	if s.Smoothing > 0 && n.Freq > 0 {
		next := s.Notes[(i+1)%len(s.Notes)]
		slide := cutoff - min(cutoff, s.beat()*s.Smoothing)
		freq.SetValueAtTime(n.Freq, when+slide)
		freq.LinearRampToValueAtTime(next.Freq, when+cutoff)
	}
	freq.SetValueAtTime(0, when+cutoff)
	return when + dur
}

// Update queues the next pass when looping and reports whether the
// sequence is still sounding at now.
func (s *Sequencer) Update(now float64) bool {
	if !s.playing {
		return false
	}
	if now >= s.end {
		if !s.Loop {
			s.playing = false
			return false
		}
	}
	if s.Loop && now >= s.end-s.Lookahead {
		start := s.end
		if now > start {
			start = now
		}
		s.Play(start)
	}
	return true
}

// Stop cancels everything from now and disconnects.
func (s *Sequencer) Stop(now float64) {
	freq := s.voice.Oscs[0].Freq
	freq.CancelScheduledValues(now)
	freq.SetValueAtTime(0, now)
	s.voice.Disconnect()
	s.playing = false
}

func (s *Sequencer) Playing() bool { return s.playing }
