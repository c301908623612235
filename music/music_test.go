package music

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chipjam/synth"
	"chipjam/tune"
)

func TestInstrumentPlaySheet(t *testing.T) {
	assert := assert.New(t)
	s := tune.MustParseSheet("0: A,4,q | -,0,q", 60)
	in := NewInstrument("test", synth.Square, 1)
	assert.False(in.Playing())

	end := in.PlaySheet(s, 0.5, 1)
	assert.InDelta(3.5, end, 1e-9)

	freq := in.Voice().Oscs[0].Freq
	gain := in.Voice().Gains[0]
	assert.Equal(0.0, freq.ValueAt(1.2))
	assert.Equal(440.0, freq.ValueAt(2))
	// the gain falls geometrically from the note volume towards the rest level
	assert.InDelta(math.Sqrt(restGain), gain.ValueAt(2), 1e-9)
	assert.Equal(0.0, freq.ValueAt(2.4995), "staccato tail is silent")
	assert.Equal(0.0, freq.ValueAt(3))
	assert.InDelta(restGain, gain.ValueAt(3), 1e-12)
}

func TestInstrumentRegistersInOrder(t *testing.T) {
	s := tune.MustParseSheet("3: C,4,q\n1: E,4,q", 120)
	in := NewInstrument("test", synth.Sine, 1)
	in.PlaySheet(s, 0, 0)
	require.Equal(t, 2, in.Registers())
	assert.InDelta(t, tune.KeyFreq(64), in.Voice().Oscs[0].Freq.ValueAt(0.1), 1e-9)
	assert.InDelta(t, tune.KeyFreq(60), in.Voice().Oscs[1].Freq.ValueAt(0.1), 1e-9)
}

func TestInstrumentStop(t *testing.T) {
	s := tune.MustParseSheet("0: A,4,w", 60)
	in := NewInstrument("test", synth.Sine, 1)
	in.PlaySheet(s, 0, 0)
	in.Play()
	assert.True(t, in.Playing())
	in.Stop(1)
	assert.False(t, in.Playing())
	assert.Equal(t, 440.0, in.Voice().Oscs[0].Freq.ValueAt(0.5))
	assert.Equal(t, 0.0, in.Voice().Oscs[0].Freq.ValueAt(1.5))
	assert.Equal(t, 0.0, in.Voice().Gains[0].ValueAt(1.5))
	assert.Equal(t, 0, in.Voice().Oscs[0].Freq.Pending())
}

func TestSetFreqs(t *testing.T) {
	in := NewInstrument("test", synth.Sawtooth, 3)
	in.SetFreqs([]tune.Note{tune.NewNote("A", 4, "q")}, 60, 0)
	v := in.Voice()
	assert.Equal(t, 440.0, v.Oscs[0].Freq.ValueAt(0.5))
	assert.Equal(t, 1.0, v.Gains[0].ValueAt(0.5))
	assert.Equal(t, 0.0, v.Oscs[0].Freq.ValueAt(1))
	assert.Equal(t, 0.0, v.Oscs[1].Freq.ValueAt(1))
	assert.Equal(t, 0.0, v.Gains[2].ValueAt(1))
}

func twoSheetSong() *Arrangement {
	s := tune.MustParseSheet("0: A,4,q", 60)
	return &Arrangement{
		Name:   "two",
		Tempo:  60,
		Waves:  []synth.Waveform{synth.Square},
		Sheets: []*tune.Sheet{s},
		Parts:  map[int][]int{0: {0, 0}},
	}
}

func TestConductorLoops(t *testing.T) {
	assert := assert.New(t)
	c := NewConductor(twoSheetSong())
	assert.Equal(2*time.Second, c.Duration())
	freq := c.Instruments()[0].Voice().Oscs[0].Freq

	c.Update(0)
	assert.True(c.Playing())
	assert.True(c.Instruments()[0].Playing())
	assert.Equal(1, c.Passes())
	assert.Equal(4, freq.Pending())

	c.Update(1.7)
	assert.Equal(4, freq.Pending(), "too early to queue")
	c.Update(1.8)
	assert.Equal(8, freq.Pending())
	c.Update(1.9)
	assert.Equal(8, freq.Pending(), "pass queued twice")

	c.Update(2)
	assert.Equal(2, c.Passes())
	assert.Equal(500*time.Millisecond, c.Position(2.5))
	assert.Equal(0.0, freq.ValueAt(1.9995))
	assert.Equal(440.0, freq.ValueAt(2.5))
	assert.Equal(440.0, freq.ValueAt(3.5))
}

func TestConductorMissedLookahead(t *testing.T) {
	c := NewConductor(twoSheetSong())
	freq := c.Instruments()[0].Voice().Oscs[0].Freq
	c.Update(0)
	c.Update(2.1)
	assert.Equal(t, 2, c.Passes())
	assert.Equal(t, 8, freq.Pending())
	assert.Equal(t, 100*time.Millisecond, c.Position(2.1))
}

func TestConductorResync(t *testing.T) {
	c := NewConductor(twoSheetSong())
	c.Update(0)
	c.Update(10)
	assert.Equal(t, 1, c.Passes())
	assert.Equal(t, 500*time.Millisecond, c.Position(10.5))
	assert.Equal(t, 440.0, c.Instruments()[0].Voice().Oscs[0].Freq.ValueAt(10.5))
}

func TestConductorNoLoop(t *testing.T) {
	c := NewConductor(twoSheetSong())
	c.Loop = false
	c.Update(0)
	c.Update(1.9)
	assert.True(t, c.Playing())
	c.Update(2.1)
	assert.False(t, c.Playing())
	c.Update(3)
	assert.False(t, c.Playing(), "finished song restarted")
}

func TestConductorLoopClearedAfterQueue(t *testing.T) {
	c := NewConductor(twoSheetSong())
	freq := c.Instruments()[0].Voice().Oscs[0].Freq
	c.Update(0)
	c.Update(1.9)
	c.Loop = false
	c.Update(2.1)
	assert.True(t, c.Playing(), "queued pass is the final pass")
	assert.Equal(t, 2, c.Passes())
	assert.Equal(t, 440.0, freq.ValueAt(2.5))
	c.Update(3.9)
	assert.True(t, c.Playing())
	c.Update(4.1)
	assert.False(t, c.Playing())
	assert.Equal(t, 0.0, freq.ValueAt(4.2))
	c.Update(4.5)
	assert.Equal(t, 2, c.Passes(), "no pass queued after looping stopped")
}

func TestConductorStop(t *testing.T) {
	c := NewConductor(twoSheetSong())
	c.Update(0)
	c.Stop(0.5)
	assert.False(t, c.Playing())
	assert.False(t, c.Instruments()[0].Playing())
	assert.Equal(t, time.Duration(0), c.Position(1))
	c.Update(5)
	assert.True(t, c.Playing())
	assert.Equal(t, 1, c.Passes())
}

func TestBuiltinSongs(t *testing.T) {
	assert.Equal(t, []string{"game", "title"}, Songs())
	_, err := Song("nope")
	assert.Error(t, err)

	title, err := Song("title")
	require.NoError(t, err)
	require.NoError(t, title.Validate())
	assert.InDelta(t, 16*240.0/140, title.Seconds(), 1e-9)
	assert.Len(t, title.Parts[0], 16)
	for _, ins := range title.Instruments() {
		assert.InDelta(t, title.Seconds(), title.PartSeconds(ins), 1e-9)
	}

	game := Game()
	require.NoError(t, game.Validate())
	assert.InDelta(t, 16*240.0/160, game.Seconds(), 1e-9)
	assert.Equal(t, 0.5, game.Sheets[1].Registers[0][0].Volume)
	assert.Equal(t, 3, game.Sheets[1].Registers[0][0].Octave)
}

func TestArrangementValidate(t *testing.T) {
	a := twoSheetSong()
	a.Parts[0] = []int{5}
	assert.Error(t, a.Validate())
	a.Parts = map[int][]int{2: {0}}
	assert.Error(t, a.Validate())
	a.Parts = nil
	assert.Error(t, a.Validate())
}

func TestArrangementEvents(t *testing.T) {
	s := tune.MustParseSheet("0: A,4,q | -,0,q | C,5,q,0.5,0.5", 60)
	a := FromSheet("events", s, synth.Sine)
	ev := a.Events(2)
	require.Len(t, ev, 4)
	assert.Equal(t, 69, ev[0].Key)
	assert.Equal(t, 100, ev[0].Velocity)
	assert.Equal(t, time.Duration(0), ev[0].Start)
	assert.Equal(t, 999*time.Millisecond, ev[0].Duration)
	assert.Equal(t, 79, ev[0].Program)

	assert.Equal(t, 72, ev[1].Key)
	assert.Equal(t, 50, ev[1].Velocity)
	assert.Equal(t, 2*time.Second, ev[1].Start)
	assert.Equal(t, 500*time.Millisecond, ev[1].Duration)

	assert.Equal(t, 3*time.Second, ev[2].Start)
	assert.Equal(t, 5*time.Second, ev[3].Start)
}

func TestLaser(t *testing.T) {
	l := NewLaser()
	assert.Equal(t, []float64{642, 1284, 321}, l.Freqs)
	out := l.Voice().Out
	assert.True(t, l.Trigger(true, 0))
	assert.False(t, l.Trigger(true, 0.01), "held key retriggered")
	assert.True(t, l.Held())
	assert.InDelta(t, 1, out.ValueAt(0.05), 1e-6)
	assert.True(t, l.Trigger(false, 0.1))
	assert.False(t, l.Trigger(false, 0.2))
	assert.InDelta(t, math.Exp(-1), out.ValueAt(0.25), 1e-3)
	assert.InDelta(t, 642*math.Exp(-1), l.Voice().Oscs[0].Freq.ValueAt(0.25), 1)

	curve := l.Voice().Curve
	require.NotEmpty(t, curve)
	assert.Equal(t, -1.0, curve[0])
	assert.Equal(t, 1.0, curve[len(curve)-1])
	assert.InDelta(t, 0, curve[len(curve)/2], 1e-12)
}

func TestChordPad(t *testing.T) {
	p := NewChordPad()
	assert.True(t, p.Instrument().Playing())
	assert.False(t, p.Press(0, 0))
	assert.False(t, p.Press(9, 0))
	require.True(t, p.Press(1, 0))
	v := p.Instrument().Voice()
	assert.InDelta(t, tune.KeyFreq(50), v.Oscs[0].Freq.ValueAt(0.1), 1e-9)
	assert.InDelta(t, tune.KeyFreq(66), v.Oscs[1].Freq.ValueAt(0.1), 1e-9)
	assert.InDelta(t, tune.KeyFreq(69), v.Oscs[2].Freq.ValueAt(0.1), 1e-9)
	assert.Equal(t, padVolume, v.Gains[0].ValueAt(0.1))
	assert.Equal(t, 0.0, v.Oscs[0].Freq.ValueAt(1))
}

func TestSequencer(t *testing.T) {
	notes, err := tune.ParseSequence("A4 q", "- q")
	require.NoError(t, err)
	s := NewSequencer(60, synth.Square, 0.2, notes...)
	s.Loop = false
	assert.Equal(t, 2.0, s.Seconds())
	assert.Equal(t, 2.0, s.Play(0))
	assert.True(t, s.Voice().Connected())
	freq := s.Voice().Oscs[0].Freq
	assert.InDelta(t, 440, freq.ValueAt(0.5), 1e-9)
	assert.Equal(t, notes[0].Freq, freq.ValueAt(0.6))
	assert.Equal(t, 0.0, freq.ValueAt(1.5))
	assert.True(t, s.Update(1.9))
	assert.False(t, s.Update(2.1))
}

func TestSequencerSmoothingAndLoop(t *testing.T) {
	notes, err := tune.ParseSequence("A4 q", "A5 q")
	require.NoError(t, err)
	s := NewSequencer(60, synth.Sine, 0.2, notes...)
	s.Smoothing = 0.5
	s.Play(0)
	freq := s.Voice().Oscs[0].Freq
	assert.InDelta(t, 440, freq.ValueAt(0.25), 1e-9)
	assert.InDelta(t, 660, freq.ValueAt(0.75), 1e-3)

	before := freq.Pending()
	assert.True(t, s.Update(1.8))
	assert.Greater(t, freq.Pending(), before)
	after := freq.Pending()
	s.Update(1.85)
	assert.Equal(t, after, freq.Pending(), "pass queued twice")

	s.Stop(1.9)
	assert.False(t, s.Playing())
	assert.Equal(t, 0.0, freq.ValueAt(2.5))
}

func TestRenderArrangement(t *testing.T) {
	s := tune.MustParseSheet("0: A,4,q", 240)
	a := FromSheet("blip", s, synth.Square)
	left, right, err := RenderArrangement(a, 8000, 2, 2)
	require.NoError(t, err)
	assert.Len(t, left, 8000)
	assert.Len(t, right, 8000)
	var loud int
	for _, x := range left[:4000] {
		if x != 0 {
			loud++
		}
	}
	assert.Greater(t, loud, 3000)

	a.Parts = map[int][]int{0: {3}}
	_, _, err = RenderArrangement(a, 8000, 1, 1)
	assert.Error(t, err)
}
