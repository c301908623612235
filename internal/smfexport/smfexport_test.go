package smfexport

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2/smf"

	"chipjam/music"
	"chipjam/synth"
	"chipjam/tune"
)

type noteOn struct {
	tick uint64
	key  uint8
	on   bool
}

func notes(tr smf.Track) []noteOn {
	var out []noteOn
	var abs uint64
	for _, ev := range tr {
		abs += uint64(ev.Delta)
		var ch, key, vel uint8
		switch {
		case ev.Message.GetNoteOn(&ch, &key, &vel):
			out = append(out, noteOn{abs, key, true})
		case ev.Message.GetNoteOff(&ch, &key, &vel):
			out = append(out, noteOn{abs, key, false})
		}
	}
	return out
}

func TestWriteRoundTrip(t *testing.T) {
	assert := assert.New(t)
	sh := tune.MustParseSheet("0: A,4,q,0.5 | -,0,q | C,5,h,0.5", 120)
	a := music.FromSheet("roundtrip", sh, synth.Square)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, a, 2))

	s, err := smf.ReadFrom(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(smf.MetricTicks(TicksPerQuarter), s.TimeFormat)
	require.Len(t, s.Tracks, 2)

	got := notes(s.Tracks[1])
	want := []noteOn{
		{0, 69, true},
		{480, 69, false},
		{1920, 72, true},
		{2880, 72, false},
		{3840, 69, true},
		{4320, 69, false},
		{5760, 72, true},
		{6720, 72, false},
	}
	assert.Equal(want, got)
}

func TestNoteOffBeforeNoteOn(t *testing.T) {
	sh := tune.MustParseSheet("0: A,4,q,0", 120)
	s, err := Build(music.FromSheet("legato", sh, synth.Sine), 2)
	require.NoError(t, err)
	assert.Equal(t, []noteOn{
		{0, 69, true},
		{960, 69, false},
		{960, 69, true},
		{1920, 69, false},
	}, notes(s.Tracks[1]))
}

func TestBuildTracksPerInstrument(t *testing.T) {
	s, err := Build(music.Title(), 1)
	require.NoError(t, err)
	assert.Len(t, s.Tracks, 4)
	for _, tr := range s.Tracks[1:] {
		assert.NotEmpty(t, notes(tr))
	}
}

func TestBuildRejectsBadSong(t *testing.T) {
	a := music.FromSheet("bad", tune.MustParseSheet("0: A,4,q", 120), synth.Sine)
	a.Parts[0] = []int{4}
	_, err := Build(a, 1)
	assert.Error(t, err)
}
