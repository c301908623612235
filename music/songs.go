package music

import (
	"fmt"
	"sort"

	"chipjam/synth"
	"chipjam/tune"
)

const leadRun = `0: B ,4,e | D ,5,e | A ,5,e | G#,5,e | E ,5,e | F#,5,e | D ,5,e | F#,5,e`

const leadPhrase = `
0: B ,4,e | D,5,e | A,5,e | G#,5,e | E ,5,e | F#,5,e | D ,5,e | F#,5,e | B ,4,e | D,5,e | A,5,e | G#,5,e | E ,5,e | F#,5,e | D ,5,e | F#,5,e
0: A ,4,e | C,5,e | G,5,e | F#,5,e | D ,5,e | E ,5,e | C ,5,e | E ,5,e | A ,4,e | C,5,e | G,5,e | F#,5,e | D ,5,e | E ,5,e | C ,5,e | E ,5,e
`

const rhythmLong = `
0: A ,3,qd| B ,3,qd| E ,3,q | A ,3,qd| B ,3,qd| E ,3,q
0: G ,3,qd| A ,3,qd| E ,3,q | G ,3,qd| A ,3,qd| A ,3,e | B ,3, e
`

const rhythmShort = `
0: A ,3,q | A ,3,e | B ,3,q | B ,3,e |E ,3,q | A ,3,q | A ,3,e | B ,3,q | B ,3,e |E ,3,q
0: G ,3,q | G ,3,e | A ,3,q | A ,3,e |E ,3,q | G ,3,q | G ,3,e | A ,3,q | A ,3,e |A ,3,e | B ,3, e
`

// Title is the title screen theme.
func Title() *Arrangement {
	const tempo = 140
	lead := tune.MustParseSheet(leadRun, tempo)
	long := tune.MustParseSheet(rhythmLong, tempo)
	short := tune.MustParseSheet(rhythmShort, tempo)
	return &Arrangement{
		Name:  "title",
		Tempo: tempo,
		Waves: []synth.Waveform{synth.Square, synth.Sawtooth, synth.Square},
		Sheets: []*tune.Sheet{
			lead.Shift(0.125, 0, 0.5, 0),
			lead.Shift(0.125, 0, 0.5, -2),
			lead.Shift(0.125, -1, 0.5, 0),
			lead.Shift(0.125, -1, 0.5, -2),
			long.Shift(0.0675, 0, 0.1, 0),
			short.Shift(0.0675, 1, 0.1, 0),
			long.Shift(0.0675, 1, 0.1, 0),
		},
		Parts: map[int][]int{
			0: {0, 0, 1, 1, 2, 2, 3, 3, 0, 0, 1, 1, 2, 2, 3, 3},
			1: {4, 5, 5, 4},
			2: {6, 4, 4, 5},
		},
	}
}

// Game is the in-game loop.
func Game() *Arrangement {
	const tempo = 160
	lead := tune.MustParseSheet(leadPhrase, tempo)
	long := tune.MustParseSheet(rhythmLong, tempo)
	short := tune.MustParseSheet(rhythmShort, tempo)
	return &Arrangement{
		Name:  "game",
		Tempo: tempo,
		Waves: []synth.Waveform{synth.Sawtooth, synth.Square, synth.Sine},
		Sheets: []*tune.Sheet{
			lead.Shift(0.5, 0, 0.5, 0),
			lead.Shift(0.5, -1, 0.7, 0),
			long.Shift(0.3, 0, 0.1, 0),
			short.Shift(0.3, 1, 0.1, 0),
			long.Shift(0.3, 1, 0.1, 0),
		},
		Parts: map[int][]int{
			0: {0, 1, 0, 1},
			1: {2, 3, 3, 4},
			2: {4, 2, 1, 0},
		},
	}
}

var songs = map[string]func() *Arrangement{
	"title": Title,
	"game":  Game,
}

// Songs returns the built-in song names in order.
func Songs() []string {
	names := make([]string, 0, len(songs))
	for name := range songs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Song returns a fresh copy of the named built-in song.
func Song(name string) (*Arrangement, error) {
	f, ok := songs[name]
	if !ok {
		return nil, fmt.Errorf("unknown song %q", name)
	}
	return f(), nil
}

// FromSheet wraps a single sheet as a one-instrument song.
func FromSheet(name string, s *tune.Sheet, wave synth.Waveform) *Arrangement {
	return &Arrangement{
		Name:   name,
		Tempo:  s.Tempo,
		Waves:  []synth.Waveform{wave},
		Sheets: []*tune.Sheet{s},
		Parts:  map[int][]int{0: {0}},
	}
}

// Jingle is the short startup phrase played by a Sequencer.
func Jingle() []tune.SeqNote {
	notes, err := tune.ParseSequence("E5 e", "G5 e", "B5 q", "A5 e", "- e", "E6 h")
	if err != nil {
		panic(err)
	}
	return notes
}
