// Package tune holds the musical data model: notes, beat codes and
// multi-register sheets. Nothing here touches audio; the synth and music
// packages turn these values into scheduled oscillator changes.
package tune

import (
	"math"
	"strings"
	"time"
)

const (
	// Rest is the pitch symbol for silence.
	Rest = "-"

	dot     = 'd'
	triplet = 'T'
	sharp   = '#'
	flat    = 'b'

	secPerMin = 60.0

	// BeatsPerMeasure converts whole-note fractions to tempo beats.
	BeatsPerMeasure = 4

	// A440 is the reference pitch for key 69.
	A440  = 440.0
	keyA4 = 69

	// DefaultStaccato is the silent tail fraction used when a note does not
	// specify one.
	DefaultStaccato = 0.001

	// DefaultVolume is the gain a note reaches when it does not specify one.
	DefaultVolume = 1.0
)

var noteValues = map[byte]int{
	'A': 69,
	'B': 71,
	'C': 60,
	'D': 62,
	'E': 64,
	'F': 65,
	'G': 67,
}

var beatValues = map[byte]float64{
	'w': 1,
	'h': 1.0 / 2,
	'q': 1.0 / 4,
	'e': 1.0 / 8,
	's': 1.0 / 16,
	't': 1.0 / 32,
}

// Note is a single pitch or rest. It is a value; sheets copy notes rather
// than sharing them.
type Note struct {
	// Pitch is a letter A-G with an optional '#' or 'b', or Rest.
	Pitch  string
	Octave int
	// Beat is a beat code such as "q", "ed" or "qT".
	Beat string
	// Staccato is the fraction of the note's duration, taken from its end,
	// during which the oscillator is silent.
	Staccato float64
	Volume   float64
	// Shift transposes the note by whole semitones.
	Shift int
}

// NewNote returns a note with the default staccato and volume.
func NewNote(pitch string, octave int, beat string) Note {
	return Note{
		Pitch:    pitch,
		Octave:   octave,
		Beat:     beat,
		Staccato: DefaultStaccato,
		Volume:   DefaultVolume,
	}
}

// IsRest reports whether n is silent.
func (n Note) IsRest() bool {
	return strings.TrimSpace(n.Pitch) == Rest
}

// Key returns the semitone number of n where 69 is A4. Unknown letters are
// treated as C. The result for a rest is meaningless.
func (n Note) Key() int {
	p := strings.TrimSpace(n.Pitch)
	m := noteValues['C']
	if len(p) > 0 {
		if v, ok := noteValues[p[0]]; ok {
			m = v
		}
	}
	if len(p) > 1 {
		switch p[1] {
		case sharp:
			m++
		case flat:
			m--
		}
	}
	return m + n.Shift + 12*(n.Octave-4)
}

// Freq returns the frequency of n in Hz, or 0 for a rest.
func (n Note) Freq() float64 {
	if n.IsRest() {
		return 0
	}
	return KeyFreq(n.Key())
}

// KeyFreq converts a semitone number to Hz.
func KeyFreq(key int) float64 {
	return A440 * math.Pow(2, float64(key-keyA4)/12)
}

// Beats returns the number of whole notes represented by the beat code.
// "qdd" is a double-dotted quarter: 1/4 + 1/8 + 1/16 = 7/16.
func (n Note) Beats() float64 {
	return beats(strings.TrimSpace(n.Beat))
}

func beats(code string) float64 {
	if code == "" {
		return 0
	}
	base, ok := beatValues[code[0]]
	if !ok {
		return 0
	}
	dots := 0
	trip := false
	for i := 0; i < len(code); i++ {
		switch code[i] {
		case dot:
			dots++
		case triplet:
			trip = true
		}
	}
	b := base * (2 - 1/math.Pow(2, float64(dots)))
	if trip {
		b *= 2.0 / 3
	}
	return b
}

// Seconds returns how long n lasts at the given tempo in beats per minute.
func (n Note) Seconds(tempo float64) float64 {
	if tempo <= 0 {
		return 0
	}
	return secPerMin / tempo * n.Beats() * BeatsPerMeasure
}

// Duration is Seconds as a time.Duration.
func (n Note) Duration(tempo float64) time.Duration {
	return secondsToDuration(n.Seconds(tempo))
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(math.Round(s * float64(time.Second)))
}
