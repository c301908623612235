package tune

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// SeqNote is a note in the compact sequence notation used for jingles,
// e.g. "A4 q", "- e" or "C#5 es". Beats counts quarter notes.
type SeqNote struct {
	Freq  float64
	Beats float64
}

const seqOctave = 4

var (
	seqOffsets = func() map[string]int {
		m := make(map[string]int)
		for i, group := range strings.Split("B#-C|C#-Db|D|D#-Eb|E-Fb|E#-F|F#-Gb|G|G#-Ab|A|A#-Bb|B-Cb", "|") {
			for _, name := range strings.Split(group, "-") {
				m[name] = i
			}
		}
		return m
	}()
	middleC   = A440 * math.Pow(2, -9.0/12)
	seqName   = regexp.MustCompile(`^([A-G][#b]?)(-?\d+)?$`)
	seqNumber = regexp.MustCompile(`^[0-9.]+$`)
)

// ParseSeqNote reads "name duration". Names carry an optional octave (4 when
// omitted); "-" is a rest. Durations are a number of beats or a run of
// letters that are summed: w=4 h=2 q=1 e=.5 s=.25, so "es" is a dotted
// eighth.
func ParseSeqNote(s string) (SeqNote, error) {
	f := strings.Fields(s)
	if len(f) != 2 {
		return SeqNote{}, fmt.Errorf("%w: %q: want name and duration", ErrSyntax, s)
	}
	var n SeqNote
	if f[0] != Rest {
		m := seqName.FindStringSubmatch(f[0])
		if m == nil {
			return SeqNote{}, fmt.Errorf("%w: bad note name %q", ErrSyntax, f[0])
		}
		oct := seqOctave
		if m[2] != "" {
			oct, _ = strconv.Atoi(m[2])
		}
		n.Freq = middleC * math.Pow(2, float64(seqOffsets[m[1]])/12) * math.Pow(2, float64(oct-seqOctave))
	}
	b, err := seqBeats(f[1])
	if err != nil {
		return SeqNote{}, err
	}
	n.Beats = b
	return n, nil
}

func seqBeats(sym string) (float64, error) {
	if seqNumber.MatchString(sym) {
		v, err := strconv.ParseFloat(sym, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: bad duration %q", ErrSyntax, sym)
		}
		return v, nil
	}
	var total float64
	for _, c := range strings.ToLower(sym) {
		switch c {
		case 'w':
			total += 4
		case 'h':
			total += 2
		case 'q':
			total += 1
		case 'e':
			total += 0.5
		case 's':
			total += 0.25
		default:
			return 0, fmt.Errorf("%w: bad duration %q", ErrSyntax, sym)
		}
	}
	return total, nil
}

// ParseSequence parses every entry of notes.
func ParseSequence(notes ...string) ([]SeqNote, error) {
	out := make([]SeqNote, 0, len(notes))
	for i, s := range notes {
		n, err := ParseSeqNote(s)
		if err != nil {
			return nil, fmt.Errorf("note %d: %w", i+1, err)
		}
		out = append(out, n)
	}
	return out, nil
}
