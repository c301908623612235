package tune

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ErrSyntax is wrapped by every parse failure.
var ErrSyntax = errors.New("tune: syntax error")

// DefaultTempo is used when a sheet is parsed without a positive tempo.
const DefaultTempo = 120

// Sheet is a small multi-voice score. Each register is one monophonic line
// and is played by one oscillator.
type Sheet struct {
	Tempo     float64
	Registers map[int][]Note
}

// NumRegisters returns how many registers the sheet defines.
func (s *Sheet) NumRegisters() int {
	return len(s.Registers)
}

// RegisterIDs returns the register numbers in ascending order. The position
// of an id in this slice is the oscillator index that plays it.
func (s *Sheet) RegisterIDs() []int {
	ids := make([]int, 0, len(s.Registers))
	for id := range s.Registers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// RegisterDuration returns the summed length of one register.
func (s *Sheet) RegisterDuration(id int) time.Duration {
	var secs float64
	for _, n := range s.Registers[id] {
		secs += n.Seconds(s.Tempo)
	}
	return secondsToDuration(secs)
}

// Seconds returns the longest register length in seconds.
func (s *Sheet) Seconds() float64 {
	var longest float64
	for _, notes := range s.Registers {
		var secs float64
		for _, n := range notes {
			secs += n.Seconds(s.Tempo)
		}
		if secs > longest {
			longest = secs
		}
	}
	return longest
}

// Duration returns the longest register length.
func (s *Sheet) Duration() time.Duration {
	return secondsToDuration(s.Seconds())
}

// Shift returns a copy of s with every note's volume and staccato replaced,
// moved by octaves and transposed by semitones. Staccato values outside
// [0,1) become 0.
func (s *Sheet) Shift(volume float64, octaves int, staccato float64, semitones int) *Sheet {
	if staccato < 0 || staccato >= 1 {
		staccato = 0
	}
	out := &Sheet{Tempo: s.Tempo, Registers: make(map[int][]Note, len(s.Registers))}
	for id, notes := range s.Registers {
		cp := make([]Note, len(notes))
		for i, n := range notes {
			n.Volume = volume
			n.Octave += octaves
			n.Staccato = staccato
			n.Shift = semitones
			cp[i] = n
		}
		out.Registers[id] = cp
	}
	return out
}

// ParseSheet reads a sheet from its text form:
//
//	0: B ,4,e | D ,5,e | A ,5,e
//	1: - ,0,q | E ,3,h
//
// Each line is "register: note | note | ...". Lines without ':' are
// ignored, an empty register means register 0, and repeated register
// numbers append to the same register.
func ParseSheet(src string, tempo float64) (*Sheet, error) {
	if tempo <= 0 {
		tempo = DefaultTempo
	}
	s := &Sheet{Tempo: tempo, Registers: make(map[int][]Note)}
	for ln, line := range strings.Split(src, "\n") {
		head, body, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		head = strings.TrimSpace(head)
		if head == "" {
			head = "0"
		}
		reg, err := strconv.Atoi(head)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: bad register %q", ErrSyntax, ln+1, head)
		}
		var notes []Note
		for i, field := range strings.Split(body, "|") {
			if strings.TrimSpace(field) == "" {
				continue
			}
			n, err := ParseNote(field)
			if err != nil {
				return nil, fmt.Errorf("line %d note %d: %w", ln+1, i+1, err)
			}
			notes = append(notes, n)
		}
		s.Registers[reg] = append(s.Registers[reg], notes...)
	}
	return s, nil
}

// MustParseSheet is ParseSheet for literals known to be valid.
func MustParseSheet(src string, tempo float64) *Sheet {
	s, err := ParseSheet(src, tempo)
	if err != nil {
		panic(err)
	}
	return s
}

// ParseNote reads "pitch,octave,beat[,staccato[,volume]]".
func ParseNote(field string) (Note, error) {
	parts := strings.Split(field, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if len(parts) < 3 || len(parts) > 5 {
		return Note{}, fmt.Errorf("%w: %q: want pitch,octave,beat", ErrSyntax, strings.TrimSpace(field))
	}
	if !validPitch(parts[0]) {
		return Note{}, fmt.Errorf("%w: bad pitch %q", ErrSyntax, parts[0])
	}
	oct, err := strconv.Atoi(parts[1])
	if err != nil {
		return Note{}, fmt.Errorf("%w: bad octave %q", ErrSyntax, parts[1])
	}
	if !validBeat(parts[2]) {
		return Note{}, fmt.Errorf("%w: bad beat %q", ErrSyntax, parts[2])
	}
	n := NewNote(parts[0], oct, parts[2])
	if len(parts) > 3 {
		v, err := strconv.ParseFloat(parts[3], 64)
		if err != nil {
			return Note{}, fmt.Errorf("%w: bad staccato %q", ErrSyntax, parts[3])
		}
		if v <= 0 || v >= 1 {
			v = 0
		}
		n.Staccato = v
	}
	if len(parts) > 4 {
		v, err := strconv.ParseFloat(parts[4], 64)
		if err != nil || v < 0 {
			return Note{}, fmt.Errorf("%w: bad volume %q", ErrSyntax, parts[4])
		}
		n.Volume = v
	}
	return n, nil
}

func validPitch(p string) bool {
	if p == Rest {
		return true
	}
	if len(p) == 0 || len(p) > 2 {
		return false
	}
	if _, ok := noteValues[p[0]]; !ok {
		return false
	}
	return len(p) == 1 || p[1] == sharp || p[1] == flat
}

func validBeat(b string) bool {
	if b == "" {
		return false
	}
	if _, ok := beatValues[b[0]]; !ok {
		return false
	}
	for i := 1; i < len(b); i++ {
		if b[i] != dot && b[i] != triplet {
			return false
		}
	}
	return true
}
