package tune

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"
)

const testSheet = `
0: C ,4,q | E ,4,q | G ,4,h
1: - ,0,h | C ,3,h,0.5,0.3
this line has no register
0: C ,5,w
`

func TestParseSheet(t *testing.T) {
	s, err := ParseSheet(testSheet, 120)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if s.NumRegisters() != 2 {
		t.Fatalf("registers = %d", s.NumRegisters())
	}
	if ids := s.RegisterIDs(); len(ids) != 2 || ids[0] != 0 || ids[1] != 1 {
		t.Fatalf("ids = %v", ids)
	}
	if n := len(s.Registers[0]); n != 4 {
		t.Fatalf("register 0 has %d notes, want 4 (repeated lines append)", n)
	}
	n := s.Registers[1][1]
	if n.Pitch != "C" || n.Octave != 3 || n.Beat != "h" || n.Staccato != 0.5 || n.Volume != 0.3 {
		t.Fatalf("register 1 note 2 = %+v", n)
	}
	if first := s.Registers[0][0]; first.Staccato != DefaultStaccato || first.Volume != DefaultVolume {
		t.Fatalf("defaults not applied: %+v", first)
	}
	if !s.Registers[1][0].IsRest() {
		t.Fatalf("expected rest")
	}
	// register 0: q+q+h+w = 2 wholes = 4s at 120; register 1: 1 whole = 2s
	if d := s.Duration(); d != 4*time.Second {
		t.Fatalf("duration = %v", d)
	}
	if d := s.RegisterDuration(1); d != 2*time.Second {
		t.Fatalf("register 1 duration = %v", d)
	}
}

func TestParseSheetStaccatoOutOfRange(t *testing.T) {
	for _, v := range []string{"0", "1", "1.5", "-0.2"} {
		s, err := ParseSheet("0: C,4,q,"+v, 100)
		if err != nil {
			t.Fatalf("%s: %v", v, err)
		}
		if got := s.Registers[0][0].Staccato; got != 0 {
			t.Errorf("staccato %s became %v, want 0", v, got)
		}
	}
}

func TestParseSheetErrors(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"x: C,4,q", "line 1"},
		{"0: C,4", "line 1 note 1"},
		{"0: C,4,q | H,4,q", "line 1 note 2"},
		{"\n0: C,four,q", "line 2 note 1"},
		{"0: C,4,z", "bad beat"},
		{"0: C,4,qx", "bad beat"},
		{"0: C,4,q,abc", "bad staccato"},
		{"0: C,4,q,0.1,-1", "bad volume"},
		{"0: C,4,q,0.1,1,9", "want pitch"},
	}
	for _, tt := range tests {
		_, err := ParseSheet(tt.src, 120)
		if err == nil {
			t.Errorf("%q: expected error", tt.src)
			continue
		}
		if !errors.Is(err, ErrSyntax) {
			t.Errorf("%q: %v does not wrap ErrSyntax", tt.src, err)
		}
		if !strings.Contains(err.Error(), tt.want) {
			t.Errorf("%q: %v missing %q", tt.src, err, tt.want)
		}
	}
}

func TestParseSheetSkipsEmptySlots(t *testing.T) {
	s, err := ParseSheet("0: C,4,q || D,4,q |", 120)
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Registers[0]) != 2 {
		t.Fatalf("notes = %d", len(s.Registers[0]))
	}
}

func TestParseSheetDefaultTempo(t *testing.T) {
	s := MustParseSheet("0: C,4,q", 0)
	if s.Tempo != DefaultTempo {
		t.Fatalf("tempo = %v", s.Tempo)
	}
}

func TestSheetShift(t *testing.T) {
	s := MustParseSheet(testSheet, 120)
	sh := s.Shift(0.4, -1, 0.25, 3)
	if sh == s {
		t.Fatal("shift returned receiver")
	}
	got := sh.Registers[0][0]
	if got.Volume != 0.4 || got.Octave != 3 || got.Staccato != 0.25 || got.Shift != 3 {
		t.Fatalf("shifted note = %+v", got)
	}
	if got.Key() != 60-12+3 {
		t.Fatalf("shifted key = %d", got.Key())
	}
	if orig := s.Registers[0][0]; orig.Volume != DefaultVolume || orig.Octave != 4 || orig.Shift != 0 {
		t.Fatalf("receiver modified: %+v", orig)
	}
	if sh.Duration() != s.Duration() {
		t.Fatalf("shift changed duration")
	}
	if v := s.Shift(1, 0, 2, 0).Registers[0][0].Staccato; v != 0 {
		t.Fatalf("staccato 2 became %v", v)
	}
}

func TestParseSeqNote(t *testing.T) {
	tests := []struct {
		in    string
		freq  float64
		beats float64
	}{
		{"A4 q", 440, 1},
		{"A q", 440, 1},
		{"A5 h", 880, 2},
		{"- e", 0, 0.5},
		{"A4 es", 440, 0.75},
		{"A4 0.0125", 440, 0.0125},
		{"Bb4 w", 466.1638, 4},
		{"A#4 w", 466.1638, 4},
		{"B#4 q", 261.6256, 1},
		{"C4 q", 261.6256, 1},
	}
	for _, tt := range tests {
		n, err := ParseSeqNote(tt.in)
		if err != nil {
			t.Errorf("%q: %v", tt.in, err)
			continue
		}
		if math.Abs(n.Freq-tt.freq) > 1e-3 {
			t.Errorf("%q: freq %v, want %v", tt.in, n.Freq, tt.freq)
		}
		if n.Beats != tt.beats {
			t.Errorf("%q: beats %v, want %v", tt.in, n.Beats, tt.beats)
		}
	}
}

func TestParseSequenceErrors(t *testing.T) {
	for _, in := range []string{"A4", "H4 q", "A4 x", "A4 q extra"} {
		_, err := ParseSequence("C4 q", in)
		if !errors.Is(err, ErrSyntax) {
			t.Errorf("%q: err = %v", in, err)
		}
		if err != nil && !strings.Contains(err.Error(), "note 2") {
			t.Errorf("%q: %v missing position", in, err)
		}
	}
}

func TestParseSheetEmptyRegisterIsZero(t *testing.T) {
	s, err := ParseSheet(": A,4,q\n0: C,5,q", 120)
	if err != nil {
		t.Fatal(err)
	}
	if ids := s.RegisterIDs(); len(ids) != 1 || ids[0] != 0 {
		t.Fatalf("ids = %v", ids)
	}
	if n := len(s.Registers[0]); n != 2 {
		t.Fatalf("register 0 has %d notes, want 2", n)
	}
}
