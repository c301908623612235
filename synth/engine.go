// Package synth is a small audio graph driven by a sample clock:
// automated params, band-limited oscillators, voices and an engine that
// mixes them into 16-bit stereo PCM. It also renders note events through a
// SoundFont and writes WAV files.
package synth

import (
	"encoding/binary"
	"math"
	"sync"
)

const (
	// DefaultSampleRate matches the host audio context.
	DefaultSampleRate = 44100

	meterWindow  = 0.05
	limitLevel   = 0.5
	limitAttack  = 0.005
	limitRelease = 0.25
)

// Engine owns the clock and the set of voices. The clock only advances
// while samples are rendered, so CurrentTime is the time of the next sample
// to be produced.
type Engine struct {
	mu      sync.Mutex
	rate    int
	frame   int64
	voices  []*Voice
	volume  float64
	meter   *Meter
	limiter *Limiter
	mono    []float64
}

func NewEngine(sampleRate int) *Engine {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	return &Engine{
		rate:    sampleRate,
		volume:  1,
		meter:   NewMeter(meterWindow, sampleRate),
		limiter: NewLimiter(limitLevel, limitAttack, limitRelease, sampleRate),
	}
}

func (e *Engine) SampleRate() int { return e.rate }

// CurrentTime returns the clock in seconds.
func (e *Engine) CurrentTime() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.now()
}

func (e *Engine) now() float64 {
	return float64(e.frame) / float64(e.rate)
}

// Do runs fn with the engine locked, passing the current time. All
// scheduling on voices added to e must happen inside Do.
func (e *Engine) Do(fn func(now float64)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(e.now())
}

// Add registers v with the engine. Adding a voice twice is a no-op.
func (e *Engine) Add(v *Voice) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, x := range e.voices {
		if x == v {
			return
		}
	}
	e.voices = append(e.voices, v)
}

func (e *Engine) Remove(v *Voice) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, x := range e.voices {
		if x == v {
			e.voices = append(e.voices[:i], e.voices[i+1:]...)
			return
		}
	}
}

// SetVolume sets the master volume, clamped to [0,1].
func (e *Engine) SetVolume(v float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.volume = math.Max(0, math.Min(1, v))
}

func (e *Engine) Volume() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.volume
}

// Level returns the recent output peak and RMS.
func (e *Engine) Level() (peak, rms float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.meter.Peak(), e.meter.RMS()
}

// Render fills left and right with the next len(left) samples and advances
// the clock. The voices are mono so both channels carry the same signal.
func (e *Engine) Render(left, right []float32) {
	n := len(left)
	if len(right) < n {
		n = len(right)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if cap(e.mono) < n {
		e.mono = make([]float64, n)
	}
	buf := e.mono[:n]
	e.render(buf)
	for i, x := range buf {
		left[i] = float32(x)
		right[i] = float32(x)
	}
}

// Read implements io.Reader producing interleaved 16-bit little-endian
// stereo. Only whole frames are written.
func (e *Engine) Read(p []byte) (int, error) {
	n := len(p) / 4
	if n == 0 {
		return 0, nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if cap(e.mono) < n {
		e.mono = make([]float64, n)
	}
	buf := e.mono[:n]
	e.render(buf)
	for i, x := range buf {
		s := uint16(int16(x * 32767))
		binary.LittleEndian.PutUint16(p[4*i:], s)
		binary.LittleEndian.PutUint16(p[4*i+2:], s)
	}
	return n * 4, nil
}

func (e *Engine) render(buf []float64) {
	rate := float64(e.rate)
	for i := range buf {
		t := float64(e.frame) / rate
		var sum float64
		for _, v := range e.voices {
			sum += v.next(t, rate)
		}
		y := SoftClip(e.limiter.Limit(sum)) * e.volume
		e.meter.Add(y)
		buf[i] = y
		e.frame++
	}
}
