package synth

import (
	"encoding/binary"
	"math"
	"time"
)

// block is the offline render step. It matches the SoundFont renderer so
// both paths advance the clock in the same increments.
const block = 1024

// RenderFor renders d of audio from e, advancing its clock. fn, when not
// nil, runs inside the engine lock before each block so callers can keep
// scheduling as the clock moves.
func RenderFor(e *Engine, d time.Duration, fn func(now float64)) (left, right []float32) {
	total := durationToFrames(d, e.SampleRate())
	left = make([]float32, 0, total)
	right = make([]float32, 0, total)
	l := make([]float32, block)
	r := make([]float32, block)
	for pos := 0; pos < total; pos += block {
		n := block
		if pos+n > total {
			n = total - pos
		}
		if fn != nil {
			e.Do(fn)
		}
		e.Render(l[:n], r[:n])
		left = append(left, l[:n]...)
		right = append(right, r[:n]...)
	}
	return left, right
}

func durationToFrames(d time.Duration, sampleRate int) int {
	if d <= 0 {
		return 0
	}
	return int((d.Nanoseconds()*int64(sampleRate) + int64(time.Second/2)) / int64(time.Second))
}

// MixPCM fades the last fade of the samples to silence, normalizes the peak
// to 0.99 and returns interleaved 16-bit little-endian stereo. The input
// slices are modified.
func MixPCM(left, right []float32, sampleRate int, fade time.Duration) []byte {
	n := len(left)
	if len(right) < n {
		n = len(right)
	}
	left, right = left[:n], right[:n]

	if fadeSamples := durationToFrames(fade, sampleRate); fadeSamples > 0 && n > 0 {
		if fadeSamples > n {
			fadeSamples = n
		}
		start := n - fadeSamples
		for i := start; i < n; i++ {
			g := 1 - float32(i-start)/float32(fadeSamples)
			left[i] *= g
			right[i] *= g
		}
	}

	var peak float32
	for i := range left {
		if v := float32(math.Abs(float64(left[i]))); v > peak {
			peak = v
		}
		if v := float32(math.Abs(float64(right[i]))); v > peak {
			peak = v
		}
	}
	if peak > 0 {
		g := float32(0.99) / peak
		for i := range left {
			left[i] *= g
			right[i] *= g
		}
	}

	pcm := make([]byte, n*4)
	for i := range left {
		binary.LittleEndian.PutUint16(pcm[4*i:], uint16(int16(left[i]*32767)))
		binary.LittleEndian.PutUint16(pcm[4*i+2:], uint16(int16(right[i]*32767)))
	}
	return pcm
}

// Mix sums stems sample by sample. The result is as long as the longest
// stem.
func Mix(stems ...[]float32) []float32 {
	var n int
	for _, s := range stems {
		if len(s) > n {
			n = len(s)
		}
	}
	out := make([]float32, n)
	for _, s := range stems {
		for i, x := range s {
			out[i] += x
		}
	}
	return out
}
