package synth

import (
	"encoding/binary"
	"fmt"
	"io"

	wav "github.com/youpy/go-wav"
)

// WriteWAV writes interleaved 16-bit stereo PCM as a WAV file.
func WriteWAV(w io.Writer, pcm []byte, sampleRate int) error {
	frames := len(pcm) / 4
	ww := wav.NewWriter(w, uint32(frames), 2, uint32(sampleRate), 16)
	samples := make([]wav.Sample, frames)
	for i := range samples {
		samples[i].Values[0] = int(int16(binary.LittleEndian.Uint16(pcm[4*i:])))
		samples[i].Values[1] = int(int16(binary.LittleEndian.Uint16(pcm[4*i+2:])))
	}
	if err := ww.WriteSamples(samples); err != nil {
		return fmt.Errorf("write wav samples: %w", err)
	}
	return nil
}
