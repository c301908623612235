package main

import (
	"sync"
	"time"

	"golang.org/x/time/rate"

	"chipjam/synth"
	"chipjam/tune"
)

const blipLength = 120 * time.Millisecond

type blipSpec struct {
	wave synth.Waveform
	key  int
}

var (
	blipMu    sync.Mutex
	blipCache = make(map[blipSpec][]byte)

	blipLimiter = rate.NewLimiter(rate.Every(40*time.Millisecond), 4)
)

// Menu blips.
var (
	blipSelect = blipSpec{wave: synth.Square, key: 84}
	blipToggle = blipSpec{wave: synth.Triangle, key: 72}
	blipLevel  = blipSpec{wave: synth.Sine, key: 79}
)

// blipPCM renders spec once and returns the cached 16-bit stereo bytes.
func blipPCM(spec blipSpec) []byte {
	blipMu.Lock()
	pcm, ok := blipCache[spec]
	blipMu.Unlock()
	if ok {
		return pcm
	}

	e := synth.NewEngine(sampleRate)
	v := synth.NewVoice(0.5, spec.wave)
	v.Connect()
	e.Add(v)
	e.Do(func(now float64) {
		end := now + blipLength.Seconds()
		v.Oscs[0].Freq.SetValueAtTime(tune.KeyFreq(spec.key), now)
		v.Gains[0].ExponentialRampToValueAtTime(1e-3, end)
		v.Oscs[0].Freq.SetValueAtTime(0, end)
	})
	left, right := synth.RenderFor(e, blipLength, nil)
	pcm = synth.MixPCM(left, right, sampleRate, blipLength/4)

	blipMu.Lock()
	blipCache[spec] = pcm
	blipMu.Unlock()
	return pcm
}

// playBlip plays a short UI sound. Bursts beyond the limiter are dropped.
func playBlip(spec blipSpec) {
	s := currentSettings()
	if !s.GameSound || audioContext == nil {
		return
	}
	if !blipLimiter.Allow() {
		logDebug("playBlip throttled")
		return
	}
	p := audioContext.NewPlayerFromBytes(blipPCM(spec))
	p.SetVolume(blipVolume(s))
	if !trackPlayer(p) {
		logDebug("playBlip too many sound players (%d)", maxSounds)
		p.Close()
		return
	}
	p.Play()
}
