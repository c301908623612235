package main

import (
	"testing"
	"time"

	"chipjam/synth"
)

func TestBlipPCMCached(t *testing.T) {
	spec := blipSpec{wave: synth.Square, key: 60}
	a := blipPCM(spec)
	want := int(blipLength.Seconds()*sampleRate) * 4
	if len(a) < want-4 || len(a) > want+4 {
		t.Fatalf("len = %d, want about %d", len(a), want)
	}
	var loud bool
	for _, b := range a {
		if b != 0 {
			loud = true
			break
		}
	}
	if !loud {
		t.Fatalf("blip is silent")
	}
	b := blipPCM(spec)
	if &a[0] != &b[0] {
		t.Fatalf("second render not served from cache")
	}
	c := blipPCM(blipSpec{wave: synth.Sine, key: 60})
	if &a[0] == &c[0] {
		t.Fatalf("different specs share a cache entry")
	}
}

func TestPlayBlipWithoutAudio(t *testing.T) {
	if audioContext != nil {
		t.Skip("audio context present")
	}
	// Must not panic or render without a context.
	playBlip(blipSpec{wave: synth.Triangle, key: 99})
	blipMu.Lock()
	_, ok := blipCache[blipSpec{wave: synth.Triangle, key: 99}]
	blipMu.Unlock()
	if ok {
		t.Fatalf("blip rendered with no audio context")
	}
}

func TestBlipLimiterBurst(t *testing.T) {
	now := time.Now()
	allowed := 0
	for i := 0; i < 10; i++ {
		if blipLimiter.AllowN(now, 1) {
			allowed++
		}
	}
	if allowed > blipLimiter.Burst() {
		t.Fatalf("allowed %d blips in one instant, burst %d", allowed, blipLimiter.Burst())
	}
}

func TestBlipVolume(t *testing.T) {
	s := gsdef
	s.MasterVolume, s.SoundVolume = 0.5, 0.5
	if v := blipVolume(s); v != 0.25 {
		t.Fatalf("volume = %v", v)
	}
	s.GameSound = false
	if v := blipVolume(s); v != 0 {
		t.Fatalf("muted volume = %v", v)
	}
}
