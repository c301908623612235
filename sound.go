package main

import (
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"

	"chipjam/synth"
)

const (
	sampleRate = synth.DefaultSampleRate
	maxSounds  = 32

	// musicBuffer bounds the latency between scheduling and hearing a
	// change on the engine.
	musicBuffer = 60 * time.Millisecond
)

var (
	soundMu      sync.Mutex
	audioContext *audio.Context
	soundPlayers = make(map[*audio.Player]struct{})

	musicPlayer *audio.Player
)

// initSoundContext initializes the global audio context.
func initSoundContext() {
	audioContext = audio.NewContext(sampleRate)
}

// startEnginePlayer streams e through the audio device and reports whether
// it is playing. Failures leave music disabled rather than stopping the
// game.
func startEnginePlayer(e *synth.Engine) bool {
	if audioContext == nil {
		logWarn("no audio context, music disabled")
		updateSettings(func(s *settings) { s.Music = false })
		return false
	}
	p, err := audioContext.NewPlayer(e)
	if err != nil {
		logError("engine player: %v", err)
		updateSettings(func(s *settings) { s.Music = false })
		return false
	}
	p.SetBufferSize(musicBuffer)
	p.Play()
	musicPlayer = p
	return true
}

// updateSoundVolume pushes the current settings to the engine and every
// live sound player.
func updateSoundVolume(e *synth.Engine) {
	s := currentSettings()
	if e != nil {
		e.SetVolume(s.MasterVolume * s.MusicVolume)
	}
	vol := blipVolume(s)
	soundMu.Lock()
	for sp := range soundPlayers {
		sp.SetVolume(vol)
	}
	soundMu.Unlock()
}

func blipVolume(s settings) float64 {
	if !s.GameSound {
		return 0
	}
	return s.MasterVolume * s.SoundVolume
}

// trackPlayer registers p, closing finished players first. It reports false
// when too many sounds are already playing.
func trackPlayer(p *audio.Player) bool {
	soundMu.Lock()
	defer soundMu.Unlock()
	for sp := range soundPlayers {
		if !sp.IsPlaying() {
			sp.Close()
			delete(soundPlayers, sp)
		}
	}
	if maxSounds > 0 && len(soundPlayers) >= maxSounds {
		return false
	}
	soundPlayers[p] = struct{}{}
	return true
}

// stopAllSounds halts and disposes all currently playing audio players.
func stopAllSounds() {
	soundMu.Lock()
	for sp := range soundPlayers {
		_ = sp.Close()
		delete(soundPlayers, sp)
	}
	soundMu.Unlock()
	if musicPlayer != nil {
		_ = musicPlayer.Close()
		musicPlayer = nil
	}
}
