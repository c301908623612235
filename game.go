package main

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"chipjam/music"
	"chipjam/synth"
)

const (
	initialWindowW, initialWindowH = 960, 540
	screenW, screenH               = 480, 270

	jingleTempo = 180
	jingleGain  = 0.15
	volumeStep  = 0.05
)

var chordKeys = [8]ebiten.Key{
	ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3, ebiten.KeyDigit4,
	ebiten.KeyDigit5, ebiten.KeyDigit6, ebiten.KeyDigit7, ebiten.KeyDigit8,
}

// frameInput is the key state sampled once per tick.
type frameInput struct {
	laser       bool
	chord       int
	toggleMusic bool
	nextSong    bool
	export      bool
	volume      int
}

func pollInput() frameInput {
	in := frameInput{laser: ebiten.IsKeyPressed(ebiten.KeyP)}
	for i, k := range chordKeys {
		if inpututil.IsKeyJustPressed(k) {
			in.chord = i + 1
		}
	}
	in.toggleMusic = inpututil.IsKeyJustPressed(ebiten.KeyM)
	in.nextSong = inpututil.IsKeyJustPressed(ebiten.KeyN)
	in.export = inpututil.IsKeyJustPressed(ebiten.KeyE)
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) || inpututil.IsKeyJustPressed(ebiten.KeyKPAdd) {
		in.volume++
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) || inpututil.IsKeyJustPressed(ebiten.KeyKPSubtract) {
		in.volume--
	}
	return in
}

type Game struct {
	engine    *synth.Engine
	songs     []string
	song      int
	conductor *music.Conductor
	laser     *music.Effect
	pad       *music.ChordPad
	jingle    *music.Sequencer

	musicOn bool
	started bool
	now     float64
	// switchTo is the song index to load once the engine is unlocked, or -1.
	switchTo int
}

// newGame wires every sound source to e. Nothing plays until the first
// update.
func newGame(e *synth.Engine, s settings) *Game {
	g := &Game{
		engine:   e,
		songs:    music.Songs(),
		laser:    music.NewLaser(),
		pad:      music.NewChordPad(),
		jingle:   music.NewSequencer(jingleTempo, synth.Square, jingleGain, music.Jingle()...),
		musicOn:  s.Music,
		switchTo: -1,
	}
	g.jingle.Loop = false
	e.Add(g.laser.Voice())
	e.Add(g.pad.Instrument().Voice())
	e.Add(g.jingle.Voice())
	for i, name := range g.songs {
		if name == s.Song {
			g.song = i
		}
	}
	g.loadSong(g.song, s.Loop)
	return g
}

func (g *Game) loadSong(i int, loop bool) {
	if g.conductor != nil {
		for _, v := range g.conductor.Voices() {
			g.engine.Remove(v)
		}
	}
	a, err := music.Song(g.songs[i])
	if err != nil {
		logError("load song: %v", err)
		return
	}
	g.song = i
	g.conductor = music.NewConductor(a)
	g.conductor.Loop = loop
	for _, v := range g.conductor.Voices() {
		g.engine.Add(v)
	}
	logDebug("song %s: %d instruments, %v per pass", a.Name, len(g.conductor.Instruments()), g.conductor.Duration())
}

func (g *Game) Update() error {
	in := pollInput()
	g.engine.Do(func(now float64) { g.step(now, in) })
	g.apply(in)
	return nil
}

// step does all the scheduling for one tick. It runs with the engine
// locked.
func (g *Game) step(now float64, in frameInput) {
	g.now = now
	if !g.started {
		g.started = true
		g.jingle.Play(now)
	}
	g.jingle.Update(now)

	if in.toggleMusic {
		g.musicOn = !g.musicOn
		if !g.musicOn {
			g.conductor.Stop(now)
		}
	}
	if in.nextSong {
		g.conductor.Stop(now)
		g.switchTo = (g.song + 1) % len(g.songs)
	}
	if g.musicOn && g.switchTo < 0 {
		g.conductor.Update(now)
	}

	g.laser.Trigger(in.laser, now)
	if in.chord > 0 {
		g.pad.Press(in.chord, now)
	}
}

// apply handles the parts of a tick that must not hold the engine lock.
func (g *Game) apply(in frameInput) {
	if g.switchTo >= 0 {
		next := g.switchTo
		g.switchTo = -1
		g.loadSong(next, currentSettings().Loop)
		updateSettings(func(s *settings) { s.Song = g.songs[next] })
		playBlip(blipSelect)
	}
	if in.toggleMusic {
		on := g.musicOn
		updateSettings(func(s *settings) { s.Music = on })
		playBlip(blipToggle)
	}
	if in.volume != 0 {
		d := float64(in.volume) * volumeStep
		updateSettings(func(s *settings) {
			s.MasterVolume = clamp01(s.MasterVolume + d)
		})
		updateSoundVolume(g.engine)
		playBlip(blipLevel)
	}
	if in.export {
		a := g.conductor.Arrangement()
		enqueueExport(newExportJob(a, currentSettings()))
		logDebug("queued export of %s", a.Name)
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func (g *Game) Draw(screen *ebiten.Image) {
	peak, rms := g.engine.Level()
	st := hudStatus{
		song:     g.conductor.Arrangement(),
		playing:  g.conductor.Playing(),
		position: g.conductor.Position(g.now),
		passes:   g.conductor.Passes(),
		volume:   currentSettings().MasterVolume,
		peak:     peak,
		rms:      rms,
		laser:    g.laser.Held(),
		export:   currentExportStatus(),
	}
	drawHUD(screen, st)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenW, screenH
}

func runGame(g *Game) {
	s := currentSettings()
	ebiten.SetWindowTitle("chipjam")
	ebiten.SetWindowSize(s.WindowWidth, s.WindowHeight)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(g); err != nil {
		log.Printf("ebiten: %v", err)
	}
	w, h := ebiten.WindowSize()
	updateSettings(func(s *settings) {
		s.WindowWidth, s.WindowHeight = w, h
	})
	saveSettings()
}
