package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"chipjam/music"
	"chipjam/synth"
)

var doDebug bool

func main() {
	song := flag.String("song", "", "song to play (title, game)")
	dumpSheetFlag := flag.Bool("dumpSheet", false, "print note timings for the song and exit")
	dumpMusicPath := flag.String("dumpMusic", "", "render the song to this .wav file and exit")
	soundFont := flag.String("soundfont", "", "render exports through this .sf2 SoundFont")
	passes := flag.Int("passes", 0, "passes to render for exports")
	flag.BoolVar(&doDebug, "debug", false, "verbose/debug logging")
	flag.Parse()

	setupLogging(doDebug)
	if !loadSettings() {
		logDebug("using default settings")
	}
	updateSettings(func(s *settings) {
		if *song != "" {
			s.Song = *song
		}
		if *soundFont != "" {
			s.SoundFont = *soundFont
		}
		if *passes > 0 {
			s.Passes = *passes
		}
	})
	s := currentSettings()
	if *song != "" && s.Song != *song {
		fmt.Fprintf(os.Stderr, "unknown song %q\n", *song)
		os.Exit(2)
	}

	if *dumpSheetFlag || *dumpMusicPath != "" {
		a, err := music.Song(s.Song)
		if err != nil {
			log.Fatal(err)
		}
		if *dumpSheetFlag {
			if err := dumpSheet(os.Stdout, a); err != nil {
				log.Fatal(err)
			}
		}
		if *dumpMusicPath != "" {
			if err := dumpMusic(os.Stdout, a, s, *dumpMusicPath); err != nil {
				log.Fatal(err)
			}
		}
		return
	}

	initSoundContext()
	runGame(newHost(synth.NewEngine(sampleRate)))
	stopAllSounds()
}

// newHost starts the audio output for e and builds the game from the
// settings as they stand afterwards, so a failed player shows as music off.
func newHost(e *synth.Engine) *Game {
	startEnginePlayer(e)
	g := newGame(e, currentSettings())
	updateSoundVolume(e)
	return g
}
