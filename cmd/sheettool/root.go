package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hako/durafmt"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"chipjam/music"
	"chipjam/synth"
	"chipjam/tune"
)

var (
	songName  string
	sheetFile string
	waveName  string
	tempo     float64
	passes    int

	titleCaser    = cases.Title(language.AmericanEnglish)
	shortUnits, _ = durafmt.DefaultUnitsCoder.Decode("y:yrs,wk:wks,d:d,h:h,m:m,s:s,ms:ms,us:us")
)

var rootCmd = &cobra.Command{
	Use:   "sheettool",
	Short: "Inspect and render chiptune sheets",
	Long: `sheettool works on the built-in songs or on a sheet file
("register: pitch,octave,beat | ..." per line).`,
	SilenceUsage: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&songName, "song", "s", "title", "built-in song to use")
	pf.StringVarP(&sheetFile, "file", "f", "", "sheet file to use instead of a built-in song")
	pf.StringVar(&waveName, "wave", "square", "waveform for --file sheets")
	pf.Float64Var(&tempo, "tempo", tune.DefaultTempo, "tempo for --file sheets")
	pf.IntVarP(&passes, "passes", "n", 1, "number of times to play the song")
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

// loadSong returns the song selected by the persistent flags.
func loadSong() (*music.Arrangement, error) {
	if sheetFile == "" {
		return music.Song(songName)
	}
	data, err := os.ReadFile(sheetFile)
	if err != nil {
		return nil, err
	}
	sh, err := tune.ParseSheet(string(data), tempo)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", sheetFile, err)
	}
	w, err := synth.ParseWaveform(waveName)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSuffix(filepath.Base(sheetFile), filepath.Ext(sheetFile))
	return music.FromSheet(name, sh, w), nil
}

// outputPath returns path, or the song name with ext when path is empty.
func outputPath(path string, a *music.Arrangement, ext string) string {
	if path != "" {
		return path
	}
	return a.Name + ext
}

func secs(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
