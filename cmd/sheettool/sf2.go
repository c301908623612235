package main

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"chipjam/synth"
)

var (
	sf2Path string
	sf2Out  string
)

func init() {
	f := sf2Cmd.Flags()
	f.StringVar(&sf2Path, "soundfont", "", "General MIDI .sf2 file")
	f.StringVarP(&sf2Out, "out", "o", "", "output WAV file (default <song>-sf2.wav)")
	rootCmd.AddCommand(sf2Cmd)
}

var sf2Cmd = &cobra.Command{
	Use:   "sf2",
	Short: "Renders a song to WAV through a SoundFont",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if sf2Path == "" {
			return errors.New("--soundfont is required")
		}
		a, err := loadSong()
		if err != nil {
			return err
		}
		if err := a.Validate(); err != nil {
			return err
		}
		sf, err := synth.LoadSoundFont(sf2Path)
		if err != nil {
			return err
		}
		left, right, err := synth.RenderSoundFont(sf, synth.DefaultSampleRate, a.Events(passes))
		if err != nil {
			return err
		}
		pcm := synth.MixPCM(left, right, synth.DefaultSampleRate, time.Second)
		return writeWAV(cmd, outputPath(sf2Out, a, "-sf2.wav"), pcm, synth.DefaultSampleRate)
	},
}
