package main

import (
	"bytes"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"chipjam/music"
	"chipjam/synth"
)

var (
	renderOut  string
	renderRate int
	renderFade time.Duration
)

func init() {
	f := renderCmd.Flags()
	f.StringVarP(&renderOut, "out", "o", "", "output WAV file (default <song>.wav)")
	f.IntVar(&renderRate, "rate", synth.DefaultSampleRate, "sample rate")
	f.DurationVar(&renderFade, "fade", 0, "fade out over the end of the render")
	rootCmd.AddCommand(renderCmd)
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Renders a song to WAV with the chip synth",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadSong()
		if err != nil {
			return err
		}
		left, right, err := music.RenderArrangement(a, renderRate, passes, runtime.NumCPU())
		if err != nil {
			return err
		}
		pcm := synth.MixPCM(left, right, renderRate, renderFade)
		return writeWAV(cmd, outputPath(renderOut, a, ".wav"), pcm, renderRate)
	},
}

func writeWAV(cmd *cobra.Command, path string, pcm []byte, rate int) error {
	var buf bytes.Buffer
	if err := synth.WriteWAV(&buf, pcm, rate); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%s)\n", path, humanize.Bytes(uint64(buf.Len())))
	return nil
}
