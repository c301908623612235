package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"chipjam/internal/smfexport"
)

var midiOut string

func init() {
	midiCmd.Flags().StringVarP(&midiOut, "out", "o", "", "output MIDI file (default <song>.mid)")
	rootCmd.AddCommand(midiCmd)
}

var midiCmd = &cobra.Command{
	Use:   "midi",
	Short: "Exports a song as a Standard MIDI File",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadSong()
		if err != nil {
			return err
		}
		var buf bytes.Buffer
		if err := smfexport.Write(&buf, a, passes); err != nil {
			return err
		}
		path := outputPath(midiOut, a, ".mid")
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%s)\n", path, humanize.Bytes(uint64(buf.Len())))
		return nil
	},
}
