package main

import (
	"fmt"
	"io"

	"github.com/hako/durafmt"
	"github.com/spf13/cobra"

	"chipjam/music"
)

var inspectNotes bool

func init() {
	inspectCmd.Flags().BoolVar(&inspectNotes, "notes", false, "print every note with its start time")
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Prints a song's parts and register timings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadSong()
		if err != nil {
			return err
		}
		if err := a.Validate(); err != nil {
			return err
		}
		inspect(cmd.OutOrStdout(), a, inspectNotes)
		return nil
	},
}

func inspect(w io.Writer, a *music.Arrangement, withNotes bool) {
	fmtDur := func(s float64) string {
		return durafmt.Parse(secs(s)).LimitFirstN(2).Format(shortUnits)
	}
	fmt.Fprintf(w, "%s: %.0f bpm, pass %s\n", titleCaser.String(a.Name), a.Tempo, fmtDur(a.Seconds()))
	for _, ins := range a.Instruments() {
		fmt.Fprintf(w, "instrument %d (%s, %d registers): sheets %v, %s\n",
			ins, a.Waves[ins], a.Registers(ins), a.Parts[ins], fmtDur(a.PartSeconds(ins)))
	}
	for id, sh := range a.Sheets {
		fmt.Fprintf(w, "sheet %d: %s\n", id, fmtDur(sh.Seconds()))
		for _, reg := range sh.RegisterIDs() {
			notes := sh.Registers[reg]
			fmt.Fprintf(w, "  register %d: %d notes, %s\n", reg, len(notes), fmtDur(sh.RegisterDuration(reg).Seconds()))
			if !withNotes {
				continue
			}
			var t float64
			for _, n := range notes {
				if n.IsRest() {
					fmt.Fprintf(w, "    %7.3fs  rest %s\n", t, n.Beat)
				} else {
					fmt.Fprintf(w, "    %7.3fs  %-2s%d %-4s key %3d %8.2f Hz vol %.3f\n",
						t, n.Pitch, n.Octave, n.Beat, n.Key(), n.Freq(), n.Volume)
				}
				t += n.Seconds(sh.Tempo)
			}
		}
	}
}
