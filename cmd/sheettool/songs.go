package main

import (
	"fmt"

	"github.com/hako/durafmt"
	"github.com/spf13/cobra"

	"chipjam/music"
)

func init() {
	rootCmd.AddCommand(songsCmd)
}

var songsCmd = &cobra.Command{
	Use:   "songs",
	Short: "Lists the built-in songs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, name := range music.Songs() {
			a, err := music.Song(name)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%-8s %-8s %3.0f bpm  %d instruments  %s\n",
				name, titleCaser.String(name), a.Tempo, len(a.Waves),
				durafmt.Parse(a.Duration()).LimitFirstN(2).Format(shortUnits))
		}
		return nil
	},
}
