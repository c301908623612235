package main

import (
	"fmt"
	"io"
	"time"

	"chipjam/music"
)

// dumpSheet prints the note timings of one pass of a.
func dumpSheet(w io.Writer, a *music.Arrangement) error {
	if err := a.Validate(); err != nil {
		return err
	}
	var end time.Duration
	for i, n := range a.Events(1) {
		fmt.Fprintf(w, "%03d: ins=%d key=%3d vel=%3d start=%6dms dur=%6dms\n",
			i, n.Channel, n.Key, n.Velocity, n.Start.Milliseconds(), n.Duration.Milliseconds())
		if e := n.End(); e > end {
			end = e
		}
	}
	fmt.Fprintf(w, "total end: %dms pass: %dms (tempo=%.0f song=%s)\n",
		end.Milliseconds(), a.Duration().Milliseconds(), a.Tempo, a.Name)
	return nil
}

// dumpMusic renders a to path and reports the size written.
func dumpMusic(w io.Writer, a *music.Arrangement, s settings, path string) error {
	job := exportJob{song: a, passes: s.Passes, path: path, soundFont: s.SoundFont}
	n, err := runExport(job)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "wrote %s (%d bytes, %d passes)\n", path, n, job.passes)
	return nil
}
