package music

import (
	"time"

	"chipjam/synth"
)

// DefaultLookahead is how far ahead of a loop boundary the next pass is
// scheduled. It must exceed the time between Update calls.
const DefaultLookahead = 0.25

// Conductor plays an Arrangement on its instruments and loops it.
type Conductor struct {
	song        *Arrangement
	instruments []*Instrument

	Loop      bool
	Lookahead float64

	start    float64 // start of the pass now sounding
	queued   bool    // the pass starting at start+dur is scheduled
	playing  bool
	finished bool
	passes   int
}

// NewConductor builds the instruments for a and returns a looping
// conductor. Add Voices to the engine before the first Update.
func NewConductor(a *Arrangement) *Conductor {
	return &Conductor{
		song:        a,
		instruments: a.NewInstruments(),
		Loop:        true,
		Lookahead:   DefaultLookahead,
	}
}

func (c *Conductor) Arrangement() *Arrangement { return c.song }

func (c *Conductor) Instruments() []*Instrument { return c.instruments }

// Voices returns every instrument voice.
func (c *Conductor) Voices() []*synth.Voice {
	out := make([]*synth.Voice, len(c.instruments))
	for i, in := range c.instruments {
		out[i] = in.Voice()
	}
	return out
}

// Duration is the length of one pass.
func (c *Conductor) Duration() time.Duration { return c.song.Duration() }

// Update starts the song on its first call and keeps it looping. Passes
// tile exactly: the next pass is scheduled Lookahead seconds before the
// current one ends and starts when it ends. If now has moved past the end
// of the next pass as well, playback restarts at now.
func (c *Conductor) Update(now float64) {
	if c.finished {
		return
	}
	dur := c.song.Seconds()
	if !c.playing {
		c.begin(now)
		return
	}
	if dur <= 0 {
		return
	}
	end := c.start + dur
	if !c.Loop {
		// a pass queued before looping was turned off still plays out
		if now >= end && c.queued {
			c.start = end
			c.queued = false
			c.passes++
			end = c.start + dur
		}
		if now >= end {
			c.finished = true
		}
		return
	}
	if now >= end+dur {
		for _, in := range c.instruments {
			in.Stop(now)
		}
		c.begin(now)
		return
	}
	if now >= end {
		if !c.queued {
			c.schedule(end)
		}
		c.start = end
		c.queued = false
		c.passes++
		end = c.start + dur
	}
	if !c.queued && now >= end-c.Lookahead {
		c.schedule(end)
		c.queued = true
	}
}

func (c *Conductor) begin(now float64) {
	c.start = now
	c.queued = false
	c.playing = true
	c.passes = 1
	c.schedule(now)
	for _, in := range c.instruments {
		in.Play()
	}
}

func (c *Conductor) schedule(t0 float64) {
	for _, ins := range c.song.Instruments() {
		c.song.schedulePart(c.instruments[ins], ins, t0)
	}
}

// Stop silences every instrument from now and resets the conductor so the
// next Update starts from the top.
func (c *Conductor) Stop(now float64) {
	for _, in := range c.instruments {
		in.Stop(now)
	}
	c.playing = false
	c.finished = false
	c.queued = false
	c.passes = 0
}

// Playing reports whether the song has started and, when not looping, has
// not yet ended.
func (c *Conductor) Playing() bool {
	return c.playing && !c.finished
}

// Position returns how far into the current pass now is.
func (c *Conductor) Position(now float64) time.Duration {
	if !c.Playing() || now < c.start {
		return 0
	}
	return seconds(now - c.start)
}

// Passes returns how many passes have started since the last (re)start.
func (c *Conductor) Passes() int { return c.passes }
