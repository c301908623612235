package music

import (
	"fmt"
	"time"

	"github.com/remeh/sizedwaitgroup"

	"chipjam/synth"
)

// releaseTail is rendered after the last pass so the final notes finish.
const releaseTail = 500 * time.Millisecond

// RenderArrangement renders passes repetitions of a offline. Each
// instrument renders on its own engine, at most workers at a time, and the
// stems are summed.
func RenderArrangement(a *Arrangement, sampleRate, passes, workers int) (left, right []float32, err error) {
	if err := a.Validate(); err != nil {
		return nil, nil, err
	}
	if passes < 1 {
		passes = 1
	}
	if workers < 1 {
		workers = 1
	}
	pass := a.Seconds()
	if pass <= 0 {
		return nil, nil, fmt.Errorf("song %q is empty", a.Name)
	}
	total := seconds(pass*float64(passes)) + releaseTail

	ids := a.Instruments()
	stems := make([][]float32, len(ids))
	swg := sizedwaitgroup.New(workers)
	for i, ins := range ids {
		swg.Add()
		go func(i, ins int) {
			defer swg.Done()
			stems[i] = renderStem(a, ins, sampleRate, passes, total)
		}(i, ins)
	}
	swg.Wait()

	mono := synth.Mix(stems...)
	right = make([]float32, len(mono))
	copy(right, mono)
	return mono, right, nil
}

func renderStem(a *Arrangement, ins, sampleRate, passes int, total time.Duration) []float32 {
	e := synth.NewEngine(sampleRate)
	in := NewInstrument(a.Name, a.Waves[ins], a.Registers(ins))
	e.Add(in.Voice())
	pass := a.Seconds()
	e.Do(func(now float64) {
		for p := 0; p < passes; p++ {
			a.schedulePart(in, ins, now+float64(p)*pass)
		}
		in.Play()
	})
	left, _ := synth.RenderFor(e, total, nil)
	return left
}
