package main

import (
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/hako/durafmt"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"chipjam/music"
)

const (
	hudMargin     = 8
	hudLineHeight = 15
	meterWidth    = 160
	meterHeight   = 6
)

var (
	hudFace       = text.NewGoXFace(basicfont.Face7x13)
	titleCaser    = cases.Title(language.AmericanEnglish)
	shortUnits, _ = durafmt.DefaultUnitsCoder.Decode("y:yrs,wk:wks,d:d,h:h,m:m,s:s,ms:ms,us:us")

	hudBG     = color.NRGBA{16, 12, 28, 255}
	hudText   = color.NRGBA{220, 220, 235, 255}
	hudDim    = color.NRGBA{120, 120, 150, 255}
	meterRMS  = color.NRGBA{64, 200, 120, 255}
	meterPeak = color.NRGBA{240, 200, 64, 255}
)

var keyHelp = []string{
	"M music  N next song  E export",
	"P laser  1-8 chords  +/- volume",
}

type hudStatus struct {
	song     *music.Arrangement
	playing  bool
	position time.Duration
	passes   int
	volume   float64
	peak     float64
	rms      float64
	laser    bool
	export   string
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return "0s"
	}
	return durafmt.Parse(d.Truncate(time.Second)).LimitFirstN(2).Format(shortUnits)
}

// hudLines is the status text, one entry per line.
func hudLines(st hudStatus) []string {
	state := "stopped"
	if st.playing {
		state = "playing"
	}
	lines := []string{
		fmt.Sprintf("%s  %.0f bpm  %s", titleCaser.String(st.song.Name), st.song.Tempo, state),
		fmt.Sprintf("%s / %s  pass %d", formatDuration(st.position), formatDuration(st.song.Duration()), st.passes),
		fmt.Sprintf("volume %d%%", int(st.volume*100+0.5)),
	}
	if st.laser {
		lines = append(lines, "pew")
	}
	if st.export != "" {
		lines = append(lines, st.export)
	}
	return lines
}

func drawText(dst *ebiten.Image, s string, x, y float64, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(dst, s, hudFace, op)
}

func drawHUD(screen *ebiten.Image, st hudStatus) {
	screen.Fill(hudBG)
	y := float64(hudMargin)
	for _, l := range hudLines(st) {
		drawText(screen, l, hudMargin, y, hudText)
		y += hudLineHeight
	}

	y += 4
	vector.DrawFilledRect(screen, hudMargin, float32(y), meterWidth, meterHeight, hudDim, false)
	vector.DrawFilledRect(screen, hudMargin, float32(y), float32(clamp01(st.rms)*meterWidth), meterHeight, meterRMS, false)
	px := float32(hudMargin + clamp01(st.peak)*meterWidth)
	vector.DrawFilledRect(screen, px-1, float32(y), 2, meterHeight, meterPeak, false)

	y = screenH - hudMargin - float64(len(keyHelp))*hudLineHeight
	for _, l := range keyHelp {
		drawText(screen, l, hudMargin, y, hudDim)
		y += hudLineHeight
	}
}
