package main

import (
	"math"
	"time"

	"github.com/hajimehoshi/bitmapfont/v4"
)

var (
	hudBar  = rgba{0, 0, 0, hudBarAlpha}
	hudText = opaque(0x8d, 0xaa, 0x8d)
	recOn   = opaque(0xe0, 0x44, 0x44)
	recOff  = opaque(0x50, 0x22, 0x22)
	hudFace = bitmapfont.Face
)

const (
	cameraName     = "CAM 03"
	hudStampLayout = "2006-01-02 15:04:05"
)

type textAlign int

const (
	alignLeft textAlign = iota
	alignCenter
)

// recBlinkOn reports whether the recording dot is lit at scene time t (ms).
func recBlinkOn(t float64) bool {
	return int64(math.Floor(t/recBlinkPeriod))%2 == 0
}

func hudTimestamp(now time.Time) string {
	return now.UTC().Format(hudStampLayout)
}

// drawHUD paints the camera chrome: bars, label, blinking REC and the clock.
func drawHUD(c *canvas, g frameGeometry, t float64, now time.Time) {
	d := g.dpr
	c.fillRect(0, 0, g.w, hudTopBar*d, hudBar)
	c.fillRect(0, g.h-hudBottomBar*d, g.w, g.h, hudBar)

	drawText(c, cameraName, 10*d, 14*d, d, alignLeft, hudText)

	dot := recOff
	if recBlinkOn(t) {
		dot = recOn
	}
	c.fillCircle(point{g.w - 70*d, 14 * d}, recDotRadius*d, dot)
	drawText(c, "REC", g.w-50*d, 14*d, d, alignLeft, hudText)

	drawText(c, hudTimestamp(now), g.w*0.5, g.h-12*d, d, alignCenter, hudText)
}

// drawText renders s with its vertical middle at y. The bitmap face is
// upscaled by the rounded pixel ratio so text keeps its apparent size.
func drawText(c *canvas, s string, x, y, dpr float64, align textAlign, col rgba) {
	scale := math.Max(1, math.Round(dpr))
	ax := 0.0
	if align == alignCenter {
		ax = 0.5
	}
	dc := c.dc
	dc.Push()
	defer dc.Pop()
	dc.Translate(x, y)
	dc.Scale(scale, scale)
	dc.SetFontFace(hudFace)
	dc.SetColor(col.nrgba())
	dc.DrawStringAnchored(s, 0, 0, ax, 0.5)
}
