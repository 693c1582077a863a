package main

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

var (
	chromeFace   = text.NewGoXFace(hudFace)
	chromeText   = color.NRGBA{0xb8, 0xd8, 0xb8, 0xff}
	chromeRec    = color.NRGBA{0xe0, 0x44, 0x44, 0xff}
	promptShade  = color.NRGBA{0, 0, 0, 0x99}
	promptButton = color.NRGBA{0x1e, 0x2a, 0x1e, 0xee}
	promptBorder = color.NRGBA{0x8d, 0xaa, 0x8d, 0xff}
)

const (
	channelLabel = "CH: 03 | CCTV"
	recLabel     = "● REC"
	footerLabel  = "WIDE FOV | 24FPS"
	promptLabel  = "ENABLE AUDIO"
)

// Draw uploads the composited canvas and layers the window chrome on top.
func (g *Game) Draw(screen *ebiten.Image) {
	c := g.renderer.canvas
	b := screen.Bounds()
	if b.Dx() == c.w && b.Dy() == c.h {
		screen.WritePixels(c.pixels())
	}

	scale := math.Max(1, math.Round(g.renderer.dpr))
	if !g.frozen {
		drawLiveChrome(screen, scale)
	}
	if g.promptActive {
		drawPrompt(screen, scale)
	}

	if g.debug {
		msg := fmt.Sprintf("FPS: %.1f\nTPS: %.1f\nFrame: %.2f ms\nSurface: %dx%d @%.1fx\nGrain: %s",
			ebiten.ActualFPS(), ebiten.ActualTPS(), g.lastTick.Seconds()*1000,
			c.w, c.h, g.renderer.dpr, g.renderer.grain.Name())
		if g.engine != nil {
			msg += fmt.Sprintf("\nAudio: %.2fs master %.2f", g.engine.Now(), g.engine.MasterGain())
		}
		ebitenutil.DebugPrint(screen, msg)
	}
}

// Layout reports the physical surface size and keeps the canvas matched to it.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if !g.tracking {
		return g.renderer.canvas.w, g.renderer.canvas.h
	}
	dpr := clampDPR(ebiten.Monitor().DeviceScaleFactor())
	pw := int(math.Round(float64(outsideWidth) * dpr))
	ph := int(math.Round(float64(outsideHeight) * dpr))
	if pw <= 0 || ph <= 0 {
		return g.renderer.canvas.w, g.renderer.canvas.h
	}
	g.renderer.dpr = dpr
	if g.renderer.resize(pw, ph) {
		renderLog.Debugf("surface resized to %dx%d (dpr %.2f)", pw, ph, dpr)
	}
	return pw, ph
}

// drawLiveChrome is the camera strip shown while the sequence runs.
func drawLiveChrome(screen *ebiten.Image, scale float64) {
	b := screen.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	pad := 12 * scale

	drawChromeText(screen, channelLabel, pad, hudTopBar*scale+pad, scale, text.AlignStart, chromeText)
	drawChromeText(screen, recLabel, w-pad, hudTopBar*scale+pad, scale, text.AlignEnd, chromeRec)
	drawChromeText(screen, footerLabel, pad, h-hudBottomBar*scale-pad-chromeFace.Metrics().HAscent*scale, scale, text.AlignStart, chromeText)
}

// drawPrompt shades the scene and shows the audio button.
func drawPrompt(screen *ebiten.Image, scale float64) {
	b := screen.Bounds()
	w, h := float32(b.Dx()), float32(b.Dy())
	vector.DrawFilledRect(screen, 0, 0, w, h, promptShade, false)

	s := float32(scale)
	bw := float32(text.Advance(promptLabel, chromeFace))*s + 32*s
	bh := 28 * s
	x, y := (w-bw)/2, (h-bh)/2
	vector.DrawFilledRect(screen, x, y, bw, bh, promptBorder, false)
	vector.DrawFilledRect(screen, x+s, y+s, bw-2*s, bh-2*s, promptButton, false)

	m := chromeFace.Metrics()
	ty := float64(h)/2 - (m.HAscent+m.HDescent)*scale/2
	drawChromeText(screen, promptLabel, float64(w)/2, ty, scale, text.AlignCenter, promptBorder)
}

func drawChromeText(screen *ebiten.Image, s string, x, y, scale float64, align text.Align, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	op.PrimaryAlign = align
	text.Draw(screen, s, chromeFace, op)
}
