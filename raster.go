package main

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
)

// rgba is a straight (non-premultiplied) colour: channels 0-255, alpha 0-1.
type rgba struct {
	r, g, b, a float64
}

func opaque(r, g, b float64) rgba { return rgba{r, g, b, 1} }

func (c rgba) nrgba() color.NRGBA {
	return color.NRGBA{R: clampByte(c.r), G: clampByte(c.g), B: clampByte(c.b), A: clampByte(c.a * 255)}
}

var errEmptySurface = errors.New("surface has no drawable area")

// canvas is the software 2D surface. Vector work goes through a gg context
// bound to img; every frame starts with an opaque clear.
type canvas struct {
	img *image.RGBA
	dc  *gg.Context
	w   int
	h   int
}

func newCanvas(w, h int) (*canvas, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", errEmptySurface, w, h)
	}
	c := &canvas{}
	c.resize(w, h)
	return c, nil
}

// resize reallocates the backing store when the size changes.
func (c *canvas) resize(w, h int) bool {
	if w <= 0 || h <= 0 || (c.img != nil && w == c.w && h == c.h) {
		return false
	}
	c.w, c.h = w, h
	c.img = image.NewRGBA(image.Rect(0, 0, w, h))
	c.dc = gg.NewContextForRGBA(c.img)
	return true
}

// pixels exposes the RGBA bytes for uploads.
func (c *canvas) pixels() []byte { return c.img.Pix }

// fill replaces the whole surface with an opaque colour.
func (c *canvas) fill(col rgba) {
	col.a = 1
	c.dc.SetColor(col.nrgba())
	c.dc.Clear()
}

// fillRect composites col over the rectangle (source-over).
func (c *canvas) fillRect(x0, y0, x1, y1 float64, col rgba) {
	if col.a <= 0 || x1 <= x0 || y1 <= y0 {
		return
	}
	c.dc.DrawRectangle(x0, y0, x1-x0, y1-y0)
	c.dc.SetColor(col.nrgba())
	c.dc.Fill()
}

// fillPolygon composites col over one closed polygon.
func (c *canvas) fillPolygon(pts []point, col rgba) {
	if len(pts) < 3 {
		return
	}
	c.dc.NewSubPath()
	for _, p := range pts {
		c.dc.LineTo(p.x, p.y)
	}
	c.dc.ClosePath()
	c.dc.SetColor(col.nrgba())
	c.dc.Fill()
}

type gradientStop struct {
	offset float64
	col    rgba
}

// fillRadial composites a concentric radial gradient centred on ctr over the
// rectangle. Colours before r0 and past r1 extend the end stops.
func (c *canvas) fillRadial(x0, y0, x1, y1 float64, ctr point, r0, r1 float64, stops []gradientStop) {
	grad := gg.NewRadialGradient(ctr.x, ctr.y, r0, ctr.x, ctr.y, r1)
	for _, s := range stops {
		grad.AddColorStop(s.offset, s.col.nrgba())
	}
	c.dc.DrawRectangle(x0, y0, x1-x0, y1-y0)
	c.dc.SetFillStyle(grad)
	c.dc.Fill()
}

// strokeDashedLine strokes from a to b with butt caps and an on/off pattern
// starting with a dash at a.
func (c *canvas) strokeDashedLine(a, b point, width, on, off float64, col rgba) {
	dc := c.dc
	dc.Push()
	defer dc.Pop()
	dc.SetColor(col.nrgba())
	dc.SetLineWidth(width)
	dc.SetLineCapButt()
	dc.SetDash(on, off)
	dc.DrawLine(a.x, a.y, b.x, b.y)
	dc.Stroke()
}

// fillCircle composites a filled circle.
func (c *canvas) fillCircle(ctr point, r float64, col rgba) {
	c.dc.DrawCircle(ctr.x, ctr.y, r)
	c.dc.SetColor(col.nrgba())
	c.dc.Fill()
}

// clipRect rounds a float rectangle to pixel bounds clipped to the surface.
func (c *canvas) clipRect(x0, y0, x1, y1 float64) (int, int, int, int, bool) {
	ix0 := clampCoord(int(math.Round(x0)), 0, c.w)
	iy0 := clampCoord(int(math.Round(y0)), 0, c.h)
	ix1 := clampCoord(int(math.Round(x1)), 0, c.w)
	iy1 := clampCoord(int(math.Round(y1)), 0, c.h)
	return ix0, iy0, ix1, iy1, ix1 > ix0 && iy1 > iy0
}

// lightenRect adds col onto the rectangle (the "lighter" composite). gg only
// composites source-over, so this one works on the pixels directly.
func (c *canvas) lightenRect(x0, y0, x1, y1 float64, col rgba) {
	ix0, iy0, ix1, iy1, ok := c.clipRect(x0, y0, x1, y1)
	if !ok {
		return
	}
	pr, pg, pb := col.r*col.a, col.g*col.a, col.b*col.a
	for y := iy0; y < iy1; y++ {
		row := c.img.Pix[y*c.img.Stride:]
		for x := ix0; x < ix1; x++ {
			i := x * 4
			row[i] = clampByte(float64(row[i]) + pr)
			row[i+1] = clampByte(float64(row[i+1]) + pg)
			row[i+2] = clampByte(float64(row[i+2]) + pb)
		}
	}
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }

func clampByte(v float64) uint8 {
	if v <= 0 || math.IsNaN(v) {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}

// clampCoord constrains v to lie within the inclusive [min, max] range.
func clampCoord(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
