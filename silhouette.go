package main

import "github.com/fogleman/gg"

var (
	silhouetteFill   = opaque(0x0f, 0x0f, 0x0f)
	silhouetteStroke = opaque(0x14, 0x14, 0x14)
	shadowFill       = rgba{0, 0, 0, 0.9}
)

const tailStrokeWidth = 2

type partKind int

const (
	partEllipse partKind = iota
	partPolygon
	partRoundRect
)

// shapePart is one primitive of a silhouette body in local units, origin at
// the feet line. Ellipses use x, y as centre and w, h as radii; round rects
// use x, y as the top-left corner.
type shapePart struct {
	kind       partKind
	x, y, w, h float64
	radius     float64
	pts        []point
}

// tailCurve is a stroked run of quadratic segments starting at from.
type tailCurve struct {
	from point
	quad [][2]point // control, end
}

var (
	tigerBody = []shapePart{
		{kind: partEllipse, x: 0, y: -24, w: 36, h: 18},
		{kind: partEllipse, x: 36, y: -28, w: 12, h: 12},
		{kind: partPolygon, pts: []point{{43, -38}, {46, -32}, {40, -32}}},
		{kind: partPolygon, pts: []point{{31, -40}, {28, -33}, {34, -33}}},
		{kind: partRoundRect, x: -30, y: -8, w: 10, h: 32, radius: 3},
		{kind: partRoundRect, x: -6, y: -8, w: 10, h: 32, radius: 3},
	}
	tigerTail = tailCurve{
		from: point{-36, -26},
		quad: [][2]point{
			{{-56, -40}, {-64, -30}},
			{{-48, -22}, {-40, -18}},
		},
	}

	dogBody = []shapePart{
		{kind: partEllipse, x: 0, y: -18, w: 28, h: 14},
		{kind: partEllipse, x: 26, y: -24, w: 10, h: 9},
		{kind: partPolygon, pts: []point{{34, -24}, {42, -22}, {34, -18}}},
		{kind: partPolygon, pts: []point{{20, -34}, {24, -26}, {16, -26}}},
		{kind: partPolygon, pts: []point{{30, -36}, {34, -28}, {26, -28}}},
		{kind: partRoundRect, x: -20, y: -6, w: 8, h: 26, radius: 3},
		{kind: partRoundRect, x: 0, y: -6, w: 8, h: 26, radius: 3},
	}
	dogTail = tailCurve{
		from: point{-26, -20},
		quad: [][2]point{{{-36, -30}, {-30, -14}}},
	}
)

func shapeOf(k species) ([]shapePart, tailCurve) {
	if k == speciesDog {
		return dogBody, dogTail
	}
	return tigerBody, tigerTail
}

// drawShadow fills the hard shadow quad behind s.
func drawShadow(c *canvas, g frameGeometry, s silhouette) {
	c.fillPolygon(g.shadow(s), shadowFill)
}

// drawSilhouette draws s at its breathing anchor. Every body part is its own
// fill so overlapping parts never cancel.
func drawSilhouette(c *canvas, g frameGeometry, s silhouette) {
	at := g.anchor(s)
	scale := s.scale * g.dpr
	body, tail := shapeOf(s.kind)

	dc := c.dc
	dc.Push()
	defer dc.Pop()
	dc.Translate(at.x, at.y)
	dc.Scale(scale, scale)

	dc.SetColor(silhouetteFill.nrgba())
	for _, p := range body {
		p.trace(dc)
		dc.Fill()
	}

	dc.SetColor(silhouetteStroke.nrgba())
	dc.SetLineWidth(tailStrokeWidth * scale)
	dc.SetLineCapButt()
	dc.SetLineJoinRound()
	dc.MoveTo(tail.from.x, tail.from.y)
	for _, q := range tail.quad {
		dc.QuadraticTo(q[0].x, q[0].y, q[1].x, q[1].y)
	}
	dc.Stroke()
}

func (p shapePart) trace(dc *gg.Context) {
	switch p.kind {
	case partEllipse:
		dc.DrawEllipse(p.x, p.y, p.w, p.h)
	case partRoundRect:
		dc.DrawRoundedRectangle(p.x, p.y, p.w, p.h, p.radius)
	case partPolygon:
		dc.NewSubPath()
		for _, pt := range p.pts {
			dc.LineTo(pt.x, pt.y)
		}
		dc.ClosePath()
	}
}
