package main

import "math"

type point struct{ x, y float64 }

// lightPool is a street light footprint; position is a fraction of the surface.
type lightPool struct {
	fx, fy       float64
	radiusFactor float64
}

var lightPools = [3]lightPool{
	{fx: 0.28, fy: 0.52, radiusFactor: poolBaseRadius},
	{fx: 0.72, fy: 0.58, radiusFactor: poolBaseRadius + poolRadiusStep},
	{fx: 0.50, fy: 0.68, radiusFactor: poolBaseRadius + 2*poolRadiusStep},
}

type species int

const (
	speciesTiger species = iota
	speciesDog
)

func (s species) String() string {
	if s == speciesTiger {
		return "tiger"
	}
	return "dog"
}

// silhouette anchors an animal on the surface.
type silhouette struct {
	kind      species
	fx, fy    float64
	scale     float64 // multiplied by the device pixel ratio
	shadowDir float64
}

var standoff = [2]silhouette{
	{kind: speciesTiger, fx: 0.42, fy: 0.68, scale: 1, shadowDir: tigerShadowDir},
	{kind: speciesDog, fx: 0.58, fy: 0.70, scale: dogScaleFactor, shadowDir: dogShadowDir},
}

// frameGeometry is everything about a frame's layout that depends only on the
// surface size and the scene time t (milliseconds).
type frameGeometry struct {
	w, h     float64
	dpr      float64
	horizonY float64
	vpX      float64
	breathe  float64
}

func computeGeometry(w, h int, dpr, t float64) frameGeometry {
	fw, fh := float64(w), float64(h)
	return frameGeometry{
		w:        fw,
		h:        fh,
		dpr:      dpr,
		horizonY: math.Floor(fh * horizonFrac),
		vpX:      math.Floor(fw*0.5 + math.Sin(t*swayRate)*fw*swayAmplitude),
		breathe:  math.Sin(t*breatheRate) * breatheAmplitude,
	}
}

// road returns the trapezoid converging towards the horizon.
func (g frameGeometry) road() []point {
	return []point{
		{0, g.h},
		{g.w, g.h},
		{math.Floor(g.w * roadFarRightFrac), g.horizonY},
		{math.Floor(g.w * roadFarLeftFrac), g.horizonY},
	}
}

func (g frameGeometry) poolCenter(p lightPool) point {
	return point{g.w * p.fx, g.h * p.fy}
}

func (g frameGeometry) poolRadius(p lightPool) float64 {
	return g.w * p.radiusFactor
}

// anchor is the silhouette origin with the anti-phase breathing applied.
func (g frameGeometry) anchor(s silhouette) point {
	y := g.h * s.fy
	if s.kind == speciesTiger {
		y += g.breathe
	} else {
		y -= g.breathe
	}
	return point{g.w * s.fx, y}
}

// shadow is the skewed quad cast from the silhouette's unbreathing anchor.
func (g frameGeometry) shadow(s silhouette) []point {
	x, y := g.w*s.fx, g.h*s.fy
	l := g.h * shadowLenFrac
	d := s.shadowDir * l
	return []point{
		{x - shadowHalfWidth, y},
		{x + shadowHalfWidth, y},
		{x + shadowHalfWidth + d, y + l},
		{x - shadowHalfWidth + d, y + l},
	}
}

// laneDash is the on/off pattern of the dashed centre line, which runs from
// the vanishing point down to the bottom edge.
func (g frameGeometry) laneDash() (on, off float64) {
	return g.w * laneDashFrac, g.w * laneGapFrac
}

func (g frameGeometry) laneWidth() float64 {
	return math.Max(1, g.w*laneWidthFrac)
}
