package main

import (
	"math"
	"math/rand"
	"runtime"
	"time"
)

var (
	backgroundFill = opaque(0x0b, 0x0e, 0x0b)
	roadFill       = opaque(0x1a, 0x1a, 0x1a)
	laneFill       = opaque(0x4c, 0x4c, 0x4c)
	scanlineFill   = rgba{0, 0, 0, scanlineAlpha}
	glitchFill     = rgba{80, 100, 80, 0.25}
	blackFill      = opaque(0, 0, 0)

	poolStops = []gradientStop{
		{0, rgba{200, 200, 180, 0.45}},
		{0.6, rgba{150, 150, 130, 0.18}},
		{1, rgba{0, 0, 0, 0}},
	}
	vignetteStops = []gradientStop{
		{0, rgba{60, 70, 60, 0}},
		{1, rgba{0, 0, 0, vignetteAlpha}},
	}
)

// sceneClock marks the start of the one-shot sequence on the first tick.
type sceneClock struct {
	start   time.Time
	started bool
}

// elapsed returns the time since the first observed tick, starting the clock
// if needed.
func (c *sceneClock) elapsed(now time.Time) time.Duration {
	if !c.started {
		c.start, c.started = now, true
	}
	return now.Sub(c.start)
}

// frameState is what survives between ticks.
type frameState struct {
	seed float64
	last time.Time
	ran  bool
}

// advance accumulates the grain seed by the time since the previous tick.
// Backwards clock steps contribute nothing.
func (s *frameState) advance(now time.Time) {
	if s.ran {
		dt := float64(now.Sub(s.last)) / float64(time.Millisecond)
		if dt > 0 {
			s.seed += dt * grainSeedRate
		}
	}
	s.last, s.ran = now, true
}

// frameRenderer composites the CCTV scene into a software canvas.
type frameRenderer struct {
	canvas   *canvas
	dpr      float64
	settings sceneSettings
	rnd      *rand.Rand
	grain    grainPass
	clock    sceneClock
	state    frameState
	origin   time.Time
	frames   int
	glitches int
}

// newFrameRenderer acquires a w x h surface. It fails only when the surface
// cannot exist.
func newFrameRenderer(w, h int, dpr float64, settings sceneSettings, rnd *rand.Rand, grain grainPass) (*frameRenderer, error) {
	c, err := newCanvas(w, h)
	if err != nil {
		return nil, err
	}
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if grain == nil {
		grain = &cpuGrain{workers: 1}
	}
	return &frameRenderer{
		canvas:   c,
		dpr:      clampDPR(dpr),
		settings: settings,
		rnd:      rnd,
		grain:    grain,
		state:    frameState{seed: rnd.Float64() * grainSeedRange},
	}, nil
}

func clampDPR(dpr float64) float64 {
	if dpr <= 0 || math.IsNaN(dpr) {
		return 1
	}
	return math.Min(dpr, maxDevicePixelRatio)
}

// resize follows the displayed surface size.
func (r *frameRenderer) resize(w, h int) bool {
	return r.canvas.resize(w, h)
}

// finished reports whether the cutoff has passed at now.
func (r *frameRenderer) finished(now time.Time) bool {
	return r.clock.started && now.Sub(r.clock.start) >= r.settings.Cutoff
}

// remaining is the time left before the cutoff at now. Before the first tick
// the whole cutoff remains.
func (r *frameRenderer) remaining(now time.Time) time.Duration {
	if !r.clock.started {
		return r.settings.Cutoff
	}
	return r.settings.Cutoff - now.Sub(r.clock.start)
}

// Tick draws one complete frame for wall-clock time now.
func (r *frameRenderer) Tick(now time.Time) error {
	if r.origin.IsZero() {
		r.origin = now
	}
	elapsed := r.clock.elapsed(now)
	r.state.advance(now)
	r.frames++

	if elapsed >= r.settings.Cutoff {
		r.canvas.fill(blackFill)
		return nil
	}
	t := float64(now.Sub(r.origin)) / float64(time.Millisecond)
	return r.compose(t, now)
}

// compose runs every layer back to front at scene time t (ms).
func (r *frameRenderer) compose(t float64, now time.Time) error {
	c := r.canvas
	g := computeGeometry(c.w, c.h, r.dpr, t)

	c.fill(backgroundFill)
	c.fillPolygon(g.road(), roadFill)

	on, off := g.laneDash()
	c.strokeDashedLine(point{g.vpX, g.horizonY}, point{g.vpX, g.h}, g.laneWidth(), on, off, laneFill)

	for _, p := range lightPools {
		ctr, rad := g.poolCenter(p), g.poolRadius(p)
		c.fillRadial(ctr.x-rad, ctr.y-rad, ctr.x+rad, ctr.y+rad, ctr, 0, rad, poolStops)
	}

	for _, s := range standoff {
		drawShadow(c, g, s)
	}
	for _, s := range standoff {
		drawSilhouette(c, g, s)
	}

	c.fillRadial(0, 0, g.w, g.h, point{g.w * 0.5, g.h * 0.6},
		math.Min(g.w, g.h)*vignetteInnerFrac, math.Max(g.w, g.h)*vignetteOuterFrac, vignetteStops)

	band := scanlineHeight * g.dpr
	for y := 0.0; y < g.h; y += band * 2 {
		c.fillRect(0, y, g.w, y+band, scanlineFill)
	}

	gp := grainParams{seed: r.state.seed, scale: grainScale, intensity: r.settings.GrainIntensity}
	if err := r.grain.Apply(c, gp); err != nil {
		renderLog.Warningf("%s grain pass failed, falling back to cpu: %v", r.grain.Name(), err)
		r.grain.Close()
		r.grain = &cpuGrain{workers: runtime.NumCPU()}
		if err := r.grain.Apply(c, gp); err != nil {
			return err
		}
	}

	if r.rnd.Float64() < r.settings.GlitchProbability {
		gy := math.Floor(r.rnd.Float64() * g.h)
		gh := math.Floor(g.h * (0.01 + r.rnd.Float64()*0.03))
		c.lightenRect(0, gy, g.w, gy+gh, glitchFill)
		r.glitches++
	}

	drawHUD(c, g, t, now)
	return nil
}
