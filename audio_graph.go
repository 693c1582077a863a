package main

import (
	"math"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// ambientResonanceDB is the lowpass resonance of the hum bed, in dB.
const ambientResonanceDB = 1.0

// loopSource plays a mono buffer on repeat to both channels.
type loopSource struct {
	buf []float64
	pos int
}

func newLoopSource(buf []float64) *loopSource {
	return &loopSource{buf: buf}
}

func (s *loopSource) Stream(samples [][2]float64) (n int, ok bool) {
	if len(s.buf) == 0 {
		for i := range samples {
			samples[i] = [2]float64{}
		}
		return len(samples), true
	}
	for i := range samples {
		v := s.buf[s.pos]
		samples[i][0], samples[i][1] = v, v
		s.pos++
		if s.pos >= len(s.buf) {
			s.pos = 0
		}
	}
	return len(samples), true
}

func (s *loopSource) Err() error { return nil }

// biquad is a direct form I second-order section with RBJ coefficients.
type biquad struct {
	b0, b1, b2 float64
	a1, a2     float64
	x1, x2     float64
	y1, y2     float64
}

func (f *biquad) normalize(b0, b1, b2, a0, a1, a2 float64) {
	f.b0, f.b1, f.b2 = b0/a0, b1/a0, b2/a0
	f.a1, f.a2 = a1/a0, a2/a0
}

// setLowpass configures a resonant lowpass; resonance is in dB.
func (f *biquad) setLowpass(rate, freq, resonanceDB float64) {
	w0 := 2 * math.Pi * clampFreq(freq, rate) / rate
	cw := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * math.Pow(10, resonanceDB/20))
	f.normalize((1-cw)/2, 1-cw, (1-cw)/2, 1+alpha, -2*cw, 1-alpha)
}

// setBandpass configures a constant 0 dB peak gain bandpass.
func (f *biquad) setBandpass(rate, freq, q float64) {
	w0 := 2 * math.Pi * clampFreq(freq, rate) / rate
	cw := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * q)
	f.normalize(alpha, 0, -alpha, 1+alpha, -2*cw, 1-alpha)
}

func (f *biquad) process(x float64) float64 {
	y := f.b0*x + f.b1*f.x1 + f.b2*f.x2 - f.a1*f.y1 - f.a2*f.y2
	f.x2, f.x1 = f.x1, x
	f.y2, f.y1 = f.y1, y
	return y
}

func clampFreq(freq, rate float64) float64 {
	nyquist := rate / 2
	switch {
	case freq < 1:
		return 1
	case freq > nyquist*0.99:
		return nyquist * 0.99
	}
	return freq
}

// sineLFO is a sine oscillator scaled by depth, sampled per output frame.
type sineLFO struct {
	freq  float64
	depth float64
	rate  float64
	pos   int64
}

func (o *sineLFO) next() float64 {
	v := o.depth * math.Sin(2*math.Pi*o.freq*float64(o.pos)/o.rate)
	o.pos++
	return v
}

type filterKind int

const (
	filterLowpass filterKind = iota
	filterBandpass
)

// filterNode runs a mono source through a biquad. When lfo is set the centre
// frequency is modulated and the coefficients are recomputed every sample.
type filterNode struct {
	src    beep.Streamer
	kind   filterKind
	rate   float64
	center float64
	q      float64
	lfo    *sineLFO
	f      biquad
}

func newFilterNode(src beep.Streamer, kind filterKind, rate, center, q float64, lfo *sineLFO) *filterNode {
	n := &filterNode{src: src, kind: kind, rate: rate, center: center, q: q, lfo: lfo}
	n.configure(center)
	return n
}

func (n *filterNode) configure(freq float64) {
	if n.kind == filterLowpass {
		n.f.setLowpass(n.rate, freq, n.q)
		return
	}
	n.f.setBandpass(n.rate, freq, n.q)
}

func (n *filterNode) Stream(samples [][2]float64) (int, bool) {
	got, ok := n.src.Stream(samples)
	for i := 0; i < got; i++ {
		if n.lfo != nil {
			n.configure(n.center + n.lfo.next())
		}
		y := n.f.process(samples[i][0])
		samples[i][0], samples[i][1] = y, y
	}
	return got, ok
}

func (n *filterNode) Err() error { return n.src.Err() }

// gainNode scales its input by an automated parameter. It keeps its own sample
// position; every gainNode in the graph is pulled in lockstep, so all of them
// agree on the audio clock.
type gainNode struct {
	src   beep.Streamer
	param *automatedParam
	rate  float64
	pos   int64
}

func newGainNode(src beep.Streamer, initial, rate float64) *gainNode {
	return &gainNode{src: src, param: newAutomatedParam(initial), rate: rate}
}

// now is the node's clock in seconds.
func (g *gainNode) now() float64 {
	return float64(g.pos) / g.rate
}

func (g *gainNode) Stream(samples [][2]float64) (int, bool) {
	got, ok := g.src.Stream(samples)
	for i := 0; i < got; i++ {
		v := g.param.valueAt(g.now())
		samples[i][0] *= v
		samples[i][1] *= v
		g.pos++
	}
	return got, ok
}

func (g *gainNode) Err() error { return g.src.Err() }

// bedBuffers are the four looping noise sources. A nil hum uses a generated
// brown noise buffer.
type bedBuffers struct {
	hum, hiss, growl, bark []float64
}

func generateBeds(rate int, rnd float64Source, hum []float64) bedBuffers {
	n := noiseBufferSeconds * rate
	if hum == nil {
		hum = brownNoise(n, brownLeak, brownMakeup, rnd)
	}
	return bedBuffers{
		hum:   hum,
		hiss:  whiteNoise(n, rnd),
		growl: brownNoise(n, brownLeak, brownMakeup, rnd),
		bark:  whiteNoise(n, rnd),
	}
}

// sceneGraph is the fixed synthesis topology:
//
//	hum  -> lowpass 800 Hz -> x0.18 --\
//	hiss -> x0.02 ---------------------+-> mixer -> master -> out
//	growl -> bandpass(120 Hz + LFO) -> tiger --/
//	bark  -> bandpass 900 Hz -> dog ----------/
type sceneGraph struct {
	out    *beep.Ctrl
	master *gainNode
	tiger  *gainNode
	dog    *gainNode
}

func newSceneGraph(rate int, masterLevel float64, beds bedBuffers) *sceneGraph {
	sr := float64(rate)

	ambient := &effects.Gain{
		Streamer: newFilterNode(newLoopSource(beds.hum), filterLowpass, sr, ambientCutoff, ambientResonanceDB, nil),
		Gain:     ambientLevel - 1,
	}
	hiss := &effects.Volume{
		Streamer: newLoopSource(beds.hiss),
		Base:     2,
		Volume:   math.Log2(hissLevel),
	}
	lfo := &sineLFO{freq: tigerLFOHz, depth: tigerLFODepth, rate: sr}
	tiger := newGainNode(newFilterNode(newLoopSource(beds.growl), filterBandpass, sr, tigerBandHz, tigerBandQ, lfo), 0, sr)
	dog := newGainNode(newFilterNode(newLoopSource(beds.bark), filterBandpass, sr, dogBandHz, dogBandQ, nil), 0, sr)

	mixer := &beep.Mixer{}
	mixer.Add(ambient, hiss, tiger, dog)
	master := newGainNode(mixer, masterLevel, sr)

	return &sceneGraph{
		out:    &beep.Ctrl{Streamer: master, Paused: true},
		master: master,
		tiger:  tiger,
		dog:    dog,
	}
}

func (g *sceneGraph) voice(s species) *gainNode {
	if s == speciesDog {
		return g.dog
	}
	return g.tiger
}
