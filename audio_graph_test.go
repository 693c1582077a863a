package main

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// constSource streams a fixed value forever.
type constSource float64

func (c constSource) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		samples[i] = [2]float64{float64(c), float64(c)}
	}
	return len(samples), true
}

func (constSource) Err() error { return nil }

// sineSource is a unit sine at freq.
type sineSource struct {
	freq, rate float64
	pos        int
}

func (s *sineSource) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		v := math.Sin(2 * math.Pi * s.freq * float64(s.pos) / s.rate)
		samples[i] = [2]float64{v, v}
		s.pos++
	}
	return len(samples), true
}

func (*sineSource) Err() error { return nil }

func peakAfterSettling(t *testing.T, n *filterNode, rate int) float64 {
	t.Helper()
	buf := make([][2]float64, rate)
	got, ok := n.Stream(buf)
	require.True(t, ok)
	require.Equal(t, rate, got)
	peak := 0.0
	for _, s := range buf[rate/2:] {
		peak = math.Max(peak, math.Abs(s[0]))
	}
	return peak
}

func TestLowpassPassesDC(t *testing.T) {
	n := newFilterNode(constSource(1), filterLowpass, 48000, ambientCutoff, ambientResonanceDB, nil)
	buf := make([][2]float64, 4800)
	n.Stream(buf)
	assert.InDelta(t, 1, buf[len(buf)-1][0], 1e-6)
	assert.Equal(t, buf[len(buf)-1][0], buf[len(buf)-1][1])
}

func TestBandpassPeaksAtCentre(t *testing.T) {
	const rate = 48000
	centre := newFilterNode(&sineSource{freq: dogBandHz, rate: rate}, filterBandpass, rate, dogBandHz, dogBandQ, nil)
	far := newFilterNode(&sineSource{freq: dogBandHz * 10, rate: rate}, filterBandpass, rate, dogBandHz, dogBandQ, nil)

	assert.InDelta(t, 1, peakAfterSettling(t, centre, rate), 0.02)
	assert.Less(t, peakAfterSettling(t, far, rate), 0.3)
}

func TestModulatedBandpassStaysFinite(t *testing.T) {
	const rate = 8000
	lfo := &sineLFO{freq: tigerLFOHz, depth: tigerLFODepth, rate: rate}
	src := newLoopSource(brownNoise(rate, brownLeak, brownMakeup, rand.New(rand.NewSource(3))))
	n := newFilterNode(src, filterBandpass, rate, tigerBandHz, tigerBandQ, lfo)

	buf := make([][2]float64, 3*rate)
	n.Stream(buf)
	for i, s := range buf {
		require.False(t, math.IsNaN(s[0]) || math.IsInf(s[0], 0), "sample %d", i)
	}
	assert.Equal(t, int64(3*rate), lfo.pos)
}

func TestSineLFOSwingsByDepth(t *testing.T) {
	lfo := &sineLFO{freq: 1, depth: 60, rate: 4}
	got := []float64{lfo.next(), lfo.next(), lfo.next(), lfo.next()}
	assert.InDelta(t, 0, got[0], 1e-9)
	assert.InDelta(t, 60, got[1], 1e-9)
	assert.InDelta(t, 0, got[2], 1e-9)
	assert.InDelta(t, -60, got[3], 1e-9)
}

func TestLoopSourceWraps(t *testing.T) {
	s := newLoopSource([]float64{1, 2, 3})
	buf := make([][2]float64, 7)
	s.Stream(buf)
	var left []float64
	for _, f := range buf {
		left = append(left, f[0])
	}
	assert.Equal(t, []float64{1, 2, 3, 1, 2, 3, 1}, left)

	empty := newLoopSource(nil)
	n, ok := empty.Stream(buf)
	assert.True(t, ok)
	assert.Equal(t, 7, n)
	assert.Equal(t, [2]float64{}, buf[0])
}

func TestGainNodeFollowsAutomation(t *testing.T) {
	g := newGainNode(constSource(1), 0, 10)
	g.param.cancelAndHold(0)
	g.param.rampTo(1, 1)

	buf := make([][2]float64, 11)
	g.Stream(buf)
	for i, s := range buf {
		assert.InDelta(t, math.Min(float64(i)/10, 1), s[0], 1e-9, "sample %d", i)
	}
	assert.InDelta(t, 1.1, g.now(), 1e-9)
}

func TestSceneGraphStartsSuspended(t *testing.T) {
	beds := generateBeds(8000, rand.New(rand.NewSource(1)), nil)
	g := newSceneGraph(8000, masterLevel, beds)

	buf := make([][2]float64, 800)
	g.out.Stream(buf)
	for _, s := range buf {
		require.Equal(t, [2]float64{}, s)
	}
	assert.Equal(t, 0.0, g.master.now())

	g.out.Paused = false
	g.out.Stream(buf)
	assert.InDelta(t, 0.1, g.master.now(), 1e-9)
	assert.Equal(t, g.master.pos, g.tiger.pos)
	assert.Equal(t, g.master.pos, g.dog.pos)

	energy := 0.0
	for _, s := range buf {
		energy += s[0] * s[0]
	}
	assert.Greater(t, energy, 0.0)
}

func TestGenerateBedsUsesCustomHum(t *testing.T) {
	hum := []float64{0.1, 0.2}
	beds := generateBeds(8000, rand.New(rand.NewSource(1)), hum)
	assert.Equal(t, hum, beds.hum)
	assert.Len(t, beds.hiss, noiseBufferSeconds*8000)
	assert.Len(t, beds.growl, noiseBufferSeconds*8000)
	assert.Len(t, beds.bark, noiseBufferSeconds*8000)
}
