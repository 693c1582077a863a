package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGame(t *testing.T) (*Game, *engineHarness) {
	t.Helper()
	h := newEngineHarness(t, nil)
	g := newGame(newTestRenderer(t, 64, 48, testSettings()), h.engine, false)
	return g, h
}

func TestGamePromptsBeforeAudio(t *testing.T) {
	g, h := newTestGame(t)
	assert.True(t, g.promptActive)
	assert.False(t, h.engine.Started())

	g.enableAudio()
	assert.False(t, g.promptActive)
	assert.True(t, h.engine.Started())
	assert.Equal(t, 1, h.device.resumed)
}

func TestGameWithoutAudioHasNoPrompt(t *testing.T) {
	g := newGame(newTestRenderer(t, 32, 32, testSettings()), nil, false)
	assert.False(t, g.promptActive)
	require.NoError(t, g.advance(time.Now()))
	g.enableAudio()
	g.teardown()
	assert.False(t, g.drawing)
}

func TestGameCutoffFreezesAndStopsAudio(t *testing.T) {
	g, h := newTestGame(t)
	g.enableAudio()
	start := time.Now()

	require.NoError(t, g.advance(start))
	require.NoError(t, g.advance(start.Add(5*time.Second)))
	assert.False(t, g.frozen)

	require.NoError(t, g.advance(start.Add(10*time.Second)))
	assert.True(t, g.frozen)
	requireBlack(t, g.renderer.canvas)
	frames := g.renderer.frames

	require.NoError(t, g.advance(start.Add(11*time.Second)))
	assert.Equal(t, frames, g.renderer.frames)

	h.run(500 * time.Millisecond)
	assert.InDelta(t, 0, h.engine.MasterGain(), 1e-9)
	assert.True(t, h.engine.Released())
	assert.Equal(t, 1, h.device.closed)
}

func TestGameStopsAudioAtCutoffWithoutFrames(t *testing.T) {
	g, h := newTestGame(t)
	start := time.Date(2024, 5, 1, 22, 0, 0, 0, time.UTC)
	require.NoError(t, g.advance(start))

	// the gesture lands 2s in; no frame is drawn afterwards
	g.now = func() time.Time { return start.Add(2 * time.Second) }
	g.enableAudio()
	require.True(t, h.engine.Started())

	h.run(7900 * time.Millisecond)
	assert.Greater(t, h.engine.MasterGain(), 0.0)
	assert.False(t, h.engine.Released())

	h.run(200 * time.Millisecond)
	h.run(time.Second)
	assert.True(t, h.engine.Released())
	assert.InDelta(t, 0, h.engine.MasterGain(), 1e-9)
	assert.Equal(t, 1, h.device.closed)
	assert.False(t, g.frozen)
}

func TestGameIgnoresGestureAfterCutoff(t *testing.T) {
	g, h := newTestGame(t)
	start := time.Now()
	require.NoError(t, g.advance(start))
	require.NoError(t, g.advance(start.Add(10*time.Second)))

	g.enableAudio()
	assert.False(t, h.engine.Started())
}

func TestTeardownRunsOnce(t *testing.T) {
	g, h := newTestGame(t)
	g.enableAudio()
	require.NoError(t, g.advance(time.Now()))

	g.teardown()
	g.teardown()
	assert.Equal(t, 1, g.teardownRuns)
	assert.False(t, g.drawing)
	assert.False(t, g.tracking)
	assert.Equal(t, 1, h.device.closed)
	assert.Zero(t, h.sched.Pending())

	frames := g.renderer.frames
	require.NoError(t, g.advance(time.Now()))
	assert.Equal(t, frames, g.renderer.frames)
}

func TestTeardownStepRecoversFromPanics(t *testing.T) {
	ran := false
	assert.NotPanics(t, func() {
		teardownStep("explode", func() error { panic("boom") })
		teardownStep("after", func() error {
			ran = true
			return nil
		})
	})
	assert.True(t, ran)
}
