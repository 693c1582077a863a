package main

import (
	"fmt"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// Game hosts the renderer and the audio engine in an ebiten window.
type Game struct {
	renderer *frameRenderer
	engine   *AudioEngine // nil when audio could not be set up
	now      func() time.Time
	debug    bool

	drawing      bool // false once the frame loop is cancelled
	tracking     bool // resize tracking attached
	frozen       bool
	promptActive bool
	quitting     bool

	teardownOnce sync.Once
	teardownRuns int

	lastTick time.Duration
}

// newGame wires a constructed renderer and an idle engine. Audio stays silent
// until the user dismisses the prompt.
func newGame(r *frameRenderer, engine *AudioEngine, debug bool) *Game {
	return &Game{
		renderer:     r,
		engine:       engine,
		now:          time.Now,
		debug:        debug,
		drawing:      true,
		tracking:     true,
		promptActive: engine != nil,
	}
}

// Update handles input and advances the frame loop.
func (g *Game) Update() error {
	if quitRequested() {
		g.quitting = true
	}
	if g.quitting {
		g.teardown()
		return ebiten.Termination
	}
	if g.promptActive && enableAudioGesture() {
		g.enableAudio()
	}
	if debugToggled() {
		g.debug = !g.debug
	}
	return g.advance(g.now())
}

// enableAudio starts the engine in response to a user gesture.
func (g *Game) enableAudio() {
	g.promptActive = false
	if g.engine == nil || g.frozen || g.engine.Started() {
		return
	}
	if err := g.engine.Start(); err != nil {
		logger.Errorf("enable audio: %v", err)
	}
	g.engine.StopAfter(g.renderer.remaining(g.now()))
}

// advance renders one frame and applies the cutoff: at the first black frame
// audio is stopped and no further frames are produced.
func (g *Game) advance(now time.Time) error {
	if !g.drawing || g.frozen {
		return nil
	}
	start := time.Now()
	if err := g.renderer.Tick(now); err != nil {
		return fmt.Errorf("rendering frame: %w", err)
	}
	g.lastTick = time.Since(start)
	if g.renderer.finished(now) {
		g.frozen = true
		g.promptActive = false
		if g.engine != nil {
			g.engine.Stop()
		}
		logger.Infof("sequence ended after %d frames", g.renderer.frames)
	}
	return nil
}

// teardown runs once. Every step runs even if an earlier one fails.
func (g *Game) teardown() {
	g.teardownOnce.Do(func() {
		g.teardownRuns++
		teardownStep("cancel frame loop", func() error {
			g.drawing = false
			return nil
		})
		teardownStep("detach resize tracking", func() error {
			g.tracking = false
			return nil
		})
		teardownStep("clear audio timers", func() error {
			if g.engine != nil {
				g.engine.ClearTimers()
			}
			return nil
		})
		teardownStep("release audio device", func() error {
			if g.engine != nil {
				g.engine.Dispose()
			}
			return nil
		})
		teardownStep("release grain pass", func() error {
			g.renderer.grain.Close()
			return nil
		})
	})
}

func teardownStep(name string, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warningf("teardown: %s panicked: %v", name, r)
		}
	}()
	if err := fn(); err != nil {
		logger.Warningf("teardown: %s: %v", name, err)
	}
}
