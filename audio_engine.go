package main

import (
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// audioOptions configures newAudioEngine. Zero fields take defaults: wall-clock
// timers, a time-seeded source and a device that discards output.
type audioOptions struct {
	Settings  sceneSettings
	Rand      float64Source
	Scheduler scheduler
	Device    deviceFactory
	// Hum replaces the generated brown noise of the ambient bed.
	Hum []float64
}

// voiceStats counts interval rolls and actual vocalisations for one species.
type voiceStats struct {
	Rolls    int
	Triggers int
}

// AudioEngine owns the synthesis graph and its output device. The graph is
// built suspended; nothing is audible before Start.
//
// The device pulls samples on its own goroutine through Stream while timer
// callbacks run on theirs. Both hold mu while touching the graph.
type AudioEngine struct {
	mu       sync.Mutex
	settings sceneSettings
	rnd      float64Source
	sched    scheduler
	graph    *sceneGraph
	device   audioDevice

	started  bool
	stopped  bool
	released bool
	timers   []func()
	stats    map[species]*voiceStats
}

// newAudioEngine builds the full graph and opens the device without starting
// playback.
func newAudioEngine(opts audioOptions) (*AudioEngine, error) {
	if opts.Settings.SampleRate == 0 {
		opts.Settings = defaultSettings()
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Scheduler == nil {
		opts.Scheduler = wallScheduler{}
	}
	if opts.Device == nil {
		opts.Device = nullDeviceFactory
	}

	rate := opts.Settings.SampleRate
	beds := generateBeds(rate, opts.Rand, opts.Hum)
	e := &AudioEngine{
		settings: opts.Settings,
		rnd:      opts.Rand,
		sched:    opts.Scheduler,
		graph:    newSceneGraph(rate, opts.Settings.MasterLevel, beds),
		stats: map[species]*voiceStats{
			speciesTiger: {},
			speciesDog:   {},
		},
	}
	dev, err := opts.Device(newPCMStream(e))
	if err != nil {
		return nil, fmt.Errorf("opening audio device: %w", err)
	}
	e.device = dev
	audioLogger.Debugf("graph ready at %d Hz, %d sample noise beds", rate, len(beds.hiss))
	return e, nil
}

// Stream renders the next block of the mix. After release it yields silence.
func (e *AudioEngine) Stream(samples [][2]float64) (int, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.released {
		for i := range samples {
			samples[i] = [2]float64{}
		}
		return len(samples), true
	}
	return e.graph.out.Stream(samples)
}

func (e *AudioEngine) Err() error { return nil }

// Start resumes the device, runs the beds and the LFO, fires one tiger growl
// immediately and arms both interval timers. Only the first call has effect.
func (e *AudioEngine) Start() error {
	e.mu.Lock()
	if e.started || e.stopped || e.released {
		e.mu.Unlock()
		return nil
	}
	e.started = true
	e.graph.out.Paused = false
	e.triggerLocked(speciesTiger)
	tiger, dog := e.settings.Tiger, e.settings.Dog
	e.timers = append(e.timers,
		e.sched.Every(tiger.Interval, func() { e.roll(speciesTiger, tiger.Chance) }),
		e.sched.Every(dog.Interval, func() { e.roll(speciesDog, dog.Chance) }),
	)
	dev := e.device
	e.mu.Unlock()

	audioLogger.Info("audio started")
	if err := dev.Resume(); err != nil {
		return fmt.Errorf("resuming audio device: %w", err)
	}
	return nil
}

// roll is the body of an interval timer.
func (e *AudioEngine) roll(s species, chance float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped || e.released {
		return
	}
	e.stats[s].Rolls++
	if e.rnd.Float64() < chance {
		e.triggerLocked(s)
	}
}

func (e *AudioEngine) triggerLocked(s species) {
	v := e.graph.voice(s)
	shape := tigerGrowl
	if s == speciesDog {
		shape = dogBark
	}
	now := v.now()
	v.param.trigger(now, shape)
	e.stats[s].Triggers++
	audioLogger.Debugf("%s vocalisation at %.3fs", s, now)
}

// Stop cancels the timers, fades the master from its current value to zero
// and releases the device once the tail has played. Later calls do nothing.
func (e *AudioEngine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped || e.released {
		return
	}
	e.stopped = true
	e.clearTimersLocked()

	m := e.graph.master
	now := m.now()
	from := m.param.cancelAndHold(now)
	m.param.rampTo(0, now+masterFade.Seconds())
	e.timers = append(e.timers, e.sched.After(releaseTail, func() {
		if err := e.release(); err != nil {
			audioLogger.Warningf("closing audio device: %v", err)
		}
	}))
	audioLogger.Infof("audio stopping, master %.2f -> 0 at %.3fs", from, now)
}

// StopAfter arms a one-shot Stop d from now. The host uses it so the cutoff
// fade happens even when no frame is drawn at the cutoff.
func (e *AudioEngine) StopAfter(d time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped || e.released {
		return
	}
	if d < 0 {
		d = 0
	}
	e.timers = append(e.timers, e.sched.After(d, e.Stop))
	audioLogger.Debugf("audio stop armed in %s", d)
}

// Dispose releases the device immediately, ignoring failures. It also cancels
// any timers still armed.
func (e *AudioEngine) Dispose() {
	defer func() {
		if r := recover(); r != nil {
			audioLogger.Debugf("audio dispose: %v", r)
		}
	}()
	if err := e.release(); err != nil {
		audioLogger.Debugf("audio dispose: %v", err)
	}
}

// ClearTimers cancels the interval timers without touching the graph.
func (e *AudioEngine) ClearTimers() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.clearTimersLocked()
}

func (e *AudioEngine) clearTimersLocked() {
	for _, cancel := range e.timers {
		cancel()
	}
	e.timers = nil
}

func (e *AudioEngine) release() error {
	e.mu.Lock()
	if e.released {
		e.mu.Unlock()
		return nil
	}
	e.released = true
	e.clearTimersLocked()
	dev := e.device
	e.mu.Unlock()

	// Closing a player waits on its reader, which takes mu.
	audioLogger.Debug("releasing audio device")
	return dev.Close()
}

// Now is the audio clock in seconds: samples pulled through the master.
func (e *AudioEngine) Now() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.graph.master.now()
}

// MasterGain is the master level at the current audio time.
func (e *AudioEngine) MasterGain() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.graph.master.param.valueAt(e.graph.master.now())
}

// VoiceGain is the envelope level of s at the current audio time.
func (e *AudioEngine) VoiceGain(s species) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	v := e.graph.voice(s)
	return v.param.valueAt(v.now())
}

// Stats returns a copy of the per-species counters.
func (e *AudioEngine) Stats() map[species]voiceStats {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(map[species]voiceStats, len(e.stats))
	for s, st := range e.stats {
		out[s] = *st
	}
	return out
}

func (e *AudioEngine) Started() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.started
}

func (e *AudioEngine) Released() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.released
}
