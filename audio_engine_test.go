package main

import (
	"errors"
	"io"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDevice struct {
	resumed  int
	closed   int
	closeErr error
	reader   io.Reader
}

func (d *fakeDevice) Resume() error { d.resumed++; return nil }
func (d *fakeDevice) Close() error  { d.closed++; return d.closeErr }

func (d *fakeDevice) factory(r io.Reader) (audioDevice, error) {
	d.reader = r
	return d, nil
}

type engineHarness struct {
	engine *AudioEngine
	sched  *manualScheduler
	device *fakeDevice
	rate   int
}

func newEngineHarness(t *testing.T, mutate func(*sceneSettings)) *engineHarness {
	t.Helper()
	settings := testSettings()
	if mutate != nil {
		mutate(&settings)
	}
	h := &engineHarness{sched: newManualScheduler(), device: &fakeDevice{}, rate: settings.SampleRate}
	e, err := newAudioEngine(audioOptions{
		Settings:  settings,
		Rand:      rand.New(rand.NewSource(99)),
		Scheduler: h.sched,
		Device:    h.device.factory,
	})
	require.NoError(t, err)
	h.engine = e
	return h
}

// run pulls d of audio through the engine, then lets timers due in d fire.
func (h *engineHarness) run(d time.Duration) [][2]float64 {
	buf := make([][2]float64, int(d.Seconds()*float64(h.rate)+0.5))
	h.engine.Stream(buf)
	h.sched.Advance(d)
	return buf
}

func TestNewAudioEngineBuildsSuspended(t *testing.T) {
	h := newEngineHarness(t, nil)
	assert.False(t, h.engine.Started())
	assert.Equal(t, 0, h.device.resumed)
	assert.NotNil(t, h.device.reader)

	buf := h.run(200 * time.Millisecond)
	for _, s := range buf {
		require.Equal(t, [2]float64{}, s)
	}
	assert.Equal(t, 0.0, h.engine.Now())
	assert.Equal(t, 0, h.sched.Pending())
}

func TestNewAudioEngineDeviceFailure(t *testing.T) {
	boom := errors.New("no output")
	_, err := newAudioEngine(audioOptions{
		Settings: testSettings(),
		Device:   func(io.Reader) (audioDevice, error) { return nil, boom },
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))
}

func TestStartIsIdempotent(t *testing.T) {
	h := newEngineHarness(t, nil)
	require.NoError(t, h.engine.Start())
	require.NoError(t, h.engine.Start())

	assert.Equal(t, 1, h.device.resumed)
	assert.Equal(t, 2, h.sched.Pending())
	assert.Equal(t, 1, h.engine.Stats()[speciesTiger].Triggers)
	assert.Equal(t, 0, h.engine.Stats()[speciesDog].Triggers)
}

func TestStartFiresImmediateGrowl(t *testing.T) {
	h := newEngineHarness(t, nil)
	require.NoError(t, h.engine.Start())

	h.run(300 * time.Millisecond)
	assert.InDelta(t, 0.5, h.engine.VoiceGain(speciesTiger), 1e-6)
	assert.InDelta(t, masterLevel, h.engine.MasterGain(), 1e-9)
}

func TestIntervalTimersRollAtTheirPeriods(t *testing.T) {
	h := newEngineHarness(t, func(s *sceneSettings) {
		s.Tiger.Chance = 1
		s.Dog.Chance = 0
	})
	require.NoError(t, h.engine.Start())

	for i := 0; i < 30; i++ {
		h.run(100 * time.Millisecond)
	}
	stats := h.engine.Stats()
	assert.Equal(t, 2, stats[speciesTiger].Rolls)
	assert.Equal(t, 3, stats[speciesTiger].Triggers)
	assert.Equal(t, 3, stats[speciesDog].Rolls)
	assert.Equal(t, 0, stats[speciesDog].Triggers)
}

func TestStopFadesMasterAndReleasesAfterTail(t *testing.T) {
	h := newEngineHarness(t, nil)
	require.NoError(t, h.engine.Start())
	h.run(time.Second)

	h.engine.Stop()
	assert.InDelta(t, masterLevel, h.engine.MasterGain(), 1e-9)

	h.run(150 * time.Millisecond)
	assert.InDelta(t, masterLevel/2, h.engine.MasterGain(), 1e-3)

	h.run(150 * time.Millisecond)
	assert.InDelta(t, 0, h.engine.MasterGain(), 1e-9)

	tail := h.run(50 * time.Millisecond)
	for _, s := range tail {
		require.InDelta(t, 0, s[0], 1e-12)
	}
	assert.Equal(t, 0, h.device.closed)

	h.run(60 * time.Millisecond)
	assert.Equal(t, 1, h.device.closed)
	assert.True(t, h.engine.Released())
}

func TestNoTimerFiresAfterStop(t *testing.T) {
	h := newEngineHarness(t, func(s *sceneSettings) {
		s.Tiger.Chance = 1
		s.Dog.Chance = 1
	})
	require.NoError(t, h.engine.Start())
	h.run(2 * time.Second)
	before := h.engine.Stats()

	h.engine.Stop()
	for i := 0; i < 50; i++ {
		h.run(100 * time.Millisecond)
	}
	assert.Equal(t, before, h.engine.Stats())
	assert.Equal(t, 0, h.sched.Pending())
}

func TestSecondStopIsNoop(t *testing.T) {
	h := newEngineHarness(t, nil)
	require.NoError(t, h.engine.Start())
	h.run(500 * time.Millisecond)

	h.engine.Stop()
	h.run(100 * time.Millisecond)
	mid := h.engine.MasterGain()
	h.engine.Stop()
	assert.Equal(t, mid, h.engine.MasterGain())

	h.run(time.Second)
	assert.Equal(t, 1, h.device.closed)
}

func TestStartAfterStopDoesNothing(t *testing.T) {
	h := newEngineHarness(t, nil)
	h.engine.Stop()
	require.NoError(t, h.engine.Start())
	assert.False(t, h.engine.Started())
	assert.Equal(t, 0, h.device.resumed)
}

func TestDisposeSwallowsReleaseErrors(t *testing.T) {
	h := newEngineHarness(t, nil)
	h.device.closeErr = errors.New("already closed")
	require.NoError(t, h.engine.Start())

	assert.NotPanics(t, h.engine.Dispose)
	assert.NotPanics(t, h.engine.Dispose)
	assert.Equal(t, 1, h.device.closed)
	assert.Equal(t, 0, h.sched.Pending())

	buf := h.run(100 * time.Millisecond)
	assert.Equal(t, [2]float64{}, buf[len(buf)-1])
}

func TestStopThenDisposeClosesOnce(t *testing.T) {
	h := newEngineHarness(t, nil)
	require.NoError(t, h.engine.Start())
	h.engine.Stop()
	h.engine.Dispose()
	h.run(time.Second)
	assert.Equal(t, 1, h.device.closed)
}

func TestDeviceReaderProducesPCM(t *testing.T) {
	h := newEngineHarness(t, nil)
	require.NoError(t, h.engine.Start())

	p := make([]byte, 4*800)
	n, err := h.device.reader.Read(p)
	require.NoError(t, err)
	assert.Equal(t, len(p), n)
	assert.InDelta(t, 0.1, h.engine.Now(), 1e-9)

	nonZero := 0
	for _, b := range p {
		if b != 0 {
			nonZero++
		}
	}
	assert.Greater(t, nonZero, 0)
}

func TestStopAfterArmsOneFade(t *testing.T) {
	h := newEngineHarness(t, nil)
	require.NoError(t, h.engine.Start())
	h.engine.StopAfter(-time.Second)
	before := h.sched.Pending()

	h.run(50 * time.Millisecond)
	h.run(100 * time.Millisecond)
	assert.Less(t, h.engine.MasterGain(), masterLevel)
	// the stop timer and the repeating rolls are gone; only the release remains
	assert.Equal(t, 1, h.sched.Pending())
	assert.Greater(t, before, 1)

	h.engine.StopAfter(time.Second)
	assert.Equal(t, 1, h.sched.Pending())
	h.run(time.Second)
	assert.True(t, h.engine.Released())
}
