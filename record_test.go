package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordSequenceWritesVideoAndAudio(t *testing.T) {
	settings := testSettings()
	settings.Cutoff = 500 * time.Millisecond
	settings.Tiger.Chance = 1
	setup := sceneSetup{settings: settings, seed: 7}

	out := filepath.Join(t.TempDir(), "clip")
	stats, err := recordSequence(recordOptions{
		Width:  32,
		Height: 24,
		Out:    out,
		Grain:  &cpuGrain{workers: 2},
	}, setup)
	require.NoError(t, err)

	// 13 frames of scene at 25 fps plus the first black frame.
	assert.Equal(t, 14, stats.Frames)
	assert.Equal(t, 1, stats.Voices[speciesTiger].Triggers)
	assert.Greater(t, stats.Samples, settings.SampleRate/2)
	assert.Equal(t, "cpu", stats.Grain)

	for _, path := range []string{stats.VideoPath, stats.AudioPath} {
		info, err := os.Stat(path)
		require.NoError(t, err, path)
		assert.Greater(t, info.Size(), int64(0))
	}

	wav, err := os.ReadFile(stats.AudioPath)
	require.NoError(t, err)
	assert.Equal(t, "RIFF", string(wav[:4]))
	assert.Equal(t, "WAVE", string(wav[8:12]))
}

func TestRecordSequenceIsReproducible(t *testing.T) {
	settings := testSettings()
	settings.Cutoff = 300 * time.Millisecond
	run := func() []byte {
		out := filepath.Join(t.TempDir(), "clip")
		stats, err := recordSequence(recordOptions{Width: 16, Height: 16, Out: out, Grain: &cpuGrain{workers: 1}},
			sceneSetup{settings: settings, seed: 3})
		require.NoError(t, err)
		b, err := os.ReadFile(stats.AudioPath)
		require.NoError(t, err)
		return b
	}
	assert.Equal(t, run(), run())
}

func TestRecordSequenceRejectsEmptyFrame(t *testing.T) {
	_, err := recordSequence(recordOptions{Width: 0, Height: 10, Out: filepath.Join(t.TempDir(), "x")},
		sceneSetup{settings: testSettings(), seed: 1})
	assert.ErrorIs(t, err, errEmptySurface)
}

func TestRecordFrameDelayMatchesCaptureRate(t *testing.T) {
	assert.Equal(t, 100, apngFrameDelay*recordFPS)
}

func TestRecordSequenceReplacesStaleVideo(t *testing.T) {
	out := filepath.Join(t.TempDir(), "clip")
	require.NoError(t, os.WriteFile(out+".png", []byte("stale"), 0o644))

	settings := testSettings()
	settings.Cutoff = 200 * time.Millisecond
	stats, err := recordSequence(recordOptions{Width: 16, Height: 16, Out: out, Grain: &cpuGrain{workers: 1}},
		sceneSetup{settings: settings, seed: 5})
	require.NoError(t, err)

	b, err := os.ReadFile(stats.VideoPath)
	require.NoError(t, err)
	require.Greater(t, len(b), 8)
	assert.Equal(t, "\x89PNG", string(b[:4]))
}
