package main

import (
	"encoding/binary"
	"math"
	"path/filepath"
	"testing"

	"github.com/gopxl/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToPCM16(t *testing.T) {
	cases := []struct {
		in   float64
		want int16
	}{
		{0, 0},
		{0.5, 16384},
		{-0.5, -16384},
		{1, 32767},
		{1.5, 32767},
		{-1, -32768},
		{-7, -32768},
		{math.NaN(), 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, toPCM16(tc.in), "in=%v", tc.in)
	}
}

func TestPCMStreamWritesWholeStereoFrames(t *testing.T) {
	s := newPCMStream(constSource(0.5))

	p := make([]byte, 4*3+3)
	n, err := s.Read(p)
	require.NoError(t, err)
	assert.Equal(t, 12, n)
	for i := 0; i < n; i += 2 {
		assert.Equal(t, int16(16384), int16(binary.LittleEndian.Uint16(p[i:])))
	}

	n, err = s.Read(make([]byte, 3))
	require.NoError(t, err)
	assert.Zero(t, n)
}

// shortSource yields fewer frames than asked for.
type shortSource struct{}

func (shortSource) Stream(samples [][2]float64) (int, bool) {
	for i := 0; i < len(samples)/2; i++ {
		samples[i] = [2]float64{1, -1}
	}
	return len(samples) / 2, true
}

func (shortSource) Err() error { return nil }

func TestPCMStreamPadsShortReads(t *testing.T) {
	s := newPCMStream(shortSource{})
	p := make([]byte, 4*4)
	for i := range p {
		p[i] = 0xff
	}
	n, err := s.Read(p)
	require.NoError(t, err)
	assert.Equal(t, 16, n)
	assert.Equal(t, int16(32767), int16(binary.LittleEndian.Uint16(p[0:])))
	assert.Equal(t, int16(-32768), int16(binary.LittleEndian.Uint16(p[2:])))
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0, 0}, p[8:])
}

func frameStreamer(fs [][2]float64) beep.Streamer {
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if len(fs) == 0 {
			return 0, false
		}
		n := copy(samples, fs)
		fs = fs[n:]
		return n, true
	})
}

func TestDownmixAveragesChannels(t *testing.T) {
	got, err := downmix(frameStreamer([][2]float64{{0.5, 0.5}, {-1, 0}}))
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, -0.5}, got)

	got, err = downmix(frameStreamer(nil))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLoadLoopSamplesReadsRecordedTrack(t *testing.T) {
	format := beep.Format{SampleRate: 8000, NumChannels: audioChannels, Precision: audioBytesPerSample}
	track := beep.NewBuffer(format)
	track.Append(frameStreamer([][2]float64{{0.5, 0.5}, {-0.5, 0.5}, {0.25, -0.25}}))
	path := filepath.Join(t.TempDir(), "loop.wav")
	require.NoError(t, writeTrack(path, track, format))

	got, err := loadLoopSamples(8000, path)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.InDelta(t, 0.5, got[0], 1e-3)
	assert.InDelta(t, 0, got[1], 1e-3)
	assert.InDelta(t, 0, got[2], 1e-3)
}

func TestLoadLoopSamplesMissingFile(t *testing.T) {
	_, err := loadLoopSamples(8000, "does-not-exist.wav")
	assert.Error(t, err)
}
