package main

import (
	"fmt"
	"os"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
)

const loopResampleQuality = 4

// loadLoopSamples decodes the WAV at path into a mono loop at sampleRate for
// the ambient bed.
func loadLoopSamples(sampleRate int, path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	stream, format, err := wav.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %q: %w", path, err)
	}
	defer stream.Close()

	var src beep.Streamer = stream
	if target := beep.SampleRate(sampleRate); format.SampleRate != target {
		src = beep.Resample(loopResampleQuality, format.SampleRate, target, stream)
	}
	samples, err := downmix(src)
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", path, err)
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("wav %q has no audio data", path)
	}
	return samples, nil
}

// downmix drains s, averaging each stereo frame into one sample.
func downmix(s beep.Streamer) ([]float64, error) {
	var out []float64
	buf := make([][2]float64, 512)
	for {
		n, ok := s.Stream(buf)
		for _, f := range buf[:n] {
			out = append(out, (f[0]+f[1])/2)
		}
		if !ok {
			break
		}
	}
	return out, s.Err()
}
