package main

import (
	"encoding/binary"
	"math"

	"github.com/gopxl/beep"
)

const (
	audioChannels       = 2
	audioBytesPerSample = 2
	audioFrameBytes     = audioChannels * audioBytesPerSample
)

// pcmStream adapts a beep.Streamer to the signed 16-bit little-endian stereo
// byte stream ebiten's audio player reads.
type pcmStream struct {
	src beep.Streamer
	buf [][2]float64
}

func newPCMStream(src beep.Streamer) *pcmStream {
	return &pcmStream{src: src}
}

// Read fills whole frames only. A source that runs dry is padded with silence
// so the player never sees a short read.
func (s *pcmStream) Read(p []byte) (int, error) {
	frameCount := len(p) / audioFrameBytes
	if frameCount == 0 {
		return 0, nil
	}
	if cap(s.buf) < frameCount {
		s.buf = make([][2]float64, frameCount)
	}
	buf := s.buf[:frameCount]
	n, _ := s.src.Stream(buf)
	for i := n; i < frameCount; i++ {
		buf[i] = [2]float64{}
	}
	for i, frame := range buf {
		base := i * audioFrameBytes
		binary.LittleEndian.PutUint16(p[base:], uint16(toPCM16(frame[0])))
		binary.LittleEndian.PutUint16(p[base+audioBytesPerSample:], uint16(toPCM16(frame[1])))
	}
	return frameCount * audioFrameBytes, nil
}

func (s *pcmStream) Close() error { return nil }

// toPCM16 clips v to [-1, 1] and scales it to int16.
func toPCM16(v float64) int16 {
	if math.IsNaN(v) {
		return 0
	}
	if v >= 1 {
		return pcm16MaxValue
	}
	if v <= -1 {
		return pcm16MinValue
	}
	return int16(math.Round(v * pcm16MaxValue))
}
