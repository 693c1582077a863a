package main

import (
	"fmt"
	"io"

	"github.com/hajimehoshi/ebiten/v2/audio"
)

// audioDevice is the output the engine pulls into. It is created idle;
// Resume begins playback.
type audioDevice interface {
	Resume() error
	Close() error
}

// deviceFactory opens a device that reads PCM from r.
type deviceFactory func(r io.Reader) (audioDevice, error)

// playerDevice plays through ebiten's shared audio context.
type playerDevice struct {
	player *audio.Player
}

// ebitenDevice returns a factory bound to the process-wide audio context,
// creating it at rate on first use.
func ebitenDevice(rate int) deviceFactory {
	return func(r io.Reader) (audioDevice, error) {
		ctx := audio.CurrentContext()
		if ctx == nil {
			ctx = audio.NewContext(rate)
		} else if ctx.SampleRate() != rate {
			return nil, fmt.Errorf("audio context already running at %d Hz, want %d", ctx.SampleRate(), rate)
		}
		player, err := ctx.NewPlayer(r)
		if err != nil {
			return nil, fmt.Errorf("creating audio player: %w", err)
		}
		player.SetBufferSize(audioBufferDuration)
		return &playerDevice{player: player}, nil
	}
}

func (d *playerDevice) Resume() error {
	d.player.Play()
	return nil
}

func (d *playerDevice) Close() error {
	return d.player.Close()
}

// nullDevice discards everything; record and headless runs drive the stream
// themselves.
type nullDevice struct{}

func nullDeviceFactory(io.Reader) (audioDevice, error) { return nullDevice{}, nil }

func (nullDevice) Resume() error { return nil }
func (nullDevice) Close() error  { return nil }
