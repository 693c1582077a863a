package main

import (
	"fmt"
	"image"
	"os"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
	"github.com/setanarut/apng"
)

const (
	recordFPS      = 25
	apngFrameDelay = 100 / recordFPS // hundredths of a second, exact at 25 fps
)

type recordOptions struct {
	Width  int
	Height int
	Out    string // path prefix
	Grain  grainPass
}

type recordStats struct {
	Frames     int
	Glitches   int
	Grain      string
	Samples    int
	SampleRate int
	Voices     map[species]voiceStats
	VideoPath  string
	AudioPath  string
	Elapsed    time.Duration
}

// recordSequence runs the whole sequence offline. Frames are captured until
// the cutoff; audio keeps running through the fade until the engine releases
// its device. Timers advance with audio time, so a fixed seed reproduces the
// same recording.
func recordSequence(opts recordOptions, setup sceneSetup) (recordStats, error) {
	began := time.Now()
	settings := setup.settings

	r, err := newFrameRenderer(opts.Width, opts.Height, 1, settings, setup.source(0), opts.Grain)
	if err != nil {
		return recordStats{}, fmt.Errorf("creating frame renderer: %w", err)
	}
	defer func() { r.grain.Close() }()

	sched := newManualScheduler()
	engine, err := newAudioEngine(audioOptions{
		Settings:  settings,
		Rand:      setup.source(1),
		Scheduler: sched,
		Hum:       setup.hum,
	})
	if err != nil {
		return recordStats{}, err
	}
	defer engine.Dispose()
	if err := engine.Start(); err != nil {
		return recordStats{}, err
	}

	rate := beep.SampleRate(settings.SampleRate)
	format := beep.Format{SampleRate: rate, NumChannels: audioChannels, Precision: audioBytesPerSample}
	track := beep.NewBuffer(format)

	step := time.Second / recordFPS
	limit := int((settings.Cutoff+masterFade+releaseTail)/step) + 2*recordFPS
	origin := began
	var frames []image.Image
	frozen := false
	pulled := 0
	for i := 0; !engine.Released(); i++ {
		if i > limit {
			return recordStats{}, fmt.Errorf("audio did not release within %d frames", limit)
		}
		elapsed := time.Duration(i) * step
		if !frozen {
			now := origin.Add(elapsed)
			if err := r.Tick(now); err != nil {
				return recordStats{}, fmt.Errorf("rendering frame %d: %w", i, err)
			}
			frames = append(frames, snapshot(r.canvas))
			if r.finished(now) {
				frozen = true
				engine.Stop()
			}
		}
		target := rate.N(elapsed + step)
		track.Append(beep.Take(target-pulled, engine))
		pulled = target
		sched.Advance(step)
	}

	stats := recordStats{
		Frames:     len(frames),
		Glitches:   r.glitches,
		Grain:      r.grain.Name(),
		Samples:    track.Len(),
		SampleRate: settings.SampleRate,
		Voices:     engine.Stats(),
		VideoPath:  opts.Out + ".png",
		AudioPath:  opts.Out + ".wav",
	}

	// the Stat after Save must only see this run's output
	if err := os.Remove(stats.VideoPath); err != nil && !os.IsNotExist(err) {
		return stats, fmt.Errorf("removing stale %s: %w", stats.VideoPath, err)
	}
	apng.Save(stats.VideoPath, frames, apngFrameDelay)
	if _, err := os.Stat(stats.VideoPath); err != nil {
		return stats, fmt.Errorf("writing %s: %w", stats.VideoPath, err)
	}
	if err := writeTrack(stats.AudioPath, track, format); err != nil {
		return stats, err
	}
	stats.Elapsed = time.Since(began)
	return stats, nil
}

func snapshot(c *canvas) *image.RGBA {
	img := image.NewRGBA(c.img.Rect)
	copy(img.Pix, c.img.Pix)
	return img
}

func writeTrack(path string, track *beep.Buffer, format beep.Format) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := wav.Encode(f, track.Streamer(0, track.Len()), format); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return f.Close()
}
