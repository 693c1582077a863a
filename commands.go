package main

import (
	"bytes"
	"fmt"
	"math/rand"
	"runtime"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// sceneSetup is what play and record share: tunables, seeded sources and the
// optional ambient loop.
type sceneSetup struct {
	settings sceneSettings
	seed     int64
	hum      []float64
	useCL    bool
}

func prepareScene(ctx *cli.Context) (sceneSetup, func(), error) {
	setupLogging(ctx)

	stop, err := startProfiles(ctx.GlobalString("cpuprofile"), ctx.GlobalString("memprofile"))
	if err != nil {
		return sceneSetup{}, stop, fmt.Errorf("starting profiler: %w", err)
	}

	settings, err := loadSettings(ctx.GlobalString("config"))
	if err != nil {
		return sceneSetup{}, stop, err
	}

	setup := sceneSetup{
		settings: settings,
		seed:     ctx.Int64("seed"),
		useCL:    ctx.Bool("opencl"),
	}
	if setup.seed == 0 {
		setup.seed = time.Now().UnixNano()
	}
	logger.Infof("seed %d", setup.seed)

	if path := ctx.String("ambient-wav"); path != "" {
		hum, err := loadLoopSamples(settings.SampleRate, path)
		if err != nil {
			logger.Warningf("ambient loop disabled: %v", err)
		} else {
			setup.hum = hum
		}
	}
	return setup, stop, nil
}

// source returns an independent random stream n for this run.
func (s sceneSetup) source(n int64) *rand.Rand {
	return rand.New(rand.NewSource(s.seed + n))
}

// selectGrain prefers the OpenCL pass when asked for and falls back to the
// banded CPU pass.
func selectGrain(useCL bool, w, h int) grainPass {
	if useCL {
		pass, err := newOpenCLGrain(w, h)
		if err == nil {
			renderLog.Infof("grain pass on %s", pass.Name())
			return pass
		}
		renderLog.Warningf("OpenCL grain unavailable, using cpu: %v", err)
	}
	return &cpuGrain{workers: runtime.NumCPU()}
}

// playScene opens the window. A failure to build the audio side only disables
// audio.
func playScene(ctx *cli.Context) error {
	setup, stopProfile, err := prepareScene(ctx)
	defer stopProfile()
	if err != nil {
		return err
	}

	w, h := ctx.Int("width"), ctx.Int("height")
	if w <= 0 || h <= 0 {
		w, h = defaultWindowW, defaultWindowH
	}
	// Layout resizes the canvas to the physical surface on the first frame.
	r, err := newFrameRenderer(w, h, 1, setup.settings, setup.source(0), selectGrain(setup.useCL, w, h))
	if err != nil {
		return fmt.Errorf("creating frame renderer: %w", err)
	}

	var engine *AudioEngine
	if !ctx.Bool("mute") {
		engine, err = newAudioEngine(audioOptions{
			Settings: setup.settings,
			Rand:     setup.source(1),
			Device:   ebitenDevice(setup.settings.SampleRate),
			Hum:      setup.hum,
		})
		if err != nil {
			logger.Errorf("audio disabled: %v", err)
			engine = nil
		}
	}

	game := newGame(r, engine, ctx.Bool("debug"))
	defer game.teardown()

	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle("CCTV // CAM 03")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowClosingHandled(true)
	ebiten.SetTPS(defaultTPS)
	if err := ebiten.RunGame(game); err != nil {
		return err
	}
	return nil
}

func recordScene(ctx *cli.Context) error {
	setup, stopProfile, err := prepareScene(ctx)
	defer stopProfile()
	if err != nil {
		return err
	}
	w, h := ctx.Int("width"), ctx.Int("height")
	opts := recordOptions{
		Width:  w,
		Height: h,
		Out:    ctx.String("out"),
		Grain:  selectGrain(setup.useCL, w, h),
	}
	stats, err := recordSequence(opts, setup)
	if err != nil {
		return err
	}
	displayRecordStats(stats)
	return nil
}

func displayRecordStats(stats recordStats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Track", "Events", "Detail", "Output"})
	table.Append([]string{"Video", fmt.Sprintf("%d frames", stats.Frames), fmt.Sprintf("%d glitches, grain %s", stats.Glitches, stats.Grain), stats.VideoPath})
	table.Append([]string{"Audio", fmt.Sprintf("%d samples", stats.Samples), fmt.Sprintf("%d Hz", stats.SampleRate), stats.AudioPath})
	for _, s := range []species{speciesTiger, speciesDog} {
		v := stats.Voices[s]
		table.Append([]string{s.String(), fmt.Sprintf("%d triggers", v.Triggers), fmt.Sprintf("%d rolls", v.Rolls), ""})
	}
	table.SetFooter([]string{"", "", "TOTAL", stats.Elapsed.String()})
	table.Render()
	fmt.Printf("\nrecord statistics\n%s", buf.String())
}

// listDevices prints the OpenCL devices the grain pass could use.
func listDevices(ctx *cli.Context) error {
	setupLogging(ctx)
	devices, err := listOpenCLDevices()
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"#", "Platform", "Device", "GPU"})
	for i, d := range devices {
		table.Append([]string{fmt.Sprintf("%02d", i), d.Platform, d.Name, fmt.Sprintf("%t", d.GPU)})
	}
	table.Render()
	fmt.Printf("\nSystem provides %d opencl device(s):\n\n%s", len(devices), buf.String())
	return nil
}
