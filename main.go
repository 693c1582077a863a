package main

import (
	"os"

	"github.com/urfave/cli"
)

func main() {
	app := cli.NewApp()
	app.Name = "cctv"
	app.Usage = "night-time CCTV standoff with procedural audio"
	app.Version = "0.1.0"
	app.Flags = globalFlags
	app.Action = playScene
	app.Commands = []cli.Command{
		{
			Name:  "play",
			Usage: "open a window and run the sequence",
			Description: `
Show the 10 second scene in a resizable window. Audio is synthesised in-process
and stays silent until the ENABLE AUDIO prompt is clicked (or Enter/Space is
pressed). Escape closes the window.`,
			Flags:  playFlags,
			Action: playScene,
		},
		{
			Name:  "record",
			Usage: "render the sequence offline to an animated PNG and a WAV file",
			Description: `
Run the same sequence headlessly at a fixed 24 frames per second. Timers are
driven by audio time so the recording is reproducible for a given --seed.`,
			Flags:  recordFlags,
			Action: recordScene,
		},
		{
			Name:   "list-devices",
			Usage:  "list available opencl devices",
			Action: listDevices,
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}
