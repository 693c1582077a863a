package main

import "github.com/urfave/cli"

// Flags shared by every command.
var globalFlags = []cli.Flag{
	cli.BoolFlag{
		Name:  "v",
		Usage: "enable verbose logging",
	},
	cli.BoolFlag{
		Name:  "vv",
		Usage: "enable even more verbose logging",
	},
	cli.StringFlag{
		Name:  "config, c",
		Usage: "load tunables from a yaml, toml or json file",
	},
	cli.StringFlag{
		Name:  "cpuprofile",
		Usage: "write a pprof CPU profile to this file",
	},
	cli.StringFlag{
		Name:  "memprofile",
		Usage: "write a pprof heap profile to this file on exit",
	},
}

// Flags for commands that build a renderer and an audio graph.
var sceneFlags = []cli.Flag{
	cli.BoolFlag{
		Name:  "opencl",
		Usage: "run the grain pass on an OpenCL device when one is available",
	},
	cli.StringFlag{
		Name:  "ambient-wav",
		Usage: "replace the generated hum with a looping WAV file",
	},
	cli.Int64Flag{
		Name:  "seed",
		Usage: "random seed (0 picks one from the clock)",
	},
}

var playFlags = append([]cli.Flag{
	cli.IntFlag{
		Name:  "width",
		Value: defaultWindowW,
		Usage: "initial window width",
	},
	cli.IntFlag{
		Name:  "height",
		Value: defaultWindowH,
		Usage: "initial window height",
	},
	cli.BoolFlag{
		Name:  "debug",
		Usage: "show FPS and surface overlay (toggle with F3)",
	},
	cli.BoolFlag{
		Name:  "mute",
		Usage: "do not open an audio device",
	},
}, sceneFlags...)

var recordFlags = append([]cli.Flag{
	cli.IntFlag{
		Name:  "width",
		Value: 480,
		Usage: "frame width",
	},
	cli.IntFlag{
		Name:  "height",
		Value: 270,
		Usage: "frame height",
	},
	cli.StringFlag{
		Name:  "out, o",
		Value: "cctv",
		Usage: "output prefix; writes <out>.png and <out>.wav",
	},
}, sceneFlags...)
