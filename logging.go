package main

import (
	"io"
	"os"

	"github.com/op/go-logging"
	"github.com/urfave/cli"
)

var format = logging.MustStringFormatter(
	`%{color}[%{time:15:04:05.000}] [%{module}] [%{level}]%{color:reset} %{message}`,
)

var leveledBackend logging.LeveledBackend

var (
	logger      = logging.MustGetLogger("cctv")
	audioLogger = logging.MustGetLogger("audio")
	renderLog   = logging.MustGetLogger("render")
)

func init() {
	setLogSink(os.Stderr)
}

// setLogSink redirects every module logger to sink at WARNING level.
func setLogSink(sink io.Writer) {
	backend := logging.NewLogBackend(sink, "", 0)
	formatted := logging.NewBackendFormatter(backend, format)
	leveledBackend = logging.AddModuleLevel(formatted)
	leveledBackend.SetLevel(logging.WARNING, "")
	logging.SetBackend(leveledBackend)
}

func setupLogging(ctx *cli.Context) {
	if ctx.GlobalBool("v") {
		leveledBackend.SetLevel(logging.INFO, "")
	}
	if ctx.GlobalBool("vv") {
		leveledBackend.SetLevel(logging.DEBUG, "")
	}
}
