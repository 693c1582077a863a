//go:build !opencl

package main

import "errors"

var errOpenCLDisabled = errors.New("OpenCL support is not enabled; rebuild with -tags opencl")

func newOpenCLGrain(width, height int) (grainPass, error) {
	return nil, errOpenCLDisabled
}

func listOpenCLDevices() ([]openCLDeviceInfo, error) {
	return nil, errOpenCLDisabled
}
