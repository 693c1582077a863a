package main

import (
	"os"
	"runtime"
	"runtime/pprof"
	"sync"
)

// startProfiles starts a CPU profile when cpuPath is set. The returned stop
// func ends it and, when heapPath is set, writes a heap snapshot. Stop is safe
// to call more than once and is never nil.
func startProfiles(cpuPath, heapPath string) (func(), error) {
	var cpu *os.File
	if cpuPath != "" {
		f, err := os.Create(cpuPath)
		if err != nil {
			return func() {}, err
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			f.Close()
			return func() {}, err
		}
		logger.Infof("writing CPU profile to %s", cpuPath)
		cpu = f
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			if cpu != nil {
				pprof.StopCPUProfile()
				_ = cpu.Close()
			}
			if heapPath != "" {
				if err := writeHeapProfile(heapPath); err != nil {
					logger.Warningf("heap profile: %v", err)
				}
			}
		})
	}, nil
}

func writeHeapProfile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	runtime.GC()
	if err := pprof.WriteHeapProfile(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
