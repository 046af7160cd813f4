package benchmarks

import (
	"fmt"
	"os"
	"path"
	"runtime"
	"runtime/pprof"
)

var (
	cpuprofile string
	memprofile string
)

// startProfiling starts the CPU profile if requested. The returned
// function stops it and writes the heap profile.
func startProfiling() (func(), error) {
	var cpuFile *os.File
	if cpuprofile != "" {
		if err := os.MkdirAll(saveFile, 0o755); err != nil {
			return nil, err
		}
		cpuProfPath := path.Join(saveFile, cpuprofile)
		logger.Printf("profiling CPU to %s", cpuProfPath)
		f, err := os.Create(cpuProfPath)
		if err != nil {
			return nil, fmt.Errorf("could not create CPU profile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			f.Close()
			return nil, fmt.Errorf("could not start CPU profile: %w", err)
		}
		cpuFile = f
	}

	return func() {
		if cpuFile != nil {
			pprof.StopCPUProfile()
			cpuFile.Close()
		}
		if memprofile == "" {
			return
		}
		memProfPath := path.Join(saveFile, memprofile)
		logger.Printf("profiling memory to %s", memProfPath)
		f, err := os.Create(memProfPath)
		if err != nil {
			logger.Printf("could not create memory profile: %s", err)
			return
		}
		defer f.Close()
		runtime.GC() // get up-to-date statistics
		if err := pprof.WriteHeapProfile(f); err != nil {
			logger.Printf("could not write memory profile: %s", err)
		}
	}, nil
}
