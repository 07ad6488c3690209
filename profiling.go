package main

import (
	"os"
	"runtime/pprof"
	"sync"
	"time"
)

// profileRun is a CPU profile that should stop at deadline.
type profileRun struct {
	path     string
	deadline time.Time
	stop     func()
}

// startProfileRun begins writing a CPU profile to path for duration.
func startProfileRun(path string, duration time.Duration, now time.Time) (*profileRun, error) {
	stop, err := startCPUProfile(path)
	if err != nil {
		return nil, err
	}
	return &profileRun{path: path, deadline: now.Add(duration), stop: stop}, nil
}

func (p *profileRun) expired(now time.Time) bool { return !now.Before(p.deadline) }

// Stop flushes the profile. It is safe to call more than once.
func (p *profileRun) Stop() { p.stop() }

// startCPUProfile begins writing CPU profiles to the provided path.
func startCPUProfile(path string) (func(), error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return nil, err
	}
	var once sync.Once
	stop := func() {
		once.Do(func() {
			pprof.StopCPUProfile()
			_ = f.Close()
		})
	}
	return stop, nil
}
