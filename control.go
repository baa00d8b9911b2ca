package main

import (
	"os"
	"strconv"
	"time"

	"murmur/config"
	"murmur/log"
	"murmur/shutdown"
)

// markerPollInterval is how often the toggle marker file is checked.
// Scripts that cannot signal the process (or run on Windows) touch the
// marker instead.
const markerPollInterval = 200 * time.Millisecond

var pidFilePath string

// startControl wires the external toggle surface: a pid file so
// scripts can find us, SIGUSR1, and a marker file poll. Every external
// trigger lands on the returned channel exactly like a hotkey press.
func startControl(d config.Daemon) <-chan struct{} {
	ch := make(chan struct{}, 1)

	if d.PIDFile != "" {
		pidFilePath = d.PIDFile
		if err := os.WriteFile(d.PIDFile, []byte(strconv.Itoa(os.Getpid())), 0644); err != nil {
			log.Warnf("pid file: %v", err)
			pidFilePath = ""
		}
	}

	sigCh := make(chan os.Signal, 1)
	shutdown.NotifyToggle(sigCh)
	go func() {
		for range sigCh {
			fire(ch)
		}
	}()

	if d.MarkerFile != "" {
		// stale marker from a previous run must not trigger a recording
		os.Remove(d.MarkerFile)
		go pollMarker(d.MarkerFile, ch)
	}

	return ch
}

func pollMarker(path string, ch chan struct{}) {
	ticker := time.NewTicker(markerPollInterval)
	defer ticker.Stop()
	for range ticker.C {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := os.Remove(path); err != nil {
			log.Warnf("toggle marker: %v", err)
			continue
		}
		fire(ch)
	}
}

func fire(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

func removePIDFile() {
	if pidFilePath == "" {
		return
	}
	// only clean up our own pid file; another instance may have
	// replaced it
	if data, err := os.ReadFile(pidFilePath); err == nil {
		if pid, err := strconv.Atoi(string(data)); err == nil && pid != os.Getpid() {
			return
		}
	}
	os.Remove(pidFilePath)
}
