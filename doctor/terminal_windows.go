//go:build windows

package doctor

import (
	"os"

	"murmur/shutdown"
)

func resetTerminal() {
	// Console modes are per-process on Windows, nothing to undo.
}

func setupInterruptHandler() {
	sigChan := make(chan os.Signal, 1)
	shutdown.Notify(sigChan)
	go func() {
		<-sigChan
		println("\nInterrupted")
		os.Exit(1)
	}()
}
