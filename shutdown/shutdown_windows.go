//go:build windows

package shutdown

import (
	"os"
	"os/signal"
)

func Notify(ch chan os.Signal) {
	signal.Notify(ch, os.Interrupt)
}

// NotifyToggle is a no-op on Windows; there is no SIGUSR1. The marker
// file poll in the control plane still works.
func NotifyToggle(ch chan os.Signal) {}
