//go:build !windows

package shutdown

import (
	"os"
	"os/signal"
	"syscall"
)

func Notify(ch chan os.Signal) {
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
}

// NotifyToggle registers the external toggle signal used by the daemon
// control plane (kill -USR1 <pid> flips recording).
func NotifyToggle(ch chan os.Signal) {
	signal.Notify(ch, syscall.SIGUSR1)
}
