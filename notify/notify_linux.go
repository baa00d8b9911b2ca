//go:build linux

// Package notify shows transient desktop notifications for recording
// state changes. Best effort; a missing notify-send is silently ignored.
package notify

import (
	"os/exec"
	"time"
)

const expireMs = "2000"

func Send(title, body string) {
	path, err := exec.LookPath("notify-send")
	if err != nil {
		return
	}
	cmd := exec.Command(path, "-t", expireMs, title, body)
	if err := cmd.Start(); err != nil {
		return
	}
	go func() {
		done := make(chan struct{})
		go func() { cmd.Wait(); close(done) }()
		select {
		case <-done:
		case <-time.After(3 * time.Second):
			cmd.Process.Kill()
			<-done
		}
	}()
}
