//go:build windows

package beep

// No cue playback on Windows.

func Init()  {}
func Start() {}
func Stop()  {}
func Error() {}
