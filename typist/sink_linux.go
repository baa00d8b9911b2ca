//go:build linux

package typist

import "fmt"

// NewSink builds the configured keystroke sink. "uinput" is the default:
// a virtual keyboard that types characters directly. "paste" goes through
// the clipboard and Ctrl+V.
func NewSink(kind string) (Sink, error) {
	switch kind {
	case "", "uinput":
		return NewUinput()
	case "paste":
		return NewPaste()
	default:
		return nil, fmt.Errorf("unknown sink %q (use uinput or paste)", kind)
	}
}
