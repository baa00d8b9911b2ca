//go:build darwin

package typist

import "fmt"

// NewSink builds the configured keystroke sink. macOS only has the
// clipboard-paste path.
func NewSink(kind string) (Sink, error) {
	switch kind {
	case "", "paste":
		return NewPaste()
	default:
		return nil, fmt.Errorf("unknown sink %q (only paste is supported on macOS)", kind)
	}
}
