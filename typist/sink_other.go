//go:build !linux && !darwin

package typist

import "fmt"

func NewSink(kind string) (Sink, error) {
	return nil, fmt.Errorf("no keystroke sink available on this platform")
}
