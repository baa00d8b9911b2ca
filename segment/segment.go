// Package segment buffers raw capture audio and decides when a span is
// ready to hand to the speech engine.
package segment

import (
	"encoding/binary"
	"time"
)

// Segment is one bounded span of 16-bit little-endian mono PCM, owned
// by the segmenter until emitted, then immutable and consumed once.
type Segment []byte

// Duration reports the audio length of the segment.
func (s Segment) Duration(sampleRate int) time.Duration {
	if sampleRate <= 0 {
		return 0
	}
	samples := len(s) / 2
	return time.Duration(float64(samples) / float64(sampleRate) * float64(time.Second))
}

// Segmenter accumulates capture frames and emits segments according to
// its policy. Push and Flush return the emitted segment, if any; Reset
// drops all buffered audio. Implementations are driven from the audio
// capture callback and are not safe for concurrent use — the session
// serializes access.
type Segmenter interface {
	Push(data []byte) (Segment, bool)
	Flush() (Segment, bool)
	Reset()
}

// Policy names for configuration.
const (
	PolicySilence  = "silence"
	PolicyInterval = "interval"
)

// peak returns the largest absolute sample normalized to [0,1].
func peak(pcm []byte) float64 {
	var max int32
	for i := 0; i+1 < len(pcm); i += 2 {
		s := int32(int16(binary.LittleEndian.Uint16(pcm[i:])))
		if s < 0 {
			s = -s
		}
		if s > max {
			max = s
		}
	}
	return float64(max) / 32768.0
}
