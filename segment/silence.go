package segment

import (
	"fmt"
	"time"

	webrtcvad "github.com/maxhawkins/go-webrtcvad"
)

const (
	// webrtcvad accepts 10/20/30 ms frames; 30 ms matches the capture
	// chunking of the silence policy.
	silenceFrameDur = 30 * time.Millisecond

	defaultVADMode    = 2
	DefaultSilenceDur = 1500 * time.Millisecond
)

// SilenceConfig tunes the silence-triggered policy.
type SilenceConfig struct {
	SampleRate int
	SilenceDur time.Duration // trailing silence that closes an utterance
	VADMode    int           // webrtcvad aggressiveness 0-3
}

// Silence emits a segment after speech has been observed and a run of
// trailing non-speech frames crosses the silence threshold. Frames that
// arrive before the first speech frame belong to no segment.
type Silence struct {
	classify   func(frame []byte) (bool, error)
	frameBytes int
	maxSilence int // frame count

	frameBuf   []byte
	accum      []byte
	speechSeen bool
	silenceRun int

	// A Push large enough to span several utterances completes more
	// than one segment; extras queue here until the next Push or Flush.
	pending []Segment
}

func NewSilence(cfg SilenceConfig) (*Silence, error) {
	if cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("silence segmenter: sample rate %d", cfg.SampleRate)
	}
	if cfg.SilenceDur <= 0 {
		cfg.SilenceDur = DefaultSilenceDur
	}
	mode := cfg.VADMode
	if mode == 0 {
		mode = defaultVADMode
	}
	v, err := webrtcvad.New()
	if err != nil {
		return nil, fmt.Errorf("vad init: %w", err)
	}
	if err := v.SetMode(mode); err != nil {
		return nil, fmt.Errorf("vad mode %d: %w", mode, err)
	}
	frameBytes := cfg.SampleRate * int(silenceFrameDur/time.Millisecond) / 1000 * 2
	return &Silence{
		classify: func(frame []byte) (bool, error) {
			return v.Process(cfg.SampleRate, frame)
		},
		frameBytes: frameBytes,
		maxSilence: int(cfg.SilenceDur / silenceFrameDur),
	}, nil
}

func (s *Silence) Push(data []byte) (Segment, bool) {
	s.frameBuf = append(s.frameBuf, data...)

	for len(s.frameBuf) >= s.frameBytes {
		frame := s.frameBuf[:s.frameBytes]
		s.frameBuf = s.frameBuf[s.frameBytes:]

		active, err := s.classify(frame)
		if err != nil {
			continue
		}

		switch {
		case active:
			s.speechSeen = true
			s.silenceRun = 0
			s.accum = append(s.accum, frame...)
		case s.speechSeen:
			// Trailing silence stays in the segment up to the threshold.
			s.accum = append(s.accum, frame...)
			s.silenceRun++
			if s.silenceRun >= s.maxSilence {
				s.pending = append(s.pending, s.take())
			}
		default:
			// Leading silence is discarded.
		}
	}
	return s.pop()
}

func (s *Silence) pop() (Segment, bool) {
	if len(s.pending) == 0 {
		return nil, false
	}
	out := s.pending[0]
	s.pending = s.pending[1:]
	return out, true
}

func (s *Silence) Flush() (Segment, bool) {
	var out Segment
	for _, seg := range s.pending {
		out = append(out, seg...)
	}
	if s.speechSeen && len(s.accum) > 0 {
		out = append(out, s.accum...)
	}
	s.Reset()
	if len(out) == 0 {
		return nil, false
	}
	return out, true
}

func (s *Silence) Reset() {
	s.frameBuf = s.frameBuf[:0]
	s.accum = nil
	s.speechSeen = false
	s.silenceRun = 0
	s.pending = nil
}

func (s *Silence) take() Segment {
	out := Segment(s.accum)
	s.accum = nil
	s.speechSeen = false
	s.silenceRun = 0
	return out
}
