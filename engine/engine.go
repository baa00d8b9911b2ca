// Package engine abstracts the external speech-to-text service.
package engine

import (
	"context"
	"fmt"
	"os"
	"time"

	"murmur/segment"
)

// Engine transcribes one audio segment to text. An empty result means
// no speech was detected, not an error.
type Engine interface {
	Name() string
	Transcribe(ctx context.Context, seg segment.Segment) (string, error)
}

// Streamer is implemented by engines that surface interim hypotheses
// while a segment is still being transcribed. The hypothesis callback
// receives the engine's current best guess for the whole segment, in
// order; the returned text is the final hypothesis.
type Streamer interface {
	Engine
	TranscribeStream(ctx context.Context, seg segment.Segment, hypothesis func(string)) (string, error)
}

// Config is shared engine tuning.
type Config struct {
	SampleRate int
	Language   string
	Timeout    time.Duration
}

const DefaultTimeout = 30 * time.Second

func (c Config) timeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return DefaultTimeout
}

// New picks an engine from the environment: Deepgram when
// DEEPGRAM_API_KEY is set (live hypotheses), otherwise Groq via
// GROQ_API_KEY.
func New(cfg Config) (Engine, error) {
	if key := os.Getenv("DEEPGRAM_API_KEY"); key != "" {
		return NewDeepgram(key, cfg), nil
	}
	if key := os.Getenv("GROQ_API_KEY"); key != "" {
		return NewGroq(key, cfg), nil
	}
	return nil, fmt.Errorf("set DEEPGRAM_API_KEY or GROQ_API_KEY environment variable")
}
