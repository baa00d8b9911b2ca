package engine

import (
	"context"
	"sync"
	"time"

	"murmur/segment"
)

// Fake plays back scripted hypothesis sequences, one sequence per
// Transcribe call. The last entry of a sequence is the final text.
type Fake struct {
	mu        sync.Mutex
	scripts   [][]string
	callIdx   int
	err       error
	delay     time.Duration
	segments  []segment.Segment
	callCount int
}

func NewFake(scripts ...[]string) *Fake {
	return &Fake{scripts: scripts}
}

// Fail makes every subsequent call return err.
func (f *Fake) Fail(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

// SetDelay inserts a pause before each hypothesis, simulating engine
// latency.
func (f *Fake) SetDelay(d time.Duration) {
	f.mu.Lock()
	f.delay = d
	f.mu.Unlock()
}

// Calls reports how many transcription requests were made.
func (f *Fake) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.callCount
}

// Segments returns the audio handed to the engine, in order.
func (f *Fake) Segments() []segment.Segment {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]segment.Segment(nil), f.segments...)
}

func (f *Fake) Name() string { return "fake" }

func (f *Fake) Transcribe(ctx context.Context, seg segment.Segment) (string, error) {
	return f.TranscribeStream(ctx, seg, nil)
}

func (f *Fake) TranscribeStream(ctx context.Context, seg segment.Segment, hypothesis func(string)) (string, error) {
	f.mu.Lock()
	f.callCount++
	f.segments = append(f.segments, seg)
	err := f.err
	delay := f.delay
	var script []string
	if f.callIdx < len(f.scripts) {
		script = f.scripts[f.callIdx]
		f.callIdx++
	}
	f.mu.Unlock()

	if err != nil {
		return "", err
	}
	final := ""
	for _, hyp := range script {
		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}
		if hypothesis != nil {
			hypothesis(hyp)
		}
		final = hyp
	}
	return final, nil
}
