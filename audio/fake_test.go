package audio

import (
	"bytes"
	"errors"
	"sync"
	"testing"
)

func TestFakeCaptureDeliversPCMOnStart(t *testing.T) {
	pcm := bytes.Repeat([]byte{0x01, 0x20}, 3000)
	ctx := NewFakeContext(pcm)
	capture, err := ctx.NewCapture(nil, CaptureConfig{SampleRate: 16000, Channels: 1})
	if err != nil {
		t.Fatal(err)
	}

	var mu sync.Mutex
	var got []byte
	capture.SetCallback(func(data []byte, _ uint32) {
		mu.Lock()
		got = append(got, data...)
		mu.Unlock()
	})
	if err := capture.Start(); err != nil {
		t.Fatal(err)
	}
	capture.Stop()

	mu.Lock()
	defer mu.Unlock()
	// The canned PCM is delivered synchronously on Start, before any
	// silence ticks.
	if !bytes.HasPrefix(got, pcm) {
		t.Fatalf("delivered %d bytes, want the %d canned bytes first", len(got), len(pcm))
	}
}

func TestLastCaptureTracksMostRecent(t *testing.T) {
	ctx := NewFakeContext(nil)
	if ctx.LastCapture() != nil {
		t.Fatal("LastCapture non-nil before any NewCapture")
	}

	if _, err := ctx.NewCapture(nil, CaptureConfig{}); err != nil {
		t.Fatal(err)
	}
	second, err := ctx.NewCapture(nil, CaptureConfig{})
	if err != nil {
		t.Fatal(err)
	}
	if got := ctx.LastCapture(); got != second.(*FakeCapture) {
		t.Fatalf("LastCapture = %p, want the most recent capture", got)
	}
}

func TestSetStartErrorFailsNewCaptures(t *testing.T) {
	ctx := NewFakeContext(nil)
	ctx.SetStartError(errors.New("device busy"))

	capture, err := ctx.NewCapture(nil, CaptureConfig{})
	if err != nil {
		t.Fatal(err)
	}
	if err := capture.Start(); err == nil {
		t.Fatal("Start succeeded despite configured error")
	}
	// Stop on a capture that never started must not hang.
	capture.Stop()
}
