package main

import (
	"fmt"
	"os"
	"time"

	"murmur/audio"
	"murmur/beep"
	"murmur/config"
	"murmur/engine"
	"murmur/session"
	"murmur/typist"
)

// runTestMode replays a WAV file through the full pipeline against the
// real engine, but types into a fake sink and prints what would have
// landed in the focused window. Exercises segmentation and the live
// correction path without touching the keyboard.
func runTestMode(wavPath string, cfg config.Config, eng engine.Engine) {
	beep.Disable()

	actx, err := audio.NewFakeContextFromWAV(wavPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading WAV: %v\n", err)
		os.Exit(1)
	}

	sink := typist.NewFakeSink()
	typ := typist.New(sink, cfg.Typing.MaxBackspaces)

	seg, err := newSegmenter(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	done := make(chan session.Summary, 1)
	sess := session.New(actx, nil, eng, typ, seg, testEvents{done: done}, session.Config{
		SampleRate: cfg.Audio.SampleRate,
		Policy:     cfg.Segment.Policy,
	})

	if err := sess.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	// The fake capture has already delivered the whole file; give the
	// silence policy a moment to see trailing silence, then drain.
	time.Sleep(500 * time.Millisecond)
	if err := sess.Stop(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	summary := <-done
	fmt.Printf("typed: %q\n", sink.Screen())
	fmt.Printf("%d utterances, %d words, %d corrections skipped\n",
		summary.Utterances, summary.Words, summary.Skipped)
}

type testEvents struct {
	done chan session.Summary
}

func (t testEvents) RecordingStart() {}
func (t testEvents) RecordingStop(s session.Summary) {
	select {
	case t.done <- s:
	default:
	}
}
func (t testEvents) AudioChunk([]byte) {}
func (t testEvents) Hypothesis(text string) {
	fmt.Printf("hypothesis: %s\n", text)
}
func (t testEvents) Utterance(string) {}
func (t testEvents) CorrectionSkipped() {
	fmt.Println("correction skipped (over backspace cap)")
}
func (t testEvents) EngineError(err error) {
	fmt.Fprintf(os.Stderr, "engine error: %v\n", err)
}
