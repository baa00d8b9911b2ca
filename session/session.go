// Package session owns the recording lifecycle: one hotkey toggle
// opens the microphone, feeds the segmenter from the capture callback,
// and hands emitted segments to the transcription worker; the next
// toggle drains everything and reports a summary.
package session

import (
	"fmt"
	"sync"
	"time"

	"murmur/audio"
	"murmur/engine"
	"murmur/log"
	"murmur/segment"
	"murmur/typist"
)

type State int

const (
	StateIdle State = iota
	StateRecording
	StateStopping
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRecording:
		return "recording"
	case StateStopping:
		return "stopping"
	}
	return "unknown"
}

// Summary is what one recording produced.
type Summary struct {
	Utterances int
	Words      int
	Skipped    int
}

// Config tunes one session.
type Config struct {
	SampleRate  int
	Policy      string
	JoinTimeout time.Duration // worker drain bound on Stop
}

const defaultJoinTimeout = 5 * time.Second

func (c Config) joinTimeout() time.Duration {
	if c.JoinTimeout > 0 {
		return c.JoinTimeout
	}
	return defaultJoinTimeout
}

// Session is the recording state machine. All public methods are safe
// for concurrent use; Toggle from any number of goroutines performs at
// most one state transition per observed state.
type Session struct {
	mu    sync.Mutex
	state State

	actx   audio.Context
	device *audio.DeviceInfo
	cfg    Config
	eng    engine.Engine
	typ    *typist.Typist
	seg    segment.Segmenter
	events Events

	capture    audio.CaptureDevice
	segCh      chan segment.Segment
	workerDone chan struct{}

	// feedMu serializes the capture callback against Stop's flush.
	feedMu  sync.Mutex
	feeding bool

	statMu       sync.Mutex
	utterances   int
	words        int
	skippedStart int
}

func New(actx audio.Context, device *audio.DeviceInfo, eng engine.Engine, typ *typist.Typist, seg segment.Segmenter, events Events, cfg Config) *Session {
	if events == nil {
		events = nopEvents{}
	}
	return &Session{
		actx:   actx,
		device: device,
		cfg:    cfg,
		eng:    eng,
		typ:    typ,
		seg:    seg,
		events: events,
	}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Toggle starts recording when idle and stops it when recording.
// Concurrent calls collapse onto one transition: the losers of the
// race hit the idempotent branch of Start or Stop.
func (s *Session) Toggle() error {
	if s.State() == StateRecording {
		return s.Stop()
	}
	return s.Start()
}

// Start opens the capture device and launches the transcription
// worker. Calling Start while already recording is a no-op.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateRecording:
		return nil
	case StateStopping:
		return fmt.Errorf("session is stopping")
	}

	capture, err := s.actx.NewCapture(s.device, audio.CaptureConfig{
		SampleRate: uint32(s.cfg.SampleRate),
		Channels:   1,
	})
	if err != nil {
		return fmt.Errorf("open capture: %w", err)
	}

	s.typ.Reset()
	s.seg.Reset()
	s.segCh = make(chan segment.Segment, segmentQueueLen)
	s.workerDone = make(chan struct{})
	s.statMu.Lock()
	s.utterances, s.words = 0, 0
	s.skippedStart = s.typ.Skipped()
	s.statMu.Unlock()

	s.feedMu.Lock()
	s.feeding = true
	s.feedMu.Unlock()

	capture.SetCallback(s.feed)
	if err := capture.Start(); err != nil {
		capture.ClearCallback()
		capture.Close()
		s.feedMu.Lock()
		s.feeding = false
		s.feedMu.Unlock()
		return fmt.Errorf("start capture: %w", err)
	}
	s.capture = capture

	go s.runWorker(s.segCh, s.workerDone)

	s.state = StateRecording
	log.SessionStart(s.eng.Name(), s.cfg.Policy, capture.DeviceName())
	s.events.RecordingStart()
	return nil
}

// Stop closes the microphone, flushes the segmenter's remainder to the
// worker, and waits for the worker to drain — bounded, so a hung
// engine call cannot wedge the hotkey. Calling Stop while idle is a
// no-op.
func (s *Session) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateRecording {
		return nil
	}
	s.state = StateStopping

	s.capture.Stop()
	s.capture.ClearCallback()
	s.capture.Close()
	s.capture = nil

	// No more capture callbacks can arrive. Flush what is buffered and
	// close the channel so the worker exits after the last segment.
	s.feedMu.Lock()
	s.feeding = false
	if seg, ok := s.seg.Flush(); ok {
		s.send(seg)
	}
	close(s.segCh)
	s.feedMu.Unlock()

	select {
	case <-s.workerDone:
	case <-time.After(s.cfg.joinTimeout()):
		// Leaking the worker beats blocking the UI forever; it will
		// finish or fail on its own and finds the channel closed.
		log.Warnf("transcription worker did not drain within %v, leaking it", s.cfg.joinTimeout())
	}

	s.statMu.Lock()
	summary := Summary{
		Utterances: s.utterances,
		Words:      s.words,
		Skipped:    s.typ.Skipped() - s.skippedStart,
	}
	s.statMu.Unlock()

	log.SessionEnd(summary.Utterances, summary.Words)
	s.events.RecordingStop(summary)
	s.state = StateIdle
	return nil
}
