package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"murmur/engine"
	"murmur/log"
	"murmur/segment"
	"murmur/typist"
)

// segmentQueueLen bounds how far capture can run ahead of the engine.
// Segments past that are dropped with a warning rather than stalling
// the capture thread.
const segmentQueueLen = 16

func (s *Session) feed(data []byte, _ uint32) {
	s.feedMu.Lock()
	defer s.feedMu.Unlock()
	if !s.feeding {
		return
	}
	s.events.AudioChunk(data)
	if seg, ok := s.seg.Push(data); ok {
		s.send(seg)
	}
}

// send must be called with feedMu held.
func (s *Session) send(seg segment.Segment) {
	select {
	case s.segCh <- seg:
	default:
		log.Warnf("segment queue full, dropping %v of audio", seg.Duration(s.cfg.SampleRate))
	}
}

func (s *Session) runWorker(segCh <-chan segment.Segment, done chan struct{}) {
	defer close(done)
	for seg := range segCh {
		if err := s.transcribe(seg); err != nil {
			log.Errorf("transcription failed: %v", err)
			s.events.EngineError(err)
			// The session cannot make progress without the engine.
			// Stop from a fresh goroutine; Stop joins this one.
			go s.Stop()
			return
		}
	}
}

// transcribe runs one segment through the engine and the typist.
// Interim hypotheses are reconciled as they arrive; the final one
// closes the utterance. Only engine failures propagate — typing
// trouble is logged and the session carries on.
func (s *Session) transcribe(seg segment.Segment) error {
	start := time.Now()

	var final string
	var err error
	if st, ok := s.eng.(engine.Streamer); ok {
		final, err = st.TranscribeStream(context.Background(), seg, func(hyp string) {
			s.events.Hypothesis(hyp)
			s.applyHypothesis(hyp)
		})
	} else {
		final, err = s.eng.Transcribe(context.Background(), seg)
	}
	if err != nil {
		return err
	}

	final = strings.TrimSpace(final)
	if final != "" {
		s.events.Hypothesis(final)
		s.applyHypothesis(final)
	}

	committed, ferr := s.typ.FinishUtterance()
	if ferr != nil {
		log.Warnf("finishing utterance: %v", ferr)
	}
	if committed == "" {
		return nil
	}

	s.statMu.Lock()
	s.utterances++
	s.words += len(strings.Fields(committed))
	s.statMu.Unlock()

	st := s.typ.TakeStats()
	log.TranscriptionText(committed)
	log.Transcription(log.Metrics{
		AudioS:      seg.Duration(s.cfg.SampleRate).Seconds(),
		TotalMs:     float64(time.Since(start).Milliseconds()),
		Chars:       len(committed),
		Backspaces:  st.Backspaces,
		Corrections: st.Corrections,
	}, s.eng.Name(), s.cfg.Policy)
	s.events.Utterance(committed)
	return nil
}

func (s *Session) applyHypothesis(hyp string) {
	switch err := s.typ.Reconcile(hyp); {
	case err == nil:
	case errors.Is(err, typist.ErrCorrectionSkipped):
		s.events.CorrectionSkipped()
	default:
		log.Warnf("typing hypothesis: %v", err)
	}
}
