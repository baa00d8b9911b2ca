// Package typist applies transcription hypotheses to the focused
// application as keystrokes, correcting previously typed text in place.
package typist

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"murmur/diff"
	"murmur/log"
)

// Sink injects keystrokes into the focused application. Both calls may
// fail transiently (target unavailable); failures are reported, not
// retried.
type Sink interface {
	Backspace(count int) error
	Type(text string) error
}

// ErrCorrectionSkipped signals that a hypothesis revision needed more
// backspaces than the configured cap and was dropped. Not an error in
// the fatal sense; callers log it and carry on.
var ErrCorrectionSkipped = errors.New("correction skipped: exceeds backspace cap")

// Typist owns the reconciliation pipeline for one utterance at a time.
// All methods are safe for concurrent use, though in practice only the
// transcription worker calls Reconcile.
// Stats counts sink activity accumulated since the last TakeStats.
type Stats struct {
	Backspaces  int
	Corrections int
}

type Typist struct {
	mu            sync.Mutex
	sink          Sink
	tracker       diff.Tracker
	maxBackspaces int
	skipped       int
	stats         Stats
}

func New(sink Sink, maxBackspaces int) *Typist {
	return &Typist{sink: sink, maxBackspaces: maxBackspaces}
}

// Reconcile diffs the hypothesis against what has been typed so far and
// applies the edit: backspaces first, then the new suffix. The tracked
// state is only committed once the sink has accepted both halves, so a
// sink failure leaves it stale and the next hypothesis re-diffs against
// the stale text.
func (t *Typist) Reconcile(hypothesis string) error {
	hypothesis = strings.TrimSpace(hypothesis)
	if hypothesis == "" {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	script, ok := diff.Calculate(t.tracker.LastTyped(), hypothesis, t.maxBackspaces)
	if !ok {
		t.skipped++
		log.CorrectionSkipped(script.Backspaces, t.maxBackspaces)
		return ErrCorrectionSkipped
	}
	// Delete fully before inserting anything: the sink processes keys
	// in issue order.
	if script.Backspaces > 0 {
		if err := t.sink.Backspace(script.Backspaces); err != nil {
			return fmt.Errorf("backspace x%d: %w", script.Backspaces, err)
		}
	}
	if script.Insert != "" {
		if err := t.sink.Type(script.Insert); err != nil {
			return fmt.Errorf("type %d chars: %w", len(script.Insert), err)
		}
	}
	t.tracker.Commit(hypothesis)
	if script.Backspaces > 0 {
		t.stats.Backspaces += script.Backspaces
		t.stats.Corrections++
	}
	return nil
}

// FinishUtterance closes out the current utterance: if anything was
// committed it types one separating space, then resets tracking so the
// next utterance starts from empty. Returns the committed text.
func (t *Typist) FinishUtterance() (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	committed := t.tracker.LastTyped()
	t.tracker.Reset()
	if committed == "" {
		return "", nil
	}
	if err := t.sink.Type(" "); err != nil {
		return committed, fmt.Errorf("utterance separator: %w", err)
	}
	return committed, nil
}

// TakeStats returns the correction counters accumulated since the last
// call and zeroes them. The worker reads it once per utterance.
func (t *Typist) TakeStats() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()
	st := t.stats
	t.stats = Stats{}
	return st
}

// Reset drops tracked state without emitting anything. Called when a
// recording starts.
func (t *Typist) Reset() {
	t.mu.Lock()
	t.tracker.Reset()
	t.stats = Stats{}
	t.mu.Unlock()
}

// LastTyped returns the text committed for the current utterance.
func (t *Typist) LastTyped() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.tracker.LastTyped()
}

// Skipped reports how many corrections were dropped by the cap.
func (t *Typist) Skipped() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.skipped
}
