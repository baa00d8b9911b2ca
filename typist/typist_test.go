package typist

import (
	"errors"
	"testing"
)

func TestReconcileTypesNewText(t *testing.T) {
	sink := NewFakeSink()
	ty := New(sink, 20)

	if err := ty.Reconcile("Hello"); err != nil {
		t.Fatal(err)
	}
	if sink.Screen() != "Hello" {
		t.Fatalf("screen = %q", sink.Screen())
	}
	if ty.LastTyped() != "Hello" {
		t.Fatalf("lastTyped = %q", ty.LastTyped())
	}
}

func TestReconcileCorrectsSuffix(t *testing.T) {
	sink := NewFakeSink()
	ty := New(sink, 20)

	for _, hyp := range []string{"I want to go", "I wanted to go"} {
		if err := ty.Reconcile(hyp); err != nil {
			t.Fatal(err)
		}
	}
	if sink.Screen() != "I wanted to go" {
		t.Fatalf("screen = %q", sink.Screen())
	}
	if sink.Ops() != "type,backspace,type" {
		t.Fatalf("ops = %q", sink.Ops())
	}
}

func TestReconcileDeleteBeforeInsertOrder(t *testing.T) {
	sink := NewFakeSink()
	ty := New(sink, 20)

	ty.Reconcile("Hello")
	ty.Reconcile("Goodbye")
	if sink.Screen() != "Goodbye" {
		t.Fatalf("screen = %q", sink.Screen())
	}
}

func TestReconcileIdenticalEmitsNothing(t *testing.T) {
	sink := NewFakeSink()
	ty := New(sink, 20)

	ty.Reconcile("stable text")
	ops := sink.Ops()
	if err := ty.Reconcile("stable text"); err != nil {
		t.Fatal(err)
	}
	if sink.Ops() != ops {
		t.Fatalf("no-op hypothesis emitted keystrokes: %q", sink.Ops())
	}
}

func TestReconcileEmptyHypothesisDropped(t *testing.T) {
	sink := NewFakeSink()
	ty := New(sink, 20)

	ty.Reconcile("Hello")
	if err := ty.Reconcile("   "); err != nil {
		t.Fatal(err)
	}
	if sink.Screen() != "Hello" || ty.LastTyped() != "Hello" {
		t.Fatalf("whitespace hypothesis mutated state: %q / %q", sink.Screen(), ty.LastTyped())
	}
}

func TestReconcileTrimsWhitespace(t *testing.T) {
	sink := NewFakeSink()
	ty := New(sink, 20)

	if err := ty.Reconcile("  Hello \n"); err != nil {
		t.Fatal(err)
	}
	if sink.Screen() != "Hello" {
		t.Fatalf("screen = %q", sink.Screen())
	}
}

func TestSkipLeavesStateUntouched(t *testing.T) {
	sink := NewFakeSink()
	ty := New(sink, 5)

	ty.Reconcile("aaaaaaaaaa")
	err := ty.Reconcile("bbbbbbbbbb")
	if !errors.Is(err, ErrCorrectionSkipped) {
		t.Fatalf("want ErrCorrectionSkipped, got %v", err)
	}
	if sink.Screen() != "aaaaaaaaaa" {
		t.Fatalf("screen = %q", sink.Screen())
	}
	if ty.LastTyped() != "aaaaaaaaaa" {
		t.Fatalf("lastTyped = %q", ty.LastTyped())
	}
	if ty.Skipped() != 1 {
		t.Fatalf("skipped = %d", ty.Skipped())
	}
}

func TestBackspaceFailureAbortsWithoutCommit(t *testing.T) {
	sink := NewFakeSink()
	ty := New(sink, 20)

	ty.Reconcile("Hello")
	sink.FailNext(1, errors.New("target unavailable"))

	if err := ty.Reconcile("Help"); err == nil {
		t.Fatal("expected sink error")
	}
	// lastTyped stays stale; nothing was inserted.
	if ty.LastTyped() != "Hello" {
		t.Fatalf("lastTyped = %q", ty.LastTyped())
	}
	if sink.Screen() != "Hello" {
		t.Fatalf("screen = %q", sink.Screen())
	}

	// Next hypothesis re-diffs against the stale state and self-corrects.
	if err := ty.Reconcile("Help"); err != nil {
		t.Fatal(err)
	}
	if sink.Screen() != "Help" {
		t.Fatalf("screen = %q", sink.Screen())
	}
}

func TestInsertFailureAbortsWithoutCommit(t *testing.T) {
	sink := NewFakeSink()
	ty := New(sink, 20)

	ty.Reconcile("Hi")
	// Append-only edit: the only sink call is the insert, which fails.
	sink.FailNext(1, errors.New("target unavailable"))
	if err := ty.Reconcile("Hi there"); err == nil {
		t.Fatal("expected sink error")
	}
	if ty.LastTyped() != "Hi" {
		t.Fatalf("lastTyped = %q", ty.LastTyped())
	}
}

func TestTakeStatsCountsCorrections(t *testing.T) {
	sink := NewFakeSink()
	ty := New(sink, 20)

	// "helo there" -> "hello there": common prefix "hel", 7 backspaces.
	ty.Reconcile("helo there")
	if err := ty.Reconcile("hello there"); err != nil {
		t.Fatal(err)
	}

	st := ty.TakeStats()
	if st.Backspaces != 7 || st.Corrections != 1 {
		t.Errorf("stats = %+v, want 7 backspaces, 1 correction", st)
	}
	if st := ty.TakeStats(); st != (Stats{}) {
		t.Errorf("second TakeStats = %+v, want zeroes", st)
	}

	// Append-only growth is not a correction.
	if err := ty.Reconcile("hello there friend"); err != nil {
		t.Fatal(err)
	}
	if st := ty.TakeStats(); st != (Stats{}) {
		t.Errorf("append-only stats = %+v, want zeroes", st)
	}
}

func TestFinishUtterance(t *testing.T) {
	sink := NewFakeSink()
	ty := New(sink, 20)

	ty.Reconcile("Hello world")
	text, err := ty.FinishUtterance()
	if err != nil {
		t.Fatal(err)
	}
	if text != "Hello world" {
		t.Fatalf("committed = %q", text)
	}
	if sink.Screen() != "Hello world " {
		t.Fatalf("screen = %q", sink.Screen())
	}
	if ty.LastTyped() != "" {
		t.Fatal("tracker should reset at utterance boundary")
	}

	// Empty utterance emits no separator.
	text, err = ty.FinishUtterance()
	if err != nil || text != "" {
		t.Fatalf("got %q, %v", text, err)
	}
	if sink.Screen() != "Hello world " {
		t.Fatalf("screen = %q", sink.Screen())
	}
}
