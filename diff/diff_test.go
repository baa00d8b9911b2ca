package diff

import "testing"

func TestFirstTextNoBackspaces(t *testing.T) {
	s, ok := Calculate("", "Hello", 20)
	if !ok {
		t.Fatal("unexpected skip")
	}
	if s.Backspaces != 0 || s.Insert != "Hello" {
		t.Fatalf("got {%d, %q}", s.Backspaces, s.Insert)
	}
}

func TestAppendOnly(t *testing.T) {
	s, ok := Calculate("Hello", "Hello world", 20)
	if !ok {
		t.Fatal("unexpected skip")
	}
	if s.Backspaces != 0 || s.Insert != " world" {
		t.Fatalf("got {%d, %q}", s.Backspaces, s.Insert)
	}
}

func TestCorrectionNeeded(t *testing.T) {
	// Common prefix "I want": delete " to go" (6 chars), type "ed to go".
	s, ok := Calculate("I want to go", "I wanted to go", 20)
	if !ok {
		t.Fatal("unexpected skip")
	}
	if s.Backspaces != 6 || s.Insert != "ed to go" {
		t.Fatalf("got {%d, %q}", s.Backspaces, s.Insert)
	}
}

func TestCompleteReplacement(t *testing.T) {
	s, ok := Calculate("Hello", "Goodbye", 20)
	if !ok {
		t.Fatal("unexpected skip")
	}
	if s.Backspaces != 5 || s.Insert != "Goodbye" {
		t.Fatalf("got {%d, %q}", s.Backspaces, s.Insert)
	}
}

func TestIdenticalIsNoOpNotSkip(t *testing.T) {
	s, ok := Calculate("same text", "same text", 0)
	if !ok {
		t.Fatal("identical strings must not be skipped")
	}
	if s.Backspaces != 0 || s.Insert != "" {
		t.Fatalf("got {%d, %q}", s.Backspaces, s.Insert)
	}
}

func TestSkipLargeCorrection(t *testing.T) {
	last := ""
	hyp := ""
	for i := 0; i < 30; i++ {
		last += "A"
		hyp += "B"
	}
	if _, ok := Calculate(last, hyp, 20); ok {
		t.Fatal("expected skip for 30-char rewrite with cap 20")
	}
}

func TestSkipBoundary(t *testing.T) {
	// Exactly maxBackspaces is allowed; one more is not.
	if _, ok := Calculate("abcde", "abxxx", 3); !ok {
		t.Fatal("3 backspaces with cap 3 should apply")
	}
	if _, ok := Calculate("abcde", "axxxx", 3); ok {
		t.Fatal("4 backspaces with cap 3 should skip")
	}
}

func TestApplyYieldsHypothesis(t *testing.T) {
	cases := []struct{ last, hyp string }{
		{"", "Hi"},
		{"Hello", "Hello world"},
		{"I want to go", "I wanted to go"},
		{"Hello", "Goodbye"},
		{"héllo wörld", "héllo würde"},
		{"abc", ""},
	}
	for _, c := range cases {
		s, ok := Calculate(c.last, c.hyp, 1<<30)
		if !ok {
			t.Fatalf("Calculate(%q, %q) skipped", c.last, c.hyp)
		}
		last := []rune(c.last)
		applied := string(last[:len(last)-s.Backspaces]) + s.Insert
		if applied != c.hyp {
			t.Fatalf("applying %+v to %q gave %q, want %q", s, c.last, applied, c.hyp)
		}
	}
}

func TestTracker(t *testing.T) {
	var tr Tracker
	if tr.LastTyped() != "" {
		t.Fatal("tracker should start empty")
	}
	tr.Commit("Hello")
	if tr.LastTyped() != "Hello" {
		t.Fatalf("got %q", tr.LastTyped())
	}
	tr.Commit("Hello world")
	if tr.LastTyped() != "Hello world" {
		t.Fatalf("got %q", tr.LastTyped())
	}
	// Committed text diffed against itself is always a no-op.
	s, ok := Calculate(tr.LastTyped(), tr.LastTyped(), 0)
	if !ok || s.Backspaces != 0 || s.Insert != "" {
		t.Fatalf("got {%d, %q} ok=%v", s.Backspaces, s.Insert, ok)
	}
	tr.Reset()
	if tr.LastTyped() != "" {
		t.Fatal("reset should clear tracked text")
	}
	s, _ = Calculate(tr.LastTyped(), "Hi", 20)
	if s.Backspaces != 0 || s.Insert != "Hi" {
		t.Fatalf("got {%d, %q}", s.Backspaces, s.Insert)
	}
}
