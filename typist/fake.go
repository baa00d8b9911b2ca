package typist

import (
	"strings"
	"sync"
)

// FakeSink records keystroke operations for tests and can be told to
// fail the next N calls.
type FakeSink struct {
	mu       sync.Mutex
	screen   []rune
	ops      []string
	failNext int
	failErr  error
}

func NewFakeSink() *FakeSink { return &FakeSink{} }

// FailNext makes the next n sink calls return err.
func (f *FakeSink) FailNext(n int, err error) {
	f.mu.Lock()
	f.failNext = n
	f.failErr = err
	f.mu.Unlock()
}

func (f *FakeSink) Backspace(count int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failNext > 0 {
		f.failNext--
		return f.failErr
	}
	if count > len(f.screen) {
		count = len(f.screen)
	}
	f.screen = f.screen[:len(f.screen)-count]
	f.ops = append(f.ops, "backspace")
	return nil
}

func (f *FakeSink) Type(text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failNext > 0 {
		f.failNext--
		return f.failErr
	}
	f.screen = append(f.screen, []rune(text)...)
	f.ops = append(f.ops, "type")
	return nil
}

// Screen returns the visible text as the focused application would see it.
func (f *FakeSink) Screen() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return string(f.screen)
}

// Ops returns the sequence of operations, e.g. "backspace,type".
func (f *FakeSink) Ops() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return strings.Join(f.ops, ",")
}
