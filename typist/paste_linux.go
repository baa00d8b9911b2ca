//go:build linux

package typist

import (
	"fmt"
	"sync"
	"time"

	cb "github.com/atotto/clipboard"
	"github.com/micmonay/keybd_event"
)

// PasteSink types by copying text to the clipboard and sending Ctrl+V,
// and deletes with synthetic backspace taps. Useful where the uinput
// character map falls short (non-ASCII text) at the cost of clobbering
// the clipboard.
type PasteSink struct {
	mu sync.Mutex
	kb keybd_event.KeyBonding
}

func NewPaste() (*PasteSink, error) {
	kb, err := keybd_event.NewKeyBonding()
	if err != nil {
		return nil, fmt.Errorf("keybd init: %w", err)
	}
	return &PasteSink{kb: kb}, nil
}

func (s *PasteSink) Backspace(count int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.kb.Clear()
	s.kb.SetKeys(keybd_event.VK_BACKSPACE)
	for i := 0; i < count; i++ {
		if err := s.kb.Launching(); err != nil {
			return err
		}
	}
	return nil
}

func (s *PasteSink) Type(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := cb.WriteAll(text); err != nil {
		return fmt.Errorf("clipboard: %w", err)
	}
	// Let the clipboard owner settle before the compositor sees Ctrl+V.
	time.Sleep(5 * time.Millisecond)
	s.kb.Clear()
	s.kb.SetKeys(keybd_event.VK_V)
	s.kb.HasCTRL(true)
	return s.kb.Launching()
}
