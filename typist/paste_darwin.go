//go:build darwin

package typist

import (
	"fmt"
	"sync"
	"time"

	cb "github.com/atotto/clipboard"
	"github.com/micmonay/keybd_event"
)

// PasteSink types by copying text to the clipboard and sending Cmd+V,
// and deletes with synthetic delete taps.
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
	s.kb.SetKeys(keybd_event.VK_DELETE)
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
	time.Sleep(5 * time.Millisecond)
	s.kb.Clear()
	s.kb.SetKeys(keybd_event.VK_V)
	s.kb.HasSuper(true) // Cmd+V on macOS
	return s.kb.Launching()
}
