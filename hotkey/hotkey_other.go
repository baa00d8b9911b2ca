//go:build !linux

package hotkey

import (
	"fmt"
	"sync"

	"golang.design/x/hotkey"
)

type xHotkey struct {
	combo   Combo
	hk      *hotkey.Hotkey
	toggled chan struct{}
	stop    chan struct{}
	once    sync.Once
}

func New(combo Combo) Source {
	return &xHotkey{
		combo:   combo,
		toggled: make(chan struct{}, 1),
	}
}

func comboModifiers(c Combo) []hotkey.Modifier {
	var mods []hotkey.Modifier
	if c.Ctrl {
		mods = append(mods, hotkey.ModCtrl)
	}
	if c.Shift {
		mods = append(mods, hotkey.ModShift)
	}
	return mods
}

func comboKey(key string) (hotkey.Key, error) {
	switch {
	case key == "space":
		return hotkey.KeySpace, nil
	case len(key) == 1 && key[0] >= 'a' && key[0] <= 'z':
		return hotkey.KeyA + hotkey.Key(key[0]-'a'), nil
	case len(key) == 1 && key[0] >= '0' && key[0] <= '9':
		return hotkey.Key0 + hotkey.Key(key[0]-'0'), nil
	}
	return 0, fmt.Errorf("unsupported hotkey %q on this platform", key)
}

func (h *xHotkey) Register() error {
	if h.combo.Alt || h.combo.Super {
		return fmt.Errorf("alt/super modifiers are not supported on this platform")
	}
	key, err := comboKey(h.combo.Key)
	if err != nil {
		return err
	}
	h.hk = hotkey.New(comboModifiers(h.combo), key)
	if err := h.hk.Register(); err != nil {
		return err
	}
	h.stop = make(chan struct{})
	go func() {
		for {
			select {
			case <-h.stop:
				return
			case <-h.hk.Keydown():
				select {
				case h.toggled <- struct{}{}:
				default:
				}
			}
		}
	}()
	return nil
}

func (h *xHotkey) Unregister() {
	h.once.Do(func() {
		if h.stop != nil {
			close(h.stop)
		}
		if h.hk != nil {
			h.hk.Unregister()
		}
	})
}

func (h *xHotkey) Toggled() <-chan struct{} {
	return h.toggled
}

func Diagnose() (string, error) {
	return "hotkey support available", nil
}
