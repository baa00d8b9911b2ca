//go:build linux

package hotkey

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const (
	evKey      = 1
	keyPress   = 1
	keyRelease = 0

	keyLCtrl  = 29
	keyRCtrl  = 97
	keyLShift = 42
	keyRShift = 54
	keyLAlt   = 56
	keyRAlt   = 100
	keyLMeta  = 125
	keyRMeta  = 126
	keySpace  = 57
)

const inputEventSize = 24

// evdev letter codes follow keyboard rows, not the alphabet.
var letterCodes = [26]uint16{
	30, 48, 46, 32, 18, 33, 34, 35, 23, 36,
	37, 38, 50, 49, 24, 25, 16, 19, 31, 20,
	22, 47, 17, 45, 21, 44,
}

// 0=11, 1=2, ..., 9=10
var digitCodes = [10]uint16{11, 2, 3, 4, 5, 6, 7, 8, 9, 10}

func comboKeyCode(key string) (uint16, error) {
	switch {
	case key == "space":
		return keySpace, nil
	case len(key) == 1 && key[0] >= 'a' && key[0] <= 'z':
		return letterCodes[key[0]-'a'], nil
	case len(key) == 1 && key[0] >= '0' && key[0] <= '9':
		return digitCodes[key[0]-'0'], nil
	}
	return 0, fmt.Errorf("no evdev code for key %q", key)
}

type linuxHotkey struct {
	combo   Combo
	keyCode uint16
	toggled chan struct{}
	files   []*os.File
	stop    chan struct{}
	once    sync.Once
}

func New(combo Combo) Source {
	return &linuxHotkey{
		combo:   combo,
		toggled: make(chan struct{}, 1),
	}
}

func (h *linuxHotkey) Register() error {
	code, err := comboKeyCode(h.combo.Key)
	if err != nil {
		return err
	}
	h.keyCode = code

	keyboards, err := findKeyboards()
	if err != nil {
		return fmt.Errorf("finding keyboards: %w", err)
	}
	if len(keyboards) == 0 {
		return fmt.Errorf("no keyboard devices found (is user in 'input' group?)")
	}

	h.stop = make(chan struct{})

	for _, path := range keyboards {
		f, err := os.Open(path)
		if err != nil {
			continue
		}
		h.files = append(h.files, f)
		go h.readEvents(f)
	}

	if len(h.files) == 0 {
		return fmt.Errorf("could not open any keyboard device (run: sudo usermod -aG input $USER, then re-login)")
	}

	return nil
}

type modState struct {
	ctrl, shift, alt, super bool
}

func (m *modState) track(code uint16, pressed bool) {
	switch code {
	case keyLCtrl, keyRCtrl:
		m.ctrl = pressed
	case keyLShift, keyRShift:
		m.shift = pressed
	case keyLAlt, keyRAlt:
		m.alt = pressed
	case keyLMeta, keyRMeta:
		m.super = pressed
	}
}

func (m modState) satisfies(c Combo) bool {
	return (!c.Ctrl || m.ctrl) && (!c.Shift || m.shift) &&
		(!c.Alt || m.alt) && (!c.Super || m.super)
}

func (h *linuxHotkey) readEvents(f *os.File) {
	buf := make([]byte, inputEventSize*16)
	var mods modState
	var held bool

	for {
		select {
		case <-h.stop:
			return
		default:
		}

		n, err := f.Read(buf)
		if err != nil {
			return
		}

		for i := 0; i+inputEventSize <= n; i += inputEventSize {
			evType := binary.LittleEndian.Uint16(buf[i+16:])
			evCode := binary.LittleEndian.Uint16(buf[i+18:])
			evValue := int32(binary.LittleEndian.Uint32(buf[i+20:]))

			if evType != evKey {
				continue
			}

			pressed := evValue == keyPress
			released := evValue == keyRelease
			if !pressed && !released {
				continue // key repeat
			}

			if evCode == h.keyCode {
				if pressed && !held && mods.satisfies(h.combo) {
					held = true
					select {
					case h.toggled <- struct{}{}:
					default:
					}
				} else if released {
					held = false
				}
				continue
			}
			mods.track(evCode, pressed)
		}
	}
}

func (h *linuxHotkey) Unregister() {
	h.once.Do(func() {
		if h.stop != nil {
			close(h.stop)
		}
		for _, f := range h.files {
			f.Close()
		}
	})
}

func (h *linuxHotkey) Toggled() <-chan struct{} {
	return h.toggled
}

func findKeyboards() ([]string, error) {
	entries, err := os.ReadDir("/dev/input")
	if err != nil {
		return nil, err
	}

	var keyboards []string
	for _, e := range entries {
		if !strings.HasPrefix(e.Name(), "event") {
			continue
		}
		if isKeyboard(e.Name()) {
			keyboards = append(keyboards, filepath.Join("/dev/input", e.Name()))
		}
	}
	return keyboards, nil
}

// isKeyboard checks the key capability bitmask; real keyboards report a
// long mask, mice and buttons a short one.
func isKeyboard(eventName string) bool {
	capsPath := filepath.Join("/sys/class/input", eventName, "device", "capabilities", "key")
	data, err := os.ReadFile(capsPath)
	if err != nil {
		return false
	}
	caps := strings.TrimSpace(string(data))
	return len(caps) > 10
}

// Diagnose reports whether the hotkey listener can work on this machine.
func Diagnose() (string, error) {
	keyboards, err := findKeyboards()
	if err != nil {
		return "", fmt.Errorf("cannot scan input devices: %w", err)
	}
	if len(keyboards) == 0 {
		return "", fmt.Errorf("no keyboard devices found (is user in 'input' group?)")
	}

	var opened string
	for _, path := range keyboards {
		f, err := os.Open(path)
		if err == nil {
			f.Close()
			opened = path
			break
		}
	}
	if opened == "" {
		return "", fmt.Errorf("found %d keyboard(s) but cannot open any (run: sudo usermod -aG input $USER)", len(keyboards))
	}

	return fmt.Sprintf("%d keyboard(s) found, opened %s", len(keyboards), opened), nil
}
