//go:build linux

package typist

import (
	"encoding/binary"
	"errors"
	"os"
	"sync"
	"syscall"
	"time"
)

// ioctl constants from linux/uinput.h
const (
	uiSetEvbit  = 0x40045564 // UI_SET_EVBIT
	uiSetKeybit = 0x40045565 // UI_SET_KEYBIT
	uiDevCreate = 0x5501     // UI_DEV_CREATE
)

// input event types from linux/input-event-codes.h
const (
	evSyn = 0x00
	evKey = 0x01
)

const (
	busUSB       = 0x03
	keyBackspace = 14
	keyLShift    = 42
)

type inputEvent struct {
	Time  syscall.Timeval
	Type  uint16
	Code  uint16
	Value int32
}

type inputID struct {
	Bustype uint16
	Vendor  uint16
	Product uint16
	Version uint16
}

type uinputUserDev struct {
	Name         [80]byte
	ID           inputID
	FfEffectsMax uint32
	Absmax       [64]int32
	Absmin       [64]int32
	Absfuzz      [64]int32
	Absflat      [64]int32
}

// UinputSink types through a virtual keyboard created on /dev/uinput.
// The device registers every standard key so udev classifies it as a
// real keyboard.
type UinputSink struct {
	mu sync.Mutex
	fd *os.File
}

// NewUinput creates the virtual keyboard. The caller needs write access
// to /dev/uinput (input group membership or a udev rule).
func NewUinput() (*UinputSink, error) {
	path := "/dev/uinput"
	if _, err := os.Stat(path); err != nil {
		path = "/dev/input/uinput"
		if _, err := os.Stat(path); err != nil {
			return nil, errors.New("uinput device not found, try: sudo modprobe uinput")
		}
	}
	f, err := os.OpenFile(path, os.O_WRONLY|syscall.O_NONBLOCK, os.ModeDevice)
	if err != nil {
		return nil, err
	}
	if _, _, errno := syscall.Syscall(syscall.SYS_IOCTL, f.Fd(), uiSetEvbit, evKey); errno != 0 {
		f.Close()
		return nil, errno
	}
	if _, _, errno := syscall.Syscall(syscall.SYS_IOCTL, f.Fd(), uiSetEvbit, evSyn); errno != 0 {
		f.Close()
		return nil, errno
	}
	for i := uintptr(0); i < 256; i++ {
		if _, _, errno := syscall.Syscall(syscall.SYS_IOCTL, f.Fd(), uiSetKeybit, i); errno != 0 {
			f.Close()
			return nil, errno
		}
	}
	dev := uinputUserDev{}
	copy(dev.Name[:], "murmur-typist")
	dev.ID.Bustype = busUSB
	dev.ID.Vendor = 0x1234
	dev.ID.Product = 0x5678
	dev.ID.Version = 1
	if err := binary.Write(f, binary.LittleEndian, &dev); err != nil {
		f.Close()
		return nil, err
	}
	if _, _, errno := syscall.Syscall(syscall.SYS_IOCTL, f.Fd(), uiDevCreate, 0); errno != 0 {
		f.Close()
		return nil, errno
	}
	// Give the compositor time to recognize the new input device
	time.Sleep(200 * time.Millisecond)
	return &UinputSink{fd: f}, nil
}

func (s *UinputSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fd == nil {
		return nil
	}
	err := s.fd.Close()
	s.fd = nil
	return err
}

func (s *UinputSink) writeEvent(typ, code uint16, value int32) error {
	ev := inputEvent{Type: typ, Code: code, Value: value}
	return binary.Write(s.fd, binary.LittleEndian, &ev)
}

func (s *UinputSink) syn() error {
	return s.writeEvent(evSyn, 0, 0)
}

func (s *UinputSink) keyTap(code uint16, shift bool) error {
	if shift {
		if err := s.writeEvent(evKey, keyLShift, 1); err != nil {
			return err
		}
		if err := s.syn(); err != nil {
			return err
		}
	}
	if err := s.writeEvent(evKey, code, 1); err != nil {
		return err
	}
	if err := s.syn(); err != nil {
		return err
	}
	if err := s.writeEvent(evKey, code, 0); err != nil {
		return err
	}
	if err := s.syn(); err != nil {
		return err
	}
	if shift {
		if err := s.writeEvent(evKey, keyLShift, 0); err != nil {
			return err
		}
		return s.syn()
	}
	return nil
}

func (s *UinputSink) Backspace(count int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fd == nil {
		return errors.New("uinput sink closed")
	}
	for i := 0; i < count; i++ {
		if err := s.keyTap(keyBackspace, false); err != nil {
			return err
		}
	}
	return nil
}

func (s *UinputSink) Type(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fd == nil {
		return errors.New("uinput sink closed")
	}
	if err := checkTypeable(text); err != nil {
		return err
	}
	for i := 0; i < len(text); i++ {
		code, shift, _ := charToKey(text[i])
		if err := s.keyTap(code, shift); err != nil {
			return err
		}
	}
	return nil
}
