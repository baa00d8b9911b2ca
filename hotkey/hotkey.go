// Package hotkey delivers global toggle keypresses. The Linux backend
// reads evdev devices directly (works on Wayland); other platforms go
// through golang.design/x/hotkey.
package hotkey

import (
	"fmt"
	"strings"
)

// Source fires once on Toggled for every press of the configured
// combination. Events are dropped, not queued, while a previous one is
// still pending.
type Source interface {
	Register() error
	Unregister()
	Toggled() <-chan struct{}
}

// Combo is a parsed key combination like "ctrl+shift+space".
type Combo struct {
	Ctrl  bool
	Shift bool
	Alt   bool
	Super bool
	Key   string // "space", "a".."z", "0".."9"
}

const DefaultCombo = "ctrl+shift+space"

// ParseCombo parses "mod+...+key" with mods ctrl, shift, alt, super.
func ParseCombo(s string) (Combo, error) {
	var c Combo
	parts := strings.Split(strings.ToLower(strings.TrimSpace(s)), "+")
	if len(parts) == 0 || parts[len(parts)-1] == "" {
		return c, fmt.Errorf("empty hotkey combo")
	}
	for _, mod := range parts[:len(parts)-1] {
		switch mod {
		case "ctrl":
			c.Ctrl = true
		case "shift":
			c.Shift = true
		case "alt":
			c.Alt = true
		case "super", "cmd", "win":
			c.Super = true
		default:
			return c, fmt.Errorf("unknown modifier %q in combo %q", mod, s)
		}
	}
	key := parts[len(parts)-1]
	switch {
	case key == "space":
	case len(key) == 1 && (key[0] >= 'a' && key[0] <= 'z' || key[0] >= '0' && key[0] <= '9'):
	default:
		return c, fmt.Errorf("unsupported key %q in combo %q", key, s)
	}
	if !c.Ctrl && !c.Shift && !c.Alt && !c.Super {
		return c, fmt.Errorf("combo %q needs at least one modifier", s)
	}
	c.Key = key
	return c, nil
}

func (c Combo) String() string {
	var parts []string
	if c.Ctrl {
		parts = append(parts, "ctrl")
	}
	if c.Shift {
		parts = append(parts, "shift")
	}
	if c.Alt {
		parts = append(parts, "alt")
	}
	if c.Super {
		parts = append(parts, "super")
	}
	parts = append(parts, c.Key)
	return strings.Join(parts, "+")
}
