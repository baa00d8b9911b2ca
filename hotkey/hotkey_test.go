package hotkey

import "testing"

func TestParseCombo(t *testing.T) {
	tests := []struct {
		in   string
		want Combo
	}{
		{"ctrl+shift+space", Combo{Ctrl: true, Shift: true, Key: "space"}},
		{"ctrl+alt+d", Combo{Ctrl: true, Alt: true, Key: "d"}},
		{"super+3", Combo{Super: true, Key: "3"}},
		{"cmd+space", Combo{Super: true, Key: "space"}},
		{" Ctrl+Shift+Space ", Combo{Ctrl: true, Shift: true, Key: "space"}},
	}
	for _, tt := range tests {
		got, err := ParseCombo(tt.in)
		if err != nil {
			t.Fatalf("ParseCombo(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseCombo(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestParseComboErrors(t *testing.T) {
	for _, in := range []string{"", "space", "ctrl+", "ctrl+f12", "hyper+space"} {
		if _, err := ParseCombo(in); err == nil {
			t.Errorf("ParseCombo(%q): expected error", in)
		}
	}
}

func TestComboString(t *testing.T) {
	c, _ := ParseCombo("ctrl+shift+space")
	if got := c.String(); got != "ctrl+shift+space" {
		t.Errorf("String() = %q", got)
	}
}

func TestFakeSourceToggle(t *testing.T) {
	f := NewFake()
	if err := f.Register(); err != nil {
		t.Fatal(err)
	}
	f.SimToggle()
	select {
	case <-f.Toggled():
	default:
		t.Fatal("expected a pending toggle")
	}
}
