//go:build linux

package typist

import "testing"

func TestCharToKeyCoversPrintableASCII(t *testing.T) {
	for c := byte(' '); c < 0x7f; c++ {
		if _, _, ok := charToKey(c); !ok {
			t.Errorf("no key for %q", c)
		}
	}
}

func TestCharToKeyRejectsMultibyteBytes(t *testing.T) {
	// Every byte of a multi-byte UTF-8 character is outside the keymap;
	// none of them may silently map to a key.
	const s = "é"
	for i := 0; i < len(s); i++ {
		if code, _, ok := charToKey(s[i]); ok {
			t.Errorf("byte %d of %q mapped to key %d", i, s, code)
		}
	}
}

func TestCheckTypeable(t *testing.T) {
	if err := checkTypeable("Hello, world! (42)\n"); err != nil {
		t.Fatalf("ASCII text rejected: %v", err)
	}
	if err := checkTypeable("café"); err == nil {
		t.Fatal("non-ASCII text accepted, would desync typed state")
	}
	if err := checkTypeable("\x07"); err == nil {
		t.Fatal("unmappable control character accepted")
	}
}
