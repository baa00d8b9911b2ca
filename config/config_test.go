package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"), false)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Typing.MaxBackspaces != 20 {
		t.Errorf("MaxBackspaces = %d, want 20", cfg.Typing.MaxBackspaces)
	}
	if cfg.Segment.Policy != "silence" {
		t.Errorf("Policy = %q, want silence", cfg.Segment.Policy)
	}
	if cfg.Hotkey.Combo != "ctrl+shift+space" {
		t.Errorf("Combo = %q", cfg.Hotkey.Combo)
	}
}

func TestLoadMissingExplicitFileFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml"), true); err == nil {
		t.Fatal("expected error for explicit missing file")
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `
[segment]
policy = "interval"
interval_ms = 2000
peak_threshold = 0.02

[typing]
max_backspaces = 40
sink = "paste"

[engine]
provider = "deepgram"
language = "en"
`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path, true)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Segment.Policy != "interval" {
		t.Errorf("Policy = %q", cfg.Segment.Policy)
	}
	if cfg.Interval() != 2*time.Second {
		t.Errorf("Interval = %v", cfg.Interval())
	}
	if cfg.Typing.MaxBackspaces != 40 {
		t.Errorf("MaxBackspaces = %d", cfg.Typing.MaxBackspaces)
	}
	if cfg.Engine.Provider != "deepgram" {
		t.Errorf("Provider = %q", cfg.Engine.Provider)
	}
	// untouched sections keep defaults
	if cfg.Audio.SampleRate != 16000 {
		t.Errorf("SampleRate = %d", cfg.Audio.SampleRate)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := []string{
		"[segment]\npolicy = \"vad\"\n",
		"[typing]\nmax_backspaces = -1\n",
		"[typing]\nsink = \"telepathy\"\n",
		"[engine]\nprovider = \"whisper-local\"\n",
		"[segment]\nvad_mode = 7\n",
	}
	for _, body := range cases {
		path := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(path, []byte(body), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(path, true); err == nil {
			t.Errorf("expected validation error for %q", body)
		}
	}
}
