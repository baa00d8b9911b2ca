// Package config loads the optional TOML config file. Flags in main
// override whatever is set here; missing file means defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Audio   Audio   `toml:"audio"`
	Segment Segment `toml:"segment"`
	Typing  Typing  `toml:"typing"`
	Engine  Engine  `toml:"engine"`
	Hotkey  Hotkey  `toml:"hotkey"`
	Daemon  Daemon  `toml:"daemon"`
}

type Audio struct {
	Device     string `toml:"device"`
	SampleRate int    `toml:"sample_rate"`
}

type Segment struct {
	Policy        string  `toml:"policy"` // "silence" or "interval"
	SilenceMs     int     `toml:"silence_ms"`
	VADMode       int     `toml:"vad_mode"`
	IntervalMs    int     `toml:"interval_ms"`
	PeakThreshold float64 `toml:"peak_threshold"`
}

type Typing struct {
	MaxBackspaces int    `toml:"max_backspaces"`
	Sink          string `toml:"sink"` // "", "uinput", "paste"
}

type Engine struct {
	Provider  string `toml:"provider"` // "", "groq", "deepgram"
	Language  string `toml:"language"`
	TimeoutMs int    `toml:"timeout_ms"`
}

type Hotkey struct {
	Combo string `toml:"combo"`
}

type Daemon struct {
	PIDFile    string `toml:"pid_file"`
	MarkerFile string `toml:"marker_file"`
}

func Default() Config {
	return Config{
		Audio:   Audio{SampleRate: 16000},
		Segment: Segment{Policy: "silence", SilenceMs: 1500, VADMode: 2, IntervalMs: 1500, PeakThreshold: 0.01},
		Typing:  Typing{MaxBackspaces: 20},
		Engine:  Engine{TimeoutMs: 30000},
		Hotkey:  Hotkey{Combo: "ctrl+shift+space"},
		Daemon: Daemon{
			PIDFile:    filepath.Join(os.TempDir(), "murmur.pid"),
			MarkerFile: filepath.Join(os.TempDir(), "murmur-toggle"),
		},
	}
}

// DefaultPath returns the conventional config location; the file does
// not have to exist.
func DefaultPath() string {
	xdg := os.Getenv("XDG_CONFIG_HOME")
	if xdg == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		xdg = filepath.Join(home, ".config")
	}
	return filepath.Join(xdg, "murmur", "config.toml")
}

// Load reads path over the defaults. A missing file is not an error
// unless the path was set explicitly.
func Load(path string, explicit bool) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Segment.Policy {
	case "silence", "interval":
	default:
		return fmt.Errorf("segment.policy must be \"silence\" or \"interval\", got %q", c.Segment.Policy)
	}
	if c.Typing.MaxBackspaces < 0 {
		return fmt.Errorf("typing.max_backspaces must be >= 0")
	}
	switch c.Typing.Sink {
	case "", "uinput", "paste":
	default:
		return fmt.Errorf("unknown typing.sink %q", c.Typing.Sink)
	}
	switch c.Engine.Provider {
	case "", "groq", "deepgram":
	default:
		return fmt.Errorf("unknown engine.provider %q", c.Engine.Provider)
	}
	if c.Audio.SampleRate <= 0 {
		return fmt.Errorf("audio.sample_rate must be positive")
	}
	if c.Segment.VADMode < 0 || c.Segment.VADMode > 3 {
		return fmt.Errorf("segment.vad_mode must be 0..3")
	}
	return nil
}

func (c Config) EngineTimeout() time.Duration {
	return time.Duration(c.Engine.TimeoutMs) * time.Millisecond
}

func (c Config) SilenceDur() time.Duration {
	return time.Duration(c.Segment.SilenceMs) * time.Millisecond
}

func (c Config) Interval() time.Duration {
	return time.Duration(c.Segment.IntervalMs) * time.Millisecond
}
