package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"sync"
	"time"

	"murmur/audio"
	"murmur/beep"
	"murmur/config"
	"murmur/doctor"
	"murmur/engine"
	"murmur/hotkey"
	"murmur/log"
	"murmur/login"
	"murmur/notify"
	"murmur/segment"
	"murmur/session"
	"murmur/shutdown"
	"murmur/typist"
	"murmur/update"
)

var version = "dev"

var shutdownOnce sync.Once

func gracefulShutdown(sess *session.Session) {
	shutdownOnce.Do(func() {
		if sess != nil {
			sess.Stop()
		}
		removePIDFile()
		log.Close()
		if uiProgram != nil {
			uiProgram.Quit()
		}
		os.Exit(0)
	})
}

func run() {
	if len(os.Args) > 1 && os.Args[1] == "update" {
		runUpdate()
		return
	}

	configFlag := flag.String("config", "", "config file path (default: ~/.config/murmur/config.toml)")
	setupFlag := flag.Bool("setup", false, "Select microphone device (otherwise uses system default)")
	deviceFlag := flag.String("device", "", "Use named microphone device")
	policyFlag := flag.String("policy", "", "Segmentation policy: silence or interval")
	sinkFlag := flag.String("sink", "", "Keystroke sink: uinput or paste")
	langFlag := flag.String("lang", "", "Language code for transcription (e.g., en, es, fr). Empty = auto-detect")
	backspacesFlag := flag.Int("maxbackspaces", -1, "Max backspaces per live correction (skip larger revisions)")
	comboFlag := flag.String("hotkey", "", "Toggle hotkey combo (e.g., ctrl+shift+space)")
	logPathFlag := flag.String("logpath", "", "log directory path (default: OS-specific location, use ./ for current dir)")
	tuiFlag := flag.Bool("tui", true, "Run with terminal UI")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	doctorFlag := flag.Bool("doctor", false, "Run interactive system diagnostics and exit")
	autostartFlag := flag.String("autostart", "", "Manage start-at-login: on, off, or status")
	testFlag := flag.Bool("test", false, "Replay a WAV file through the pipeline and exit")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("murmur %s\n", version)
		os.Exit(0)
	}

	switch *autostartFlag {
	case "":
	case "on":
		if err := login.Enable(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("murmur will start at login.")
		os.Exit(0)
	case "off":
		if err := login.Disable(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Start at login disabled.")
		os.Exit(0)
	case "status":
		if login.Enabled() {
			fmt.Println("Start at login: enabled")
		} else {
			fmt.Println("Start at login: disabled")
		}
		os.Exit(0)
	default:
		fmt.Fprintln(os.Stderr, "Error: -autostart takes on, off, or status")
		os.Exit(1)
	}

	// Resolve log directory early
	logPath, err := log.ResolveDir(*logPathFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to resolve log directory: %v\n", err)
		os.Exit(1)
	}
	log.SetDir(logPath)
	if err := log.EnsureDir(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not create log directory: %v\n", err)
	}

	crashPath := filepath.Join(log.Dir(), "crash_log.txt")
	crashFile, err := os.OpenFile(crashPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err == nil {
		fmt.Fprintf(crashFile, "\n=== Session %s [pid=%d] ===\n", time.Now().Format("2006-01-02 15:04:05"), os.Getpid())
		debug.SetCrashOutput(crashFile, debug.CrashOptions{})
	}

	cfgPath := *configFlag
	if cfgPath == "" {
		cfgPath = config.DefaultPath()
	}
	cfg, err := config.Load(cfgPath, *configFlag != "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Flags win over the config file
	if *deviceFlag != "" {
		cfg.Audio.Device = *deviceFlag
	}
	if *policyFlag != "" {
		cfg.Segment.Policy = *policyFlag
	}
	if *sinkFlag != "" {
		cfg.Typing.Sink = *sinkFlag
	}
	if *langFlag != "" {
		cfg.Engine.Language = *langFlag
	}
	if *backspacesFlag >= 0 {
		cfg.Typing.MaxBackspaces = *backspacesFlag
	}
	if *comboFlag != "" {
		cfg.Hotkey.Combo = *comboFlag
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *doctorFlag {
		os.Exit(doctor.Run(cfg))
	}

	eng, err := newEngine(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := log.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not init logging: %v\n", err)
	}

	if *testFlag {
		args := flag.Args()
		if len(args) == 0 {
			fmt.Fprintln(os.Stderr, "Usage: murmur -test <wav-file>")
			os.Exit(1)
		}
		runTestMode(args[0], cfg, eng)
		return
	}

	actx, err := audio.NewContext()
	if err != nil {
		log.Errorf("audio context init error: %v", err)
		fmt.Fprintf(os.Stderr, "Error initializing audio: %v\n", err)
		os.Exit(1)
	}
	defer actx.Close()

	selectedDevice := resolveDevice(actx, cfg.Audio.Device, *setupFlag)

	sink, err := typist.NewSink(cfg.Typing.Sink)
	if err != nil {
		log.Errorf("sink init error: %v", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "On Linux: sudo chmod 660 /dev/uinput && sudo chgrp input /dev/uinput, or use -sink paste")
		os.Exit(1)
	}
	typ := typist.New(sink, cfg.Typing.MaxBackspaces)

	combo, err := hotkey.ParseCombo(cfg.Hotkey.Combo)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var events session.Events
	if *tuiFlag {
		events = startUI(cfg, eng, combo, selectedDevice)
	}

	seg, err := newSegmenter(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "segmenter: %v\n", err)
		os.Exit(1)
	}

	sess := session.New(actx, selectedDevice, eng, typ, seg, events, session.Config{
		SampleRate: cfg.Audio.SampleRate,
		Policy:     cfg.Segment.Policy,
	})

	hk := hotkey.New(combo)
	if err := hk.Register(); err != nil {
		log.Errorf("hotkey register error: %v", err)
		fmt.Fprintf(os.Stderr, "Error registering hotkey: %v\n", err)
		os.Exit(1)
	}
	defer hk.Unregister()

	// Daemon control plane: SIGUSR1 and the marker file toggle exactly
	// like the hotkey does.
	controlToggle := startControl(cfg.Daemon)

	sigChan := make(chan os.Signal, 1)
	shutdown.Notify(sigChan)

	go beep.Init()

	update.CheckOnStartup(version, log.Dir(), func(rel update.Release) {
		log.Infof("update available: %s", rel.Version)
		notify.Send("murmur", fmt.Sprintf("update %s available (run: murmur update)", rel.Version))
	})

	log.Infof("ready: hotkey=%s engine=%s policy=%s sink=%s", combo, eng.Name(), cfg.Segment.Policy, cfg.Typing.Sink)

	for {
		select {
		case <-hk.Toggled():
			toggle(sess)
		case <-controlToggle:
			toggle(sess)
		case <-sigChan:
			gracefulShutdown(sess)
			return
		case <-uiDone:
			gracefulShutdown(sess)
			return
		}
	}
}

func runUpdate() {
	if version == "dev" {
		fmt.Println("Dev build — cannot check for updates.")
		return
	}
	fmt.Printf("murmur %s — checking for updates...\n", version)
	rel, err := update.CheckLatest(version)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	if rel == nil {
		fmt.Println("Already up to date.")
		return
	}
	fmt.Printf("Update available: %s -> %s\n", version, rel.Version)
	fmt.Print("Continue? [y/N] ")
	var answer string
	fmt.Scanln(&answer)
	if answer != "y" && answer != "Y" {
		fmt.Println("Aborted.")
		return
	}
	fmt.Printf("Downloading %s...\n", rel.Version)
	if err := update.Apply(rel); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Updated to %s\n", rel.Version)
}

func toggle(sess *session.Session) {
	wasIdle := sess.State() == session.StateIdle
	if err := sess.Toggle(); err != nil {
		log.Errorf("toggle: %v", err)
		beep.Error()
		notify.Send("murmur", fmt.Sprintf("error: %v", err))
		return
	}
	if wasIdle {
		beep.Start()
		notify.Send("murmur", "recording")
	} else {
		beep.Stop()
		notify.Send("murmur", "stopped")
	}
}

// newEngine honors an explicit provider choice and falls back to
// whichever API key is present.
func newEngine(cfg config.Config) (engine.Engine, error) {
	ecfg := engine.Config{
		SampleRate: cfg.Audio.SampleRate,
		Language:   cfg.Engine.Language,
		Timeout:    cfg.EngineTimeout(),
	}
	switch cfg.Engine.Provider {
	case "deepgram":
		key := os.Getenv("DEEPGRAM_API_KEY")
		if key == "" {
			return nil, fmt.Errorf("engine.provider is deepgram but DEEPGRAM_API_KEY is not set")
		}
		return engine.NewDeepgram(key, ecfg), nil
	case "groq":
		key := os.Getenv("GROQ_API_KEY")
		if key == "" {
			return nil, fmt.Errorf("engine.provider is groq but GROQ_API_KEY is not set")
		}
		return engine.NewGroq(key, ecfg), nil
	}
	return engine.New(ecfg)
}

func newSegmenter(cfg config.Config) (segment.Segmenter, error) {
	if cfg.Segment.Policy == segment.PolicyInterval {
		return segment.NewInterval(segment.IntervalConfig{
			Interval:      cfg.Interval(),
			PeakThreshold: cfg.Segment.PeakThreshold,
		}), nil
	}
	return segment.NewSilence(segment.SilenceConfig{
		SampleRate: cfg.Audio.SampleRate,
		SilenceDur: cfg.SilenceDur(),
		VADMode:    cfg.Segment.VADMode,
	})
}

func resolveDevice(actx audio.Context, name string, setup bool) *audio.DeviceInfo {
	if name != "" {
		if devices, err := actx.Devices(); err == nil {
			for i := range devices {
				if devices[i].Name == name {
					return &devices[i]
				}
			}
		}
		log.Warnf("device not found: %s, using default", name)
		return nil
	}
	if setup {
		dev, err := selectDevice(actx)
		if err != nil {
			log.Warnf("device selection failed: %v", err)
			fmt.Fprintf(os.Stderr, "Warning: device selection failed: %v\nFalling back to default device\n", err)
			return nil
		}
		if dev != nil && audio.IsBluetooth(dev.Name) {
			fmt.Println("Note: Bluetooth microphones often capture at reduced quality.")
		}
		return dev
	}
	return nil
}
