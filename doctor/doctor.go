// Package doctor walks the user through interactive checks of the
// three things that usually break a dictation setup: the global
// hotkey, microphone capture + transcription, and keystroke injection.
package doctor

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"murmur/audio"
	"murmur/config"
	"murmur/engine"
	"murmur/hotkey"
	"murmur/typist"
)

// Run executes the checks and returns an exit code (0=all pass).
func Run(cfg config.Config) int {
	resetTerminal()
	setupInterruptHandler()

	fmt.Println("murmur doctor - interactive system diagnostics")
	fmt.Println("==============================================")

	allPass := true

	combo, err := hotkey.ParseCombo(cfg.Hotkey.Combo)
	if err != nil {
		fmt.Printf("  FAIL: bad hotkey combo: %v\n", err)
		return 1
	}

	if !checkHotkey(combo) {
		allPass = false
	}
	if allPass && !checkMicAndEngine(cfg) {
		allPass = false
	}
	if allPass && !checkSink(cfg.Typing.Sink) {
		allPass = false
	}

	fmt.Println()
	if allPass {
		fmt.Println("All checks passed!")
		return 0
	}
	fmt.Println("Some checks failed. See details above.")
	return 1
}

func checkHotkey(combo hotkey.Combo) bool {
	fmt.Println()
	fmt.Println("[1/3] Hotkey detection")

	if msg, err := hotkey.Diagnose(); err != nil {
		fmt.Printf("  FAIL: %v\n", err)
		return false
	} else {
		fmt.Printf("  %s\n", msg)
	}

	fmt.Printf("Press %s...\n", combo)

	hk := hotkey.New(combo)
	if err := hk.Register(); err != nil {
		fmt.Printf("  FAIL: could not register hotkey: %v\n", err)
		return false
	}
	defer hk.Unregister()

	select {
	case <-hk.Toggled():
		fmt.Println("  PASS: hotkey detected")
		// the reader may leave the terminal in raw mode
		resetTerminal()
		return true
	case <-time.After(10 * time.Second):
		fmt.Println("  FAIL: timeout waiting for hotkey")
		return false
	}
}

func checkMicAndEngine(cfg config.Config) bool {
	fmt.Println()
	fmt.Println("[2/3] Microphone and transcription")

	reader := bufio.NewReader(os.Stdin)

	if os.Getenv("DEEPGRAM_API_KEY") == "" && os.Getenv("GROQ_API_KEY") == "" {
		fmt.Println("  FAIL: neither DEEPGRAM_API_KEY nor GROQ_API_KEY is set")
		return false
	}
	eng, err := engine.New(engine.Config{
		SampleRate: cfg.Audio.SampleRate,
		Language:   cfg.Engine.Language,
		Timeout:    cfg.EngineTimeout(),
	})
	if err != nil {
		fmt.Printf("  FAIL: %v\n", err)
		return false
	}
	fmt.Printf("  Engine: %s\n", eng.Name())

	actx, err := audio.NewContext()
	if err != nil {
		fmt.Printf("  FAIL: cannot connect to audio: %v\n", err)
		return false
	}
	defer actx.Close()

	devices, err := actx.Devices()
	if err != nil {
		fmt.Printf("  FAIL: cannot list devices: %v\n", err)
		return false
	}
	if len(devices) == 0 {
		fmt.Println("  FAIL: no capture devices found")
		return false
	}

	var device *audio.DeviceInfo
	if len(devices) == 1 {
		device = &devices[0]
		fmt.Printf("Using device: %s\n", device.Name)
	} else {
		fmt.Println()
		fmt.Println("Select input device:")
		for i, d := range devices {
			fmt.Printf("  %d. %s\n", i+1, d.Name)
		}
		fmt.Printf("Choice [1-%d]: ", len(devices))

		devChoice, _ := reader.ReadString('\n')
		devChoice = strings.TrimSpace(devChoice)
		idx := 0
		if devChoice != "" {
			fmt.Sscanf(devChoice, "%d", &idx)
			idx--
		}
		if idx < 0 || idx >= len(devices) {
			fmt.Println("  FAIL: invalid choice")
			return false
		}
		device = &devices[idx]
		fmt.Printf("Selected: %s\n", device.Name)
	}

	fmt.Println()
	fmt.Print("Press Enter and speak for 3 seconds...")
	reader.ReadString('\n')

	pcm, err := record(actx, device, cfg.Audio.SampleRate, 3*time.Second)
	if err != nil {
		fmt.Printf("  FAIL: recording error: %v\n", err)
		return false
	}
	if len(pcm) == 0 {
		fmt.Println("  FAIL: no audio captured")
		return false
	}

	fmt.Printf("  Recorded %.1f KB, transcribing...\n", float64(len(pcm))/1024)

	text, err := eng.Transcribe(context.Background(), pcm)
	if err != nil {
		fmt.Printf("  FAIL: transcription error: %v\n", err)
		return false
	}
	if text == "" {
		text = "(no speech detected)"
	}

	fmt.Printf("\n  Transcribed text: %s\n\n", text)

	confirmReader := bufio.NewReader(os.Stdin)
	fmt.Print("Is this correct? [y/n]: ")
	confirm, _ := confirmReader.ReadString('\n')
	confirm = strings.TrimSpace(strings.ToLower(confirm))

	if confirm == "y" || confirm == "yes" {
		fmt.Println("  PASS: transcription verified by user")
		return true
	}
	fmt.Println("  FAIL: transcription not confirmed")
	return false
}

func checkSink(kind string) bool {
	fmt.Println()
	fmt.Println("[3/3] Keystroke injection")

	sink, err := typist.NewSink(kind)
	if err != nil {
		fmt.Printf("  FAIL: %v\n", err)
		return false
	}

	fmt.Println("Focus a text field; typing a test line in 3 seconds...")
	time.Sleep(3 * time.Second)

	if err := sink.Type("murmur doctor test"); err != nil {
		fmt.Printf("  FAIL: type: %v\n", err)
		return false
	}
	time.Sleep(300 * time.Millisecond)
	if err := sink.Backspace(5); err != nil {
		fmt.Printf("  FAIL: backspace: %v\n", err)
		return false
	}

	confirmReader := bufio.NewReader(os.Stdin)
	fmt.Print("\nDid \"murmur doctor\" appear (test line minus 5 backspaced chars)? [y/n]: ")
	confirm, _ := confirmReader.ReadString('\n')
	confirm = strings.TrimSpace(strings.ToLower(confirm))

	if confirm == "y" || confirm == "yes" {
		fmt.Println("  PASS: keystroke injection verified")
		return true
	}
	fmt.Println("  FAIL: keystroke injection not confirmed")
	return false
}

func record(actx audio.Context, device *audio.DeviceInfo, sampleRate int, d time.Duration) ([]byte, error) {
	capture, err := actx.NewCapture(device, audio.CaptureConfig{
		SampleRate: uint32(sampleRate),
		Channels:   1,
	})
	if err != nil {
		return nil, err
	}
	defer capture.Close()

	var mu sync.Mutex
	var pcm []byte
	capture.SetCallback(func(data []byte, _ uint32) {
		mu.Lock()
		pcm = append(pcm, data...)
		mu.Unlock()
	})

	if err := capture.Start(); err != nil {
		return nil, err
	}
	time.Sleep(d)
	capture.Stop()
	capture.ClearCallback()

	mu.Lock()
	defer mu.Unlock()
	return pcm, nil
}
