package main

import (
	"encoding/binary"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"murmur/audio"
	"murmur/beep"
	"murmur/config"
	"murmur/engine"
	"murmur/hotkey"
	"murmur/log"
	"murmur/session"
)

// UI message types
type recStartMsg struct{}
type recStopMsg struct{ Summary session.Summary }
type levelMsg struct{ Level float64 }
type hypothesisMsg struct{ Text string }
type utteranceMsg struct{ Text string }
type skipMsg struct{}
type engineErrMsg struct{ Err error }
type uiTickMsg time.Time

var (
	uiProgram *tea.Program
	uiDone    = make(chan struct{})
)

var (
	styleRec    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	styleIdle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	styleMeter  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	styleHypo   = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	styleLast   = lipgloss.NewStyle().Foreground(lipgloss.Color("246"))
	styleWarn   = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	styleHelp   = lipgloss.NewStyle().Foreground(lipgloss.Color("239"))
	styleHelpHi = lipgloss.NewStyle().Foreground(lipgloss.Color("239")).Bold(true)
)

type uiModel struct {
	recording     bool
	since         time.Time
	frame         int
	level         float64
	hypothesis    string
	lastUtterance string
	utterances    int
	skips         int
	errLine       string
	modeLine      string
	helpCombo     string
	width         int
}

func uiTick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return uiTickMsg(t)
	})
}

func (m uiModel) Init() tea.Cmd { return uiTick() }

func (m uiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		}

	case uiTickMsg:
		m.frame++
		return m, uiTick()

	case recStartMsg:
		m.recording = true
		m.since = time.Now()
		m.level = 0
		m.hypothesis = ""
		m.errLine = ""

	case recStopMsg:
		m.recording = false
		m.level = 0
		m.hypothesis = ""
		// skips arrive live via skipMsg; only utterances come from
		// the summary
		m.utterances += msg.Summary.Utterances

	case levelMsg:
		if m.recording {
			m.level = m.level*0.6 + msg.Level*0.4
		}

	case hypothesisMsg:
		m.hypothesis = msg.Text

	case utteranceMsg:
		m.lastUtterance = msg.Text

	case skipMsg:
		m.skips++

	case engineErrMsg:
		m.errLine = msg.Err.Error()
	}
	return m, nil
}

const meterWidth = 24

func (m uiModel) View() string {
	var b strings.Builder

	if m.recording {
		b.WriteString(styleRec.Render(fmt.Sprintf("● REC %.1fs", time.Since(m.since).Seconds())))
		b.WriteString("  " + styleMeter.Render(renderMeter(m.level)))
	} else {
		b.WriteString(styleIdle.Render("○ STANDBY"))
	}
	b.WriteString("\n")

	if m.modeLine != "" {
		b.WriteString(styleIdle.Render(m.modeLine) + "\n")
	}
	b.WriteString("\n")

	if m.hypothesis != "" {
		b.WriteString(styleHypo.Render(wrap(m.hypothesis, m.wrapWidth())) + "\n")
	} else if m.lastUtterance != "" {
		b.WriteString(styleLast.Render(wrap(m.lastUtterance, m.wrapWidth())) + "\n")
	} else {
		b.WriteString(styleIdle.Render("Nothing typed yet") + "\n")
	}
	b.WriteString("\n")

	counters := fmt.Sprintf("%d utterances", m.utterances)
	if m.skips > 0 {
		counters += styleWarn.Render(fmt.Sprintf("  %d corrections skipped", m.skips))
	}
	b.WriteString(styleIdle.Render(counters) + "\n")

	if m.errLine != "" {
		b.WriteString(styleWarn.Render("engine: "+m.errLine) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(styleHelpHi.Render(m.helpCombo) + styleHelp.Render(" to dictate, q to quit") + "\n")
	b.WriteString(styleHelp.Render("murmur " + version))
	return b.String()
}

func (m uiModel) wrapWidth() int {
	if m.width > 10 {
		return m.width - 2
	}
	return 70
}

func renderMeter(level float64) string {
	filled := int(level * meterWidth * 4) // mic levels rarely pass 0.25
	if filled > meterWidth {
		filled = meterWidth
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", meterWidth-filled)
}

func wrap(text string, width int) string {
	if width < 10 {
		width = 10
	}
	words := strings.Fields(text)
	var lines []string
	line := ""
	for _, w := range words {
		if line != "" && len(line)+1+len(w) > width {
			lines = append(lines, line)
			line = w
			continue
		}
		if line == "" {
			line = w
		} else {
			line += " " + w
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// uiEvents forwards session activity into the Bubble Tea program.
// AudioChunk runs on the capture thread, so it only computes a peak
// and hands off.
type uiEvents struct {
	p *tea.Program
}

func (u *uiEvents) RecordingStart() { u.p.Send(recStartMsg{}) }

func (u *uiEvents) RecordingStop(s session.Summary) { u.p.Send(recStopMsg{Summary: s}) }

func (u *uiEvents) AudioChunk(pcm []byte) {
	var max int32
	for i := 0; i+1 < len(pcm); i += 2 {
		s := int32(int16(binary.LittleEndian.Uint16(pcm[i:])))
		if s < 0 {
			s = -s
		}
		if s > max {
			max = s
		}
	}
	u.p.Send(levelMsg{Level: float64(max) / 32768.0})
}

func (u *uiEvents) Hypothesis(text string) { u.p.Send(hypothesisMsg{Text: text}) }

func (u *uiEvents) Utterance(text string) { u.p.Send(utteranceMsg{Text: text}) }

func (u *uiEvents) CorrectionSkipped() { u.p.Send(skipMsg{}) }

func (u *uiEvents) EngineError(err error) {
	beep.Error()
	u.p.Send(engineErrMsg{Err: err})
}

func startUI(cfg config.Config, eng engine.Engine, combo hotkey.Combo, dev *audio.DeviceInfo) session.Events {
	deviceName := "default mic"
	if dev != nil {
		deviceName = dev.Name
		if audio.IsBluetooth(dev.Name) {
			deviceName += " (BT!)"
		}
	}
	mode := fmt.Sprintf("[%s | %s | %s]", eng.Name(), cfg.Segment.Policy, deviceName)

	m := uiModel{modeLine: mode, helpCombo: combo.String()}
	uiProgram = tea.NewProgram(m, tea.WithOutput(os.Stderr))
	go func() {
		if _, err := uiProgram.Run(); err != nil {
			log.Errorf("UI error: %v", err)
		}
		close(uiDone)
	}()
	return &uiEvents{p: uiProgram}
}
