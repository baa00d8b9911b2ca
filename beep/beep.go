// Package beep plays short audio cues so the user knows whether the
// microphone is live without looking at the terminal.
package beep

import "math"

var disabled bool

// Disable silences all cues (test mode, or users who hate beeps).
func Disable() { disabled = true }

const (
	sampleRate = 44100

	// Recording started: bright, short
	startFreq   = 1320.0
	startVolume = 0.4
	startDecay  = 55.0

	// Recording stopped: a fourth lower, slightly longer
	stopFreq   = 990.0
	stopVolume = 0.4
	stopDecay  = 40.0

	// Engine trouble: low double-beep
	errorFreq   = 330.0
	errorVolume = 0.5
	errorDecay  = 30.0
)

// tone generates a decaying mono sine burst.
func tone(freq, duration, volume, decay float64) []int16 {
	n := int(sampleRate * duration)
	samples := make([]int16, n)
	for i := 0; i < n; i++ {
		t := float64(i) / sampleRate
		envelope := math.Exp(-t * decay)
		samples[i] = int16(math.Sin(2*math.Pi*freq*t) * 32767 * volume * envelope)
	}
	return samples
}

func doubleTone(freq, beepDur, gapDur, volume, decay float64) []int16 {
	burst := tone(freq, beepDur, volume, decay)
	gap := make([]int16, int(sampleRate*gapDur))
	out := make([]int16, 0, len(burst)*2+len(gap))
	out = append(out, burst...)
	out = append(out, gap...)
	out = append(out, burst...)
	return out
}
