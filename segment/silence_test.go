package segment

import (
	"encoding/binary"
	"math"
	"testing"
	"time"
)

const testRate = 16000

func genTone(freq float64, durationMs int) []byte {
	n := testRate * durationMs / 1000
	buf := make([]byte, n*2)
	for i := 0; i < n; i++ {
		sample := int16(16000 * math.Sin(2*math.Pi*freq*float64(i)/testRate))
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(sample))
	}
	return buf
}

func genSilence(durationMs int) []byte {
	return make([]byte, testRate*durationMs/1000*2)
}

// testSilence builds a silence segmenter with a deterministic
// classifier: any frame with a nonzero sample counts as speech.
func testSilence(t *testing.T, silenceDur time.Duration) *Silence {
	t.Helper()
	s, err := NewSilence(SilenceConfig{SampleRate: testRate, SilenceDur: silenceDur})
	if err != nil {
		t.Fatal(err)
	}
	s.classify = func(frame []byte) (bool, error) {
		return peak(frame) > 0, nil
	}
	return s
}

func pushAll(s Segmenter, data []byte, chunk int) (Segment, bool) {
	for i := 0; i < len(data); i += chunk {
		end := i + chunk
		if end > len(data) {
			end = len(data)
		}
		if seg, ok := s.Push(data[i:end]); ok {
			return seg, true
		}
	}
	return nil, false
}

func TestSilenceEmitsAfterTrailingSilence(t *testing.T) {
	s := testSilence(t, 1500*time.Millisecond)

	if seg, ok := pushAll(s, genTone(440, 600), 100); ok {
		t.Fatalf("segment emitted during speech: %d bytes", len(seg))
	}
	seg, ok := pushAll(s, genSilence(1600), 100)
	if !ok {
		t.Fatal("expected segment after 1.6s of trailing silence")
	}
	// Speech plus the trailing silence up to the threshold.
	wantMin := Segment(genTone(440, 600)).Duration(testRate)
	if seg.Duration(testRate) < wantMin {
		t.Fatalf("segment too short: %v", seg.Duration(testRate))
	}
}

func TestSilenceDiscardsLeadingSilence(t *testing.T) {
	s := testSilence(t, 300*time.Millisecond)

	pushAll(s, genSilence(900), 100)
	pushAll(s, genTone(440, 300), 100)
	seg, ok := pushAll(s, genSilence(400), 100)
	if !ok {
		t.Fatal("expected segment")
	}
	// The 900ms of leading silence must not be in the segment.
	if seg.Duration(testRate) > 700*time.Millisecond {
		t.Fatalf("leading silence leaked into segment: %v", seg.Duration(testRate))
	}
}

func TestSilenceNoSegmentWithoutSpeech(t *testing.T) {
	s := testSilence(t, 300*time.Millisecond)

	if seg, ok := pushAll(s, genSilence(3000), 100); ok {
		t.Fatalf("segment emitted from pure silence: %d bytes", len(seg))
	}
	if seg, ok := s.Flush(); ok {
		t.Fatalf("flush emitted segment from pure silence: %d bytes", len(seg))
	}
}

func TestSilenceFlushEmitsRemainder(t *testing.T) {
	s := testSilence(t, 1500*time.Millisecond)

	pushAll(s, genTone(440, 400), 100)
	seg, ok := s.Flush()
	if !ok {
		t.Fatal("expected flushed segment with buffered speech")
	}
	if len(seg) == 0 {
		t.Fatal("empty flushed segment")
	}
	// Flush drains everything; a second flush is empty.
	if _, ok := s.Flush(); ok {
		t.Fatal("second flush should be empty")
	}
}

func TestSilenceAccumulatesThroughShortPauses(t *testing.T) {
	s := testSilence(t, 1500*time.Millisecond)

	pushAll(s, genTone(440, 300), 100)
	if _, ok := pushAll(s, genSilence(600), 100); ok {
		t.Fatal("600ms pause must not close a 1.5s-threshold utterance")
	}
	pushAll(s, genTone(440, 300), 100)
	seg, ok := pushAll(s, genSilence(1600), 100)
	if !ok {
		t.Fatal("expected segment")
	}
	// Both speech bursts and the bridged pause belong to one segment.
	if seg.Duration(testRate) < 1200*time.Millisecond {
		t.Fatalf("segment lost bridged audio: %v", seg.Duration(testRate))
	}
}

func TestSilenceOversizedPushKeepsBothUtterances(t *testing.T) {
	s := testSilence(t, 300*time.Millisecond)

	// One giant Push holding two complete utterances: the first segment
	// comes back immediately, the second must not be lost.
	var data []byte
	data = append(data, genTone(440, 300)...)
	data = append(data, genSilence(400)...)
	data = append(data, genTone(440, 300)...)
	data = append(data, genSilence(400)...)

	first, ok := s.Push(data)
	if !ok {
		t.Fatal("expected first segment from oversized push")
	}
	second, ok := s.Push(nil)
	if !ok {
		t.Fatal("second utterance was dropped")
	}
	for i, seg := range []Segment{first, second} {
		if d := seg.Duration(testRate); d < 300*time.Millisecond {
			t.Errorf("segment %d too short: %v", i, d)
		}
	}
}

func TestSilenceFlushDrainsPending(t *testing.T) {
	s := testSilence(t, 300*time.Millisecond)

	var data []byte
	data = append(data, genTone(440, 300)...)
	data = append(data, genSilence(400)...)
	data = append(data, genTone(440, 300)...)
	data = append(data, genSilence(400)...)

	if _, ok := s.Push(data); !ok {
		t.Fatal("expected first segment")
	}
	// Stop before the queued second segment was popped: Flush must
	// still carry its audio.
	seg, ok := s.Flush()
	if !ok {
		t.Fatal("flush dropped the pending segment")
	}
	if d := seg.Duration(testRate); d < 300*time.Millisecond {
		t.Errorf("flushed segment too short: %v", d)
	}
	if _, ok := s.Flush(); ok {
		t.Fatal("second flush should be empty")
	}
}

func TestSilenceResetDropsBuffer(t *testing.T) {
	s := testSilence(t, 300*time.Millisecond)

	pushAll(s, genTone(440, 200), 100)
	s.Reset()
	if _, ok := s.Flush(); ok {
		t.Fatal("flush after reset should be empty")
	}
}
