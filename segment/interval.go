package segment

import "time"

const (
	DefaultInterval      = 1500 * time.Millisecond
	DefaultPeakThreshold = 0.01
)

// IntervalConfig tunes the fixed-interval policy.
type IntervalConfig struct {
	Interval      time.Duration
	PeakThreshold float64 // normalized [0,1]; segments quieter than this are dropped
}

// Interval emits whatever has accumulated every fixed wall-clock
// interval, silence included. Segments whose peak amplitude stays below
// the near-silence threshold are discarded instead of emitted, which
// saves engine calls on dead air.
type Interval struct {
	interval time.Duration
	peakMin  float64

	buf      []byte
	deadline time.Time
	now      func() time.Time
}

func NewInterval(cfg IntervalConfig) *Interval {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.PeakThreshold <= 0 {
		cfg.PeakThreshold = DefaultPeakThreshold
	}
	iv := &Interval{
		interval: cfg.Interval,
		peakMin:  cfg.PeakThreshold,
		now:      time.Now,
	}
	iv.deadline = iv.now().Add(iv.interval)
	return iv
}

func (s *Interval) Push(data []byte) (Segment, bool) {
	s.buf = append(s.buf, data...)
	if s.now().Before(s.deadline) {
		return nil, false
	}
	s.deadline = s.now().Add(s.interval)
	return s.emit()
}

func (s *Interval) Flush() (Segment, bool) {
	return s.emit()
}

func (s *Interval) Reset() {
	s.buf = nil
	s.deadline = s.now().Add(s.interval)
}

func (s *Interval) emit() (Segment, bool) {
	if len(s.buf) == 0 {
		return nil, false
	}
	out := Segment(s.buf)
	s.buf = nil
	if peak(out) < s.peakMin {
		return nil, false
	}
	return out, true
}
