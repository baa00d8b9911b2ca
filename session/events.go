package session

// Events receives session activity for display. Implementations must
// not block: AudioChunk arrives on the capture thread, the rest on the
// session or worker goroutines.
type Events interface {
	RecordingStart()
	RecordingStop(summary Summary)
	AudioChunk(pcm []byte)
	Hypothesis(text string)
	Utterance(text string)
	CorrectionSkipped()
	EngineError(err error)
}

type nopEvents struct{}

func (nopEvents) RecordingStart()       {}
func (nopEvents) RecordingStop(Summary) {}
func (nopEvents) AudioChunk([]byte)     {}
func (nopEvents) Hypothesis(string)     {}
func (nopEvents) Utterance(string)      {}
func (nopEvents) CorrectionSkipped()    {}
func (nopEvents) EngineError(error)     {}
