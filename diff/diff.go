// Package diff turns successive transcription hypotheses into minimal
// backspace+type edits against the text already injected into the
// focused application.
package diff

// Script is one edit: delete Backspaces characters off the end of the
// previously typed text, then type Insert.
type Script struct {
	Backspaces int
	Insert     string
}

// Calculate diffs the new hypothesis against the last typed text.
// The second return value is false when the correction would need more
// than maxBackspaces deletions; such revisions are skipped rather than
// visually replayed. The script is still returned so callers can report
// how large the skipped edit was.
func Calculate(lastTyped, hypothesis string, maxBackspaces int) (Script, bool) {
	last := []rune(lastTyped)
	hyp := []rune(hypothesis)

	common := 0
	for common < len(last) && common < len(hyp) && last[common] == hyp[common] {
		common++
	}

	backspaces := len(last) - common
	script := Script{Backspaces: backspaces, Insert: string(hyp[common:])}
	return script, backspaces <= maxBackspaces
}

// Tracker holds the text that has actually been injected for the
// current utterance.
type Tracker struct {
	lastTyped string
}

// LastTyped returns the tracked on-screen text.
func (t *Tracker) LastTyped() string { return t.lastTyped }

// Commit records text as typed. Callers must only commit after the
// corresponding edit has been fully applied to the sink.
func (t *Tracker) Commit(text string) { t.lastTyped = text }

// Reset clears the tracked text at an utterance boundary.
func (t *Tracker) Reset() { t.lastTyped = "" }
