// Package synth emits synthesized keystrokes: the backspaces that remove a
// recognized trigger sequence and the characters of its expansion.
package synth

import (
	"fmt"
	"strings"
	"time"
)

// Typist is the low-level key emitter. The production implementation
// drives the OS input layer; tests substitute a recorder.
type Typist interface {
	// Backspace taps the backspace key once.
	Backspace() error
	// Type emits text as character events.
	Type(text string) error
	// Enter taps the return key once.
	Enter() error
}

// Synthesizer replaces typed text with an expansion. It is stateless
// between calls; pacing is the only knob.
type Synthesizer struct {
	Typist Typist
	// Delay is inserted between events so the receiving application can
	// keep up.
	Delay time.Duration
}

func (s *Synthesizer) pace() {
	if s.Delay > 0 {
		time.Sleep(s.Delay)
	}
}

// Replace emits deleteCount backspaces, then types text. Newlines in text
// emit as return-key taps so multi-line expansions land as line breaks.
// On the first emission failure the remainder is abandoned; no rollback
// is attempted.
func (s *Synthesizer) Replace(deleteCount int, text string) error {
	for i := 0; i < deleteCount; i++ {
		if err := s.Typist.Backspace(); err != nil {
			return fmt.Errorf("backspace %d/%d: %w", i+1, deleteCount, err)
		}
		s.pace()
	}

	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			if err := s.Typist.Enter(); err != nil {
				return fmt.Errorf("newline: %w", err)
			}
			s.pace()
		}
		if line == "" {
			continue
		}
		if err := s.Typist.Type(line); err != nil {
			return fmt.Errorf("type text: %w", err)
		}
		s.pace()
	}
	return nil
}
