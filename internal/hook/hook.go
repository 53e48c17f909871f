// Package hook adapts the OS global keyboard hook into a typed event
// stream. The observer consumes a Source; production code uses the gohook
// backend, tests use a scripted fake.
package hook

import "context"

// EventKind discriminates the key events the observer cares about.
type EventKind int

const (
	// Char is a printable character key press.
	Char EventKind = iota
	// Backspace removes the previously typed character.
	Backspace
	// Enter, Tab and Escape are handled specially by the trigger FSM.
	Enter
	Tab
	Escape
	// Paste is the platform paste chord (Cmd+V / Ctrl+V); the observer
	// replays the clipboard text through the FSM as if typed.
	Paste
	// Other is any key press the FSM treats as a plain boundary-less
	// control key (arrows, function keys, modifiers).
	Other
)

// Event is a single key-down observed on the global hook.
type Event struct {
	Kind EventKind
	Rune rune // valid when Kind == Char
}

// Source delivers global key events until the context is cancelled or the
// hook is closed. Implementations own hook registration; the returned
// channel is closed once the hook is de-registered.
type Source interface {
	// Events registers the hook and returns the event stream. The stream
	// is closed when ctx is cancelled or registration is lost.
	Events(ctx context.Context) (<-chan Event, error)
}
