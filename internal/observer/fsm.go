// Package observer owns the global key-event stream: it runs the trigger
// recognition state machine over incoming keys and delegates matched
// shortcuts to the expansion engine.
package observer

import (
	"time"
	"unicode"

	"github.com/fakeyudi/snipt/internal/hook"
)

// maxCollected bounds the shortcut name and captured argument text; blowing
// the cap abandons the attempt.
const maxCollected = 100

// maxAge is how long an armed attempt may sit before it is abandoned.
const maxAge = 10 * time.Second

type state int

const (
	stateIdle state = iota
	stateArmed
	stateCollectingName
	stateCollectingArgs
)

// Attempt is a recognized (trigger, shortcut, optional arguments) triple
// emitted by the FSM. The observer resolves it against the store snapshot.
type Attempt struct {
	Trigger  rune
	Name     string
	ArgsText string // raw text between the outer parentheses
	HasArgs  bool
	// Boundary is the character that terminated a bare match. It has
	// already reached the screen, is included in DeleteCount, and is
	// re-emitted after the expansion. Zero for parenthesized matches.
	Boundary rune
	// DeleteCount is the number of backspaces needed to remove the typed
	// sequence: trigger + name (+ boundary, or + parenthesized arguments).
	DeleteCount int
}

// FSM is the trigger recognition state machine. It is single-owner state:
// only the observer task feeds it, so it needs no locking.
type FSM struct {
	state      state
	trigger    rune
	name       []rune
	args       []rune
	parenDepth int
	// prev is the character context preceding the cursor, used for the
	// word-boundary check when arming.
	prev rune
	// armedAt stamps the moment the trigger was typed.
	armedAt time.Time
	// now is replaceable in tests.
	now func() time.Time
}

// NewFSM returns an FSM in the idle state.
func NewFSM() *FSM {
	return &FSM{now: time.Now}
}

// Reset returns the FSM to idle with no preceding context, as after a
// completed expansion.
func (f *FSM) Reset() {
	f.state = stateIdle
	f.trigger = 0
	f.name = f.name[:0]
	f.args = f.args[:0]
	f.parenDepth = 0
	f.prev = 0
}

// isTrigger reports whether c is one of the two trigger characters.
func isTrigger(c rune) bool {
	return c == ':' || c == '!'
}

// isBoundary reports whether c ends a word: whitespace or punctuation.
func isBoundary(c rune) bool {
	return unicode.IsSpace(c) || unicode.IsPunct(c) || unicode.IsSymbol(c)
}

// isNameRune reports whether c may appear in a shortcut name.
func isNameRune(c rune) bool {
	return unicode.IsLetter(c) || unicode.IsDigit(c) || c == '-' || c == '_'
}

// atBoundary reports whether the preceding context permits arming:
// start of input, whitespace, or punctuation that is not the trigger
// being typed.
func (f *FSM) atBoundary(trigger rune) bool {
	if f.prev == 0 {
		return true
	}
	if unicode.IsSpace(f.prev) {
		return true
	}
	return (unicode.IsPunct(f.prev) || unicode.IsSymbol(f.prev)) && f.prev != trigger
}

// Feed advances the machine by one key event and returns a non-nil Attempt
// when a lookup should be made.
func (f *FSM) Feed(ev hook.Event) *Attempt {
	if f.state != stateIdle && f.now().Sub(f.armedAt) > maxAge {
		f.abandon()
	}

	switch ev.Kind {
	case hook.Char:
		return f.feedChar(ev.Rune)
	case hook.Backspace:
		f.feedBackspace()
		return nil
	case hook.Enter:
		return f.feedBoundary('\n')
	case hook.Tab:
		return f.feedBoundary('\t')
	case hook.Escape:
		f.abandon()
		f.prev = 0
		return nil
	default:
		// Arrows and friends move the caret somewhere unknown; any
		// in-flight attempt no longer lines up with the screen.
		f.abandon()
		f.prev = 0
		return nil
	}
}

// abandon cancels an in-flight attempt without touching prev.
func (f *FSM) abandon() {
	f.state = stateIdle
	f.trigger = 0
	f.name = f.name[:0]
	f.args = f.args[:0]
	f.parenDepth = 0
}

func (f *FSM) feedChar(c rune) *Attempt {
	switch f.state {
	case stateIdle:
		if isTrigger(c) && f.atBoundary(c) {
			f.state = stateArmed
			f.trigger = c
			f.armedAt = f.now()
			f.prev = c
			return nil
		}
		f.prev = c
		return nil

	case stateArmed:
		if isNameRune(c) {
			f.state = stateCollectingName
			f.name = append(f.name, c)
			f.prev = c
			return nil
		}
		// Another trigger or boundary cancels armament.
		f.abandon()
		f.prev = c
		return nil

	case stateCollectingName:
		if isNameRune(c) {
			if len(f.name) >= maxCollected {
				f.abandon()
				f.prev = c
				return nil
			}
			f.name = append(f.name, c)
			f.prev = c
			return nil
		}
		if c == '(' {
			f.state = stateCollectingArgs
			f.parenDepth = 1
			f.prev = c
			return nil
		}
		if isBoundary(c) {
			return f.emitBare(c)
		}
		f.abandon()
		f.prev = c
		return nil

	case stateCollectingArgs:
		if len(f.args) >= maxCollected {
			f.abandon()
			f.prev = c
			return nil
		}
		switch c {
		case '(':
			f.parenDepth++
			f.args = append(f.args, c)
		case ')':
			f.parenDepth--
			if f.parenDepth == 0 {
				return f.emitParameterized()
			}
			f.args = append(f.args, c)
		default:
			f.args = append(f.args, c)
		}
		f.prev = c
		return nil
	}
	return nil
}

func (f *FSM) feedBackspace() {
	switch f.state {
	case stateIdle:
		f.prev = 0
	case stateArmed:
		// The trigger character was erased.
		f.abandon()
		f.prev = 0
	case stateCollectingName:
		if len(f.name) > 0 {
			f.name = f.name[:len(f.name)-1]
		}
		if len(f.name) == 0 {
			f.state = stateArmed
		}
	case stateCollectingArgs:
		if len(f.args) == 0 {
			// The opening parenthesis was erased.
			f.state = stateCollectingName
			f.parenDepth = 0
			return
		}
		popped := f.args[len(f.args)-1]
		f.args = f.args[:len(f.args)-1]
		switch popped {
		case '(':
			f.parenDepth--
		case ')':
			f.parenDepth++
		}
	}
}

// feedBoundary handles Enter and Tab, which terminate a name collection
// the same way a typed boundary character does.
func (f *FSM) feedBoundary(c rune) *Attempt {
	switch f.state {
	case stateCollectingName:
		return f.emitBare(c)
	case stateCollectingArgs:
		// A hard boundary with parentheses still open is a mismatched
		// attempt; cancel it.
		f.abandon()
		f.prev = c
		return nil
	default:
		f.abandon()
		f.prev = c
		return nil
	}
}

func (f *FSM) emitBare(boundary rune) *Attempt {
	a := &Attempt{
		Trigger:     f.trigger,
		Name:        string(f.name),
		Boundary:    boundary,
		DeleteCount: 1 + len(f.name) + 1,
	}
	f.abandon()
	f.prev = boundary
	return a
}

func (f *FSM) emitParameterized() *Attempt {
	a := &Attempt{
		Trigger:     f.trigger,
		Name:        string(f.name),
		ArgsText:    string(f.args),
		HasArgs:     true,
		DeleteCount: 1 + len(f.name) + 2 + len(f.args),
	}
	f.abandon()
	f.prev = ')'
	return a
}
