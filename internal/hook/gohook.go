package hook

import (
	"context"
	"errors"
	"unicode"

	gohook "github.com/robotn/gohook"
)

// ErrHookDenied is returned when the OS refuses the global hook, typically
// missing accessibility or input-monitoring permission.
var ErrHookDenied = errors.New("global keyboard hook registration denied")

// GlobalSource is the production Source backed by the OS global hook.
type GlobalSource struct{}

// NewGlobalSource returns a Source that registers the system-wide hook.
func NewGlobalSource() *GlobalSource {
	return &GlobalSource{}
}

// Events starts the global hook and translates raw key-down events.
// The hook is de-registered when ctx is cancelled.
func (g *GlobalSource) Events(ctx context.Context) (<-chan Event, error) {
	raw := gohook.Start()
	if raw == nil {
		return nil, ErrHookDenied
	}

	out := make(chan Event, 64)
	go func() {
		defer close(out)
		defer gohook.End()

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-raw:
				if !ok {
					return
				}
				if ev.Kind != gohook.KeyDown {
					continue
				}
				translated, ok := translate(ev)
				if !ok {
					continue
				}
				select {
				case out <- translated:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

// Modifier bits of gohook's event mask, left and right variants.
const (
	ctrlMask = 1<<1 | 1<<5
	metaMask = 1<<2 | 1<<6
)

// translate maps a raw gohook key-down to an observer event.
func translate(ev gohook.Event) (Event, bool) {
	if isPasteChord(ev) {
		return Event{Kind: Paste}, true
	}

	switch ev.Keychar {
	case 8, 127:
		return Event{Kind: Backspace}, true
	case 13, 10:
		return Event{Kind: Enter}, true
	case 9:
		return Event{Kind: Tab}, true
	case 27:
		return Event{Kind: Escape}, true
	}
	if ev.Keychar != 0 && unicode.IsPrint(ev.Keychar) {
		return Event{Kind: Char, Rune: ev.Keychar}, true
	}
	return Event{Kind: Other}, true
}

// isPasteChord reports whether the event is Cmd+V (macOS) or Ctrl+V.
// Some platforms report the chord as the SYN control character (0x16)
// rather than the letter.
func isPasteChord(ev gohook.Event) bool {
	if ev.Mask&(ctrlMask|metaMask) == 0 {
		return false
	}
	return ev.Keychar == 'v' || ev.Keychar == 'V' || ev.Keychar == 0x16
}
