package observer

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"github.com/fakeyudi/snipt/internal/expand"
	"github.com/fakeyudi/snipt/internal/hook"
	"github.com/fakeyudi/snipt/internal/snippet"
	"github.com/fakeyudi/snipt/internal/synth"
)

// Observer consumes the global key-event stream on a single goroutine,
// recognizes trigger sequences, and hands matches to the expansion engine
// and synthesizer. It reads snippets from an in-memory snapshot that is
// replaced wholesale on reload notifications; it never blocks on store I/O
// in the event path.
type Observer struct {
	Source hook.Source
	Synth  *synth.Synthesizer
	Engine *expand.Engine
	Store  *snippet.Store
	Reload <-chan struct{}
	Log    *log.Logger

	// Clipboard supplies the clipboard text on a paste chord, so a pasted
	// shortcut completes a trigger sequence just like typed text. Nil
	// disables paste-triggered expansion.
	Clipboard func() (string, bool)

	// synthesizing suppresses key handling while synthesized events are
	// in flight, so the expansion is not fed back into the FSM.
	synthesizing atomic.Bool

	// wg tracks the in-flight synthesizer task for drain on shutdown.
	wg sync.WaitGroup
}

// Synthesizing reports whether a synthesized emission is in flight.
func (o *Observer) Synthesizing() bool {
	return o.synthesizing.Load()
}

// Run registers the hook and processes events until ctx is cancelled.
// Each event is handled to completion before the next is dequeued.
func (o *Observer) Run(ctx context.Context) error {
	events, err := o.Source.Events(ctx)
	if err != nil {
		return err
	}

	snap, err := o.Store.Load()
	if err != nil {
		o.Log.Error("initial store load failed", "err", err)
		snap = &snippet.Snapshot{}
	}
	o.Log.Info("observer running", "snippets", snap.Len())

	fsm := NewFSM()

	for {
		select {
		case <-ctx.Done():
			o.wg.Wait() // drain the in-flight expansion
			return ctx.Err()

		case _, open := <-o.Reload:
			if !open {
				// The watcher shut down; stop selecting on it.
				o.Reload = nil
				continue
			}
			fresh, err := o.Store.Load()
			if err != nil {
				// Keep serving the previous snapshot.
				o.Log.Error("store reload failed", "err", err)
				continue
			}
			snap = fresh
			o.Log.Info("snippets reloaded", "snippets", snap.Len())

		case ev, ok := <-events:
			if !ok {
				o.wg.Wait()
				return nil
			}
			if o.synthesizing.Load() {
				// Synthesized keystrokes echo back through the hook.
				continue
			}
			if ev.Kind == hook.Paste {
				o.feedPaste(ctx, fsm, snap)
				continue
			}
			if attempt := fsm.Feed(ev); attempt != nil {
				o.handle(ctx, fsm, snap, attempt)
			}
		}
	}
}

// feedPaste replays the clipboard text through the FSM rune by rune, so a
// paste that completes a trigger sequence expands with the combined typed
// and pasted length deleted. Runes after a match are dropped while the
// synthesizer holds the suppression flag, mirroring typed input.
func (o *Observer) feedPaste(ctx context.Context, fsm *FSM, snap *snippet.Snapshot) {
	if o.Clipboard == nil {
		return
	}
	text, ok := o.Clipboard()
	if !ok {
		return
	}

	for _, r := range text {
		if o.synthesizing.Load() {
			return
		}
		var ev hook.Event
		switch r {
		case '\n':
			ev = hook.Event{Kind: hook.Enter}
		case '\t':
			ev = hook.Event{Kind: hook.Tab}
		default:
			ev = hook.Event{Kind: hook.Char, Rune: r}
		}
		if attempt := fsm.Feed(ev); attempt != nil {
			o.handle(ctx, fsm, snap, attempt)
		}
	}
}

// handle resolves an attempt against the snapshot and, on a match, runs
// the expansion. Every failure path leaves the typed text untouched.
func (o *Observer) handle(ctx context.Context, fsm *FSM, snap *snippet.Snapshot, attempt *Attempt) {
	var (
		ix   snippet.Indexed
		ok   bool
		args []string
	)
	if attempt.HasArgs {
		ix, ok = snap.LookupParameterized(attempt.Name)
		args = expand.SplitArgs(attempt.ArgsText)
	} else {
		ix, ok = snap.LookupBare(attempt.Name)
	}
	if !ok {
		return
	}

	result, err := o.Engine.Expand(ctx, ix, args, attempt.Trigger)
	if err != nil {
		o.Log.Warn("expansion failed", "shortcut", ix.Entry.Shortcut, "err", err)
		return
	}

	text := ""
	if result.Insert {
		text = result.Text
	}
	if attempt.Boundary != 0 {
		text += string(attempt.Boundary)
	}

	fsm.Reset()

	// The flag is raised before the task starts and lowered only after
	// the last event is emitted; the observer keeps draining (and
	// dropping) events meanwhile.
	o.synthesizing.Store(true)
	o.wg.Add(1)
	deleteCount := attempt.DeleteCount
	shortcut := ix.Entry.Shortcut
	go func() {
		defer o.wg.Done()
		defer o.synthesizing.Store(false)
		if err := o.Synth.Replace(deleteCount, text); err != nil {
			o.Log.Error("synthesis aborted", "shortcut", shortcut, "err", err)
		}
	}()
}
