package observer_test

import (
	"context"
	"io"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fakeyudi/snipt/internal/expand"
	"github.com/fakeyudi/snipt/internal/hook"
	"github.com/fakeyudi/snipt/internal/observer"
	"github.com/fakeyudi/snipt/internal/snippet"
	"github.com/fakeyudi/snipt/internal/synth"
)

// screen models the focused text field: user key events and synthesized
// events both land here, in order.
type screen struct {
	mu    sync.Mutex
	runes []rune
	// typeDelay slows synthesized emission to widen the suppression window.
	typeDelay time.Duration
}

func (s *screen) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return string(s.runes)
}

func (s *screen) applyUser(ev hook.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch ev.Kind {
	case hook.Char:
		s.runes = append(s.runes, ev.Rune)
	case hook.Backspace:
		if len(s.runes) > 0 {
			s.runes = s.runes[:len(s.runes)-1]
		}
	case hook.Enter:
		s.runes = append(s.runes, '\n')
	case hook.Tab:
		s.runes = append(s.runes, '\t')
	}
}

// screen implements synth.Typist for the synthesized side.
func (s *screen) Backspace() error {
	time.Sleep(s.typeDelay)
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.runes) > 0 {
		s.runes = s.runes[:len(s.runes)-1]
	}
	return nil
}

func (s *screen) Type(text string) error {
	time.Sleep(s.typeDelay)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runes = append(s.runes, []rune(text)...)
	return nil
}

func (s *screen) Enter() error {
	time.Sleep(s.typeDelay)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runes = append(s.runes, '\n')
	return nil
}

// chanSource feeds scripted events to the observer.
type chanSource struct {
	ch chan hook.Event
}

func (c *chanSource) Events(ctx context.Context) (<-chan hook.Event, error) {
	return c.ch, nil
}

type fixture struct {
	screen *screen
	source *chanSource
	store  *snippet.Store
	reload chan struct{}
	obs    *observer.Observer
	cancel context.CancelFunc
	done   chan struct{}

	clipMu sync.Mutex
	clip   string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	scr := &screen{}
	src := &chanSource{ch: make(chan hook.Event, 256)}
	store := snippet.NewStoreAt(filepath.Join(t.TempDir(), "snipt.json"))
	reload := make(chan struct{}, 1)

	obs := &observer.Observer{
		Source: src,
		Synth:  &synth.Synthesizer{Typist: scr},
		Engine: &expand.Engine{AppDir: t.TempDir(), ScriptTimeout: 5 * time.Second},
		Store:  store,
		Reload: reload,
		Log:    log.New(io.Discard),
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	f := &fixture{screen: scr, source: src, store: store, reload: reload, obs: obs, cancel: cancel, done: done}
	obs.Clipboard = func() (string, bool) {
		f.clipMu.Lock()
		defer f.clipMu.Unlock()
		return f.clip, f.clip != ""
	}
	t.Cleanup(func() {
		cancel()
		<-done
	})

	go func() {
		defer close(done)
		_ = obs.Run(ctx)
	}()

	return f
}

// paste sets the clipboard, applies the pasted text to the screen as the
// focused application would, and delivers the paste chord to the observer.
func (f *fixture) paste(text string) {
	f.clipMu.Lock()
	f.clip = text
	f.clipMu.Unlock()
	for _, c := range text {
		f.screen.applyUser(hook.Event{Kind: hook.Char, Rune: c})
	}
	f.source.ch <- hook.Event{Kind: hook.Paste}
}

// typeString delivers a typed string to both the screen and the observer,
// the way the OS hook would.
func (f *fixture) typeString(s string) {
	for _, c := range s {
		var ev hook.Event
		switch c {
		case '\b':
			ev = hook.Event{Kind: hook.Backspace}
		case '\n':
			ev = hook.Event{Kind: hook.Enter}
		default:
			ev = hook.Event{Kind: hook.Char, Rune: c}
		}
		f.screen.applyUser(ev)
		f.source.ch <- ev
	}
}

func (f *fixture) eventually(t *testing.T, want string) {
	t.Helper()
	assert.Eventually(t, func() bool {
		return f.screen.String() == want && !f.obs.Synthesizing()
	}, 3*time.Second, 5*time.Millisecond, "screen = %q, want %q", f.screen.String(), want)
}

// settle waits out any expansion that might still fire.
func (f *fixture) settle() {
	time.Sleep(150 * time.Millisecond)
}

func TestLiteralExpansion(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.Add("hello", "Hello, world!"))
	f.reload <- struct{}{}
	f.settle() // let the snapshot swap land before typing

	f.typeString(":hello ")
	f.eventually(t, "Hello, world! ")
}

func TestParameterSubstitution(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.Add("greet(name)", "Hello, ${name}!"))
	f.reload <- struct{}{}
	f.settle() // let the snapshot swap land before typing

	f.typeString("!greet(John)")
	f.eventually(t, "Hello, John!")
}

func TestBuiltinTransform(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.Add("uppercase(text)", "uppercase(${text})"))
	f.reload <- struct{}{}
	f.settle() // let the snapshot swap land before typing

	f.typeString("!uppercase(hello)")
	f.eventually(t, "HELLO")
}

func TestNoMatchLeavesInputIntact(t *testing.T) {
	f := newFixture(t)

	f.typeString(":nope ")
	f.settle()
	assert.Equal(t, ":nope ", f.screen.String())

	f.typeString("\b")
	f.settle()
	assert.Equal(t, ":nope", f.screen.String())
	assert.False(t, f.obs.Synthesizing())
}

func TestUnknownShortcutNeverChangesText(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.Add("hello", "Hello, world!"))
	f.reload <- struct{}{}
	f.settle() // let the snapshot swap land before typing

	// Active trigger with an unregistered name.
	f.typeString("!missing ")
	f.settle()
	assert.Equal(t, "!missing ", f.screen.String())
}

func TestArityMismatchLeavesInputIntact(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.Add("greet(name)", "Hello, ${name}!"))
	f.reload <- struct{}{}
	f.settle() // let the snapshot swap land before typing

	f.typeString("!greet(a,b)")
	f.settle()
	assert.Equal(t, "!greet(a,b)", f.screen.String())
}

func TestHotReloadPicksUpExternalWrite(t *testing.T) {
	f := newFixture(t)

	// Not yet registered: typing leaves the text as-is.
	f.typeString("!k ")
	f.settle()
	require.Equal(t, "!k ", f.screen.String())

	// An external writer adds the entry; the watcher would fire Reload.
	require.NoError(t, f.store.Add("k", "X"))
	f.reload <- struct{}{}
	f.settle()
	f.typeString("\b\b\b") // clear "!k "
	f.settle()

	f.typeString("!k ")
	f.eventually(t, "X ")
}

func TestSynthesizingFlagSuppressesKeyHandling(t *testing.T) {
	f := newFixture(t)
	f.screen.typeDelay = 30 * time.Millisecond // keep the flag up a while
	require.NoError(t, f.store.Add("hello", "Hello, world!"))
	require.NoError(t, f.store.Add("hi", "yo"))
	f.reload <- struct{}{}
	f.settle() // let the snapshot swap land before typing

	f.typeString(":hello ")

	// Wait for synthesis to begin, then type a second trigger sequence.
	require.Eventually(t, func() bool { return f.obs.Synthesizing() }, 2*time.Second, time.Millisecond)
	for _, c := range ":hi " {
		// Events arriving while the flag is raised (the hook echo of
		// synthesized keys among them) must be dropped outright.
		f.source.ch <- hook.Event{Kind: hook.Char, Rune: c}
	}

	f.eventually(t, "Hello, world! ")
}

func TestPasteCompletesTriggerSequence(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.Add("hello", "Hello, world!"))
	f.reload <- struct{}{}
	f.settle() // let the snapshot swap land before typing

	// Half the shortcut is typed, the rest pasted, then a boundary.
	f.typeString(":hel")
	f.paste("lo")
	f.typeString(" ")
	f.eventually(t, "Hello, world! ")
}

func TestPasteCompletesParenthesizedArguments(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.Add("greet(name)", "Hello, ${name}!"))
	f.reload <- struct{}{}
	f.settle() // let the snapshot swap land before typing

	f.typeString("!greet(")
	f.paste("John)")
	f.eventually(t, "Hello, John!")
}

func TestPasteWithoutTriggerIsInert(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.Add("hello", "Hello, world!"))
	f.reload <- struct{}{}
	f.settle() // let the snapshot swap land before typing

	f.paste("plain pasted text ")
	f.settle()
	assert.Equal(t, "plain pasted text ", f.screen.String())
}

func TestMultilineExpansionEmitsLineBreaks(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.Add("sig", "Regards,\nAda"))
	f.reload <- struct{}{}
	f.settle() // let the snapshot swap land before typing

	f.typeString(":sig ")
	f.eventually(t, "Regards,\nAda ")
}

func TestScriptExpansion(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shebang scripts are unix-only")
	}
	f := newFixture(t)
	require.NoError(t, f.store.Add("shout", "#!/bin/sh\necho HEY"))
	f.reload <- struct{}{}
	f.settle() // let the snapshot swap land before typing

	f.typeString("!shout ")
	f.eventually(t, "HEY ")
}
