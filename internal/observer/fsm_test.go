package observer

import (
	"testing"
	"time"

	"pgregory.net/rapid"

	"github.com/fakeyudi/snipt/internal/hook"
)

// feedString drives the FSM with a typed string, collecting any attempts.
func feedString(f *FSM, s string) []*Attempt {
	var attempts []*Attempt
	for _, c := range s {
		var ev hook.Event
		switch c {
		case '\b':
			ev = hook.Event{Kind: hook.Backspace}
		case '\n':
			ev = hook.Event{Kind: hook.Enter}
		case '\t':
			ev = hook.Event{Kind: hook.Tab}
		default:
			ev = hook.Event{Kind: hook.Char, Rune: c}
		}
		if a := f.Feed(ev); a != nil {
			attempts = append(attempts, a)
		}
	}
	return attempts
}

func TestBareShortcutRecognition(t *testing.T) {
	f := NewFSM()
	attempts := feedString(f, ":hello ")

	if len(attempts) != 1 {
		t.Fatalf("got %d attempts, want 1", len(attempts))
	}
	a := attempts[0]
	if a.Trigger != ':' || a.Name != "hello" || a.HasArgs {
		t.Errorf("attempt = %+v", a)
	}
	if a.Boundary != ' ' {
		t.Errorf("boundary = %q, want space", a.Boundary)
	}
	if a.DeleteCount != 7 {
		t.Errorf("DeleteCount = %d, want 7", a.DeleteCount)
	}
}

func TestParameterizedRecognition(t *testing.T) {
	f := NewFSM()
	attempts := feedString(f, "!greet(John)")

	if len(attempts) != 1 {
		t.Fatalf("got %d attempts, want 1", len(attempts))
	}
	a := attempts[0]
	if a.Trigger != '!' || a.Name != "greet" || !a.HasArgs || a.ArgsText != "John" {
		t.Errorf("attempt = %+v", a)
	}
	if a.Boundary != 0 {
		t.Errorf("boundary = %q, want none", a.Boundary)
	}
	if a.DeleteCount != 12 {
		t.Errorf("DeleteCount = %d, want 12", a.DeleteCount)
	}
}

func TestNestedParenthesesInArguments(t *testing.T) {
	f := NewFSM()
	attempts := feedString(f, "!calc(f(a,b),c)")

	if len(attempts) != 1 {
		t.Fatalf("got %d attempts, want 1", len(attempts))
	}
	if attempts[0].ArgsText != "f(a,b),c" {
		t.Errorf("ArgsText = %q", attempts[0].ArgsText)
	}
}

func TestTriggerRequiresWordBoundary(t *testing.T) {
	// Mid-word colon must not arm.
	f := NewFSM()
	if got := feedString(f, "ab:cd "); len(got) != 0 {
		t.Errorf("mid-word trigger armed: %+v", got[0])
	}

	// After whitespace it arms.
	f = NewFSM()
	if got := feedString(f, "ab :cd "); len(got) != 1 {
		t.Fatalf("post-space trigger did not arm")
	}

	// A doubled trigger cancels rather than re-arming.
	f = NewFSM()
	if got := feedString(f, "!!x "); len(got) != 0 {
		t.Errorf("doubled trigger armed: %+v", got[0])
	}
}

func TestBackspaceEditsCollection(t *testing.T) {
	f := NewFSM()
	// "helloX" then backspace, then boundary: the attempt sees "hello".
	attempts := feedString(f, ":helloX\b ")
	if len(attempts) != 1 {
		t.Fatalf("got %d attempts, want 1", len(attempts))
	}
	if attempts[0].Name != "hello" {
		t.Errorf("Name = %q, want hello", attempts[0].Name)
	}
	if attempts[0].DeleteCount != 7 {
		t.Errorf("DeleteCount = %d, want 7", attempts[0].DeleteCount)
	}
}

func TestBackspaceThroughParenthesis(t *testing.T) {
	f := NewFSM()
	// Erase the open paren, then terminate as a bare shortcut.
	attempts := feedString(f, "!greet(\b ")
	if len(attempts) != 1 {
		t.Fatalf("got %d attempts, want 1", len(attempts))
	}
	if attempts[0].HasArgs || attempts[0].Name != "greet" {
		t.Errorf("attempt = %+v", attempts[0])
	}
}

func TestNewlineCancelsOpenArguments(t *testing.T) {
	f := NewFSM()
	if got := feedString(f, "!greet(Jo\nhn) "); len(got) != 0 {
		t.Errorf("mismatched parens emitted: %+v", got[0])
	}
}

func TestEscapeCancels(t *testing.T) {
	f := NewFSM()
	feedString(f, ":hel")
	f.Feed(hook.Event{Kind: hook.Escape})
	if got := feedString(f, "lo "); len(got) != 0 {
		t.Errorf("attempt survived escape: %+v", got[0])
	}
}

func TestEnterTerminatesBareName(t *testing.T) {
	f := NewFSM()
	attempts := feedString(f, ":hello\n")
	if len(attempts) != 1 {
		t.Fatalf("got %d attempts, want 1", len(attempts))
	}
	if attempts[0].Boundary != '\n' {
		t.Errorf("boundary = %q, want newline", attempts[0].Boundary)
	}
}

func TestStaleAttemptExpires(t *testing.T) {
	f := NewFSM()
	current := time.Now()
	f.now = func() time.Time { return current }

	feedString(f, ":hel")
	current = current.Add(maxAge + time.Second)
	if got := feedString(f, "lo "); len(got) != 0 {
		t.Errorf("stale attempt emitted: %+v", got[0])
	}
}

// Property: any identifier typed after a trigger and terminated by a space
// is recognized with the right deletion count, regardless of preceding
// text without triggers.
func TestRecognitionProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		prefix := rapid.StringOfN(rapid.RuneFrom([]rune("abc d")), 0, 10, -1).Draw(t, "prefix")
		first := rapid.RuneFrom([]rune("abcdefghijklmnopqrstuvwxyz")).Draw(t, "first")
		rest := rapid.StringOfN(rapid.RuneFrom([]rune("abcdefghijklmnopqrstuvwxyz0123456789-_")), 0, 20, -1).Draw(t, "rest")
		name := string(first) + rest
		trigger := rapid.RuneFrom([]rune(":!")).Draw(t, "trigger")

		f := NewFSM()
		attempts := feedString(f, prefix+" "+string(trigger)+name+" ")

		if len(attempts) != 1 {
			t.Fatalf("got %d attempts, want 1 (prefix=%q name=%q)", len(attempts), prefix, name)
		}
		a := attempts[0]
		if a.Name != name {
			t.Errorf("Name = %q, want %q", a.Name, name)
		}
		if a.Trigger != trigger {
			t.Errorf("Trigger = %q, want %q", a.Trigger, trigger)
		}
		if want := 1 + len([]rune(name)) + 1; a.DeleteCount != want {
			t.Errorf("DeleteCount = %d, want %d", a.DeleteCount, want)
		}
	})
}

// Property: text containing no trigger character never produces an attempt.
func TestNoTriggerNoAttempt(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		text := rapid.StringOfN(rapid.RuneFrom([]rune("abcdefg hij.k,l(m)\n\t")), 0, 50, -1).Draw(t, "text")
		f := NewFSM()
		if got := feedString(f, text); len(got) != 0 {
			t.Fatalf("attempt from trigger-free text %q: %+v", text, got[0])
		}
	})
}
