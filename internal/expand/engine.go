package expand

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/fakeyudi/snipt/internal/snippet"
)

// Trigger characters. The literal trigger inserts the body verbatim; the
// active trigger processes it according to its classification.
const (
	LiteralTrigger = ':'
	ActiveTrigger  = '!'
)

// Result is the outcome of a successful expansion. Insert is false when
// the expansion had a side effect (opening a URL) and nothing should be
// typed.
type Result struct {
	Text   string
	Insert bool
}

// Engine resolves matched entries to their final text.
type Engine struct {
	// AppDir hosts per-invocation temporary script files.
	AppDir string
	// ScriptTimeout bounds script and command execution wall-clock time.
	ScriptTimeout time.Duration
	// Browser overrides how URLs are opened; nil uses the platform opener.
	Browser func(url string) error
}

func (e *Engine) scriptTimeout() time.Duration {
	if e.ScriptTimeout <= 0 {
		return 5 * time.Second
	}
	return e.ScriptTimeout
}

// Expand resolves the matched entry against positionally bound argument
// values. Any error means no expansion takes place and the typed sequence
// is left intact.
func (e *Engine) Expand(ctx context.Context, ix snippet.Indexed, args []string, trigger rune) (Result, error) {
	bound, err := BindParams(ix.Params, args)
	if err != nil {
		return Result{}, err
	}

	// The literal trigger bypasses all processing.
	if trigger == LiteralTrigger {
		return Result{Text: ix.Entry.Snippet, Insert: true}, nil
	}

	body := ix.Entry.Snippet

	switch ix.Kind {
	case snippet.KindScript:
		interpolated, err := Substitute(body, bound)
		if err != nil {
			return Result{}, err
		}
		out, err := e.runScript(ctx, interpolated, args)
		if err != nil {
			return Result{}, err
		}
		return Result{Text: out, Insert: true}, nil

	case snippet.KindBuiltin:
		name, rawArgs := parseCall(strings.TrimSpace(body))
		tokens := SplitArgs(rawArgs)
		for i, tok := range tokens {
			sub, err := Substitute(tok, bound)
			if err != nil {
				return Result{}, err
			}
			tokens[i] = sub
		}
		out, err := runBuiltin(name, tokens)
		if err != nil {
			return Result{}, err
		}
		return Result{Text: out, Insert: true}, nil

	case snippet.KindParameterized:
		out, err := Substitute(body, bound)
		if err != nil {
			return Result{}, err
		}
		return Result{Text: out, Insert: true}, nil

	case snippet.KindURL:
		if err := e.openURL(strings.TrimSpace(body)); err != nil {
			return Result{}, err
		}
		return Result{Insert: false}, nil

	case snippet.KindCommand:
		cmdText := strings.TrimPrefix(strings.TrimSpace(body), snippet.CommandMarker)
		out, err := e.runCommand(ctx, cmdText)
		if err != nil {
			return Result{}, err
		}
		return Result{Text: out, Insert: true}, nil

	default:
		return Result{Text: body, Insert: true}, nil
	}
}

// parseCall splits a classified builtin body into its name and raw
// argument text. A bare name like "now" has no argument text.
func parseCall(body string) (name, rawArgs string) {
	open := strings.IndexByte(body, '(')
	if open < 0 || !strings.HasSuffix(body, ")") {
		return body, ""
	}
	return body[:open], body[open+1 : len(body)-1]
}

// openURL opens url in the default browser. Classification guarantees an
// explicit scheme.
func (e *Engine) openURL(url string) error {
	if e.Browser != nil {
		return e.Browser(url)
	}

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("opening %s: %w", url, err)
	}
	return nil
}
