package expand

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrScriptFailed is returned when a script expansion exits non-zero,
// times out, or cannot be spawned.
var ErrScriptFailed = errors.New("script execution failed")

// waitDelay bounds how long a killed script's output pipes may stay open.
const waitDelay = 100 * time.Millisecond

// runScript materializes body to a temporary executable file under the app
// directory, runs it with the interpreter named by its shebang, and returns
// captured stdout with a single trailing newline trimmed. Bound parameter
// values are also passed as positional arguments. The file is removed on
// completion, timeout included.
func (e *Engine) runScript(ctx context.Context, body string, args []string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, e.scriptTimeout())
	defer cancel()

	path := filepath.Join(e.AppDir, "run-"+uuid.New().String())
	if err := os.WriteFile(path, []byte(body), 0o755); err != nil {
		return "", fmt.Errorf("%w: %v", ErrScriptFailed, err)
	}
	defer os.Remove(path)

	cmd := exec.CommandContext(ctx, path, args...)
	// Children that inherit stdout would otherwise hold Output open past
	// the timeout.
	cmd.WaitDelay = waitDelay
	out, err := cmd.Output()
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("%w: timed out after %s", ErrScriptFailed, e.scriptTimeout())
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", fmt.Errorf("%w: exit status %d: %s",
				ErrScriptFailed, exitErr.ExitCode(), strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("%w: %v", ErrScriptFailed, err)
	}

	return strings.TrimSuffix(string(out), "\n"), nil
}

// runCommand executes a single-line body via the user's shell and returns
// its trimmed stdout.
func (e *Engine) runCommand(ctx context.Context, body string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, e.scriptTimeout())
	defer cancel()

	shell := os.Getenv("SHELL")
	if shell == "" {
		shell = "/bin/sh"
	}

	cmd := exec.CommandContext(ctx, shell, "-c", body)
	cmd.WaitDelay = waitDelay
	out, err := cmd.Output()
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("%w: timed out after %s", ErrScriptFailed, e.scriptTimeout())
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", fmt.Errorf("%w: exit status %d: %s",
				ErrScriptFailed, exitErr.ExitCode(), strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("%w: %v", ErrScriptFailed, err)
	}

	return strings.TrimRight(string(out), " \t\n"), nil
}
