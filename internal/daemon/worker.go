package daemon

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/charmbracelet/x/term"
	"github.com/gofrs/flock"

	"github.com/fakeyudi/snipt/internal/api"
	"github.com/fakeyudi/snipt/internal/config"
	"github.com/fakeyudi/snipt/internal/expand"
	"github.com/fakeyudi/snipt/internal/hook"
	"github.com/fakeyudi/snipt/internal/logging"
	"github.com/fakeyudi/snipt/internal/observer"
	"github.com/fakeyudi/snipt/internal/snippet"
	"github.com/fakeyudi/snipt/internal/synth"
)

// RunWorker is the daemon body: it claims the PID file, starts the store
// watcher, the observer, and the control API, and runs until a
// termination signal arrives. It is invoked either directly (foreground
// start) or via the hidden daemon-worker command after detaching.
func RunWorker() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	appDir, err := config.EnsureAppDir()
	if err != nil {
		return err
	}

	logger, closeLog, err := logging.Open(cfg.LogLevel, term.IsTerminal(os.Stderr.Fd()))
	if err != nil {
		return err
	}
	defer closeLog()

	// Claim the PID file for the process lifetime. The lock, not the file
	// contents, is the single-instance guarantee.
	pidPath, err := config.PIDPath()
	if err != nil {
		return err
	}
	pidLock := flock.New(pidPath + ".lock")
	locked, err := pidLock.TryLock()
	if err != nil {
		return fmt.Errorf("locking PID file: %w", err)
	}
	if !locked {
		return ErrAlreadyRunning
	}
	defer pidLock.Unlock()

	if err := os.WriteFile(pidPath, []byte(fmt.Sprintf("%d", os.Getpid())), 0o644); err != nil {
		return fmt.Errorf("writing PID file: %w", err)
	}
	defer os.Remove(pidPath)

	ctx, stop := signal.NotifyContext(context.Background(), shutdownSignals()...)
	defer stop()

	store, err := snippet.NewStore()
	if err != nil {
		return err
	}

	reload, err := store.Watch(ctx, time.Duration(cfg.PollIntervalMS)*time.Millisecond)
	if err != nil {
		return fmt.Errorf("starting store watcher: %w", err)
	}

	obs := &observer.Observer{
		Source: hook.NewGlobalSource(),
		Synth: &synth.Synthesizer{
			Typist: synth.NewRobotTypist(),
			Delay:  time.Duration(cfg.PacingDelayMS) * time.Millisecond,
		},
		Engine: &expand.Engine{
			AppDir:        appDir,
			ScriptTimeout: time.Duration(cfg.ScriptTimeoutS) * time.Second,
		},
		Store:     store,
		Reload:    reload,
		Log:       logging.For(logger, "observer"),
		Clipboard: observer.SystemClipboard(),
	}

	server := &api.Server{
		Store: store,
		Probe: func() (bool, int) {
			status, pid := Probe()
			return status == Running, pid
		},
		Log: logging.For(logger, "api"),
	}

	apiErr := make(chan error, 1)
	go func() {
		apiErr <- server.ListenAndServe(ctx, cfg.APIPort)
	}()

	logger.Info("daemon started", "pid", os.Getpid())

	obsErr := obs.Run(ctx)
	if obsErr != nil && ctx.Err() == nil {
		// The hook died underneath us, most likely a permissions problem.
		logger.Error("observer exited", "err", obsErr)
		stop()
		<-apiErr
		return obsErr
	}

	if err := <-apiErr; err != nil {
		logger.Error("control API exited", "err", err)
	}
	logger.Info("daemon stopped")
	return nil
}
