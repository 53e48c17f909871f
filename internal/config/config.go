// Package config resolves the snipt application directory and the daemon's
// tunable settings. Everything snipt persists lives under ~/.snipt: the
// snippet database, the daemon PID file, the API port sidecar, and the log.
package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

const (
	// DBFilename is the snippet database inside the app directory.
	DBFilename = "snipt.json"
	// PIDFilename holds the PID of the running daemon.
	PIDFilename = "snipt-daemon.pid"
	// PortFilename records the port the control API bound to.
	PortFilename = "snipt-api.port"
	// LogFilename is the daemon log.
	LogFilename = "daemon.log"
)

// Config holds all configurable snipt settings.
type Config struct {
	PacingDelayMS  int    `json:"pacing_delay_ms"`  // delay between synthesized key events
	PollIntervalMS int    `json:"poll_interval_ms"` // store watcher polling cadence
	ScriptTimeoutS int    `json:"script_timeout_s"` // wall-clock limit for script expansions
	APIPort        int    `json:"api_port"`         // first port tried by the control API
	LogLevel       string `json:"log_level"`        // "debug" | "info" | "warn" | "error"
}

// Defaults returns sensible default configuration values.
func Defaults() Config {
	return Config{
		PacingDelayMS:  2,
		PollIntervalMS: 1000,
		ScriptTimeoutS: 5,
		APIPort:        7777,
		LogLevel:       "info",
	}
}

// AppDir returns the snipt application directory (~/.snipt), without
// creating it.
func AppDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".snipt"), nil
}

// EnsureAppDir returns the application directory, creating it if needed.
func EnsureAppDir() (string, error) {
	dir, err := AppDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

// DBPath returns the full path to the snippet database file.
func DBPath() (string, error) {
	return appFile(DBFilename)
}

// PIDPath returns the full path to the daemon PID file.
func PIDPath() (string, error) {
	return appFile(PIDFilename)
}

// PortPath returns the full path to the API port sidecar file.
func PortPath() (string, error) {
	return appFile(PortFilename)
}

// LogPath returns the full path to the daemon log file.
func LogPath() (string, error) {
	return appFile(LogFilename)
}

func appFile(name string) (string, error) {
	dir, err := AppDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// Load reads ~/.snipt/config.json and merges it over Defaults.
// An absent file yields the defaults.
func Load() (Config, error) {
	dir, err := AppDir()
	if err != nil {
		return Defaults(), err
	}
	return loadFile(filepath.Join(dir, "config.json"))
}

// loadFile reads and parses a JSON config file at path, merging present
// values over defaults so a partial config stays valid.
func loadFile(path string) (Config, error) {
	result := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return result, nil
		}
		return result, err
	}

	var file Config
	if err := json.Unmarshal(data, &file); err != nil {
		return result, &ParseError{Path: path, Err: err}
	}

	if file.PacingDelayMS > 0 {
		result.PacingDelayMS = file.PacingDelayMS
	}
	if file.PollIntervalMS > 0 {
		result.PollIntervalMS = file.PollIntervalMS
	}
	if file.ScriptTimeoutS > 0 {
		result.ScriptTimeoutS = file.ScriptTimeoutS
	}
	if file.APIPort > 0 {
		result.APIPort = file.APIPort
	}
	if file.LogLevel != "" {
		result.LogLevel = file.LogLevel
	}

	return result, nil
}

// ParseError is returned when a config file exists but cannot be parsed.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return "failed to parse config file " + e.Path + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
