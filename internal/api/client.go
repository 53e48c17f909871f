package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// healthTimeout bounds the loopback health probe.
const healthTimeout = 2 * time.Second

// DiscoverPort returns the port to probe: the sidecar file when present,
// otherwise the configured default.
func DiscoverPort(defaultPort int) int {
	if port, err := ReadPortFile(); err == nil && port > 0 {
		return port
	}
	return defaultPort
}

// CheckHealth probes the health endpoint on the given port.
func CheckHealth(port int) error {
	client := &http.Client{Timeout: healthTimeout}
	resp, err := client.Get(fmt.Sprintf("http://127.0.0.1:%d/health", port))
	if err != nil {
		return fmt.Errorf("control API unreachable on port %d: %w", port, err)
	}
	defer resp.Body.Close()

	var env Envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("malformed health response on port %d: %w", port, err)
	}
	if !env.Success {
		return fmt.Errorf("control API on port %d reported failure", port)
	}
	return nil
}
