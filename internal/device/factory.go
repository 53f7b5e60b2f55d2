package device

import (
	"fmt"
	"log/slog"
	"strings"
)

// Driver names accepted by New.
const (
	DriverNoop = "noop"
	DriverSim  = "sim"
)

// New creates the client for the named driver. An empty name selects the
// simulator.
func New(driver string, logger *slog.Logger) (Client, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch strings.ToLower(strings.TrimSpace(driver)) {
	case DriverSim, "":
		logger.Info("Using simulated board")
		return NewSimulator(), nil
	case DriverNoop:
		logger.Info("Using no-op board driver")
		return newNoop(logger), nil
	default:
		return nil, fmt.Errorf("unknown device driver %q", driver)
	}
}

// Drivers lists the driver names accepted by New.
func Drivers() []string {
	return []string{DriverSim, DriverNoop}
}
