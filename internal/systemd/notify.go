package systemd

import (
	"context"
	"log/slog"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
)

// Notifier sends sd_notify state changes. Outside systemd every call is a no-op.
type Notifier struct {
	logger *slog.Logger
	notify func(unsetEnvironment bool, state string) (bool, error)
}

// NewNotifier creates a notifier that logs delivery failures to logger.
func NewNotifier(logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{logger: logger, notify: daemon.SdNotify}
}

func (n *Notifier) send(state string) bool {
	sent, err := n.notify(false, state)
	if err != nil {
		n.logger.Warn("sd_notify failed", "state", state, "error", err)
		return false
	}
	return sent
}

// Ready reports READY=1 and returns whether systemd received it.
func (n *Notifier) Ready() bool {
	sent := n.send(daemon.SdNotifyReady)
	if sent {
		n.logger.Debug("Notified systemd", "state", daemon.SdNotifyReady)
	}
	return sent
}

// Stopping reports STOPPING=1.
func (n *Notifier) Stopping() bool {
	return n.send(daemon.SdNotifyStopping)
}

// Status sets the free-form unit status line shown by systemctl status.
func (n *Notifier) Status(status string) bool {
	return n.send("STATUS=" + status)
}

// RunWatchdog pings WATCHDOG=1 at half the configured WatchdogSec until ctx
// is done. Returns immediately when the unit has no watchdog.
func (n *Notifier) RunWatchdog(ctx context.Context) {
	interval, err := daemon.SdWatchdogEnabled(false)
	if err != nil {
		n.logger.Warn("Failed to read watchdog settings", "error", err)
		return
	}
	if interval <= 0 {
		return
	}
	n.runWatchdog(ctx, interval/2)
}

func (n *Notifier) runWatchdog(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	n.logger.Info("systemd watchdog enabled", "interval", every)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n.send(daemon.SdNotifyWatchdog)
		}
	}
}
