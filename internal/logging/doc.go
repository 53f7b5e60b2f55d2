// Package logging provides structured logging with per-module log levels.
//
// Every logger returned by [GetLogger] fans out to stdout (text or json),
// the systemd journal when journald is reachable, and an in-memory
// [RingBuffer] that backs the log stream endpoint.
//
//	logging.Initialize(logging.Config{
//		Level:  "info",
//		Format: "text",
//		Modules: map[string]string{
//			"dispatcher": "debug",
//			"nats":       "warn",
//		},
//	})
//
//	logger := logging.GetLogger("dispatcher")
//	logger.Warn("Rejected board command", "operation", op)
//
// Levels are held in a [slog.LevelVar] per module. [SetLevels] updates them
// in place, so a reloaded [logging] table takes effect on loggers that were
// created earlier.
//
// Journal entries carry SYSLOG_IDENTIFIER=m5node:
//
//	journalctl -t m5node -f
//	journalctl -t m5node MODULE=dispatcher -p warning
package logging
