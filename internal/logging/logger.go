package logging

import (
	"log/slog"
	"os"
	"strings"
	"sync"
)

const defaultBufferSize = 1000

// Config selects the output format and the global and per-module levels.
type Config struct {
	Level   string            `toml:"level"`
	Format  string            `toml:"format"`
	Modules map[string]string `toml:"modules"`
}

// levelFor resolves the effective level of module under config. Unknown
// level names fall back to the global level, then to info.
func (c Config) levelFor(module string) slog.Level {
	level, ok := parseLevel(c.Level)
	if !ok {
		level = slog.LevelInfo
	}
	if override, ok := parseLevel(c.Modules[module]); ok {
		return override
	}
	return level
}

// moduleLogger is a cached logger and the LevelVar gating all its handlers.
type moduleLogger struct {
	logger *slog.Logger
	level  *slog.LevelVar
}

var (
	mutex       sync.RWMutex
	modules     = make(map[string]moduleLogger)
	current     Config
	initialized bool
	rootLevel   = &slog.LevelVar{}
	logBuffer   *RingBuffer
	logCallback LogCallback
)

// Initialize sets the format and levels and installs the default slog
// logger. Loggers handed out earlier keep their identity; only their
// levels change.
func Initialize(config Config) {
	mutex.Lock()
	defer mutex.Unlock()

	current = config
	initialized = true
	if logBuffer == nil {
		logBuffer = NewRingBuffer(defaultBufferSize)
	}
	applyLevelsLocked()

	slog.SetDefault(slog.New(createHandler(config.Format, rootLevel)))
}

// SetLevels changes global and per-module levels at runtime. The format is
// fixed at Initialize.
func SetLevels(config Config) {
	mutex.Lock()
	defer mutex.Unlock()

	current.Level = config.Level
	current.Modules = config.Modules
	applyLevelsLocked()
}

func applyLevelsLocked() {
	rootLevel.Set(current.levelFor(""))
	for name, m := range modules {
		m.level.Set(current.levelFor(name))
	}
}

// GetBuffer returns the ring buffer behind the log stream, or nil before Initialize.
func GetBuffer() *RingBuffer {
	mutex.RLock()
	defer mutex.RUnlock()
	return logBuffer
}

// SetLogCallback registers a func called with every buffered entry.
func SetLogCallback(callback LogCallback) {
	mutex.Lock()
	defer mutex.Unlock()
	logCallback = callback
}

// GetLogger returns the logger for module, tagged with a "module" attribute.
// Loggers requested before Initialize log text at info until it runs.
func GetLogger(module string) *slog.Logger {
	mutex.RLock()
	m, ok := modules[module]
	mutex.RUnlock()
	if ok {
		return m.logger
	}

	mutex.Lock()
	defer mutex.Unlock()
	if m, ok := modules[module]; ok {
		return m.logger
	}

	level := &slog.LevelVar{}
	format := "text"
	if initialized {
		level.Set(current.levelFor(module))
		format = current.Format
	}
	m = moduleLogger{
		logger: slog.New(createHandler(format, level)).With("module", module),
		level:  level,
	}
	modules[module] = m
	return m.logger
}

// createHandler fans out to stdout (when it goes somewhere), the journal
// (when reachable) and the ring buffer.
func createHandler(format string, level slog.Leveler) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}

	var stdout slog.Handler = slog.NewTextHandler(os.Stdout, opts)
	if format == "json" {
		stdout = slog.NewJSONHandler(os.Stdout, opts)
	}

	handlers := MultiHandler{}
	if isStdoutAvailable() {
		handlers = append(handlers, stdout)
	}
	if IsJournalAvailable() {
		handlers = append(handlers, NewJournalHandler(level))
	}
	handlers = append(handlers, NewBufferHandler(level))

	if len(handlers) == 1 {
		return handlers[0]
	}
	return handlers
}

// isStdoutAvailable reports whether stdout is open on a device, pipe, socket or file.
func isStdoutAvailable() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	mode := fi.Mode()
	return mode&(os.ModeCharDevice|os.ModeNamedPipe|os.ModeSocket) != 0 || mode.IsRegular()
}

// parseLevel accepts debug, info, warn (or warning) and error in any case.
func parseLevel(name string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return 0, false
	}
}
