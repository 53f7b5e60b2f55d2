package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func resetState() {
	mutex.Lock()
	modules = make(map[string]moduleLogger)
	initialized = false
	current = Config{}
	logBuffer = nil
	logCallback = nil
	mutex.Unlock()
}

func TestModuleLevelOverride(t *testing.T) {
	resetState()

	Initialize(Config{
		Level:  "info",
		Format: "text",
		Modules: map[string]string{
			"dispatcher": "debug",
			"api":        "warn",
		},
	})

	tests := []struct {
		module    string
		wantDebug bool
		wantInfo  bool
		wantWarn  bool
	}{
		{"dispatcher", true, true, true},
		{"api", false, false, true},
		{"other", false, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.module, func(t *testing.T) {
			handler := GetLogger(tt.module).Handler()

			gotDebug := handler.Enabled(context.Background(), slog.LevelDebug)
			gotInfo := handler.Enabled(context.Background(), slog.LevelInfo)
			gotWarn := handler.Enabled(context.Background(), slog.LevelWarn)

			if gotDebug != tt.wantDebug {
				t.Errorf("module %q: Debug enabled = %v, want %v", tt.module, gotDebug, tt.wantDebug)
			}
			if gotInfo != tt.wantInfo {
				t.Errorf("module %q: Info enabled = %v, want %v", tt.module, gotInfo, tt.wantInfo)
			}
			if gotWarn != tt.wantWarn {
				t.Errorf("module %q: Warn enabled = %v, want %v", tt.module, gotWarn, tt.wantWarn)
			}
		})
	}
}

func TestGetLoggerBeforeInitialize(t *testing.T) {
	resetState()

	loggerBefore := GetLogger("nats")
	handlerBefore := loggerBefore.Handler()

	if handlerBefore.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("Logger created before Initialize should NOT have debug enabled")
	}

	Initialize(Config{
		Level:   "info",
		Format:  "text",
		Modules: map[string]string{"nats": "debug"},
	})

	if loggerBefore != GetLogger("nats") {
		t.Error("Logger should be cached - same pointer before and after Initialize")
	}
	if !handlerBefore.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("Cached logger should have debug enabled after Initialize updates LevelVar")
	}
}

func TestSetLevelsUpdatesExistingLoggers(t *testing.T) {
	resetState()

	Initialize(Config{Level: "info", Format: "text"})
	device := GetLogger("device").Handler()
	api := GetLogger("api").Handler()

	SetLevels(Config{
		Level:   "error",
		Modules: map[string]string{"device": "debug"},
	})

	if !device.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("device logger should accept Debug after SetLevels")
	}
	if api.Enabled(context.Background(), slog.LevelWarn) {
		t.Error("api logger should reject Warn after global level raised to error")
	}

	// Dropping the override falls back to the global level
	SetLevels(Config{Level: "warn"})
	if device.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("device logger should reject Info once its override is removed")
	}
	if !api.Enabled(context.Background(), slog.LevelWarn) {
		t.Error("api logger should accept Warn at global warn level")
	}
}

func TestBufferHandlerCapturesEntries(t *testing.T) {
	resetState()
	Initialize(Config{Level: "debug", Format: "text"})

	var got []LogEntry
	SetLogCallback(func(entry LogEntry) {
		got = append(got, entry)
	})

	logger := slog.New(NewBufferHandler(slog.LevelInfo)).With("module", "dispatcher")
	logger.Debug("dropped")
	logger.WithGroup("req").Warn("Rejected board command", "operation", "set_dout", "pin_id", 5)

	if len(got) != 1 {
		t.Fatalf("callback received %d entries, want 1", len(got))
	}
	entry := got[0]
	if entry.Module != "dispatcher" {
		t.Errorf("Module = %q, want dispatcher", entry.Module)
	}
	if entry.Level != "warn" {
		t.Errorf("Level = %q, want warn", entry.Level)
	}
	if entry.Attributes["req.operation"] != "set_dout" {
		t.Errorf("Attributes = %v, want req.operation=set_dout", entry.Attributes)
	}
	if entry.Seq == 0 {
		t.Error("Seq should be assigned by the ring buffer")
	}

	buffered := GetBuffer().ReadAll()
	if len(buffered) != 1 || buffered[0].Message != "Rejected board command" {
		t.Errorf("buffer = %+v, want the single warn entry", buffered)
	}
}

func TestRingBufferWrapAndReadSince(t *testing.T) {
	rb := NewRingBuffer(3)
	for _, msg := range []string{"a", "b", "c", "d", "e"} {
		rb.Write(LogEntry{Message: msg})
	}

	if rb.Count() != 3 {
		t.Fatalf("Count() = %d, want 3", rb.Count())
	}

	var msgs []string
	for _, entry := range rb.ReadAll() {
		msgs = append(msgs, entry.Message)
	}
	if strings.Join(msgs, "") != "cde" {
		t.Errorf("ReadAll() messages = %v, want [c d e]", msgs)
	}

	since := rb.ReadSince(4)
	if len(since) != 1 || since[0].Message != "e" || since[0].Seq != 5 {
		t.Errorf("ReadSince(4) = %+v, want [e seq=5]", since)
	}
	if got := rb.ReadSince(5); got != nil {
		t.Errorf("ReadSince(5) = %+v, want nil", got)
	}
}

func TestMultiHandlerDebugOutput(t *testing.T) {
	var buf bytes.Buffer

	debugHandler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	infoHandler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})

	logger := slog.New(NewMultiHandler(debugHandler, infoHandler)).With("module", "test")
	logger.Debug("debug only message")

	output := buf.String()
	if count := strings.Count(output, "debug only message"); count != 1 {
		t.Errorf("Expected 1 debug message, got %d. Output: %s", count, output)
	}
}

func TestParseLevelValues(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
		isNil bool
	}{
		{"debug", slog.LevelDebug, false},
		{"DEBUG", slog.LevelDebug, false},
		{"info", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"invalid", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := parseLevel(tt.input)
			if ok == tt.isNil {
				t.Fatalf("parseLevel(%q) ok = %v, want %v", tt.input, ok, !tt.isNil)
			}
			if ok && got != tt.want {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestBufferHandlerGroupScope(t *testing.T) {
	resetState()
	Initialize(Config{Level: "info"})

	var got LogEntry
	SetLogCallback(func(entry LogEntry) { got = entry })

	logger := slog.New(NewBufferHandler(slog.LevelInfo)).
		With("node", "bench").
		WithGroup("req").
		With("operation", "set_pwmout")
	logger.Info("Handled", "val", 300, slog.Group("err", "reason", "out of range"))

	want := map[string]any{
		"node":           "bench",
		"req.operation":  "set_pwmout",
		"req.val":        int64(300),
		"req.err.reason": "out of range",
	}
	for k, v := range want {
		if got.Attributes[k] != v {
			t.Errorf("Attributes[%q] = %v (%T), want %v", k, got.Attributes[k], got.Attributes[k], v)
		}
	}
	if len(got.Attributes) != len(want) {
		t.Errorf("Attributes = %v, want %d keys", got.Attributes, len(want))
	}
}

func TestJournalFields(t *testing.T) {
	h := NewJournalHandler(slog.LevelInfo).
		WithAttrs([]slog.Attr{slog.String("module", "dispatcher")}).
		WithGroup("req").(*JournalHandler)

	r := slog.NewRecord(time.Now(), slog.LevelWarn, "Rejected board command", 0)
	r.AddAttrs(slog.Int("pin_id", 3), slog.Float64("scale", 0.5), slog.Bool("sync", true))

	fields := h.fields(r)
	want := map[string]string{
		"MODULE":     "dispatcher",
		"REQ_PIN_ID": "3",
		"REQ_SCALE":  "0.5",
		"REQ_SYNC":   "true",
	}
	for k, v := range want {
		if fields[k] != v {
			t.Errorf("fields[%q] = %q, want %q", k, fields[k], v)
		}
	}
	if p := journalPriority(slog.LevelWarn); p != 4 {
		t.Errorf("journalPriority(warn) = %d, want 4", p)
	}
}
