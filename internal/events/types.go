package events

// Event type constants for kelindar/event.
const (
	TypeCommandExecuted uint32 = iota + 1
	TypeLogEntry
)

// Event interface required by kelindar/event.
type Event interface {
	Type() uint32
}

// CommandExecutedEvent is published once per dispatched board command.
type CommandExecutedEvent struct {
	Operation  string `json:"operation" example:"set_display_color" doc:"Operation name"`
	Result     bool   `json:"result" example:"true" doc:"Result returned to the caller"`
	Outcome    string `json:"outcome" example:"ok" doc:"Outcome: ok, invalid, device_error"`
	Error      string `json:"error,omitempty" example:"color \"TEAL\" is not in the palette" doc:"Failure detail"`
	DurationMs int64  `json:"duration_ms" example:"3" doc:"Time spent handling the command"`
	Timestamp  string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for CommandExecutedEvent.
func (e CommandExecutedEvent) Type() uint32 { return TypeCommandExecuted }

// LogEntryEvent represents a log entry for SSE streaming.
type LogEntryEvent struct {
	Seq        uint64         `json:"seq" example:"42" doc:"Monotonic sequence number for deduplication"`
	Timestamp  string         `json:"timestamp" example:"2025-01-09T10:30:00.123Z" doc:"Log timestamp"`
	Level      string         `json:"level" example:"info" doc:"Log level"`
	Module     string         `json:"module" example:"dispatcher" doc:"Source module"`
	Message    string         `json:"message" doc:"Log message"`
	Attributes map[string]any `json:"attributes,omitempty" doc:"Structured log attributes"`
}

// Type returns the event type identifier for LogEntryEvent.
func (e LogEntryEvent) Type() uint32 { return TypeLogEntry }
