package nats

import (
	"encoding/json"
	"fmt"

	"github.com/smazurov/m5node/internal/dispatcher"
	"github.com/smazurov/m5node/internal/events"
)

// SubjectPrefix roots every subject used by the node.
const SubjectPrefix = "m5node"

// DefaultNode is the node name used when none is configured.
const DefaultNode = "default"

// SubjectCommand returns the request subject for an operation on a node.
func SubjectCommand(node, operation string) string {
	return fmt.Sprintf("%s.%s.cmd.%s", SubjectPrefix, node, operation)
}

// SubjectCommandEvents returns the subject command executed events are published on.
func SubjectCommandEvents(node string) string {
	return fmt.Sprintf("%s.%s.events.command", SubjectPrefix, node)
}

// QueueGroup returns the queue group shared by every service instance of a node.
func QueueGroup(node string) string {
	return SubjectPrefix + "." + node
}

// CommandEventMessage is a command executed event as published over NATS.
type CommandEventMessage struct {
	Node       string `json:"node"`
	Operation  string `json:"operation"`
	Result     bool   `json:"result"`
	Outcome    string `json:"outcome"`
	Error      string `json:"error,omitempty"`
	DurationMs int64  `json:"duration_ms"`
	Timestamp  string `json:"timestamp"`
}

// NewCommandEventMessage tags a bus event with the node it came from.
func NewCommandEventMessage(node string, e events.CommandExecutedEvent) CommandEventMessage {
	return CommandEventMessage{
		Node:       node,
		Operation:  e.Operation,
		Result:     e.Result,
		Outcome:    e.Outcome,
		Error:      e.Error,
		DurationMs: e.DurationMs,
		Timestamp:  e.Timestamp,
	}
}

// Marshal serializes the message to JSON.
func (m CommandEventMessage) Marshal() ([]byte, error) {
	return json.Marshal(m)
}

// UnmarshalCommandEvent deserializes a CommandEventMessage from JSON.
func UnmarshalCommandEvent(data []byte) (CommandEventMessage, error) {
	var m CommandEventMessage
	err := json.Unmarshal(data, &m)
	return m, err
}

// MarshalResponse serializes a dispatcher response as the reply payload.
func MarshalResponse(resp dispatcher.Response) []byte {
	if resp.Result {
		return []byte(`{"result":true}`)
	}
	return []byte(`{"result":false}`)
}

// UnmarshalResponse deserializes a reply payload.
func UnmarshalResponse(data []byte) (dispatcher.Response, error) {
	var resp dispatcher.Response
	if err := json.Unmarshal(data, &resp); err != nil {
		return dispatcher.Response{}, fmt.Errorf("invalid reply %q: %w", data, err)
	}
	return resp, nil
}
