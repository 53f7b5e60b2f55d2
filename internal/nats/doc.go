// Package nats carries board commands over NATS request/reply and
// publishes command events for other nodes and tools.
//
// # Architecture
//
//   - Server: optional embedded NATS server running in the node process
//   - Client: connection with graceful degradation, shared by Service and Bridge
//   - Service: answers command requests by calling the dispatcher
//   - Bridge: forwards command executed events from the event bus to NATS
//   - Requester: one-shot request client used by `m5node call`
//
// # Subject Hierarchy
//
//	m5node.{node}.cmd.{operation}     # request: operation JSON, reply: {"result": bool}
//	m5node.{node}.events.command      # published after every command
//
// Requests use the same JSON bodies as the HTTP API. A payload that does not
// decode is answered with {"result": false}; an empty payload decodes as {}.
//
// # Debugging with nats CLI
//
//	nats req m5node.default.cmd.set_display_color '{"color":"RED"}'
//	nats req m5node.default.cmd.set_pwmout '{"pin_id":0,"val":128}'
//	nats req m5node.default.cmd.reset_allout ''
//	nats sub "m5node.*.events.>"
package nats
