// Package dispatcher validates board commands and forwards them to a device client.
//
// Every operation follows the same path: check the request against the board's
// constraints, make exactly one call on the [device.Client], and report a
// [Response] whose Result is true only when validation passed and the client
// returned no error. Failures never escape an operation; they are logged
// (warn for rejected requests, error for client failures), counted and
// published as [events.CommandExecutedEvent].
//
// The response carries only a boolean. Callers cannot tell a rejected request
// from a hardware fault by the response alone; the log stream, the
// "outcome" metric label and the command event carry that distinction.
package dispatcher
