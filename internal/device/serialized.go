package device

import (
	"context"
	"sync"
)

// serialized guards a Client with a mutex so that calls issued from
// concurrent transports reach the board one at a time.
type serialized struct {
	mu     sync.Mutex
	client Client
}

// Serialized wraps client so that at most one call is in flight.
// Wrapping an already serialized client returns it unchanged.
func Serialized(client Client) Client {
	if s, ok := client.(*serialized); ok {
		return s
	}
	return &serialized{client: client}
}

// Unwrap returns the wrapped client.
func (s *serialized) Unwrap() Client {
	return s.client
}

func (s *serialized) SetDisplayColor(ctx context.Context, color Color, sync bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.client.SetDisplayColor(ctx, color, sync)
}

func (s *serialized) SetDisplayText(ctx context.Context, text Text) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.client.SetDisplayText(ctx, text)
}

func (s *serialized) SetDisplayImage(ctx context.Context, image Image) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.client.SetDisplayImage(ctx, image)
}

func (s *serialized) ResetDisplay(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.client.ResetDisplay(ctx)
}

func (s *serialized) SetDigitalOut(ctx context.Context, pinID int, val bool, sync bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.client.SetDigitalOut(ctx, pinID, val, sync)
}

func (s *serialized) SetPwmOut(ctx context.Context, pinID int, val int, sync bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.client.SetPwmOut(ctx, pinID, val, sync)
}

func (s *serialized) SetAllOut(ctx context.Context, dout0, dout1 bool, pwm0 int, sync bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.client.SetAllOut(ctx, dout0, dout1, pwm0, sync)
}

func (s *serialized) ResetAllOut(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.client.ResetAllOut(ctx)
}

// StateOf returns the board state when the client, or the client it wraps,
// can report one.
func StateOf(client Client) (State, bool) {
	for client != nil {
		if r, ok := client.(StateReporter); ok {
			return r.State(), true
		}
		u, ok := client.(interface{ Unwrap() Client })
		if !ok {
			break
		}
		client = u.Unwrap()
	}
	return State{}, false
}
