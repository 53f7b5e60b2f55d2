package dispatcher

import (
	"context"
	"sync"
	"time"

	"github.com/smazurov/m5node/internal/device"
)

// call is one recorded client invocation.
type call struct {
	method string
	args   []any
}

// fakeClient records calls and fails or panics on demand.
type fakeClient struct {
	mu       sync.Mutex
	calls    []call
	err      error
	panicMsg string
}

func (f *fakeClient) record(method string, args ...any) error {
	f.mu.Lock()
	f.calls = append(f.calls, call{method: method, args: args})
	f.mu.Unlock()

	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	return f.err
}

func (f *fakeClient) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeClient) last() call {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return call{}
	}
	return f.calls[len(f.calls)-1]
}

func (f *fakeClient) SetDisplayColor(_ context.Context, color device.Color, sync bool) error {
	return f.record("SetDisplayColor", color, sync)
}

func (f *fakeClient) SetDisplayText(_ context.Context, text device.Text) error {
	return f.record("SetDisplayText", text)
}

func (f *fakeClient) SetDisplayImage(_ context.Context, image device.Image) error {
	return f.record("SetDisplayImage", image)
}

func (f *fakeClient) ResetDisplay(_ context.Context) error {
	return f.record("ResetDisplay")
}

func (f *fakeClient) SetDigitalOut(_ context.Context, pinID int, val bool, sync bool) error {
	return f.record("SetDigitalOut", pinID, val, sync)
}

func (f *fakeClient) SetPwmOut(_ context.Context, pinID int, val int, sync bool) error {
	return f.record("SetPwmOut", pinID, val, sync)
}

func (f *fakeClient) SetAllOut(_ context.Context, dout0, dout1 bool, pwm0 int, sync bool) error {
	return f.record("SetAllOut", dout0, dout1, pwm0, sync)
}

func (f *fakeClient) ResetAllOut(_ context.Context) error {
	return f.record("ResetAllOut")
}

// observation is one Recorder call.
type observation struct {
	operation string
	outcome   string
}

type fakeRecorder struct {
	mu  sync.Mutex
	obs []observation
}

func (r *fakeRecorder) Observe(operation, outcome string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.obs = append(r.obs, observation{operation, outcome})
}
