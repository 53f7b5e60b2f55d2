package cmd

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/smazurov/m5node/internal/dispatcher"
)

type fakeCaller struct {
	resp      dispatcher.Response
	err       error
	operation string
	payload   string
}

func (f *fakeCaller) Call(_ context.Context, operation string, payload []byte) (dispatcher.Response, error) {
	f.operation = operation
	f.payload = string(payload)
	return f.resp, f.err
}

func TestRunCall(t *testing.T) {
	tests := []struct {
		name    string
		caller  *fakeCaller
		payload string
		wantOut string
		wantErr error
	}{
		{
			name:    "accepted",
			caller:  &fakeCaller{resp: dispatcher.Response{Result: true}},
			payload: ` {"color":"RED"} `,
			wantOut: `{"result":true}`,
		},
		{
			name:    "rejected",
			caller:  &fakeCaller{resp: dispatcher.Response{Result: false}},
			payload: `{"color":"TEAL"}`,
			wantOut: `{"result":false}`,
			wantErr: errRejected,
		},
		{
			name:    "transport error",
			caller:  &fakeCaller{err: errors.New("no responders")},
			payload: `{}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := runCall(context.Background(), &out, tt.caller, dispatcher.OpSetDisplayColor, tt.payload)

			switch {
			case tt.wantErr != nil && !errors.Is(err, tt.wantErr):
				t.Errorf("runCall() error = %v, want %v", err, tt.wantErr)
			case tt.wantErr == nil && tt.caller.err == nil && err != nil:
				t.Errorf("runCall() error = %v, want nil", err)
			case tt.caller.err != nil && err == nil:
				t.Error("runCall() should surface the transport error")
			}

			if got := strings.TrimSpace(out.String()); got != tt.wantOut {
				t.Errorf("output = %q, want %q", got, tt.wantOut)
			}
			if tt.caller.operation != dispatcher.OpSetDisplayColor {
				t.Errorf("operation = %q", tt.caller.operation)
			}
		})
	}
}

func TestRunCallTrimsPayload(t *testing.T) {
	c := &fakeCaller{resp: dispatcher.Response{Result: true}}
	if err := runCall(context.Background(), &bytes.Buffer{}, c, dispatcher.OpResetM5, "  "); err != nil {
		t.Fatalf("runCall() error = %v", err)
	}
	if c.payload != "" {
		t.Errorf("payload = %q, want empty", c.payload)
	}
}

func TestRunCallRejectsInvalidJSON(t *testing.T) {
	c := &fakeCaller{resp: dispatcher.Response{Result: true}}
	err := runCall(context.Background(), &bytes.Buffer{}, c, dispatcher.OpSetDout, `{pin_id:1}`)
	if err == nil || !strings.Contains(err.Error(), "not valid JSON") {
		t.Errorf("runCall() error = %v, want invalid JSON", err)
	}
	if c.operation != "" {
		t.Error("invalid JSON must not be sent")
	}
}

func TestColorsCommand(t *testing.T) {
	var out bytes.Buffer
	cmd := CreateColorsCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 20 {
		t.Fatalf("got %d lines, want header + 19 colors", len(lines))
	}
	if !strings.HasPrefix(lines[0], "NAME") {
		t.Errorf("header = %q", lines[0])
	}
	if fields := strings.Fields(lines[len(lines)-1]); len(fields) != 5 || fields[0] != "PINK" || fields[4] != "#FFC0CB" {
		t.Errorf("last line = %q, want PINK 255 192 203 #FFC0CB", lines[len(lines)-1])
	}
}

func TestCallCommandArgs(t *testing.T) {
	cmd := CreateCallCmd()
	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{"missing operation", nil, true},
		{"unknown operation", []string{"set_everything"}, true},
		{"two operations", []string{"set_dout", "reset_m5"}, true},
		{"known operation", []string{"set_dout"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := cmd.Args(cmd, tt.args)
			if (err != nil) != tt.wantErr {
				t.Errorf("Args(%v) error = %v, wantErr %v", tt.args, err, tt.wantErr)
			}
		})
	}
	for _, name := range []string{"json", "url", "node", "timeout"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("missing --%s flag", name)
		}
	}
}

func TestCallNodeConnectError(t *testing.T) {
	var out bytes.Buffer
	err := callNode(context.Background(), &out, "nats://127.0.0.1:1", "bench", "reset_m5", "", time.Second)
	if err == nil {
		t.Fatal("callNode() against a closed port should fail")
	}
	if errors.Is(err, errRejected) {
		t.Errorf("connect failure reported as rejection: %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("unexpected output %q", out.String())
	}
}
