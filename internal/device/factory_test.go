package device

import (
	"context"
	"log/slog"
	"os"
	"testing"
)

func TestNew(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	tests := []struct {
		driver  string
		wantErr bool
	}{
		{"sim", false},
		{"", false},
		{"NOOP", false},
		{"serial", true},
	}

	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			client, err := New(tt.driver, logger)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New(%q) error = %v, wantErr %v", tt.driver, err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if client == nil {
				t.Fatal("New() returned nil client")
			}
			if resetErr := client.ResetAllOut(context.Background()); resetErr != nil {
				t.Errorf("ResetAllOut() error = %v", resetErr)
			}
		})
	}
}

func TestNoopClient(t *testing.T) {
	// A nil logger falls back to the default logger
	client, err := New(DriverNoop, nil)
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	if err := client.SetDisplayColor(ctx, Color{999, 0, 0}, true); err != nil {
		t.Errorf("SetDisplayColor() returned error: %v", err)
	}
	if err := client.SetDisplayText(ctx, Text{Text: "x"}); err != nil {
		t.Errorf("SetDisplayText() returned error: %v", err)
	}
}
