package device

import (
	"context"
	"testing"
)

func TestSimulator_DisplayColor(t *testing.T) {
	sim := NewSimulator()
	ctx := context.Background()

	if err := sim.SetDisplayColor(ctx, Color{255, 0, 0}, true); err != nil {
		t.Fatalf("SetDisplayColor() error = %v", err)
	}
	if got := sim.State().DisplayColor; got != (Color{255, 0, 0}) {
		t.Errorf("DisplayColor = %v, want red", got)
	}

	if err := sim.SetDisplayColor(ctx, Color{999, 0, 0}, true); err == nil {
		t.Error("SetDisplayColor() with r=999 should fail on the board")
	}
}

func TestSimulator_TextRefreshUsesBackColor(t *testing.T) {
	sim := NewSimulator()
	text := Text{Text: "hello", Size: 3, TextColor: Color{255, 255, 255}, BackColor: Color{0, 0, 128}, Refresh: true}

	if err := sim.SetDisplayText(context.Background(), text); err != nil {
		t.Fatalf("SetDisplayText() error = %v", err)
	}

	st := sim.State()
	if st.Text == nil || st.Text.Text != "hello" {
		t.Fatalf("Text = %+v, want hello", st.Text)
	}
	if st.DisplayColor != (Color{0, 0, 128}) {
		t.Errorf("DisplayColor = %v, want navy after refresh", st.DisplayColor)
	}

	// Returned state must be a copy
	st.Text.Text = "mutated"
	if sim.State().Text.Text != "hello" {
		t.Error("State() leaked internal text pointer")
	}
}

func TestSimulator_Outputs(t *testing.T) {
	sim := NewSimulator()
	ctx := context.Background()

	tests := []struct {
		name    string
		call    func() error
		wantErr bool
	}{
		{"dout0 high", func() error { return sim.SetDigitalOut(ctx, 0, true, false) }, false},
		{"dout1 high", func() error { return sim.SetDigitalOut(ctx, 1, true, false) }, false},
		{"dout2 missing", func() error { return sim.SetDigitalOut(ctx, 2, true, false) }, true},
		{"pwm0 max", func() error { return sim.SetPwmOut(ctx, 0, 255, false) }, false},
		{"pwm1 missing", func() error { return sim.SetPwmOut(ctx, 1, 10, false) }, true},
		{"pwm0 overflow", func() error { return sim.SetPwmOut(ctx, 0, 256, false) }, true},
		{"allout overflow", func() error { return sim.SetAllOut(ctx, true, false, 300, false) }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			if (err != nil) != tt.wantErr {
				t.Errorf("error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	st := sim.State()
	if st.Dout != [DigitalPins]bool{true, true} {
		t.Errorf("Dout = %v, want both high", st.Dout)
	}
	if st.Pwmout[0] != 255 {
		t.Errorf("Pwmout[0] = %d, want 255", st.Pwmout[0])
	}

	if err := sim.ResetAllOut(ctx); err != nil {
		t.Fatalf("ResetAllOut() error = %v", err)
	}
	st = sim.State()
	if st.Dout != [DigitalPins]bool{} || st.Pwmout[0] != 0 {
		t.Errorf("outputs after reset = %v %v, want all low", st.Dout, st.Pwmout)
	}
}

func TestSimulator_ResetDisplay(t *testing.T) {
	sim := NewSimulator()
	ctx := context.Background()

	_ = sim.SetDisplayColor(ctx, Color{0, 255, 0}, false)
	_ = sim.SetDisplayImage(ctx, Image{Path: "/tmp/logo.jpg", Scale: 1})

	if err := sim.ResetDisplay(ctx); err != nil {
		t.Fatalf("ResetDisplay() error = %v", err)
	}

	st := sim.State()
	if st.DisplayColor != (Color{}) || st.Image != nil || st.Resets != 1 {
		t.Errorf("state after reset = %+v", st)
	}
}

func TestSimulator_CanceledContext(t *testing.T) {
	sim := NewSimulator()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := sim.ResetAllOut(ctx); err == nil {
		t.Error("ResetAllOut() with canceled context should fail")
	}
}
