package device

import (
	"context"
	"fmt"
	"sync"
)

// Board limits of the attached peripheral.
const (
	DigitalPins = 2
	PwmPins     = 1
	MaxPwmValue = 255
)

// Simulator is an in-memory board. It accepts the same calls as real
// hardware, remembers what the board would show and rejects values the
// firmware would refuse.
type Simulator struct {
	mu    sync.Mutex
	state State
}

// NewSimulator creates a simulated board in its power-on state.
func NewSimulator() *Simulator {
	return &Simulator{}
}

func (s *Simulator) SetDisplayColor(ctx context.Context, color Color, _ bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !byteRange(color.R) || !byteRange(color.G) || !byteRange(color.B) {
		return fmt.Errorf("color %s out of range", color)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.DisplayColor = color
	s.state.Text = nil
	s.state.Image = nil
	return nil
}

func (s *Simulator) SetDisplayText(ctx context.Context, text Text) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if text.Size <= 0 {
		return fmt.Errorf("text size %d must be positive", text.Size)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if text.Refresh {
		s.state.DisplayColor = text.BackColor
		s.state.Image = nil
	}
	s.state.Text = &text
	return nil
}

func (s *Simulator) SetDisplayImage(ctx context.Context, image Image) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if image.Path == "" {
		return fmt.Errorf("image path is empty")
	}
	if image.Scale <= 0 {
		return fmt.Errorf("image scale %v must be positive", image.Scale)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Image = &image
	return nil
}

func (s *Simulator) ResetDisplay(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.DisplayColor = Color{}
	s.state.Text = nil
	s.state.Image = nil
	s.state.Resets++
	return nil
}

func (s *Simulator) SetDigitalOut(ctx context.Context, pinID int, val bool, _ bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if pinID < 0 || pinID >= DigitalPins {
		return fmt.Errorf("digital pin %d not present", pinID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Dout[pinID] = val
	return nil
}

func (s *Simulator) SetPwmOut(ctx context.Context, pinID int, val int, _ bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if pinID < 0 || pinID >= PwmPins {
		return fmt.Errorf("pwm pin %d not present", pinID)
	}
	if !byteRange(val) {
		return fmt.Errorf("pwm value %d out of range", val)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Pwmout[pinID] = val
	return nil
}

func (s *Simulator) SetAllOut(ctx context.Context, dout0, dout1 bool, pwm0 int, _ bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !byteRange(pwm0) {
		return fmt.Errorf("pwm value %d out of range", pwm0)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Dout = [DigitalPins]bool{dout0, dout1}
	s.state.Pwmout[0] = pwm0
	return nil
}

func (s *Simulator) ResetAllOut(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Dout = [DigitalPins]bool{}
	s.state.Pwmout = [PwmPins]int{}
	return nil
}

// State returns a copy of the simulated board's outputs.
func (s *Simulator) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state
	if st.Text != nil {
		t := *st.Text
		st.Text = &t
	}
	if st.Image != nil {
		img := *st.Image
		st.Image = &img
	}
	return st
}

func byteRange(v int) bool {
	return v >= 0 && v <= MaxPwmValue
}
