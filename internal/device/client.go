package device

import "context"

// Text describes a text render request.
type Text struct {
	Text      string `json:"text"`
	PosX      int    `json:"pos_x"`
	PosY      int    `json:"pos_y"`
	Size      int    `json:"size"`
	TextColor Color  `json:"text_color"`
	BackColor Color  `json:"back_color"`
	Refresh   bool   `json:"refresh"`
	Sync      bool   `json:"sync"`
}

// Image describes an image render request. Path is resolved by the driver.
type Image struct {
	Path  string  `json:"path"`
	PosX  int     `json:"pos_x"`
	PosY  int     `json:"pos_y"`
	Scale float64 `json:"scale"`
	Sync  bool    `json:"sync"`
}

// Client abstracts the driver that talks to the attached display/IO board.
// The sync flag is passed through untouched; whether a call waits for the
// board to acknowledge is up to the implementation.
type Client interface {
	// SetDisplayColor fills the display with a color.
	SetDisplayColor(ctx context.Context, color Color, sync bool) error

	// SetDisplayText renders text.
	SetDisplayText(ctx context.Context, text Text) error

	// SetDisplayImage renders an image file.
	SetDisplayImage(ctx context.Context, image Image) error

	// ResetDisplay restores the default display state.
	ResetDisplay(ctx context.Context) error

	// SetDigitalOut drives one digital output pin.
	SetDigitalOut(ctx context.Context, pinID int, val bool, sync bool) error

	// SetPwmOut sets the duty value of one PWM output pin.
	SetPwmOut(ctx context.Context, pinID int, val int, sync bool) error

	// SetAllOut sets both digital outputs and the PWM output in one call.
	SetAllOut(ctx context.Context, dout0, dout1 bool, pwm0 int, sync bool) error

	// ResetAllOut drives every output back to its default.
	ResetAllOut(ctx context.Context) error
}

// StateReporter is implemented by drivers that can report what the board
// currently shows.
type StateReporter interface {
	State() State
}

// State is a snapshot of the board's outputs.
type State struct {
	DisplayColor Color             `json:"display_color" doc:"Current background color"`
	Text         *Text             `json:"text,omitempty" doc:"Last rendered text"`
	Image        *Image            `json:"image,omitempty" doc:"Last rendered image"`
	Dout         [DigitalPins]bool `json:"dout" doc:"Digital output levels"`
	Pwmout       [PwmPins]int      `json:"pwmout" doc:"PWM output duty values"`
	Resets       int               `json:"resets" doc:"Number of display resets since start"`
}
