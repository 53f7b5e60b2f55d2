package dispatcher

// Operation names, shared by every transport.
const (
	OpSetDisplayColor    = "set_display_color"
	OpSetDisplayColorRGB = "set_display_color_rgb"
	OpSetDisplayText     = "set_display_text"
	OpSetDisplayImage    = "set_display_image"
	OpResetM5            = "reset_m5"
	OpSetDout            = "set_dout"
	OpSetPwmout          = "set_pwmout"
	OpSetAllout          = "set_allout"
	OpResetAllout        = "reset_allout"
)

// Operations lists every operation name in a stable order.
func Operations() []string {
	return []string{
		OpSetDisplayColor,
		OpSetDisplayColorRGB,
		OpSetDisplayText,
		OpSetDisplayImage,
		OpResetM5,
		OpSetDout,
		OpSetPwmout,
		OpSetAllout,
		OpResetAllout,
	}
}

// Outcome labels used in logs, metrics and events.
const (
	OutcomeOK          = "ok"
	OutcomeInvalid     = "invalid"
	OutcomeDeviceError = "device_error"
)

// ColorRequest selects a palette color by name (case-insensitive).
type ColorRequest struct {
	Color string `json:"color" example:"RED" doc:"Palette color name, case-insensitive"`
	Sync  bool   `json:"sync" required:"false" example:"true" doc:"Wait for the board to apply the change"`
}

// ColorRGBRequest sets an explicit color. Components are not range checked.
type ColorRGBRequest struct {
	R    int  `json:"r" example:"255" doc:"Red component"`
	G    int  `json:"g" example:"128" doc:"Green component"`
	B    int  `json:"b" example:"0" doc:"Blue component"`
	Sync bool `json:"sync" required:"false" example:"true" doc:"Wait for the board to apply the change"`
}

// TextRequest renders text with palette colors.
type TextRequest struct {
	Text      string `json:"text" example:"Hello" doc:"Text to render"`
	PosX      int    `json:"pos_x" required:"false" example:"0" doc:"X position in pixels"`
	PosY      int    `json:"pos_y" required:"false" example:"0" doc:"Y position in pixels"`
	Size      int    `json:"size" example:"3" doc:"Font size"`
	TextColor string `json:"text_color" example:"WHITE" doc:"Palette name of the text color"`
	BackColor string `json:"back_color" example:"BLACK" doc:"Palette name of the background color"`
	Refresh   bool   `json:"refresh" required:"false" example:"true" doc:"Clear the display before rendering"`
	Sync      bool   `json:"sync" required:"false" example:"true" doc:"Wait for the board to apply the change"`
}

// ImageRequest renders an image file. The path is resolved by the driver.
type ImageRequest struct {
	Filepath string  `json:"filepath" example:"/usr/share/m5node/logo.jpg" doc:"Image file path"`
	PosX     int     `json:"pos_x" required:"false" example:"0" doc:"X position in pixels"`
	PosY     int     `json:"pos_y" required:"false" example:"0" doc:"Y position in pixels"`
	Scale    float64 `json:"scale" example:"1.0" doc:"Scale factor"`
	Sync     bool    `json:"sync" required:"false" example:"true" doc:"Wait for the board to apply the change"`
}

// DoutRequest drives a digital output pin (0 or 1).
type DoutRequest struct {
	PinID int  `json:"pin_id" example:"0" doc:"Digital output pin, 0-1"`
	Val   bool `json:"val" example:"true" doc:"Output level"`
	Sync  bool `json:"sync" required:"false" example:"true" doc:"Wait for the board to apply the change"`
}

// PwmoutRequest sets the PWM output duty value (pin 0 only, 0-255).
type PwmoutRequest struct {
	PinID int  `json:"pin_id" example:"0" doc:"PWM output pin, only 0"`
	Val   int  `json:"val" example:"128" doc:"Duty value, 0-255"`
	Sync  bool `json:"sync" required:"false" example:"true" doc:"Wait for the board to apply the change"`
}

// AlloutRequest sets both digital outputs and the PWM output at once.
type AlloutRequest struct {
	Dout0      bool `json:"dout0_val" example:"true" doc:"Digital output 0 level"`
	Dout1      bool `json:"dout1_val" example:"false" doc:"Digital output 1 level"`
	Pwmout0Val int  `json:"pwmout0_val" example:"128" doc:"PWM output 0 duty value, 0-255"`
	Sync       bool `json:"sync" required:"false" example:"true" doc:"Wait for the board to apply the change"`
}

// Response is returned by every operation.
type Response struct {
	Result bool `json:"result" example:"true" doc:"True when the command was accepted and applied"`
}
