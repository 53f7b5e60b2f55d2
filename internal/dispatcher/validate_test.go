package dispatcher

import (
	"errors"
	"testing"
)

func TestIsKnownColorName(t *testing.T) {
	known := []string{"BLACK", "navy", "DarkGreen", "darkcyan", "MAROON", "purple", "OLIVE", "lightgrey",
		"DARKGREY", "blue", "GREEN", "cyan", "RED", "magenta", "YELLOW", "white", "ORANGE", "greenyellow", "PINK"}
	for _, name := range known {
		if !IsKnownColorName(name) {
			t.Errorf("IsKnownColorName(%q) = false, want true", name)
		}
	}

	for _, name := range []string{"TEAL", "GREY", "LIGHTGRAY", ""} {
		if IsKnownColorName(name) {
			t.Errorf("IsKnownColorName(%q) = true, want false", name)
		}
	}
}

func TestValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"color", func() error { _, err := resolveColor(OpSetDisplayColor, "color", "TEAL"); return err }(), ErrUnknownColor},
		{"dout pin", checkDigitalPin(OpSetDout, 2), ErrPinOutOfRange},
		{"pwm pin", checkPwmPin(OpSetPwmout, 1), ErrPinOutOfRange},
		{"pwm value", checkPwmValue(OpSetPwmout, "val", 256), ErrValueOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.want) {
				t.Errorf("error %v is not %v", tt.err, tt.want)
			}
			if outcomeOf(tt.err) != OutcomeInvalid {
				t.Errorf("outcomeOf(%v) = %s, want %s", tt.err, outcomeOf(tt.err), OutcomeInvalid)
			}
		})
	}
}

func TestDelegateError_Unwrap(t *testing.T) {
	cause := errors.New("board offline")
	err := error(&DelegateError{Operation: OpResetM5, Err: cause})

	if !errors.Is(err, cause) {
		t.Error("DelegateError does not unwrap to cause")
	}
	if outcomeOf(err) != OutcomeDeviceError {
		t.Errorf("outcomeOf = %s, want %s", outcomeOf(err), OutcomeDeviceError)
	}
	if outcomeOf(nil) != OutcomeOK {
		t.Errorf("outcomeOf(nil) = %s, want %s", outcomeOf(nil), OutcomeOK)
	}
}
