package dispatcher

import (
	"github.com/smazurov/m5node/internal/device"
)

// IsKnownColorName reports whether name is one of the board's palette colors,
// ignoring case.
func IsKnownColorName(name string) bool {
	_, ok := device.LookupColor(name)
	return ok
}

func resolveColor(op, field, name string) (device.Color, error) {
	c, ok := device.LookupColor(name)
	if !ok {
		return device.Color{}, &ValidationError{Operation: op, Field: field, Value: name, Err: ErrUnknownColor}
	}
	return c, nil
}

func checkDigitalPin(op string, pinID int) error {
	if pinID < 0 || pinID >= device.DigitalPins {
		return &ValidationError{Operation: op, Field: "pin_id", Value: pinID, Err: ErrPinOutOfRange}
	}
	return nil
}

// The board exposes a single PWM channel.
func checkPwmPin(op string, pinID int) error {
	if pinID != 0 {
		return &ValidationError{Operation: op, Field: "pin_id", Value: pinID, Err: ErrPinOutOfRange}
	}
	return nil
}

func checkPwmValue(op, field string, val int) error {
	if val < 0 || val > device.MaxPwmValue {
		return &ValidationError{Operation: op, Field: field, Value: val, Err: ErrValueOutOfRange}
	}
	return nil
}
