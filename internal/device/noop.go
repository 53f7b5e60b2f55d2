package device

import (
	"context"
	"log/slog"
)

// noop implements Client as a no-op for hosts without an attached board
type noop struct {
	logger *slog.Logger
}

// newNoop creates a new no-op client
func newNoop(logger *slog.Logger) *noop {
	return &noop{
		logger: logger,
	}
}

func (n *noop) SetDisplayColor(_ context.Context, color Color, sync bool) error {
	n.logger.Debug("Display color (no-op)", "color", color.String(), "sync", sync)
	return nil
}

func (n *noop) SetDisplayText(_ context.Context, text Text) error {
	n.logger.Debug("Display text (no-op)",
		"text", text.Text,
		"pos_x", text.PosX,
		"pos_y", text.PosY,
		"size", text.Size,
		"sync", text.Sync)
	return nil
}

func (n *noop) SetDisplayImage(_ context.Context, image Image) error {
	n.logger.Debug("Display image (no-op)", "path", image.Path, "scale", image.Scale, "sync", image.Sync)
	return nil
}

func (n *noop) ResetDisplay(_ context.Context) error {
	n.logger.Debug("Display reset (no-op)")
	return nil
}

func (n *noop) SetDigitalOut(_ context.Context, pinID int, val bool, sync bool) error {
	n.logger.Debug("Digital out (no-op)", "pin_id", pinID, "val", val, "sync", sync)
	return nil
}

func (n *noop) SetPwmOut(_ context.Context, pinID int, val int, sync bool) error {
	n.logger.Debug("PWM out (no-op)", "pin_id", pinID, "val", val, "sync", sync)
	return nil
}

func (n *noop) SetAllOut(_ context.Context, dout0, dout1 bool, pwm0 int, sync bool) error {
	n.logger.Debug("All out (no-op)", "dout0", dout0, "dout1", dout1, "pwmout0", pwm0, "sync", sync)
	return nil
}

func (n *noop) ResetAllOut(_ context.Context) error {
	n.logger.Debug("All out reset (no-op)")
	return nil
}
