package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/smazurov/m5node/internal/device"
	"github.com/smazurov/m5node/internal/events"
)

// Recorder receives one observation per handled command.
type Recorder interface {
	Observe(operation, outcome string, d time.Duration)
}

// Dispatcher validates board commands and forwards them to a single,
// long-lived device client. It holds no per-call state.
type Dispatcher struct {
	client   device.Client
	logger   *slog.Logger
	recorder Recorder
	eventBus *events.Bus
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger for rejected and failed commands.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(d *Dispatcher) {
		d.recorder = r
	}
}

// WithEventBus publishes a CommandExecutedEvent for every command.
func WithEventBus(bus *events.Bus) Option {
	return func(d *Dispatcher) {
		d.eventBus = bus
	}
}

// New creates a dispatcher around client. The client is shared by every
// call; wrap it with device.Serialized when it is not safe for concurrent use.
func New(client device.Client, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		client: client,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// SetDisplayColor fills the display with a palette color.
func (d *Dispatcher) SetDisplayColor(ctx context.Context, req ColorRequest) Response {
	var color device.Color
	return d.dispatch(ctx, OpSetDisplayColor,
		func() (err error) {
			color, err = resolveColor(OpSetDisplayColor, "color", req.Color)
			return err
		},
		func(ctx context.Context) error {
			return d.client.SetDisplayColor(ctx, color, req.Sync)
		})
}

// SetDisplayColorRGB fills the display with an explicit color. Components are
// passed through without range checks.
func (d *Dispatcher) SetDisplayColorRGB(ctx context.Context, req ColorRGBRequest) Response {
	return d.dispatch(ctx, OpSetDisplayColorRGB, nil, func(ctx context.Context) error {
		return d.client.SetDisplayColor(ctx, device.Color{R: req.R, G: req.G, B: req.B}, req.Sync)
	})
}

// SetDisplayText renders text. The text color is checked before the back color.
func (d *Dispatcher) SetDisplayText(ctx context.Context, req TextRequest) Response {
	var textColor, backColor device.Color
	return d.dispatch(ctx, OpSetDisplayText,
		func() (err error) {
			if textColor, err = resolveColor(OpSetDisplayText, "text_color", req.TextColor); err != nil {
				return err
			}
			backColor, err = resolveColor(OpSetDisplayText, "back_color", req.BackColor)
			return err
		},
		func(ctx context.Context) error {
			return d.client.SetDisplayText(ctx, device.Text{
				Text:      req.Text,
				PosX:      req.PosX,
				PosY:      req.PosY,
				Size:      req.Size,
				TextColor: textColor,
				BackColor: backColor,
				Refresh:   req.Refresh,
				Sync:      req.Sync,
			})
		})
}

// SetDisplayImage renders an image file. Existence and format are left to the driver.
func (d *Dispatcher) SetDisplayImage(ctx context.Context, req ImageRequest) Response {
	return d.dispatch(ctx, OpSetDisplayImage, nil, func(ctx context.Context) error {
		return d.client.SetDisplayImage(ctx, device.Image{
			Path:  req.Filepath,
			PosX:  req.PosX,
			PosY:  req.PosY,
			Scale: req.Scale,
			Sync:  req.Sync,
		})
	})
}

// ResetM5 restores the default display state.
func (d *Dispatcher) ResetM5(ctx context.Context) Response {
	return d.dispatch(ctx, OpResetM5, nil, func(ctx context.Context) error {
		return d.client.ResetDisplay(ctx)
	})
}

// SetDout drives digital output 0 or 1.
func (d *Dispatcher) SetDout(ctx context.Context, req DoutRequest) Response {
	return d.dispatch(ctx, OpSetDout,
		func() error {
			return checkDigitalPin(OpSetDout, req.PinID)
		},
		func(ctx context.Context) error {
			return d.client.SetDigitalOut(ctx, req.PinID, req.Val, req.Sync)
		})
}

// SetPwmout sets the duty value of PWM output 0.
func (d *Dispatcher) SetPwmout(ctx context.Context, req PwmoutRequest) Response {
	return d.dispatch(ctx, OpSetPwmout,
		func() error {
			if err := checkPwmPin(OpSetPwmout, req.PinID); err != nil {
				return err
			}
			return checkPwmValue(OpSetPwmout, "val", req.Val)
		},
		func(ctx context.Context) error {
			return d.client.SetPwmOut(ctx, req.PinID, req.Val, req.Sync)
		})
}

// SetAllout sets both digital outputs and the PWM output in a single client call.
func (d *Dispatcher) SetAllout(ctx context.Context, req AlloutRequest) Response {
	return d.dispatch(ctx, OpSetAllout,
		func() error {
			return checkPwmValue(OpSetAllout, "pwmout0_val", req.Pwmout0Val)
		},
		func(ctx context.Context) error {
			return d.client.SetAllOut(ctx, req.Dout0, req.Dout1, req.Pwmout0Val, req.Sync)
		})
}

// ResetAllout drives every output back to its default.
func (d *Dispatcher) ResetAllout(ctx context.Context) Response {
	return d.dispatch(ctx, OpResetAllout, nil, func(ctx context.Context) error {
		return d.client.ResetAllOut(ctx)
	})
}

// dispatch runs validate, then call when validation passed, and reports the
// outcome. It is the only place failures are converted to Result=false.
func (d *Dispatcher) dispatch(ctx context.Context, op string, validate func() error, call func(context.Context) error) Response {
	start := time.Now()

	var err error
	if validate != nil {
		err = validate()
	}
	if err == nil {
		err = invoke(ctx, op, call)
	}

	d.report(op, err, time.Since(start))
	return Response{Result: err == nil}
}

// invoke calls the client, converting both returned errors and panics.
func invoke(ctx context.Context, op string, call func(context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &DelegateError{Operation: op, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	if callErr := call(ctx); callErr != nil {
		return &DelegateError{Operation: op, Err: callErr}
	}
	return nil
}

func (d *Dispatcher) report(op string, err error, elapsed time.Duration) {
	outcome := outcomeOf(err)

	switch outcome {
	case OutcomeInvalid:
		var verr *ValidationError
		errors.As(err, &verr)
		d.logger.Warn("Rejected board command",
			"operation", op,
			"field", verr.Field,
			"value", verr.Value,
			"reason", verr.Err)
	case OutcomeDeviceError:
		d.logger.Error("Board command failed", "operation", op, "error", err)
	default:
		d.logger.Debug("Board command applied", "operation", op, "duration", elapsed)
	}

	if d.recorder != nil {
		d.recorder.Observe(op, outcome, elapsed)
	}

	if d.eventBus != nil {
		ev := events.CommandExecutedEvent{
			Operation:  op,
			Result:     err == nil,
			Outcome:    outcome,
			DurationMs: elapsed.Milliseconds(),
			Timestamp:  time.Now().Format(time.RFC3339),
		}
		if err != nil {
			ev.Error = err.Error()
		}
		d.eventBus.Publish(ev)
	}
}
