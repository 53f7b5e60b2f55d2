package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/m5node/internal/dispatcher"
)

// CommandInput carries an operation request body.
type CommandInput[T any] struct {
	Body T
}

// CommandOutput wraps the {"result": bool} reply. It is always HTTP 200.
type CommandOutput struct {
	Body dispatcher.Response
}

type commandRoute struct {
	op          string
	summary     string
	description string
}

func (s *Server) commandOperation(r commandRoute) huma.Operation {
	return huma.Operation{
		OperationID: r.op,
		Method:      http.MethodPost,
		Path:        "/api/m5/" + r.op,
		Summary:     r.summary,
		Description: r.description,
		Tags:        []string{"commands"},
		Errors:      []int{400, 401, 422},
		Security:    withAuth(),
	}
}

func registerCommand[T any](s *Server, r commandRoute, fn func(context.Context, T) dispatcher.Response) {
	huma.Register(s.api, s.commandOperation(r), func(ctx context.Context, input *CommandInput[T]) (*CommandOutput, error) {
		return &CommandOutput{Body: fn(ctx, input.Body)}, nil
	})
}

func registerTrigger(s *Server, r commandRoute, fn func(context.Context) dispatcher.Response) {
	huma.Register(s.api, s.commandOperation(r), func(ctx context.Context, _ *struct{}) (*CommandOutput, error) {
		return &CommandOutput{Body: fn(ctx)}, nil
	})
}

// registerCommandRoutes exposes the nine board operations under /api/m5.
func (s *Server) registerCommandRoutes() {
	if s.dispatcher == nil {
		s.logger.Warn("No dispatcher configured, skipping command routes")
		return
	}
	d := s.dispatcher

	registerCommand(s, commandRoute{
		op:          dispatcher.OpSetDisplayColor,
		summary:     "Set display color",
		description: "Fill the display with a palette color. Unknown names return result=false.",
	}, d.SetDisplayColor)

	registerCommand(s, commandRoute{
		op:          dispatcher.OpSetDisplayColorRGB,
		summary:     "Set display color (RGB)",
		description: "Fill the display with an explicit RGB color. Components are passed to the board unchanged.",
	}, d.SetDisplayColorRGB)

	registerCommand(s, commandRoute{
		op:          dispatcher.OpSetDisplayText,
		summary:     "Set display text",
		description: "Render text at a position using palette colors for text and background.",
	}, d.SetDisplayText)

	registerCommand(s, commandRoute{
		op:          dispatcher.OpSetDisplayImage,
		summary:     "Set display image",
		description: "Render an image file at a position and scale.",
	}, d.SetDisplayImage)

	registerTrigger(s, commandRoute{
		op:          dispatcher.OpResetM5,
		summary:     "Reset display",
		description: "Reset the board display to its default state.",
	}, d.ResetM5)

	registerCommand(s, commandRoute{
		op:          dispatcher.OpSetDout,
		summary:     "Set digital output",
		description: "Drive digital output pin 0 or 1.",
	}, d.SetDout)

	registerCommand(s, commandRoute{
		op:          dispatcher.OpSetPwmout,
		summary:     "Set PWM output",
		description: "Set the duty value (0-255) of PWM output pin 0.",
	}, d.SetPwmout)

	registerCommand(s, commandRoute{
		op:          dispatcher.OpSetAllout,
		summary:     "Set all outputs",
		description: "Set both digital outputs and the PWM output in one call.",
	}, d.SetAllout)

	registerTrigger(s, commandRoute{
		op:          dispatcher.OpResetAllout,
		summary:     "Reset all outputs",
		description: "Drive every output low.",
	}, d.ResetAllout)

	s.logger.Debug("Command routes registered", "count", len(dispatcher.Operations()))
}
