package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/m5node/internal/api/models"
	"github.com/smazurov/m5node/internal/device"
)

func (s *Server) registerBoardRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "get-palette",
		Method:      http.MethodGet,
		Path:        "/api/m5/colors",
		Summary:     "Color palette",
		Description: "List the color names accepted by set_display_color and set_display_text",
		Tags:        []string{"board"},
		Errors:      []int{401},
		Security:    withAuth(),
	}, func(_ context.Context, _ *struct{}) (*models.PaletteResponse, error) {
		palette := device.Palette()
		colors := make([]models.PaletteColor, len(palette))
		for i, nc := range palette {
			colors[i] = models.PaletteColor{
				Name: nc.Name,
				R:    nc.Color.R,
				G:    nc.Color.G,
				B:    nc.Color.B,
				Hex:  nc.Color.String(),
			}
		}
		return &models.PaletteResponse{
			Body: models.PaletteData{Colors: colors, Count: len(colors)},
		}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "get-board-state",
		Method:      http.MethodGet,
		Path:        "/api/m5/state",
		Summary:     "Board state",
		Description: "Last applied display and output state, for drivers that track it",
		Tags:        []string{"board"},
		Errors:      []int{401, 404},
		Security:    withAuth(),
	}, func(_ context.Context, _ *struct{}) (*models.StateResponse, error) {
		if s.options.Device == nil {
			return nil, huma.Error404NotFound("No device configured")
		}
		state, ok := device.StateOf(s.options.Device)
		if !ok {
			return nil, huma.Error404NotFound("Driver " + s.options.DriverName + " does not report state")
		}
		return &models.StateResponse{Body: state}, nil
	})
}
