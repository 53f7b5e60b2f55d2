package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/m5node/internal/api/models"
)

func (s *Server) registerSystemdRoutes() {
	if s.options.UnitManager == nil {
		return
	}
	units := s.options.UnitManager

	huma.Register(s.api, huma.Operation{
		OperationID: "get-unit-status",
		Method:      http.MethodGet,
		Path:        "/api/systemd/status",
		Summary:     "Unit status",
		Description: "Get the ActiveState of the node's systemd unit",
		Tags:        []string{"systemd"},
		Errors:      []int{401, 500},
		Security:    withAuth(),
	}, func(ctx context.Context, _ *struct{}) (*models.SystemdStatusResponse, error) {
		status, err := units.Status(ctx)
		if err != nil {
			return nil, huma.Error500InternalServerError("Failed to get unit status", err)
		}
		return &models.SystemdStatusResponse{
			Body: models.SystemdStatus{Unit: units.Unit(), Status: status},
		}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "restart-unit",
		Method:      http.MethodPost,
		Path:        "/api/systemd/restart",
		Summary:     "Restart node",
		Description: "Queue a restart of the node's systemd unit. The reply is sent before the restart happens.",
		Tags:        []string{"systemd"},
		Errors:      []int{401, 500},
		Security:    withAuth(),
	}, func(ctx context.Context, _ *struct{}) (*models.SystemdActionResponse, error) {
		if err := units.Restart(ctx); err != nil {
			return nil, huma.Error500InternalServerError("Failed to restart unit", err)
		}
		s.logger.Info("Unit restart requested", "unit", units.Unit())
		return &models.SystemdActionResponse{
			Body: models.SystemdAction{Unit: units.Unit(), Action: "restart", Success: true},
		}, nil
	})
}
