package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/m5node/internal/api/models"
)

func (s *Server) registerSystemRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "get-system-info",
		Method:      http.MethodGet,
		Path:        "/api/system",
		Summary:     "System info",
		Description: "Host, memory and load statistics of the machine the board is attached to",
		Tags:        []string{"system"},
		Errors:      []int{401, 500},
		Security:    withAuth(),
	}, func(ctx context.Context, _ *struct{}) (*models.SystemResponse, error) {
		info, err := s.options.SystemInfo(ctx)
		if err != nil {
			return nil, huma.Error500InternalServerError("Failed to read system info", err)
		}
		return &models.SystemResponse{Body: info}, nil
	})
}
