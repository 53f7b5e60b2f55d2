// Package models holds HTTP request and response envelopes for the API.
package models

import (
	"github.com/smazurov/m5node/internal/device"
	"github.com/smazurov/m5node/internal/system"
	"github.com/smazurov/m5node/internal/version"
)

// Health check models
type HealthData struct {
	Status  string `json:"status" example:"ok" doc:"Service status"`
	Message string `json:"message" example:"API is healthy" doc:"Status message"`
	Driver  string `json:"driver" example:"sim" doc:"Active device driver"`
	NATS    bool   `json:"nats" example:"true" doc:"Whether the NATS transport is connected"`
}

type HealthResponse struct {
	Body HealthData
}

type VersionResponse struct {
	Body version.Info
}

// Board models
type PaletteColor struct {
	Name string `json:"name" example:"ORANGE" doc:"Palette color name"`
	R    int    `json:"r" example:"255" doc:"Red component"`
	G    int    `json:"g" example:"165" doc:"Green component"`
	B    int    `json:"b" example:"0" doc:"Blue component"`
	Hex  string `json:"hex" example:"#FFA500" doc:"Hex notation"`
}

type PaletteData struct {
	Colors []PaletteColor `json:"colors" doc:"Colors accepted by set_display_color and set_display_text"`
	Count  int            `json:"count" example:"19" doc:"Number of colors"`
}

type PaletteResponse struct {
	Body PaletteData
}

type StateResponse struct {
	Body device.State
}

// System models
type SystemResponse struct {
	Body system.HostInfo
}

type SystemdStatus struct {
	Unit   string `json:"unit" example:"m5node.service" doc:"Unit name"`
	Status string `json:"status" example:"active" doc:"ActiveState (active, inactive, failed, etc.)"`
}

type SystemdStatusResponse struct {
	Body SystemdStatus
}

type SystemdAction struct {
	Unit    string `json:"unit" example:"m5node.service" doc:"Unit name"`
	Action  string `json:"action" example:"restart" doc:"Action performed"`
	Success bool   `json:"success" example:"true" doc:"Whether the action was queued"`
}

type SystemdActionResponse struct {
	Body SystemdAction
}
