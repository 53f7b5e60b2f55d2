// Package system reports host metrics for the machine the board is attached to.
package system

import (
	"context"
	"fmt"
	"time"

	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
)

// HostInfo is a point-in-time host snapshot.
type HostInfo struct {
	Hostname        string  `json:"hostname" example:"m5-bench" doc:"Host name"`
	Platform        string  `json:"platform" example:"debian" doc:"OS platform"`
	PlatformVersion string  `json:"platform_version" example:"12.5" doc:"OS platform version"`
	Kernel          string  `json:"kernel" example:"6.6.20" doc:"Kernel version"`
	UptimeSec       uint64  `json:"uptime_sec" example:"86400" doc:"Host uptime in seconds"`
	BootTime        string  `json:"boot_time" example:"2025-01-26T10:30:00Z" doc:"Boot timestamp (UTC)"`
	MemTotal        uint64  `json:"mem_total" example:"4294967296" doc:"Total memory in bytes"`
	MemUsed         uint64  `json:"mem_used" example:"1073741824" doc:"Used memory in bytes"`
	MemUsedPct      float64 `json:"mem_used_pct" example:"25.0" doc:"Used memory percentage"`
	Load1           float64 `json:"load1" example:"0.15" doc:"1 minute load average"`
	Load5           float64 `json:"load5" example:"0.10" doc:"5 minute load average"`
	Load15          float64 `json:"load15" example:"0.05" doc:"15 minute load average"`
}

// Collect reads host, memory and load statistics.
func Collect(ctx context.Context) (HostInfo, error) {
	hInfo, err := host.InfoWithContext(ctx)
	if err != nil {
		return HostInfo{}, fmt.Errorf("host info: %w", err)
	}
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return HostInfo{}, fmt.Errorf("memory info: %w", err)
	}
	ld, err := load.AvgWithContext(ctx)
	if err != nil {
		return HostInfo{}, fmt.Errorf("load info: %w", err)
	}

	return HostInfo{
		Hostname:        hInfo.Hostname,
		Platform:        hInfo.Platform,
		PlatformVersion: hInfo.PlatformVersion,
		Kernel:          hInfo.KernelVersion,
		UptimeSec:       hInfo.Uptime,
		BootTime:        time.Unix(int64(hInfo.BootTime), 0).UTC().Format(time.RFC3339),
		MemTotal:        vm.Total,
		MemUsed:         vm.Used,
		MemUsedPct:      vm.UsedPercent,
		Load1:           ld.Load1,
		Load5:           ld.Load5,
		Load15:          ld.Load15,
	}, nil
}
