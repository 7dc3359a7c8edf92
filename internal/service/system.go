package service

import (
	"context"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/amniuelmohamed/freshconcept/internal/repository"
)

// ResourceStat is a total/used pair in bytes.
type ResourceStat struct {
	Total uint64 `json:"total"`
	Used  uint64 `json:"used"`
}

// SystemStatus is the admin dashboard's health snapshot.
type SystemStatus struct {
	Version       string                        `json:"version"`
	GoVersion     string                        `json:"go_version"`
	Hostname      string                        `json:"hostname"`
	StartedAt     int64                         `json:"started_at"`
	UptimeSeconds int64                         `json:"uptime_seconds"`
	HostUptime    uint64                        `json:"host_uptime"`
	CPUPercent    float64                       `json:"cpu_percent"`
	Memory        ResourceStat                  `json:"memory"`
	Disk          ResourceStat                  `json:"disk"`
	Load1         float64                       `json:"load1"`
	Load5         float64                       `json:"load5"`
	Load15        float64                       `json:"load15"`
	PendingEvents int                           `json:"pending_events"`
	Orders        []repository.OrderStatusCount `json:"orders"`
}

// EventQueueStats exposes webhook backlog metrics without importing async.
type EventQueueStats interface {
	Pending() int
}

// SystemService reports process and host health for the back office.
type SystemService interface {
	Status(ctx context.Context) (*SystemStatus, error)
}

// SystemOptions inject runtime dependencies.
type SystemOptions struct {
	Version   string
	StartedAt time.Time
	Events    EventQueueStats
	Orders    repository.OrderRepository
	Now       func() time.Time
}

type systemService struct {
	version   string
	startedAt time.Time
	events    EventQueueStats
	orders    repository.OrderRepository
	now       func() time.Time
}

// NewSystemService builds the status reporter.
func NewSystemService(opts SystemOptions) SystemService {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	startedAt := opts.StartedAt
	if startedAt.IsZero() {
		startedAt = now()
	}
	return &systemService{
		version:   opts.Version,
		startedAt: startedAt,
		events:    opts.Events,
		orders:    opts.Orders,
		now:       now,
	}
}

// Status gathers host metrics best-effort: a probe failure leaves its field
// zeroed rather than failing the whole snapshot.
func (s *systemService) Status(ctx context.Context) (*SystemStatus, error) {
	status := &SystemStatus{
		Version:       s.version,
		GoVersion:     runtime.Version(),
		StartedAt:     s.startedAt.Unix(),
		UptimeSeconds: int64(s.now().Sub(s.startedAt).Seconds()),
	}

	if hostname, err := os.Hostname(); err == nil {
		status.Hostname = hostname
	}
	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		status.CPUPercent = percents[0]
	}
	if v, err := mem.VirtualMemory(); err == nil {
		status.Memory = ResourceStat{Total: v.Total, Used: v.Used}
	}
	if d, err := disk.Usage("/"); err == nil {
		status.Disk = ResourceStat{Total: d.Total, Used: d.Used}
	}
	if l, err := load.Avg(); err == nil {
		status.Load1 = l.Load1
		status.Load5 = l.Load5
		status.Load15 = l.Load15
	}
	if u, err := host.Uptime(); err == nil {
		status.HostUptime = u
	}
	if s.events != nil {
		status.PendingEvents = s.events.Pending()
	}
	if s.orders != nil {
		counts, err := s.orders.CountByStatus(ctx)
		if err != nil {
			return nil, err
		}
		status.Orders = counts
	}
	return status, nil
}
