package service

import (
	"context"
	"strings"
)

// MonitoringService serves the gateway snapshot.
type MonitoringService struct {
	core *Core
}

func NewMonitoringService(core *Core) *MonitoringService {
	return &MonitoringService{core: core}
}

// GetState returns the current snapshot. Nothing here blocks on the device;
// values the device has not reported yet keep their defaults.
func (s *MonitoringService) GetState(ctx context.Context) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}
	return s.core.Snapshot(), nil
}

// SetPage records which page the UI shows, so a SECUENCIA bit only
// navigates when the sequence page is not already open.
func (s *MonitoringService) SetPage(path string) {
	path = strings.TrimSpace(path)
	if path == "" {
		return
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	s.core.Sync.SetPage(path)
}
