// Package monitor refreshes cached system readings (battery, volume) on a
// schedule, off the turn-processing path. Conversation turns read the cache
// only through Snapshot and never mutate it.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nexus-ai/nexus/internal/capability"
	"github.com/nexus-ai/nexus/internal/logging"
	"github.com/robfig/cron/v3"
)

// Snapshot is one point-in-time reading of the host.
type Snapshot struct {
	Battery    capability.Battery
	HasBattery bool
	Volume     int
	HasVolume  bool
	At         time.Time
}

// Service polls the system capability on a fixed interval.
type Service struct {
	system  capability.System
	refresh time.Duration
	cron    *cron.Cron

	mu       sync.RWMutex
	started  bool
	snapshot Snapshot
}

// NewService creates a monitor polling at the given interval.
func NewService(system capability.System, refresh time.Duration) *Service {
	if refresh <= 0 {
		refresh = time.Minute
	}
	return &Service{
		system:  system,
		refresh: refresh,
		cron: cron.New(
			cron.WithLocation(time.Local),
			cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)),
		),
	}
}

// Start takes an initial reading and begins the refresh schedule.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return errors.New("monitor already started")
	}
	s.started = true
	s.mu.Unlock()

	s.poll(ctx)

	spec := fmt.Sprintf("@every %s", s.refresh)
	if _, err := s.cron.AddFunc(spec, func() { s.poll(ctx) }); err != nil {
		return fmt.Errorf("register refresh schedule: %w", err)
	}
	s.cron.Start()
	logging.Logger().Info("system monitor started", "refresh", s.refresh)
	return nil
}

// Stop halts the schedule and waits for an in-flight poll to finish or ctx
// cancellation.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	started := s.started
	s.started = false
	s.mu.Unlock()
	if !started {
		return nil
	}

	doneCtx := s.cron.Stop()
	select {
	case <-doneCtx.Done():
		logging.Logger().Info("system monitor stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Snapshot returns the latest cached reading.
func (s *Service) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

func (s *Service) poll(ctx context.Context) {
	snap := Snapshot{At: time.Now()}

	if battery, err := s.system.ReadBattery(ctx); err == nil {
		snap.Battery = battery
		snap.HasBattery = true
	} else if !errors.Is(err, capability.ErrUnavailable) {
		logging.Logger().Debug("battery reading failed", "err", err)
	}

	if volume, err := s.system.ReadVolume(ctx); err == nil {
		snap.Volume = volume
		snap.HasVolume = true
	} else if !errors.Is(err, capability.ErrUnavailable) {
		logging.Logger().Debug("volume reading failed", "err", err)
	}

	s.mu.Lock()
	s.snapshot = snap
	s.mu.Unlock()
}

// StatusLine formats a snapshot the way channels print it in their banner.
func (s *Snapshot) StatusLine() string {
	parts := make([]string, 0, 2)
	if s.HasBattery {
		status := "Discharging"
		if s.Battery.Charging {
			status = "Charging"
		}
		parts = append(parts, fmt.Sprintf("Battery: %d%% (%s)", s.Battery.Percent, status))
	}
	if s.HasVolume {
		parts = append(parts, fmt.Sprintf("Volume: %d%%", s.Volume))
	}
	if len(parts) == 0 {
		return ""
	}
	out := parts[0]
	for _, part := range parts[1:] {
		out += " | " + part
	}
	return out
}
