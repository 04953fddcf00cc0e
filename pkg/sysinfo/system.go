package sysinfo

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// GetSystemInfo composes a fresh SystemSnapshot. The device and application
// snapshots are acquired concurrently with no ordering dependency; each is
// already bounded and non-panicking on its own. An empty correlationID is
// replaced with a generated UUID.
func (s *Service) GetSystemInfo(ctx context.Context, correlationID string) SystemSnapshot {
	if correlationID == "" {
		correlationID = uuid.NewString()
	}

	var (
		wg     sync.WaitGroup
		device DeviceSnapshot
		app    ApplicationSnapshot
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		device = s.GetDeviceInfo(ctx)
	}()
	go func() {
		defer wg.Done()
		app = s.GetApplicationInfo(ctx)
	}()
	wg.Wait()

	return SystemSnapshot{
		Device:        device,
		Application:   app,
		CapturedAt:    time.Now().UTC(),
		CorrelationID: correlationID,
	}
}

// GetDeviceCapabilities derives the capability flags from a fresh device
// snapshot.
func (s *Service) GetDeviceCapabilities(ctx context.Context) CapabilitySet {
	return Capabilities(s.GetDeviceInfo(ctx))
}

// HasNotch reports whether the current device has a display notch.
func (s *Service) HasNotch(ctx context.Context) bool {
	return SnapshotHasNotch(s.GetDeviceInfo(ctx))
}
