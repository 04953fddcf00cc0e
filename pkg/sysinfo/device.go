package sysinfo

import (
	"context"
	"os"

	"github.com/quarry-io/deviceinfo/pkg/guard"
	"go.uber.org/zap"
)

const gib = 1024 * 1024 * 1024

// GetDeviceInfo builds a DeviceSnapshot from the configured provider. Each
// field is fetched through its own guard so one field's failure never blocks
// another's; a failure outside the per-field guards degrades to the
// all-defaults record tagged with the current platform. The call always
// returns within the bounded timeout window plus negligible synchronous work.
func (s *Service) GetDeviceInfo(ctx context.Context) (snap DeviceSnapshot) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Warn("Device snapshot failed, returning defaults", zap.Any("panic", r))
			snap = unknownDeviceSnapshot()
		}
	}()

	snap = unknownDeviceSnapshot()

	if total, ok := guard.WithTimeout(ctx, s.callTimeout, s.provider.TotalMemory); ok && total > 0 {
		snap.TotalMemory = &total
	}

	if facts, ok := guard.WithTimeout(ctx, s.callTimeout, s.provider.HostFacts); ok && facts != nil {
		snap.DeviceName = nonEmptyPtr(facts.Hostname)
		snap.OSName = nonEmptyPtr(facts.OSName)
		snap.OSVersion = nonEmptyPtr(facts.OSVersion)
		snap.OSBuildID = nonEmptyPtr(facts.BuildID)
		snap.IsPhysicalDevice = !facts.IsVirtual
	} else {
		s.logger.Debug("Host facts unavailable", zap.String("provider", s.provider.Name()))
	}

	if hw, ok := guard.WithTimeout(ctx, s.callTimeout, s.provider.Hardware); ok && hw != nil {
		snap.Brand = nonEmptyPtr(hw.Brand)
		snap.Manufacturer = nonEmptyPtr(hw.Manufacturer)
		snap.ModelName = nonEmptyPtr(hw.ModelName)
		snap.ModelID = nonEmptyPtr(hw.ModelID)
		snap.DeviceType = hw.DeviceType
	} else {
		s.logger.Debug("Hardware identity unavailable", zap.String("provider", s.provider.Name()))
	}

	// Hostname fallback when the provider exposed none.
	if snap.DeviceName == nil {
		if name := guard.Safe("", os.Hostname); name != "" {
			snap.DeviceName = &name
		}
	}

	snap.APILevel = guard.SafePtr(apiLevel)

	cores := 0
	if n, ok := guard.WithTimeout(ctx, s.callTimeout, s.provider.CPUCount); ok {
		cores = n
	}
	snap.YearClass = estimateYearClass(cores, snap.TotalMemory)

	return snap
}

// estimateYearClass buckets the hardware generation from core count and
// total memory. Nil when neither input is known.
func estimateYearClass(cores int, totalMemory *uint64) *int {
	if totalMemory == nil || *totalMemory == 0 || cores <= 0 {
		return nil
	}

	gb := float64(*totalMemory) / gib
	switch {
	case gb >= 16 && cores >= 8:
		return intPtr(2023)
	case gb >= 8 && cores >= 8:
		return intPtr(2022)
	case gb >= 8:
		return intPtr(2020)
	case gb >= 6:
		return intPtr(2019)
	case gb >= 4:
		return intPtr(2017)
	case gb >= 3:
		return intPtr(2016)
	case gb >= 2:
		return intPtr(2015)
	case gb >= 1:
		return intPtr(2013)
	default:
		return intPtr(2012)
	}
}
