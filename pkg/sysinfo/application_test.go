package sysinfo

import (
	"context"
	"reflect"
	"testing"
	"time"
)

// TestGetApplicationInfo_Sentinels tests that name and id are never empty
func TestGetApplicationInfo_Sentinels(t *testing.T) {
	svc := newWithProvider(healthyProvider(), nil)

	snap := svc.GetApplicationInfo(context.Background())

	if snap.Name == "" {
		t.Error("Name is empty, want a value or the Unknown sentinel")
	}
	if snap.BundleID == "" {
		t.Error("BundleID is empty, want a value or the Unknown sentinel")
	}
}

// TestGetApplicationInfo_Timestamps tests that timestamps are plausible when present
func TestGetApplicationInfo_Timestamps(t *testing.T) {
	svc := newWithProvider(healthyProvider(), nil)

	snap := svc.GetApplicationInfo(context.Background())

	now := time.Now().Add(time.Minute)
	if snap.InstallTime != nil && snap.InstallTime.After(now) {
		t.Errorf("InstallTime = %v is in the future", snap.InstallTime)
	}
	if snap.UpdateTime != nil && snap.UpdateTime.After(now) {
		t.Errorf("UpdateTime = %v is in the future", snap.UpdateTime)
	}
}

// TestGetApplicationInfo_MachineIDPlatformGap tests the platform-conditional slot
func TestGetApplicationInfo_MachineIDPlatformGap(t *testing.T) {
	svc := newWithProvider(healthyProvider(), nil)

	snap := svc.GetApplicationInfo(context.Background())

	if CurrentPlatform() == PlatformWeb && snap.MachineID != nil {
		t.Error("MachineID must be nil on web")
	}
	if snap.MachineID != nil && *snap.MachineID == "" {
		t.Error("MachineID is an empty string; want nil for absent")
	}
}

// TestGetApplicationInfo_Bounded tests the timeout envelope
func TestGetApplicationInfo_Bounded(t *testing.T) {
	svc := newWithProvider(healthyProvider(), nil)
	svc.callTimeout = 50 * time.Millisecond

	start := time.Now()
	_ = svc.GetApplicationInfo(context.Background())
	elapsed := time.Since(start)

	// Timestamp batch plus identifier resolution, both bounded.
	if elapsed > 3*time.Second {
		t.Errorf("GetApplicationInfo took %v, want within the documented bounds", elapsed)
	}
}

// TestGetApplicationInfo_Idempotent tests stability across calls
func TestGetApplicationInfo_Idempotent(t *testing.T) {
	svc := newWithProvider(healthyProvider(), nil)
	ctx := context.Background()

	first := svc.GetApplicationInfo(ctx)
	second := svc.GetApplicationInfo(ctx)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("GetApplicationInfo not idempotent:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

// TestUnknownApplicationSnapshot tests the degraded record shape
func TestUnknownApplicationSnapshot(t *testing.T) {
	snap := unknownApplicationSnapshot()

	if snap.Name != UnknownSentinel || snap.BundleID != UnknownSentinel {
		t.Errorf("sentinels = (%q, %q), want (%q, %q)", snap.Name, snap.BundleID, UnknownSentinel, UnknownSentinel)
	}
	if snap.Version != nil || snap.BuildNumber != nil || snap.InstallTime != nil || snap.UpdateTime != nil || snap.MachineID != nil {
		t.Error("degraded record should carry only nil optionals")
	}
}
