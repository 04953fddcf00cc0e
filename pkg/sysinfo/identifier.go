package sysinfo

import (
	"context"

	"github.com/quarry-io/deviceinfo/pkg/guard"
)

const (
	// offlineIDPrefix tags identifiers handed out by GetOfflineUserID so
	// they are distinguishable from server-assigned ones.
	offlineIDPrefix = "offline:"

	// DefaultOfflineFallback is returned by GetOfflineUserID when the
	// platform identifier cannot be resolved and the caller supplied no
	// fallback of its own.
	DefaultOfflineFallback = "offline-user"
)

// GetDeviceID resolves the platform's persistent machine identifier: the
// machine-id file on Linux and Android, the registry machine GUID on
// Windows, the platform UUID on Darwin. The web platform has no identifier
// concept and always yields nil; that is a capability gap, not a failure.
// The platform call is bounded at the default call timeout; any failure
// degrades to nil.
func GetDeviceID(ctx context.Context) *string {
	if CurrentPlatform() == PlatformWeb {
		return nil
	}

	id, ok := guard.WithTimeout(ctx, guard.DefaultCallTimeout, machineID)
	if !ok || id == "" {
		return nil
	}
	return &id
}

// GetOfflineUserID derives a locally-scoped user identifier from the
// machine identifier. Returns nil on the web platform regardless of
// fallback; otherwise the resolved identifier with the offline prefix, or
// the fallback when resolution fails ("" selects DefaultOfflineFallback).
func GetOfflineUserID(ctx context.Context, fallback string) *string {
	if CurrentPlatform() == PlatformWeb {
		return nil
	}
	if fallback == "" {
		fallback = DefaultOfflineFallback
	}

	if id := GetDeviceID(ctx); id != nil {
		tagged := offlineIDPrefix + *id
		return &tagged
	}
	return &fallback
}
