//go:build darwin || ios

package sysinfo

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sys/unix"
)

// hardwareIdentity reads the Apple model identifier via sysctl.
func hardwareIdentity(ctx context.Context) (*HardwareIdentity, error) {
	model, err := unix.Sysctl("hw.model")
	if err != nil {
		return nil, fmt.Errorf("sysctl hw.model failed: %w", err)
	}

	return &HardwareIdentity{
		Brand:        "Apple",
		Manufacturer: "Apple Inc.",
		ModelName:    model,
		ModelID:      model,
		DeviceType:   darwinDeviceType(model),
	}, nil
}

// apiLevel is an Android concept and has no value here.
func apiLevel() *int {
	return nil
}

// darwinDeviceType classifies an Apple model identifier by its family prefix.
func darwinDeviceType(model string) DeviceType {
	switch {
	case strings.HasPrefix(model, "iPhone"), strings.HasPrefix(model, "iPod"):
		return DeviceTypePhone
	case strings.HasPrefix(model, "iPad"):
		return DeviceTypeTablet
	case strings.HasPrefix(model, "AppleTV"):
		return DeviceTypeTV
	case strings.HasPrefix(model, "Mac"), strings.HasPrefix(model, "iMac"):
		return DeviceTypeDesktop
	default:
		return DeviceTypeUnknown
	}
}
