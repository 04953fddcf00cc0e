package sysinfo

import (
	"fmt"
	"strings"

	"github.com/quarry-io/deviceinfo/internal/utils"
)

// Classification is pure: every function in this file is a side-effect-free
// computation over an already-built snapshot. No I/O, no guards needed.

const (
	// DefaultMinMemoryGB is the minimum-requirements memory threshold used
	// when the caller passes a non-positive value.
	DefaultMinMemoryGB = 1

	// minimumYearClass is the oldest hardware generation that passes the
	// minimum-requirements check.
	minimumYearClass = 2015

	tierHighYear = 2022
	tierMidYear  = 2019

	tierHighMemoryGB = 6
	tierMidMemoryGB  = 3
)

// IsTablet reports whether the snapshot describes a tablet.
func IsTablet(snap DeviceSnapshot) bool {
	return snap.DeviceType == DeviceTypeTablet
}

// IsPhone reports whether the snapshot describes a phone.
func IsPhone(snap DeviceSnapshot) bool {
	return snap.DeviceType == DeviceTypePhone
}

// DeviceDisplayName returns the first non-empty of device name, model name,
// and the "brand manufacturer" concatenation, else "Unknown Device".
func DeviceDisplayName(snap DeviceSnapshot) string {
	if snap.DeviceName != nil && *snap.DeviceName != "" {
		return *snap.DeviceName
	}
	if snap.ModelName != nil && *snap.ModelName != "" {
		return *snap.ModelName
	}
	var parts []string
	if snap.Brand != nil && *snap.Brand != "" {
		parts = append(parts, *snap.Brand)
	}
	if snap.Manufacturer != nil && *snap.Manufacturer != "" {
		parts = append(parts, *snap.Manufacturer)
	}
	if len(parts) > 0 {
		return strings.Join(parts, " ")
	}
	return "Unknown Device"
}

// OSDisplayString formats "{osName} {osVersion}", degrading to the name
// alone and then to "Unknown OS".
func OSDisplayString(snap DeviceSnapshot) string {
	switch {
	case snap.OSName != nil && *snap.OSName != "" && snap.OSVersion != nil && *snap.OSVersion != "":
		return *snap.OSName + " " + *snap.OSVersion
	case snap.OSName != nil && *snap.OSName != "":
		return *snap.OSName
	default:
		return "Unknown OS"
	}
}

// AppVersionString formats "{version} ({build})", degrading to the version
// alone and then to "Unknown Version".
func AppVersionString(app ApplicationSnapshot) string {
	switch {
	case app.Version != nil && *app.Version != "" && app.BuildNumber != nil && *app.BuildNumber != "":
		return fmt.Sprintf("%s (%s)", *app.Version, *app.BuildNumber)
	case app.Version != nil && *app.Version != "":
		return *app.Version
	default:
		return "Unknown Version"
	}
}

// FormatMemorySize renders a byte count in binary units with two decimals:
// GB at or above 1 GiB, MB below, "Unknown" for an absent value.
func FormatMemorySize(bytes *uint64) string {
	if bytes == nil {
		return "Unknown"
	}
	if *bytes >= gib {
		return fmt.Sprintf("%.2f GB", float64(*bytes)/gib)
	}
	return fmt.Sprintf("%.2f MB", float64(*bytes)/(1024*1024))
}

// MeetsMinimumRequirements evaluates the snapshot against a minimum memory
// threshold (in GB; non-positive selects DefaultMinMemoryGB). Memory and
// year class are only evaluated when known; an unknown value never fails
// the check on its own.
func MeetsMinimumRequirements(snap DeviceSnapshot, minMemoryGB int) Requirements {
	if minMemoryGB <= 0 {
		minMemoryGB = DefaultMinMemoryGB
	}

	var reasons []string

	if !snap.IsPhysicalDevice {
		reasons = append(reasons, "not running on a physical device")
	}

	if snap.TotalMemory != nil {
		memGB := float64(*snap.TotalMemory) / gib
		if memGB < float64(minMemoryGB) {
			reasons = append(reasons, fmt.Sprintf("insufficient memory: %.2f GB available, %d GB required", memGB, minMemoryGB))
		}
	}

	if snap.YearClass != nil && *snap.YearClass < minimumYearClass {
		reasons = append(reasons, fmt.Sprintf("device year class %d is below the minimum %d", *snap.YearClass, minimumYearClass))
	}

	return Requirements{
		Meets:   len(reasons) == 0,
		Reasons: reasons,
	}
}

// DeviceTier buckets the snapshot into a performance tier. Year class takes
// precedence over memory; with neither known the tier defaults to mid.
func DeviceTier(snap DeviceSnapshot) Tier {
	if snap.YearClass != nil {
		switch {
		case *snap.YearClass >= tierHighYear:
			return TierHigh
		case *snap.YearClass >= tierMidYear:
			return TierMid
		default:
			return TierLow
		}
	}

	if snap.TotalMemory != nil {
		memGB := float64(*snap.TotalMemory) / gib
		switch {
		case memGB >= tierHighMemoryGB:
			return TierHigh
		case memGB >= tierMidMemoryGB:
			return TierMid
		default:
			return TierLow
		}
	}

	return TierMid
}

// Capabilities derives the capability flags from a snapshot.
func Capabilities(snap DeviceSnapshot) CapabilitySet {
	caps := CapabilitySet{
		IsPhysicalDevice: snap.IsPhysicalDevice,
		IsTablet:         IsTablet(snap),
		HasNotch:         SnapshotHasNotch(snap),
	}
	if snap.TotalMemory != nil {
		caps.TotalMemoryGB = utils.Round(float64(*snap.TotalMemory) / gib)
	}
	return caps
}

// notchModelPrefixes lists model-name families known to carry a display
// notch. Matching is prefix-based after whitespace normalization.
var notchModelPrefixes = []string{
	"iPhone X", "iPhone 11", "iPhone 12", "iPhone 13", "iPhone 14",
	"Pixel 3 XL",
}

// SnapshotHasNotch reports whether the snapshot's model is a known notched
// phone. Non-phone devices never report a notch.
func SnapshotHasNotch(snap DeviceSnapshot) bool {
	if snap.DeviceType != DeviceTypePhone || snap.ModelName == nil {
		return false
	}
	model := strings.Join(strings.Fields(*snap.ModelName), " ")
	for _, prefix := range notchModelPrefixes {
		if strings.HasPrefix(model, prefix) {
			return true
		}
	}
	return false
}
