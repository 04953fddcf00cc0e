package sysinfo

import (
	"runtime"
	"time"
)

// Platform identifies the runtime platform the process is executing on.
type Platform string

const (
	PlatformLinux   Platform = "linux"
	PlatformWindows Platform = "windows"
	PlatformDarwin  Platform = "darwin"
	PlatformAndroid Platform = "android"
	PlatformIOS     Platform = "ios"
	// PlatformWeb covers js and wasip1 builds, which have no native device
	// concepts (no hardware identity, no persistent machine identifier).
	PlatformWeb     Platform = "web"
	PlatformUnknown Platform = "unknown"
)

// CurrentPlatform folds runtime.GOOS into the Platform enumeration.
func CurrentPlatform() Platform {
	switch runtime.GOOS {
	case "linux":
		return PlatformLinux
	case "windows":
		return PlatformWindows
	case "darwin":
		return PlatformDarwin
	case "android":
		return PlatformAndroid
	case "ios":
		return PlatformIOS
	case "js", "wasip1":
		return PlatformWeb
	default:
		return PlatformUnknown
	}
}

// DeviceType is a coarse form-factor classification.
type DeviceType string

const (
	DeviceTypeUnknown DeviceType = "unknown"
	DeviceTypePhone   DeviceType = "phone"
	DeviceTypeTablet  DeviceType = "tablet"
	DeviceTypeDesktop DeviceType = "desktop"
	DeviceTypeTV      DeviceType = "tv"
)

// Tier is a coarse performance classification derived from hardware age
// or memory.
type Tier string

const (
	TierLow  Tier = "low"
	TierMid  Tier = "mid"
	TierHigh Tier = "high"
)

// UnknownSentinel is the string sentinel for required fields whose value
// could not be determined. Optional fields use nil instead.
const UnknownSentinel = "Unknown"

// DeviceSnapshot is an immutable record of hardware and OS metadata captured
// at one point in time. It is either fully populated from a live provider
// pass or entirely defaulted, never a mix of stale and fresh fields.
type DeviceSnapshot struct {
	Brand        *string `json:"brand,omitempty"`
	Manufacturer *string `json:"manufacturer,omitempty"`
	ModelName    *string `json:"model_name,omitempty"`
	ModelID      *string `json:"model_id,omitempty"`
	DeviceName   *string `json:"device_name,omitempty"`

	DeviceType       DeviceType `json:"device_type"`
	IsPhysicalDevice bool       `json:"is_physical_device"`

	OSName    *string `json:"os_name,omitempty"`
	OSVersion *string `json:"os_version,omitempty"`
	OSBuildID *string `json:"os_build_id,omitempty"`
	APILevel  *int    `json:"api_level,omitempty"`

	// TotalMemory is the total physical memory in bytes.
	TotalMemory *uint64 `json:"total_memory,omitempty"`

	// YearClass is the estimated hardware generation year, when derivable.
	YearClass *int `json:"year_class,omitempty"`

	Platform Platform `json:"platform"`
}

// ApplicationSnapshot is an immutable record of the running application's
// identity and install metadata. Name and BundleID default to the "Unknown"
// sentinel rather than nil.
type ApplicationSnapshot struct {
	Name     string `json:"name"`
	BundleID string `json:"bundle_id"`

	Version     *string `json:"version,omitempty"`
	BuildNumber *string `json:"build_number,omitempty"`

	InstallTime *time.Time `json:"install_time,omitempty"`
	UpdateTime  *time.Time `json:"update_time,omitempty"`

	// MachineID is the platform-specific persistent identifier, populated
	// only on platforms that have the concept (nil on web and unknown).
	MachineID *string `json:"machine_id,omitempty"`
}

// SystemSnapshot composes the device and application snapshots with a
// capture timestamp. It is built fresh on every request and never cached;
// any caching is the caller's responsibility.
type SystemSnapshot struct {
	Device      DeviceSnapshot      `json:"device"`
	Application ApplicationSnapshot `json:"application"`

	CapturedAt    time.Time `json:"captured_at"`
	CorrelationID string    `json:"correlation_id"`
}

// CapabilitySet holds derived device capability flags. It is computed on
// demand from a DeviceSnapshot, never stored.
type CapabilitySet struct {
	IsPhysicalDevice bool    `json:"is_physical_device"`
	IsTablet         bool    `json:"is_tablet"`
	HasNotch         bool    `json:"has_notch"`
	TotalMemoryGB    float64 `json:"total_memory_gb"`
}

// Requirements is the result of a minimum-requirements evaluation.
type Requirements struct {
	Meets   bool     `json:"meets"`
	Reasons []string `json:"reasons"`
}

// unknownDeviceSnapshot returns the all-defaults record tagged with the
// current runtime platform.
func unknownDeviceSnapshot() DeviceSnapshot {
	return DeviceSnapshot{
		DeviceType:       DeviceTypeUnknown,
		IsPhysicalDevice: false,
		Platform:         CurrentPlatform(),
	}
}

// unknownApplicationSnapshot returns the all-"Unknown"/nil record.
func unknownApplicationSnapshot() ApplicationSnapshot {
	return ApplicationSnapshot{
		Name:     UnknownSentinel,
		BundleID: UnknownSentinel,
	}
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

// nonEmptyPtr returns a pointer to s, or nil when s is empty. Providers
// report missing string fields as "".
func nonEmptyPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
