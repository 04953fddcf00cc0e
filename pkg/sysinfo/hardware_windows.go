//go:build windows

package sysinfo

import (
	"context"
	"fmt"

	"github.com/yusufpapurcu/wmi"
)

type win32ComputerSystem struct {
	Manufacturer    string
	Model           string
	SystemSKUNumber string
}

type win32SystemEnclosure struct {
	ChassisTypes []int16
}

// hardwareIdentity reads hardware identity from WMI.
func hardwareIdentity(ctx context.Context) (*HardwareIdentity, error) {
	var systems []win32ComputerSystem
	if err := wmi.Query("SELECT Manufacturer, Model, SystemSKUNumber FROM Win32_ComputerSystem", &systems); err != nil {
		return nil, fmt.Errorf("Win32_ComputerSystem query failed: %w", err)
	}
	if len(systems) == 0 {
		return nil, fmt.Errorf("Win32_ComputerSystem returned no rows")
	}

	hw := &HardwareIdentity{
		Brand:        systems[0].Manufacturer,
		Manufacturer: systems[0].Manufacturer,
		ModelName:    systems[0].Model,
		ModelID:      systems[0].SystemSKUNumber,
		DeviceType:   DeviceTypeUnknown,
	}

	// Chassis type is best-effort; identity above is still useful without it.
	var enclosures []win32SystemEnclosure
	if err := wmi.Query("SELECT ChassisTypes FROM Win32_SystemEnclosure", &enclosures); err == nil {
		for _, enc := range enclosures {
			for _, code := range enc.ChassisTypes {
				if t := enclosureDeviceType(code); t != DeviceTypeUnknown {
					hw.DeviceType = t
					break
				}
			}
		}
	}

	return hw, nil
}

// apiLevel is an Android concept and has no value here.
func apiLevel() *int {
	return nil
}

// enclosureDeviceType maps a Win32_SystemEnclosure chassis code (same code
// space as SMBIOS) to a DeviceType.
func enclosureDeviceType(code int16) DeviceType {
	switch code {
	case 3, 4, 5, 6, 7, 13, 15, 16, 24, 35, 36:
		return DeviceTypeDesktop
	case 8, 9, 10, 14, 31, 32:
		return DeviceTypeDesktop
	case 11:
		return DeviceTypePhone
	case 30:
		return DeviceTypeTablet
	default:
		return DeviceTypeUnknown
	}
}
