//go:build linux || android

package sysinfo

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const dmiPath = "/sys/class/dmi/id"

// hardwareIdentity reads hardware identity from DMI sysfs. Containers and
// some ARM boards expose no DMI tree; that surfaces as an error and the
// snapshot builder degrades the fields to nil.
func hardwareIdentity(ctx context.Context) (*HardwareIdentity, error) {
	hw := &HardwareIdentity{
		Brand:        dmiField("board_vendor"),
		Manufacturer: dmiField("sys_vendor"),
		ModelName:    dmiField("product_name"),
		ModelID:      dmiField("board_name"),
		DeviceType:   chassisDeviceType(dmiField("chassis_type")),
	}

	if hw.Manufacturer == "" && hw.ModelName == "" {
		return nil, fmt.Errorf("no DMI identity available")
	}
	return hw, nil
}

// dmiField reads one DMI attribute, returning "" when unreadable.
func dmiField(name string) string {
	data, err := os.ReadFile(filepath.Join(dmiPath, name))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// apiLevel reads the Android SDK version from the system build properties.
// Plain Linux hosts have no build.prop and report nil.
func apiLevel() *int {
	data, err := os.ReadFile("/system/build.prop")
	if err != nil {
		return nil
	}
	for _, line := range strings.Split(string(data), "\n") {
		value, found := strings.CutPrefix(line, "ro.build.version.sdk=")
		if !found {
			continue
		}
		if level, err := strconv.Atoi(strings.TrimSpace(value)); err == nil && level > 0 {
			return &level
		}
	}
	return nil
}

// chassisDeviceType maps an SMBIOS chassis type code to a DeviceType.
func chassisDeviceType(raw string) DeviceType {
	code, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return DeviceTypeUnknown
	}

	switch code {
	case 3, 4, 5, 6, 7, 13, 15, 16, 24, 35, 36:
		// Desktop, tower, all-in-one, space-saving, lunch box, sealed-case,
		// mini/stick PC variants.
		return DeviceTypeDesktop
	case 8, 9, 10, 14, 31, 32:
		// Portable, laptop, notebook, sub-notebook, convertible, detachable.
		return DeviceTypeDesktop
	case 11:
		return DeviceTypePhone // hand held
	case 30:
		return DeviceTypeTablet
	default:
		return DeviceTypeUnknown
	}
}
