//go:build !linux && !android && !windows && !darwin && !ios

package sysinfo

import (
	"context"
	"fmt"
)

// hardwareIdentity has no source on this platform. The snapshot builder
// degrades the identity fields to nil.
func hardwareIdentity(ctx context.Context) (*HardwareIdentity, error) {
	return nil, fmt.Errorf("hardware identity not available on this platform")
}

// apiLevel is an Android concept and has no value here.
func apiLevel() *int {
	return nil
}
