//go:build !linux && !android && !windows && !darwin && !ios

package sysinfo

import (
	"context"
	"fmt"
)

// machineID has no concept on this platform. GetDeviceID short-circuits on
// web before reaching here; other platforms degrade to nil through the guard.
func machineID(ctx context.Context) (string, error) {
	return "", fmt.Errorf("machine identifier not available on this platform")
}
