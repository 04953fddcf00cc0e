//go:build darwin || ios

package sysinfo

import (
	"context"

	"github.com/shirou/gopsutil/v3/host"
)

// machineID reads the IOKit platform UUID.
func machineID(ctx context.Context) (string, error) {
	return host.HostIDWithContext(ctx)
}
