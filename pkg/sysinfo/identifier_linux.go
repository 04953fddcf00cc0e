//go:build linux || android

package sysinfo

import (
	"context"
	"fmt"
	"os"
	"strings"
)

var machineIDPaths = []string{
	"/etc/machine-id",
	"/var/lib/dbus/machine-id",
}

// machineID reads the systemd/dbus machine id.
func machineID(ctx context.Context) (string, error) {
	for _, path := range machineIDPaths {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if id := strings.TrimSpace(string(data)); id != "" {
			return id, nil
		}
	}
	return "", fmt.Errorf("no machine-id file readable")
}
