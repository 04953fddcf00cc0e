//go:build windows

package sysinfo

import (
	"context"
	"fmt"

	"golang.org/x/sys/windows/registry"
)

// machineID reads the Windows machine GUID from the registry.
func machineID(ctx context.Context) (string, error) {
	key, err := registry.OpenKey(registry.LOCAL_MACHINE, `SOFTWARE\Microsoft\Cryptography`, registry.QUERY_VALUE|registry.WOW64_64KEY)
	if err != nil {
		return "", fmt.Errorf("failed to open Cryptography key: %w", err)
	}
	defer key.Close()

	guid, _, err := key.GetStringValue("MachineGuid")
	if err != nil {
		return "", fmt.Errorf("failed to read MachineGuid: %w", err)
	}
	return guid, nil
}
