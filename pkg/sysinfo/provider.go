package sysinfo

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// HostFacts is the OS-level view a device provider exposes. Missing string
// fields are reported as "".
type HostFacts struct {
	Hostname  string
	OSName    string
	OSVersion string
	BuildID   string
	IsVirtual bool
}

// HardwareIdentity is the hardware-level view a device provider exposes.
type HardwareIdentity struct {
	Brand        string
	Manufacturer string
	ModelName    string
	ModelID      string
	DeviceType   DeviceType
}

// DeviceProvider supplies raw hardware and OS metadata. Implementations are
// treated as adversarial collaborators: they may hang, error, or panic. The
// snapshot builders invoke them only through the guard primitives.
type DeviceProvider interface {
	// HostFacts returns OS identity and virtualization state.
	HostFacts(ctx context.Context) (*HostFacts, error)

	// TotalMemory returns total physical memory in bytes.
	TotalMemory(ctx context.Context) (uint64, error)

	// CPUCount returns the number of logical CPUs.
	CPUCount(ctx context.Context) (int, error)

	// Hardware returns brand/manufacturer/model identity.
	Hardware(ctx context.Context) (*HardwareIdentity, error)

	// Name returns the provider name for logging.
	Name() string
}

// NewDeviceProvider creates the appropriate provider based on configuration.
// source: "native" (default) or "exporter".
func NewDeviceProvider(source, exporterURL string, logger *zap.Logger, httpClient *http.Client) (DeviceProvider, error) {
	source = strings.ToLower(source)
	if source == "" {
		source = "native" // Default
	}

	switch source {
	case "native":
		logger.Info("Using native device provider (gopsutil)")
		return NewNativeProvider(logger), nil
	case "exporter":
		if exporterURL == "" {
			return nil, fmt.Errorf("exporter_url required for exporter source")
		}
		logger.Info("Using exporter device provider", zap.String("url", exporterURL))
		return NewExporterProvider(exporterURL, logger, httpClient), nil
	default:
		return nil, fmt.Errorf("unknown provider source: %s", source)
	}
}
