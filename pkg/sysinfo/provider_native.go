package sysinfo

import (
	"context"
	"strings"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	"go.uber.org/zap"
)

// NativeProvider reads device metadata from the local host using gopsutil,
// plus platform-specific detail sources (DMI sysfs, WMI, sysctl) for
// hardware identity.
type NativeProvider struct {
	logger *zap.Logger
}

// NewNativeProvider creates a new gopsutil-based device provider.
func NewNativeProvider(logger *zap.Logger) *NativeProvider {
	return &NativeProvider{logger: logger}
}

func (p *NativeProvider) Name() string {
	return "native (gopsutil)"
}

func (p *NativeProvider) HostFacts(ctx context.Context) (*HostFacts, error) {
	info, err := host.InfoWithContext(ctx)
	if err != nil {
		return nil, err
	}

	osName := info.Platform
	if osName == "" {
		osName = info.OS
	}

	return &HostFacts{
		Hostname:  info.Hostname,
		OSName:    osName,
		OSVersion: info.PlatformVersion,
		BuildID:   info.KernelVersion,
		IsVirtual: isVirtualHost(info),
	}, nil
}

func (p *NativeProvider) TotalMemory(ctx context.Context) (uint64, error) {
	vmem, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return 0, err
	}
	return vmem.Total, nil
}

func (p *NativeProvider) CPUCount(ctx context.Context) (int, error) {
	return cpu.CountsWithContext(ctx, true) // true = logical
}

func (p *NativeProvider) Hardware(ctx context.Context) (*HardwareIdentity, error) {
	// Hardware identity is platform-specific; see hardware_*.go.
	return hardwareIdentity(ctx)
}

// isVirtualHost reports whether the host is a virtualization guest.
// A detected hypervisor with role "host" (e.g. a kvm-capable workstation)
// still counts as physical.
func isVirtualHost(info *host.InfoStat) bool {
	return strings.EqualFold(info.VirtualizationRole, "guest")
}
