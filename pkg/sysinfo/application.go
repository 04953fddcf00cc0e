package sysinfo

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	"github.com/quarry-io/deviceinfo/pkg/guard"
	"go.uber.org/zap"
)

// GetApplicationInfo builds an ApplicationSnapshot for the running binary.
// Identity fields come from the build info and the executable path via
// safe-access ("Unknown" sentinels for name/id, nil for version fields);
// install and update timestamps are fetched concurrently, each bounded by
// the call timeout. Any failure outside the per-field guards degrades to
// the all-"Unknown"/nil record.
func (s *Service) GetApplicationInfo(ctx context.Context) (snap ApplicationSnapshot) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Warn("Application snapshot failed, returning defaults", zap.Any("panic", r))
			snap = unknownApplicationSnapshot()
		}
	}()

	snap = unknownApplicationSnapshot()

	snap.Name = guard.Safe(UnknownSentinel, executableName)
	snap.BundleID = guard.Safe(UnknownSentinel, modulePath)
	snap.Version = guard.SafePtr(buildVersion)
	snap.BuildNumber = guard.SafePtr(buildRevision)

	timeout := s.callTimeout
	if timeout <= 0 {
		timeout = guard.DefaultCallTimeout
	}
	times := guard.WithTimeoutAll(ctx, timeout, installTime, updateTime)
	if times[0].OK {
		t := times[0].Value
		snap.InstallTime = &t
	}
	if times[1].OK {
		t := times[1].Value
		snap.UpdateTime = &t
	}

	// Single dispatch point for all platform-conditional identifier logic;
	// nil on platforms without the concept.
	snap.MachineID = GetDeviceID(ctx)

	return snap
}

// executableName returns the base name of the running binary.
func executableName() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(filepath.Base(exe), ".exe"), nil
}

// modulePath returns the main module's import path.
func modulePath() (string, error) {
	bi, ok := debug.ReadBuildInfo()
	if !ok || bi.Main.Path == "" {
		return "", fmt.Errorf("build info not embedded")
	}
	return bi.Main.Path, nil
}

// buildVersion returns the main module's version, nil for untagged builds.
func buildVersion() *string {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return nil
	}
	v := bi.Main.Version
	if v == "" || v == "(devel)" {
		return nil
	}
	return &v
}

// buildRevision returns the embedded VCS revision, shortened.
func buildRevision() *string {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return nil
	}
	for _, setting := range bi.Settings {
		if setting.Key == "vcs.revision" && setting.Value != "" {
			rev := setting.Value
			if len(rev) > 12 {
				rev = rev[:12]
			}
			return &rev
		}
	}
	return nil
}

// installTime approximates when the binary was installed: the mtime of the
// directory the executable lives in.
func installTime(ctx context.Context) (time.Time, error) {
	exe, err := os.Executable()
	if err != nil {
		return time.Time{}, err
	}
	fi, err := os.Stat(filepath.Dir(exe))
	if err != nil {
		return time.Time{}, err
	}
	return fi.ModTime().UTC(), nil
}

// updateTime is the executable's own mtime, i.e. the last time the binary
// was replaced.
func updateTime(ctx context.Context) (time.Time, error) {
	exe, err := os.Executable()
	if err != nil {
		return time.Time{}, err
	}
	fi, err := os.Stat(exe)
	if err != nil {
		return time.Time{}, err
	}
	return fi.ModTime().UTC(), nil
}
