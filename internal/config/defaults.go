package config

import (
	"runtime"
)

// PlatformDefaults returns platform-specific default values
type PlatformDefaults struct {
	LogFile     string
	ConfigPath  string
	ExporterURL string
}

// GetPlatformDefaults returns platform-specific defaults based on runtime.GOOS
func GetPlatformDefaults() PlatformDefaults {
	switch runtime.GOOS {
	case "windows":
		return PlatformDefaults{
			LogFile:     `C:\ProgramData\DeviceInfo\deviceinfod.log`,
			ConfigPath:  `C:\ProgramData\DeviceInfo\config.yaml`,
			ExporterURL: "http://localhost:9182/metrics", // windows_exporter
		}
	case "darwin":
		return PlatformDefaults{
			LogFile:     "/usr/local/var/log/deviceinfod/deviceinfod.log",
			ConfigPath:  "/usr/local/etc/deviceinfod/config.yaml",
			ExporterURL: "http://localhost:9100/metrics", // node_exporter
		}
	case "linux":
		return PlatformDefaults{
			LogFile:     "/var/log/deviceinfod/deviceinfod.log",
			ConfigPath:  "/etc/deviceinfod/config.yaml",
			ExporterURL: "http://localhost:9100/metrics", // node_exporter
		}
	default:
		// Fallback to Linux-like defaults for unknown platforms
		return PlatformDefaults{
			LogFile:     "/var/log/deviceinfod/deviceinfod.log",
			ConfigPath:  "/etc/deviceinfod/config.yaml",
			ExporterURL: "http://localhost:9100/metrics",
		}
	}
}

// GetDefaultConfigPath returns the platform-specific default config path
func GetDefaultConfigPath() string {
	return GetPlatformDefaults().ConfigPath
}

// UpdateConfigDefaults updates viper defaults with platform-specific values
// This should be called from setDefaults() in config.go
func UpdateConfigDefaults(v interface{}) {
	type viper interface {
		SetDefault(key string, value interface{})
	}

	if viperInstance, ok := v.(viper); ok {
		defaults := GetPlatformDefaults()

		// Update platform-specific defaults
		viperInstance.SetDefault("provider.exporter_url", defaults.ExporterURL)
		viperInstance.SetDefault("logging.file", defaults.LogFile)
	}
}
