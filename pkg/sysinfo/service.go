// Package sysinfo builds crash-resistant snapshots of hardware and
// application metadata. Platform providers are assumed adversarial (slow,
// half-initialized, or panicking), so every provider call runs through the
// guard primitives and every public operation returns a fully-formed result
// (possibly all-defaults) or nil for identifier-shaped values. Nothing here
// panics across the package boundary and nothing is cached between calls.
package sysinfo

import (
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Service exposes the snapshot operations. It holds no mutable state: every
// call produces an independent result and is safe to invoke repeatedly and
// concurrently.
type Service struct {
	provider     DeviceProvider
	logger       *zap.Logger
	callTimeout  time.Duration
	batchTimeout time.Duration
}

// Options configures a Service. Zero values select the defaults: the native
// provider, a no-op logger, and the guard package's timeouts.
type Options struct {
	// Source selects the device provider: "native" (default) or "exporter".
	Source string

	// ExporterURL is the scrape endpoint, required when Source is "exporter".
	ExporterURL string

	// HTTPClient is used by the exporter provider. Optional.
	HTTPClient *http.Client

	Logger *zap.Logger

	// CallTimeout bounds a single provider call (default 1s).
	CallTimeout time.Duration

	// BatchTimeout bounds a concurrent fan-out of provider calls (default 2s).
	BatchTimeout time.Duration
}

// New creates a snapshot service.
func New(opts Options) (*Service, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	provider, err := NewDeviceProvider(opts.Source, opts.ExporterURL, logger, opts.HTTPClient)
	if err != nil {
		return nil, fmt.Errorf("failed to create device provider: %w", err)
	}

	return &Service{
		provider:     provider,
		logger:       logger,
		callTimeout:  opts.CallTimeout,
		batchTimeout: opts.BatchTimeout,
	}, nil
}

// newWithProvider wires an explicit provider; used by tests.
func newWithProvider(provider DeviceProvider, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{provider: provider, logger: logger}
}

// ProviderName returns the active provider's name for logging.
func (s *Service) ProviderName() string {
	return s.provider.Name()
}
