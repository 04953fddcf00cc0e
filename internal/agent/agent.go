package agent

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/quarry-io/deviceinfo/internal/config"
	natsclient "github.com/quarry-io/deviceinfo/internal/nats"
	"github.com/quarry-io/deviceinfo/internal/scheduler"
	"github.com/quarry-io/deviceinfo/pkg/sysinfo"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Agent ties together the snapshot service, NATS transport, and scheduler
type Agent struct {
	config    *config.Config
	logger    *zap.Logger
	info      *sysinfo.Service
	nats      *natsclient.Client
	scheduler *scheduler.Scheduler
	handlers  *natsclient.QueryHandlers
	version   string
	ctx       context.Context
	cancel    context.CancelFunc
}

// New creates a new agent instance
func New(configPath string, version string) (*Agent, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := initLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("Starting deviceinfod",
		zap.String("version", version),
		zap.String("device_id", cfg.DeviceID),
		zap.String("platform", string(sysinfo.CurrentPlatform())))

	// Create root context with cancellation
	ctx, cancel := context.WithCancel(context.Background())

	// Create the snapshot service with the configured provider
	info, err := sysinfo.New(sysinfo.Options{
		Source:       cfg.Provider.Source,
		ExporterURL:  cfg.Provider.ExporterURL,
		Logger:       logger,
		CallTimeout:  cfg.Provider.CallTimeout,
		BatchTimeout: cfg.Provider.BatchTimeout,
	})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create snapshot service: %w", err)
	}

	logger.Info("Snapshot service ready", zap.String("provider", info.ProviderName()))

	// Connect to NATS
	logger.Info("Connecting to NATS...")
	natsClient, err := natsclient.NewClient(&cfg.NATS, logger)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	// Subscribe to snapshot queries
	handlers := natsclient.NewQueryHandlers(logger, cfg, info)
	logger.Info("Subscribing to queries...")
	if err := handlers.SubscribeAll(natsClient); err != nil {
		cancel()
		natsClient.Close()
		return nil, fmt.Errorf("failed to subscribe to queries: %w", err)
	}

	// Create the scheduler for periodic snapshot publishing
	sched, err := scheduler.New(logger, natsClient, info, cfg, ctx)
	if err != nil {
		cancel()
		natsClient.Close()
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	return &Agent{
		config:    cfg,
		logger:    logger,
		info:      info,
		nats:      natsClient,
		scheduler: sched,
		handlers:  handlers,
		version:   version,
		ctx:       ctx,
		cancel:    cancel,
	}, nil
}

// Run starts the agent and blocks until shutdown
func (a *Agent) Run() error {
	a.scheduler.Start()

	a.logger.Info("Agent running",
		zap.String("device_id", a.config.DeviceID),
		zap.String("version", a.version))

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigChan:
		a.logger.Info("Received shutdown signal")
	case <-a.ctx.Done():
		a.logger.Info("Context cancelled")
	}

	return a.Shutdown()
}

// Shutdown gracefully shuts down the agent
func (a *Agent) Shutdown() error {
	a.logger.Info("Shutting down agent gracefully")

	// Signal all in-flight operations to stop
	a.cancel()

	if err := a.scheduler.Shutdown(); err != nil {
		a.logger.Error("Error shutting down scheduler", zap.Error(err))
	}

	// Drain NATS connection (wait for in-flight messages)
	if err := a.nats.Drain(a.config.NATS.DrainTimeout); err != nil {
		a.logger.Error("Error draining NATS", zap.Error(err))
	}

	a.logger.Sync()

	a.logger.Info("Agent shutdown complete")
	return nil
}

// initLogger creates and configures the logger with log rotation
func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	fileEncoder := zapcore.NewJSONEncoder(encoderConfig)

	// Log rotation with lumberjack
	fileWriter := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB, // megabytes
		MaxBackups: cfg.MaxBackups,
		MaxAge:     28, // days
		Compress:   true,
	}

	consoleEncoder := zapcore.NewConsoleEncoder(encoderConfig)

	// File with rotation plus console for interactive runs
	core := zapcore.NewTee(
		zapcore.NewCore(fileEncoder, zapcore.AddSync(fileWriter), level),
		zapcore.NewCore(consoleEncoder, zapcore.AddSync(os.Stdout), level),
	)

	logger := zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))

	return logger, nil
}
