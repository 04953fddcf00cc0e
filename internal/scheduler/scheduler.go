package scheduler

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-co-op/gocron/v2"
	"github.com/quarry-io/deviceinfo/internal/config"
	natsclient "github.com/quarry-io/deviceinfo/internal/nats"
	"github.com/quarry-io/deviceinfo/pkg/sysinfo"
	"go.uber.org/zap"
)

// Scheduler runs the periodic snapshot publish
type Scheduler struct {
	logger *zap.Logger
	nats   *natsclient.Client
	info   *sysinfo.Service
	config *config.Config
	sched  gocron.Scheduler
	ctx    context.Context
}

// New creates a scheduler with the configured jobs registered but not started
func New(logger *zap.Logger, nats *natsclient.Client, info *sysinfo.Service, cfg *config.Config, ctx context.Context) (*Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	s := &Scheduler{
		logger: logger,
		nats:   nats,
		info:   info,
		config: cfg,
		sched:  sched,
		ctx:    ctx,
	}

	if cfg.Tasks.Snapshot.Enabled {
		// Publish one snapshot immediately so a fresh device shows up
		// without waiting a full interval
		_, err := sched.NewJob(
			gocron.DurationJob(cfg.Tasks.Snapshot.Interval),
			gocron.NewTask(s.publishSystemSnapshot),
			gocron.WithName("system-snapshot"),
			gocron.WithStartAt(gocron.WithStartImmediately()),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to register snapshot job: %w", err)
		}

		logger.Info("Registered snapshot job",
			zap.Duration("interval", cfg.Tasks.Snapshot.Interval))
	} else {
		logger.Info("Snapshot job disabled")
	}

	return s, nil
}

// Start begins running scheduled jobs
func (s *Scheduler) Start() {
	s.sched.Start()
	s.logger.Info("Scheduler started")
}

// Shutdown stops the scheduler and waits for running jobs to finish
func (s *Scheduler) Shutdown() error {
	s.logger.Info("Shutting down scheduler")
	return s.sched.Shutdown()
}

// publishSystemSnapshot captures a full system snapshot and publishes it to JetStream
func (s *Scheduler) publishSystemSnapshot() {
	if s.ctx.Err() != nil {
		return
	}

	snap := s.info.GetSystemInfo(s.ctx, "")

	data, err := json.Marshal(snap)
	if err != nil {
		s.logger.Error("Failed to marshal system snapshot", zap.Error(err))
		return
	}

	subject := fmt.Sprintf("%s.%s.snapshot.system", s.config.SubjectPrefix, s.config.DeviceID)
	if err := s.nats.PublishSnapshot(subject, data); err != nil {
		s.logger.Error("Failed to publish system snapshot",
			zap.String("subject", subject),
			zap.Error(err))
		return
	}

	s.logger.Debug("Queued system snapshot",
		zap.String("subject", subject),
		zap.String("correlation_id", snap.CorrelationID),
		zap.Int("bytes", len(data)))
}
