package transactions

import (
	"context"
	"fmt"
	"time"

	"eventure/pkg/logger"

	"github.com/go-co-op/gocron/v2"
)

// Sweeper runs the periodic expiry pass. The lazy check on reads keeps
// behavior correct between ticks; the sweeper just bounds how long an
// abandoned transaction holds its seats.
type Sweeper struct {
	scheduler gocron.Scheduler
	service   Service
	interval  time.Duration
	log       *logger.Logger
}

func NewSweeper(service Service, interval time.Duration, log *logger.Logger) (*Sweeper, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}
	return &Sweeper{
		scheduler: scheduler,
		service:   service,
		interval:  interval,
		log:       log,
	}, nil
}

func (s *Sweeper) Start(ctx context.Context) error {
	_, err := s.scheduler.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(func() {
			if _, _, err := s.service.ExpireOverdue(ctx); err != nil {
				s.log.ErrorWithContext(ctx, "expiry sweep failed", err, nil)
			}
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule expiry sweep: %w", err)
	}

	s.scheduler.Start()
	s.log.Info("expiry sweeper started", "interval", s.interval.String())
	return nil
}

func (s *Sweeper) Stop() error {
	return s.scheduler.Shutdown()
}
