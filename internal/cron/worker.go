package cron

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ParseSchedule accepts a positive number of seconds or a standard
// five-field cron expression.
func ParseSchedule(setting string) (cron.Schedule, error) {
	setting = strings.TrimSpace(setting)
	if v, err := strconv.Atoi(setting); err == nil {
		if v <= 0 {
			return nil, fmt.Errorf("cron: interval must be positive, got %d", v)
		}
		return cron.Every(time.Duration(v) * time.Second), nil
	}
	sched, err := cron.ParseStandard(setting)
	if err != nil {
		return nil, fmt.Errorf("cron: parse schedule %q: %w", setting, err)
	}
	return sched, nil
}

// Run executes the catalog sync once right away, then on schedule, until
// ctx is cancelled.
func (s *Syncer) Run(ctx context.Context, schedule string) error {
	sched, err := ParseSchedule(schedule)
	if err != nil {
		return err
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	c.Schedule(sched, cron.FuncJob(func() {
		if _, _, err := s.RunJob(ctx); err != nil {
			s.log.Error("catalog sync run", zap.Error(err))
		}
	}))

	s.log.Info("catalog sync worker starting", zap.String("schedule", schedule))
	if _, _, err := s.RunJob(ctx); err != nil {
		s.log.Error("catalog sync run", zap.Error(err))
	}

	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	s.log.Info("catalog sync worker stopped")
	return ctx.Err()
}
