package cron

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/bher20/tariffmanager/internal/alerting"
	"github.com/bher20/tariffmanager/internal/metrics"
	"github.com/bher20/tariffmanager/internal/tariff"
)

// JobCatalogSync names the scheduled_jobs row and metric label of the sync.
const JobCatalogSync = "catalog_sync"

const catalogSyncLockKey int64 = 42

// CompanySource yields the companies presets are derived from.
type CompanySource interface {
	CompaniesOrDefault(ctx context.Context) []tariff.Company
}

// Catalog is the slice of catalog.Store the sync writes through.
type Catalog interface {
	GetAll(ctx context.Context) ([]tariff.Tariff, error)
	Add(ctx context.Context, t tariff.Tariff) (tariff.Tariff, error)
}

// JobStore records runs and serializes them across replicas.
type JobStore interface {
	AcquireAdvisoryLock(ctx context.Context, key int64) (bool, error)
	ReleaseAdvisoryLock(ctx context.Context, key int64) (bool, error)
	UpdateScheduledJob(ctx context.Context, name string, started time.Time, dur time.Duration, success bool, errMsg string) error
}

// JobAlerter is notified after every failed run.
type JobAlerter interface {
	SendJobAlert(ctx context.Context, alert alerting.JobAlert) error
}

// Syncer adds a zero-priced preset for every backend company that has no
// tariff of its type yet. Existing tariffs are never touched.
type Syncer struct {
	source  CompanySource
	catalog Catalog
	jobs    JobStore
	alerter JobAlerter
	log     *zap.Logger

	mu       sync.Mutex
	failures int
}

func NewSyncer(source CompanySource, catalog Catalog, jobs JobStore, log *zap.Logger) *Syncer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Syncer{source: source, catalog: catalog, jobs: jobs, log: log}
}

// WithAlerter sets the alerter failed runs are reported to.
func (s *Syncer) WithAlerter(a JobAlerter) *Syncer {
	s.alerter = a
	return s
}

// recordOutcome returns the number of consecutive failed runs, err
// included.
func (s *Syncer) recordOutcome(err error) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		s.failures = 0
	} else {
		s.failures++
	}
	return s.failures
}

func companyKey(typ tariff.Type, name string) string {
	return string(typ) + "|" + strings.ToLower(strings.TrimSpace(name))
}

// SyncOnce performs one pass and returns the number of presets added.
func (s *Syncer) SyncOnce(ctx context.Context) (int, error) {
	existing, err := s.catalog.GetAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("catalog sync: list tariffs: %w", err)
	}
	have := make(map[string]struct{}, len(existing))
	for _, t := range existing {
		have[companyKey(t.Type, t.CompanyName)] = struct{}{}
	}

	added := 0
	for _, co := range s.source.CompaniesOrDefault(ctx) {
		preset, ok := tariff.Preset(co)
		if !ok {
			s.log.Debug("catalog sync: skipping company with unknown type",
				zap.String("company", co.Name), zap.String("type", string(co.Type)))
			continue
		}
		key := companyKey(preset.Type, preset.CompanyName)
		if _, ok := have[key]; ok {
			continue
		}
		if _, err := s.catalog.Add(ctx, preset); err != nil {
			return added, fmt.Errorf("catalog sync: add preset for %s: %w", co.Name, err)
		}
		have[key] = struct{}{}
		added++
	}
	return added, nil
}

// RunJob wraps SyncOnce with the advisory lock, job bookkeeping and
// metrics. ran is false when another replica holds the lock.
func (s *Syncer) RunJob(ctx context.Context) (ran bool, added int, err error) {
	started := time.Now()

	ok, err := s.jobs.AcquireAdvisoryLock(ctx, catalogSyncLockKey)
	if err != nil {
		metrics.UpdateJobMetrics(JobCatalogSync, started, err)
		return false, 0, fmt.Errorf("catalog sync: acquire lock: %w", err)
	}
	if !ok {
		s.log.Info("catalog sync: lock held by another worker, skipping run")
		return false, 0, nil
	}
	defer func() {
		if _, err := s.jobs.ReleaseAdvisoryLock(ctx, catalogSyncLockKey); err != nil {
			s.log.Warn("catalog sync: release lock", zap.Error(err))
		}
	}()

	added, runErr := s.SyncOnce(ctx)

	metrics.UpdateJobMetrics(JobCatalogSync, started, runErr)
	dur := time.Since(started)
	errMsg := ""
	if runErr != nil {
		errMsg = runErr.Error()
	}
	if err := s.jobs.UpdateScheduledJob(ctx, JobCatalogSync, started, dur, runErr == nil, errMsg); err != nil {
		s.log.Warn("catalog sync: update scheduled_jobs", zap.Error(err))
	}

	failures := s.recordOutcome(runErr)
	if runErr != nil {
		s.log.Error("catalog sync failed", zap.Error(runErr), zap.Duration("duration", dur))
		if s.alerter != nil {
			alert := alerting.JobAlert{
				JobName:             JobCatalogSync,
				Error:               errMsg,
				ConsecutiveFailures: failures,
				Duration:            dur,
				Timestamp:           started,
			}
			if err := s.alerter.SendJobAlert(ctx, alert); err != nil {
				s.log.Warn("catalog sync: send alert", zap.Error(err))
			}
		}
		return true, added, runErr
	}
	s.log.Info("catalog sync completed", zap.Int("added", added), zap.Duration("duration", dur))
	return true, added, nil
}
