package storage

import (
	"context"
	"errors"
	"time"

	"github.com/bher20/tariffmanager/internal/tariff"
)

// ErrNotFound is returned by writes that target a missing row. Reads
// return nil, nil for missing rows instead.
var ErrNotFound = errors.New("storage: not found")

// Storage abstracts persistence for the tariff catalog, saved comparisons,
// API tokens and scheduled job bookkeeping.
type Storage interface {
	// Tariffs, listed in catalog (insertion) order.
	ListTariffs(ctx context.Context) ([]tariff.Tariff, error)
	GetTariff(ctx context.Context, id string) (*tariff.Tariff, error)
	InsertTariff(ctx context.Context, t tariff.Tariff) error
	UpdateTariff(ctx context.Context, t tariff.Tariff) error
	DeleteTariff(ctx context.Context, id string) error

	// Comparisons, newest first.
	SaveComparison(ctx context.Context, rec ComparisonRecord) error
	GetComparison(ctx context.Context, id string) (*ComparisonRecord, error)
	ListComparisons(ctx context.Context, limit int) ([]ComparisonRecord, error)

	// API tokens
	CreateToken(ctx context.Context, token Token) error
	GetTokenByHash(ctx context.Context, hash string) (*Token, error)
	ListTokens(ctx context.Context) ([]Token, error)
	DeleteToken(ctx context.Context, id string) error
	UpdateTokenLastUsed(ctx context.Context, id string) error

	// Scheduled jobs
	AcquireAdvisoryLock(ctx context.Context, key int64) (bool, error)
	ReleaseAdvisoryLock(ctx context.Context, key int64) (bool, error)
	UpdateScheduledJob(ctx context.Context, name string, started time.Time, dur time.Duration, success bool, errMsg string) error

	Ping(ctx context.Context) error
	// Close releases any resources (no-op for in-memory).
	Close() error
}
