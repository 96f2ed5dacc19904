package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/bher20/tariffmanager/internal/tariff"
)

// MemoryStorage is an in-memory Storage implementation, useful for tests and
// simple single-process deployments. Every read hands out clones so callers
// never share memory with the store.
type MemoryStorage struct {
	mu          sync.RWMutex
	tariffs     []tariff.Tariff
	comparisons map[string]ComparisonRecord
	tokens      map[string]Token
	jobs        map[string]ScheduledJob
}

// NewMemory returns an empty MemoryStorage.
func NewMemory() *MemoryStorage {
	return &MemoryStorage{
		comparisons: make(map[string]ComparisonRecord),
		tokens:      make(map[string]Token),
		jobs:        make(map[string]ScheduledJob),
	}
}

// NewMemoryWithTariffs returns a MemoryStorage preloaded with list, in order.
// Entries are cloned; ids are taken as given.
func NewMemoryWithTariffs(list []tariff.Tariff) *MemoryStorage {
	m := NewMemory()
	for _, t := range list {
		m.tariffs = append(m.tariffs, t.Clone())
	}
	return m
}

func (m *MemoryStorage) Close() error { return nil }

func (m *MemoryStorage) Ping(ctx context.Context) error { return nil }

// Tariffs

func (m *MemoryStorage) ListTariffs(ctx context.Context) ([]tariff.Tariff, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]tariff.Tariff, len(m.tariffs))
	for i, t := range m.tariffs {
		out[i] = t.Clone()
	}
	return out, nil
}

func (m *MemoryStorage) GetTariff(ctx context.Context, id string) (*tariff.Tariff, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	i := m.indexOf(id)
	if i < 0 {
		return nil, nil
	}
	cp := m.tariffs[i].Clone()
	return &cp, nil
}

func (m *MemoryStorage) InsertTariff(ctx context.Context, t tariff.Tariff) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tariffs = append(m.tariffs, t.Clone())
	return nil
}

func (m *MemoryStorage) UpdateTariff(ctx context.Context, t tariff.Tariff) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexOf(t.ID)
	if i < 0 {
		return ErrNotFound
	}
	m.tariffs[i] = t.Clone()
	return nil
}

func (m *MemoryStorage) DeleteTariff(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexOf(id)
	if i < 0 {
		return nil
	}
	m.tariffs = append(m.tariffs[:i:i], m.tariffs[i+1:]...)
	return nil
}

// indexOf must be called with mu held.
func (m *MemoryStorage) indexOf(id string) int {
	for i := range m.tariffs {
		if m.tariffs[i].ID == id {
			return i
		}
	}
	return -1
}

// Comparisons

func (m *MemoryStorage) SaveComparison(ctx context.Context, rec ComparisonRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	rec.Payload = append([]byte(nil), rec.Payload...)
	m.comparisons[rec.ID] = rec
	return nil
}

func (m *MemoryStorage) GetComparison(ctx context.Context, id string) (*ComparisonRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.comparisons[id]
	if !ok {
		return nil, nil
	}
	rec.Payload = append([]byte(nil), rec.Payload...)
	return &rec, nil
}

func (m *MemoryStorage) ListComparisons(ctx context.Context, limit int) ([]ComparisonRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]ComparisonRecord, 0, len(m.comparisons))
	for _, rec := range m.comparisons {
		rec.Payload = append([]byte(nil), rec.Payload...)
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Tokens

func (m *MemoryStorage) CreateToken(ctx context.Context, token Token) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[token.ID] = token
	return nil
}

func (m *MemoryStorage) GetTokenByHash(ctx context.Context, hash string) (*Token, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, t := range m.tokens {
		if t.TokenHash == hash {
			cp := t
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *MemoryStorage) ListTokens(ctx context.Context) ([]Token, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Token, 0, len(m.tokens))
	for _, t := range m.tokens {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *MemoryStorage) DeleteToken(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tokens, id)
	return nil
}

func (m *MemoryStorage) UpdateTokenLastUsed(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.tokens[id]; ok {
		now := time.Now()
		t.LastUsedAt = &now
		m.tokens[id] = t
	}
	return nil
}

// Scheduled jobs

func (m *MemoryStorage) AcquireAdvisoryLock(ctx context.Context, key int64) (bool, error) {
	// single instance always holds the lock
	return true, nil
}

func (m *MemoryStorage) ReleaseAdvisoryLock(ctx context.Context, key int64) (bool, error) {
	return true, nil
}

func (m *MemoryStorage) UpdateScheduledJob(ctx context.Context, name string, started time.Time, dur time.Duration, success bool, errMsg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs[name] = newScheduledJob(name, started, dur, success, errMsg)
	return nil
}

// ScheduledJob returns the last recorded run of a job.
func (m *MemoryStorage) ScheduledJob(name string) (ScheduledJob, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	j, ok := m.jobs[name]
	return j, ok
}

func newScheduledJob(name string, started time.Time, dur time.Duration, success bool, errMsg string) ScheduledJob {
	status := 0
	if success {
		status = 1
	}
	return ScheduledJob{
		Name:           name,
		LastRunAt:      started,
		LastDurationMs: dur.Milliseconds(),
		LastSuccess:    status,
		LastError:      errMsg,
	}
}
