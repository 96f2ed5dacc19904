package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bher20/tariffmanager/internal/alerting"
	"github.com/bher20/tariffmanager/internal/catalog"
	"github.com/bher20/tariffmanager/internal/storage"
	"github.com/bher20/tariffmanager/internal/tariff"
)

type staticSource []tariff.Company

func (s staticSource) CompaniesOrDefault(context.Context) []tariff.Company { return s }

type lockedJobs struct {
	*storage.MemoryStorage
}

func (lockedJobs) AcquireAdvisoryLock(context.Context, int64) (bool, error) { return false, nil }

type brokenJobs struct {
	*storage.MemoryStorage
}

func (brokenJobs) AcquireAdvisoryLock(context.Context, int64) (bool, error) {
	return false, errors.New("db down")
}

func TestSyncOnce_AddsMissingPresetsOnly(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	store := catalog.NewStore(mem, nil)

	priced := tariff.Tariff{
		Type:            tariff.TypeElectricity,
		CustomerSegment: tariff.SegmentResidential,
		CompanyName:     "Iberdrola",
		TariffName:      "Plan Estable",
		Electricity: &tariff.ElectricityPricing{
			TariffType:   tariff.Electricity20,
			PowerPrices:  []float64{0.1, 0.05},
			EnergyPrices: []float64{0.2, 0.15, 0.1},
		},
	}
	_, err := store.Add(ctx, priced)
	require.NoError(t, err)

	src := staticSource{
		{ID: "1", Name: "iberdrola", Type: tariff.TypeElectricity},
		{ID: "2", Name: "Iberdrola", Type: tariff.TypeGas},
		{ID: "3", Name: "Endesa", Type: tariff.TypeElectricity},
		{ID: "4", Name: "Mystery", Type: "water"},
	}
	s := NewSyncer(src, store, mem, nil)

	added, err := s.SyncOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, added)

	all, err := store.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Plan Estable", all[0].TariffName)
	assert.Equal(t, []float64{0.1, 0.05}, all[0].Electricity.PowerPrices)
	assert.Equal(t, tariff.TypeGas, all[1].Type)
	assert.Equal(t, "Endesa Base", all[2].TariffName)

	added, err = s.SyncOnce(ctx)
	require.NoError(t, err)
	assert.Zero(t, added)
}

func TestRunJob_RecordsScheduledJob(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	s := NewSyncer(staticSource{{ID: "n", Name: "Naturgy", Type: tariff.TypeGas}}, catalog.NewStore(mem, nil), mem, nil)

	ran, added, err := s.RunJob(ctx)
	require.NoError(t, err)
	assert.True(t, ran)
	assert.Equal(t, 1, added)

	job, ok := mem.ScheduledJob(JobCatalogSync)
	require.True(t, ok)
	assert.Equal(t, 1, job.LastSuccess)
}

func TestRunJob_LockHeldOrFailing(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	store := catalog.NewStore(mem, nil)
	src := staticSource{{ID: "n", Name: "Naturgy", Type: tariff.TypeGas}}

	ran, added, err := NewSyncer(src, store, lockedJobs{mem}, nil).RunJob(ctx)
	require.NoError(t, err)
	assert.False(t, ran)
	assert.Zero(t, added)

	_, _, err = NewSyncer(src, store, brokenJobs{mem}, nil).RunJob(ctx)
	assert.Error(t, err)

	all, err := store.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestParseSchedule(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	s, err := ParseSchedule("300")
	require.NoError(t, err)
	assert.Equal(t, now.Add(5*time.Minute), s.Next(now))

	s, err = ParseSchedule("0 */6 * * *")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), s.Next(now))

	_, err = ParseSchedule("0")
	assert.Error(t, err)
	_, err = ParseSchedule("every tuesday")
	assert.Error(t, err)
}

func TestRun_StopsOnCancel(t *testing.T) {
	mem := storage.NewMemory()
	s := NewSyncer(staticSource{{ID: "e", Name: "Endesa", Type: tariff.TypeElectricity}}, catalog.NewStore(mem, nil), mem, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, "3600") }()

	require.Eventually(t, func() bool {
		_, ok := mem.ScheduledJob(JobCatalogSync)
		return ok
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}
}

type brokenCatalog struct{}

func (brokenCatalog) GetAll(context.Context) ([]tariff.Tariff, error) {
	return nil, errors.New("catalog unavailable")
}

func (brokenCatalog) Add(_ context.Context, t tariff.Tariff) (tariff.Tariff, error) { return t, nil }

type recordingAlerter struct {
	alerts []alerting.JobAlert
}

func (r *recordingAlerter) SendJobAlert(_ context.Context, a alerting.JobAlert) error {
	r.alerts = append(r.alerts, a)
	return nil
}

func TestRunJob_AlertsOnConsecutiveFailures(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	rec := &recordingAlerter{}
	s := NewSyncer(staticSource{}, brokenCatalog{}, mem, nil).WithAlerter(rec)

	for i := 0; i < 2; i++ {
		ran, _, err := s.RunJob(ctx)
		assert.True(t, ran)
		assert.Error(t, err)
	}

	require.Len(t, rec.alerts, 2)
	assert.Equal(t, JobCatalogSync, rec.alerts[0].JobName)
	assert.Equal(t, 1, rec.alerts[0].ConsecutiveFailures)
	assert.Equal(t, 2, rec.alerts[1].ConsecutiveFailures)
	assert.Contains(t, rec.alerts[1].Error, "catalog unavailable")

	s.catalog = catalog.NewStore(mem, nil)
	_, _, err := s.RunJob(ctx)
	require.NoError(t, err)
	assert.Len(t, rec.alerts, 2)
	assert.Equal(t, 0, s.recordOutcome(nil))
}
