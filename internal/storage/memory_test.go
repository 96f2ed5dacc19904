package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bher20/tariffmanager/internal/tariff"
)

func sampleTariff(id string) tariff.Tariff {
	return tariff.Tariff{
		ID:              id,
		Type:            tariff.TypeElectricity,
		CustomerSegment: tariff.SegmentResidential,
		CompanyName:     "Endesa",
		TariffName:      "One Luz " + id,
		Electricity: &tariff.ElectricityPricing{
			TariffType:   tariff.Electricity20,
			PowerPrices:  []float64{0.1, 0.05},
			EnergyPrices: []float64{0.2, 0.15, 0.1},
		},
	}
}

func TestNewMemoryWithTariffs_PreloadsInOrder(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryWithTariffs([]tariff.Tariff{sampleTariff("a"), sampleTariff("b"), sampleTariff("c")})
	defer m.Close()

	list, err := m.ListTariffs(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "a", list[0].ID)
	assert.Equal(t, "b", list[1].ID)
	assert.Equal(t, "c", list[2].ID)
}

func TestMemory_ListIsolatedFromCallerMutation(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryWithTariffs([]tariff.Tariff{sampleTariff("a")})

	first, err := m.ListTariffs(ctx)
	require.NoError(t, err)
	first[0].TariffName = "mutated"
	first[0].Electricity.PowerPrices[0] = 42

	second, err := m.ListTariffs(ctx)
	require.NoError(t, err)
	assert.Equal(t, "One Luz a", second[0].TariffName)
	assert.Equal(t, 0.1, second[0].Electricity.PowerPrices[0])

	got, err := m.GetTariff(ctx, "a")
	require.NoError(t, err)
	got.Electricity.EnergyPrices[0] = 7
	again, _ := m.GetTariff(ctx, "a")
	assert.Equal(t, 0.2, again.Electricity.EnergyPrices[0])
}

func TestMemory_InsertDoesNotAliasInput(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	in := sampleTariff("x")
	require.NoError(t, m.InsertTariff(ctx, in))
	in.Electricity.PowerPrices[1] = 9

	got, err := m.GetTariff(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, 0.05, got.Electricity.PowerPrices[1])
}

func TestMemory_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryWithTariffs([]tariff.Tariff{sampleTariff("a"), sampleTariff("b")})

	upd := sampleTariff("b")
	upd.TariffName = "renamed"
	require.NoError(t, m.UpdateTariff(ctx, upd))
	got, _ := m.GetTariff(ctx, "b")
	assert.Equal(t, "renamed", got.TariffName)

	assert.ErrorIs(t, m.UpdateTariff(ctx, sampleTariff("zzz")), ErrNotFound)

	require.NoError(t, m.DeleteTariff(ctx, "a"))
	require.NoError(t, m.DeleteTariff(ctx, "missing"))
	list, _ := m.ListTariffs(ctx)
	require.Len(t, list, 1)
	assert.Equal(t, "b", list[0].ID)

	missing, err := m.GetTariff(ctx, "a")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestMemory_ComparisonsNewestFirst(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, m.SaveComparison(ctx, ComparisonRecord{ID: "c1", CreatedAt: base}))
	require.NoError(t, m.SaveComparison(ctx, ComparisonRecord{ID: "c2", CreatedAt: base.Add(time.Hour)}))
	require.NoError(t, m.SaveComparison(ctx, ComparisonRecord{ID: "c3", CreatedAt: base.Add(2 * time.Hour)}))

	list, err := m.ListComparisons(ctx, 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "c3", list[0].ID)
	assert.Equal(t, "c2", list[1].ID)

	got, err := m.GetComparison(ctx, "c1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, base, got.CreatedAt)

	none, err := m.GetComparison(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestMemory_Tokens(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.CreateToken(ctx, Token{ID: "t1", Name: "ci", TokenHash: "h1", Role: "admin", CreatedAt: time.Now()}))

	tok, err := m.GetTokenByHash(ctx, "h1")
	require.NoError(t, err)
	require.NotNil(t, tok)
	assert.Nil(t, tok.LastUsedAt)

	require.NoError(t, m.UpdateTokenLastUsed(ctx, "t1"))
	tok, _ = m.GetTokenByHash(ctx, "h1")
	assert.NotNil(t, tok.LastUsedAt)

	require.NoError(t, m.DeleteToken(ctx, "t1"))
	tok, err = m.GetTokenByHash(ctx, "h1")
	require.NoError(t, err)
	assert.Nil(t, tok)
}

func TestMemory_ScheduledJob(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	started := time.Now()
	require.NoError(t, m.UpdateScheduledJob(ctx, "catalog_sync", started, 1500*time.Millisecond, false, "boom"))

	j, ok := m.ScheduledJob("catalog_sync")
	require.True(t, ok)
	assert.Equal(t, int64(1500), j.LastDurationMs)
	assert.Equal(t, 0, j.LastSuccess)
	assert.Equal(t, "boom", j.LastError)
}
