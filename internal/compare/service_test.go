package compare

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bher20/tariffmanager/internal/catalog"
	"github.com/bher20/tariffmanager/internal/storage"
	"github.com/bher20/tariffmanager/internal/tariff"
)

func newServiceWithCatalog(t *testing.T, list ...tariff.Tariff) (*Service, *catalog.Store) {
	t.Helper()
	st := storage.NewMemory()
	cat := catalog.NewStore(st, zap.NewNop())
	_, err := cat.Seed(context.Background(), list)
	require.NoError(t, err)
	return NewServiceWithStorage(cat, st, zap.NewNop()), cat
}

func TestService_SaveAndGet(t *testing.T) {
	ctx := context.Background()
	svc, _ := newServiceWithCatalog(t, gasAt("", 1.0), gasAt("", 0.9))

	client := Client{Name: "Ana López", Email: "ana@example.com", PrimaryColor: "#0A3D62"}
	saved, err := svc.Save(ctx, client, gasRequest(120))
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)
	assert.Equal(t, 90.0, saved.Recommendation.Total)

	got, err := svc.Get(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, client, got.Client)
	assert.Equal(t, saved.Recommendation.Tariff.ID, got.Recommendation.Tariff.ID)
	assert.Equal(t, 30.0, got.Recommendation.MonthlySaving)
	assert.Len(t, got.Recommendation.Options, 2)

	list, err := svc.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Ana López", list[0].ClientName)
	assert.Equal(t, 90.0, list[0].RecommendedTotal)
}

func TestService_GetUnknown(t *testing.T) {
	svc, _ := newServiceWithCatalog(t)
	_, err := svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrComparisonNotFound)
}

func TestService_EvaluateSeesCatalogChanges(t *testing.T) {
	ctx := context.Background()
	svc, cat := newServiceWithCatalog(t, gasAt("", 1.0))

	rec, err := svc.Evaluate(ctx, gasRequest(100))
	require.NoError(t, err)
	assert.Equal(t, 100.0, rec.Total)

	cheaper, err := cat.Add(ctx, gasAt("", 0.5))
	require.NoError(t, err)

	rec, err = svc.Evaluate(ctx, gasRequest(100))
	require.NoError(t, err)
	assert.Equal(t, cheaper.ID, rec.Tariff.ID)
}

func TestService_EvaluateOnlyHasNoStorage(t *testing.T) {
	cat := catalog.NewStore(storage.NewMemory(), nil)
	svc := NewService(cat, nil)
	_, err := svc.Save(context.Background(), Client{Name: "x"}, gasRequest(1))
	assert.Error(t, err)

	_, err = svc.Evaluate(context.Background(), gasRequest(1))
	assert.ErrorIs(t, err, ErrNoCandidateTariffs)
}
