package storage

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresPool_ListTariffs(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	a, _ := json.Marshal(sampleTariff("a"))
	b, _ := json.Marshal(sampleTariff("b"))
	rows := pgxmock.NewRows([]string{"id", "payload"}).
		AddRow("a", a).
		AddRow("b", b)
	mock.ExpectQuery("SELECT id, payload FROM tariffs ORDER BY position").WillReturnRows(rows)

	st := NewPostgresPoolWithDB(mock)
	list, err := st.ListTariffs(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].ID)
	assert.Equal(t, "b", list[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresPool_GetTariffMissing(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT id, payload FROM tariffs WHERE id").
		WithArgs("nope").
		WillReturnError(pgx.ErrNoRows)

	st := NewPostgresPoolWithDB(mock)
	got, err := st.GetTariff(context.Background(), "nope")
	assert.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresPool_InsertTariff(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("INSERT INTO tariffs").
		WithArgs("a", "electricity", "residential", "Endesa", "One Luz a", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	st := NewPostgresPoolWithDB(mock)
	require.NoError(t, st.InsertTariff(context.Background(), sampleTariff("a")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresPool_UpdateTariffNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("UPDATE tariffs").
		WithArgs("a", "electricity", "residential", "Endesa", "One Luz a", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	st := NewPostgresPoolWithDB(mock)
	err = st.UpdateTariff(context.Background(), sampleTariff("a"))
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresPool_DeleteTariff(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("DELETE FROM tariffs").
		WithArgs("gone").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	st := NewPostgresPoolWithDB(mock)
	assert.NoError(t, st.DeleteTariff(context.Background(), "gone"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresPool_GetComparison(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	created := time.Date(2026, 2, 2, 12, 0, 0, 0, time.UTC)
	rows := pgxmock.NewRows([]string{
		"id", "client_name", "client_email", "primary_color", "secondary_color", "type", "customer_segment",
		"current_bill", "recommended_tariff_id", "recommended_total", "monthly_saving", "payload", "created_at",
	}).AddRow("c1", "Ana", "ana@example.com", "#004488", "#ffffff", "gas", "residential",
		40.0, "gas-1", 26.62, 13.38, []byte(`{}`), created)
	mock.ExpectQuery("SELECT (.+) FROM comparisons WHERE id").
		WithArgs("c1").
		WillReturnRows(rows)

	st := NewPostgresPoolWithDB(mock)
	got, err := st.GetComparison(context.Background(), "c1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Ana", got.ClientName)
	assert.Equal(t, 13.38, got.MonthlySaving)
	assert.Equal(t, created, got.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresPool_AdvisoryLock(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT pg_try_advisory_lock").
		WithArgs(int64(42)).
		WillReturnRows(pgxmock.NewRows([]string{"pg_try_advisory_lock"}).AddRow(false))

	st := NewPostgresPoolWithDB(mock)
	ok, err := st.AcquireAdvisoryLock(context.Background(), 42)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}
