package storage

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bher20/tariffmanager/internal/tariff"
)

// PoolDB is the subset of *pgxpool.Pool the pool backend needs. pgxmock
// pools satisfy it too.
type PoolDB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Ping(ctx context.Context) error
	Close()
}

// PostgresPoolStorage talks to postgres over a pgx pool without an ORM.
// Its schema comes from the goose migrations.
type PostgresPoolStorage struct {
	db PoolDB
}

func OpenPostgresPool(ctx context.Context, dsn string) (*PostgresPoolStorage, error) {
	if dsn == "" {
		dsn = "postgres://localhost:5432/tariffmanager?sslmode=disable"
	}

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return &PostgresPoolStorage{db: pool}, nil
}

// NewPostgresPoolWithDB wraps an existing pool.
func NewPostgresPoolWithDB(db PoolDB) *PostgresPoolStorage {
	return &PostgresPoolStorage{db: db}
}

func (s *PostgresPoolStorage) Close() error {
	s.db.Close()
	return nil
}

func (s *PostgresPoolStorage) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Tariffs

func (s *PostgresPoolStorage) ListTariffs(ctx context.Context) ([]tariff.Tariff, error) {
	rows, err := s.db.Query(ctx, `SELECT id, payload FROM tariffs ORDER BY position ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []tariff.Tariff
	for rows.Next() {
		var r TariffRow
		if err := rows.Scan(&r.ID, &r.Payload); err != nil {
			return nil, err
		}
		t, err := r.Tariff()
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *PostgresPoolStorage) GetTariff(ctx context.Context, id string) (*tariff.Tariff, error) {
	var r TariffRow
	err := s.db.QueryRow(ctx, `SELECT id, payload FROM tariffs WHERE id = $1`, id).Scan(&r.ID, &r.Payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	t, err := r.Tariff()
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *PostgresPoolStorage) InsertTariff(ctx context.Context, t tariff.Tariff) error {
	r, err := tariffRow(t)
	if err != nil {
		return err
	}
	now := time.Now()
	_, err = s.db.Exec(ctx, `
		INSERT INTO tariffs (id, position, type, customer_segment, company_name, tariff_name, payload, created_at, updated_at)
		VALUES ($1, (SELECT COALESCE(MAX(position), 0) + 1 FROM tariffs), $2, $3, $4, $5, $6, $7, $7)
	`, r.ID, r.Type, r.CustomerSegment, r.CompanyName, r.TariffName, r.Payload, now)
	return err
}

func (s *PostgresPoolStorage) UpdateTariff(ctx context.Context, t tariff.Tariff) error {
	r, err := tariffRow(t)
	if err != nil {
		return err
	}
	tag, err := s.db.Exec(ctx, `
		UPDATE tariffs
		SET type = $2, customer_segment = $3, company_name = $4, tariff_name = $5, payload = $6, updated_at = $7
		WHERE id = $1
	`, r.ID, r.Type, r.CustomerSegment, r.CompanyName, r.TariffName, r.Payload, time.Now())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresPoolStorage) DeleteTariff(ctx context.Context, id string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM tariffs WHERE id = $1`, id)
	return err
}

// Comparisons

const comparisonColumns = `id, client_name, client_email, primary_color, secondary_color, type, customer_segment,
	current_bill, recommended_tariff_id, recommended_total, monthly_saving, payload, created_at`

func scanComparison(row pgx.Row) (ComparisonRecord, error) {
	var c ComparisonRecord
	err := row.Scan(&c.ID, &c.ClientName, &c.ClientEmail, &c.PrimaryColor, &c.SecondaryColor, &c.Type,
		&c.CustomerSegment, &c.CurrentBill, &c.RecommendedTariffID, &c.RecommendedTotal, &c.MonthlySaving,
		&c.Payload, &c.CreatedAt)
	return c, err
}

func (s *PostgresPoolStorage) SaveComparison(ctx context.Context, c ComparisonRecord) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO comparisons (`+comparisonColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO UPDATE SET
			client_name = EXCLUDED.client_name,
			client_email = EXCLUDED.client_email,
			primary_color = EXCLUDED.primary_color,
			secondary_color = EXCLUDED.secondary_color,
			payload = EXCLUDED.payload
	`, c.ID, c.ClientName, c.ClientEmail, c.PrimaryColor, c.SecondaryColor, c.Type, c.CustomerSegment,
		c.CurrentBill, c.RecommendedTariffID, c.RecommendedTotal, c.MonthlySaving, c.Payload, c.CreatedAt)
	return err
}

func (s *PostgresPoolStorage) GetComparison(ctx context.Context, id string) (*ComparisonRecord, error) {
	c, err := scanComparison(s.db.QueryRow(ctx, `SELECT `+comparisonColumns+` FROM comparisons WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (s *PostgresPoolStorage) ListComparisons(ctx context.Context, limit int) ([]ComparisonRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.Query(ctx, `SELECT `+comparisonColumns+` FROM comparisons ORDER BY created_at DESC, id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ComparisonRecord
	for rows.Next() {
		c, err := scanComparison(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Tokens

func (s *PostgresPoolStorage) CreateToken(ctx context.Context, t Token) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO api_tokens (id, name, token_hash, role, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, t.ID, t.Name, t.TokenHash, t.Role, t.CreatedAt, t.ExpiresAt)
	return err
}

func (s *PostgresPoolStorage) GetTokenByHash(ctx context.Context, hash string) (*Token, error) {
	var t Token
	err := s.db.QueryRow(ctx, `
		SELECT id, name, token_hash, role, created_at, expires_at, last_used_at
		FROM api_tokens WHERE token_hash = $1
	`, hash).Scan(&t.ID, &t.Name, &t.TokenHash, &t.Role, &t.CreatedAt, &t.ExpiresAt, &t.LastUsedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (s *PostgresPoolStorage) ListTokens(ctx context.Context) ([]Token, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, name, token_hash, role, created_at, expires_at, last_used_at
		FROM api_tokens ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Token
	for rows.Next() {
		var t Token
		if err := rows.Scan(&t.ID, &t.Name, &t.TokenHash, &t.Role, &t.CreatedAt, &t.ExpiresAt, &t.LastUsedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *PostgresPoolStorage) DeleteToken(ctx context.Context, id string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM api_tokens WHERE id = $1`, id)
	return err
}

func (s *PostgresPoolStorage) UpdateTokenLastUsed(ctx context.Context, id string) error {
	_, err := s.db.Exec(ctx, `UPDATE api_tokens SET last_used_at = $2 WHERE id = $1`, id, time.Now())
	return err
}

// Scheduled jobs

func (s *PostgresPoolStorage) AcquireAdvisoryLock(ctx context.Context, key int64) (bool, error) {
	var ok bool
	err := s.db.QueryRow(ctx, `SELECT pg_try_advisory_lock($1)`, key).Scan(&ok)
	return ok, err
}

func (s *PostgresPoolStorage) ReleaseAdvisoryLock(ctx context.Context, key int64) (bool, error) {
	var ok bool
	err := s.db.QueryRow(ctx, `SELECT pg_advisory_unlock($1)`, key).Scan(&ok)
	return ok, err
}

func (s *PostgresPoolStorage) UpdateScheduledJob(ctx context.Context, name string, started time.Time, dur time.Duration, success bool, errMsg string) error {
	j := newScheduledJob(name, started, dur, success, errMsg)
	_, err := s.db.Exec(ctx, `
		INSERT INTO scheduled_jobs (name, last_run_at, last_duration_ms, last_success, last_error)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (name) DO UPDATE SET
			last_run_at = EXCLUDED.last_run_at,
			last_duration_ms = EXCLUDED.last_duration_ms,
			last_success = EXCLUDED.last_success,
			last_error = EXCLUDED.last_error
	`, j.Name, j.LastRunAt, j.LastDurationMs, j.LastSuccess, j.LastError)
	return err
}
