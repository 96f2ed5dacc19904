package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bher20/tariffmanager/internal/metrics"
	"github.com/bher20/tariffmanager/internal/storage"
	"github.com/bher20/tariffmanager/internal/tariff"
)

// ErrTariffNotFound is returned by Get and Update for unknown ids.
var ErrTariffNotFound = errors.New("catalog: tariff not found")

// Repository is the persistence the catalog needs. storage.Storage
// satisfies it.
type Repository interface {
	ListTariffs(ctx context.Context) ([]tariff.Tariff, error)
	GetTariff(ctx context.Context, id string) (*tariff.Tariff, error)
	InsertTariff(ctx context.Context, t tariff.Tariff) error
	UpdateTariff(ctx context.Context, t tariff.Tariff) error
	DeleteTariff(ctx context.Context, id string) error
}

// Store owns the tariff catalog. Reads return independent copies; writes
// are validated and serialized so read-modify-write updates never
// interleave.
type Store struct {
	repo  Repository
	log   *zap.Logger
	mu    sync.Mutex
	newID func() (string, error)
}

// NewStore wires a Store over repo.
func NewStore(repo Repository, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{repo: repo, log: log, newID: newID}
}

// newID returns a UUIDv7: a millisecond timestamp followed by random bits.
func newID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// GetAll returns every tariff in catalog order.
func (s *Store) GetAll(ctx context.Context) ([]tariff.Tariff, error) {
	list, err := s.repo.ListTariffs(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalog: list: %w", err)
	}
	out := make([]tariff.Tariff, len(list))
	counts := map[string]int{string(tariff.TypeElectricity): 0, string(tariff.TypeGas): 0}
	for i := range list {
		out[i] = list[i].Clone()
		counts[string(list[i].Type)]++
	}
	metrics.SetCatalogSize(counts)
	return out, nil
}

// Filter returns the tariffs of one utility type and segment, in catalog
// order.
func (s *Store) Filter(ctx context.Context, typ tariff.Type, segment tariff.Segment) ([]tariff.Tariff, error) {
	all, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	var out []tariff.Tariff
	for _, t := range all {
		if t.Matches(typ, segment) {
			out = append(out, t)
		}
	}
	return out, nil
}

// Get returns one tariff or ErrTariffNotFound.
func (s *Store) Get(ctx context.Context, id string) (tariff.Tariff, error) {
	t, err := s.repo.GetTariff(ctx, id)
	if err != nil {
		return tariff.Tariff{}, fmt.Errorf("catalog: get %s: %w", id, err)
	}
	if t == nil {
		return tariff.Tariff{}, fmt.Errorf("%w: %s", ErrTariffNotFound, id)
	}
	return t.Clone(), nil
}

// Add assigns a fresh id, validates and appends t. Any id on the input is
// ignored.
func (s *Store) Add(ctx context.Context, t tariff.Tariff) (tariff.Tariff, error) {
	t = t.Clone()
	if err := t.Validate(); err != nil {
		return tariff.Tariff{}, err
	}
	id, err := s.newID()
	if err != nil {
		return tariff.Tariff{}, fmt.Errorf("catalog: generate id: %w", err)
	}
	t.ID = id

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.repo.InsertTariff(ctx, t); err != nil {
		return tariff.Tariff{}, fmt.Errorf("catalog: insert: %w", err)
	}
	s.log.Info("tariff added",
		zap.String("id", t.ID),
		zap.String("type", string(t.Type)),
		zap.String("company", t.CompanyName),
	)
	return t.Clone(), nil
}

// Update merges patch over the stored tariff and writes it back. Unknown
// ids yield ErrTariffNotFound.
func (s *Store) Update(ctx context.Context, id string, patch Patch) (tariff.Tariff, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, err := s.repo.GetTariff(ctx, id)
	if err != nil {
		return tariff.Tariff{}, fmt.Errorf("catalog: get %s: %w", id, err)
	}
	if cur == nil {
		return tariff.Tariff{}, fmt.Errorf("%w: %s", ErrTariffNotFound, id)
	}

	next := cur.Clone()
	if err := patch.Apply(&next); err != nil {
		return tariff.Tariff{}, err
	}
	if err := next.Validate(); err != nil {
		return tariff.Tariff{}, err
	}
	if err := s.repo.UpdateTariff(ctx, next); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return tariff.Tariff{}, fmt.Errorf("%w: %s", ErrTariffNotFound, id)
		}
		return tariff.Tariff{}, fmt.Errorf("catalog: update %s: %w", id, err)
	}
	s.log.Info("tariff updated", zap.String("id", id))
	return next.Clone(), nil
}

// Delete removes a tariff. Unknown ids are not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.repo.DeleteTariff(ctx, id); err != nil {
		return fmt.Errorf("catalog: delete %s: %w", id, err)
	}
	s.log.Info("tariff deleted", zap.String("id", id))
	return nil
}

// Seed adds list when the catalog is empty and reports how many tariffs
// were added.
func (s *Store) Seed(ctx context.Context, list []tariff.Tariff) (int, error) {
	existing, err := s.repo.ListTariffs(ctx)
	if err != nil {
		return 0, fmt.Errorf("catalog: list: %w", err)
	}
	if len(existing) > 0 {
		return 0, nil
	}
	for i, t := range list {
		if _, err := s.Add(ctx, t); err != nil {
			return i, fmt.Errorf("catalog: seed entry %d: %w", i, err)
		}
	}
	return len(list), nil
}
