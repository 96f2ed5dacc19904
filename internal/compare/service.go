package compare

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bher20/tariffmanager/internal/metrics"
	"github.com/bher20/tariffmanager/internal/storage"
	"github.com/bher20/tariffmanager/internal/tariff"
)

// ErrComparisonNotFound is returned for unknown saved comparison ids.
var ErrComparisonNotFound = errors.New("compare: comparison not found")

// Catalog supplies the tariff snapshot a comparison runs against.
type Catalog interface {
	GetAll(ctx context.Context) ([]tariff.Tariff, error)
}

// Repository persists finished comparisons.
type Repository interface {
	SaveComparison(ctx context.Context, rec storage.ComparisonRecord) error
	GetComparison(ctx context.Context, id string) (*storage.ComparisonRecord, error)
	ListComparisons(ctx context.Context, limit int) ([]storage.ComparisonRecord, error)
}

// Client is the display data saved alongside a comparison and used when
// rendering it.
type Client struct {
	Name           string `json:"name"`
	Email          string `json:"email,omitempty"`
	PrimaryColor   string `json:"primaryColor,omitempty"`
	SecondaryColor string `json:"secondaryColor,omitempty"`
}

// Saved is a stored comparison decoded back into its parts.
type Saved struct {
	ID             string          `json:"id"`
	Client         Client          `json:"client"`
	Request        Request         `json:"request"`
	Recommendation *Recommendation `json:"recommendation"`
	CreatedAt      time.Time       `json:"createdAt"`
}

type payload struct {
	Client         Client          `json:"client"`
	Request        Request         `json:"request"`
	Recommendation *Recommendation `json:"recommendation"`
}

// Service runs comparisons against the live catalog and optionally stores
// the results.
type Service struct {
	catalog Catalog
	repo    Repository // may be nil for evaluate-only mode
	log     *zap.Logger
	now     func() time.Time
}

// NewService returns an evaluate-only Service.
func NewService(catalog Catalog, log *zap.Logger) *Service {
	return NewServiceWithStorage(catalog, nil, log)
}

// NewServiceWithStorage returns a Service that can save and load
// comparisons.
func NewServiceWithStorage(catalog Catalog, repo Repository, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{catalog: catalog, repo: repo, log: log, now: time.Now}
}

// Evaluate runs req against a fresh catalog snapshot.
func (s *Service) Evaluate(ctx context.Context, req Request) (*Recommendation, error) {
	snapshot, err := s.catalog.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	rec, err := Recommend(snapshot, req)
	if err != nil {
		outcome := "error"
		if errors.Is(err, ErrNoCandidateTariffs) {
			outcome = "no_offers"
		}
		metrics.ObserveComparison(string(req.Type), outcome, 0)
		s.log.Info("comparison failed",
			zap.String("type", string(req.Type)),
			zap.String("segment", string(req.CustomerSegment)),
			zap.Error(err),
		)
		return nil, err
	}

	metrics.ObserveComparison(string(req.Type), "ok", len(rec.Skipped))
	for _, sk := range rec.Skipped {
		s.log.Warn("tariff skipped during comparison",
			zap.String("tariff_id", sk.TariffID),
			zap.String("reason", sk.Reason),
		)
	}
	s.log.Debug("comparison done",
		zap.String("tariff_id", rec.Tariff.ID),
		zap.Float64("total", rec.Total),
		zap.Int("options", len(rec.Options)),
	)
	return rec, nil
}

// Save evaluates req and stores the result with the client's display data.
func (s *Service) Save(ctx context.Context, client Client, req Request) (*Saved, error) {
	if s.repo == nil {
		return nil, fmt.Errorf("compare: no storage configured")
	}
	rec, err := s.Evaluate(ctx, req)
	if err != nil {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("compare: generate id: %w", err)
	}
	body, err := json.Marshal(payload{Client: client, Request: req, Recommendation: rec})
	if err != nil {
		return nil, fmt.Errorf("compare: encode: %w", err)
	}

	saved := &Saved{
		ID:             id.String(),
		Client:         client,
		Request:        req,
		Recommendation: rec,
		CreatedAt:      s.now().UTC(),
	}
	err = s.repo.SaveComparison(ctx, storage.ComparisonRecord{
		ID:                  saved.ID,
		ClientName:          client.Name,
		ClientEmail:         client.Email,
		PrimaryColor:        client.PrimaryColor,
		SecondaryColor:      client.SecondaryColor,
		Type:                string(req.Type),
		CustomerSegment:     string(req.CustomerSegment),
		CurrentBill:         req.CurrentBill,
		RecommendedTariffID: rec.Tariff.ID,
		RecommendedTotal:    rec.Total,
		MonthlySaving:       rec.MonthlySaving,
		Payload:             body,
		CreatedAt:           saved.CreatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("compare: save: %w", err)
	}
	s.log.Info("comparison saved", zap.String("id", saved.ID), zap.String("client", client.Name))
	return saved, nil
}

// Get loads a stored comparison.
func (s *Service) Get(ctx context.Context, id string) (*Saved, error) {
	if s.repo == nil {
		return nil, fmt.Errorf("%w: %s", ErrComparisonNotFound, id)
	}
	rec, err := s.repo.GetComparison(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("%w: %s", ErrComparisonNotFound, id)
	}
	return decode(*rec)
}

// List returns stored comparisons, newest first.
func (s *Service) List(ctx context.Context, limit int) ([]storage.ComparisonRecord, error) {
	if s.repo == nil {
		return nil, nil
	}
	return s.repo.ListComparisons(ctx, limit)
}

func decode(rec storage.ComparisonRecord) (*Saved, error) {
	var p payload
	if err := json.Unmarshal(rec.Payload, &p); err != nil {
		return nil, fmt.Errorf("compare: decode %s: %w", rec.ID, err)
	}
	return &Saved{
		ID:             rec.ID,
		Client:         p.Client,
		Request:        p.Request,
		Recommendation: p.Recommendation,
		CreatedAt:      rec.CreatedAt,
	}, nil
}
