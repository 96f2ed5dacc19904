package compare

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bher20/tariffmanager/internal/billing"
	"github.com/bher20/tariffmanager/internal/tariff"
)

// ErrNoCandidateTariffs means no tariff matched the requested type and
// segment, or none of the matches could be evaluated.
var ErrNoCandidateTariffs = errors.New("compare: no offers available")

const daysPerYear = 365

// ReasonUnpriced is the Skipped reason for placeholder tariffs.
const ReasonUnpriced = "no pricing configured"

// Request is one customer's comparison input.
type Request struct {
	Type            tariff.Type         `json:"type"`
	CustomerSegment tariff.Segment      `json:"customerSegment"`
	CurrentBill     float64             `json:"currentBill"`
	Consumption     billing.Consumption `json:"consumption"`
	Regulated       billing.Regulated   `json:"regulated"`
}

// Option is one evaluated candidate.
type Option struct {
	Tariff    tariff.Tariff     `json:"tariff"`
	Breakdown billing.Breakdown `json:"breakdown"`
	Total     float64           `json:"total"`
}

// Skipped is a candidate that could not be evaluated.
type Skipped struct {
	TariffID   string `json:"tariffId"`
	TariffName string `json:"tariffName"`
	Reason     string `json:"reason"`
}

// Recommendation is the cheapest option with the savings it brings over the
// customer's current bill.
type Recommendation struct {
	Tariff        tariff.Tariff     `json:"tariff"`
	Breakdown     billing.Breakdown `json:"breakdown"`
	Total         float64           `json:"total"`
	CurrentBill   float64           `json:"currentBill"`
	MonthlySaving float64           `json:"monthlySaving"`
	AnnualSaving  float64           `json:"annualSaving"`
	SavingPercent float64           `json:"savingPercent"`
	// Options holds every evaluated candidate sorted by total, ties kept
	// in catalog order.
	Options []Option  `json:"options"`
	Skipped []Skipped `json:"skipped,omitempty"`
}

// SkippedError is returned when every candidate failed evaluation.
type SkippedError struct {
	Skipped []Skipped
}

func (e *SkippedError) Error() string {
	reasons := make([]string, 0, len(e.Skipped))
	for _, s := range e.Skipped {
		reasons = append(reasons, s.TariffID+": "+s.Reason)
	}
	return fmt.Sprintf("%s: all %d candidates failed (%s)", ErrNoCandidateTariffs, len(e.Skipped), strings.Join(reasons, "; "))
}

func (e *SkippedError) Is(target error) bool {
	return target == ErrNoCandidateTariffs
}

// Recommend evaluates every tariff matching req's type and segment and
// returns the cheapest. Totals are compared at two decimals and the first
// tariff in catalog order wins a tie. Candidates that fail with a period
// count or tariff error, and unpriced placeholders, are reported in Skipped;
// invalid consumption aborts the whole comparison.
func Recommend(tariffs []tariff.Tariff, req Request) (*Recommendation, error) {
	if err := checkCurrentBill(req.CurrentBill); err != nil {
		return nil, err
	}

	var candidates []tariff.Tariff
	for _, t := range tariffs {
		if t.Matches(req.Type, req.CustomerSegment) {
			candidates = append(candidates, t)
		}
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: type=%s segment=%s", ErrNoCandidateTariffs, req.Type, req.CustomerSegment)
	}

	var (
		options []Option
		skipped []Skipped
	)
	for _, t := range candidates {
		if t.Unpriced {
			skipped = append(skipped, Skipped{TariffID: t.ID, TariffName: t.TariffName, Reason: ReasonUnpriced})
			continue
		}
		b, err := billing.Evaluate(t, req.Consumption, req.Regulated)
		if err != nil {
			if errors.Is(err, billing.ErrInvalidConsumption) {
				return nil, err
			}
			skipped = append(skipped, Skipped{TariffID: t.ID, TariffName: t.TariffName, Reason: err.Error()})
			continue
		}
		options = append(options, Option{Tariff: t.Clone(), Breakdown: b, Total: b.Total})
	}
	if len(options) == 0 {
		return nil, &SkippedError{Skipped: skipped}
	}

	sort.SliceStable(options, func(i, j int) bool {
		return cents(options[i].Total).LessThan(cents(options[j].Total))
	})

	best := options[0]
	rec := &Recommendation{
		Tariff:      best.Tariff.Clone(),
		Breakdown:   best.Breakdown,
		Total:       best.Total,
		CurrentBill: req.CurrentBill,
		Options:     options,
		Skipped:     skipped,
	}
	rec.MonthlySaving, rec.AnnualSaving, rec.SavingPercent = Savings(req.CurrentBill, best.Total, req.Consumption.Days)
	return rec, nil
}

// Savings derives the saving over the billed period, its annualized value
// (scaled by 365/days, zero when days is zero) and the percentage of the
// current bill (zero when the current bill is zero).
func Savings(currentBill, total float64, days int) (period, annual, percent float64) {
	cur := decimal.NewFromFloat(currentBill)
	saving := cur.Sub(decimal.NewFromFloat(total))

	annualDec := decimal.Zero
	if days > 0 {
		annualDec = saving.Mul(decimal.NewFromInt(daysPerYear)).Div(decimal.NewFromInt(int64(days)))
	}
	percentDec := decimal.Zero
	if !cur.IsZero() {
		percentDec = saving.Div(cur).Mul(decimal.NewFromInt(100))
	}
	return round2(saving), round2(annualDec), round2(percentDec)
}

func checkCurrentBill(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return fmt.Errorf("%w: currentBill must be a finite non-negative number, got %v", billing.ErrInvalidConsumption, v)
	}
	return nil
}

func cents(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

func round2(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
