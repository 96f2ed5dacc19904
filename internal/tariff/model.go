package tariff

import (
	"errors"
	"fmt"
	"math"
)

// Type identifies the utility a tariff prices.
type Type string

const (
	TypeElectricity Type = "electricity"
	TypeGas         Type = "gas"
)

// Segment is the customer segment an offer targets.
type Segment string

const (
	SegmentResidential Segment = "residential"
	SegmentBusiness    Segment = "business"
)

// ElectricityTariffType is the access tariff of an electricity offer and
// fixes how many time-of-use periods it prices.
type ElectricityTariffType string

const (
	Electricity20 ElectricityTariffType = "2.0"
	Electricity30 ElectricityTariffType = "3.0"
	Electricity61 ElectricityTariffType = "6.1"
)

// GasTariffType is the consumption band of a gas offer.
type GasTariffType string

const (
	GasRL1 GasTariffType = "RL.1"
	GasRL2 GasTariffType = "RL.2"
	GasRL3 GasTariffType = "RL.3"
)

// ErrInvalidTariff is wrapped by every validation failure.
var ErrInvalidTariff = errors.New("tariff: invalid tariff")

// Tariff is one priced offer from one company. Exactly one of Electricity
// or Gas is set and it must agree with Type.
type Tariff struct {
	ID              string   `json:"id" yaml:"id"`
	Type            Type     `json:"type" yaml:"type"`
	CustomerSegment Segment  `json:"customerSegment" yaml:"customerSegment"`
	CompanyName     string   `json:"companyName" yaml:"companyName"`
	TariffName      string   `json:"tariffName" yaml:"tariffName"`
	MaintenanceCost *float64 `json:"maintenanceCost,omitempty" yaml:"maintenanceCost,omitempty"`
	// Unpriced marks a placeholder whose prices were never configured.
	// Comparisons skip it; setting any price clears it.
	Unpriced bool `json:"unpriced,omitempty" yaml:"unpriced,omitempty"`

	Electricity *ElectricityPricing `json:"electricity,omitempty" yaml:"electricity,omitempty"`
	Gas         *GasPricing         `json:"gas,omitempty" yaml:"gas,omitempty"`
}

// ElectricityPricing holds per-period power and energy prices.
type ElectricityPricing struct {
	TariffType   ElectricityTariffType `json:"tariffType" yaml:"tariffType"`
	PowerPrices  []float64             `json:"powerPrices" yaml:"powerPrices"`
	EnergyPrices []float64             `json:"energyPrices" yaml:"energyPrices"`
	SurplusPrice float64               `json:"surplusPrice" yaml:"surplusPrice"`
}

// GasPricing holds a daily fixed charge and a per-kWh charge.
type GasPricing struct {
	TariffType  GasTariffType `json:"tariffType" yaml:"tariffType"`
	FixedPrice  float64       `json:"fixedPrice" yaml:"fixedPrice"`
	EnergyPrice float64       `json:"energyPrice" yaml:"energyPrice"`
}

// PeriodCounts returns the number of power and energy periods priced by an
// electricity tariff type.
func PeriodCounts(tt ElectricityTariffType) (power, energy int, ok bool) {
	switch tt {
	case Electricity20:
		return 2, 3, true
	case Electricity30, Electricity61:
		return 6, 6, true
	default:
		return 0, 0, false
	}
}

// ValidGasTariffType reports whether tt is a known gas band.
func ValidGasTariffType(tt GasTariffType) bool {
	switch tt {
	case GasRL1, GasRL2, GasRL3:
		return true
	}
	return false
}

// Maintenance returns the flat maintenance fee, zero when unset.
func (t *Tariff) Maintenance() float64 {
	if t.MaintenanceCost == nil {
		return 0
	}
	return *t.MaintenanceCost
}

// Clone returns a deep copy that shares no memory with t.
func (t Tariff) Clone() Tariff {
	out := t
	if t.MaintenanceCost != nil {
		v := *t.MaintenanceCost
		out.MaintenanceCost = &v
	}
	if t.Electricity != nil {
		e := *t.Electricity
		e.PowerPrices = append([]float64(nil), t.Electricity.PowerPrices...)
		e.EnergyPrices = append([]float64(nil), t.Electricity.EnergyPrices...)
		out.Electricity = &e
	}
	if t.Gas != nil {
		g := *t.Gas
		out.Gas = &g
	}
	return out
}

// SetTariffType switches the access tariff and resizes both price arrays to
// the new period counts. Leading values are kept; new slots are zero.
func (e *ElectricityPricing) SetTariffType(tt ElectricityTariffType) error {
	power, energy, ok := PeriodCounts(tt)
	if !ok {
		return fmt.Errorf("%w: unknown electricity tariff type %q", ErrInvalidTariff, tt)
	}
	e.TariffType = tt
	e.PowerPrices = resize(e.PowerPrices, power)
	e.EnergyPrices = resize(e.EnergyPrices, energy)
	return nil
}

func resize(in []float64, n int) []float64 {
	out := make([]float64, n)
	copy(out, in)
	return out
}

// Validate checks enum membership, variant agreement, array lengths and
// that every price is finite and non-negative.
func (t *Tariff) Validate() error {
	switch t.CustomerSegment {
	case SegmentResidential, SegmentBusiness:
	default:
		return fmt.Errorf("%w: unknown customer segment %q", ErrInvalidTariff, t.CustomerSegment)
	}
	if t.MaintenanceCost != nil {
		if err := checkPrice("maintenanceCost", *t.MaintenanceCost); err != nil {
			return err
		}
	}

	switch t.Type {
	case TypeElectricity:
		if t.Electricity == nil || t.Gas != nil {
			return fmt.Errorf("%w: electricity tariff must carry electricity pricing only", ErrInvalidTariff)
		}
		return t.Electricity.validate()
	case TypeGas:
		if t.Gas == nil || t.Electricity != nil {
			return fmt.Errorf("%w: gas tariff must carry gas pricing only", ErrInvalidTariff)
		}
		return t.Gas.validate()
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidTariff, t.Type)
	}
}

func (e *ElectricityPricing) validate() error {
	power, energy, ok := PeriodCounts(e.TariffType)
	if !ok {
		return fmt.Errorf("%w: unknown electricity tariff type %q", ErrInvalidTariff, e.TariffType)
	}
	if len(e.PowerPrices) != power {
		return fmt.Errorf("%w: tariff type %s needs %d power prices, got %d",
			ErrInvalidTariff, e.TariffType, power, len(e.PowerPrices))
	}
	if len(e.EnergyPrices) != energy {
		return fmt.Errorf("%w: tariff type %s needs %d energy prices, got %d",
			ErrInvalidTariff, e.TariffType, energy, len(e.EnergyPrices))
	}
	for i, p := range e.PowerPrices {
		if err := checkPrice(fmt.Sprintf("powerPrices[%d]", i), p); err != nil {
			return err
		}
	}
	for i, p := range e.EnergyPrices {
		if err := checkPrice(fmt.Sprintf("energyPrices[%d]", i), p); err != nil {
			return err
		}
	}
	return checkPrice("surplusPrice", e.SurplusPrice)
}

func (g *GasPricing) validate() error {
	if !ValidGasTariffType(g.TariffType) {
		return fmt.Errorf("%w: unknown gas tariff type %q", ErrInvalidTariff, g.TariffType)
	}
	if err := checkPrice("fixedPrice", g.FixedPrice); err != nil {
		return err
	}
	return checkPrice("energyPrice", g.EnergyPrice)
}

func checkPrice(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return fmt.Errorf("%w: %s must be a finite non-negative number, got %v", ErrInvalidTariff, field, v)
	}
	return nil
}

// Matches reports whether t targets the given utility and segment.
func (t *Tariff) Matches(typ Type, segment Segment) bool {
	return t.Type == typ && t.CustomerSegment == segment
}
