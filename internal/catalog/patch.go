package catalog

import (
	"fmt"

	"github.com/bher20/tariffmanager/internal/tariff"
)

// Patch is a partial tariff update. Nil fields are left untouched. Type is
// the union discriminant and cannot be patched.
type Patch struct {
	CustomerSegment *tariff.Segment   `json:"customerSegment,omitempty"`
	CompanyName     *string           `json:"companyName,omitempty"`
	TariffName      *string           `json:"tariffName,omitempty"`
	MaintenanceCost *float64          `json:"maintenanceCost,omitempty"`
	Electricity     *ElectricityPatch `json:"electricity,omitempty"`
	Gas             *GasPatch         `json:"gas,omitempty"`
}

type ElectricityPatch struct {
	TariffType   *tariff.ElectricityTariffType `json:"tariffType,omitempty"`
	PowerPrices  []float64                     `json:"powerPrices,omitempty"`
	EnergyPrices []float64                     `json:"energyPrices,omitempty"`
	SurplusPrice *float64                      `json:"surplusPrice,omitempty"`
}

type GasPatch struct {
	TariffType  *tariff.GasTariffType `json:"tariffType,omitempty"`
	FixedPrice  *float64              `json:"fixedPrice,omitempty"`
	EnergyPrice *float64              `json:"energyPrice,omitempty"`
}

// Apply merges p into t. A tariff type switch resizes the price arrays
// before any explicit arrays in the patch are applied. Patching any price
// clears Unpriced.
func (p Patch) Apply(t *tariff.Tariff) error {
	if p.CustomerSegment != nil {
		t.CustomerSegment = *p.CustomerSegment
	}
	if p.CompanyName != nil {
		t.CompanyName = *p.CompanyName
	}
	if p.TariffName != nil {
		t.TariffName = *p.TariffName
	}
	if p.MaintenanceCost != nil {
		v := *p.MaintenanceCost
		t.MaintenanceCost = &v
	}

	switch {
	case p.Electricity != nil && t.Type != tariff.TypeElectricity:
		return fmt.Errorf("%w: electricity patch on %s tariff", tariff.ErrInvalidTariff, t.Type)
	case p.Gas != nil && t.Type != tariff.TypeGas:
		return fmt.Errorf("%w: gas patch on %s tariff", tariff.ErrInvalidTariff, t.Type)
	}

	if e := p.Electricity; e != nil {
		if t.Electricity == nil {
			t.Electricity = &tariff.ElectricityPricing{}
		}
		if e.TariffType != nil && *e.TariffType != t.Electricity.TariffType {
			if err := t.Electricity.SetTariffType(*e.TariffType); err != nil {
				return err
			}
		}
		if e.PowerPrices != nil {
			t.Electricity.PowerPrices = append([]float64(nil), e.PowerPrices...)
		}
		if e.EnergyPrices != nil {
			t.Electricity.EnergyPrices = append([]float64(nil), e.EnergyPrices...)
		}
		if e.SurplusPrice != nil {
			t.Electricity.SurplusPrice = *e.SurplusPrice
		}
		if e.PowerPrices != nil || e.EnergyPrices != nil || e.SurplusPrice != nil {
			t.Unpriced = false
		}
	}

	if g := p.Gas; g != nil {
		if t.Gas == nil {
			t.Gas = &tariff.GasPricing{}
		}
		if g.TariffType != nil {
			t.Gas.TariffType = *g.TariffType
		}
		if g.FixedPrice != nil {
			t.Gas.FixedPrice = *g.FixedPrice
		}
		if g.EnergyPrice != nil {
			t.Gas.EnergyPrice = *g.EnergyPrice
		}
		if g.FixedPrice != nil || g.EnergyPrice != nil {
			t.Unpriced = false
		}
	}
	return nil
}
