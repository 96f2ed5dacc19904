package billing

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/bher20/tariffmanager/internal/tariff"
)

// Evaluate prices one consumption profile against one tariff. Inputs are
// validated before any arithmetic and the tariff itself must be valid.
func Evaluate(t tariff.Tariff, c Consumption, r Regulated) (Breakdown, error) {
	if err := t.Validate(); err != nil {
		return Breakdown{}, fmt.Errorf("billing: tariff %s: %w", t.ID, err)
	}
	if err := validateCommon(c, r); err != nil {
		return Breakdown{}, err
	}

	switch t.Type {
	case tariff.TypeElectricity:
		return evaluateElectricity(t, c, r)
	case tariff.TypeGas:
		return evaluateGas(t, c, r)
	default:
		return Breakdown{}, fmt.Errorf("billing: tariff %s: %w", t.ID, tariff.ErrInvalidTariff)
	}
}

func evaluateElectricity(t tariff.Tariff, c Consumption, r Regulated) (Breakdown, error) {
	e := t.Electricity
	power, energy, _ := tariff.PeriodCounts(e.TariffType)
	if len(c.PowerKW) != power {
		return Breakdown{}, &PeriodCountError{TariffID: t.ID, Field: "power", Expected: power, Actual: len(c.PowerKW)}
	}
	if len(c.EnergyKWh) != energy {
		return Breakdown{}, &PeriodCountError{TariffID: t.ID, Field: "energy", Expected: energy, Actual: len(c.EnergyKWh)}
	}
	for i, v := range c.PowerKW {
		if err := checkInput(fmt.Sprintf("powerKw[%d]", i), v); err != nil {
			return Breakdown{}, err
		}
	}
	for i, v := range c.EnergyKWh {
		if err := checkInput(fmt.Sprintf("energyKwh[%d]", i), v); err != nil {
			return Breakdown{}, err
		}
	}
	if err := checkInput("surplusKwh", c.SurplusKWh); err != nil {
		return Breakdown{}, err
	}

	days := decimal.NewFromInt(int64(c.Days))
	b := Breakdown{TariffID: t.ID, Type: t.Type}

	powerTotal := decimal.Zero
	b.PowerCosts = make([]float64, power)
	for i := range c.PowerKW {
		cost := dec(c.PowerKW[i]).Mul(dec(e.PowerPrices[i])).Mul(days)
		b.PowerCosts[i] = money(cost)
		powerTotal = powerTotal.Add(cost)
	}

	energyTotal := decimal.Zero
	b.EnergyCosts = make([]float64, energy)
	for i := range c.EnergyKWh {
		cost := dec(c.EnergyKWh[i]).Mul(dec(e.EnergyPrices[i]))
		b.EnergyCosts[i] = money(cost)
		energyTotal = energyTotal.Add(cost)
	}

	credit := dec(c.SurplusKWh).Mul(dec(e.SurplusPrice))
	if r.CapSurplusCredit && credit.GreaterThan(energyTotal) {
		credit = energyTotal
	}
	credit = credit.Neg()

	tax := dec(r.ElectricityTaxRate).Mul(powerTotal.Add(energyTotal).Add(credit))
	rental := dec(r.EquipmentRentalPerDay).Mul(days)
	bonus := dec(r.SocialBonusPerDay).Mul(days)
	maintenance := dec(t.Maintenance())

	subtotal := powerTotal.Add(energyTotal).Add(credit).Add(tax).Add(rental).Add(bonus).Add(maintenance)
	vat := subtotal.Mul(dec(r.VATRate))

	b.PowerCost = money(powerTotal)
	b.EnergyCost = money(energyTotal)
	b.SurplusCredit = money(credit)
	b.ElectricityTax = money(tax)
	b.EquipmentRental = money(rental)
	b.SocialBonus = money(bonus)
	b.Maintenance = money(maintenance)
	b.Subtotal = money(subtotal)
	b.VAT = money(vat)
	b.Total = money(subtotal.Add(vat))
	return b, nil
}

func evaluateGas(t tariff.Tariff, c Consumption, r Regulated) (Breakdown, error) {
	g := t.Gas
	if err := checkInput("gasKwh", c.GasKWh); err != nil {
		return Breakdown{}, err
	}

	days := decimal.NewFromInt(int64(c.Days))
	kwh := dec(c.GasKWh)

	fixed := dec(g.FixedPrice).Mul(days)
	energy := kwh.Mul(dec(g.EnergyPrice))
	hydrocarbon := dec(r.HydrocarbonTaxPerKWh).Mul(kwh)
	maintenance := dec(t.Maintenance())

	// Equipment rental is an electricity meter charge and never applies to gas.
	subtotal := fixed.Add(energy).Add(hydrocarbon).Add(maintenance)
	vat := subtotal.Mul(dec(r.VATRate))

	return Breakdown{
		TariffID:       t.ID,
		Type:           t.Type,
		FixedCost:      money(fixed),
		EnergyCost:     money(energy),
		HydrocarbonTax: money(hydrocarbon),
		Maintenance:    money(maintenance),
		Subtotal:       money(subtotal),
		VAT:            money(vat),
		Total:          money(subtotal.Add(vat)),
	}, nil
}

func validateCommon(c Consumption, r Regulated) error {
	if c.Days < 0 {
		return fmt.Errorf("%w: days must not be negative, got %d", ErrInvalidConsumption, c.Days)
	}
	fields := []struct {
		name string
		v    float64
	}{
		{"electricityTaxRate", r.ElectricityTaxRate},
		{"equipmentRentalPerDay", r.EquipmentRentalPerDay},
		{"socialBonusPerDay", r.SocialBonusPerDay},
		{"hydrocarbonTaxPerKwh", r.HydrocarbonTaxPerKWh},
		{"vatRate", r.VATRate},
	}
	for _, f := range fields {
		if err := checkInput(f.name, f.v); err != nil {
			return err
		}
	}
	return nil
}

func checkInput(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return fmt.Errorf("%w: %s must be a finite non-negative number, got %v", ErrInvalidConsumption, field, v)
	}
	return nil
}

func dec(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
