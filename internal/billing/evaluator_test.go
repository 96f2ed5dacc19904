package billing

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bher20/tariffmanager/internal/tariff"
)

func gasTariff() tariff.Tariff {
	return tariff.Tariff{
		ID:              "gas-1",
		Type:            tariff.TypeGas,
		CustomerSegment: tariff.SegmentResidential,
		CompanyName:     "Naturgy",
		TariffName:      "Gas Fijo",
		Gas:             &tariff.GasPricing{TariffType: tariff.GasRL1, FixedPrice: 0.20, EnergyPrice: 0.08},
	}
}

func elecTariff() tariff.Tariff {
	return tariff.Tariff{
		ID:              "elec-1",
		Type:            tariff.TypeElectricity,
		CustomerSegment: tariff.SegmentResidential,
		CompanyName:     "Iberdrola",
		TariffName:      "Plan Estable",
		Electricity: &tariff.ElectricityPricing{
			TariffType:   tariff.Electricity20,
			PowerPrices:  []float64{0.10, 0.05},
			EnergyPrices: []float64{0.20, 0.15, 0.10},
			SurplusPrice: 0.05,
		},
	}
}

func TestEvaluate_GasWithVAT(t *testing.T) {
	b, err := Evaluate(gasTariff(), Consumption{Days: 30, GasKWh: 200}, Regulated{VATRate: 0.21})
	require.NoError(t, err)

	assert.Equal(t, 6.0, b.FixedCost)
	assert.Equal(t, 16.0, b.EnergyCost)
	assert.Equal(t, 22.0, b.Subtotal)
	assert.Equal(t, 4.62, b.VAT)
	assert.Equal(t, 26.62, b.Total)
}

func TestEvaluate_GasRegulatedCharges(t *testing.T) {
	m := 2.0
	tr := gasTariff()
	tr.MaintenanceCost = &m

	b, err := Evaluate(tr, Consumption{Days: 10, GasKWh: 100}, Regulated{
		HydrocarbonTaxPerKWh: 0.00234,
	})
	require.NoError(t, err)

	// 2 fixed + 8 energy + 0.234 tax + 2 maintenance
	assert.Equal(t, 0.23, b.HydrocarbonTax)
	assert.Equal(t, 2.0, b.Maintenance)
	assert.Equal(t, 12.23, b.Total)
}

func TestEvaluate_GasIgnoresEquipmentRental(t *testing.T) {
	c := Consumption{Days: 30, GasKWh: 200}

	plain, err := Evaluate(gasTariff(), c, Regulated{VATRate: 0.21})
	require.NoError(t, err)
	withRental, err := Evaluate(gasTariff(), c, Regulated{VATRate: 0.21, EquipmentRentalPerDay: 0.026666})
	require.NoError(t, err)

	assert.Equal(t, 26.62, withRental.Total)
	assert.Equal(t, 0.0, withRental.EquipmentRental)
	assert.Equal(t, plain, withRental)
}

func TestEvaluate_Electricity(t *testing.T) {
	c := Consumption{
		Days:       30,
		PowerKW:    []float64{4.6, 4.6},
		EnergyKWh:  []float64{100, 80, 120},
		SurplusKWh: 50,
	}
	r := Regulated{
		ElectricityTaxRate:    0.05,
		EquipmentRentalPerDay: 0.02,
		SocialBonusPerDay:     0.01,
		VATRate:               0.21,
	}
	b, err := Evaluate(elecTariff(), c, r)
	require.NoError(t, err)

	// power: 4.6*0.10*30 + 4.6*0.05*30 = 13.8 + 6.9
	assert.Equal(t, []float64{13.8, 6.9}, b.PowerCosts)
	assert.Equal(t, 20.7, b.PowerCost)
	// energy: 20 + 12 + 12
	assert.Equal(t, []float64{20, 12, 12}, b.EnergyCosts)
	assert.Equal(t, 44.0, b.EnergyCost)
	assert.Equal(t, -2.5, b.SurplusCredit)
	// tax: 0.05 * (20.7 + 44 - 2.5) = 3.11
	assert.Equal(t, 3.11, b.ElectricityTax)
	assert.Equal(t, 0.6, b.EquipmentRental)
	assert.Equal(t, 0.3, b.SocialBonus)
	// subtotal: 62.2 + 3.11 + 0.6 + 0.3 = 66.21
	assert.Equal(t, 66.21, b.Subtotal)
	// 66.21 * 1.21 = 80.1141
	assert.Equal(t, 80.11, b.Total)
}

func TestEvaluate_SurplusCreditUncappedByDefault(t *testing.T) {
	c := Consumption{
		Days:       0,
		PowerKW:    []float64{0, 0},
		EnergyKWh:  []float64{10, 0, 0},
		SurplusKWh: 1000,
	}
	b, err := Evaluate(elecTariff(), c, Regulated{})
	require.NoError(t, err)
	assert.Equal(t, 2.0, b.EnergyCost)
	assert.Equal(t, -50.0, b.SurplusCredit)
	assert.Equal(t, -48.0, b.Total)
}

func TestEvaluate_SurplusCreditCappedAtEnergyCost(t *testing.T) {
	c := Consumption{
		Days:       0,
		PowerKW:    []float64{0, 0},
		EnergyKWh:  []float64{10, 0, 0},
		SurplusKWh: 1000,
	}
	b, err := Evaluate(elecTariff(), c, Regulated{CapSurplusCredit: true})
	require.NoError(t, err)
	assert.Equal(t, 2.0, b.EnergyCost)
	assert.Equal(t, -2.0, b.SurplusCredit)
	assert.Equal(t, 0.0, b.Total)
}

func TestEvaluate_ZeroConsumptionYieldsMaintenanceOnly(t *testing.T) {
	m := 5.25
	elec := elecTariff()
	elec.MaintenanceCost = &m
	gas := gasTariff()
	gas.MaintenanceCost = &m

	b, err := Evaluate(elec, Consumption{PowerKW: []float64{0, 0}, EnergyKWh: []float64{0, 0, 0}}, Regulated{})
	require.NoError(t, err)
	assert.Equal(t, 5.25, b.Total)

	b, err = Evaluate(gas, Consumption{}, Regulated{})
	require.NoError(t, err)
	assert.Equal(t, 5.25, b.Total)
}

func TestEvaluate_TotalRoundedFromUnroundedSum(t *testing.T) {
	tr := gasTariff()
	tr.Gas.FixedPrice = 0
	tr.Gas.EnergyPrice = 0.004

	// Three line items of 0.004 each would round to 0.00 individually;
	// the total must come from 0.012.
	m := 0.004
	tr.MaintenanceCost = &m
	b, err := Evaluate(tr, Consumption{Days: 1, GasKWh: 1}, Regulated{HydrocarbonTaxPerKWh: 0.004})
	require.NoError(t, err)
	assert.Equal(t, 0.0, b.EnergyCost)
	assert.Equal(t, 0.0, b.Maintenance)
	assert.Equal(t, 0.01, b.Total)
}

func TestEvaluate_PeriodCountMismatch(t *testing.T) {
	c := Consumption{Days: 30, PowerKW: []float64{1, 1, 1}, EnergyKWh: []float64{1, 1, 1}}
	_, err := Evaluate(elecTariff(), c, Regulated{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidPeriodCount)

	var pce *PeriodCountError
	require.True(t, errors.As(err, &pce))
	assert.Equal(t, "elec-1", pce.TariffID)
	assert.Equal(t, "power", pce.Field)
	assert.Equal(t, 2, pce.Expected)
	assert.Equal(t, 3, pce.Actual)

	c = Consumption{Days: 30, PowerKW: []float64{1, 1}, EnergyKWh: []float64{1, 1, 1, 1, 1, 1}}
	_, err = Evaluate(elecTariff(), c, Regulated{})
	assert.ErrorIs(t, err, ErrInvalidPeriodCount)
}

func TestEvaluate_InvalidConsumption(t *testing.T) {
	cases := map[string]struct {
		c Consumption
		r Regulated
	}{
		"negative days":   {c: Consumption{Days: -1, PowerKW: []float64{0, 0}, EnergyKWh: []float64{0, 0, 0}}},
		"negative power":  {c: Consumption{PowerKW: []float64{-1, 0}, EnergyKWh: []float64{0, 0, 0}}},
		"nan energy":      {c: Consumption{PowerKW: []float64{0, 0}, EnergyKWh: []float64{0, math.NaN(), 0}}},
		"inf surplus":     {c: Consumption{PowerKW: []float64{0, 0}, EnergyKWh: []float64{0, 0, 0}, SurplusKWh: math.Inf(1)}},
		"negative vat":    {c: Consumption{PowerKW: []float64{0, 0}, EnergyKWh: []float64{0, 0, 0}}, r: Regulated{VATRate: -0.21}},
		"negative rental": {c: Consumption{PowerKW: []float64{0, 0}, EnergyKWh: []float64{0, 0, 0}}, r: Regulated{EquipmentRentalPerDay: -1}},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Evaluate(elecTariff(), tc.c, tc.r)
			assert.ErrorIs(t, err, ErrInvalidConsumption)
		})
	}

	_, err := Evaluate(gasTariff(), Consumption{Days: 30, GasKWh: -5}, Regulated{})
	assert.ErrorIs(t, err, ErrInvalidConsumption)
}

func TestEvaluate_InvalidTariff(t *testing.T) {
	tr := elecTariff()
	tr.Electricity.PowerPrices = []float64{0.1}
	_, err := Evaluate(tr, Consumption{PowerKW: []float64{0, 0}, EnergyKWh: []float64{0, 0, 0}}, Regulated{})
	assert.ErrorIs(t, err, tariff.ErrInvalidTariff)
}
