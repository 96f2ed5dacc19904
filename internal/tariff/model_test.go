package tariff

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func electricity20() Tariff {
	return Tariff{
		ID:              "e1",
		Type:            TypeElectricity,
		CustomerSegment: SegmentResidential,
		CompanyName:     "Iberdrola",
		TariffName:      "Plan Estable",
		Electricity: &ElectricityPricing{
			TariffType:   Electricity20,
			PowerPrices:  []float64{0.11, 0.04},
			EnergyPrices: []float64{0.19, 0.14, 0.10},
			SurplusPrice: 0.05,
		},
	}
}

func TestPeriodCounts(t *testing.T) {
	cases := []struct {
		tt            ElectricityTariffType
		power, energy int
		ok            bool
	}{
		{Electricity20, 2, 3, true},
		{Electricity30, 6, 6, true},
		{Electricity61, 6, 6, true},
		{"9.9", 0, 0, false},
	}
	for _, tc := range cases {
		p, e, ok := PeriodCounts(tc.tt)
		assert.Equal(t, tc.power, p, string(tc.tt))
		assert.Equal(t, tc.energy, e, string(tc.tt))
		assert.Equal(t, tc.ok, ok, string(tc.tt))
	}
}

func TestSetTariffType_RoundTripPreservesLeadingValues(t *testing.T) {
	tr := electricity20()
	e := tr.Electricity

	require.NoError(t, e.SetTariffType(Electricity30))
	assert.Equal(t, []float64{0.11, 0.04, 0, 0, 0, 0}, e.PowerPrices)
	assert.Equal(t, []float64{0.19, 0.14, 0.10, 0, 0, 0}, e.EnergyPrices)
	require.NoError(t, tr.Validate())

	require.NoError(t, e.SetTariffType(Electricity20))
	assert.Equal(t, []float64{0.11, 0.04}, e.PowerPrices)
	assert.Equal(t, []float64{0.19, 0.14, 0.10}, e.EnergyPrices)
	require.NoError(t, tr.Validate())
}

func TestSetTariffType_Unknown(t *testing.T) {
	tr := electricity20()
	err := tr.Electricity.SetTariffType("4.0")
	assert.ErrorIs(t, err, ErrInvalidTariff)
	assert.Equal(t, Electricity20, tr.Electricity.TariffType)
}

func TestValidate(t *testing.T) {
	t.Run("valid electricity", func(t *testing.T) {
		tr := electricity20()
		assert.NoError(t, tr.Validate())
	})

	t.Run("valid gas", func(t *testing.T) {
		tr := Tariff{
			Type:            TypeGas,
			CustomerSegment: SegmentBusiness,
			Gas:             &GasPricing{TariffType: GasRL2, FixedPrice: 0.2, EnergyPrice: 0.08},
		}
		assert.NoError(t, tr.Validate())
	})

	t.Run("wrong power length", func(t *testing.T) {
		tr := electricity20()
		tr.Electricity.PowerPrices = []float64{0.1, 0.1, 0.1}
		assert.ErrorIs(t, tr.Validate(), ErrInvalidTariff)
	})

	t.Run("variant mismatch", func(t *testing.T) {
		tr := electricity20()
		tr.Gas = &GasPricing{TariffType: GasRL1}
		assert.ErrorIs(t, tr.Validate(), ErrInvalidTariff)
	})

	t.Run("missing variant", func(t *testing.T) {
		tr := Tariff{Type: TypeGas, CustomerSegment: SegmentResidential}
		assert.ErrorIs(t, tr.Validate(), ErrInvalidTariff)
	})

	t.Run("negative price", func(t *testing.T) {
		tr := electricity20()
		tr.Electricity.EnergyPrices[1] = -0.01
		assert.ErrorIs(t, tr.Validate(), ErrInvalidTariff)
	})

	t.Run("nan maintenance", func(t *testing.T) {
		tr := electricity20()
		nan := math.NaN()
		tr.MaintenanceCost = &nan
		assert.ErrorIs(t, tr.Validate(), ErrInvalidTariff)
	})

	t.Run("unknown segment", func(t *testing.T) {
		tr := electricity20()
		tr.CustomerSegment = "industrial"
		assert.ErrorIs(t, tr.Validate(), ErrInvalidTariff)
	})

	t.Run("unknown gas band", func(t *testing.T) {
		tr := Tariff{
			Type:            TypeGas,
			CustomerSegment: SegmentResidential,
			Gas:             &GasPricing{TariffType: "RL.9"},
		}
		assert.ErrorIs(t, tr.Validate(), ErrInvalidTariff)
	})
}

func TestClone_IsDeep(t *testing.T) {
	m := 3.5
	orig := electricity20()
	orig.MaintenanceCost = &m

	cp := orig.Clone()
	cp.Electricity.PowerPrices[0] = 99
	cp.Electricity.TariffType = Electricity61
	*cp.MaintenanceCost = 0

	assert.Equal(t, 0.11, orig.Electricity.PowerPrices[0])
	assert.Equal(t, Electricity20, orig.Electricity.TariffType)
	assert.Equal(t, 3.5, orig.Maintenance())
}

func TestMatches(t *testing.T) {
	tr := electricity20()
	assert.True(t, tr.Matches(TypeElectricity, SegmentResidential))
	assert.False(t, tr.Matches(TypeGas, SegmentResidential))
	assert.False(t, tr.Matches(TypeElectricity, SegmentBusiness))
}
