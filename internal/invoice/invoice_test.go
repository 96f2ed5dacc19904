package invoice

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bher20/tariffmanager/internal/tariff"
)

const electricityText = `IBERDROLA CLIENTES S.A.U.
Factura de electricidad
Peaje de acceso: 2.0TD
Periodo de facturación: 01/03/2026 - 31/03/2026 (31 días)
Potencia contratada P1: 4,6 kW
Potencia contratada P2: 3,45 kW
Consumo P1: 120,5 kWh
Consumo P2: 98 kWh
Consumo P3: 150,25 kWh
Excedentes: 20 kWh
TOTAL FACTURA: 1.080,11 €
`

const gasText = `Naturgy Iberia S.A.
Factura de gas natural
Tarifa de acceso: RL.1
Periodo: 28 días
Consumo: 350,40 kWh
Total a pagar: 40,00 €
`

func TestParseText_Electricity(t *testing.T) {
	inv, err := ParseText(electricityText)
	require.NoError(t, err)

	assert.Equal(t, "es-electricity", inv.Layout)
	assert.Equal(t, tariff.TypeElectricity, inv.Type)
	assert.Equal(t, "Iberdrola", inv.CompanyName)
	assert.Equal(t, "2.0", inv.TariffType)
	assert.Equal(t, 1080.11, inv.Total)
	assert.Equal(t, 31, inv.Days)
	assert.Equal(t, []float64{4.6, 3.45}, inv.PowerKW)
	assert.Equal(t, []float64{120.5, 98, 150.25}, inv.EnergyKWh)
	assert.Equal(t, 20.0, inv.SurplusKWh)

	c := inv.Consumption()
	assert.Equal(t, 31, c.Days)
	assert.Equal(t, inv.EnergyKWh, c.EnergyKWh)
	assert.Zero(t, c.GasKWh)
}

func TestParseText_Gas(t *testing.T) {
	inv, err := ParseText(gasText)
	require.NoError(t, err)

	assert.Equal(t, "es-gas", inv.Layout)
	assert.Equal(t, tariff.TypeGas, inv.Type)
	assert.Equal(t, "Naturgy", inv.CompanyName)
	assert.Equal(t, "RL.1", inv.TariffType)
	assert.Equal(t, 40.0, inv.Total)
	assert.Equal(t, 28, inv.Days)
	assert.Equal(t, 350.4, inv.GasKWh)

	c := inv.Consumption()
	assert.Equal(t, 350.4, c.GasKWh)
	assert.Nil(t, c.EnergyKWh)
}

func TestParseElectricityText_InfersTariffType(t *testing.T) {
	text := `Periodo 30 días
Potencia P1: 10 kW
Potencia P2: 10 kW
Potencia P3: 10 kW
Potencia P4: 10 kW
Potencia P5: 10 kW
Potencia P6: 15 kW
Consumo P1: 100 kWh
Consumo P6: 60 kWh
Total a pagar: 512.40`

	inv, err := ParseElectricityText(text)
	require.NoError(t, err)
	assert.Equal(t, "3.0", inv.TariffType)
	assert.Equal(t, []float64{10, 10, 10, 10, 10, 15}, inv.PowerKW)
	assert.Equal(t, []float64{100, 0, 0, 0, 0, 60}, inv.EnergyKWh)
	assert.Equal(t, 512.4, inv.Total)
	assert.Empty(t, inv.CompanyName)
}

func TestParseElectricityText_PeriodOutsideTariff(t *testing.T) {
	text := `Peaje de acceso: 2.0TD (30 días)
Potencia contratada P3: 4 kW
Consumo P1: 100 kWh
Total factura: 50,00`

	_, err := ParseElectricityText(text)
	assert.Error(t, err)
}

func TestParseText_Incomplete(t *testing.T) {
	_, err := ParseText("Factura de gas natural\nConsumo: 10 kWh\n")
	assert.ErrorIs(t, err, ErrIncomplete)

	_, err = ParseText("Factura de gas natural\n30 días\nTotal a pagar: 10,00\n")
	assert.ErrorIs(t, err, ErrIncomplete)

	_, err = ParseElectricityText("Potencia P1: 3 kW\n30 días\nTotal factura: 12,00\n")
	assert.ErrorIs(t, err, ErrIncomplete)
}

func TestParseText_Unrecognized(t *testing.T) {
	_, err := ParseText("hello world")
	assert.ErrorIs(t, err, ErrUnrecognized)
}

func TestParseTextWithLayout(t *testing.T) {
	inv, err := ParseTextWithLayout("es-gas", gasText)
	require.NoError(t, err)
	assert.Equal(t, 350.4, inv.GasKWh)

	_, err = ParseTextWithLayout("fr-gas", gasText)
	assert.Error(t, err)
}

func TestListLayouts(t *testing.T) {
	assert.Equal(t, []string{"es-electricity", "es-gas"}, ListLayouts())
}

func TestRegisterLayout_Duplicate(t *testing.T) {
	assert.Panics(t, func() {
		RegisterLayout(Layout{
			Key:       "es-gas",
			Detect:    func(string) bool { return false },
			ParseText: ParseGasText,
		})
	})
}

func TestParseAmount(t *testing.T) {
	cases := map[string]float64{
		"1.234,56": 1234.56,
		"80,11":    80.11,
		"4.6":      4.6,
		"98":       98,
	}
	for in, want := range cases {
		got, err := parseAmount(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestParsePDF_RejectsNonPDF(t *testing.T) {
	data := []byte("definitely not a pdf")
	_, err := ParsePDF(bytes.NewReader(data), int64(len(data)))
	assert.ErrorIs(t, err, ErrUnreadablePDF)
}
