package tariff

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCompanies_EnvOverride(t *testing.T) {
	t.Setenv(companiesEnv, `[{"id":"x","name":"Repsol","type":"gas"}]`)
	list := DefaultCompanies()
	require.Len(t, list, 1)
	assert.Equal(t, "Repsol", list[0].Name)

	t.Setenv(companiesEnv, `not json`)
	assert.Equal(t, defaultCompanies(), DefaultCompanies())
}

func TestPresets(t *testing.T) {
	list := Presets([]Company{
		{Name: "Iberdrola", Type: TypeElectricity},
		{Name: "Nowhere", Type: "water"},
		{Name: "Naturgy", Type: TypeGas},
	})
	require.Len(t, list, 2)

	e := list[0]
	require.NoError(t, e.Validate())
	assert.Equal(t, Electricity20, e.Electricity.TariffType)
	assert.Len(t, e.Electricity.PowerPrices, 2)
	assert.Len(t, e.Electricity.EnergyPrices, 3)
	assert.Equal(t, SegmentResidential, e.CustomerSegment)

	g := list[1]
	require.NoError(t, g.Validate())
	assert.Equal(t, GasRL1, g.Gas.TariffType)
	assert.Equal(t, "Naturgy Base", g.TariffName)

	for _, p := range list {
		assert.True(t, p.Unpriced, p.TariffName)
		assert.True(t, p.Clone().Unpriced)
	}
}

const seedYAML = `
tariffs:
  - type: gas
    customerSegment: residential
    companyName: Naturgy
    tariffName: Gas Fijo
    gas:
      tariffType: RL.1
      fixedPrice: 0.20
      energyPrice: 0.08
  - type: electricity
    customerSegment: business
    companyName: Endesa
    tariffName: Empresa 3.0
    maintenanceCost: 4.5
    electricity:
      tariffType: "3.0"
      powerPrices: [0.1, 0.1, 0.05, 0.05, 0.02, 0.02]
      energyPrices: [0.2, 0.18, 0.15, 0.12, 0.1, 0.09]
      surplusPrice: 0.04
`

func TestLoadCatalogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(seedYAML), 0o644))

	list, err := LoadCatalogFile(path)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Gas Fijo", list[0].TariffName)
	assert.Equal(t, 0.08, list[0].Gas.EnergyPrice)
	assert.Equal(t, 4.5, list[1].Maintenance())
	assert.Len(t, list[1].Electricity.PowerPrices, 6)
}

func TestParseCatalog_RejectsInvalidEntry(t *testing.T) {
	bad := `
tariffs:
  - type: electricity
    customerSegment: residential
    tariffName: Broken
    electricity:
      tariffType: "2.0"
      powerPrices: [0.1]
      energyPrices: [0.2, 0.2, 0.2]
`
	_, err := ParseCatalog([]byte(bad))
	assert.ErrorIs(t, err, ErrInvalidTariff)
}

func TestLoadCatalogFile_Missing(t *testing.T) {
	_, err := LoadCatalogFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
