package tariff

import (
	"encoding/json"
	"os"
	"strings"
)

// Company is the subset of a backend company record needed to build
// default tariff presets.
type Company struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type Type   `json:"type"`
}

const companiesEnv = "TARIFFMANAGER_COMPANIES_JSON"

func defaultCompanies() []Company {
	return []Company{
		{ID: "iberdrola", Name: "Iberdrola", Type: TypeElectricity},
		{ID: "endesa", Name: "Endesa", Type: TypeElectricity},
		{ID: "naturgy", Name: "Naturgy", Type: TypeGas},
	}
}

// DefaultCompanies returns the fallback company list used when the backend
// is unreachable. TARIFFMANAGER_COMPANIES_JSON overrides the built-in list.
func DefaultCompanies() []Company {
	raw := os.Getenv(companiesEnv)
	if raw == "" {
		return defaultCompanies()
	}
	var out []Company
	if err := json.Unmarshal([]byte(raw), &out); err != nil || len(out) == 0 {
		return defaultCompanies()
	}
	return out
}

// Preset builds a zero-priced residential tariff for a company so that it
// shows up in the catalog before anyone configures real prices. The preset
// is marked Unpriced. Companies with an unknown type yield ok=false.
func Preset(c Company) (Tariff, bool) {
	t := Tariff{
		Type:            c.Type,
		CustomerSegment: SegmentResidential,
		CompanyName:     c.Name,
		TariffName:      strings.TrimSpace(c.Name + " Base"),
		Unpriced:        true,
	}
	switch c.Type {
	case TypeElectricity:
		power, energy, _ := PeriodCounts(Electricity20)
		t.Electricity = &ElectricityPricing{
			TariffType:   Electricity20,
			PowerPrices:  make([]float64, power),
			EnergyPrices: make([]float64, energy),
		}
	case TypeGas:
		t.Gas = &GasPricing{TariffType: GasRL1}
	default:
		return Tariff{}, false
	}
	return t, true
}

// Presets maps every company with a known type to its default preset,
// keeping input order.
func Presets(companies []Company) []Tariff {
	out := make([]Tariff, 0, len(companies))
	for _, c := range companies {
		if t, ok := Preset(c); ok {
			out = append(out, t)
		}
	}
	return out
}
