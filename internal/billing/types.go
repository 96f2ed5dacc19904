package billing

import "github.com/bher20/tariffmanager/internal/tariff"

// Consumption is one customer's usage over a billing period. Electricity
// evaluations read PowerKW, EnergyKWh and SurplusKWh; gas reads GasKWh.
type Consumption struct {
	Days       int       `json:"days" yaml:"days"`
	PowerKW    []float64 `json:"powerKw,omitempty" yaml:"powerKw,omitempty"`
	EnergyKWh  []float64 `json:"energyKwh,omitempty" yaml:"energyKwh,omitempty"`
	SurplusKWh float64   `json:"surplusKwh,omitempty" yaml:"surplusKwh,omitempty"`
	GasKWh     float64   `json:"gasKwh,omitempty" yaml:"gasKwh,omitempty"`
}

// Regulated holds the jurisdiction-supplied charges applied on top of a
// tariff's own prices. Rates are fractions, so 0.21 means 21%.
// EquipmentRentalPerDay and SocialBonusPerDay are electricity charges.
type Regulated struct {
	ElectricityTaxRate    float64 `json:"electricityTaxRate" yaml:"electricityTaxRate" mapstructure:"electricity_tax_rate"`
	EquipmentRentalPerDay float64 `json:"equipmentRentalPerDay" yaml:"equipmentRentalPerDay" mapstructure:"equipment_rental_per_day"`
	SocialBonusPerDay     float64 `json:"socialBonusPerDay" yaml:"socialBonusPerDay" mapstructure:"social_bonus_per_day"`
	HydrocarbonTaxPerKWh  float64 `json:"hydrocarbonTaxPerKwh" yaml:"hydrocarbonTaxPerKwh" mapstructure:"hydrocarbon_tax_per_kwh"`
	VATRate               float64 `json:"vatRate" yaml:"vatRate" mapstructure:"vat_rate"`
	// CapSurplusCredit limits the surplus credit to the energy term of the
	// same bill. Off by default, so the full surplus is credited.
	CapSurplusCredit bool `json:"capSurplusCredit,omitempty" yaml:"capSurplusCredit,omitempty" mapstructure:"cap_surplus_credit"`
}

// Breakdown is the itemized bill for one tariff. Every amount is rounded to
// two decimals for display; Total is rounded from the unrounded sum.
type Breakdown struct {
	TariffID        string      `json:"tariffId"`
	Type            tariff.Type `json:"type"`
	PowerCosts      []float64   `json:"powerCosts,omitempty"`
	EnergyCosts     []float64   `json:"energyCosts,omitempty"`
	PowerCost       float64     `json:"powerCost"`
	FixedCost       float64     `json:"fixedCost"`
	EnergyCost      float64     `json:"energyCost"`
	SurplusCredit   float64     `json:"surplusCredit"`
	SocialBonus     float64     `json:"socialBonus"`
	EquipmentRental float64     `json:"equipmentRental"`
	Maintenance     float64     `json:"maintenance"`
	ElectricityTax  float64     `json:"electricityTax"`
	HydrocarbonTax  float64     `json:"hydrocarbonTax"`
	Subtotal        float64     `json:"subtotal"`
	VAT             float64     `json:"vat"`
	Total           float64     `json:"total"`
}
