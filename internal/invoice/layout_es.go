package invoice

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/bher20/tariffmanager/internal/tariff"
)

func init() {
	RegisterLayout(Layout{
		Key:       "es-electricity",
		Name:      "Spanish electricity invoice",
		Detect:    detectElectricity,
		ParseText: ParseElectricityText,
	})
	RegisterLayout(Layout{
		Key:       "es-gas",
		Name:      "Spanish natural gas invoice",
		Detect:    detectGas,
		ParseText: ParseGasText,
	})
}

const number = `([0-9][0-9.,]*[0-9]|[0-9])`

var (
	totalRe   = regexp.MustCompile(`(?i)total\s+(?:importe\s+)?(?:factura|a\s+pagar)\s*:?\s*` + number)
	daysRe    = regexp.MustCompile(`(?i)(\d+)\s*d[ií]as`)
	periodRe  = regexp.MustCompile(`(?i)\bP[1-6]\b`)
	kwhRe     = regexp.MustCompile(`(?i)\bkWh\b`)
	peajeRe   = regexp.MustCompile(`(?i)peaje[^\n]*?(2\.0|3\.0|6\.1)`)
	powerRe   = regexp.MustCompile(`(?i)potencia\s+(?:contratada\s+)?P([1-6])\s*:?\s*` + number + `\s*kW\b`)
	energyRe  = regexp.MustCompile(`(?i)consumo\s+P([1-6])\s*:?\s*` + number + `\s*kWh`)
	surplusRe = regexp.MustCompile(`(?i)excedentes?\s*:?\s*` + number + `\s*kWh`)

	gasRe        = regexp.MustCompile(`(?i)\bgas\b`)
	gasTariffRe  = regexp.MustCompile(`(?i)\bRL\.?([123])\b`)
	gasConsumoRe = regexp.MustCompile(`(?i)consumo(?:\s+de\s+gas)?\s*:?\s*` + number + `\s*kWh`)
)

func detectElectricity(text string) bool {
	return periodRe.MatchString(text) && kwhRe.MatchString(text)
}

func detectGas(text string) bool {
	return gasRe.MatchString(text) && !periodRe.MatchString(text)
}

func findCompany(text string) string {
	lower := strings.ToLower(text)
	for _, c := range tariff.DefaultCompanies() {
		if c.Name != "" && strings.Contains(lower, strings.ToLower(c.Name)) {
			return c.Name
		}
	}
	return ""
}

// parseHeader reads the fields every layout shares.
func parseHeader(inv *Invoice, text string) error {
	m := totalRe.FindStringSubmatch(text)
	if m == nil {
		return fmt.Errorf("%w: total", ErrIncomplete)
	}
	total, err := parseAmount(m[1])
	if err != nil {
		return fmt.Errorf("invoice: parse total %q: %w", m[1], err)
	}
	inv.Total = total

	m = daysRe.FindStringSubmatch(text)
	if m == nil {
		return fmt.Errorf("%w: billing days", ErrIncomplete)
	}
	days, err := strconv.Atoi(m[1])
	if err != nil || days <= 0 {
		return fmt.Errorf("invoice: invalid billing days %q", m[1])
	}
	inv.Days = days
	inv.CompanyName = findCompany(text)
	return nil
}

// collectPeriods maps "P<n> value" matches to a dense slice of size n.
func collectPeriods(re *regexp.Regexp, text string, size int) ([]float64, int, error) {
	out := make([]float64, size)
	found := 0
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		idx, _ := strconv.Atoi(m[1])
		if idx > size {
			return nil, 0, fmt.Errorf("invoice: period P%d outside a %d-period tariff", idx, size)
		}
		v, err := parseAmount(m[2])
		if err != nil {
			return nil, 0, fmt.Errorf("invoice: parse P%d value %q: %w", idx, m[2], err)
		}
		out[idx-1] = v
		found++
	}
	return out, found, nil
}

func maxPeriod(re *regexp.Regexp, text string) int {
	hi := 0
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		if idx, _ := strconv.Atoi(m[1]); idx > hi {
			hi = idx
		}
	}
	return hi
}

// ParseElectricityText parses a Spanish electricity invoice. Without an
// explicit access tariff, two power periods and at most three energy
// periods mean 2.0; anything wider is read as 3.0.
func ParseElectricityText(text string) (*Invoice, error) {
	inv := &Invoice{Layout: "es-electricity", Type: tariff.TypeElectricity}
	if err := parseHeader(inv, text); err != nil {
		return nil, err
	}

	tt := tariff.Electricity30
	if m := peajeRe.FindStringSubmatch(text); m != nil {
		tt = tariff.ElectricityTariffType(m[1])
	} else if maxPeriod(powerRe, text) <= 2 && maxPeriod(energyRe, text) <= 3 {
		tt = tariff.Electricity20
	}
	inv.TariffType = string(tt)
	powerN, energyN, _ := tariff.PeriodCounts(tt)

	power, _, err := collectPeriods(powerRe, text, powerN)
	if err != nil {
		return nil, err
	}
	energy, found, err := collectPeriods(energyRe, text, energyN)
	if err != nil {
		return nil, err
	}
	if found == 0 {
		return nil, fmt.Errorf("%w: energy consumption per period", ErrIncomplete)
	}
	inv.PowerKW = power
	inv.EnergyKWh = energy

	if m := surplusRe.FindStringSubmatch(text); m != nil {
		v, err := parseAmount(m[1])
		if err != nil {
			return nil, fmt.Errorf("invoice: parse surplus %q: %w", m[1], err)
		}
		inv.SurplusKWh = v
	}
	return inv, nil
}

// ParseGasText parses a Spanish natural gas invoice.
func ParseGasText(text string) (*Invoice, error) {
	inv := &Invoice{Layout: "es-gas", Type: tariff.TypeGas}
	if err := parseHeader(inv, text); err != nil {
		return nil, err
	}
	if m := gasTariffRe.FindStringSubmatch(text); m != nil {
		inv.TariffType = "RL." + m[1]
	}

	m := gasConsumoRe.FindStringSubmatch(text)
	if m == nil {
		return nil, fmt.Errorf("%w: gas consumption", ErrIncomplete)
	}
	v, err := parseAmount(m[1])
	if err != nil {
		return nil, fmt.Errorf("invoice: parse gas consumption %q: %w", m[1], err)
	}
	inv.GasKWh = v
	return inv, nil
}
