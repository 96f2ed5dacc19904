// Package export renders saved comparisons as client-facing documents.
package export

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/bher20/tariffmanager/internal/compare"
)

type rgb struct{ r, g, b int }

var (
	defaultPrimary   = rgb{0x1f, 0x4e, 0x79}
	defaultSecondary = rgb{0xe8, 0xf0, 0xf8}
)

// parseHexColor reads "#rrggbb", "rrggbb" or "#rgb" and falls back to def.
func parseHexColor(s string, def rgb) rgb {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return def
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return def
	}
	return rgb{int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)}
}

func tariffLabel(o compare.Option) string {
	return o.Tariff.CompanyName + " - " + o.Tariff.TariffName
}

// BuildComparisonPDF renders a one-page proposal for a saved comparison in
// the client's brand colors.
func BuildComparisonPDF(s *compare.Saved) ([]byte, error) {
	if s == nil || s.Recommendation == nil {
		return nil, fmt.Errorf("export: comparison has no recommendation")
	}
	rec := s.Recommendation
	primary := parseHexColor(s.Client.PrimaryColor, defaultPrimary)
	secondary := parseHexColor(s.Client.SecondaryColor, defaultSecondary)

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr("Tariff comparison"), false)
	pdf.AddPage()

	pdf.SetFillColor(primary.r, primary.g, primary.b)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 14, tr("Tariff comparison for "+s.Client.Name), "", 1, "L", true, 0, "")
	pdf.Ln(4)

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Arial", "", 10)
	lines := []string{
		fmt.Sprintf("Date: %s", s.CreatedAt.Format("02/01/2006")),
		fmt.Sprintf("Supply: %s (%s)", s.Request.Type, s.Request.CustomerSegment),
		fmt.Sprintf("Billing days: %d", s.Request.Consumption.Days),
		fmt.Sprintf("Current bill: %.2f €", rec.CurrentBill),
	}
	for _, l := range lines {
		pdf.Cell(0, 6, tr(l))
		pdf.Ln(5)
	}
	pdf.Ln(4)

	pdf.SetFillColor(secondary.r, secondary.g, secondary.b)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, tr("Recommended: "+rec.Tariff.CompanyName+" - "+rec.Tariff.TariffName), "", 1, "L", true, 0, "")
	pdf.SetFont("Arial", "", 10)
	summary := []string{
		fmt.Sprintf("New bill: %.2f €", rec.Total),
		fmt.Sprintf("Saving this period: %.2f € (%.2f%%)", rec.MonthlySaving, rec.SavingPercent),
		fmt.Sprintf("Estimated yearly saving: %.2f €", rec.AnnualSaving),
	}
	for _, l := range summary {
		pdf.CellFormat(0, 6, tr(l), "", 1, "L", true, 0, "")
	}
	pdf.Ln(6)

	pdf.SetFillColor(primary.r, primary.g, primary.b)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(12, 7, "#", "1", 0, "C", true, 0, "")
	pdf.CellFormat(110, 7, tr("Tariff"), "1", 0, "C", true, 0, "")
	pdf.CellFormat(34, 7, tr("Total"), "1", 0, "C", true, 0, "")
	pdf.CellFormat(34, 7, tr("Saving"), "1", 0, "C", true, 0, "")
	pdf.Ln(-1)

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Arial", "", 10)
	for i, o := range rec.Options {
		pdf.CellFormat(12, 6, strconv.Itoa(i+1), "1", 0, "C", false, 0, "")
		pdf.CellFormat(110, 6, tr(tariffLabel(o)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(34, 6, tr(fmt.Sprintf("%.2f €", o.Total)), "1", 0, "R", false, 0, "")
		saving, _, _ := compare.Savings(rec.CurrentBill, o.Total, s.Request.Consumption.Days)
		pdf.CellFormat(34, 6, tr(fmt.Sprintf("%.2f €", saving)), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
