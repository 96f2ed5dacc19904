package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/bher20/tariffmanager/internal/compare"
)

const (
	summarySheet = "summary"
	optionsSheet = "options"
	skippedSheet = "skipped"
)

// BuildComparisonXLSX renders a workbook with the summary, every evaluated
// option with its breakdown, and the skipped tariffs.
func BuildComparisonXLSX(s *compare.Saved) ([]byte, error) {
	if s == nil || s.Recommendation == nil {
		return nil, fmt.Errorf("export: comparison has no recommendation")
	}
	rec := s.Recommendation

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(optionsSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(skippedSheet); err != nil {
		return nil, err
	}

	summary := [][]any{
		{"Tariff comparison"},
		{},
		{"Client", s.Client.Name},
		{"Email", s.Client.Email},
		{"Date", s.CreatedAt.Format("2006-01-02")},
		{"Type", string(s.Request.Type)},
		{"Segment", string(s.Request.CustomerSegment)},
		{"Billing days", s.Request.Consumption.Days},
		{"Current bill", rec.CurrentBill},
		{"Recommended company", rec.Tariff.CompanyName},
		{"Recommended tariff", rec.Tariff.TariffName},
		{"New bill", rec.Total},
		{"Saving", rec.MonthlySaving},
		{"Annual saving", rec.AnnualSaving},
		{"Saving %", rec.SavingPercent},
	}
	for i, row := range summary {
		if len(row) == 0 {
			continue
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return nil, err
		}
	}

	header := []any{
		"Rank", "Tariff ID", "Company", "Tariff", "Power", "Fixed", "Energy", "Surplus credit",
		"Social bonus", "Equipment rental", "Maintenance", "Electricity tax", "Hydrocarbon tax",
		"Subtotal", "VAT", "Total",
	}
	if err := f.SetSheetRow(optionsSheet, "A1", &header); err != nil {
		return nil, err
	}
	for i, o := range rec.Options {
		b := o.Breakdown
		row := []any{
			i + 1, o.Tariff.ID, o.Tariff.CompanyName, o.Tariff.TariffName,
			b.PowerCost, b.FixedCost, b.EnergyCost, b.SurplusCredit,
			b.SocialBonus, b.EquipmentRental, b.Maintenance, b.ElectricityTax, b.HydrocarbonTax,
			b.Subtotal, b.VAT, b.Total,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(optionsSheet, cell, &row); err != nil {
			return nil, err
		}
	}

	_ = f.SetCellValue(skippedSheet, "A1", "Tariff ID")
	_ = f.SetCellValue(skippedSheet, "B1", "Tariff")
	_ = f.SetCellValue(skippedSheet, "C1", "Reason")
	for i, sk := range rec.Skipped {
		row := i + 2
		_ = f.SetCellValue(skippedSheet, fmt.Sprintf("A%d", row), sk.TariffID)
		_ = f.SetCellValue(skippedSheet, fmt.Sprintf("B%d", row), sk.TariffName)
		_ = f.SetCellValue(skippedSheet, fmt.Sprintf("C%d", row), sk.Reason)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
