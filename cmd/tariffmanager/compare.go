package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bher20/tariffmanager/internal/catalog"
	"github.com/bher20/tariffmanager/internal/compare"
	"github.com/bher20/tariffmanager/internal/export"
	"github.com/bher20/tariffmanager/internal/invoice"
	"github.com/bher20/tariffmanager/internal/tariff"
)

type compareOptions struct {
	requestFile string
	invoiceFile string
	segment     string
	client      string
	pdfOut      string
	xlsxOut     string
	save        bool
}

func newCompareCmd() *cobra.Command {
	var opts compareOptions

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare a customer's usage against the catalog",
		Long: "Reads a comparison request (JSON) or a current invoice (PDF or text), " +
			"prints the recommendation as JSON and optionally writes a PDF or XLSX proposal.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (opts.requestFile == "") == (opts.invoiceFile == "") {
				return fmt.Errorf("exactly one of --request or --invoice is required")
			}
			return runCompare(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.requestFile, "request", "r", "", "comparison request JSON file")
	cmd.Flags().StringVarP(&opts.invoiceFile, "invoice", "i", "", "current invoice, .pdf or extracted .txt")
	cmd.Flags().StringVar(&opts.segment, "segment", string(tariff.SegmentResidential), "customer segment used with --invoice")
	cmd.Flags().StringVar(&opts.client, "client", "", "client name printed on the proposal")
	cmd.Flags().StringVar(&opts.pdfOut, "pdf", "", "write a PDF proposal to this path")
	cmd.Flags().StringVar(&opts.xlsxOut, "xlsx", "", "write an XLSX workbook to this path")
	cmd.Flags().BoolVar(&opts.save, "save", false, "store the comparison")

	return cmd
}

func runCompare(cmd *cobra.Command, opts compareOptions) error {
	ctx := cmd.Context()
	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	cat := catalog.NewStore(a.store, a.log)
	if err := seedCatalog(ctx, cat, nil, a.cfg.Catalog.SeedFile, false, a.log); err != nil {
		return err
	}
	svc := compare.NewServiceWithStorage(cat, a.store, a.log)

	req := compare.Request{Regulated: a.cfg.Regulated}
	if opts.requestFile != "" {
		data, err := os.ReadFile(opts.requestFile)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(data, &req); err != nil {
			return fmt.Errorf("parse %s: %w", opts.requestFile, err)
		}
	} else {
		inv, err := readInvoiceFile(opts.invoiceFile)
		if err != nil {
			return err
		}
		a.log.Info("invoice parsed",
			zap.String("layout", inv.Layout),
			zap.String("company", inv.CompanyName),
			zap.Float64("total", inv.Total),
		)
		req.Type = inv.Type
		req.CustomerSegment = tariff.Segment(opts.segment)
		req.CurrentBill = inv.Total
		req.Consumption = inv.Consumption()
	}

	client := compare.Client{Name: opts.client}
	var saved *compare.Saved
	if opts.save {
		saved, err = svc.Save(ctx, client, req)
		if err != nil {
			return err
		}
	} else {
		rec, err := svc.Evaluate(ctx, req)
		if err != nil {
			return err
		}
		saved = &compare.Saved{
			ID:             time.Now().UTC().Format("20060102-150405"),
			Client:         client,
			Request:        req,
			Recommendation: rec,
			CreatedAt:      time.Now().UTC(),
		}
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(saved); err != nil {
		return err
	}

	if opts.pdfOut != "" {
		doc, err := export.BuildComparisonPDF(saved)
		if err != nil {
			return err
		}
		if err := export.WriteFile(opts.pdfOut, doc); err != nil {
			return err
		}
		a.log.Info("proposal written", zap.String("path", opts.pdfOut))
	}
	if opts.xlsxOut != "" {
		doc, err := export.BuildComparisonXLSX(saved)
		if err != nil {
			return err
		}
		if err := export.WriteFile(opts.xlsxOut, doc); err != nil {
			return err
		}
		a.log.Info("workbook written", zap.String("path", opts.xlsxOut))
	}
	return nil
}

func readInvoiceFile(path string) (*invoice.Invoice, error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return invoice.ParsePDFFile(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return invoice.ParseText(string(data))
}
