package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bher20/tariffmanager/internal/alerting"
	"github.com/bher20/tariffmanager/internal/backend"
	"github.com/bher20/tariffmanager/internal/catalog"
	"github.com/bher20/tariffmanager/internal/cron"
	"github.com/bher20/tariffmanager/internal/tariff"
)

func newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect and maintain the tariff catalog",
	}
	cmd.AddCommand(newCatalogListCmd(), newCatalogImportCmd(), newCatalogSyncCmd())
	return cmd
}

func newCatalogListCmd() *cobra.Command {
	var typ, segment string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tariffs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			list, err := catalog.NewStore(a.store, a.log).GetAll(ctx)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTYPE\tSEGMENT\tCOMPANY\tTARIFF")
			for _, t := range list {
				if (typ != "" && string(t.Type) != typ) || (segment != "" && string(t.CustomerSegment) != segment) {
					continue
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", t.ID, t.Type, t.CustomerSegment, t.CompanyName, t.TariffName)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&typ, "type", "", "electricity or gas")
	cmd.Flags().StringVar(&segment, "segment", "", "residential or business")
	return cmd
}

func newCatalogImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Add every tariff in a YAML catalog file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := tariff.LoadCatalogFile(args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			a, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			cat := catalog.NewStore(a.store, a.log)
			for i, t := range list {
				created, err := cat.Add(ctx, t)
				if err != nil {
					return fmt.Errorf("entry %d (%s): %w", i, t.TariffName, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "added %s %s\n", created.ID, created.TariffName)
			}
			return nil
		},
	}
}

func newCatalogSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Add presets for backend companies missing from the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			cat := catalog.NewStore(a.store, a.log)
			syncer := cron.NewSyncer(backend.New(a.cfg.Backend, a.log), cat, a.store, a.log)
			if alerter := alerting.New(a.cfg.Alerting, a.log); alerter != nil {
				syncer.WithAlerter(alerter)
			}
			ran, added, err := syncer.RunJob(ctx)
			if err != nil {
				return err
			}
			if !ran {
				fmt.Fprintln(cmd.OutOrStdout(), "another instance holds the sync lock; nothing done")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %d presets\n", added)
			return nil
		},
	}
}
