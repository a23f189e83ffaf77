package commands

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/settleup-dev/settleup/internal/engine"
	"github.com/settleup-dev/settleup/internal/model"
	"github.com/settleup-dev/settleup/internal/rates"
)

func newRatesCommand(a *app) *cobra.Command {
	var currency string
	var save string

	cmd := &cobra.Command{
		Use:   "rates",
		Short: "Fetch and show exchange rates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRates(cmd.Context(), cmd.OutOrStdout(), a, currency, save)
		},
	}

	cmd.Flags().StringVar(&currency, "currency", "", "base currency (default: reporting currency)")
	cmd.Flags().StringVar(&save, "save", "", "write the table to a YAML file for offline use")

	return cmd
}

func runRates(ctx context.Context, out io.Writer, a *app, currency, save string) error {
	base := a.reporting(currency)
	table, err := a.fetcher().Fetch(ctx, base)
	if err != nil {
		return err
	}
	if table, err = rates.Rebase(table, base); err != nil {
		return err
	}

	if save != "" {
		if err := rates.SaveFile(a.path(save), table); err != nil {
			return err
		}
		fmt.Fprintf(out, "Saved %d rates to %s\n", len(table.Rates), save)
		return nil
	}

	fmt.Fprintf(out, "Rates for 1 %s (fetched %s)\n", table.Base, table.FetchedAt.Format(timeLayout))
	codes := make([]string, 0, len(table.Rates))
	for code := range table.Rates {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	for _, code := range codes {
		fmt.Fprintf(out, "%s %s\n", code, table.Rates[code].String())
	}
	return nil
}

func (a *app) fetcher() *rates.Fetcher {
	return rates.NewFetcher(a.cfg.Currency.RatesURL, a.cfg.Currency.Timeout, a.logger)
}

// reporting returns the currency named by flag, or the configured one.
func (a *app) reporting(flag string) string {
	cur := strings.ToUpper(strings.TrimSpace(flag))
	if cur == "" {
		cur = a.cfg.Currency.Reporting
	}
	if cur == "" {
		cur = engine.DefaultCurrency
	}
	return cur
}

// loadRates returns the table to convert into reporting with, or nil when
// no rate source is usable. Failures are logged and the run continues
// without conversion.
func (a *app) loadRates(ctx context.Context, reporting, ratesFile string, offline bool) *model.RateTable {
	if ratesFile == "" {
		ratesFile = a.cfg.Currency.RatesFile
	}

	var table *model.RateTable
	var err error
	switch {
	case ratesFile != "":
		table, err = rates.LoadFile(a.path(ratesFile))
	case offline:
		a.logger.DebugContext(ctx, "offline, no rate table")
		return nil
	default:
		table, err = a.fetcher().Fetch(ctx, reporting)
	}
	if err == nil {
		table, err = rates.Rebase(table, reporting)
	}
	if err != nil {
		a.logger.WarnContext(ctx, "exchange rates unavailable", "error", err)
		return nil
	}
	return table
}
