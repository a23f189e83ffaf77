package commands

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/settleup-dev/settleup/internal/engine"
	"github.com/settleup-dev/settleup/internal/feed"
	"github.com/settleup-dev/settleup/internal/model"
	"github.com/settleup-dev/settleup/internal/report"
	"github.com/settleup-dev/settleup/internal/runlog"
)

const timeLayout = "2006-01-02 15:04:05"

type settleOptions struct {
	ratesFile   string
	offline     bool
	currency    string
	sheet       string
	readRange   string
	warningsLog string
	noCSV       bool
	jobs        int
}

// source is one expense sheet to settle.
type source struct {
	name   string // report title and output file base
	outDir string
	rows   func(ctx context.Context) ([]model.RawRow, error)
}

// outcome is what settling one source produced.
type outcome struct {
	name     string
	report   []byte
	warnings []model.Warning
	err      error // unreadable sheet or engine.ErrNoData; other errors abort the run
}

func newSettleCommand(a *app) *cobra.Command {
	var opts settleOptions

	cmd := &cobra.Command{
		Use:   "settle [files...]",
		Short: "Settle expense sheets and write reports",
		Long: "Settle each expense sheet, print its report and write <sheet>_report.txt\n" +
			"and <sheet>_transfers.csv. Without arguments every .csv in --dir is settled.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSettle(cmd.Context(), cmd.OutOrStdout(), a, opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.ratesFile, "rates-file", "", "YAML rate table to use instead of fetching")
	cmd.Flags().BoolVar(&opts.offline, "offline", false, "do not fetch exchange rates")
	cmd.Flags().StringVar(&opts.currency, "currency", "", "reporting currency (default from config)")
	cmd.Flags().StringVar(&opts.sheet, "sheet", "", "Google Sheets spreadsheet ID to settle")
	cmd.Flags().StringVar(&opts.readRange, "range", feed.DefaultRange, "range to read with --sheet")
	cmd.Flags().StringVar(&opts.warningsLog, "warnings-log", runlog.DefaultFile, "CSV file collecting warnings from every run")
	cmd.Flags().BoolVar(&opts.noCSV, "no-csv", false, "do not write <sheet>_transfers.csv")
	cmd.Flags().IntVar(&opts.jobs, "jobs", 4, "sheets settled in parallel")

	return cmd
}

func runSettle(ctx context.Context, out io.Writer, a *app, opts settleOptions, args []string) error {
	reporting := a.reporting(opts.currency)

	sources, err := a.sources(ctx, opts, args)
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		return fmt.Errorf("no expense sheets found in %s", a.dir)
	}

	table := a.loadRates(ctx, reporting, opts.ratesFile, opts.offline)
	writeCSV := a.cfg.Report.WriteCSV && !opts.noCSV
	now := time.Now()

	outcomes := make([]outcome, len(sources))
	g, gctx := errgroup.WithContext(ctx)
	if opts.jobs > 0 {
		g.SetLimit(opts.jobs)
	}
	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			o, err := a.settleOne(gctx, src, table, reporting, writeCSV, now)
			if err != nil {
				return fmt.Errorf("%s: %w", src.name, err)
			}
			outcomes[i] = o
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	var entries []runlog.Entry
	settled := 0
	for _, o := range outcomes {
		if o.err != nil {
			fmt.Fprintf(out, "%s: %v\n", o.name, o.err)
		} else {
			settled++
			if _, err := out.Write(o.report); err != nil {
				return err
			}
		}
		entries = append(entries, runlog.FromWarnings(now, o.name, o.warnings)...)
	}

	if opts.warningsLog != "" {
		if err := runlog.Append(a.path(opts.warningsLog), entries); err != nil {
			a.logger.WarnContext(ctx, "failed to write warnings log", "error", err)
		}
	}

	if settled == 0 {
		return errors.New("no sheet could be settled")
	}
	return nil
}

func (a *app) settleOne(ctx context.Context, src source, table *model.RateTable, reporting string, writeCSV bool, now time.Time) (outcome, error) {
	logger := a.logger.With("sheet", src.name)

	o := outcome{name: src.name}
	rows, err := src.rows(ctx)
	if err != nil {
		o.err = err
		return o, nil
	}

	res, err := engine.Run(engine.Input{
		Rows:        rows,
		Rates:       table,
		Reporting:   reporting,
		Placeholder: a.cfg.Report.DescriptionPlaceholder,
	})
	o.warnings = res.Warnings
	if errors.Is(err, engine.ErrNoData) {
		o.err = err
		return o, nil
	}
	if err != nil {
		return outcome{}, err
	}

	for _, ce := range engine.Check(res) {
		logger.ErrorContext(ctx, "consistency check failed", "error", ce.Error())
	}

	var buf bytes.Buffer
	if err := report.WriteText(&buf, src.name, now, res); err != nil {
		return outcome{}, fmt.Errorf("rendering report: %w", err)
	}
	if err := os.MkdirAll(src.outDir, 0o755); err != nil {
		return outcome{}, fmt.Errorf("creating output dir: %w", err)
	}
	reportPath := filepath.Join(src.outDir, src.name+"_report.txt")
	if err := os.WriteFile(reportPath, buf.Bytes(), 0o644); err != nil {
		return outcome{}, fmt.Errorf("writing report: %w", err)
	}

	if writeCSV {
		if err := writeTransfers(filepath.Join(src.outDir, src.name+"_transfers.csv"), res); err != nil {
			return outcome{}, err
		}
	}

	logger.InfoContext(ctx, "settled",
		"expenses", len(res.Expenses),
		"transfers", len(res.Transfers),
		"warnings", len(res.Warnings),
		"report", reportPath)
	o.report = buf.Bytes()
	return o, nil
}

func writeTransfers(path string, res *engine.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating transfers CSV: %w", err)
	}
	if err := report.WriteTransfersCSV(f, res.Transfers, res.Reporting); err != nil {
		f.Close()
		return fmt.Errorf("writing transfers CSV: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing transfers CSV: %w", err)
	}
	return nil
}

// sources resolves what to settle: a Google Sheet, the given files, or every
// sheet found in the group directory.
func (a *app) sources(ctx context.Context, opts settleOptions, args []string) ([]source, error) {
	outDir := a.path(a.cfg.Report.OutputDir)

	if opts.sheet != "" {
		if len(args) > 0 {
			return nil, errors.New("--sheet cannot be combined with files")
		}
		s, err := feed.NewSheetsSource(ctx, opts.sheet, opts.readRange)
		if err != nil {
			return nil, err
		}
		if outDir == "" {
			outDir = a.dir
		}
		return []source{{name: s.Name(), outDir: outDir, rows: s.Rows}}, nil
	}

	var paths []string
	if len(args) == 0 {
		files, err := feed.Scan(a.dir)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			paths = append(paths, f.Path)
		}
	}
	seen := make(map[string]bool)
	for _, arg := range args {
		p := a.path(arg)
		if !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}

	reg := feed.DefaultRegistry()
	out := make([]source, 0, len(paths))
	written := make(map[string]string) // output base -> input path
	for _, p := range paths {
		p := p
		dir := outDir
		if dir == "" {
			dir = filepath.Dir(p)
		}
		name := strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
		base := filepath.Join(dir, name)
		if prev, ok := written[base]; ok {
			return nil, fmt.Errorf("%s and %s would both write %s_report.txt", prev, p, base)
		}
		written[base] = p
		out = append(out, source{
			name:   name,
			outDir: dir,
			rows: func(context.Context) ([]model.RawRow, error) {
				return feed.ReadFile(reg, p)
			},
		})
	}
	return out, nil
}
