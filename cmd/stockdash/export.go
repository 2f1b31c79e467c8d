package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/subcommands"

	"github.com/aristath/stockdash/internal/modules/export"
	"github.com/aristath/stockdash/internal/utils"
)

type exportCmd struct {
	symbol  string
	period  string
	out     string
	archive bool
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "write the historical and metrics CSV files for a symbol" }
func (*exportCmd) Usage() string {
	return `stockdash export [-symbol <SYM>[,<SYM>...]] [-period <period>] [-out <dir>] [-archive]

  Fetches each symbol and writes {SYM}_historical_data.csv and
  {SYM}_financial_metrics.csv. With -archive the files are also uploaded
  to the configured object storage bucket.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "symbol", "", "Comma separated stock symbols (defaults to DEFAULT_SYMBOL)")
	f.StringVar(&c.period, "period", "", "Period code or label (defaults to DEFAULT_PERIOD)")
	f.StringVar(&c.out, "out", ".", "Output directory")
	f.BoolVar(&c.archive, "archive", false, "Also upload the files to EXPORT_BUCKET")
}

func (c *exportCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a, err := newApp(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	defer a.Close()

	if c.archive && a.container.Archiver == nil {
		fmt.Fprintln(os.Stderr, "Error: -archive needs EXPORT_BUCKET to be configured")
		return subcommands.ExitUsageError
	}

	if err := os.MkdirAll(c.out, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create output directory: %v\n", err)
		return subcommands.ExitFailure
	}

	symbols := utils.ParseSymbols(c.symbol)
	if len(symbols) == 0 {
		symbols = []string{""}
	}

	for _, symbol := range symbols {
		if err := c.exportSymbol(ctx, a, symbol); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
	}

	return subcommands.ExitSuccess
}

func (c *exportCmd) exportSymbol(ctx context.Context, a *app, symbol string) error {
	state, _, err := a.fetch(ctx, symbol, c.period)
	if err != nil {
		return err
	}

	for _, kind := range []export.Kind{export.KindHistorical, export.KindMetrics} {
		file, err := a.container.DashboardService.Export(state, kind)
		if err != nil {
			return err
		}

		path := filepath.Join(c.out, file.Name)
		if err := os.WriteFile(path, file.Data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		fmt.Println(path)

		if c.archive {
			archive, err := a.container.Archiver.Archive(ctx, state.Symbol(), file)
			if err != nil {
				return err
			}
			fmt.Printf("archived %s (%s)\n", archive.Key, archive.Checksum[:12])
		}
	}

	return nil
}
