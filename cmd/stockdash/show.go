package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
)

type showCmd struct {
	symbol string
	period string
	rows   int
	plain  bool
}

func (*showCmd) Name() string     { return "show" }
func (*showCmd) Synopsis() string { return "display metrics and company information for a symbol" }
func (*showCmd) Usage() string {
	return `stockdash show [-symbol <SYM>] [-period <period>] [-rows n] [-plain]

  Fetches the symbol and prints the header, metric tiles, key metrics,
  company information and the most recent historical rows.
`
}

func (c *showCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "symbol", "", "Stock symbol (defaults to DEFAULT_SYMBOL)")
	f.StringVar(&c.period, "period", "", "Period code or label, e.g. 1y or \"6 Months\" (defaults to DEFAULT_PERIOD)")
	f.IntVar(&c.rows, "rows", 10, "Number of recent historical rows to print (0 for none)")
	f.BoolVar(&c.plain, "plain", false, "Print raw Markdown instead of terminal formatting")
}

func (c *showCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a, err := newApp(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	defer a.Close()

	_, view, err := a.fetch(ctx, c.symbol, c.period)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	md := viewMarkdown(view, c.rows)
	if c.plain {
		fmt.Print(md)
		return subcommands.ExitSuccess
	}
	printMarkdown(md)
	return subcommands.ExitSuccess
}

// printMarkdown renders Markdown for the terminal, falling back to the raw text
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		fmt.Print(md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}
