// Command stockdash runs the dashboard pipeline from the terminal: fetch one
// symbol, render its metrics as Markdown or write the CSV exports.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
)

var logLevel = flag.String("log-level", "", "Override LOG_LEVEL (debug, info, warn, error)")

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))

	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(&showCmd{}, "dashboard")
	commander.Register(&exportCmd{}, "dashboard")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
