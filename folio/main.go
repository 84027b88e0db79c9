// Command folio values a portfolio of funds and reports its returns.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/fundfolio/cmd"
	"github.com/etnz/fundfolio/docs"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	completion(commander).Complete("folio")

	flag.Parse()

	// Unknown subcommands are looked up as folio-<name> extensions.
	if flag.NArg() > 0 {
		known := false
		commander.VisitCommands(func(_ *subcommands.CommandGroup, c subcommands.Command) {
			known = known || c.Name() == flag.Arg(0)
		})
		if !known {
			if found, code := cmd.RunExtension(flag.Arg(0), flag.Args()[1:]); found {
				os.Exit(code)
			}
		}
	}
	os.Exit(int(commander.Execute(context.Background())))
}

// completion describes the commands and flags for shell completion.
func completion(commander *subcommands.Commander) *complete.Command {
	topics, _ := docs.GetAllTopics()
	global := map[string]complete.Predictor{
		"config":    predict.Files("*.toml"),
		"portfolio": predict.Something,
		"today":     predict.Something,
		"log-level": predict.Set{"debug", "info", "warn", "error"},
		"html":      predict.Nothing,
		"json":      predict.Nothing,
	}
	sub := make(map[string]*complete.Command)
	commander.VisitCommands(func(_ *subcommands.CommandGroup, c subcommands.Command) {
		fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
		c.SetFlags(fs)
		flags := make(map[string]complete.Predictor)
		fs.VisitAll(func(f *flag.Flag) { flags[f.Name] = predict.Something })
		sub[c.Name()] = &complete.Command{Flags: flags}
	})
	if c, ok := sub["topic"]; ok {
		c.Args = predict.Set(topics)
	}
	if c, ok := sub["import-nav"]; ok {
		c.Args = predict.Files("*.csv")
	}
	if c, ok := sub["fetch-history"]; ok {
		c.Flags["source"] = predict.Set{"eodhd", "yahoo"}
	}
	return &complete.Command{Sub: sub, Flags: global}
}
