package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/fundfolio"
	"github.com/etnz/fundfolio/config"
	"github.com/etnz/fundfolio/date"
	"github.com/etnz/fundfolio/store"
	"github.com/google/subcommands"
)

// importNavCmd imports a NAV history exported from Investing.com.
type importNavCmd struct{}

func (*importNavCmd) Name() string { return "import-nav" }
func (*importNavCmd) Synopsis() string {
	return "import a NAV history in investing.com's csv format"
}
func (*importNavCmd) Usage() string {
	return `folio import-nav <ISIN> <file>

  Merges the prices of an Investing.com historical data export into the NAV
  history of the asset. Imported rows replace the existing ones of the same
  date.
`
}

func (*importNavCmd) SetFlags(f *flag.FlagSet) {}

func (*importNavCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "an ISIN and a file are required as arguments")
		return subcommands.ExitUsageError
	}
	isin, file := fundfolio.CleanISIN(f.Arg(0)), f.Arg(1)
	if isin == "" {
		fmt.Fprintf(os.Stderr, "invalid ISIN %q\n", f.Arg(0))
		return subcommands.ExitUsageError
	}

	a, ok := openApp()
	if !ok {
		return subcommands.ExitFailure
	}
	defer a.close()

	r, err := os.Open(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot open file %q: %v\n", file, err)
		return subcommands.ExitFailure
	}
	defer r.Close()

	rows, err := store.ReadInvesting(r)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot read %q: %v\n", file, err)
		return subcommands.ExitFailure
	}
	if err := a.navs.Merge(isin, rows); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("imported %d prices of %s from %q\n", len(rows), isin, file)
	return subcommands.ExitSuccess
}

// fetchHistoryCmd downloads daily prices.
type fetchHistoryCmd struct {
	source string
	from   string
	to     string
}

func (*fetchHistoryCmd) Name() string     { return "fetch-history" }
func (*fetchHistoryCmd) Synopsis() string { return "download the daily NAV history of assets" }
func (*fetchHistoryCmd) Usage() string {
	return `folio [-portfolio <name>] fetch-history [-source eodhd|yahoo] [-from <date>] [-to <date>] [<ISIN>...]

  Downloads the daily prices of the given assets, or of every asset of the
  portfolio, and merges them into their NAV history.
`
}

func (c *fetchHistoryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.source, "source", config.SourceYahoo, "price history source (eodhd, yahoo)")
	f.StringVar(&c.from, "from", "", "first day to download. Defaults to the first transaction of the portfolio, or a year ago.")
	f.StringVar(&c.to, "to", "", "last day to download. Defaults to today.")
}

func (c *fetchHistoryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, ok := openApp()
	if !ok {
		return subcommands.ExitFailure
	}
	defer a.close()

	src, err := a.historySource(c.source)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	to := a.now()
	if c.to != "" {
		if to, err = date.Parse(c.to); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitUsageError
		}
	}
	from := to.AddYears(-1)

	isins := f.Args()
	if len(isins) == 0 {
		name, err := a.portfolio()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitUsageError
		}
		l, err := a.ledgers.Ledger(name)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		for _, key := range l.Assets() {
			if fundfolio.IsISIN(key) {
				isins = append(isins, key)
			}
		}
		if l.Len() > 0 {
			from = l.First()
		}
	}
	if c.from != "" {
		if from, err = date.Parse(c.from); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitUsageError
		}
	}

	status := subcommands.ExitSuccess
	for _, isin := range isins {
		n, err := store.Download(ctx, src, a.navs, fundfolio.CleanISIN(isin), from, to)
		if err != nil {
			a.log.Error().Err(err).Str("isin", isin).Msg("download failed")
			status = subcommands.ExitFailure
			continue
		}
		fmt.Printf("%s: %d prices from %s to %s\n", isin, n, from, to)
	}
	return status
}
