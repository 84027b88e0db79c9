package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/etnz/fundfolio"
	"github.com/etnz/fundfolio/oracle"
	"github.com/google/subcommands"
	md "github.com/nao1215/markdown"
)

// quoteCmd gets the latest NAV of assets.
type quoteCmd struct {
	force bool
}

func (*quoteCmd) Name() string     { return "quote" }
func (*quoteCmd) Synopsis() string { return "get the latest NAV of an asset" }
func (*quoteCmd) Usage() string {
	return `folio quote [-f] <ISIN or name>...

  Gets the latest NAV of each asset from the quote cache, or from the price
  sources when the cache has no fresh entry.
`
}

func (c *quoteCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.force, "f", false, "ignore the cache and ask the sources")
}

func (c *quoteCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "an ISIN or a name is required as argument")
		return subcommands.ExitUsageError
	}
	a, ok := openApp()
	if !ok {
		return subcommands.ExitFailure
	}
	defer a.close()

	o := a.oracle()
	status := subcommands.ExitSuccess
	var quotes []oracle.Quote
	for _, arg := range f.Args() {
		id := fundfolio.FreeText(arg)
		if fundfolio.IsISIN(arg) {
			id = fundfolio.Isin(fundfolio.CleanISIN(arg))
		}
		q, err := o.Quote(ctx, id, c.force)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			status = subcommands.ExitFailure
			continue
		}
		quotes = append(quotes, q)
	}
	if err := output(quotes, quotesMarkdown(quotes)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return status
}

// refreshCmd updates the quotes of every asset held.
type refreshCmd struct {
	force bool
	all   bool
}

func (*refreshCmd) Name() string     { return "refresh" }
func (*refreshCmd) Synopsis() string { return "update the quotes of the assets held" }
func (*refreshCmd) Usage() string {
	return `folio [-portfolio <name>] refresh [-f] [-all]

  Updates the quotes of the assets held in the portfolio, and adds them to
  their NAV history.
`
}

func (c *refreshCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.force, "f", false, "ignore the cache and ask the sources")
	f.BoolVar(&c.all, "all", false, "refresh the assets of every portfolio")
}

func (c *refreshCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, ok := openApp()
	if !ok {
		return subcommands.ExitFailure
	}
	defer a.close()

	var names []string
	var err error
	if c.all {
		names, err = a.Portfolios()
	} else {
		var name string
		name, err = a.portfolio()
		names = []string{name}
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	quotes, err := a.refresh(ctx, a.oracle(), names, c.force)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error refreshing quotes: %v\n", err)
		return subcommands.ExitFailure
	}
	list := make([]oracle.Quote, 0, len(quotes))
	for _, q := range quotes {
		list = append(list, q)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ISIN < list[j].ISIN })
	if err := output(list, quotesMarkdown(list)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func quotesMarkdown(quotes []oracle.Quote) string {
	var b strings.Builder
	doc := md.NewMarkdown(&b).H2("Quotes")
	if len(quotes) == 0 {
		doc.PlainText("No quote.")
		doc.Build()
		return b.String()
	}
	set := md.TableSet{
		Header:    []string{"Asset", "ISIN", "NAV", "Date", "1D", "Source"},
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignLeft, md.AlignRight, md.AlignLeft, md.AlignRight, md.AlignLeft},
	}
	for _, q := range quotes {
		nav, change := "n/a", "n/a"
		if q.NAV != nil {
			nav = fundfolio.M(*q.NAV, q.Currency).String()
		}
		if q.DayChange != nil {
			change = fmt.Sprintf("%+.2f%%", *q.DayChange)
		}
		set.Rows = append(set.Rows, []string{q.Name, q.ISIN, nav, q.Date, change, q.Source})
	}
	doc.Table(set)
	doc.Build()
	return b.String()
}
