package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/fundfolio"
	"github.com/google/subcommands"
)

// validateCmd reports the data quality problems of a ledger.
type validateCmd struct {
	fix bool
}

func (*validateCmd) Name() string     { return "validate" }
func (*validateCmd) Synopsis() string { return "check a portfolio ledger and report its warnings" }
func (*validateCmd) Usage() string {
	return `folio [-portfolio <name>] validate [-fix]

  Reads the ledger and lists the rows that were skipped or corrected.
  With -fix, the ledger is rewritten with the valid rows only, sorted by date,
  and with "Venta total" replaced by the quantity sold.
`
}

func (c *validateCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.fix, "fix", false, "rewrite the ledger with the cleaned transactions")
}

func (c *validateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, ok := openApp()
	if !ok {
		return subcommands.ExitFailure
	}
	defer a.close()

	name, err := a.portfolio()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	records, err := a.ledgers.Load(name)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	l, warnings := fundfolio.Ingest(records)

	var b strings.Builder
	fmt.Fprintf(&b, "# Ledger %s\n\n%d rows, %d transactions, %d assets.\n\n", name, len(records), l.Len(), len(l.Assets()))
	if len(warnings) == 0 {
		b.WriteString("No warning.\n")
	}
	for _, w := range warnings {
		fmt.Fprintf(&b, "- %s\n", w)
	}
	if err := output(warnings, b.String()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	if c.fix {
		cleaned := make([]fundfolio.Record, 0, l.Len())
		for _, tx := range l.Transactions() {
			cleaned = append(cleaned, tx.Record())
		}
		if err := a.ledgers.Save(name, cleaned); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing ledger %q: %v\n", name, err)
			return subcommands.ExitFailure
		}
		a.log.Info().Str("portfolio", name).Int("rows", len(cleaned)).Msg("ledger rewritten")
	}
	if len(warnings) > 0 {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
