package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/fundfolio"
	"github.com/etnz/fundfolio/renderer"
	"github.com/google/subcommands"
)

// reportCmd prints one section of the report of a portfolio.
type reportCmd struct {
	name     string
	synopsis string
	// part is what -json writes.
	part func(*fundfolio.Report) any
}

func reportCmds() []*reportCmd {
	return []*reportCmd{
		{"report", "display the full report of a portfolio", func(r *fundfolio.Report) any { return r }},
		{"positions", "display the FIFO positions: quantity, cost of remaining and realized gain", func(r *fundfolio.Report) any { return r.Positions }},
		{"value", "display the value of the portfolio and the invested capital, by month", func(r *fundfolio.Report) any {
			return map[string]any{"value": r.Value, "cumulative_investment": r.CumulativeInvestment}
		}},
		{"returns", "display the weekly TWR, MWR and weighted returns", func(r *fundfolio.Report) any { return r.ReturnSeries }},
		{"rolling", "display the rolling returns of the portfolio and of each asset", func(r *fundfolio.Report) any { return r.Rolling }},
		{"risk", "display the volatility, drawdown and Sharpe ratio of the monthly returns", func(r *fundfolio.Report) any { return r.Risk }},
		{"gains", "display the gains of each asset since its first purchase", func(r *fundfolio.Report) any { return r.Gains }},
		{"overview", "display the current composition of the portfolio and the daily change", func(r *fundfolio.Report) any { return r.Overview }},
		{"flows", "display the money invested and withdrawn by quarter", func(r *fundfolio.Report) any { return r.Flows }},
		{"coverage", "display the periods of each asset without NAV", func(r *fundfolio.Report) any { return r.Coverage }},
		{"benchmark", "compare the portfolio with its benchmark", func(r *fundfolio.Report) any {
			return map[string]any{"benchmark": r.Benchmark, "simulated": r.Simulated}
		}},
	}
}

func (c *reportCmd) Name() string     { return c.name }
func (c *reportCmd) Synopsis() string { return c.synopsis }
func (c *reportCmd) Usage() string {
	return fmt.Sprintf(`folio [-portfolio <name>] [-today <date>] [-json|-html] %s

  %s.
`, c.name, c.synopsis)
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {}

func (c *reportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	r, err := a.Report(ctx, name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing report of %q: %v\n", name, err)
		return subcommands.ExitFailure
	}

	md := renderer.ReportMarkdown(r, name)
	if render, ok := renderer.Sections[c.name]; ok {
		md = render(r)
	}
	if err := output(c.part(r), md); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
