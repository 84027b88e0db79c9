package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/etnz/fundfolio/agent"
	"github.com/etnz/fundfolio/renderer"
	"github.com/google/subcommands"
	"google.golang.org/genai"
)

// assistCmd is the subcommand for the AI assistant.
type assistCmd struct {
	model string
}

func (*assistCmd) Name() string     { return "assist" }
func (*assistCmd) Synopsis() string { return "start an interactive session with the AI assistant" }
func (*assistCmd) Usage() string {
	return `folio [-portfolio <name>] assist [-model <name>] [<question>]

  Starts an interactive session with an assistant that knows the report of
  the portfolio. GEMINI_API_KEY must be set. Type 'bye' to exit.
`
}

func (c *assistCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.model, "model", "", "Gemini model. Overrides the configuration.")
}

func (c *assistCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, ok := openApp()
	if !ok {
		return subcommands.ExitFailure
	}
	defer a.close()
	ctx = a.log.WithContext(ctx)

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

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing Gemini's client:", err)
		return subcommands.ExitFailure
	}

	model := orFlag(c.model, a.cfg.Model)
	analyst := agent.NewAnalyst(model, a, renderer.ReportMarkdown(r, name))
	assistant := agent.New(os.Stdout, os.Stdin, model, analyst, agent.NewTrader(model))
	assistant.Print = func(w io.Writer, md string) error {
		printMarkdown(md)
		return nil
	}

	if err := assistant.Run(ctx, client, strings.Join(f.Args(), " ")); err != nil {
		fmt.Fprintln(os.Stderr, "Agent failed:", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
