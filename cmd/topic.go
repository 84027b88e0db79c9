package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/fundfolio/docs"
	"github.com/google/subcommands"
)

type topicCmd struct {
	list bool
}

func (*topicCmd) Name() string     { return "topic" }
func (*topicCmd) Synopsis() string { return "read the embedded guides (ledger format, returns, horizons...)" }
func (*topicCmd) Usage() string {
	return `folio topic [-list] [<topic>...]

Without a topic, print the guide index. "folio topic '*'" prints every guide.
`
}

func (c *topicCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.list, "list", false, "print the topic names only")
}

// topicText returns the markdown to print for the command line.
func topicText(list bool, names []string) (string, error) {
	switch {
	case list:
		topics, err := docs.GetAllTopics()
		if err != nil {
			return "", err
		}
		return strings.Join(topics, "\n") + "\n", nil
	case len(names) == 0:
		return docs.Index(), nil
	default:
		return docs.GetTopics(names...)
	}
}

func (c *topicCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	text, err := topicText(c.list, f.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v (see folio topic -list)\n", err)
		return subcommands.ExitFailure
	}
	if c.list {
		fmt.Print(text)
		return subcommands.ExitSuccess
	}
	printMarkdown(text)
	return subcommands.ExitSuccess
}
