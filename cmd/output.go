package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/fundfolio/api"
)

// isTerminal reports whether stdout is a terminal.
func isTerminal() bool {
	info, err := os.Stdout.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}

// printMarkdown writes md to stdout: styled on a terminal, raw otherwise, or
// as an HTML page with -html.
func printMarkdown(md string) {
	if *htmlOutput {
		page, err := api.HTML(md, "folio")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error rendering HTML: %v\n", err)
			return
		}
		os.Stdout.Write(page)
		return
	}
	if !isTerminal() {
		fmt.Print(md)
		return
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
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

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// output writes v as JSON with -json, md otherwise.
func output(v any, md string) error {
	if *jsonOutput {
		return printJSON(v)
	}
	printMarkdown(md)
	return nil
}
