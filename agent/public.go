package agent

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/etnz/fundfolio"
	"github.com/etnz/fundfolio/docs"
	"github.com/etnz/fundfolio/renderer"
	"google.golang.org/genai"
)

// Reporter computes the reports of the portfolios.
type Reporter interface {
	Portfolios() ([]string, error)
	Report(ctx context.Context, name string) (*fundfolio.Report, error)
}

func instruction(text string) *genai.Content {
	return &genai.Content{Parts: []*genai.Part{{Text: text}}}
}

// newFacilitator creates the expert talking to the user.
func newFacilitator(model string, experts ...*Expert) *Expert {
	return &Expert{
		Name:      "Facilitator",
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: instruction(`
			As a facilitator you are in charge of the conversation and solving the user's request.

			Learn about the expert's skill that you can get from the Tools to ask them questions.
			They are at your service and 100% dedicated to you, they keep context of your previous questions.

			The user owns one or more portfolios of investment funds, and is here primarily to understand
			how they perform and what happens to the funds they hold.

			Devise a plan of questions to ask to each expert and come up with the best response to the user's request.
			Figures come from the Analyst only, never make them up. Answer in markdown.
			`),
		},
		Library: NewLibrary(experts),
	}
}

// NewTrader creates an expert grounded on Google Search.
func NewTrader(model string) *Expert {
	return &Expert{
		Name: "Trader",
		Description: `This is an expert trader,
		Very well aware of all the financial products and institutions,
		about the latest news about the different funds or companies.
		Ask the Trader whenever you need recent or grounding information.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: instruction(`
			You are a expert in Trading, you can search and find about anything related to
			financial institutions, companies, markets, funds etc. You Leverage Google Search to
			ground your assertions in a solid truth.
			You can get the latest news too, and you know how to relate them to the user's request.
			Funds are best searched by their ISIN.
			`),
		},
	}
}

// NewAnalyst creates the expert reading the reports of the portfolios. report
// is the markdown report of the portfolio selected by the user.
func NewAnalyst(model string, reporter Reporter, report string) *Expert {
	lib := AnalystFunctions(reporter)
	return &Expert{
		Name: "Analyst",
		Description: `This is the Analyst. The Analyst reads the user's portfolios: the positions, their value,
		the returns (TWR, MWR, rolling returns), the risk, the gains, the cash flows and the coverage
		of the NAV histories, and knows how every figure is computed.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: instruction(`
			You are a financial analyst in charge of the user's portfolios.
			You use the Tools to read the reports of the portfolios and to learn how their figures are computed.
			You are part of a team of experts, yours is everything about the user's portfolios. They might ask
			you questions with an approximate language, figure out what they meant.

			Always quote the figures from the reports. A value shown as n/a is undefined: say so, never
			replace it by zero. Returns over more than one year are annualized.

			The user is looking at this report:

			` + report),
		},
		Library: NewLibrary(lib),
	}
}

// AnalystFunctions returns the tools of the Analyst.
func AnalystFunctions(reporter Reporter) []Function {
	sections := renderer.SectionNames()
	topics, _ := docs.GetAllTopics()

	return []Function{
		&Func{
			Decl: &genai.FunctionDeclaration{
				Name:        "Portfolios",
				Description: "Portfolios lists the names of the user's portfolios.",
				Response:    &genai.Schema{Type: genai.TypeString, Description: "One portfolio name per line."},
			},
			Func: func(ctx context.Context, args map[string]any) (string, error) {
				names, err := reporter.Portfolios()
				if err != nil {
					return "", err
				}
				return strings.Join(names, "\n"), nil
			},
		},
		&Func{
			Decl: &genai.FunctionDeclaration{
				Name:        "Report",
				Description: "Report renders one section of the report of a portfolio as of today, with the warnings found in its ledger.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"portfolio": {Type: genai.TypeString, Description: "The name of the portfolio."},
						"section": {
							Type:        genai.TypeString,
							Description: "The section of the report, or \"all\" for the full report.",
							Enum:        append([]string{"all"}, sections...),
						},
					},
					Required: []string{"portfolio", "section"},
				},
				Response: &genai.Schema{Type: genai.TypeString, Description: "A markdown report."},
			},
			Func: func(ctx context.Context, args map[string]any) (string, error) {
				name, err := stringArg(args, "portfolio")
				if err != nil {
					return "", err
				}
				sec, err := stringArg(args, "section")
				if err != nil {
					return "", err
				}
				render, ok := renderer.Sections[sec]
				if !ok && sec != "all" {
					return "", fmt.Errorf("unknown section %q, expected one of %s", sec, strings.Join(sections, ", "))
				}
				r, err := reporter.Report(ctx, name)
				if err != nil {
					return "", err
				}
				if !ok {
					return renderer.ReportMarkdown(r, name), nil
				}
				return render(r), nil
			},
		},
		&Func{
			Decl: &genai.FunctionDeclaration{
				Name:        "Topic",
				Description: "Topic returns the documentation of folio about a topic: file formats and how figures are computed.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"topic": {Type: genai.TypeString, Enum: topics},
					},
					Required: []string{"topic"},
				},
				Response: &genai.Schema{Type: genai.TypeString, Description: "The markdown documentation."},
			},
			Func: func(ctx context.Context, args map[string]any) (string, error) {
				topic, err := stringArg(args, "topic")
				if err != nil {
					return "", err
				}
				if !slices.Contains(topics, topic) {
					return "", fmt.Errorf("unknown topic %q, expected one of %s", topic, strings.Join(topics, ", "))
				}
				return docs.GetTopic(topic)
			},
		},
	}
}
