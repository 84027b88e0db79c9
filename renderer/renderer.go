// Package renderer formats the reports of a portfolio as markdown.
package renderer

import (
	"io"
	"sort"
	"strings"

	"github.com/etnz/fundfolio"
	md "github.com/nao1215/markdown"
)

// ReportMarkdown renders every section of the report. Empty sections are left
// out.
func ReportMarkdown(r *fundfolio.Report, portfolio string) string {
	var b strings.Builder
	title := md.NewMarkdown(&b)
	title.H1f("Portfolio %s on %s", portfolio, r.Today).PlainText("")
	title.Build()

	for _, render := range []func(io.Writer, *fundfolio.Report) bool{
		renderOverview,
		renderReturnsSummary,
		renderRolling,
		renderRisk,
		renderGains,
		renderFlows,
		renderBenchmark,
		renderCoverage,
		renderWarnings,
	} {
		ConditionalBlock(&b, func(w io.Writer) bool { return render(w, r) })
	}
	return b.String()
}

// sectionMarkdown renders a single section.
func sectionMarkdown(r *fundfolio.Report, render func(io.Writer, *fundfolio.Report) bool) string {
	var b strings.Builder
	ConditionalBlock(&b, func(w io.Writer) bool { return render(w, r) })
	ConditionalBlock(&b, func(w io.Writer) bool { return renderWarnings(w, r) })
	return b.String()
}

func PositionsMarkdown(r *fundfolio.Report) string  { return sectionMarkdown(r, renderPositions) }
func ValueMarkdown(r *fundfolio.Report) string      { return sectionMarkdown(r, renderValue) }
func ReturnsMarkdown(r *fundfolio.Report) string    { return sectionMarkdown(r, renderReturns) }
func RollingMarkdown(r *fundfolio.Report) string    { return sectionMarkdown(r, renderRolling) }
func RiskMarkdown(r *fundfolio.Report) string       { return sectionMarkdown(r, renderRisk) }
func GainsMarkdown(r *fundfolio.Report) string      { return sectionMarkdown(r, renderGains) }
func OverviewMarkdown(r *fundfolio.Report) string   { return sectionMarkdown(r, renderOverview) }
func FlowsMarkdown(r *fundfolio.Report) string      { return sectionMarkdown(r, renderFlows) }
func CoverageMarkdown(r *fundfolio.Report) string   { return sectionMarkdown(r, renderCoverage) }
func BenchmarkMarkdown(r *fundfolio.Report) string  { return sectionMarkdown(r, renderBenchmark) }

// Sections maps the name of each section to its renderer.
var Sections = map[string]func(*fundfolio.Report) string{
	"positions": PositionsMarkdown,
	"value":     ValueMarkdown,
	"returns":   ReturnsMarkdown,
	"rolling":   RollingMarkdown,
	"risk":      RiskMarkdown,
	"gains":     GainsMarkdown,
	"overview":  OverviewMarkdown,
	"flows":     FlowsMarkdown,
	"coverage":  CoverageMarkdown,
	"benchmark": BenchmarkMarkdown,
}

// SectionNames returns the names of the sections, sorted.
func SectionNames() []string {
	names := make([]string, 0, len(Sections))
	for name := range Sections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func renderWarnings(w io.Writer, r *fundfolio.Report) bool {
	if len(r.Warnings) == 0 {
		return false
	}
	doc := section(w, "Warnings")
	items := make([]string, len(r.Warnings))
	for i, warn := range r.Warnings {
		items[i] = warn.String()
	}
	doc.BulletList(items...)
	return build(doc)
}
