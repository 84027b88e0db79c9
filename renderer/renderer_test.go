package renderer

import (
	"math"
	"strings"
	"testing"

	"github.com/etnz/fundfolio"
	"github.com/etnz/fundfolio/date"
)

const fund = "IE00B4L5Y983"

func sampleReport(t *testing.T) *fundfolio.Report {
	t.Helper()
	l, warnings := fundfolio.Ingest([]fundfolio.Record{
		{Position: "World Fund", ISIN: fund, Kind: "Compra", Quantity: "10", Date: "2024-01-02", Currency: "EUR", Price: "100", Fee: "0"},
		{Position: "Local", Kind: "Compra", Quantity: "1", Date: "2024-01-02", Currency: "EUR", Price: "50", Fee: "0"},
	})
	if len(warnings) > 0 {
		t.Fatalf("Ingest() warnings = %v", warnings)
	}
	navs := navStore{fund: {
		{Date: date.New(2024, 1, 2), Close: 100},
		{Date: date.New(2024, 3, 1), Close: 110, ChangePct: "0.5%"},
	}}
	e := fundfolio.Engine{Today: date.New(2024, 3, 1), Navs: navs}
	r, err := e.Compute(l)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	return r
}

type navStore map[string][]fundfolio.PriceRow

func (s navStore) History(isin string) ([]fundfolio.PriceRow, error) { return s[isin], nil }

func TestReportMarkdown(t *testing.T) {
	got := ReportMarkdown(sampleReport(t), "main")

	for _, want := range []string{
		"# Portfolio main on 2024-03-01",
		"## Overview",
		"| World Fund (" + fund + ") |",
		"## Returns",
		"## Rolling Returns",
		"## Gains",
		"| **Total** |",
		"## Quarterly Flows",
		"| 2024-Q1 |",
		"## NAV Coverage",
		"## Warnings",
		"no ISIN",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("ReportMarkdown() does not contain %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "## Benchmark\n\n| Date") {
		t.Errorf("ReportMarkdown() renders a benchmark table without benchmark")
	}
}

func TestSectionMarkdown_Empty(t *testing.T) {
	r := &fundfolio.Report{Today: date.New(2024, 3, 1)}
	for name, render := range map[string]func(*fundfolio.Report) string{
		"positions": PositionsMarkdown,
		"gains":     GainsMarkdown,
		"overview":  OverviewMarkdown,
		"flows":     FlowsMarkdown,
		"coverage":  CoverageMarkdown,
		"rolling":   RollingMarkdown,
		"risk":      RiskMarkdown,
	} {
		if got := render(r); got != "" {
			t.Errorf("%s of an empty report = %q, want empty", name, got)
		}
	}
}

func TestPositionsMarkdown(t *testing.T) {
	got := PositionsMarkdown(sampleReport(t))
	if !strings.Contains(got, "| Asset | Quantity |") {
		t.Errorf("PositionsMarkdown() has no table header:\n%s", got)
	}
	if !strings.Contains(got, "| 10 |") {
		t.Errorf("PositionsMarkdown() does not show the quantity:\n%s", got)
	}
}

func TestUndefinedValues(t *testing.T) {
	if got := pct(nil); got != undefined {
		t.Errorf("pct(nil) = %q, want %q", got, undefined)
	}
	if got := percent(math.NaN()); got != undefined {
		t.Errorf("percent(NaN) = %q, want %q", got, undefined)
	}
	if got := percent(0); got != "-" {
		t.Errorf("percent(0) = %q, want %q", got, "-")
	}
}
