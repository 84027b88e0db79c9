package fundfolio

import (
	"math"

	"github.com/etnz/fundfolio/date"
)

// BenchmarkPoint is one value of a reference index.
type BenchmarkPoint struct {
	Date  date.Date `csv:"Fecha" json:"date"`
	Value float64   `csv:"BenchmarkValue" json:"value"`
}

// DefaultBenchmarkGrowth is the annual growth of the simulated benchmark.
const DefaultBenchmarkGrowth = 0.06

// BenchmarkHistory turns benchmark points into a History. Later duplicates win.
func BenchmarkHistory(points []BenchmarkPoint) *date.History[float64] {
	h := new(date.History[float64])
	for _, p := range points {
		h.Append(p.Date, p.Value)
	}
	return h
}

// Comparison is a portfolio series aligned with a benchmark.
type Comparison struct {
	// Portfolio and Benchmark are the raw aligned values.
	Portfolio *date.History[float64] `json:"portfolio"`
	Benchmark *date.History[float64] `json:"benchmark"`
	// Rebased series both start at 100 on the first aligned date.
	PortfolioRebased *date.History[float64] `json:"portfolio_rebased"`
	BenchmarkRebased *date.History[float64] `json:"benchmark_rebased"`
	// Relative is the portfolio minus the benchmark, on the raw values.
	Relative *date.History[float64] `json:"relative"`
}

// Align keeps the dates present in both series.
func Align(values, bench *date.History[float64]) (portfolio, benchmark *date.History[float64]) {
	portfolio, benchmark = new(date.History[float64]), new(date.History[float64])
	for day, v := range values.Values() {
		if b, ok := bench.Get(day); ok {
			portfolio.Append(day, v)
			benchmark.Append(day, b)
		}
	}
	return portfolio, benchmark
}

// RelativePerformance compares a series with a benchmark on their common dates.
//
// Series whose first aligned value is not positive cannot be rebased and are
// returned as NaN.
func RelativePerformance(values, bench *date.History[float64]) Comparison {
	p, b := Align(values, bench)
	c := Comparison{
		Portfolio:        p,
		Benchmark:        b,
		PortfolioRebased: rebase(p),
		BenchmarkRebased: rebase(b),
		Relative:         new(date.History[float64]),
	}
	for day, v := range p.Values() {
		bv, _ := b.Get(day)
		c.Relative.Append(day, v-bv)
	}
	return c
}

func rebase(h *date.History[float64]) *date.History[float64] {
	_, base := h.First()
	return h.Map(func(_ date.Date, v float64) float64 {
		if base <= 0 {
			return math.NaN()
		}
		return v / base * 100
	})
}

// SimulatedBenchmark builds a monthly benchmark that starts at the first monthly
// value of the series and compounds at annualGrowth (0.06 is 6% a year).
func SimulatedBenchmark(values *date.History[float64], annualGrowth float64) *date.History[float64] {
	res := new(date.History[float64])
	monthly := values.Resample(date.Monthly)
	if monthly.Len() == 0 {
		return res
	}
	rate := math.Pow(1+annualGrowth, 1.0/12)
	_, v := monthly.First()
	for day := range monthly.Values() {
		res.Append(day, v)
		v *= rate
	}
	return res
}
