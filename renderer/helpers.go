package renderer

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"github.com/etnz/fundfolio"
	md "github.com/nao1215/markdown"
)

// ConditionalBlock let you fully write a block and decide at the end to print it or not.
// If the block function returns true, the content is printed to w, otherwise it is discarded.
func ConditionalBlock(w io.Writer, block func(io.Writer) bool) {
	bw := &bytes.Buffer{}
	if block(bw) {
		io.Copy(w, bw)
	}
}

// undefined is printed for values that cannot be computed.
const undefined = "n/a"

func money(v float64, currency string) string { return fundfolio.M(v, currency).String() }

func signedMoney(v float64, currency string) string { return fundfolio.M(v, currency).SignedString() }

func pct(p *fundfolio.Percent) string {
	if p == nil {
		return undefined
	}
	return p.String()
}

func signedPct(p *fundfolio.Percent) string {
	if p == nil {
		return undefined
	}
	return p.SignedString()
}

// percent formats a percent stored in a series, where NaN is undefined.
func percent(v float64) string { return signedPct(fundfolio.Defined(v, !math.IsNaN(v))) }

func optMoney(v *float64, currency string) string {
	if v == nil {
		return undefined
	}
	return money(*v, currency)
}

func quantity(v float64) string { return fundfolio.Q(v).String() }

// section starts a markdown document with a level 2 title.
func section(w io.Writer, title string) *md.Markdown {
	doc := md.NewMarkdown(w)
	doc.H2(title).PlainText("")
	return doc
}

// build ends a section, always with a blank line.
func build(doc *md.Markdown) bool {
	doc.PlainText("")
	return doc.Build() == nil
}

func right(n int) []md.TableAlignment {
	res := make([]md.TableAlignment, n)
	for i := 1; i < n; i++ {
		res[i] = md.AlignRight
	}
	res[0] = md.AlignLeft
	return res
}

func label(name, key string) string {
	if name == "" || name == key {
		return key
	}
	return fmt.Sprintf("%s (%s)", name, key)
}
