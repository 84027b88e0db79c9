package fundfolio

import (
	"fmt"
	"math"
)

// Percent is a return or a ratio expressed in percent (10 means 10%).
type Percent float64

func (p Percent) Equal(q Percent) bool {
	// it has to be compared with some precision
	const precision = 0.0001
	return math.Abs(float64(p-q)) < precision
}

func (p Percent) String() string {
	return fmt.Sprintf("%.2f%%", float64(p))
}

func (p Percent) SignedString() string {
	res := fmt.Sprintf("%+.2f%%", float64(p))
	if res == "+0.00%" {
		return "-"
	}
	return res
}

// Defined returns a pointer to p when ok, nil otherwise.
//
// A nil *Percent is an undefined return and is encoded as JSON null.
func Defined(p float64, ok bool) *Percent {
	if !ok || math.IsNaN(p) || math.IsInf(p, 0) {
		return nil
	}
	v := Percent(p)
	return &v
}
