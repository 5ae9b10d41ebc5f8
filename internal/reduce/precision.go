package reduce

import (
	"math"
	"strconv"

	"github.com/paulmach/orb"
)

// Round rounds both components of p to precision significant digits.
// Points with a zero or NaN component come back untouched, as does any point when
// precision < 1.
func Round(p orb.Point, precision int) orb.Point {
	if precision < 1 || !roundable(p[0]) || !roundable(p[1]) {
		return p
	}
	return orb.Point{roundSig(p[0], precision), roundSig(p[1], precision)}
}

func roundable(v float64) bool {
	return v != 0 && !math.IsNaN(v)
}

// roundSig formats v with n significant digits and parses it back.
func roundSig(v float64, n int) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'e', n-1, 64), 64)
	if err != nil {
		return v
	}
	return r
}
