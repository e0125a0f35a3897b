package analysis

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// ErrNotEnoughPairs marks a correlation request with fewer than two
// paired observations.
var ErrNotEnoughPairs = errors.New("need at least two paired observations")

// Correlation is a Pearson correlation with its two-sided p-value.
type Correlation struct {
	R          float64 `json:"correlation"`
	PValue     float64 `json:"p_value"`
	SampleSize int     `json:"sample_size"`
}

// PearsonCorrelation computes r between paired samples plus a two-sided
// p-value from the t distribution with n-2 degrees of freedom.
func PearsonCorrelation(xs, ys []float64) (*Correlation, error) {
	if len(xs) != len(ys) {
		return nil, errors.New("mismatched sample lengths")
	}
	n := len(xs)
	if n < 2 {
		return nil, ErrNotEnoughPairs
	}

	r := stat.Correlation(xs, ys, nil)
	if math.IsNaN(r) {
		return nil, errors.New("correlation undefined for constant input")
	}

	var p float64
	switch {
	case n <= 2:
		p = 1
	case math.Abs(r) >= 1:
		p = 0
	default:
		t := r * math.Sqrt(float64(n-2)/(1-r*r))
		dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(n - 2)}
		p = 2 * dist.Survival(math.Abs(t))
	}

	return &Correlation{R: r, PValue: p, SampleSize: n}, nil
}
