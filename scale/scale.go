// Package scale generates input, state and parameter perturbation scales.
package scale

import (
	"errors"
	"fmt"
	"math"

	"github.com/ShenWang9202/emgr/matrix"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

var (
	// ErrTooFewSamples is returned when parameter bounds are requested from less than two samples
	ErrTooFewSamples = errors.New("scale: min and max parameter required")
	// ErrNonPositiveBounds is returned when logarithmic scales are requested for non-positive parameters
	ErrNonPositiveBounds = errors.New("scale: logarithmic scales require positive parameters")
)

// Profile is a perturbation scale profile
type Profile int

const (
	// Single is a single unit scale
	Single Profile = iota
	// Linear scales are linearly distributed
	Linear
	// Geometric scales are geometrically distributed
	Geometric
	// Log scales are logarithmically distributed
	Log
	// Sparse scales cluster at both ends of the unit interval
	Sparse
)

// Rotation selects perturbation directions
type Rotation int

const (
	// UnitRotation perturbs along positive and negative unit directions
	UnitRotation Rotation = iota
	// SingleRotation perturbs along positive unit directions only
	SingleRotation
)

// Centering is a parameter centering mode
type Centering int

const (
	// NoCentering uses minimum parameter as nominal and linear scales
	NoCentering Centering = iota
	// LinearCentering uses midpoint parameter as nominal and linear scales
	LinearCentering
	// LogCentering uses logarithmic midpoint parameter as nominal and logarithmic scales
	LogCentering
)

// Scales returns perturbation scales of the given profile.
// Unit rotations mirror the scales so every magnitude appears with both signs.
// Unknown profiles fall back to Single.
func Scales(p Profile, r Rotation) []float64 {
	var s []float64

	switch p {
	case Linear:
		s = []float64{0.25, 0.50, 0.75, 1.0}
	case Geometric:
		s = []float64{0.125, 0.25, 0.5, 1.0}
	case Log:
		s = []float64{0.001, 0.01, 0.1, 1.0}
	case Sparse:
		s = []float64{0.01, 0.50, 0.99, 1.0}
	default:
		s = []float64{1.0}
	}

	if r == UnitRotation {
		neg := make([]float64, len(s))
		floats.ScaleTo(neg, -1.0, s)
		s = append(neg, s...)
	}

	return s
}

// Params returns nominal parameter and parameter perturbation scales for parameter ensemble pr.
// pr stores one parameter sample per column. The returned nominal parameter is a P x 1 matrix
// and the scales are stored in P x n matrix, one scale set per column.
// It returns error if pr has less than two samples or if logarithmic centering
// is requested for non-positive parameters.
func Params(pr mat.Matrix, c Centering, n int) (*mat.Dense, *mat.Dense, error) {
	rows, cols := pr.Dims()
	if cols < 2 {
		return nil, nil, fmt.Errorf("%w: got %d sample(s)", ErrTooFewSamples, cols)
	}

	if n <= 0 {
		return nil, nil, fmt.Errorf("invalid number of parameter scales: %d", n)
	}

	pmin := make([]float64, rows)
	pmax := make([]float64, rows)
	for i := 0; i < rows; i++ {
		row := mat.Row(nil, i, pr)
		pmin[i] = floats.Min(row)
		pmax[i] = floats.Max(row)
	}

	nom := mat.NewDense(rows, 1, nil)
	pm := mat.NewDense(rows, n, nil)

	switch c {
	case LinearCentering:
		lin := matrix.Linspace(0.0, 1.0, n)
		for i := 0; i < rows; i++ {
			mid := 0.5 * (pmax[i] + pmin[i])
			nom.Set(i, 0, mid)
			for j, l := range lin {
				pm.Set(i, j, (pmax[i]-pmin[i])*l+(pmin[i]-mid))
			}
		}
	case LogCentering:
		if floats.Min(pmin) <= 0.0 {
			return nil, nil, ErrNonPositiveBounds
		}
		lin := matrix.Linspace(0.0, 1.0, n)
		for i := 0; i < rows; i++ {
			lmin, lmax := math.Log(pmin[i]), math.Log(pmax[i])
			mid := math.Exp(0.5 * (lmax + lmin))
			nom.Set(i, 0, mid)
			for j, l := range lin {
				pm.Set(i, j, math.Exp((lmax-lmin)*l+lmin)-mid)
			}
		}
	default:
		lin := matrix.Linspace(1.0/float64(n), 1.0, n)
		for i := 0; i < rows; i++ {
			nom.Set(i, 0, pmin[i])
			for j, l := range lin {
				pm.Set(i, j, (pmax[i]-pmin[i])*l)
			}
		}
	}

	return nom, pm, nil
}
