package matrix

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Eps is the distance from 1.0 to the next larger float64
const Eps = 0x1p-52

// RowSums returns a slice containing m row sums.
// It panics if m is nil.
func RowSums(m *mat.Dense) []float64 {
	rows, _ := m.Dims()
	sum := make([]float64, rows)

	for i := 0; i < rows; i++ {
		sum[i] = floats.Sum(m.RawRowView(i))
	}

	return sum
}

// ColSums returns a slice containing m column sums.
// It panics if m is nil.
func ColSums(m *mat.Dense) []float64 {
	_, cols := m.Dims()
	sum := make([]float64, cols)

	for i := 0; i < cols; i++ {
		sum[i] = mat.Sum(m.ColView(i))
	}

	return sum
}

// Outer returns outer product of v and s: a len(v) x len(s) matrix.
// It panics if either of the slices is empty.
func Outer(v, s []float64) *mat.Dense {
	m := mat.NewDense(len(v), len(s), nil)
	m.Outer(1.0, mat.NewVecDense(len(v), v), mat.NewVecDense(len(s), s))

	return m
}

// Linspace returns n evenly spaced values over the closed interval [l, u].
// A single value request returns l.
func Linspace(l, u float64, n int) []float64 {
	if n <= 0 {
		return nil
	}

	if n == 1 {
		return []float64{l}
	}

	return floats.Span(make([]float64, n), l, u)
}

// Stack stacks matrices a and b on top of each other.
// It panics if the number of columns of a and b differ.
func Stack(a, b mat.Matrix) *mat.Dense {
	m := new(mat.Dense)
	m.Stack(a, b)

	return m
}

// Diag returns the main diagonal of a square matrix m
func Diag(m mat.Matrix) []float64 {
	r, c := m.Dims()
	n := min(r, c)
	d := make([]float64, n)
	for i := range d {
		d[i] = m.At(i, i)
	}

	return d
}

// ApproxInverse returns quadratic complexity approximate inverse of a square matrix m.
// It truncates the Neumann series X = D^-1 - D^-1 (M - D) D^-1 where D is the diagonal of m.
// Diagonal entries whose magnitude does not exceed sqrt(Eps) are treated as zero.
// It panics if m is not square.
func ApproxInverse(m mat.Matrix) *mat.Dense {
	r, c := m.Dims()
	if r != c {
		panic(mat.ErrSquare)
	}

	d := Diag(m)
	for i := range d {
		if math.Abs(d[i]) > math.Sqrt(Eps) {
			d[i] = 1.0 / d[i]
		} else {
			d[i] = 0.0
		}
	}

	x := mat.NewDense(r, c, nil)
	x.Apply(func(i, j int, v float64) float64 {
		if i == j {
			return d[i]
		}
		return -d[i] * v * d[j]
	}, m)

	return x
}

// SingularValues returns singular values of m in descending order.
// It returns nil if the decomposition fails.
func SingularValues(m mat.Matrix) []float64 {
	var svd mat.SVD
	if ok := svd.Factorize(m, mat.SVDNone); !ok {
		return nil
	}

	return svd.Values(nil)
}
