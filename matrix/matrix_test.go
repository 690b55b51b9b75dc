package matrix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestRowColSums(t *testing.T) {
	assert := assert.New(t)

	data := []float64{1.2, 3.4, 4.5, 6.7, 8.9, 10.0}
	rowSums := []float64{4.6, 11.2, 18.9}
	colSums := []float64{14.6, 20.1}
	delta := 0.001

	m := mat.NewDense(3, 2, data)
	assert.NotNil(m)

	// check rows
	resRows := RowSums(m)
	assert.NotNil(resRows)
	assert.InDeltaSlice(rowSums, resRows, delta)
	// check cols
	resCols := ColSums(m)
	assert.NotNil(resCols)
	assert.InDeltaSlice(colSums, resCols, delta)
	// should panic
	assert.Panics(func() { RowSums(nil) })
	assert.Panics(func() { ColSums(nil) })
}

func TestOuter(t *testing.T) {
	assert := assert.New(t)

	m := Outer([]float64{1.0, 2.0}, []float64{-1.0, 1.0})
	r, c := m.Dims()
	assert.Equal(2, r)
	assert.Equal(2, c)
	assert.True(mat.Equal(m, mat.NewDense(2, 2, []float64{-1, 1, -2, 2})))
}

func TestLinspace(t *testing.T) {
	assert := assert.New(t)

	assert.Nil(Linspace(0, 1, 0))
	assert.Equal([]float64{0.5}, Linspace(0.5, 1, 1))
	assert.InDeltaSlice([]float64{0, 0.25, 0.5, 0.75, 1.0}, Linspace(0, 1, 5), 1e-15)
}

func TestStack(t *testing.T) {
	assert := assert.New(t)

	a := mat.NewDense(1, 2, []float64{1, 2})
	b := mat.NewDense(2, 2, []float64{3, 4, 5, 6})

	m := Stack(a, b)
	r, c := m.Dims()
	assert.Equal(3, r)
	assert.Equal(2, c)
	assert.Equal(5.0, m.At(2, 0))

	assert.Panics(func() { Stack(a, mat.NewDense(1, 3, nil)) })
}

func TestApproxInverse(t *testing.T) {
	assert := assert.New(t)

	// diagonal matrices are inverted exactly
	d := mat.NewDiagDense(3, []float64{2.0, -4.0, 0.5})
	x := ApproxInverse(d)

	exp := mat.NewDense(3, 3, nil)
	assert.NoError(exp.Inverse(d))
	assert.True(mat.EqualApprox(exp, x, 1e-14))

	// off-diagonal entries follow first order Neumann series
	m := mat.NewDense(2, 2, []float64{2.0, 1.0, 3.0, 4.0})
	x = ApproxInverse(m)
	assert.InDelta(0.5, x.At(0, 0), 1e-15)
	assert.InDelta(0.25, x.At(1, 1), 1e-15)
	assert.InDelta(-0.125, x.At(0, 1), 1e-15)
	assert.InDelta(-0.375, x.At(1, 0), 1e-15)

	// negligible diagonal entries are skipped
	m = mat.NewDense(2, 2, []float64{0.0, 1.0, 1.0, 2.0})
	x = ApproxInverse(m)
	assert.Equal(0.0, x.At(0, 0))
	assert.Equal(0.0, x.At(0, 1))
	assert.InDelta(0.5, x.At(1, 1), 1e-15)

	assert.Panics(func() { ApproxInverse(mat.NewDense(2, 3, nil)) })
}

func TestDiag(t *testing.T) {
	assert := assert.New(t)

	m := mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6})
	assert.Equal([]float64{1, 5}, Diag(m))
}

func TestSingularValues(t *testing.T) {
	assert := assert.New(t)

	m := mat.NewDense(3, 3, []float64{
		1.0, 0.0, 0.0,
		0.0, -3.0, 0.0,
		0.0, 0.0, 2.0,
	})
	assert.InDeltaSlice([]float64{3.0, 2.0, 1.0}, SingularValues(m), 1e-12)
}
