package gramian

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestKernelFuncs(t *testing.T) {
	assert := assert.New(t)

	x := mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6})

	m := Mul(x, x.T())
	assert.True(mat.Equal(mat.NewDense(2, 2, []float64{14, 32, 32, 77}), m))

	d := Diagonal(x, x.T())
	assert.True(mat.Equal(mat.NewDense(2, 1, []float64{14, 77}), d))

	tr := Trace(x, x.T())
	assert.True(mat.Equal(mat.NewDense(1, 1, []float64{91}), tr))

	assert.Panics(func() { Diagonal(x, x) })
	assert.Panics(func() { Trace(x, x) })

	assert.Equal(x, passthrough(nil, x))
}

func TestOutputKernel(t *testing.T) {
	assert := assert.New(t)

	// two output rows per time step are summed
	o := mat.NewDense(4, 1, []float64{1, 1, -2, 0})
	k := outputKernel(o, 2)

	y := mat.NewDense(2, 1, []float64{3, 2})
	w := k(nil, y)
	assert.Equal(2.0, w.At(0, 0))
}
