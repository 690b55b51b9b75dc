package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

// residual returns A*X + X*B - Q
func residual(A, X, B, Q mat.Matrix) *mat.Dense {
	r := new(mat.Dense)
	r.Mul(A, X)
	xb := new(mat.Dense)
	xb.Mul(X, B)
	r.Add(r, xb)
	r.Sub(r, Q)

	return r
}

func TestSylvester(t *testing.T) {
	assert := assert.New(t)

	X, err := Sylvester(mat.NewDense(1, 1, []float64{-1}), mat.NewDense(1, 1, []float64{-1}), mat.NewDense(1, 1, []float64{-1}))
	assert.NoError(err)
	assert.InDelta(0.5, X.At(0, 0), 1e-12)

	// rectangular right hand side
	Bs := mat.NewDense(3, 3, []float64{-3, 1, 0, 0, -1, 0, 0, 0, -2})
	Q := mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6})
	X, err = Sylvester(A, Bs, Q)
	assert.NoError(err)
	r, c := X.Dims()
	assert.Equal(2, r)
	assert.Equal(3, c)
	assert.True(mat.EqualApprox(mat.NewDense(2, 3, nil), residual(A, X, Bs, Q), 1e-10))

	_, err = Sylvester(A, Bs, mat.NewDense(2, 2, nil))
	assert.Error(err)

	// singular equation: A and -B share an eigenvalue
	_, err = Sylvester(mat.NewDense(1, 1, []float64{1}), mat.NewDense(1, 1, []float64{-1}), mat.NewDense(1, 1, []float64{1}))
	assert.Error(err)
}

func TestReferenceGramians(t *testing.T) {
	assert := assert.New(t)

	c, err := NewContinuous(A, B, C, D, nil)
	assert.NoError(err)

	wc, err := c.ControllabilityGramian()
	assert.NoError(err)
	bb := new(mat.Dense)
	bb.Mul(B, B.T())
	bb.Scale(-1, bb)
	assert.True(mat.EqualApprox(mat.NewDense(2, 2, nil), residual(A, wc, A.T(), bb), 1e-10))
	assert.InDelta(wc.At(0, 1), wc.At(1, 0), 1e-10)
	assert.True(wc.At(0, 0) > 0 && wc.At(1, 1) > 0)

	wo, err := c.ObservabilityGramian()
	assert.NoError(err)
	cc := new(mat.Dense)
	cc.Mul(C.T(), C)
	cc.Scale(-1, cc)
	assert.True(mat.EqualApprox(mat.NewDense(2, 2, nil), residual(A.T(), wo, A, cc), 1e-10))
	assert.InDelta(wo.At(0, 1), wo.At(1, 0), 1e-10)

	wx, err := c.CrossGramian()
	assert.NoError(err)
	bc := new(mat.Dense)
	bc.Mul(B, C)
	bc.Scale(-1, bc)
	assert.True(mat.EqualApprox(mat.NewDense(2, 2, nil), residual(A, wx, A, bc), 1e-10))

	// scalar system -x + u has all gramians equal to 1/2
	s, err := NewContinuous(mat.NewDense(1, 1, []float64{-1}), mat.NewDense(1, 1, []float64{1}), mat.NewDense(1, 1, []float64{1}), nil, nil)
	assert.NoError(err)
	wx, err = s.CrossGramian()
	assert.NoError(err)
	assert.InDelta(0.5, wx.At(0, 0), 1e-12)

	c, err = NewContinuous(A, mat.NewDense(2, 2, []float64{1, 0, 0, 1}), C, nil, nil)
	assert.NoError(err)
	_, err = c.CrossGramian()
	assert.Error(err)
}
