package sim

import (
	"fmt"

	"github.com/ShenWang9202/emgr"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"
)

// Linearize linearizes model m around steady state xs, steady input us and parameter p
// using central finite differences and returns the linear model.
// If p is nil the parameter matrix of the returned model is not set and a zero
// single parameter is passed to the model functions.
// It returns error if any of the model functions fails.
func Linearize(m emgr.Model, xs, us, p mat.Vector) (*Continuous, error) {
	nu, nx, ny := m.Dims()
	if xs.Len() != nx || us.Len() != nu {
		return nil, fmt.Errorf("invalid linearization point dimensions")
	}

	pp := p
	if pp == nil {
		pp = mat.NewVecDense(1, nil)
	}

	var ferr error
	jac := func(r, c int, fn func(x []float64) (mat.Vector, error)) *mat.Dense {
		dst := mat.NewDense(r, c, nil)
		x0 := make([]float64, c)
		fd.Jacobian(dst, func(y, x []float64) {
			if ferr != nil {
				return
			}
			v, err := fn(x)
			if err != nil {
				ferr = err
				return
			}
			for i := range y {
				y[i] = v.AtVec(i)
			}
		}, x0, &fd.JacobianSettings{Formula: fd.Central})
		return dst
	}

	// shift evaluation points so Jacobians are taken around the linearization point
	at := func(v mat.Vector, x []float64) mat.Vector {
		out := mat.NewVecDense(len(x), nil)
		out.AddVec(v, mat.NewVecDense(len(x), x))
		return out
	}

	A := jac(nx, nx, func(x []float64) (mat.Vector, error) { return m.VectorField(at(xs, x), us, pp, 0) })
	B := jac(nx, nu, func(u []float64) (mat.Vector, error) { return m.VectorField(xs, at(us, u), pp, 0) })
	C := jac(ny, nx, func(x []float64) (mat.Vector, error) { return m.Output(at(xs, x), us, pp, 0) })
	D := jac(ny, nu, func(u []float64) (mat.Vector, error) { return m.Output(xs, at(us, u), pp, 0) })

	var E *mat.Dense
	if p != nil {
		E = jac(nx, p.Len(), func(q []float64) (mat.Vector, error) { return m.VectorField(xs, us, at(p, q), 0) })
	}

	if ferr != nil {
		return nil, ferr
	}

	return NewContinuous(A, B, C, D, E)
}
