package gramian

import (
	"math"

	"github.com/ShenWang9202/emgr"
	"gonum.org/v1/gonum/mat"
)

// Mul is the default kernel: matrix product x*y
func Mul(x, y mat.Matrix) mat.Matrix {
	m := new(mat.Dense)
	m.Mul(x, y)

	return m
}

// Diagonal computes only the diagonal of the matrix product x*y and returns it as a column matrix.
// It panics if the dimensions of y do not match the transpose of x.
func Diagonal(x, y mat.Matrix) mat.Matrix {
	r, c := x.Dims()
	yr, yc := y.Dims()
	if yr != c || yc != r {
		panic(mat.ErrShape)
	}

	d := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		var s float64
		for j := 0; j < c; j++ {
			s += x.At(i, j) * y.At(j, i)
		}
		d.Set(i, 0, s)
	}

	return d
}

// Trace computes trace of the matrix product x*y and returns it as a 1x1 matrix.
// It panics if the dimensions of y do not match the transpose of x.
func Trace(x, y mat.Matrix) mat.Matrix {
	return mat.NewDense(1, 1, []float64{mat.Sum(Diagonal(x, y))})
}

// passthrough folds the right hand side only
func passthrough(x, y mat.Matrix) mat.Matrix {
	return y
}

// outputKernel returns kernel which weights state trajectories by observability trajectory o.
// o stores r output rows per time step; outputs are summed before weighting.
func outputKernel(o *mat.Dense, r int) emgr.Kernel {
	rows, cols := o.Dims()
	nt := rows / r

	avg := mat.NewDense(nt, cols, nil)
	for t := 0; t < nt; t++ {
		for q := 0; q < r; q++ {
			for j := 0; j < cols; j++ {
				avg.Set(t, j, avg.At(t, j)+o.At(t*r+q, j))
			}
		}
	}

	return func(x, y mat.Matrix) mat.Matrix {
		w := new(mat.Dense)
		w.MulElem(y, avg)

		return mat.NewDense(1, 1, []float64{math.Abs(mat.Sum(w))})
	}
}
