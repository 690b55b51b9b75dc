package sim

import (
	"fmt"

	"github.com/milosgajdos/matrix"
	"gonum.org/v1/gonum/mat"
)

// Sylvester solves the Sylvester equation A*X + X*B = C for X and returns it.
// A is n x n, B is m x m and C is n x m. The equation is solved as a linear system
// of size n*m, so it is meant for small reference systems only.
// It returns error if the dimensions do not match or the equation is singular.
func Sylvester(A, B, C mat.Matrix) (*mat.Dense, error) {
	n, ac := A.Dims()
	m, bc := B.Dims()
	cr, cc := C.Dims()
	if n != ac || m != bc || cr != n || cc != m {
		return nil, fmt.Errorf("invalid sylvester dimensions: A [%d x %d], B [%d x %d], C [%d x %d]", n, ac, m, bc, cr, cc)
	}

	In, err := matrix.NewDenseValIdentity(n, 1.0)
	if err != nil {
		return nil, err
	}

	Im, err := matrix.NewDenseValIdentity(m, 1.0)
	if err != nil {
		return nil, err
	}

	// vec(A*X + X*B) = (Im ⊗ A + B^T ⊗ In) vec(X) with column-major vec
	K := new(mat.Dense)
	K.Kronecker(Im, A)
	KB := new(mat.Dense)
	KB.Kronecker(B.T(), In)
	K.Add(K, KB)

	c := mat.NewVecDense(n*m, nil)
	for j := 0; j < m; j++ {
		for i := 0; i < n; i++ {
			c.SetVec(j*n+i, C.At(i, j))
		}
	}

	x := new(mat.VecDense)
	if err := x.SolveVec(K, c); err != nil {
		return nil, fmt.Errorf("failed to solve sylvester equation: %v", err)
	}

	X := mat.NewDense(n, m, nil)
	for j := 0; j < m; j++ {
		for i := 0; i < n; i++ {
			X.Set(i, j, x.AtVec(j*n+i))
		}
	}

	return X, nil
}

// ControllabilityGramian returns controllability gramian of a stable system
// which solves A*W + W*A^T = -B*B^T.
func (s System) ControllabilityGramian() (*mat.Dense, error) {
	Q := new(mat.Dense)
	Q.Mul(s.B, s.B.T())
	Q.Scale(-1.0, Q)

	return Sylvester(s.A, s.A.T(), Q)
}

// ObservabilityGramian returns observability gramian of a stable system
// which solves A^T*W + W*A = -C^T*C.
func (s System) ObservabilityGramian() (*mat.Dense, error) {
	Q := new(mat.Dense)
	Q.Mul(s.C.T(), s.C)
	Q.Scale(-1.0, Q)

	return Sylvester(s.A.T(), s.A, Q)
}

// CrossGramian returns cross gramian of a stable square system
// which solves A*W + W*A = -B*C.
// It returns error if the system does not have the same number of inputs and outputs.
func (s System) CrossGramian() (*mat.Dense, error) {
	_, nu, ny, _ := s.SystemDims()
	if nu != ny {
		return nil, fmt.Errorf("cross gramian requires square system: %d inputs, %d outputs", nu, ny)
	}

	Q := new(mat.Dense)
	Q.Mul(s.B, s.C)
	Q.Scale(-1.0, Q)

	return Sylvester(s.A, s.A, Q)
}
