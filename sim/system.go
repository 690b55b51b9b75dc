package sim

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// System defines a linear model of a plant using
// traditional matrices of modern control theory.
//
// It contains the System (A), input (B), Observation/Output (C),
// Feedthrough (D) and parameter (E) matrices.
type System struct {
	// System/State matrix A
	A *mat.Dense
	// Control/Input Matrix B
	B *mat.Dense
	// Observation/Output Matrix C
	C *mat.Dense
	// Feedthrough matrix D
	D *mat.Dense
	// Parameter matrix E
	E *mat.Dense
}

func newSystem(A, B, C, D, E *mat.Dense) System {
	sys := System{A: mat.DenseCopyOf(A), B: mat.DenseCopyOf(B), C: mat.DenseCopyOf(C)}
	if D != nil {
		sys.D = mat.DenseCopyOf(D)
	}
	if E != nil {
		sys.E = mat.DenseCopyOf(E)
	}
	return sys
}

// validate checks the system matrices have consistent dimensions
func (s System) validate() error {
	ar, ac := s.A.Dims()
	if ar != ac {
		return fmt.Errorf("system matrix must be square: [%d x %d]", ar, ac)
	}

	if br, _ := s.B.Dims(); br != ar {
		return fmt.Errorf("invalid input matrix rows: %d, want %d", br, ar)
	}

	if _, cc := s.C.Dims(); cc != ar {
		return fmt.Errorf("invalid output matrix columns: %d, want %d", cc, ar)
	}

	if s.D != nil {
		dr, dc := s.D.Dims()
		cr, _ := s.C.Dims()
		_, bc := s.B.Dims()
		if dr != cr || dc != bc {
			return fmt.Errorf("invalid feedthrough matrix dimensions: [%d x %d]", dr, dc)
		}
	}

	if s.E != nil {
		if er, _ := s.E.Dims(); er != ar {
			return fmt.Errorf("invalid parameter matrix rows: %d, want %d", er, ar)
		}
	}

	return nil
}

// SystemDims returns internal state length (nx), input vector length (nu),
// output vector length (ny) and parameter vector length (np).
func (s System) SystemDims() (nx, nu, ny, np int) {
	nx, _ = s.A.Dims()
	_, nu = s.B.Dims()
	ny, _ = s.C.Dims()
	if s.E != nil {
		_, np = s.E.Dims()
	}
	return nx, nu, ny, np
}

// SystemMatrix returns state propagation matrix `A`.
func (s System) SystemMatrix() (A mat.Matrix) { return s.A }

// ControlMatrix returns state propagation control matrix `B`
func (s System) ControlMatrix() (B mat.Matrix) { return s.B }

// OutputMatrix returns observation matrix `C`
func (s System) OutputMatrix() (C mat.Matrix) { return s.C }

// FeedForwardMatrix returns observation control matrix `D`
func (s System) FeedForwardMatrix() (D mat.Matrix) {
	if s.D == nil {
		return nil
	}
	return s.D
}

// ParamMatrix returns parameter matrix `E`
func (s System) ParamMatrix() (E mat.Matrix) {
	if s.E == nil {
		return nil
	}
	return s.E
}

// Observe returns output given internal state x and input u.
func (s System) Observe(x, u mat.Vector) (mat.Vector, error) {
	nx, nu, _, _ := s.SystemDims()
	if u != nil && u.Len() != nu {
		return nil, fmt.Errorf("invalid input vector")
	}

	if x.Len() != nx {
		return nil, fmt.Errorf("invalid state vector")
	}

	out := new(mat.VecDense)
	out.MulVec(s.C, x)

	if u != nil && s.D != nil {
		outU := new(mat.VecDense)
		outU.MulVec(s.D, u)

		out.AddVec(out, outU)
	}

	return out, nil
}
