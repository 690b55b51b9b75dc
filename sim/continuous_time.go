package sim

import (
	"fmt"

	"github.com/ShenWang9202/emgr"
	"gonum.org/v1/gonum/mat"
)

// Continuous is a basic model of a linear, continuous-time, dynamical system
type Continuous struct {
	System
}

// NewContinuous creates a linear continuous-time model based on the control theory equations
//
//	dx/dt = A*x + B*u + E*p
//	y = C*x + D*u
//
// D and E are optional. It returns error if any of A, B, C is nil
// or if the matrix dimensions are inconsistent.
func NewContinuous(A, B, C, D, E *mat.Dense) (*Continuous, error) {
	if A == nil || B == nil || C == nil {
		return nil, fmt.Errorf("system, input and output matrices must be defined for a model")
	}

	sys := newSystem(A, B, C, D, E)
	if err := sys.validate(); err != nil {
		return nil, err
	}

	return &Continuous{System: sys}, nil
}

// VectorField returns state derivative of the system at state x given input u and parameter p.
// Parameters are ignored if the system has no parameter matrix.
func (ct *Continuous) VectorField(x, u, p mat.Vector, t float64) (mat.Vector, error) {
	nx, nu, _, np := ct.SystemDims()
	if u.Len() != nu {
		return nil, fmt.Errorf("invalid input vector")
	}

	if x.Len() != nx {
		return nil, fmt.Errorf("invalid state vector")
	}

	out := new(mat.VecDense)
	out.MulVec(ct.A, x)

	outU := new(mat.VecDense)
	outU.MulVec(ct.B, u)
	out.AddVec(out, outU)

	if ct.E != nil {
		if p.Len() != np {
			return nil, fmt.Errorf("invalid parameter vector")
		}
		outP := new(mat.VecDense)
		outP.MulVec(ct.E, p)
		out.AddVec(out, outP)
	}

	return out, nil
}

// Output returns system output at state x given input u
func (ct *Continuous) Output(x, u, p mat.Vector, t float64) (mat.Vector, error) {
	return ct.Observe(x, u)
}

// Adjoint returns adjoint vector field A^T*x + C^T*u at state x given adjoint input u
func (ct *Continuous) Adjoint(x, u, p mat.Vector, t float64) (mat.Vector, error) {
	nx, _, ny, _ := ct.SystemDims()
	if u.Len() != ny {
		return nil, fmt.Errorf("invalid adjoint input vector")
	}

	if x.Len() != nx {
		return nil, fmt.Errorf("invalid state vector")
	}

	out := new(mat.VecDense)
	out.MulVec(ct.A.T(), x)

	outU := new(mat.VecDense)
	outU.MulVec(ct.C.T(), u)
	out.AddVec(out, outU)

	return out, nil
}

// Dims returns number of inputs, states and outputs
func (ct *Continuous) Dims() (nu, nx, ny int) {
	nx, nu, ny, _ = ct.SystemDims()
	return nu, nx, ny
}

// AdjointSystem returns the system whose output functional is the adjoint vector field.
// It is the model consumed by the linear cross gramian.
func (ct *Continuous) AdjointSystem() (*emgr.System, error) {
	nu, nx, ny := ct.Dims()
	return emgr.NewSystem(ct.VectorField, ct.Adjoint, nu, nx, ny)
}
