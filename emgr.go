// Package emgr computes empirical system gramians of nonlinear input-output systems.
package emgr

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Version is the version of the empirical gramian framework
const Version = "5.8"

// Func is a system function evaluated at state x, input u, parameter p and time t.
// It is used both as a vector field x' = f(x,u,p,t) and as an output functional y = g(x,u,p,t).
type Func func(x, u, p mat.Vector, t float64) (mat.Vector, error)

// Input is a time dependent input signal.
// Signals of length 1 are applied to every input channel.
type Input func(t float64) mat.Vector

// Kernel is an inner product (or kernel) which folds two trajectory matrices.
type Kernel func(x, y mat.Matrix) mat.Matrix

// Model is a nonlinear input-output dynamical system
type Model interface {
	// VectorField returns state derivative
	VectorField(x, u, p mat.Vector, t float64) (mat.Vector, error)
	// Output returns system output
	Output(x, u, p mat.Vector, t float64) (mat.Vector, error)
	// Dims returns number of inputs, states and outputs
	Dims() (nu, nx, ny int)
}

// Integrator integrates a vector field f over nt time steps of width dt
// and samples the output functional g at every step.
type Integrator interface {
	// Integrate returns trajectory matrix with one output sample per column
	Integrate(f, g Func, dt float64, nt int, x0 mat.Vector, u Input, p mat.Vector) (*mat.Dense, error)
}

// System is a Model defined by a pair of system functions
type System struct {
	// F is vector field
	F Func
	// G is output functional
	G Func
	nu, nx, ny int
}

// NewSystem creates new System from vector field f and output functional g and returns it.
// If g is nil, the output is the state itself and ny is ignored.
// It returns error if any of the dimensions is non-positive or f is nil.
func NewSystem(f, g Func, nu, nx, ny int) (*System, error) {
	if f == nil {
		return nil, fmt.Errorf("vector field must be defined for a system")
	}

	if g == nil {
		g, ny = Identity, nx
	}

	if nu <= 0 || nx <= 0 || ny <= 0 {
		return nil, fmt.Errorf("invalid system dimensions: [%d x %d x %d]", nu, nx, ny)
	}

	return &System{F: f, G: g, nu: nu, nx: nx, ny: ny}, nil
}

// VectorField returns state derivative
func (s *System) VectorField(x, u, p mat.Vector, t float64) (mat.Vector, error) {
	return s.F(x, u, p, t)
}

// Output returns system output
func (s *System) Output(x, u, p mat.Vector, t float64) (mat.Vector, error) {
	return s.G(x, u, p, t)
}

// Dims returns number of inputs, states and outputs
func (s *System) Dims() (nu, nx, ny int) {
	return s.nu, s.nx, s.ny
}

// Identity is an output functional which returns the state
func Identity(x, u, p mat.Vector, t float64) (mat.Vector, error) {
	return x, nil
}
