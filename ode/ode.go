// Package ode implements fixed step explicit integrators producing sampled trajectories.
package ode

import (
	"fmt"
	"math"

	"github.com/ShenWang9202/emgr"
	"gonum.org/v1/gonum/mat"
)

// DefaultStages is the default number of SSP2 stages
const DefaultStages = 3

// Grid is a uniform time discretization
type Grid struct {
	// Dt is time step width
	Dt float64
	// Tf is time horizon
	Tf float64
}

// Steps returns the number of time steps of the grid including the initial one.
func (g Grid) Steps() int {
	return int(math.Floor(g.Tf/g.Dt)) + 1
}

// Validate returns error if the grid has non-positive step width or a negative horizon
func (g Grid) Validate() error {
	if !(g.Dt > 0) || math.IsInf(g.Dt, 0) {
		return fmt.Errorf("invalid time step width: %v", g.Dt)
	}

	if !(g.Tf >= 0) || math.IsInf(g.Tf, 0) {
		return fmt.Errorf("invalid time horizon: %v", g.Tf)
	}

	return nil
}

// SSP2 is low-storage strong-stability-preserving second order Runge-Kutta integrator
type SSP2 struct {
	// Stages is number of stages; more stages increase the stability region
	Stages int
}

// NewSSP2 creates new SSP2 integrator with s stages and returns it.
// It returns error if s is smaller than 2.
func NewSSP2(s int) (*SSP2, error) {
	if s < 2 {
		return nil, fmt.Errorf("invalid number of stages: %d", s)
	}

	return &SSP2{Stages: s}, nil
}

// Integrate integrates vector field f from initial state x0 over nt time steps of width dt
// and returns the trajectory of output functional g. Column k of the trajectory is the output
// sampled at step k; the input and parameter are frozen at the step midpoint (k-0.5)*dt.
// It returns the first error returned by either f or g.
func (s *SSP2) Integrate(f, g emgr.Func, dt float64, nt int, x0 mat.Vector, u emgr.Input, p mat.Vector) (*mat.Dense, error) {
	y0, err := g(x0, u(0), p, 0)
	if err != nil {
		return nil, err
	}

	y := mat.NewDense(y0.Len(), nt, nil)
	setCol(y, 0, y0)

	stages := float64(s.Stages)
	sub := stages - 1.0

	xk1 := mat.VecDenseCopyOf(x0)
	xk2 := mat.VecDenseCopyOf(x0)
	for k := 1; k < nt; k++ {
		tk := (float64(k) - 0.5) * dt
		uk := u(tk)

		for i := 0; i < s.Stages-1; i++ {
			dx, err := f(xk1, uk, p, tk)
			if err != nil {
				return nil, err
			}
			xk1.AddScaledVec(xk1, dt/sub, dx)
		}

		dx, err := f(xk1, uk, p, tk)
		if err != nil {
			return nil, err
		}
		xk2.AddScaledVec(xk2, dt, dx)
		xk2.ScaleVec(1.0/stages, xk2)
		xk2.AddScaledVec(xk2, sub/stages, xk1)
		xk1.CopyVec(xk2)

		yk, err := g(xk1, uk, p, tk)
		if err != nil {
			return nil, err
		}
		setCol(y, k, yk)
	}

	return y, nil
}

func setCol(m *mat.Dense, j int, v mat.Vector) {
	for i := 0; i < v.Len(); i++ {
		m.Set(i, j, v.AtVec(i))
	}
}
