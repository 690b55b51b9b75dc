// Package signal provides built-in input signals for empirical gramian computations.
package signal

import (
	"fmt"
	"math"

	"github.com/ShenWang9202/emgr"
	"github.com/ShenWang9202/emgr/ode"
	"github.com/ShenWang9202/emgr/rand"
	xrand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

func scalar(v float64) mat.Vector {
	return mat.NewVecDense(1, []float64{v})
}

// Impulse returns a discrete delta impulse of width dt
func Impulse(dt float64) emgr.Input {
	return func(t float64) mat.Vector {
		if t <= dt {
			return scalar(1.0 / dt)
		}
		return scalar(0.0)
	}
}

// Step returns a unit step input
func Step() emgr.Input {
	return func(t float64) mat.Vector {
		return scalar(1.0)
	}
}

// Chirp returns a decaying exponential chirp over time grid g
func Chirp(g ode.Grid) emgr.Input {
	a0 := (2.0 * math.Pi) / (4.0 * g.Dt) * g.Tf / math.Log(4.0*(g.Dt/g.Tf))
	b0 := math.Pow(4.0*(g.Dt/g.Tf), 1.0/g.Tf)

	return func(t float64) mat.Vector {
		return scalar(0.5*math.Cos(a0*(math.Pow(b0, t)-1.0)) + 0.5)
	}
}

// Sinc returns a sinc input scaled to time step width dt
func Sinc(dt float64) emgr.Input {
	return func(t float64) mat.Vector {
		if t == 0 {
			return scalar(0.0)
		}
		return scalar(math.Sin(t/dt) / (t / dt))
	}
}

// PRBS returns a pseudo-random binary input holding one random value per time step of grid g.
// If src is nil a time seeded source is used.
func PRBS(g ode.Grid, src xrand.Source) (emgr.Input, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}

	nt := g.Steps()
	rt, err := rand.Binary(nt, src)
	if err != nil {
		return nil, err
	}

	return func(t float64) mat.Vector {
		k := int(math.Floor(t / g.Dt))
		k = max(0, min(k, nt-1))
		return scalar(rt[k])
	}, nil
}

// Parse returns built-in input signal encoded by name over time grid g:
//   - "i": delta impulse
//   - "s": step
//   - "c": decaying exponential chirp
//   - "a": sinc
//   - "r": pseudo-random binary
//
// src seeds the pseudo-random binary input and is ignored otherwise.
// It returns error if the name is not known or the grid is invalid.
func Parse(name string, g ode.Grid, src xrand.Source) (emgr.Input, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}

	switch name {
	case "", "i":
		return Impulse(g.Dt), nil
	case "s":
		return Step(), nil
	case "c":
		return Chirp(g), nil
	case "a":
		return Sinc(g.Dt), nil
	case "r":
		return PRBS(g, src)
	}

	return nil, fmt.Errorf("unknown input signal: %q", name)
}
