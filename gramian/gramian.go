// Package gramian assembles empirical system gramians from simulated trajectories.
//
// Every gramian is computed by the same sweep: for each parameter sample, perturbation
// scale set and perturbation direction the system is simulated, the resulting trajectory
// is weighted, centered and normalized by the perturbation magnitude and folded into the
// gramian by an inner product kernel. Parameter gramians (sensitivity, identifiability and
// joint) are assembled from the state gramians.
package gramian

import (
	"errors"
	"fmt"

	"github.com/ShenWang9202/emgr"
	"github.com/ShenWang9202/emgr/ode"
	"gonum.org/v1/gonum/mat"
)

var (
	// ErrUnknownType is returned for unknown gramian types
	ErrUnknownType = errors.New("gramian: unknown gramian type")
	// ErrNonSquare is returned when a cross gramian is requested for a non-square system
	ErrNonSquare = errors.New("gramian: non-square system")
	// ErrScaleMismatch is returned when input and adjoint scale counts differ
	ErrScaleMismatch = errors.New("gramian: scale count mismatch")
	// ErrInvalidFlag is returned for out of range option flags
	ErrInvalidFlag = errors.New("gramian: invalid flag")
	// ErrInvalidGrid is returned for invalid time discretizations
	ErrInvalidGrid = errors.New("gramian: invalid time grid")
	// ErrDimensionMismatch is returned when vectors or matrices do not match system dimensions
	ErrDimensionMismatch = errors.New("gramian: dimension mismatch")
	// ErrInvalidModel is returned for nil models or non-positive model dimensions
	ErrInvalidModel = errors.New("gramian: invalid model")
)

// Type is gramian type
type Type rune

const (
	// Controllability is empirical controllability gramian
	Controllability Type = 'c'
	// Observability is empirical observability gramian
	Observability Type = 'o'
	// Cross is empirical cross gramian
	Cross Type = 'x'
	// LinearCross is empirical linear cross gramian
	LinearCross Type = 'y'
	// Sensitivity is empirical sensitivity gramian
	Sensitivity Type = 's'
	// Identifiability is empirical identifiability gramian
	Identifiability Type = 'i'
	// Joint is empirical joint gramian
	Joint Type = 'j'
)

// ParseType returns gramian type encoded by a single character
func ParseType(s string) (Type, error) {
	if len(s) != 1 {
		return 0, fmt.Errorf("%w: %q", ErrUnknownType, s)
	}

	t := Type(s[0] | 0x20)
	if !t.valid() {
		return 0, fmt.Errorf("%w: %q", ErrUnknownType, s)
	}

	return t, nil
}

func (t Type) valid() bool {
	switch t {
	case Controllability, Observability, Cross, LinearCross, Sensitivity, Identifiability, Joint:
		return true
	}

	return false
}

// String implements the Stringer interface.
func (t Type) String() string {
	return string(t)
}

// Config configures gramian computation
type Config struct {
	// Type is gramian type
	Type Type
	// Dt is time step width
	Dt float64
	// Tf is time horizon
	Tf float64
	// Params stores parameter samples in columns; nil means a single zero parameter
	Params *mat.Dense
	// Flags are computation options
	Flags Flags
	// Input is input signal; nil means delta impulse
	Input emgr.Input
	// SteadyInput is steady state input; empty means zero, single value is applied to all inputs
	SteadyInput []float64
	// SteadyState is steady and nominal initial state; empty means zero, single value is applied to all states
	SteadyState []float64
	// InputScales are input scales; empty means one, single value is applied to all inputs
	InputScales []float64
	// StateScales are initial state scales; empty means one, single value is applied to all states
	StateScales []float64
	// InputScaleSets overrides InputScales with explicit scale sets stored in columns
	InputScaleSets *mat.Dense
	// StateScaleSets overrides StateScales with explicit scale sets stored in columns
	StateScaleSets *mat.Dense
	// Kernel is inner product kernel; nil means matrix multiplication
	Kernel emgr.Kernel
	// Solver integrates trajectories; nil means SSP2 with default number of stages
	Solver emgr.Integrator
}

// Grid returns time grid of the configuration
func (c *Config) Grid() ode.Grid {
	return ode.Grid{Dt: c.Dt, Tf: c.Tf}
}

// Validate returns error if the configuration is invalid
func (c *Config) Validate() error {
	if !c.Type.valid() {
		return fmt.Errorf("%w: %q", ErrUnknownType, string(c.Type))
	}

	if err := c.Grid().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidGrid, err)
	}

	if c.Params != nil && c.Params.IsEmpty() {
		return fmt.Errorf("%w: empty parameter ensemble", ErrDimensionMismatch)
	}

	return c.Flags.Validate()
}

// Result is a computed gramian
type Result struct {
	// State is state gramian
	State *mat.Dense
	// Param is parameter gramian; it is nil for controllability, observability,
	// cross and linear cross gramians and for partitioned joint gramians
	Param *mat.Dense
}

// Compute computes empirical gramian of model m configured by c and returns it.
// It returns error if the configuration is invalid or if any of the model functions fails.
func Compute(m emgr.Model, c *Config) (*Result, error) {
	if m == nil {
		return nil, ErrInvalidModel
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	p, err := newProblem(m, c)
	if err != nil {
		return nil, err
	}

	if err := p.normalize(c.Type); err != nil {
		return nil, err
	}

	return p.run(c.Type)
}

// PartitionCount returns number of cross gramian partitions of the given size
// for a system with nx states and np perturbed parameters.
func PartitionCount(nx, np, size int) int {
	if size <= 0 {
		return 1
	}

	return (nx+size-1)/size + (np+size-1)/size
}

func (p problem) run(t Type) (*Result, error) {
	var (
		w   *mat.Dense
		err error
	)

	switch t {
	case Controllability:
		w, err = p.controllability()
	case Observability:
		w, err = p.observability()
	case Cross:
		w, err = p.cross()
	case LinearCross:
		w, err = p.linearCross()
	case Sensitivity:
		return p.sensitivity()
	case Identifiability:
		return p.identifiability()
	case Joint:
		return p.joint()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, string(t))
	}

	if err != nil {
		return nil, err
	}

	return &Result{State: w}, nil
}
