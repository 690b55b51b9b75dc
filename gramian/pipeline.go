package gramian

import (
	"fmt"
	"math"

	"github.com/ShenWang9202/emgr"
	"github.com/ShenWang9202/emgr/matrix"
	"github.com/ShenWang9202/emgr/ode"
	"github.com/ShenWang9202/emgr/scale"
	"github.com/ShenWang9202/emgr/signal"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// problem is a single gramian computation.
// It is copied by value into nested computations; matrices are never modified in place.
type problem struct {
	f, g       emgr.Func
	nu, nx, ny int
	dt, tf     float64
	nt         int
	pr         *mat.Dense
	flags      Flags
	ut         emgr.Input
	us, xs     *mat.VecDense
	um, xm, vm *mat.Dense
	dp         emgr.Kernel
	solver     emgr.Integrator
}

func newProblem(m emgr.Model, c *Config) (*problem, error) {
	nu, nx, ny := m.Dims()
	if nu <= 0 || nx <= 0 || ny <= 0 {
		return nil, fmt.Errorf("%w: dimensions [%d x %d x %d]", ErrInvalidModel, nu, nx, ny)
	}

	grid := c.Grid()
	p := &problem{
		f:      m.VectorField,
		g:      m.Output,
		nu:     nu,
		nx:     nx,
		ny:     ny,
		dt:     c.Dt,
		tf:     c.Tf,
		nt:     grid.Steps(),
		pr:     c.Params,
		flags:  c.Flags,
		ut:     c.Input,
		dp:     c.Kernel,
		solver: c.Solver,
	}

	if p.pr == nil {
		p.pr = mat.NewDense(1, 1, nil)
	}

	if p.ut == nil {
		p.ut = signal.Impulse(c.Dt)
	}

	if n, ok := inputLen(p.ut); !ok || (n != 1 && n != nu) {
		return nil, fmt.Errorf("%w: input signal has length %d, want 1 or %d", ErrDimensionMismatch, n, nu)
	}

	if p.dp == nil {
		p.dp = Mul
	}

	if p.solver == nil {
		p.solver = &ode.SSP2{Stages: ode.DefaultStages}
	}

	var err error
	if p.us, err = expand("steady input", c.SteadyInput, nu, 0.0); err != nil {
		return nil, err
	}

	if p.xs, err = expand("steady state", c.SteadyState, nx, 0.0); err != nil {
		return nil, err
	}

	um, err := expand("input scales", c.InputScales, nu, 1.0)
	if err != nil {
		return nil, err
	}

	xm, err := expand("state scales", c.StateScales, nx, 1.0)
	if err != nil {
		return nil, err
	}

	np, _ := p.pr.Dims()
	in := scale.Scales(c.Flags.InputScales, c.Flags.InputRotation)

	p.um = matrix.Outer(um.RawVector().Data, in)
	if c.InputScaleSets != nil {
		if r, _ := c.InputScaleSets.Dims(); r != nu {
			return nil, fmt.Errorf("%w: input scale sets have %d rows, want %d", ErrDimensionMismatch, r, nu)
		}
		p.um = c.InputScaleSets
	}

	p.xm = matrix.Outer(xm.RawVector().Data, scale.Scales(c.Flags.StateScales, c.Flags.StateRotation))
	if ny <= nx {
		p.vm = matrix.Outer(xm.RawVector().Data[:ny], in)
	}
	if c.StateScaleSets != nil {
		r, cols := c.StateScaleSets.Dims()
		if r != nx && r != nx+np {
			return nil, fmt.Errorf("%w: state scale sets have %d rows, want %d or %d", ErrDimensionMismatch, r, nx, nx+np)
		}
		p.xm = c.StateScaleSets
		p.vm = nil
		if ny <= r {
			p.vm = mat.DenseCopyOf(c.StateScaleSets.Slice(0, ny, 0, cols))
		}
	}

	return p, nil
}

// expand expands v to a vector of length n.
// Empty v yields constant def and a single value is applied to every component.
func expand(name string, v []float64, n int, def float64) (*mat.VecDense, error) {
	e := mat.NewVecDense(n, nil)

	switch len(v) {
	case 0:
		for i := 0; i < n; i++ {
			e.SetVec(i, def)
		}
	case 1:
		for i := 0; i < n; i++ {
			e.SetVec(i, v[0])
		}
	case n:
		copy(e.RawVector().Data, v)
	default:
		return nil, fmt.Errorf("%w: %s has length %d, want 1 or %d", ErrDimensionMismatch, name, len(v), n)
	}

	return e, nil
}

// inputLen returns length of input signal ut at the initial time.
// It returns false if ut returns nil.
func inputLen(ut emgr.Input) (int, bool) {
	u := ut(0)
	if u == nil {
		return 0, false
	}

	return u.Len(), true
}

// forcing is an input signal added to a steady input along a single direction.
// Each perturbation owns its direction so forcings can be simulated concurrently.
type forcing struct {
	// base is steady input
	base *mat.VecDense
	// ut is input signal
	ut emgr.Input
	// extra adds the input signal to every input channel
	extra bool
	// dir is perturbation direction; nil means no perturbation
	dir *mat.VecDense
}

// At returns input at time t
func (f *forcing) At(t float64) mat.Vector {
	u := mat.VecDenseCopyOf(f.base)
	if !f.extra && f.dir == nil {
		return u
	}

	s := f.ut(t)
	at := func(i int) float64 {
		if s.Len() == 1 {
			return s.AtVec(0)
		}
		return s.AtVec(i)
	}

	for i := 0; i < u.Len(); i++ {
		v := u.AtVec(i)
		if f.extra {
			v += at(i)
		}
		if f.dir != nil {
			v += at(i) * f.dir.AtVec(i)
		}
		u.SetVec(i, v)
	}

	return u
}

// steady returns input used for state perturbed trajectories
func (p *problem) steady() *forcing {
	return &forcing{base: p.us, ut: p.ut, extra: p.flags.ExtraInput}
}

// impulse returns input perturbed by scale s along input channel i of a n dimensional input
func (p *problem) impulse(base *mat.VecDense, n, i int, s float64, extra bool) *forcing {
	dir := mat.NewVecDense(n, nil)
	dir.SetVec(i, s)

	return &forcing{base: base, ut: p.ut, extra: extra, dir: dir}
}

// param returns parameter sample k perturbed by scale s along parameter i.
// Out of range i leaves the parameter unperturbed.
func (p *problem) param(k, i int, s float64) *mat.VecDense {
	v := mat.VecDenseCopyOf(p.pr.ColView(k))
	if i >= 0 && i < v.Len() {
		v.SetVec(i, v.AtVec(i)+s)
	}

	return v
}

// simulate integrates vector field f with output functional g
func (p *problem) simulate(f, g emgr.Func, x0 mat.Vector, u *forcing, pk mat.Vector) (*mat.Dense, error) {
	return p.solver.Integrate(f, g, p.dt, p.nt, x0, u.At, pk)
}

// process weights trajectory y, centers it around ref and normalizes it by perturbation scale s
func (p *problem) process(y *mat.Dense, ref mat.Vector, s float64) {
	p.weigh(y)
	p.center(y, ref)
	y.Scale(1.0/s, y)
}

// weigh weights trajectory y in place
func (p *problem) weigh(y *mat.Dense) {
	r, c := y.Dims()

	switch p.flags.Weighting {
	case WeightTimeLinear:
		ts := matrix.Linspace(0, p.tf, c)
		y.Apply(func(i, j int, v float64) float64 { return v * math.Sqrt(ts[j]) }, y)
	case WeightTimeSquared:
		ts := matrix.Linspace(0, p.tf, c)
		y.Apply(func(i, j int, v float64) float64 { return v * ts[j] * math.Sqrt2 }, y)
	case WeightState:
		w := make([]float64, c)
		for j := range w {
			w[j] = floats.Norm(mat.Col(nil, j, y), 2)
		}
		y.Apply(func(i, j int, v float64) float64 { return v * w[j] }, y)
	case WeightScale:
		w := make([]float64, r)
		for i := range w {
			w[i] = 1.0 / math.Max(matrix.Eps, floats.Norm(y.RawRowView(i), math.Inf(1)))
		}
		y.Apply(func(i, j int, v float64) float64 { return v * w[i] }, y)
	}
}

// center subtracts trajectory baseline from every sample of y.
// ref is the steady state or steady output used by steady centering.
func (p *problem) center(y *mat.Dense, ref mat.Vector) {
	r, c := y.Dims()
	b := make([]float64, r)

	switch p.flags.Centering {
	case CenterSteady:
		for i := range b {
			b[i] = ref.AtVec(i)
		}
	case CenterLast:
		mat.Col(b, c-1, y)
	case CenterMean:
		for i, s := range matrix.RowSums(y) {
			b[i] = s / float64(c)
		}
	case CenterRMS:
		for i := range b {
			row := y.RawRowView(i)
			b[i] = math.Sqrt(floats.Dot(row, row) / float64(len(row)))
		}
	default:
		return
	}

	y.Apply(func(i, j int, v float64) float64 { return v - b[i] }, y)
}

// normalize applies steady or Jacobi state normalization to the system
// and clears the normalization flag.
func (p *problem) normalize(t Type) error {
	var tx []float64

	switch p.flags.Normalization {
	case NormSteady:
		tx = mat.Col(nil, 0, p.xs)
	case NormJacobi:
		q := *p
		q.flags.Normalization = NormNone
		q.flags.PartitionSize, q.flags.PartitionIndex = 0, 0
		if t == Controllability || t == Sensitivity {
			q.flags.StateVariant = Regular
		}
		q.dp = Diagonal
		q.pr = meanParam(p.pr)
		// parameter scale rows are not perturbed by the inner call
		if na, nd := q.xm.Dims(); na > p.nx {
			q.xm = mat.DenseCopyOf(q.xm.Slice(0, p.nx, 0, nd))
		}

		inner := t
		switch t {
		case Sensitivity:
			inner = Controllability
		case Identifiability:
			inner = Observability
		case Joint:
			inner = Cross
		}

		w, err := q.run(inner)
		if err != nil {
			return err
		}

		tx = make([]float64, p.nx)
		for i := range tx {
			tx[i] = math.Sqrt(math.Abs(w.State.At(i, 0)))
		}
	default:
		return nil
	}

	for i := range tx {
		if math.Abs(tx[i]) < math.Sqrt(matrix.Eps) {
			tx[i] = 1.0
		}
	}

	scl := mat.NewVecDense(len(tx), tx)
	f, g := p.f, p.g
	p.f = func(x, u, pp mat.Vector, t float64) (mat.Vector, error) {
		xx := mat.NewVecDense(x.Len(), nil)
		xx.MulElemVec(scl, x)
		dx, err := f(xx, u, pp, t)
		if err != nil {
			return nil, err
		}
		out := mat.NewVecDense(dx.Len(), nil)
		out.DivElemVec(dx, scl)

		return out, nil
	}

	adjoint := t == LinearCross
	p.g = func(x, u, pp mat.Vector, t float64) (mat.Vector, error) {
		xx := mat.NewVecDense(x.Len(), nil)
		xx.MulElemVec(scl, x)
		y, err := g(xx, u, pp, t)
		if err != nil || !adjoint {
			return y, err
		}
		out := mat.NewVecDense(y.Len(), nil)
		out.DivElemVec(y, scl)

		return out, nil
	}

	xs := mat.NewVecDense(p.xs.Len(), nil)
	xs.DivElemVec(p.xs, scl)
	p.xs = xs
	p.flags.Normalization = NormNone

	return nil
}

// meanParam returns column mean of parameter ensemble pr
func meanParam(pr *mat.Dense) *mat.Dense {
	r, _ := pr.Dims()
	m := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		m.Set(i, 0, stat.Mean(pr.RawRowView(i), nil))
	}

	return m
}
