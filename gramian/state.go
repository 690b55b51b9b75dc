package gramian

import (
	"fmt"

	"github.com/ShenWang9202/emgr"
	"github.com/ShenWang9202/emgr/matrix"
	"gonum.org/v1/gonum/mat"
)

// accumulator sums kernel contributions of a perturbation sweep
type accumulator struct {
	w *mat.Dense
}

func (a *accumulator) add(m mat.Matrix) {
	if a.w == nil {
		a.w = mat.DenseCopyOf(m)
		return
	}
	a.w.Add(a.w, m)
}

// scaled returns the accumulated sum scaled by s.
// Empty sweeps return zero r x c matrix.
func (a *accumulator) scaled(s float64, r, c int) *mat.Dense {
	if a.w == nil {
		return mat.NewDense(r, c, nil)
	}
	a.w.Scale(s, a.w)

	return a.w
}

// nonzero returns indices of non-zero entries in column j of m between rows from and to
func nonzero(m *mat.Dense, j, from, to int) []int {
	var idx []int
	for i := from; i < to; i++ {
		if m.At(i, j) != 0 {
			idx = append(idx, i)
		}
	}

	return idx
}

// rows returns number of trajectory rows per time step
func (p *problem) rows() int {
	if p.flags.StateVariant == Alternate {
		return 1
	}

	return p.ny
}

// controllability computes empirical controllability gramian.
// Input scale rows beyond the number of inputs perturb parameters.
func (p *problem) controllability() (*mat.Dense, error) {
	r, nc := p.um.Dims()
	_, nk := p.pr.Dims()

	out := p.flags.StateVariant == Alternate
	g, n := emgr.Func(emgr.Identity), p.nx
	if out {
		g, n = p.g, p.ny
	}

	acc := &accumulator{}
	for k := 0; k < nk; k++ {
		for c := 0; c < nc; c++ {
			for _, m := range nonzero(p.um, c, 0, r) {
				s := p.um.At(m, c)

				u := &forcing{base: p.us, ut: p.ut, extra: p.flags.ExtraInput}
				if m < p.nu {
					u = p.impulse(p.us, p.nu, m, s, p.flags.ExtraInput)
				}
				pk := p.param(k, m-p.nu, s)

				x, err := p.simulate(p.f, g, p.xs, u, pk)
				if err != nil {
					return nil, err
				}

				var ref mat.Vector = p.xs
				if out {
					if ref, err = p.g(p.xs, p.us, pk, 0); err != nil {
						return nil, err
					}
				}

				p.process(x, ref, s)
				acc.add(p.dp(x, x.T()))
			}
		}
	}

	return acc.scaled(p.dt/float64(nc*nk), n, n), nil
}

// observability computes empirical observability gramian.
// State scale rows beyond the number of states perturb parameters.
func (p *problem) observability() (*mat.Dense, error) {
	na, nd := p.xm.Dims()
	_, nk := p.pr.Dims()
	nr := p.rows()

	acc := &accumulator{}
	for k := 0; k < nk; k++ {
		for d := 0; d < nd; d++ {
			idx := nonzero(p.xm, d, 0, na)
			if len(idx) == 0 {
				continue
			}

			o := mat.NewDense(nr*p.nt, na, nil)
			for _, n := range idx {
				y, err := p.response(k, n, d)
				if err != nil {
					return nil, err
				}

				if nr == 1 {
					o.SetCol(n, matrix.ColSums(y))
					continue
				}

				col := make([]float64, nr*p.nt)
				for t := 0; t < p.nt; t++ {
					for q := 0; q < p.ny; q++ {
						col[t*nr+q] = y.At(q, t)
					}
				}
				o.SetCol(n, col)
			}

			acc.add(p.dp(o.T(), o))
		}
	}

	return acc.scaled(p.dt/float64(nd*nk), na, na), nil
}

// response simulates output response to perturbation of state (or augmented parameter) n
// by scale set d for parameter sample k.
func (p *problem) response(k, n, d int) (*mat.Dense, error) {
	s := p.xm.At(n, d)

	x0 := mat.VecDenseCopyOf(p.xs)
	pk := p.param(k, n-p.nx, s)
	if n < p.nx {
		x0.SetVec(n, x0.AtVec(n)+s)
	}

	y, err := p.simulate(p.f, p.g, x0, p.steady(), pk)
	if err != nil {
		return nil, err
	}

	ref, err := p.g(p.xs, p.us, pk, 0)
	if err != nil {
		return nil, err
	}
	p.process(y, ref, s)

	return y, nil
}

// partition returns the range of perturbed states of the cross gramian partition.
// Partitions cover states first and continue with augmented parameters.
// It returns false for out of range partitions.
func (p *problem) partition(na int) (int, int, bool) {
	sp := p.flags.PartitionSize
	if sp <= 0 {
		return 0, na, true
	}

	ip := p.flags.PartitionIndex
	i0 := ip * sp
	i1 := min(i0+sp, p.nx)
	if i0 >= p.nx {
		i0 -= (p.nx+sp-1)/sp*sp - p.nx
		i1 = min(i0+sp, na)
	}

	if ip < 0 || i0 >= i1 {
		return 0, 0, false
	}

	return i0, i1, true
}

// cross computes empirical cross gramian or one of its column partitions.
func (p *problem) cross() (*mat.Dense, error) {
	if p.nu != p.ny && p.flags.StateVariant != Alternate {
		return nil, fmt.Errorf("%w: %d inputs, %d outputs", ErrNonSquare, p.nu, p.ny)
	}

	if r, _ := p.um.Dims(); r != p.nu {
		return nil, fmt.Errorf("%w: input scales have %d rows, want %d", ErrDimensionMismatch, r, p.nu)
	}

	na, nd := p.xm.Dims()
	_, nc := p.um.Dims()
	_, nk := p.pr.Dims()
	nr := p.rows()

	i0, i1, ok := p.partition(na)
	if !ok {
		return mat.NewDense(p.nx, p.flags.PartitionSize, nil), nil
	}

	type impulseResponse struct {
		m int
		x *mat.Dense
	}

	acc := &accumulator{}
	for k := 0; k < nk; k++ {
		// input responses do not depend on the state scale set
		var resp []impulseResponse
		for c := 0; c < nc; c++ {
			for _, m := range nonzero(p.um, c, 0, p.nu) {
				s := p.um.At(m, c)
				x, err := p.simulate(p.f, emgr.Identity, p.xs, p.impulse(p.us, p.nu, m, s, false), p.pr.ColView(k))
				if err != nil {
					return nil, err
				}
				p.process(x, p.xs, s)
				resp = append(resp, impulseResponse{m: m, x: x})
			}
		}

		for d := 0; d < nd; d++ {
			o := make([]*mat.Dense, nr)
			for q := range o {
				o[q] = mat.NewDense(p.nt, i1-i0, nil)
			}

			for _, n := range nonzero(p.xm, d, i0, i1) {
				y, err := p.response(k, n, d)
				if err != nil {
					return nil, err
				}

				if nr == 1 {
					o[0].SetCol(n-i0, matrix.ColSums(y))
					continue
				}

				for q := 0; q < p.ny; q++ {
					o[q].SetCol(n-i0, y.RawRowView(q))
				}
			}

			for _, r := range resp {
				if nr == 1 {
					acc.add(p.dp(r.x, o[0]))
				} else {
					acc.add(p.dp(r.x, o[r.m]))
				}
			}
		}
	}

	return acc.scaled(p.dt/float64(nc*nd*nk), p.nx, i1-i0), nil
}

// linearCross computes empirical linear cross gramian.
// The output functional is integrated as adjoint vector field.
func (p *problem) linearCross() (*mat.Dense, error) {
	if p.nu != p.ny && p.flags.StateVariant != Alternate {
		return nil, fmt.Errorf("%w: %d inputs, %d outputs", ErrNonSquare, p.nu, p.ny)
	}

	if n, _ := inputLen(p.ut); n != 1 && n != p.ny {
		return nil, fmt.Errorf("%w: input signal has length %d, adjoint inputs need 1 or %d", ErrDimensionMismatch, n, p.ny)
	}

	if p.vm == nil {
		return nil, fmt.Errorf("%w: adjoint scales need %d state scale rows", ErrDimensionMismatch, p.ny)
	}

	if r, _ := p.um.Dims(); r != p.nu {
		return nil, fmt.Errorf("%w: input scales have %d rows, want %d", ErrDimensionMismatch, r, p.nu)
	}

	_, nc := p.um.Dims()
	if _, nv := p.vm.Dims(); nc != nv {
		return nil, fmt.Errorf("%w: %d input scale sets, %d adjoint scale sets", ErrScaleMismatch, nc, nv)
	}

	_, nk := p.pr.Dims()
	nonsym := p.flags.StateVariant == Alternate

	base := p.us
	if p.nu != p.ny {
		base = mat.NewVecDense(p.ny, nil)
	}

	acc := &accumulator{}
	for k := 0; k < nk; k++ {
		pk := p.pr.ColView(k)
		for c := 0; c < nc; c++ {
			a := make([]*mat.Dense, p.ny)
			for _, q := range nonzero(p.vm, c, 0, p.ny) {
				s := p.vm.At(q, c)
				z, err := p.simulate(p.g, emgr.Identity, p.xs, p.impulse(base, p.ny, q, s, false), pk)
				if err != nil {
					return nil, err
				}
				p.process(z, p.xs, s)

				switch {
				case !nonsym:
					a[q] = z
				case a[0] == nil:
					a[0] = z
				default:
					a[0].Add(a[0], z)
				}
			}

			for _, m := range nonzero(p.um, c, 0, p.nu) {
				z := a[0]
				if !nonsym {
					z = a[m]
				}
				if z == nil {
					continue
				}

				s := p.um.At(m, c)
				x, err := p.simulate(p.f, emgr.Identity, p.xs, p.impulse(p.us, p.nu, m, s, false), pk)
				if err != nil {
					return nil, err
				}
				p.process(x, p.xs, s)
				acc.add(p.dp(x, z.T()))
			}
		}
	}

	return acc.scaled(p.dt/float64(nc*nk), p.nx, p.nx), nil
}
