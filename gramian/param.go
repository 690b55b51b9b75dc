package gramian

import (
	"github.com/ShenWang9202/emgr/matrix"
	"github.com/ShenWang9202/emgr/scale"
	"gonum.org/v1/gonum/mat"
)

// sensitivity computes controllability gramian and diagonal sensitivity gramian
func (p problem) sensitivity() (*Result, error) {
	_, nc := p.um.Dims()
	pr, pm, err := scale.Params(p.pr, p.flags.ParamCentering, nc)
	if err != nil {
		return nil, err
	}
	p.pr = pr

	wc, err := p.controllability()
	if err != nil {
		return nil, err
	}

	dp := Trace
	if p.flags.ParamVariant == Alternate {
		q := p
		q.dp = passthrough
		o, err := q.observability()
		if err != nil {
			return nil, err
		}
		dp = outputKernel(o, q.rows())
	}

	np, _ := pr.Dims()
	ws := mat.NewDense(np, np, nil)
	for i := 0; i < np; i++ {
		q := p
		q.dp = dp
		q.flags.StateVariant = Regular
		q.um = mat.NewDense(p.nu+np, nc, nil)
		q.um.SetRow(p.nu+i, pm.RawRowView(i))

		w, err := q.controllability()
		if err != nil {
			return nil, err
		}
		ws.Set(i, i, w.At(0, 0))
	}

	return &Result{State: wc, Param: ws}, nil
}

// augmented returns nominal parameter and state scales augmented by parameter scales
func (p *problem) augmented() (*mat.Dense, *mat.Dense, error) {
	_, nd := p.xm.Dims()
	pr, pm, err := scale.Params(p.pr, p.flags.ParamCentering, nd)
	if err != nil {
		return nil, nil, err
	}

	return pr, matrix.Stack(p.xm, pm), nil
}

// identifiability computes observability gramian and identifiability gramian
// as Schur-complement of the augmented observability gramian.
func (p problem) identifiability() (*Result, error) {
	var err error
	if p.pr, p.xm, err = p.augmented(); err != nil {
		return nil, err
	}

	v, err := p.observability()
	if err != nil {
		return nil, err
	}

	n := p.nx
	na, _ := v.Dims()

	wo := mat.DenseCopyOf(v.Slice(0, n, 0, n))
	wi := mat.DenseCopyOf(v.Slice(n, na, n, na))

	if p.flags.ParamVariant == Regular {
		wm := v.Slice(0, n, n, na)
		c := new(mat.Dense)
		c.Product(wm.T(), matrix.ApproxInverse(wo), wm)
		wi.Sub(wi, c)
	}

	return &Result{State: wo, Param: wi}, nil
}

// joint computes cross gramian and cross-identifiability gramian
// as Schur-complement of the augmented cross gramian.
// Partitioned joint gramians are returned unprocessed.
func (p problem) joint() (*Result, error) {
	var err error
	if p.pr, p.xm, err = p.augmented(); err != nil {
		return nil, err
	}

	v, err := p.cross()
	if err != nil {
		return nil, err
	}

	if p.flags.PartitionSize > 0 {
		return &Result{State: v}, nil
	}

	n := p.nx
	_, na := v.Dims()

	wx := mat.DenseCopyOf(v.Slice(0, n, 0, n))
	wm := v.Slice(0, n, n, na)

	wi := new(mat.Dense)
	if p.flags.ParamVariant == Regular {
		sym := new(mat.Dense)
		sym.Add(wx, wx.T())
		wi.Product(wm.T(), matrix.ApproxInverse(sym), wm)
	} else {
		wi.Mul(wm.T(), wm)
	}
	wi.Scale(0.5, wi)

	return &Result{State: wx, Param: wi}, nil
}
