package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ShenWang9202/emgr/gramian"
	"github.com/ShenWang9202/emgr/scale"
	"github.com/ShenWang9202/emgr/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const job = `
type: x
dt: 0.05
tf: 4
input: s
seed: 7
flags: [0, 0, 0, 1]
system:
  a: [[-1, 0.5], [0, -2]]
  b: [[1], [1]]
  c: [[1, 0.5]]
  e: [[1], [0]]
params: [[0.5, 1.0]]
scales:
  xs: [0.1]
  um: [2]
`

func write(t *testing.T, data string) string {
	path := filepath.Join(t.TempDir(), "job.yaml")
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	assert := assert.New(t)

	cfg := DefaultConfig()
	assert.Equal(DefaultType, cfg.Type)
	assert.Equal(DefaultDt, cfg.Dt)
	assert.Equal(DefaultTf, cfg.Tf)
	assert.Equal(DefaultInput, cfg.Input)
}

func TestLoad(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	cfg, err := Load(write(t, job))
	require.NoError(err)
	assert.Equal("x", cfg.Type)
	assert.Equal(0.05, cfg.Dt)
	assert.Equal(4.0, cfg.Tf)
	assert.Equal(uint64(7), cfg.Seed)
	assert.Equal([]int{0, 0, 0, 1}, cfg.Flags)
	assert.Equal([]float64{0.1}, cfg.Scales.SteadyState)

	sys, err := cfg.LinearSystem()
	require.NoError(err)
	nx, nu, ny, np := sys.SystemDims()
	assert.Equal(2, nx)
	assert.Equal(1, nu)
	assert.Equal(1, ny)
	assert.Equal(1, np)

	g, err := cfg.Gramian()
	require.NoError(err)
	assert.Equal(gramian.Cross, g.Type)
	assert.Equal(scale.SingleRotation, g.Flags.InputRotation)
	assert.Equal([]float64{2}, g.InputScales)
	assert.Equal(1.0, g.Input(10.0).AtVec(0))
	r, c := g.Params.Dims()
	assert.Equal(1, r)
	assert.Equal(2, c)

	m, err := cfg.Model()
	require.NoError(err)
	_, ok := m.(*sim.Continuous)
	assert.True(ok)

	w, err := gramian.Compute(m, g)
	require.NoError(err)
	r, c = w.State.Dims()
	assert.Equal(2, r)
	assert.Equal(2, c)

	// defaults survive partial files
	cfg, err = Load(write(t, "type: o\n"))
	require.NoError(err)
	assert.Equal(DefaultDt, cfg.Dt)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(err)

	_, err = Load(write(t, "dt: [1"))
	assert.Error(err)
}

func TestSave(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	cfg, err := Load(write(t, job))
	require.NoError(err)

	path := filepath.Join(t.TempDir(), "saved.yaml")
	require.NoError(Save(path, cfg))

	saved, err := Load(path)
	require.NoError(err)
	assert.Equal(cfg, saved)
}

func TestModel(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	cfg, err := Load(write(t, job))
	require.NoError(err)

	cfg.Type = "y"
	m, err := cfg.Model()
	require.NoError(err)
	_, ok := m.(*sim.Continuous)
	assert.False(ok)

	cfg.System.B = [][]float64{{1}, {1, 2}}
	_, err = cfg.Model()
	assert.Error(err)

	cfg.System.A = nil
	_, err = cfg.LinearSystem()
	assert.Error(err)
}

func TestGramianErrors(t *testing.T) {
	assert := assert.New(t)

	cfg := DefaultConfig()
	cfg.Type = "q"
	_, err := cfg.Gramian()
	assert.ErrorIs(err, gramian.ErrUnknownType)

	cfg = DefaultConfig()
	cfg.Flags = []int{9}
	_, err = cfg.Gramian()
	assert.ErrorIs(err, gramian.ErrInvalidFlag)

	cfg = DefaultConfig()
	cfg.Input = "q"
	_, err = cfg.Gramian()
	assert.Error(err)

	cfg = DefaultConfig()
	cfg.Params = [][]float64{{1, 2}, {3}}
	_, err = cfg.Gramian()
	assert.Error(err)

	cfg = DefaultConfig()
	cfg.Ensemble = &EnsembleConfig{Mean: []float64{1}, Samples: 3}
	_, err = cfg.Gramian()
	assert.Error(err)
}

func TestEnsemble(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	cfg := DefaultConfig()
	cfg.Seed = 42
	cfg.Ensemble = &EnsembleConfig{
		Mean:    []float64{1.0, 2.0},
		Cov:     [][]float64{{0.1, 0}, {0, 0.1}},
		Samples: 5,
	}

	g, err := cfg.Gramian()
	require.NoError(err)
	r, c := g.Params.Dims()
	assert.Equal(2, r)
	assert.Equal(5, c)

	// same seed draws the same ensemble
	h, err := cfg.Gramian()
	require.NoError(err)
	assert.Equal(g.Params.RawMatrix().Data, h.Params.RawMatrix().Data)
}
