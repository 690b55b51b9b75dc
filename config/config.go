// Package config loads empirical gramian jobs from YAML files.
package config

import (
	"fmt"
	"os"

	"github.com/ShenWang9202/emgr"
	"github.com/ShenWang9202/emgr/gramian"
	"github.com/ShenWang9202/emgr/ode"
	"github.com/ShenWang9202/emgr/rand"
	"github.com/ShenWang9202/emgr/signal"
	"github.com/ShenWang9202/emgr/sim"
	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v3"
)

const (
	DefaultType  = "c"
	DefaultDt    = 0.01
	DefaultTf    = 1.0
	DefaultInput = "i"
)

// Config is an empirical gramian job: a linear system and the gramian computation options
type Config struct {
	Type     string          `yaml:"type"`
	Dt       float64         `yaml:"dt"`
	Tf       float64         `yaml:"tf"`
	Input    string          `yaml:"input"`
	Seed     uint64          `yaml:"seed"`
	Flags    []int           `yaml:"flags"`
	System   SystemConfig    `yaml:"system"`
	Params   [][]float64     `yaml:"params"`
	Ensemble *EnsembleConfig `yaml:"ensemble,omitempty"`
	Scales   ScalesConfig    `yaml:"scales"`
}

// SystemConfig stores matrices of a linear system row by row
type SystemConfig struct {
	A [][]float64 `yaml:"a"`
	B [][]float64 `yaml:"b"`
	C [][]float64 `yaml:"c"`
	D [][]float64 `yaml:"d,omitempty"`
	E [][]float64 `yaml:"e,omitempty"`
}

// EnsembleConfig describes a Gaussian parameter ensemble
type EnsembleConfig struct {
	Mean    []float64   `yaml:"mean"`
	Cov     [][]float64 `yaml:"cov"`
	Samples int         `yaml:"samples"`
}

// ScalesConfig stores steady state and perturbation scales
type ScalesConfig struct {
	SteadyInput []float64 `yaml:"us,omitempty"`
	SteadyState []float64 `yaml:"xs,omitempty"`
	Input       []float64 `yaml:"um,omitempty"`
	State       []float64 `yaml:"xm,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Type:  DefaultType,
		Dt:    DefaultDt,
		Tf:    DefaultTf,
		Input: DefaultInput,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// dense creates matrix from rows and returns it.
// Empty rows yield nil matrix.
func dense(name string, rows [][]float64) (*mat.Dense, error) {
	if len(rows) == 0 {
		return nil, nil
	}

	c := len(rows[0])
	if c == 0 {
		return nil, fmt.Errorf("matrix %s has empty rows", name)
	}

	data := make([]float64, 0, len(rows)*c)
	for i, row := range rows {
		if len(row) != c {
			return nil, fmt.Errorf("matrix %s row %d has %d columns, want %d", name, i, len(row), c)
		}
		data = append(data, row...)
	}

	return mat.NewDense(len(rows), c, data), nil
}

// LinearSystem creates linear system of the job and returns it.
// It returns error if the system matrices are missing or have inconsistent dimensions.
func (c *Config) LinearSystem() (*sim.Continuous, error) {
	m := make([]*mat.Dense, 5)
	for i, r := range []struct {
		name string
		rows [][]float64
	}{
		{"a", c.System.A},
		{"b", c.System.B},
		{"c", c.System.C},
		{"d", c.System.D},
		{"e", c.System.E},
	} {
		d, err := dense(r.name, r.rows)
		if err != nil {
			return nil, err
		}
		m[i] = d
	}

	return sim.NewContinuous(m[0], m[1], m[2], m[3], m[4])
}

// Model returns the model consumed by the job's gramian type.
// Linear cross gramians integrate the adjoint system.
func (c *Config) Model() (emgr.Model, error) {
	sys, err := c.LinearSystem()
	if err != nil {
		return nil, err
	}

	if t, err := gramian.ParseType(c.Type); err == nil && t == gramian.LinearCross {
		adj, err := sys.AdjointSystem()
		if err != nil {
			return nil, err
		}
		return adj, nil
	}

	return sys, nil
}

// Gramian creates gramian configuration of the job and returns it.
// Parameter ensembles are drawn from the job seed when no explicit parameters are given.
func (c *Config) Gramian() (*gramian.Config, error) {
	t, err := gramian.ParseType(c.Type)
	if err != nil {
		return nil, err
	}

	flags, err := gramian.FlagsFromVector(c.Flags)
	if err != nil {
		return nil, err
	}

	src := rand.NewSource(c.Seed)
	grid := ode.Grid{Dt: c.Dt, Tf: c.Tf}
	ut, err := signal.Parse(c.Input, grid, src)
	if err != nil {
		return nil, err
	}

	params, err := dense("params", c.Params)
	if err != nil {
		return nil, err
	}

	if params == nil && c.Ensemble != nil {
		cov, err := dense("cov", c.Ensemble.Cov)
		if err != nil {
			return nil, err
		}
		if cov == nil {
			return nil, fmt.Errorf("ensemble covariance must be defined")
		}
		r, cols := cov.Dims()
		if r != cols {
			return nil, fmt.Errorf("ensemble covariance must be square: [%d x %d]", r, cols)
		}
		sym := mat.NewSymDense(r, cov.RawMatrix().Data)
		if params, err = rand.Ensemble(c.Ensemble.Mean, sym, c.Ensemble.Samples, src); err != nil {
			return nil, err
		}
	}

	return &gramian.Config{
		Type:        t,
		Dt:          c.Dt,
		Tf:          c.Tf,
		Params:      params,
		Flags:       flags,
		Input:       ut,
		SteadyInput: c.Scales.SteadyInput,
		SteadyState: c.Scales.SteadyState,
		InputScales: c.Scales.Input,
		StateScales: c.Scales.State,
	}, nil
}
