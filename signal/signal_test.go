package signal

import (
	"math"
	"testing"

	"github.com/ShenWang9202/emgr/ode"
	"github.com/ShenWang9202/emgr/rand"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImpulse(t *testing.T) {
	assert := assert.New(t)

	u := Impulse(0.1)
	assert.Equal(1, u(0).Len())
	assert.InDelta(10.0, u(0).AtVec(0), 1e-12)
	assert.InDelta(10.0, u(0.05).AtVec(0), 1e-12)
	assert.Equal(0.0, u(0.15).AtVec(0))
}

func TestStep(t *testing.T) {
	assert := assert.New(t)

	u := Step()
	for _, tk := range []float64{0, 0.5, 100} {
		assert.Equal(1.0, u(tk).AtVec(0))
	}
}

func TestSinc(t *testing.T) {
	assert := assert.New(t)

	u := Sinc(0.1)
	assert.Equal(0.0, u(0).AtVec(0))
	assert.InDelta(math.Sin(2.0)/2.0, u(0.2).AtVec(0), 1e-12)
}

func TestChirp(t *testing.T) {
	assert := assert.New(t)

	u := Chirp(ode.Grid{Dt: 0.01, Tf: 1.0})
	// chirp starts at its maximum and stays within [0, 1]
	assert.InDelta(1.0, u(0).AtVec(0), 1e-12)
	for k := 0; k <= 100; k++ {
		v := u(float64(k) * 0.01).AtVec(0)
		assert.True(v >= 0.0 && v <= 1.0)
	}
}

func TestPRBS(t *testing.T) {
	assert := assert.New(t)

	g := ode.Grid{Dt: 0.1, Tf: 1.0}
	u, err := PRBS(g, rand.NewSource(3))
	require.NoError(t, err)

	for k := 0; k < g.Steps(); k++ {
		v := u((float64(k) + 0.5) * g.Dt).AtVec(0)
		assert.True(v == 0.0 || v == 1.0)
	}
	// out of horizon times hold the last value
	assert.Equal(u(1.05).AtVec(0), u(5.0).AtVec(0))

	u, err = PRBS(ode.Grid{Dt: 0, Tf: 1}, nil)
	assert.Nil(u)
	assert.Error(err)
}

func TestParse(t *testing.T) {
	assert := assert.New(t)

	g := ode.Grid{Dt: 0.1, Tf: 1.0}
	for _, name := range []string{"", "i", "s", "c", "a", "r"} {
		u, err := Parse(name, g, nil)
		assert.NoError(err)
		assert.NotNil(u)
	}

	u, err := Parse("x", g, nil)
	assert.Nil(u)
	assert.Error(err)
}
