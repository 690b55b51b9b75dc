package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDecayPlot(t *testing.T) {
	assert := assert.New(t)

	series := map[string][]float64{
		"controllability": {4.0, 2.0, 0.5},
		"observability":   {1.0, 0.0},
	}

	plt, err := NewDecayPlot("Decay", series)
	assert.NotNil(plt)
	assert.NoError(err)
	assert.Equal("Decay", plt.Title.Text)

	plt, err = NewDecayPlot("Decay", nil)
	assert.Nil(plt)
	assert.Error(err)

	plt, err = NewDecayPlot("Decay", map[string][]float64{"empty": {}})
	assert.Nil(plt)
	assert.Error(err)
}

func TestMakeDecayPoints(t *testing.T) {
	assert := assert.New(t)

	pts := makeDecayPoints([]float64{-4.0, 2.0, 0.0})
	assert.Len(pts, 3)
	assert.Equal(1.0, pts[0].X)
	assert.Equal(1.0, pts[0].Y)
	assert.Equal(0.5, pts[1].Y)
	assert.True(pts[2].Y > 0)
}
