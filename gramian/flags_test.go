package gramian

import (
	"testing"

	"github.com/ShenWang9202/emgr/scale"
	"github.com/stretchr/testify/assert"
)

func TestFlagsFromVector(t *testing.T) {
	assert := assert.New(t)

	f, err := FlagsFromVector(nil)
	assert.NoError(err)
	assert.Equal(Flags{}, f)
	assert.Equal(make([]int, NumFlags), f.Vector())

	nf := []int{3, 1, 2, 1, 0, 2, 1, 1, 2, 1, 4, 1, 4}
	f, err = FlagsFromVector(nf)
	assert.NoError(err)
	assert.Equal(CenterMean, f.Centering)
	assert.Equal(scale.Linear, f.InputScales)
	assert.Equal(scale.Geometric, f.StateScales)
	assert.Equal(scale.SingleRotation, f.InputRotation)
	assert.Equal(scale.UnitRotation, f.StateRotation)
	assert.Equal(NormJacobi, f.Normalization)
	assert.Equal(Alternate, f.StateVariant)
	assert.True(f.ExtraInput)
	assert.Equal(scale.LogCentering, f.ParamCentering)
	assert.Equal(Alternate, f.ParamVariant)
	assert.Equal(4, f.PartitionSize)
	assert.Equal(1, f.PartitionIndex)
	assert.Equal(WeightScale, f.Weighting)
	assert.Equal(nf, f.Vector())

	// short vectors are padded
	f, err = FlagsFromVector([]int{1})
	assert.NoError(err)
	assert.Equal(CenterSteady, f.Centering)
	assert.Equal(NormNone, f.Normalization)

	// negative partition index selects an empty partition
	f, err = FlagsFromVector([]int{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, -1})
	assert.NoError(err)
	assert.Equal(-1, f.PartitionIndex)

	invalid := [][]int{
		make([]int, NumFlags+1),
		{5},
		{-1},
		{0, 5},
		{0, 0, 0, 2},
		{0, 0, 0, 0, 0, 3},
		{0, 0, 0, 0, 0, 0, 2},
		{0, 0, 0, 0, 0, 0, 0, 2},
		{0, 0, 0, 0, 0, 0, 0, 0, 3},
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, -1},
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 5},
	}
	for _, nf := range invalid {
		_, err := FlagsFromVector(nf)
		assert.ErrorIs(err, ErrInvalidFlag, "flags %v", nf)
	}
}
