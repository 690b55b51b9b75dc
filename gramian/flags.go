package gramian

import (
	"fmt"

	"github.com/ShenWang9202/emgr/scale"
)

// NumFlags is the length of the option flag vector
const NumFlags = 13

// Centering selects trajectory centering
type Centering int

const (
	// CenterNone does not center trajectories
	CenterNone Centering = iota
	// CenterSteady centers trajectories around steady state or steady output
	CenterSteady
	// CenterLast centers trajectories around their final sample
	CenterLast
	// CenterMean centers trajectories around their temporal mean
	CenterMean
	// CenterRMS centers trajectories around their temporal root mean square
	CenterRMS
)

// Normalization selects system normalization applied before the sweep
type Normalization int

const (
	// NormNone leaves the system untouched
	NormNone Normalization = iota
	// NormSteady scales states by steady state
	NormSteady
	// NormJacobi scales states by the root of the gramian diagonal
	NormJacobi
)

// Variant selects a gramian variant
type Variant int

const (
	// Regular is the default gramian variant
	Regular Variant = iota
	// Alternate selects the type dependent variant:
	// output controllability, averaged observability or non-symmetric cross gramian
	// when used as state variant; input-output sensitivity or coarse Schur-complement
	// when used as parameter variant.
	Alternate
)

// Weighting selects trajectory weighting
type Weighting int

const (
	// WeightNone does not weight trajectories
	WeightNone Weighting = iota
	// WeightTimeLinear weights samples by square root of time
	WeightTimeLinear
	// WeightTimeSquared weights samples linearly in time
	WeightTimeSquared
	// WeightState weights samples by their norm
	WeightState
	// WeightScale weights components by the reciprocal of their maximum magnitude
	WeightScale
)

// Flags are gramian computation options
type Flags struct {
	// Centering is trajectory centering
	Centering Centering
	// InputScales is input perturbation scale profile
	InputScales scale.Profile
	// StateScales is initial state perturbation scale profile
	StateScales scale.Profile
	// InputRotation selects input perturbation directions
	InputRotation scale.Rotation
	// StateRotation selects initial state perturbation directions
	StateRotation scale.Rotation
	// Normalization is system normalization
	Normalization Normalization
	// StateVariant is state gramian variant
	StateVariant Variant
	// ExtraInput adds the input signal to the steady input of state perturbed trajectories
	ExtraInput bool
	// ParamCentering is parameter centering
	ParamCentering scale.Centering
	// ParamVariant is parameter gramian variant
	ParamVariant Variant
	// PartitionSize is cross gramian partition size; zero computes the full gramian
	PartitionSize int
	// PartitionIndex is zero based cross gramian partition index;
	// out of range indices, negative ones included, select an empty partition
	PartitionIndex int
	// Weighting is trajectory weighting
	Weighting Weighting
}

// FlagsFromVector creates Flags from flag vector nf and returns it.
// Flag vectors shorter than NumFlags are padded with zeros.
// It returns error if nf is longer than NumFlags or if any of the flags is out of range.
func FlagsFromVector(nf []int) (Flags, error) {
	if len(nf) > NumFlags {
		return Flags{}, fmt.Errorf("%w: %d flags given, at most %d allowed", ErrInvalidFlag, len(nf), NumFlags)
	}

	v := make([]int, NumFlags)
	copy(v, nf)

	f := Flags{
		Centering:      Centering(v[0]),
		InputScales:    scale.Profile(v[1]),
		StateScales:    scale.Profile(v[2]),
		InputRotation:  scale.Rotation(v[3]),
		StateRotation:  scale.Rotation(v[4]),
		Normalization:  Normalization(v[5]),
		StateVariant:   Variant(v[6]),
		ExtraInput:     v[7] != 0,
		ParamCentering: scale.Centering(v[8]),
		ParamVariant:   Variant(v[9]),
		PartitionSize:  v[10],
		PartitionIndex: v[11],
		Weighting:      Weighting(v[12]),
	}

	if v[7] != 0 && v[7] != 1 {
		return Flags{}, fmt.Errorf("%w: extra input %d", ErrInvalidFlag, v[7])
	}

	if err := f.Validate(); err != nil {
		return Flags{}, err
	}

	return f, nil
}

// Vector returns flags encoded as flag vector
func (f Flags) Vector() []int {
	extra := 0
	if f.ExtraInput {
		extra = 1
	}

	return []int{
		int(f.Centering),
		int(f.InputScales),
		int(f.StateScales),
		int(f.InputRotation),
		int(f.StateRotation),
		int(f.Normalization),
		int(f.StateVariant),
		extra,
		int(f.ParamCentering),
		int(f.ParamVariant),
		f.PartitionSize,
		f.PartitionIndex,
		int(f.Weighting),
	}
}

// Validate returns error if any of the flags is out of range
func (f Flags) Validate() error {
	checks := []struct {
		name string
		val  int
		max  int
	}{
		{"centering", int(f.Centering), int(CenterRMS)},
		{"input scales", int(f.InputScales), int(scale.Sparse)},
		{"state scales", int(f.StateScales), int(scale.Sparse)},
		{"input rotation", int(f.InputRotation), int(scale.SingleRotation)},
		{"state rotation", int(f.StateRotation), int(scale.SingleRotation)},
		{"normalization", int(f.Normalization), int(NormJacobi)},
		{"state variant", int(f.StateVariant), int(Alternate)},
		{"parameter centering", int(f.ParamCentering), int(scale.LogCentering)},
		{"parameter variant", int(f.ParamVariant), int(Alternate)},
		{"weighting", int(f.Weighting), int(WeightScale)},
	}

	for _, c := range checks {
		if c.val < 0 || c.val > c.max {
			return fmt.Errorf("%w: %s %d", ErrInvalidFlag, c.name, c.val)
		}
	}

	if f.PartitionSize < 0 {
		return fmt.Errorf("%w: partition size %d", ErrInvalidFlag, f.PartitionSize)
	}

	return nil
}
