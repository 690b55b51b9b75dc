package rand

import (
	"fmt"
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"
	"gonum.org/v1/gonum/stat/distuv"
)

// NewSource returns a new source seeded with seed.
// Zero seed returns a time seeded source.
func NewSource(seed uint64) rand.Source {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	return rand.NewSource(seed)
}

// Binary draws n samples from a fair Bernoulli distribution i.e. a sequence of zeros and ones.
// If src is nil a time seeded source is used.
// It fails with error if n is non-positive.
func Binary(n int, src rand.Source) ([]float64, error) {
	if n <= 0 {
		return nil, fmt.Errorf("invalid number of samples requested: %d", n)
	}

	if src == nil {
		src = NewSource(0)
	}

	b := distuv.Bernoulli{P: 0.5, Src: src}
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = b.Rand()
	}

	return samples, nil
}

// Ensemble draws k parameter samples from a Normal distribution with the given mean and covariance cov.
// It returns matrix which contains the samples stored in its columns.
// If src is nil a time seeded source is used.
// It fails with error if k is non-positive or if the distribution can't be created from cov.
func Ensemble(mean []float64, cov mat.Symmetric, k int, src rand.Source) (*mat.Dense, error) {
	if k <= 0 {
		return nil, fmt.Errorf("invalid number of samples requested: %d", k)
	}

	if len(mean) == 0 || cov.SymmetricDim() != len(mean) {
		return nil, fmt.Errorf("invalid ensemble dimensions. Mean: %d, Cov: %d", len(mean), cov.SymmetricDim())
	}

	if src == nil {
		src = NewSource(0)
	}

	dist, ok := distmv.NewNormal(mean, cov, src)
	if !ok {
		return nil, fmt.Errorf("failed to create parameter distribution")
	}

	samples := mat.NewDense(len(mean), k, nil)
	for j := 0; j < k; j++ {
		samples.SetCol(j, dist.Rand(nil))
	}

	return samples, nil
}
