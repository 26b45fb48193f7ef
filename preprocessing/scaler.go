// Package preprocessing holds the feature-matrix preparation steps: the
// standard scaler and the principal-component projection.
package preprocessing

import (
	"fmt"
	"math"
	"strconv"

	"gonum.org/v1/gonum/mat"

	"github.com/cytodiag/wdbc/core/model"
	"github.com/cytodiag/wdbc/pkg/errors"
)

// StandardScaler centers each feature column to mean 0 and scales it to unit
// standard deviation. The statistics are computed once, from the training
// population passed to Fit, and reused verbatim for every later Transform so
// that test and validation data never leak into them.
type StandardScaler struct {
	state *model.StateManager

	// Mean holds the per-column training means.
	Mean []float64
	// Scale holds the per-column training standard deviations.
	Scale []float64
	// NFeatures is the column count seen at Fit time.
	NFeatures int
}

// NewStandardScaler creates an unfitted StandardScaler.
func NewStandardScaler() *StandardScaler {
	return &StandardScaler{state: model.NewStateManager()}
}

// Fit computes the centering and scaling statistics from X. Every cell must
// be finite; otherwise a DataError names the first offending cell.
func (s *StandardScaler) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.Wrap(errors.ErrEmptyData, "wdbc: StandardScaler.Fit")
	}
	if err := errors.CheckMatrixFinite("StandardScaler.Fit", X, r, c, nil); err != nil {
		return err
	}

	s.NFeatures = c
	s.Mean = make([]float64, c)
	s.Scale = make([]float64, c)

	for j := 0; j < c; j++ {
		sum := 0.0
		for i := 0; i < r; i++ {
			sum += X.At(i, j)
		}
		s.Mean[j] = sum / float64(r)
	}

	for j := 0; j < c; j++ {
		sumSquares := 0.0
		for i := 0; i < r; i++ {
			diff := X.At(i, j) - s.Mean[j]
			sumSquares += diff * diff
		}
		s.Scale[j] = math.Sqrt(sumSquares / float64(r))

		// A constant column carries no information; scale by 1 to avoid
		// dividing by zero and leave it centered only.
		if s.Scale[j] < 1e-8 {
			s.Scale[j] = 1.0
			errors.Warn(errors.NewConstantFeatureWarning("StandardScaler.Fit", strconv.Itoa(j)))
		}
	}

	s.state.SetDimensions(c, r)
	s.state.SetFitted()
	return nil
}

// Transform standardizes X using the statistics learned at Fit time.
func (s *StandardScaler) Transform(X mat.Matrix) (*mat.Dense, error) {
	if err := s.state.RequireFitted("StandardScaler", "Transform"); err != nil {
		return nil, err
	}

	r, c := X.Dims()
	if c != s.NFeatures {
		return nil, errors.NewDimensionError("StandardScaler.Transform", s.NFeatures, c, 1)
	}
	if err := errors.CheckMatrixFinite("StandardScaler.Transform", X, r, c, nil); err != nil {
		return nil, err
	}

	result := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			result.Set(i, j, (X.At(i, j)-s.Mean[j])/s.Scale[j])
		}
	}
	return result, nil
}

// FitTransform fits the scaler on X and returns the transformed X.
func (s *StandardScaler) FitTransform(X mat.Matrix) (*mat.Dense, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}

// String describes the scaler and its fitted arity.
func (s *StandardScaler) String() string {
	if !s.state.IsFitted() {
		return "StandardScaler(unfitted)"
	}
	return fmt.Sprintf("StandardScaler(n_features=%d)", s.NFeatures)
}
