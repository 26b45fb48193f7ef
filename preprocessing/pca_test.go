package preprocessing

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/cytodiag/wdbc/pkg/errors"
)

func TestPCADominantDirection(t *testing.T) {
	// Variance almost entirely along the first axis.
	X := mat.NewDense(6, 2, []float64{
		-3, 0.1,
		-2, -0.1,
		-1, 0.1,
		1, -0.1,
		2, 0.1,
		3, -0.1,
	})

	pca := NewPCA(1)
	scores, err := pca.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform: %v", err)
	}

	r, c := scores.Dims()
	if r != 6 || c != 1 {
		t.Fatalf("scores shape (%d, %d), want (6, 1)", r, c)
	}

	ratios, err := pca.ExplainedVarianceRatio()
	if err != nil {
		t.Fatalf("ExplainedVarianceRatio: %v", err)
	}
	if ratios[0] < 0.95 {
		t.Errorf("first component explains %.3f of variance, want > 0.95", ratios[0])
	}

	// The projection of symmetric points has symmetric magnitude.
	if math.Abs(math.Abs(scores.At(0, 0))-math.Abs(scores.At(5, 0))) > 0.2 {
		t.Errorf("expected symmetric extremes, got %v and %v", scores.At(0, 0), scores.At(5, 0))
	}
}

func TestPCATransformUsesFittedBasis(t *testing.T) {
	X := mat.NewDense(4, 2, []float64{
		-2, 0,
		-1, 0,
		1, 0,
		2, 0,
	})
	pca := NewPCA(2)
	if err := pca.Fit(X); err != nil {
		t.Fatalf("Fit: %v", err)
	}

	// New data projected with the training mean and basis.
	scores, err := pca.Transform(mat.NewDense(1, 2, []float64{4, 0}))
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if math.Abs(math.Abs(scores.At(0, 0))-4) > 1e-9 {
		t.Errorf("projection magnitude %v, want 4", scores.At(0, 0))
	}
}

func TestPCAConfigAndStateErrors(t *testing.T) {
	pca := NewPCA(5)
	err := pca.Fit(mat.NewDense(3, 2, []float64{1, 2, 3, 4, 5, 6}))
	var cfgErr *errors.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Errorf("too many components: expected ConfigError, got %v", err)
	}

	_, err = NewPCA(1).Transform(mat.NewDense(1, 2, nil))
	var nf *errors.NotFittedError
	if !errors.As(err, &nf) {
		t.Errorf("expected NotFittedError, got %v", err)
	}
}
