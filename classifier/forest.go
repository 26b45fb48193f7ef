package classifier

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/cytodiag/wdbc/core/model"
	"github.com/cytodiag/wdbc/core/parallel"
	"github.com/cytodiag/wdbc/dataset"
	"github.com/cytodiag/wdbc/pkg/errors"
)

// RandomForest bags decision trees grown on bootstrap resamples with random
// feature subsets. Trees are grown concurrently; each derives its own seed
// from the forest seed, so a given seed always grows the same forest.
type RandomForest struct {
	state *model.StateManager

	nEstimators int
	maxDepth    int
	maxFeatures int // 0 means sqrt(feature count)
	seed        uint64

	trees []*DecisionTree
}

// RandomForestOption configures a RandomForest.
type RandomForestOption func(*RandomForest)

// WithForestEstimators sets the number of trees.
func WithForestEstimators(n int) RandomForestOption {
	return func(rf *RandomForest) { rf.nEstimators = n }
}

// WithForestMaxDepth limits the depth of each tree.
func WithForestMaxDepth(d int) RandomForestOption {
	return func(rf *RandomForest) { rf.maxDepth = d }
}

// WithForestMaxFeatures sets the per-split feature sample size; 0 means the
// square root of the feature count.
func WithForestMaxFeatures(k int) RandomForestOption {
	return func(rf *RandomForest) { rf.maxFeatures = k }
}

// WithForestSeed seeds bootstrap resampling and feature subsampling.
func WithForestSeed(seed uint64) RandomForestOption {
	return func(rf *RandomForest) { rf.seed = seed }
}

// NewRandomForest creates a forest with sensible defaults.
func NewRandomForest(opts ...RandomForestOption) *RandomForest {
	rf := &RandomForest{
		state:       model.NewStateManager(),
		nEstimators: 100,
		maxDepth:    10,
	}
	for _, opt := range opts {
		opt(rf)
	}
	return rf
}

// Name implements Classifier.
func (rf *RandomForest) Name() string { return "random_forest" }

// Fit implements Classifier.
func (rf *RandomForest) Fit(X mat.Matrix, y []dataset.Label) error {
	if err := checkTrainingInput(rf.Name(), X, y); err != nil {
		return err
	}
	if _, err := encodeLabels(rf.Name(), y); err != nil {
		return err
	}
	if rf.nEstimators < 1 {
		return errors.NewConfigError("forest.estimators", "must be at least 1", rf.nEstimators)
	}

	r, c := X.Dims()
	maxFeatures := rf.maxFeatures
	if maxFeatures == 0 {
		maxFeatures = int(math.Sqrt(float64(c)))
		if maxFeatures < 1 {
			maxFeatures = 1
		}
	}

	rf.trees = make([]*DecisionTree, rf.nEstimators)
	fitErrs := parallel.ForEach(rf.nEstimators, func(i int) error {
		treeSeed := rf.seed + uint64(i)
		bootX, bootY := bootstrapResample(X, y, treeSeed)

		tree := NewDecisionTree(
			WithTreeMaxDepth(rf.maxDepth),
			WithTreeMaxFeatures(maxFeatures),
			WithTreeSeed(treeSeed),
		)
		if err := tree.Fit(bootX, bootY); err != nil {
			return err
		}
		rf.trees[i] = tree
		return nil
	})
	for _, err := range fitErrs {
		if err != nil {
			return errors.Wrap(err, "wdbc: RandomForest.Fit")
		}
	}

	rf.state.SetDimensions(c, r)
	rf.state.SetFitted()
	return nil
}

// bootstrapResample draws n rows with replacement, redrawing (bounded) when
// the resample degenerates to a single class. The forest has already checked
// that y carries both classes, so a valid draw exists.
func bootstrapResample(X mat.Matrix, y []dataset.Label, seed uint64) (*mat.Dense, []dataset.Label) {
	r, c := X.Dims()
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	for attempt := 0; ; attempt++ {
		boot := mat.NewDense(r, c, nil)
		labels := make([]dataset.Label, r)
		var hasBenign, hasMalignant bool
		for i := 0; i < r; i++ {
			src := rng.IntN(r)
			for j := 0; j < c; j++ {
				boot.Set(i, j, X.At(src, j))
			}
			labels[i] = y[src]
			if labels[i] == dataset.Benign {
				hasBenign = true
			} else {
				hasMalignant = true
			}
		}
		if (hasBenign && hasMalignant) || attempt >= 16 {
			return boot, labels
		}
	}
}

// Predict implements Classifier. Each tree votes; the forest returns the
// majority diagnosis per row.
func (rf *RandomForest) Predict(X mat.Matrix) ([]dataset.Label, error) {
	if err := rf.state.RequireFitted("RandomForest", "Predict"); err != nil {
		return nil, err
	}
	r, c := X.Dims()
	nFeatures, _ := rf.state.Dimensions()
	if c != nFeatures {
		return nil, errors.NewDimensionError("RandomForest.Predict", nFeatures, c, 1)
	}

	votes := make([]float64, r)
	for _, tree := range rf.trees {
		preds, err := tree.Predict(X)
		if err != nil {
			return nil, err
		}
		for i, p := range preds {
			if p == dataset.Benign {
				votes[i]++
			}
		}
	}
	scores := make([]float64, r)
	for i := range votes {
		scores[i] = votes[i] / float64(len(rf.trees))
	}
	return decodeScores(scores), nil
}
