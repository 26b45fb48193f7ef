package classifier

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/cytodiag/wdbc/core/model"
	"github.com/cytodiag/wdbc/core/parallel"
	"github.com/cytodiag/wdbc/dataset"
	"github.com/cytodiag/wdbc/pkg/errors"
)

// Loess is a local-regression classifier: for each query it smooths the
// encoded diagnoses of the nearest span-fraction of training samples with
// tricube weights and thresholds the smoothed value. A larger span gives a
// smoother, more global fit.
type Loess struct {
	state *model.StateManager

	// Span is the fraction of training samples in each local neighborhood.
	Span float64

	train  [][]float64
	target []float64
}

// LoessOption configures a Loess classifier.
type LoessOption func(*Loess)

// WithLoessSpan sets the neighborhood fraction, in (0, 1].
func WithLoessSpan(span float64) LoessOption {
	return func(l *Loess) { l.Span = span }
}

// NewLoess creates a new local-regression classifier.
func NewLoess(opts ...LoessOption) *Loess {
	l := &Loess{state: model.NewStateManager(), Span: 0.25}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Name implements Classifier.
func (l *Loess) Name() string { return "loess" }

// Fit implements Classifier.
func (l *Loess) Fit(X mat.Matrix, y []dataset.Label) error {
	if err := checkTrainingInput(l.Name(), X, y); err != nil {
		return err
	}
	if l.Span <= 0 || l.Span > 1 {
		return errors.NewConfigError("loess.span", "must be in (0, 1]", l.Span)
	}
	target, err := encodeLabels(l.Name(), y)
	if err != nil {
		return err
	}

	l.train = matrixRows(X)
	l.target = target
	r, c := X.Dims()
	l.state.SetDimensions(c, r)
	l.state.SetFitted()
	return nil
}

// Predict implements Classifier.
func (l *Loess) Predict(X mat.Matrix) ([]dataset.Label, error) {
	if err := l.state.RequireFitted("Loess", "Predict"); err != nil {
		return nil, err
	}
	r, c := X.Dims()
	nFeatures, _ := l.state.Dimensions()
	if c != nFeatures {
		return nil, errors.NewDimensionError("Loess.Predict", nFeatures, c, 1)
	}

	window := int(math.Ceil(l.Span * float64(len(l.train))))
	if window < 2 {
		window = 2
	}
	if window > len(l.train) {
		window = len(l.train)
	}

	queries := matrixRows(X)
	scores := make([]float64, r)
	parallel.Chunked(r, func(start, end int) {
		for i := start; i < end; i++ {
			scores[i] = l.smooth(queries[i], window)
		}
	})
	return decodeScores(scores), nil
}

// smooth returns the tricube-weighted benign share within the window nearest
// training rows of x.
func (l *Loess) smooth(x []float64, window int) float64 {
	type neighbor struct {
		dist  float64
		value float64
	}
	all := make([]neighbor, len(l.train))
	for j, row := range l.train {
		all[j] = neighbor{dist: math.Sqrt(euclidSquared(x, row)), value: l.target[j]}
	}
	sort.Slice(all, func(a, b int) bool { return all[a].dist < all[b].dist })
	local := all[:window]

	h := local[len(local)-1].dist
	if h == 0 {
		// All neighbors coincide with the query; plain average.
		sum := 0.0
		for _, nb := range local {
			sum += nb.value
		}
		return sum / float64(len(local))
	}

	num, den := 0.0, 0.0
	for _, nb := range local {
		u := nb.dist / h
		w := tricube(u)
		num += w * nb.value
		den += w
	}
	if den == 0 {
		return local[0].value
	}
	return num / den
}

// tricube is the classical loess kernel (1-u^3)^3 on [0, 1).
func tricube(u float64) float64 {
	if u >= 1 {
		return 0
	}
	t := 1 - u*u*u
	return t * t * t
}
