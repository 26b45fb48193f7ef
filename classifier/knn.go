package classifier

import (
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/cytodiag/wdbc/core/model"
	"github.com/cytodiag/wdbc/core/parallel"
	"github.com/cytodiag/wdbc/dataset"
	"github.com/cytodiag/wdbc/pkg/errors"
)

// KNN is a k-nearest-neighbors classifier on Euclidean distance. Fit stores
// the training rows; when the neighbor count is left at zero, Fit selects it
// from a small odd-valued grid by held-out-fold accuracy, keeping the search
// entirely inside the model.
type KNN struct {
	state *model.StateManager

	// K is the neighbor count; 0 means select during Fit.
	K int

	train  [][]float64
	target []float64
}

// KNNOption configures a KNN.
type KNNOption func(*KNN)

// WithKNNNeighbors fixes the neighbor count, disabling selection.
func WithKNNNeighbors(k int) KNNOption {
	return func(m *KNN) { m.K = k }
}

// NewKNN creates a new KNN classifier.
func NewKNN(opts ...KNNOption) *KNN {
	m := &KNN{state: model.NewStateManager()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Name implements Classifier.
func (m *KNN) Name() string { return "knn" }

// Fit implements Classifier.
func (m *KNN) Fit(X mat.Matrix, y []dataset.Label) error {
	if err := checkTrainingInput(m.Name(), X, y); err != nil {
		return err
	}
	target, err := encodeLabels(m.Name(), y)
	if err != nil {
		return err
	}
	if m.K < 0 {
		return errors.NewConfigError("knn.neighbors", "must be non-negative", m.K)
	}

	rows := matrixRows(X)
	if m.K == 0 {
		m.K = selectNeighborCount(rows, target)
	}
	if m.K > len(rows) {
		m.K = len(rows)
	}

	m.train = rows
	m.target = target
	r, c := X.Dims()
	m.state.SetDimensions(c, r)
	m.state.SetFitted()
	return nil
}

// Predict implements Classifier.
func (m *KNN) Predict(X mat.Matrix) ([]dataset.Label, error) {
	if err := m.state.RequireFitted("KNN", "Predict"); err != nil {
		return nil, err
	}
	r, c := X.Dims()
	nFeatures, _ := m.state.Dimensions()
	if c != nFeatures {
		return nil, errors.NewDimensionError("KNN.Predict", nFeatures, c, 1)
	}

	queries := matrixRows(X)
	scores := make([]float64, r)
	parallel.Chunked(r, func(start, end int) {
		for i := start; i < end; i++ {
			scores[i] = neighborVote(queries[i], m.train, m.target, m.K)
		}
	})
	return decodeScores(scores), nil
}

// neighborVote returns the benign share among the k nearest training rows.
// The neighbor list stays bounded at k, so a query costs O(n·k) at worst.
func neighborVote(x []float64, train [][]float64, target []float64, k int) float64 {
	type neighbor struct {
		dist  float64
		value float64
	}
	nbrs := make([]neighbor, 0, k)

	for j, row := range train {
		d := euclidSquared(x, row)
		cand := neighbor{dist: d, value: target[j]}
		if len(nbrs) < k {
			nbrs = append(nbrs, cand)
			sort.Slice(nbrs, func(a, b int) bool { return nbrs[a].dist < nbrs[b].dist })
		} else if d < nbrs[len(nbrs)-1].dist {
			nbrs[len(nbrs)-1] = cand
			sort.Slice(nbrs, func(a, b int) bool { return nbrs[a].dist < nbrs[b].dist })
		}
	}

	sum := 0.0
	for _, nb := range nbrs {
		sum += nb.value
	}
	return sum / float64(len(nbrs))
}

func euclidSquared(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// selectNeighborCount picks k from an odd grid by accuracy on five
// contiguous held-out folds. Deterministic: no shuffling is involved.
func selectNeighborCount(rows [][]float64, target []float64) int {
	candidates := []int{3, 5, 7, 9, 11, 15, 21}
	n := len(rows)

	bestK, bestAcc := candidates[0], -1.0
	for _, k := range candidates {
		if k >= n {
			break
		}
		correct, total := 0, 0
		folds := 5
		for f := 0; f < folds; f++ {
			lo, hi := f*n/folds, (f+1)*n/folds
			var trainRows [][]float64
			var trainTarget []float64
			for i := 0; i < n; i++ {
				if i < lo || i >= hi {
					trainRows = append(trainRows, rows[i])
					trainTarget = append(trainTarget, target[i])
				}
			}
			if k >= len(trainRows) {
				continue
			}
			for i := lo; i < hi; i++ {
				vote := neighborVote(rows[i], trainRows, trainTarget, k)
				predicted := malignantValue
				if vote >= 0.5 {
					predicted = benignValue
				}
				if predicted == target[i] {
					correct++
				}
				total++
			}
		}
		if total == 0 {
			continue
		}
		if acc := float64(correct) / float64(total); acc > bestAcc {
			bestAcc, bestK = acc, k
		}
	}
	return bestK
}
