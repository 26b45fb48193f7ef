package classifier

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/cytodiag/wdbc/core/model"
	"github.com/cytodiag/wdbc/dataset"
	"github.com/cytodiag/wdbc/pkg/errors"
)

// classStats holds the per-class Gaussian estimates shared by LDA and QDA.
type classStats struct {
	mean  []float64
	cov   *mat.SymDense
	count int
	prior float64
}

// gatherClassStats splits X by encoded label and estimates mean, covariance,
// and prior per class. Index 0 is malignant, index 1 benign.
func gatherClassStats(modelName string, X mat.Matrix, target []float64) ([2]classStats, error) {
	var stats [2]classStats
	r, c := X.Dims()

	for k := 0; k < 2; k++ {
		var rows []int
		for i := 0; i < r; i++ {
			if int(target[i]) == k {
				rows = append(rows, i)
			}
		}
		if len(rows) < 2 {
			return stats, errors.NewTrainingError(modelName,
				"a class has fewer than 2 samples; covariance is not estimable")
		}

		sub := mat.NewDense(len(rows), c, nil)
		for i, idx := range rows {
			for j := 0; j < c; j++ {
				sub.Set(i, j, X.At(idx, j))
			}
		}

		mean := make([]float64, c)
		for j := 0; j < c; j++ {
			sum := 0.0
			for i := range rows {
				sum += sub.At(i, j)
			}
			mean[j] = sum / float64(len(rows))
		}

		cov := mat.NewSymDense(c, nil)
		stat.CovarianceMatrix(cov, sub, nil)

		stats[k] = classStats{
			mean:  mean,
			cov:   cov,
			count: len(rows),
			prior: float64(len(rows)) / float64(r),
		}
	}
	return stats, nil
}

// factorize returns a Cholesky factorization of cov, adding a small ridge to
// the diagonal when the raw estimate is not positive definite.
func factorize(modelName string, cov *mat.SymDense) (*mat.Cholesky, error) {
	n, _ := cov.Dims()
	var chol mat.Cholesky
	if chol.Factorize(cov) {
		return &chol, nil
	}
	for _, ridge := range []float64{1e-8, 1e-6, 1e-4} {
		ridged := mat.NewSymDense(n, nil)
		ridged.CopySym(cov)
		for i := 0; i < n; i++ {
			ridged.SetSym(i, i, ridged.At(i, i)+ridge)
		}
		if chol.Factorize(ridged) {
			return &chol, nil
		}
	}
	return nil, errors.NewTrainingError(modelName, "covariance matrix is singular")
}

// mahalanobis computes (x-mean)^T cov^-1 (x-mean) through the factorization.
func mahalanobis(chol *mat.Cholesky, x, mean []float64) (float64, error) {
	n := len(x)
	diff := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		diff.SetVec(i, x[i]-mean[i])
	}
	solved := mat.NewVecDense(n, nil)
	if err := chol.SolveVecTo(solved, diff); err != nil {
		return 0, err
	}
	return mat.Dot(diff, solved), nil
}

// LDA is linear discriminant analysis: both classes share a pooled
// covariance estimate, which makes the decision boundary linear.
type LDA struct {
	state *model.StateManager

	means  [2][]float64
	priors [2]float64
	chol   *mat.Cholesky
}

// NewLDA creates a new linear discriminant classifier.
func NewLDA() *LDA {
	return &LDA{state: model.NewStateManager()}
}

// Name implements Classifier.
func (l *LDA) Name() string { return "lda" }

// Fit implements Classifier.
func (l *LDA) Fit(X mat.Matrix, y []dataset.Label) error {
	if err := checkTrainingInput(l.Name(), X, y); err != nil {
		return err
	}
	target, err := encodeLabels(l.Name(), y)
	if err != nil {
		return err
	}

	stats, err := gatherClassStats(l.Name(), X, target)
	if err != nil {
		return err
	}

	r, c := X.Dims()
	pooled := mat.NewSymDense(c, nil)
	denom := float64(stats[0].count + stats[1].count - 2)
	for i := 0; i < c; i++ {
		for j := i; j < c; j++ {
			v := (float64(stats[0].count-1)*stats[0].cov.At(i, j) +
				float64(stats[1].count-1)*stats[1].cov.At(i, j)) / denom
			pooled.SetSym(i, j, v)
		}
	}

	chol, err := factorize(l.Name(), pooled)
	if err != nil {
		return err
	}

	l.chol = chol
	for k := 0; k < 2; k++ {
		l.means[k] = stats[k].mean
		l.priors[k] = stats[k].prior
	}
	l.state.SetDimensions(c, r)
	l.state.SetFitted()
	return nil
}

// Predict implements Classifier.
func (l *LDA) Predict(X mat.Matrix) ([]dataset.Label, error) {
	if err := l.state.RequireFitted("LDA", "Predict"); err != nil {
		return nil, err
	}
	r, c := X.Dims()
	nFeatures, _ := l.state.Dimensions()
	if c != nFeatures {
		return nil, errors.NewDimensionError("LDA.Predict", nFeatures, c, 1)
	}

	labels := make([]dataset.Label, r)
	x := make([]float64, c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			x[j] = X.At(i, j)
		}
		var delta [2]float64
		for k := 0; k < 2; k++ {
			d2, err := mahalanobis(l.chol, x, l.means[k])
			if err != nil {
				return nil, errors.Wrap(err, "wdbc: LDA.Predict")
			}
			delta[k] = -0.5*d2 + math.Log(l.priors[k])
		}
		if delta[1] > delta[0] {
			labels[i] = dataset.Benign
		} else {
			labels[i] = dataset.Malignant
		}
	}
	return labels, nil
}

// QDA is quadratic discriminant analysis: each class keeps its own
// covariance estimate, giving a quadratic decision boundary.
type QDA struct {
	state *model.StateManager

	means   [2][]float64
	priors  [2]float64
	chols   [2]*mat.Cholesky
	logDets [2]float64
}

// NewQDA creates a new quadratic discriminant classifier.
func NewQDA() *QDA {
	return &QDA{state: model.NewStateManager()}
}

// Name implements Classifier.
func (q *QDA) Name() string { return "qda" }

// Fit implements Classifier.
func (q *QDA) Fit(X mat.Matrix, y []dataset.Label) error {
	if err := checkTrainingInput(q.Name(), X, y); err != nil {
		return err
	}
	target, err := encodeLabels(q.Name(), y)
	if err != nil {
		return err
	}

	stats, err := gatherClassStats(q.Name(), X, target)
	if err != nil {
		return err
	}

	r, c := X.Dims()
	for k := 0; k < 2; k++ {
		chol, err := factorize(q.Name(), stats[k].cov)
		if err != nil {
			return err
		}
		q.chols[k] = chol
		q.logDets[k] = chol.LogDet()
		q.means[k] = stats[k].mean
		q.priors[k] = stats[k].prior
	}
	q.state.SetDimensions(c, r)
	q.state.SetFitted()
	return nil
}

// Predict implements Classifier.
func (q *QDA) Predict(X mat.Matrix) ([]dataset.Label, error) {
	if err := q.state.RequireFitted("QDA", "Predict"); err != nil {
		return nil, err
	}
	r, c := X.Dims()
	nFeatures, _ := q.state.Dimensions()
	if c != nFeatures {
		return nil, errors.NewDimensionError("QDA.Predict", nFeatures, c, 1)
	}

	labels := make([]dataset.Label, r)
	x := make([]float64, c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			x[j] = X.At(i, j)
		}
		var delta [2]float64
		for k := 0; k < 2; k++ {
			d2, err := mahalanobis(q.chols[k], x, q.means[k])
			if err != nil {
				return nil, errors.Wrap(err, "wdbc: QDA.Predict")
			}
			delta[k] = -0.5*q.logDets[k] - 0.5*d2 + math.Log(q.priors[k])
		}
		if delta[1] > delta[0] {
			labels[i] = dataset.Benign
		} else {
			labels[i] = dataset.Malignant
		}
	}
	return labels, nil
}
