package classifier

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/cytodiag/wdbc/core/model"
	"github.com/cytodiag/wdbc/dataset"
	"github.com/cytodiag/wdbc/pkg/errors"
)

// LogisticRegression is a binary logistic classifier trained by batch
// gradient descent on the regularized logistic loss.
type LogisticRegression struct {
	state *model.StateManager

	// Hyperparameters
	c            float64 // inverse L2 regularization strength
	learningRate float64
	maxIter      int
	tol          float64

	// Fitted parameters
	coef      []float64
	intercept float64
}

// LogisticRegressionOption configures a LogisticRegression.
type LogisticRegressionOption func(*LogisticRegression)

// WithLRC sets the inverse regularization strength.
func WithLRC(c float64) LogisticRegressionOption {
	return func(lr *LogisticRegression) { lr.c = c }
}

// WithLRLearningRate sets the gradient-descent step size.
func WithLRLearningRate(rate float64) LogisticRegressionOption {
	return func(lr *LogisticRegression) { lr.learningRate = rate }
}

// WithLRMaxIter sets the iteration limit.
func WithLRMaxIter(maxIter int) LogisticRegressionOption {
	return func(lr *LogisticRegression) { lr.maxIter = maxIter }
}

// WithLRTol sets the stopping tolerance on the gradient norm.
func WithLRTol(tol float64) LogisticRegressionOption {
	return func(lr *LogisticRegression) { lr.tol = tol }
}

// NewLogisticRegression creates a new LogisticRegression classifier.
func NewLogisticRegression(opts ...LogisticRegressionOption) *LogisticRegression {
	lr := &LogisticRegression{
		state:        model.NewStateManager(),
		c:            1.0,
		learningRate: 0.1,
		maxIter:      1000,
		tol:          1e-6,
	}
	for _, opt := range opts {
		opt(lr)
	}
	return lr
}

// Name implements Classifier.
func (lr *LogisticRegression) Name() string { return "logistic_regression" }

func sigmoid(z float64) float64 {
	// Clamp to keep exp from overflowing on extreme scores.
	if z > 35 {
		return 1
	}
	if z < -35 {
		return 0
	}
	return 1 / (1 + math.Exp(-z))
}

// Fit implements Classifier.
func (lr *LogisticRegression) Fit(X mat.Matrix, y []dataset.Label) error {
	if err := checkTrainingInput(lr.Name(), X, y); err != nil {
		return err
	}
	target, err := encodeLabels(lr.Name(), y)
	if err != nil {
		return err
	}

	r, c := X.Dims()
	lr.coef = make([]float64, c)
	lr.intercept = 0
	lambda := 1.0 / lr.c

	grad := make([]float64, c)
	converged := false
	for iter := 0; iter < lr.maxIter; iter++ {
		for j := range grad {
			grad[j] = 0
		}
		gradIntercept := 0.0

		for i := 0; i < r; i++ {
			z := lr.intercept
			for j := 0; j < c; j++ {
				z += lr.coef[j] * X.At(i, j)
			}
			residual := sigmoid(z) - target[i]
			for j := 0; j < c; j++ {
				grad[j] += residual * X.At(i, j)
			}
			gradIntercept += residual
		}

		gradIntercept /= float64(r)
		norm := gradIntercept * gradIntercept
		for j := 0; j < c; j++ {
			grad[j] = grad[j]/float64(r) + lambda*lr.coef[j]/float64(r)
			norm += grad[j] * grad[j]
		}

		for j := 0; j < c; j++ {
			lr.coef[j] -= lr.learningRate * grad[j]
		}
		lr.intercept -= lr.learningRate * gradIntercept

		if math.Sqrt(norm) < lr.tol {
			converged = true
			break
		}
	}
	if !converged {
		errors.Warn(errors.NewConvergenceWarning("LogisticRegression", lr.maxIter))
	}

	if err := errors.CheckFinite("LogisticRegression.Fit", lr.coef); err != nil {
		return errors.NewTrainingError(lr.Name(), "coefficients diverged; lower the learning rate")
	}

	lr.state.SetDimensions(c, r)
	lr.state.SetFitted()
	return nil
}

// Predict implements Classifier.
func (lr *LogisticRegression) Predict(X mat.Matrix) ([]dataset.Label, error) {
	if err := lr.state.RequireFitted("LogisticRegression", "Predict"); err != nil {
		return nil, err
	}
	r, c := X.Dims()
	nFeatures, _ := lr.state.Dimensions()
	if c != nFeatures {
		return nil, errors.NewDimensionError("LogisticRegression.Predict", nFeatures, c, 1)
	}

	scores := make([]float64, r)
	for i := 0; i < r; i++ {
		z := lr.intercept
		for j := 0; j < c; j++ {
			z += lr.coef[j] * X.At(i, j)
		}
		scores[i] = sigmoid(z)
	}
	return decodeScores(scores), nil
}
