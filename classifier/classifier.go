// Package classifier implements the bank of binary tumor classifiers. Every
// member satisfies the same contract: construct, Fit once on a training
// matrix and its diagnoses, then Predict any number of times. A fitted model
// is never mutated; retraining means constructing a new one.
package classifier

import (
	"gonum.org/v1/gonum/mat"

	"github.com/cytodiag/wdbc/dataset"
	"github.com/cytodiag/wdbc/pkg/errors"
)

// Classifier is the uniform contract the ensemble builds on. Implementations
// are opaque to the combiner; hyperparameter search, if any, happens inside
// Fit.
type Classifier interface {
	// Name identifies the model in results tables and logs.
	Name() string

	// Fit trains the model. A training subset with fewer than two distinct
	// diagnoses yields a TrainingError.
	Fit(X mat.Matrix, y []dataset.Label) error

	// Predict returns one diagnosis per row of X, positionally aligned.
	// Calling Predict before Fit yields a NotFittedError.
	Predict(X mat.Matrix) ([]dataset.Label, error)
}

// Internal label encoding: benign is 1, malignant is 0. The 0.5 threshold on
// a model's raw score therefore maps directly to the benign/malignant cut.
const (
	benignValue    = 1.0
	malignantValue = 0.0
)

// encodeLabels maps diagnoses to 0/1 and rejects single-class training sets
// before any numeric work happens.
func encodeLabels(modelName string, y []dataset.Label) ([]float64, error) {
	if len(y) == 0 {
		return nil, errors.NewTrainingError(modelName, "empty training subset")
	}
	encoded := make([]float64, len(y))
	var hasBenign, hasMalignant bool
	for i, label := range y {
		if label == dataset.Benign {
			encoded[i] = benignValue
			hasBenign = true
		} else {
			encoded[i] = malignantValue
			hasMalignant = true
		}
	}
	if !hasBenign || !hasMalignant {
		return nil, errors.NewTrainingError(modelName, "training subset carries a single class; both diagnoses are required")
	}
	return encoded, nil
}

// decodeScores thresholds raw scores at 0.5 into diagnoses.
func decodeScores(scores []float64) []dataset.Label {
	labels := make([]dataset.Label, len(scores))
	for i, s := range scores {
		if s >= 0.5 {
			labels[i] = dataset.Benign
		} else {
			labels[i] = dataset.Malignant
		}
	}
	return labels
}

// checkTrainingInput validates the X/y pairing shared by every Fit.
func checkTrainingInput(modelName string, X mat.Matrix, y []dataset.Label) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewTrainingError(modelName, "empty feature matrix")
	}
	if r != len(y) {
		return errors.NewDimensionError(modelName+".Fit", r, len(y), 0)
	}
	return nil
}

// matrixRows copies X into per-row slices for the distance-based models.
func matrixRows(X mat.Matrix) [][]float64 {
	r, c := X.Dims()
	rows := make([][]float64, r)
	for i := 0; i < r; i++ {
		row := make([]float64, c)
		for j := 0; j < c; j++ {
			row[j] = X.At(i, j)
		}
		rows[i] = row
	}
	return rows
}
