// Package metrics evaluates predictors against ground truth. Benign is the
// positive class everywhere.
package metrics

import (
	"fmt"
	"math"

	"github.com/cytodiag/wdbc/dataset"
	"github.com/cytodiag/wdbc/pkg/errors"
)

// ConfusionMatrix holds the four counts of predicted-vs-actual diagnoses plus
// the metrics derived from them. Derived values are NaN, never an error,
// when their denominator is zero.
type ConfusionMatrix struct {
	TruePositive  int // predicted benign, actually benign
	TrueNegative  int // predicted malignant, actually malignant
	FalsePositive int // predicted benign, actually malignant
	FalseNegative int // predicted malignant, actually benign
}

// Evaluate compares predictions with the true diagnoses position by
// position. Sequences of different length yield an AlignmentError.
func Evaluate(predicted, actual []dataset.Label) (*ConfusionMatrix, error) {
	if len(predicted) != len(actual) {
		return nil, errors.NewAlignmentError("metrics.Evaluate", len(actual), len(predicted))
	}
	if len(actual) == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "wdbc: metrics.Evaluate")
	}

	cm := &ConfusionMatrix{}
	for i := range actual {
		switch {
		case predicted[i] == dataset.Benign && actual[i] == dataset.Benign:
			cm.TruePositive++
		case predicted[i] == dataset.Malignant && actual[i] == dataset.Malignant:
			cm.TrueNegative++
		case predicted[i] == dataset.Benign && actual[i] == dataset.Malignant:
			cm.FalsePositive++
		default:
			cm.FalseNegative++
		}
	}
	return cm, nil
}

// Total returns the number of evaluated samples.
func (cm *ConfusionMatrix) Total() int {
	return cm.TruePositive + cm.TrueNegative + cm.FalsePositive + cm.FalseNegative
}

// Accuracy is the share of correct predictions.
func (cm *ConfusionMatrix) Accuracy() float64 {
	return cm.ratio(float64(cm.TruePositive+cm.TrueNegative), float64(cm.Total()), "accuracy", "no samples")
}

// Sensitivity is recall on the benign (positive) class: TP / (TP + FN).
func (cm *ConfusionMatrix) Sensitivity() float64 {
	return cm.ratio(float64(cm.TruePositive), float64(cm.TruePositive+cm.FalseNegative),
		"sensitivity", "no positive samples")
}

// Specificity is recall on the malignant (negative) class: TN / (TN + FP).
func (cm *ConfusionMatrix) Specificity() float64 {
	return cm.ratio(float64(cm.TrueNegative), float64(cm.TrueNegative+cm.FalsePositive),
		"specificity", "no negative samples")
}

// BalancedAccuracy averages sensitivity and specificity, correcting for the
// class imbalance of the evaluated subset.
func (cm *ConfusionMatrix) BalancedAccuracy() float64 {
	sens, spec := cm.Sensitivity(), cm.Specificity()
	if math.IsNaN(sens) || math.IsNaN(spec) {
		return math.NaN()
	}
	return (sens + spec) / 2
}

// Prevalence is the share of positive samples in the evaluated subset.
func (cm *ConfusionMatrix) Prevalence() float64 {
	return cm.ratio(float64(cm.TruePositive+cm.FalseNegative), float64(cm.Total()),
		"prevalence", "no samples")
}

func (cm *ConfusionMatrix) ratio(num, den float64, metric, condition string) float64 {
	if den == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning(metric, condition))
		return math.NaN()
	}
	return num / den
}

// String renders the counts and derived metrics as a small report block.
func (cm *ConfusionMatrix) String() string {
	return fmt.Sprintf(
		"                 actual B  actual M\n"+
			"  predicted B  %9d %9d\n"+
			"  predicted M  %9d %9d\n"+
			"  accuracy=%.4f sensitivity=%.4f specificity=%.4f balanced=%.4f",
		cm.TruePositive, cm.FalsePositive,
		cm.FalseNegative, cm.TrueNegative,
		cm.Accuracy(), cm.Sensitivity(), cm.Specificity(), cm.BalancedAccuracy())
}
