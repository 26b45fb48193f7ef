// Package ensemble combines the prediction sets of independently trained
// classifiers into one decision by majority vote.
package ensemble

import (
	"github.com/cytodiag/wdbc/dataset"
	"github.com/cytodiag/wdbc/pkg/errors"
)

// TiePolicy documents how an exact N/2 vote split is resolved. The pipeline
// always predicts Malignant on a tie: a benign call on a malignant mass is
// the costly mistake, so the vote must strictly clear the majority bar before
// the ensemble calls a mass benign.
type TiePolicy string

// TieResolvesToMalignant is the only policy; it exists as a named value so
// the bias is an explicit decision rather than a rounding artifact.
const TieResolvesToMalignant TiePolicy = "malignant"

// Combine aggregates the member prediction sets by majority vote. All sets
// must be predictions for the same ordered sample sequence; mismatched
// lengths yield an AlignmentError. For each position the benign votes are
// counted and the ensemble predicts Benign only when the count strictly
// exceeds half the member count, per TieResolvesToMalignant.
//
// Combine is pure: it reads its inputs, writes nothing shared, and always
// produces the same output for the same input.
func Combine(predictionSets [][]dataset.Label) ([]dataset.Label, error) {
	if len(predictionSets) == 0 {
		return nil, errors.New("wdbc: ensemble.Combine: no prediction sets")
	}
	n := len(predictionSets[0])
	for _, set := range predictionSets[1:] {
		if len(set) != n {
			return nil, errors.NewAlignmentError("ensemble.Combine", n, len(set))
		}
	}

	counts := BenignVoteCounts(predictionSets)
	members := len(predictionSets)

	combined := make([]dataset.Label, n)
	for i, votes := range counts {
		if 2*votes > members { // strict majority
			combined[i] = dataset.Benign
		} else {
			combined[i] = dataset.Malignant
		}
	}
	return combined, nil
}

// BenignVoteCounts returns, per sample position, how many members voted
// Benign. The caller is responsible for alignment; Combine checks it.
func BenignVoteCounts(predictionSets [][]dataset.Label) []int {
	if len(predictionSets) == 0 {
		return nil
	}
	counts := make([]int, len(predictionSets[0]))
	for _, set := range predictionSets {
		for i, label := range set {
			if label == dataset.Benign {
				counts[i]++
			}
		}
	}
	return counts
}
