// Package split partitions a labeled dataset into training, testing, and
// validation subsets with stratification by diagnosis.
package split

import (
	"math"
	"math/rand/v2"
	"sort"

	"github.com/cytodiag/wdbc/dataset"
	"github.com/cytodiag/wdbc/pkg/errors"
)

// Fractions describes the held-out portions. Validation is taken from the
// whole dataset first; Test is then taken from the remainder; what is left
// becomes the training subset.
type Fractions struct {
	Validation float64
	Test       float64
}

// Split is a disjoint partition of a dataset. The union of the three subsets
// equals the source dataset and each subset preserves the source's class
// proportions within rounding.
type Split struct {
	Train      *dataset.Dataset
	Test       *dataset.Dataset
	Validation *dataset.Dataset
}

// Stratified partitions ds deterministically for a given seed. Per class the
// sample indices are shuffled, the validation share carved off first, then
// the test share of the remainder; rounding is by floor with the remainder
// going to training.
//
// Returns a ConfigError when the dataset is empty, a fraction is out of
// range, the fractions sum to more than 1, or any class cannot contribute at
// least one sample to every non-empty target subset.
func Stratified(ds *dataset.Dataset, fractions Fractions, seed uint64) (*Split, error) {
	if ds == nil || ds.Len() == 0 {
		return nil, errors.NewConfigError("dataset", "cannot split an empty dataset", nil)
	}
	if fractions.Validation < 0 || fractions.Validation >= 1 {
		return nil, errors.NewConfigError("fractions.validation", "must be in [0, 1)", fractions.Validation)
	}
	if fractions.Test < 0 || fractions.Test >= 1 {
		return nil, errors.NewConfigError("fractions.test", "must be in [0, 1)", fractions.Test)
	}
	if fractions.Validation+fractions.Test > 1 {
		return nil, errors.NewConfigError("fractions", "validation and test fractions sum to more than 1",
			fractions.Validation+fractions.Test)
	}

	byClass := map[dataset.Label][]int{}
	for i, s := range ds.Samples {
		byClass[s.Diagnosis] = append(byClass[s.Diagnosis], i)
	}
	if len(byClass) < 2 {
		return nil, errors.NewConfigError("dataset", "stratification requires samples of both classes", nil)
	}

	rng := rand.New(rand.NewPCG(seed, seed))

	var trainIdx, testIdx, valIdx []int
	// Fixed class order keeps the shuffle sequence, and therefore the
	// partition, deterministic for a given seed.
	for _, label := range []dataset.Label{dataset.Benign, dataset.Malignant} {
		indices := append([]int(nil), byClass[label]...)
		rng.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})

		nVal := int(math.Floor(fractions.Validation * float64(len(indices))))
		if fractions.Validation > 0 && nVal == 0 {
			return nil, errors.NewConfigError("fractions.validation",
				"class "+string(label)+" cannot contribute a sample to the validation subset", fractions.Validation)
		}
		rest := len(indices) - nVal

		nTest := int(math.Floor(fractions.Test * float64(rest)))
		if fractions.Test > 0 && nTest == 0 {
			return nil, errors.NewConfigError("fractions.test",
				"class "+string(label)+" cannot contribute a sample to the test subset", fractions.Test)
		}
		if rest-nTest == 0 {
			return nil, errors.NewConfigError("fractions",
				"class "+string(label)+" has no samples left for the training subset", fractions)
		}

		valIdx = append(valIdx, indices[:nVal]...)
		testIdx = append(testIdx, indices[nVal:nVal+nTest]...)
		trainIdx = append(trainIdx, indices[nVal+nTest:]...)
	}

	// Restore source ordering inside each subset so downstream alignment is
	// independent of the shuffle.
	sort.Ints(trainIdx)
	sort.Ints(testIdx)
	sort.Ints(valIdx)

	return &Split{
		Train:      ds.Subset(trainIdx),
		Test:       ds.Subset(testIdx),
		Validation: ds.Subset(valIdx),
	}, nil
}
