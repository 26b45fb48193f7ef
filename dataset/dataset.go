// Package dataset models the Wisconsin Diagnostic Breast Cancer table: one
// sample per biopsied mass, a two-valued diagnosis, and thirty real-valued
// cell-nucleus features.
package dataset

import (
	"gonum.org/v1/gonum/mat"

	"github.com/cytodiag/wdbc/pkg/errors"
)

// Label is the diagnosis assigned to a sample.
type Label string

const (
	// Benign is the positive class throughout the pipeline.
	Benign Label = "B"
	// Malignant is the negative class.
	Malignant Label = "M"
)

// ParseLabel converts a raw diagnosis cell into a Label.
func ParseLabel(s string) (Label, error) {
	switch s {
	case "B":
		return Benign, nil
	case "M":
		return Malignant, nil
	default:
		return "", errors.NewDataError("dataset.ParseLabel", 0, "diagnosis", "unknown label "+s)
	}
}

// NumFeatures is the fixed arity of the feature vector.
const NumFeatures = 30

// baseMeasurements are the ten per-nucleus measurements; the table carries
// the mean, standard error, and worst (largest) aggregate of each.
var baseMeasurements = [10]string{
	"radius", "texture", "perimeter", "area", "smoothness",
	"compactness", "concavity", "concave_points", "symmetry", "fractal_dimension",
}

// FeatureNames lists the thirty feature columns in file order: the ten means,
// then the ten standard errors, then the ten worst aggregates.
var FeatureNames = buildFeatureNames()

func buildFeatureNames() [NumFeatures]string {
	var names [NumFeatures]string
	for i, suffix := range []string{"mean", "se", "worst"} {
		for j, base := range baseMeasurements {
			names[i*10+j] = base + "_" + suffix
		}
	}
	return names
}

// Sample is one measured mass: its identifier, diagnosis, and feature vector.
type Sample struct {
	ID        string
	Diagnosis Label
	Features  [NumFeatures]float64
}

// Dataset is an ordered collection of samples sharing the feature schema.
// Identifiers are unique; the reader enforces this at load time.
type Dataset struct {
	Samples []Sample
}

// New builds a Dataset from samples, rejecting duplicate identifiers.
func New(samples []Sample) (*Dataset, error) {
	seen := make(map[string]struct{}, len(samples))
	for i, s := range samples {
		if _, dup := seen[s.ID]; dup {
			return nil, errors.NewDataError("dataset.New", i+1, "id", "duplicate sample identifier "+s.ID)
		}
		seen[s.ID] = struct{}{}
	}
	return &Dataset{Samples: samples}, nil
}

// Len returns the number of samples.
func (d *Dataset) Len() int {
	return len(d.Samples)
}

// Labels returns the diagnoses in sample order.
func (d *Dataset) Labels() []Label {
	labels := make([]Label, len(d.Samples))
	for i, s := range d.Samples {
		labels[i] = s.Diagnosis
	}
	return labels
}

// IDs returns the sample identifiers in order.
func (d *Dataset) IDs() []string {
	ids := make([]string, len(d.Samples))
	for i, s := range d.Samples {
		ids[i] = s.ID
	}
	return ids
}

// Matrix returns the n×30 feature matrix in sample order. An empty dataset
// has no matrix representation and yields ErrEmptyData; split subsets may
// legitimately be empty, so callers check before going numeric.
func (d *Dataset) Matrix() (*mat.Dense, error) {
	n := len(d.Samples)
	if n == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "wdbc: dataset.Matrix")
	}
	data := make([]float64, 0, n*NumFeatures)
	for _, s := range d.Samples {
		data = append(data, s.Features[:]...)
	}
	return mat.NewDense(n, NumFeatures, data), nil
}

// Subset returns a new Dataset holding the samples at the given indices, in
// the given order. Indices must be valid; this is an internal splitting aid.
func (d *Dataset) Subset(indices []int) *Dataset {
	samples := make([]Sample, len(indices))
	for i, idx := range indices {
		samples[i] = d.Samples[idx]
	}
	return &Dataset{Samples: samples}
}

// ClassCounts returns the number of benign and malignant samples.
func (d *Dataset) ClassCounts() (benign, malignant int) {
	for _, s := range d.Samples {
		if s.Diagnosis == Benign {
			benign++
		} else {
			malignant++
		}
	}
	return benign, malignant
}

// FeatureColumn returns one feature column by name.
func (d *Dataset) FeatureColumn(name string) ([]float64, error) {
	col := -1
	for j, n := range FeatureNames {
		if n == name {
			col = j
			break
		}
	}
	if col < 0 {
		return nil, errors.NewDataError("dataset.FeatureColumn", 0, name, "unknown feature")
	}
	values := make([]float64, len(d.Samples))
	for i, s := range d.Samples {
		values[i] = s.Features[col]
	}
	return values, nil
}
