package split

import (
	"fmt"
	"math"
	"testing"

	"github.com/cytodiag/wdbc/dataset"
	"github.com/cytodiag/wdbc/pkg/errors"
)

// makeDataset builds benign+malignant samples with synthetic identifiers.
func makeDataset(t *testing.T, benign, malignant int) *dataset.Dataset {
	t.Helper()
	var samples []dataset.Sample
	for i := 0; i < benign; i++ {
		samples = append(samples, dataset.Sample{ID: fmt.Sprintf("b%03d", i), Diagnosis: dataset.Benign})
	}
	for i := 0; i < malignant; i++ {
		samples = append(samples, dataset.Sample{ID: fmt.Sprintf("m%03d", i), Diagnosis: dataset.Malignant})
	}
	ds, err := dataset.New(samples)
	if err != nil {
		t.Fatalf("building dataset: %v", err)
	}
	return ds
}

func TestStratifiedDisjointUnion(t *testing.T) {
	ds := makeDataset(t, 60, 40)
	s, err := Stratified(ds, Fractions{Validation: 0.2, Test: 0.2}, 7)
	if err != nil {
		t.Fatalf("Stratified: %v", err)
	}

	seen := map[string]int{}
	for _, sub := range []*dataset.Dataset{s.Train, s.Test, s.Validation} {
		for _, id := range sub.IDs() {
			seen[id]++
		}
	}
	if len(seen) != ds.Len() {
		t.Errorf("union has %d distinct ids, want %d", len(seen), ds.Len())
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("id %s appears in %d subsets", id, n)
		}
	}
}

func TestStratifiedSubsetSizes(t *testing.T) {
	ds := makeDataset(t, 60, 40)
	s, err := Stratified(ds, Fractions{Validation: 0.2, Test: 0.2}, 7)
	if err != nil {
		t.Fatalf("Stratified: %v", err)
	}

	// Per class: 20% to validation, 20% of the remainder to test.
	if n := s.Validation.Len(); n != 20 {
		t.Errorf("validation size %d, want 20", n)
	}
	if n := s.Test.Len(); n != 15 {
		t.Errorf("test size %d, want 15", n)
	}
	if n := s.Train.Len(); n != 65 {
		t.Errorf("train size %d, want 65", n)
	}
}

func TestStratifiedPreservesClassProportions(t *testing.T) {
	ds := makeDataset(t, 120, 80)
	s, err := Stratified(ds, Fractions{Validation: 0.25, Test: 0.25}, 42)
	if err != nil {
		t.Fatalf("Stratified: %v", err)
	}

	sourceBenign := 120.0 / 200.0
	for name, sub := range map[string]*dataset.Dataset{
		"train": s.Train, "test": s.Test, "validation": s.Validation,
	} {
		b, m := sub.ClassCounts()
		got := float64(b) / float64(b+m)
		if math.Abs(got-sourceBenign) > 0.05 {
			t.Errorf("%s benign proportion %.3f, want within 0.05 of %.3f", name, got, sourceBenign)
		}
	}
}

func TestStratifiedDeterministic(t *testing.T) {
	ds := makeDataset(t, 30, 30)
	for _, seed := range []uint64{0, 1, 99} {
		a, err := Stratified(ds, Fractions{Validation: 0.2, Test: 0.2}, seed)
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		b, err := Stratified(ds, Fractions{Validation: 0.2, Test: 0.2}, seed)
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		for i, id := range a.Train.IDs() {
			if b.Train.IDs()[i] != id {
				t.Fatalf("seed %d: training subsets differ at %d", seed, i)
			}
		}
		for i, id := range a.Test.IDs() {
			if b.Test.IDs()[i] != id {
				t.Fatalf("seed %d: test subsets differ at %d", seed, i)
			}
		}
	}
}

func TestStratifiedSeedsDiffer(t *testing.T) {
	ds := makeDataset(t, 50, 50)
	a, _ := Stratified(ds, Fractions{Validation: 0.2, Test: 0.2}, 1)
	b, _ := Stratified(ds, Fractions{Validation: 0.2, Test: 0.2}, 2)

	same := true
	aIDs, bIDs := a.Test.IDs(), b.Test.IDs()
	for i := range aIDs {
		if aIDs[i] != bIDs[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("different seeds produced identical test subsets")
	}
}

func TestStratifiedConfigErrors(t *testing.T) {
	ds := makeDataset(t, 10, 10)

	cases := []struct {
		name      string
		ds        *dataset.Dataset
		fractions Fractions
	}{
		{"empty dataset", &dataset.Dataset{}, Fractions{Validation: 0.2, Test: 0.2}},
		{"negative fraction", ds, Fractions{Validation: -0.1, Test: 0.2}},
		{"fraction one", ds, Fractions{Validation: 1.0, Test: 0}},
		{"sum over one", ds, Fractions{Validation: 0.6, Test: 0.6}},
		{"single class", makeDataset(t, 10, 0), Fractions{Validation: 0.2, Test: 0.2}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Stratified(tc.ds, tc.fractions, 1)
			if err == nil {
				t.Fatal("expected ConfigError")
			}
			var cfgErr *errors.ConfigError
			if !errors.As(err, &cfgErr) {
				t.Errorf("expected ConfigError, got %T", err)
			}
		})
	}
}

func TestStratifiedTwoSampleBoundary(t *testing.T) {
	ds := makeDataset(t, 1, 1)

	// All-training split is the only feasible stratified partition.
	s, err := Stratified(ds, Fractions{}, 3)
	if err != nil {
		t.Fatalf("all-training split should succeed: %v", err)
	}
	if s.Train.Len() != 2 || s.Test.Len() != 0 || s.Validation.Len() != 0 {
		t.Errorf("unexpected sizes: train=%d test=%d val=%d", s.Train.Len(), s.Test.Len(), s.Validation.Len())
	}

	// Any held-out subset would need a sample per class that is not there.
	_, err = Stratified(ds, Fractions{Validation: 0.2, Test: 0.2}, 3)
	var cfgErr *errors.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Errorf("expected ConfigError, got %v", err)
	}
}
