package pipeline

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/cytodiag/wdbc/classifier"
	"github.com/cytodiag/wdbc/dataset"
	"github.com/cytodiag/wdbc/pkg/errors"
)

// writeSyntheticTable writes a WDBC-format file with two separable clusters
// and returns its path.
func writeSyntheticTable(t *testing.T, benign, malignant int) string {
	t.Helper()
	var b strings.Builder
	row := func(id string, label string, base float64, i int) {
		b.WriteString(id)
		b.WriteString(",")
		b.WriteString(label)
		for j := 0; j < dataset.NumFeatures; j++ {
			v := base + 0.05*float64(j) + 0.2*math.Sin(float64(i*31+j*7))
			fmt.Fprintf(&b, ",%.5f", v)
		}
		b.WriteString("\n")
	}
	for i := 0; i < benign; i++ {
		row(fmt.Sprintf("b%04d", i), "B", 1.0, i)
	}
	for i := 0; i < malignant; i++ {
		row(fmt.Sprintf("m%04d", i), "M", 4.0, i+benign)
	}

	path := filepath.Join(t.TempDir(), "wdbc.data")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}

func testConfig(t *testing.T) Config {
	cfg := Default()
	cfg.Data.Path = writeSyntheticTable(t, 60, 40)
	cfg.Seed = 42
	cfg.Models.Forest.Estimators = 11
	cfg.Models.MLP.Epochs = 60
	cfg.Models.Logistic.MaxIter = 300
	return cfg
}

func TestRunEndToEnd(t *testing.T) {
	cfg := testConfig(t)
	results, err := Run(cfg, zerolog.Nop())
	require.NoError(t, err)

	require.Len(t, results.TestAccuracies, len(AllModels))
	for _, score := range results.TestAccuracies {
		assert.GreaterOrEqual(t, score.Accuracy, 0.0, score.Name)
		assert.LessOrEqual(t, score.Accuracy, 1.0, score.Name)
	}
	assert.NotEmpty(t, results.BestModel)
	require.NotNil(t, results.EnsembleTest)
	require.NotNil(t, results.EnsembleValidation)
	require.NotNil(t, results.BestTest)
	require.NotNil(t, results.BestValidation)

	// The clusters are widely separated; the ensemble should not struggle.
	assert.GreaterOrEqual(t, results.EnsembleTest.Accuracy(), 0.9)

	rendered := results.String()
	assert.Contains(t, rendered, "ensemble")
	assert.Contains(t, rendered, results.BestModel)
}

func TestRunDeterministicForSeed(t *testing.T) {
	cfg := testConfig(t)
	first, err := Run(cfg, zerolog.Nop())
	require.NoError(t, err)
	second, err := Run(cfg, zerolog.Nop())
	require.NoError(t, err)

	require.Equal(t, len(first.TestAccuracies), len(second.TestAccuracies))
	for i := range first.TestAccuracies {
		assert.Equal(t, first.TestAccuracies[i], second.TestAccuracies[i])
	}
	assert.Equal(t, first.BestModel, second.BestModel)
	assert.Equal(t, *first.EnsembleTest, *second.EnsembleTest)
}

func TestRunWithPCA(t *testing.T) {
	cfg := testConfig(t)
	cfg.Preprocessing.PCAComponents = 5
	results, err := Run(cfg, zerolog.Nop())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, results.EnsembleTest.Accuracy(), 0.9)
}

func TestRunMissingDataFile(t *testing.T) {
	cfg := Default()
	cfg.Data.Path = filepath.Join(t.TempDir(), "absent.data")
	_, err := Run(cfg, zerolog.Nop())
	require.Error(t, err)
}

// failingClassifier satisfies the classifier contract but never fits.
type failingClassifier struct{}

func (failingClassifier) Name() string { return "failing" }
func (failingClassifier) Fit(mat.Matrix, []dataset.Label) error {
	return errors.NewTrainingError("failing", "forced failure")
}
func (failingClassifier) Predict(mat.Matrix) ([]dataset.Label, error) {
	return nil, errors.NewNotFittedError("failing", "Predict")
}

func TestFitBankFailurePolicies(t *testing.T) {
	X := mat.NewDense(4, 1, []float64{0, 0.1, 1, 1.1})
	y := []dataset.Label{dataset.Malignant, dataset.Malignant, dataset.Benign, dataset.Benign}
	bank := []classifier.Classifier{
		classifier.NewKNN(classifier.WithKNNNeighbors(1)),
		failingClassifier{},
	}

	cfg := Default()
	cfg.Models.FailurePolicy = FailRun
	_, _, err := fitBank(cfg, bank, X, y, zerolog.Nop())
	var trainErr *errors.TrainingError
	require.True(t, errors.As(err, &trainErr), "fail policy must surface the TrainingError")

	cfg.Models.FailurePolicy = DropModel
	fitted, dropped, err := fitBank(cfg, bank, X, y, zerolog.Nop())
	require.NoError(t, err)
	require.Len(t, fitted, 1)
	assert.Equal(t, "knn", fitted[0].Name())
	assert.Equal(t, []string{"failing"}, dropped)
}

func TestFitBankAllFailed(t *testing.T) {
	X := mat.NewDense(2, 1, []float64{0, 1})
	y := []dataset.Label{dataset.Malignant, dataset.Benign}
	cfg := Default()
	cfg.Models.FailurePolicy = DropModel
	_, _, err := fitBank(cfg, []classifier.Classifier{failingClassifier{}}, X, y, zerolog.Nop())
	require.Error(t, err)
}
