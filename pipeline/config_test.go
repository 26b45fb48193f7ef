package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cytodiag/wdbc/pkg/errors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
data:
  path: testdata/wdbc.data
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "testdata/wdbc.data", cfg.Data.Path)
	assert.Equal(t, uint64(1), cfg.Seed)
	assert.InDelta(t, 0.2, cfg.Split.Validation, 1e-12)
	assert.InDelta(t, 0.2, cfg.Split.Test, 1e-12)
	assert.Equal(t, FailRun, cfg.Models.FailurePolicy)
	assert.Equal(t, AllModels, cfg.Models.Enabled)
	assert.Equal(t, 100, cfg.Models.Forest.Estimators)
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
data:
  path: wdbc.data
seed: 1986
split:
  validation: 0.1
  test: 0.3
models:
  enabled: [lda, knn]
  failure_policy: drop
  knn:
    neighbors: 7
preprocessing:
  pca_components: 10
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, uint64(1986), cfg.Seed)
	assert.InDelta(t, 0.1, cfg.Split.Validation, 1e-12)
	assert.Equal(t, []string{"lda", "knn"}, cfg.Models.Enabled)
	assert.Equal(t, DropModel, cfg.Models.FailurePolicy)
	assert.Equal(t, 7, cfg.Models.KNN.Neighbors)
	assert.Equal(t, 10, cfg.Preprocessing.PCAComponents)
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"missing data path", "seed: 1\n"},
		{"bad fraction", "data: {path: x}\nsplit: {validation: 1.2, test: 0.2}\n"},
		{"zero fraction", "data: {path: x}\nsplit: {validation: 0.2, test: 0}\n"},
		{"fractions sum", "data: {path: x}\nsplit: {validation: 0.7, test: 0.7}\n"},
		{"unknown model", "data: {path: x}\nmodels: {enabled: [svm]}\n"},
		{"empty model list", "data: {path: x}\nmodels: {enabled: []}\n"},
		{"bad policy", "data: {path: x}\nmodels: {failure_policy: retry}\n"},
		{"negative pca", "data: {path: x}\npreprocessing: {pca_components: -1}\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.body))
			require.Error(t, err)
			var cfgErr *errors.ConfigError
			assert.True(t, errors.As(err, &cfgErr), "expected ConfigError, got %v", err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
