// Package pipeline wires the analysis end to end: read the table, split,
// scale, fit the model bank, combine, and evaluate.
package pipeline

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cytodiag/wdbc/pkg/errors"
)

// FailurePolicy decides what happens when one model of the bank cannot be
// fitted. There is no silent recovery: either the run aborts or the model is
// dropped from the ensemble, loudly.
type FailurePolicy string

const (
	// FailRun aborts the whole run on the first training failure.
	FailRun FailurePolicy = "fail"
	// DropModel excludes the failed model from the ensemble and continues.
	DropModel FailurePolicy = "drop"
)

// Config is the complete run configuration, loaded from a YAML file.
type Config struct {
	Data struct {
		Path string `yaml:"path"`
	} `yaml:"data"`

	// Seed is the root seed; the split and every stochastic model derive
	// their own seeds from it, so a config reproduces its run exactly.
	Seed uint64 `yaml:"seed"`

	Split struct {
		Validation float64 `yaml:"validation"`
		Test       float64 `yaml:"test"`
	} `yaml:"split"`

	Preprocessing struct {
		// PCAComponents projects onto this many leading components after
		// scaling; 0 keeps the full feature space.
		PCAComponents int `yaml:"pca_components"`
	} `yaml:"preprocessing"`

	Models struct {
		Enabled       []string      `yaml:"enabled"`
		FailurePolicy FailurePolicy `yaml:"failure_policy"`

		Logistic struct {
			C            float64 `yaml:"c"`
			LearningRate float64 `yaml:"learning_rate"`
			MaxIter      int     `yaml:"max_iter"`
		} `yaml:"logistic"`

		Loess struct {
			Span float64 `yaml:"span"`
		} `yaml:"loess"`

		KNN struct {
			// Neighbors fixes k; 0 lets Fit select it by cross-validation.
			Neighbors int `yaml:"neighbors"`
		} `yaml:"knn"`

		Tree struct {
			MaxDepth        int `yaml:"max_depth"`
			MinSamplesSplit int `yaml:"min_samples_split"`
		} `yaml:"tree"`

		Forest struct {
			Estimators int `yaml:"estimators"`
			MaxDepth   int `yaml:"max_depth"`
		} `yaml:"forest"`

		MLP struct {
			HiddenUnits  int     `yaml:"hidden_units"`
			Epochs       int     `yaml:"epochs"`
			LearningRate float64 `yaml:"learning_rate"`
		} `yaml:"mlp"`
	} `yaml:"models"`

	Plots struct {
		// Dir receives the PCA scatter and feature histograms; empty
		// disables plotting.
		Dir string `yaml:"dir"`
	} `yaml:"plots"`

	Log struct {
		Level   string `yaml:"level"`
		Console bool   `yaml:"console"`
	} `yaml:"log"`
}

// AllModels lists every bank member in results-table order.
var AllModels = []string{
	"logistic_regression", "lda", "qda", "loess",
	"knn", "decision_tree", "random_forest", "mlp",
}

// Default returns the configuration the analysis runs with when a field is
// left unset.
func Default() Config {
	var cfg Config
	cfg.Seed = 1
	cfg.Split.Validation = 0.2
	cfg.Split.Test = 0.2
	cfg.Models.Enabled = append([]string(nil), AllModels...)
	cfg.Models.FailurePolicy = FailRun
	cfg.Models.Logistic.C = 1.0
	cfg.Models.Logistic.LearningRate = 0.1
	cfg.Models.Logistic.MaxIter = 1000
	cfg.Models.Loess.Span = 0.25
	cfg.Models.Tree.MaxDepth = 10
	cfg.Models.Tree.MinSamplesSplit = 2
	cfg.Models.Forest.Estimators = 100
	cfg.Models.Forest.MaxDepth = 10
	cfg.Models.MLP.HiddenUnits = 8
	cfg.Models.MLP.Epochs = 200
	cfg.Models.MLP.LearningRate = 0.05
	cfg.Log.Level = "info"
	cfg.Log.Console = true
	return cfg
}

// Load reads a YAML config file over the defaults and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "wdbc: reading config %s", path)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "wdbc: parsing config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the configuration and returns a ConfigError for the first
// problem found.
func (c *Config) Validate() error {
	if c.Data.Path == "" {
		return errors.NewConfigError("data.path", "dataset file path is required", nil)
	}
	// The run always evaluates on the test and validation subsets, so both
	// fractions must carve out at least something.
	if c.Split.Validation <= 0 || c.Split.Validation >= 1 {
		return errors.NewConfigError("split.validation", "must be in (0, 1)", c.Split.Validation)
	}
	if c.Split.Test <= 0 || c.Split.Test >= 1 {
		return errors.NewConfigError("split.test", "must be in (0, 1)", c.Split.Test)
	}
	if c.Split.Validation+c.Split.Test > 1 {
		return errors.NewConfigError("split", "validation and test fractions sum to more than 1",
			c.Split.Validation+c.Split.Test)
	}
	if len(c.Models.Enabled) == 0 {
		return errors.NewConfigError("models.enabled", "at least one model is required", nil)
	}
	known := map[string]bool{}
	for _, name := range AllModels {
		known[name] = true
	}
	for _, name := range c.Models.Enabled {
		if !known[name] {
			return errors.NewConfigError("models.enabled", "unknown model", name)
		}
	}
	switch c.Models.FailurePolicy {
	case FailRun, DropModel:
	default:
		return errors.NewConfigError("models.failure_policy", `must be "fail" or "drop"`, string(c.Models.FailurePolicy))
	}
	if c.Preprocessing.PCAComponents < 0 {
		return errors.NewConfigError("preprocessing.pca_components", "must be non-negative", c.Preprocessing.PCAComponents)
	}
	return nil
}
