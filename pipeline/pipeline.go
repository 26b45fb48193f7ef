package pipeline

import (
	"time"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/mat"

	"github.com/cytodiag/wdbc/classifier"
	"github.com/cytodiag/wdbc/core/parallel"
	"github.com/cytodiag/wdbc/dataset"
	"github.com/cytodiag/wdbc/dataset/split"
	"github.com/cytodiag/wdbc/ensemble"
	"github.com/cytodiag/wdbc/metrics"
	"github.com/cytodiag/wdbc/pkg/errors"
	"github.com/cytodiag/wdbc/preprocessing"
)

// Run executes the full analysis described by cfg: load, split, scale, fit
// the bank, combine by majority vote, and evaluate on the test and
// validation subsets.
func Run(cfg Config, logger zerolog.Logger) (*Results, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ds, err := dataset.ReadFile(cfg.Data.Path)
	if err != nil {
		return nil, err
	}
	benign, malignant := ds.ClassCounts()
	logger.Info().
		Int("samples", ds.Len()).
		Int("benign", benign).
		Int("malignant", malignant).
		Msg("dataset loaded")

	parts, err := split.Stratified(ds, split.Fractions{
		Validation: cfg.Split.Validation,
		Test:       cfg.Split.Test,
	}, cfg.Seed)
	if err != nil {
		return nil, err
	}
	logger.Info().
		Int("train", parts.Train.Len()).
		Int("test", parts.Test.Len()).
		Int("validation", parts.Validation.Len()).
		Msg("stratified split")

	features, err := prepare(cfg, parts)
	if err != nil {
		return nil, err
	}

	bank := buildBank(cfg)
	fitted, dropped, err := fitBank(cfg, bank, features.train, parts.Train.Labels(), logger)
	if err != nil {
		return nil, err
	}

	return evaluate(parts, features, fitted, dropped, logger)
}

// prepared holds the three subsets after scaling (and optional PCA), all
// derived from training-population statistics only.
type prepared struct {
	train      *mat.Dense
	test       *mat.Dense
	validation *mat.Dense
}

// prepare fits the scaler (and optional PCA basis) on the training subset
// and applies the same transformation to all three subsets, keeping test and
// validation data out of the fitted statistics.
func prepare(cfg Config, parts *split.Split) (*prepared, error) {
	trainX, err := parts.Train.Matrix()
	if err != nil {
		return nil, err
	}
	testX, err := parts.Test.Matrix()
	if err != nil {
		return nil, err
	}
	validationX, err := parts.Validation.Matrix()
	if err != nil {
		return nil, err
	}

	scaler := preprocessing.NewStandardScaler()
	train, err := scaler.FitTransform(trainX)
	if err != nil {
		return nil, err
	}
	test, err := scaler.Transform(testX)
	if err != nil {
		return nil, err
	}
	validation, err := scaler.Transform(validationX)
	if err != nil {
		return nil, err
	}

	if k := cfg.Preprocessing.PCAComponents; k > 0 {
		pca := preprocessing.NewPCA(k)
		if train, err = pca.FitTransform(train); err != nil {
			return nil, err
		}
		if test, err = pca.Transform(test); err != nil {
			return nil, err
		}
		if validation, err = pca.Transform(validation); err != nil {
			return nil, err
		}
	}
	return &prepared{train: train, test: test, validation: validation}, nil
}

// buildBank constructs the enabled models with their configured
// hyperparameters. Stochastic members derive distinct seeds from the root
// seed so runs are reproducible end to end.
func buildBank(cfg Config) []classifier.Classifier {
	var bank []classifier.Classifier
	for _, name := range cfg.Models.Enabled {
		switch name {
		case "logistic_regression":
			bank = append(bank, classifier.NewLogisticRegression(
				classifier.WithLRC(cfg.Models.Logistic.C),
				classifier.WithLRLearningRate(cfg.Models.Logistic.LearningRate),
				classifier.WithLRMaxIter(cfg.Models.Logistic.MaxIter),
			))
		case "lda":
			bank = append(bank, classifier.NewLDA())
		case "qda":
			bank = append(bank, classifier.NewQDA())
		case "loess":
			bank = append(bank, classifier.NewLoess(
				classifier.WithLoessSpan(cfg.Models.Loess.Span),
			))
		case "knn":
			bank = append(bank, classifier.NewKNN(
				classifier.WithKNNNeighbors(cfg.Models.KNN.Neighbors),
			))
		case "decision_tree":
			bank = append(bank, classifier.NewDecisionTree(
				classifier.WithTreeMaxDepth(cfg.Models.Tree.MaxDepth),
				classifier.WithTreeMinSamplesSplit(cfg.Models.Tree.MinSamplesSplit),
				classifier.WithTreeSeed(cfg.Seed+101),
			))
		case "random_forest":
			bank = append(bank, classifier.NewRandomForest(
				classifier.WithForestEstimators(cfg.Models.Forest.Estimators),
				classifier.WithForestMaxDepth(cfg.Models.Forest.MaxDepth),
				classifier.WithForestSeed(cfg.Seed+211),
			))
		case "mlp":
			bank = append(bank, classifier.NewMLP(
				classifier.WithMLPHiddenUnits(cfg.Models.MLP.HiddenUnits),
				classifier.WithMLPEpochs(cfg.Models.MLP.Epochs),
				classifier.WithMLPLearningRate(cfg.Models.MLP.LearningRate),
				classifier.WithMLPSeed(cfg.Seed+307),
			))
		}
	}
	return bank
}

// fitBank trains all members concurrently; each model owns its parameter
// state, so the fits share nothing but the read-only training matrix. The
// failure policy decides between aborting the run and dropping the model.
func fitBank(cfg Config, bank []classifier.Classifier, X *mat.Dense, y []dataset.Label, logger zerolog.Logger) ([]classifier.Classifier, []string, error) {
	fitErrs := parallel.ForEach(len(bank), func(i int) error {
		start := time.Now()
		if err := bank[i].Fit(X, y); err != nil {
			return err
		}
		r, c := X.Dims()
		logger.Debug().
			Str("model", bank[i].Name()).
			Int("samples", r).
			Int("features", c).
			Dur("elapsed", time.Since(start)).
			Msg("model fitted")
		return nil
	})

	var fitted []classifier.Classifier
	var dropped []string
	for i, err := range fitErrs {
		if err == nil {
			fitted = append(fitted, bank[i])
			continue
		}
		if cfg.Models.FailurePolicy == FailRun {
			return nil, nil, errors.Wrapf(err, "wdbc: fitting %s", bank[i].Name())
		}
		logger.Warn().Err(err).Str("model", bank[i].Name()).Msg("model dropped from ensemble")
		dropped = append(dropped, bank[i].Name())
	}
	if len(fitted) == 0 {
		return nil, nil, errors.New("wdbc: every model failed to fit; nothing to ensemble")
	}
	return fitted, dropped, nil
}

func evaluate(parts *split.Split, features *prepared, fitted []classifier.Classifier, dropped []string, logger zerolog.Logger) (*Results, error) {
	testLabels := parts.Test.Labels()
	validationLabels := parts.Validation.Labels()

	results := &Results{Dropped: dropped}

	var testSets [][]dataset.Label
	bestIdx := -1
	for _, clf := range fitted {
		preds, err := clf.Predict(features.test)
		if err != nil {
			return nil, err
		}
		cm, err := metrics.Evaluate(preds, testLabels)
		if err != nil {
			return nil, err
		}
		acc := cm.Accuracy()
		results.TestAccuracies = append(results.TestAccuracies, ModelScore{Name: clf.Name(), Accuracy: acc})
		logger.Info().Str("model", clf.Name()).Float64("test_accuracy", acc).Msg("model evaluated")

		testSets = append(testSets, preds)
		if bestIdx < 0 || acc > results.TestAccuracies[bestIdx].Accuracy {
			bestIdx = len(results.TestAccuracies) - 1
		}
	}

	best := fitted[bestIdx]
	results.BestModel = best.Name()

	combined, err := ensemble.Combine(testSets)
	if err != nil {
		return nil, err
	}
	if results.EnsembleTest, err = metrics.Evaluate(combined, testLabels); err != nil {
		return nil, err
	}
	bestTestPreds := testSets[bestIdx]
	if results.BestTest, err = metrics.Evaluate(bestTestPreds, testLabels); err != nil {
		return nil, err
	}

	// Final check on the held-back validation subset, for the best single
	// model and for the ensemble.
	var validationSets [][]dataset.Label
	for _, clf := range fitted {
		preds, err := clf.Predict(features.validation)
		if err != nil {
			return nil, err
		}
		validationSets = append(validationSets, preds)
	}
	combinedValidation, err := ensemble.Combine(validationSets)
	if err != nil {
		return nil, err
	}
	if results.EnsembleValidation, err = metrics.Evaluate(combinedValidation, validationLabels); err != nil {
		return nil, err
	}
	if results.BestValidation, err = metrics.Evaluate(validationSets[bestIdx], validationLabels); err != nil {
		return nil, err
	}

	logger.Info().
		Str("best_model", results.BestModel).
		Float64("ensemble_test_accuracy", results.EnsembleTest.Accuracy()).
		Float64("ensemble_validation_accuracy", results.EnsembleValidation.Accuracy()).
		Msg("run complete")
	return results, nil
}
