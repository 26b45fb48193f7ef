// Command wdbc runs the breast-tumor classification analysis: it loads the
// measurement table named in the config file, trains the model bank, and
// prints the accuracy table and confusion reports.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cytodiag/wdbc/dataset"
	"github.com/cytodiag/wdbc/pipeline"
	"github.com/cytodiag/wdbc/pkg/log"
	"github.com/cytodiag/wdbc/plots"
	"github.com/cytodiag/wdbc/preprocessing"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the run configuration file")
	logLevel := flag.String("loglevel", "", "override the configured log level")
	flag.Parse()

	cfg, err := pipeline.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}

	logger := log.Setup(cfg.Log.Level, cfg.Log.Console)

	results, err := pipeline.Run(cfg, logger)
	if err != nil {
		logger.Error().Err(err).Msg("run failed")
		os.Exit(1)
	}

	fmt.Println(results)

	if cfg.Plots.Dir != "" {
		if err := writePlots(cfg); err != nil {
			logger.Warn().Err(err).Msg("plotting failed")
		}
	}
}

// writePlots renders the descriptive figures over the full table: the
// two-component PCA scatter and a few feature histograms.
func writePlots(cfg pipeline.Config) error {
	ds, err := dataset.ReadFile(cfg.Data.Path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.Plots.Dir, 0o755); err != nil {
		return err
	}

	X, err := ds.Matrix()
	if err != nil {
		return err
	}
	scaled, err := preprocessing.NewStandardScaler().FitTransform(X)
	if err != nil {
		return err
	}
	scores, err := preprocessing.NewPCA(2).FitTransform(scaled)
	if err != nil {
		return err
	}
	if err := plots.PCAScatter(scores, ds.Labels(), filepath.Join(cfg.Plots.Dir, "pca_scatter.png")); err != nil {
		return err
	}

	for _, feature := range []string{"radius_mean", "concavity_mean", "area_worst"} {
		path := filepath.Join(cfg.Plots.Dir, feature+".png")
		if err := plots.FeatureHistogram(ds, feature, path); err != nil {
			return err
		}
	}
	return nil
}
