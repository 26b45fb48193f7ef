// Package wdbc analyses the Wisconsin Diagnostic Breast Cancer table: it
// loads the thirty-feature measurement table, splits it with stratification,
// standardizes the features from training statistics only, trains a bank of
// binary classifiers, and combines their predictions by majority vote.
//
// The packages compose one directional data flow:
//
//	dataset → dataset/split → preprocessing → classifier → ensemble → metrics
//
// with pipeline orchestrating a full run from a YAML config and cmd/wdbc
// exposing it as a command.
//
// A quick run over a table on disk:
//
//	cfg := pipeline.Default()
//	cfg.Data.Path = "wdbc.data"
//	cfg.Seed = 42
//	results, err := pipeline.Run(cfg, logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(results)
package wdbc
