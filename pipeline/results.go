package pipeline

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/cytodiag/wdbc/metrics"
)

// ModelScore is one row of the per-model results table.
type ModelScore struct {
	Name     string
	Accuracy float64
}

// Results is the output of a run: test accuracy per model, the majority-vote
// ensemble, and the confusion reports for the best single model and the
// ensemble on both held-out subsets.
type Results struct {
	TestAccuracies []ModelScore
	Dropped        []string

	BestModel      string
	BestTest       *metrics.ConfusionMatrix
	BestValidation *metrics.ConfusionMatrix

	EnsembleTest       *metrics.ConfusionMatrix
	EnsembleValidation *metrics.ConfusionMatrix
}

// String renders the results table and confusion reports.
func (r *Results) String() string {
	var b strings.Builder

	tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "model\ttest accuracy")
	for _, score := range r.TestAccuracies {
		fmt.Fprintf(tw, "%s\t%.4f\n", score.Name, score.Accuracy)
	}
	fmt.Fprintf(tw, "ensemble\t%.4f\n", r.EnsembleTest.Accuracy())
	tw.Flush()

	if len(r.Dropped) > 0 {
		fmt.Fprintf(&b, "\ndropped from ensemble: %s\n", strings.Join(r.Dropped, ", "))
	}

	fmt.Fprintf(&b, "\nbest single model: %s\n", r.BestModel)
	fmt.Fprintf(&b, "\n%s on test:\n%s\n", r.BestModel, r.BestTest)
	fmt.Fprintf(&b, "\n%s on validation:\n%s\n", r.BestModel, r.BestValidation)
	fmt.Fprintf(&b, "\nensemble on test:\n%s\n", r.EnsembleTest)
	fmt.Fprintf(&b, "\nensemble on validation:\n%s\n", r.EnsembleValidation)
	return b.String()
}
