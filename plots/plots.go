// Package plots renders the descriptive figures of the analysis: the
// first-two-component PCA scatter and per-feature histograms.
package plots

import (
	"image/color"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/cytodiag/wdbc/dataset"
	"github.com/cytodiag/wdbc/pkg/errors"
)

var (
	benignColor    = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}
	malignantColor = color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff}
)

// PCAScatter writes a scatter of the first two principal-component scores,
// one series per diagnosis.
func PCAScatter(scores *mat.Dense, labels []dataset.Label, path string) error {
	r, c := scores.Dims()
	if c < 2 {
		return errors.NewDimensionError("plots.PCAScatter", 2, c, 1)
	}
	if r != len(labels) {
		return errors.NewAlignmentError("plots.PCAScatter", r, len(labels))
	}

	var benign, malignant plotter.XYs
	for i := 0; i < r; i++ {
		pt := plotter.XY{X: scores.At(i, 0), Y: scores.At(i, 1)}
		if labels[i] == dataset.Benign {
			benign = append(benign, pt)
		} else {
			malignant = append(malignant, pt)
		}
	}

	p := plot.New()
	p.Title.Text = "principal components by diagnosis"
	p.X.Label.Text = "PC1"
	p.Y.Label.Text = "PC2"

	for _, series := range []struct {
		name string
		xys  plotter.XYs
		col  color.RGBA
	}{
		{"benign", benign, benignColor},
		{"malignant", malignant, malignantColor},
	} {
		if len(series.xys) == 0 {
			continue
		}
		s, err := plotter.NewScatter(series.xys)
		if err != nil {
			return errors.Wrap(err, "wdbc: plots.PCAScatter")
		}
		s.GlyphStyle.Color = series.col
		s.GlyphStyle.Radius = vg.Points(2)
		p.Add(s)
		p.Legend.Add(series.name, s)
	}

	if err := p.Save(6*vg.Inch, 5*vg.Inch, path); err != nil {
		return errors.Wrap(err, "wdbc: plots.PCAScatter")
	}
	return nil
}

// FeatureHistogram writes a histogram of one feature column.
func FeatureHistogram(ds *dataset.Dataset, feature, path string) error {
	values, err := ds.FeatureColumn(feature)
	if err != nil {
		return err
	}

	h, err := plotter.NewHist(plotter.Values(values), 20)
	if err != nil {
		return errors.Wrap(err, "wdbc: plots.FeatureHistogram")
	}
	h.FillColor = benignColor

	p := plot.New()
	p.Title.Text = feature
	p.X.Label.Text = feature
	p.Y.Label.Text = "count"
	p.Add(h)

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return errors.Wrap(err, "wdbc: plots.FeatureHistogram")
	}
	return nil
}
