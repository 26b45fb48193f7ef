package preprocessing

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/cytodiag/wdbc/core/model"
	"github.com/cytodiag/wdbc/pkg/errors"
)

// PCA computes a principal-component basis from the training matrix and
// projects data onto its leading components. Like the scaler, the basis is
// learned once at Fit time and reused for every subsequent Transform.
type PCA struct {
	state *model.StateManager

	// NComponents is the number of leading components kept by Transform.
	NComponents int

	mean      []float64
	vectors   *mat.Dense // d×d, columns ordered by decreasing variance
	variances []float64
}

// NewPCA creates an unfitted PCA keeping nComponents leading components.
func NewPCA(nComponents int) *PCA {
	return &PCA{state: model.NewStateManager(), NComponents: nComponents}
}

// Fit learns the principal-component basis of X.
func (p *PCA) Fit(X mat.Matrix) (err error) {
	defer errors.Recover(&err, "PCA.Fit")

	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.Wrap(errors.ErrEmptyData, "wdbc: PCA.Fit")
	}
	if p.NComponents < 1 || p.NComponents > c {
		return errors.NewConfigError("pca.components", "must be between 1 and the feature count", p.NComponents)
	}
	if err := errors.CheckMatrixFinite("PCA.Fit", X, r, c, nil); err != nil {
		return err
	}

	var pc stat.PC
	if ok := pc.PrincipalComponents(X, nil); !ok {
		return errors.Wrap(errors.ErrSingularMatrix, "wdbc: PCA.Fit")
	}

	p.vectors = &mat.Dense{}
	pc.VectorsTo(p.vectors)
	p.variances = pc.VarsTo(nil)

	p.mean = make([]float64, c)
	for j := 0; j < c; j++ {
		sum := 0.0
		for i := 0; i < r; i++ {
			sum += X.At(i, j)
		}
		p.mean[j] = sum / float64(r)
	}

	p.state.SetDimensions(c, r)
	p.state.SetFitted()
	return nil
}

// Transform projects X onto the leading NComponents components.
func (p *PCA) Transform(X mat.Matrix) (*mat.Dense, error) {
	if err := p.state.RequireFitted("PCA", "Transform"); err != nil {
		return nil, err
	}

	r, c := X.Dims()
	nFeatures, _ := p.state.Dimensions()
	if c != nFeatures {
		return nil, errors.NewDimensionError("PCA.Transform", nFeatures, c, 1)
	}

	centered := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			centered.Set(i, j, X.At(i, j)-p.mean[j])
		}
	}

	basis := p.vectors.Slice(0, c, 0, p.NComponents)
	scores := mat.NewDense(r, p.NComponents, nil)
	scores.Mul(centered, basis)
	return scores, nil
}

// FitTransform fits the basis on X and returns its projection.
func (p *PCA) FitTransform(X mat.Matrix) (*mat.Dense, error) {
	if err := p.Fit(X); err != nil {
		return nil, err
	}
	return p.Transform(X)
}

// ExplainedVarianceRatio returns, per component, the share of total variance
// that the component captures.
func (p *PCA) ExplainedVarianceRatio() ([]float64, error) {
	if err := p.state.RequireFitted("PCA", "ExplainedVarianceRatio"); err != nil {
		return nil, err
	}
	total := 0.0
	for _, v := range p.variances {
		total += v
	}
	ratios := make([]float64, len(p.variances))
	if total == 0 {
		return ratios, nil
	}
	for i, v := range p.variances {
		ratios[i] = v / total
	}
	return ratios, nil
}
