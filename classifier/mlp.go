package classifier

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/cytodiag/wdbc/core/model"
	"github.com/cytodiag/wdbc/dataset"
	"github.com/cytodiag/wdbc/pkg/errors"
)

// MLP is a small feed-forward network: one sigmoid hidden layer and a
// sigmoid output trained on cross-entropy by stochastic gradient descent.
type MLP struct {
	state *model.StateManager

	hiddenUnits  int
	epochs       int
	learningRate float64
	seed         uint64

	// weights: input→hidden (c×h flattened), hidden biases, hidden→output, output bias
	w1 []float64
	b1 []float64
	w2 []float64
	b2 float64
}

// MLPOption configures an MLP.
type MLPOption func(*MLP)

// WithMLPHiddenUnits sets the hidden layer width.
func WithMLPHiddenUnits(h int) MLPOption {
	return func(m *MLP) { m.hiddenUnits = h }
}

// WithMLPEpochs sets the number of passes over the training data.
func WithMLPEpochs(e int) MLPOption {
	return func(m *MLP) { m.epochs = e }
}

// WithMLPLearningRate sets the SGD step size.
func WithMLPLearningRate(rate float64) MLPOption {
	return func(m *MLP) { m.learningRate = rate }
}

// WithMLPSeed seeds weight initialization and sample shuffling.
func WithMLPSeed(seed uint64) MLPOption {
	return func(m *MLP) { m.seed = seed }
}

// NewMLP creates a network with sensible defaults for a thirty-feature table.
func NewMLP(opts ...MLPOption) *MLP {
	m := &MLP{
		state:        model.NewStateManager(),
		hiddenUnits:  8,
		epochs:       200,
		learningRate: 0.05,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Name implements Classifier.
func (m *MLP) Name() string { return "mlp" }

// Fit implements Classifier.
func (m *MLP) Fit(X mat.Matrix, y []dataset.Label) error {
	if err := checkTrainingInput(m.Name(), X, y); err != nil {
		return err
	}
	target, err := encodeLabels(m.Name(), y)
	if err != nil {
		return err
	}
	if m.hiddenUnits < 1 {
		return errors.NewConfigError("mlp.hidden_units", "must be at least 1", m.hiddenUnits)
	}

	r, c := X.Dims()
	h := m.hiddenUnits
	rng := rand.New(rand.NewPCG(m.seed, m.seed+2))

	m.w1 = make([]float64, c*h)
	m.b1 = make([]float64, h)
	m.w2 = make([]float64, h)
	for i := range m.w1 {
		m.w1[i] = rng.Float64() - 0.5
	}
	for i := range m.w2 {
		m.w2[i] = rng.Float64() - 0.5
	}

	rows := matrixRows(X)
	order := make([]int, r)
	for i := range order {
		order[i] = i
	}

	hidden := make([]float64, h)
	for epoch := 0; epoch < m.epochs; epoch++ {
		rng.Shuffle(r, func(i, j int) { order[i], order[j] = order[j], order[i] })
		for _, idx := range order {
			x := rows[idx]

			out := m.forward(x, hidden)
			dOut := out - target[idx] // cross-entropy + sigmoid gradient

			for j := 0; j < h; j++ {
				dHidden := dOut * m.w2[j] * hidden[j] * (1 - hidden[j])
				m.w2[j] -= m.learningRate * dOut * hidden[j]
				for k := 0; k < len(x); k++ {
					m.w1[k*h+j] -= m.learningRate * dHidden * x[k]
				}
				m.b1[j] -= m.learningRate * dHidden
			}
			m.b2 -= m.learningRate * dOut
		}
	}

	if err := errors.CheckFinite("MLP.Fit", m.w2); err != nil {
		return errors.NewTrainingError(m.Name(), "weights diverged; lower the learning rate")
	}

	m.state.SetDimensions(c, r)
	m.state.SetFitted()
	return nil
}

// forward computes the network output for one row, filling hidden in place.
func (m *MLP) forward(x []float64, hidden []float64) float64 {
	h := m.hiddenUnits
	for j := 0; j < h; j++ {
		z := m.b1[j]
		for k := 0; k < len(x); k++ {
			z += m.w1[k*h+j] * x[k]
		}
		hidden[j] = sigmoid(z)
	}
	z := m.b2
	for j := 0; j < h; j++ {
		z += m.w2[j] * hidden[j]
	}
	return sigmoid(z)
}

// Predict implements Classifier.
func (m *MLP) Predict(X mat.Matrix) ([]dataset.Label, error) {
	if err := m.state.RequireFitted("MLP", "Predict"); err != nil {
		return nil, err
	}
	r, c := X.Dims()
	nFeatures, _ := m.state.Dimensions()
	if c != nFeatures {
		return nil, errors.NewDimensionError("MLP.Predict", nFeatures, c, 1)
	}

	rows := matrixRows(X)
	hidden := make([]float64, m.hiddenUnits)
	scores := make([]float64, r)
	for i := 0; i < r; i++ {
		scores[i] = m.forward(rows[i], hidden)
	}
	return decodeScores(scores), nil
}
