package classifier

import (
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/cytodiag/wdbc/core/model"
	"github.com/cytodiag/wdbc/dataset"
	"github.com/cytodiag/wdbc/pkg/errors"
)

// DecisionTree is a CART-style binary classifier with Gini splits.
type DecisionTree struct {
	state *model.StateManager

	// Hyperparameters
	maxDepth        int // 0 means unlimited
	minSamplesSplit int
	maxFeatures     int // 0 means all features
	seed            uint64

	root *treeNode
}

// treeNode is one split or leaf. Rows with feature <= threshold go left.
type treeNode struct {
	leaf      bool
	feature   int
	threshold float64
	left      *treeNode
	right     *treeNode
	value     float64 // benign share at a leaf
}

// DecisionTreeOption configures a DecisionTree.
type DecisionTreeOption func(*DecisionTree)

// WithTreeMaxDepth limits tree depth; 0 means unlimited.
func WithTreeMaxDepth(d int) DecisionTreeOption {
	return func(t *DecisionTree) { t.maxDepth = d }
}

// WithTreeMinSamplesSplit sets the minimum node size eligible for splitting.
func WithTreeMinSamplesSplit(n int) DecisionTreeOption {
	return func(t *DecisionTree) { t.minSamplesSplit = n }
}

// WithTreeMaxFeatures samples this many candidate features per split; 0
// means consider all of them.
func WithTreeMaxFeatures(k int) DecisionTreeOption {
	return func(t *DecisionTree) { t.maxFeatures = k }
}

// WithTreeSeed seeds the feature subsampling.
func WithTreeSeed(seed uint64) DecisionTreeOption {
	return func(t *DecisionTree) { t.seed = seed }
}

// NewDecisionTree creates a decision tree with sensible defaults.
func NewDecisionTree(opts ...DecisionTreeOption) *DecisionTree {
	t := &DecisionTree{
		state:           model.NewStateManager(),
		maxDepth:        10,
		minSamplesSplit: 2,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Name implements Classifier.
func (t *DecisionTree) Name() string { return "decision_tree" }

// Fit implements Classifier.
func (t *DecisionTree) Fit(X mat.Matrix, y []dataset.Label) error {
	if err := checkTrainingInput(t.Name(), X, y); err != nil {
		return err
	}
	target, err := encodeLabels(t.Name(), y)
	if err != nil {
		return err
	}

	rows := matrixRows(X)
	idx := make([]int, len(rows))
	for i := range idx {
		idx[i] = i
	}

	rng := rand.New(rand.NewPCG(t.seed, t.seed+1))
	t.root = t.build(rows, target, idx, 0, rng)

	r, c := X.Dims()
	t.state.SetDimensions(c, r)
	t.state.SetFitted()
	return nil
}

// Predict implements Classifier.
func (t *DecisionTree) Predict(X mat.Matrix) ([]dataset.Label, error) {
	if err := t.state.RequireFitted("DecisionTree", "Predict"); err != nil {
		return nil, err
	}
	r, c := X.Dims()
	nFeatures, _ := t.state.Dimensions()
	if c != nFeatures {
		return nil, errors.NewDimensionError("DecisionTree.Predict", nFeatures, c, 1)
	}

	scores := make([]float64, r)
	row := make([]float64, c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			row[j] = X.At(i, j)
		}
		scores[i] = t.root.traverse(row)
	}
	return decodeScores(scores), nil
}

func (n *treeNode) traverse(x []float64) float64 {
	for !n.leaf {
		if x[n.feature] <= n.threshold {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n.value
}

func (t *DecisionTree) build(rows [][]float64, target []float64, idx []int, depth int, rng *rand.Rand) *treeNode {
	benign := 0.0
	for _, i := range idx {
		benign += target[i]
	}
	share := benign / float64(len(idx))

	if share == 0 || share == 1 ||
		len(idx) < t.minSamplesSplit ||
		(t.maxDepth > 0 && depth >= t.maxDepth) {
		return &treeNode{leaf: true, value: share}
	}

	feature, threshold, ok := t.bestSplit(rows, target, idx, rng)
	if !ok {
		return &treeNode{leaf: true, value: share}
	}

	var left, right []int
	for _, i := range idx {
		if rows[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return &treeNode{leaf: true, value: share}
	}

	return &treeNode{
		feature:   feature,
		threshold: threshold,
		left:      t.build(rows, target, left, depth+1, rng),
		right:     t.build(rows, target, right, depth+1, rng),
	}
}

// bestSplit scans candidate features for the threshold with the lowest
// weighted Gini impurity.
func (t *DecisionTree) bestSplit(rows [][]float64, target []float64, idx []int, rng *rand.Rand) (int, float64, bool) {
	nFeatures := len(rows[0])
	features := make([]int, nFeatures)
	for j := range features {
		features[j] = j
	}
	if t.maxFeatures > 0 && t.maxFeatures < nFeatures {
		rng.Shuffle(nFeatures, func(i, j int) {
			features[i], features[j] = features[j], features[i]
		})
		features = features[:t.maxFeatures]
	}

	bestGini := 2.0
	bestFeature, bestThreshold := -1, 0.0

	for _, f := range features {
		// Sort sample indices by the candidate feature once; midpoints
		// between adjacent distinct values are the candidate thresholds.
		order := append([]int(nil), idx...)
		sortByFeature(order, rows, f)

		totalBenign := 0.0
		for _, i := range order {
			totalBenign += target[i]
		}
		n := float64(len(order))

		leftN, leftBenign := 0.0, 0.0
		for k := 0; k < len(order)-1; k++ {
			i := order[k]
			leftN++
			leftBenign += target[i]

			cur, next := rows[i][f], rows[order[k+1]][f]
			if cur == next {
				continue
			}

			rightN := n - leftN
			rightBenign := totalBenign - leftBenign
			gini := (leftN*giniBinary(leftBenign/leftN) + rightN*giniBinary(rightBenign/rightN)) / n
			if gini < bestGini {
				bestGini = gini
				bestFeature = f
				bestThreshold = (cur + next) / 2
			}
		}
	}
	return bestFeature, bestThreshold, bestFeature >= 0
}

func giniBinary(p float64) float64 {
	return 2 * p * (1 - p)
}

func sortByFeature(order []int, rows [][]float64, f int) {
	sort.Slice(order, func(a, b int) bool {
		return rows[order[a]][f] < rows[order[b]][f]
	})
}
