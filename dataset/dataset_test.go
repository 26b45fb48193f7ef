package dataset

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cytodiag/wdbc/pkg/errors"
)

// wdbcRow renders one file row with all thirty features derived from base.
func wdbcRow(id, label string, base float64) string {
	cells := []string{id, label}
	for j := 0; j < NumFeatures; j++ {
		cells = append(cells, fmt.Sprintf("%.4f", base+float64(j)*0.1))
	}
	return strings.Join(cells, ",")
}

func TestReadValidTable(t *testing.T) {
	input := strings.Join([]string{
		wdbcRow("842302", "M", 17.99),
		wdbcRow("842517", "M", 20.57),
		wdbcRow("8510426", "B", 13.54),
		wdbcRow("8510653", "B", 13.08),
	}, "\n")

	ds, err := Read(strings.NewReader(input))
	require.NoError(t, err)
	require.Equal(t, 4, ds.Len())

	assert.Equal(t, "842302", ds.Samples[0].ID)
	assert.Equal(t, Malignant, ds.Samples[0].Diagnosis)
	assert.InDelta(t, 17.99, ds.Samples[0].Features[0], 1e-9)
	assert.Equal(t, Benign, ds.Samples[2].Diagnosis)

	benign, malignant := ds.ClassCounts()
	assert.Equal(t, 2, benign)
	assert.Equal(t, 2, malignant)

	X, err := ds.Matrix()
	require.NoError(t, err)
	r, c := X.Dims()
	assert.Equal(t, 4, r)
	assert.Equal(t, NumFeatures, c)
}

func TestMatrixEmptyDataset(t *testing.T) {
	ds, err := New(nil)
	require.NoError(t, err)

	// Empty subsets are valid split results; the matrix accessor reports
	// them instead of panicking.
	_, err = ds.Subset(nil).Matrix()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrEmptyData))
}

func TestReadRejectsDuplicateID(t *testing.T) {
	input := wdbcRow("842302", "M", 17.99) + "\n" + wdbcRow("842302", "B", 13.54)

	_, err := Read(strings.NewReader(input))
	require.Error(t, err)
	var dataErr *errors.DataError
	require.True(t, errors.As(err, &dataErr))
	assert.Contains(t, dataErr.Reason, "duplicate")
}

func TestReadRejectsMalformedCell(t *testing.T) {
	row := wdbcRow("842302", "M", 17.99)
	cells := strings.Split(row, ",")
	cells[5] = "n/a"
	input := strings.Join(cells, ",")

	_, err := Read(strings.NewReader(input))
	require.Error(t, err)
	var dataErr *errors.DataError
	require.True(t, errors.As(err, &dataErr))
	assert.Equal(t, 1, dataErr.Row)
	assert.Equal(t, FeatureNames[3], dataErr.Column)
}

func TestReadRejectsMissingCell(t *testing.T) {
	row := wdbcRow("842302", "B", 13.54)
	cells := strings.Split(row, ",")
	cells[10] = ""
	input := strings.Join(cells, ",")

	_, err := Read(strings.NewReader(input))
	require.Error(t, err)
	var dataErr *errors.DataError
	require.True(t, errors.As(err, &dataErr))
	assert.Equal(t, "missing value", dataErr.Reason)
}

func TestReadRejectsUnknownLabel(t *testing.T) {
	input := wdbcRow("842302", "X", 17.99)
	_, err := Read(strings.NewReader(input))
	require.Error(t, err)
	var dataErr *errors.DataError
	require.True(t, errors.As(err, &dataErr))
	assert.Equal(t, "diagnosis", dataErr.Column)
}

func TestReadRejectsShortRow(t *testing.T) {
	_, err := Read(strings.NewReader("842302,M,17.99,10.38"))
	require.Error(t, err)
}

func TestReadRejectsEmptyInput(t *testing.T) {
	_, err := Read(strings.NewReader(""))
	require.Error(t, err)
}

func TestFeatureNamesOrder(t *testing.T) {
	assert.Equal(t, "radius_mean", FeatureNames[0])
	assert.Equal(t, "fractal_dimension_mean", FeatureNames[9])
	assert.Equal(t, "radius_se", FeatureNames[10])
	assert.Equal(t, "radius_worst", FeatureNames[20])
	assert.Equal(t, "fractal_dimension_worst", FeatureNames[29])
}

func TestSubsetPreservesOrder(t *testing.T) {
	input := strings.Join([]string{
		wdbcRow("1", "M", 1),
		wdbcRow("2", "B", 2),
		wdbcRow("3", "B", 3),
	}, "\n")
	ds, err := Read(strings.NewReader(input))
	require.NoError(t, err)

	sub := ds.Subset([]int{2, 0})
	require.Equal(t, 2, sub.Len())
	assert.Equal(t, []string{"3", "1"}, sub.IDs())
}

func TestFeatureColumn(t *testing.T) {
	ds, err := Read(strings.NewReader(wdbcRow("1", "B", 5)))
	require.NoError(t, err)

	col, err := ds.FeatureColumn("texture_mean")
	require.NoError(t, err)
	assert.InDelta(t, 5.1, col[0], 1e-9)

	_, err = ds.FeatureColumn("nope")
	assert.Error(t, err)
}
