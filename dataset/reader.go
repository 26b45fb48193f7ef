package dataset

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/cytodiag/wdbc/pkg/errors"
)

// expected columns per row: id, diagnosis, then the thirty features.
const numColumns = 2 + NumFeatures

// Read parses the WDBC table from r. The format is comma-delimited with no
// header row; column names come from FeatureNames. Every feature cell must be
// a finite number and every identifier unique, otherwise a DataError names
// the offending row and column.
func Read(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // arity checked per row for a better error

	var samples []Sample
	row := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "wdbc: dataset.Read")
		}
		row++

		sample, err := parseRow(record, row)
		if err != nil {
			return nil, err
		}
		samples = append(samples, sample)
	}

	if len(samples) == 0 {
		return nil, errors.NewDataError("dataset.Read", 0, "", "no samples in input")
	}
	return New(samples)
}

// ReadFile reads the WDBC table from a file on disk.
func ReadFile(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "wdbc: dataset.ReadFile %s", path)
	}
	defer f.Close()
	return Read(f)
}

func parseRow(record []string, row int) (Sample, error) {
	if len(record) != numColumns {
		return Sample{}, errors.NewDataError("dataset.Read", row, "",
			"expected "+strconv.Itoa(numColumns)+" columns, got "+strconv.Itoa(len(record)))
	}

	id := strings.TrimSpace(record[0])
	if id == "" {
		return Sample{}, errors.NewDataError("dataset.Read", row, "id", "missing identifier")
	}

	diagnosis, err := ParseLabel(strings.TrimSpace(record[1]))
	if err != nil {
		return Sample{}, errors.NewDataError("dataset.Read", row, "diagnosis",
			"unknown label "+record[1])
	}

	sample := Sample{ID: id, Diagnosis: diagnosis}
	for j := 0; j < NumFeatures; j++ {
		cell := strings.TrimSpace(record[2+j])
		if cell == "" {
			return Sample{}, errors.NewDataError("dataset.Read", row, FeatureNames[j], "missing value")
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return Sample{}, errors.NewDataError("dataset.Read", row, FeatureNames[j],
				"cannot parse "+strconv.Quote(cell)+" as number")
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Sample{}, errors.NewDataError("dataset.Read", row, FeatureNames[j], "non-finite value")
		}
		sample.Features[j] = v
	}
	return sample, nil
}
