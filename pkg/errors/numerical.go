package errors

import (
	"math"
)

// CheckFinite returns a DataError if any value is NaN or infinite.
func CheckFinite(op string, values []float64) error {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return NewDataError(op, 0, "", "non-finite value in input")
		}
	}
	return nil
}

// CheckMatrixFinite scans a matrix and returns a DataError naming the first
// non-finite cell it finds. Row is reported 1-based to match source files.
func CheckMatrixFinite(op string, m interface{ At(int, int) float64 }, rows, cols int, columnName func(int) string) error {
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v := m.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				name := ""
				if columnName != nil {
					name = columnName(j)
				}
				return NewDataError(op, i+1, name, "non-finite value")
			}
		}
	}
	return nil
}

// Recover converts a panic into an error, for use with defer around library
// calls that may panic on degenerate numeric input.
func Recover(err *error, op string) {
	if r := recover(); r != nil {
		if *err == nil {
			*err = Newf("wdbc: %s: panic: %v", op, r)
		}
	}
}
