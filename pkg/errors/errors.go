// Package errors provides the structured error and warning types used across
// the analysis pipeline, built on cockroachdb/errors for stack traces and
// wrapping. Each error kind carries enough context to be logged as a zerolog
// structured event.
package errors

import (
	"fmt"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	Warning handling
//
// ===========================================================================

var (
	warningMutex   sync.Mutex
	warningHandler = func(w error) {}
)

// SetWarningHandler installs the handler invoked by Warn. The default handler
// discards warnings; the log package installs a zerolog-backed one at startup.
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// Warn raises a non-fatal warning through the installed handler.
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	if warningHandler != nil {
		warningHandler(w)
	}
}

// ConvergenceWarning is raised when an iterative optimizer stops at its
// iteration limit without meeting its tolerance.
type ConvergenceWarning struct {
	Algorithm  string
	Iterations int
}

func (w *ConvergenceWarning) Error() string {
	return fmt.Sprintf("%s did not converge within %d iterations; consider raising max_iter or loosening tol", w.Algorithm, w.Iterations)
}

// MarshalZerologObject adds the warning fields to a zerolog event.
func (w *ConvergenceWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("algorithm", w.Algorithm).
		Int("iterations", w.Iterations).
		Str("type", "ConvergenceWarning")
}

// NewConvergenceWarning creates a new ConvergenceWarning.
func NewConvergenceWarning(algorithm string, iterations int) *ConvergenceWarning {
	return &ConvergenceWarning{Algorithm: algorithm, Iterations: iterations}
}

// UndefinedMetricWarning is raised when a derived metric has a zero
// denominator. The metric is reported as NaN, never as a fatal error.
type UndefinedMetricWarning struct {
	Metric    string
	Condition string
}

func (w *UndefinedMetricWarning) Error() string {
	return fmt.Sprintf("'%s' is undefined (%s) and reported as NaN", w.Metric, w.Condition)
}

// MarshalZerologObject adds the warning fields to a zerolog event.
func (w *UndefinedMetricWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("metric", w.Metric).
		Str("condition", w.Condition).
		Str("type", "UndefinedMetricWarning")
}

// NewUndefinedMetricWarning creates a new UndefinedMetricWarning.
func NewUndefinedMetricWarning(metric, condition string) *UndefinedMetricWarning {
	return &UndefinedMetricWarning{Metric: metric, Condition: condition}
}

// ConstantFeatureWarning is raised when a fitted feature column has zero
// variance. The column is centered but left unscaled.
type ConstantFeatureWarning struct {
	Op     string
	Column string
}

func (w *ConstantFeatureWarning) Error() string {
	return fmt.Sprintf("%s: feature %q is constant in the fitted data; scaling by 1", w.Op, w.Column)
}

// MarshalZerologObject adds the warning fields to a zerolog event.
func (w *ConstantFeatureWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("operation", w.Op).
		Str("column", w.Column).
		Str("type", "ConstantFeatureWarning")
}

// NewConstantFeatureWarning creates a new ConstantFeatureWarning.
func NewConstantFeatureWarning(op, column string) *ConstantFeatureWarning {
	return &ConstantFeatureWarning{Op: op, Column: column}
}

// ===========================================================================
//
//	Structured error types
//
// ===========================================================================

// DataError reports malformed or missing input data: an unparsable cell, a
// non-finite feature value, a duplicate sample identifier, an unknown label.
type DataError struct {
	Op     string // operation that rejected the input
	Row    int    // 1-based row in the source file, 0 when not applicable
	Column string // offending column name, empty when not applicable
	Reason string
}

func (e *DataError) Error() string {
	switch {
	case e.Row > 0 && e.Column != "":
		return fmt.Sprintf("wdbc: %s: row %d, column %q: %s", e.Op, e.Row, e.Column, e.Reason)
	case e.Row > 0:
		return fmt.Sprintf("wdbc: %s: row %d: %s", e.Op, e.Row, e.Reason)
	default:
		return fmt.Sprintf("wdbc: %s: %s", e.Op, e.Reason)
	}
}

// MarshalZerologObject adds the error fields to a zerolog event.
func (e *DataError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("row", e.Row).
		Str("column", e.Column).
		Str("reason", e.Reason).
		Str("type", "DataError")
}

// NewDataError creates a new DataError with a stack trace attached.
func NewDataError(op string, row int, column, reason string) error {
	err := &DataError{Op: op, Row: row, Column: column, Reason: reason}
	return errors.WithStack(err)
}

// ConfigError reports an invalid run configuration: split fractions that do
// not leave room for training, a degenerate class distribution, an unknown
// model name, a missing data path.
type ConfigError struct {
	Field  string
	Reason string
	Value  interface{}
}

func (e *ConfigError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("wdbc: invalid configuration for %q: %s (got: %v)", e.Field, e.Reason, e.Value)
	}
	return fmt.Sprintf("wdbc: invalid configuration for %q: %s", e.Field, e.Reason)
}

// MarshalZerologObject adds the error fields to a zerolog event.
func (e *ConfigError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("field", e.Field).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ConfigError")
}

// NewConfigError creates a new ConfigError with a stack trace attached.
func NewConfigError(field, reason string, value interface{}) error {
	err := &ConfigError{Field: field, Reason: reason, Value: value}
	return errors.WithStack(err)
}

// TrainingError reports that a model could not be fitted, most commonly
// because the training subset carries fewer than two distinct class labels.
type TrainingError struct {
	Model  string
	Reason string
}

func (e *TrainingError) Error() string {
	return fmt.Sprintf("wdbc: %s: training failed: %s", e.Model, e.Reason)
}

// MarshalZerologObject adds the error fields to a zerolog event.
func (e *TrainingError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model", e.Model).
		Str("reason", e.Reason).
		Str("type", "TrainingError")
}

// NewTrainingError creates a new TrainingError with a stack trace attached.
func NewTrainingError(model, reason string) error {
	err := &TrainingError{Model: model, Reason: reason}
	return errors.WithStack(err)
}

// AlignmentError reports prediction/label sequences that are not positionally
// aligned: mismatched lengths passed to the combiner or the evaluator.
type AlignmentError struct {
	Op       string
	Expected int
	Got      int
}

func (e *AlignmentError) Error() string {
	return fmt.Sprintf("wdbc: %s: sequences are not aligned: expected length %d, got %d", e.Op, e.Expected, e.Got)
}

// MarshalZerologObject adds the error fields to a zerolog event.
func (e *AlignmentError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Str("type", "AlignmentError")
}

// NewAlignmentError creates a new AlignmentError with a stack trace attached.
func NewAlignmentError(op string, expected, got int) error {
	err := &AlignmentError{Op: op, Expected: expected, Got: got}
	return errors.WithStack(err)
}

// NotFittedError is returned when Predict or Transform is called on a model
// that has not been fitted.
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("wdbc: %s: this model is not fitted yet. Call Fit() before using %s()", e.ModelName, e.Method)
}

// MarshalZerologObject adds the error fields to a zerolog event.
func (e *NotFittedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model_name", e.ModelName).
		Str("method", e.Method).
		Str("type", "NotFittedError")
}

// NewNotFittedError creates a new NotFittedError with a stack trace attached.
func NewNotFittedError(modelName, method string) error {
	err := &NotFittedError{ModelName: modelName, Method: method}
	return errors.WithStack(err)
}

// DimensionError reports an input whose shape differs from what a fitted
// model or transformer expects.
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows, 1 for columns/features
}

func (e *DimensionError) Error() string {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	return fmt.Sprintf("wdbc: %s: dimension mismatch on axis %d (%s). Expected %d, got %d", e.Op, e.Axis, axisName, e.Expected, e.Got)
}

// MarshalZerologObject adds the error fields to a zerolog event.
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("type", "DimensionError")
}

// NewDimensionError creates a new DimensionError with a stack trace attached.
func NewDimensionError(op string, expected, got, axis int) error {
	err := &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
	return errors.WithStack(err)
}

// ===========================================================================
//
//	cockroachdb/errors wrappers
//
// ===========================================================================

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap wraps an error with a message.
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf wraps an error with a formatted message.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New creates a new error with a stack trace.
func New(message string) error {
	return errors.New(message)
}

// Newf creates a new formatted error with a stack trace.
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack annotates err with a stack trace.
func WithStack(err error) error {
	return errors.WithStack(err)
}

// Common sentinel errors.
var (
	// ErrEmptyData is returned when an operation receives no samples.
	ErrEmptyData = New("empty data")

	// ErrSingularMatrix is returned when a covariance estimate cannot be factorized.
	ErrSingularMatrix = New("singular matrix")
)
