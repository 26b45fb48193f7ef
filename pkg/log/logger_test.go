package log

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/cytodiag/wdbc/pkg/errors"
)

func TestToLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"debug": zerolog.DebugLevel,
		"info":  zerolog.InfoLevel,
		"warn":  zerolog.WarnLevel,
		"error": zerolog.ErrorLevel,
		"bogus": zerolog.InfoLevel,
		"":      zerolog.InfoLevel,
	}
	for in, want := range cases {
		if got := ToLevel(in); got != want {
			t.Errorf("ToLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestSetupInstallsWarningHandler(t *testing.T) {
	Setup("error", false)
	defer errors.SetWarningHandler(func(error) {})

	// Must not panic regardless of warning shape.
	errors.Warn(errors.NewUndefinedMetricWarning("specificity", "no negative samples"))
	errors.Warn(errors.New("plain warning"))
}
