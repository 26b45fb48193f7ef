package model

import (
	"testing"

	"github.com/cytodiag/wdbc/pkg/errors"
)

func TestStateManagerLifecycle(t *testing.T) {
	s := NewStateManager()
	if s.IsFitted() {
		t.Error("new StateManager must not be fitted")
	}

	if err := s.RequireFitted("KNN", "Predict"); err == nil {
		t.Error("RequireFitted must fail before SetFitted")
	} else {
		var nf *errors.NotFittedError
		if !errors.As(err, &nf) {
			t.Errorf("expected NotFittedError, got %T", err)
		}
	}

	s.SetDimensions(30, 455)
	s.SetFitted()

	if err := s.RequireFitted("KNN", "Predict"); err != nil {
		t.Errorf("RequireFitted after SetFitted: %v", err)
	}
	f, n := s.Dimensions()
	if f != 30 || n != 455 {
		t.Errorf("Dimensions() = (%d, %d), want (30, 455)", f, n)
	}

	s.Reset()
	if s.IsFitted() {
		t.Error("Reset must clear fitted state")
	}
}
