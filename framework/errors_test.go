package framework

import (
	"errors"
	"strings"
	"testing"
)

func TestExecutionError(t *testing.T) {
	cause := errors.New("relation does not exist")
	err := NewExecutionError("create-table", PhaseManipulate, 2, cause)

	if !errors.Is(err, cause) {
		t.Error("ExecutionError should unwrap to its cause")
	}
	msg := err.Error()
	for _, part := range []string{"create-table", "manipulate", "2"} {
		if !strings.Contains(msg, part) {
			t.Errorf("expected message to contain %q: %s", part, msg)
		}
	}
}

func TestConsistencyError(t *testing.T) {
	cause := errors.New("expected 3 rows, got 2")
	err := NewConsistencyError("materialized-view", cause)

	if !errors.Is(err, cause) {
		t.Error("ConsistencyError should unwrap to its cause")
	}
	if !strings.Contains(err.Error(), "materialized-view") {
		t.Errorf("expected message to name the check: %s", err)
	}
}

func TestSentinelThroughWrap(t *testing.T) {
	err := NewExecutionError("greedy", PhaseManipulate, 0, ErrManipulateOverrun)
	if !errors.Is(err, ErrManipulateOverrun) {
		t.Error("sentinel should survive wrapping in ExecutionError")
	}
}
