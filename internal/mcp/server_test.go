package mcp

import (
	"context"
	"testing"

	"github.com/meltforce/cruxlog/internal/grades"
)

// TestUserIDFromContextDefault verifies the default user ID (1) when no value
// is set in the context.
func TestUserIDFromContextDefault(t *testing.T) {
	ctx := context.Background()
	if id := UserIDFromContext(ctx); id != 1 {
		t.Errorf("UserIDFromContext(empty) = %d, want 1", id)
	}
}

// TestUserIDFromContextSet verifies the user ID is extracted from context
// after being set by WithUserID.
func TestUserIDFromContextSet(t *testing.T) {
	ctx := WithUserID(context.Background(), 42)
	if id := UserIDFromContext(ctx); id != 42 {
		t.Errorf("UserIDFromContext = %d, want 42", id)
	}
}

// TestDefaultTimeRange verifies time range defaults (last 30 days) and parsing.
func TestDefaultTimeRange(t *testing.T) {
	// Both empty → defaults to last 30 days
	start, end, err := defaultTimeRange("", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	diff := end.Sub(start)
	if diff.Hours() < 719 || diff.Hours() > 721 { // ~720 hours = 30 days
		t.Errorf("default range = %.0f hours, want ~720", diff.Hours())
	}

	// Explicit dates
	start, end, err = defaultTimeRange("2026-01-01", "2026-01-31")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if start.Year() != 2026 || start.Month() != 1 || start.Day() != 1 {
		t.Errorf("start = %v, want 2026-01-01", start)
	}
	if end.Day() != 31 {
		t.Errorf("end = %v, want 2026-01-31", end)
	}

	// Invalid
	_, _, err = defaultTimeRange("not-a-date", "")
	if err == nil {
		t.Error("expected error for invalid date")
	}
}

// TestScaleRefFromArgs verifies circuit refs require a parseable UUID while
// static systems ignore the circuit id.
func TestScaleRefFromArgs(t *testing.T) {
	ref, err := scaleRefFromArgs("v_scale", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.System != grades.SystemVScale {
		t.Errorf("system = %q", ref.System)
	}

	if _, err := scaleRefFromArgs("circuit", "not-a-uuid"); err == nil {
		t.Error("expected error for bad circuit id")
	}

	ref, err = scaleRefFromArgs("circuit", "7b1d6d46-9ef0-4c44-9ae7-6bb1f7e1a001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.System != grades.SystemCircuit || ref.CircuitID.String() != "7b1d6d46-9ef0-4c44-9ae7-6bb1f7e1a001" {
		t.Errorf("unexpected ref: %+v", ref)
	}
}
