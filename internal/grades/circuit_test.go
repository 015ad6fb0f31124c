package grades

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

// TestBuildCircuitScaleOrdersByMidpoint verifies that circuit ordering is
// derived from the grade ranges, not the authored color order.
func TestBuildCircuitScaleOrdersByMidpoint(t *testing.T) {
	scale, err := BuildCircuitScale(CircuitConfig{
		ID: uuid.New(), Name: "moon", Discipline: Bouldering, RefSystem: SystemVScale,
		Colors: []CircuitColor{
			{Label: "black", Color: "#000", RangeStart: "V6", RangeEnd: "V8"},
			{Label: "yellow", Color: "#ff0", RangeStart: "V0", RangeEnd: "V2"},
			{Label: "red", Color: "#f00", RangeStart: "V3", RangeEnd: "V5"},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	got := scale.Grades()
	want := []GradeLabel{"yellow", "red", "black"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
	if scale.Discipline() != Bouldering {
		t.Errorf("discipline = %s", scale.Discipline())
	}
}

// TestBuildCircuitScaleMonotonic verifies the derived scale satisfies the
// same monotonicity invariant as the static tables.
func TestBuildCircuitScaleMonotonic(t *testing.T) {
	scale, err := BuildCircuitScale(CircuitConfig{
		ID: uuid.New(), Name: "gym", Discipline: Ropes, RefSystem: SystemFrench,
		Colors: []CircuitColor{
			{Label: "white", Color: "#fff", RangeStart: "5a", RangeEnd: "5c"},
			{Label: "orange", Color: "#fa0", RangeStart: "6a", RangeEnd: "6b+"},
			{Label: "purple", Color: "#a0f", RangeStart: "6c", RangeEnd: "7a+"},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	prev := -1.0
	for _, g := range scale.Grades() {
		d, err := scale.Normalized(g)
		if err != nil {
			t.Fatal(err)
		}
		if d <= prev {
			t.Errorf("%s: %v not above %v", g, d, prev)
		}
		prev = d
	}
}

// TestBuildCircuitScaleRejectsEmpty verifies that a circuit without colors
// cannot produce a scale.
func TestBuildCircuitScaleRejectsEmpty(t *testing.T) {
	_, err := BuildCircuitScale(CircuitConfig{
		ID: uuid.New(), Name: "empty", Discipline: Bouldering, RefSystem: SystemVScale,
	})
	if !errors.Is(err, ErrInvalidCircuit) {
		t.Errorf("got %v, want ErrInvalidCircuit", err)
	}
}

// TestBuildCircuitScaleRejectsUnknownRangeGrade verifies that a color range
// referencing a grade outside the reference system fails loudly.
func TestBuildCircuitScaleRejectsUnknownRangeGrade(t *testing.T) {
	_, err := BuildCircuitScale(CircuitConfig{
		ID: uuid.New(), Name: "bad", Discipline: Bouldering, RefSystem: SystemVScale,
		Colors: []CircuitColor{
			{Label: "pink", Color: "#f6c", RangeStart: "6A", RangeEnd: "6B"},
		},
	})
	if !errors.Is(err, ErrUnknownGrade) {
		t.Errorf("got %v, want ErrUnknownGrade", err)
	}
}

// TestBuildCircuitScaleRejectsCollidingColors verifies that two colors
// covering the same difficulty midpoint are rejected, preserving the
// no-duplicate-difficulty invariant.
func TestBuildCircuitScaleRejectsCollidingColors(t *testing.T) {
	_, err := BuildCircuitScale(CircuitConfig{
		ID: uuid.New(), Name: "dup", Discipline: Bouldering, RefSystem: SystemVScale,
		Colors: []CircuitColor{
			{Label: "teal", Color: "#088", RangeStart: "V2", RangeEnd: "V4"},
			{Label: "lime", Color: "#8f0", RangeStart: "V2", RangeEnd: "V4"},
		},
	})
	if !errors.Is(err, ErrInvalidCircuit) {
		t.Errorf("got %v, want ErrInvalidCircuit", err)
	}
}

// TestBuildCircuitScaleRejectsDisciplineMismatch verifies that a roped
// circuit cannot reference a bouldering system.
func TestBuildCircuitScaleRejectsDisciplineMismatch(t *testing.T) {
	_, err := BuildCircuitScale(CircuitConfig{
		ID: uuid.New(), Name: "cross", Discipline: Ropes, RefSystem: SystemVScale,
		Colors: []CircuitColor{
			{Label: "red", Color: "#f00", RangeStart: "V1", RangeEnd: "V3"},
		},
	})
	if !errors.Is(err, ErrDisciplineMismatch) {
		t.Errorf("got %v, want ErrDisciplineMismatch", err)
	}
}
