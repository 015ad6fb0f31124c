package grades

import (
	"testing"
)

// TestStaticScalesMonotonic verifies that every built-in scale's normalized
// difficulty strictly increases along its grade ordering. The converter's
// fallback path depends on this.
func TestStaticScalesMonotonic(t *testing.T) {
	for _, system := range Systems() {
		scale, err := StaticScale(system)
		if err != nil {
			t.Fatalf("%s: %v", system, err)
		}
		grades := scale.Grades()
		if len(grades) == 0 {
			t.Fatalf("%s: empty scale", system)
		}
		prev := -1.0
		for _, g := range grades {
			d, err := scale.Normalized(g)
			if err != nil {
				t.Fatalf("%s %s: %v", system, g, err)
			}
			if d <= prev {
				t.Errorf("%s: %s normalizes to %v, not above previous %v", system, g, d, prev)
			}
			if d < 0 || d > 1 {
				t.Errorf("%s %s: normalized %v outside [0,1]", system, g, d)
			}
			prev = d
		}
	}
}

// TestSelfRoundTrip verifies that the inverse lookup maps every grade's own
// normalized difficulty back to the same grade, for every built-in scale.
func TestSelfRoundTrip(t *testing.T) {
	for _, system := range Systems() {
		scale, _ := StaticScale(system)
		for _, g := range scale.Grades() {
			d, _ := scale.Normalized(g)
			if got := scale.GradeFor(d); got != g {
				t.Errorf("%s: GradeFor(Normalized(%s)) = %s", system, g, got)
			}
		}
	}
}

// TestGradeForTieBreaksEasier verifies that an inverse lookup landing exactly
// between two grades picks the easier one.
func TestGradeForTieBreaksEasier(t *testing.T) {
	scale, _ := StaticScale(SystemVScale)
	// V4 = 0.30, V5 = 0.34; the midpoint must resolve to V4.
	if got := scale.GradeFor(0.32); got != "V4" {
		t.Errorf("GradeFor(0.32) = %s, want V4", got)
	}
}

// TestDisplayLabelUnknown verifies that an unknown label yields the sentinel
// rather than a panic or a guessed grade.
func TestDisplayLabelUnknown(t *testing.T) {
	scale, _ := StaticScale(SystemFont)
	if got := scale.DisplayLabel("V4"); got != string(UnknownGrade) {
		t.Errorf("DisplayLabel(V4) on font = %q, want %q", got, UnknownGrade)
	}
	if got := scale.DisplayLabel("7A"); got != "7A" {
		t.Errorf("DisplayLabel(7A) = %q, want 7A", got)
	}
}

// TestColors verifies color pass-through: one or two colors for members,
// nil for unknown labels.
func TestColors(t *testing.T) {
	scale, _ := StaticScale(SystemFont)
	for _, g := range scale.Grades() {
		n := len(scale.Colors(g))
		if n < 1 || n > 2 {
			t.Errorf("%s: %d colors", g, n)
		}
	}
	if scale.Colors("nope") != nil {
		t.Error("expected nil colors for unknown label")
	}
}

// TestScaleDisciplines verifies the discipline tag on each built-in scale.
func TestScaleDisciplines(t *testing.T) {
	want := map[System]Discipline{
		SystemVScale: Bouldering,
		SystemFont:   Bouldering,
		SystemYDS:    Ropes,
		SystemFrench: Ropes,
	}
	for system, disc := range want {
		scale, _ := StaticScale(system)
		if scale.Discipline() != disc {
			t.Errorf("%s: discipline %s, want %s", system, scale.Discipline(), disc)
		}
	}
}

// TestCrossScaleAgreement verifies that well-known equivalent grades
// normalize to nearby values across scales within the same discipline.
func TestCrossScaleAgreement(t *testing.T) {
	pairs := []struct {
		aSys System
		a    GradeLabel
		bSys System
		b    GradeLabel
	}{
		{SystemVScale, "V4", SystemFont, "6B"},
		{SystemVScale, "V10", SystemFont, "7C+"},
		{SystemYDS, "5.10a", SystemFrench, "6a"},
		{SystemYDS, "5.13a", SystemFrench, "7c+"},
	}
	for _, p := range pairs {
		sa, _ := StaticScale(p.aSys)
		sb, _ := StaticScale(p.bSys)
		da, _ := sa.Normalized(p.a)
		db, _ := sb.Normalized(p.b)
		if dist(da, db) > 0.02 {
			t.Errorf("%s %s (%v) vs %s %s (%v): spread %v too wide",
				p.aSys, p.a, da, p.bSys, p.b, db, dist(da, db))
		}
	}
}
