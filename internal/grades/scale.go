package grades

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// GradeLabel is a grade token meaningful only within one scale ("V4", "6a",
// "5.11b", or a circuit color name). Labels are never compared across scales
// directly; all cross-scale reasoning goes through normalized difficulty.
type GradeLabel string

// System identifies one grading convention.
type System string

const (
	SystemVScale  System = "v_scale"
	SystemFont    System = "font"
	SystemYDS     System = "yds"
	SystemFrench  System = "french"
	SystemCircuit System = "circuit"
)

// Discipline separates bouldering from roped climbing. Grades never cross
// disciplines without an explicit conversion step.
type Discipline string

const (
	Bouldering Discipline = "bouldering"
	Ropes      Discipline = "ropes"
)

// UnknownGrade is the sentinel returned by DisplayLabel for labels that are
// not members of the scale.
const UnknownGrade GradeLabel = "?"

// ScaleRef names a scale without resolving it. CircuitID is only meaningful
// when System is SystemCircuit.
type ScaleRef struct {
	System    System    `json:"system"`
	CircuitID uuid.UUID `json:"circuit_id,omitempty"`
}

func (r ScaleRef) String() string {
	if r.System == SystemCircuit {
		return fmt.Sprintf("%s(%s)", r.System, r.CircuitID)
	}
	return string(r.System)
}

type entry struct {
	label      GradeLabel
	difficulty float64
	colors     []string
}

// Scale is one resolved grading convention: an ordered label sequence from
// easiest to hardest with a normalized difficulty and display colors per
// label. The four named systems are static tables; circuit scales are built
// from user configuration at resolution time and must not be cached.
type Scale struct {
	system     System
	discipline Discipline
	circuitID  uuid.UUID
	entries    []entry
}

// System reports which convention this scale belongs to.
func (s Scale) System() System { return s.system }

// Discipline reports the discipline the scale grades.
func (s Scale) Discipline() Discipline { return s.discipline }

// CircuitID is the owning circuit for circuit scales, uuid.Nil otherwise.
func (s Scale) CircuitID() uuid.UUID { return s.circuitID }

// Len returns the number of grades in the scale.
func (s Scale) Len() int { return len(s.entries) }

// Grades returns the ordered grade sequence, easiest first.
func (s Scale) Grades() []GradeLabel {
	out := make([]GradeLabel, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.label
	}
	return out
}

// IndexOf returns the position of label in the ordering, or -1 when the
// label is not a member of this scale.
func (s Scale) IndexOf(label GradeLabel) int {
	for i, e := range s.entries {
		if e.label == label {
			return i
		}
	}
	return -1
}

// At returns the label at position i.
func (s Scale) At(i int) GradeLabel { return s.entries[i].label }

// DisplayLabel returns the label itself when it belongs to the scale and the
// UnknownGrade sentinel otherwise. It never panics; presentation callers get
// a visibly wrong value instead of a crash on stale data.
func (s Scale) DisplayLabel(label GradeLabel) string {
	if s.IndexOf(label) < 0 {
		return string(UnknownGrade)
	}
	return string(label)
}

// Colors returns one or two display colors for the label. Pass-through data
// for presentation; empty when the label is unknown.
func (s Scale) Colors(label GradeLabel) []string {
	i := s.IndexOf(label)
	if i < 0 {
		return nil
	}
	out := make([]string, len(s.entries[i].colors))
	copy(out, s.entries[i].colors)
	return out
}

// Normalized returns the scale-independent difficulty of label. Strictly
// monotonic in the scale's ordering.
func (s Scale) Normalized(label GradeLabel) (float64, error) {
	i := s.IndexOf(label)
	if i < 0 {
		return 0, fmt.Errorf("%w: %q not in %s", ErrUnknownGrade, label, s.system)
	}
	return s.entries[i].difficulty, nil
}

// GradeFor is the inverse lookup: the scale's own grade whose normalized
// difficulty is closest to d. Ties break toward the easier grade so that
// conversions into an unfamiliar scale err conservative.
func (s Scale) GradeFor(d float64) GradeLabel {
	best := 0
	bestDist := dist(s.entries[0].difficulty, d)
	for i := 1; i < len(s.entries); i++ {
		di := dist(s.entries[i].difficulty, d)
		if di < bestDist {
			best, bestDist = i, di
		}
	}
	return s.entries[best].label
}

func dist(a, b float64) float64 {
	if a > b {
		return a - b
	}
	return b - a
}

// StaticScale resolves one of the four built-in systems. Circuit refs need
// a Resolver with a CircuitSource behind it.
func StaticScale(system System) (Scale, error) {
	switch system {
	case SystemVScale:
		return vScale, nil
	case SystemFont:
		return fontScale, nil
	case SystemYDS:
		return ydsScale, nil
	case SystemFrench:
		return frenchScale, nil
	case SystemCircuit:
		return Scale{}, fmt.Errorf("circuit scale needs a circuit source: %w", ErrUnknownScale)
	default:
		return Scale{}, fmt.Errorf("%w: %q", ErrUnknownScale, system)
	}
}

// Systems lists the built-in systems with static tables.
func Systems() []System {
	return []System{SystemVScale, SystemFont, SystemYDS, SystemFrench}
}

// Resolver turns ScaleRefs into Scales. Circuit scales are rebuilt from the
// source on every call so that configuration edits are always visible.
type Resolver struct {
	circuits CircuitSource
}

// NewResolver returns a Resolver. circuits may be nil when no circuit
// scales will ever be referenced.
func NewResolver(circuits CircuitSource) *Resolver {
	return &Resolver{circuits: circuits}
}

// Scale resolves ref. For circuit refs the current configuration is fetched
// from the source; the result must not be cached across calls.
func (r *Resolver) Scale(ctx context.Context, ref ScaleRef) (Scale, error) {
	if ref.System != SystemCircuit {
		return StaticScale(ref.System)
	}
	if r.circuits == nil {
		return Scale{}, fmt.Errorf("resolving %s: no circuit source configured", ref)
	}
	cfg, err := r.circuits.CurrentCircuit(ctx, ref.CircuitID)
	if err != nil {
		return Scale{}, fmt.Errorf("resolving %s: %w", ref, err)
	}
	return BuildCircuitScale(cfg)
}
