package workout

import "time"

// Type names a structured training plan variant.
type Type string

const (
	// TypeFreeform targets one selected grade for a fixed problem count.
	TypeFreeform Type = "freeform"
	// TypePyramid ascends from a start grade to a peak grade and back down.
	TypePyramid Type = "pyramid"
	// TypeVolume runs a fixed number of sets of a fixed rep count at one grade.
	TypeVolume Type = "volume"
	// TypeIntervals is duration-bounded: climb until time runs out.
	TypeIntervals Type = "intervals"
)

// Category restricts a plan type to a discipline bucket.
type Category string

const (
	CategoryBouldering Category = "bouldering"
	CategoryRopes      Category = "ropes"
	CategoryBoth       Category = "both"
)

// Intensity is a coarse effort descriptor carried through to display.
type Intensity string

const (
	IntensityLow      Intensity = "low"
	IntensityModerate Intensity = "moderate"
	IntensityHigh     Intensity = "high"
	IntensityMax      Intensity = "max"
)

// Policy is the static configuration a plan type carries: what it demands
// up front and how rests default. Pure data consumed by the Orchestrator.
type Policy struct {
	Category               Category
	Intensity              Intensity
	Rest                   time.Duration
	RequiresGradeSelection bool
	RequiresProblemCount   bool
	RequiresDuration       bool
}

var policies = map[Type]Policy{
	TypeFreeform: {
		Category:               CategoryBoth,
		Intensity:              IntensityModerate,
		Rest:                   90 * time.Second,
		RequiresGradeSelection: true,
		RequiresProblemCount:   true,
	},
	TypePyramid: {
		Category:               CategoryBoth,
		Intensity:              IntensityHigh,
		Rest:                   2 * time.Minute,
		RequiresGradeSelection: true,
	},
	TypeVolume: {
		Category:               CategoryBouldering,
		Intensity:              IntensityModerate,
		Rest:                   60 * time.Second,
		RequiresGradeSelection: true,
		RequiresProblemCount:   true,
	},
	TypeIntervals: {
		Category:               CategoryBouldering,
		Intensity:              IntensityMax,
		Rest:                   30 * time.Second,
		RequiresGradeSelection: true,
		RequiresDuration:       true,
	},
}

// PolicyFor returns the policy for t and whether t is a known plan type.
func PolicyFor(t Type) (Policy, bool) {
	p, ok := policies[t]
	return p, ok
}

// Types lists the known plan types.
func Types() []Type {
	return []Type{TypeFreeform, TypePyramid, TypeVolume, TypeIntervals}
}
