package grades

import "errors"

var (
	// ErrUnknownGrade means a label is not a member of its declared scale.
	// A caller or configuration error; never silently substituted.
	ErrUnknownGrade = errors.New("unknown grade")

	// ErrUnknownScale means a ScaleRef names no resolvable scale.
	ErrUnknownScale = errors.New("unknown grade scale")

	// ErrDisciplineMismatch means a conversion would cross the
	// bouldering/ropes boundary without an explicit mapping, or a declared
	// discipline does not match the scale's own.
	ErrDisciplineMismatch = errors.New("discipline mismatch")

	// ErrInvalidCircuit means a circuit configuration cannot produce a
	// valid scale (empty, unknown reference grades, or colliding ranges).
	ErrInvalidCircuit = errors.New("invalid circuit configuration")
)
