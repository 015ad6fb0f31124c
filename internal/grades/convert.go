package grades

import (
	"context"
	"fmt"
)

// Normalizer computes scale-independent difficulty. It is the single source
// of truth: no other component computes difficulty on its own.
type Normalizer struct {
	resolver *Resolver
}

// NewNormalizer returns a Normalizer resolving scales through resolver.
func NewNormalizer(resolver *Resolver) *Normalizer {
	return &Normalizer{resolver: resolver}
}

// Normalize returns the normalized difficulty of label in the scale named
// by ref. ErrUnknownGrade when the label is not a member of the scale.
func (n *Normalizer) Normalize(ctx context.Context, label GradeLabel, ref ScaleRef) (float64, error) {
	scale, err := n.resolver.Scale(ctx, ref)
	if err != nil {
		return 0, err
	}
	return scale.Normalized(label)
}

// Conversion is the result of a grade conversion. Exact is true for the
// identity case and curated direct mappings; false means the label came from
// the normalized-difficulty fallback and callers may want to warn.
type Conversion struct {
	Label GradeLabel `json:"label"`
	Exact bool       `json:"exact"`
}

type scalePair struct {
	from, to System
}

// directMappings holds curated, discipline-aware equivalences between scale
// pairs. Gaps are expected; anything absent here resolves through the
// normalized fallback. Circuit pairs never appear because circuit contents
// are user data.
var directMappings = map[scalePair]map[GradeLabel]GradeLabel{
	{SystemVScale, SystemFont}: {
		"VB": "4", "V0": "4+", "V1": "5", "V2": "5+",
		"V3": "6A", "V4": "6B", "V5": "6C", "V6": "7A",
		"V7": "7A+", "V8": "7B", "V9": "7C", "V10": "7C+",
		"V11": "8A", "V12": "8A+", "V13": "8B", "V14": "8B+",
		"V15": "8C", "V16": "8C+", "V17": "9A",
	},
	{SystemFont, SystemVScale}: {
		"3": "VB", "4": "V0", "4+": "V0", "5": "V1", "5+": "V2",
		"6A": "V3", "6A+": "V3", "6B": "V4", "6B+": "V4",
		"6C": "V5", "6C+": "V5", "7A": "V6", "7A+": "V7",
		"7B": "V8", "7B+": "V8", "7C": "V9", "7C+": "V10",
		"8A": "V11", "8A+": "V12", "8B": "V13", "8B+": "V14",
		"8C": "V15", "8C+": "V16", "9A": "V17",
	},
	// YDS/French anchors only; letter grades between anchors go through
	// the fallback and come back tagged approximate.
	{SystemYDS, SystemFrench}: {
		"5.9": "5c", "5.11a": "6c", "5.12a": "7a+",
		"5.13a": "7c+", "5.14a": "8b+", "5.15a": "9a+",
	},
	{SystemFrench, SystemYDS}: {
		"5c": "5.9", "6c": "5.11a", "7a+": "5.12a",
		"7c+": "5.13a", "8b+": "5.14a", "9a+": "5.15a",
	},
}

// Converter translates grades across scales and disciplines.
type Converter struct {
	resolver *Resolver
}

// NewConverter returns a Converter resolving scales through resolver.
func NewConverter(resolver *Resolver) *Converter {
	return &Converter{resolver: resolver}
}

// Convert translates label from one scale/discipline into another.
//
// Order of resolution: the identity law, then the curated direct-mapping
// table, then the normalized-difficulty fallback (always succeeds, tagged
// inexact). Crossing the bouldering/ropes boundary without a curated
// mapping, or declaring a discipline a scale does not grade, fails with
// ErrDisciplineMismatch rather than guessing. An unknown source label fails
// with ErrUnknownGrade.
func (c *Converter) Convert(ctx context.Context, label GradeLabel, fromRef ScaleRef, fromDisc Discipline, toRef ScaleRef, toDisc Discipline) (Conversion, error) {
	from, err := c.resolver.Scale(ctx, fromRef)
	if err != nil {
		return Conversion{}, err
	}
	if from.Discipline() != fromDisc {
		return Conversion{}, fmt.Errorf("%w: %s grades %s, not %s",
			ErrDisciplineMismatch, fromRef, from.Discipline(), fromDisc)
	}
	if from.IndexOf(label) < 0 {
		return Conversion{}, fmt.Errorf("%w: %q not in %s", ErrUnknownGrade, label, fromRef)
	}

	to, err := c.resolver.Scale(ctx, toRef)
	if err != nil {
		return Conversion{}, err
	}
	if to.Discipline() != toDisc {
		return Conversion{}, fmt.Errorf("%w: %s grades %s, not %s",
			ErrDisciplineMismatch, toRef, to.Discipline(), toDisc)
	}

	if fromRef == toRef && fromDisc == toDisc {
		return Conversion{Label: label, Exact: true}, nil
	}

	if fromRef.System != SystemCircuit && toRef.System != SystemCircuit {
		if m, ok := directMappings[scalePair{fromRef.System, toRef.System}]; ok {
			if mapped, ok := m[label]; ok {
				return Conversion{Label: mapped, Exact: true}, nil
			}
		}
	}

	if fromDisc != toDisc {
		return Conversion{}, fmt.Errorf("%w: no mapping from %s to %s",
			ErrDisciplineMismatch, fromDisc, toDisc)
	}

	d, err := from.Normalized(label)
	if err != nil {
		return Conversion{}, err
	}
	return Conversion{Label: to.GradeFor(d), Exact: false}, nil
}
