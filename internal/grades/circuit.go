package grades

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// CircuitColor is one user-authored color band in a circuit: a label (the
// color name climbers see on tape), a display color, and the grade range it
// represents expressed in the circuit's reference system.
type CircuitColor struct {
	Label      GradeLabel `json:"label"`
	Color      string     `json:"color"`
	RangeStart GradeLabel `json:"range_start"`
	RangeEnd   GradeLabel `json:"range_end"`
	IsDefault  bool       `json:"is_default"`
}

// CircuitConfig is the persisted, user-editable definition of a gym circuit.
// It is owned by storage/settings; this package only ever reads it through a
// CircuitSource so edits are visible on the next resolution.
type CircuitConfig struct {
	ID         uuid.UUID      `json:"id"`
	Name       string         `json:"name"`
	Discipline Discipline     `json:"discipline"`
	RefSystem  System         `json:"ref_system"`
	Colors     []CircuitColor `json:"colors"`
}

// CircuitSource supplies the current configuration for a circuit. Callers
// must fetch through it on every resolution rather than caching: circuits
// are the one scale whose data mutates at runtime.
type CircuitSource interface {
	CurrentCircuit(ctx context.Context, id uuid.UUID) (CircuitConfig, error)
}

// BuildCircuitScale derives a Scale from a circuit configuration. Each color
// band normalizes to the midpoint of its grade range in the reference
// system; the ordering is re-derived from those midpoints, not from the
// authored order, so a reordered config can never break monotonicity.
func BuildCircuitScale(cfg CircuitConfig) (Scale, error) {
	if len(cfg.Colors) == 0 {
		return Scale{}, fmt.Errorf("%w: circuit %q has no colors", ErrInvalidCircuit, cfg.Name)
	}
	if cfg.RefSystem == SystemCircuit {
		return Scale{}, fmt.Errorf("%w: circuit %q references another circuit", ErrInvalidCircuit, cfg.Name)
	}
	ref, err := StaticScale(cfg.RefSystem)
	if err != nil {
		return Scale{}, fmt.Errorf("circuit %q: %w", cfg.Name, err)
	}
	if ref.Discipline() != cfg.Discipline {
		return Scale{}, fmt.Errorf("%w: circuit %q is %s but references %s",
			ErrDisciplineMismatch, cfg.Name, cfg.Discipline, cfg.RefSystem)
	}

	entries := make([]entry, 0, len(cfg.Colors))
	for _, c := range cfg.Colors {
		lo, err := ref.Normalized(c.RangeStart)
		if err != nil {
			return Scale{}, fmt.Errorf("circuit %q color %q: %w", cfg.Name, c.Label, err)
		}
		hi, err := ref.Normalized(c.RangeEnd)
		if err != nil {
			return Scale{}, fmt.Errorf("circuit %q color %q: %w", cfg.Name, c.Label, err)
		}
		if hi < lo {
			lo, hi = hi, lo
		}
		entries = append(entries, entry{
			label:      c.Label,
			difficulty: (lo + hi) / 2,
			colors:     []string{c.Color},
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].difficulty < entries[j].difficulty
	})
	for i := 1; i < len(entries); i++ {
		if entries[i].difficulty == entries[i-1].difficulty {
			return Scale{}, fmt.Errorf("%w: circuit %q colors %q and %q cover the same difficulty",
				ErrInvalidCircuit, cfg.Name, entries[i-1].label, entries[i].label)
		}
	}

	return Scale{
		system:     SystemCircuit,
		discipline: cfg.Discipline,
		circuitID:  cfg.ID,
		entries:    entries,
	}, nil
}
