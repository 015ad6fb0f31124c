package workout

import (
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/cruxlog/internal/grades"
)

// Outcome is the result of a single route attempt.
type Outcome string

const (
	OutcomeFall      Outcome = "fall"
	OutcomeSend      Outcome = "send"
	OutcomeFlash     Outcome = "flash"
	OutcomeTopped    Outcome = "topped"
	OutcomeHighpoint Outcome = "highpoint"
)

// Successful reports whether the outcome counts as completing the climb.
// A highpoint without topping out does not.
func (o Outcome) Successful() bool {
	switch o {
	case OutcomeSend, OutcomeFlash, OutcomeTopped:
		return true
	default:
		return false
	}
}

// Valid reports whether o is a known outcome.
func (o Outcome) Valid() bool {
	switch o {
	case OutcomeFall, OutcomeSend, OutcomeFlash, OutcomeTopped, OutcomeHighpoint:
		return true
	default:
		return false
	}
}

// RopedOnly reports whether the outcome only makes sense on roped climbs.
func (o Outcome) RopedOnly() bool {
	return o == OutcomeTopped || o == OutcomeHighpoint
}

// Attempt is an immutable climbing event fed into the orchestrator.
type Attempt struct {
	Timestamp time.Time `json:"timestamp"`
	Outcome   Outcome   `json:"outcome"`
}

// Rep records the single attempt that resolved one rep of a set.
type Rep struct {
	Grade      grades.GradeLabel `json:"grade"`
	Outcome    Outcome           `json:"outcome"`
	At         time.Time         `json:"at"`
	normalized float64
}

// Set groups the reps climbed at one target grade.
type Set struct {
	TargetGrade grades.GradeLabel `json:"target_grade"`
	PlannedReps int               `json:"planned_reps"`
	Reps        []Rep             `json:"reps"`

	// difficulty anchor kept so a circuit edit that renames the target
	// color can be re-anchored instead of orphaning the set
	targetNormalized float64
}

// Status is the workout state machine state.
type Status string

const (
	StatusActive    Status = "active"
	StatusPaused    Status = "paused"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Terminal reports whether the status admits no further transitions.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Metrics is the derived aggregate over a workout's reps. Recomputed after
// every accepted attempt, never independently mutated.
type Metrics struct {
	SendRate         float64           `json:"send_rate"`
	TotalDuration    time.Duration     `json:"total_duration"`
	HardestAttempted grades.GradeLabel `json:"hardest_attempted"`
	AverageRest      time.Duration     `json:"average_rest"`
}

// Workout is the mutable aggregate owned by the Orchestrator. Terminal
// workouts are immutable apart from metrics finalization.
type Workout struct {
	ID         uuid.UUID         `json:"id"`
	Type       Type              `json:"type"`
	Status     Status            `json:"status"`
	ScaleRef   grades.ScaleRef   `json:"scale_ref"`
	Discipline grades.Discipline `json:"discipline"`

	Sets       []Set `json:"sets"`
	CurrentSet int   `json:"current_set"`

	SelectedGrade grades.GradeLabel `json:"selected_grade,omitempty"`
	PyramidStart  grades.GradeLabel `json:"pyramid_start,omitempty"`
	PyramidPeak   grades.GradeLabel `json:"pyramid_peak,omitempty"`
	Duration      time.Duration     `json:"duration,omitempty"`

	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at,omitempty"`

	Metrics Metrics `json:"metrics"`

	// progression bookkeeping, owned by the orchestrator
	descending      bool
	failuresAtGrade int
	pathSteps       int
	pausedAt        time.Time
	pausedTotal     time.Duration
}

// TotalReps counts reps across all sets.
func (w *Workout) TotalReps() int {
	n := 0
	for _, s := range w.Sets {
		n += len(s.Reps)
	}
	return n
}

// CurrentTarget is the target grade of the current set.
func (w *Workout) CurrentTarget() grades.GradeLabel {
	if w.CurrentSet < 0 || w.CurrentSet >= len(w.Sets) {
		return ""
	}
	return w.Sets[w.CurrentSet].TargetGrade
}
