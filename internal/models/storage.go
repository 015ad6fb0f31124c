package models

import (
	"time"

	"github.com/google/uuid"
)

// RouteRow is a row ready for insertion into the routes table. System and
// Grade describe the route's native scale; CircuitID is set when the route
// is graded by a gym circuit.
type RouteRow struct {
	ID         uuid.UUID  `json:"id"`
	UserID     int        `json:"user_id"`
	Name       string     `json:"name"`
	Gym        string     `json:"gym"`
	Discipline string     `json:"discipline"`
	System     string     `json:"system"`
	CircuitID  *uuid.UUID `json:"circuit_id,omitempty"`
	Grade      string     `json:"grade"`
	SetAt      time.Time  `json:"set_at"`
	CreatedAt  time.Time  `json:"created_at"`
}

// AttemptRow is a row for the attempts table. Attempts are append-only:
// created once when the climber registers an action, never mutated.
type AttemptRow struct {
	ID      uuid.UUID `json:"id"`
	RouteID uuid.UUID `json:"route_id"`
	UserID  int       `json:"user_id"`
	At      time.Time `json:"at"`
	Outcome string    `json:"outcome"`
}

// CircuitRow is a row for the circuits table.
type CircuitRow struct {
	ID         uuid.UUID `json:"id"`
	UserID     int       `json:"user_id"`
	Name       string    `json:"name"`
	Discipline string    `json:"discipline"`
	RefSystem  string    `json:"ref_system"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CircuitColorRow is a row for the circuit_colors table. Position preserves
// the authored order; difficulty ordering is derived at read time.
type CircuitColorRow struct {
	CircuitID  uuid.UUID `json:"circuit_id"`
	Position   int       `json:"position"`
	Label      string    `json:"label"`
	Color      string    `json:"color"`
	RangeStart string    `json:"range_start"`
	RangeEnd   string    `json:"range_end"`
	IsDefault  bool      `json:"is_default"`
}

// WorkoutRow is a row for the workouts table, written once a workout
// reaches a terminal state.
type WorkoutRow struct {
	ID            uuid.UUID  `json:"id"`
	UserID        int        `json:"user_id"`
	Type          string     `json:"type"`
	Status        string     `json:"status"`
	System        string     `json:"system"`
	CircuitID     *uuid.UUID `json:"circuit_id,omitempty"`
	Discipline    string     `json:"discipline"`
	SelectedGrade string     `json:"selected_grade,omitempty"`
	PyramidStart  string     `json:"pyramid_start,omitempty"`
	PyramidPeak   string     `json:"pyramid_peak,omitempty"`
	StartedAt     time.Time  `json:"started_at"`
	EndedAt       time.Time  `json:"ended_at"`
	DurationSec   float64    `json:"duration_sec"`
	SendRate      float64    `json:"send_rate"`
	HardestGrade  string     `json:"hardest_grade,omitempty"`
	AvgRestSec    float64    `json:"avg_rest_sec"`
}

// WorkoutRepRow is a row for the workout_reps table.
type WorkoutRepRow struct {
	WorkoutID uuid.UUID `json:"workout_id"`
	SetNumber int       `json:"set_number"`
	RepNumber int       `json:"rep_number"`
	Grade     string    `json:"grade"`
	Outcome   string    `json:"outcome"`
	At        time.Time `json:"at"`
}

// ImportLogRow records one ingest operation for auditing.
type ImportLogRow struct {
	ID               uuid.UUID `json:"id"`
	UserID           int       `json:"user_id"`
	Source           string    `json:"source"`
	FileName         string    `json:"file_name"`
	ReceivedAt       time.Time `json:"received_at"`
	RoutesInserted   int64     `json:"routes_inserted"`
	AttemptsInserted int64     `json:"attempts_inserted"`
	Message          string    `json:"message,omitempty"`
}
