package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/cruxlog/internal/grades"
	"github.com/meltforce/cruxlog/internal/models"
	"github.com/meltforce/cruxlog/internal/workout"
)

// SaveWorkout persists a terminal workout (completed or cancelled) with all
// its reps. Active workouts live only in the orchestrator.
func (db *DB) SaveWorkout(ctx context.Context, userID int, w *workout.Workout) error {
	if !w.Status.Terminal() {
		return fmt.Errorf("workout %s is %s, only terminal workouts are persisted", w.ID, w.Status)
	}

	var circuitID *uuid.UUID
	if w.ScaleRef.System == grades.SystemCircuit {
		id := w.ScaleRef.CircuitID
		circuitID = &id
	}

	_, err := db.Pool.Exec(ctx,
		`INSERT INTO workouts (id, user_id, type, status, system, circuit_id, discipline,
		 selected_grade, pyramid_start, pyramid_peak, started_at, ended_at,
		 duration_sec, send_rate, hardest_grade, avg_rest_sec)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
		 ON CONFLICT (id) DO NOTHING`,
		w.ID, userID, string(w.Type), string(w.Status), string(w.ScaleRef.System), circuitID,
		string(w.Discipline), string(w.SelectedGrade), string(w.PyramidStart), string(w.PyramidPeak),
		w.StartedAt, w.EndedAt, w.Metrics.TotalDuration.Seconds(), w.Metrics.SendRate,
		string(w.Metrics.HardestAttempted), w.Metrics.AverageRest.Seconds())
	if err != nil {
		return fmt.Errorf("inserting workout: %w", err)
	}

	var reps []models.WorkoutRepRow
	for si, s := range w.Sets {
		for ri, r := range s.Reps {
			reps = append(reps, models.WorkoutRepRow{
				WorkoutID: w.ID,
				SetNumber: si + 1,
				RepNumber: ri + 1,
				Grade:     string(r.Grade),
				Outcome:   string(r.Outcome),
				At:        r.At,
			})
		}
	}
	if _, err := db.insertWorkoutReps(ctx, reps); err != nil {
		return err
	}
	return nil
}

func (db *DB) insertWorkoutReps(ctx context.Context, rows []models.WorkoutRepRow) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	query := `INSERT INTO workout_reps (workout_id, set_number, rep_number, grade, outcome, at) VALUES `
	args := make([]any, 0, len(rows)*6)
	valueStrings := make([]string, 0, len(rows))

	for i, r := range rows {
		base := i * 6
		valueStrings = append(valueStrings, fmt.Sprintf(
			"($%d,$%d,$%d,$%d,$%d,$%d)", base+1, base+2, base+3, base+4, base+5, base+6))
		args = append(args, r.WorkoutID, r.SetNumber, r.RepNumber, r.Grade, r.Outcome, r.At)
	}

	query += strings.Join(valueStrings, ",") + " ON CONFLICT DO NOTHING"

	tag, err := db.Pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("inserting workout reps: %w", err)
	}
	return tag.RowsAffected(), nil
}

// QueryWorkouts retrieves terminal workouts in a date range, newest first.
func (db *DB) QueryWorkouts(ctx context.Context, start, end time.Time, userID int, typeFilter string) ([]models.WorkoutRow, error) {
	query := `SELECT id, user_id, type, status, system, circuit_id, discipline,
		 selected_grade, pyramid_start, pyramid_peak, started_at, ended_at,
		 duration_sec, send_rate, hardest_grade, avg_rest_sec
		 FROM workouts
		 WHERE started_at >= $1 AND started_at < $2 AND user_id = $3`
	args := []any{start, end, userID}
	if typeFilter != "" {
		query += ` AND type = $4`
		args = append(args, typeFilter)
	}
	query += ` ORDER BY started_at DESC`

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying workouts: %w", err)
	}
	defer rows.Close()

	var result []models.WorkoutRow
	for rows.Next() {
		var w models.WorkoutRow
		if err := rows.Scan(&w.ID, &w.UserID, &w.Type, &w.Status, &w.System, &w.CircuitID,
			&w.Discipline, &w.SelectedGrade, &w.PyramidStart, &w.PyramidPeak,
			&w.StartedAt, &w.EndedAt, &w.DurationSec, &w.SendRate,
			&w.HardestGrade, &w.AvgRestSec); err != nil {
			return nil, fmt.Errorf("scanning workout: %w", err)
		}
		result = append(result, w)
	}
	return result, rows.Err()
}

// QueryWorkoutReps returns the rep log of one persisted workout.
func (db *DB) QueryWorkoutReps(ctx context.Context, workoutID uuid.UUID) ([]models.WorkoutRepRow, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT workout_id, set_number, rep_number, grade, outcome, at
		 FROM workout_reps WHERE workout_id = $1
		 ORDER BY set_number ASC, rep_number ASC`, workoutID)
	if err != nil {
		return nil, fmt.Errorf("querying workout reps: %w", err)
	}
	defer rows.Close()

	var result []models.WorkoutRepRow
	for rows.Next() {
		var r models.WorkoutRepRow
		if err := rows.Scan(&r.WorkoutID, &r.SetNumber, &r.RepNumber,
			&r.Grade, &r.Outcome, &r.At); err != nil {
			return nil, fmt.Errorf("scanning workout rep: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}
