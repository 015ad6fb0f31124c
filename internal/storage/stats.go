package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/cruxlog/internal/grades"
)

// GradeSendStats aggregates attempt outcomes for one grade of one system.
type GradeSendStats struct {
	System   string  `json:"system"`
	Grade    string  `json:"grade"`
	Attempts int64   `json:"attempts"`
	Sends    int64   `json:"sends"`
	SendRate float64 `json:"send_rate"`
}

// GetSendStats returns per-grade attempt/send counts over a date range,
// grouped by the route's native grading system.
func (db *DB) GetSendStats(ctx context.Context, start, end time.Time, userID int) ([]GradeSendStats, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT r.system, r.grade,
		       COUNT(*) AS attempts,
		       COUNT(*) FILTER (WHERE a.outcome IN ('send','flash','topped')) AS sends
		FROM attempts a
		JOIN routes r ON r.id = a.route_id
		WHERE a.at >= $1 AND a.at < $2 AND a.user_id = $3
		GROUP BY r.system, r.grade
		ORDER BY r.system, r.grade`,
		start, end, userID)
	if err != nil {
		return nil, fmt.Errorf("querying send stats: %w", err)
	}
	defer rows.Close()

	var result []GradeSendStats
	for rows.Next() {
		var s GradeSendStats
		if err := rows.Scan(&s.System, &s.Grade, &s.Attempts, &s.Sends); err != nil {
			return nil, fmt.Errorf("scanning send stats: %w", err)
		}
		if s.Attempts > 0 {
			s.SendRate = float64(s.Sends) / float64(s.Attempts)
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

// TrainingSummary is a period overview of climbing activity.
type TrainingSummary struct {
	Attempts    int64  `json:"attempts"`
	Sends       int64  `json:"sends"`
	Flashes     int64  `json:"flashes"`
	Routes      int64  `json:"routes"`
	Workouts    int64  `json:"workouts"`
	HardestSend string `json:"hardest_send,omitempty"`
	// HardestSendSystem names the scale HardestSend belongs to.
	HardestSendSystem string `json:"hardest_send_system,omitempty"`
}

// GetTrainingSummary aggregates a date range into a single overview. The
// hardest send is picked by normalized difficulty across systems, which is
// a grades-core concern, so the comparison happens here in Go rather than
// in SQL.
func (db *DB) GetTrainingSummary(ctx context.Context, start, end time.Time, userID int) (*TrainingSummary, error) {
	var s TrainingSummary
	err := db.Pool.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE a.outcome IN ('send','flash','topped')),
		       COUNT(*) FILTER (WHERE a.outcome = 'flash'),
		       COUNT(DISTINCT a.route_id)
		FROM attempts a
		WHERE a.at >= $1 AND a.at < $2 AND a.user_id = $3`,
		start, end, userID).Scan(&s.Attempts, &s.Sends, &s.Flashes, &s.Routes)
	if err != nil {
		return nil, fmt.Errorf("querying summary counts: %w", err)
	}

	err = db.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM workouts
		WHERE started_at >= $1 AND started_at < $2 AND user_id = $3 AND status = 'completed'`,
		start, end, userID).Scan(&s.Workouts)
	if err != nil {
		return nil, fmt.Errorf("querying workout count: %w", err)
	}

	rows, err := db.Pool.Query(ctx, `
		SELECT DISTINCT r.system, r.circuit_id, r.grade
		FROM attempts a
		JOIN routes r ON r.id = a.route_id
		WHERE a.at >= $1 AND a.at < $2 AND a.user_id = $3
		  AND a.outcome IN ('send','flash','topped')`,
		start, end, userID)
	if err != nil {
		return nil, fmt.Errorf("querying sends: %w", err)
	}
	defer rows.Close()

	normalizer := grades.NewNormalizer(grades.NewResolver(db))
	best := -1.0
	for rows.Next() {
		var system, grade string
		var circuitID *uuid.UUID
		if err := rows.Scan(&system, &circuitID, &grade); err != nil {
			return nil, fmt.Errorf("scanning send: %w", err)
		}
		ref := grades.ScaleRef{System: grades.System(system)}
		if circuitID != nil {
			ref.CircuitID = *circuitID
		}
		d, err := normalizer.Normalize(ctx, grades.GradeLabel(grade), ref)
		if err != nil {
			// stale grade (deleted circuit, renamed color): skip rather
			// than fail the whole summary
			continue
		}
		if d > best {
			best = d
			s.HardestSend = grade
			s.HardestSendSystem = system
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &s, nil
}
