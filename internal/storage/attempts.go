package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/cruxlog/internal/models"
)

// ErrFlashNotFirst is returned when a flash is recorded against a route
// that already has attempts. A flash is only valid as the first attempt.
var ErrFlashNotFirst = errors.New("flash must be the first attempt on a route")

// InsertAttempt appends one attempt to a route's log. Attempts are
// immutable once written.
func (db *DB) InsertAttempt(ctx context.Context, a models.AttemptRow) error {
	if a.Outcome == "flash" {
		var n int
		err := db.Pool.QueryRow(ctx,
			`SELECT COUNT(*) FROM attempts WHERE route_id = $1`, a.RouteID).Scan(&n)
		if err != nil {
			return fmt.Errorf("checking attempt count: %w", err)
		}
		if n > 0 {
			return fmt.Errorf("route %s: %w", a.RouteID, ErrFlashNotFirst)
		}
	}
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO attempts (id, route_id, user_id, at, outcome)
		 VALUES ($1,$2,$3,$4,$5)
		 ON CONFLICT (route_id, at) DO NOTHING`,
		a.ID, a.RouteID, a.UserID, a.At, a.Outcome)
	if err != nil {
		return fmt.Errorf("inserting attempt: %w", err)
	}
	return nil
}

// InsertAttempts batch-inserts attempts from ingest. Duplicate timestamps
// per route are skipped. Returns count inserted.
func (db *DB) InsertAttempts(ctx context.Context, rows []models.AttemptRow) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	query := `INSERT INTO attempts (id, route_id, user_id, at, outcome) VALUES `
	args := make([]any, 0, len(rows)*5)
	valueStrings := make([]string, 0, len(rows))

	for i, r := range rows {
		base := i * 5
		valueStrings = append(valueStrings, fmt.Sprintf(
			"($%d,$%d,$%d,$%d,$%d)", base+1, base+2, base+3, base+4, base+5))
		args = append(args, r.ID, r.RouteID, r.UserID, r.At, r.Outcome)
	}

	query += strings.Join(valueStrings, ",") + " ON CONFLICT DO NOTHING"

	tag, err := db.Pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("inserting attempts: %w", err)
	}
	return tag.RowsAffected(), nil
}

// QueryRouteAttempts returns a route's attempt log in chronological order.
func (db *DB) QueryRouteAttempts(ctx context.Context, routeID uuid.UUID, userID int) ([]models.AttemptRow, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, route_id, user_id, at, outcome
		 FROM attempts WHERE route_id = $1 AND user_id = $2
		 ORDER BY at ASC`,
		routeID, userID)
	if err != nil {
		return nil, fmt.Errorf("querying route attempts: %w", err)
	}
	defer rows.Close()
	return scanAttempts(rows)
}

// QueryAttempts retrieves attempts in a date range, newest first.
func (db *DB) QueryAttempts(ctx context.Context, start, end time.Time, userID int) ([]models.AttemptRow, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, route_id, user_id, at, outcome
		 FROM attempts WHERE at >= $1 AND at < $2 AND user_id = $3
		 ORDER BY at DESC`,
		start, end, userID)
	if err != nil {
		return nil, fmt.Errorf("querying attempts: %w", err)
	}
	defer rows.Close()
	return scanAttempts(rows)
}

type pgxRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanAttempts(rows pgxRows) ([]models.AttemptRow, error) {
	var result []models.AttemptRow
	for rows.Next() {
		var a models.AttemptRow
		if err := rows.Scan(&a.ID, &a.RouteID, &a.UserID, &a.At, &a.Outcome); err != nil {
			return nil, fmt.Errorf("scanning attempt: %w", err)
		}
		result = append(result, a)
	}
	return result, rows.Err()
}
