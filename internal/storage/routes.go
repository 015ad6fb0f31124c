package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/meltforce/cruxlog/internal/models"
)

// ErrNotFound is returned when a looked-up row does not exist.
var ErrNotFound = errors.New("not found")

// InsertRoute inserts a route, returning false when an identical route
// (same user, gym, name, set date) already exists.
func (db *DB) InsertRoute(ctx context.Context, r models.RouteRow) (bool, error) {
	tag, err := db.Pool.Exec(ctx,
		`INSERT INTO routes (id, user_id, name, gym, discipline, system, circuit_id, grade, set_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		 ON CONFLICT (user_id, gym, name, set_at) DO NOTHING`,
		r.ID, r.UserID, r.Name, r.Gym, r.Discipline, r.System, r.CircuitID, r.Grade, r.SetAt)
	if err != nil {
		return false, fmt.Errorf("inserting route: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// GetRoute fetches one route by ID.
func (db *DB) GetRoute(ctx context.Context, id uuid.UUID, userID int) (*models.RouteRow, error) {
	var r models.RouteRow
	err := db.Pool.QueryRow(ctx,
		`SELECT id, user_id, name, gym, discipline, system, circuit_id, grade, set_at, created_at
		 FROM routes WHERE id = $1 AND user_id = $2`,
		id, userID).Scan(&r.ID, &r.UserID, &r.Name, &r.Gym, &r.Discipline, &r.System,
		&r.CircuitID, &r.Grade, &r.SetAt, &r.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("route %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting route: %w", err)
	}
	return &r, nil
}

// FindRouteByIdentity locates a route by its natural key, used by ingest to
// attach attempts to routes that already exist.
func (db *DB) FindRouteByIdentity(ctx context.Context, userID int, gym, name string, setAt time.Time) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.Pool.QueryRow(ctx,
		`SELECT id FROM routes WHERE user_id = $1 AND gym = $2 AND name = $3 AND set_at = $4`,
		userID, gym, name, setAt).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, ErrNotFound
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("finding route: %w", err)
	}
	return id, nil
}

// QueryRoutes retrieves routes in a set-date range, newest first.
func (db *DB) QueryRoutes(ctx context.Context, start, end time.Time, userID int, gymFilter string) ([]models.RouteRow, error) {
	query := `SELECT id, user_id, name, gym, discipline, system, circuit_id, grade, set_at, created_at
		 FROM routes
		 WHERE set_at >= $1 AND set_at < $2 AND user_id = $3`
	args := []any{start, end, userID}
	if gymFilter != "" {
		query += ` AND gym = $4`
		args = append(args, gymFilter)
	}
	query += ` ORDER BY set_at DESC`

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying routes: %w", err)
	}
	defer rows.Close()

	var result []models.RouteRow
	for rows.Next() {
		var r models.RouteRow
		if err := rows.Scan(&r.ID, &r.UserID, &r.Name, &r.Gym, &r.Discipline, &r.System,
			&r.CircuitID, &r.Grade, &r.SetAt, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning route: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}
