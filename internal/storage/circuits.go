package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/meltforce/cruxlog/internal/grades"
	"github.com/meltforce/cruxlog/internal/models"
)

// CurrentCircuit implements grades.CircuitSource: it reads the circuit's
// configuration as stored right now, so grade conversions always see the
// latest edits. Never cache the result.
func (db *DB) CurrentCircuit(ctx context.Context, id uuid.UUID) (grades.CircuitConfig, error) {
	var c models.CircuitRow
	err := db.Pool.QueryRow(ctx,
		`SELECT id, user_id, name, discipline, ref_system, created_at, updated_at
		 FROM circuits WHERE id = $1`, id).
		Scan(&c.ID, &c.UserID, &c.Name, &c.Discipline, &c.RefSystem, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return grades.CircuitConfig{}, fmt.Errorf("circuit %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return grades.CircuitConfig{}, fmt.Errorf("getting circuit: %w", err)
	}

	colors, err := db.queryCircuitColors(ctx, id)
	if err != nil {
		return grades.CircuitConfig{}, err
	}

	cfg := grades.CircuitConfig{
		ID:         c.ID,
		Name:       c.Name,
		Discipline: grades.Discipline(c.Discipline),
		RefSystem:  grades.System(c.RefSystem),
	}
	for _, col := range colors {
		cfg.Colors = append(cfg.Colors, grades.CircuitColor{
			Label:      grades.GradeLabel(col.Label),
			Color:      col.Color,
			RangeStart: grades.GradeLabel(col.RangeStart),
			RangeEnd:   grades.GradeLabel(col.RangeEnd),
			IsDefault:  col.IsDefault,
		})
	}
	return cfg, nil
}

func (db *DB) queryCircuitColors(ctx context.Context, id uuid.UUID) ([]models.CircuitColorRow, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT circuit_id, position, label, color, range_start, range_end, is_default
		 FROM circuit_colors WHERE circuit_id = $1 ORDER BY position ASC`, id)
	if err != nil {
		return nil, fmt.Errorf("querying circuit colors: %w", err)
	}
	defer rows.Close()

	var result []models.CircuitColorRow
	for rows.Next() {
		var c models.CircuitColorRow
		if err := rows.Scan(&c.CircuitID, &c.Position, &c.Label, &c.Color,
			&c.RangeStart, &c.RangeEnd, &c.IsDefault); err != nil {
			return nil, fmt.Errorf("scanning circuit color: %w", err)
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

// ListCircuits returns a user's circuits with their color mappings.
func (db *DB) ListCircuits(ctx context.Context, userID int) ([]grades.CircuitConfig, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id FROM circuits WHERE user_id = $1 ORDER BY created_at ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing circuits: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning circuit id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var result []grades.CircuitConfig
	for _, id := range ids {
		cfg, err := db.CurrentCircuit(ctx, id)
		if err != nil {
			return nil, err
		}
		result = append(result, cfg)
	}
	return result, nil
}

// SaveCircuit upserts a circuit and replaces its color mappings in one
// transaction. The configuration must already have passed
// grades.BuildCircuitScale validation.
func (db *DB) SaveCircuit(ctx context.Context, userID int, cfg grades.CircuitConfig) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning circuit save: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO circuits (id, user_id, name, discipline, ref_system, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6)
		 ON CONFLICT (id) DO UPDATE
			SET name = $3, discipline = $4, ref_system = $5, updated_at = $6`,
		cfg.ID, userID, cfg.Name, string(cfg.Discipline), string(cfg.RefSystem), time.Now())
	if err != nil {
		return fmt.Errorf("upserting circuit: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM circuit_colors WHERE circuit_id = $1`, cfg.ID); err != nil {
		return fmt.Errorf("clearing circuit colors: %w", err)
	}
	for i, col := range cfg.Colors {
		_, err := tx.Exec(ctx,
			`INSERT INTO circuit_colors (circuit_id, position, label, color, range_start, range_end, is_default)
			 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
			cfg.ID, i, string(col.Label), col.Color, string(col.RangeStart), string(col.RangeEnd), col.IsDefault)
		if err != nil {
			return fmt.Errorf("inserting circuit color %q: %w", col.Label, err)
		}
	}

	return tx.Commit(ctx)
}

// DeleteCircuit removes a circuit and its colors.
func (db *DB) DeleteCircuit(ctx context.Context, id uuid.UUID, userID int) error {
	tag, err := db.Pool.Exec(ctx,
		`DELETE FROM circuits WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting circuit: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("circuit %s: %w", id, ErrNotFound)
	}
	return nil
}
