package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/meltforce/cruxlog/internal/models"
)

// InsertImportLog records one ingest operation.
func (db *DB) InsertImportLog(ctx context.Context, l models.ImportLogRow) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO import_logs (id, user_id, source, file_name, routes_inserted, attempts_inserted, message)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		l.ID, l.UserID, l.Source, l.FileName, l.RoutesInserted, l.AttemptsInserted, l.Message)
	if err != nil {
		return fmt.Errorf("inserting import log: %w", err)
	}
	return nil
}

// QueryImportLogs returns the most recent import logs for a user.
func (db *DB) QueryImportLogs(ctx context.Context, userID, limit int) ([]models.ImportLogRow, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.Pool.Query(ctx,
		`SELECT id, user_id, source, file_name, received_at, routes_inserted, attempts_inserted, message
		 FROM import_logs WHERE user_id = $1
		 ORDER BY received_at DESC LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying import logs: %w", err)
	}
	defer rows.Close()

	var result []models.ImportLogRow
	for rows.Next() {
		var l models.ImportLogRow
		if err := rows.Scan(&l.ID, &l.UserID, &l.Source, &l.FileName, &l.ReceivedAt,
			&l.RoutesInserted, &l.AttemptsInserted, &l.Message); err != nil {
			return nil, fmt.Errorf("scanning import log: %w", err)
		}
		result = append(result, l)
	}
	return result, rows.Err()
}
