package mcp

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/meltforce/cruxlog/internal/grades"
	"github.com/meltforce/cruxlog/internal/models"
	"github.com/meltforce/cruxlog/internal/storage"
)

// DataSource abstracts the data layer for MCP tools. It deliberately
// includes CurrentCircuit so the grades resolver can treat any DataSource
// as a CircuitSource.
type DataSource interface {
	QueryRoutes(ctx context.Context, start, end time.Time, userID int, gymFilter string) ([]models.RouteRow, error)
	QueryAttempts(ctx context.Context, start, end time.Time, userID int) ([]models.AttemptRow, error)
	GetSendStats(ctx context.Context, start, end time.Time, userID int) ([]storage.GradeSendStats, error)
	GetTrainingSummary(ctx context.Context, start, end time.Time, userID int) (*storage.TrainingSummary, error)
	QueryWorkouts(ctx context.Context, start, end time.Time, userID int, typeFilter string) ([]models.WorkoutRow, error)
	ListCircuits(ctx context.Context, userID int) ([]grades.CircuitConfig, error)
	CurrentCircuit(ctx context.Context, id uuid.UUID) (grades.CircuitConfig, error)
}

// Compile-time check: *storage.DB satisfies DataSource.
var _ DataSource = (*storage.DB)(nil)
