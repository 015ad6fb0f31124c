package croxlog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/meltforce/cruxlog/internal/grades"
	"github.com/meltforce/cruxlog/internal/ingest"
	"github.com/meltforce/cruxlog/internal/models"
	"github.com/meltforce/cruxlog/internal/storage"
	"github.com/meltforce/cruxlog/internal/workout"
)

// Provider processes croxlog JSON exports.
type Provider struct {
	db       *storage.DB
	resolver *grades.Resolver
	log      *slog.Logger
}

// NewProvider creates a new croxlog ingest provider.
func NewProvider(db *storage.DB, log *slog.Logger) *Provider {
	return &Provider{db: db, resolver: grades.NewResolver(db), log: log}
}

// Ingest validates a croxlog payload and stores accepted routes and
// attempts. Routes with an unknown grade, scale, or discipline are counted
// as rejected and skipped; the rest of the payload still lands.
func (p *Provider) Ingest(ctx context.Context, payload *models.ExportPayload, userID int) (*ingest.Result, error) {
	result := &ingest.Result{RoutesReceived: len(payload.Routes)}

	for _, er := range payload.Routes {
		row, reason := p.ValidateRoute(ctx, er, userID, payload.ExportedAt.Time)
		if reason != "" {
			result.RoutesRejected++
			result.RejectedRoutes = append(result.RejectedRoutes, fmt.Sprintf("%s (%s)", er.Name, reason))
			continue
		}

		inserted, err := p.db.InsertRoute(ctx, row)
		if err != nil {
			return result, fmt.Errorf("inserting route %s: %w", er.Name, err)
		}
		routeID := row.ID
		if inserted {
			result.RoutesInserted++
		} else {
			result.RoutesSkipped++
			routeID, err = p.db.FindRouteByIdentity(ctx, userID, row.Gym, row.Name, row.SetAt)
			if err != nil {
				return result, fmt.Errorf("resolving existing route %s: %w", er.Name, err)
			}
		}

		var rows []models.AttemptRow
		for _, a := range er.Attempts {
			rows = append(rows, models.AttemptRow{
				ID:      uuid.New(),
				RouteID: routeID,
				UserID:  userID,
				At:      a.Date.Time,
				Outcome: a.Outcome,
			})
		}
		result.AttemptsReceived += len(rows)
		if len(rows) == 0 {
			continue
		}
		attInserted, err := p.db.InsertAttempts(ctx, rows)
		if err != nil {
			return result, fmt.Errorf("inserting attempts for %s: %w", er.Name, err)
		}
		result.AttemptsInserted += attInserted
		result.AttemptsSkipped += int64(len(rows)) - attInserted
	}

	if result.RoutesRejected > 0 {
		result.Message = fmt.Sprintf(
			"%d routes were rejected: %v. Accepted routes are stored. "+
				"Check GET /api/v1/scales for the known grade scales.",
			result.RoutesRejected, result.RejectedRoutes)
	}

	return result, nil
}

// ValidateRoute checks one export route against the known scales and
// returns the insertable row, or a non-empty rejection reason.
func (p *Provider) ValidateRoute(ctx context.Context, er models.ExportRoute, userID int, exportedAt time.Time) (models.RouteRow, string) {
	disc := grades.Discipline(er.Discipline)
	if disc != grades.Bouldering && disc != grades.Ropes {
		return models.RouteRow{}, fmt.Sprintf("unknown discipline %q", er.Discipline)
	}

	ref := grades.ScaleRef{System: grades.System(er.System)}
	var circuitID *uuid.UUID
	if ref.System == grades.SystemCircuit {
		id, err := uuid.Parse(er.CircuitID)
		if err != nil {
			return models.RouteRow{}, fmt.Sprintf("invalid circuit id %q", er.CircuitID)
		}
		ref.CircuitID = id
		circuitID = &id
	}

	scale, err := p.resolver.Scale(ctx, ref)
	if err != nil {
		if errors.Is(err, grades.ErrUnknownScale) || errors.Is(err, grades.ErrInvalidCircuit) {
			return models.RouteRow{}, fmt.Sprintf("unknown scale %s", ref)
		}
		return models.RouteRow{}, fmt.Sprintf("resolving scale %s: %v", ref, err)
	}
	if scale.Discipline() != disc {
		return models.RouteRow{}, fmt.Sprintf("scale %s is not a %s scale", ref, disc)
	}
	if scale.IndexOf(grades.GradeLabel(er.Grade)) < 0 {
		return models.RouteRow{}, fmt.Sprintf("unknown grade %q on %s", er.Grade, ref)
	}

	flashSeen := false
	for i, a := range er.Attempts {
		o := workout.Outcome(a.Outcome)
		if !o.Valid() {
			return models.RouteRow{}, fmt.Sprintf("unknown outcome %q", a.Outcome)
		}
		if o.RopedOnly() && disc == grades.Bouldering {
			return models.RouteRow{}, fmt.Sprintf("outcome %q is not valid on boulders", a.Outcome)
		}
		if o == workout.OutcomeFlash && (i > 0 || flashSeen) {
			return models.RouteRow{}, "flash must be the first attempt"
		}
		if o == workout.OutcomeFlash {
			flashSeen = true
		}
	}

	setAt := exportedAt
	if er.SetAt != nil {
		setAt = er.SetAt.Time
	}

	return models.RouteRow{
		ID:         uuid.New(),
		UserID:     userID,
		Name:       er.Name,
		Gym:        er.Gym,
		Discipline: string(disc),
		System:     string(ref.System),
		CircuitID:  circuitID,
		Grade:      er.Grade,
		SetAt:      setAt,
	}, ""
}
