package croxlog

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/meltforce/cruxlog/internal/grades"
	"github.com/meltforce/cruxlog/internal/models"
)

func testProvider() *Provider {
	// Static scales never touch the circuit source, so validation can run
	// without a database.
	return &Provider{
		resolver: grades.NewResolver(nil),
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func exportRoute(system, grade, outcome string) models.ExportRoute {
	return models.ExportRoute{
		Name:       "Test Route",
		Gym:        "Test Gym",
		Discipline: "bouldering",
		System:     system,
		Grade:      grade,
		Attempts: []models.ExportAttempt{
			{Date: models.LogTime{Time: time.Now()}, Outcome: outcome},
		},
	}
}

// TestValidateRouteAccepts verifies that a well-formed boulder route passes
// validation and picks up the export timestamp as its set date.
func TestValidateRouteAccepts(t *testing.T) {
	p := testProvider()
	exported := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	row, reason := p.ValidateRoute(context.Background(), exportRoute("v_scale", "V4", "send"), 1, exported)
	if reason != "" {
		t.Fatalf("unexpected rejection: %s", reason)
	}
	if row.Grade != "V4" || row.System != "v_scale" || row.UserID != 1 {
		t.Errorf("unexpected row: %+v", row)
	}
	if !row.SetAt.Equal(exported) {
		t.Errorf("SetAt should default to export time, got %v", row.SetAt)
	}
}

// TestValidateRouteRejections walks the rejection reasons one by one.
func TestValidateRouteRejections(t *testing.T) {
	p := testProvider()
	now := time.Now()

	tests := []struct {
		name   string
		route  models.ExportRoute
		reason string
	}{
		{"unknown discipline", models.ExportRoute{Discipline: "aid", System: "yds", Grade: "5.9"}, "discipline"},
		{"unknown system", exportRoute("uiaa", "VI", "send"), "scale"},
		{"unknown grade", exportRoute("v_scale", "V99", "send"), "grade"},
		{"unknown outcome", exportRoute("v_scale", "V4", "cruised"), "outcome"},
		{"roped outcome on boulder", exportRoute("v_scale", "V4", "topped"), "not valid on boulders"},
		{"bad circuit id", exportRoute("circuit", "Blue", "send"), "circuit id"},
	}
	for _, tt := range tests {
		_, reason := p.ValidateRoute(context.Background(), tt.route, 1, now)
		if reason == "" {
			t.Errorf("%s: expected rejection", tt.name)
			continue
		}
		if !strings.Contains(reason, tt.reason) {
			t.Errorf("%s: reason %q should mention %q", tt.name, reason, tt.reason)
		}
	}
}

// TestValidateRouteDisciplineScaleMismatch verifies that a roped scale on a
// boulder is refused even when both are individually valid.
func TestValidateRouteDisciplineScaleMismatch(t *testing.T) {
	p := testProvider()
	_, reason := p.ValidateRoute(context.Background(), exportRoute("french", "6b", "send"), 1, time.Now())
	if reason == "" {
		t.Fatal("expected rejection for french scale on a boulder")
	}
}

// TestValidateRouteFlashMustBeFirst verifies that a flash logged after a
// prior attempt rejects the route.
func TestValidateRouteFlashMustBeFirst(t *testing.T) {
	p := testProvider()
	route := exportRoute("v_scale", "V4", "fall")
	route.Attempts = append(route.Attempts, models.ExportAttempt{
		Date:    models.LogTime{Time: time.Now()},
		Outcome: "flash",
	})
	_, reason := p.ValidateRoute(context.Background(), route, 1, time.Now())
	if !strings.Contains(reason, "flash") {
		t.Fatalf("expected flash rejection, got %q", reason)
	}
}
