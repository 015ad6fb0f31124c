package csvlog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/meltforce/cruxlog/internal/ingest"
	"github.com/meltforce/cruxlog/internal/ingest/croxlog"
	"github.com/meltforce/cruxlog/internal/models"
	"github.com/meltforce/cruxlog/internal/storage"
)

// Provider processes csvlog CSV exports. Parsed rows land in the same
// routes and attempts tables as JSON exports, so validation and insertion
// are delegated to the croxlog provider.
type Provider struct {
	inner *croxlog.Provider
	log   *slog.Logger
}

// NewProvider creates a new csvlog ingest provider.
func NewProvider(db *storage.DB, log *slog.Logger) *Provider {
	return &Provider{inner: croxlog.NewProvider(db, log), log: log}
}

// Ingest parses a CSV export and stores the attempt data.
func (p *Provider) Ingest(ctx context.Context, r io.Reader, userID int) (*ingest.Result, error) {
	routes, err := Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing CSV: %w", err)
	}

	payload := &models.ExportPayload{
		Source:     "csvlog",
		ExportedAt: models.LogTime{Time: time.Now()},
		Routes:     routes,
	}
	return p.inner.Ingest(ctx, payload, userID)
}
