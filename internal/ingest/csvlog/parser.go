package csvlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/meltforce/cruxlog/internal/models"
)

// requiredColumns are the headers a csvlog export must carry. circuit_id
// and set_at are optional.
var requiredColumns = []string{"date", "gym", "route", "discipline", "system", "grade", "outcome"}

type routeKey struct {
	gym   string
	name  string
	setAt string
}

// Parse reads a csvlog CSV export (one attempt per row) and groups rows
// into routes with their ordered attempt logs. Row order within a route is
// preserved; route order follows first appearance.
func Parse(r io.Reader) ([]models.ExportRoute, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	col := map[string]int{}
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}

	field := func(rec []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var routes []models.ExportRoute
	index := map[routeKey]int{}

	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		date, err := models.ParseLogTime(field(rec, "date"))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		key := routeKey{
			gym:   field(rec, "gym"),
			name:  field(rec, "route"),
			setAt: field(rec, "set_at"),
		}
		idx, ok := index[key]
		if !ok {
			route := models.ExportRoute{
				Name:       key.name,
				Gym:        key.gym,
				Discipline: field(rec, "discipline"),
				System:     field(rec, "system"),
				CircuitID:  field(rec, "circuit_id"),
				Grade:      field(rec, "grade"),
			}
			if key.setAt != "" {
				setAt, err := models.ParseLogTime(key.setAt)
				if err != nil {
					return nil, fmt.Errorf("line %d: set_at: %w", line, err)
				}
				route.SetAt = &models.LogTime{Time: setAt}
			}
			idx = len(routes)
			routes = append(routes, route)
			index[key] = idx
		}

		routes[idx].Attempts = append(routes[idx].Attempts, models.ExportAttempt{
			Date:    models.LogTime{Time: date},
			Outcome: field(rec, "outcome"),
		})
	}

	return routes, nil
}
