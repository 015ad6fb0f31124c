package mcp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/meltforce/cruxlog/internal/grades"
)

func (h *handlers) scaleCatalog(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	catalog := map[string]any{}
	for _, sys := range grades.Systems() {
		scale, err := grades.StaticScale(sys)
		if err != nil {
			continue
		}
		catalog[string(sys)] = map[string]any{
			"discipline": scale.Discipline(),
			"grades":     scale.Grades(),
		}
	}

	data, err := json.Marshal(catalog)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (h *handlers) recentAttempts(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uid := UserIDFromContext(ctx)
	end := time.Now()
	start := end.AddDate(0, 0, -14)

	attempts, err := h.ds.QueryAttempts(ctx, start, end, uid)
	if err != nil {
		return nil, err
	}
	routes, err := h.ds.QueryRoutes(ctx, start, end, uid, "")
	if err != nil {
		h.log.Warn("recent_attempts: route query failed", "error", err)
	}

	data, err := json.Marshal(map[string]any{
		"attempts": attempts,
		"routes":   routes,
	})
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
