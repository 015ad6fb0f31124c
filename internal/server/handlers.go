package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/meltforce/cruxlog/internal/grades"
	"github.com/meltforce/cruxlog/internal/ingest"
	"github.com/meltforce/cruxlog/internal/models"
	"github.com/meltforce/cruxlog/internal/storage"
	"github.com/meltforce/cruxlog/internal/workout"
)

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, userInfoFromContext(r))
}

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	uid := userIDFromContext(r)

	var payload models.ExportPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	start := time.Now()
	result, err := s.croxlog.Ingest(r.Context(), &payload, uid)
	s.logImport(uid, payload.Source, "", result, err, start)
	if err != nil {
		s.log.Error("ingest error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleCSVIngest(w http.ResponseWriter, r *http.Request) {
	uid := userIDFromContext(r)

	start := time.Now()
	result, err := s.csvlog.Ingest(r.Context(), r.Body, uid)
	s.logImport(uid, "csvlog", r.Header.Get("X-File-Name"), result, err, start)
	if err != nil {
		s.log.Error("csv ingest error", "error", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// logImport records an ingest operation to the import_logs table.
func (s *Server) logImport(uid int, source, fileName string, result *ingest.Result, ingestErr error, startedAt time.Time) {
	row := models.ImportLogRow{
		UserID:     uid,
		Source:     source,
		FileName:   fileName,
		ReceivedAt: startedAt,
	}
	if result != nil {
		row.RoutesInserted = result.RoutesInserted
		row.AttemptsInserted = result.AttemptsInserted
		row.Message = result.Message
	}
	if ingestErr != nil {
		row.Message = ingestErr.Error()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.db.InsertImportLog(ctx, row); err != nil {
		s.log.Error("failed to log import", "source", source, "error", err)
	}
}

type scaleInfo struct {
	System     grades.System     `json:"system"`
	Discipline grades.Discipline `json:"discipline"`
	Grades     int               `json:"grades"`
}

func (s *Server) handleScales(w http.ResponseWriter, r *http.Request) {
	var out []scaleInfo
	for _, sys := range grades.Systems() {
		scale, err := grades.StaticScale(sys)
		if err != nil {
			continue
		}
		out = append(out, scaleInfo{System: sys, Discipline: scale.Discipline(), Grades: scale.Len()})
	}
	writeJSON(w, http.StatusOK, out)
}

type gradeInfo struct {
	Label   grades.GradeLabel `json:"label"`
	Display string            `json:"display"`
	Colors  []string          `json:"colors,omitempty"`
}

func (s *Server) handleScaleGrades(w http.ResponseWriter, r *http.Request) {
	sys := grades.System(chi.URLParam(r, "system"))
	scale, err := grades.StaticScale(sys)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown scale: " + string(sys)})
		return
	}

	out := make([]gradeInfo, 0, scale.Len())
	for _, label := range scale.Grades() {
		out = append(out, gradeInfo{
			Label:   label,
			Display: scale.DisplayLabel(label),
			Colors:  scale.Colors(label),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"system":     sys,
		"discipline": scale.Discipline(),
		"grades":     out,
	})
}

type convertRequest struct {
	Grade          grades.GradeLabel `json:"grade"`
	From           grades.ScaleRef   `json:"from"`
	FromDiscipline grades.Discipline `json:"from_discipline"`
	To             grades.ScaleRef   `json:"to"`
	ToDiscipline   grades.Discipline `json:"to_discipline"`
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	var req convertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	conv, err := s.converter.Convert(r.Context(), req.Grade, req.From, req.FromDiscipline, req.To, req.ToDiscipline)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, grades.ErrUnknownGrade),
			errors.Is(err, grades.ErrUnknownScale),
			errors.Is(err, grades.ErrInvalidCircuit):
			status = http.StatusBadRequest
		case errors.Is(err, grades.ErrDisciplineMismatch):
			status = http.StatusUnprocessableEntity
		}
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, conv)
}

func (s *Server) handleQueryRoutes(w http.ResponseWriter, r *http.Request) {
	uid := userIDFromContext(r)
	start, end, err := parseTimeRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	rows, err := s.db.QueryRoutes(r.Context(), start, end, uid, r.URL.Query().Get("gym"))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleCreateRoute(w http.ResponseWriter, r *http.Request) {
	uid := userIDFromContext(r)

	var er models.ExportRoute
	if err := json.NewDecoder(r.Body).Decode(&er); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if len(er.Attempts) > 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "attempts are logged separately"})
		return
	}

	row, reason := s.croxlog.ValidateRoute(r.Context(), er, uid, time.Now())
	if reason != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": reason})
		return
	}

	inserted, err := s.db.InsertRoute(r.Context(), row)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if !inserted {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "route already exists"})
		return
	}
	writeJSON(w, http.StatusCreated, row)
}

func (s *Server) handleGetRoute(w http.ResponseWriter, r *http.Request) {
	uid := userIDFromContext(r)
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid route ID"})
		return
	}

	route, err := s.db.GetRoute(r.Context(), id, uid)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "route not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, route)
}

func (s *Server) handleRouteAttempts(w http.ResponseWriter, r *http.Request) {
	uid := userIDFromContext(r)
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid route ID"})
		return
	}

	rows, err := s.db.QueryRouteAttempts(r.Context(), id, uid)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

type logAttemptRequest struct {
	Outcome string          `json:"outcome"`
	At      *models.LogTime `json:"at,omitempty"`
}

func (s *Server) handleLogAttempt(w http.ResponseWriter, r *http.Request) {
	uid := userIDFromContext(r)
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid route ID"})
		return
	}

	var req logAttemptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	route, err := s.db.GetRoute(r.Context(), id, uid)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "route not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	o := workout.Outcome(req.Outcome)
	if !o.Valid() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown outcome: " + req.Outcome})
		return
	}
	if o.RopedOnly() && grades.Discipline(route.Discipline) == grades.Bouldering {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "outcome " + req.Outcome + " is not valid on boulders"})
		return
	}

	at := time.Now()
	if req.At != nil {
		at = req.At.Time
	}
	row := models.AttemptRow{
		ID:      uuid.New(),
		RouteID: id,
		UserID:  uid,
		At:      at,
		Outcome: req.Outcome,
	}
	if err := s.db.InsertAttempt(r.Context(), row); err != nil {
		if errors.Is(err, storage.ErrFlashNotFirst) {
			writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, row)
}

func (s *Server) handleListCircuits(w http.ResponseWriter, r *http.Request) {
	uid := userIDFromContext(r)
	circuits, err := s.db.ListCircuits(r.Context(), uid)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, circuits)
}

func (s *Server) handleSaveCircuit(w http.ResponseWriter, r *http.Request) {
	s.saveCircuit(w, r, uuid.Nil)
}

func (s *Server) handleUpdateCircuit(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid circuit ID"})
		return
	}
	s.saveCircuit(w, r, id)
}

func (s *Server) saveCircuit(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	uid := userIDFromContext(r)

	var cfg grades.CircuitConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if id != uuid.Nil {
		cfg.ID = id
	}
	if cfg.ID == uuid.Nil {
		cfg.ID = uuid.New()
	}

	// Reject configs that cannot produce a usable scale before persisting.
	if _, err := grades.BuildCircuitScale(cfg); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	if err := s.db.SaveCircuit(r.Context(), uid, cfg); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (s *Server) handleDeleteCircuit(w http.ResponseWriter, r *http.Request) {
	uid := userIDFromContext(r)
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid circuit ID"})
		return
	}

	if err := s.db.DeleteCircuit(r.Context(), id, uid); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSendStats(w http.ResponseWriter, r *http.Request) {
	uid := userIDFromContext(r)
	start, end, err := parseTimeRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	stats, err := s.db.GetSendStats(r.Context(), start, end, uid)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleTrainingSummary(w http.ResponseWriter, r *http.Request) {
	uid := userIDFromContext(r)
	start, end, err := parseTimeRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	summary, err := s.db.GetTrainingSummary(r.Context(), start, end, uid)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleImportLogs(w http.ResponseWriter, r *http.Request) {
	uid := userIDFromContext(r)
	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	logs, err := s.db.QueryImportLogs(r.Context(), uid, limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

func (s *Server) handleQueryWorkouts(w http.ResponseWriter, r *http.Request) {
	uid := userIDFromContext(r)
	start, end, err := parseTimeRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	rows, err := s.db.QueryWorkouts(r.Context(), start, end, uid, r.URL.Query().Get("type"))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func parseTimeRange(r *http.Request) (start, end time.Time, err error) {
	startStr := r.URL.Query().Get("start")
	endStr := r.URL.Query().Get("end")

	if startStr == "" {
		// Default: last 30 days
		end = time.Now()
		start = end.AddDate(0, 0, -30)
		return
	}

	start, err = models.ParseLogTime(startStr)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	if endStr == "" {
		end = time.Now()
		return
	}
	end, err = models.ParseLogTime(endStr)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	// End of day for date-only values
	if len(endStr) == len("2006-01-02") {
		end = end.Add(24 * time.Hour)
	}
	return
}
