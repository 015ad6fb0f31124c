package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/meltforce/cruxlog/internal/grades"
	"github.com/meltforce/cruxlog/internal/workout"
)

// sessionRegistry maps users to their workout orchestrators. Each
// orchestrator owns at most one active workout; the registry mutex only
// guards the map, transition serialization lives in the orchestrator.
type sessionRegistry struct {
	mu       sync.Mutex
	active   map[int]*workout.Orchestrator
	resolver *grades.Resolver
	cfg      workout.Config
	log      *slog.Logger
}

func newSessionRegistry(resolver *grades.Resolver, cfg workout.Config, log *slog.Logger) *sessionRegistry {
	return &sessionRegistry{
		active:   map[int]*workout.Orchestrator{},
		resolver: resolver,
		cfg:      cfg,
		log:      log,
	}
}

func (reg *sessionRegistry) orchestrator(uid int) *workout.Orchestrator {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	o, ok := reg.active[uid]
	if !ok {
		o = workout.NewOrchestrator(reg.resolver, reg.cfg, reg.log)
		reg.active[uid] = o
	}
	return o
}

// workoutView is the snapshot shape returned by the session endpoints.
type workoutView struct {
	Workout    *workout.Workout `json:"workout"`
	Completion float64          `json:"completion"`
	CurrentRep string           `json:"current_rep"`
	Progress   string           `json:"progress"`
	NextAction string           `json:"next_action"`
}

func (s *Server) workoutView(o *workout.Orchestrator) workoutView {
	return workoutView{
		Workout:    o.Snapshot(),
		Completion: o.CompletionPercentage(),
		CurrentRep: o.CurrentRepDescription(),
		Progress:   o.ProgressDescription(),
		NextAction: o.NextActionDescription(),
	}
}

func (s *Server) handleWorkoutStart(w http.ResponseWriter, r *http.Request) {
	uid := userIDFromContext(r)

	var params workout.Params
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	o := s.sessions.orchestrator(uid)
	if !o.Start(r.Context(), params) {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "cannot start workout"})
		return
	}
	writeJSON(w, http.StatusCreated, s.workoutView(o))
}

func (s *Server) handleWorkoutPause(w http.ResponseWriter, r *http.Request) {
	s.workoutTransition(w, r, func(o *workout.Orchestrator) bool { return o.Pause() }, "cannot pause")
}

func (s *Server) handleWorkoutResume(w http.ResponseWriter, r *http.Request) {
	s.workoutTransition(w, r, func(o *workout.Orchestrator) bool { return o.Resume() }, "cannot resume")
}

func (s *Server) handleWorkoutEnd(w http.ResponseWriter, r *http.Request) {
	s.workoutTransition(w, r, func(o *workout.Orchestrator) bool { return o.End() }, "cannot end")
}

func (s *Server) handleWorkoutCancel(w http.ResponseWriter, r *http.Request) {
	s.workoutTransition(w, r, func(o *workout.Orchestrator) bool { return o.Cancel() }, "cannot cancel")
}

func (s *Server) workoutTransition(w http.ResponseWriter, r *http.Request, fn func(*workout.Orchestrator) bool, failMsg string) {
	uid := userIDFromContext(r)
	o := s.sessions.orchestrator(uid)

	if !fn(o) {
		writeJSON(w, http.StatusConflict, map[string]string{"error": failMsg})
		return
	}
	s.persistIfTerminal(r, uid, o)
	writeJSON(w, http.StatusOK, s.workoutView(o))
}

type workoutAttemptRequest struct {
	Outcome workout.Outcome `json:"outcome"`
	At      *time.Time      `json:"at,omitempty"`
}

func (s *Server) handleWorkoutAttempt(w http.ResponseWriter, r *http.Request) {
	uid := userIDFromContext(r)

	var req workoutAttemptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	at := time.Now()
	if req.At != nil {
		at = *req.At
	}

	o := s.sessions.orchestrator(uid)
	if !o.ProcessAttempt(r.Context(), workout.Attempt{Timestamp: at, Outcome: req.Outcome}) {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "attempt rejected"})
		return
	}
	// A pyramid can complete itself on the final successful rep.
	s.persistIfTerminal(r, uid, o)
	writeJSON(w, http.StatusOK, s.workoutView(o))
}

func (s *Server) handleWorkoutActive(w http.ResponseWriter, r *http.Request) {
	uid := userIDFromContext(r)
	o := s.sessions.orchestrator(uid)
	if !o.Active() {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no active workout"})
		return
	}
	writeJSON(w, http.StatusOK, s.workoutView(o))
}

func (s *Server) persistIfTerminal(r *http.Request, uid int, o *workout.Orchestrator) {
	snap := o.Snapshot()
	if snap == nil || !snap.Status.Terminal() {
		return
	}
	if err := s.db.SaveWorkout(r.Context(), uid, snap); err != nil {
		s.log.Error("failed to persist workout", "workout", snap.ID, "error", err)
	}
}
