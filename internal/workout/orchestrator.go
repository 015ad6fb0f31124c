package workout

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/cruxlog/internal/grades"
)

// Config tunes orchestrator policy left to deployment: how many failed
// burns at one grade turn it into the pyramid's effective peak, and the
// rest the descriptors suggest when a plan type has no own rest duration.
type Config struct {
	MaxAttemptsPerGrade int
	DefaultRest         time.Duration
}

// DefaultConfig is the policy used when the deployment config leaves the
// workout section empty.
func DefaultConfig() Config {
	return Config{MaxAttemptsPerGrade: 3, DefaultRest: 90 * time.Second}
}

// Params carries everything Start needs to construct a workout. Which
// fields are required depends on the plan type's policy.
type Params struct {
	Type       Type              `json:"type"`
	ScaleRef   grades.ScaleRef   `json:"scale_ref"`
	Discipline grades.Discipline `json:"discipline"`

	Grade        grades.GradeLabel `json:"grade,omitempty"`
	PyramidStart grades.GradeLabel `json:"pyramid_start,omitempty"`
	PyramidPeak  grades.GradeLabel `json:"pyramid_peak,omitempty"`
	ProblemCount int               `json:"problem_count,omitempty"`
	SetCount     int               `json:"set_count,omitempty"`
	Duration     time.Duration     `json:"duration,omitempty"`
}

// Orchestrator owns at most one active workout and is the only component
// allowed to mutate it. All transitions are synchronous and CPU-bound; the
// mutex serializes callers the way the argus engine does, so UI double-taps
// and timer reads are safe. Invalid transitions are no-ops reported through
// the boolean return, never errors.
type Orchestrator struct {
	mu       sync.Mutex
	resolver *grades.Resolver
	cfg      Config
	log      *slog.Logger
	clock    func() time.Time

	workout *Workout
}

// NewOrchestrator returns an idle orchestrator. resolver supplies scale
// ordering for grade stepping; circuit-backed plans re-resolve on every
// step so configuration edits stay visible.
func NewOrchestrator(resolver *grades.Resolver, cfg Config, log *slog.Logger) *Orchestrator {
	if cfg.MaxAttemptsPerGrade <= 0 {
		cfg.MaxAttemptsPerGrade = DefaultConfig().MaxAttemptsPerGrade
	}
	if cfg.DefaultRest <= 0 {
		cfg.DefaultRest = DefaultConfig().DefaultRest
	}
	return &Orchestrator{
		resolver: resolver,
		cfg:      cfg,
		log:      log,
		clock:    time.Now,
	}
}

// Active reports whether a workout is currently active or paused.
func (o *Orchestrator) Active() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.workout != nil && !o.workout.Status.Terminal()
}

// Snapshot returns a copy of the current workout, or nil when idle. The
// copy is safe to hand to presentation code.
func (o *Orchestrator) Snapshot() *Workout {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.snapshotLocked()
}

func (o *Orchestrator) snapshotLocked() *Workout {
	if o.workout == nil {
		return nil
	}
	w := *o.workout
	w.Sets = make([]Set, len(o.workout.Sets))
	for i, s := range o.workout.Sets {
		reps := make([]Rep, len(s.Reps))
		copy(reps, s.Reps)
		s.Reps = reps
		w.Sets[i] = s
	}
	return &w
}

// Start begins a workout. Valid only while idle; false when a workout is
// already active, the plan type is unknown, required parameters are
// missing, or the scale cannot back the request.
func (o *Orchestrator) Start(ctx context.Context, p Params) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.workout != nil && !o.workout.Status.Terminal() {
		return false
	}
	policy, ok := PolicyFor(p.Type)
	if !ok {
		return false
	}
	if policy.Category != CategoryBoth {
		if (policy.Category == CategoryBouldering) != (p.Discipline == grades.Bouldering) {
			return false
		}
	}

	scale, err := o.resolver.Scale(ctx, p.ScaleRef)
	if err != nil {
		o.log.Warn("start rejected: scale unresolvable", "ref", p.ScaleRef.String(), "error", err)
		return false
	}
	if scale.Discipline() != p.Discipline {
		return false
	}

	var first Set
	switch p.Type {
	case TypePyramid:
		if p.PyramidStart == "" || p.PyramidPeak == "" {
			return false
		}
		startIdx := scale.IndexOf(p.PyramidStart)
		peakIdx := scale.IndexOf(p.PyramidPeak)
		if startIdx < 0 || peakIdx < 0 || peakIdx < startIdx {
			return false
		}
		first = o.newSet(scale, p.PyramidStart, 1)
	default:
		if policy.RequiresGradeSelection && p.Grade == "" {
			return false
		}
		if policy.RequiresProblemCount && p.ProblemCount <= 0 {
			return false
		}
		if policy.RequiresDuration && p.Duration <= 0 {
			return false
		}
		if scale.IndexOf(p.Grade) < 0 {
			return false
		}
		planned := p.ProblemCount
		if p.Type == TypeIntervals {
			planned = 0 // unbounded, time decides
		}
		first = o.newSet(scale, p.Grade, planned)
	}

	setCount := p.SetCount
	if setCount <= 0 {
		setCount = 1
	}

	o.workout = &Workout{
		ID:            uuid.New(),
		Type:          p.Type,
		Status:        StatusActive,
		ScaleRef:      p.ScaleRef,
		Discipline:    p.Discipline,
		Sets:          []Set{first},
		CurrentSet:    0,
		SelectedGrade: p.Grade,
		PyramidStart:  p.PyramidStart,
		PyramidPeak:   p.PyramidPeak,
		Duration:      p.Duration,
		StartedAt:     o.clock(),
	}
	if p.Type == TypeVolume {
		// remaining sets are declared up front at the same grade
		for i := 1; i < setCount; i++ {
			o.workout.Sets = append(o.workout.Sets, o.newSet(scale, p.Grade, p.ProblemCount))
		}
	}
	o.log.Info("workout started", "id", o.workout.ID, "type", p.Type, "scale", p.ScaleRef.String())
	return true
}

func (o *Orchestrator) newSet(scale grades.Scale, target grades.GradeLabel, planned int) Set {
	norm, _ := scale.Normalized(target)
	return Set{TargetGrade: target, PlannedReps: planned, targetNormalized: norm}
}

// Pause transitions Active -> Paused. Anything else is a no-op.
func (o *Orchestrator) Pause() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.workout == nil || o.workout.Status != StatusActive {
		return false
	}
	o.workout.Status = StatusPaused
	o.workout.pausedAt = o.clock()
	return true
}

// Resume transitions Paused -> Active. Anything else is a no-op.
func (o *Orchestrator) Resume() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.workout == nil || o.workout.Status != StatusPaused {
		return false
	}
	o.workout.pausedTotal += o.clock().Sub(o.workout.pausedAt)
	o.workout.pausedAt = time.Time{}
	o.workout.Status = StatusActive
	return true
}

// End forces completion from Active or Paused, finalizing metrics even when
// the plan's natural exit condition was not reached.
func (o *Orchestrator) End() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.workout == nil || o.workout.Status.Terminal() {
		return false
	}
	o.finishLocked(StatusCompleted)
	return true
}

// Cancel transitions to Cancelled from Active or Paused. The attempt history
// already recorded elsewhere is untouched; the workout is only excluded from
// completion semantics.
func (o *Orchestrator) Cancel() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.workout == nil || o.workout.Status.Terminal() {
		return false
	}
	o.finishLocked(StatusCancelled)
	return true
}

func (o *Orchestrator) finishLocked(status Status) {
	now := o.clock()
	if o.workout.Status == StatusPaused {
		o.workout.pausedTotal += now.Sub(o.workout.pausedAt)
		o.workout.pausedAt = time.Time{}
	}
	o.workout.Status = status
	o.workout.EndedAt = now
	o.recomputeMetricsLocked()
	o.log.Info("workout finished", "id", o.workout.ID, "status", status,
		"reps", o.workout.TotalReps(), "send_rate", o.workout.Metrics.SendRate)
}

// ProcessAttempt feeds one climbing attempt into the active workout. It
// appends a rep at the current target, classifies the outcome, advances the
// plan's progression, and recomputes metrics; the workout auto-completes
// when the plan's exit condition is reached. No-op (false) while not
// Active, for malformed outcomes, and for roped-only outcomes on a
// bouldering plan.
func (o *Orchestrator) ProcessAttempt(ctx context.Context, a Attempt) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	w := o.workout
	if w == nil || w.Status != StatusActive {
		return false
	}
	if !a.Outcome.Valid() {
		return false
	}
	if a.Outcome.RopedOnly() && w.Discipline == grades.Bouldering {
		return false
	}

	scale, err := o.resolver.Scale(ctx, w.ScaleRef)
	if err != nil {
		o.log.Warn("attempt dropped: scale unresolvable", "ref", w.ScaleRef.String(), "error", err)
		return false
	}

	at := a.Timestamp
	if at.IsZero() {
		at = o.clock()
	}

	cur := &w.Sets[w.CurrentSet]
	norm, err := scale.Normalized(cur.TargetGrade)
	if err != nil {
		// circuit edit removed the target color; re-anchor to the
		// nearest current grade before recording
		cur.TargetGrade = scale.GradeFor(cur.targetNormalized)
		norm, _ = scale.Normalized(cur.TargetGrade)
	}
	cur.targetNormalized = norm
	cur.Reps = append(cur.Reps, Rep{
		Grade:      cur.TargetGrade,
		Outcome:    a.Outcome,
		At:         at,
		normalized: norm,
	})

	switch w.Type {
	case TypePyramid:
		o.advancePyramidLocked(scale, a.Outcome.Successful())
	case TypeIntervals:
		if o.activeElapsedLocked(at) >= w.Duration {
			o.finishLocked(StatusCompleted)
		}
	default: // freeform, volume: rep counting regardless of outcome
		if len(cur.Reps) >= cur.PlannedReps {
			if w.CurrentSet+1 < len(w.Sets) {
				w.CurrentSet++
			} else {
				o.finishLocked(StatusCompleted)
			}
		}
	}

	if !w.Status.Terminal() {
		o.recomputeMetricsLocked()
	}
	return true
}

// advancePyramidLocked moves the target one step toward the peak on
// success, reverses at the peak, and completes when the descent returns to
// the start grade. Repeated failure at one grade (policy threshold) treats
// that grade as the peak so the workout can never block forever.
func (o *Orchestrator) advancePyramidLocked(scale grades.Scale, success bool) {
	w := o.workout
	startIdx := scale.IndexOf(w.PyramidStart)
	peakIdx := scale.IndexOf(w.PyramidPeak)
	idx := scale.IndexOf(w.CurrentTarget())
	if startIdx < 0 || peakIdx < 0 || idx < 0 {
		// scale shifted under us; re-anchor the endpoints conservatively
		if startIdx < 0 {
			w.PyramidStart = scale.At(0)
			startIdx = 0
		}
		if peakIdx < 0 {
			w.PyramidPeak = scale.At(scale.Len() - 1)
			peakIdx = scale.Len() - 1
		}
		if idx < 0 {
			idx = startIdx
		}
	}

	if !success {
		w.failuresAtGrade++
		if w.descending || w.failuresAtGrade < o.cfg.MaxAttemptsPerGrade {
			return
		}
		// stuck on the way up: this grade becomes the peak
		w.descending = true
		if idx <= startIdx {
			o.finishLocked(StatusCompleted)
			return
		}
		o.pushPyramidSetLocked(scale, idx-1)
		return
	}

	w.pathSteps++
	if w.descending {
		if idx <= startIdx {
			o.finishLocked(StatusCompleted)
			return
		}
		o.pushPyramidSetLocked(scale, idx-1)
		return
	}
	if idx >= peakIdx {
		w.descending = true
		if idx <= startIdx {
			o.finishLocked(StatusCompleted)
			return
		}
		o.pushPyramidSetLocked(scale, idx-1)
		return
	}
	o.pushPyramidSetLocked(scale, idx+1)
}

func (o *Orchestrator) pushPyramidSetLocked(scale grades.Scale, idx int) {
	w := o.workout
	target := scale.At(idx)
	norm, _ := scale.Normalized(target)
	w.Sets = append(w.Sets, Set{TargetGrade: target, PlannedReps: 1, targetNormalized: norm})
	w.CurrentSet = len(w.Sets) - 1
	w.failuresAtGrade = 0
}

// CompletionPercentage reports plan progress in [0,1]. Pyramids measure
// position along the known up-then-down path; rep-count plans count reps;
// interval plans count time. 0 while idle.
func (o *Orchestrator) CompletionPercentage() float64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.completionLocked()
}

func (o *Orchestrator) completionLocked() float64 {
	w := o.workout
	if w == nil {
		return 0
	}
	if w.Status == StatusCompleted {
		return 1
	}
	switch w.Type {
	case TypePyramid:
		remaining := o.pyramidRemainingLocked()
		total := w.pathSteps + remaining
		if total == 0 {
			return 0
		}
		return float64(w.pathSteps) / float64(total)
	case TypeIntervals:
		if w.Duration <= 0 {
			return 0
		}
		frac := float64(o.activeElapsedLocked(o.clock())) / float64(w.Duration)
		if frac > 1 {
			frac = 1
		}
		return frac
	default:
		planned := 0
		done := 0
		for _, s := range w.Sets {
			planned += s.PlannedReps
			done += len(s.Reps)
		}
		if planned == 0 {
			return 0
		}
		if done > planned {
			done = planned
		}
		return float64(done) / float64(planned)
	}
}

// pyramidRemainingLocked counts the successful reps still needed, including
// one at the current target, under the current direction and endpoints.
func (o *Orchestrator) pyramidRemainingLocked() int {
	w := o.workout
	scale, err := o.resolver.Scale(context.Background(), w.ScaleRef)
	if err != nil {
		return 1
	}
	startIdx := scale.IndexOf(w.PyramidStart)
	peakIdx := scale.IndexOf(w.PyramidPeak)
	idx := scale.IndexOf(w.CurrentTarget())
	if startIdx < 0 || peakIdx < 0 || idx < 0 {
		return 1
	}
	if w.descending {
		return idx - startIdx + 1
	}
	return (peakIdx - idx + 1) + (peakIdx - startIdx)
}

func (o *Orchestrator) activeElapsedLocked(now time.Time) time.Duration {
	w := o.workout
	elapsed := now.Sub(w.StartedAt) - w.pausedTotal
	if w.Status == StatusPaused {
		elapsed -= now.Sub(w.pausedAt)
	}
	if elapsed < 0 {
		elapsed = 0
	}
	return elapsed
}

// recomputeMetricsLocked rebuilds the derived aggregate from the reps.
func (o *Orchestrator) recomputeMetricsLocked() {
	w := o.workout

	var reps []Rep
	for _, s := range w.Sets {
		reps = append(reps, s.Reps...)
	}

	m := Metrics{}
	if len(reps) > 0 {
		sends := 0
		hardest := reps[0]
		for _, r := range reps {
			if r.Outcome.Successful() {
				sends++
			}
			if r.normalized > hardest.normalized {
				hardest = r
			}
		}
		m.SendRate = float64(sends) / float64(len(reps))
		m.HardestAttempted = hardest.Grade
		if len(reps) > 1 {
			var gaps time.Duration
			for i := 1; i < len(reps); i++ {
				gaps += reps[i].At.Sub(reps[i-1].At)
			}
			m.AverageRest = gaps / time.Duration(len(reps)-1)
		}
	}

	end := w.EndedAt
	if end.IsZero() {
		end = o.clock()
	}
	m.TotalDuration = w.activeSpan(end)
	w.Metrics = m
}

func (w *Workout) activeSpan(end time.Time) time.Duration {
	d := end.Sub(w.StartedAt) - w.pausedTotal
	if w.Status == StatusPaused && !w.pausedAt.IsZero() {
		d -= end.Sub(w.pausedAt)
	}
	if d < 0 {
		d = 0
	}
	return d
}

// CurrentRepDescription formats where the climber is right now. Pure
// formatting of existing counters.
func (o *Orchestrator) CurrentRepDescription() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	w := o.workout
	if w == nil || w.Status.Terminal() {
		return "No active workout"
	}
	s := w.Sets[w.CurrentSet]
	rep := len(s.Reps) + 1
	if s.PlannedReps > 0 {
		if rep > s.PlannedReps {
			rep = s.PlannedReps
		}
		return fmt.Sprintf("Set %d, rep %d of %d, target %s", w.CurrentSet+1, rep, s.PlannedReps, s.TargetGrade)
	}
	return fmt.Sprintf("Set %d, rep %d, target %s", w.CurrentSet+1, rep, s.TargetGrade)
}

// ProgressDescription summarizes overall plan progress.
func (o *Orchestrator) ProgressDescription() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	w := o.workout
	if w == nil {
		return "No active workout"
	}
	pct := int(o.completionLocked()*100 + 0.5)
	switch w.Type {
	case TypePyramid:
		dir := "ascending"
		if w.descending {
			dir = "descending"
		}
		desc := fmt.Sprintf("Pyramid %s-%s: %s at %s, %d%% complete",
			w.PyramidStart, w.PyramidPeak, dir, w.CurrentTarget(), pct)
		if w.Status == StatusPaused {
			return "Paused - " + desc
		}
		return desc
	case TypeIntervals:
		desc := fmt.Sprintf("Intervals at %s: %d%% of %s elapsed", w.SelectedGrade, pct, w.Duration)
		if w.Status == StatusPaused {
			return "Paused - " + desc
		}
		return desc
	default:
		planned := 0
		for _, s := range w.Sets {
			planned += s.PlannedReps
		}
		desc := fmt.Sprintf("%d of %d climbs at %s, %d%% complete",
			w.TotalReps(), planned, w.SelectedGrade, pct)
		if w.Status == StatusPaused {
			return "Paused - " + desc
		}
		return desc
	}
}

// NextActionDescription tells the climber what to do next.
func (o *Orchestrator) NextActionDescription() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	w := o.workout
	if w == nil {
		return "Start a workout"
	}
	switch w.Status {
	case StatusCompleted:
		return "Workout complete"
	case StatusCancelled:
		return "Workout cancelled"
	case StatusPaused:
		return "Resume to continue"
	}
	rest := o.cfg.DefaultRest
	if policy, ok := PolicyFor(w.Type); ok && policy.Rest > 0 {
		rest = policy.Rest
	}
	return fmt.Sprintf("Climb %s, then rest %s", w.CurrentTarget(), rest)
}
