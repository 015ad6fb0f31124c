package workout

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/meltforce/cruxlog/internal/grades"
)

func testOrchestrator(t *testing.T) *Orchestrator {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewOrchestrator(grades.NewResolver(nil), DefaultConfig(), log)
}

func vScaleParams(typ Type) Params {
	return Params{
		Type:       typ,
		ScaleRef:   grades.ScaleRef{System: grades.SystemVScale},
		Discipline: grades.Bouldering,
	}
}

func send(o *Orchestrator, t *testing.T) {
	t.Helper()
	if !o.ProcessAttempt(context.Background(), Attempt{Outcome: OutcomeSend}) {
		t.Fatal("attempt rejected")
	}
}

// TestPyramidCompletion drives a V2..V5 pyramid with all sends and verifies
// the target strictly ascends V2-V5 then strictly descends back, with the
// workout completing exactly when the descent returns to V2.
func TestPyramidCompletion(t *testing.T) {
	o := testOrchestrator(t)
	p := vScaleParams(TypePyramid)
	p.PyramidStart = "V2"
	p.PyramidPeak = "V5"
	if !o.Start(context.Background(), p) {
		t.Fatal("start failed")
	}

	wantTargets := []grades.GradeLabel{"V2", "V3", "V4", "V5", "V4", "V3", "V2"}
	for i, want := range wantTargets {
		w := o.Snapshot()
		if got := w.CurrentTarget(); got != want {
			t.Fatalf("step %d: target %s, want %s", i, got, want)
		}
		if w.Status != StatusActive {
			t.Fatalf("step %d: status %s before final send", i, w.Status)
		}
		send(o, t)
	}

	w := o.Snapshot()
	if w.Status != StatusCompleted {
		t.Fatalf("status %s after descent reached start, want completed", w.Status)
	}
	if n := w.TotalReps(); n != len(wantTargets) {
		t.Errorf("reps = %d, want %d", n, len(wantTargets))
	}
	if pct := o.CompletionPercentage(); pct != 1 {
		t.Errorf("completion = %v, want 1", pct)
	}
}

// TestPyramidEarlyDescent verifies that hitting the failure threshold at one
// grade treats it as the peak and begins the descent instead of blocking.
func TestPyramidEarlyDescent(t *testing.T) {
	o := testOrchestrator(t)
	p := vScaleParams(TypePyramid)
	p.PyramidStart = "V2"
	p.PyramidPeak = "V6"
	if !o.Start(context.Background(), p) {
		t.Fatal("start failed")
	}

	send(o, t) // V2 -> V3
	send(o, t) // V3 -> V4
	for i := 0; i < DefaultConfig().MaxAttemptsPerGrade; i++ {
		if !o.ProcessAttempt(context.Background(), Attempt{Outcome: OutcomeFall}) {
			t.Fatal("fall rejected")
		}
	}

	w := o.Snapshot()
	if got := w.CurrentTarget(); got != "V3" {
		t.Fatalf("target after early descent = %s, want V3", got)
	}
	send(o, t) // V3 -> V2
	send(o, t) // V2: completes
	if w = o.Snapshot(); w.Status != StatusCompleted {
		t.Errorf("status = %s, want completed", w.Status)
	}
}

// TestPyramidFailureBelowThresholdHolds verifies that failures short of the
// threshold keep the target unchanged.
func TestPyramidFailureBelowThresholdHolds(t *testing.T) {
	o := testOrchestrator(t)
	p := vScaleParams(TypePyramid)
	p.PyramidStart = "V1"
	p.PyramidPeak = "V4"
	o.Start(context.Background(), p)

	send(o, t) // V1 -> V2
	o.ProcessAttempt(context.Background(), Attempt{Outcome: OutcomeFall})
	if got := o.Snapshot().CurrentTarget(); got != "V2" {
		t.Errorf("target = %s, want V2 held after single fall", got)
	}
}

// TestFreeformFlashScenario starts a freeform workout targeting V4 with a
// single configured rep, records a flash, and checks send rate, hardest
// grade, and auto-completion.
func TestFreeformFlashScenario(t *testing.T) {
	o := testOrchestrator(t)
	p := vScaleParams(TypeFreeform)
	p.Grade = "V4"
	p.ProblemCount = 1
	if !o.Start(context.Background(), p) {
		t.Fatal("start failed")
	}

	if !o.ProcessAttempt(context.Background(), Attempt{Outcome: OutcomeFlash}) {
		t.Fatal("flash rejected")
	}
	w := o.Snapshot()
	if w.Status != StatusCompleted {
		t.Fatalf("status = %s, want completed", w.Status)
	}
	if w.Metrics.SendRate != 1.0 {
		t.Errorf("send rate = %v, want 1.0", w.Metrics.SendRate)
	}
	if w.Metrics.HardestAttempted != "V4" {
		t.Errorf("hardest = %s, want V4", w.Metrics.HardestAttempted)
	}
}

// TestRepAccounting verifies the sum of reps across sets equals the number
// of attempts accepted while active, with rejected attempts not counted.
func TestRepAccounting(t *testing.T) {
	o := testOrchestrator(t)
	p := vScaleParams(TypeVolume)
	p.Grade = "V2"
	p.ProblemCount = 3
	p.SetCount = 2
	o.Start(context.Background(), p)

	accepted := 0
	outcomes := []Outcome{OutcomeSend, OutcomeFall, OutcomeSend, OutcomeFall, OutcomeSend}
	for _, oc := range outcomes {
		if o.ProcessAttempt(context.Background(), Attempt{Outcome: oc}) {
			accepted++
		}
	}
	// a roped-only outcome on a bouldering plan must be rejected
	if o.ProcessAttempt(context.Background(), Attempt{Outcome: OutcomeTopped}) {
		t.Error("topped accepted on bouldering plan")
	}

	w := o.Snapshot()
	if w.TotalReps() != accepted {
		t.Errorf("reps = %d, accepted = %d", w.TotalReps(), accepted)
	}
	if w.CurrentSet != 1 {
		t.Errorf("current set = %d, want 1 after first set filled", w.CurrentSet)
	}
}

// TestVolumeCompletesWhenSetsExhausted verifies set advancement is by rep
// count regardless of outcomes and the workout completes with the last set.
func TestVolumeCompletesWhenSetsExhausted(t *testing.T) {
	o := testOrchestrator(t)
	p := vScaleParams(TypeVolume)
	p.Grade = "V1"
	p.ProblemCount = 2
	p.SetCount = 2
	o.Start(context.Background(), p)

	for i := 0; i < 4; i++ {
		if o.Snapshot().Status != StatusActive {
			t.Fatalf("terminated early at attempt %d", i)
		}
		o.ProcessAttempt(context.Background(), Attempt{Outcome: OutcomeFall})
	}
	if got := o.Snapshot().Status; got != StatusCompleted {
		t.Errorf("status = %s, want completed", got)
	}
}

// TestIntervalsCompleteByTime verifies a duration-bounded plan completes on
// the first attempt recorded past its time budget.
func TestIntervalsCompleteByTime(t *testing.T) {
	o := testOrchestrator(t)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	o.clock = func() time.Time { return now }

	p := vScaleParams(TypeIntervals)
	p.Grade = "V1"
	p.Duration = 10 * time.Minute
	o.Start(context.Background(), p)

	now = now.Add(4 * time.Minute)
	o.ProcessAttempt(context.Background(), Attempt{Timestamp: now, Outcome: OutcomeSend})
	if got := o.Snapshot().Status; got != StatusActive {
		t.Fatalf("status = %s mid-interval, want active", got)
	}

	now = now.Add(7 * time.Minute)
	o.ProcessAttempt(context.Background(), Attempt{Timestamp: now, Outcome: OutcomeSend})
	if got := o.Snapshot().Status; got != StatusCompleted {
		t.Errorf("status = %s past duration, want completed", got)
	}
}

// TestStartValidation verifies required-parameter checks: pyramid without a
// peak, freeform without a grade or count, and unknown grades all fail
// without constructing a workout.
func TestStartValidation(t *testing.T) {
	cases := []struct {
		name string
		p    Params
	}{
		{"pyramid missing peak", func() Params {
			p := vScaleParams(TypePyramid)
			p.PyramidStart = "V2"
			return p
		}()},
		{"pyramid inverted range", func() Params {
			p := vScaleParams(TypePyramid)
			p.PyramidStart = "V5"
			p.PyramidPeak = "V2"
			return p
		}()},
		{"freeform missing grade", func() Params {
			p := vScaleParams(TypeFreeform)
			p.ProblemCount = 1
			return p
		}()},
		{"freeform missing count", func() Params {
			p := vScaleParams(TypeFreeform)
			p.Grade = "V3"
			return p
		}()},
		{"grade outside scale", func() Params {
			p := vScaleParams(TypeFreeform)
			p.Grade = "6B"
			p.ProblemCount = 1
			return p
		}()},
		{"intervals missing duration", func() Params {
			p := vScaleParams(TypeIntervals)
			p.Grade = "V1"
			return p
		}()},
		{"unknown plan type", func() Params {
			p := vScaleParams(Type("mystery"))
			p.Grade = "V1"
			return p
		}()},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			o := testOrchestrator(t)
			if o.Start(context.Background(), tc.p) {
				t.Error("start accepted invalid params")
			}
			if o.Active() {
				t.Error("workout partially constructed")
			}
		})
	}
}

// TestStartWhileActiveRejected verifies only one workout can be active.
func TestStartWhileActiveRejected(t *testing.T) {
	o := testOrchestrator(t)
	p := vScaleParams(TypeFreeform)
	p.Grade = "V3"
	p.ProblemCount = 2
	if !o.Start(context.Background(), p) {
		t.Fatal("first start failed")
	}
	if o.Start(context.Background(), p) {
		t.Error("second start accepted while active")
	}
}

// TestInvalidTransitionsAreNoOps verifies double-pause, resume-from-active,
// and attempts while idle all leave state unchanged and report false.
func TestInvalidTransitionsAreNoOps(t *testing.T) {
	o := testOrchestrator(t)

	if o.Pause() || o.Resume() || o.End() || o.Cancel() {
		t.Error("transition accepted while idle")
	}
	if o.ProcessAttempt(context.Background(), Attempt{Outcome: OutcomeSend}) {
		t.Error("attempt accepted while idle")
	}

	p := vScaleParams(TypeFreeform)
	p.Grade = "V3"
	p.ProblemCount = 5
	o.Start(context.Background(), p)
	o.ProcessAttempt(context.Background(), Attempt{Outcome: OutcomeSend})

	if !o.Pause() {
		t.Fatal("pause failed")
	}
	before := o.Snapshot()
	if o.Pause() {
		t.Error("double pause accepted")
	}
	if o.ProcessAttempt(context.Background(), Attempt{Outcome: OutcomeSend}) {
		t.Error("attempt accepted while paused")
	}
	after := o.Snapshot()
	if after.TotalReps() != before.TotalReps() || after.Status != before.Status {
		t.Error("no-op transitions mutated state")
	}
}

// TestPauseResumeTimeAccounting verifies paused time is excluded from the
// workout's total duration.
func TestPauseResumeTimeAccounting(t *testing.T) {
	o := testOrchestrator(t)
	now := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)
	o.clock = func() time.Time { return now }

	p := vScaleParams(TypeFreeform)
	p.Grade = "V3"
	p.ProblemCount = 2
	o.Start(context.Background(), p)

	now = now.Add(5 * time.Minute)
	o.Pause()
	now = now.Add(30 * time.Minute)
	o.Resume()
	now = now.Add(5 * time.Minute)
	o.End()

	w := o.Snapshot()
	if w.Metrics.TotalDuration != 10*time.Minute {
		t.Errorf("duration = %s, want 10m", w.Metrics.TotalDuration)
	}
}

// TestCancelIsTerminal verifies cancel ends the workout and no further
// transitions apply.
func TestCancelIsTerminal(t *testing.T) {
	o := testOrchestrator(t)
	p := vScaleParams(TypeFreeform)
	p.Grade = "V3"
	p.ProblemCount = 3
	o.Start(context.Background(), p)
	o.ProcessAttempt(context.Background(), Attempt{Outcome: OutcomeSend})

	if !o.Cancel() {
		t.Fatal("cancel failed")
	}
	w := o.Snapshot()
	if w.Status != StatusCancelled {
		t.Fatalf("status = %s, want cancelled", w.Status)
	}
	if o.Resume() || o.End() || o.Cancel() {
		t.Error("transition accepted after cancel")
	}
	if o.ProcessAttempt(context.Background(), Attempt{Outcome: OutcomeSend}) {
		t.Error("attempt accepted after cancel")
	}
	// a new workout may start after a terminal one
	if !o.Start(context.Background(), p) {
		t.Error("start rejected after terminal workout")
	}
}

// TestMetricsAverageRest verifies average rest derives from inter-attempt
// timestamps.
func TestMetricsAverageRest(t *testing.T) {
	o := testOrchestrator(t)
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	o.clock = func() time.Time { return base }

	p := vScaleParams(TypeVolume)
	p.Grade = "V2"
	p.ProblemCount = 3
	o.Start(context.Background(), p)

	o.ProcessAttempt(context.Background(), Attempt{Timestamp: base, Outcome: OutcomeSend})
	o.ProcessAttempt(context.Background(), Attempt{Timestamp: base.Add(2 * time.Minute), Outcome: OutcomeFall})
	o.ProcessAttempt(context.Background(), Attempt{Timestamp: base.Add(6 * time.Minute), Outcome: OutcomeSend})

	w := o.Snapshot()
	if w.Metrics.AverageRest != 3*time.Minute {
		t.Errorf("average rest = %s, want 3m", w.Metrics.AverageRest)
	}
	if w.Metrics.SendRate < 0.66 || w.Metrics.SendRate > 0.67 {
		t.Errorf("send rate = %v, want 2/3", w.Metrics.SendRate)
	}
}

// TestDescriptionsAreDerived verifies the progress descriptors format
// current counters without mutating anything.
func TestDescriptionsAreDerived(t *testing.T) {
	o := testOrchestrator(t)
	if got := o.CurrentRepDescription(); got != "No active workout" {
		t.Errorf("idle rep description = %q", got)
	}

	p := vScaleParams(TypePyramid)
	p.PyramidStart = "V2"
	p.PyramidPeak = "V4"
	o.Start(context.Background(), p)
	send(o, t)

	before := o.Snapshot()
	_ = o.CurrentRepDescription()
	_ = o.ProgressDescription()
	_ = o.NextActionDescription()
	after := o.Snapshot()
	if after.TotalReps() != before.TotalReps() || after.CurrentTarget() != before.CurrentTarget() {
		t.Error("description queries mutated state")
	}

	if got := o.ProgressDescription(); got == "" {
		t.Error("empty progress description")
	}
	if got := o.NextActionDescription(); got == "" {
		t.Error("empty next action description")
	}
}
