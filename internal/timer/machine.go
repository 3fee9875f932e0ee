// Package timer holds the pure transition functions of the session state
// machine. Functions here take a TimerState value and return the next one;
// persistence, tick subscriptions and notifications are side effects of the
// controller layer.
package timer

import (
	"time"

	"monotaskr/coordinator/internal/model"
)

// Start builds a fresh running state, overwriting any prior session. With
// an interval config the session alternates focus and break phases for the
// configured number of cycles; without one it is a single focus phase.
func Start(now time.Time, durationMinutes int, interval *model.IntervalConfig) model.TimerState {
	state := model.TimerState{
		Status:           model.StatusRunning,
		Mode:             model.ModeSimple,
		DurationMinutes:  durationMinutes,
		RemainingSeconds: durationMinutes * 60,
		TotalCycles:      1,
	}

	if interval != nil {
		cfg := *interval
		state.Mode = model.ModeInterval
		state.IntervalConfig = &cfg
		state.DurationMinutes = cfg.FocusDurationMinutes
		state.RemainingSeconds = cfg.FocusDurationMinutes * 60
		state.CurrentCycle = 1
		state.TotalCycles = cfg.Cycles
	}

	start := now
	end := now.Add(time.Duration(state.RemainingSeconds) * time.Second)
	state.StartTime = &start
	state.EndTime = &end
	return state
}

// Resume reactivates a paused state with its frozen countdown. The phase it
// resumes into is the one recorded at pause time.
func Resume(prev model.TimerState, now time.Time) model.TimerState {
	next := prev
	next.Status = model.StatusRunning
	if prev.PausedFrom == model.StatusBreak {
		next.Status = model.StatusBreak
	}
	next.PausedFrom = ""
	end := now.Add(time.Duration(next.RemainingSeconds) * time.Second)
	next.EndTime = &end
	return next
}

// Pause freezes a running or break phase. The second return value is false
// when the state is not pausable; callers treat that as a silent no-op.
func Pause(prev model.TimerState) (model.TimerState, bool) {
	if !prev.Counting() {
		return prev, false
	}
	next := prev
	next.PausedFrom = prev.Status
	next.Status = model.StatusPaused
	next.EndTime = nil
	return next, true
}

// Stopped is the state after abandoning a session: the default idle state.
func Stopped() model.TimerState {
	return model.DefaultTimerState()
}

// TickResult classifies what a tick did to the state.
type TickResult int

const (
	// TickIgnored: the state is not counting down; the subscription is
	// stale and should be cancelled.
	TickIgnored TickResult = iota
	// TickCounted: one second was consumed.
	TickCounted
	// TickPhaseDone: the countdown reached zero (or a catch-up tick found
	// it already there); the caller runs the phase-completion path.
	TickPhaseDone
)

// Tick consumes one second of the current phase.
func Tick(prev model.TimerState) (model.TimerState, TickResult) {
	if !prev.Counting() {
		return prev, TickIgnored
	}
	if prev.RemainingSeconds <= 0 {
		return prev, TickPhaseDone
	}
	next := prev
	next.RemainingSeconds--
	if next.RemainingSeconds == 0 {
		return next, TickPhaseDone
	}
	return next, TickCounted
}

// MinuteCrossed reports whether the state just arrived at a whole-minute
// boundary of a focus phase, which awards one minute of XP. The final
// minute of a phase is awarded by the completion path instead.
func MinuteCrossed(s model.TimerState) bool {
	return s.Status == model.StatusRunning &&
		s.RemainingSeconds > 0 &&
		s.RemainingSeconds%60 == 0
}

// SkipWithin fast-forwards the countdown by seconds when more than that
// remains. It returns the minutes of XP the skipped span would have earned
// through natural ticking. The caller handles the case where the skip
// reaches or passes zero.
func SkipWithin(prev model.TimerState, seconds int) (model.TimerState, int) {
	next := prev
	next.RemainingSeconds -= seconds
	minutes := 0
	if prev.Status == model.StatusRunning {
		minutes = wholeMinutesCrossed(prev.RemainingSeconds, next.RemainingSeconds)
	}
	return next, minutes
}

// SkipToZero collapses the countdown to zero, returning the minutes earned
// on the way down. The resulting state feeds the same completion path as a
// natural final tick, so skipping and waiting produce identical results.
func SkipToZero(prev model.TimerState) (model.TimerState, int) {
	next := prev
	next.RemainingSeconds = 0
	minutes := 0
	if prev.Status == model.StatusRunning {
		minutes = wholeMinutesCrossed(prev.RemainingSeconds, 0)
	}
	return next, minutes
}

// wholeMinutesCrossed counts the positive whole-minute boundaries passed
// when ticking down from `from` (exclusive) to `to` (inclusive). The zero
// boundary is excluded; the completion path accounts for it.
func wholeMinutesCrossed(from, to int) int {
	if from <= to {
		return 0
	}
	hi := from - 1
	lo := to
	if lo < 1 {
		lo = 1
	}
	if hi < lo {
		return 0
	}
	return hi/60 - (lo-1)/60
}

// PhaseResult describes the outcome of completing the current phase.
type PhaseResult struct {
	State model.TimerState
	// FocusCompleted: a focus phase ended; the caller records a session of
	// FocusMinutes and awards the final gamification minute.
	FocusCompleted bool
	FocusMinutes   int
	// Terminal: the whole session reached COMPLETED.
	Terminal bool
	// Message is the user-facing transition description.
	Message string
}

// CompletePhase dispatches the countdown-reached-zero transition. Simple
// sessions and the last interval cycle terminate; otherwise the session
// alternates between focus and break phases, bumping the cycle counter
// each time focus resumes.
func CompletePhase(prev model.TimerState, now time.Time) PhaseResult {
	if prev.Mode == model.ModeInterval && prev.IntervalConfig != nil {
		if prev.Status == model.StatusBreak {
			return beginFocus(prev, now)
		}
		if prev.CurrentCycle < prev.TotalCycles {
			return beginBreak(prev, now)
		}
	}
	return finishSession(prev)
}

func finishSession(prev model.TimerState) PhaseResult {
	next := prev
	next.Status = model.StatusCompleted
	next.RemainingSeconds = 0
	next.EndTime = nil
	next.PausedFrom = ""
	return PhaseResult{
		State:          next,
		FocusCompleted: true,
		FocusMinutes:   prev.DurationMinutes,
		Terminal:       true,
		Message:        "Session finished! Well done.",
	}
}

func beginBreak(prev model.TimerState, now time.Time) PhaseResult {
	next := prev
	next.Status = model.StatusBreak
	next.DurationMinutes = prev.IntervalConfig.ShortBreakDurationMinutes
	next.RemainingSeconds = next.DurationMinutes * 60
	start := now
	end := now.Add(time.Duration(next.RemainingSeconds) * time.Second)
	next.StartTime = &start
	next.EndTime = &end
	return PhaseResult{
		State:          next,
		FocusCompleted: true,
		FocusMinutes:   prev.DurationMinutes,
		Message:        "Focus phase complete. Time for a break.",
	}
}

func beginFocus(prev model.TimerState, now time.Time) PhaseResult {
	next := prev
	next.Status = model.StatusRunning
	next.CurrentCycle = prev.CurrentCycle + 1
	next.DurationMinutes = prev.IntervalConfig.FocusDurationMinutes
	next.RemainingSeconds = next.DurationMinutes * 60
	start := now
	end := now.Add(time.Duration(next.RemainingSeconds) * time.Second)
	next.StartTime = &start
	next.EndTime = &end
	return PhaseResult{
		State:   next,
		Message: "Break over. Back to focus.",
	}
}

// ApplySchedule reconciles an inactive state against the schedule
// evaluator's verdict. It returns false when nothing changes. Active and
// paused sessions are never interrupted; the controller does not call this
// for them.
func ApplySchedule(prev model.TimerState, blocking bool) (model.TimerState, bool) {
	switch {
	case blocking && prev.Status == model.StatusIdle:
		next := prev
		next.Status = model.StatusScheduled
		return next, true
	case !blocking && prev.Status == model.StatusScheduled:
		next := prev
		next.Status = model.StatusIdle
		return next, true
	default:
		return prev, false
	}
}
