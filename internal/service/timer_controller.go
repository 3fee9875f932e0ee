package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "monotaskr/coordinator/internal/errors"
	"monotaskr/coordinator/internal/gamification"
	"monotaskr/coordinator/internal/model"
	"monotaskr/coordinator/internal/schedule"
	"monotaskr/coordinator/internal/store"
	"monotaskr/coordinator/internal/timer"
)

// TickSubscription is the named 1 Hz subscription driving the countdown.
// It is active exactly while the persisted status is RUNNING or BREAK.
const TickSubscription = "monotaskr_timer_tick"

// ScheduleSubscription is the periodic schedule reconciliation,
// activated by main for the process lifetime.
const ScheduleSubscription = "monotaskr_schedule_check"

// TickSource delivers named periodic callbacks. Activation and
// deactivation are idempotent; ticks may be delayed or coalesced.
type TickSource interface {
	Activate(name string, interval time.Duration, fn func())
	Deactivate(name string)
}

// TimerController orchestrates the session state machine: it is the only
// writer of the timer state and user stats. Every mutation re-reads the
// persisted state first, so the controller survives process restarts with
// nothing load-bearing in memory.
type TimerController struct {
	store        *store.Store
	ticks        TickSource
	notifier     Notifier
	titles       *TitleService
	tickInterval time.Duration

	now func() time.Time

	// mu serializes handlers: each tick, control message or schedule check
	// runs to completion before the next is processed.
	mu sync.Mutex
}

func NewTimerController(
	st *store.Store,
	ticks TickSource,
	notifier Notifier,
	titles *TitleService,
	tickInterval time.Duration,
) (*TimerController, error) {
	c := &TimerController{
		store:        st,
		ticks:        ticks,
		notifier:     notifier,
		titles:       titles,
		tickInterval: tickInterval,
		now:          time.Now,
	}

	// Sync-on-init: the tick subscription is re-derived from persisted
	// status alone after a restart.
	state, err := st.TimerState(context.Background())
	if err != nil {
		return nil, fmt.Errorf("load timer state: %w", err)
	}
	c.syncTicks(state)
	return c, nil
}

// State returns the current persisted timer state.
func (c *TimerController) State(ctx context.Context) (*model.TimerState, *apperrors.APIError) {
	state, err := c.store.TimerState(ctx)
	if err != nil {
		return nil, apperrors.Internal("failed to load timer state")
	}
	return &state, nil
}

// Start begins a fresh session, or resumes a paused one with its frozen
// countdown. A new session always overwrites whatever state was there.
func (c *TimerController) Start(ctx context.Context, durationMinutes int, interval *model.IntervalConfig) (*model.TimerState, *apperrors.APIError) {
	if interval != nil {
		if interval.FocusDurationMinutes <= 0 || interval.ShortBreakDurationMinutes <= 0 {
			return nil, apperrors.BadRequest("invalid_interval", "interval durations must be positive minutes")
		}
		if interval.Cycles < 1 {
			return nil, apperrors.BadRequest("invalid_interval", "cycles must be at least 1")
		}
	} else if durationMinutes <= 0 {
		return nil, apperrors.BadRequest("invalid_duration", "duration must be positive minutes")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	state, err := c.store.TimerState(ctx)
	if err != nil {
		return nil, apperrors.Internal("failed to load timer state")
	}

	var next model.TimerState
	if state.Status == model.StatusPaused {
		next = timer.Resume(state, c.now())
	} else {
		next = timer.Start(c.now(), durationMinutes, interval)
	}

	if err := c.store.SetTimerState(ctx, next); err != nil {
		return nil, apperrors.Internal("failed to persist timer state")
	}
	c.syncTicks(next)
	return &next, nil
}

// Pause freezes a running or break phase. Any other status is a silent
// no-op returning the unchanged state.
func (c *TimerController) Pause(ctx context.Context) (*model.TimerState, *apperrors.APIError) {
	c.mu.Lock()
	defer c.mu.Unlock()

	state, err := c.store.TimerState(ctx)
	if err != nil {
		return nil, apperrors.Internal("failed to load timer state")
	}

	next, ok := timer.Pause(state)
	if !ok {
		return &state, nil
	}

	if err := c.store.SetTimerState(ctx, next); err != nil {
		return nil, apperrors.Internal("failed to persist timer state")
	}
	c.syncTicks(next)
	c.titles.Reset()
	return &next, nil
}

// Stop abandons the current session unconditionally without recording a
// session entry.
func (c *TimerController) Stop(ctx context.Context) (*model.TimerState, *apperrors.APIError) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := timer.Stopped()
	if err := c.store.SetTimerState(ctx, next); err != nil {
		return nil, apperrors.Internal("failed to persist timer state")
	}
	c.syncTicks(next)
	c.titles.Reset()
	return &next, nil
}

// HandleTick consumes one second of the countdown. It re-reads the
// persisted state first; a tick arriving after the status left the
// counting set cancels the stale subscription and changes nothing.
func (c *TimerController) HandleTick(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	state, err := c.store.TimerState(ctx)
	if err != nil {
		return fmt.Errorf("load timer state: %w", err)
	}

	next, result := timer.Tick(state)
	switch result {
	case timer.TickIgnored:
		c.syncTicks(state)
		return nil
	case timer.TickCounted:
		if err := c.store.SetTimerState(ctx, next); err != nil {
			return fmt.Errorf("persist timer state: %w", err)
		}
		if timer.MinuteCrossed(next) {
			if err := c.awardFocusMinutes(ctx, 1); err != nil {
				return err
			}
		}
		return c.titles.Update(ctx, next.RemainingSeconds)
	default:
		_, err := c.completePhaseLocked(ctx, next)
		return err
	}
}

// SkipTime fast-forwards the countdown. Skipping past the end of the phase
// runs the same completion path as a natural final tick and must leave the
// exact state that waiting would have.
func (c *TimerController) SkipTime(ctx context.Context, seconds int) (*model.TimerState, *apperrors.APIError) {
	if seconds <= 0 {
		return nil, apperrors.BadRequest("invalid_seconds", "seconds must be positive")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	state, err := c.store.TimerState(ctx)
	if err != nil {
		return nil, apperrors.Internal("failed to load timer state")
	}
	if !state.Counting() {
		return &state, nil
	}

	if state.RemainingSeconds > seconds {
		next, minutes := timer.SkipWithin(state, seconds)
		if err := c.store.SetTimerState(ctx, next); err != nil {
			return nil, apperrors.Internal("failed to persist timer state")
		}
		if minutes > 0 {
			if err := c.awardFocusMinutes(ctx, minutes); err != nil {
				return nil, apperrors.Internal("failed to update stats")
			}
		}
		if err := c.titles.Update(ctx, next.RemainingSeconds); err != nil {
			return nil, apperrors.Internal("failed to push title update")
		}
		return &next, nil
	}

	collapsed, minutes := timer.SkipToZero(state)
	if minutes > 0 {
		if err := c.awardFocusMinutes(ctx, minutes); err != nil {
			return nil, apperrors.Internal("failed to update stats")
		}
	}
	final, completeErr := c.completePhaseLocked(ctx, collapsed)
	if completeErr != nil {
		return nil, apperrors.Internal("failed to complete phase")
	}
	return final, nil
}

// CheckSchedule reconciles an inactive timer against the weekly blocking
// window. Running, paused and break states are never touched, whatever the
// evaluator says. Safe to invoke redundantly at any status.
func (c *TimerController) CheckSchedule(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	state, err := c.store.TimerState(ctx)
	if err != nil {
		return fmt.Errorf("load timer state: %w", err)
	}
	switch state.Status {
	case model.StatusRunning, model.StatusPaused, model.StatusBreak:
		return nil
	}

	config, err := c.store.ScheduleConfig(ctx)
	if err != nil {
		return fmt.Errorf("load schedule config: %w", err)
	}

	next, changed := timer.ApplySchedule(state, schedule.IsBlockingTime(config, c.now()))
	if !changed {
		return nil
	}
	if err := c.store.SetTimerState(ctx, next); err != nil {
		return fmt.Errorf("persist timer state: %w", err)
	}
	return nil
}

// History returns the retained session log, newest first.
func (c *TimerController) History(ctx context.Context, limit int) ([]model.Session, *apperrors.APIError) {
	sessions, err := c.store.Sessions(ctx)
	if err != nil {
		return nil, apperrors.Internal("failed to load sessions")
	}
	if limit > 0 && limit < len(sessions) {
		sessions = sessions[:limit]
	}
	return sessions, nil
}

// StatsView augments raw stats with derived level progress.
type StatsView struct {
	model.UserStats
	Progress       int `json:"progress"`
	XPForNextLevel int `json:"xpForNextLevel"`
}

func (c *TimerController) Stats(ctx context.Context) (*StatsView, *apperrors.APIError) {
	stats, err := c.store.UserStats(ctx)
	if err != nil {
		return nil, apperrors.Internal("failed to load stats")
	}
	return &StatsView{
		UserStats:      stats,
		Progress:       gamification.Progress(stats.XP, stats.Level),
		XPForNextLevel: gamification.XPForNextLevel(stats.Level),
	}, nil
}

func (c *TimerController) completePhaseLocked(ctx context.Context, state model.TimerState) (*model.TimerState, error) {
	now := c.now()
	result := timer.CompletePhase(state, now)

	if result.FocusCompleted {
		started := now
		if state.StartTime != nil {
			started = *state.StartTime
		}
		session := model.Session{
			ID:              uuid.NewString(),
			StartTime:       started,
			DurationMinutes: result.FocusMinutes,
			Completed:       true,
			Timestamp:       now,
		}
		if err := c.store.AppendSession(ctx, session); err != nil {
			return nil, fmt.Errorf("append session: %w", err)
		}
		if err := c.awardFocusMinutes(ctx, 1); err != nil {
			return nil, err
		}
	}

	if err := c.store.SetTimerState(ctx, result.State); err != nil {
		return nil, fmt.Errorf("persist timer state: %w", err)
	}
	c.syncTicks(result.State)

	if result.Terminal {
		c.titles.Reset()
	} else if err := c.titles.Update(ctx, result.State.RemainingSeconds); err != nil {
		return nil, err
	}

	c.notifier.Notify("MonoTaskr", result.Message)
	return &result.State, nil
}

func (c *TimerController) awardFocusMinutes(ctx context.Context, minutes int) error {
	stats, err := c.store.UserStats(ctx)
	if err != nil {
		return fmt.Errorf("load stats: %w", err)
	}

	stats.XP += minutes
	stats.TotalFocusSeconds += minutes * 60
	stats.Level = gamification.CalculateLevel(stats.XP)

	for _, badge := range gamification.CheckBadges(stats) {
		stats.Badges = append(stats.Badges, badge.ID)
		c.notifier.Notify("Badge unlocked", fmt.Sprintf("%s %s: %s", badge.Icon, badge.Name, badge.Description))
	}

	if err := c.store.SetUserStats(ctx, stats); err != nil {
		return fmt.Errorf("persist stats: %w", err)
	}
	return nil
}

func (c *TimerController) syncTicks(state model.TimerState) {
	if state.Counting() {
		c.ticks.Activate(TickSubscription, c.tickInterval, func() {
			if err := c.HandleTick(context.Background()); err != nil {
				log.Printf("tick: %v", err)
			}
		})
		return
	}
	c.ticks.Deactivate(TickSubscription)
}
