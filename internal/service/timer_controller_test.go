package service

import (
	"context"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"monotaskr/coordinator/internal/db"
	"monotaskr/coordinator/internal/event"
	"monotaskr/coordinator/internal/model"
	"monotaskr/coordinator/internal/store"
)

var controllerNow = time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC) // a Monday

type fakeTicks struct {
	mu     sync.Mutex
	active map[string]func()
}

func newFakeTicks() *fakeTicks {
	return &fakeTicks{active: map[string]func(){}}
}

func (f *fakeTicks) Activate(name string, _ time.Duration, fn func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.active[name] = fn
}

func (f *fakeTicks) Deactivate(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.active, name)
}

func (f *fakeTicks) isActive(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.active[name]
	return ok
}

type recordingNotifier struct {
	titles   []string
	messages []string
}

func (n *recordingNotifier) Notify(title, message string) {
	n.titles = append(n.titles, title)
	n.messages = append(n.messages, message)
}

func newControllerStore(t *testing.T) *store.Store {
	t.Helper()

	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		_ = database.Close()
	})

	_, currentFile, _, _ := runtime.Caller(0)
	migrationsDir := filepath.Join(filepath.Dir(currentFile), "..", "..", "migrations")
	if err := db.RunMigrations(database, migrationsDir); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	return store.New(database)
}

func newTestController(t *testing.T) (*TimerController, *store.Store, *fakeTicks, *recordingNotifier) {
	t.Helper()

	st := newControllerStore(t)
	ticks := newFakeTicks()
	notifier := &recordingNotifier{}
	titles := NewTitleService(st, event.NewBus())

	c, err := NewTimerController(st, ticks, notifier, titles, time.Second)
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	c.now = func() time.Time { return controllerNow }
	return c, st, ticks, notifier
}

func TestFullSessionNaturalTicks(t *testing.T) {
	c, st, ticks, notifier := newTestController(t)
	ctx := context.Background()

	state, apiErr := c.Start(ctx, 25, nil)
	if apiErr != nil {
		t.Fatalf("start: %v", apiErr)
	}
	if state.Status != model.StatusRunning || state.RemainingSeconds != 25*60 {
		t.Fatalf("unexpected started state: %+v", state)
	}
	if !ticks.isActive(TickSubscription) {
		t.Fatal("starting must activate the tick subscription")
	}

	for i := 0; i < 25*60; i++ {
		if err := c.HandleTick(ctx); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
	}

	final, apiErr := c.State(ctx)
	if apiErr != nil {
		t.Fatalf("state: %v", apiErr)
	}
	if final.Status != model.StatusCompleted {
		t.Fatalf("status = %s, want COMPLETED", final.Status)
	}
	if ticks.isActive(TickSubscription) {
		t.Fatal("completion must deactivate the tick subscription")
	}

	sessions, err := st.Sessions(ctx)
	if err != nil {
		t.Fatalf("sessions: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("session count = %d, want 1", len(sessions))
	}
	if sessions[0].DurationMinutes != 25 || !sessions[0].Completed {
		t.Fatalf("unexpected session: %+v", sessions[0])
	}

	stats, err := st.UserStats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.XP != 25 {
		t.Fatalf("xp = %d, want 25", stats.XP)
	}
	if stats.TotalFocusSeconds != 25*60 {
		t.Fatalf("focus seconds = %d, want %d", stats.TotalFocusSeconds, 25*60)
	}
	if len(stats.Badges) != 1 || stats.Badges[0] != "FIRST_STEP" {
		t.Fatalf("badges = %v, want [FIRST_STEP]", stats.Badges)
	}

	if len(notifier.messages) == 0 || notifier.messages[len(notifier.messages)-1] != "Session finished! Well done." {
		t.Fatalf("missing completion notification, got %v", notifier.messages)
	}
}

func TestSkipTimeMatchesNaturalTicks(t *testing.T) {
	ctx := context.Background()

	ticked, tickedStore, _, _ := newTestController(t)
	if _, apiErr := ticked.Start(ctx, 2, nil); apiErr != nil {
		t.Fatalf("start: %v", apiErr)
	}
	for i := 0; i < 120; i++ {
		if err := ticked.HandleTick(ctx); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
	}

	skipped, skippedStore, _, _ := newTestController(t)
	if _, apiErr := skipped.Start(ctx, 2, nil); apiErr != nil {
		t.Fatalf("start: %v", apiErr)
	}
	if _, apiErr := skipped.SkipTime(ctx, 120); apiErr != nil {
		t.Fatalf("skip: %v", apiErr)
	}

	tickedState, _ := ticked.State(ctx)
	skippedState, _ := skipped.State(ctx)
	if tickedState.Status != model.StatusCompleted || skippedState.Status != tickedState.Status {
		t.Fatalf("statuses diverged: ticked %s, skipped %s", tickedState.Status, skippedState.Status)
	}

	tickedStats, _ := tickedStore.UserStats(ctx)
	skippedStats, _ := skippedStore.UserStats(ctx)
	if tickedStats.XP != 2 || skippedStats.XP != tickedStats.XP {
		t.Fatalf("xp diverged: ticked %d, skipped %d", tickedStats.XP, skippedStats.XP)
	}

	tickedSessions, _ := tickedStore.Sessions(ctx)
	skippedSessions, _ := skippedStore.Sessions(ctx)
	if len(tickedSessions) != 1 || len(skippedSessions) != 1 {
		t.Fatalf("session counts diverged: ticked %d, skipped %d", len(tickedSessions), len(skippedSessions))
	}
	if tickedSessions[0].DurationMinutes != skippedSessions[0].DurationMinutes {
		t.Fatalf("session durations diverged: ticked %d, skipped %d",
			tickedSessions[0].DurationMinutes, skippedSessions[0].DurationMinutes)
	}
}

func TestSkipWithinPhase(t *testing.T) {
	c, st, _, _ := newTestController(t)
	ctx := context.Background()

	if _, apiErr := c.Start(ctx, 25, nil); apiErr != nil {
		t.Fatalf("start: %v", apiErr)
	}

	state, apiErr := c.SkipTime(ctx, 90)
	if apiErr != nil {
		t.Fatalf("skip: %v", apiErr)
	}
	if state.Status != model.StatusRunning || state.RemainingSeconds != 25*60-90 {
		t.Fatalf("unexpected state after skip: %+v", state)
	}

	stats, err := st.UserStats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.XP != 1 {
		t.Fatalf("xp = %d, want 1 for one crossed minute boundary", stats.XP)
	}
}

func TestStartResumesPausedSession(t *testing.T) {
	c, _, ticks, _ := newTestController(t)
	ctx := context.Background()

	if _, apiErr := c.Start(ctx, 25, nil); apiErr != nil {
		t.Fatalf("start: %v", apiErr)
	}
	for i := 0; i < 30; i++ {
		if err := c.HandleTick(ctx); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
	}

	paused, apiErr := c.Pause(ctx)
	if apiErr != nil {
		t.Fatalf("pause: %v", apiErr)
	}
	if paused.Status != model.StatusPaused || paused.RemainingSeconds != 25*60-30 {
		t.Fatalf("unexpected paused state: %+v", paused)
	}
	if ticks.isActive(TickSubscription) {
		t.Fatal("pausing must deactivate the tick subscription")
	}

	resumed, apiErr := c.Start(ctx, 5, nil)
	if apiErr != nil {
		t.Fatalf("resume: %v", apiErr)
	}
	if resumed.Status != model.StatusRunning {
		t.Fatalf("status = %s, want RUNNING", resumed.Status)
	}
	if resumed.RemainingSeconds != 25*60-30 {
		t.Fatalf("resume must keep the frozen countdown, got %d", resumed.RemainingSeconds)
	}
	if !ticks.isActive(TickSubscription) {
		t.Fatal("resuming must reactivate the tick subscription")
	}
}

func TestPauseIsNoOpWhenIdle(t *testing.T) {
	c, _, _, _ := newTestController(t)

	state, apiErr := c.Pause(context.Background())
	if apiErr != nil {
		t.Fatalf("pause: %v", apiErr)
	}
	if state.Status != model.StatusIdle {
		t.Fatalf("status = %s, want IDLE", state.Status)
	}
}

func TestStopDiscardsSession(t *testing.T) {
	c, st, ticks, _ := newTestController(t)
	ctx := context.Background()

	if _, apiErr := c.Start(ctx, 25, nil); apiErr != nil {
		t.Fatalf("start: %v", apiErr)
	}
	for i := 0; i < 120; i++ {
		if err := c.HandleTick(ctx); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
	}

	state, apiErr := c.Stop(ctx)
	if apiErr != nil {
		t.Fatalf("stop: %v", apiErr)
	}
	if state.Status != model.StatusIdle || state.RemainingSeconds != 25*60 {
		t.Fatalf("stop must restore defaults, got %+v", state)
	}
	if ticks.isActive(TickSubscription) {
		t.Fatal("stopping must deactivate the tick subscription")
	}

	sessions, err := st.Sessions(ctx)
	if err != nil {
		t.Fatalf("sessions: %v", err)
	}
	if len(sessions) != 0 {
		t.Fatalf("abandoned session must not be recorded, got %d entries", len(sessions))
	}
}

func TestStartValidation(t *testing.T) {
	c, _, _, _ := newTestController(t)
	ctx := context.Background()

	if _, apiErr := c.Start(ctx, 0, nil); apiErr == nil || apiErr.Code != "invalid_duration" {
		t.Fatalf("expected invalid_duration, got %v", apiErr)
	}
	if _, apiErr := c.Start(ctx, 0, &model.IntervalConfig{
		FocusDurationMinutes:      25,
		ShortBreakDurationMinutes: 5,
		Cycles:                    0,
	}); apiErr == nil || apiErr.Code != "invalid_interval" {
		t.Fatalf("expected invalid_interval, got %v", apiErr)
	}
	if _, apiErr := c.SkipTime(ctx, -1); apiErr == nil || apiErr.Code != "invalid_seconds" {
		t.Fatalf("expected invalid_seconds, got %v", apiErr)
	}
}

func TestStaleTickDeactivates(t *testing.T) {
	c, st, ticks, _ := newTestController(t)
	ctx := context.Background()

	if _, apiErr := c.Start(ctx, 25, nil); apiErr != nil {
		t.Fatalf("start: %v", apiErr)
	}

	// Simulate a competing writer resetting the state between ticks.
	if err := st.SetTimerState(ctx, model.DefaultTimerState()); err != nil {
		t.Fatalf("reset state: %v", err)
	}

	if err := c.HandleTick(ctx); err != nil {
		t.Fatalf("stale tick: %v", err)
	}
	if ticks.isActive(TickSubscription) {
		t.Fatal("a tick against a non-counting state must cancel the subscription")
	}

	state, apiErr := c.State(ctx)
	if apiErr != nil {
		t.Fatalf("state: %v", apiErr)
	}
	if state.Status != model.StatusIdle || state.RemainingSeconds != 25*60 {
		t.Fatalf("stale tick must not mutate state, got %+v", state)
	}
}

func TestCheckSchedule(t *testing.T) {
	c, st, _, _ := newTestController(t)
	ctx := context.Background()

	config := model.DefaultScheduleConfig()
	config.Enabled = true
	if err := st.SetScheduleConfig(ctx, config); err != nil {
		t.Fatalf("set schedule: %v", err)
	}

	// Monday 10:00 falls inside the default 09:00-17:00 window.
	if err := c.CheckSchedule(ctx); err != nil {
		t.Fatalf("check schedule: %v", err)
	}
	state, _ := c.State(ctx)
	if state.Status != model.StatusScheduled {
		t.Fatalf("status = %s, want SCHEDULED", state.Status)
	}

	// Redundant checks inside the window change nothing.
	if err := c.CheckSchedule(ctx); err != nil {
		t.Fatalf("check schedule: %v", err)
	}
	state, _ = c.State(ctx)
	if state.Status != model.StatusScheduled {
		t.Fatalf("status = %s, want SCHEDULED", state.Status)
	}

	c.now = func() time.Time { return time.Date(2026, 8, 31, 18, 0, 0, 0, time.UTC) }
	if err := c.CheckSchedule(ctx); err != nil {
		t.Fatalf("check schedule: %v", err)
	}
	state, _ = c.State(ctx)
	if state.Status != model.StatusIdle {
		t.Fatalf("status = %s, want IDLE after the window closes", state.Status)
	}
}

func TestCheckScheduleNeverTouchesActiveSession(t *testing.T) {
	c, st, _, _ := newTestController(t)
	ctx := context.Background()

	config := model.DefaultScheduleConfig()
	config.Enabled = true
	if err := st.SetScheduleConfig(ctx, config); err != nil {
		t.Fatalf("set schedule: %v", err)
	}

	if _, apiErr := c.Start(ctx, 25, nil); apiErr != nil {
		t.Fatalf("start: %v", apiErr)
	}
	if err := c.CheckSchedule(ctx); err != nil {
		t.Fatalf("check schedule: %v", err)
	}
	state, _ := c.State(ctx)
	if state.Status != model.StatusRunning {
		t.Fatalf("status = %s, want RUNNING untouched by schedule", state.Status)
	}

	if _, apiErr := c.Pause(ctx); apiErr != nil {
		t.Fatalf("pause: %v", apiErr)
	}
	if err := c.CheckSchedule(ctx); err != nil {
		t.Fatalf("check schedule: %v", err)
	}
	state, _ = c.State(ctx)
	if state.Status != model.StatusPaused {
		t.Fatalf("status = %s, want PAUSED untouched by schedule", state.Status)
	}
}

func TestTickSubscriptionRestoredOnInit(t *testing.T) {
	st := newControllerStore(t)
	ctx := context.Background()

	running := model.DefaultTimerState()
	running.Status = model.StatusRunning
	running.RemainingSeconds = 600
	if err := st.SetTimerState(ctx, running); err != nil {
		t.Fatalf("seed state: %v", err)
	}

	ticks := newFakeTicks()
	titles := NewTitleService(st, event.NewBus())
	if _, err := NewTimerController(st, ticks, &recordingNotifier{}, titles, time.Second); err != nil {
		t.Fatalf("new controller: %v", err)
	}
	if !ticks.isActive(TickSubscription) {
		t.Fatal("init against a RUNNING state must activate the tick subscription")
	}
}
