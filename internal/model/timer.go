package model

import "time"

type TimerStatus string

const (
	StatusIdle      TimerStatus = "IDLE"
	StatusRunning   TimerStatus = "RUNNING"
	StatusPaused    TimerStatus = "PAUSED"
	StatusBreak     TimerStatus = "BREAK"
	StatusCompleted TimerStatus = "COMPLETED"
	StatusScheduled TimerStatus = "SCHEDULED"
)

type TimerMode string

const (
	ModeSimple   TimerMode = "SIMPLE"
	ModeInterval TimerMode = "INTERVAL"
)

const DefaultFocusMinutes = 25

// IntervalConfig is fixed for the lifetime of a running interval session.
type IntervalConfig struct {
	FocusDurationMinutes      int `json:"focusDuration"`
	ShortBreakDurationMinutes int `json:"shortBreakDuration"`
	Cycles                    int `json:"cycles"`
}

// TimerState is the singleton countdown state owned by the timer controller.
// Duration and RemainingSeconds describe the current phase, not the whole
// session. EndTime is nil whenever the timer is not actively counting down.
// PausedFrom records which phase a paused session resumes into; it is set
// only while Status is PAUSED.
type TimerState struct {
	Status           TimerStatus     `json:"status"`
	Mode             TimerMode       `json:"mode"`
	StartTime        *time.Time      `json:"startTime"`
	EndTime          *time.Time      `json:"endTime"`
	DurationMinutes  int             `json:"duration"`
	RemainingSeconds int             `json:"remainingSeconds"`
	IntervalConfig   *IntervalConfig `json:"intervalConfig,omitempty"`
	CurrentCycle     int             `json:"currentCycle"`
	TotalCycles      int             `json:"totalCycles"`
	PausedFrom       TimerStatus     `json:"pausedFrom,omitempty"`
}

// Counting reports whether the state is actively ticking down.
func (s TimerState) Counting() bool {
	return s.Status == StatusRunning || s.Status == StatusBreak
}

func DefaultTimerState() TimerState {
	return TimerState{
		Status:           StatusIdle,
		Mode:             ModeSimple,
		DurationMinutes:  DefaultFocusMinutes,
		RemainingSeconds: DefaultFocusMinutes * 60,
		TotalCycles:      1,
	}
}

// Session is one completed focus phase, recorded in history. Records are
// append-only and never mutated.
type Session struct {
	ID              string    `json:"id"`
	StartTime       time.Time `json:"startTime"`
	DurationMinutes int       `json:"duration"`
	Completed       bool      `json:"completed"`
	Timestamp       time.Time `json:"timestamp"`
}
