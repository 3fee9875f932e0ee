package store

import (
	"context"
	"time"

	"monotaskr/coordinator/internal/model"
)

// Key partitioning: timer state, session history and temp overrides are
// fast-changing and stay in the local area; everything else is replicated
// through the synced area.
const (
	KeyTimerState    = "timer_state"
	KeySessions      = "sessions"
	KeyTempOverrides = "temp_overrides"

	KeyBlockedSites        = "blocked_sites"
	KeyWhitelistedSites    = "whitelisted_sites"
	KeyBlockingMode        = "blocking_mode"
	KeySchedule            = "schedule"
	KeyStats               = "stats"
	KeyTheme               = "theme"
	KeyShowTabTitleTimer   = "show_tab_title_timer"
	KeyTempAccessLimit     = "temp_access_limit"
	KeyOnboardingCompleted = "onboarding_completed"
	KeyDevices             = "devices"
)

// MaxRetainedSessions caps the session history; the oldest entry is
// evicted first.
const MaxRetainedSessions = 50

func (s *Store) TimerState(ctx context.Context) (model.TimerState, error) {
	state := model.DefaultTimerState()
	if _, err := s.Get(ctx, AreaLocal, KeyTimerState, &state); err != nil {
		return model.TimerState{}, err
	}
	return state, nil
}

func (s *Store) SetTimerState(ctx context.Context, state model.TimerState) error {
	return s.Set(ctx, AreaLocal, KeyTimerState, state)
}

func (s *Store) Sessions(ctx context.Context) ([]model.Session, error) {
	sessions := []model.Session{}
	if _, err := s.Get(ctx, AreaLocal, KeySessions, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// AppendSession prepends the session so history reads newest-first.
func (s *Store) AppendSession(ctx context.Context, session model.Session) error {
	sessions, err := s.Sessions(ctx)
	if err != nil {
		return err
	}
	sessions = append([]model.Session{session}, sessions...)
	if len(sessions) > MaxRetainedSessions {
		sessions = sessions[:MaxRetainedSessions]
	}
	return s.Set(ctx, AreaLocal, KeySessions, sessions)
}

func (s *Store) TempOverrides(ctx context.Context) (map[string]time.Time, error) {
	overrides := map[string]time.Time{}
	if _, err := s.Get(ctx, AreaLocal, KeyTempOverrides, &overrides); err != nil {
		return nil, err
	}
	return overrides, nil
}

func (s *Store) SetTempOverrides(ctx context.Context, overrides map[string]time.Time) error {
	return s.Set(ctx, AreaLocal, KeyTempOverrides, overrides)
}

func (s *Store) UserStats(ctx context.Context) (model.UserStats, error) {
	stats := model.DefaultUserStats()
	if _, err := s.Get(ctx, AreaSynced, KeyStats, &stats); err != nil {
		return model.UserStats{}, err
	}
	return stats, nil
}

func (s *Store) SetUserStats(ctx context.Context, stats model.UserStats) error {
	return s.Set(ctx, AreaSynced, KeyStats, stats)
}

func (s *Store) ScheduleConfig(ctx context.Context) (model.ScheduleConfig, error) {
	config := model.DefaultScheduleConfig()
	if _, err := s.Get(ctx, AreaSynced, KeySchedule, &config); err != nil {
		return model.ScheduleConfig{}, err
	}
	return config, nil
}

func (s *Store) SetScheduleConfig(ctx context.Context, config model.ScheduleConfig) error {
	return s.Set(ctx, AreaSynced, KeySchedule, config)
}

func (s *Store) BlockedSites(ctx context.Context) ([]string, error) {
	sites := append([]string(nil), model.DefaultBlockedDomains...)
	if _, err := s.Get(ctx, AreaSynced, KeyBlockedSites, &sites); err != nil {
		return nil, err
	}
	return sites, nil
}

func (s *Store) SetBlockedSites(ctx context.Context, sites []string) error {
	return s.Set(ctx, AreaSynced, KeyBlockedSites, sites)
}

func (s *Store) WhitelistedSites(ctx context.Context) ([]string, error) {
	sites := []string{}
	if _, err := s.Get(ctx, AreaSynced, KeyWhitelistedSites, &sites); err != nil {
		return nil, err
	}
	return sites, nil
}

func (s *Store) SetWhitelistedSites(ctx context.Context, sites []string) error {
	return s.Set(ctx, AreaSynced, KeyWhitelistedSites, sites)
}

func (s *Store) BlockingMode(ctx context.Context) (model.BlockingMode, error) {
	mode := model.BlockingBlacklist
	if _, err := s.Get(ctx, AreaSynced, KeyBlockingMode, &mode); err != nil {
		return "", err
	}
	return mode, nil
}

func (s *Store) SetBlockingMode(ctx context.Context, mode model.BlockingMode) error {
	return s.Set(ctx, AreaSynced, KeyBlockingMode, mode)
}

// ShowTabTitleTimer defaults to true when never set.
func (s *Store) ShowTabTitleTimer(ctx context.Context) (bool, error) {
	enabled := true
	if _, err := s.Get(ctx, AreaSynced, KeyShowTabTitleTimer, &enabled); err != nil {
		return false, err
	}
	return enabled, nil
}

func (s *Store) SetShowTabTitleTimer(ctx context.Context, enabled bool) error {
	return s.Set(ctx, AreaSynced, KeyShowTabTitleTimer, enabled)
}

func (s *Store) TempAccessLimit(ctx context.Context) (int, error) {
	limit := model.DefaultTempAccessLimit
	if _, err := s.Get(ctx, AreaSynced, KeyTempAccessLimit, &limit); err != nil {
		return 0, err
	}
	return limit, nil
}

func (s *Store) SetTempAccessLimit(ctx context.Context, limit int) error {
	return s.Set(ctx, AreaSynced, KeyTempAccessLimit, limit)
}

func (s *Store) Theme(ctx context.Context) (string, error) {
	theme := "system"
	if _, err := s.Get(ctx, AreaSynced, KeyTheme, &theme); err != nil {
		return "", err
	}
	return theme, nil
}

func (s *Store) SetTheme(ctx context.Context, theme string) error {
	return s.Set(ctx, AreaSynced, KeyTheme, theme)
}

func (s *Store) OnboardingCompleted(ctx context.Context) (bool, error) {
	completed := false
	if _, err := s.Get(ctx, AreaSynced, KeyOnboardingCompleted, &completed); err != nil {
		return false, err
	}
	return completed, nil
}

func (s *Store) SetOnboardingCompleted(ctx context.Context, completed bool) error {
	return s.Set(ctx, AreaSynced, KeyOnboardingCompleted, completed)
}

func (s *Store) Devices(ctx context.Context) (map[string]model.Device, error) {
	devices := map[string]model.Device{}
	if _, err := s.Get(ctx, AreaSynced, KeyDevices, &devices); err != nil {
		return nil, err
	}
	return devices, nil
}

func (s *Store) SetDevices(ctx context.Context, devices map[string]model.Device) error {
	return s.Set(ctx, AreaSynced, KeyDevices, devices)
}
