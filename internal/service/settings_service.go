package service

import (
	"context"

	apperrors "monotaskr/coordinator/internal/errors"
	"monotaskr/coordinator/internal/model"
	"monotaskr/coordinator/internal/schedule"
	"monotaskr/coordinator/internal/store"
)

// SettingsService reads and writes the synced preference keys on behalf of
// the API. It never touches timer state.
type SettingsService struct {
	store *store.Store
}

func NewSettingsService(st *store.Store) *SettingsService {
	return &SettingsService{store: st}
}

type Settings struct {
	BlockedSites        []string           `json:"blockedSites"`
	WhitelistedSites    []string           `json:"whitelistedSites"`
	BlockingMode        model.BlockingMode `json:"blockingMode"`
	ShowTabTitleTimer   bool               `json:"showTabTitleTimer"`
	TempAccessLimit     int                `json:"tempAccessLimit"`
	Theme               string             `json:"theme"`
	OnboardingCompleted bool               `json:"onboardingCompleted"`
}

// SettingsUpdate applies only the fields that are present.
type SettingsUpdate struct {
	BlockedSites        *[]string           `json:"blockedSites,omitempty"`
	WhitelistedSites    *[]string           `json:"whitelistedSites,omitempty"`
	BlockingMode        *model.BlockingMode `json:"blockingMode,omitempty"`
	ShowTabTitleTimer   *bool               `json:"showTabTitleTimer,omitempty"`
	TempAccessLimit     *int                `json:"tempAccessLimit,omitempty"`
	Theme               *string             `json:"theme,omitempty"`
	OnboardingCompleted *bool               `json:"onboardingCompleted,omitempty"`
}

func (s *SettingsService) Get(ctx context.Context) (*Settings, *apperrors.APIError) {
	settings := Settings{}
	var err error

	if settings.BlockedSites, err = s.store.BlockedSites(ctx); err != nil {
		return nil, apperrors.Internal("failed to load settings")
	}
	if settings.WhitelistedSites, err = s.store.WhitelistedSites(ctx); err != nil {
		return nil, apperrors.Internal("failed to load settings")
	}
	if settings.BlockingMode, err = s.store.BlockingMode(ctx); err != nil {
		return nil, apperrors.Internal("failed to load settings")
	}
	if settings.ShowTabTitleTimer, err = s.store.ShowTabTitleTimer(ctx); err != nil {
		return nil, apperrors.Internal("failed to load settings")
	}
	if settings.TempAccessLimit, err = s.store.TempAccessLimit(ctx); err != nil {
		return nil, apperrors.Internal("failed to load settings")
	}
	if settings.Theme, err = s.store.Theme(ctx); err != nil {
		return nil, apperrors.Internal("failed to load settings")
	}
	if settings.OnboardingCompleted, err = s.store.OnboardingCompleted(ctx); err != nil {
		return nil, apperrors.Internal("failed to load settings")
	}
	return &settings, nil
}

func (s *SettingsService) Update(ctx context.Context, input SettingsUpdate) (*Settings, *apperrors.APIError) {
	if input.BlockingMode != nil {
		mode := *input.BlockingMode
		if mode != model.BlockingBlacklist && mode != model.BlockingWhitelist {
			return nil, apperrors.BadRequest("invalid_blocking_mode", "blockingMode must be BLACKLIST or WHITELIST")
		}
		if err := s.store.SetBlockingMode(ctx, mode); err != nil {
			return nil, apperrors.Internal("failed to persist settings")
		}
	}
	if input.BlockedSites != nil {
		if err := s.store.SetBlockedSites(ctx, *input.BlockedSites); err != nil {
			return nil, apperrors.Internal("failed to persist settings")
		}
	}
	if input.WhitelistedSites != nil {
		if err := s.store.SetWhitelistedSites(ctx, *input.WhitelistedSites); err != nil {
			return nil, apperrors.Internal("failed to persist settings")
		}
	}
	if input.ShowTabTitleTimer != nil {
		if err := s.store.SetShowTabTitleTimer(ctx, *input.ShowTabTitleTimer); err != nil {
			return nil, apperrors.Internal("failed to persist settings")
		}
	}
	if input.TempAccessLimit != nil {
		if *input.TempAccessLimit < 0 {
			return nil, apperrors.BadRequest("invalid_limit", "tempAccessLimit must not be negative")
		}
		if err := s.store.SetTempAccessLimit(ctx, *input.TempAccessLimit); err != nil {
			return nil, apperrors.Internal("failed to persist settings")
		}
	}
	if input.Theme != nil {
		if err := s.store.SetTheme(ctx, *input.Theme); err != nil {
			return nil, apperrors.Internal("failed to persist settings")
		}
	}
	if input.OnboardingCompleted != nil {
		if err := s.store.SetOnboardingCompleted(ctx, *input.OnboardingCompleted); err != nil {
			return nil, apperrors.Internal("failed to persist settings")
		}
	}
	return s.Get(ctx)
}

func (s *SettingsService) Schedule(ctx context.Context) (*model.ScheduleConfig, *apperrors.APIError) {
	config, err := s.store.ScheduleConfig(ctx)
	if err != nil {
		return nil, apperrors.Internal("failed to load schedule")
	}
	return &config, nil
}

func (s *SettingsService) UpdateSchedule(ctx context.Context, config model.ScheduleConfig) (*model.ScheduleConfig, *apperrors.APIError) {
	for _, day := range config.Days {
		if day < 0 || day > 6 {
			return nil, apperrors.BadRequest("invalid_days", "days must be weekday numbers 0-6")
		}
	}
	start, ok := schedule.ParseClock(config.StartTime)
	if !ok {
		return nil, apperrors.BadRequest("invalid_time", "startTime must be HH:MM")
	}
	end, ok := schedule.ParseClock(config.EndTime)
	if !ok {
		return nil, apperrors.BadRequest("invalid_time", "endTime must be HH:MM")
	}
	if start >= end {
		return nil, apperrors.BadRequest("invalid_window", "startTime must be before endTime")
	}

	if err := s.store.SetScheduleConfig(ctx, config); err != nil {
		return nil, apperrors.Internal("failed to persist schedule")
	}
	return &config, nil
}
