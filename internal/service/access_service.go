package service

import (
	"context"
	"strings"
	"time"

	apperrors "monotaskr/coordinator/internal/errors"
	"monotaskr/coordinator/internal/model"
	"monotaskr/coordinator/internal/store"
)

// overrideGrace is how long a granted temporary unblock lasts.
const overrideGrace = time.Minute

// AccessService owns the temporary-unblock ledger and answers blocking
// queries from content scripts.
type AccessService struct {
	store *store.Store
	now   func() time.Time
}

func NewAccessService(st *store.Store) *AccessService {
	return &AccessService{store: st, now: time.Now}
}

// TempAccessResult is the outcome of a temp-access request. Hitting the
// daily cap is a normal negative result, not an error.
type TempAccessResult struct {
	Authorized bool `json:"authorized"`
	FinalCount int  `json:"finalCount"`
}

// RequestTempAccess grants a rate-limited one-minute unblock for domain.
// The daily counter resets on the first request of a new local day, and
// expired ledger entries are pruned on every write.
func (s *AccessService) RequestTempAccess(ctx context.Context, domain string) (*TempAccessResult, *apperrors.APIError) {
	domain = strings.ToLower(strings.TrimSpace(domain))
	if domain == "" {
		return nil, apperrors.BadRequest("invalid_domain", "domain is required")
	}

	now := s.now()
	stats, err := s.store.UserStats(ctx)
	if err != nil {
		return nil, apperrors.Internal("failed to load stats")
	}

	today := now.Format("2006-01-02")
	if stats.DailyTempAccess.Date != today {
		stats.DailyTempAccess = model.DailyTempAccess{Date: today}
	}

	limit, err := s.store.TempAccessLimit(ctx)
	if err != nil {
		return nil, apperrors.Internal("failed to load temp access limit")
	}

	if stats.DailyTempAccess.Count >= limit {
		return &TempAccessResult{Authorized: false, FinalCount: stats.DailyTempAccess.Count}, nil
	}

	stats.DailyTempAccess.Count++
	if err := s.store.SetUserStats(ctx, stats); err != nil {
		return nil, apperrors.Internal("failed to persist stats")
	}

	overrides, err := s.store.TempOverrides(ctx)
	if err != nil {
		return nil, apperrors.Internal("failed to load overrides")
	}
	overrides[domain] = now.Add(overrideGrace)
	for key, expiry := range overrides {
		if expiry.Before(now) {
			delete(overrides, key)
		}
	}
	if err := s.store.SetTempOverrides(ctx, overrides); err != nil {
		return nil, apperrors.Internal("failed to persist overrides")
	}

	return &TempAccessResult{Authorized: true, FinalCount: stats.DailyTempAccess.Count}, nil
}

// ShouldBlock reports whether a page on the given hostname should be
// blocked right now: the timer must be focusing (RUNNING) or inside a
// scheduled window, the hostname must match the active site list for the
// configured mode, and no unexpired override may exist.
func (s *AccessService) ShouldBlock(ctx context.Context, hostname string) (bool, *apperrors.APIError) {
	hostname = strings.ToLower(strings.TrimSpace(hostname))
	if hostname == "" {
		return false, apperrors.BadRequest("invalid_domain", "domain is required")
	}

	state, err := s.store.TimerState(ctx)
	if err != nil {
		return false, apperrors.Internal("failed to load timer state")
	}
	if state.Status != model.StatusRunning && state.Status != model.StatusScheduled {
		return false, nil
	}

	mode, err := s.store.BlockingMode(ctx)
	if err != nil {
		return false, apperrors.Internal("failed to load blocking mode")
	}

	var blocked bool
	if mode == model.BlockingWhitelist {
		sites, err := s.store.WhitelistedSites(ctx)
		if err != nil {
			return false, apperrors.Internal("failed to load site list")
		}
		blocked = !matchesAny(hostname, sites)
	} else {
		sites, err := s.store.BlockedSites(ctx)
		if err != nil {
			return false, apperrors.Internal("failed to load site list")
		}
		blocked = matchesAny(hostname, sites)
	}
	if !blocked {
		return false, nil
	}

	overrides, err := s.store.TempOverrides(ctx)
	if err != nil {
		return false, apperrors.Internal("failed to load overrides")
	}
	if expiry, ok := overrides[hostname]; ok && expiry.After(s.now()) {
		return false, nil
	}
	return true, nil
}

func matchesAny(hostname string, sites []string) bool {
	for _, site := range sites {
		if site != "" && strings.Contains(hostname, site) {
			return true
		}
	}
	return false
}
