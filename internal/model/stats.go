package model

// DailyTempAccess counts temporary-unblock grants for one calendar day.
// Date is the local day in 2006-01-02 form; a mismatch with today resets
// the counter.
type DailyTempAccess struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// UserStats accumulates gamification progress. XP grows by one per
// completed focus minute; Badges only ever grows and holds unique ids.
type UserStats struct {
	TotalFocusSeconds int             `json:"totalFocusSeconds"`
	XP                int             `json:"xp"`
	Level             int             `json:"level"`
	Badges            []string        `json:"badges"`
	DailyTempAccess   DailyTempAccess `json:"dailyTempAccess"`
}

func DefaultUserStats() UserStats {
	return UserStats{
		Level:  1,
		Badges: []string{},
	}
}
