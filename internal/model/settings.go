package model

type BlockingMode string

const (
	BlockingBlacklist BlockingMode = "BLACKLIST"
	BlockingWhitelist BlockingMode = "WHITELIST"
)

// ScheduleConfig describes a recurring weekly blocking window evaluated
// against wall-clock local time. Days uses time.Weekday numbering
// (0 = Sunday). StartTime and EndTime are "HH:MM" and must fall within the
// same day.
type ScheduleConfig struct {
	Enabled   bool   `json:"enabled"`
	Days      []int  `json:"days"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

func DefaultScheduleConfig() ScheduleConfig {
	return ScheduleConfig{
		Enabled:   false,
		Days:      []int{1, 2, 3, 4, 5},
		StartTime: "09:00",
		EndTime:   "17:00",
	}
}

const DefaultTempAccessLimit = 3

var DefaultBlockedDomains = []string{
	"youtube.com",
	"www.youtube.com",
	"facebook.com",
	"www.facebook.com",
	"twitter.com",
	"www.twitter.com",
	"x.com",
	"www.x.com",
	"instagram.com",
	"www.instagram.com",
	"reddit.com",
	"www.reddit.com",
	"netflix.com",
	"www.netflix.com",
}
