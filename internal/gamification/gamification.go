// Package gamification computes level, progress and badge unlocks from
// accumulated focus time. All functions are pure; callers persist.
package gamification

import "monotaskr/coordinator/internal/model"

// XPPerLevel is the fixed band size: one level per hour of focus.
const XPPerLevel = 60

// CalculateLevel maps XP to a level. Negative XP clamps to level 1.
func CalculateLevel(xp int) int {
	if xp < 0 {
		return 1
	}
	return xp/XPPerLevel + 1
}

// XPForNextLevel returns the total XP at which the given level ends.
func XPForNextLevel(level int) int {
	return level * XPPerLevel
}

// Progress returns the floored percentage (0-100) of XP earned within the
// current level's band.
func Progress(xp, level int) int {
	earned := xp - (level-1)*XPPerLevel
	pct := earned * 100 / XPPerLevel
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// Badge is a declarative unlock definition evaluated against UserStats.
type Badge struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`

	Condition func(model.UserStats) bool `json:"-"`
}

// Badges is evaluated in definition order by CheckBadges.
var Badges = []Badge{
	{
		ID:          "FIRST_STEP",
		Name:        "First Step",
		Description: "Complete your first minute of focus",
		Icon:        "🌱",
		Condition:   func(stats model.UserStats) bool { return stats.XP >= 1 },
	},
	{
		ID:          "FOCUS_NOVICE",
		Name:        "Focus Novice",
		Description: "Reach Level 2",
		Icon:        "🧘",
		Condition:   func(stats model.UserStats) bool { return stats.Level >= 2 },
	},
	{
		ID:          "FOCUS_MASTER",
		Name:        "Focus Master",
		Description: "Reach Level 10",
		Icon:        "🥋",
		Condition:   func(stats model.UserStats) bool { return stats.Level >= 10 },
	},
}

// CheckBadges returns the badges whose condition holds and whose id is not
// already present in stats.Badges. It never mutates stats; the caller
// appends the returned ids and persists.
func CheckBadges(stats model.UserStats) []Badge {
	owned := make(map[string]struct{}, len(stats.Badges))
	for _, id := range stats.Badges {
		owned[id] = struct{}{}
	}

	var unlocked []Badge
	for _, badge := range Badges {
		if _, ok := owned[badge.ID]; ok {
			continue
		}
		if badge.Condition(stats) {
			unlocked = append(unlocked, badge)
		}
	}
	return unlocked
}
