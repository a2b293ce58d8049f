package achievements

import (
	"github.com/matchfit/backend/internal/activity"
)

// ProgressValue returns the player's completion fraction toward def in
// [0.0, 1.0]. Requirement kinds with a numeric target report
// min(1, current/target); catalog targets are >= 1 by construction, so
// the division is not guarded. All other kinds have no meaningful
// partial metric and report 1.0 when unlocked, otherwise 0.0.
func ProgressValue(def Definition, player *activity.Player, snap *activity.Snapshot) float64 {
	current, target, numeric := numericProgress(def.Requirement, player, snap)
	if !numeric {
		if player.IsUnlocked(def.ID) {
			return 1.0
		}
		return 0.0
	}
	return min(1.0, float64(current)/float64(target))
}

// numericProgress returns (current, target) for the partially-completable
// requirement kinds, or numeric=false for the boolean-natured ones.
func numericProgress(req Requirement, player *activity.Player, snap *activity.Snapshot) (current, target int, numeric bool) {
	switch r := req.(type) {
	case SessionCount:
		return sessionCount(snap), r.Target, true
	case StreakDays:
		return streakDays(player), r.Target, true
	case TotalMinutes:
		return totalTrainingMinutes(snap), r.Target, true
	case UniqueExercises:
		return uniqueExerciseCount(snap), r.Target, true
	case CustomDrillsCreated:
		return customDrillCount(snap), r.Target, true
	case EarlyBirdSessions:
		return earlyBirdCount(snap), r.Target, true
	case NightOwlSessions:
		return nightOwlCount(snap), r.Target, true
	case WeekendSessions:
		return weekendDateCount(snap), r.Target, true
	case MonthsActive:
		return activeMonthsCount(snap), r.Target, true
	case MonthlySessionRecord:
		return maxMonthlySessionCount(snap), r.Target, true
	}
	return 0, 0, false
}
