package achievements

import (
	"fmt"

	"github.com/matchfit/backend/internal/activity"
)

// Satisfied reports whether req holds for the player's activity history.
// It never errors: data absence resolves to each metric's zero value. An
// unhandled requirement variant is a programming error and panics rather
// than silently evaluating false.
func Satisfied(req Requirement, player *activity.Player, snap *activity.Snapshot) bool {
	switch r := req.(type) {
	case SessionCount:
		return sessionCount(snap) >= r.Target
	case StreakDays:
		return streakDays(player) >= r.Target
	case TotalMinutes:
		return totalTrainingMinutes(snap) >= r.Target
	case UniqueExercises:
		return uniqueExerciseCount(snap) >= r.Target
	case CategoryCompletion:
		return categoryCompleted(snap, r.Category)
	case AllTemplatesCompleted:
		return allTemplatesCompleted(snap)
	case CustomDrillsCreated:
		return customDrillCount(snap) >= r.Target
	case SkillLevel:
		return skillLevel(snap, r.Skill) >= r.Threshold
	case AllSkillsAbove:
		return allSkillsAbove(snap, r.Threshold)
	case SkillImprovement:
		return skillImproved(snap, r.Skill, r.Delta)
	case SkillsImprovedInWeek:
		return skillsImprovedThisWeek(snap) >= r.Target
	case ExerciseTypeCount:
		return exerciseTypeCount(snap, r.Category) >= r.Target
	case MaxedSkills:
		return maxedSkillsCount(snap) >= r.Target
	case EarlyBirdSessions:
		return earlyBirdCount(snap) >= r.Target
	case NightOwlSessions:
		return nightOwlCount(snap) >= r.Target
	case WeekendSessions:
		return weekendDateCount(snap) >= r.Target
	case MonthsActive:
		return activeMonthsCount(snap) >= r.Target
	case ComebackAfterBreak:
		return returnedAfterBreak(snap, r.Days)
	case MonthlySessionRecord:
		return maxMonthlySessionCount(snap) >= r.Target
	}
	panic(fmt.Sprintf("achievements: unhandled requirement variant %T", req))
}
