package achievements

import (
	"github.com/matchfit/backend/internal/activity"
)

// Category groups related achievements in the UI.
type Category string

const (
	CategoryConsistency Category = "Consistency"
	CategoryVolume      Category = "Volume"
	CategorySkills      Category = "Skills"
)

// Requirement is the predicate that gates an achievement. It is a sealed
// union: every variant lives in this package, and the evaluator switches
// over the concrete types exhaustively.
type Requirement interface {
	isRequirement()
}

// SkillSelector names either one specific skill or any skill. The zero
// value is not valid; construct with Skill or AnySkill.
type SkillSelector struct {
	name string
	any  bool
}

// Skill selects the named skill.
func Skill(name string) SkillSelector { return SkillSelector{name: name} }

// AnySkill selects whichever skill scores best for the metric at hand.
func AnySkill() SkillSelector { return SkillSelector{any: true} }

// Any reports whether the selector matches any skill.
func (s SkillSelector) Any() bool { return s.any }

// Name returns the selected skill name; meaningless when Any is true.
func (s SkillSelector) Name() string { return s.name }

// CategorySelector names either one exercise category or any category.
type CategorySelector struct {
	name string
	any  bool
}

// ExerciseCategory selects the named exercise category.
func ExerciseCategory(name string) CategorySelector { return CategorySelector{name: name} }

// AnyCategory selects the category with the highest occurrence count.
func AnyCategory() CategorySelector { return CategorySelector{any: true} }

// Any reports whether the selector matches any category.
func (c CategorySelector) Any() bool { return c.any }

// Name returns the selected category name; meaningless when Any is true.
func (c CategorySelector) Name() string { return c.name }

// The requirement variants. Numeric targets are always >= 1 by catalog
// construction; the progress calculator divides by them without guarding.

// SessionCount requires at least Target completed sessions.
type SessionCount struct{ Target int }

// StreakDays requires a training streak of at least Target consecutive
// days, satisfied by either the current or the longest recorded streak.
type StreakDays struct{ Target int }

// TotalMinutes requires at least Target total training minutes.
type TotalMinutes struct{ Target int }

// UniqueExercises requires at least Target distinct exercises performed.
type UniqueExercises struct{ Target int }

// CategoryCompletion requires every owned exercise in Category to have
// been performed at least once. A player with no exercises in the
// category never satisfies it.
type CategoryCompletion struct{ Category string }

// AllTemplatesCompleted is a permanently unsatisfied stub: the catalog has
// no reference list of templates to compare against yet.
type AllTemplatesCompleted struct{}

// CustomDrillsCreated requires at least Target custom or AI-generated
// drills owned by the player.
type CustomDrillsCreated struct{ Target int }

// SkillLevel requires the selected skill's latest rating (or the best
// rating, for AnySkill) to reach Threshold.
type SkillLevel struct {
	Skill     SkillSelector
	Threshold float64
}

// AllSkillsAbove requires every skill in the latest snapshot to be at or
// above Threshold. An empty snapshot never satisfies it.
type AllSkillsAbove struct{ Threshold float64 }

// SkillImprovement requires the selected skill (or any skill) to have
// improved by at least Delta between the earliest and latest snapshots.
type SkillImprovement struct {
	Skill SkillSelector
	Delta float64
}

// SkillsImprovedInWeek is a permanently unsatisfied stub: the data model
// keeps no per-week skill history to evaluate it against.
type SkillsImprovedInWeek struct{ Target int }

// ExerciseTypeCount requires at least Target session exercises in the
// selected category (or in the most-trained category, for AnyCategory).
type ExerciseTypeCount struct {
	Category CategorySelector
	Target   int
}

// MaxedSkills requires at least Target skills at the rating ceiling.
type MaxedSkills struct{ Target int }

// EarlyBirdSessions requires at least Target sessions started before 08:00.
type EarlyBirdSessions struct{ Target int }

// NightOwlSessions requires at least Target sessions started at or after 20:00.
type NightOwlSessions struct{ Target int }

// WeekendSessions requires training on at least Target distinct weekend dates.
type WeekendSessions struct{ Target int }

// MonthsActive requires sessions in at least Target distinct calendar months.
type MonthsActive struct{ Target int }

// ComebackAfterBreak requires a gap of at least Days days between two
// consecutive sessions, followed by the later one.
type ComebackAfterBreak struct{ Days int }

// MonthlySessionRecord requires at least Target sessions within one
// calendar month.
type MonthlySessionRecord struct{ Target int }

func (SessionCount) isRequirement()          {}
func (StreakDays) isRequirement()            {}
func (TotalMinutes) isRequirement()          {}
func (UniqueExercises) isRequirement()       {}
func (CategoryCompletion) isRequirement()    {}
func (AllTemplatesCompleted) isRequirement() {}
func (CustomDrillsCreated) isRequirement()   {}
func (SkillLevel) isRequirement()            {}
func (AllSkillsAbove) isRequirement()        {}
func (SkillImprovement) isRequirement()      {}
func (SkillsImprovedInWeek) isRequirement()  {}
func (ExerciseTypeCount) isRequirement()     {}
func (MaxedSkills) isRequirement()           {}
func (EarlyBirdSessions) isRequirement()     {}
func (NightOwlSessions) isRequirement()      {}
func (WeekendSessions) isRequirement()       {}
func (MonthsActive) isRequirement()          {}
func (ComebackAfterBreak) isRequirement()    {}
func (MonthlySessionRecord) isRequirement()  {}

// Definition describes a single unlockable achievement. Definitions are
// immutable reference data; ids are stable and never reused once shipped,
// because persisted unlock records key on them.
type Definition struct {
	ID          string
	Name        string
	Description string
	Icon        string
	Category    Category
	Requirement Requirement
	XPReward    int
}

// buildCatalog returns the authoritative ordered achievement catalog.
// Catalog order is the canonical evaluation and display order.
func buildCatalog() []Definition {
	return []Definition{

		// ── Consistency ────────────────────────────────────────────────────

		{
			ID: "first_training", Name: "First Steps",
			Description: "Complete your first training session",
			Icon:        "figure.walk", Category: CategoryConsistency,
			Requirement: SessionCount{Target: 1}, XPReward: 50,
		},
		{
			ID: "streak_starter", Name: "Warming Up",
			Description: "Train 3 days in a row",
			Icon:        "flame", Category: CategoryConsistency,
			Requirement: StreakDays{Target: 3}, XPReward: 75,
		},
		{
			ID: "week_streak", Name: "Full Week",
			Description: "Train 7 days in a row",
			Icon:        "flame.fill", Category: CategoryConsistency,
			Requirement: StreakDays{Target: 7}, XPReward: 150,
		},
		{
			ID: "month_streak", Name: "Iron Habit",
			Description: "Train 30 days in a row",
			Icon:        "calendar.badge.checkmark", Category: CategoryConsistency,
			Requirement: StreakDays{Target: 30}, XPReward: 500,
		},
		{
			ID: "early_bird", Name: "Early Bird",
			Description: "Start 10 sessions before 8 AM",
			Icon:        "sunrise", Category: CategoryConsistency,
			Requirement: EarlyBirdSessions{Target: 10}, XPReward: 150,
		},
		{
			ID: "night_owl", Name: "Night Owl",
			Description: "Start 10 sessions after 8 PM",
			Icon:        "moon.stars", Category: CategoryConsistency,
			Requirement: NightOwlSessions{Target: 10}, XPReward: 150,
		},
		{
			ID: "weekend_warrior", Name: "Weekend Warrior",
			Description: "Train on 10 different weekend days",
			Icon:        "sportscourt", Category: CategoryConsistency,
			Requirement: WeekendSessions{Target: 10}, XPReward: 200,
		},
		{
			ID: "comeback", Name: "The Comeback",
			Description: "Return to training after a break of a week or more",
			Icon:        "arrow.uturn.left", Category: CategoryConsistency,
			Requirement: ComebackAfterBreak{Days: 7}, XPReward: 100,
		},
		{
			ID: "half_year", Name: "Season Regular",
			Description: "Train in 6 different months",
			Icon:        "calendar", Category: CategoryConsistency,
			Requirement: MonthsActive{Target: 6}, XPReward: 400,
		},
		{
			ID: "record_month", Name: "Record Month",
			Description: "Complete 20 sessions within a single month",
			Icon:        "chart.bar.fill", Category: CategoryConsistency,
			Requirement: MonthlySessionRecord{Target: 20}, XPReward: 300,
		},

		// ── Volume ─────────────────────────────────────────────────────────

		{
			ID: "sessions_10", Name: "Regular",
			Description: "Complete 10 training sessions",
			Icon:        "10.circle", Category: CategoryVolume,
			Requirement: SessionCount{Target: 10}, XPReward: 100,
		},
		{
			ID: "sessions_50", Name: "Dedicated",
			Description: "Complete 50 training sessions",
			Icon:        "50.circle", Category: CategoryVolume,
			Requirement: SessionCount{Target: 50}, XPReward: 300,
		},
		{
			ID: "sessions_100", Name: "Centurion",
			Description: "Complete 100 training sessions",
			Icon:        "rosette", Category: CategoryVolume,
			Requirement: SessionCount{Target: 100}, XPReward: 600,
		},
		{
			ID: "minutes_500", Name: "Putting In Hours",
			Description: "Accumulate 500 minutes of training",
			Icon:        "clock", Category: CategoryVolume,
			Requirement: TotalMinutes{Target: 500}, XPReward: 150,
		},
		{
			ID: "minutes_2000", Name: "Grinder",
			Description: "Accumulate 2000 minutes of training",
			Icon:        "clock.fill", Category: CategoryVolume,
			Requirement: TotalMinutes{Target: 2000}, XPReward: 400,
		},
		{
			ID: "exercise_explorer", Name: "Explorer",
			Description: "Try 10 different exercises",
			Icon:        "map", Category: CategoryVolume,
			Requirement: UniqueExercises{Target: 10}, XPReward: 100,
		},
		{
			ID: "exercise_collector", Name: "Collector",
			Description: "Try 25 different exercises",
			Icon:        "square.grid.3x3", Category: CategoryVolume,
			Requirement: UniqueExercises{Target: 25}, XPReward: 250,
		},
		{
			ID: "specialist", Name: "Specialist",
			Description: "Perform 20 exercises of the same type",
			Icon:        "target", Category: CategoryVolume,
			Requirement: ExerciseTypeCount{Category: AnyCategory(), Target: 20}, XPReward: 200,
		},
		{
			ID: "drill_author", Name: "Drill Author",
			Description: "Create your first custom drill",
			Icon:        "pencil.and.outline", Category: CategoryVolume,
			Requirement: CustomDrillsCreated{Target: 1}, XPReward: 100,
		},
		{
			ID: "drill_architect", Name: "Drill Architect",
			Description: "Create 5 custom drills",
			Icon:        "hammer", Category: CategoryVolume,
			Requirement: CustomDrillsCreated{Target: 5}, XPReward: 250,
		},

		// ── Skills ─────────────────────────────────────────────────────────

		{
			ID: "rising_star", Name: "Rising Star",
			Description: "Reach 80 in any skill",
			Icon:        "star", Category: CategorySkills,
			Requirement: SkillLevel{Skill: AnySkill(), Threshold: 80}, XPReward: 200,
		},
		{
			ID: "technician", Name: "Technician",
			Description: "Reach 90 in Technical",
			Icon:        "gearshape", Category: CategorySkills,
			Requirement: SkillLevel{Skill: Skill(activity.CategoryTechnical), Threshold: 90}, XPReward: 300,
		},
		{
			ID: "complete_player", Name: "Complete Player",
			Description: "Reach 70 in every skill",
			Icon:        "person.fill.checkmark", Category: CategorySkills,
			Requirement: AllSkillsAbove{Threshold: 70}, XPReward: 400,
		},
		{
			ID: "maxed_skill", Name: "Perfection",
			Description: "Max out a skill",
			Icon:        "100.circle.fill", Category: CategorySkills,
			Requirement: MaxedSkills{Target: 1}, XPReward: 500,
		},
		{
			ID: "triple_maxed", Name: "Triple Crown",
			Description: "Max out 3 skills",
			Icon:        "crown.fill", Category: CategorySkills,
			Requirement: MaxedSkills{Target: 3}, XPReward: 1000,
		},
		{
			ID: "improver", Name: "On the Rise",
			Description: "Improve any skill by 10 points",
			Icon:        "arrow.up.right", Category: CategorySkills,
			Requirement: SkillImprovement{Skill: AnySkill(), Delta: 10}, XPReward: 150,
		},
		{
			ID: "transformed", Name: "Transformed",
			Description: "Improve any skill by 25 points",
			Icon:        "arrow.up.right.circle.fill", Category: CategorySkills,
			Requirement: SkillImprovement{Skill: AnySkill(), Delta: 25}, XPReward: 400,
		},
		{
			ID: "weekly_sprint", Name: "Weekly Sprint",
			Description: "Improve 3 skills within one week",
			Icon:        "bolt", Category: CategorySkills,
			Requirement: SkillsImprovedInWeek{Target: 3}, XPReward: 200,
		},
		{
			ID: "technical_complete", Name: "Technical Curriculum",
			Description: "Perform every Technical exercise at least once",
			Icon:        "checklist", Category: CategorySkills,
			Requirement: CategoryCompletion{Category: activity.CategoryTechnical}, XPReward: 250,
		},
		{
			ID: "template_master", Name: "Template Master",
			Description: "Complete every training template",
			Icon:        "doc.on.doc", Category: CategorySkills,
			Requirement: AllTemplatesCompleted{}, XPReward: 500,
		},
	}
}
