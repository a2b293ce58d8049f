package achievements

import (
	"sort"
	"strings"
	"time"

	"github.com/matchfit/backend/internal/activity"
)

// Metric aggregators. Each is a pure function over a Snapshot: no side
// effects, no I/O, and no error paths — absence of data always yields the
// metric's defined zero, false, or empty value.

// customDrillMarkers identify player-created drills by description text.
// This is a heuristic tag rather than a dedicated flag on the exercise
// record; the match is case-sensitive and can mislabel exercises whose
// descriptions happen to contain a marker.
var customDrillMarkers = []string{"AI-Generated", "Custom"}

func sessionCount(snap *activity.Snapshot) int {
	return len(snap.Sessions)
}

// totalTrainingMinutes sums session durations and truncates once at the
// end, not per session.
func totalTrainingMinutes(snap *activity.Snapshot) int {
	var sum float64
	for _, s := range snap.Sessions {
		sum += s.DurationMinutes
	}
	return int(sum)
}

// uniqueExerciseCount counts distinct exercise ids referenced by any
// session exercise. A set union, not a sum.
func uniqueExerciseCount(snap *activity.Snapshot) int {
	seen := make(map[string]bool)
	for _, s := range snap.Sessions {
		for _, link := range s.Exercises {
			seen[link.ExerciseID] = true
		}
	}
	return len(seen)
}

// categoryCompleted reports whether the player owns at least one exercise
// in the category and has performed every one of them at least once. An
// empty exercise set is false, not vacuously true.
func categoryCompleted(snap *activity.Snapshot, category string) bool {
	performed := make(map[string]bool)
	for _, s := range snap.Sessions {
		for _, link := range s.Exercises {
			performed[link.ExerciseID] = true
		}
	}

	found := false
	for _, ex := range snap.Exercises {
		if ex.Category != category {
			continue
		}
		found = true
		if !performed[ex.ID] {
			return false
		}
	}
	return found
}

func customDrillCount(snap *activity.Snapshot) int {
	count := 0
	for _, ex := range snap.Exercises {
		for _, marker := range customDrillMarkers {
			if strings.Contains(ex.Description, marker) {
				count++
				break
			}
		}
	}
	return count
}

// latestSkillRatings returns the ratings of the snapshot with the maximum
// TakenAt. Among equal timestamps the later entry in creation order wins.
// Returns a nil map when no snapshots exist.
func latestSkillRatings(snap *activity.Snapshot) map[string]float64 {
	var best *activity.SkillSnapshot
	for i := range snap.SkillSnapshots {
		ss := &snap.SkillSnapshots[i]
		if best == nil || !ss.TakenAt.Before(best.TakenAt) {
			best = ss
		}
	}
	if best == nil {
		return nil
	}
	return best.Ratings
}

// earliestSkillRatings mirrors latestSkillRatings for the minimum TakenAt.
// Among equal timestamps the earlier entry in creation order wins.
func earliestSkillRatings(snap *activity.Snapshot) map[string]float64 {
	var best *activity.SkillSnapshot
	for i := range snap.SkillSnapshots {
		ss := &snap.SkillSnapshots[i]
		if best == nil || ss.TakenAt.Before(best.TakenAt) {
			best = ss
		}
	}
	if best == nil {
		return nil
	}
	return best.Ratings
}

// skillLevel returns the latest rating of the selected skill, the maximum
// rating for AnySkill, or 0 when absent.
func skillLevel(snap *activity.Snapshot, sel SkillSelector) float64 {
	ratings := latestSkillRatings(snap)
	if sel.Any() {
		best := 0.0
		for _, v := range ratings {
			if v > best {
				best = v
			}
		}
		return best
	}
	return ratings[sel.Name()]
}

// allSkillsAbove is true iff the latest ratings are non-empty and every
// value is at or above threshold.
func allSkillsAbove(snap *activity.Snapshot, threshold float64) bool {
	ratings := latestSkillRatings(snap)
	if len(ratings) == 0 {
		return false
	}
	for _, v := range ratings {
		if v < threshold {
			return false
		}
	}
	return true
}

func maxedSkillsCount(snap *activity.Snapshot) int {
	count := 0
	for _, v := range latestSkillRatings(snap) {
		if v >= activity.RatingMax {
			count++
		}
	}
	return count
}

// skillImproved compares the earliest snapshot against the latest. For a
// named skill the skill must be present in both; for AnySkill any skill
// present in both qualifies. Skills with no baseline in the earliest
// snapshot are ignored. Fewer than two snapshots is always false.
func skillImproved(snap *activity.Snapshot, sel SkillSelector, delta float64) bool {
	if len(snap.SkillSnapshots) < 2 {
		return false
	}
	earliest := earliestSkillRatings(snap)
	latest := latestSkillRatings(snap)

	if !sel.Any() {
		before, okBefore := earliest[sel.Name()]
		after, okAfter := latest[sel.Name()]
		return okBefore && okAfter && after-before >= delta
	}
	for name, before := range earliest {
		if after, ok := latest[name]; ok && after-before >= delta {
			return true
		}
	}
	return false
}

// skillsImprovedThisWeek always returns 0: the data model keeps no
// per-week skill history. Documented limitation, not a bug to fix here.
func skillsImprovedThisWeek(snap *activity.Snapshot) int {
	_ = snap
	return 0
}

// allTemplatesCompleted always returns false: there is no reference list
// of templates to compare against. Documented limitation.
func allTemplatesCompleted(snap *activity.Snapshot) bool {
	_ = snap
	return false
}

// exerciseTypeCount builds a histogram of exercise-category occurrences
// across all session exercises, taking the category from the linked
// exercise and falling back to the Unknown bucket. For AnyCategory it
// returns the maximum bucket; otherwise the selected category's bucket.
func exerciseTypeCount(snap *activity.Snapshot, sel CategorySelector) int {
	index := snap.ExercisesByID()
	histogram := make(map[string]int)
	for _, s := range snap.Sessions {
		for _, link := range s.Exercises {
			category := activity.CategoryUnknown
			if ex, ok := index[link.ExerciseID]; ok && ex.Category != "" {
				category = ex.Category
			}
			histogram[category]++
		}
	}
	if sel.Any() {
		best := 0
		for _, n := range histogram {
			if n > best {
				best = n
			}
		}
		return best
	}
	return histogram[sel.Name()]
}

func earlyBirdCount(snap *activity.Snapshot) int {
	count := 0
	for _, s := range snap.Sessions {
		if s.StartedAt.Hour() < 8 {
			count++
		}
	}
	return count
}

func nightOwlCount(snap *activity.Snapshot) int {
	count := 0
	for _, s := range snap.Sessions {
		if s.StartedAt.Hour() >= 20 {
			count++
		}
	}
	return count
}

// weekendDateCount counts distinct calendar dates falling on Saturday or
// Sunday. Two sessions on the same Saturday count once.
func weekendDateCount(snap *activity.Snapshot) int {
	days := make(map[time.Time]bool)
	for _, s := range snap.Sessions {
		wd := s.StartedAt.Weekday()
		if wd != time.Saturday && wd != time.Sunday {
			continue
		}
		days[dayOf(s.StartedAt)] = true
	}
	return len(days)
}

func activeMonthsCount(snap *activity.Snapshot) int {
	months := make(map[monthKey]bool)
	for _, s := range snap.Sessions {
		months[monthOf(s.StartedAt)] = true
	}
	return len(months)
}

// returnedAfterBreak reports whether any two consecutive sessions (by
// ascending date) are at least minDays calendar days apart. Fewer than
// two sessions is always false.
func returnedAfterBreak(snap *activity.Snapshot, minDays int) bool {
	if len(snap.Sessions) < 2 {
		return false
	}
	days := make([]time.Time, 0, len(snap.Sessions))
	for _, s := range snap.Sessions {
		days = append(days, dayOf(s.StartedAt))
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	for i := 1; i < len(days); i++ {
		gap := int(days[i].Sub(days[i-1]).Hours() / 24)
		if gap >= minDays {
			return true
		}
	}
	return false
}

func maxMonthlySessionCount(snap *activity.Snapshot) int {
	histogram := make(map[monthKey]int)
	for _, s := range snap.Sessions {
		histogram[monthOf(s.StartedAt)]++
	}
	best := 0
	for _, n := range histogram {
		if n > best {
			best = n
		}
	}
	return best
}

// streakDays reads the precomputed streak fields maintained by the
// session-completion workflow rather than recomputing from session dates.
func streakDays(player *activity.Player) int {
	return max(player.CurrentStreak, player.LongestStreak)
}

type monthKey struct {
	year  int
	month time.Month
}

func monthOf(t time.Time) monthKey {
	return monthKey{year: t.Year(), month: t.Month()}
}

// dayOf truncates t to its calendar date in UTC, preserving the local
// year/month/day the session was recorded with.
func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
