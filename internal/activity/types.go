package activity

import (
	"time"
)

// Skill rating scale. Ratings run 0–100; a skill at RatingMax counts as maxed.
const RatingMax = 100.0

// Exercise categories. Sessions reference exercises, and several
// achievement metrics bucket by the category of the linked exercise.
const (
	CategoryTechnical = "Technical"
	CategoryPhysical  = "Physical"
	CategoryTactical  = "Tactical"
	CategoryMental    = "Mental"

	// CategoryUnknown is the histogram bucket for session exercises whose
	// exercise record is missing or carries no category.
	CategoryUnknown = "Unknown"
)

// Player is the persisted player record. The achievement engine reads the
// precomputed streak fields and mutates Unlocked and TotalXP; everything
// else is owned by other parts of the system.
type Player struct {
	ID          string `gorm:"primaryKey" json:"id"`
	DisplayName string `json:"display_name"`

	// Streaks are maintained by the session-completion workflow, not
	// recomputed by the achievement engine.
	CurrentStreak    int        `gorm:"default:0" json:"current_streak"`
	LongestStreak    int        `gorm:"default:0" json:"longest_streak"`
	LastTrainingDate *time.Time `json:"last_training_date,omitempty"`

	TotalXP int `gorm:"default:0" json:"total_xp"`

	// Unlocked maps achievement id to unlock time. Loaded from the
	// player_achievements rows; membership is the only semantic the
	// engine relies on, the timestamp is display metadata.
	Unlocked map[string]time.Time `gorm:"-" json:"unlocked,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsUnlocked reports whether the player has already unlocked the given
// achievement id. Unknown ids are simply not present.
func (p *Player) IsUnlocked(id string) bool {
	_, ok := p.Unlocked[id]
	return ok
}

// PlayerAchievement is one unlock record. Rows are only ever inserted;
// achievements do not un-unlock.
type PlayerAchievement struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	PlayerID      string    `gorm:"not null;index;uniqueIndex:idx_player_achievement" json:"player_id"`
	AchievementID string    `gorm:"not null;uniqueIndex:idx_player_achievement" json:"achievement_id"`
	UnlockedAt    time.Time `json:"unlocked_at"`
}

// Session is one completed training session.
type Session struct {
	ID              string            `gorm:"primaryKey" json:"id"`
	PlayerID        string            `gorm:"not null;index" json:"player_id"`
	StartedAt       time.Time         `gorm:"not null" json:"started_at"`
	DurationMinutes float64           `json:"duration_minutes"`
	Intensity       string            `json:"intensity"`
	Exercises       []SessionExercise `gorm:"foreignKey:SessionID" json:"exercises,omitempty"`
}

// SessionExercise links a session to an exercise that was performed in it.
type SessionExercise struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	SessionID  string `gorm:"not null;index" json:"session_id"`
	ExerciseID string `gorm:"not null;index" json:"exercise_id"`
	Rating     int    `json:"rating,omitempty"`
}

// Exercise is a drill owned by a player. Custom and AI-generated drills are
// recognised by a marker substring in the description; see the
// customDrillCount metric for the caveats.
type Exercise struct {
	ID          string `gorm:"primaryKey" json:"id"`
	PlayerID    string `gorm:"not null;index" json:"player_id"`
	Name        string `json:"name"`
	Category    string `gorm:"index" json:"category"`
	Description string `json:"description"`
}

// SkillSnapshot is a timestamped record of a player's per-skill ratings.
// Snapshots are compared only by taking the earliest and the latest by
// TakenAt; there is no interpolation between them.
type SkillSnapshot struct {
	ID       uint               `gorm:"primaryKey" json:"id"`
	PlayerID string             `gorm:"not null;index" json:"player_id"`
	TakenAt  time.Time          `gorm:"not null" json:"taken_at"`
	Ratings  map[string]float64 `gorm:"serializer:json" json:"ratings"`
}
