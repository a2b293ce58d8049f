package storage

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/matchfit/backend/internal/activity"
)

// ErrPlayerNotFound is returned when a player id has no record.
var ErrPlayerNotFound = errors.New("player not found")

// DB wraps the GORM connection and implements the activity store, the XP
// awarder, and the unlock persister consumed by the achievement engine.
type DB struct {
	gorm *gorm.DB
}

// Open connects to Postgres, configures the pool, and migrates the schema.
func Open(dsn string) (*DB, error) {
	g, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}

	sqlDB, err := g.DB()
	if err != nil {
		return nil, fmt.Errorf("getting sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := g.AutoMigrate(
		&activity.Player{},
		&activity.PlayerAchievement{},
		&activity.Session{},
		&activity.SessionExercise{},
		&activity.Exercise{},
		&activity.SkillSnapshot{},
	); err != nil {
		return nil, fmt.Errorf("migrating schema: %w", err)
	}

	return &DB{gorm: g}, nil
}

// Close releases the underlying connection pool.
func (d *DB) Close() error {
	sqlDB, err := d.gorm.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// ── activity.Store ─────────────────────────────────────────────────────

// SessionsOf returns the player's sessions with exercise links, oldest
// first. The secondary id ordering keeps same-timestamp rows stable.
func (d *DB) SessionsOf(playerID string) ([]activity.Session, error) {
	var sessions []activity.Session
	err := d.gorm.
		Preload("Exercises").
		Where("player_id = ?", playerID).
		Order("started_at ASC, id ASC").
		Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("loading sessions: %w", err)
	}
	return sessions, nil
}

// ExercisesOf returns the player's owned exercises in creation order.
func (d *DB) ExercisesOf(playerID string) ([]activity.Exercise, error) {
	var exercises []activity.Exercise
	err := d.gorm.
		Where("player_id = ?", playerID).
		Order("id ASC").
		Find(&exercises).Error
	if err != nil {
		return nil, fmt.Errorf("loading exercises: %w", err)
	}
	return exercises, nil
}

// SkillSnapshotsOf returns the player's skill snapshots in creation
// order. The achievement metrics rely on this ordering to break ties
// between snapshots sharing a timestamp.
func (d *DB) SkillSnapshotsOf(playerID string) ([]activity.SkillSnapshot, error) {
	var snapshots []activity.SkillSnapshot
	err := d.gorm.
		Where("player_id = ?", playerID).
		Order("id ASC").
		Find(&snapshots).Error
	if err != nil {
		return nil, fmt.Errorf("loading skill snapshots: %w", err)
	}
	return snapshots, nil
}

// ── Players ────────────────────────────────────────────────────────────

// Player loads a player record together with its unlocked achievement set.
func (d *DB) Player(id string) (*activity.Player, error) {
	var p activity.Player
	if err := d.gorm.Where("id = ?", id).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, id)
		}
		return nil, fmt.Errorf("loading player: %w", err)
	}

	var unlocks []activity.PlayerAchievement
	if err := d.gorm.Where("player_id = ?", id).Find(&unlocks).Error; err != nil {
		return nil, fmt.Errorf("loading unlocks: %w", err)
	}
	p.Unlocked = make(map[string]time.Time, len(unlocks))
	for _, u := range unlocks {
		p.Unlocked[u.AchievementID] = u.UnlockedAt
	}
	return &p, nil
}

// CreatePlayer inserts a new player with an empty achievement state.
func (d *DB) CreatePlayer(displayName string) (*activity.Player, error) {
	p := &activity.Player{
		ID:          uuid.NewString(),
		DisplayName: displayName,
		Unlocked:    make(map[string]time.Time),
	}
	if err := d.gorm.Create(p).Error; err != nil {
		return nil, fmt.Errorf("creating player: %w", err)
	}
	return p, nil
}

// SavePlayer writes back the mutable player fields maintained by the
// training workflow (streaks, last training date).
func (d *DB) SavePlayer(p *activity.Player) error {
	err := d.gorm.Model(&activity.Player{}).Where("id = ?", p.ID).Updates(map[string]interface{}{
		"current_streak":     p.CurrentStreak,
		"longest_streak":     p.LongestStreak,
		"last_training_date": p.LastTrainingDate,
	}).Error
	if err != nil {
		return fmt.Errorf("saving player: %w", err)
	}
	return nil
}

// RecordSession inserts a completed session with its exercise links.
// Missing ids are assigned.
func (d *DB) RecordSession(s *activity.Session) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	for i := range s.Exercises {
		s.Exercises[i].SessionID = s.ID
	}
	if err := d.gorm.Create(s).Error; err != nil {
		return fmt.Errorf("recording session: %w", err)
	}
	return nil
}

// CreateExercise inserts a player-owned exercise.
func (d *DB) CreateExercise(ex *activity.Exercise) error {
	if ex.ID == "" {
		ex.ID = uuid.NewString()
	}
	if err := d.gorm.Create(ex).Error; err != nil {
		return fmt.Errorf("creating exercise: %w", err)
	}
	return nil
}

// AddSkillSnapshot appends a timestamped skill rating record.
func (d *DB) AddSkillSnapshot(ss *activity.SkillSnapshot) error {
	if err := d.gorm.Create(ss).Error; err != nil {
		return fmt.Errorf("adding skill snapshot: %w", err)
	}
	return nil
}

// ── achievements.XPAwarder ─────────────────────────────────────────────

// Award credits amount XP atomically in the database and mirrors the new
// total on the in-memory player.
func (d *DB) Award(p *activity.Player, amount int) error {
	err := d.gorm.Model(&activity.Player{}).
		Where("id = ?", p.ID).
		Update("total_xp", gorm.Expr("total_xp + ?", amount)).Error
	if err != nil {
		return fmt.Errorf("awarding xp: %w", err)
	}
	p.TotalXP += amount
	return nil
}

// ── achievements.Persister ─────────────────────────────────────────────

// SaveUnlocks commits the player's unlocked set in one transaction.
// Existing rows are left untouched; unlock records are insert-only.
func (d *DB) SaveUnlocks(p *activity.Player) error {
	rows := make([]activity.PlayerAchievement, 0, len(p.Unlocked))
	for id, at := range p.Unlocked {
		rows = append(rows, activity.PlayerAchievement{
			PlayerID:      p.ID,
			AchievementID: id,
			UnlockedAt:    at,
		})
	}
	if len(rows) == 0 {
		return nil
	}
	err := d.gorm.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "player_id"}, {Name: "achievement_id"}},
		DoNothing: true,
	}).Create(&rows).Error
	if err != nil {
		return fmt.Errorf("saving unlocks: %w", err)
	}
	return nil
}
