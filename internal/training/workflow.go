package training

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/matchfit/backend/internal/achievements"
	"github.com/matchfit/backend/internal/activity"
)

// Store is everything the workflow needs from persistence: the activity
// reads consumed by the achievement engine plus the player and session
// writes the workflow itself performs.
type Store interface {
	activity.Store
	Player(id string) (*activity.Player, error)
	SavePlayer(p *activity.Player) error
	RecordSession(s *activity.Session) error
}

// UnlockCallback is invoked once per newly unlocked achievement, outside
// the per-player lock.
type UnlockCallback func(playerID string, def achievements.Definition)

// Workflow orchestrates session completion: it records the session,
// maintains the precomputed streak fields, runs the achievement engine,
// and notifies listeners of new unlocks.
//
// Evaluation is serialized per player with a keyed lock — the engine's
// read-then-write on the unlocked set must not interleave for the same
// player. Different players proceed in parallel.
type Workflow struct {
	store  Store
	engine *achievements.Engine

	onUnlock UnlockCallback

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewWorkflow creates a workflow over the given store and engine.
func NewWorkflow(store Store, engine *achievements.Engine) *Workflow {
	return &Workflow{
		store:  store,
		engine: engine,
		locks:  make(map[string]*sync.Mutex),
	}
}

// OnUnlock registers the unlock callback. Must be called before the first
// CompleteSession.
func (w *Workflow) OnUnlock(cb UnlockCallback) {
	w.onUnlock = cb
}

// Result is the outcome of one completed session.
type Result struct {
	Session       *activity.Session         `json:"session"`
	NewlyUnlocked []achievements.Definition `json:"newly_unlocked"`
	TotalXP       int                       `json:"total_xp"`
	CurrentStreak int                       `json:"current_streak"`
}

// CompleteSession records a finished training session for the player and
// evaluates achievements. An achievement evaluation failure does not fail
// the session: it is logged and the result reports no new unlocks, so the
// next completion re-evaluates.
func (w *Workflow) CompleteSession(playerID string, session *activity.Session) (*Result, error) {
	lock := w.playerLock(playerID)
	lock.Lock()
	defer lock.Unlock()

	player, err := w.store.Player(playerID)
	if err != nil {
		return nil, err
	}

	session.PlayerID = playerID
	if session.StartedAt.IsZero() {
		session.StartedAt = time.Now().UTC()
	}
	if err := w.store.RecordSession(session); err != nil {
		return nil, fmt.Errorf("recording session for player %s: %w", playerID, err)
	}

	updateStreak(player, session.StartedAt)
	if err := w.store.SavePlayer(player); err != nil {
		return nil, fmt.Errorf("updating streak for player %s: %w", playerID, err)
	}

	newly, err := w.engine.CheckAndUnlock(player)
	if err != nil {
		// The session itself is committed; surface the evaluation failure
		// in the log and report nothing unlocked this time.
		log.Printf("achievement evaluation failed for player %s: %v", playerID, err)
		newly = nil
	}

	result := &Result{
		Session:       session,
		NewlyUnlocked: newly,
		TotalXP:       player.TotalXP,
		CurrentStreak: player.CurrentStreak,
	}

	if w.onUnlock != nil {
		for _, def := range newly {
			w.onUnlock(playerID, def)
		}
	}
	return result, nil
}

// AchievementStatus is the display-ready state of one catalog entry for a
// player.
type AchievementStatus struct {
	ID          string                  `json:"id"`
	Name        string                  `json:"name"`
	Description string                  `json:"description"`
	Icon        string                  `json:"icon"`
	Category    achievements.Category   `json:"category"`
	XPReward    int                     `json:"xp_reward"`
	Unlocked    bool                    `json:"unlocked"`
	UnlockedAt  *time.Time              `json:"unlocked_at,omitempty"`
	Progress    float64                 `json:"progress"`
}

// Overview returns the full catalog with per-entry unlock state and
// progress for the player, in catalog order, along with the player record.
func (w *Workflow) Overview(playerID string) ([]AchievementStatus, *activity.Player, error) {
	player, err := w.store.Player(playerID)
	if err != nil {
		return nil, nil, err
	}
	snap, err := activity.LoadSnapshot(w.store, playerID)
	if err != nil {
		return nil, nil, fmt.Errorf("loading activity for player %s: %w", playerID, err)
	}

	catalog := w.engine.Catalog()
	out := make([]AchievementStatus, 0, len(catalog))
	for _, def := range catalog {
		status := AchievementStatus{
			ID:          def.ID,
			Name:        def.Name,
			Description: def.Description,
			Icon:        def.Icon,
			Category:    def.Category,
			XPReward:    def.XPReward,
			Progress:    achievements.ProgressValue(def, player, snap),
		}
		if at, ok := player.Unlocked[def.ID]; ok {
			status.Unlocked = true
			t := at
			status.UnlockedAt = &t
		}
		out = append(out, status)
	}
	return out, player, nil
}

// playerLock returns the mutex serializing evaluation for one player.
func (w *Workflow) playerLock(playerID string) *sync.Mutex {
	w.mu.Lock()
	defer w.mu.Unlock()
	lock, ok := w.locks[playerID]
	if !ok {
		lock = &sync.Mutex{}
		w.locks[playerID] = lock
	}
	return lock
}

// updateStreak maintains the consecutive-day streak fields read by the
// StreakDays requirement. Same-day repeats leave the streak unchanged;
// a next-day session extends it; any longer gap resets it to 1. Sessions
// recorded out of order (before the last training date) are ignored.
func updateStreak(p *activity.Player, startedAt time.Time) {
	day := time.Date(startedAt.Year(), startedAt.Month(), startedAt.Day(), 0, 0, 0, 0, time.UTC)

	switch {
	case p.LastTrainingDate == nil:
		p.CurrentStreak = 1
	case day.Equal(*p.LastTrainingDate):
		return
	case day.Equal(p.LastTrainingDate.AddDate(0, 0, 1)):
		p.CurrentStreak++
	case day.After(*p.LastTrainingDate):
		p.CurrentStreak = 1
	default:
		return
	}

	p.LastTrainingDate = &day
	if p.CurrentStreak > p.LongestStreak {
		p.LongestStreak = p.CurrentStreak
	}
}
