package achievements

import (
	"fmt"
	"time"

	"github.com/matchfit/backend/internal/activity"
)

// XPAwarder credits experience points to a player. Implementations are
// expected to persist the credit themselves; the engine does not retry a
// failed award and does not roll one back.
type XPAwarder interface {
	Award(player *activity.Player, amount int) error
}

// Persister commits a player's mutated unlocked set in a single write.
type Persister interface {
	SaveUnlocks(player *activity.Player) error
}

// Engine evaluates the achievement catalog against a player's activity
// history, awards XP for new unlocks, and persists the grown unlocked set.
//
// The engine is not safe for concurrent CheckAndUnlock calls on the same
// player: it reads then writes the unlocked set without a transactional
// guard. Callers must serialize evaluation per player (the training
// workflow does this with a per-player lock). Calls for different players
// are independent.
type Engine struct {
	catalog []Definition
	store   activity.Store
	xp      XPAwarder
	persist Persister
}

// NewEngine creates an engine over the built-in catalog with explicitly
// injected collaborators.
func NewEngine(store activity.Store, xp XPAwarder, persist Persister) *Engine {
	return &Engine{
		catalog: buildCatalog(),
		store:   store,
		xp:      xp,
		persist: persist,
	}
}

// Catalog returns a copy of the full achievement catalog in its canonical
// order.
func (e *Engine) Catalog() []Definition {
	out := make([]Definition, len(e.catalog))
	copy(out, e.catalog)
	return out
}

// CheckAndUnlock evaluates every locked catalog entry for the player in
// catalog order and returns the newly unlocked definitions, empty when
// nothing newly qualifies. Calling it again with no new activity returns
// an empty list.
//
// XP is awarded per unlock as soon as the entry qualifies; the unlocked
// set is persisted once at the end. A failure partway through is returned
// to the caller, but unlocks already applied in memory and XP already
// awarded stay applied — the next evaluation re-checks anything that
// failed to persist.
func (e *Engine) CheckAndUnlock(player *activity.Player) ([]Definition, error) {
	snap, err := activity.LoadSnapshot(e.store, player.ID)
	if err != nil {
		return nil, fmt.Errorf("loading activity for player %s: %w", player.ID, err)
	}

	var newly []Definition
	var awardErr error
	for _, def := range e.catalog {
		if player.IsUnlocked(def.ID) {
			continue
		}
		if !Satisfied(def.Requirement, player, snap) {
			continue
		}
		if player.Unlocked == nil {
			player.Unlocked = make(map[string]time.Time)
		}
		player.Unlocked[def.ID] = time.Now().UTC()
		newly = append(newly, def)

		if err := e.xp.Award(player, def.XPReward); err != nil {
			awardErr = fmt.Errorf("awarding %d xp for %s: %w", def.XPReward, def.ID, err)
			break
		}
	}

	if len(newly) > 0 {
		if err := e.persist.SaveUnlocks(player); err != nil && awardErr == nil {
			awardErr = fmt.Errorf("saving unlocks for player %s: %w", player.ID, err)
		}
	}
	return newly, awardErr
}

// IsUnlocked reports whether the player has unlocked the given id.
// Unknown ids are false, not an error: the id space is open by design.
func (e *Engine) IsUnlocked(id string, player *activity.Player) bool {
	return player.IsUnlocked(id)
}

// UnlockedAchievements returns the player's unlocked definitions in
// catalog order.
func (e *Engine) UnlockedAchievements(player *activity.Player) []Definition {
	var out []Definition
	for _, def := range e.catalog {
		if player.IsUnlocked(def.ID) {
			out = append(out, def)
		}
	}
	return out
}

// LockedAchievements returns the player's still-locked definitions in
// catalog order.
func (e *Engine) LockedAchievements(player *activity.Player) []Definition {
	var out []Definition
	for _, def := range e.catalog {
		if !player.IsUnlocked(def.ID) {
			out = append(out, def)
		}
	}
	return out
}

// Progress returns the player's completion fraction toward def. It reads
// the activity store; use ProgressValue directly when a snapshot is
// already in hand.
func (e *Engine) Progress(def Definition, player *activity.Player) (float64, error) {
	snap, err := activity.LoadSnapshot(e.store, player.ID)
	if err != nil {
		return 0, fmt.Errorf("loading activity for player %s: %w", player.ID, err)
	}
	return ProgressValue(def, player, snap), nil
}
