package training

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matchfit/backend/internal/achievements"
	"github.com/matchfit/backend/internal/activity"
)

// memStore is an in-memory Store for workflow tests. It also serves as
// the engine's XP and persistence sinks so the full completion path runs.
type memStore struct {
	player   *activity.Player
	sessions []activity.Session

	playerErr  error
	recordErr  error
	saveErr    error
	sessionErr error

	saveCalls int
}

func newMemStore() *memStore {
	return &memStore{
		player: &activity.Player{ID: "p1", DisplayName: "Test Player", Unlocked: map[string]time.Time{}},
	}
}

func (m *memStore) Player(id string) (*activity.Player, error) {
	if m.playerErr != nil {
		return nil, m.playerErr
	}
	return m.player, nil
}

func (m *memStore) SavePlayer(p *activity.Player) error {
	m.saveCalls++
	return m.saveErr
}

func (m *memStore) RecordSession(s *activity.Session) error {
	if m.recordErr != nil {
		return m.recordErr
	}
	m.sessions = append(m.sessions, *s)
	return nil
}

func (m *memStore) SessionsOf(string) ([]activity.Session, error) {
	return m.sessions, m.sessionErr
}

func (m *memStore) ExercisesOf(string) ([]activity.Exercise, error) { return nil, nil }

func (m *memStore) SkillSnapshotsOf(string) ([]activity.SkillSnapshot, error) { return nil, nil }

func (m *memStore) Award(p *activity.Player, amount int) error {
	p.TotalXP += amount
	return nil
}

func (m *memStore) SaveUnlocks(*activity.Player) error { return nil }

func newTestWorkflow(store *memStore) *Workflow {
	engine := achievements.NewEngine(store, store, store)
	return NewWorkflow(store, engine)
}

func TestCompleteSession_RecordsAndUnlocks(t *testing.T) {
	store := newMemStore()
	wf := newTestWorkflow(store)

	var unlocked []string
	wf.OnUnlock(func(playerID string, def achievements.Definition) {
		assert.Equal(t, "p1", playerID)
		unlocked = append(unlocked, def.ID)
	})

	session := &activity.Session{DurationMinutes: 30}
	result, err := wf.CompleteSession("p1", session)
	require.NoError(t, err)

	assert.Equal(t, "p1", session.PlayerID)
	assert.False(t, session.StartedAt.IsZero(), "zero StartedAt should be defaulted")
	require.Len(t, store.sessions, 1)

	require.Len(t, result.NewlyUnlocked, 1)
	assert.Equal(t, "first_training", result.NewlyUnlocked[0].ID)
	assert.Equal(t, []string{"first_training"}, unlocked)
	assert.Equal(t, 50, result.TotalXP)
	assert.Equal(t, 1, result.CurrentStreak)
}

func TestCompleteSession_PlayerLookupFailureAborts(t *testing.T) {
	store := newMemStore()
	store.playerErr = errors.New("no such player")
	wf := newTestWorkflow(store)

	_, err := wf.CompleteSession("ghost", &activity.Session{DurationMinutes: 30})
	require.Error(t, err)
	assert.Empty(t, store.sessions)
}

func TestCompleteSession_RecordFailureAborts(t *testing.T) {
	store := newMemStore()
	store.recordErr = errors.New("disk full")
	wf := newTestWorkflow(store)

	_, err := wf.CompleteSession("p1", &activity.Session{DurationMinutes: 30})
	require.Error(t, err)
	assert.Zero(t, store.saveCalls, "streak must not be saved when the session was not recorded")
}

func TestCompleteSession_EvaluationFailureDoesNotFailSession(t *testing.T) {
	store := newMemStore()
	store.sessionErr = errors.New("read timeout")
	wf := newTestWorkflow(store)

	called := false
	wf.OnUnlock(func(string, achievements.Definition) { called = true })

	result, err := wf.CompleteSession("p1", &activity.Session{DurationMinutes: 30})
	require.NoError(t, err, "session completion must survive an evaluation failure")
	assert.Len(t, store.sessions, 1)
	assert.Empty(t, result.NewlyUnlocked)
	assert.False(t, called)
}

func TestUpdateStreak(t *testing.T) {
	d := func(day int) time.Time {
		return time.Date(2025, time.June, day, 14, 30, 0, 0, time.UTC)
	}

	t.Run("first session starts at one", func(t *testing.T) {
		p := &activity.Player{}
		updateStreak(p, d(1))
		assert.Equal(t, 1, p.CurrentStreak)
		assert.Equal(t, 1, p.LongestStreak)
		require.NotNil(t, p.LastTrainingDate)
	})

	t.Run("same day leaves the streak alone", func(t *testing.T) {
		p := &activity.Player{}
		updateStreak(p, d(1))
		updateStreak(p, d(1).Add(4*time.Hour))
		assert.Equal(t, 1, p.CurrentStreak)
	})

	t.Run("consecutive days extend", func(t *testing.T) {
		p := &activity.Player{}
		for day := 1; day <= 5; day++ {
			updateStreak(p, d(day))
		}
		assert.Equal(t, 5, p.CurrentStreak)
		assert.Equal(t, 5, p.LongestStreak)
	})

	t.Run("a gap resets to one but keeps the longest", func(t *testing.T) {
		p := &activity.Player{}
		for day := 1; day <= 4; day++ {
			updateStreak(p, d(day))
		}
		updateStreak(p, d(10))
		assert.Equal(t, 1, p.CurrentStreak)
		assert.Equal(t, 4, p.LongestStreak)
	})

	t.Run("out of order sessions are ignored", func(t *testing.T) {
		p := &activity.Player{}
		updateStreak(p, d(10))
		updateStreak(p, d(3))
		assert.Equal(t, 1, p.CurrentStreak)
		require.NotNil(t, p.LastTrainingDate)
		assert.Equal(t, 10, p.LastTrainingDate.Day())
	})
}

func TestOverview_ReportsUnlockStateAndProgress(t *testing.T) {
	store := newMemStore()
	wf := newTestWorkflow(store)

	_, err := wf.CompleteSession("p1", &activity.Session{DurationMinutes: 30})
	require.NoError(t, err)

	statuses, player, err := wf.Overview("p1")
	require.NoError(t, err)
	require.NotNil(t, player)
	require.NotEmpty(t, statuses)

	byID := make(map[string]AchievementStatus, len(statuses))
	for _, s := range statuses {
		byID[s.ID] = s
	}

	first := byID["first_training"]
	assert.True(t, first.Unlocked)
	require.NotNil(t, first.UnlockedAt)
	assert.Equal(t, 1.0, first.Progress)

	ten := byID["sessions_10"]
	assert.False(t, ten.Unlocked)
	assert.Nil(t, ten.UnlockedAt)
	assert.InDelta(t, 0.1, ten.Progress, 1e-9)
}

func TestCompleteSession_SerializedPerPlayer(t *testing.T) {
	store := newMemStore()
	wf := newTestWorkflow(store)

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func(day int) {
			defer func() { done <- struct{}{} }()
			_, err := wf.CompleteSession("p1", &activity.Session{
				StartedAt:       time.Date(2025, time.June, day+1, 9, 0, 0, 0, time.UTC),
				DurationMinutes: 30,
			})
			assert.NoError(t, err)
		}(i)
	}
	for i := 0; i < 8; i++ {
		<-done
	}

	assert.Len(t, store.sessions, 8)
	assert.True(t, store.player.IsUnlocked("first_training"))
}
